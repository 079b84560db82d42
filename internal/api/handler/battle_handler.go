package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/pokebattle/battle-api/internal/core/ports"
)

type BattleHandler struct {
	battles ports.BattleService
}

func NewBattleHandler(battles ports.BattleService) *BattleHandler {
	return &BattleHandler{battles: battles}
}

// SendMail mails a battle summary to the given address.
//
// @Summary      Mail a battle report
// @Tags         battles
// @Accept       json
// @Produce      json
// @Param        mail  query     string     true  "Recipient"
// @Param        body  body      logSchema  true  "Battle outcome"
// @Success      200   {object}  logSchema
// @Failure      422   {object}  map[string]string
// @Failure      500   {object}  map[string]string
// @Router       /send_mail [post]
func (h *BattleHandler) SendMail(c echo.Context) error {
	q := sendMailQuery{Mail: c.QueryParam("mail")}
	if err := c.Validate(&q); err != nil {
		return err
	}

	var body logSchema
	if err := c.Bind(&body); err != nil {
		return bindError(err)
	}
	if err := c.Validate(&body); err != nil {
		return err
	}

	entry, err := h.battles.MailReport(c.Request().Context(), q.Mail, body.toInput())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toLogSchema(entry))
}

// AddToDB stores a battle log for the current user.
//
// @Summary      Record a battle
// @Tags         battles
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      logSchema  true  "Battle outcome"
// @Success      201   {object}  logSchema
// @Failure      401   {object}  map[string]string
// @Failure      422   {object}  map[string]string
// @Router       /add_to_db [post]
func (h *BattleHandler) AddToDB(c echo.Context) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}

	var body logSchema
	if err := c.Bind(&body); err != nil {
		return bindError(err)
	}
	if err := c.Validate(&body); err != nil {
		return err
	}

	entry, err := h.battles.Record(c.Request().Context(), user.ID, body.toInput())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, toLogSchema(entry))
}
