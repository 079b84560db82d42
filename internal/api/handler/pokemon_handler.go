package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/pokebattle/battle-api/internal/core/domain"
	"github.com/pokebattle/battle-api/internal/core/ports"
)

const defaultListLimit = 20

type PokemonHandler struct {
	pokemons ports.PokemonService
}

func NewPokemonHandler(pokemons ports.PokemonService) *PokemonHandler {
	return &PokemonHandler{pokemons: pokemons}
}

// Get relays a single pokemon from PokeAPI.
//
// @Summary      Get pokemon
// @Tags         pokemon
// @Produce      json
// @Param        name  path      string  true  "Pokemon name or id"
// @Success      200   {object}  domain.Pokemon
// @Failure      404   {object}  map[string]string
// @Failure      422   {object}  map[string]string
// @Router       /pokemon/{name} [get]
func (h *PokemonHandler) Get(c echo.Context) error {
	p, err := h.pokemons.Get(c.Request().Context(), c.Param("name"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, p)
}

// List relays the PokeAPI listing unchanged.
//
// @Summary      List pokemons
// @Tags         pokemon
// @Produce      json
// @Param        limit  query     int  false  "Number of results"  default(20)
// @Success      200    {object}  map[string]any
// @Failure      422    {object}  map[string]string
// @Router       /pokemons/ [get]
func (h *PokemonHandler) List(c echo.Context) error {
	limit := defaultListLimit
	if raw := c.QueryParam("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			return echo.NewHTTPError(http.StatusUnprocessableEntity, "Invalid limit value")
		}
		limit = n
	}

	raw, err := h.pokemons.List(c.Request().Context(), limit)
	if err != nil {
		return err
	}
	return c.JSONBlob(http.StatusOK, raw)
}

// Save uploads a markdown card for the pokemon to the caller's FTP account.
// FTP credentials travel as HTTP Basic auth.
//
// @Summary      Export pokemon to FTP
// @Tags         pokemon
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Security     BasicAuth
// @Param        body  body      domain.Pokemon  true  "Pokemon"
// @Success      201   {object}  domain.Pokemon
// @Failure      401   {object}  map[string]string
// @Failure      422   {object}  map[string]string
// @Failure      500   {object}  map[string]string
// @Router       /save_pokemon [post]
func (h *PokemonHandler) Save(c echo.Context) error {
	username, password, ok := c.Request().BasicAuth()
	if !ok {
		c.Response().Header().Set(echo.HeaderWWWAuthenticate, `Basic realm="ftp"`)
		return echo.NewHTTPError(http.StatusUnauthorized, "Not authenticated")
	}

	var p domain.Pokemon
	if err := c.Bind(&p); err != nil {
		return bindError(err)
	}
	if err := c.Validate(&p); err != nil {
		return err
	}

	creds := ports.FTPCredentials{Username: username, Password: password}
	if err := h.pokemons.Export(c.Request().Context(), creds, &p); err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, p)
}
