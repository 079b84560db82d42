package api

import (
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"

	_ "github.com/pokebattle/battle-api/docs"
	"github.com/pokebattle/battle-api/internal/api/handler"
	"github.com/pokebattle/battle-api/internal/api/middleware"
	"github.com/pokebattle/battle-api/internal/core/ports"
)

// Deps holds everything the router wires into handlers.
type Deps struct {
	Login    ports.LoginService
	Accounts ports.AccountService
	Sessions ports.SessionAuthenticator
	Battles  ports.BattleService
	Pokemons ports.PokemonService

	Health      map[string]handler.HealthCheck
	Cookie      handler.CookieConfig
	CORSOrigins []string
	Log         zerolog.Logger
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(d Deps) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(d.Log)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(requestLogger(d.Log))
	e.Use(middleware.Metrics())
	if len(d.CORSOrigins) > 0 {
		e.Use(echomiddleware.CORSWithConfig(echomiddleware.CORSConfig{
			AllowOrigins:     d.CORSOrigins,
			AllowCredentials: true,
			AllowHeaders: []string{
				echo.HeaderContentType, echo.HeaderAuthorization, "Set-Cookie",
				echo.HeaderAccessControlAllowOrigin, echo.HeaderAccessControlAllowHeaders,
			},
		}))
	}

	requireSession := middleware.Auth(d.Sessions, d.Cookie.Name)

	// --- Auth routes ---
	authHandler := handler.NewAuthHandler(d.Login, d.Accounts, d.Cookie)
	auth := e.Group("/auth")
	auth.POST("/login", authHandler.Login)
	auth.POST("/verify-otp", authHandler.VerifyOTP)
	auth.POST("/logout", authHandler.Logout, requireSession)
	auth.POST("/register", authHandler.Register)
	auth.POST("/forgot-password", authHandler.ForgotPassword)
	auth.POST("/reset-password", authHandler.ResetPassword)
	auth.POST("/request-verify-token", authHandler.RequestVerifyToken)
	auth.POST("/verify", authHandler.Verify)

	// --- User routes ---
	userHandler := handler.NewUserHandler(d.Accounts)
	users := e.Group("/users", requireSession)
	users.GET("/me", userHandler.Me)
	users.PATCH("/me", userHandler.UpdateMe)
	users.GET("/:id", userHandler.Get, middleware.RequireSuperuser())
	users.DELETE("/:id", userHandler.Delete, middleware.RequireSuperuser())

	// --- Battle routes ---
	battleHandler := handler.NewBattleHandler(d.Battles)
	e.POST("/send_mail", battleHandler.SendMail)
	e.POST("/add_to_db", battleHandler.AddToDB, requireSession)

	// --- Pokemon routes ---
	pokemonHandler := handler.NewPokemonHandler(d.Pokemons)
	e.GET("/pokemon/:name", pokemonHandler.Get)
	e.GET("/pokemons/", pokemonHandler.List)
	e.POST("/save_pokemon", pokemonHandler.Save, requireSession)

	// --- Ops (no auth required) ---
	healthHandler := handler.NewHealthHandler(d.Health)
	e.GET("/health", healthHandler.Liveness)        // liveness  – is the process alive?
	e.GET("/health/ready", healthHandler.Readiness) // readiness – are dependencies up?
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	return e
}

func requestLogger(log zerolog.Logger) echo.MiddlewareFunc {
	return echomiddleware.RequestLoggerWithConfig(echomiddleware.RequestLoggerConfig{
		LogMethod:    true,
		LogURI:       true,
		LogStatus:    true,
		LogLatency:   true,
		LogRequestID: true,
		LogError:     true,
		LogValuesFunc: func(_ echo.Context, v echomiddleware.RequestLoggerValues) error {
			ev := log.Info()
			if v.Error != nil {
				ev = log.Warn().Err(v.Error)
			}
			ev.Str("method", v.Method).
				Str("uri", v.URI).
				Int("status", v.Status).
				Dur("latency", v.Latency).
				Str("request_id", v.RequestID).
				Msg("request")
			return nil
		},
	})
}
