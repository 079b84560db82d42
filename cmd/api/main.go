// Command api serves the battle API.
//
// @title        Battle API
// @version      1.0
// @description  Two-factor authentication, battle logs and PokeAPI relay.
// @BasePath     /
//
// @securityDefinitions.apikey  BearerAuth
// @in                          header
// @name                        Authorization
//
// @securityDefinitions.basic  BasicAuth
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/pokebattle/battle-api/internal/api"
	"github.com/pokebattle/battle-api/internal/api/handler"
	"github.com/pokebattle/battle-api/internal/core/service"
	"github.com/pokebattle/battle-api/internal/infrastructure/config"
	mongodb "github.com/pokebattle/battle-api/internal/infrastructure/db/mongo"
	redisdb "github.com/pokebattle/battle-api/internal/infrastructure/db/redis"
	"github.com/pokebattle/battle-api/internal/infrastructure/ftp"
	"github.com/pokebattle/battle-api/internal/infrastructure/mail"
	"github.com/pokebattle/battle-api/internal/infrastructure/otp"
	"github.com/pokebattle/battle-api/internal/infrastructure/pokeapi"
	"github.com/pokebattle/battle-api/internal/infrastructure/queue"
	"github.com/pokebattle/battle-api/pkg/logger"
)

const shutdownTimeout = 10 * time.Second

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(ctx)
	if err != nil {
		bootLog := zerolog.New(os.Stderr)
		bootLog.Fatal().Err(err).Msg("load config")
	}

	log := logger.Init(logger.Options{
		Service:     "battle-api",
		Level:       cfg.LogLevel,
		Development: cfg.Development(),
	})

	if err := run(ctx, cfg, log); err != nil {
		log.Fatal().Err(err).Msg("battle-api stopped")
	}
}

func run(ctx context.Context, cfg *config.Config, log zerolog.Logger) error {
	// --- Storage ---
	mongoClient, db, err := mongodb.Connect(ctx, mongodb.Config{
		URI:      cfg.Mongo.URI,
		Database: cfg.Mongo.Database,
	})
	if err != nil {
		return err
	}
	defer func() {
		dctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := mongoClient.Disconnect(dctx); err != nil {
			log.Error().Err(err).Msg("mongo disconnect")
		}
	}()
	if err := mongodb.EnsureSchema(ctx, db); err != nil {
		return err
	}

	rdb, err := redisdb.Connect(ctx, redisdb.Config{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err != nil {
		return err
	}
	defer func() {
		if err := rdb.Close(); err != nil {
			log.Error().Err(err).Msg("redis close")
		}
	}()

	users := mongodb.NewUserRepository(db)
	roles := mongodb.NewRoleRepository(db)
	battleLogs := mongodb.NewBattleLogRepository(db)

	// --- Notifications ---
	mailer, err := mail.New(mail.Config{
		Host:          cfg.SMTP.Host,
		Port:          cfg.SMTP.Port,
		AuthProtocol:  cfg.SMTP.AuthProtocol,
		Username:      cfg.SMTP.Username,
		Password:      cfg.SMTP.Password,
		Timeout:       cfg.SMTP.Timeout,
		MaxConns:      cfg.SMTP.MaxConns,
		TLSType:       cfg.SMTP.TLSType,
		TLSSkipVerify: cfg.SMTP.TLSSkipVerify,
		ResetURL:      cfg.Auth.ResetURL,
	})
	if err != nil {
		return err
	}
	defer mailer.Close()

	dispatcherCtx, cancelDispatcher := context.WithCancel(context.Background())
	defer cancelDispatcher()
	dispatcher := queue.NewDispatcher(queue.Options{
		Workers:     cfg.Notify.Workers,
		MaxAttempts: cfg.Notify.MaxAttempts,
		Backoff:     cfg.Notify.Backoff,
	}, mailer, log.With().Str("component", "dispatcher").Logger())
	dispatcher.Start(dispatcherCtx)

	// --- Services ---
	generator, err := otp.NewTOTPGenerator(cfg.OTP.Secret)
	if err != nil {
		return err
	}
	if cfg.OTP.Secret == "" {
		log.Warn().Msg("OTP_SECRET is empty, pending codes will not survive a restart")
	}

	accounts := service.NewUserService(
		users, roles, dispatcher,
		service.NewActionTokens(cfg.Auth.ResetSecret, service.AudienceReset, cfg.Auth.ResetTokenTTL),
		service.NewActionTokens(cfg.Auth.VerificationSecret, service.AudienceVerify, cfg.Auth.VerifyTokenTTL),
		log.With().Str("component", "users").Logger(),
	)
	sessions := service.NewSessionService(
		redisdb.NewSessionStore(rdb), users,
		cfg.Auth.JWTSecret, cfg.Auth.TokenTTL,
		log.With().Str("component", "sessions").Logger(),
	)
	login := service.NewLoginService(
		accounts, generator, redisdb.NewOTPCache(rdb), dispatcher, sessions,
		service.LoginOptions{OTPTTL: cfg.OTP.TTL, RequireVerification: cfg.Auth.RequireVerification},
		log.With().Str("component", "login").Logger(),
	)
	battles := service.NewBattleService(battleLogs, mailer, log.With().Str("component", "battles").Logger())
	pokemons := service.NewPokemonService(
		pokeapi.NewClient(pokeapi.Config{BaseURL: cfg.PokeAPI.BaseURL, Timeout: cfg.PokeAPI.Timeout}),
		redisdb.NewResponseCache(rdb, ""),
		ftp.NewUploader(ftp.Config{Host: cfg.FTP.Host, Port: cfg.FTP.Port, Timeout: cfg.FTP.Timeout}, log),
		cfg.PokeAPI.CacheTTL,
		log.With().Str("component", "pokemon").Logger(),
	)

	// --- HTTP ---
	e := api.NewRouter(api.Deps{
		Login:    login,
		Accounts: accounts,
		Sessions: sessions,
		Battles:  battles,
		Pokemons: pokemons,
		Health: map[string]handler.HealthCheck{
			"mongo": func(ctx context.Context) error { return mongoClient.Ping(ctx, nil) },
			"redis": func(ctx context.Context) error { return rdb.Ping(ctx).Err() },
		},
		Cookie:      handler.CookieConfig{Name: cfg.Auth.CookieName, Secure: cfg.Auth.CookieSecure},
		CORSOrigins: cfg.CORSOrigins,
		Log:         log,
	})

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("port", cfg.Port).Msg("starting http server")
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info().Msg("shutting down")
	sctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := e.Shutdown(sctx); err != nil {
		log.Error().Err(err).Msg("http shutdown")
	}
	return nil
}
