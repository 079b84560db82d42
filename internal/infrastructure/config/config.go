package config

import (
	"context"
	"fmt"
	"time"

	"github.com/sethvargo/go-envconfig"
)

type Config struct {
	Port     string `env:"PORT,      default=8080"`
	Env      string `env:"ENV,       default=development"`
	LogLevel string `env:"LOG_LEVEL, default=info"`

	// CORSOrigins lists the browser origins allowed to call the API.
	CORSOrigins []string `env:"CORS_ORIGINS, default=http://localhost:5173"`

	Mongo   MongoConfig
	Redis   RedisConfig
	Auth    AuthConfig
	OTP     OTPConfig
	SMTP    SMTPConfig
	Notify  NotifyConfig
	FTP     FTPConfig
	PokeAPI PokeAPIConfig
}

type MongoConfig struct {
	URI      string `env:"MONGO_URI, default=mongodb://localhost:27017"`
	Database string `env:"MONGO_DB,  default=battle_api"`
}

type RedisConfig struct {
	Addr     string `env:"REDIS_ADDR,     default=localhost:6379"`
	Password string `env:"REDIS_PASSWORD"`
	DB       int    `env:"REDIS_DB,       default=0"`
}

type AuthConfig struct {
	JWTSecret           string        `env:"AUTH_SECRET, required"`
	ResetSecret         string        `env:"RESET_SECRET, required"`
	VerificationSecret  string        `env:"VERIFICATION_SECRET, required"`
	TokenTTL            time.Duration `env:"AUTH_TOKEN_TTL,            default=1h"`
	ResetTokenTTL       time.Duration `env:"RESET_TOKEN_TTL,           default=1h"`
	VerifyTokenTTL      time.Duration `env:"VERIFY_TOKEN_TTL,          default=1h"`
	RequireVerification bool          `env:"AUTH_REQUIRE_VERIFICATION, default=false"`
	CookieName          string        `env:"AUTH_COOKIE_NAME,          default=battle_auth"`
	CookieSecure        bool          `env:"AUTH_COOKIE_SECURE,        default=false"`
	ResetURL            string        `env:"RESET_PASSWORD_URL,        default=http://localhost:5173/reset-password"`
}

type OTPConfig struct {
	// Secret seeds the per-subject TOTP keys. A random secret is generated
	// at start-up when empty, which invalidates pending codes on restart.
	Secret string        `env:"OTP_SECRET"`
	TTL    time.Duration `env:"OTP_TTL, default=300s"`
}

type SMTPConfig struct {
	Host          string        `env:"SMTP_HOST,            default=smtp.yandex.ru"`
	Port          int           `env:"SMTP_PORT,            default=465"`
	Username      string        `env:"EMAIL_LOGIN,          default=default_login"`
	Password      string        `env:"EMAIL_PASSWORD,       default=default_password"`
	AuthProtocol  string        `env:"SMTP_AUTH_PROTOCOL,   default=login"`
	TLSType       string        `env:"SMTP_TLS_TYPE,        default=TLS"`
	TLSSkipVerify bool          `env:"SMTP_TLS_SKIP_VERIFY, default=false"`
	MaxConns      int           `env:"SMTP_MAX_CONNS,       default=4"`
	Timeout       time.Duration `env:"SMTP_TIMEOUT,         default=10s"`
}

type NotifyConfig struct {
	Workers     int           `env:"NOTIFY_WORKERS,      default=4"`
	MaxAttempts int           `env:"NOTIFY_MAX_ATTEMPTS, default=3"`
	Backoff     time.Duration `env:"NOTIFY_BACKOFF,      default=2s"`
}

type FTPConfig struct {
	Host    string        `env:"FTP_HOST,    default=localhost"`
	Port    int           `env:"FTP_PORT,    default=21"`
	Timeout time.Duration `env:"FTP_TIMEOUT, default=10s"`
}

type PokeAPIConfig struct {
	BaseURL  string        `env:"POKEAPI_URL,       default=https://pokeapi.co/api/v2"`
	Timeout  time.Duration `env:"POKEAPI_TIMEOUT,   default=10s"`
	CacheTTL time.Duration `env:"POKEAPI_CACHE_TTL, default=6000s"`
}

// Development reports whether the service runs with developer defaults.
func (c *Config) Development() bool {
	return c.Env == "development"
}

// Load reads configuration from environment variables using go-envconfig.
func Load(ctx context.Context) (*Config, error) {
	return load(ctx, envconfig.OsLookuper())
}

func load(ctx context.Context, l envconfig.Lookuper) (*Config, error) {
	var cfg Config
	if err := envconfig.ProcessWith(ctx, &envconfig.Config{Target: &cfg, Lookuper: l}); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	return &cfg, nil
}
