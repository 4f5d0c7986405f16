package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"
)

type AppCfg struct {
	Env      string
	Port     string
	LogLevel string
}

type DBCfg struct {
	Driver         string // postgres | memory
	DSN            string
	ConnectRetries uint64
}

type RedisCfg struct {
	Addr     string
	CacheTTL time.Duration
}

type AuthCfg struct {
	Domain      string
	Audience    string
	JWKSURL     string
	HS256Secret string
}

type HTTPCfg struct {
	CORSOrigins     []string
	RateLimitPerMin int
}

type Cfg struct {
	App   AppCfg
	DB    DBCfg
	Redis RedisCfg
	Auth  AuthCfg
	HTTP  HTTPCfg
}

// Issuer is the expected token issuer, derived from the Auth0 domain.
func (a AuthCfg) Issuer() string {
	if a.Domain == "" {
		return ""
	}
	return "https://" + a.Domain + "/"
}

// JWKS returns the key set URL, defaulting to the domain's well-known path.
func (a AuthCfg) JWKS() string {
	if a.JWKSURL != "" {
		return a.JWKSURL
	}
	if a.Domain == "" {
		return ""
	}
	return "https://" + a.Domain + "/.well-known/jwks.json"
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("APP_ENV", "dev")
	v.SetDefault("APP_PORT", "8080")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("DB_DRIVER", "postgres")
	v.SetDefault("DB_CONNECT_RETRIES", 5)
	v.SetDefault("CATEGORY_CACHE_TTL", "10m")
	v.SetDefault("CORS_ALLOWED_ORIGINS", "*")
	v.SetDefault("RATE_LIMIT_PER_MIN", 300)
}

// Load reads .env (if present) and the process environment, exiting on
// invalid settings.
func Load() Cfg {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		log.Warn().Err(err).Msg(".env not loaded")
	}

	v := viper.New()
	v.AutomaticEnv()
	cfg := FromViper(v)
	if err := cfg.Validate(); err != nil {
		log.Fatal().Err(err).Msg("invalid config")
	}
	return cfg
}

// FromViper builds the config from v after applying defaults.
func FromViper(v *viper.Viper) Cfg {
	setDefaults(v)
	return Cfg{
		App: AppCfg{
			Env:      v.GetString("APP_ENV"),
			Port:     v.GetString("APP_PORT"),
			LogLevel: v.GetString("LOG_LEVEL"),
		},
		DB: DBCfg{
			Driver:         strings.ToLower(strings.TrimSpace(v.GetString("DB_DRIVER"))),
			DSN:            v.GetString("DB_DSN"),
			ConnectRetries: v.GetUint64("DB_CONNECT_RETRIES"),
		},
		Redis: RedisCfg{
			Addr:     v.GetString("REDIS_ADDR"),
			CacheTTL: v.GetDuration("CATEGORY_CACHE_TTL"),
		},
		Auth: AuthCfg{
			Domain:      strings.TrimSpace(v.GetString("AUTH0_DOMAIN")),
			Audience:    v.GetString("API_AUDIENCE"),
			JWKSURL:     v.GetString("AUTH_JWKS_URL"),
			HS256Secret: v.GetString("AUTH_HS256_SECRET"),
		},
		HTTP: HTTPCfg{
			CORSOrigins:     splitList(v.GetString("CORS_ALLOWED_ORIGINS")),
			RateLimitPerMin: v.GetInt("RATE_LIMIT_PER_MIN"),
		},
	}
}

// Validate reports the first problem with required settings.
func (c Cfg) Validate() error {
	switch c.DB.Driver {
	case "postgres":
		if c.DB.DSN == "" {
			return errors.New("DB_DSN is required when DB_DRIVER=postgres")
		}
	case "memory":
	default:
		return fmt.Errorf("unknown DB_DRIVER %q", c.DB.Driver)
	}
	if c.HTTP.RateLimitPerMin < 0 {
		return errors.New("RATE_LIMIT_PER_MIN must not be negative")
	}
	if c.Auth.HS256Secret != "" && c.App.Env != "dev" && c.App.Env != "test" {
		return errors.New("AUTH_HS256_SECRET is only allowed when APP_ENV is dev or test")
	}
	return nil
}

func splitList(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
