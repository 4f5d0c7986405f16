package config

import (
	"testing"
	"time"

	"github.com/spf13/viper"
)

func TestDefaults(t *testing.T) {
	cfg := FromViper(viper.New())
	if cfg.App.Env != "dev" || cfg.App.Port != "8080" {
		t.Fatalf("unexpected app defaults: %+v", cfg.App)
	}
	if cfg.DB.Driver != "postgres" || cfg.DB.ConnectRetries != 5 {
		t.Fatalf("unexpected db defaults: %+v", cfg.DB)
	}
	if cfg.Redis.CacheTTL != 10*time.Minute {
		t.Fatalf("unexpected cache ttl: %v", cfg.Redis.CacheTTL)
	}
	if len(cfg.HTTP.CORSOrigins) != 1 || cfg.HTTP.CORSOrigins[0] != "*" {
		t.Fatalf("unexpected cors origins: %v", cfg.HTTP.CORSOrigins)
	}
	if cfg.HTTP.RateLimitPerMin != 300 {
		t.Fatalf("unexpected rate limit: %d", cfg.HTTP.RateLimitPerMin)
	}
}

func TestOverrides(t *testing.T) {
	v := viper.New()
	v.Set("DB_DRIVER", " Memory ")
	v.Set("CORS_ALLOWED_ORIGINS", "http://a.test, http://b.test,")
	v.Set("AUTH0_DOMAIN", "tenant.auth0.com")
	cfg := FromViper(v)

	if cfg.DB.Driver != "memory" {
		t.Fatalf("driver = %q", cfg.DB.Driver)
	}
	if len(cfg.HTTP.CORSOrigins) != 2 || cfg.HTTP.CORSOrigins[1] != "http://b.test" {
		t.Fatalf("origins = %v", cfg.HTTP.CORSOrigins)
	}
	if cfg.Auth.Issuer() != "https://tenant.auth0.com/" {
		t.Fatalf("issuer = %q", cfg.Auth.Issuer())
	}
	if cfg.Auth.JWKS() != "https://tenant.auth0.com/.well-known/jwks.json" {
		t.Fatalf("jwks = %q", cfg.Auth.JWKS())
	}
	if err := cfg.Validate(); err != nil {
		t.Fatal(err)
	}
}

func TestValidate(t *testing.T) {
	base := func() Cfg {
		cfg := FromViper(viper.New())
		cfg.DB.DSN = "postgres://localhost/db"
		return cfg
	}

	cases := []struct {
		name   string
		mutate func(*Cfg)
		ok     bool
	}{
		{"defaults with dsn", func(*Cfg) {}, true},
		{"missing dsn", func(c *Cfg) { c.DB.DSN = "" }, false},
		{"memory without dsn", func(c *Cfg) { c.DB.Driver, c.DB.DSN = "memory", "" }, true},
		{"unknown driver", func(c *Cfg) { c.DB.Driver = "sqlite" }, false},
		{"negative rate limit", func(c *Cfg) { c.HTTP.RateLimitPerMin = -1 }, false},
		{"shared secret in prod", func(c *Cfg) { c.App.Env, c.Auth.HS256Secret = "prod", "s" }, false},
		{"shared secret in test", func(c *Cfg) { c.App.Env, c.Auth.HS256Secret = "test", "s" }, true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := base()
			tc.mutate(&cfg)
			err := cfg.Validate()
			if tc.ok && err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !tc.ok && err == nil {
				t.Fatal("expected error")
			}
		})
	}
}
