package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/viper"
)

func chdirTemp(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	oldWD, err := os.Getwd()
	if err != nil {
		t.Fatalf("get wd failed: %v", err)
	}
	t.Cleanup(func() {
		_ = os.Chdir(oldWD)
	})
	if err := os.Chdir(dir); err != nil {
		t.Fatalf("chdir failed: %v", err)
	}
	return dir
}

func TestLoadFromDefaults(t *testing.T) {
	chdirTemp(t)

	cfg, err := LoadFrom(viper.New())
	if err != nil {
		t.Fatalf("load config failed: %v", err)
	}
	if cfg.Server.Port != "8080" {
		t.Fatalf("server.port want 8080 got %s", cfg.Server.Port)
	}
	if cfg.Session.CookieName != "user_id" {
		t.Fatalf("session.cookie_name want user_id got %s", cfg.Session.CookieName)
	}
	if cfg.Session.MaxAgeHours != 168 {
		t.Fatalf("session.max_age_hours want 168 got %d", cfg.Session.MaxAgeHours)
	}
	if cfg.Security.PasswordMinLength != 6 {
		t.Fatalf("password min length want 6 got %d", cfg.Security.PasswordMinLength)
	}
	if cfg.Trending.Take != 5 {
		t.Fatalf("trending.take want 5 got %d", cfg.Trending.Take)
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("default config should validate: %v", err)
	}
}

func TestLoadFromEnvFileAndYAML(t *testing.T) {
	dir := chdirTemp(t)

	yml := "server:\n  port: \"9090\"\ndatabase:\n  driver: postgres\n"
	if err := os.WriteFile(filepath.Join(dir, "config.yml"), []byte(yml), 0o644); err != nil {
		t.Fatalf("write config failed: %v", err)
	}
	env := "TRENDING_TAKE=3\n"
	if err := os.WriteFile(filepath.Join(dir, ".env"), []byte(env), 0o644); err != nil {
		t.Fatalf("write env failed: %v", err)
	}
	t.Cleanup(func() {
		_ = os.Unsetenv("TRENDING_TAKE")
	})

	cfg, err := LoadFrom(viper.New(), ".env")
	if err != nil {
		t.Fatalf("load config failed: %v", err)
	}
	if cfg.Server.Port != "9090" {
		t.Fatalf("server.port want 9090 got %s", cfg.Server.Port)
	}
	if cfg.Database.Driver != "postgres" {
		t.Fatalf("database.driver want postgres got %s", cfg.Database.Driver)
	}
	if cfg.Trending.Take != 3 {
		t.Fatalf("trending.take want 3 from .env got %d", cfg.Trending.Take)
	}
}

func TestValidate(t *testing.T) {
	base := func() *Config {
		return &Config{
			JWT:      JWTConfig{SecretKey: "secret"},
			Database: DatabaseConfig{Driver: "sqlite"},
			Session:  SessionConfig{CookieName: "user_id", MaxAgeHours: 168, CSRFSecret: "x"},
			Security: SecurityConfig{CSRF: CSRFConfig{Enabled: true}},
		}
	}

	cases := []struct {
		name    string
		mutate  func(c *Config)
		wantErr bool
	}{
		{name: "ok", mutate: func(c *Config) {}},
		{name: "missing secret", mutate: func(c *Config) { c.JWT.SecretKey = " " }, wantErr: true},
		{name: "bad driver", mutate: func(c *Config) { c.Database.Driver = "oracle" }, wantErr: true},
		{name: "zero max age", mutate: func(c *Config) { c.Session.MaxAgeHours = 0 }, wantErr: true},
		{name: "csrf without secret", mutate: func(c *Config) { c.Session.CSRFSecret = "" }, wantErr: true},
		{name: "csrf disabled without secret", mutate: func(c *Config) {
			c.Session.CSRFSecret = ""
			c.Security.CSRF.Enabled = false
		}},
		{name: "bad captcha", mutate: func(c *Config) { c.Captcha.Provider = "turnstile" }, wantErr: true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := base()
			tc.mutate(cfg)
			err := cfg.Validate()
			if tc.wantErr && err == nil {
				t.Fatalf("expected error")
			}
			if !tc.wantErr && err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
		})
	}
}
