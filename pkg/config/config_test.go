package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestLoadLayers(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	yaml := "port: \"9000\"\ndb_driver: sqlite\nsqlite_path: from-file.db\nlog_level: debug\n"
	if err := os.WriteFile(path, []byte(yaml), 0o600); err != nil {
		t.Fatal(err)
	}
	t.Setenv(ConfigPathEnvVar, path)
	t.Setenv("SQLITE_PATH", "from-env.db")
	t.Setenv("JWT_TTL", "90m")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Port != "9000" {
		t.Errorf("Port = %q, want 9000 from file", cfg.Port)
	}
	if cfg.SQLitePath != "from-env.db" {
		t.Errorf("SQLitePath = %q, want env to override file", cfg.SQLitePath)
	}
	if cfg.JWTTTL != 90*time.Minute {
		t.Errorf("JWTTTL = %v, want 90m", cfg.JWTTTL)
	}
	if cfg.MetricsPort != "9090" || cfg.NotificationStore != "sql" {
		t.Errorf("defaults not applied: %+v", cfg)
	}
	if cfg.LogLevel != "debug" {
		t.Errorf("LogLevel = %q, want debug", cfg.LogLevel)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"defaults with postgres url", func(c *Config) { c.PostgresURL = "postgres://localhost/social" }, ""},
		{"missing postgres url", func(c *Config) {}, "POSTGRES_URL"},
		{"unknown driver", func(c *Config) { c.DBDriver = "mysql" }, "DB_DRIVER"},
		{"mongo without uri", func(c *Config) {
			c.DBDriver = "sqlite"
			c.NotificationStore = "mongo"
		}, "MONGO_URI"},
		{"default secret in production", func(c *Config) {
			c.DBDriver = "sqlite"
			c.Env = "production"
		}, "JWT_SECRET"},
		{"custom secret in production", func(c *Config) {
			c.DBDriver = "sqlite"
			c.Env = "production"
			c.JWTSecret = "s3cret"
		}, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := defaultConfig()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Fatalf("Validate: %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("err = %v, want mention of %s", err, tt.wantErr)
			}
		})
	}
}
