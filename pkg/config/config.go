package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

// ConfigPathEnvVar names the environment variable pointing at a YAML config file.
const ConfigPathEnvVar = "CONFIG_PATH"

// DefaultConfigPaths are searched when CONFIG_PATH is unset.
var DefaultConfigPaths = []string{"config.yaml", "config.yml"}

// Config holds process configuration. Keys match the environment variable
// names, lower-cased.
type Config struct {
	Port        string `koanf:"port"`
	Env         string `koanf:"env"`
	MetricsPort string `koanf:"metrics_port"`

	DBDriver          string `koanf:"db_driver"` // postgres or sqlite
	PostgresURL       string `koanf:"postgres_url"`
	SQLitePath        string `koanf:"sqlite_path"`
	NotificationStore string `koanf:"notification_store"` // sql or mongo
	MongoURI          string `koanf:"mongo_uri"`
	MongoDatabase     string `koanf:"mongo_database"`

	JWTSecret               string        `koanf:"jwt_secret"`
	JWTTTL                  time.Duration `koanf:"jwt_ttl"`
	FirebaseCredentialsPath string        `koanf:"firebase_credentials_path"`

	LogLevel  string `koanf:"log_level"`
	LogFormat string `koanf:"log_format"`
}

func defaultConfig() Config {
	return Config{
		Port:              "8080",
		Env:               "development",
		MetricsPort:       "9090",
		DBDriver:          "postgres",
		SQLitePath:        "social.db",
		NotificationStore: "sql",
		MongoDatabase:     "socialmedia",
		JWTSecret:         "supersecretjwtkey",
		JWTTTL:            72 * time.Hour,
		LogLevel:          "info",
		LogFormat:         "json",
	}
}

// Load reads configuration from defaults, an optional YAML file and the
// environment, in increasing order of precedence. A .env file, if present,
// is loaded into the environment first.
func Load() (*Config, error) {
	// Missing .env is fine; the environment may already be set.
	_ = godotenv.Load()

	k := koanf.New(".")
	defaults := defaultConfig()
	if err := k.Load(structs.Provider(&defaults, "koanf"), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	if path := findConfigFile(); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", path, err)
		}
	}

	if err := k.Load(env.Provider("", ".", strings.ToLower), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	return cfg, nil
}

// Validate checks that the selected drivers have what they need.
func (c *Config) Validate() error {
	var problems []error

	switch c.DBDriver {
	case "postgres":
		if c.PostgresURL == "" {
			problems = append(problems, errors.New("POSTGRES_URL is required when DB_DRIVER=postgres"))
		}
	case "sqlite":
		if c.SQLitePath == "" {
			problems = append(problems, errors.New("SQLITE_PATH is required when DB_DRIVER=sqlite"))
		}
	default:
		problems = append(problems, fmt.Errorf("unknown DB_DRIVER %q (want postgres or sqlite)", c.DBDriver))
	}

	switch c.NotificationStore {
	case "sql":
	case "mongo":
		if c.MongoURI == "" {
			problems = append(problems, errors.New("MONGO_URI is required when NOTIFICATION_STORE=mongo"))
		}
	default:
		problems = append(problems, fmt.Errorf("unknown NOTIFICATION_STORE %q (want sql or mongo)", c.NotificationStore))
	}

	if c.JWTTTL <= 0 {
		problems = append(problems, errors.New("JWT_TTL must be positive"))
	}
	if c.IsProduction() && (c.JWTSecret == "" || c.JWTSecret == defaultConfig().JWTSecret) {
		problems = append(problems, errors.New("JWT_SECRET must be set in production"))
	}
	return errors.Join(problems...)
}

// IsProduction reports whether ENV is production.
func (c *Config) IsProduction() bool {
	return strings.EqualFold(c.Env, "production")
}

func findConfigFile() string {
	if path := os.Getenv(ConfigPathEnvVar); path != "" {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	for _, path := range DefaultConfigPaths {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}
