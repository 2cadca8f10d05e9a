package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"time"

	"github.com/caarlos0/env/v10"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

type Mode string

const (
	ModeLocal Mode = "local"
	ModeGCP   Mode = "gcp"
)

const (
	StorageMemory    = "memory"
	StorageSQLite    = "sqlite"
	StoragePostgres  = "postgres"
	StorageFirestore = "firestore"

	DrafterTemplate = "template"
	DrafterVertex   = "vertex"
)

// EnvPrefix is prepended to every environment variable name.
const EnvPrefix = "TASKTALK_"

// Config is loaded from defaults, then an optional YAML file
// (TASKTALK_CONFIG_FILE), then TASKTALK_* environment variables.
type Config struct {
	Mode Mode `yaml:"mode" env:"MODE"`
	Port int  `yaml:"port" env:"PORT"`

	LogLevel  string `yaml:"log_level" env:"LOG_LEVEL"`
	LogFormat string `yaml:"log_format" env:"LOG_FORMAT"`

	StorageBackend string `yaml:"storage_backend" env:"STORAGE_BACKEND"`
	DatabaseDSN    string `yaml:"database_dsn" env:"DATABASE_DSN"`

	GCPProjectID string `yaml:"gcp_project" env:"GCP_PROJECT"`
	GCPLocation  string `yaml:"gcp_location" env:"GCP_LOCATION"`
	ModelName    string `yaml:"model_name" env:"MODEL_NAME"`
	Drafter      string `yaml:"drafter" env:"DRAFTER"`

	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" env:"SHUTDOWN_TIMEOUT"`
}

func defaults() Config {
	return Config{
		Mode:            ModeLocal,
		Port:            8080,
		LogLevel:        "info",
		LogFormat:       "json",
		StorageBackend:  StorageMemory,
		GCPLocation:     "us-central1",
		ModelName:       "gemini-2.5-flash-lite",
		Drafter:         DrafterTemplate,
		ShutdownTimeout: 10 * time.Second,
	}
}

// Load builds the config. In local mode a .env file in the working
// directory is loaded first when present.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}
	return load(os.Getenv(EnvPrefix + "CONFIG_FILE"))
}

func load(file string) (*Config, error) {
	cfg := defaults()

	if file != "" {
		raw, err := os.ReadFile(file)
		if err != nil {
			return nil, fmt.Errorf("read config file: %w", err)
		}
		if err := yaml.Unmarshal(raw, &cfg); err != nil {
			return nil, fmt.Errorf("parse config file %s: %w", file, err)
		}
	}

	if err := env.ParseWithOptions(&cfg, env.Options{Prefix: EnvPrefix}); err != nil {
		return nil, fmt.Errorf("parse env config: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	c.Mode = Mode(strings.ToLower(string(c.Mode)))
	if c.Mode != ModeLocal && c.Mode != ModeGCP {
		return fmt.Errorf("unknown mode %q", c.Mode)
	}
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("invalid port %d", c.Port)
	}

	switch c.StorageBackend {
	case StorageMemory:
	case StorageSQLite, StoragePostgres:
		if strings.TrimSpace(c.DatabaseDSN) == "" {
			return fmt.Errorf("%sDATABASE_DSN is required for the %s storage backend", EnvPrefix, c.StorageBackend)
		}
	case StorageFirestore:
		if c.GCPProjectID == "" {
			return fmt.Errorf("%sGCP_PROJECT is required for the firestore storage backend", EnvPrefix)
		}
	default:
		return fmt.Errorf("unknown storage backend %q", c.StorageBackend)
	}

	switch c.Drafter {
	case DrafterTemplate:
	case DrafterVertex:
		if c.GCPProjectID == "" || c.GCPLocation == "" {
			return fmt.Errorf("%sGCP_PROJECT and %sGCP_LOCATION are required for the vertex drafter", EnvPrefix, EnvPrefix)
		}
	default:
		return fmt.Errorf("unknown drafter %q", c.Drafter)
	}

	if c.Mode == ModeGCP && c.GCPProjectID == "" {
		return fmt.Errorf("%sGCP_PROJECT must be set in gcp mode", EnvPrefix)
	}
	return nil
}

// Addr returns the HTTP listen address.
func (c *Config) Addr() string {
	return fmt.Sprintf(":%d", c.Port)
}
