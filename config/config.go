// Package config reads service settings from the environment. A .env file in
// the working directory is loaded first when present.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

const (
	EnvLocal = "local"
	EnvDev   = "dev"
	EnvProd  = "prod"
)

const (
	StoreFirestore = "firestore"
	StoreMemory    = "memory"
)

type Config struct {
	Env      string `env:"ENV" envDefault:"local"`
	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`

	HTTP HTTPConfig
	JWT  JWTConfig

	// Store selects the persistence backend, firestore or memory.
	Store           string `env:"STORE_BACKEND" envDefault:"firestore"`
	CredentialsFile string `env:"GOOGLE_APPLICATION_CREDENTIALS"`
	ProjectID       string `env:"FIREBASE_PROJECT_ID"`
}

type HTTPConfig struct {
	Host            string        `env:"HTTP_HOST" envDefault:""`
	Port            string        `env:"PORT" envDefault:"8080"`
	ShutdownTimeout time.Duration `env:"HTTP_SHUTDOWN_TIMEOUT" envDefault:"5s"`
	AllowedOrigins  []string      `env:"CORS_ALLOWED_ORIGINS" envSeparator:","`
}

type JWTConfig struct {
	SecretKey      string        `env:"JWT_SECRET_KEY,required,notEmpty"`
	Issuer         string        `env:"JWT_ISSUER" envDefault:"helpexchange"`
	AccessTokenTTL time.Duration `env:"JWT_ACCESS_TOKEN_TTL" envDefault:"24h"`
}

func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	switch c.Env {
	case EnvLocal, EnvDev, EnvProd:
	default:
		return fmt.Errorf("unknown env: %s", c.Env)
	}
	switch c.Store {
	case StoreMemory:
	case StoreFirestore:
		if c.CredentialsFile == "" {
			return errors.New("GOOGLE_APPLICATION_CREDENTIALS is required for the firestore backend")
		}
	default:
		return fmt.Errorf("unknown store backend: %s", c.Store)
	}
	return nil
}
