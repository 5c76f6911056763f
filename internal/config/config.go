package config

import (
	"errors"

	"github.com/caarlos0/env/v8"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

// Config holds every process-level setting. Values come from the
// environment, optionally seeded from a local .env file.
type Config struct {
	HTTPAddr           string `env:"HTTP_ADDR" envDefault:":8080"`
	DBConnectionString string `env:"DB_CONNECTION_STRING"`
	JWTSecret          string `env:"JWT_SECRET"`
}

func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		logrus.Info("no .env file found, continuing with system environment variables")
	}

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, err
	}

	if cfg.DBConnectionString == "" {
		return nil, errors.New("missing DB_CONNECTION_STRING in environment variables")
	}
	if cfg.JWTSecret == "" {
		return nil, errors.New("no JWT_SECRET provided")
	}
	return cfg, nil
}
