package config

import (
	"os"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"

	"bootd/internal/failure"
)

// Config holds application configuration values.
type Config struct {
	Env  string `validate:"required,oneof=dev prod"`
	HTTP struct {
		Addr string `validate:"required,hostname_port"`
	}
	Log struct {
		ConsoleLevel string `validate:"required,oneof=debug info warn error"`
		FileLevel    string `validate:"required,oneof=debug info warn error"`
		File         string
	}
	Store struct {
		Path string `validate:"required"`
	}
	Postgres struct {
		DSN string
	}
}

var validate = validator.New()

// Load reads configuration from environment variables and optional .env file.
// Any problem is returned as a context initialization failure.
func Load() (Config, error) {
	_ = godotenv.Load()

	var c Config
	c.Env = getenv("ENV", "prod")
	c.HTTP.Addr = getenv("HTTP_ADDR", ":8080")
	c.Log.ConsoleLevel = strings.ToLower(getenv("LOG_CONSOLE_LEVEL", "info"))
	c.Log.FileLevel = strings.ToLower(getenv("LOG_FILE_LEVEL", "debug"))
	c.Log.File = getenv("LOG_FILE", "data/logs/bootd.log")
	c.Store.Path = getenv("STORE_PATH", "data/bootd.db")
	c.Postgres.DSN = os.Getenv("POSTGRES_DSN")

	if err := Validate(c); err != nil {
		return Config{}, err
	}
	return c, nil
}

// Validate checks c against its struct tags.
func Validate(c Config) error {
	if err := validate.Struct(c); err != nil {
		return failure.Wrap(failure.CategoryContextInit, "invalid configuration", err)
	}
	return nil
}

func getenv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}
