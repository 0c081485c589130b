// Package config reads the service settings from the environment. An optional .env file in the
// working directory is loaded first; variables that are already set are never overridden.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"gitlab.com/dirk.krummacker/businesscard-service/internal/logging"
)

// Config holds the runtime settings.
type Config struct {
	Port       string // PORT
	DBHost     string // DBHOST, host:port of the MySQL server
	DBUser     string // DBUSER
	DBPassword string // DBPWD
	DBName     string // DBNAME
	GinLogging bool   // GIN_LOGGING, "off" disables gin's request log
	LogLevel   string // LOG_LEVEL
	LogFormat  string // LOG_FORMAT
}

// Load builds a Config from a .env file (if present) and the environment.
//
// Usage example:
//
//	> PORT=8080 DBHOST=localhost:3306 DBUSER=dirk DBPWD=bullo92 GIN_LOGGING=off go run ./cmd/service
func Load() *Config {
	_ = godotenv.Load()
	return &Config{
		Port:       getEnv("PORT", "8080"),
		DBHost:     getEnv("DBHOST", "localhost:3306"),
		DBUser:     getEnv("DBUSER", "root"),
		DBPassword: getEnv("DBPWD", ""),
		DBName:     getEnv("DBNAME", "test"),
		GinLogging: !strings.EqualFold(os.Getenv("GIN_LOGGING"), "off"),
		LogLevel:   getEnv("LOG_LEVEL", "info"),
		LogFormat:  getEnv("LOG_FORMAT", "text"),
	}
}

// Validate reports the first setting that cannot be used.
func (c *Config) Validate() error {
	if _, err := strconv.Atoi(c.Port); err != nil {
		return fmt.Errorf("could not parse PORT %q: %w", c.Port, err)
	}
	if _, err := logging.ParseLevel(c.LogLevel); err != nil {
		return err
	}
	switch strings.ToLower(c.LogFormat) {
	case "text", "json":
	default:
		return fmt.Errorf("unknown LOG_FORMAT %q", c.LogFormat)
	}
	return nil
}

// Addr is the listen address of the HTTP server.
func (c *Config) Addr() string {
	return ":" + c.Port
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
