package server

import (
	"time"

	"github.com/gofiber/fiber/v2"
)

// Config holds configuration for the HTTP server.
type Config struct {
	// Port is the port where the server will listen.
	Port string `mapstructure:"port" default:"8080"`
	// Name is reported in the Server header and startup log.
	Name string `mapstructure:"name" default:"furniture-store"`
	// TimeoutSeconds bounds reading a request and writing its response.
	TimeoutSeconds int `mapstructure:"timeout_seconds" default:"15"`
	// BodyLimitKB caps the request body size.
	BodyLimitKB int `mapstructure:"body_limit_kb" default:"512"`
}

// Address returns the listen address for the configured port.
func (c Config) Address() string {
	return ":" + c.Port
}

// FiberConfig translates the server settings into a fiber configuration.
// Zero or negative values fall back to fiber's defaults.
func (c Config) FiberConfig() fiber.Config {
	fc := fiber.Config{
		DisableStartupMessage: true,
		AppName:               c.Name,
		ServerHeader:          c.Name,
	}
	if c.TimeoutSeconds > 0 {
		fc.ReadTimeout = time.Duration(c.TimeoutSeconds) * time.Second
		fc.WriteTimeout = time.Duration(c.TimeoutSeconds) * time.Second
	}
	if c.BodyLimitKB > 0 {
		fc.BodyLimit = c.BodyLimitKB * 1024
	}
	return fc
}
