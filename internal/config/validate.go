package config

import (
	"fmt"
	"strings"
)

// Validate performs business-rule validation on the loaded configuration.
// It must be called after loading; Load calls it automatically.
//
// Vendor credentials (object storage, AI, speech, recommendation service)
// are deliberately NOT required here: their absence fails the corresponding
// call with a descriptive error, not the startup.
func (c *Config) Validate() error {
	if len(c.Auth.JWTSecret) < 32 {
		return fmt.Errorf("auth.jwt_secret must be at least 32 characters (got %d)", len(c.Auth.JWTSecret))
	}

	if c.Auth.PasswordHashCost < 4 || c.Auth.PasswordHashCost > 31 {
		return fmt.Errorf("auth.password_hash_cost must be in [4, 31] (got %d)", c.Auth.PasswordHashCost)
	}

	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port must be in [1, 65535] (got %d)", c.Server.Port)
	}

	if strings.TrimSpace(c.Local.Path) == "" {
		return fmt.Errorf("local.path must not be empty")
	}

	if c.Cooking.TickInterval <= 0 {
		return fmt.Errorf("cooking.tick_interval must be positive (got %v)", c.Cooking.TickInterval)
	}

	if c.Storage.MaxUploadSize <= 0 {
		return fmt.Errorf("storage.max_upload_size must be positive (got %d)", c.Storage.MaxUploadSize)
	}

	return nil
}
