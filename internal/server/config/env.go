package config

import (
	"fmt"
	"os"

	"github.com/caarlos0/env/v6"
	"github.com/joho/godotenv"
)

// envPrefix namespaces every variable, e.g. MESSAGELY_DATABASE_DSN.
const envPrefix = "MESSAGELY_"

// dotEnvFile is loaded when present; real environment variables win over it.
var dotEnvFile = ".env"

// parseEnv overlays values from the environment. Unset variables keep the
// value already in config.
func parseEnv(config *Config) error {
	if _, err := os.Stat(dotEnvFile); err == nil {
		if err := godotenv.Load(dotEnvFile); err != nil {
			return fmt.Errorf("error loading %s: %w", dotEnvFile, err)
		}
	}

	if err := env.Parse(config, env.Options{Prefix: envPrefix}); err != nil {
		return fmt.Errorf("error parsing environment: %w", err)
	}

	return nil
}
