package config

import (
	"errors"
	"fmt"
	"os"

	"checkmkmcp/pkg/logging"

	"gopkg.in/yaml.v3"
)

// EnvPasswordVar is the environment variable used to supply the Checkmk
// automation-user secret without putting it in config.yaml.
const EnvPasswordVar = "CHECKMK_PASSWORD"

// Load reads configuration from path, overlaying it on Default(). A missing
// file is not an error: the defaults are returned as-is.
func Load(path string) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			logging.Info("ConfigLoader", "no config file at %s, using defaults", path)
			return applyEnv(cfg), nil
		}
		return Config{}, fmt.Errorf("reading config %s: %w", path, err)
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("parsing config %s: %w", path, err)
	}

	return applyEnv(cfg), nil
}

// applyEnv overlays secret environment variables onto a loaded config.
func applyEnv(cfg Config) Config {
	if v := os.Getenv(EnvPasswordVar); v != "" {
		cfg.Checkmk.Password = v
	}
	return cfg
}
