package cli

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"

	"github.com/roach88/orb/internal/loader"
)

// Environment variables read by LoadConfig. Flags override them.
const (
	EnvFormat        = "ORB_FORMAT"
	EnvAutoWire      = "ORB_AUTOWIRE"
	EnvStrictEdges   = "ORB_STRICT_EDGES"
	EnvRuleCacheSize = "ORB_RULE_CACHE_SIZE"
)

// Config holds defaults taken from the environment.
type Config struct {
	Format        string
	AutoWire      bool
	StrictEdges   bool
	RuleCacheSize int
}

// DefaultConfig returns the configuration used when nothing is set.
func DefaultConfig() Config {
	return Config{
		Format:        "text",
		RuleCacheSize: loader.DefaultCacheSize,
	}
}

// LoadConfig reads configuration from the environment, after loading a
// .env file from the working directory if one exists.
func LoadConfig() (Config, error) {
	_ = godotenv.Load()
	return configFromEnv(os.Getenv)
}

func configFromEnv(getenv func(string) string) (Config, error) {
	cfg := DefaultConfig()

	if v := getenv(EnvFormat); v != "" {
		cfg.Format = v
	}

	var err error
	if cfg.AutoWire, err = envBool(getenv, EnvAutoWire, cfg.AutoWire); err != nil {
		return cfg, err
	}
	if cfg.StrictEdges, err = envBool(getenv, EnvStrictEdges, cfg.StrictEdges); err != nil {
		return cfg, err
	}

	if v := getenv(EnvRuleCacheSize); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			return cfg, fmt.Errorf("%s must be a non-negative integer, got %q", EnvRuleCacheSize, v)
		}
		cfg.RuleCacheSize = n
	}

	return cfg, nil
}

func envBool(getenv func(string) string, key string, def bool) (bool, error) {
	v := getenv(key)
	if v == "" {
		return def, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return def, fmt.Errorf("%s must be a boolean, got %q", key, v)
	}
	return b, nil
}
