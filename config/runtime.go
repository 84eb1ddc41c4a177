package config

import (
	"os"

	"github.com/BurntSushi/toml"

	cerrors "boot-go/errors"
	"boot-go/logging"

	"log/slog"
)

// RuntimeOptions are the two fields the runtime config contributes to
// the BEAM child's environment (SPEC_FULL.md §4.2).
type RuntimeOptions struct {
	// Env is "dev" or "prod"; any other value, or an unset field,
	// defaults to "dev".
	Env string
	// HTTPPort is a positive integer; zero means "unset, use default".
	HTTPPort int
}

type rawRuntimeConfig struct {
	Env      string `toml:"env"`
	HTTPPort int    `toml:"http_port"`
}

const defaultRuntimeEnv = "dev"

// LoadRuntimeConfig parses path as TOML into RuntimeOptions. Absence of
// the file, a parse error, or an out-of-range field all degrade to
// defaults with a logged warning rather than an error.
func LoadRuntimeConfig(path string, logger *slog.Logger) RuntimeOptions {
	if logger == nil {
		logger = logging.Default()
	}

	opts := RuntimeOptions{Env: defaultRuntimeEnv}

	if path == "" {
		return opts
	}
	if _, err := os.Stat(path); err != nil {
		logger.Warn("runtime config not found, using defaults", slog.String("path", path))
		return opts
	}

	var raw rawRuntimeConfig
	meta, err := toml.DecodeFile(path, &raw)
	if err != nil {
		logger.Warn("runtime config unreadable, using defaults",
			slog.String("path", path),
			slog.String("error", cerrors.Wrap(err, cerrors.ErrConfig, "load runtime config").Error()))
		return opts
	}
	for _, key := range meta.Undecoded() {
		logger.Debug("ignoring unknown runtime config key", slog.String("key", key.String()))
	}

	if raw.Env == "dev" || raw.Env == "prod" {
		opts.Env = raw.Env
	} else if raw.Env != "" {
		logger.Warn("runtime config env must be dev or prod, defaulting",
			slog.String("got", raw.Env))
	}

	if raw.HTTPPort > 0 && raw.HTTPPort <= 65535 {
		opts.HTTPPort = raw.HTTPPort
	} else if raw.HTTPPort != 0 {
		logger.Warn("runtime config http_port must be in 1-65535, ignoring",
			slog.Int("got", raw.HTTPPort))
	}

	return opts
}
