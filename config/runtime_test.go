package config

import "testing"

func TestLoadRuntimeConfig_MissingFileDefaults(t *testing.T) {
	opts := LoadRuntimeConfig("", nil)
	if opts.Env != "dev" {
		t.Errorf("Env = %q, want %q", opts.Env, "dev")
	}
	if opts.HTTPPort != 0 {
		t.Errorf("HTTPPort = %d, want 0", opts.HTTPPort)
	}
}

func TestLoadRuntimeConfig_ValidFields(t *testing.T) {
	path := writeTemp(t, "runtime.toml", `
env = "prod"
http_port = 4567
`)
	opts := LoadRuntimeConfig(path, nil)
	if opts.Env != "prod" {
		t.Errorf("Env = %q, want %q", opts.Env, "prod")
	}
	if opts.HTTPPort != 4567 {
		t.Errorf("HTTPPort = %d, want 4567", opts.HTTPPort)
	}
}

func TestLoadRuntimeConfig_InvalidEnvDefaults(t *testing.T) {
	path := writeTemp(t, "runtime.toml", `env = "staging"`)
	opts := LoadRuntimeConfig(path, nil)
	if opts.Env != "dev" {
		t.Errorf("Env = %q, want default %q for invalid value", opts.Env, "dev")
	}
}

func TestLoadRuntimeConfig_NonPositivePortIgnored(t *testing.T) {
	path := writeTemp(t, "runtime.toml", `http_port = -5`)
	opts := LoadRuntimeConfig(path, nil)
	if opts.HTTPPort != 0 {
		t.Errorf("HTTPPort = %d, want 0 for negative input", opts.HTTPPort)
	}
}

func TestLoadRuntimeConfig_OutOfRangePortIgnored(t *testing.T) {
	path := writeTemp(t, "runtime.toml", `http_port = 99999`)
	opts := LoadRuntimeConfig(path, nil)
	if opts.HTTPPort != 0 {
		t.Errorf("HTTPPort = %d, want 0 for a port above 65535", opts.HTTPPort)
	}
}
