// Package config loads the daemon's two optional user configuration
// files: audio options for the synthesis engine, and a handful of
// environment fields for the BEAM-based IO server.
package config

import (
	"os"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"

	cerrors "boot-go/errors"
	"boot-go/logging"

	"log/slog"
)

// audioKeyFlags is the fixed conversion table from human-readable audio
// config keys to the audio engine's single-letter command flags
// (SPEC_FULL.md GLOSSARY, "Audio key conversion"). Keys not present here
// are silently ignored.
var audioKeyFlags = map[string]string{
	"sound_card_sample_rate":   "-S",
	"num_inputs":               "-i",
	"num_outputs":              "-o",
	"hardware_buffer_size":     "-Z",
	"block_size":               "-z",
	"max_nodes":                "-n",
	"max_synth_defs":           "-d",
	"max_wire_buffers":         "-w",
	"real_time_memory_locking": "-L",
	"hardware_device_name":     "-H",
	"verbosity":                "-v",
}

// boolAudioKeys are keys whose values convert to "1"/"0" rather than
// being passed through as trimmed strings.
var boolAudioKeys = map[string]bool{
	"real_time_memory_locking": true,
}

// rawAudioConfig mirrors the TOML shape of the audio config file.
type rawAudioConfig struct {
	SoundCardSampleRate  *int64  `toml:"sound_card_sample_rate"`
	NumInputs            *int64  `toml:"num_inputs"`
	NumOutputs           *int64  `toml:"num_outputs"`
	HardwareBufferSize   *int64  `toml:"hardware_buffer_size"`
	BlockSize            *int64  `toml:"block_size"`
	MaxNodes             *int64  `toml:"max_nodes"`
	MaxSynthDefs         *int64  `toml:"max_synth_defs"`
	MaxWireBuffers       *int64  `toml:"max_wire_buffers"`
	RealTimeMemoryLock   *bool   `toml:"real_time_memory_locking"`
	HardwareDeviceName   *string `toml:"hardware_device_name"`
	Verbosity            *int64  `toml:"verbosity"`
	InputEnable          *bool   `toml:"enable_inputs"`
	OutputEnable         *bool   `toml:"enable_outputs"`
	ExtraFlags           string  `toml:"extra_flags"`
	Override             string  `toml:"override"`
}

// AudioOptions is the merged, flag-ready option set for the audio engine.
type AudioOptions struct {
	// Flags is the ordered list of command-line tokens, ready to append
	// after the audio engine binary and the `-u <port>` prefix.
	Flags []string
}

// LoadAudioConfig parses path as TOML into scsynth command-line options.
// Absence of the file, or a parse error, yields an empty option set and
// a logged warning — never an error the caller must handle.
func LoadAudioConfig(path string, logger *slog.Logger) AudioOptions {
	if logger == nil {
		logger = logging.Default()
	}

	raw, ok := parseAudioFile(path, logger)
	if !ok {
		return AudioOptions{}
	}

	if strings.TrimSpace(raw.Override) != "" {
		return AudioOptions{Flags: strings.Fields(raw.Override)}
	}

	opts := mergeAudioOptions(raw)

	if raw.InputEnable != nil && !*raw.InputEnable {
		opts = setFlagValue(opts, audioKeyFlags["num_inputs"], "0")
	}
	if raw.OutputEnable != nil && !*raw.OutputEnable {
		opts = setFlagValue(opts, audioKeyFlags["num_outputs"], "0")
	}

	if extra := strings.TrimSpace(raw.ExtraFlags); extra != "" {
		opts = append(opts, strings.Fields(extra)...)
	}

	return AudioOptions{Flags: opts}
}

// parseAudioFile reads and decodes the TOML file at path. Missing file or
// parse failure both report a warning and return ok=false.
func parseAudioFile(path string, logger *slog.Logger) (rawAudioConfig, bool) {
	var raw rawAudioConfig

	if path == "" {
		return raw, false
	}
	if _, err := os.Stat(path); err != nil {
		logger.Warn("audio config not found, using defaults",
			slog.String("path", path))
		return raw, false
	}

	meta, err := toml.DecodeFile(path, &raw)
	if err != nil {
		logger.Warn("audio config unreadable, using defaults",
			slog.String("path", path),
			slog.String("error", cerrors.Wrap(err, cerrors.ErrConfig, "load audio config").Error()))
		return raw, false
	}

	for _, key := range meta.Undecoded() {
		logger.Debug("ignoring unknown audio config key", slog.String("key", key.String()))
	}

	return raw, true
}

// mergeAudioOptions applies the merge order from SPEC_FULL.md §4.2:
// defaults, then OS-specific defaults, then the parsed user options.
// (The "{-u: scsynth_port}" prefix and extra flags are applied by the
// caller, not here, since the port is not known to this package.)
func mergeAudioOptions(raw rawAudioConfig) []string {
	defaults := defaultAudioOptions()
	osDefaults := osAudioDefaults()

	merged := map[string]string{}
	for k, v := range defaults {
		merged[k] = v
	}
	for k, v := range osDefaults {
		merged[k] = v
	}

	for flag, value := range userAudioOptions(raw) {
		merged[flag] = value
	}

	// Stable order: iterate audioKeyFlags in the fixed table order so
	// the resulting command line is deterministic across runs.
	var flags []string
	for _, key := range orderedAudioKeys() {
		flag := audioKeyFlags[key]
		if v, ok := merged[flag]; ok {
			flags = append(flags, flag, v)
		}
	}
	return flags
}

// orderedAudioKeys returns audioKeyFlags' keys in a fixed, stable order.
func orderedAudioKeys() []string {
	return []string{
		"sound_card_sample_rate",
		"num_inputs",
		"num_outputs",
		"hardware_buffer_size",
		"block_size",
		"max_nodes",
		"max_synth_defs",
		"max_wire_buffers",
		"real_time_memory_locking",
		"hardware_device_name",
		"verbosity",
	}
}

// defaultAudioOptions are the daemon's built-in scsynth defaults.
func defaultAudioOptions() map[string]string {
	return map[string]string{
		audioKeyFlags["sound_card_sample_rate"]: "44100",
		audioKeyFlags["num_inputs"]:             "2",
		audioKeyFlags["num_outputs"]:            "2",
		audioKeyFlags["hardware_buffer_size"]:   "1024",
		audioKeyFlags["block_size"]:             "64",
		audioKeyFlags["max_nodes"]:              "4096",
	}
}

// userAudioOptions converts the non-nil fields of raw into flag/value
// pairs using audioKeyFlags and the bool/string conversion rules.
func userAudioOptions(raw rawAudioConfig) map[string]string {
	out := map[string]string{}

	setInt := func(key string, v *int64) {
		if v != nil {
			out[audioKeyFlags[key]] = strconv.FormatInt(*v, 10)
		}
	}
	setInt("sound_card_sample_rate", raw.SoundCardSampleRate)
	setInt("num_inputs", raw.NumInputs)
	setInt("num_outputs", raw.NumOutputs)
	setInt("hardware_buffer_size", raw.HardwareBufferSize)
	setInt("block_size", raw.BlockSize)
	setInt("max_nodes", raw.MaxNodes)
	setInt("max_synth_defs", raw.MaxSynthDefs)
	setInt("max_wire_buffers", raw.MaxWireBuffers)
	setInt("verbosity", raw.Verbosity)

	if raw.RealTimeMemoryLock != nil {
		out[audioKeyFlags["real_time_memory_locking"]] = boolToFlag(*raw.RealTimeMemoryLock)
	}
	if raw.HardwareDeviceName != nil {
		out[audioKeyFlags["hardware_device_name"]] = strings.TrimSpace(*raw.HardwareDeviceName)
	}

	return out
}

func boolToFlag(b bool) string {
	if b {
		return "1"
	}
	return "0"
}

// setFlagValue overwrites (or appends) flag's value within an ordered
// flags slice of [flag, value, flag, value, ...] pairs.
func setFlagValue(flags []string, flag, value string) []string {
	for i := 0; i+1 < len(flags); i += 2 {
		if flags[i] == flag {
			flags[i+1] = value
			return flags
		}
	}
	return append(flags, flag, value)
}
