package config

import "runtime"

// osAudioDefaults returns the platform-specific scsynth defaults applied
// after the daemon's built-in defaults and before parsed user options
// (SPEC_FULL.md §4.2 merge order).
func osAudioDefaults() map[string]string {
	switch runtime.GOOS {
	case "darwin":
		return map[string]string{
			audioKeyFlags["hardware_buffer_size"]: "512",
		}
	case "linux":
		return map[string]string{
			audioKeyFlags["real_time_memory_locking"]: "1",
		}
	default:
		return map[string]string{}
	}
}
