// boot-go is the boot daemon and process supervisor for the live-coding
// music environment: it discovers free UDP ports, reads optional user
// configuration, and boots the audio engine, runtime server, and
// BEAM-based IO server, supervising all three until told to exit.
package main

import (
	"os"

	"boot-go/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
