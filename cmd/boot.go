package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"boot-go/daemon"
	"boot-go/logging"
)

var bootOpts daemon.Options

var bootCmd = &cobra.Command{
	Use:   "boot",
	Short: "Discover ports, boot the three children, and supervise until exit",
	RunE: func(cmd *cobra.Command, args []string) error {
		if bootOpts.LogDir == "" {
			bootOpts.LogDir = globalLogDir
		}
		bootOpts.Logger = logging.Default()

		ctx := GetContext()
		if err := daemon.Boot(ctx, &bootOpts); err != nil {
			fmt.Fprintf(os.Stderr, "boot failed: %v\n", err)
			os.Exit(1)
		}
		return nil
	},
}

func init() {
	bootCmd.Flags().StringVar(&bootOpts.AudioConfigPath, "audio-config", "", "path to the audio-settings config file")
	bootCmd.Flags().StringVar(&bootOpts.RuntimeConfigPath, "runtime-config", "", "path to the runtime-settings config file")
	bootCmd.Flags().StringVar(&bootOpts.RuntimeInterpreter, "runtime-interpreter", "", "interpreter used to launch the runtime server")
	bootCmd.Flags().StringVar(&bootOpts.RuntimeEntryScript, "runtime-entry", "", "entry script for the runtime server")
	bootCmd.Flags().StringVar(&bootOpts.AudioEnginePath, "audio-engine", "", "path to the audio engine binary")
	bootCmd.Flags().StringVar(&bootOpts.BeamLauncherPath, "beam-launcher", "", "path to the BEAM child launcher script")
	bootCmd.Flags().StringVar(&bootOpts.LoopbackAddr, "loopback-addr", "127.0.0.1", "loopback address for all UDP listeners")
	bootCmd.Flags().StringVar(&bootOpts.RuntimeEnvOverride, "env", "", "override the BEAM child's runtime environment (dev or prod)")
	bootCmd.Flags().BoolVar(&bootOpts.MidiEnabled, "midi", false, "enable MIDI in the BEAM child")
	bootCmd.Flags().BoolVar(&bootOpts.LinkEnabled, "link", false, "enable Ableton Link in the BEAM child")

	rootCmd.AddCommand(bootCmd)
}
