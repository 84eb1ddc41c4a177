package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the boot-go version",
	RunE: func(cmd *cobra.Command, args []string) error {
		fmt.Printf("boot-go %s (built %s)\n", Version, BuildTime)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
