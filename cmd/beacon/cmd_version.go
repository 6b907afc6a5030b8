package main

import (
	"fmt"
	"runtime/debug"

	"github.com/spf13/cobra"

	"github.com/JaimeStill/beacon/internal/aids"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, _ []string) {
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "beacon %s\n", version)
		fmt.Fprintf(out, "record format %s\n", aids.MetadataVersion)
		if info, ok := debug.ReadBuildInfo(); ok {
			fmt.Fprintf(out, "go %s\n", info.GoVersion)
		}
	},
}
