package main

import (
	"github.com/spf13/cobra"

	"github.com/stability-party/spbot/internal/version"
)

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print spbot version",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			cmd.Println(version.GetInfo())
		},
	}
}
