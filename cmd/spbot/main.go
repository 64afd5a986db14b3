package main

import (
	"os"

	"github.com/spf13/cobra"
)

func main() {
	root := &cobra.Command{
		Use:   "spbot",
		Short: "Discord bot for the Stability Party board game event",
	}
	root.PersistentFlags().StringP("config", "c", "", "path to config.toml")
	root.AddCommand(runCmd())
	root.AddCommand(registerCmd())
	root.AddCommand(versionCmd())
	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}
