package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"bible-scraper/canon"
)

var Version = "dev"

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version and the book manifest version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintln(cmd.OutOrStdout(), "version: ", Version)
		fmt.Fprintln(cmd.OutOrStdout(), "manifest:", canon.ManifestVersion)
	},
}

func init() {
	RootCmd.AddCommand(versionCmd)
}
