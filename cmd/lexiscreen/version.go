package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/kailas-cloud/lexiscreen/internal/version"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the current version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintln(cmd.OutOrStdout(), "lexiscreen", version.String())
	},
}
