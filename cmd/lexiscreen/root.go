package main

import (
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:           "lexiscreen",
	Short:         "Dyslexia risk screening service",
	Long:          "lexiscreen estimates a subject's dyslexia risk from behavioral task scores using a trained classifier. It is a screening aid, not a diagnosis.",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().String("env", "", "Config environment: local, dev, prod (overrides ENV)")
	rootCmd.PersistentFlags().String("artifacts", "", "Load artifacts from this directory instead of the configured source")

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(screenCmd)
	rootCmd.AddCommand(publishCmd)
	rootCmd.AddCommand(versionCmd)
}
