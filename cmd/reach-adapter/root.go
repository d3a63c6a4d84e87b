package main

import "github.com/spf13/cobra"

// This variable is set during build time.
var version string

var rootCmd = &cobra.Command{
	Use:   "reach-adapter",
	Short: "Reconcile caption requests between the vendor queue and the transcription service",
}

func init() {
	rootCmd.AddCommand(runCmd)
}
