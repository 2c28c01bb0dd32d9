// Package main provides the entry point for the job board API server.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "jobboard",
	Short: "Job board API server",
	Long:  "Job board serves postings, applications, evaluations and notifications over REST, and pushes new postings to browsers over WebSocket.",
	// Errors are printed by main.
	SilenceUsage:  true,
	SilenceErrors: true,
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
