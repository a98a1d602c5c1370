// Package main provides the entry point for the accessibility audit engine CLI.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "audit_agent",
	Short: "Web accessibility audit aggregation engine",
	Long:  "audit_agent aggregates raw accessibility findings into classified issue groups, computes conformity rates and schedules multi-year remediation plans.",
}

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
