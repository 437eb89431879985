package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "precedent-cli",
	Short: "Inspect and ingest .docx contract precedents",
	Long: `Tools for the precedent catalog the drafter works from.

Available subcommands:
  outline - Print the outline extracted from a .docx precedent
  ingest  - Extract precedents and store them against the contract catalog`,
	SilenceUsage: true,
}

func main() {
	rootCmd.AddCommand(outlineCmd, ingestCmd)
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
