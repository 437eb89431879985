package main

import (
	"encoding/json"
	"fmt"

	"github.com/lexyai/drafter/internal/pkg/outline"
	"github.com/spf13/cobra"
)

var outlineMaxSections int

var outlineCmd = &cobra.Command{
	Use:   "outline <file.docx>",
	Short: "Print the outline extracted from a .docx precedent",
	Long: `Extracts title, front matter, sections and {{placeholders}} from a precedent.
With --max-sections the sections are merged the way a draft would use them.`,
	Args: cobra.ExactArgs(1),
	RunE: runOutline,
}

func init() {
	outlineCmd.Flags().IntVar(&outlineMaxSections, "max-sections", 0, "merge sections down to at most this many (0 keeps them all)")
}

func runOutline(cmd *cobra.Command, args []string) error {
	parsed, err := outline.FromFile(args[0])
	if err != nil {
		return fmt.Errorf("extract outline: %w", err)
	}

	if outlineMaxSections > 0 {
		parsed.Sections = outline.BoundSections(parsed.Sections, outlineMaxSections)
	}

	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(parsed)
}
