package outline

import (
	"strings"

	"github.com/lexyai/drafter/internal/entity"
)

const (
	// DefaultMaxSections bounds how many sections (and completion calls) a draft needs.
	DefaultMaxSections = 7

	combinedHeadingFallback = "Combined section"
)

// MergeSections folds stored section rows down to at most targetMax sections.
// Rows are grouped in order into chunks of ceil(len/targetMax); headings of a
// chunk are joined with " / " and non-blank bodies with a blank line.
func MergeSections(rows []entity.PrecedentSectionRow, targetMax int) []entity.PrecedentSection {
	if len(rows) == 0 {
		return nil
	}
	if targetMax <= 0 {
		targetMax = DefaultMaxSections
	}

	if len(rows) <= targetMax {
		sections := make([]entity.PrecedentSection, 0, len(rows))
		for _, row := range rows {
			sections = append(sections, entity.PrecedentSection{
				Heading: strings.TrimSpace(row.Heading),
				Body:    strings.TrimSpace(row.Text),
			})
		}
		return sections
	}

	chunkSize := (len(rows) + targetMax - 1) / targetMax
	merged := make([]entity.PrecedentSection, 0, targetMax)
	for i := 0; i < len(rows); i += chunkSize {
		end := min(i+chunkSize, len(rows))

		var headings, bodies []string
		for _, row := range rows[i:end] {
			if row.Heading != "" {
				headings = append(headings, row.Heading)
			}
			if body := strings.TrimSpace(row.Text); body != "" {
				bodies = append(bodies, body)
			}
		}

		heading := combinedHeadingFallback
		if len(headings) > 0 {
			heading = strings.Join(headings, " / ")
		}
		merged = append(merged, entity.PrecedentSection{
			Heading: heading,
			Body:    strings.Join(bodies, "\n\n"),
		})
	}
	return merged
}

// BoundSections applies MergeSections to already paired heading/body sections.
func BoundSections(sections []entity.PrecedentSection, targetMax int) []entity.PrecedentSection {
	rows := make([]entity.PrecedentSectionRow, 0, len(sections))
	for _, s := range sections {
		rows = append(rows, entity.PrecedentSectionRow{Heading: s.Heading, Text: s.Body})
	}
	return MergeSections(rows, targetMax)
}
