package formatter

import (
	"regexp"
	"strings"
	"unicode"
)

// BlockKind classifies one rendered unit of contract text.
type BlockKind int

const (
	BlockParagraph BlockKind = iota
	BlockHeading
	BlockSubheading
	BlockListItem
)

const maxHeadingLength = 140

type Block struct {
	Kind BlockKind
	Text string
}

// Segment is a run of text; Emphasis marks placeholders that still need filling in.
type Segment struct {
	Text     string
	Emphasis bool
}

var (
	toBeConfirmedRe = regexp.MustCompile(`(?i)\[?\(?\s*TO BE CONFIRMED\s*\)?\]?`)
	subheadingRe    = regexp.MustCompile(`^\d+(\.\d+)+\s+`)
	mainHeadingRe   = regexp.MustCompile(`^\d+(\.\d+)*\s+`)
	listItemRe      = regexp.MustCompile(`^[-*]\s+`)
	placeholderRe   = regexp.MustCompile(`(?i)\[[^\]]+\]|TO BE CONFIRMED`)
)

// ParseBlocks splits plain contract text into headings, list items and
// paragraphs. Consecutive body lines are joined into one paragraph.
func ParseBlocks(text string) []Block {
	var (
		blocks []Block
		buffer []string
	)
	flush := func() {
		if len(buffer) == 0 {
			return
		}
		merged := strings.Join(strings.Fields(strings.Join(buffer, " ")), " ")
		if merged != "" {
			blocks = append(blocks, Block{Kind: BlockParagraph, Text: merged})
		}
		buffer = nil
	}

	for _, raw := range strings.Split(strings.ReplaceAll(text, "\r\n", "\n"), "\n") {
		line := strings.TrimSpace(raw)
		if line == "" {
			flush()
			continue
		}

		if listItemRe.MatchString(line) {
			flush()
			blocks = append(blocks, Block{Kind: BlockListItem, Text: listItemRe.ReplaceAllString(line, "")})
			continue
		}

		if kind, heading, ok := headingInfo(line); ok {
			flush()
			blocks = append(blocks, Block{Kind: kind, Text: heading})
			continue
		}

		buffer = append(buffer, line)
	}
	flush()

	return blocks
}

func headingInfo(line string) (BlockKind, string, bool) {
	trimmed := strings.TrimSpace(toBeConfirmedRe.ReplaceAllString(line, ""))
	if trimmed == "" || len([]rune(trimmed)) > maxHeadingLength {
		return 0, "", false
	}

	switch {
	case subheadingRe.MatchString(trimmed):
		return BlockSubheading, trimmed, true
	case mainHeadingRe.MatchString(trimmed):
		return BlockHeading, trimmed, true
	case strings.HasSuffix(trimmed, ":"):
		return BlockHeading, strings.TrimSuffix(trimmed, ":"), true
	case trimmed == strings.ToUpper(trimmed) && strings.IndexFunc(trimmed, unicode.IsUpper) >= 0:
		return BlockHeading, trimmed, true
	}
	return 0, "", false
}

// SplitPlaceholders cuts text around "[...]" placeholders and "TO BE CONFIRMED" markers.
func SplitPlaceholders(text string) []Segment {
	var segments []Segment
	last := 0
	for _, loc := range placeholderRe.FindAllStringIndex(text, -1) {
		if loc[0] > last {
			segments = append(segments, Segment{Text: text[last:loc[0]]})
		}
		segments = append(segments, Segment{Text: text[loc[0]:loc[1]], Emphasis: true})
		last = loc[1]
	}
	if last < len(text) {
		segments = append(segments, Segment{Text: text[last:]})
	}
	return segments
}
