package formatter

import (
	"strings"
)

const (
	markdownContentType   = "text/markdown; charset=utf-8"
	markdownFileExtension = ".md"
)

type MarkdownFormatter struct{}

func NewMarkdownFormatter() *MarkdownFormatter {
	return &MarkdownFormatter{}
}

func (mf *MarkdownFormatter) Format(text string) ([]byte, error) {
	return []byte(toMarkdown(text)), nil
}

func (mf *MarkdownFormatter) ContentType() string {
	return markdownContentType
}

func (mf *MarkdownFormatter) FileExtension() string {
	return markdownFileExtension
}

// toMarkdown renders headings as ATX headings and bolds placeholders.
func toMarkdown(text string) string {
	var sb strings.Builder
	for i, block := range ParseBlocks(text) {
		if i > 0 && block.Kind != BlockListItem {
			sb.WriteString("\n")
		}
		switch block.Kind {
		case BlockHeading:
			sb.WriteString("## " + block.Text)
		case BlockSubheading:
			sb.WriteString("### " + block.Text)
		case BlockListItem:
			sb.WriteString("- " + markdownInline(block.Text))
		default:
			sb.WriteString(markdownInline(block.Text))
		}
		sb.WriteString("\n")
	}
	return sb.String()
}

func markdownInline(text string) string {
	var sb strings.Builder
	for _, seg := range SplitPlaceholders(text) {
		if seg.Emphasis {
			sb.WriteString("**" + seg.Text + "**")
			continue
		}
		sb.WriteString(seg.Text)
	}
	return sb.String()
}
