package formatter

import (
	"bytes"

	"github.com/lexyai/drafter/internal/pkg/wordml"
)

const (
	docxContentType   = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
	docxFileExtension = ".docx"
)

type DOCXFormatter struct{}

func NewDOCXFormatter() *DOCXFormatter {
	return &DOCXFormatter{}
}

func (mf *DOCXFormatter) Format(text string) ([]byte, error) {
	var paragraphs []wordml.Paragraph
	for i, block := range ParseBlocks(text) {
		if block.Kind == BlockHeading && i > 0 {
			paragraphs = append(paragraphs, wordml.Paragraph{})
		}

		para := wordml.Paragraph{}
		size, bold := 11.0, false
		switch block.Kind {
		case BlockHeading:
			para.Style = "Heading1"
			size, bold = 14, true
		case BlockSubheading:
			para.Style = "Heading2"
			size, bold = 12, true
		case BlockListItem:
			block.Text = "- " + block.Text
		}

		for _, seg := range SplitPlaceholders(block.Text) {
			para.Runs = append(para.Runs, wordml.Run{
				Text: seg.Text,
				Bold: bold || seg.Emphasis,
				Size: size,
			})
		}
		paragraphs = append(paragraphs, para)
	}

	var buf bytes.Buffer
	if err := wordml.Write(&buf, paragraphs); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (mf *DOCXFormatter) ContentType() string {
	return docxContentType
}

func (mf *DOCXFormatter) FileExtension() string {
	return docxFileExtension
}
