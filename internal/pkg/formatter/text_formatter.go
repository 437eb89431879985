package formatter

import "strings"

const (
	textContentType   = "text/plain; charset=utf-8"
	textFileExtension = ".txt"
)

type TextFormatter struct{}

func NewTextFormatter() *TextFormatter {
	return &TextFormatter{}
}

func (tf *TextFormatter) Format(text string) ([]byte, error) {
	return []byte(strings.TrimSpace(text) + "\n"), nil
}

func (tf *TextFormatter) ContentType() string {
	return textContentType
}

func (tf *TextFormatter) FileExtension() string {
	return textFileExtension
}
