package formatter

import (
	"bytes"
	"fmt"

	"github.com/yuin/goldmark"
)

const (
	htmlContentType   = "text/html; charset=utf-8"
	htmlFileExtension = ".html"
)

const htmlDocument = `<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>Contract</title>
</head>
<body>
%s</body>
</html>
`

type HTMLFormatter struct{}

func NewHTMLFormatter() *HTMLFormatter {
	return &HTMLFormatter{}
}

// Format renders the markdown form of the contract through goldmark.
func (hf *HTMLFormatter) Format(text string) ([]byte, error) {
	var body bytes.Buffer
	if err := goldmark.Convert([]byte(toMarkdown(text)), &body); err != nil {
		return nil, fmt.Errorf("render html: %w", err)
	}
	return []byte(fmt.Sprintf(htmlDocument, body.String())), nil
}

func (hf *HTMLFormatter) ContentType() string {
	return htmlContentType
}

func (hf *HTMLFormatter) FileExtension() string {
	return htmlFileExtension
}
