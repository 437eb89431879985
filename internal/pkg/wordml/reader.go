// Package wordml reads and writes the WordprocessingML part of .docx files.
package wordml

import (
	"archive/zip"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strings"
)

// Namespace is the WordprocessingML main namespace.
const Namespace = "http://schemas.openxmlformats.org/wordprocessingml/2006/main"

const documentPart = "word/document.xml"

// ErrNotDocument is returned for input that is not a readable .docx package.
var ErrNotDocument = errors.New("not a wordprocessing document")

// Paragraphs returns the text of every w:p in document order, including
// paragraphs nested in tables and text boxes. A paragraph's text is the
// concatenation of all w:t below it. Paragraphs without any text are skipped.
func Paragraphs(r io.ReaderAt, size int64) ([]string, error) {
	archive, err := zip.NewReader(r, size)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNotDocument, err)
	}

	part, err := archive.Open(documentPart)
	if err != nil {
		return nil, fmt.Errorf("%w: open %s: %v", ErrNotDocument, documentPart, err)
	}
	defer part.Close()

	paragraphs, err := scanParagraphs(xml.NewDecoder(part))
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrNotDocument, documentPart, err)
	}
	return paragraphs, nil
}

// scanParagraphs walks the token stream. A nested paragraph's text also
// counts towards every enclosing paragraph, and the outer one is emitted first.
func scanParagraphs(dec *xml.Decoder) ([]string, error) {
	var (
		slots  []*strings.Builder
		open   []int
		inText int
		seen   = make(map[int]bool)
	)

	for {
		tok, err := dec.Token()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}

		switch t := tok.(type) {
		case xml.StartElement:
			if t.Name.Space != Namespace {
				continue
			}
			switch t.Name.Local {
			case "p":
				slots = append(slots, &strings.Builder{})
				open = append(open, len(slots)-1)
			case "t":
				inText++
			}
		case xml.EndElement:
			if t.Name.Space != Namespace {
				continue
			}
			switch t.Name.Local {
			case "p":
				if len(open) > 0 {
					open = open[:len(open)-1]
				}
			case "t":
				if inText > 0 {
					inText--
				}
			}
		case xml.CharData:
			if inText == 0 || len(open) == 0 {
				continue
			}
			for _, idx := range open {
				slots[idx].Write(t)
				seen[idx] = true
			}
		}
	}

	paragraphs := make([]string, 0, len(seen))
	for i, sb := range slots {
		if seen[i] {
			paragraphs = append(paragraphs, sb.String())
		}
	}
	return paragraphs, nil
}
