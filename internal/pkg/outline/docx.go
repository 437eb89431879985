package outline

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"strings"

	"github.com/lexyai/drafter/internal/entity"
	"github.com/lexyai/drafter/internal/pkg/wordml"
)

// Paragraphs reads a .docx document and returns its non-empty paragraphs
// in document order, with typography normalized.
func Paragraphs(r io.ReaderAt, size int64) ([]string, error) {
	raw, err := wordml.Paragraphs(r, size)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", entity.ErrMalformedDocument, err)
	}

	paragraphs := make([]string, 0, len(raw))
	for _, text := range raw {
		if text = strings.TrimSpace(NormalizeText(text)); text != "" {
			paragraphs = append(paragraphs, text)
		}
	}
	return paragraphs, nil
}

// ParagraphsFromBytes is Paragraphs for an in-memory document.
func ParagraphsFromBytes(data []byte) ([]string, error) {
	return Paragraphs(bytes.NewReader(data), int64(len(data)))
}

// ParagraphsFromFile reads paragraphs from a .docx file on disk.
func ParagraphsFromFile(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", entity.ErrPrecedentNotFound, path)
		}
		return nil, fmt.Errorf("open precedent: %w", err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return nil, fmt.Errorf("stat precedent: %w", err)
	}
	if info.IsDir() {
		return nil, fmt.Errorf("%w: %s is a directory", entity.ErrPrecedentNotFound, path)
	}

	return Paragraphs(f, info.Size())
}

// FromFile extracts the outline of a .docx precedent on disk.
func FromFile(path string) (entity.PrecedentOutline, error) {
	paragraphs, err := ParagraphsFromFile(path)
	if err != nil {
		return entity.PrecedentOutline{}, err
	}
	return Build(paragraphs), nil
}
