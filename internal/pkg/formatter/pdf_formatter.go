package formatter

import (
	"bytes"
	"os"

	"github.com/jung-kurt/gofpdf"
)

const (
	pdfContentType   = "application/pdf"
	pdfFileExtension = ".pdf"

	// pdfFontName is the gofpdf family name of the UTF-8 font.
	pdfFontName = "DejaVuSans"

	// Font location next to the binary (container layout).
	pdfFontRuntimePath = "ttf/DejaVuSans.ttf"

	// Font location when running from the repo root.
	pdfFontSourcePath = "internal/pkg/formatter/ttf/DejaVuSans.ttf"

	pdfFallbackFont = "Helvetica"
	pdfBodySize     = 11
	pdfLineHeight   = 5.5
)

type PDFFormatter struct{}

func NewPDFFormatter() *PDFFormatter {
	return &PDFFormatter{}
}

// resolveFontPath finds DejaVuSans in the runtime or the source layout.
func resolveFontPath() string {
	if _, err := os.Stat(pdfFontRuntimePath); err == nil {
		return pdfFontRuntimePath
	}
	if _, err := os.Stat(pdfFontSourcePath); err == nil {
		return pdfFontSourcePath
	}
	return ""
}

func (mf *PDFFormatter) Format(text string) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(19, 21, 19)
	pdf.SetAutoPageBreak(true, 21)
	pdf.AddPage()

	// Core fonts are cp1252 only; without the bundled font text is translated.
	fontName := pdfFallbackFont
	translate := pdf.UnicodeTranslatorFromDescriptor("")
	if fontPath := resolveFontPath(); fontPath != "" {
		pdf.AddUTF8Font(pdfFontName, "", fontPath)
		pdf.AddUTF8Font(pdfFontName, "B", fontPath)
		fontName = pdfFontName
		translate = func(s string) string { return s }
	}

	for i, block := range ParseBlocks(text) {
		style, size := "", float64(pdfBodySize)
		switch block.Kind {
		case BlockHeading:
			style, size = "B", 14
			if i > 0 {
				pdf.Ln(pdfLineHeight)
			}
		case BlockSubheading:
			style, size = "B", 12
		case BlockListItem:
			block.Text = "- " + block.Text
		}

		for _, seg := range SplitPlaceholders(block.Text) {
			segStyle := style
			if seg.Emphasis {
				segStyle = "B"
			}
			pdf.SetFont(fontName, segStyle, size)
			pdf.Write(pdfLineHeight+(size-pdfBodySize)/2, translate(seg.Text))
		}
		pdf.Ln(pdfLineHeight + 1)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (mf *PDFFormatter) ContentType() string {
	return pdfContentType
}

func (mf *PDFFormatter) FileExtension() string {
	return pdfFileExtension
}
