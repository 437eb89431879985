package wordml

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
	"strconv"
)

// Run is a span of text with uniform formatting. Size is in points; zero
// keeps the style's size.
type Run struct {
	Text string
	Bold bool
	Size float64
}

// Paragraph is a w:p with an optional paragraph style id such as "Heading1".
// A paragraph without runs is written as an empty line.
type Paragraph struct {
	Style string
	Runs  []Run
}

const (
	contentTypesXML = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<Types xmlns="http://schemas.openxmlformats.org/package/2006/content-types">` +
		`<Default Extension="rels" ContentType="application/vnd.openxmlformats-package.relationships+xml"/>` +
		`<Default Extension="xml" ContentType="application/xml"/>` +
		`<Override PartName="/word/document.xml" ContentType="application/vnd.openxmlformats-officedocument.wordprocessingml.document.main+xml"/>` +
		`<Override PartName="/word/styles.xml" ContentType="application/vnd.openxmlformats-officedocument.wordprocessingml.styles+xml"/>` +
		`</Types>`

	packageRelsXML = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships">` +
		`<Relationship Id="rId1" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/officeDocument" Target="word/document.xml"/>` +
		`</Relationships>`

	documentRelsXML = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships">` +
		`<Relationship Id="rId1" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/styles" Target="styles.xml"/>` +
		`</Relationships>`

	stylesXML = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<w:styles xmlns:w="` + Namespace + `">` +
		`<w:docDefaults><w:rPrDefault><w:rPr><w:sz w:val="22"/></w:rPr></w:rPrDefault></w:docDefaults>` +
		`<w:style w:type="paragraph" w:default="1" w:styleId="Normal"><w:name w:val="Normal"/></w:style>` +
		`<w:style w:type="paragraph" w:styleId="Heading1"><w:name w:val="heading 1"/><w:basedOn w:val="Normal"/>` +
		`<w:pPr><w:keepNext/><w:spacing w:before="240" w:after="120"/><w:outlineLvl w:val="0"/></w:pPr>` +
		`<w:rPr><w:b/><w:sz w:val="28"/></w:rPr></w:style>` +
		`<w:style w:type="paragraph" w:styleId="Heading2"><w:name w:val="heading 2"/><w:basedOn w:val="Normal"/>` +
		`<w:pPr><w:keepNext/><w:spacing w:before="200" w:after="80"/><w:outlineLvl w:val="1"/></w:pPr>` +
		`<w:rPr><w:b/><w:sz w:val="24"/></w:rPr></w:style>` +
		`</w:styles>`

	// A4 with one inch margins
	sectionXML = `<w:sectPr><w:pgSz w:w="11906" w:h="16838"/>` +
		`<w:pgMar w:top="1440" w:right="1440" w:bottom="1440" w:left="1440" w:header="708" w:footer="708" w:gutter="0"/>` +
		`</w:sectPr>`
)

// Write stores paragraphs as a minimal .docx package in w.
func Write(w io.Writer, paragraphs []Paragraph) error {
	document, err := renderDocument(paragraphs)
	if err != nil {
		return err
	}

	zw := zip.NewWriter(w)
	parts := []struct {
		name string
		data []byte
	}{
		{"[Content_Types].xml", []byte(contentTypesXML)},
		{"_rels/.rels", []byte(packageRelsXML)},
		{"word/_rels/document.xml.rels", []byte(documentRelsXML)},
		{"word/styles.xml", []byte(stylesXML)},
		{documentPart, document},
	}
	for _, part := range parts {
		pw, err := zw.Create(part.name)
		if err != nil {
			_ = zw.Close()
			return fmt.Errorf("create %s: %w", part.name, err)
		}
		if _, err := pw.Write(part.data); err != nil {
			_ = zw.Close()
			return fmt.Errorf("write %s: %w", part.name, err)
		}
	}
	if err := zw.Close(); err != nil {
		return fmt.Errorf("finalize document: %w", err)
	}
	return nil
}

func renderDocument(paragraphs []Paragraph) ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteString(xml.Header)
	buf.WriteString(`<w:document xmlns:w="` + Namespace + `"><w:body>`)

	for _, p := range paragraphs {
		if p.Style == "" && len(p.Runs) == 0 {
			buf.WriteString(`<w:p/>`)
			continue
		}
		buf.WriteString(`<w:p>`)
		if p.Style != "" {
			buf.WriteString(`<w:pPr><w:pStyle w:val="`)
			if err := xml.EscapeText(&buf, []byte(p.Style)); err != nil {
				return nil, err
			}
			buf.WriteString(`"/></w:pPr>`)
		}
		for _, r := range p.Runs {
			if err := writeRun(&buf, r); err != nil {
				return nil, err
			}
		}
		buf.WriteString(`</w:p>`)
	}

	buf.WriteString(sectionXML)
	buf.WriteString(`</w:body></w:document>`)
	return buf.Bytes(), nil
}

func writeRun(buf *bytes.Buffer, r Run) error {
	buf.WriteString(`<w:r>`)
	if r.Bold || r.Size > 0 {
		buf.WriteString(`<w:rPr>`)
		if r.Bold {
			buf.WriteString(`<w:b/>`)
		}
		if r.Size > 0 {
			// w:sz is in half-points
			buf.WriteString(`<w:sz w:val="` + strconv.Itoa(int(r.Size*2)) + `"/>`)
		}
		buf.WriteString(`</w:rPr>`)
	}
	buf.WriteString(`<w:t xml:space="preserve">`)
	if err := xml.EscapeText(buf, []byte(r.Text)); err != nil {
		return err
	}
	buf.WriteString(`</w:t></w:r>`)
	return nil
}
