package outline

import (
	"archive/zip"
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/lexyai/drafter/internal/entity"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// precedentXML mimics what Word saves: split runs, a table, smart quotes and an en dash.
const precedentXML = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main"><w:body>
<w:p><w:r><w:t>EMPLOYMENT </w:t></w:r><w:r><w:t>AGREEMENT</w:t></w:r></w:p>
<w:p><w:r><w:t xml:space="preserve">Dated {{ start_date }} between the parties below.</w:t></w:r></w:p>
<w:tbl><w:tr>
<w:tc><w:p><w:r><w:t>Employer: {{employer_name}}</w:t></w:r></w:p></w:tc>
<w:tc><w:p><w:r><w:t>Employee: {{ employee_name }}</w:t></w:r></w:p></w:tc>
</w:tr></w:tbl>
<w:p><w:r><w:t>1. DEFINITIONS</w:t></w:r></w:p>
<w:p><w:r><w:t>&#8220;Company&#8221; means the Employer&#8217;s group &#8211; including affiliates.</w:t></w:r></w:p>
<w:p><w:r><w:t>   </w:t></w:r></w:p>
<w:p><w:r><w:t>2. DUTIES</w:t></w:r></w:p>
<w:p><w:r><w:t>The Employee shall work {{ hours }} hours.</w:t></w:r></w:p>
<w:sectPr/>
</w:body></w:document>`

func writePrecedent(t *testing.T, documentXML string) string {
	t.Helper()

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	w, err := zw.Create("word/document.xml")
	require.NoError(t, err)
	_, err = w.Write([]byte(documentXML))
	require.NoError(t, err)
	require.NoError(t, zw.Close())

	path := filepath.Join(t.TempDir(), "employment.docx")
	require.NoError(t, os.WriteFile(path, buf.Bytes(), 0o600))
	return path
}

func TestParagraphsFromFile(t *testing.T) {
	paragraphs, err := ParagraphsFromFile(writePrecedent(t, precedentXML))
	require.NoError(t, err)

	assert.Equal(t, []string{
		"EMPLOYMENT AGREEMENT",
		"Dated {{ start_date }} between the parties below.",
		"Employer: {{employer_name}}",
		"Employee: {{ employee_name }}",
		"1. DEFINITIONS",
		`"Company" means the Employer's group - including affiliates.`,
		"2. DUTIES",
		"The Employee shall work {{ hours }} hours.",
	}, paragraphs)
}

func TestFromFile_Outline(t *testing.T) {
	parsed, err := FromFile(writePrecedent(t, precedentXML))
	require.NoError(t, err)

	require.NotNil(t, parsed.Title)
	assert.Equal(t, "EMPLOYMENT AGREEMENT", *parsed.Title)
	assert.Equal(t, []string{
		"Dated {{ start_date }} between the parties below.",
		"Employer: {{employer_name}}",
		"Employee: {{ employee_name }}",
	}, parsed.FrontMatter)
	assert.Equal(t, []entity.PrecedentSection{
		{Heading: "1. DEFINITIONS", Body: `"Company" means the Employer's group - including affiliates.`},
		{Heading: "2. DUTIES", Body: "The Employee shall work {{ hours }} hours."},
	}, parsed.Sections)
	assert.Equal(t, []string{"employee_name", "employer_name", "hours", "start_date"}, parsed.Placeholders)
}

func TestParagraphsFromBytes_Malformed(t *testing.T) {
	_, err := ParagraphsFromBytes([]byte("this is not a zip archive"))

	require.Error(t, err)
	assert.ErrorIs(t, err, entity.ErrMalformedDocument)
}

func TestParagraphsFromBytes_MissingDocumentPart(t *testing.T) {
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	_, err := zw.Create("word/styles.xml")
	require.NoError(t, err)
	require.NoError(t, zw.Close())

	_, err = ParagraphsFromBytes(buf.Bytes())
	assert.ErrorIs(t, err, entity.ErrMalformedDocument)
}

func TestParagraphsFromFile_Missing(t *testing.T) {
	_, err := ParagraphsFromFile(filepath.Join(t.TempDir(), "missing.docx"))

	require.Error(t, err)
	assert.ErrorIs(t, err, entity.ErrPrecedentNotFound)
}

func TestFromFile_Directory(t *testing.T) {
	_, err := FromFile(t.TempDir())

	assert.ErrorIs(t, err, entity.ErrPrecedentNotFound)
}
