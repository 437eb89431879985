package entity

import "time"

// PrecedentSection is one drafting unit of a precedent document.
type PrecedentSection struct {
	Heading string `json:"heading"`
	Body    string `json:"body"`
}

// PrecedentOutline is the structured decomposition of a precedent document.
// Outlines are shared between requests and must not be mutated once built.
type PrecedentOutline struct {
	Title        *string            `json:"title"`
	FrontMatter  []string           `json:"front_matter"`
	Sections     []PrecedentSection `json:"sections"`
	Placeholders []string           `json:"placeholders"`
}

// TitleText returns the outline title or an empty string.
func (o *PrecedentOutline) TitleText() string {
	if o == nil || o.Title == nil {
		return ""
	}
	return *o.Title
}

// Usable reports whether the outline has anything to draft.
func (o *PrecedentOutline) Usable() bool {
	return o != nil && len(o.Sections) > 0
}

// PrecedentSectionRow is a stored section row, usually finer grained than
// the sections the drafting pipeline works with.
type PrecedentSectionRow struct {
	SectionKey     string `json:"section_key"`
	Heading        string `json:"heading"`
	Text           string `json:"text"`
	StartParagraph *int   `json:"start_paragraph_idx,omitempty"`
	EndParagraph   *int   `json:"end_paragraph_idx,omitempty"`
}

// ContractType is a catalog entry that precedents are attached to.
type ContractType struct {
	ID                  string `json:"id"`
	Name                string `json:"name"`
	Slug                string `json:"slug"`
	Category            string `json:"category"`
	JurisdictionDefault string `json:"jurisdiction_default"`
}

// PrecedentDocument is a persisted precedent with its extracted outline.
type PrecedentDocument struct {
	ID             string           `json:"id"`
	ContractTypeID *string          `json:"contract_type_id,omitempty"`
	Title          string           `json:"title"`
	Category       string           `json:"category"`
	Jurisdiction   string           `json:"jurisdiction"`
	SourcePath     string           `json:"source_path"`
	Outline        PrecedentOutline `json:"outline"`
	Keywords       []string         `json:"keywords"`
	CreatedAt      time.Time        `json:"created_at"`
}

// OutlineUploadResponse is the extraction result for an uploaded precedent.
type OutlineUploadResponse struct {
	Filename         string             `json:"filename"`
	Outline          PrecedentOutline   `json:"outline"`
	DraftingSections []PrecedentSection `json:"drafting_sections"`
}
