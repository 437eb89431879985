package precedent

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"github.com/lexyai/drafter/internal/entity"
	"github.com/lexyai/drafter/internal/pkg/outline"
	"go.uber.org/zap"
)

const (
	DefaultCategory     = "employment"
	DefaultJurisdiction = "AU"

	unmatchedLabel = "unmatched"
)

// ParagraphsFunc reads the paragraphs of a precedent file.
type ParagraphsFunc func(path string) ([]string, error)

// IngestResult describes one stored precedent.
type IngestResult struct {
	File         string `json:"file"`
	DocumentID   string `json:"document_id"`
	Title        string `json:"title"`
	ContractType string `json:"contract_type"`
	Sections     int    `json:"sections"`
}

// Ingester extracts precedent files and stores them against the contract catalog.
type Ingester struct {
	store      CatalogStore
	paragraphs ParagraphsFunc
}

func NewIngester(store CatalogStore) *Ingester {
	return &Ingester{
		store:      store,
		paragraphs: outline.ParagraphsFromFile,
	}
}

// Ingest stores every manifest entry. It stops at the first failing entry.
func (in *Ingester) Ingest(ctx context.Context, manifest *Manifest) ([]IngestResult, error) {
	catalog, err := in.store.ListContractTypes(ctx)
	if err != nil {
		return nil, fmt.Errorf("list contract types: %w", err)
	}

	results := make([]IngestResult, 0, len(manifest.Precedents))
	for _, entry := range manifest.Precedents {
		result, updated, err := in.ingestEntry(ctx, entry, catalog)
		if err != nil {
			return results, fmt.Errorf("ingest %s: %w", entry.File, err)
		}
		catalog = updated
		results = append(results, result)

		ctxzap.Info(ctx, "precedent ingested",
			zap.String("file", entry.File),
			zap.String("contract_type", result.ContractType),
			zap.Int("sections", result.Sections),
		)
	}
	return results, nil
}

func (in *Ingester) ingestEntry(
	ctx context.Context,
	entry ManifestEntry,
	catalog []entity.ContractType,
) (IngestResult, []entity.ContractType, error) {
	paragraphs, err := in.paragraphs(entry.Path)
	if err != nil {
		return IngestResult{}, catalog, err
	}
	parsed, spans := outline.BuildIndexed(paragraphs)

	baseName := strings.TrimSuffix(filepath.Base(entry.File), filepath.Ext(entry.File))
	docTokens := TokenSet(baseName, parsed.TitleText())

	contractType, matched, catalog, err := in.resolveContractType(ctx, entry, catalog, docTokens)
	if err != nil {
		return IngestResult{}, catalog, err
	}

	doc := entity.PrecedentDocument{
		Title:        parsed.TitleText(),
		Category:     firstNonEmpty(entry.Category, contractType.Category, DefaultCategory),
		Jurisdiction: firstNonEmpty(entry.Jurisdiction, contractType.JurisdictionDefault, DefaultJurisdiction),
		SourcePath:   entry.Path,
		Outline:      parsed,
		Keywords:     SortedTokens(docTokens),
	}
	if doc.Title == "" {
		doc.Title = baseName
	}
	if matched {
		id := contractType.ID
		doc.ContractTypeID = &id
	}

	saved, err := in.store.SavePrecedent(ctx, doc, SectionRows(parsed, spans))
	if err != nil {
		return IngestResult{}, catalog, fmt.Errorf("save precedent: %w", err)
	}

	label := unmatchedLabel
	if matched {
		label = contractType.Name
	}
	return IngestResult{
		File:         entry.File,
		DocumentID:   saved.ID,
		Title:        saved.Title,
		ContractType: label,
		Sections:     len(parsed.Sections),
	}, catalog, nil
}

// resolveContractType uses the entry's explicit contract type when it names
// one, creating it if the catalog lacks it, and token matching otherwise.
func (in *Ingester) resolveContractType(
	ctx context.Context,
	entry ManifestEntry,
	catalog []entity.ContractType,
	docTokens map[string]struct{},
) (entity.ContractType, bool, []entity.ContractType, error) {
	if entry.ContractTypeID != "" {
		for _, ct := range catalog {
			if ct.ID == entry.ContractTypeID {
				return ct, true, catalog, nil
			}
		}
		return entity.ContractType{}, false, catalog, fmt.Errorf("contract type %s: %w", entry.ContractTypeID, entity.ErrContractTypeUnknown)
	}

	if name := strings.TrimSpace(entry.ContractType); name != "" {
		slug := entry.Slug
		if slug == "" {
			slug = Slugify(name)
		}
		for _, ct := range catalog {
			if strings.EqualFold(ct.Name, name) || (ct.Slug != "" && ct.Slug == slug) {
				return ct, true, catalog, nil
			}
		}

		created, err := in.store.UpsertContractType(ctx, entity.ContractType{
			Name:                name,
			Slug:                slug,
			Category:            firstNonEmpty(entry.Category, DefaultCategory),
			JurisdictionDefault: firstNonEmpty(entry.Jurisdiction, DefaultJurisdiction),
		})
		if err != nil {
			return entity.ContractType{}, false, catalog, fmt.Errorf("upsert contract type: %w", err)
		}
		return created, true, append(catalog, created), nil
	}

	ct, ok := MatchContractType(catalog, docTokens)
	return ct, ok, catalog, nil
}

// SectionRows turns outline sections into stored rows keyed in document order.
func SectionRows(parsed entity.PrecedentOutline, spans []outline.Span) []entity.PrecedentSectionRow {
	rows := make([]entity.PrecedentSectionRow, 0, len(parsed.Sections))
	for i, s := range parsed.Sections {
		row := entity.PrecedentSectionRow{
			SectionKey: fmt.Sprintf("section-%03d", i+1),
			Heading:    s.Heading,
			Text:       s.Body,
		}
		if i < len(spans) {
			start, end := spans[i].Start, spans[i].End
			row.StartParagraph = &start
			row.EndParagraph = &end
		}
		rows = append(rows, row)
	}
	return rows
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			return v
		}
	}
	return ""
}
