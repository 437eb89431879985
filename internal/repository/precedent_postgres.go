package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/lexyai/drafter/internal/entity"
	"github.com/lexyai/drafter/internal/pkg/outline"
)

// PrecedentRepository reads precedent outlines and maintains the contract catalog.
type PrecedentRepository interface {
	Lookup(ctx context.Context, contractTypeID, contractTypeName string) (*entity.PrecedentOutline, error)
	ListContractTypes(ctx context.Context) ([]entity.ContractType, error)
	UpsertContractType(ctx context.Context, contractType entity.ContractType) (entity.ContractType, error)
	SavePrecedent(ctx context.Context, doc entity.PrecedentDocument, rows []entity.PrecedentSectionRow) (entity.PrecedentDocument, error)
}

var _ PrecedentRepository = &PrecedentPostgres{}

// PrecedentPostgres implements PrecedentRepository using PostgreSQL
type PrecedentPostgres struct {
	db          *pgxpool.Pool
	maxSections int
}

func NewPrecedentPostgres(db *pgxpool.Pool, maxSections int) *PrecedentPostgres {
	if maxSections <= 0 {
		maxSections = outline.DefaultMaxSections
	}
	return &PrecedentPostgres{
		db:          db,
		maxSections: maxSections,
	}
}

const (
	docByContractTypeIDQuery = `
		SELECT title, front_matter, sections, placeholders
		FROM precedent_documents
		WHERE "contractTypeId" = $1
		ORDER BY created_at DESC
		LIMIT 1`

	docByContractTypeNameQuery = `
		SELECT p.title, p.front_matter, p.sections, p.placeholders
		FROM precedent_documents p
		JOIN contract_types ct ON p."contractTypeId" = ct.id
		WHERE ct.name = $1
		ORDER BY p.created_at DESC
		LIMIT 1`

	sectionsByContractTypeIDQuery = `
		SELECT section_key, heading, text, start_paragraph_idx, end_paragraph_idx
		FROM precedent_sections
		WHERE "contractTypeId" = $1
		ORDER BY start_paragraph_idx NULLS LAST, end_paragraph_idx NULLS LAST, section_key`

	sectionsByContractTypeNameQuery = `
		SELECT s.section_key, s.heading, s.text, s.start_paragraph_idx, s.end_paragraph_idx
		FROM precedent_sections s
		JOIN contract_types ct ON s."contractTypeId" = ct.id
		WHERE ct.name = $1
		ORDER BY s.start_paragraph_idx NULLS LAST, s.end_paragraph_idx NULLS LAST, s.section_key`
)

// Lookup finds the newest precedent of a contract type, by id first and then
// by name. Section rows are merged down to maxSections. It returns nil when
// neither key has any sections.
func (r *PrecedentPostgres) Lookup(ctx context.Context, contractTypeID, contractTypeName string) (*entity.PrecedentOutline, error) {
	if id := strings.TrimSpace(contractTypeID); id != "" {
		if parsed, err := uuid.Parse(id); err == nil {
			key := pgtype.UUID{Bytes: parsed, Valid: true}
			found, err := r.lookupBy(ctx, docByContractTypeIDQuery, sectionsByContractTypeIDQuery, key)
			if err != nil {
				return nil, fmt.Errorf("lookup precedent by contract type id: %w", err)
			}
			if found != nil {
				return found, nil
			}
		}
	}

	if name := strings.TrimSpace(contractTypeName); name != "" {
		found, err := r.lookupBy(ctx, docByContractTypeNameQuery, sectionsByContractTypeNameQuery, name)
		if err != nil {
			return nil, fmt.Errorf("lookup precedent by contract type name: %w", err)
		}
		if found != nil {
			return found, nil
		}
	}

	return nil, nil
}

type precedentDocRow struct {
	title        string
	frontMatter  []string
	sections     []entity.PrecedentSection
	placeholders []string
}

func (r *PrecedentPostgres) lookupBy(ctx context.Context, docQuery, sectionsQuery string, key any) (*entity.PrecedentOutline, error) {
	doc, err := r.latestDocument(ctx, docQuery, key)
	if err != nil {
		return nil, err
	}
	rows, err := r.sectionRows(ctx, sectionsQuery, key)
	if err != nil {
		return nil, err
	}

	sections := outline.MergeSections(rows, r.maxSections)
	if len(sections) == 0 && doc != nil {
		sections = outline.BoundSections(doc.sections, r.maxSections)
	}
	if len(sections) == 0 {
		return nil, nil
	}

	if doc == nil {
		return &entity.PrecedentOutline{
			FrontMatter:  []string{},
			Sections:     sections,
			Placeholders: []string{},
		}, nil
	}

	found := &entity.PrecedentOutline{
		FrontMatter:  doc.frontMatter,
		Sections:     sections,
		Placeholders: doc.placeholders,
	}
	if doc.title != "" {
		title := doc.title
		found.Title = &title
	}
	return found, nil
}

func (r *PrecedentPostgres) latestDocument(ctx context.Context, query string, key any) (*precedentDocRow, error) {
	var doc precedentDocRow
	var frontMatter, sections, placeholders []byte
	err := r.db.QueryRow(ctx, query, key).Scan(&doc.title, &frontMatter, &sections, &placeholders)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("query precedent document: %w", err)
	}

	if err := unmarshalJSONB(frontMatter, &doc.frontMatter); err != nil {
		return nil, fmt.Errorf("decode front matter: %w", err)
	}
	if err := unmarshalJSONB(sections, &doc.sections); err != nil {
		return nil, fmt.Errorf("decode sections: %w", err)
	}
	if err := unmarshalJSONB(placeholders, &doc.placeholders); err != nil {
		return nil, fmt.Errorf("decode placeholders: %w", err)
	}
	return &doc, nil
}

func (r *PrecedentPostgres) sectionRows(ctx context.Context, query string, key any) ([]entity.PrecedentSectionRow, error) {
	rows, err := r.db.Query(ctx, query, key)
	if err != nil {
		return nil, fmt.Errorf("query precedent sections: %w", err)
	}
	defer rows.Close()

	var result []entity.PrecedentSectionRow
	for rows.Next() {
		var (
			row        entity.PrecedentSectionRow
			start, end pgtype.Int4
		)
		if err := rows.Scan(&row.SectionKey, &row.Heading, &row.Text, &start, &end); err != nil {
			return nil, fmt.Errorf("scan precedent section: %w", err)
		}
		row.StartParagraph = fromPgInt4(start)
		row.EndParagraph = fromPgInt4(end)
		result = append(result, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate precedent sections: %w", err)
	}
	return result, nil
}

func (r *PrecedentPostgres) ListContractTypes(ctx context.Context) ([]entity.ContractType, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id, name, slug, category, jurisdiction_default
		FROM contract_types
		ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("list contract types: %w", err)
	}
	defer rows.Close()

	var types []entity.ContractType
	for rows.Next() {
		var (
			ct entity.ContractType
			id pgtype.UUID
		)
		if err := rows.Scan(&id, &ct.Name, &ct.Slug, &ct.Category, &ct.JurisdictionDefault); err != nil {
			return nil, fmt.Errorf("scan contract type: %w", err)
		}
		ct.ID = uuidString(id)
		types = append(types, ct)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate contract types: %w", err)
	}
	return types, nil
}

// UpsertContractType inserts a contract type or updates the one with the same name.
func (r *PrecedentPostgres) UpsertContractType(ctx context.Context, ct entity.ContractType) (entity.ContractType, error) {
	id := uuid.New()
	var stored pgtype.UUID
	err := r.db.QueryRow(ctx, `
		INSERT INTO contract_types (id, name, slug, category, jurisdiction_default)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (name) DO UPDATE SET
			slug = EXCLUDED.slug,
			category = EXCLUDED.category,
			jurisdiction_default = EXCLUDED.jurisdiction_default
		RETURNING id`,
		pgtype.UUID{Bytes: id, Valid: true}, ct.Name, ct.Slug, ct.Category, ct.JurisdictionDefault,
	).Scan(&stored)
	if err != nil {
		return entity.ContractType{}, fmt.Errorf("upsert contract type: %w", err)
	}

	ct.ID = uuidString(stored)
	return ct, nil
}

// SavePrecedent upserts a precedent document by source path and replaces the
// section rows of its contract type in one transaction.
func (r *PrecedentPostgres) SavePrecedent(
	ctx context.Context,
	doc entity.PrecedentDocument,
	rows []entity.PrecedentSectionRow,
) (entity.PrecedentDocument, error) {
	contractTypeID, err := toPgUUID(doc.ContractTypeID)
	if err != nil {
		return entity.PrecedentDocument{}, fmt.Errorf("parse contract type ID: %w", err)
	}

	frontMatter, err := json.Marshal(nonNil(doc.Outline.FrontMatter))
	if err != nil {
		return entity.PrecedentDocument{}, fmt.Errorf("encode front matter: %w", err)
	}
	sections, err := json.Marshal(doc.Outline.Sections)
	if err != nil {
		return entity.PrecedentDocument{}, fmt.Errorf("encode sections: %w", err)
	}
	placeholders, err := json.Marshal(nonNil(doc.Outline.Placeholders))
	if err != nil {
		return entity.PrecedentDocument{}, fmt.Errorf("encode placeholders: %w", err)
	}

	tx, err := r.db.Begin(ctx)
	if err != nil {
		return entity.PrecedentDocument{}, fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	var (
		storedID  pgtype.UUID
		createdAt pgtype.Timestamptz
	)
	err = tx.QueryRow(ctx, `
		INSERT INTO precedent_documents
			(id, "contractTypeId", title, category, jurisdiction, source_path,
			 front_matter, sections, placeholders, keywords)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		ON CONFLICT (source_path) DO UPDATE SET
			"contractTypeId" = EXCLUDED."contractTypeId",
			title = EXCLUDED.title,
			category = EXCLUDED.category,
			jurisdiction = EXCLUDED.jurisdiction,
			front_matter = EXCLUDED.front_matter,
			sections = EXCLUDED.sections,
			placeholders = EXCLUDED.placeholders,
			keywords = EXCLUDED.keywords,
			created_at = NOW()
		RETURNING id, created_at`,
		pgtype.UUID{Bytes: uuid.New(), Valid: true}, contractTypeID, doc.Title, doc.Category,
		doc.Jurisdiction, doc.SourcePath, frontMatter, sections, placeholders, nonNil(doc.Keywords),
	).Scan(&storedID, &createdAt)
	if err != nil {
		return entity.PrecedentDocument{}, fmt.Errorf("upsert precedent document: %w", err)
	}

	if contractTypeID.Valid {
		if _, err := tx.Exec(ctx, `DELETE FROM precedent_sections WHERE "contractTypeId" = $1`, contractTypeID); err != nil {
			return entity.PrecedentDocument{}, fmt.Errorf("clear precedent sections: %w", err)
		}

		batch := &pgx.Batch{}
		for _, row := range rows {
			batch.Queue(`
				INSERT INTO precedent_sections
					(id, "contractTypeId", "precedentId", section_key, heading, text,
					 start_paragraph_idx, end_paragraph_idx)
				VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
				pgtype.UUID{Bytes: uuid.New(), Valid: true}, contractTypeID, storedID,
				row.SectionKey, row.Heading, row.Text,
				toPgInt4(row.StartParagraph), toPgInt4(row.EndParagraph),
			)
		}
		if err := tx.SendBatch(ctx, batch).Close(); err != nil {
			return entity.PrecedentDocument{}, fmt.Errorf("insert precedent sections: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return entity.PrecedentDocument{}, fmt.Errorf("commit precedent: %w", err)
	}

	doc.ID = uuidString(storedID)
	if createdAt.Valid {
		doc.CreatedAt = createdAt.Time
	}
	return doc, nil
}
