package precedent

import (
	"context"

	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"github.com/lexyai/drafter/internal/entity"
	"github.com/lexyai/drafter/internal/pkg/outline"
	"go.uber.org/zap"
)

// FileSource serves outlines from the .docx files listed in a manifest.
type FileSource struct {
	manifest    *Manifest
	loader      *Loader
	maxSections int
}

func NewFileSource(manifest *Manifest, loader *Loader, maxSections int) *FileSource {
	return &FileSource{
		manifest:    manifest,
		loader:      loader,
		maxSections: maxSections,
	}
}

// Lookup implements LookupFunc. Contract types missing from the manifest have no outline.
func (s *FileSource) Lookup(ctx context.Context, contractTypeID, contractTypeName string) (*entity.PrecedentOutline, error) {
	entry, ok := s.manifest.Find(contractTypeID, contractTypeName)
	if !ok {
		return nil, nil
	}

	ctxzap.Debug(ctx, "precedent file selected",
		zap.String("contract_type_name", contractTypeName),
		zap.String("path", entry.Path),
	)

	parsed, err := s.loader.Load(ctx, entry.Path)
	if err != nil {
		return nil, err
	}

	bounded := *parsed
	bounded.Sections = outline.BoundSections(parsed.Sections, s.maxSections)
	return &bounded, nil
}
