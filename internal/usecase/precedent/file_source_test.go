package precedent

import (
	"context"
	"fmt"
	"testing"

	"github.com/lexyai/drafter/internal/entity"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileSource_Lookup(t *testing.T) {
	loader, err := NewLoader(4, WithParseFunc(func(path string) (entity.PrecedentOutline, error) {
		o := entity.PrecedentOutline{}
		for i := 1; i <= 10; i++ {
			o.Sections = append(o.Sections, entity.PrecedentSection{
				Heading: fmt.Sprintf("%d. CLAUSE", i),
				Body:    "text",
			})
		}
		return o, nil
	}))
	require.NoError(t, err)

	manifest := &Manifest{Precedents: []ManifestEntry{
		{File: "lease.docx", Path: "/precedents/lease.docx", ContractType: "Commercial Lease"},
	}}
	source := NewFileSource(manifest, loader, 5)

	got, err := source.Lookup(context.Background(), "", "Commercial Lease")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Len(t, got.Sections, 5)

	cached, err := loader.Load(context.Background(), "/precedents/lease.docx")
	require.NoError(t, err)
	assert.Len(t, cached.Sections, 10, "bounding must not touch the cached outline")

	missing, err := source.Lookup(context.Background(), "", "Employment")
	assert.NoError(t, err)
	assert.Nil(t, missing)
}

func TestFileSource_WithResolver(t *testing.T) {
	loader, err := NewLoader(4, WithParseFunc(func(string) (entity.PrecedentOutline, error) {
		return entity.PrecedentOutline{}, entity.ErrMalformedDocument
	}))
	require.NoError(t, err)
	manifest := &Manifest{Precedents: []ManifestEntry{{File: "nda.docx", Path: "nda.docx", Slug: "nda"}}}
	resolver := NewResolver(NewFileSource(manifest, loader, 7).Lookup)

	_, err = resolver.Resolve(context.Background(), "", "nda", nil)

	assert.ErrorIs(t, err, entity.ErrMalformedDocument)
}
