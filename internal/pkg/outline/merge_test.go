package outline

import (
	"fmt"
	"testing"

	"github.com/lexyai/drafter/internal/entity"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sectionRows(n int) []entity.PrecedentSectionRow {
	rows := make([]entity.PrecedentSectionRow, 0, n)
	for i := 1; i <= n; i++ {
		rows = append(rows, entity.PrecedentSectionRow{
			SectionKey: fmt.Sprintf("s%02d", i),
			Heading:    fmt.Sprintf("H%d", i),
			Text:       fmt.Sprintf("body %d", i),
		})
	}
	return rows
}

func TestMergeSections_UnderLimitIsOneToOne(t *testing.T) {
	rows := []entity.PrecedentSectionRow{
		{Heading: "  1. SCOPE ", Text: " scope text "},
		{Heading: "2. FEES", Text: "fees"},
	}

	got := MergeSections(rows, 7)

	assert.Equal(t, []entity.PrecedentSection{
		{Heading: "1. SCOPE", Body: "scope text"},
		{Heading: "2. FEES", Body: "fees"},
	}, got)
}

func TestMergeSections_Bound(t *testing.T) {
	for n := 1; n <= 40; n++ {
		for _, limit := range []int{1, 3, 7} {
			got := MergeSections(sectionRows(n), limit)
			assert.LessOrEqual(t, len(got), limit, "n=%d limit=%d", n, limit)
			assert.NotEmpty(t, got)
		}
	}
}

func TestMergeSections_Chunks(t *testing.T) {
	got := MergeSections(sectionRows(10), 4)

	require.Len(t, got, 4)
	assert.Equal(t, "H1 / H2 / H3", got[0].Heading)
	assert.Equal(t, "body 1\n\nbody 2\n\nbody 3", got[0].Body)
	assert.Equal(t, "H10", got[3].Heading)
}

func TestMergeSections_FallbackHeading(t *testing.T) {
	rows := []entity.PrecedentSectionRow{
		{Text: "a"}, {Text: "  "}, {Text: "c"},
	}

	got := MergeSections(rows, 1)

	require.Len(t, got, 1)
	assert.Equal(t, "Combined section", got[0].Heading)
	assert.Equal(t, "a\n\nc", got[0].Body)
}

func TestMergeSections_DefaultLimit(t *testing.T) {
	assert.Len(t, MergeSections(sectionRows(20), 0), DefaultMaxSections)
	assert.Nil(t, MergeSections(nil, 7))
}

func TestBoundSections(t *testing.T) {
	sections := []entity.PrecedentSection{{Heading: "A", Body: "a"}, {Heading: "B", Body: "b"}}

	got := BoundSections(sections, 1)

	assert.Equal(t, []entity.PrecedentSection{{Heading: "A / B", Body: "a\n\nb"}}, got)
}
