package repository

import (
	"testing"

	"github.com/jackc/pgx/v5/pgtype"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPgUUIDRoundTrip(t *testing.T) {
	id := "6f1c1c7e-2b0a-4f57-9a43-0d8a1f4f2b11"

	pg, err := toPgUUID(&id)
	require.NoError(t, err)
	assert.True(t, pg.Valid)
	assert.Equal(t, id, uuidString(pg))

	empty, err := toPgUUID(nil)
	require.NoError(t, err)
	assert.False(t, empty.Valid)
	assert.Empty(t, uuidString(empty))

	bad := "not-a-uuid"
	_, err = toPgUUID(&bad)
	assert.Error(t, err)
}

func TestPgInt4(t *testing.T) {
	v := 7
	assert.Equal(t, &v, fromPgInt4(toPgInt4(&v)))
	assert.Nil(t, fromPgInt4(pgtype.Int4{}))
	assert.False(t, toPgInt4(nil).Valid)
}

func TestUnmarshalJSONB(t *testing.T) {
	var lines []string
	require.NoError(t, unmarshalJSONB(nil, &lines))
	assert.Nil(t, lines)

	require.NoError(t, unmarshalJSONB([]byte(`["a","b"]`), &lines))
	assert.Equal(t, []string{"a", "b"}, lines)
}
