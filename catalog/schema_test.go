package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"spandb/catalog/db_types"
	"spandb/common"
)

func TestNewSchema_Should_Reject_Duplicate_Names(t *testing.T) {
	_, err := NewSchema([]Column{
		NewColumn("content", db_types.TextTypeID),
		NewColumn("CONTENT", db_types.StringTypeID),
	})
	assert.ErrorIs(t, err, common.ErrSchema)
}

func TestNewSchema_ID_Must_Be_First(t *testing.T) {
	_, err := NewSchema([]Column{NewColumn("content", db_types.TextTypeID), IDColumn()})
	assert.ErrorIs(t, err, common.ErrSchema)

	_, err = NewSchema([]Column{NewColumn(common.IDAttributeName, db_types.StringTypeID)})
	assert.ErrorIs(t, err, common.ErrSchema)

	s, err := NewSchema([]Column{IDColumn(), NewColumn("content", db_types.TextTypeID)})
	require.NoError(t, err)
	idx, err := s.GetColIdx("_id")
	require.NoError(t, err)
	assert.Equal(t, 0, idx)
}

func TestSchema_GetColIdx_Missing(t *testing.T) {
	s := MustNewSchema(NewColumn("content", db_types.TextTypeID))
	_, err := s.GetColIdx("title")
	assert.ErrorIs(t, err, ErrColumnNotFound)
	assert.False(t, s.ContainsColumn("title"))
}

func TestSpanSchema(t *testing.T) {
	base := MustNewSchema(IDColumn(), NewColumn("content", db_types.TextTypeID))

	withSpans, err := SpanSchema(base, common.SpanListAttributeName)
	require.NoError(t, err)
	assert.Equal(t, []string{common.IDAttributeName, "content", common.SpanListAttributeName}, withSpans.GetColumnNames())

	// an existing span list column is reused
	again, err := SpanSchema(withSpans, common.SpanListAttributeName)
	require.NoError(t, err)
	assert.True(t, withSpans.Equal(again))

	// a span list name bound to another type is rejected
	_, err = SpanSchema(base, "content")
	assert.ErrorIs(t, err, common.ErrSchema)
}

func TestAppendColumn_Should_Not_Overwrite(t *testing.T) {
	base := MustNewSchema(IDColumn(), NewColumn("content", db_types.TextTypeID))
	_, err := AppendColumn(base, NewColumn("Content", db_types.SpanListTypeID))
	assert.ErrorIs(t, err, common.ErrSchema)
}

func TestProjectSchema(t *testing.T) {
	base := MustNewSchema(
		IDColumn(),
		NewColumn("title", db_types.StringTypeID),
		NewColumn("content", db_types.TextTypeID),
		NewColumn("views", db_types.IntegerTypeID),
	)

	projected, idxs := ProjectSchema(base, []string{"views", "missing", "_ID", "content"})
	assert.Equal(t, []string{common.IDAttributeName, "content", "views"}, projected.GetColumnNames())
	assert.Equal(t, []int{0, 2, 3}, idxs)
}
