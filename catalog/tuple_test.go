package catalog

import (
	"encoding/binary"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"spandb/catalog/db_types"
)

func TestNewTupleWithSchema_Validates_Values(t *testing.T) {
	schema := MustNewSchema(IDColumn(), NewColumn("content", db_types.TextTypeID))

	_, err := NewTupleWithSchema([]*db_types.Value{db_types.NewIDValue("1")}, schema)
	assert.Error(t, err)

	_, err = NewTupleWithSchema([]*db_types.Value{db_types.NewIDValue("1"), db_types.NewStringValue("x")}, schema)
	assert.Error(t, err)

	tuple, err := NewTupleWithSchema([]*db_types.Value{db_types.NewIDValue("1"), db_types.NewTextValue("x")}, schema)
	require.NoError(t, err)

	v, err := tuple.GetValueByName(schema, "CONTENT")
	require.NoError(t, err)
	assert.Equal(t, "x", v.GetAsInterface())
}

func TestTuple_Derivations_Do_Not_Modify_Original(t *testing.T) {
	original := NewTuple(db_types.NewIDValue("1"), db_types.NewTextValue("text"))

	appended := original.Append(db_types.NewSpanListValue(nil))
	replaced := original.WithValue(1, db_types.NewTextValue("other"))
	projected := original.Project([]int{1})

	assert.Equal(t, 2, original.Len())
	assert.Equal(t, 3, appended.Len())
	assert.True(t, original.GetValue(1).Equal(db_types.NewTextValue("text")))
	assert.True(t, replaced.GetValue(1).Equal(db_types.NewTextValue("other")))
	assert.True(t, projected.Equal(NewTuple(db_types.NewTextValue("text"))))
	assert.Nil(t, original.GetValue(5))
}

func TestTuple_Serialize(t *testing.T) {
	spans := []db_types.Span{db_types.NewSpan("content", 2, 9, "special", "special")}
	tuple := NewTuple(
		db_types.NewIDValue("c2f6"),
		db_types.NewStringValue("title"),
		db_types.NewTextValue("a special kind of writer"),
		db_types.NewValue(int32(-3)),
		db_types.NewValue(2.25),
		db_types.NewValue(time.Date(2020, 1, 2, 3, 4, 5, 0, time.UTC)),
		db_types.NewSpanListValue(spans),
	)

	read, err := DeserializeTuple(tuple.Serialize(nil))
	require.NoError(t, err)
	assert.True(t, tuple.Equal(read), "%v != %v", tuple, read)

	_, err = DeserializeTuple(tuple.Serialize(nil)[:5])
	assert.Error(t, err)
}

func TestDeserializeTuple_Count_Larger_Than_Input(t *testing.T) {
	src := binary.AppendUvarint(nil, 1<<62)
	src = append(src, db_types.TextTypeID.KindID)

	require.NotPanics(t, func() {
		_, err := DeserializeTuple(src)
		assert.ErrorIs(t, err, db_types.ErrShortRead)
	})
}

func TestTuple_Equal(t *testing.T) {
	a := NewTuple(db_types.NewIDValue("1"), db_types.NewTextValue("x"))
	b := NewTuple(db_types.NewIDValue("1"), db_types.NewTextValue("x"))
	c := NewTuple(db_types.NewIDValue("1"), db_types.NewStringValue("x"))

	assert.True(t, a.Equal(b))
	assert.False(t, a.Equal(c))
	assert.False(t, a.Equal(nil))
}
