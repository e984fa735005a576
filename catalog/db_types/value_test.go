package db_types

import (
	"encoding/binary"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStringType_Serialize(t *testing.T) {
	val := NewTextValue("this is a text type")
	dest := val.Serialize(nil)

	readVal, n, err := Deserialize(val.GetTypeId(), dest)
	require.NoError(t, err)
	assert.Equal(t, len(dest), n)
	assert.Equal(t, "this is a text type", readVal.GetAsInterface().(string))
	assert.Equal(t, TextTypeID, readVal.GetTypeId())
}

func TestSpanListType_Serialize(t *testing.T) {
	spans := []Span{
		NewSpan("content", 11, 18, "special", "special"),
		NewTokenSpan("content", 27, 33, "writer", "writer", 5),
	}
	val := NewSpanListValue(spans)

	dest := val.Serialize([]byte{0xff})
	readVal, n, err := Deserialize(SpanListTypeID, dest[1:])
	require.NoError(t, err)
	assert.Equal(t, len(dest)-1, n)
	assert.True(t, val.Equal(readVal))
	assert.Equal(t, spans, readVal.AsSpans())
}

func TestValues_SerializeConcatenated(t *testing.T) {
	date := time.Date(2017, 3, 12, 10, 0, 0, 0, time.UTC)
	values := []*Value{NewIDValue("id-1"), NewValue(42), NewValue(3.5), NewValue(date), NewStringValue("")}

	var buf []byte
	for _, v := range values {
		buf = v.Serialize(buf)
	}

	off := 0
	for _, v := range values {
		readVal, n, err := Deserialize(v.GetTypeId(), buf[off:])
		require.NoError(t, err)
		assert.True(t, v.Equal(readVal), "expected %v got %v", v, readVal)
		off += n
	}
	assert.Equal(t, len(buf), off)
}

func TestDeserialize_ShortRead(t *testing.T) {
	dest := NewTextValue("truncated").Serialize(nil)
	_, _, err := Deserialize(TextTypeID, dest[:4])
	assert.ErrorIs(t, err, ErrShortRead)

	_, _, err = Deserialize(DoubleTypeID, []byte{1, 2})
	assert.ErrorIs(t, err, ErrShortRead)
}

func TestDeserialize_SpanList_Count_Larger_Than_Input(t *testing.T) {
	src := binary.AppendUvarint(nil, 1<<62)

	require.NotPanics(t, func() {
		_, _, err := Deserialize(SpanListTypeID, src)
		assert.ErrorIs(t, err, ErrShortRead)
	})
}

func TestValue_Equal(t *testing.T) {
	assert.True(t, NewTextValue("a").Equal(NewTextValue("a")))
	assert.False(t, NewTextValue("a").Equal(NewStringValue("a")))
	assert.False(t, NewValue(1).Equal(NewValue(2)))
	assert.True(t, NewValue(1).LessThanValue(NewValue(2)))
}

func TestSpanListValue_CopiesInput(t *testing.T) {
	spans := []Span{NewSpan("content", 0, 3, "k", "v")}
	val := NewSpanListValue(spans)
	spans[0].Key = "changed"

	assert.Equal(t, "k", val.AsSpans()[0].Key)
}

func TestSpan_Validate(t *testing.T) {
	assert.NoError(t, NewSpan("a", 0, 0, "", "").Validate())
	assert.Error(t, NewSpan("a", -1, 2, "", "").Validate())
	assert.Error(t, NewSpan("a", 5, 2, "", "").Validate())
	assert.Equal(t, UnsetTokenOffset, NewSpan("a", 1, 2, "", "").TokenOffset)
}

func TestTypeByName(t *testing.T) {
	id, err := TypeByName("TEXT")
	require.NoError(t, err)
	assert.Equal(t, TextTypeID, id)

	id, err = TypeByName("span_list")
	require.NoError(t, err)
	assert.Equal(t, SpanListTypeID, id)

	_, err = TypeByName("blob")
	assert.Error(t, err)
}

func TestNewValueOfType(t *testing.T) {
	v, err := NewValueOfType(IntegerTypeID, float64(7))
	require.NoError(t, err)
	assert.Equal(t, int32(7), v.GetAsInterface())

	v, err = NewValueOfType(DateTypeID, "2017-03-12")
	require.NoError(t, err)
	assert.True(t, v.Equal(NewValue(time.Date(2017, 3, 12, 0, 0, 0, 0, time.UTC))))

	_, err = NewValueOfType(TextTypeID, 12)
	assert.Error(t, err)
}
