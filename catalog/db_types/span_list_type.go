package db_types

import (
	"encoding/binary"
	"slices"
)

// SpanListType holds the match annotations operators attach to a tuple.
type SpanListType struct{}

// Less orders span lists by length only, they have no natural order.
func (s *SpanListType) Less(this *Value, than *Value) bool {
	return len(this.AsSpans()) < len(than.AsSpans())
}

func (s *SpanListType) Equal(this *Value, other *Value) bool {
	return slices.Equal(this.AsSpans(), other.AsSpans())
}

func (s *SpanListType) Serialize(dest []byte, src *Value) []byte {
	spans := src.AsSpans()
	dest = binary.AppendUvarint(dest, uint64(len(spans)))
	for _, span := range spans {
		dest = appendString(dest, span.AttributeName)
		dest = binary.AppendVarint(dest, int64(span.Start))
		dest = binary.AppendVarint(dest, int64(span.End))
		dest = appendString(dest, span.Key)
		dest = appendString(dest, span.Value)
		dest = binary.AppendVarint(dest, int64(span.TokenOffset))
	}
	return dest
}

func (s *SpanListType) Deserialize(src []byte) (*Value, int, error) {
	count, n := binary.Uvarint(src)
	if n <= 0 {
		return nil, 0, ErrShortRead
	}
	off := n

	spans := make([]Span, 0, min(count, uint64(len(src))))
	for i := uint64(0); i < count; i++ {
		var span Span
		var err error
		if span.AttributeName, off, err = readString(src, off); err != nil {
			return nil, 0, err
		}
		var start, end, tokenOffset int64
		if start, off, err = readVarint(src, off); err != nil {
			return nil, 0, err
		}
		if end, off, err = readVarint(src, off); err != nil {
			return nil, 0, err
		}
		if span.Key, off, err = readString(src, off); err != nil {
			return nil, 0, err
		}
		if span.Value, off, err = readString(src, off); err != nil {
			return nil, 0, err
		}
		if tokenOffset, off, err = readVarint(src, off); err != nil {
			return nil, 0, err
		}
		span.Start, span.End, span.TokenOffset = int(start), int(end), int(tokenOffset)
		spans = append(spans, span)
	}

	return &Value{typeID: SpanListTypeID, value: spans}, off, nil
}

func (s *SpanListType) TypeId() TypeID {
	return SpanListTypeID
}

func (s *SpanListType) Name() string {
	return "span_list"
}

func appendString(dest []byte, s string) []byte {
	dest = binary.AppendUvarint(dest, uint64(len(s)))
	return append(dest, s...)
}

func readString(src []byte, off int) (string, int, error) {
	l, n := binary.Uvarint(src[off:])
	if n <= 0 || uint64(len(src)-off-n) < l {
		return "", 0, ErrShortRead
	}
	start := off + n
	end := start + int(l)
	return string(src[start:end]), end, nil
}

func readVarint(src []byte, off int) (int64, int, error) {
	v, n := binary.Varint(src[off:])
	if n <= 0 {
		return 0, 0, ErrShortRead
	}
	return v, off + n, nil
}
