package db_types

import (
	"encoding/binary"
	"strings"
)

// StringType backs the id, string and text kinds. They share the encoding, a uvarint length followed by raw
// utf-8 bytes, and only differ in how matchers treat them.
type StringType struct {
	typeID TypeID
	name   string
}

func (c *StringType) Less(this *Value, than *Value) bool {
	return strings.Compare(this.value.(string), than.value.(string)) < 0
}

func (c *StringType) Equal(this *Value, other *Value) bool {
	return this.value.(string) == other.value.(string)
}

func (c *StringType) Serialize(dest []byte, src *Value) []byte {
	s := src.value.(string)
	dest = binary.AppendUvarint(dest, uint64(len(s)))
	return append(dest, s...)
}

func (c *StringType) Deserialize(src []byte) (*Value, int, error) {
	l, n := binary.Uvarint(src)
	if n <= 0 || uint64(len(src)-n) < l {
		return nil, 0, ErrShortRead
	}
	end := n + int(l)
	return &Value{typeID: c.typeID, value: string(src[n:end])}, end, nil
}

func (c *StringType) TypeId() TypeID {
	return c.typeID
}

func (c *StringType) Name() string {
	return c.name
}
