package db_types

import "encoding/binary"

type IntegerType struct{}

func (i *IntegerType) Less(this *Value, than *Value) bool {
	return this.value.(int32) < than.value.(int32)
}

func (i *IntegerType) Equal(this *Value, other *Value) bool {
	return this.value.(int32) == other.value.(int32)
}

func (i *IntegerType) Serialize(dest []byte, src *Value) []byte {
	return binary.AppendVarint(dest, int64(src.value.(int32)))
}

func (i *IntegerType) Deserialize(src []byte) (*Value, int, error) {
	v, n := binary.Varint(src)
	if n <= 0 {
		return nil, 0, ErrShortRead
	}
	return &Value{typeID: IntegerTypeID, value: int32(v)}, n, nil
}

func (i *IntegerType) TypeId() TypeID {
	return IntegerTypeID
}

func (i *IntegerType) Name() string {
	return "integer"
}
