package db_types

import (
	"encoding/binary"
	"math"
)

type DoubleType struct{}

func (f *DoubleType) Less(this *Value, than *Value) bool {
	return this.value.(float64) < than.value.(float64)
}

func (f *DoubleType) Equal(this *Value, other *Value) bool {
	return this.value.(float64) == other.value.(float64)
}

func (f *DoubleType) Serialize(dest []byte, src *Value) []byte {
	return binary.BigEndian.AppendUint64(dest, math.Float64bits(src.value.(float64)))
}

func (f *DoubleType) Deserialize(src []byte) (*Value, int, error) {
	if len(src) < 8 {
		return nil, 0, ErrShortRead
	}
	return &Value{typeID: DoubleTypeID, value: math.Float64frombits(binary.BigEndian.Uint64(src))}, 8, nil
}

func (f *DoubleType) TypeId() TypeID {
	return DoubleTypeID
}

func (f *DoubleType) Name() string {
	return "double"
}
