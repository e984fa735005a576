package db_types

import (
	"encoding/binary"
	"time"
)

// DateType stores instants as unix nanoseconds and always hands them back in UTC.
type DateType struct{}

func (d *DateType) Less(this *Value, than *Value) bool {
	return this.value.(time.Time).Before(than.value.(time.Time))
}

func (d *DateType) Equal(this *Value, other *Value) bool {
	return this.value.(time.Time).Equal(other.value.(time.Time))
}

func (d *DateType) Serialize(dest []byte, src *Value) []byte {
	return binary.AppendVarint(dest, src.value.(time.Time).UnixNano())
}

func (d *DateType) Deserialize(src []byte) (*Value, int, error) {
	v, n := binary.Varint(src)
	if n <= 0 {
		return nil, 0, ErrShortRead
	}
	return &Value{typeID: DateTypeID, value: time.Unix(0, v).UTC()}, n, nil
}

func (d *DateType) TypeId() TypeID {
	return DateTypeID
}

func (d *DateType) Name() string {
	return "date"
}
