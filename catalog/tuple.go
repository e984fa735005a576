package catalog

import (
	"encoding/binary"
	"errors"
	"fmt"
	"strings"

	"spandb/catalog/db_types"
)

// Tuple is an ordered list of values matching a schema by position. Tuples are never modified after they are
// built, operators derive new tuples with WithValue, Append or Project instead.
type Tuple struct {
	values []*db_types.Value
}

func NewTupleWithSchema(values []*db_types.Value, schema Schema) (*Tuple, error) {
	if len(values) != schema.Len() {
		return nil, fmt.Errorf("schema column count %d is not equal to values' length %d", schema.Len(), len(values))
	}
	for i, column := range schema.GetColumns() {
		if values[i] == nil {
			return nil, fmt.Errorf("value of column %v is nil", column.Name)
		}
		if values[i].GetTypeId() != column.TypeId {
			return nil, fmt.Errorf("value of column %v is %v, expected %v", column.Name, values[i].GetTypeId(), column.TypeId)
		}
	}

	return NewTuple(values...), nil
}

func NewTuple(values ...*db_types.Value) *Tuple {
	cp := make([]*db_types.Value, len(values))
	copy(cp, values)
	return &Tuple{values: cp}
}

func (t *Tuple) GetValue(columnIdx int) *db_types.Value {
	if columnIdx < 0 || columnIdx >= len(t.values) {
		return nil
	}
	return t.values[columnIdx]
}

func (t *Tuple) GetValueByName(schema Schema, name string) (*db_types.Value, error) {
	idx, err := schema.GetColIdx(name)
	if err != nil {
		return nil, err
	}
	if v := t.GetValue(idx); v != nil {
		return v, nil
	}
	return nil, fmt.Errorf("tuple has no value for column %v", name)
}

func (t *Tuple) GetValues() []*db_types.Value {
	cp := make([]*db_types.Value, len(t.values))
	copy(cp, t.values)
	return cp
}

func (t *Tuple) Len() int {
	return len(t.values)
}

// WithValue returns a copy of t whose value at columnIdx is v.
func (t *Tuple) WithValue(columnIdx int, v *db_types.Value) *Tuple {
	res := NewTuple(t.values...)
	res.values[columnIdx] = v
	return res
}

func (t *Tuple) Append(v *db_types.Value) *Tuple {
	values := make([]*db_types.Value, len(t.values), len(t.values)+1)
	copy(values, t.values)
	return &Tuple{values: append(values, v)}
}

func (t *Tuple) Project(columnIdxs []int) *Tuple {
	values := make([]*db_types.Value, len(columnIdxs))
	for i, idx := range columnIdxs {
		values[i] = t.values[idx]
	}
	return &Tuple{values: values}
}

func (t *Tuple) Equal(other *Tuple) bool {
	if t == nil || other == nil {
		return t == other
	}
	if len(t.values) != len(other.values) {
		return false
	}
	for i := range t.values {
		if !t.values[i].Equal(other.values[i]) {
			return false
		}
	}
	return true
}

func (t *Tuple) String() string {
	parts := make([]string, len(t.values))
	for i, v := range t.values {
		parts[i] = v.String()
	}
	return "(" + strings.Join(parts, ", ") + ")"
}

/**
 * serialized tuple format:
 *  ------------------------------------------------------------------------
 *  | ValueCount (uvarint) | KindID (1) | Value | KindID (1) | Value | ... |
 *  ------------------------------------------------------------------------
 */

func (t *Tuple) Serialize(dest []byte) []byte {
	dest = binary.AppendUvarint(dest, uint64(len(t.values)))
	for _, v := range t.values {
		dest = append(dest, v.GetTypeId().KindID)
		dest = v.Serialize(dest)
	}
	return dest
}

func DeserializeTuple(src []byte) (*Tuple, error) {
	count, n := binary.Uvarint(src)
	if n <= 0 {
		return nil, errors.New("corrupt tuple: bad value count")
	}

	off := n
	values := make([]*db_types.Value, 0, min(count, uint64(len(src))))
	for i := uint64(0); i < count; i++ {
		if off >= len(src) {
			return nil, db_types.ErrShortRead
		}
		typeID := db_types.TypeID{KindID: src[off]}
		off++

		v, read, err := db_types.Deserialize(typeID, src[off:])
		if err != nil {
			return nil, fmt.Errorf("corrupt tuple: value %d: %w", i, err)
		}
		off += read
		values = append(values, v)
	}

	return &Tuple{values: values}, nil
}
