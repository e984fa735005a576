package db_types

import (
	"fmt"
	"time"
)

type Value struct {
	typeID TypeID
	value  interface{}
}

func (v *Value) LessThanValue(than *Value) bool {
	return GetType(v.GetTypeId()).Less(v, than)
}

// Equal compares two values structurally. Values of different kinds are never equal.
func (v *Value) Equal(other *Value) bool {
	if v == nil || other == nil {
		return v == other
	}
	if v.typeID != other.typeID {
		return false
	}
	return GetType(v.typeID).Equal(v, other)
}

func (v *Value) GetTypeId() TypeID {
	return v.typeID
}

func (v *Value) Serialize(dest []byte) []byte {
	return GetType(v.GetTypeId()).Serialize(dest, v)
}

func Deserialize(typeID TypeID, src []byte) (*Value, int, error) {
	t := GetType(typeID)
	if t == nil {
		return nil, 0, fmt.Errorf("cannot deserialize unknown type %v", typeID)
	}
	return t.Deserialize(src)
}

func (v *Value) GetAsInterface() interface{} {
	return v.value
}

// AsString returns the string held by id, string and text values.
func (v *Value) AsString() (string, bool) {
	s, ok := v.value.(string)
	return s, ok
}

// AsSpans returns the spans of a span list value, nil for any other kind.
func (v *Value) AsSpans() []Span {
	spans, _ := v.value.([]Span)
	return spans
}

func (v *Value) String() string {
	switch val := v.value.(type) {
	case time.Time:
		return val.Format(time.RFC3339)
	case []Span:
		return fmt.Sprintf("%v", val)
	default:
		return fmt.Sprintf("%v", val)
	}
}

// NewValue infers the kind from the dynamic type of src. Strings become string values; use NewTextValue and
// NewIDValue for the other textual kinds.
func NewValue(src interface{}) *Value {
	switch val := src.(type) {
	case int32:
		return &Value{typeID: IntegerTypeID, value: val}
	case int:
		return &Value{typeID: IntegerTypeID, value: int32(val)}
	case string:
		return &Value{typeID: StringTypeID, value: val}
	case float64:
		return &Value{typeID: DoubleTypeID, value: val}
	case time.Time:
		return &Value{typeID: DateTypeID, value: val}
	case []Span:
		return NewSpanListValue(val)
	default:
		panic(fmt.Sprintf("not supported type: %T", src))
	}
}

func NewIDValue(id string) *Value {
	return &Value{typeID: IDTypeID, value: id}
}

func NewStringValue(s string) *Value {
	return &Value{typeID: StringTypeID, value: s}
}

func NewTextValue(s string) *Value {
	return &Value{typeID: TextTypeID, value: s}
}

// NewSpanListValue copies spans so that the value can not be changed through the caller's slice.
func NewSpanListValue(spans []Span) *Value {
	cp := make([]Span, len(spans))
	copy(cp, spans)
	return &Value{typeID: SpanListTypeID, value: cp}
}

// NewValueOfType converts a decoded json/yaml scalar into a value of the given kind.
func NewValueOfType(typeID TypeID, src interface{}) (*Value, error) {
	switch typeID {
	case IDTypeID, StringTypeID, TextTypeID:
		s, ok := src.(string)
		if !ok {
			return nil, fmt.Errorf("expected string for %v, got %T", typeID, src)
		}
		return &Value{typeID: typeID, value: s}, nil
	case IntegerTypeID:
		switch n := src.(type) {
		case int:
			return NewValue(int32(n)), nil
		case int32:
			return NewValue(n), nil
		case int64:
			return NewValue(int32(n)), nil
		case float64:
			return NewValue(int32(n)), nil
		}
	case DoubleTypeID:
		switch n := src.(type) {
		case float64:
			return NewValue(n), nil
		case int:
			return NewValue(float64(n)), nil
		}
	case DateTypeID:
		switch d := src.(type) {
		case time.Time:
			return NewValue(d), nil
		case string:
			parsed, err := time.Parse(time.RFC3339, d)
			if err != nil {
				parsed, err = time.Parse("2006-01-02", d)
				if err != nil {
					return nil, err
				}
			}
			return NewValue(parsed.UTC()), nil
		}
	case SpanListTypeID:
		if spans, ok := src.([]Span); ok {
			return NewSpanListValue(spans), nil
		}
	}

	return nil, fmt.Errorf("cannot convert %T to %v", src, typeID)
}
