package db_types

import (
	"errors"
	"fmt"
	"strings"
)

// TypeID identifies the kind of a field. Unlike the storage engine this package was born in, values are not
// fixed size hence Size is gone and only the kind remains.
type TypeID struct {
	KindID uint8
}

var (
	IDTypeID       = TypeID{KindID: 1}
	StringTypeID   = TypeID{KindID: 2}
	TextTypeID     = TypeID{KindID: 3}
	IntegerTypeID  = TypeID{KindID: 4}
	DoubleTypeID   = TypeID{KindID: 5}
	DateTypeID     = TypeID{KindID: 6}
	SpanListTypeID = TypeID{KindID: 7}
)

var ErrShortRead = errors.New("db_types: short read")

// DbType is the interface that should be implemented to make a go type usable as a field value.
type DbType interface {
	Less(this *Value, than *Value) bool
	Equal(this *Value, other *Value) bool

	// Serialize appends encoded src to dest and returns the extended slice.
	Serialize(dest []byte, src *Value) []byte

	// Deserialize decodes a value from the beginning of src and returns it with the number of bytes read.
	Deserialize(src []byte) (*Value, int, error)

	TypeId() TypeID
	Name() string
}

var types = map[TypeID]DbType{
	IDTypeID:       &StringType{typeID: IDTypeID, name: "id"},
	StringTypeID:   &StringType{typeID: StringTypeID, name: "string"},
	TextTypeID:     &StringType{typeID: TextTypeID, name: "text"},
	IntegerTypeID:  &IntegerType{},
	DoubleTypeID:   &DoubleType{},
	DateTypeID:     &DateType{},
	SpanListTypeID: &SpanListType{},
}

func GetType(typeID TypeID) DbType {
	return types[typeID]
}

// TypeByName resolves names used in configuration files such as "text" or "integer".
func TypeByName(name string) (TypeID, error) {
	for id, t := range types {
		if strings.EqualFold(t.Name(), name) {
			return id, nil
		}
	}
	return TypeID{}, fmt.Errorf("unknown type name: %q", name)
}

func (t TypeID) String() string {
	if dt := GetType(t); dt != nil {
		return dt.Name()
	}
	return fmt.Sprintf("kind(%d)", t.KindID)
}

// IsTextual returns true for the kinds that keyword, regex and fuzzy matchers can search in.
func (t TypeID) IsTextual() bool {
	return t == StringTypeID || t == TextTypeID
}
