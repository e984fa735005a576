package catalog

import (
	"errors"
	"fmt"
	"strings"

	"spandb/catalog/db_types"
	"spandb/common"
)

var ErrColumnNotFound = errors.New("column does not exist")

// Schema is an ordered list of uniquely named columns. Names are compared case-insensitively and the position
// of a column is the position of its value in a tuple.
type Schema interface {
	GetColumns() []Column
	GetColumn(idx int) *Column
	GetColIdx(name string) (int, error)
	ContainsColumn(name string) bool
	GetColumnNames() []string
	Len() int
	Equal(other Schema) bool
}

type SchemaImpl struct {
	columns []Column
}

func (s *SchemaImpl) GetColIdx(name string) (int, error) {
	for i, column := range s.columns {
		if strings.EqualFold(column.Name, name) {
			return i, nil
		}
	}

	return 0, fmt.Errorf("%w: %v", ErrColumnNotFound, name)
}

// GetColumns returns a copy of the columns.
func (s *SchemaImpl) GetColumns() []Column {
	res := make([]Column, len(s.columns))
	copy(res, s.columns)
	return res
}

func (s *SchemaImpl) GetColumn(idx int) *Column {
	c := s.columns[idx]
	return &c
}

func (s *SchemaImpl) ContainsColumn(name string) bool {
	_, err := s.GetColIdx(name)
	return err == nil
}

func (s *SchemaImpl) GetColumnNames() []string {
	names := make([]string, len(s.columns))
	for i, c := range s.columns {
		names[i] = c.Name
	}
	return names
}

func (s *SchemaImpl) Len() int {
	return len(s.columns)
}

func (s *SchemaImpl) Equal(other Schema) bool {
	if other == nil || other.Len() != s.Len() {
		return false
	}
	for i, c := range s.columns {
		o := other.GetColumn(i)
		if !strings.EqualFold(c.Name, o.Name) || c.TypeId != o.TypeId {
			return false
		}
	}
	return true
}

func (s *SchemaImpl) String() string {
	parts := make([]string, len(s.columns))
	for i := range s.columns {
		parts[i] = s.columns[i].String()
	}
	return "[" + strings.Join(parts, ", ") + "]"
}

func NewSchema(cols []Column) (Schema, error) {
	seen := make(map[string]struct{}, len(cols))
	for i, c := range cols {
		if c.Name == "" {
			return nil, common.NewError(common.KindSchema, "Schema", "NewSchema", "column %d has an empty name", i)
		}
		if db_types.GetType(c.TypeId) == nil {
			return nil, common.NewError(common.KindSchema, "Schema", "NewSchema", "column %v has unknown type %v", c.Name, c.TypeId)
		}

		key := strings.ToLower(c.Name)
		if _, ok := seen[key]; ok {
			return nil, common.NewError(common.KindSchema, "Schema", "NewSchema", "duplicate column name %v", c.Name)
		}
		seen[key] = struct{}{}

		if strings.EqualFold(c.Name, common.IDAttributeName) {
			if i != 0 {
				return nil, common.NewError(common.KindSchema, "Schema", "NewSchema", "%v must be the first column", common.IDAttributeName)
			}
			if c.TypeId != db_types.IDTypeID {
				return nil, common.NewError(common.KindSchema, "Schema", "NewSchema", "%v must be of type id, not %v", common.IDAttributeName, c.TypeId)
			}
		}
	}

	columns := make([]Column, len(cols))
	copy(columns, cols)
	return &SchemaImpl{
		columns: columns,
	}, nil
}

func MustNewSchema(cols ...Column) Schema {
	s, err := NewSchema(cols)
	common.PanicIfErr(err)
	return s
}

// AppendColumn returns a new schema with col added to the end. Adding a name that already exists fails, existing
// columns are never silently overwritten.
func AppendColumn(s Schema, col Column) (Schema, error) {
	if s.ContainsColumn(col.Name) {
		return nil, common.NewError(common.KindSchema, "Schema", "AppendColumn", "column %v already exists", col.Name)
	}
	return NewSchema(append(s.GetColumns(), col))
}

// SpanSchema returns s extended with a span list column named spanListName. If s already has a span list column
// with that name s itself is returned.
func SpanSchema(s Schema, spanListName string) (Schema, error) {
	idx, err := s.GetColIdx(spanListName)
	if err != nil {
		return AppendColumn(s, NewColumn(spanListName, db_types.SpanListTypeID))
	}
	if s.GetColumn(idx).TypeId != db_types.SpanListTypeID {
		return nil, common.NewError(common.KindSchema, "Schema", "SpanSchema",
			"column %v exists with type %v, expected span_list", spanListName, s.GetColumn(idx).TypeId)
	}
	return s, nil
}

// ProjectSchema keeps only the columns whose names are in keep. Input order is preserved and names in keep that
// do not exist in s are ignored. It also returns the indexes of the kept columns in s.
func ProjectSchema(s Schema, keep []string) (Schema, []int) {
	cols := make([]Column, 0, len(keep))
	idxs := make([]int, 0, len(keep))
	for i, c := range s.GetColumns() {
		if common.ContainsFold(keep, c.Name) {
			cols = append(cols, c)
			idxs = append(idxs, i)
		}
	}

	return &SchemaImpl{columns: cols}, idxs
}
