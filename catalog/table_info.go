package catalog

import (
	"github.com/google/uuid"

	"spandb/catalog/db_types"
	"spandb/common"
)

type TableInfo struct {
	Name string

	// Directory holds the table's segments. It is empty for in memory tables.
	Directory string
	Schema    Schema
	Analyzer  string

	store tupleStore
}

// InsertTupleViaValues stores a new tuple made of a freshly generated _ID followed by values, and returns the id.
func (tbl *TableInfo) InsertTupleViaValues(values []*db_types.Value) (string, error) {
	ids, err := tbl.InsertTuplesViaValues([][]*db_types.Value{values})
	if err != nil {
		return "", err
	}
	return ids[0], nil
}

// InsertTuplesViaValues stores a batch of rows at once. The batch becomes visible to scans atomically.
func (tbl *TableInfo) InsertTuplesViaValues(rows [][]*db_types.Value) ([]string, error) {
	ids := make([]string, 0, len(rows))
	tuples := make([]*Tuple, 0, len(rows))
	for _, values := range rows {
		id := uuid.NewString()
		withID := make([]*db_types.Value, 0, len(values)+1)
		withID = append(withID, db_types.NewIDValue(id))
		withID = append(withID, values...)

		tuple, err := NewTupleWithSchema(withID, tbl.Schema)
		if err != nil {
			return nil, common.WrapError(common.KindSchema, err, "TableInfo", "InsertTuple")
		}
		ids = append(ids, id)
		tuples = append(tuples, tuple)
	}

	if err := tbl.InsertTuples(tuples); err != nil {
		return nil, err
	}
	return ids, nil
}

// InsertTuples stores complete tuples, _ID included.
func (tbl *TableInfo) InsertTuples(tuples []*Tuple) error {
	for _, t := range tuples {
		if t.Len() != tbl.Schema.Len() {
			return common.NewError(common.KindSchema, "TableInfo", "InsertTuple",
				"tuple has %d values, table %v has %d columns", t.Len(), tbl.Name, tbl.Schema.Len())
		}
	}

	if err := tbl.store.Append(tuples); err != nil {
		return common.WrapError(common.KindStorage, err, "TableInfo", "InsertTuple")
	}
	return nil
}

func (tbl *TableInfo) Scan() (TupleIterator, error) {
	it, err := tbl.store.Scan()
	if err != nil {
		return nil, common.WrapError(common.KindStorage, err, "TableInfo", "Scan")
	}
	return it, nil
}

func (tbl *TableInfo) Count() int {
	return tbl.store.Count()
}
