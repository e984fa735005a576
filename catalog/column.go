package catalog

import (
	"spandb/catalog/db_types"
	"spandb/common"
)

type Column struct {
	Name   string
	TypeId db_types.TypeID
}

func NewColumn(name string, typeID db_types.TypeID) Column {
	return Column{Name: name, TypeId: typeID}
}

// IDColumn is the identifier column every stored table starts with.
func IDColumn() Column {
	return NewColumn(common.IDAttributeName, db_types.IDTypeID)
}

func (c *Column) String() string {
	return c.Name + ":" + c.TypeId.String()
}
