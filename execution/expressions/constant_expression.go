package expressions

import (
	"spandb/catalog"
	"spandb/catalog/db_types"
)

type ConstExpression struct {
	BaseExpression
	Val *db_types.Value
}

func (e *ConstExpression) Eval(*catalog.Tuple, catalog.Schema) (*db_types.Value, error) {
	return e.Val, nil
}

func NewConstExpression(val *db_types.Value) *ConstExpression {
	return &ConstExpression{Val: val}
}
