package expressions

import (
	"spandb/catalog"
	"spandb/catalog/db_types"
	"spandb/common"
)

type GetColumnExpression struct {
	BaseExpression
	ColName string
}

func (e *GetColumnExpression) Eval(t *catalog.Tuple, s catalog.Schema) (*db_types.Value, error) {
	v, err := t.GetValueByName(s, e.ColName)
	if err != nil {
		return nil, common.WrapError(common.KindSchema, err, "GetColumnExpression", "Eval")
	}
	return v, nil
}

func NewGetColumnExpression(colName string) *GetColumnExpression {
	return &GetColumnExpression{ColName: colName}
}
