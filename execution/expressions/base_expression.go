package expressions

import (
	"spandb/catalog"
	"spandb/catalog/db_types"
)

// IExpression is the node in expression tree
type IExpression interface {
	Eval(t *catalog.Tuple, s catalog.Schema) (*db_types.Value, error)
	GetChildAt(idx int) IExpression
	GetChildren() []IExpression
}

// IPredicate is an expression deciding whether a tuple qualifies.
type IPredicate interface {
	Test(t *catalog.Tuple, s catalog.Schema) (bool, error)
}

// BaseExpression implements trivial methods needed for each type implementing IExpression interface such as
// tree traversal methods
type BaseExpression struct {
	Children []IExpression
}

func (e *BaseExpression) GetChildAt(idx int) IExpression {
	return e.Children[idx]
}

func (e *BaseExpression) GetChildren() []IExpression {
	return e.Children
}
