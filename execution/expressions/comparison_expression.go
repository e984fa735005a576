package expressions

import (
	"fmt"

	"spandb/catalog"
	"spandb/catalog/db_types"
	"spandb/common"
)

type CompType int

const (
	Equal CompType = iota
	NotEqual
	LessThan
	LessThanOrEqual
	GreaterThan
	GreaterThanOrEqual
)

var compTypeNames = map[string]CompType{
	"=":  Equal,
	"==": Equal,
	"!=": NotEqual,
	"<":  LessThan,
	"<=": LessThanOrEqual,
	">":  GreaterThan,
	">=": GreaterThanOrEqual,
}

func ParseCompType(op string) (CompType, error) {
	c, ok := compTypeNames[op]
	if !ok {
		return 0, common.NewError(common.KindConfiguration, "CompExpression", "Parse", "unknown comparison operator %q", op)
	}
	return c, nil
}

// CompExpression compares its two children. Both sides must evaluate to values of the same kind.
type CompExpression struct {
	BaseExpression
	CompType CompType
}

var _ IPredicate = &CompExpression{}

func (e *CompExpression) Test(t *catalog.Tuple, s catalog.Schema) (bool, error) {
	lhs, err := e.GetChildAt(0).Eval(t, s)
	if err != nil {
		return false, err
	}
	rhs, err := e.GetChildAt(1).Eval(t, s)
	if err != nil {
		return false, err
	}
	if lhs.GetTypeId() != rhs.GetTypeId() {
		return false, common.NewError(common.KindSchema, "CompExpression", "Test",
			"can not compare %v with %v", lhs.GetTypeId(), rhs.GetTypeId())
	}

	return doComparison(e.CompType, lhs, rhs)
}

func doComparison(compType CompType, lhs, rhs *db_types.Value) (bool, error) {
	switch compType {
	case Equal:
		return lhs.Equal(rhs), nil
	case NotEqual:
		return !lhs.Equal(rhs), nil
	case LessThan:
		return lhs.LessThanValue(rhs), nil
	case LessThanOrEqual:
		return lhs.LessThanValue(rhs) || lhs.Equal(rhs), nil
	case GreaterThan:
		return rhs.LessThanValue(lhs), nil
	case GreaterThanOrEqual:
		return rhs.LessThanValue(lhs) || lhs.Equal(rhs), nil
	default:
		return false, fmt.Errorf("unknown comparison type %d", compType)
	}
}

func NewCompExpression(compType CompType, lhs, rhs IExpression) *CompExpression {
	return &CompExpression{
		BaseExpression: BaseExpression{Children: []IExpression{lhs, rhs}},
		CompType:       compType,
	}
}
