package plans

import (
	"spandb/catalog"
	"spandb/common"
)

// ValuesPlanNode produces a fixed list of tuples.
type ValuesPlanNode struct {
	BasePlanNode
	tuples []*catalog.Tuple
}

func (n *ValuesPlanNode) GetType() PlanType {
	return Values
}

func (n *ValuesPlanNode) GetTuples() []*catalog.Tuple {
	return n.tuples
}

func NewValuesPlanNode(schema catalog.Schema, tuples []*catalog.Tuple) (*ValuesPlanNode, error) {
	if schema == nil {
		return nil, common.NewError(common.KindConfiguration, "ValuesPlanNode", "New", "schema is nil")
	}
	for i, t := range tuples {
		if _, err := catalog.NewTupleWithSchema(t.GetValues(), schema); err != nil {
			return nil, common.NewError(common.KindSchema, "ValuesPlanNode", "New", "tuple %d: %v", i, err)
		}
	}

	return &ValuesPlanNode{
		BasePlanNode: BasePlanNode{OutSchema: schema},
		tuples:       append([]*catalog.Tuple(nil), tuples...),
	}, nil
}
