package plans

import (
	"spandb/common"
	"spandb/execution/expressions"
)

// JoinPlanNode joins the tuples of two span producing inputs that share the same _ID, merging the spans that
// are close to each other on the join attribute.
type JoinPlanNode struct {
	BasePlanNode
	LimitOffset
	predicate *expressions.JoinDistancePredicate
}

func (n *JoinPlanNode) GetType() PlanType {
	return Join
}

func (n *JoinPlanNode) GetPredicate() *expressions.JoinDistancePredicate {
	return n.predicate
}

func (n *JoinPlanNode) GetOuterPlan() IPlanNode {
	return n.GetChildAt(0)
}

func (n *JoinPlanNode) GetInnerPlan() IPlanNode {
	return n.GetChildAt(1)
}

func NewJoinPlanNode(outer, inner IPlanNode, pred *expressions.JoinDistancePredicate, opts ...Option) (*JoinPlanNode, error) {
	if outer == nil || inner == nil {
		return nil, common.NewError(common.KindConfiguration, "JoinPlanNode", "New", "join needs an outer and an inner input")
	}
	if pred == nil {
		return nil, common.NewError(common.KindConfiguration, "JoinPlanNode", "New", "predicate is nil")
	}
	lo, err := newLimitOffset("JoinPlanNode", opts)
	if err != nil {
		return nil, err
	}

	return &JoinPlanNode{
		BasePlanNode: BasePlanNode{Children: []IPlanNode{outer, inner}},
		LimitOffset:  lo,
		predicate:    pred,
	}, nil
}
