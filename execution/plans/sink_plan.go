package plans

import (
	"spandb/common"
)

type SinkPlanNode struct {
	BasePlanNode
}

func (n *SinkPlanNode) GetType() PlanType {
	return Sink
}

func (n *SinkPlanNode) GetChildPlan() IPlanNode {
	return n.GetChildAt(0)
}

func NewSinkPlanNode(child IPlanNode) (*SinkPlanNode, error) {
	if child == nil {
		return nil, common.NewError(common.KindConfiguration, "SinkPlanNode", "New", "sink has no input")
	}
	return &SinkPlanNode{BasePlanNode: BasePlanNode{Children: []IPlanNode{child}}}, nil
}
