package plans

import (
	"spandb/common"
)

type ProjectionPlanNode struct {
	BasePlanNode
	keep []string
}

func (n *ProjectionPlanNode) GetType() PlanType {
	return Projection
}

// GetAttributes returns the names of the attributes kept by the projection.
func (n *ProjectionPlanNode) GetAttributes() []string {
	return n.keep
}

func (n *ProjectionPlanNode) GetChildPlan() IPlanNode {
	return n.GetChildAt(0)
}

func NewProjectionPlanNode(child IPlanNode, keep []string) (*ProjectionPlanNode, error) {
	if child == nil {
		return nil, common.NewError(common.KindConfiguration, "ProjectionPlanNode", "New", "projection has no input")
	}
	if len(keep) == 0 {
		return nil, common.NewError(common.KindConfiguration, "ProjectionPlanNode", "New", "attribute list is empty")
	}

	return &ProjectionPlanNode{
		BasePlanNode: BasePlanNode{Children: []IPlanNode{child}},
		keep:         append([]string(nil), keep...),
	}, nil
}
