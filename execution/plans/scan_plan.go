package plans

import (
	"spandb/common"
	"spandb/execution/expressions"
)

type ScanPlanNode struct {
	BasePlanNode
	LimitOffset
	tableName string
	predicate expressions.IPredicate
}

func (n *ScanPlanNode) GetType() PlanType {
	return Scan
}

func (n *ScanPlanNode) GetTableName() string {
	return n.tableName
}

// GetPredicate returns the filter applied to stored tuples, nil when every tuple is returned.
func (n *ScanPlanNode) GetPredicate() expressions.IPredicate {
	return n.predicate
}

func NewScanPlanNode(tableName string, pred expressions.IPredicate, opts ...Option) (*ScanPlanNode, error) {
	if tableName == "" {
		return nil, common.NewError(common.KindConfiguration, "ScanPlanNode", "New", "table name is empty")
	}
	lo, err := newLimitOffset("ScanPlanNode", opts)
	if err != nil {
		return nil, err
	}

	return &ScanPlanNode{
		LimitOffset: lo,
		tableName:   tableName,
		predicate:   pred,
	}, nil
}
