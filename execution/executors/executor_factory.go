package executors

import (
	"spandb/common"
	"spandb/execution"
	"spandb/execution/plans"
)

// CreateExecutor builds the executor tree of plan. consumer is only used by sink plans and may be nil otherwise.
func CreateExecutor(ctx *execution.ExecutorContext, plan plans.IPlanNode, consumer TupleConsumer) (IExecutor, error) {
	children := make([]IExecutor, 0, len(plan.GetChildren()))
	for _, child := range plan.GetChildren() {
		exec, err := CreateExecutor(ctx, child, consumer)
		if err != nil {
			return nil, err
		}
		children = append(children, exec)
	}

	switch p := plan.(type) {
	case *plans.ScanPlanNode:
		return NewScanExecutor(ctx, p), nil
	case *plans.ValuesPlanNode:
		return NewValuesExecutor(ctx, p), nil
	case *plans.MatcherPlanNode:
		return NewMatcherExecutor(ctx, p, children[0]), nil
	case *plans.ProjectionPlanNode:
		return NewProjectionExecutor(ctx, p, children[0]), nil
	case *plans.JoinPlanNode:
		return NewJoinExecutor(ctx, p, children[0], children[1]), nil
	case *plans.SinkPlanNode:
		if consumer == nil {
			return nil, common.NewError(common.KindConfiguration, "ExecutorFactory", "CreateExecutor", "sink plan needs a consumer")
		}
		return NewSinkExecutor(ctx, p, children[0], consumer), nil
	default:
		return nil, common.NewError(common.KindConfiguration, "ExecutorFactory", "CreateExecutor", "unknown plan type %v", plan.GetType())
	}
}
