package executors

import (
	"spandb/catalog"
	"spandb/execution"
	"spandb/execution/plans"
)

// ProjectionExecutor removes the attributes that are not in its keep list from the tuples of its input.
type ProjectionExecutor struct {
	BaseExecutor
	plan      *plans.ProjectionPlanNode
	childExec IExecutor
	colIdxs   []int
}

func (e *ProjectionExecutor) Open() error {
	return e.open([]IExecutor{e.childExec}, func() (catalog.Schema, error) {
		out, idxs := catalog.ProjectSchema(e.childExec.GetOutSchema(), e.plan.GetAttributes())
		e.colIdxs = idxs
		return out, nil
	})
}

func (e *ProjectionExecutor) Next(t *catalog.Tuple) error {
	if err := e.checkOpen(); err != nil {
		return err
	}

	var tuple catalog.Tuple
	if err := e.childExec.Next(&tuple); err != nil {
		return e.fail(err)
	}
	return e.emit(t, tuple.Project(e.colIdxs))
}

func (e *ProjectionExecutor) Close() error {
	return e.close(nil, []IExecutor{e.childExec})
}

func NewProjectionExecutor(ctx *execution.ExecutorContext, plan *plans.ProjectionPlanNode, child IExecutor) *ProjectionExecutor {
	return &ProjectionExecutor{
		BaseExecutor: newBaseExecutor(ctx, "projection"),
		plan:         plan,
		childExec:    child,
	}
}
