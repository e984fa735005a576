package executors

import (
	"spandb/catalog"
	"spandb/execution"
	"spandb/execution/plans"
)

// ValuesExecutor yields the tuples of a ValuesPlanNode.
type ValuesExecutor struct {
	BaseExecutor
	plan *plans.ValuesPlanNode
	pos  int
}

func (e *ValuesExecutor) Open() error {
	return e.open(nil, func() (catalog.Schema, error) {
		e.pos = 0
		return e.plan.GetOutSchema(), nil
	})
}

func (e *ValuesExecutor) Next(t *catalog.Tuple) error {
	if err := e.checkOpen(); err != nil {
		return err
	}

	tuples := e.plan.GetTuples()
	if e.pos >= len(tuples) {
		return ErrNoTuple{}
	}
	e.pos++
	return e.emit(t, tuples[e.pos-1])
}

func (e *ValuesExecutor) Close() error {
	return e.close(nil, nil)
}

func NewValuesExecutor(ctx *execution.ExecutorContext, plan *plans.ValuesPlanNode) *ValuesExecutor {
	return &ValuesExecutor{
		BaseExecutor: newBaseExecutor(ctx, "values"),
		plan:         plan,
	}
}
