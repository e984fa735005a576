package executors

import (
	"spandb/catalog"
	"spandb/common"
	"spandb/execution"
	"spandb/execution/plans"
)

// ScanExecutor reads the tuples of a table in insertion order.
type ScanExecutor struct {
	BaseExecutor
	plan      *plans.ScanPlanNode
	tableIter catalog.TupleIterator
	exhausted bool
	limiter   limiter
}

func (e *ScanExecutor) Open() error {
	return e.open(nil, func() (catalog.Schema, error) {
		if e.executorCtx.Catalog == nil {
			return nil, common.NewError(common.KindConfiguration, e.name, "Open", "catalog is not set")
		}
		table, err := e.executorCtx.Catalog.GetTable(e.plan.GetTableName())
		if err != nil {
			return nil, common.NewError(common.KindConfiguration, e.name, "Open", "table %v cannot be resolved: %v", e.plan.GetTableName(), err)
		}
		it, err := table.Scan()
		if err != nil {
			return nil, err
		}

		e.tableIter = it
		e.exhausted = false
		e.limiter = newLimiter(e.plan.LimitOffset)
		return table.Schema, nil
	})
}

func (e *ScanExecutor) Next(t *catalog.Tuple) error {
	if err := e.checkOpen(); err != nil {
		return err
	}
	if e.exhausted || e.limiter.done() {
		return ErrNoTuple{}
	}

	pred := e.plan.GetPredicate()
	for e.tableIter.Next() {
		tuple := e.tableIter.Tuple()
		if pred != nil {
			ok, err := pred.Test(tuple, e.outSchema)
			if err != nil {
				return e.fail(common.WrapError(common.KindSchema, err, e.name, "Next"))
			}
			if !ok {
				continue
			}
		}
		if !e.limiter.admit() {
			continue
		}
		return e.emit(t, tuple)
	}

	e.exhausted = true
	err := e.tableIter.Close()
	e.tableIter = nil
	if err != nil {
		return e.fail(common.WrapError(common.KindStorage, err, e.name, "Next"))
	}
	return ErrNoTuple{}
}

func (e *ScanExecutor) Close() error {
	return e.close(func() error {
		if e.tableIter == nil {
			return nil
		}
		err := e.tableIter.Close()
		e.tableIter = nil
		return err
	}, nil)
}

func NewScanExecutor(ctx *execution.ExecutorContext, plan *plans.ScanPlanNode) *ScanExecutor {
	return &ScanExecutor{
		BaseExecutor: newBaseExecutor(ctx, "scan"),
		plan:         plan,
	}
}
