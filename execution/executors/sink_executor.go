package executors

import (
	"spandb/catalog"
	"spandb/common"
	"spandb/execution"
	"spandb/execution/plans"
)

// TupleConsumer receives the tuples drained by a SinkExecutor.
type TupleConsumer interface {
	// Open is called once the input schema is known, before the first Consume.
	Open(schema catalog.Schema) error
	Consume(t *catalog.Tuple) error
	Close() error
}

// SinkExecutor forwards every tuple of its input to a consumer. It can be pulled like any other executor or
// drained at once with Run.
type SinkExecutor struct {
	BaseExecutor
	plan      *plans.SinkPlanNode
	childExec IExecutor
	consumer  TupleConsumer
}

func (e *SinkExecutor) Open() error {
	return e.open([]IExecutor{e.childExec}, func() (catalog.Schema, error) {
		if e.consumer == nil {
			return nil, common.NewError(common.KindConfiguration, e.name, "Open", "consumer is not set")
		}
		schema := e.childExec.GetOutSchema()
		if err := e.consumer.Open(schema); err != nil {
			return nil, common.WrapError(common.KindStorage, err, e.name, "Open")
		}
		return schema, nil
	})
}

func (e *SinkExecutor) Next(t *catalog.Tuple) error {
	if err := e.checkOpen(); err != nil {
		return err
	}

	var tuple catalog.Tuple
	if err := e.childExec.Next(&tuple); err != nil {
		return e.fail(err)
	}
	if err := e.consumer.Consume(&tuple); err != nil {
		return e.fail(common.WrapError(common.KindStorage, err, e.name, "Next"))
	}
	return e.emit(t, &tuple)
}

// Run opens the sink, drains its input and closes it. It returns the number of tuples consumed.
func (e *SinkExecutor) Run() (n int, err error) {
	if err := e.Open(); err != nil {
		return 0, err
	}
	defer func() {
		if cerr := e.Close(); err == nil {
			err = cerr
		}
	}()

	var t catalog.Tuple
	for {
		if err := e.Next(&t); err != nil {
			if isNoTuple(err) {
				return n, nil
			}
			return n, err
		}
		n++
	}
}

func (e *SinkExecutor) Close() error {
	return e.close(func() error {
		if e.consumer == nil {
			return nil
		}
		return e.consumer.Close()
	}, []IExecutor{e.childExec})
}

func NewSinkExecutor(ctx *execution.ExecutorContext, plan *plans.SinkPlanNode, child IExecutor, consumer TupleConsumer) *SinkExecutor {
	return &SinkExecutor{
		BaseExecutor: newBaseExecutor(ctx, "sink"),
		plan:         plan,
		childExec:    child,
		consumer:     consumer,
	}
}
