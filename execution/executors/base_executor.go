package executors

import (
	"errors"

	"github.com/go-kit/log/level"

	"spandb/catalog"
	"spandb/common"
	"spandb/execution"
	"spandb/execution/plans"
)

// ErrNoTuple is returned by Next when the executor's stream is exhausted. Executors keep returning it on every
// later call until they are closed.
type ErrNoTuple struct{}

func (ErrNoTuple) Error() string {
	return "no tuple"
}

func isNoTuple(err error) bool {
	return errors.Is(err, ErrNoTuple{})
}

type IExecutor interface {
	// Open prepares the executor and its inputs. Opening an opened executor does nothing.
	Open() error

	// Next yields next tuple from executor
	Next(t *catalog.Tuple) error

	// Close releases the executor and its inputs. Closing a closed executor does nothing.
	Close() error

	GetExecutorCtx() *execution.ExecutorContext

	// GetOutSchema returns the schema of the yielded tuples. It is only valid after Open.
	GetOutSchema() catalog.Schema
}

type cursor int

const (
	cursorClosed cursor = iota
	cursorOpened
)

type BaseExecutor struct {
	executorCtx *execution.ExecutorContext
	name        string
	cursor      cursor
	outSchema   catalog.Schema
}

func newBaseExecutor(ctx *execution.ExecutorContext, name string) BaseExecutor {
	if ctx == nil {
		ctx = execution.NewExecutorContext(nil, nil, nil)
	}
	return BaseExecutor{executorCtx: ctx, name: name}
}

func (e *BaseExecutor) GetExecutorCtx() *execution.ExecutorContext {
	return e.executorCtx
}

func (e *BaseExecutor) GetOutSchema() catalog.Schema {
	return e.outSchema
}

func (e *BaseExecutor) isOpen() bool {
	return e.cursor == cursorOpened
}

// open opens children in order and then runs init. If anything fails, the children opened so far are closed
// again and the executor stays closed.
func (e *BaseExecutor) open(children []IExecutor, init func() (catalog.Schema, error)) error {
	if e.isOpen() {
		return nil
	}

	for i, child := range children {
		if child == nil {
			e.closeAll(children[:i])
			return e.fail(common.NewError(common.KindConfiguration, e.name, "Open", "input %d is not set", i))
		}
		if err := child.Open(); err != nil {
			e.closeAll(children[:i])
			return e.fail(common.WrapError(common.KindConfiguration, err, e.name, "Open"))
		}
	}

	schema, err := init()
	if err != nil {
		e.closeAll(children)
		return e.fail(err)
	}

	e.outSchema = schema
	e.cursor = cursorOpened
	level.Debug(e.executorCtx.Logger).Log("msg", "operator opened", "operator", e.name)
	return nil
}

// close runs release and then closes children. The first error is returned, the ones after it are only logged.
// The executor is closed afterwards whatever happens.
func (e *BaseExecutor) close(release func() error, children []IExecutor) error {
	if !e.isOpen() {
		return nil
	}
	e.cursor = cursorClosed

	var first error
	if release != nil {
		first = release()
	}
	for _, child := range children {
		if child == nil {
			continue
		}
		if err := child.Close(); err != nil {
			if first == nil {
				first = err
				continue
			}
			level.Warn(e.executorCtx.Logger).Log("msg", "error while closing input", "operator", e.name, "err", err)
		}
	}

	level.Debug(e.executorCtx.Logger).Log("msg", "operator closed", "operator", e.name)
	if first != nil {
		return e.fail(common.WrapError(common.KindStorage, first, e.name, "Close"))
	}
	return nil
}

func (e *BaseExecutor) closeAll(children []IExecutor) {
	for _, child := range children {
		if child == nil {
			continue
		}
		if err := child.Close(); err != nil {
			level.Warn(e.executorCtx.Logger).Log("msg", "error while closing input after failed open", "operator", e.name, "err", err)
		}
	}
}

func (e *BaseExecutor) checkOpen() error {
	if e.isOpen() {
		return nil
	}
	return e.fail(common.NewError(common.KindOperatorClosed, e.name, "Next", "operator is not opened"))
}

// emit hands the result to the caller and counts it.
func (e *BaseExecutor) emit(dst, result *catalog.Tuple) error {
	*dst = *result
	e.executorCtx.Metrics.TuplesProduced.WithLabelValues(e.name).Inc()
	return nil
}

// fail counts err by its kind and returns it. ErrNoTuple is not an error and passes through uncounted.
func (e *BaseExecutor) fail(err error) error {
	if err == nil || isNoTuple(err) {
		return err
	}
	kind := "unknown"
	if k, ok := common.KindOf(err); ok {
		kind = k.String()
	}
	e.executorCtx.Metrics.OperatorErrors.WithLabelValues(e.name, kind).Inc()
	return err
}

// limiter applies a plan's offset and limit to the results of an executor.
type limiter struct {
	limit   int
	offset  int
	skipped int
	emitted int
}

func newLimiter(lo plans.LimitOffset) limiter {
	return limiter{limit: lo.GetLimit(), offset: lo.GetOffset()}
}

// done reports whether no more results may be emitted.
func (l *limiter) done() bool {
	return l.limit != plans.Unlimited && l.emitted >= l.limit
}

// admit consumes one result and reports whether it should be emitted or skipped because of the offset.
func (l *limiter) admit() bool {
	if l.skipped < l.offset {
		l.skipped++
		return false
	}
	l.emitted++
	return true
}
