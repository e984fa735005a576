package executors

import (
	"spandb/catalog"
	"spandb/catalog/db_types"
	"spandb/common"
	"spandb/execution"
	"spandb/execution/plans"
)

// joinBuffer holds the outer tuple currently being joined and the position of the next inner tuple to compare it
// with. A nil outer means no outer tuple is buffered.
type joinBuffer struct {
	outer    *catalog.Tuple
	innerIdx int
}

func (b *joinBuffer) set(outer *catalog.Tuple) {
	b.outer = outer
	b.innerIdx = 0
}

func (b *joinBuffer) reset() {
	b.set(nil)
}

// JoinExecutor joins two span producing inputs on _ID. For each pair of tuples with the same id, every pair of
// spans over the join attribute that are close enough is merged into one span, and the outer tuple is emitted
// once with all of the merged spans as its span list.
type JoinExecutor struct {
	BaseExecutor
	plan      *plans.JoinPlanNode
	outerExec IExecutor
	innerExec IExecutor
	limiter   limiter

	// inner is nil until the first Next reads the inner input to the end.
	inner  []*catalog.Tuple
	buffer joinBuffer

	outerIDIdx    int
	innerIDIdx    int
	outerSpanIdx  int
	innerSpanIdx  int
	joinFieldIdx  int
	joinFieldText bool
}

func (e *JoinExecutor) Open() error {
	return e.open([]IExecutor{e.outerExec, e.innerExec}, func() (catalog.Schema, error) {
		outer, inner := e.outerExec.GetOutSchema(), e.innerExec.GetOutSchema()

		var err error
		if e.outerIDIdx, e.innerIDIdx, err = e.resolveShared(outer, inner, common.IDAttributeName); err != nil {
			return nil, err
		}
		joinAttr := e.plan.GetPredicate().JoinAttributeName()
		if e.joinFieldIdx, _, err = e.resolveShared(outer, inner, joinAttr); err != nil {
			return nil, err
		}
		e.joinFieldText = outer.GetColumn(e.joinFieldIdx).TypeId.IsTextual()

		e.outerSpanIdx = spanListIdx(outer)
		e.innerSpanIdx = spanListIdx(inner)

		e.inner = nil
		e.buffer.reset()
		e.limiter = newLimiter(e.plan.LimitOffset)
		// results replace the outer span list, an outer input without one fails on its first matched id pair
		return outer, nil
	})
}

// resolveShared finds attribute name in both schemas and checks that it has the same type in both.
func (e *JoinExecutor) resolveShared(outer, inner catalog.Schema, name string) (int, int, error) {
	oi, err := outer.GetColIdx(name)
	if err != nil {
		return 0, 0, common.NewError(common.KindConfiguration, e.name, "Open", "outer input has no attribute %v", name)
	}
	ii, err := inner.GetColIdx(name)
	if err != nil {
		return 0, 0, common.NewError(common.KindConfiguration, e.name, "Open", "inner input has no attribute %v", name)
	}
	if ot, it := outer.GetColumn(oi).TypeId, inner.GetColumn(ii).TypeId; ot != it {
		return 0, 0, common.NewError(common.KindSchema, e.name, "Open", "attribute %v is %v in outer input and %v in inner input", name, ot, it)
	}
	return oi, ii, nil
}

// spanListIdx returns the index of the first span list attribute of s, or -1.
func spanListIdx(s catalog.Schema) int {
	for i, c := range s.GetColumns() {
		if c.TypeId == db_types.SpanListTypeID {
			return i
		}
	}
	return -1
}

func (e *JoinExecutor) Next(t *catalog.Tuple) error {
	if err := e.checkOpen(); err != nil {
		return err
	}
	if e.limiter.done() {
		return ErrNoTuple{}
	}
	if e.inner == nil {
		if err := e.materializeInner(); err != nil {
			return e.fail(err)
		}
	}

	for {
		if e.buffer.outer == nil {
			var outer catalog.Tuple
			if err := e.outerExec.Next(&outer); err != nil {
				return e.fail(err)
			}
			e.buffer.set(&outer)
		}

		outer := e.buffer.outer
		for e.buffer.innerIdx < len(e.inner) {
			inner := e.inner[e.buffer.innerIdx]
			e.buffer.innerIdx++
			if !outer.GetValue(e.outerIDIdx).Equal(inner.GetValue(e.innerIDIdx)) {
				continue
			}

			merged, err := e.joinSpans(outer, inner)
			if err != nil {
				return e.fail(err)
			}
			if len(merged) == 0 || !e.limiter.admit() {
				continue
			}

			return e.emit(t, outer.WithValue(e.outerSpanIdx, db_types.NewSpanListValue(merged)))
		}

		e.buffer.reset()
	}
}

func (e *JoinExecutor) materializeInner() error {
	inner := make([]*catalog.Tuple, 0)
	for {
		var tuple catalog.Tuple
		err := e.innerExec.Next(&tuple)
		if isNoTuple(err) {
			break
		}
		if err != nil {
			return err
		}
		inner = append(inner, &tuple)
	}
	e.inner = inner
	return nil
}

// joinSpans merges every qualifying pair of spans of outer and inner. Outer spans drive the outer loop.
func (e *JoinExecutor) joinSpans(outer, inner *catalog.Tuple) ([]db_types.Span, error) {
	outerSpans, err := e.spansOf(outer, e.outerSpanIdx, "outer")
	if err != nil {
		return nil, err
	}
	innerSpans, err := e.spansOf(inner, e.innerSpanIdx, "inner")
	if err != nil {
		return nil, err
	}

	pred := e.plan.GetPredicate()
	text, _ := outer.GetValue(e.joinFieldIdx).AsString()
	metrics := e.executorCtx.Metrics

	var merged []db_types.Span
	for _, s1 := range outerSpans {
		if !pred.Participates(s1) {
			continue
		}
		for _, s2 := range innerSpans {
			if !pred.Participates(s2) {
				continue
			}
			metrics.JoinSpanPairsCompared.Inc()
			if !pred.Qualifies(s1, s2) {
				continue
			}
			merged = append(merged, pred.Merge(s1, s2, text, e.joinFieldText))
			metrics.JoinSpansMerged.Inc()
		}
	}
	return merged, nil
}

func (e *JoinExecutor) spansOf(t *catalog.Tuple, idx int, side string) ([]db_types.Span, error) {
	if idx < 0 {
		return nil, common.NewError(common.KindDataFlow, e.name, "Next", "no span information in %v tuple", side)
	}
	spans := t.GetValue(idx).AsSpans()
	if len(spans) == 0 {
		return nil, common.NewError(common.KindDataFlow, e.name, "Next", "no span information in %v tuple", side)
	}
	return spans, nil
}

func (e *JoinExecutor) Close() error {
	return e.close(func() error {
		e.inner = nil
		e.buffer.reset()
		return nil
	}, []IExecutor{e.outerExec, e.innerExec})
}

func NewJoinExecutor(ctx *execution.ExecutorContext, plan *plans.JoinPlanNode, outer, inner IExecutor) *JoinExecutor {
	return &JoinExecutor{
		BaseExecutor: newBaseExecutor(ctx, "join"),
		plan:         plan,
		outerExec:    outer,
		innerExec:    inner,
	}
}
