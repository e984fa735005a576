package executors

import (
	"slices"

	"spandb/catalog"
	"spandb/catalog/db_types"
	"spandb/common"
	"spandb/execution"
	"spandb/execution/expressions"
	"spandb/execution/plans"
)

// MatcherExecutor passes on the tuples of its input that match a span predicate. The spans found are added to the
// span list attribute of the tuple, which is created when the input does not have one.
type MatcherExecutor struct {
	BaseExecutor
	plan      *plans.MatcherPlanNode
	childExec IExecutor
	limiter   limiter

	fieldIdxs []int
	spanIdx   int
	// reuseSpans is set when the input already carries the span list attribute.
	reuseSpans bool
	fields     []expressions.Field
}

func (e *MatcherExecutor) Open() error {
	return e.open([]IExecutor{e.childExec}, func() (catalog.Schema, error) {
		in := e.childExec.GetOutSchema()
		out, err := e.resultSchema(in)
		if err != nil {
			return nil, err
		}

		attrs := e.plan.GetPredicate().Attributes()
		e.fieldIdxs = make([]int, 0, len(attrs))
		for _, name := range attrs {
			idx, err := in.GetColIdx(name)
			if err != nil {
				return nil, common.NewError(common.KindSchema, e.name, "Open", "attribute %v does not exist in input", name)
			}
			if !in.GetColumn(idx).TypeId.IsTextual() {
				return nil, common.NewError(common.KindSchema, e.name, "Open",
					"attribute %v is %v, only string and text attributes can be matched", name, in.GetColumn(idx).TypeId)
			}
			e.fieldIdxs = append(e.fieldIdxs, idx)
		}
		e.fields = make([]expressions.Field, len(e.fieldIdxs))

		e.spanIdx, _ = out.GetColIdx(e.plan.GetResultAttribute())
		e.reuseSpans = e.spanIdx < in.Len()
		e.limiter = newLimiter(e.plan.LimitOffset)
		return out, nil
	})
}

func (e *MatcherExecutor) resultSchema(in catalog.Schema) (catalog.Schema, error) {
	if e.plan.IsCustomResultAttribute() {
		return catalog.AppendColumn(in, catalog.NewColumn(e.plan.GetResultAttribute(), db_types.SpanListTypeID))
	}
	return catalog.SpanSchema(in, e.plan.GetResultAttribute())
}

func (e *MatcherExecutor) Next(t *catalog.Tuple) error {
	if err := e.checkOpen(); err != nil {
		return err
	}
	if e.limiter.done() {
		return ErrNoTuple{}
	}

	in := e.childExec.GetOutSchema()
	for {
		var tuple catalog.Tuple
		if err := e.childExec.Next(&tuple); err != nil {
			return e.fail(err)
		}

		for i, idx := range e.fieldIdxs {
			col := in.GetColumn(idx)
			text, _ := tuple.GetValue(idx).AsString()
			e.fields[i] = expressions.Field{Name: col.Name, Type: col.TypeId, Text: text}
		}
		spans := e.plan.GetPredicate().Match(e.fields)
		if len(spans) == 0 {
			continue
		}
		if !e.limiter.admit() {
			continue
		}

		var result *catalog.Tuple
		if e.reuseSpans {
			all := slices.Concat(tuple.GetValue(e.spanIdx).AsSpans(), spans)
			result = tuple.WithValue(e.spanIdx, db_types.NewSpanListValue(all))
		} else {
			result = tuple.Append(db_types.NewSpanListValue(spans))
		}
		return e.emit(t, result)
	}
}

func (e *MatcherExecutor) Close() error {
	return e.close(nil, []IExecutor{e.childExec})
}

func NewMatcherExecutor(ctx *execution.ExecutorContext, plan *plans.MatcherPlanNode, child IExecutor) *MatcherExecutor {
	return &MatcherExecutor{
		BaseExecutor: newBaseExecutor(ctx, plan.GetType().String()),
		plan:         plan,
		childExec:    child,
	}
}
