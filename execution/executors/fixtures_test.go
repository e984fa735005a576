package executors

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"

	"spandb/catalog"
	dt "spandb/catalog/db_types"
	"spandb/common"
	"spandb/execution"
	"spandb/execution/expressions"
	"spandb/execution/plans"
)

const (
	reviewAttr = "review"

	roachReview = "It takes a special kind of writer to make topics ranging from death to our " +
		"gastrointestinal tract interesting (sometimes hilariously so), and pop science writer Mary Roach is " +
		"always up to the task."

	sharedReview = "Review of a Book. This is a typical review. This is a test. A book review test. " +
		"A test to test queries without actually using actual review. From here onwards, we can pretend this to " +
		"be actually a review even if it is not your typical book review."
)

type book struct {
	id     int32
	author string
	title  string
	pages  int32
	review string
}

var (
	roach     = book{52, "Mary Roach", "Grunt: The Curious Science of Humans at War", 288, roachReview}
	unknown   = book{51, "author unknown", "typical", 300, sharedReview}
	hawley    = book{53, "Noah Hawley", "Before the Fall", 400, sharedReview}
	williams  = book{54, "Andria Williams", "The Longest Night: A Novel", 400, sharedReview}
	friedman  = book{55, "Matti Friedman", "Pumpkinflowers: A Soldier's Story", 256, sharedReview}
	guskin    = book{65, "Sharon Guskin", "The Forgetting Time: A Novel", 368, sharedReview}
	kalanithi = book{63, "Paul Kalanithi", "When Breath Becomes Air", 256, sharedReview}
)

func bookSchema() catalog.Schema {
	return catalog.MustNewSchema(
		catalog.NewColumn("id", dt.IntegerTypeID),
		catalog.NewColumn("author", dt.StringTypeID),
		catalog.NewColumn("title", dt.StringTypeID),
		catalog.NewColumn("pages", dt.IntegerTypeID),
		catalog.NewColumn(reviewAttr, dt.TextTypeID),
	)
}

func (b book) values() []*dt.Value {
	return []*dt.Value{
		dt.NewValue(b.id),
		dt.NewStringValue(b.author),
		dt.NewStringValue(b.title),
		dt.NewValue(b.pages),
		dt.NewTextValue(b.review),
	}
}

// expectedTuple builds the joined or matched tuple of b with the _ID it got when it was inserted.
func (b book) expectedTuple(id *dt.Value, spans ...dt.Span) *catalog.Tuple {
	values := append([]*dt.Value{id}, b.values()...)
	return catalog.NewTuple(append(values, dt.NewSpanListValue(spans))...)
}

// newBookTable creates a table holding books in a fresh in memory catalog and returns a context to run plans on it.
func newBookTable(t *testing.T, books ...book) (*execution.ExecutorContext, string) {
	t.Helper()

	ctg := catalog.NewCatalog()
	name := "book_" + uuid.NewString()
	tbl, err := ctg.CreateTable(name, bookSchema(), common.StandardAnalyzer)
	require.NoError(t, err)

	rows := make([][]*dt.Value, 0, len(books))
	for _, b := range books {
		rows = append(rows, b.values())
	}
	_, err = tbl.InsertTuplesViaValues(rows)
	require.NoError(t, err)

	return execution.NewExecutorContext(ctg, nil, execution.NewMetrics(prometheus.NewRegistry())), name
}

func scanPlan(t *testing.T, table string, opts ...plans.Option) *plans.ScanPlanNode {
	t.Helper()
	p, err := plans.NewScanPlanNode(table, nil, opts...)
	require.NoError(t, err)
	return p
}

func keywordSource(t *testing.T, table, query string, mt expressions.KeywordMatchingType) plans.IPlanNode {
	t.Helper()
	pred, err := expressions.NewKeywordPredicate(query, []string{reviewAttr}, mt, common.StandardAnalyzer)
	require.NoError(t, err)
	p, err := plans.NewKeywordMatcherPlanNode(scanPlan(t, table), pred, "")
	require.NoError(t, err)
	return p
}

func joinPlan(t *testing.T, outer, inner plans.IPlanNode, threshold int, opts ...plans.Option) *plans.JoinPlanNode {
	t.Helper()
	pred, err := expressions.NewJoinDistancePredicate(reviewAttr, threshold, expressions.BoundaryDistance)
	require.NoError(t, err)
	p, err := plans.NewJoinPlanNode(outer, inner, pred, opts...)
	require.NoError(t, err)
	return p
}

// runPlan drains plan through a sink into a collector.
func runPlan(t *testing.T, ctx *execution.ExecutorContext, plan plans.IPlanNode) ([]*catalog.Tuple, error) {
	t.Helper()
	sinkPlan, err := plans.NewSinkPlanNode(plan)
	require.NoError(t, err)

	collector := NewTupleCollector()
	exec, err := CreateExecutor(ctx, sinkPlan, collector)
	require.NoError(t, err)

	_, err = exec.(*SinkExecutor).Run()
	return collector.GetTuples(), err
}

func mustRunPlan(t *testing.T, ctx *execution.ExecutorContext, plan plans.IPlanNode) []*catalog.Tuple {
	t.Helper()
	res, err := runPlan(t, ctx, plan)
	require.NoError(t, err)
	return res
}

func lastSpans(t *catalog.Tuple) []dt.Span {
	return t.GetValue(t.Len() - 1).AsSpans()
}

var tupleCmpOpts = cmp.Options{
	cmp.Transformer("values", func(t *catalog.Tuple) []*dt.Value { return t.GetValues() }),
	cmp.Comparer(func(a, b *dt.Value) bool { return a.Equal(b) }),
}

func requireTuplesEqual(t *testing.T, expected, actual []*catalog.Tuple) {
	t.Helper()
	if diff := cmp.Diff(expected, actual, tupleCmpOpts); diff != "" {
		t.Fatalf("tuples mismatch (-expected +actual):\n%s", diff)
	}
}

// recordingExecutor wraps an executor and counts the calls to its lifecycle methods.
type recordingExecutor struct {
	IExecutor
	opens  int
	closes int
}

func (r *recordingExecutor) Open() error {
	r.opens++
	return r.IExecutor.Open()
}

func (r *recordingExecutor) Close() error {
	r.closes++
	return r.IExecutor.Close()
}

// producedCount returns the number of tuples operator produced so far.
func producedCount(ctx *execution.ExecutorContext, operator string) float64 {
	return testutil.ToFloat64(ctx.Metrics.TuplesProduced.WithLabelValues(operator))
}
