package plans

import (
	"spandb/common"
	"spandb/execution/expressions"
)

// MatcherPlanNode filters its child's tuples through a span predicate and attaches the spans found to the
// result attribute.
type MatcherPlanNode struct {
	BasePlanNode
	LimitOffset
	planType        PlanType
	predicate       expressions.SpanPredicate
	resultAttribute string
}

func (n *MatcherPlanNode) GetType() PlanType {
	return n.planType
}

func (n *MatcherPlanNode) GetPredicate() expressions.SpanPredicate {
	return n.predicate
}

// GetResultAttribute returns the name of the span list attribute spans are written to.
func (n *MatcherPlanNode) GetResultAttribute() string {
	if n.resultAttribute == "" {
		return common.SpanListAttributeName
	}
	return n.resultAttribute
}

// IsCustomResultAttribute reports whether the result attribute was named by the caller. A custom result attribute
// must not exist in the input schema.
func (n *MatcherPlanNode) IsCustomResultAttribute() bool {
	return n.resultAttribute != ""
}

func (n *MatcherPlanNode) GetChildPlan() IPlanNode {
	return n.GetChildAt(0)
}

func NewKeywordMatcherPlanNode(child IPlanNode, pred *expressions.KeywordPredicate, resultAttribute string, opts ...Option) (*MatcherPlanNode, error) {
	if pred == nil {
		return nil, common.NewError(common.KindConfiguration, "KeywordMatcherPlanNode", "New", "predicate is nil")
	}
	return newMatcherPlanNode(KeywordMatch, child, pred, resultAttribute, opts)
}

func NewRegexMatcherPlanNode(child IPlanNode, pred *expressions.RegexPredicate, resultAttribute string, opts ...Option) (*MatcherPlanNode, error) {
	if pred == nil {
		return nil, common.NewError(common.KindConfiguration, "RegexMatcherPlanNode", "New", "predicate is nil")
	}
	return newMatcherPlanNode(RegexMatch, child, pred, resultAttribute, opts)
}

func NewFuzzyTokenMatcherPlanNode(child IPlanNode, pred *expressions.FuzzyTokenPredicate, resultAttribute string, opts ...Option) (*MatcherPlanNode, error) {
	if pred == nil {
		return nil, common.NewError(common.KindConfiguration, "FuzzyTokenMatcherPlanNode", "New", "predicate is nil")
	}
	return newMatcherPlanNode(FuzzyTokenMatch, child, pred, resultAttribute, opts)
}

func newMatcherPlanNode(t PlanType, child IPlanNode, pred expressions.SpanPredicate, resultAttribute string, opts []Option) (*MatcherPlanNode, error) {
	if child == nil {
		return nil, common.NewError(common.KindConfiguration, "MatcherPlanNode", "New", "%v has no input", t)
	}
	lo, err := newLimitOffset("MatcherPlanNode", opts)
	if err != nil {
		return nil, err
	}

	return &MatcherPlanNode{
		BasePlanNode:    BasePlanNode{Children: []IPlanNode{child}},
		LimitOffset:     lo,
		planType:        t,
		predicate:       pred,
		resultAttribute: resultAttribute,
	}, nil
}
