package plans

import (
	"spandb/catalog"
	"spandb/common"
)

type PlanType int

const (
	Scan PlanType = iota
	Values
	KeywordMatch
	RegexMatch
	FuzzyTokenMatch
	Projection
	Join
	Sink
)

func (t PlanType) String() string {
	switch t {
	case Scan:
		return "scan"
	case Values:
		return "values"
	case KeywordMatch:
		return "keyword_matcher"
	case RegexMatch:
		return "regex_matcher"
	case FuzzyTokenMatch:
		return "fuzzy_token_matcher"
	case Projection:
		return "projection"
	case Join:
		return "join"
	case Sink:
		return "sink"
	default:
		return "unknown"
	}
}

// Unlimited is the default limit of plans that accept one.
const Unlimited = -1

type IPlanNode interface {
	GetType() PlanType
	GetChildren() []IPlanNode
	GetOutSchema() catalog.Schema
}

type BasePlanNode struct {
	/**
	 * The schema for the output of this plan node if it is known statically. Most operators derive their output
	 * schema from their inputs when they are opened, in which case this is nil.
	 */
	OutSchema catalog.Schema
	Children  []IPlanNode
}

func (n *BasePlanNode) GetChildAt(idx int) IPlanNode {
	if idx >= len(n.Children) {
		return nil
	}
	return n.Children[idx]
}

func (n *BasePlanNode) GetChildren() []IPlanNode {
	return n.Children
}

func (n *BasePlanNode) GetOutSchema() catalog.Schema {
	return n.OutSchema
}

// LimitOffset is embedded by plans whose operators can skip the first Offset results and stop after Limit results.
type LimitOffset struct {
	Limit  int
	Offset int
}

func (l LimitOffset) GetLimit() int {
	return l.Limit
}

func (l LimitOffset) GetOffset() int {
	return l.Offset
}

func (l LimitOffset) validate(component string) error {
	if l.Limit < Unlimited {
		return common.NewError(common.KindConfiguration, component, "New", "limit %d is negative", l.Limit)
	}
	if l.Offset < 0 {
		return common.NewError(common.KindConfiguration, component, "New", "offset %d is negative", l.Offset)
	}
	return nil
}

type Option func(l *LimitOffset)

func WithLimit(limit int) Option {
	return func(l *LimitOffset) {
		l.Limit = limit
	}
}

func WithOffset(offset int) Option {
	return func(l *LimitOffset) {
		l.Offset = offset
	}
}

func newLimitOffset(component string, opts []Option) (LimitOffset, error) {
	l := LimitOffset{Limit: Unlimited}
	for _, opt := range opts {
		opt(&l)
	}
	return l, l.validate(component)
}
