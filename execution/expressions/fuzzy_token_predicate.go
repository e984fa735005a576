package expressions

import (
	"strings"

	"spandb/catalog/db_types"
	"spandb/common"
)

// FuzzyTokenPredicate matches tuples containing at least Threshold distinct query terms, where the threshold is
// the ratio of the query's term count rounded down and never below one.
type FuzzyTokenPredicate struct {
	query      string
	attributes []string
	ratio      float64
	analyzer   Analyzer

	terms     []string
	threshold int
}

var _ SpanPredicate = &FuzzyTokenPredicate{}

func NewFuzzyTokenPredicate(query string, attributes []string, ratio float64, analyzerName string) (*FuzzyTokenPredicate, error) {
	if len(attributes) == 0 {
		return nil, common.NewError(common.KindConfiguration, "FuzzyTokenPredicate", "New", "no attributes to match")
	}
	if ratio < 0 || ratio > 1 {
		return nil, common.NewError(common.KindConfiguration, "FuzzyTokenPredicate", "New", "threshold ratio %v is not in [0, 1]", ratio)
	}
	analyzer, err := GetAnalyzer(analyzerName)
	if err != nil {
		return nil, err
	}

	terms := Terms(analyzer(query))
	if len(terms) == 0 {
		return nil, common.NewError(common.KindConfiguration, "FuzzyTokenPredicate", "New", "query %q has no terms", query)
	}

	threshold := int(ratio * float64(len(terms)))
	if threshold == 0 {
		threshold = 1
	}

	return &FuzzyTokenPredicate{
		query:      query,
		attributes: append([]string(nil), attributes...),
		ratio:      ratio,
		analyzer:   analyzer,
		terms:      terms,
		threshold:  threshold,
	}, nil
}

func (p *FuzzyTokenPredicate) Attributes() []string {
	return p.attributes
}

func (p *FuzzyTokenPredicate) Threshold() int {
	return p.threshold
}

func (p *FuzzyTokenPredicate) Match(fields []Field) []db_types.Span {
	terms := termSet(p.terms)
	matched := make(map[string]struct{}, len(terms))

	var spans []db_types.Span
	for _, f := range fields {
		if f.Type == db_types.StringTypeID {
			term := strings.ToLower(f.Text)
			if _, ok := terms[term]; ok {
				matched[term] = struct{}{}
				spans = append(spans, wholeValueSpan(f, term))
			}
			continue
		}
		spans = append(spans, tokenOccurrences(f, p.analyzer(f.Text), terms, matched)...)
	}

	if len(matched) < p.threshold {
		return nil
	}
	return spans
}
