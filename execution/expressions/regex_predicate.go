package expressions

import (
	"regexp"

	"spandb/catalog/db_types"
	"spandb/common"
)

// RegexPredicate matches a regular expression in RE2 syntax. Empty matches are ignored.
type RegexPredicate struct {
	pattern    string
	attributes []string
	re         *regexp.Regexp
}

var _ SpanPredicate = &RegexPredicate{}

func NewRegexPredicate(pattern string, attributes []string, ignoreCase bool) (*RegexPredicate, error) {
	if pattern == "" {
		return nil, common.NewError(common.KindConfiguration, "RegexPredicate", "New", "pattern is empty")
	}
	if len(attributes) == 0 {
		return nil, common.NewError(common.KindConfiguration, "RegexPredicate", "New", "no attributes to match")
	}

	expr := pattern
	if ignoreCase {
		expr = "(?i)" + expr
	}
	re, err := regexp.Compile(expr)
	if err != nil {
		return nil, common.WrapError(common.KindConfiguration, err, "RegexPredicate", "New")
	}

	return &RegexPredicate{
		pattern:    pattern,
		attributes: append([]string(nil), attributes...),
		re:         re,
	}, nil
}

func (p *RegexPredicate) Attributes() []string {
	return p.attributes
}

func (p *RegexPredicate) Match(fields []Field) []db_types.Span {
	var spans []db_types.Span
	for _, f := range fields {
		for _, loc := range p.re.FindAllStringIndex(f.Text, -1) {
			if loc[0] == loc[1] {
				continue
			}
			spans = append(spans, db_types.NewSpan(f.Name, loc[0], loc[1], p.pattern, f.Text[loc[0]:loc[1]]))
		}
	}
	return spans
}
