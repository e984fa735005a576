package expressions

import (
	"regexp"
	"strings"

	"spandb/catalog/db_types"
	"spandb/common"
)

type KeywordMatchingType int

const (
	// Conjunction matches when every query term occurs in one of the fields.
	Conjunction KeywordMatchingType = iota
	// Phrase matches the query terms consecutively.
	Phrase
	// Substring matches the query as a case-insensitive substring of the raw text.
	Substring
)

func (k KeywordMatchingType) String() string {
	switch k {
	case Conjunction:
		return "conjunction"
	case Phrase:
		return "phrase"
	case Substring:
		return "substring"
	default:
		return "unknown"
	}
}

func ParseKeywordMatchingType(s string) (KeywordMatchingType, error) {
	switch strings.ToLower(s) {
	case "conjunction", "":
		return Conjunction, nil
	case "phrase":
		return Phrase, nil
	case "substring":
		return Substring, nil
	default:
		return 0, common.NewError(common.KindConfiguration, "KeywordPredicate", "Parse", "unknown matching type %q", s)
	}
}

// KeywordPredicate matches a keyword query. String fields only match when their whole value equals the query.
type KeywordPredicate struct {
	query        string
	attributes   []string
	matchingType KeywordMatchingType
	analyzer     Analyzer

	queryTokens []Token
	terms       []string
	substring   *regexp.Regexp
}

var _ SpanPredicate = &KeywordPredicate{}

func NewKeywordPredicate(query string, attributes []string, matchingType KeywordMatchingType, analyzerName string) (*KeywordPredicate, error) {
	if strings.TrimSpace(query) == "" {
		return nil, common.NewError(common.KindConfiguration, "KeywordPredicate", "New", "query is empty")
	}
	if len(attributes) == 0 {
		return nil, common.NewError(common.KindConfiguration, "KeywordPredicate", "New", "no attributes to match")
	}
	analyzer, err := GetAnalyzer(analyzerName)
	if err != nil {
		return nil, err
	}

	p := &KeywordPredicate{
		query:        query,
		attributes:   append([]string(nil), attributes...),
		matchingType: matchingType,
		analyzer:     analyzer,
	}

	switch matchingType {
	case Conjunction, Phrase:
		p.queryTokens = analyzer(query)
		p.terms = Terms(p.queryTokens)
		if len(p.terms) == 0 {
			return nil, common.NewError(common.KindConfiguration, "KeywordPredicate", "New", "query %q has no terms", query)
		}
	case Substring:
		p.substring = regexp.MustCompile("(?i)" + regexp.QuoteMeta(query))
	default:
		return nil, common.NewError(common.KindConfiguration, "KeywordPredicate", "New", "unknown matching type %d", matchingType)
	}

	return p, nil
}

func (p *KeywordPredicate) Attributes() []string {
	return p.attributes
}

func (p *KeywordPredicate) Query() string {
	return p.query
}

func (p *KeywordPredicate) MatchingType() KeywordMatchingType {
	return p.matchingType
}

func (p *KeywordPredicate) Match(fields []Field) []db_types.Span {
	switch p.matchingType {
	case Conjunction:
		return p.matchConjunction(fields)
	case Phrase:
		return p.matchPhrase(fields)
	default:
		return p.matchSubstring(fields)
	}
}

func (p *KeywordPredicate) matchConjunction(fields []Field) []db_types.Span {
	terms := termSet(p.terms)
	matched := make(map[string]struct{}, len(terms))

	var spans []db_types.Span
	for _, f := range fields {
		if f.Type == db_types.StringTypeID {
			if f.Text == p.query {
				spans = append(spans, wholeValueSpan(f, p.query))
				for t := range terms {
					matched[t] = struct{}{}
				}
			}
			continue
		}
		spans = append(spans, tokenOccurrences(f, p.analyzer(f.Text), terms, matched)...)
	}

	if len(matched) != len(terms) {
		return nil
	}
	return spans
}

func (p *KeywordPredicate) matchPhrase(fields []Field) []db_types.Span {
	var spans []db_types.Span
	for _, f := range fields {
		if f.Type == db_types.StringTypeID {
			if f.Text == p.query {
				spans = append(spans, wholeValueSpan(f, p.query))
			}
			continue
		}

		tokens := p.analyzer(f.Text)
		n := len(p.queryTokens)
		for i := 0; i+n <= len(tokens); i++ {
			if !phraseAt(tokens[i:i+n], p.queryTokens) {
				continue
			}
			start, end := tokens[i].StartByte, tokens[i+n-1].EndByte
			spans = append(spans, db_types.NewTokenSpan(f.Name, start, end, p.query, f.Text[start:end], tokens[i].Position))
		}
	}
	return spans
}

func phraseAt(tokens []Token, phrase []Token) bool {
	for j := range phrase {
		if tokens[j].Term != phrase[j].Term {
			return false
		}
	}
	return true
}

func (p *KeywordPredicate) matchSubstring(fields []Field) []db_types.Span {
	var spans []db_types.Span
	for _, f := range fields {
		for _, loc := range p.substring.FindAllStringIndex(f.Text, -1) {
			spans = append(spans, db_types.NewSpan(f.Name, loc[0], loc[1], p.query, f.Text[loc[0]:loc[1]]))
		}
	}
	return spans
}
