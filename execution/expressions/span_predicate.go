package expressions

import (
	"spandb/catalog/db_types"
)

// Field is one attribute value handed to a span predicate.
type Field struct {
	Name string
	Type db_types.TypeID
	Text string
}

// SpanPredicate finds the spans a tuple matches in its searchable fields. A nil or empty result means the tuple
// does not match.
type SpanPredicate interface {
	// Attributes are the names of the fields the predicate searches in.
	Attributes() []string
	Match(fields []Field) []db_types.Span
}

// tokenOccurrences returns the spans of every token of text whose term is in terms. The span key is the term.
func tokenOccurrences(field Field, tokens []Token, terms map[string]struct{}, matched map[string]struct{}) []db_types.Span {
	var spans []db_types.Span
	for _, tok := range tokens {
		if _, ok := terms[tok.Term]; !ok {
			continue
		}
		matched[tok.Term] = struct{}{}
		spans = append(spans, db_types.NewTokenSpan(field.Name, tok.StartByte, tok.EndByte, tok.Term,
			field.Text[tok.StartByte:tok.EndByte], tok.Position))
	}
	return spans
}

func termSet(terms []string) map[string]struct{} {
	set := make(map[string]struct{}, len(terms))
	for _, t := range terms {
		set[t] = struct{}{}
	}
	return set
}

func wholeValueSpan(field Field, key string) db_types.Span {
	return db_types.NewSpan(field.Name, 0, len(field.Text), key, field.Text)
}
