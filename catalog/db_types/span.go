package db_types

import "fmt"

// UnsetTokenOffset marks spans that are not aligned to a token position.
const UnsetTokenOffset = -1

// Span annotates the half-open byte range [Start, End) of the field named AttributeName. Key and Value record
// what produced the span, for example the query keyword and the matched text. Spans are passed and stored by
// value so a Span never changes once built.
type Span struct {
	AttributeName string
	Start         int
	End           int
	Key           string
	Value         string
	TokenOffset   int
}

func NewSpan(attributeName string, start, end int, key, value string) Span {
	return Span{
		AttributeName: attributeName,
		Start:         start,
		End:           end,
		Key:           key,
		Value:         value,
		TokenOffset:   UnsetTokenOffset,
	}
}

func NewTokenSpan(attributeName string, start, end int, key, value string, tokenOffset int) Span {
	s := NewSpan(attributeName, start, end, key, value)
	s.TokenOffset = tokenOffset
	return s
}

func (s Span) Validate() error {
	if s.Start < 0 {
		return fmt.Errorf("span start %d is negative", s.Start)
	}
	if s.End < s.Start {
		return fmt.Errorf("span end %d is before start %d", s.End, s.Start)
	}
	return nil
}

func (s Span) Len() int {
	return s.End - s.Start
}

func (s Span) String() string {
	return fmt.Sprintf("%s[%d,%d) %s=%q", s.AttributeName, s.Start, s.End, s.Key, s.Value)
}
