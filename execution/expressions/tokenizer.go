package expressions

import (
	"strings"
	"unicode"

	"spandb/common"
)

// Token is a lowercased term together with its position in the token stream and its byte range in the text.
type Token struct {
	Term      string
	Position  int
	StartByte int
	EndByte   int
}

// Analyzer splits text into tokens.
type Analyzer func(text string) []Token

// GetAnalyzer resolves an analyzer by the name tables record for it.
func GetAnalyzer(name string) (Analyzer, error) {
	switch name {
	case "", common.StandardAnalyzer:
		return Tokenize, nil
	default:
		return nil, common.NewError(common.KindConfiguration, "Analyzer", "Get", "unknown analyzer %v", name)
	}
}

// Tokenize is the standard analyzer. Tokens are maximal runs of letters and digits, every other rune separates
// tokens. No stop words are removed.
func Tokenize(text string) []Token {
	tokens := make([]Token, 0)
	start := -1
	for i, r := range text {
		isWord := unicode.IsLetter(r) || unicode.IsDigit(r)
		if isWord && start < 0 {
			start = i
		} else if !isWord && start >= 0 {
			tokens = appendToken(tokens, text, start, i)
			start = -1
		}
	}
	if start >= 0 {
		tokens = appendToken(tokens, text, start, len(text))
	}
	return tokens
}

func appendToken(tokens []Token, text string, start, end int) []Token {
	return append(tokens, Token{
		Term:      strings.ToLower(text[start:end]),
		Position:  len(tokens),
		StartByte: start,
		EndByte:   end,
	})
}

// Terms returns the terms of tokens without duplicates, in first occurrence order.
func Terms(tokens []Token) []string {
	seen := make(map[string]struct{}, len(tokens))
	terms := make([]string, 0, len(tokens))
	for _, t := range tokens {
		if _, ok := seen[t.Term]; ok {
			continue
		}
		seen[t.Term] = struct{}{}
		terms = append(terms, t.Term)
	}
	return terms
}
