package expressions

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenize(t *testing.T) {
	tokens := Tokenize("It takes a special kind (sometimes hilariously-so).")
	terms := make([]string, 0, len(tokens))
	for _, tok := range tokens {
		terms = append(terms, tok.Term)
	}
	assert.Equal(t, []string{"it", "takes", "a", "special", "kind", "sometimes", "hilariously", "so"}, terms)

	assert.Equal(t, Token{Term: "special", Position: 3, StartByte: 11, EndByte: 18}, tokens[3])
}

func TestTokenize_Byte_Offsets_With_Multibyte_Runes(t *testing.T) {
	text := "çok güzel Writer"
	tokens := Tokenize(text)
	require.Len(t, tokens, 3)
	assert.Equal(t, "güzel", tokens[1].Term)
	assert.Equal(t, "güzel", text[tokens[1].StartByte:tokens[1].EndByte])
	assert.Equal(t, "Writer", text[tokens[2].StartByte:tokens[2].EndByte])
	assert.Equal(t, "writer", tokens[2].Term)
}

func TestTerms_Removes_Duplicates(t *testing.T) {
	assert.Equal(t, []string{"book", "review"}, Terms(Tokenize("Book review, book REVIEW")))
	assert.Empty(t, Terms(Tokenize(" ,; ")))
}

func TestGetAnalyzer(t *testing.T) {
	_, err := GetAnalyzer("standard")
	assert.NoError(t, err)
	_, err = GetAnalyzer("snowball")
	assert.Error(t, err)
}
