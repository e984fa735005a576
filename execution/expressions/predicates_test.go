package expressions

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"spandb/catalog/db_types"
	"spandb/common"
)

const review = "It takes a special kind of writer to make topics ranging from death to our " +
	"gastrointestinal tract interesting (sometimes hilariously so), and pop science writer Mary Roach is " +
	"always up to the task."

func reviewFields() []Field {
	return []Field{
		{Name: "author", Type: db_types.StringTypeID, Text: "Mary Roach"},
		{Name: "review", Type: db_types.TextTypeID, Text: review},
	}
}

func TestKeywordPredicate_Conjunction(t *testing.T) {
	p, err := NewKeywordPredicate("Writer special", []string{"author", "review"}, Conjunction, "")
	require.NoError(t, err)

	want := []db_types.Span{
		db_types.NewTokenSpan("review", 11, 18, "special", "special", 3),
		db_types.NewTokenSpan("review", 27, 33, "writer", "writer", 6),
		db_types.NewTokenSpan("review", 154, 160, "writer", "writer", 24),
	}
	if diff := cmp.Diff(want, p.Match(reviewFields())); diff != "" {
		t.Errorf("spans mismatch (-want +got):\n%s", diff)
	}

	missing, err := NewKeywordPredicate("special book", []string{"review"}, Conjunction, "")
	require.NoError(t, err)
	assert.Empty(t, missing.Match(reviewFields()))
}

func TestKeywordPredicate_String_Fields_Need_Whole_Value(t *testing.T) {
	p, err := NewKeywordPredicate("Mary", []string{"author"}, Conjunction, "")
	require.NoError(t, err)
	assert.Empty(t, p.Match(reviewFields()[:1]))

	p, err = NewKeywordPredicate("Mary Roach", []string{"author"}, Phrase, "")
	require.NoError(t, err)
	assert.Equal(t, []db_types.Span{db_types.NewSpan("author", 0, 10, "Mary Roach", "Mary Roach")}, p.Match(reviewFields()[:1]))
}

func TestKeywordPredicate_Phrase(t *testing.T) {
	p, err := NewKeywordPredicate("gastrointestinal tract", []string{"review"}, Phrase, "")
	require.NoError(t, err)

	spans := p.Match(reviewFields()[1:])
	require.Len(t, spans, 1)
	assert.Equal(t, 75, spans[0].Start)
	assert.Equal(t, 97, spans[0].End)
	assert.Equal(t, "gastrointestinal tract", spans[0].Key)
	assert.Equal(t, "gastrointestinal tract", spans[0].Value)

	p, err = NewKeywordPredicate("takes a special kind of writer", []string{"review"}, Phrase, "")
	require.NoError(t, err)
	spans = p.Match(reviewFields()[1:])
	require.Len(t, spans, 1)
	assert.Equal(t, 3, spans[0].Start)
	assert.Equal(t, 33, spans[0].End)

	p, err = NewKeywordPredicate("tract gastrointestinal", []string{"review"}, Phrase, "")
	require.NoError(t, err)
	assert.Empty(t, p.Match(reviewFields()[1:]))
}

func TestKeywordPredicate_Substring(t *testing.T) {
	p, err := NewKeywordPredicate("WRIT", []string{"review"}, Substring, "")
	require.NoError(t, err)

	spans := p.Match(reviewFields()[1:])
	require.Len(t, spans, 2)
	assert.Equal(t, db_types.NewSpan("review", 27, 31, "WRIT", "writ"), spans[0])
	assert.Equal(t, 154, spans[1].Start)
}

func TestKeywordPredicate_Invalid(t *testing.T) {
	_, err := NewKeywordPredicate("  ", []string{"review"}, Conjunction, "")
	assert.ErrorIs(t, err, common.ErrConfiguration)

	_, err = NewKeywordPredicate("special", nil, Conjunction, "")
	assert.ErrorIs(t, err, common.ErrConfiguration)

	_, err = NewKeywordPredicate("...", []string{"review"}, Phrase, "")
	assert.ErrorIs(t, err, common.ErrConfiguration)

	_, err = ParseKeywordMatchingType("fuzzy")
	assert.ErrorIs(t, err, common.ErrConfiguration)
}

func TestRegexPredicate(t *testing.T) {
	p, err := NewRegexPredicate(`writ[a-z]+`, []string{"review"}, false)
	require.NoError(t, err)

	spans := p.Match(reviewFields()[1:])
	require.Len(t, spans, 2)
	assert.Equal(t, db_types.NewSpan("review", 27, 33, `writ[a-z]+`, "writer"), spans[0])

	empty, err := NewRegexPredicate(`x*`, []string{"review"}, false)
	require.NoError(t, err)
	assert.Empty(t, empty.Match(reviewFields()[1:]))

	_, err = NewRegexPredicate(`(`, []string{"review"}, false)
	assert.ErrorIs(t, err, common.ErrConfiguration)
}

func TestFuzzyTokenPredicate(t *testing.T) {
	p, err := NewFuzzyTokenPredicate("this writer writes well", []string{"review"}, 0.25, "")
	require.NoError(t, err)
	assert.Equal(t, 1, p.Threshold())

	spans := p.Match(reviewFields()[1:])
	require.Len(t, spans, 2)
	assert.Equal(t, "writer", spans[0].Key)

	strict, err := NewFuzzyTokenPredicate("this writer writes well", []string{"review"}, 0.5, "")
	require.NoError(t, err)
	assert.Equal(t, 2, strict.Threshold())
	assert.Empty(t, strict.Match(reviewFields()[1:]))

	_, err = NewFuzzyTokenPredicate("writer", []string{"review"}, 1.5, "")
	assert.ErrorIs(t, err, common.ErrConfiguration)
}

func TestJoinDistancePredicate_Boundary(t *testing.T) {
	s1 := db_types.NewSpan("review", 11, 18, "special", "special")
	s2 := db_types.NewSpan("review", 27, 33, "writer", "writer")

	p16, err := NewJoinDistancePredicate("review", 16, BoundaryDistance)
	require.NoError(t, err)
	p15, err := NewJoinDistancePredicate("review", 15, BoundaryDistance)
	require.NoError(t, err)
	assert.True(t, p16.Qualifies(s1, s2))
	assert.False(t, p15.Qualifies(s1, s2))

	merged := p16.Merge(s1, s2, review, true)
	assert.Equal(t, db_types.NewSpan("review", 11, 33, "special_writer", "special kind of writer"), merged)
	assert.Equal(t, db_types.UnsetTokenOffset, merged.TokenOffset)

	fallback := p16.Merge(s1, s2, "", false)
	assert.Equal(t, "special writer", fallback.Value)
}

func TestJoinDistancePredicate_Extent(t *testing.T) {
	s1 := db_types.NewSpan("review", 11, 18, "special", "special")
	s2 := db_types.NewSpan("review", 27, 33, "writer", "writer")

	p22, err := NewJoinDistancePredicate("review", 22, ExtentDistance)
	require.NoError(t, err)
	p21, err := NewJoinDistancePredicate("review", 21, ExtentDistance)
	require.NoError(t, err)
	assert.True(t, p22.Qualifies(s1, s2))
	assert.False(t, p21.Qualifies(s1, s2))
}

func TestJoinDistancePredicate_Same_Span_Merges_Into_Itself(t *testing.T) {
	s := db_types.NewSpan("review", 11, 18, "k", "special")
	p, err := NewJoinDistancePredicate("review", 0, BoundaryDistance)
	require.NoError(t, err)

	require.True(t, p.Qualifies(s, s))
	merged := p.Merge(s, s, review, true)
	assert.Equal(t, 11, merged.Start)
	assert.Equal(t, 18, merged.End)
	assert.Equal(t, "k_k", merged.Key)
}

func TestJoinDistancePredicate_Invalid(t *testing.T) {
	_, err := NewJoinDistancePredicate("review", -1, BoundaryDistance)
	assert.ErrorIs(t, err, common.ErrConfiguration)

	_, err = NewJoinDistancePredicate("", 1, BoundaryDistance)
	assert.ErrorIs(t, err, common.ErrConfiguration)

	_, err = ParseDistanceMode("manhattan")
	assert.ErrorIs(t, err, common.ErrConfiguration)
}
