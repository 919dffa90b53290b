package ml

import (
	"fmt"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenize(t *testing.T) {
	tokens := tokenize("Payment to THE Coffee-Shop #42")

	assert.Contains(t, tokens, "payment")
	assert.Contains(t, tokens, "coffee")
	assert.Contains(t, tokens, "shop")
	assert.Contains(t, tokens, "42")
	// Bigrams follow cleaned unigram order.
	assert.Contains(t, tokens, "payment coffee")
	assert.Contains(t, tokens, "coffee shop")
	// Stop words and single characters are dropped.
	assert.NotContains(t, tokens, "to")
	assert.NotContains(t, tokens, "the")
}

func TestFitVectorizerVocabulary(t *testing.T) {
	v := FitVectorizer([]string{
		"coffee shop downtown",
		"coffee beans",
		"grocery store",
	})

	require.NotEmpty(t, v.Vocabulary)
	assert.Len(t, v.IDF, len(v.Vocabulary))

	idx, ok := v.Vocabulary["coffee"]
	require.True(t, ok)
	// "coffee" appears in 2 of 3 documents: smoothed IDF ln(4/3)+1.
	assert.InDelta(t, math.Log(4.0/3.0)+1, v.IDF[idx], 1e-9)
}

func TestFitVectorizerCapsFeatures(t *testing.T) {
	docs := make([]string, 0, 80)
	for i := 0; i < 80; i++ {
		docs = append(docs, fmt.Sprintf("merchant%d branch%d", i, i))
	}

	v := FitVectorizer(docs)

	assert.Len(t, v.Vocabulary, MaxFeatures)
	assert.Len(t, v.IDF, MaxFeatures)
}

func TestTransformL2Normalized(t *testing.T) {
	v := FitVectorizer([]string{
		"coffee shop downtown",
		"grocery store uptown",
	})

	vec := v.Transform("coffee shop")
	require.False(t, isZeroVector(vec))

	var norm float64
	for _, x := range vec {
		norm += x * x
	}
	assert.InDelta(t, 1.0, norm, 1e-9)
}

func TestTransformUnknownTokensYieldZeroVector(t *testing.T) {
	v := FitVectorizer([]string{"coffee shop", "grocery store"})

	vec := v.Transform("xyzzy plugh")
	assert.True(t, isZeroVector(vec))
	assert.Len(t, vec, len(v.IDF))
}
