// Package ml implements the transaction auto-categorization model: a TF-IDF
// bag-of-ngrams feature extractor feeding a bagged decision-tree ensemble.
// Training builds a complete model in local state and publishes it
// atomically; prediction never fails visibly and falls back to a fixed
// category instead.
package ml

import (
	"math"
	"sort"
	"strings"
	"unicode"
)

// MaxFeatures caps the TF-IDF vocabulary size.
const MaxFeatures = 100

// Vectorizer converts free-text descriptions into TF-IDF weighted feature
// vectors over a fixed vocabulary of unigrams and bigrams. Fields are
// exported for gob encoding.
type Vectorizer struct {
	Vocabulary map[string]int
	IDF        []float64
}

// english stop words dropped during tokenization.
var stopWords = map[string]struct{}{}

func init() {
	for _, w := range strings.Fields(
		"a about above after again against all am an and any are as at be " +
			"because been before being below between both but by could did do " +
			"does doing down during each few for from further had has have " +
			"having he her here hers herself him himself his how i if in into " +
			"is it its itself just me more most my myself no nor not now of " +
			"off on once only or other our ours ourselves out over own same " +
			"she should so some such than that the their theirs them " +
			"themselves then there these they this those through to too under " +
			"until up very was we were what when where which while who whom " +
			"why will with you your yours yourself yourselves") {
		stopWords[w] = struct{}{}
	}
}

// tokenize lower-cases the text, splits on non-alphanumeric runes, drops
// stop words and single-character tokens, and emits unigrams plus bigrams.
func tokenize(text string) []string {
	words := strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})

	unigrams := words[:0]
	for _, w := range words {
		if len(w) < 2 {
			continue
		}
		if _, stop := stopWords[w]; stop {
			continue
		}
		unigrams = append(unigrams, w)
	}

	tokens := make([]string, 0, 2*len(unigrams))
	tokens = append(tokens, unigrams...)
	for i := 0; i+1 < len(unigrams); i++ {
		tokens = append(tokens, unigrams[i]+" "+unigrams[i+1])
	}
	return tokens
}

// FitVectorizer learns the vocabulary and inverse-document-frequency weights
// from the corpus, keeping the MaxFeatures most frequent terms.
func FitVectorizer(documents []string) *Vectorizer {
	termCounts := make(map[string]int)
	docFreq := make(map[string]int)

	for _, doc := range documents {
		tokens := tokenize(doc)
		seen := make(map[string]struct{}, len(tokens))
		for _, tok := range tokens {
			termCounts[tok]++
			if _, ok := seen[tok]; !ok {
				seen[tok] = struct{}{}
				docFreq[tok]++
			}
		}
	}

	// Most frequent terms win a vocabulary slot; ties resolve
	// alphabetically so training is reproducible.
	terms := make([]string, 0, len(termCounts))
	for term := range termCounts {
		terms = append(terms, term)
	}
	sort.Slice(terms, func(i, j int) bool {
		if termCounts[terms[i]] != termCounts[terms[j]] {
			return termCounts[terms[i]] > termCounts[terms[j]]
		}
		return terms[i] < terms[j]
	})
	if len(terms) > MaxFeatures {
		terms = terms[:MaxFeatures]
	}

	v := &Vectorizer{
		Vocabulary: make(map[string]int, len(terms)),
		IDF:        make([]float64, len(terms)),
	}
	n := float64(len(documents))
	for i, term := range terms {
		v.Vocabulary[term] = i
		// Smoothed IDF so unseen-in-some-doc terms never divide by zero.
		v.IDF[i] = math.Log((1+n)/(1+float64(docFreq[term]))) + 1
	}
	return v
}

// Transform maps one description to its L2-normalized TF-IDF vector. The
// result is all zeros when no token is in the vocabulary.
func (v *Vectorizer) Transform(text string) []float64 {
	vec := make([]float64, len(v.IDF))
	for _, tok := range tokenize(text) {
		if idx, ok := v.Vocabulary[tok]; ok {
			vec[idx]++
		}
	}

	var norm float64
	for i := range vec {
		vec[i] *= v.IDF[i]
		norm += vec[i] * vec[i]
	}
	if norm > 0 {
		norm = math.Sqrt(norm)
		for i := range vec {
			vec[i] /= norm
		}
	}
	return vec
}

// isZeroVector reports whether no vocabulary term matched at all.
func isZeroVector(vec []float64) bool {
	for _, v := range vec {
		if v != 0 {
			return false
		}
	}
	return true
}
