package ml

import (
	"bytes"
	"encoding/gob"
	"errors"
	"fmt"
	"math/rand"
	"sort"
	"strings"
	"sync"
	"sync/atomic"
)

// FallbackCategory is returned whenever a prediction cannot be made.
const FallbackCategory = "Other"

// DefaultMinTrainingSamples is the smallest corpus Train accepts.
const DefaultMinTrainingSamples = 50

// ErrInsufficientData signals that the training corpus is below the minimum
// size. It is a distinct terminal outcome, not a failure: the previously
// trained model (if any) stays published.
var ErrInsufficientData = errors.New("insufficient training data")

// Sample is one labeled training example.
type Sample struct {
	Description string
	Category    string
}

// Model is a fully trained, immutable categorization model. Fields are
// exported for gob encoding.
type Model struct {
	Vectorizer *Vectorizer
	Forest     *Forest
	Labels     []string
	SampleSize int
}

// Classifier predicts a category for free-text transaction descriptions.
//
// Training is a single-writer operation serialized by trainMu; the fitted
// model is built entirely in locals and then published through an atomic
// pointer, so concurrent Predict calls either see the old model or the new
// one, never a torn state.
type Classifier struct {
	trainMu    sync.Mutex
	model      atomic.Pointer[Model]
	minSamples int
}

// NewClassifier returns an untrained classifier. minSamples <= 0 selects
// DefaultMinTrainingSamples.
func NewClassifier(minSamples int) *Classifier {
	if minSamples <= 0 {
		minSamples = DefaultMinTrainingSamples
	}
	return &Classifier{minSamples: minSamples}
}

// IsTrained reports whether a model has been published.
func (c *Classifier) IsTrained() bool {
	return c.model.Load() != nil
}

// SampleSize returns the corpus size of the published model, 0 if untrained.
func (c *Classifier) SampleSize() int {
	if m := c.model.Load(); m != nil {
		return m.SampleSize
	}
	return 0
}

// Train fits a new model on the labeled corpus and atomically replaces the
// published one. On any failure, including a corpus below the minimum size,
// the previously trained model is left untouched.
func (c *Classifier) Train(samples []Sample) error {
	c.trainMu.Lock()
	defer c.trainMu.Unlock()

	if len(samples) < c.minSamples {
		return fmt.Errorf("%w: have %d samples, need %d", ErrInsufficientData, len(samples), c.minSamples)
	}

	model, err := fitModel(samples)
	if err != nil {
		return err
	}

	c.model.Store(model)
	return nil
}

// Predict returns the category for a description. If the classifier is
// untrained, or the description yields an empty feature vector, it returns
// FallbackCategory; prediction never fails visibly to the caller.
func (c *Classifier) Predict(description string) string {
	model := c.model.Load()
	if model == nil {
		return FallbackCategory
	}

	vec := model.Vectorizer.Transform(strings.ToLower(description))
	if isZeroVector(vec) {
		return FallbackCategory
	}

	class := model.Forest.Predict(vec)
	if class < 0 || class >= len(model.Labels) {
		return FallbackCategory
	}
	return model.Labels[class]
}

func fitModel(samples []Sample) (*Model, error) {
	documents := make([]string, len(samples))
	for i, s := range samples {
		documents[i] = strings.ToLower(s.Description)
	}

	vectorizer := FitVectorizer(documents)
	if len(vectorizer.IDF) == 0 {
		return nil, errors.New("training corpus produced an empty vocabulary")
	}

	labels, labelIDs := encodeLabels(samples)

	features := make([][]float64, len(documents))
	for i, doc := range documents {
		features[i] = vectorizer.Transform(doc)
	}

	rng := rand.New(rand.NewSource(RandomSeed))
	forest := TrainForest(features, labelIDs, len(labels), rng)

	return &Model{
		Vectorizer: vectorizer,
		Forest:     forest,
		Labels:     labels,
		SampleSize: len(samples),
	}, nil
}

// encodeLabels maps category names to dense integer ids, sorted so encoding
// is stable across runs.
func encodeLabels(samples []Sample) ([]string, []int) {
	seen := make(map[string]struct{})
	for _, s := range samples {
		seen[s.Category] = struct{}{}
	}
	labels := make([]string, 0, len(seen))
	for label := range seen {
		labels = append(labels, label)
	}
	sort.Strings(labels)

	index := make(map[string]int, len(labels))
	for i, label := range labels {
		index[label] = i
	}

	ids := make([]int, len(samples))
	for i, s := range samples {
		ids[i] = index[s.Category]
	}
	return labels, ids
}

// EncodeModel serializes the published model to an opaque blob. Returns nil
// when untrained.
func (c *Classifier) EncodeModel() ([]byte, error) {
	model := c.model.Load()
	if model == nil {
		return nil, nil
	}

	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(model); err != nil {
		return nil, fmt.Errorf("encoding classifier model: %w", err)
	}
	return buf.Bytes(), nil
}

// DecodeModel restores a previously encoded model and publishes it.
func (c *Classifier) DecodeModel(blob []byte) error {
	var model Model
	if err := gob.NewDecoder(bytes.NewReader(blob)).Decode(&model); err != nil {
		return fmt.Errorf("decoding classifier model: %w", err)
	}

	c.trainMu.Lock()
	defer c.trainMu.Unlock()
	c.model.Store(&model)
	return nil
}
