package ml

import (
	"math"
	"math/rand"
	"sort"
)

// Ensemble hyperparameters. The seed is fixed so training is reproducible
// for a given corpus.
const (
	NumTrees        = 100
	MaxTreeDepth    = 10
	RandomSeed      = 42
	minSamplesSplit = 2
)

// TreeNode is a binary decision-tree node. Leaf nodes carry the predicted
// class id. Fields are exported for gob encoding.
type TreeNode struct {
	Leaf      bool
	Class     int
	Feature   int
	Threshold float64
	Left      *TreeNode
	Right     *TreeNode
}

// Forest is a bagged ensemble of decision trees voting by majority.
type Forest struct {
	Trees      []*TreeNode
	NumClasses int
}

// TrainForest fits NumTrees trees on bootstrap samples of the data, each
// split considering a random sqrt-sized feature subset.
func TrainForest(features [][]float64, labels []int, numClasses int, rng *rand.Rand) *Forest {
	forest := &Forest{
		Trees:      make([]*TreeNode, 0, NumTrees),
		NumClasses: numClasses,
	}

	n := len(features)
	for t := 0; t < NumTrees; t++ {
		sample := make([]int, n)
		for i := range sample {
			sample[i] = rng.Intn(n)
		}
		forest.Trees = append(forest.Trees, growTree(features, labels, sample, numClasses, 0, rng))
	}
	return forest
}

// Predict returns the majority-vote class over all trees, lower class id
// winning ties.
func (f *Forest) Predict(vec []float64) int {
	votes := make([]int, f.NumClasses)
	for _, tree := range f.Trees {
		votes[classify(tree, vec)]++
	}

	best := 0
	for class, count := range votes {
		if count > votes[best] {
			best = class
		}
	}
	return best
}

func classify(node *TreeNode, vec []float64) int {
	for !node.Leaf {
		if vec[node.Feature] <= node.Threshold {
			node = node.Left
		} else {
			node = node.Right
		}
	}
	return node.Class
}

func growTree(features [][]float64, labels []int, sample []int, numClasses, depth int, rng *rand.Rand) *TreeNode {
	counts := make([]int, numClasses)
	for _, idx := range sample {
		counts[labels[idx]]++
	}
	majority := argmax(counts)

	if depth >= MaxTreeDepth || len(sample) < minSamplesSplit || counts[majority] == len(sample) {
		return &TreeNode{Leaf: true, Class: majority}
	}

	feature, threshold, ok := bestSplit(features, labels, sample, numClasses, rng)
	if !ok {
		return &TreeNode{Leaf: true, Class: majority}
	}

	var left, right []int
	for _, idx := range sample {
		if features[idx][feature] <= threshold {
			left = append(left, idx)
		} else {
			right = append(right, idx)
		}
	}
	if len(left) == 0 || len(right) == 0 {
		return &TreeNode{Leaf: true, Class: majority}
	}

	return &TreeNode{
		Feature:   feature,
		Threshold: threshold,
		Left:      growTree(features, labels, left, numClasses, depth+1, rng),
		Right:     growTree(features, labels, right, numClasses, depth+1, rng),
	}
}

// bestSplit scans a random sqrt-sized feature subset and returns the
// (feature, threshold) pair minimizing the weighted Gini impurity.
func bestSplit(features [][]float64, labels []int, sample []int, numClasses int, rng *rand.Rand) (int, float64, bool) {
	numFeatures := len(features[sample[0]])
	subset := rng.Perm(numFeatures)
	subsetSize := int(math.Ceil(math.Sqrt(float64(numFeatures))))
	if subsetSize > numFeatures {
		subsetSize = numFeatures
	}
	subset = subset[:subsetSize]

	bestGini := math.Inf(1)
	bestFeature, bestThreshold := -1, 0.0

	ordered := make([]int, len(sample))
	for _, feature := range subset {
		copy(ordered, sample)
		sort.Slice(ordered, func(i, j int) bool {
			return features[ordered[i]][feature] < features[ordered[j]][feature]
		})

		// Sweep split points left to right, maintaining class counts on
		// both sides so each candidate threshold costs O(1).
		leftCounts := make([]int, numClasses)
		rightCounts := make([]int, numClasses)
		for _, idx := range ordered {
			rightCounts[labels[idx]]++
		}

		for i := 0; i < len(ordered)-1; i++ {
			label := labels[ordered[i]]
			leftCounts[label]++
			rightCounts[label]--

			cur := features[ordered[i]][feature]
			next := features[ordered[i+1]][feature]
			if cur == next {
				continue
			}

			gini := weightedGini(leftCounts, rightCounts, i+1, len(ordered)-i-1)
			if gini < bestGini {
				bestGini = gini
				bestFeature = feature
				bestThreshold = (cur + next) / 2
			}
		}
	}

	return bestFeature, bestThreshold, bestFeature >= 0
}

func weightedGini(leftCounts, rightCounts []int, nLeft, nRight int) float64 {
	total := float64(nLeft + nRight)
	return float64(nLeft)/total*gini(leftCounts, nLeft) + float64(nRight)/total*gini(rightCounts, nRight)
}

func gini(counts []int, n int) float64 {
	impurity := 1.0
	for _, c := range counts {
		p := float64(c) / float64(n)
		impurity -= p * p
	}
	return impurity
}

func argmax(counts []int) int {
	best := 0
	for i, c := range counts {
		if c > counts[best] {
			best = i
		}
	}
	return best
}
