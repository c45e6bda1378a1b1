// Castadvisor - Continuous Casting Quality Advisor
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/castadvisor

package classifier

import (
	"math/rand"
	"sort"
)

// leafFeature marks a leaf node.
const leafFeature = -1

// node is a CART node stored in a flat slice. Samples with
// x[feature] <= threshold go to left, the rest to right.
type node struct {
	feature   int
	threshold float64
	left      int
	right     int
	class     int
}

// decisionTree is a fitted CART classification tree.
type decisionTree struct {
	nodes []node
	depth int
}

// predict returns the class index for a standardized feature vector.
func (t *decisionTree) predict(x []float64) int {
	i := 0
	for {
		n := &t.nodes[i]
		if n.feature == leafFeature {
			return n.class
		}
		if x[n.feature] <= n.threshold {
			i = n.left
		} else {
			i = n.right
		}
	}
}

// treeParams are the growth limits of a single tree.
type treeParams struct {
	maxDepth        int // 0 means unlimited
	minSamplesSplit int
	minSamplesLeaf  int
	maxFeatures     int
}

// treeBuilder grows one tree. It is not safe for concurrent use; each
// tree in a forest gets its own builder and RNG.
type treeBuilder struct {
	x        [][]float64
	y        []int
	nClasses int
	params   treeParams
	rng      *rand.Rand

	nodes    []node
	maxDepth int

	// scratch buffers reused across split searches
	order      []int
	leftCount  []int
	rightCount []int
}

func newTreeBuilder(x [][]float64, y []int, nClasses int, params treeParams, rng *rand.Rand) *treeBuilder {
	return &treeBuilder{
		x:          x,
		y:          y,
		nClasses:   nClasses,
		params:     params,
		rng:        rng,
		leftCount:  make([]int, nClasses),
		rightCount: make([]int, nClasses),
	}
}

// build grows a tree over the given sample indices (duplicates allowed,
// as produced by bootstrap sampling).
func (b *treeBuilder) build(samples []int) *decisionTree {
	b.nodes = b.nodes[:0]
	b.maxDepth = 0
	b.grow(samples, 0)
	return &decisionTree{nodes: b.nodes, depth: b.maxDepth}
}

// grow appends the subtree for samples and returns its root index.
func (b *treeBuilder) grow(samples []int, depth int) int {
	if depth > b.maxDepth {
		b.maxDepth = depth
	}

	counts := make([]int, b.nClasses)
	for _, s := range samples {
		counts[b.y[s]]++
	}
	majority := argmax(counts)

	idx := len(b.nodes)
	b.nodes = append(b.nodes, node{feature: leafFeature, class: majority})

	n := len(samples)
	if counts[majority] == n ||
		n < b.params.minSamplesSplit ||
		n < 2*b.params.minSamplesLeaf ||
		(b.params.maxDepth > 0 && depth >= b.params.maxDepth) {
		return idx
	}

	feature, threshold, ok := b.bestSplit(samples, counts)
	if !ok {
		return idx
	}

	left := make([]int, 0, n)
	right := make([]int, 0, n)
	for _, s := range samples {
		if b.x[s][feature] <= threshold {
			left = append(left, s)
		} else {
			right = append(right, s)
		}
	}

	l := b.grow(left, depth+1)
	r := b.grow(right, depth+1)
	b.nodes[idx] = node{feature: feature, threshold: threshold, left: l, right: r, class: majority}
	return idx
}

// bestSplit searches a random subset of features for the split with the
// lowest weighted Gini impurity. Features that are constant within the node
// do not count toward maxFeatures; the search continues past maxFeatures only
// until some valid split has been found.
func (b *treeBuilder) bestSplit(samples []int, counts []int) (int, float64, bool) {
	nFeatures := len(b.x[samples[0]])
	perm := b.rng.Perm(nFeatures)

	bestFeature := -1
	bestThreshold := 0.0
	bestImpurity := 0.0
	visited := 0

	for _, f := range perm {
		if visited >= b.params.maxFeatures && bestFeature >= 0 {
			break
		}
		threshold, impurity, evaluated, found := b.splitFeature(samples, counts, f)
		if !evaluated {
			continue
		}
		visited++
		if found && (bestFeature < 0 || impurity < bestImpurity) {
			bestFeature = f
			bestThreshold = threshold
			bestImpurity = impurity
		}
	}
	return bestFeature, bestThreshold, bestFeature >= 0
}

// splitFeature finds the best threshold on feature f. evaluated is false when
// the feature is constant over samples; found is false when no threshold
// satisfies minSamplesLeaf.
func (b *treeBuilder) splitFeature(samples []int, counts []int, f int) (threshold, impurity float64, evaluated, found bool) {
	b.order = append(b.order[:0], samples...)
	x := b.x
	sort.Slice(b.order, func(i, j int) bool {
		return x[b.order[i]][f] < x[b.order[j]][f]
	})

	n := len(b.order)
	if x[b.order[0]][f] == x[b.order[n-1]][f] {
		return 0, 0, false, false
	}

	for c := range b.leftCount {
		b.leftCount[c] = 0
		b.rightCount[c] = counts[c]
	}

	minLeaf := b.params.minSamplesLeaf
	for i := 1; i < n; i++ {
		cls := b.y[b.order[i-1]]
		b.leftCount[cls]++
		b.rightCount[cls]--

		lo := x[b.order[i-1]][f]
		hi := x[b.order[i]][f]
		if lo == hi || i < minLeaf || n-i < minLeaf {
			continue
		}

		g := (float64(i)*gini(b.leftCount, i) + float64(n-i)*gini(b.rightCount, n-i)) / float64(n)
		if !found || g < impurity {
			impurity = g
			threshold = midpoint(lo, hi)
			found = true
		}
	}
	return threshold, impurity, true, found
}

// gini returns the Gini impurity of a class histogram with total n.
func gini(counts []int, n int) float64 {
	if n == 0 {
		return 0
	}
	sum := 0.0
	fn := float64(n)
	for _, c := range counts {
		p := float64(c) / fn
		sum += p * p
	}
	return 1 - sum
}

// midpoint returns a threshold strictly below hi so that lo goes left and hi
// goes right even when the two values are adjacent floats.
func midpoint(lo, hi float64) float64 {
	m := lo + (hi-lo)/2
	if m >= hi {
		return lo
	}
	return m
}

// argmax returns the index of the largest value; ties go to the lowest index.
func argmax(v []int) int {
	best := 0
	for i := 1; i < len(v); i++ {
		if v[i] > v[best] {
			best = i
		}
	}
	return best
}
