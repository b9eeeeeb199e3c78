package tree

import (
	"math"
	"slices"

	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/modelselect/core/random"
)

// node is a binary CART node. Leaves have nil children; value holds the
// class distribution or the mean target.
type node struct {
	feature   int
	threshold float64
	left      *node
	right     *node
	value     []float64
	samples   int
	impurity  float64
}

func (n *node) isLeaf() bool { return n.left == nil }

// accumulator keeps running statistics of a set of rows so a split scan can
// move rows from one side to the other in constant time.
type accumulator interface {
	add(row int)
	remove(row int)
	count() int
	impurity() float64
	value() []float64
	clone() accumulator
}

// builder grows a tree over the rows of X.
type builder struct {
	params     params
	X          *mat.Dense
	nFeatures  int
	newAcc     func() accumulator
	rng        random.Generator
	importance []float64
	depth      int
	leaves     int
}

func newBuilder(p params, X *mat.Dense, newAcc func() accumulator) *builder {
	_, c := X.Dims()
	return &builder{
		params:     p,
		X:          X,
		nFeatures:  c,
		newAcc:     newAcc,
		rng:        random.NewGenerator(p.RandomState),
		importance: make([]float64, c),
	}
}

func (b *builder) build(rows []int, depth int) *node {
	acc := b.newAcc()
	for _, r := range rows {
		acc.add(r)
	}
	n := &node{samples: len(rows), impurity: acc.impurity(), value: acc.value()}
	b.depth = max(b.depth, depth)

	if n.impurity <= 1e-12 ||
		len(rows) < b.params.MinSamplesSplit ||
		len(rows) < 2*b.params.MinSamplesLeaf ||
		(b.params.MaxDepth > 0 && depth >= b.params.MaxDepth) {
		b.leaves++
		return n
	}

	feature, threshold, gain, ok := b.bestSplit(rows, acc)
	if !ok || gain <= b.params.MinImpurityDecrease {
		b.leaves++
		return n
	}

	var left, right []int
	for _, r := range rows {
		if b.X.At(r, feature) <= threshold {
			left = append(left, r)
		} else {
			right = append(right, r)
		}
	}
	b.importance[feature] += gain * float64(len(rows))
	n.feature = feature
	n.threshold = threshold
	n.left = b.build(left, depth+1)
	n.right = b.build(right, depth+1)
	return n
}

// candidateFeatures returns all features, or a random subset of MaxFeatures
// of them in ascending order.
func (b *builder) candidateFeatures() []int {
	all := make([]int, b.nFeatures)
	for j := range all {
		all[j] = j
	}
	if b.params.MaxFeatures == 0 || b.params.MaxFeatures >= b.nFeatures {
		return all
	}
	subset := b.rng.Sample(all, b.params.MaxFeatures)
	slices.Sort(subset)
	return subset
}

// bestSplit scans every candidate feature and returns the split with the
// largest impurity decrease. Ties keep the first feature and threshold found.
func (b *builder) bestSplit(rows []int, parent accumulator) (feature int, threshold, gain float64, ok bool) {
	n := float64(len(rows))
	parentImpurity := parent.impurity()
	sorted := make([]int, len(rows))
	minLeaf := b.params.MinSamplesLeaf

	for _, f := range b.candidateFeatures() {
		copy(sorted, rows)
		slices.SortStableFunc(sorted, func(a, c int) int {
			va, vc := b.X.At(a, f), b.X.At(c, f)
			switch {
			case va < vc:
				return -1
			case va > vc:
				return 1
			}
			return 0
		})

		left := b.newAcc()
		right := parent.clone()
		for s := 1; s < len(sorted); s++ {
			left.add(sorted[s-1])
			right.remove(sorted[s-1])
			lo, hi := b.X.At(sorted[s-1], f), b.X.At(sorted[s], f)
			if lo == hi || s < minLeaf || len(sorted)-s < minLeaf {
				continue
			}
			weighted := (float64(left.count())*left.impurity() + float64(right.count())*right.impurity()) / n
			g := parentImpurity - weighted
			if !ok || g > gain {
				feature, threshold, gain, ok = f, lo+(hi-lo)/2, g, true
			}
		}
	}
	return feature, threshold, gain, ok
}

// normalizedImportance scales importances to sum to one.
func (b *builder) normalizedImportance() []float64 {
	total := 0.0
	for _, v := range b.importance {
		total += v
	}
	out := make([]float64, len(b.importance))
	if total == 0 {
		return out
	}
	for j, v := range b.importance {
		out[j] = v / total
	}
	return out
}

func (n *node) find(x []float64) *node {
	cur := n
	for !cur.isLeaf() {
		if x[cur.feature] <= cur.threshold {
			cur = cur.left
		} else {
			cur = cur.right
		}
	}
	return cur
}

// classAccumulator counts rows per class index.
type classAccumulator struct {
	labels    []int
	counts    []float64
	n         int
	criterion string
}

func (a *classAccumulator) add(row int)    { a.counts[a.labels[row]]++; a.n++ }
func (a *classAccumulator) remove(row int) { a.counts[a.labels[row]]--; a.n-- }
func (a *classAccumulator) count() int     { return a.n }

func (a *classAccumulator) impurity() float64 {
	if a.n == 0 {
		return 0
	}
	total := float64(a.n)
	res := 0.0
	for _, c := range a.counts {
		if c == 0 {
			continue
		}
		p := c / total
		if a.criterion == "entropy" {
			res -= p * math.Log2(p)
		} else {
			res += p * (1 - p)
		}
	}
	return res
}

func (a *classAccumulator) value() []float64 {
	out := make([]float64, len(a.counts))
	if a.n == 0 {
		return out
	}
	for i, c := range a.counts {
		out[i] = c / float64(a.n)
	}
	return out
}

func (a *classAccumulator) clone() accumulator {
	c := *a
	c.counts = slices.Clone(a.counts)
	return &c
}

// varianceAccumulator tracks sums for the squared-error criterion.
type varianceAccumulator struct {
	targets []float64
	sum     float64
	sumSq   float64
	n       int
}

func (a *varianceAccumulator) add(row int) {
	v := a.targets[row]
	a.sum += v
	a.sumSq += v * v
	a.n++
}

func (a *varianceAccumulator) remove(row int) {
	v := a.targets[row]
	a.sum -= v
	a.sumSq -= v * v
	a.n--
}

func (a *varianceAccumulator) count() int { return a.n }

func (a *varianceAccumulator) impurity() float64 {
	if a.n == 0 {
		return 0
	}
	mean := a.sum / float64(a.n)
	return max(0, a.sumSq/float64(a.n)-mean*mean)
}

func (a *varianceAccumulator) value() []float64 {
	if a.n == 0 {
		return []float64{0}
	}
	return []float64{a.sum / float64(a.n)}
}

func (a *varianceAccumulator) clone() accumulator {
	c := *a
	return &c
}
