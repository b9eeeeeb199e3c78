package model_selection

import (
	"slices"

	"github.com/bits-and-blooms/bitset"
	"github.com/samber/lo"

	"github.com/YuminosukeSato/modelselect/core/random"
)

// Fold is one round of k-fold cross-validation. Indices are positions in
// the row set being cross-validated.
type Fold struct {
	Index           int
	TrainingIndices []int
	HoldoutIndices  []int
}

// randomFoldAssignment shuffles the positions [0, n) and cuts them into k
// consecutive folds. The first n mod k folds get one extra position.
func randomFoldAssignment(n, k int, seed uint64) [][]int {
	positions := lo.Range(n)
	random.NewGenerator(seed).ShuffleInts(positions)

	holdouts := make([][]int, k)
	foldSize := n / k
	remainder := n % k
	current := 0
	for i := 0; i < k; i++ {
		size := foldSize
		if i < remainder {
			size++
		}
		holdouts[i] = sortedCopy(positions[current : current+size])
		current += size
	}
	return holdouts
}

// stratifiedFoldAssignment shuffles the positions of each class and deals
// them round-robin over the folds, class after class, so every fold gets a
// near-equal share of every class and fold sizes differ by at most one.
func stratifiedFoldAssignment(labels []float64, k int, seed uint64) [][]int {
	groups := lo.GroupBy(lo.Range(len(labels)), func(pos int) float64 { return labels[pos] })
	classes := lo.Keys(groups)
	slices.Sort(classes)

	rng := random.NewGenerator(seed)
	holdouts := make([][]int, k)
	next := 0
	for _, c := range classes {
		members := groups[c]
		rng.ShuffleInts(members)
		for _, pos := range members {
			holdouts[next%k] = append(holdouts[next%k], pos)
			next++
		}
	}
	for i := range holdouts {
		slices.Sort(holdouts[i])
	}
	return holdouts
}

// buildFolds derives the training positions of each fold as the complement
// of its holdout positions.
func buildFolds(n int, holdouts [][]int) []Fold {
	folds := make([]Fold, len(holdouts))
	for i, holdout := range holdouts {
		mask := bitset.New(uint(n))
		for _, pos := range holdout {
			mask.Set(uint(pos))
		}
		training := make([]int, 0, n-len(holdout))
		for pos := 0; pos < n; pos++ {
			if !mask.Test(uint(pos)) {
				training = append(training, pos)
			}
		}
		folds[i] = Fold{Index: i, TrainingIndices: training, HoldoutIndices: holdout}
	}
	return folds
}

func sortedCopy(values []int) []int {
	out := slices.Clone(values)
	slices.Sort(out)
	return out
}
