// Package ensemble provides bagged decision-tree ensembles.
//
// RandomForestRegressor also exposes the predictions of its individual trees,
// which the sequential model-based optimizer uses as a mean and spread
// estimate of an objective function.
package ensemble

import (
	"context"

	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/modelselect/core/model"
	"github.com/YuminosukeSato/modelselect/core/parallel"
	"github.com/YuminosukeSato/modelselect/core/random"
	"github.com/YuminosukeSato/modelselect/pkg/errors"
	"github.com/YuminosukeSato/modelselect/sklearn/tree"
)

type forestParams struct {
	nEstimators    int
	maxDepth       int
	minSamplesLeaf int
	maxFeatures    int
	bootstrap      bool
	randomState    uint64
	nJobs          int
}

// Option configures a random forest.
type Option func(*forestParams)

// WithNEstimators sets the number of trees.
func WithNEstimators(n int) Option { return func(p *forestParams) { p.nEstimators = n } }

// WithMaxDepth limits the depth of every tree. 0 means unlimited.
func WithMaxDepth(d int) Option { return func(p *forestParams) { p.maxDepth = d } }

// WithMinSamplesLeaf sets the minimum leaf size of every tree.
func WithMinSamplesLeaf(n int) Option { return func(p *forestParams) { p.minSamplesLeaf = n } }

// WithMaxFeatures sets the number of features tried per split. 0 means all.
func WithMaxFeatures(n int) Option { return func(p *forestParams) { p.maxFeatures = n } }

// WithBootstrap toggles sampling rows with replacement for each tree.
func WithBootstrap(b bool) Option { return func(p *forestParams) { p.bootstrap = b } }

// WithRandomState seeds bootstrap sampling and feature subsampling.
func WithRandomState(seed uint64) Option { return func(p *forestParams) { p.randomState = seed } }

// WithNJobs sets how many trees are fitted concurrently. Values below 1 use
// every CPU.
func WithNJobs(n int) Option { return func(p *forestParams) { p.nJobs = n } }

func newForestParams(opts []Option) forestParams {
	p := forestParams{
		nEstimators:    100,
		minSamplesLeaf: 1,
		bootstrap:      true,
		nJobs:          1,
	}
	for _, opt := range opts {
		opt(&p)
	}
	return p
}

func (p forestParams) validate() error {
	if p.nEstimators < 1 {
		return errors.NewValidationError("n_estimators", "must be at least 1", p.nEstimators)
	}
	return nil
}

func (p forestParams) treeOptions(t int) []tree.Option {
	return []tree.Option{
		tree.WithMaxDepth(p.maxDepth),
		tree.WithMinSamplesLeaf(p.minSamplesLeaf),
		tree.WithMaxFeatures(p.maxFeatures),
		tree.WithRandomState(random.DeriveSeed(p.randomState, uint64(2*t+1))),
	}
}

// sampleRows returns the training rows of tree t.
func (p forestParams) sampleRows(t, n int) []int {
	if !p.bootstrap {
		rows := make([]int, n)
		for i := range rows {
			rows[i] = i
		}
		return rows
	}
	return random.NewGenerator(random.DeriveSeed(p.randomState, uint64(2*t))).Bootstrap(n)
}

// fitTrees fits one estimator per tree on its own row sample.
func fitTrees[E model.Estimator](p forestParams, X mat.Matrix, y []float64, newTree func(t int) E) ([]E, error) {
	trees := make([]E, p.nEstimators)
	n := len(y)
	err := parallel.ForEach(context.Background(), p.nEstimators, parallel.Workers(p.nJobs), func(t int) error {
		rows := p.sampleRows(t, n)
		est := newTree(t)
		if err := est.Fit(model.Rows(X, rows), model.ColumnVector(model.Targets(y, rows))); err != nil {
			return errors.Wrapf(err, "fit tree %d", t)
		}
		trees[t] = est
		return nil
	})
	return trees, err
}
