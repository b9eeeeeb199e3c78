package optimization

import (
	"context"
	"math"
	"slices"

	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/modelselect/core/random"
	"github.com/YuminosukeSato/modelselect/pkg/errors"
	"github.com/YuminosukeSato/modelselect/pkg/log"
	"github.com/YuminosukeSato/modelselect/sklearn/ensemble"
)

// SurrogateConfig shapes the random-forest surrogate and the candidate pool
// scored by the acquisition function each round.
type SurrogateConfig struct {
	Trees          int
	MinSamplesLeaf int
	// MaxFeatures per split, 0 for all dimensions.
	MaxFeatures int
	// RandomCandidates are drawn uniformly over the whole space.
	RandomCandidates int
	// LocalParents best points each spawn LocalCandidates Gaussian
	// perturbations with standard deviation LocalScale in unit space.
	LocalParents    int
	LocalCandidates int
	LocalScale      float64
}

// DefaultSurrogateConfig returns 30 trees scoring 1000 random and 100 local candidates.
func DefaultSurrogateConfig() SurrogateConfig {
	return SurrogateConfig{
		Trees:            30,
		MinSamplesLeaf:   1,
		RandomCandidates: 1000,
		LocalParents:     5,
		LocalCandidates:  20,
		LocalScale:       0.1,
	}
}

func (c SurrogateConfig) validate() error {
	switch {
	case c.Trees < 1:
		return errors.NewValidationError("surrogate.trees", "must be at least 1", c.Trees)
	case c.MinSamplesLeaf < 1:
		return errors.NewValidationError("surrogate.min_samples_leaf", "must be at least 1", c.MinSamplesLeaf)
	case c.RandomCandidates < 1:
		return errors.NewValidationError("surrogate.random_candidates", "must be at least 1", c.RandomCandidates)
	case c.LocalParents < 0 || c.LocalCandidates < 0:
		return errors.NewValidationError("surrogate.local_candidates", "must be non-negative", c.LocalCandidates)
	case c.LocalScale < 0:
		return errors.NewValidationError("surrogate.local_scale", "must be non-negative", c.LocalScale)
	}
	return nil
}

// SequentialModelBasedOptimizer starts with random candidates and then, for
// each round, fits a random-forest surrogate to the history and evaluates
// the candidates the acquisition function ranks highest.
type SequentialModelBasedOptimizer struct {
	specs        []MinMaxParameterSpec
	iterations   int
	initial      int
	perIteration int
	seed         uint64
	opts         options
}

// NewSequentialModelBasedOptimizer evaluates initialParameterSets random
// candidates, then iterations rounds of candidatesPerIteration proposals.
func NewSequentialModelBasedOptimizer(specs []MinMaxParameterSpec, iterations, initialParameterSets, candidatesPerIteration int,
	seed uint64, opts ...Option) *SequentialModelBasedOptimizer {
	return &SequentialModelBasedOptimizer{
		specs:        specs,
		iterations:   iterations,
		initial:      initialParameterSets,
		perIteration: candidatesPerIteration,
		seed:         seed,
		opts:         newOptions(opts),
	}
}

// Validate checks the configuration.
func (o *SequentialModelBasedOptimizer) Validate() error {
	switch {
	case o.iterations < 1:
		return errors.NewValidationError("iterations", "must be at least 1", o.iterations)
	case o.initial < 1:
		return errors.NewValidationError("initialParameterSets", "must be at least 1", o.initial)
	case o.perIteration < 1:
		return errors.NewValidationError("candidatesPerIteration", "must be at least 1", o.perIteration)
	case o.opts.acquisition == nil:
		return errors.NewValidationError("acquisition", "must not be nil", nil)
	}
	if err := o.opts.surrogate.validate(); err != nil {
		return err
	}
	return validateSpecs(o.specs)
}

// OptimizeBest implements Optimizer.
func (o *SequentialModelBasedOptimizer) OptimizeBest(ctx context.Context, objective Objective) (OptimizerResult, error) {
	return optimizeBest(ctx, o, objective)
}

// smboHistory holds evaluated points in unit space next to their errors.
type smboHistory struct {
	units     [][]float64
	errors    []float64
	evaluated map[string]bool
}

func (h *smboHistory) add(specs []MinMaxParameterSpec, candidates [][]float64, results []OptimizerResult) {
	for i, c := range candidates {
		rounded := roundVector(specs, c)
		h.units = append(h.units, toUnitVector(specs, rounded))
		h.errors = append(h.errors, results[i].Error)
		h.evaluated[vectorKey(rounded)] = true
	}
}

func (h *smboHistory) best() float64 {
	best := math.Inf(1)
	for _, e := range h.errors {
		if !math.IsNaN(e) && e < best {
			best = e
		}
	}
	return best
}

// Optimize implements Optimizer. Proposals depend on the history, so only
// the candidates of one round are evaluated concurrently.
func (o *SequentialModelBasedOptimizer) Optimize(ctx context.Context, objective Objective) ([]OptimizerResult, error) {
	if err := o.Validate(); err != nil {
		return nil, err
	}
	if err := validateObjective(objective); err != nil {
		return nil, err
	}

	rng := random.NewGenerator(o.seed)
	e := newEvaluator("smbo", o.specs, objective, o.opts)
	history := &smboHistory{evaluated: map[string]bool{}}

	warmup := make([][]float64, o.initial)
	for i := range warmup {
		warmup[i] = sampleVector(o.specs, rng)
	}
	results, err := e.evaluate(ctx, warmup)
	if err != nil {
		return nil, err
	}
	history.add(o.specs, warmup, results)
	warmupBest := history.best()

	for round := 0; round < o.iterations; round++ {
		proposals, err := o.propose(round, history, rng, e.logger)
		if err != nil {
			return nil, err
		}
		results, err := e.evaluate(ctx, proposals)
		if err != nil {
			return nil, err
		}
		history.add(o.specs, proposals, results)
	}

	if !(history.best() < warmupBest) {
		errors.Warn(errors.NewConvergenceWarning("SequentialModelBasedOptimizer", o.iterations,
			"surrogate proposals did not improve on the random warm-up"))
	}
	return e.finish()
}

// propose returns perIteration new candidates in raw parameter space.
func (o *SequentialModelBasedOptimizer) propose(round int, h *smboHistory, rng random.Generator, logger log.Logger) ([][]float64, error) {
	var rows []int
	for i, e := range h.errors {
		if !math.IsNaN(e) && !math.IsInf(e, 0) {
			rows = append(rows, i)
		}
	}
	if len(rows) < 2 {
		return o.randomProposals(h, rng, o.perIteration, nil), nil
	}

	cfg := o.opts.surrogate
	X := mat.NewDense(len(rows), len(o.specs), nil)
	y := mat.NewDense(len(rows), 1, nil)
	for r, i := range rows {
		X.SetRow(r, h.units[i])
		y.Set(r, 0, h.errors[i])
	}
	forest := ensemble.NewRandomForestRegressor(
		ensemble.WithNEstimators(cfg.Trees),
		ensemble.WithMinSamplesLeaf(cfg.MinSamplesLeaf),
		ensemble.WithMaxFeatures(cfg.MaxFeatures),
		ensemble.WithRandomState(random.DeriveSeed(o.seed, uint64(round))),
	)
	if err := forest.Fit(X, y); err != nil {
		return nil, errors.NewModelError("SequentialModelBasedOptimizer", "surrogate fit", err)
	}

	pool := o.candidatePool(h, rows, rng)
	mean, std, err := forest.PredictMeanStd(pool)
	if err != nil {
		return nil, errors.NewModelError("SequentialModelBasedOptimizer", "surrogate predict", err)
	}
	best := h.best()
	n, _ := pool.Dims()
	scores := make([]float64, n)
	for i := range scores {
		scores[i] = o.opts.acquisition.Score(mean[i], std[i], best)
	}
	order := make([]int, n)
	for i := range order {
		order[i] = i
	}
	slices.SortStableFunc(order, func(a, b int) int {
		switch {
		case scores[a] > scores[b]:
			return -1
		case scores[a] < scores[b]:
			return 1
		}
		return 0
	})

	chosen := map[string]bool{}
	var proposals [][]float64
	for _, i := range order {
		if len(proposals) == o.perIteration {
			break
		}
		raw := fromUnitVector(o.specs, pool.RawRowView(i))
		key := vectorKey(roundVector(o.specs, raw))
		if h.evaluated[key] || chosen[key] {
			continue
		}
		chosen[key] = true
		proposals = append(proposals, raw)
		logger.Debug("surrogate proposal",
			log.IterationKey, round,
			log.AcquisitionKey, o.opts.acquisition.Name(),
			log.ParametersKey, raw,
			log.ErrorValueKey, mean[i],
		)
	}
	if missing := o.perIteration - len(proposals); missing > 0 {
		proposals = append(proposals, o.randomProposals(h, rng, missing, chosen)...)
	}
	return proposals, nil
}

// candidatePool returns uniform candidates followed by perturbations of the
// best points, all in unit space.
func (o *SequentialModelBasedOptimizer) candidatePool(h *smboHistory, rows []int, rng random.Generator) *mat.Dense {
	cfg := o.opts.surrogate
	dims := len(o.specs)

	parents := slices.Clone(rows)
	slices.SortStableFunc(parents, func(a, b int) int {
		switch {
		case h.errors[a] < h.errors[b]:
			return -1
		case h.errors[a] > h.errors[b]:
			return 1
		}
		return 0
	})
	parents = parents[:min(cfg.LocalParents, len(parents))]

	n := cfg.RandomCandidates + len(parents)*cfg.LocalCandidates
	pool := mat.NewDense(n, dims, nil)
	row := 0
	for ; row < cfg.RandomCandidates; row++ {
		for d := 0; d < dims; d++ {
			pool.Set(row, d, rng.Float64())
		}
	}
	for _, p := range parents {
		for k := 0; k < cfg.LocalCandidates; k++ {
			for d := 0; d < dims; d++ {
				v := h.units[p][d] + rng.NormFloat64()*cfg.LocalScale
				pool.Set(row, d, errors.ClipValue(v, 0, 1))
			}
			row++
		}
	}
	return pool
}

// randomProposals draws fresh candidates, avoiding known points for a
// bounded number of attempts. A fully explored discrete space yields repeats.
func (o *SequentialModelBasedOptimizer) randomProposals(h *smboHistory, rng random.Generator, count int, chosen map[string]bool) [][]float64 {
	const attempts = 100
	out := make([][]float64, 0, count)
	for len(out) < count {
		var candidate []float64
		for a := 0; a < attempts; a++ {
			candidate = sampleVector(o.specs, rng)
			key := vectorKey(roundVector(o.specs, candidate))
			if !h.evaluated[key] && !chosen[key] {
				break
			}
		}
		if chosen != nil {
			chosen[vectorKey(roundVector(o.specs, candidate))] = true
		}
		out = append(out, candidate)
	}
	return out
}
