package tree

import (
	"github.com/go-viper/mapstructure/v2"

	"github.com/YuminosukeSato/modelselect/pkg/errors"
)

// params holds the hyperparameters shared by classification and regression
// trees.
type params struct {
	Criterion           string  `mapstructure:"criterion"`
	MaxDepth            int     `mapstructure:"max_depth"`
	MinSamplesSplit     int     `mapstructure:"min_samples_split"`
	MinSamplesLeaf      int     `mapstructure:"min_samples_leaf"`
	MaxFeatures         int     `mapstructure:"max_features"`
	MinImpurityDecrease float64 `mapstructure:"min_impurity_decrease"`
	RandomState         uint64  `mapstructure:"random_state"`
}

// Option configures a DecisionTreeClassifier or DecisionTreeRegressor.
type Option func(*params)

// WithCriterion sets the split criterion: "gini" or "entropy" for
// classification, "squared_error" for regression.
func WithCriterion(criterion string) Option {
	return func(p *params) { p.Criterion = criterion }
}

// WithMaxDepth limits the depth of the tree. 0 means unlimited.
func WithMaxDepth(depth int) Option {
	return func(p *params) { p.MaxDepth = depth }
}

// WithMinSamplesSplit sets the minimum number of samples needed to split a node.
func WithMinSamplesSplit(n int) Option {
	return func(p *params) { p.MinSamplesSplit = n }
}

// WithMinSamplesLeaf sets the minimum number of samples in each leaf.
func WithMinSamplesLeaf(n int) Option {
	return func(p *params) { p.MinSamplesLeaf = n }
}

// WithMaxFeatures sets how many randomly chosen features are tried per
// split. 0 means all features.
func WithMaxFeatures(n int) Option {
	return func(p *params) { p.MaxFeatures = n }
}

// WithMinImpurityDecrease sets the minimum gain a split must achieve.
func WithMinImpurityDecrease(v float64) Option {
	return func(p *params) { p.MinImpurityDecrease = v }
}

// WithRandomState seeds feature subsampling.
func WithRandomState(seed uint64) Option {
	return func(p *params) { p.RandomState = seed }
}

func newParams(criterion string, opts []Option) params {
	p := params{
		Criterion:       criterion,
		MinSamplesSplit: 2,
		MinSamplesLeaf:  1,
	}
	for _, opt := range opts {
		opt(&p)
	}
	return p
}

func (p *params) validate(criteria ...string) error {
	valid := false
	for _, c := range criteria {
		if p.Criterion == c {
			valid = true
		}
	}
	switch {
	case !valid:
		return errors.NewValidationError("criterion", "unsupported criterion", p.Criterion)
	case p.MaxDepth < 0:
		return errors.NewValidationError("max_depth", "must be non-negative", p.MaxDepth)
	case p.MinSamplesSplit < 2:
		return errors.NewValidationError("min_samples_split", "must be at least 2", p.MinSamplesSplit)
	case p.MinSamplesLeaf < 1:
		return errors.NewValidationError("min_samples_leaf", "must be at least 1", p.MinSamplesLeaf)
	case p.MaxFeatures < 0:
		return errors.NewValidationError("max_features", "must be non-negative", p.MaxFeatures)
	case p.MinImpurityDecrease < 0:
		return errors.NewValidationError("min_impurity_decrease", "must be non-negative", p.MinImpurityDecrease)
	}
	return nil
}

func (p *params) asMap() map[string]interface{} {
	return map[string]interface{}{
		"criterion":             p.Criterion,
		"max_depth":             p.MaxDepth,
		"min_samples_split":     p.MinSamplesSplit,
		"min_samples_leaf":      p.MinSamplesLeaf,
		"max_features":          p.MaxFeatures,
		"min_impurity_decrease": p.MinImpurityDecrease,
		"random_state":          p.RandomState,
	}
}

// set decodes a GetParams-style map onto p. Unknown keys are rejected and
// p is left unchanged on error.
func (p *params) set(values map[string]interface{}) error {
	next := *p
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		ErrorUnused:      true,
		WeaklyTypedInput: true,
		Result:           &next,
	})
	if err != nil {
		return errors.Wrap(err, "modelselect: build parameter decoder")
	}
	if err := dec.Decode(values); err != nil {
		return errors.NewValidationError("params", err.Error(), values)
	}
	*p = next
	return nil
}
