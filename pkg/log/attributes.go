// Standard attribute keys for model-selection logging.
//
// Keys follow a hierarchical naming convention ("data.samples",
// "cv.fold") so logs from splitters, cross-validators and optimizers can be
// filtered uniformly.

package log

// Model and operation context.
const (
	// ModelNameKey identifies the learner type, e.g. "DecisionTreeRegressor".
	ModelNameKey = "model.name"

	// OperationKey is the pipeline operation, see the Operation* constants.
	OperationKey = "ml.operation"

	// ComponentKey identifies the package emitting the record.
	ComponentKey = "ml.component"

	// PhaseKey indicates training or validation.
	PhaseKey = "ml.phase"
)

// Data shape.
const (
	SamplesKey  = "data.samples"
	FeaturesKey = "data.features"
	ClassesKey  = "data.classes"

	// TrainingSamplesKey and TestSamplesKey report split sizes.
	TrainingSamplesKey = "split.training_samples"
	TestSamplesKey     = "split.test_samples"
)

// Resampling.
const (
	// FoldKey is the zero-based fold index during cross-validation.
	FoldKey = "cv.fold"

	// FoldsKey is the configured fold count.
	FoldsKey = "cv.folds"

	// FractionKey is the training fraction of a learning-curve point.
	FractionKey = "curve.fraction"

	// RepetitionKey is the shuffle repetition of a learning-curve point.
	RepetitionKey = "curve.repetition"
)

// Optimization.
const (
	// RunIDKey identifies one optimizer run.
	RunIDKey = "optimizer.run_id"

	// OptimizerKey names the search strategy.
	OptimizerKey = "optimizer.name"

	// CandidateKey is the generation index of an evaluated candidate.
	CandidateKey = "optimizer.candidate"

	// IterationKey is the optimizer round.
	IterationKey = "optimizer.iteration"

	// ParametersKey holds a candidate parameter vector.
	ParametersKey = "optimizer.parameters"

	// ErrorValueKey holds a metric or objective error value.
	ErrorValueKey = "metrics.error"

	// BestErrorKey holds the best error found so far.
	BestErrorKey = "metrics.best_error"

	// AcquisitionKey names the acquisition function.
	AcquisitionKey = "optimizer.acquisition"
)

// Performance and configuration.
const (
	DurationMsKey = "perf.duration_ms"
	WorkersKey    = "perf.workers"
	RandomSeedKey = "config.random_seed"
)

// Error context.
const (
	// ErrAttrKey carries the error itself.
	ErrAttrKey = "error"

	// StacktraceKey carries the stack extracted from cockroachdb/errors details.
	StacktraceKey = "stacktrace"
)

// Standard operation and phase values.
const (
	OperationSplit         = "split"
	OperationCrossValidate = "cross_validate"
	OperationOptimize      = "optimize"
	OperationLearningCurve = "learning_curve"
	OperationFit           = "fit"
	OperationPredict       = "predict"

	PhaseTraining   = "training"
	PhaseValidation = "validation"
)
