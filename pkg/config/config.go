// Package config loads the settings of the modelselect command from
// defaults, an optional configuration file, MODELSELECT_* environment
// variables and command-line flags, in increasing order of precedence.
package config

import (
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/go-viper/mapstructure/v2"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/YuminosukeSato/modelselect/pkg/errors"
)

// EnvPrefix prefixes environment overrides, e.g. MODELSELECT_CROSS_VALIDATION_FOLDS.
const EnvPrefix = "MODELSELECT"

type Config struct {
	Split           SplitConfig           `mapstructure:"split"`
	CrossValidation CrossValidationConfig `mapstructure:"cross_validation"`
	Optimizer       OptimizerConfig       `mapstructure:"optimizer"`
	LearningCurve   LearningCurveConfig   `mapstructure:"learning_curve"`
	Log             LogConfig             `mapstructure:"log"`
}

type SplitConfig struct {
	TrainingPercentage float64 `mapstructure:"training_percentage" validate:"gt=0,lt=1"`
	Seed               uint64  `mapstructure:"seed"`
	Stratified         bool    `mapstructure:"stratified"`
}

type CrossValidationConfig struct {
	Folds      int    `mapstructure:"folds" validate:"gte=2"`
	Seed       uint64 `mapstructure:"seed"`
	Stratified bool   `mapstructure:"stratified"`
	// Parallelism 0 uses every CPU.
	Parallelism int `mapstructure:"parallelism" validate:"gte=0"`
}

type OptimizerConfig struct {
	Strategy               string        `mapstructure:"strategy" validate:"oneof=random smbo grid tpe"`
	Iterations             int           `mapstructure:"iterations" validate:"gte=1"`
	InitialParameterSets   int           `mapstructure:"initial_parameter_sets" validate:"gte=1"`
	CandidatesPerIteration int           `mapstructure:"candidates_per_iteration" validate:"gte=1"`
	PointsPerDimension     int           `mapstructure:"points_per_dimension" validate:"gte=2"`
	StartupTrials          int           `mapstructure:"startup_trials" validate:"gte=1"`
	Acquisition            string        `mapstructure:"acquisition" validate:"oneof=ei pi ucb"`
	Seed                   uint64        `mapstructure:"seed"`
	Parallelism            int           `mapstructure:"parallelism" validate:"gte=0"`
	Timeout                time.Duration `mapstructure:"timeout" validate:"gte=0"`
}

type LearningCurveConfig struct {
	SamplePercentages  []float64 `mapstructure:"sample_percentages" validate:"min=1,dive,gt=0,lte=1"`
	TrainingPercentage float64   `mapstructure:"training_percentage" validate:"gt=0,lt=1"`
	Shuffles           int       `mapstructure:"shuffles" validate:"gte=1"`
	Seed               uint64    `mapstructure:"seed"`
}

type LogConfig struct {
	Level  string `mapstructure:"level" validate:"oneof=debug info warn error"`
	Format string `mapstructure:"format" validate:"oneof=json console"`
}

var defaults = map[string]any{
	"split.training_percentage": 0.7,
	"split.seed":                24,
	"split.stratified":          false,

	"cross_validation.folds":       5,
	"cross_validation.seed":        42,
	"cross_validation.stratified":  false,
	"cross_validation.parallelism": 1,

	"optimizer.strategy":                 "random",
	"optimizer.iterations":               30,
	"optimizer.initial_parameter_sets":   5,
	"optimizer.candidates_per_iteration": 1,
	"optimizer.points_per_dimension":     5,
	"optimizer.startup_trials":           10,
	"optimizer.acquisition":              "ei",
	"optimizer.seed":                     42,
	"optimizer.parallelism":              1,
	"optimizer.timeout":                  "0s",

	"learning_curve.sample_percentages":  []float64{0.05, 0.1, 0.2, 0.4, 0.8, 1.0},
	"learning_curve.training_percentage": 0.7,
	"learning_curve.shuffles":            5,
	"learning_curve.seed":                42,

	"log.level":  "info",
	"log.format": "console",
}

// Loader accumulates configuration sources.
type Loader struct {
	v *viper.Viper
}

// NewLoader returns a loader holding the defaults and reading the environment.
func NewLoader() *Loader {
	v := viper.New()
	for key, value := range defaults {
		v.SetDefault(key, value)
	}
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return &Loader{v: v}
}

// BindFlag lets a command-line flag override key when the flag is set.
func (l *Loader) BindFlag(key string, flag *pflag.Flag) error {
	if flag == nil {
		return errors.Newf("config: no flag for %q", key)
	}
	return l.v.BindPFlag(key, flag)
}

// Load reads path, if not empty, and returns the validated configuration.
// The file format follows the extension (yaml, toml, json).
func (l *Loader) Load(path string) (*Config, error) {
	if path != "" {
		l.v.SetConfigFile(path)
		if err := l.v.ReadInConfig(); err != nil {
			return nil, errors.Wrapf(err, "read config %s", path)
		}
	}
	var cfg Config
	hook := viper.DecodeHook(mapstructure.ComposeDecodeHookFunc(
		mapstructure.StringToTimeDurationHookFunc(),
		mapstructure.StringToSliceHookFunc(","),
	))
	if err := l.v.Unmarshal(&cfg, hook); err != nil {
		return nil, errors.Wrap(err, "decode config")
	}
	if err := Validate(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Default returns the built-in configuration.
func Default() *Config {
	cfg, err := NewLoader().Load("")
	if err != nil {
		panic(err)
	}
	return cfg
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("mapstructure"), ",")
		if name == "" || name == "-" {
			return f.Name
		}
		return name
	})
	return v
}

// Validate reports the first invalid field as a ValidationError named by
// its dotted key, e.g. "cross_validation.folds".
func Validate(cfg *Config) error {
	err := validate.Struct(cfg)
	if err == nil {
		return nil
	}
	var fieldErrors validator.ValidationErrors
	if !errors.As(err, &fieldErrors) || len(fieldErrors) == 0 {
		return errors.Wrap(err, "validate config")
	}
	fe := fieldErrors[0]
	_, key, _ := strings.Cut(fe.Namespace(), ".")
	reason := fe.Tag()
	if fe.Param() != "" {
		reason += "=" + fe.Param()
	}
	return errors.NewValidationError(key, "must satisfy "+reason, fe.Value())
}
