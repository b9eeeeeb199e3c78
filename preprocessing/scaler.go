package preprocessing

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"

	"github.com/YuminosukeSato/modelselect/core/model"
	"github.com/YuminosukeSato/modelselect/pkg/errors"
)

// Transformer は特徴量を変換する前処理器。Transform は常に新しい行列を返し、入力を変更しない
type Transformer interface {
	Fit(X mat.Matrix) error
	Transform(X mat.Matrix) (mat.Matrix, error)
}

// StandardScaler はscikit-learn互換の標準化スケーラー
// データを平均0、標準偏差1に変換する
type StandardScaler struct {
	model.BaseEstimator

	// Mean は各特徴量の平均値
	Mean []float64

	// Scale は各特徴量の標準偏差。分散が0の特徴量は1
	Scale []float64

	NFeatures int

	WithMean bool
	WithStd  bool
}

// NewStandardScaler は新しいStandardScalerを作成する
//
//	scaler := preprocessing.NewStandardScaler(true, true)
//	XScaled, err := scaler.FitTransform(X)
func NewStandardScaler(withMean, withStd bool) *StandardScaler {
	return &StandardScaler{WithMean: withMean, WithStd: withStd}
}

// NewStandardScalerDefault はデフォルト設定でStandardScalerを作成する
func NewStandardScalerDefault() *StandardScaler {
	return NewStandardScaler(true, true)
}

// Fit は訓練データから列ごとの平均と母標準偏差を計算する
func (s *StandardScaler) Fit(X mat.Matrix) error {
	_, c, err := checkFit("StandardScaler.Fit", X)
	if err != nil {
		return err
	}
	s.NFeatures = c
	s.Mean = make([]float64, c)
	s.Scale = make([]float64, c)
	for j := 0; j < c; j++ {
		mean, std := stat.PopMeanStdDev(mat.Col(nil, j, X), nil)
		if s.WithMean {
			s.Mean[j] = mean
		}
		s.Scale[j] = 1
		if s.WithStd && std >= 1e-8 {
			s.Scale[j] = std
		}
	}
	s.SetFitted()
	return nil
}

// Transform は (x - mean) / scale を返す
func (s *StandardScaler) Transform(X mat.Matrix) (mat.Matrix, error) {
	if err := s.check("Transform", X); err != nil {
		return nil, err
	}
	return apply(X, func(j int, v float64) float64 { return (v - s.Mean[j]) / s.Scale[j] }), nil
}

// FitTransform は訓練データで学習し、同じデータを変換する
func (s *StandardScaler) FitTransform(X mat.Matrix) (mat.Matrix, error) {
	if err := s.Fit(X); err != nil {
		return nil, err
	}
	return s.Transform(X)
}

// InverseTransform は標準化されたデータを元のスケールに戻す
func (s *StandardScaler) InverseTransform(X mat.Matrix) (mat.Matrix, error) {
	if err := s.check("InverseTransform", X); err != nil {
		return nil, err
	}
	return apply(X, func(j int, v float64) float64 { return v*s.Scale[j] + s.Mean[j] }), nil
}

func (s *StandardScaler) check(method string, X mat.Matrix) error {
	if err := s.CheckFitted("StandardScaler", method); err != nil {
		return err
	}
	if _, c := X.Dims(); c != s.NFeatures {
		return errors.NewDimensionError("StandardScaler."+method, s.NFeatures, c, 1)
	}
	return nil
}

// GetParams はスケーラーのパラメータを取得する
func (s *StandardScaler) GetParams() map[string]interface{} {
	return map[string]interface{}{
		"with_mean": s.WithMean,
		"with_std":  s.WithStd,
	}
}

func (s *StandardScaler) String() string {
	return fmt.Sprintf("StandardScaler(with_mean=%t, with_std=%t)", s.WithMean, s.WithStd)
}

// MinMaxScaler は各特徴量を FeatureRange の区間へ線形に写す
type MinMaxScaler struct {
	model.BaseEstimator

	DataMin []float64
	DataMax []float64

	// Scale は列ごとの値域。値域が0の特徴量は1
	Scale []float64

	NFeatures    int
	FeatureRange [2]float64
}

// NewMinMaxScaler は指定された区間に写す MinMaxScaler を作成する
func NewMinMaxScaler(featureRange [2]float64) *MinMaxScaler {
	return &MinMaxScaler{FeatureRange: featureRange}
}

// NewMinMaxScalerDefault は [0, 1] に写す MinMaxScaler を作成する
func NewMinMaxScalerDefault() *MinMaxScaler {
	return NewMinMaxScaler([2]float64{0, 1})
}

// Fit は列ごとの最小値と最大値を記録する
func (m *MinMaxScaler) Fit(X mat.Matrix) error {
	if m.FeatureRange[0] >= m.FeatureRange[1] {
		return errors.NewValidationError("feature_range", "minimum must be smaller than maximum", m.FeatureRange)
	}
	_, c, err := checkFit("MinMaxScaler.Fit", X)
	if err != nil {
		return err
	}
	m.NFeatures = c
	m.DataMin = make([]float64, c)
	m.DataMax = make([]float64, c)
	m.Scale = make([]float64, c)
	for j := 0; j < c; j++ {
		col := mat.Col(nil, j, X)
		m.DataMin[j], m.DataMax[j] = floats.Min(col), floats.Max(col)
		m.Scale[j] = m.DataMax[j] - m.DataMin[j]
		if math.Abs(m.Scale[j]) < 1e-8 {
			m.Scale[j] = 1
		}
	}
	m.SetFitted()
	return nil
}

// Transform は学習時の値域を FeatureRange に写す。学習範囲外の値は区間外になる
func (m *MinMaxScaler) Transform(X mat.Matrix) (mat.Matrix, error) {
	if err := m.check("Transform", X); err != nil {
		return nil, err
	}
	width := m.FeatureRange[1] - m.FeatureRange[0]
	return apply(X, func(j int, v float64) float64 {
		return (v-m.DataMin[j])/m.Scale[j]*width + m.FeatureRange[0]
	}), nil
}

// FitTransform は訓練データで学習し、同じデータを変換する
func (m *MinMaxScaler) FitTransform(X mat.Matrix) (mat.Matrix, error) {
	if err := m.Fit(X); err != nil {
		return nil, err
	}
	return m.Transform(X)
}

// InverseTransform は変換されたデータを元のスケールに戻す
func (m *MinMaxScaler) InverseTransform(X mat.Matrix) (mat.Matrix, error) {
	if err := m.check("InverseTransform", X); err != nil {
		return nil, err
	}
	width := m.FeatureRange[1] - m.FeatureRange[0]
	return apply(X, func(j int, v float64) float64 {
		return (v-m.FeatureRange[0])/width*m.Scale[j] + m.DataMin[j]
	}), nil
}

func (m *MinMaxScaler) check(method string, X mat.Matrix) error {
	if err := m.CheckFitted("MinMaxScaler", method); err != nil {
		return err
	}
	if _, c := X.Dims(); c != m.NFeatures {
		return errors.NewDimensionError("MinMaxScaler."+method, m.NFeatures, c, 1)
	}
	return nil
}

// GetParams はスケーラーのパラメータを取得する
func (m *MinMaxScaler) GetParams() map[string]interface{} {
	return map[string]interface{}{
		"feature_range": m.FeatureRange,
	}
}

func checkFit(op string, X mat.Matrix) (int, int, error) {
	if X == nil {
		return 0, 0, errors.NewModelError(op, "empty data", errors.ErrEmptyData)
	}
	r, c := X.Dims()
	if r == 0 || c == 0 {
		return 0, 0, errors.NewModelError(op, "empty data", errors.ErrEmptyData)
	}
	return r, c, nil
}

// apply は要素ごとに fn を適用した新しい行列を返す
func apply(X mat.Matrix, fn func(j int, v float64) float64) *mat.Dense {
	var out mat.Dense
	out.Apply(func(_, j int, v float64) float64 { return fn(j, v) }, X)
	return &out
}
