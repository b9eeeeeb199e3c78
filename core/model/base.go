package model

import "github.com/YuminosukeSato/modelselect/pkg/errors"

// EstimatorState はモデルの学習状態を表す
type EstimatorState int

const (
	// NotFitted はモデルが未学習の状態
	NotFitted EstimatorState = iota
	// Fitted はモデルが学習済みの状態
	Fitted
)

// BaseEstimator は学習状態を持つ推定器に埋め込む構造体。
// 交差検証では各フォールドで新しい推定器を生成するため、状態のリセットは持たない。
type BaseEstimator struct {
	state EstimatorState
}

// IsFitted はモデルが学習済みかどうかを返す
func (e *BaseEstimator) IsFitted() bool {
	return e.state == Fitted
}

// SetFitted はモデルを学習済み状態に設定する
func (e *BaseEstimator) SetFitted() {
	e.state = Fitted
}

// CheckFitted は未学習の場合に NotFittedError を返す
func (e *BaseEstimator) CheckFitted(modelName, method string) error {
	if !e.IsFitted() {
		return errors.NewNotFittedError(modelName, method)
	}
	return nil
}
