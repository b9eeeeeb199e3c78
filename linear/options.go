package linear

// Option は LinearRegression を設定する関数
type Option func(*LinearRegression)

// WithAlpha は L2 正則化の強さを設定する。0 のときは通常の最小二乗法になる
func WithAlpha(alpha float64) Option {
	return func(lr *LinearRegression) {
		lr.alpha = alpha
	}
}

// WithFitIntercept は切片を推定するかどうかを設定する
func WithFitIntercept(fit bool) Option {
	return func(lr *LinearRegression) {
		lr.fitIntercept = fit
	}
}
