package model_selection

import (
	"github.com/samber/lo"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"

	"github.com/YuminosukeSato/modelselect/pkg/errors"
)

// PlotLearningCurves renders training and validation error against sample
// size. The image format follows the extension of path (.png, .svg, .pdf).
func PlotLearningCurves(points []LearningCurvePoint, title, path string) error {
	if len(points) == 0 {
		return errors.NewValueError("PlotLearningCurves", "no points to plot")
	}
	p := plot.New()
	p.Title.Text = title
	p.X.Label.Text = "training samples"
	p.Y.Label.Text = "error"

	training := make(plotter.XYs, len(points))
	validation := make(plotter.XYs, len(points))
	for i, pt := range points {
		training[i] = plotter.XY{X: float64(pt.SampleSize), Y: pt.TrainingError}
		validation[i] = plotter.XY{X: float64(pt.SampleSize), Y: pt.ValidationError}
	}
	if err := plotutil.AddLinePoints(p, "training", training, "validation", validation); err != nil {
		return errors.Wrap(err, "build learning curve plot")
	}
	p.Y.Min = lo.Min([]float64{0, p.Y.Min})

	if err := p.Save(6*vg.Inch, 4*vg.Inch, path); err != nil {
		return errors.Wrapf(err, "save learning curve plot to %s", path)
	}
	return nil
}
