// Package sim renders tracking results: trajectory overlays and per axis
// error plots. It is a visualization collaborator only; all figures are
// available as data from the track package.
package sim

import (
	"fmt"
	"image/color"
	"math"

	"github.com/courtvision/balltrack/track"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
)

// NewTrackPlot creates a trajectory overlay plot from the three data sources:
// truth:    ground truth positions
// meas:     noisy measurements
// filtered: filter position estimates
// It returns error if the trajectories are empty or differ in length.
func NewTrackPlot(truth, meas, filtered track.Trajectory) (*plot.Plot, error) {
	if len(truth) == 0 || len(meas) != len(truth) || len(filtered) != len(truth) {
		return nil, fmt.Errorf("invalid data supplied")
	}

	p := plot.New()

	p.Title.Text = "Ball trajectory"
	p.X.Label.Text = "X"
	p.Y.Label.Text = "Y"

	legend := plot.NewLegend()
	legend.Top = true
	p.Legend = legend

	// Make a scatter plotter for ground truth data
	truthScatter, err := plotter.NewScatter(makePoints(truth))
	if err != nil {
		return nil, err
	}
	truthScatter.GlyphStyle.Color = color.RGBA{R: 255, B: 128, A: 255}
	truthScatter.Shape = draw.PyramidGlyph{}
	truthScatter.GlyphStyle.Radius = vg.Points(3)

	p.Add(truthScatter)
	p.Legend.Add("truth", truthScatter)

	// Make a scatter plotter for measurement data
	measScatter, err := plotter.NewScatter(makePoints(meas))
	if err != nil {
		return nil, err
	}
	measScatter.GlyphStyle.Color = color.RGBA{G: 255, A: 128}
	measScatter.GlyphStyle.Radius = vg.Points(3)

	p.Add(measScatter)
	p.Legend.Add("measurement", measScatter)

	// Make a scatter plotter for filter data
	filterScatter, err := plotter.NewScatter(makePoints(filtered))
	if err != nil {
		return nil, fmt.Errorf("failed to create scatter: %v", err)
	}
	filterScatter.GlyphStyle.Color = color.RGBA{R: 169, G: 169, B: 169}
	filterScatter.Shape = draw.CrossGlyph{}
	filterScatter.GlyphStyle.Radius = vg.Points(3)

	p.Add(filterScatter)
	p.Legend.Add("filtered", filterScatter)

	return p, nil
}

// NewErrorPlot creates a per axis absolute error plot of the filtered
// trajectory against ground truth, one line per axis over step index.
// It returns error if the trajectories are empty or differ in length.
func NewErrorPlot(truth, filtered track.Trajectory) (*plot.Plot, error) {
	if len(truth) == 0 || len(filtered) != len(truth) {
		return nil, fmt.Errorf("invalid data supplied")
	}

	p := plot.New()

	p.Title.Text = "Absolute error"
	p.X.Label.Text = "step"
	p.Y.Label.Text = "error"

	legend := plot.NewLegend()
	legend.Top = true
	p.Legend = legend

	xErr := make(plotter.XYs, len(truth))
	yErr := make(plotter.XYs, len(truth))
	for i := range truth {
		xErr[i].X = float64(i)
		xErr[i].Y = math.Abs(filtered[i].X - truth[i].X)
		yErr[i].X = float64(i)
		yErr[i].Y = math.Abs(filtered[i].Y - truth[i].Y)
	}

	xLine, err := plotter.NewLine(xErr)
	if err != nil {
		return nil, err
	}
	xLine.Color = color.RGBA{R: 255, A: 255}

	p.Add(xLine)
	p.Legend.Add("x error", xLine)

	yLine, err := plotter.NewLine(yErr)
	if err != nil {
		return nil, err
	}
	yLine.Color = color.RGBA{B: 255, A: 255}

	p.Add(yLine)
	p.Legend.Add("y error", yLine)

	return p, nil
}

func makePoints(t track.Trajectory) plotter.XYs {
	pts := make(plotter.XYs, len(t))
	for i, p := range t {
		pts[i].X = p.X
		pts[i].Y = p.Y
	}

	return pts
}
