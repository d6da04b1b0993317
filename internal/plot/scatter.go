// Package plot renders a two-column scatter plot of dataset rows with a
// least-squares trend line.
package plot

import (
	"errors"
	"fmt"
	"image/color"
	"math"

	"github.com/KaramelBytes/rowmatch/internal/dataset"
	"gonum.org/v1/gonum/stat"
	gplot "gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
)

var (
	ErrUnknownColumn = errors.New("column not in dataset")
	ErrNotNumeric    = errors.New("column is not numeric")
	ErrTooFewPoints  = errors.New("need at least two points with both values present")
)

// Options controls rendering.
type Options struct {
	// Output path; the extension picks the format (png, svg, pdf, jpg, eps, tif).
	Output string
	// Size in inches. Zero uses 10x6.
	Width  float64
	Height float64
}

// Fit is the least-squares line y = Slope*x + Intercept through the plotted
// points. Degenerate is set when every x is equal and no line exists.
type Fit struct {
	Slope      float64
	Intercept  float64
	R2         float64
	N          int
	Degenerate bool
}

// Points collects (x, y) pairs from rows, skipping rows missing either value.
func Points(ds *dataset.Dataset, rows []dataset.Row, x, y string) (plotter.XYs, error) {
	xi, err := numericColumn(ds, x)
	if err != nil {
		return nil, err
	}
	yi, err := numericColumn(ds, y)
	if err != nil {
		return nil, err
	}
	pts := make(plotter.XYs, 0, len(rows))
	for _, r := range rows {
		xv, yv := r.Values[xi], r.Values[yi]
		if xv.Missing || yv.Missing {
			continue
		}
		pts = append(pts, plotter.XY{X: xv.Num, Y: yv.Num})
	}
	return pts, nil
}

func numericColumn(ds *dataset.Dataset, name string) (int, error) {
	i, ok := ds.ColumnIndex(name)
	if !ok {
		return -1, fmt.Errorf("%w: %q", ErrUnknownColumn, name)
	}
	if ds.Columns[i].Kind != dataset.Numeric {
		return -1, fmt.Errorf("%w: %q", ErrNotNumeric, name)
	}
	return i, nil
}

// LinearFit fits y = a + b*x by ordinary least squares.
func LinearFit(pts plotter.XYs) (Fit, error) {
	if len(pts) < 2 {
		return Fit{N: len(pts)}, ErrTooFewPoints
	}
	xs := make([]float64, len(pts))
	ys := make([]float64, len(pts))
	flat := true
	for i, p := range pts {
		xs[i], ys[i] = p.X, p.Y
		if p.X != pts[0].X {
			flat = false
		}
	}
	if flat {
		return Fit{N: len(pts), Degenerate: true}, nil
	}
	alpha, beta := stat.LinearRegression(xs, ys, nil, false)
	r2 := stat.RSquared(xs, ys, nil, alpha, beta)
	if math.IsNaN(r2) {
		r2 = 0
	}
	return Fit{Slope: beta, Intercept: alpha, R2: r2, N: len(pts)}, nil
}

// Scatter draws rows' x and y values with the fitted line and saves the
// figure to opt.Output.
func Scatter(ds *dataset.Dataset, rows []dataset.Row, x, y string, opt Options) (*Fit, error) {
	if opt.Output == "" {
		return nil, errors.New("plot output path is required")
	}
	pts, err := Points(ds, rows, x, y)
	if err != nil {
		return nil, err
	}
	fit, err := LinearFit(pts)
	if err != nil {
		return nil, err
	}

	p := gplot.New()
	p.Title.Text = fmt.Sprintf("Scatter Plot of %s vs %s", y, x)
	p.X.Label.Text = x
	p.Y.Label.Text = y

	grid := plotter.NewGrid()
	grid.Vertical.Dashes = []vg.Length{vg.Points(4), vg.Points(4)}
	grid.Horizontal.Dashes = []vg.Length{vg.Points(4), vg.Points(4)}
	grid.Vertical.Color = color.Gray{Y: 200}
	grid.Horizontal.Color = color.Gray{Y: 200}
	p.Add(grid)

	sc, err := plotter.NewScatter(pts)
	if err != nil {
		return nil, fmt.Errorf("scatter: %w", err)
	}
	sc.GlyphStyle.Shape = draw.CircleGlyph{}
	sc.GlyphStyle.Color = color.RGBA{R: 220, A: 255}
	sc.GlyphStyle.Radius = vg.Points(3)
	p.Add(sc)
	p.Legend.Add("Data Points", sc)

	if !fit.Degenerate {
		xmin, xmax, _, _ := plotter.XYRange(pts)
		line := plotter.NewFunction(func(v float64) float64 { return fit.Slope*v + fit.Intercept })
		line.XMin, line.XMax = xmin, xmax
		line.Color = color.RGBA{B: 220, A: 255}
		line.Dashes = []vg.Length{vg.Points(6), vg.Points(4)}
		line.Width = vg.Points(1.5)
		p.Add(line)
		p.Legend.Add("Regression Line", line)
	}
	p.Legend.Top = true

	w, h := opt.Width, opt.Height
	if w <= 0 {
		w = 10
	}
	if h <= 0 {
		h = 6
	}
	if err := p.Save(vg.Length(w)*vg.Inch, vg.Length(h)*vg.Inch, opt.Output); err != nil {
		return nil, fmt.Errorf("save plot: %w", err)
	}
	return &fit, nil
}
