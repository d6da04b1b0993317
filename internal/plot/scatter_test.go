package plot

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/KaramelBytes/rowmatch/internal/dataset"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/plot/plotter"
)

func homes() *dataset.Dataset {
	return dataset.Build("homes.csv",
		[]string{"sqft", "price", "city"},
		[][]string{
			{"1000", "201", "Austin"},
			{"1500", "301", "Austin"},
			{"", "999", "Dallas"},
			{"2000", "401", "Dallas"},
		}, dataset.LoadOptions{})
}

func TestPoints(t *testing.T) {
	ds := homes()
	pts, err := Points(ds, ds.Rows, "sqft", "price")
	require.NoError(t, err)
	assert.Equal(t, plotter.XYs{{X: 1000, Y: 201}, {X: 1500, Y: 301}, {X: 2000, Y: 401}}, pts)

	_, err = Points(ds, ds.Rows, "city", "price")
	assert.ErrorIs(t, err, ErrNotNumeric)

	_, err = Points(ds, ds.Rows, "sqft", "beds")
	assert.ErrorIs(t, err, ErrUnknownColumn)
}

func TestLinearFit(t *testing.T) {
	fit, err := LinearFit(plotter.XYs{{X: 1000, Y: 201}, {X: 1500, Y: 301}, {X: 2000, Y: 401}})
	require.NoError(t, err)
	assert.InDelta(t, 0.2, fit.Slope, 1e-9)
	assert.InDelta(t, 1.0, fit.Intercept, 1e-6)
	assert.InDelta(t, 1.0, fit.R2, 1e-9)
	assert.Equal(t, 3, fit.N)

	fit, err = LinearFit(plotter.XYs{{X: 1, Y: 1}, {X: 1, Y: 5}})
	require.NoError(t, err)
	assert.True(t, fit.Degenerate)

	_, err = LinearFit(plotter.XYs{{X: 1, Y: 1}})
	assert.ErrorIs(t, err, ErrTooFewPoints)
}

func TestScatterWritesImage(t *testing.T) {
	ds := homes()
	out := filepath.Join(t.TempDir(), "scatter.png")

	fit, err := Scatter(ds, ds.Rows, "sqft", "price", Options{Output: out, Width: 4, Height: 3})
	require.NoError(t, err)
	assert.InDelta(t, 0.2, fit.Slope, 1e-9)

	info, err := os.Stat(out)
	require.NoError(t, err)
	assert.Greater(t, info.Size(), int64(0))

	svg := filepath.Join(t.TempDir(), "flat.svg")
	flat := dataset.Build("flat.csv", []string{"x", "y"}, [][]string{{"1", "2"}, {"1", "3"}}, dataset.LoadOptions{})
	fit, err = Scatter(flat, flat.Rows, "x", "y", Options{Output: svg})
	require.NoError(t, err)
	assert.True(t, fit.Degenerate)
	_, err = os.Stat(svg)
	assert.NoError(t, err)
}

func TestScatterErrors(t *testing.T) {
	ds := homes()
	_, err := Scatter(ds, ds.Rows, "sqft", "price", Options{})
	assert.Error(t, err)

	_, err = Scatter(ds, ds.Rows[:1], "sqft", "price", Options{Output: filepath.Join(t.TempDir(), "one.png")})
	assert.ErrorIs(t, err, ErrTooFewPoints)
}
