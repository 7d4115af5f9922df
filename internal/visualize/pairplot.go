package visualize

import (
	"fmt"
	"image/color"
	"math"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"

	"github.com/KaramelBytes/autolysis/internal/dataset"
)

const (
	panelSize    = 2.5 * vg.Inch
	maxPairSide  = 30 * vg.Inch
	minPanelSize = 1.2 * vg.Inch
)

var pointColor = color.RGBA{R: 31, G: 119, B: 180, A: 255}

// pairSide returns the square figure side for n panels per row.
func pairSide(n int) vg.Length {
	size := panelSize
	if side := vg.Length(n) * size; side > maxPairSide {
		size = maxPairSide / vg.Length(n)
		if size < minPanelSize {
			size = minPanelSize
		}
	}
	return vg.Length(n) * size
}

// pairPlots builds the n×n panel grid: histograms on the diagonal, scatter
// plots of pairwise-complete rows elsewhere. Row i plots column i on Y.
func pairPlots(sub *dataset.NumericSubset) ([][]*plot.Plot, error) {
	n := sub.Len()
	if n == 0 {
		return nil, fmt.Errorf("pairplot: no numeric columns")
	}
	plots := make([][]*plot.Plot, n)
	for i := 0; i < n; i++ {
		plots[i] = make([]*plot.Plot, n)
		for j := 0; j < n; j++ {
			p := plot.New()
			if i == j {
				if err := addHistogram(p, sub.Present(i)); err != nil {
					return nil, fmt.Errorf("pairplot %s: %w", sub.Columns[i], err)
				}
			} else {
				xs, ys := sub.Pairs(j, i)
				if err := addScatter(p, xs, ys); err != nil {
					return nil, fmt.Errorf("pairplot %s vs %s: %w", sub.Columns[j], sub.Columns[i], err)
				}
			}
			if i == n-1 {
				p.X.Label.Text = sub.Columns[j]
			}
			if j == 0 {
				p.Y.Label.Text = sub.Columns[i]
			}
			plots[i][j] = p
		}
	}
	return plots, nil
}

func addHistogram(p *plot.Plot, vals []float64) error {
	if len(vals) == 0 {
		return nil
	}
	lo, hi := vals[0], vals[0]
	for _, v := range vals {
		lo, hi = math.Min(lo, v), math.Max(hi, v)
	}
	if lo == hi {
		// one bar for a constant column
		bar, err := plotter.NewBarChart(plotter.Values{float64(len(vals))}, vg.Points(20))
		if err != nil {
			return err
		}
		bar.Color = pointColor
		p.Add(bar)
		return nil
	}
	h, err := plotter.NewHist(plotter.Values(vals), sturges(len(vals)))
	if err != nil {
		return err
	}
	h.FillColor = pointColor
	p.Add(h)
	return nil
}

func addScatter(p *plot.Plot, xs, ys []float64) error {
	if len(xs) == 0 {
		return nil
	}
	pts := make(plotter.XYs, len(xs))
	for k := range xs {
		pts[k].X, pts[k].Y = xs[k], ys[k]
	}
	s, err := plotter.NewScatter(pts)
	if err != nil {
		return err
	}
	s.GlyphStyle.Color = pointColor
	s.GlyphStyle.Radius = vg.Points(1.5)
	s.GlyphStyle.Shape = draw.CircleGlyph{}
	p.Add(s)
	return nil
}

// sturges picks a bin count of ceil(log2(n))+1, capped at 50.
func sturges(n int) int {
	if n < 2 {
		return 1
	}
	b := int(math.Ceil(math.Log2(float64(n)))) + 1
	if b > 50 {
		b = 50
	}
	return b
}

// drawPairGrid lays the panels out on dc.
func drawPairGrid(plots [][]*plot.Plot, dc draw.Canvas) {
	n := len(plots)
	t := draw.Tiles{
		Rows:      n,
		Cols:      n,
		PadX:      vg.Millimeter,
		PadY:      vg.Millimeter,
		PadTop:    vg.Points(4),
		PadBottom: vg.Points(4),
		PadLeft:   vg.Points(4),
		PadRight:  vg.Points(4),
	}
	canvases := plot.Align(plots, t, dc)
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			plots[i][j].Draw(canvases[i][j])
		}
	}
}
