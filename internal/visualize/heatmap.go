package visualize

import (
	"fmt"
	"image/color"
	"math"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/palette/moreland"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"

	"github.com/KaramelBytes/autolysis/internal/analysis"
)

const (
	heatmapWidth  = 10 * vg.Inch
	heatmapHeight = 8 * vg.Inch
)

// corrGrid adapts a CorrMatrix to plotter.GridXYZ. Grid row 0 is the bottom
// of the plot, so matrix row 0 maps to the top grid row.
type corrGrid struct{ m *analysis.CorrMatrix }

func (g corrGrid) Dims() (c, r int)   { n := g.m.Len(); return n, n }
func (g corrGrid) Z(c, r int) float64 { return g.m.Values[g.m.Len()-1-r][c] }
func (g corrGrid) X(c int) float64    { return float64(c) }
func (g corrGrid) Y(r int) float64    { return float64(r) }

// heatmapPlot builds an annotated heatmap of m over the fixed range [-1, 1].
func heatmapPlot(m *analysis.CorrMatrix) (*plot.Plot, error) {
	if m.Empty() {
		return nil, fmt.Errorf("heatmap: empty correlation matrix")
	}
	cm := moreland.SmoothBlueRed()
	cm.SetMax(1)
	cm.SetMin(-1)

	grid := corrGrid{m: m}
	hm := plotter.NewHeatMap(grid, cm.Palette(255))
	hm.Min, hm.Max = -1, 1
	hm.NaN = color.Gray{Y: 0xcc}

	n := m.Len()
	xys := make(plotter.XYs, 0, n*n)
	labels := make([]string, 0, n*n)
	for r := 0; r < n; r++ {
		for c := 0; c < n; c++ {
			xys = append(xys, plotter.XY{X: float64(c), Y: float64(r)})
			labels = append(labels, annotation(grid.Z(c, r)))
		}
	}
	lbl, err := plotter.NewLabels(plotter.XYLabels{XYs: xys, Labels: labels})
	if err != nil {
		return nil, fmt.Errorf("heatmap labels: %w", err)
	}
	for i := range lbl.TextStyle {
		lbl.TextStyle[i].XAlign = draw.XCenter
		lbl.TextStyle[i].YAlign = draw.YCenter
		lbl.TextStyle[i].Color = color.Black
	}

	p := plot.New()
	p.Title.Text = "Correlation Heatmap"
	p.Add(hm, lbl)

	names := make([]string, n)
	copy(names, m.Columns)
	p.NominalX(names...)
	reversed := make([]string, n)
	for i, name := range m.Columns {
		reversed[n-1-i] = name
	}
	p.NominalY(reversed...)
	p.X.Tick.Label.Rotation = math.Pi / 4
	p.X.Tick.Label.XAlign = draw.XRight
	p.X.Tick.Label.YAlign = draw.YCenter
	return p, nil
}

func annotation(v float64) string {
	if math.IsNaN(v) {
		return "nan"
	}
	return fmt.Sprintf("%.2f", v)
}
