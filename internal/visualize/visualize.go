// Package visualize renders the correlation heatmap and pairwise scatter
// matrix for a dataset's numeric columns.
package visualize

import (
	"errors"
	"path/filepath"

	"go.uber.org/zap"
	"gonum.org/v1/plot/vg/draw"

	"github.com/KaramelBytes/autolysis/internal/analysis"
	"github.com/KaramelBytes/autolysis/internal/dataset"
	"github.com/KaramelBytes/autolysis/internal/utils"
)

const (
	HeatmapFile  = "correlation_heatmap.png"
	PairplotFile = "pairplot.png"
)

// Artifacts lists the image paths written for one dataset. Empty means not written.
type Artifacts struct {
	Heatmap  string
	Pairplot string
}

// Count returns how many images were written.
func (a Artifacts) Count() int {
	n := 0
	if a.Heatmap != "" {
		n++
	}
	if a.Pairplot != "" {
		n++
	}
	return n
}

// Visualizer writes images into a per-dataset directory.
type Visualizer struct {
	log *zap.Logger
}

// NewVisualizer returns a Visualizer. A nil logger discards output.
func NewVisualizer(log *zap.Logger) *Visualizer {
	if log == nil {
		log = zap.NewNop()
	}
	return &Visualizer{log: log}
}

// Visualize renders both images when ds has numeric columns and nothing
// otherwise. The two images are attempted independently; failures are
// joined into the returned error alongside whatever was written.
func (v *Visualizer) Visualize(ds *dataset.Dataset, dir string) (Artifacts, error) {
	var out Artifacts
	sub := ds.NumericSubset()
	if sub.Empty() {
		v.log.Info("no numeric columns, skipping visualizations")
		return out, nil
	}
	if err := utils.EnsureDir(dir); err != nil {
		return out, err
	}

	var errs []error
	heatmapPath := filepath.Join(dir, HeatmapFile)
	if err := renderHeatmap(analysis.Correlate(sub), heatmapPath); err != nil {
		v.log.Error("error creating correlation heatmap", zap.Error(err))
		errs = append(errs, err)
	} else {
		out.Heatmap = heatmapPath
		v.log.Info("correlation heatmap saved", zap.String("path", heatmapPath))
	}

	pairPath := filepath.Join(dir, PairplotFile)
	if err := renderPairplot(sub, pairPath); err != nil {
		v.log.Error("error creating pairplot", zap.Error(err))
		errs = append(errs, err)
	} else {
		out.Pairplot = pairPath
		v.log.Info("pairplot saved", zap.String("path", pairPath))
	}
	return out, errors.Join(errs...)
}

func renderHeatmap(m *analysis.CorrMatrix, path string) error {
	return render(heatmapWidth, heatmapHeight, path, func(dc draw.Canvas) error {
		p, err := heatmapPlot(m)
		if err != nil {
			return err
		}
		p.Draw(dc)
		return nil
	})
}

func renderPairplot(sub *dataset.NumericSubset, path string) error {
	side := pairSide(sub.Len())
	return render(side, side, path, func(dc draw.Canvas) error {
		plots, err := pairPlots(sub)
		if err != nil {
			return err
		}
		drawPairGrid(plots, dc)
		return nil
	})
}
