// Package charts renders the dashboard's feature-importance bar chart
// and carries the small amount of chart-variable logic the dashboard
// needs from the core.
package charts

import (
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"github.com/somnuslabs/somnus/metrics"
	somnusErrors "github.com/somnuslabs/somnus/pkg/errors"
)

// SaveImportanceChart renders a ranked feature-importance sequence as a
// vertical bar chart and writes it to path (format chosen by the file
// extension, e.g. .png or .svg). Pass an Ascending ranking to mirror the
// dashboard's display convention.
func SaveImportanceChart(ranked []metrics.FeatureImportance, title, path string) error {
	if len(ranked) == 0 {
		return somnusErrors.NewModelError("SaveImportanceChart", "empty ranking", somnusErrors.ErrEmptyData)
	}

	p := plot.New()
	p.Title.Text = title
	p.X.Label.Text = "Features"
	p.Y.Label.Text = "Feature importance"

	values := make(plotter.Values, len(ranked))
	names := make([]string, len(ranked))
	for i, fi := range ranked {
		values[i] = fi.Importance
		names[i] = fi.Feature
	}

	bars, err := plotter.NewBarChart(values, vg.Points(20))
	if err != nil {
		return somnusErrors.Wrap(err, "SaveImportanceChart")
	}
	p.Add(bars)
	p.NominalX(names...)
	p.X.Tick.Label.Rotation = -0.9
	p.X.Tick.Label.XAlign = -0.9

	if err := p.Save(10*vg.Inch, 6*vg.Inch, path); err != nil {
		return somnusErrors.Wrap(err, "SaveImportanceChart")
	}
	return nil
}
