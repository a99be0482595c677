// Package report renders HTML and PNG summaries of a finished overlay run.
// It consumes the pipeline's result and the injected layer-description map;
// it never reaches back into the engine.
package report

import (
	"fmt"
	"io"
	"time"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"

	"github.com/banshee-data/suitability.report/internal/overlay"
)

// WriteHTML renders the run report: a bar chart of the score distribution
// and a chart of the weight table. Layer descriptions come from the injected
// map; layers without one fall back to the request label.
func WriteHTML(w io.Writer, res *overlay.Result, req overlay.Request, descriptions map[string]string) error {
	bins := ScoreHistogram(res.Grid)

	x := make([]string, len(bins))
	y := make([]opts.BarData, len(bins))
	for i, b := range bins {
		x[i] = fmt.Sprintf("%g", b.Score)
		y[i] = opts.BarData{Value: b.Count}
	}

	hist := charts.NewBar()
	hist.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{
			Title:    "Suitability score distribution",
			Subtitle: fmt.Sprintf("run %s, %s", res.RunID, time.Now().Format(time.RFC3339)),
		}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
	)
	hist.SetXAxis(x).
		AddSeries("cells", y,
			charts.WithLabelOpts(opts.Label{Show: opts.Bool(true), Position: "top"}),
		)

	wx := make([]string, len(req.Weights))
	wy := make([]opts.BarData, len(req.Weights))
	for i, entry := range req.Weights {
		label := entry.Label
		if d, ok := descriptions[entry.Layer]; ok {
			label = d
		}
		wx[i] = label
		wy[i] = opts.BarData{Value: entry.Weight}
	}

	weights := charts.NewBar()
	weights.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{Title: "Layer weights"}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
	)
	weights.SetXAxis(wx).AddSeries("weight", wy)

	page := components.NewPage()
	page.AddCharts(hist, weights)
	return page.Render(w)
}
