// Package util holds presentation helpers for the driver and the experiment
// runner.
package util

import (
	"fmt"
	"io"
	"sort"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"
	"github.com/go-echarts/go-echarts/v2/types"

	"github.com/moobench/anymop/pkg/framework"
)

// FrontSeries is one named set of objective vectors to draw.
type FrontSeries struct {
	Name   string
	Points []framework.ObjectiveSpacePoint
}

var symbols = []string{"circle", "triangle", "diamond", "rect"}

// PlotFronts renders a scatter chart of two-objective fronts to w as a
// standalone HTML page, one series per front. Points are sorted by the first
// objective so overlapping fronts stay readable.
func PlotFronts(w io.Writer, title string, series []FrontSeries) error {
	if len(series) == 0 {
		return fmt.Errorf("nothing to plot for %q", title)
	}
	for _, s := range series {
		for _, p := range s.Points {
			if len(p) != 2 {
				return fmt.Errorf("can only plot 2-objective fronts, series %q has a point with %d", s.Name, len(p))
			}
		}
	}

	scatter := charts.NewScatter()
	scatter.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{
			Title: title,
		}),
		charts.WithLegendOpts(opts.Legend{Show: opts.Bool(true)}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
		charts.WithInitializationOpts(opts.Initialization{
			Theme: types.ThemeWesteros,
		}),
		charts.WithXAxisOpts(opts.XAxis{
			Name: "f1(x)",
			SplitLine: &opts.SplitLine{
				Show: opts.Bool(true),
			},
		}),
		charts.WithYAxisOpts(opts.YAxis{
			Name: "f2(x)",
			SplitLine: &opts.SplitLine{
				Show: opts.Bool(true),
			},
		}))

	for i, s := range series {
		pts := make([]framework.ObjectiveSpacePoint, len(s.Points))
		copy(pts, s.Points)
		sort.Slice(pts, func(a, b int) bool { return pts[a][0] < pts[b][0] })

		data := make([]opts.ScatterData, len(pts))
		for j, p := range pts {
			data[j] = opts.ScatterData{
				Value:      []float64{p[0], p[1]},
				Symbol:     symbols[i%len(symbols)],
				SymbolSize: 10,
			}
		}
		scatter.AddSeries(s.Name, data)
	}
	scatter.SetSeriesOptions(
		charts.WithLabelOpts(opts.Label{
			Show: opts.Bool(false),
		}),
		charts.WithEmphasisOpts(opts.Emphasis{}),
	)

	return scatter.Render(w)
}
