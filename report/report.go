// Package report renders evaluation runs as standalone HTML charts.
package report

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"
	"gonum.org/v1/gonum/stat"
)

var ErrNoSeries = errors.New("no series to chart")

// Series is the final score of every episode played by one actor, in
// episode order.
type Series struct {
	Name   string
	Scores []float64
}

// Render writes an HTML page with a per-episode score line chart and a mean
// score bar chart.
func Render(w io.Writer, title string, series []Series) error {
	if len(series) == 0 {
		return ErrNoSeries
	}

	page := components.NewPage()
	page.PageTitle = title
	page.AddCharts(scoreLine(title, series), meanBar(series))
	if err := page.Render(w); err != nil {
		return fmt.Errorf("render chart: %w", err)
	}
	return nil
}

// WriteFile renders the page to path, creating its directory.
func WriteFile(path, title string, series []Series) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create chart dir: %w", err)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create chart: %w", err)
	}
	if err := Render(f, title, series); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}

func scoreLine(title string, series []Series) *charts.Line {
	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{Title: title, Subtitle: "final score per episode"}),
		charts.WithInitializationOpts(opts.Initialization{Theme: "shine"}),
		charts.WithXAxisOpts(opts.XAxis{Name: "episode"}),
		charts.WithYAxisOpts(opts.YAxis{Name: "score"}),
	)

	longest := 0
	for _, s := range series {
		longest = max(longest, len(s.Scores))
	}
	episodes := make([]string, longest)
	for i := range episodes {
		episodes[i] = strconv.Itoa(i)
	}
	line.SetXAxis(episodes)

	for _, s := range series {
		items := make([]opts.LineData, 0, len(s.Scores))
		for _, v := range s.Scores {
			items = append(items, opts.LineData{Value: v})
		}
		line.AddSeries(s.Name, items)
	}
	return line
}

func meanBar(series []Series) *charts.Bar {
	bar := charts.NewBar()
	bar.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{Title: "mean score"}),
		charts.WithInitializationOpts(opts.Initialization{Theme: "shine"}),
	)

	names := make([]string, 0, len(series))
	means := make([]opts.BarData, 0, len(series))
	for _, s := range series {
		names = append(names, s.Name)
		var mean float64
		if len(s.Scores) > 0 {
			mean = stat.Mean(s.Scores, nil)
		}
		means = append(means, opts.BarData{Value: mean})
	}
	bar.SetXAxis(names).AddSeries("mean", means)
	return bar
}
