// Package barplot renders the cohort and series tables as PNG bar charts. It
// only consumes finished tables.
package barplot

import (
	"errors"
	"fmt"
	"io"
	"strconv"

	"github.com/carbocation/casecontrol/table"
	"github.com/carbocation/pfx"
	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"
)

var ErrNothingToPlot = errors.New("nothing to plot")

// Metric selects which count a cohort summary chart shows.
type Metric int

const (
	Studies Metric = iota
	Samples
)

func (m Metric) String() string {
	if m == Samples {
		return "Number of samples"
	}

	return "Number of studies"
}

var conditionColors = map[table.Condition]drawing.Color{
	table.Case:    drawing.ColorFromHex("dd8452"),
	table.Control: drawing.ColorFromHex("4c72b0"),
}

const (
	barWidth  = 24
	minWidth  = 320
	chartTall = 512
)

// RenderSummary draws one bar per tissue group and condition, colored by
// condition.
func RenderSummary(w io.Writer, summaries []table.TissueSummary, metric Metric) error {
	if len(summaries) == 0 {
		return pfx.Err(ErrNothingToPlot)
	}

	bars := make([]chart.Value, 0, len(summaries))
	for _, s := range summaries {
		count := s.Studies
		if metric == Samples {
			count = s.Samples
		}

		bars = append(bars, chart.Value{
			Label: fmt.Sprintf("%s (%s)", tissueLabel(s.TissueKey), s.Condition),
			Value: float64(count),
			Style: chart.Style{
				FillColor:   conditionColors[s.Condition],
				StrokeColor: conditionColors[s.Condition],
			},
		})
	}

	return render(w, metric.String()+" per tissue/cell type", bars)
}

// RenderSeries draws the number of samples at each property value.
func RenderSeries(w io.Writer, counts []table.ValueCount, property string) error {
	if len(counts) == 0 {
		return pfx.Err(ErrNothingToPlot)
	}

	bars := make([]chart.Value, 0, len(counts))
	for _, c := range counts {
		bars = append(bars, chart.Value{
			Label: strconv.Itoa(c.Value),
			Value: float64(c.Samples),
		})
	}

	return render(w, "Number of samples by "+property, bars)
}

func render(w io.Writer, title string, bars []chart.Value) error {
	width := 2 * barWidth * len(bars)
	if width < minWidth {
		width = minWidth
	}

	// Counts start at zero, and equal bars would otherwise give an empty range
	yMax := 1.0
	for _, bar := range bars {
		if bar.Value > yMax {
			yMax = bar.Value
		}
	}

	graph := chart.BarChart{
		Title:    title,
		Width:    width,
		Height:   chartTall,
		BarWidth: barWidth,
		Background: chart.Style{
			Padding: chart.Box{Top: 40},
		},
		YAxis: chart.YAxis{
			Range: &chart.ContinuousRange{Min: 0, Max: yMax},
		},
		Bars: bars,
	}

	if err := graph.Render(chart.PNG, w); err != nil {
		return pfx.Err(err)
	}

	return nil
}

func tissueLabel(key string) string {
	if key == "" {
		return "(none)"
	}

	return key
}
