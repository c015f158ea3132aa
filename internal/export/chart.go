package export

import (
	"io"
	"strings"

	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"github.com/abrezinsky/sportsday/internal/scoring"
)

var defaultBarColor = drawing.ColorFromHex("6366f1")

// RenderChart draws the standings as a PNG bar chart, one bar per bucket
// in ranked order
func RenderChart(w io.Writer, standings []scoring.ScoredBucket, title string) error {
	if len(standings) == 0 {
		return renderNoData(w, "No standings yet")
	}

	top := 0
	bars := make([]chart.Value, 0, len(standings))
	for _, b := range standings {
		color := defaultBarColor
		if b.Color != "" {
			color = drawing.ColorFromHex(strings.TrimPrefix(b.Color, "#"))
		}
		bars = append(bars, chart.Value{
			Label: b.Name,
			Value: float64(b.Score),
			Style: chart.Style{FillColor: color, StrokeColor: color},
		})
		top = max(top, b.Score)
	}

	width := max(480, 40*len(bars)+120)
	graph := chart.BarChart{
		Title:    title,
		Width:    width,
		Height:   420,
		BarWidth: 28,
		Background: chart.Style{
			Padding: chart.Box{Top: 40},
		},
		YAxis: chart.YAxis{
			// a fixed range keeps an all-zero board renderable
			Range: &chart.ContinuousRange{Min: 0, Max: float64(max(top, 1))},
		},
		Bars: bars,
	}
	return graph.Render(chart.PNG, w)
}

func renderNoData(w io.Writer, msg string) error {
	graph := chart.Chart{
		Width:  400,
		Height: 200,
		Elements: []chart.Renderable{
			func(r chart.Renderer, cb chart.Box, chartDefaults chart.Style) {
				r.SetFontColor(drawing.ColorBlack)
				r.SetFontSize(12.0)
				tb := r.MeasureText(msg)
				x := (cb.Width() - tb.Width()) / 2
				y := (cb.Height() + tb.Height()) / 2
				r.Text(msg, x, y)
			},
		},
	}
	return graph.Render(chart.PNG, w)
}
