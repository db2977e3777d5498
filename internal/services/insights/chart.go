package insights

import (
	"bytes"
	"fmt"

	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"github.com/finchapp/finch/internal/models"
)

// RenderSpendingChart renders a PNG bar chart of spend per category.
// Returns raw PNG bytes.
func RenderSpendingChart(summary *models.SpendingSummary) ([]byte, error) {
	if len(summary.ByCategory) == 0 {
		return nil, fmt.Errorf("no categorized spending to chart")
	}

	// Palette cycles for more categories than colors.
	palette := []drawing.Color{
		drawing.ColorFromHex("2563eb"), // blue-600
		drawing.ColorFromHex("dc2626"), // red-600
		drawing.ColorFromHex("16a34a"), // green-600
		drawing.ColorFromHex("d97706"), // amber-600
		drawing.ColorFromHex("9333ea"), // purple-600
		drawing.ColorFromHex("0891b2"), // cyan-600
	}

	bars := make([]chart.Value, len(summary.ByCategory))
	for i, ct := range summary.ByCategory {
		bars[i] = chart.Value{
			Label: ct.Category,
			Value: ct.Total,
			Style: chart.Style{
				FillColor:   palette[i%len(palette)],
				StrokeColor: palette[i%len(palette)],
			},
		}
	}

	graph := chart.BarChart{
		Title:  fmt.Sprintf("Spending by Category (%s to %s)", summary.StartDate, summary.EndDate),
		Width:  900,
		Height: 400,
		Background: chart.Style{
			Padding: chart.Box{Top: 40, Left: 10, Right: 20, Bottom: 10},
		},
		BarWidth: 60,
		YAxis: chart.YAxis{
			ValueFormatter: func(v interface{}) string {
				if f, ok := v.(float64); ok {
					return fmt.Sprintf("%.0f %s", f, summary.Currency)
				}
				return ""
			},
		},
		Bars: bars,
	}

	var buf bytes.Buffer
	if err := graph.Render(chart.PNG, &buf); err != nil {
		return nil, fmt.Errorf("chart render failed: %w", err)
	}

	return buf.Bytes(), nil
}
