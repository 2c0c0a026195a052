package history

import (
	"github.com/julianstephens/wellmeing/internal/inputtype"
	"github.com/julianstephens/wellmeing/internal/models"
)

// ChartItem is one chartable habit metric.
type ChartItem struct {
	Habit  string
	Metric string
	Kind   inputtype.Kind
}

// Title is the label shown above the chart.
func (c ChartItem) Title() string {
	return c.Habit + " · " + c.Metric
}

// ChartItems lists every habit metric with a numeric projection, in habit
// then metric order.
func ChartItems(habits []models.Habit) []ChartItem {
	var items []ChartItem
	for _, h := range habits {
		for _, m := range h.Metrics {
			if !m.Input.Chartable() {
				continue
			}
			items = append(items, ChartItem{Habit: h.Name, Metric: m.Name, Kind: m.Input})
		}
	}
	return items
}
