package chart

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/julianstephens/wellmeing/internal/history"
	"github.com/julianstephens/wellmeing/internal/inputtype"
)

const (
	barRune = "█"
	// Day label plus the value column.
	chrome = 16
)

var (
	titleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("252")).
			Bold(true)

	labelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241")).
			Width(4)

	barStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("205"))

	valueStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240")).
			Italic(true)
)

type Model struct {
	viewport viewport.Model
	Item     *history.ChartItem
	Series   history.Series
	Label    string
	width    int
	height   int
}

func New(width, height int) Model {
	return Model{viewport: viewport.New(width, height)}
}

func (m Model) Init() tea.Cmd {
	return nil
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

func (m Model) View() string {
	if m.Item == nil {
		return "No chartable metrics yet."
	}
	return m.viewport.View()
}

func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.viewport.Width = width
	m.viewport.Height = height
	m.Render()
}

// SetSeries shows the week series of item.
func (m *Model) SetSeries(item history.ChartItem, series history.Series, label string) {
	m.Item = &item
	m.Series = series
	m.Label = label
	m.Render()
}

// Clear removes the chart, e.g. once every chartable metric is gone.
func (m *Model) Clear() {
	m.Item = nil
	m.Series = history.Series{}
	m.Label = ""
	m.Render()
}

func (m *Model) Render() {
	if m.Item == nil {
		m.viewport.SetContent("")
		return
	}
	var b strings.Builder
	b.WriteString(titleStyle.Render(m.Item.Title()))
	b.WriteString("\n")
	b.WriteString(valueStyle.Render(m.Label))
	b.WriteString("\n\n")
	for i, line := range Bars(m.Series, m.Item.Kind, m.width-chrome) {
		b.WriteString(labelStyle.Render(history.WeekdayNames[i]))
		b.WriteString(line)
		b.WriteString("\n")
	}
	m.viewport.SetContent(b.String())
}

// Bars renders one horizontal bar per weekday, scaled so the largest value
// spans width cells, each followed by its formatted value.
func Bars(series history.Series, kind inputtype.Kind, width int) []string {
	if width < 1 {
		width = 1
	}
	max := series.Max()
	lines := make([]string, len(series))
	for i, v := range series {
		n := 0
		if max > 0 && v > 0 {
			n = int(math.Round(v / max * float64(width)))
			if n == 0 {
				n = 1
			}
		}
		bar := barStyle.Render(strings.Repeat(barRune, n))
		lines[i] = fmt.Sprintf("%s %s", bar, valueStyle.Render(FormatValue(kind, v)))
	}
	return lines
}

// FormatValue renders an aggregated value the way its kind is entered:
// durations as HH:MM:SS, ratings with one decimal, sliders as is.
func FormatValue(kind inputtype.Kind, v float64) string {
	switch kind {
	case inputtype.Time:
		return inputtype.FormatDuration(time.Duration(v * float64(time.Second)))
	case inputtype.Rating:
		return strconv.FormatFloat(v, 'f', 1, 64)
	default:
		return strconv.FormatFloat(v, 'f', -1, 64)
	}
}
