package tui

import (
	"context"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/julianstephens/wellmeing/internal/history"
	"github.com/julianstephens/wellmeing/internal/logger"
	"github.com/julianstephens/wellmeing/internal/tracker"
	"github.com/julianstephens/wellmeing/internal/tui/components/chart"
	"github.com/julianstephens/wellmeing/internal/tui/components/habitlist"
)

type SessionState int

const (
	StateCharts SessionState = iota
	StateHabits
	StateConfirmDelete
)

// Number of tabs reachable with tab/shift+tab.
const tabCount = 2

// refreshedMsg reports the end of a session refresh.
type refreshedMsg struct {
	err error
}

// deletedMsg reports the end of a habit deletion.
type deletedMsg struct {
	name string
	err  error
}

type Model struct {
	tracker         *tracker.Tracker
	state           SessionState
	keys            KeyMap
	help            help.Model
	charts          []history.ChartItem
	selected        int
	offset          int
	chartModel      chart.Model
	habitList       habitlist.Model
	habitToDeleteID string
	status          string
	quitting        bool
	width           int
	height          int
}

func NewModel(t *tracker.Tracker) Model {
	m := Model{
		tracker:    t,
		state:      StateCharts,
		keys:       DefaultKeyMap(),
		help:       help.New(),
		chartModel: chart.New(0, 0),
		habitList:  habitlist.New(t.Session().Habits(), 0, 0),
	}
	m.reload()
	return m
}

func (m Model) ShortHelp() []key.Binding {
	keys := []key.Binding{m.keys.Tab, m.keys.Quit, m.keys.Help}
	switch m.state {
	case StateCharts:
		keys = append(keys, m.keys.Up, m.keys.Down, m.keys.PrevWeek, m.keys.NextWeek)
	case StateConfirmDelete:
		keys = []key.Binding{m.keys.Confirm, m.keys.Cancel}
	}
	return append(keys, m.keys.Refresh)
}

func (m Model) FullHelp() [][]key.Binding {
	global := []key.Binding{m.keys.Tab, m.keys.ShiftTab, m.keys.Quit, m.keys.Help, m.keys.Refresh}
	navigation := []key.Binding{m.keys.Up, m.keys.Down, m.keys.PrevWeek, m.keys.NextWeek}
	return [][]key.Binding{global, navigation}
}

func (m Model) Init() tea.Cmd {
	return m.refresh()
}

// refresh reloads the user document in the background.
func (m Model) refresh() tea.Cmd {
	sess := m.tracker.Session()
	return func() tea.Msg {
		return refreshedMsg{err: sess.Refresh(context.Background())}
	}
}

func (m Model) deleteHabit(name string) tea.Cmd {
	t := m.tracker
	return func() tea.Msg {
		return deletedMsg{name: name, err: t.DeleteHabit(context.Background(), name)}
	}
}

// reload rebuilds every view from the current session snapshot.
func (m *Model) reload() {
	sess := m.tracker.Session()
	m.charts = sess.ChartItems()
	if m.selected >= len(m.charts) {
		m.selected = len(m.charts) - 1
	}
	if m.selected < 0 {
		m.selected = 0
	}
	m.habitList.SetHabits(sess.Habits())
	m.updateChart()
}

// updateChart aggregates the selected chart for the current week offset.
func (m *Model) updateChart() {
	if len(m.charts) == 0 {
		m.chartModel.Clear()
		return
	}
	sess := m.tracker.Session()
	item := m.charts[m.selected]
	series, err := sess.AggregateWeek(item.Habit, item.Metric, m.offset)
	if err != nil {
		logger.Debug("Chart aggregation failed", "habit", item.Habit, "metric", item.Metric, "error", err)
	}
	m.chartModel.SetSeries(item, series, history.WeekLabel(sess.Now(), m.offset))
}

// Selected is the chart under the cursor and the week offset shown.
func (m Model) Selected() (history.ChartItem, int, bool) {
	if len(m.charts) == 0 {
		return history.ChartItem{}, m.offset, false
	}
	return m.charts[m.selected], m.offset, true
}
