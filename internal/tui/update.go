package tui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/julianstephens/wellmeing/internal/tui/components/habitlist"
)

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		m.chartModel.SetSize(m.chartWidth(), msg.Height-6)
		m.habitList.SetSize(msg.Width-4, msg.Height-6)
		return m, nil

	case refreshedMsg:
		if msg.err != nil {
			m.status = "Refresh failed: " + msg.err.Error()
			return m, nil
		}
		m.status = ""
		m.reload()
		return m, nil

	case deletedMsg:
		if msg.err != nil {
			m.status = "Delete failed: " + msg.err.Error()
		} else {
			m.status = fmt.Sprintf("Deleted %s", msg.name)
		}
		m.reload()
		return m, nil

	case habitlist.DeleteHabitMsg:
		m.habitToDeleteID = msg.Name
		m.state = StateConfirmDelete
		return m, nil

	case tea.KeyMsg:
		if m.state == StateConfirmDelete {
			return m.updateConfirmDelete(msg)
		}
		switch {
		case key.Matches(msg, m.keys.Quit):
			m.quitting = true
			return m, tea.Quit
		case key.Matches(msg, m.keys.Tab):
			m.state = (m.state + 1) % tabCount
			return m, nil
		case key.Matches(msg, m.keys.ShiftTab):
			m.state = (m.state - 1 + tabCount) % tabCount
			return m, nil
		case key.Matches(msg, m.keys.Help):
			m.help.ShowAll = !m.help.ShowAll
			return m, nil
		case key.Matches(msg, m.keys.Refresh):
			m.status = "Refreshing..."
			return m, m.refresh()
		}
	}

	switch m.state {
	case StateCharts:
		return m.updateCharts(msg)
	case StateHabits:
		var cmd tea.Cmd
		m.habitList, cmd = m.habitList.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m Model) updateCharts(msg tea.Msg) (tea.Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		var cmd tea.Cmd
		m.chartModel, cmd = m.chartModel.Update(msg)
		return m, cmd
	}
	switch {
	case key.Matches(keyMsg, m.keys.Up):
		if m.selected > 0 {
			m.selected--
			m.updateChart()
		}
	case key.Matches(keyMsg, m.keys.Down):
		if m.selected < len(m.charts)-1 {
			m.selected++
			m.updateChart()
		}
	case key.Matches(keyMsg, m.keys.PrevWeek):
		m.offset--
		m.updateChart()
	case key.Matches(keyMsg, m.keys.NextWeek):
		if m.offset < 0 {
			m.offset++
			m.updateChart()
		}
	}
	return m, nil
}

func (m Model) updateConfirmDelete(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Confirm):
		name := m.habitToDeleteID
		m.habitToDeleteID = ""
		m.state = StateHabits
		return m, m.deleteHabit(name)
	case key.Matches(msg, m.keys.Cancel), key.Matches(msg, m.keys.Quit):
		m.habitToDeleteID = ""
		m.state = StateHabits
	}
	return m, nil
}
