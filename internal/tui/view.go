package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Width of the chart list column.
const listWidth = 32

func (m Model) View() string {
	if m.quitting {
		return ""
	}

	var content string
	switch m.state {
	case StateCharts:
		content = m.viewCharts()
	case StateHabits:
		content = docStyle.Render(m.habitList.View())
	case StateConfirmDelete:
		content = m.viewConfirmDelete()
	}

	parts := []string{m.viewTabs(), content}
	if m.status != "" {
		parts = append(parts, warningStyle.Render(m.status))
	}
	parts = append(parts, m.help.View(m))
	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

func (m Model) viewTabs() string {
	var tabs []string
	for i, title := range []string{"Charts", "Habits"} {
		active := m.state == SessionState(i) || (m.state == StateConfirmDelete && i == int(StateHabits))
		if active {
			tabs = append(tabs, activeTabStyle.Render(title))
		} else {
			tabs = append(tabs, inactiveTabStyle.Render(title))
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, tabs...)
}

func (m Model) viewCharts() string {
	if len(m.charts) == 0 {
		return docStyle.Render("No chartable metrics yet.\nSlider, time and rating metrics appear here once a habit has them.")
	}
	var b strings.Builder
	for i, item := range m.charts {
		if i == m.selected {
			b.WriteString(selectedItemStyle.Render("> " + item.Title()))
		} else {
			b.WriteString(itemStyle.Render("  " + item.Title()))
		}
		b.WriteString("\n")
	}
	list := lipgloss.NewStyle().Width(listWidth).Render(b.String())
	return docStyle.Render(lipgloss.JoinHorizontal(lipgloss.Top, list, m.chartModel.View()))
}

func (m Model) chartWidth() int {
	w := m.width - listWidth - 4
	if w < 20 {
		return 20
	}
	return w
}

func (m Model) viewConfirmDelete() string {
	return lipgloss.Place(m.width, m.height-4,
		lipgloss.Center, lipgloss.Center,
		lipgloss.JoinVertical(lipgloss.Center,
			dangerStyle.Render("Delete "+m.habitToDeleteID+" and its whole history?"),
			"",
			"[y] Yes",
			"[n] No",
		),
	)
}
