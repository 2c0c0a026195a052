package habitlist

import (
	"fmt"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/julianstephens/wellmeing/internal/models"
)

type DeleteHabitMsg struct {
	Name string
}

type Item struct {
	Habit models.Habit
}

func (i Item) Title() string {
	return i.Habit.Name
}

func (i Item) Description() string {
	desc := fmt.Sprintf("%d metrics | %d submissions", len(i.Habit.Metrics), i.Habit.SubmissionsCount())
	if last, ok := i.Habit.LastSubmissionDate(); ok {
		desc += " | last " + last.Format("2 Jan 15:04")
	}
	if i.Habit.Goal != "" {
		desc += " | goal: " + i.Habit.Goal
	}
	return desc
}

func (i Item) FilterValue() string { return i.Habit.Name }

type KeyMap struct {
	Delete key.Binding
}

func DefaultKeyMap() KeyMap {
	return KeyMap{
		Delete: key.NewBinding(
			key.WithKeys("d"),
			key.WithHelp("d", "delete"),
		),
	}
}

type Model struct {
	list list.Model
	keys KeyMap
}

func New(habits []models.Habit, width, height int) Model {
	l := list.New(items(habits), list.NewDefaultDelegate(), width, height)
	l.Title = "Habits"
	l.SetShowTitle(false)
	l.SetShowHelp(false)

	keys := DefaultKeyMap()
	l.AdditionalShortHelpKeys = func() []key.Binding {
		return []key.Binding{keys.Delete}
	}
	l.AdditionalFullHelpKeys = func() []key.Binding {
		return []key.Binding{keys.Delete}
	}

	return Model{list: l, keys: keys}
}

func items(habits []models.Habit) []list.Item {
	out := make([]list.Item, len(habits))
	for i, h := range habits {
		out[i] = Item{Habit: h}
	}
	return out
}

func (m *Model) SetHabits(habits []models.Habit) {
	m.list.SetItems(items(habits))
}

func (m Model) Len() int {
	return len(m.list.Items())
}

func (m Model) Init() tea.Cmd {
	return nil
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	var cmd tea.Cmd

	if msg, ok := msg.(tea.KeyMsg); ok && m.list.FilterState() != list.Filtering {
		if key.Matches(msg, m.keys.Delete) {
			if i, ok := m.list.SelectedItem().(Item); ok {
				return m, func() tea.Msg { return DeleteHabitMsg{Name: i.Habit.Name} }
			}
		}
	}

	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m Model) View() string {
	if len(m.list.Items()) == 0 && m.list.FilterState() != list.Filtering {
		return "\n  No habits yet.\n  Add one with 'wellmeing habit add'."
	}
	return m.list.View()
}

func (m *Model) SetSize(width, height int) {
	m.list.SetSize(width, height)
}
