package cli

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/matzehuels/lineage/pkg/graph"
)

// List styles
var (
	listSelectedStyle = lipgloss.NewStyle().Bold(true).Foreground(colorGreen)
	listDimStyle      = lipgloss.NewStyle().Foreground(colorDim)
)

// =============================================================================
// PersonListModel - Interactive central individual selection
// =============================================================================

// PersonListModel is the bubbletea model for picking an individual.
// Typing filters the list by name or id.
type PersonListModel struct {
	People   []graph.PersonSummary
	Filter   string
	Cursor   int
	Offset   int
	Height   int
	Selected *graph.PersonSummary

	visible []int // indexes into People matching Filter
}

// NewPersonListModel creates a new person list model.
func NewPersonListModel(people []graph.PersonSummary) PersonListModel {
	m := PersonListModel{People: people, Height: 15}
	m.applyFilter()
	return m
}

func (m PersonListModel) Init() tea.Cmd {
	return nil
}

func (m PersonListModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEsc:
			return m, tea.Quit
		case tea.KeyUp:
			if m.Cursor > 0 {
				m.Cursor--
				if m.Cursor < m.Offset {
					m.Offset = m.Cursor
				}
			}
		case tea.KeyDown:
			if m.Cursor < len(m.visible)-1 {
				m.Cursor++
				if m.Cursor >= m.Offset+m.Height {
					m.Offset = m.Cursor - m.Height + 1
				}
			}
		case tea.KeyEnter:
			if len(m.visible) == 0 {
				return m, nil
			}
			p := m.People[m.visible[m.Cursor]]
			m.Selected = &p
			return m, tea.Quit
		case tea.KeyBackspace:
			if m.Filter != "" {
				r := []rune(m.Filter)
				m.Filter = string(r[:len(r)-1])
				m.applyFilter()
			}
		case tea.KeyRunes, tea.KeySpace:
			m.Filter += string(msg.Runes)
			m.applyFilter()
		}
	case tea.WindowSizeMsg:
		m.Height = max(msg.Height-8, 5)
	}
	return m, nil
}

// applyFilter recomputes the visible rows and resets the cursor.
func (m *PersonListModel) applyFilter() {
	q := strings.ToLower(strings.TrimSpace(m.Filter))
	visible := make([]int, 0, len(m.People))
	for i, p := range m.People {
		if q == "" || strings.Contains(strings.ToLower(p.Name), q) || strings.Contains(strings.ToLower(p.ID), q) {
			visible = append(visible, i)
		}
	}
	m.visible = visible
	m.Cursor = 0
	m.Offset = 0
}

func (m PersonListModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render("Select Individual"))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("type to filter  ↑/↓ navigate  ⏎ select  esc quit"))
	b.WriteString("\n")
	b.WriteString(StyleHighlight.Render("filter: ") + m.Filter)
	b.WriteString("\n\n")

	end := min(m.Offset+m.Height, len(m.visible))

	rows := [][]string{}
	for i := m.Offset; i < end; i++ {
		p := m.People[m.visible[i]]
		cursor := "  "
		if i == m.Cursor {
			cursor = "▸ "
		}
		rows = append(rows, []string{cursor, p.ID, p.Name, orDash(p.Birth), orDash(p.Death)})
	}

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("", "ID", "Name", "Born", "Died").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return styleHeader
			}
			if m.Offset+row == m.Cursor {
				return listSelectedStyle
			}
			if col == 2 && m.Offset+row < len(m.visible) {
				return sexStyle(m.People[m.visible[m.Offset+row]].Sex)
			}
			return listDimStyle
		})

	b.WriteString(t.Render())
	b.WriteString("\n\n")
	pos := 0
	if len(m.visible) > 0 {
		pos = m.Cursor + 1
	}
	b.WriteString(listDimStyle.Render(fmt.Sprintf("  [%d/%d]", pos, len(m.visible))))

	return b.String()
}

// pickPerson runs the picker and returns the chosen id, or "" when the user
// quit without choosing.
func pickPerson(ctx context.Context, people []graph.PersonSummary) (string, error) {
	if len(people) == 0 {
		return "", fmt.Errorf("document has no individuals")
	}
	final, err := tea.NewProgram(NewPersonListModel(people), tea.WithContext(ctx)).Run()
	if err != nil {
		return "", fmt.Errorf("picker: %w", err)
	}
	if m, ok := final.(PersonListModel); ok && m.Selected != nil {
		return m.Selected.ID, nil
	}
	return "", nil
}
