package ui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/ldi/kanban/internal/board"
)

var (
	logoStyle         = lipgloss.NewStyle().Foreground(lipgloss.Color("12"))
	itemStyle         = lipgloss.NewStyle().PaddingLeft(2)
	selectedItemStyle = lipgloss.NewStyle().PaddingLeft(2).Foreground(lipgloss.Color("12")).Bold(true)
	summaryStyle      = lipgloss.NewStyle().PaddingLeft(2).Foreground(lipgloss.Color("241"))
	menuHelpStyle     = lipgloss.NewStyle().PaddingLeft(2).Foreground(lipgloss.Color("241"))
)

const logo = `
 _  __            _
| |/ /__ _ _ __  | |__   __ _ _ __
| ' // _` + "`" + ` | '_ \ | '_ \ / _` + "`" + ` | '_ \
| . \ (_| | | | || |_) | (_| | | | |
|_|\_\__,_|_| |_||_.__/ \__,_|_| |_|
`

// MenuItem is one command offered by the start menu.
type MenuItem struct {
	Name        string
	Description string
}

// MenuModel picks a command when the binary runs without arguments. It
// shows how many tasks each column holds above the list.
type MenuModel struct {
	items    []MenuItem
	lanes    []board.Lane
	cursor   int
	selected string
	quitting bool
}

func NewMenuModel(items []MenuItem, lanes []board.Lane) MenuModel {
	return MenuModel{items: items, lanes: lanes}
}

func (m MenuModel) Init() tea.Cmd {
	return nil
}

func (m MenuModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	s := key.String()
	if s == "ctrl+c" || s == "q" || s == "esc" {
		m.quitting = true
		return m, tea.Quit
	}
	if len(m.items) == 0 {
		return m, nil
	}

	switch s {
	case "up", "k":
		m.cursor = (m.cursor - 1 + len(m.items)) % len(m.items)
	case "down", "j", "tab":
		m.cursor = (m.cursor + 1) % len(m.items)
	case "home", "g":
		m.cursor = 0
	case "end", "G":
		m.cursor = len(m.items) - 1
	case "enter":
		m.selected = m.items[m.cursor].Name
		return m, tea.Quit
	default:
		// Digits pick an item directly.
		if len(s) == 1 && s[0] >= '1' && s[0] <= '9' {
			if i := int(s[0] - '1'); i < len(m.items) {
				m.cursor = i
				m.selected = m.items[i].Name
				return m, tea.Quit
			}
		}
	}
	return m, nil
}

// Summary renders the per-column task counts, or "" when no board is known.
func (m MenuModel) Summary() string {
	if len(m.lanes) == 0 {
		return ""
	}
	parts := make([]string, 0, len(m.lanes))
	total := 0
	for _, l := range m.lanes {
		parts = append(parts, fmt.Sprintf("%s %d", l.Column.Title, len(l.Tasks)))
		total += len(l.Tasks)
	}
	return fmt.Sprintf("%d tasks: %s", total, strings.Join(parts, " · "))
}

func (m MenuModel) View() string {
	if m.quitting {
		return ""
	}

	var s strings.Builder
	s.WriteString(logoStyle.Render(logo))
	s.WriteString("\n")
	if summary := m.Summary(); summary != "" {
		s.WriteString(summaryStyle.Render(summary))
		s.WriteString("\n")
	}
	s.WriteString("\n")

	width := 0
	for _, item := range m.items {
		width = max(width, len(item.Name))
	}
	for i, item := range m.items {
		line := fmt.Sprintf("%d. %-*s  %s", i+1, width, item.Name, item.Description)
		if m.cursor == i {
			s.WriteString(selectedItemStyle.Render("> " + line))
		} else {
			s.WriteString(itemStyle.Render("  " + line))
		}
		s.WriteString("\n")
	}

	s.WriteString("\n")
	s.WriteString(menuHelpStyle.Render("j/k move • 1-9 or enter run • q quit"))
	s.WriteString("\n")
	return s.String()
}

func (m MenuModel) Selected() string {
	return m.selected
}

// RunMenu shows the start menu and returns the chosen command name, or ""
// when the user quits.
func RunMenu(items []MenuItem, lanes []board.Lane) (string, error) {
	p := tea.NewProgram(NewMenuModel(items, lanes))
	finalModel, err := p.Run()
	if err != nil {
		return "", err
	}
	return finalModel.(MenuModel).Selected(), nil
}
