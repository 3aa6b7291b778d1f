package ui

import (
	"context"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/ldi/kanban/internal/board"
	"github.com/ldi/kanban/internal/ui/components"
	"github.com/ldi/kanban/pkg/models"
)

// EmptyTitleHint is shown under the title field while it holds only whitespace.
const EmptyTitleHint = "Title cannot be empty."

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("39")).
			Padding(0, 1)

	subtitleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241")).
			Padding(0, 1)

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196"))

	formStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("39")).
			Padding(0, 1)
)

// Board is what the terminal UI needs from the board manager.
type Board interface {
	Init(ctx context.Context)
	Ready() bool
	Lanes() []board.Lane
	AddTask(ctx context.Context, title, description string)
	DeleteTask(ctx context.Context, id string)
	MoveTask(ctx context.Context, id string, target models.ColumnID)
}

type boardReadyMsg struct{}

type BoardModel struct {
	board    Board
	ctx      context.Context
	lanes    []board.Lane
	column   int
	rows     []int
	width    int
	height   int
	ready    bool
	quitting bool
	spinner  spinner.Model
	form     *taskForm
}

func NewBoardModel(ctx context.Context, b Board) *BoardModel {
	s := spinner.New()
	s.Spinner = spinner.Dot
	return &BoardModel{
		board:   b,
		ctx:     ctx,
		rows:    make([]int, len(models.Columns)),
		width:   100,
		spinner: s,
	}
}

func (m *BoardModel) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.load())
}

func (m *BoardModel) load() tea.Cmd {
	return func() tea.Msg {
		m.board.Init(m.ctx)
		return boardReadyMsg{}
	}
}

func (m *BoardModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case boardReadyMsg:
		m.ready = true
		m.refresh()
		return m, nil

	case spinner.TickMsg:
		if m.ready {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			m.quitting = true
			return m, tea.Quit
		}
		if !m.ready {
			return m, nil
		}
		if m.form != nil {
			return m, m.updateForm(msg)
		}
		return m, m.handleKey(msg)
	}

	if m.form != nil {
		return m, m.form.update(msg)
	}
	return m, nil
}

func (m *BoardModel) handleKey(msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "q":
		m.quitting = true
		return tea.Quit
	case "left", "h":
		m.focusColumn(m.column - 1)
	case "right", "l":
		m.focusColumn(m.column + 1)
	case "up", "k":
		m.selectRow(m.rows[m.column] - 1)
	case "down", "j":
		m.selectRow(m.rows[m.column] + 1)
	case ">", "shift+right", "L":
		m.moveSelected(1)
	case "<", "shift+left", "H":
		m.moveSelected(-1)
	case "d", "x", "delete":
		if task, ok := m.selectedTask(); ok {
			m.board.DeleteTask(m.ctx, task.ID)
			m.refresh()
		}
	case "a", "n":
		m.form = newTaskForm()
		return textinput.Blink
	}
	return nil
}

func (m *BoardModel) updateForm(msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "esc":
		m.form = nil
		return nil
	case "enter":
		if !m.form.canSubmit() {
			return nil
		}
		m.board.AddTask(m.ctx, m.form.title.Value(), m.form.description.Value())
		m.form = nil
		m.refresh()
		// New tasks land at the bottom of the first column.
		m.column = 0
		m.rows[0] = len(m.lanes[0].Tasks) - 1
		return nil
	case "tab", "shift+tab":
		return m.form.toggleFocus()
	}
	return m.form.update(msg)
}

func (m *BoardModel) refresh() {
	m.lanes = m.board.Lanes()
	for i := range m.rows {
		m.rows[i] = clamp(m.rows[i], 0, len(m.lanes[i].Tasks)-1)
	}
}

func (m *BoardModel) focusColumn(col int) {
	m.column = clamp(col, 0, len(models.Columns)-1)
}

func (m *BoardModel) selectRow(row int) {
	if len(m.lanes) == 0 {
		return
	}
	m.rows[m.column] = clamp(row, 0, len(m.lanes[m.column].Tasks)-1)
}

func (m *BoardModel) selectedTask() (models.Task, bool) {
	if len(m.lanes) == 0 {
		return models.Task{}, false
	}
	tasks := m.lanes[m.column].Tasks
	row := m.rows[m.column]
	if row < 0 || row >= len(tasks) {
		return models.Task{}, false
	}
	return tasks[row], true
}

// moveSelected moves the highlighted task dir columns over and follows it.
func (m *BoardModel) moveSelected(dir int) {
	task, ok := m.selectedTask()
	if !ok {
		return
	}
	target := m.column + dir
	if target < 0 || target >= len(models.Columns) {
		return
	}
	m.board.MoveTask(m.ctx, task.ID, models.Columns[target].ID)
	m.refresh()
	m.column = target
	for i, t := range m.lanes[target].Tasks {
		if t.ID == task.ID {
			m.rows[target] = i
			break
		}
	}
}

func (m *BoardModel) View() string {
	if m.quitting {
		return ""
	}
	if !m.ready {
		return "\n  " + m.spinner.View() + " Loading board…\n"
	}

	var s strings.Builder
	s.WriteString(titleStyle.Render("Kanban Board"))
	s.WriteString("\n")
	s.WriteString(subtitleStyle.Render("Plan your work, move cards across columns, and keep everything saved."))
	s.WriteString("\n\n")

	if m.form != nil {
		s.WriteString(m.form.view(m.width))
		s.WriteString("\n\n")
	}

	laneWidth := (m.width - 2*len(m.lanes)) / max(len(m.lanes), 1)
	if laneWidth < 20 {
		laneWidth = 20
	}
	views := make([]string, 0, len(m.lanes))
	for i, lane := range m.lanes {
		v := components.NewLane(lane.Column.Title, laneWidth)
		v.Focused = i == m.column && m.form == nil
		if v.Focused {
			v.Selected = m.rows[i]
		}
		for _, t := range lane.Tasks {
			v.Cards = append(v.Cards, cardFor(t))
		}
		views = append(views, v.View())
	}
	s.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, views...))
	s.WriteString("\n\n")

	if m.form != nil {
		s.WriteString(helpStyle.Render("tab switch field • enter add task • esc cancel"))
	} else {
		s.WriteString(helpStyle.Render("←/→ column • ↑/↓ task • </> move task • a add • d delete • q quit"))
	}
	s.WriteString("\n")
	return s.String()
}

func cardFor(t models.Task) components.Card {
	card := components.Card{Title: t.Title, Description: t.Description}
	if created, ok := t.CreatedTime(); ok {
		card.Meta = "Created " + created.Local().Format("Jan 2, 2006")
	}
	return card
}

func clamp(v, lo, hi int) int {
	if hi < lo {
		return lo
	}
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// taskForm holds the transient input state of the add-task form.
type taskForm struct {
	title       textinput.Model
	description textinput.Model
}

func newTaskForm() *taskForm {
	title := textinput.New()
	title.Placeholder = "Task title"
	title.Prompt = "Title: "
	title.Focus()

	description := textinput.New()
	description.Placeholder = "Description (optional)"
	description.Prompt = "Description: "

	return &taskForm{title: title, description: description}
}

func (f *taskForm) canSubmit() bool {
	return strings.TrimSpace(f.title.Value()) != ""
}

func (f *taskForm) showError() bool {
	return !f.canSubmit() && f.title.Value() != ""
}

func (f *taskForm) toggleFocus() tea.Cmd {
	if f.title.Focused() {
		f.title.Blur()
		return f.description.Focus()
	}
	f.description.Blur()
	return f.title.Focus()
}

func (f *taskForm) update(msg tea.Msg) tea.Cmd {
	var titleCmd, descCmd tea.Cmd
	f.title, titleCmd = f.title.Update(msg)
	f.description, descCmd = f.description.Update(msg)
	return tea.Batch(titleCmd, descCmd)
}

func (f *taskForm) view(width int) string {
	var s strings.Builder
	s.WriteString("Add new task ")
	s.WriteString(helpStyle.Render("(new tasks appear in Todo)"))
	s.WriteString("\n")
	s.WriteString(f.title.View())
	s.WriteString("\n")
	if f.showError() {
		s.WriteString(errorStyle.Render(EmptyTitleHint))
	}
	s.WriteString("\n")
	s.WriteString(f.description.View())
	return formStyle.Width(max(width-4, 30)).Render(s.String())
}

// RunBoard starts the interactive board and blocks until the user quits.
func RunBoard(ctx context.Context, b Board) error {
	p := tea.NewProgram(NewBoardModel(ctx, b), tea.WithAltScreen(), tea.WithContext(ctx))
	_, err := p.Run()
	return err
}
