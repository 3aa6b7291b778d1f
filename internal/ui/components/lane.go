package components

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

var (
	laneStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("240")).
			Padding(0, 1)

	focusedLaneStyle = laneStyle.
				BorderForeground(lipgloss.Color("39"))

	laneHeaderStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("252"))

	countStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241"))

	cardTitleStyle = lipgloss.NewStyle().
			Bold(true)

	selectedCardTitleStyle = cardTitleStyle.
				Foreground(lipgloss.Color("39"))

	cardDescriptionStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("250"))

	cardMetaStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240")).
			Italic(true)

	placeholderStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("240")).
				Italic(true)
)

type Card struct {
	Title       string
	Description string
	Meta        string
}

// Lane renders one board column as a bordered box of cards.
type Lane struct {
	Title   string
	Cards   []Card
	Width   int
	Focused bool
	// Selected is the index of the highlighted card, or -1.
	Selected int
}

func NewLane(title string, width int) *Lane {
	return &Lane{
		Title:    title,
		Cards:    make([]Card, 0),
		Width:    width,
		Selected: -1,
	}
}

func (l *Lane) View() string {
	innerWidth := l.Width - 4
	if innerWidth < 0 {
		innerWidth = 0
	}

	header := laneHeaderStyle.Render(l.Title) + " " + countStyle.Render(fmt.Sprintf("(%d)", len(l.Cards)))

	var blocks []string
	if len(l.Cards) == 0 {
		blocks = append(blocks, placeholderStyle.Render("No tasks"))
	}
	for i, card := range l.Cards {
		blocks = append(blocks, l.renderCard(card, i == l.Selected, innerWidth))
	}

	style := laneStyle
	if l.Focused {
		style = focusedLaneStyle
	}
	return style.Width(l.Width).Render(header + "\n\n" + strings.Join(blocks, "\n\n"))
}

func (l *Lane) renderCard(card Card, selected bool, width int) string {
	textWidth := width - 2
	if textWidth < 0 {
		textWidth = 0
	}

	titleStyle := cardTitleStyle
	marker := "  "
	if selected {
		titleStyle = selectedCardTitleStyle
		marker = "> "
	}

	var lines []string
	wrapped := titleStyle.Width(textWidth).Render(card.Title)
	for i, line := range strings.Split(wrapped, "\n") {
		if i == 0 {
			lines = append(lines, marker+line)
		} else {
			lines = append(lines, "  "+line)
		}
	}
	if card.Description != "" {
		desc := cardDescriptionStyle.Width(textWidth).Render(card.Description)
		for _, line := range strings.Split(desc, "\n") {
			lines = append(lines, "  "+line)
		}
	}
	if card.Meta != "" {
		lines = append(lines, "  "+cardMetaStyle.Render(card.Meta))
	}
	return strings.Join(lines, "\n")
}
