package cli

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/matzehuels/crosswire/pkg/puz"
)

// List styles
var (
	listSelectedStyle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	listNormalStyle   = lipgloss.NewStyle().Foreground(colorWhite)
	listDimStyle      = lipgloss.NewStyle().Foreground(colorDim)
	listTabStyle      = lipgloss.NewStyle().Foreground(colorGray).Padding(0, 1)
	listActiveTab     = lipgloss.NewStyle().Bold(true).Foreground(colorCyan).Underline(true).Padding(0, 1)
)

// =============================================================================
// ClueListModel - read-only clue browser
// =============================================================================

// ClueListModel is the bubbletea model behind `crosswire clues`. Tab
// switches between clue lists, arrows move the cursor and s toggles
// showing solutions.
type ClueListModel struct {
	Puzzle *puz.Puzzle
	Lists  []string
	List   int
	Cursor int
	Offset int
	Height int
	Reveal bool
}

// NewClueListModel creates a browser over p's clue lists, starting on the
// list named start when it exists.
func NewClueListModel(p *puz.Puzzle, start string) ClueListModel {
	m := ClueListModel{Puzzle: p, Lists: p.ClueListNames(), Height: 15}
	for i, name := range m.Lists {
		if strings.EqualFold(name, start) {
			m.List = i
		}
	}
	return m
}

func (m ClueListModel) clues() []puz.Clue {
	if len(m.Lists) == 0 {
		return nil
	}
	return m.Puzzle.Clues(m.Lists[m.List]).Clues()
}

func (m ClueListModel) Init() tea.Cmd {
	return nil
}

func (m ClueListModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		n := len(m.clues())
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "up", "k":
			if m.Cursor > 0 {
				m.Cursor--
				if m.Cursor < m.Offset {
					m.Offset = m.Cursor
				}
			}
		case "down", "j":
			if m.Cursor < n-1 {
				m.Cursor++
				if m.Cursor >= m.Offset+m.Height {
					m.Offset = m.Cursor - m.Height + 1
				}
			}
		case "tab", "right", "l":
			if len(m.Lists) > 0 {
				m.List = (m.List + 1) % len(m.Lists)
				m.Cursor, m.Offset = 0, 0
			}
		case "shift+tab", "left", "h":
			if len(m.Lists) > 0 {
				m.List = (m.List + len(m.Lists) - 1) % len(m.Lists)
				m.Cursor, m.Offset = 0, 0
			}
		case "s":
			m.Reveal = !m.Reveal
		}
	case tea.WindowSizeMsg:
		m.Height = max(msg.Height-8, 5)
	}
	return m, nil
}

func (m ClueListModel) View() string {
	var b strings.Builder

	title := m.Puzzle.Title
	if title == "" {
		title = "Clues"
	}
	b.WriteString(StyleTitle.Render(title))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("↑/↓ navigate  ⇥ switch list  s solutions  q quit"))
	b.WriteString("\n\n")

	tabs := make([]string, len(m.Lists))
	for i, name := range m.Lists {
		if i == m.List {
			tabs[i] = listActiveTab.Render(name)
		} else {
			tabs[i] = listTabStyle.Render(name)
		}
	}
	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, tabs...))
	b.WriteString("\n\n")

	clues := m.clues()
	if len(clues) == 0 {
		b.WriteString(listDimStyle.Render("  no clues"))
		b.WriteString("\n")
		return b.String()
	}

	end := min(m.Offset+m.Height, len(clues))
	for i := m.Offset; i < end; i++ {
		b.WriteString(m.clueLine(clues[i], i == m.Cursor))
		b.WriteString("\n")
	}
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render(fmt.Sprintf("  [%d/%d]", m.Cursor+1, len(clues))))
	return b.String()
}

func (m ClueListModel) clueLine(c puz.Clue, current bool) string {
	cursor := "  "
	if current {
		cursor = "▸ "
	}
	line := fmt.Sprintf("%s%4s  %s", cursor, c.DisplayNumber(), c.Hint)
	if c.HasZone() {
		line += listDimStyle.Render(" " + m.answer(c))
	}
	if m.Puzzle.IsFlagged(c.ID) {
		line += StyleWarning.Render(" ⚑")
	}
	if current {
		return listSelectedStyle.Render(line)
	}
	return listNormalStyle.Render(line)
}

// answer renders the zone as the player's responses, or the solution when
// revealed. Empty cells show as underscores.
func (m ClueListModel) answer(c puz.Clue) string {
	var b strings.Builder
	for _, pos := range c.Zone {
		box := m.Puzzle.Box(pos)
		cell := ""
		if box != nil {
			cell = box.Response
			if m.Reveal {
				cell = box.Solution
			}
			if box.IsBlank() && !m.Reveal {
				cell = ""
			}
		}
		if strings.TrimSpace(cell) == "" {
			cell = "_"
		}
		b.WriteString(cell)
	}
	return b.String()
}
