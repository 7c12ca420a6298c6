package cli

import (
	"context"
	"fmt"
	"os"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/matzehuels/kinetree/pkg/assembly"
	"github.com/matzehuels/kinetree/pkg/graph"
)

// List styles
var (
	listSelectedStyle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	listNormalStyle   = lipgloss.NewStyle().Foreground(colorWhite)
	listDimStyle      = lipgloss.NewStyle().Foreground(colorDim)
)

// =============================================================================
// RootPickerModel - Interactive root part selection
// =============================================================================

// RootCandidate is one part offered as the root of the kinematic tree.
type RootCandidate struct {
	Name     string
	Label    string
	Joints   int  // distinct neighbors in the connectivity graph
	Grounded bool // grounded in the assembly
}

// RootPickerModel is the bubbletea model for interactive root selection.
type RootPickerModel struct {
	Candidates []RootCandidate
	Cursor     int
	Selected   *RootCandidate
	Height     int
	Offset     int
}

// NewRootPickerModel creates a picker with the cursor on the grounded part,
// or on the first candidate.
func NewRootPickerModel(candidates []RootCandidate) RootPickerModel {
	m := RootPickerModel{Candidates: candidates, Height: 15}
	for i, c := range candidates {
		if c.Grounded {
			m.Cursor = i
			m.Offset = max(0, i-m.Height+1)
			break
		}
	}
	return m
}

func (m RootPickerModel) Init() tea.Cmd {
	return nil
}

func (m RootPickerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
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
			if m.Cursor < len(m.Candidates)-1 {
				m.Cursor++
				if m.Cursor >= m.Offset+m.Height {
					m.Offset = m.Cursor - m.Height + 1
				}
			}
		case "enter":
			if len(m.Candidates) == 0 {
				return m, tea.Quit
			}
			c := m.Candidates[m.Cursor]
			m.Selected = &c
			return m, tea.Quit
		}
	case tea.WindowSizeMsg:
		m.Height = max(msg.Height-6, 5)
	}
	return m, nil
}

func (m RootPickerModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render("Select Root Part"))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("↑/↓ navigate  ⏎ select  q quit"))
	b.WriteString("\n\n")

	end := min(m.Offset+m.Height, len(m.Candidates))
	for i := m.Offset; i < end; i++ {
		c := m.Candidates[i]

		cursor := "  "
		if i == m.Cursor {
			cursor = "▸ "
		}
		mark := " "
		if c.Grounded {
			mark = StyleSuccess.Render("⏚")
		}
		detail := fmt.Sprintf("%d %s", c.Joints, plural(c.Joints, "joint", "joints"))
		if c.Label != "" && c.Label != c.Name {
			detail = c.Label + ", " + detail
		}

		line := fmt.Sprintf("%s%s %-24s  %s", cursor, mark, c.Name, listDimStyle.Render(detail))
		if i == m.Cursor {
			b.WriteString(listSelectedStyle.Render(line))
		} else {
			b.WriteString(listNormalStyle.Render(line))
		}
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(listDimStyle.Render(fmt.Sprintf("  [%d/%d]", min(m.Cursor+1, len(m.Candidates)), len(m.Candidates))))
	return b.String()
}

// =============================================================================
// Helpers
// =============================================================================

// rootCandidates lists the parts of the connectivity graph in part order.
func rootCandidates(a *assembly.Assembly) ([]RootCandidate, error) {
	g, grounded, err := graph.FromAssembly(a)
	if err != nil {
		return nil, err
	}
	var out []RootCandidate
	for _, n := range g.Nodes() {
		out = append(out, RootCandidate{
			Name:     n.Key,
			Label:    n.Part.Label,
			Joints:   g.Degree(n.Key),
			Grounded: n.Key == grounded,
		})
	}
	return out, nil
}

// pickRoot runs the picker on the terminal and returns the chosen part, or
// "" when the user quit.
func pickRoot(ctx context.Context, a *assembly.Assembly) (string, error) {
	candidates, err := rootCandidates(a)
	if err != nil {
		return "", err
	}

	p := tea.NewProgram(NewRootPickerModel(candidates), tea.WithContext(ctx), tea.WithOutput(os.Stderr))
	final, err := p.Run()
	if err != nil {
		return "", fmt.Errorf("root picker: %w", err)
	}
	if m, ok := final.(RootPickerModel); ok && m.Selected != nil {
		return m.Selected.Name, nil
	}
	return "", nil
}
