package cli

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// List styles
var (
	listSelectedStyle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	listNormalStyle   = lipgloss.NewStyle().Foreground(colorWhite)
	listDimStyle      = lipgloss.NewStyle().Foreground(colorDim)
	detailBoxStyle    = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(colorDim).Padding(0, 1)
)

// =============================================================================
// ToolListModel - Interactive tool browser
// =============================================================================

// ToolListModel is the bubbletea model of the tools browser: a scrolling
// list on the left and the selected tool's parameters on the right.
type ToolListModel struct {
	Tools  []ToolInfo
	Cursor int
	Height int
	Offset int
	Width  int
	filter string
	typing bool
}

// newToolListModel creates a browser over tools.
func newToolListModel(tools []ToolInfo) ToolListModel {
	return ToolListModel{Tools: tools, Height: 15, Width: 100}
}

func (m ToolListModel) Init() tea.Cmd {
	return nil
}

func (m ToolListModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if m.typing {
			return m.updateFilter(msg), nil
		}
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "/":
			m.typing = true
		case "up", "k":
			m.move(-1)
		case "down", "j":
			m.move(1)
		case "home", "g":
			m.Cursor, m.Offset = 0, 0
		case "end", "G":
			m.move(len(m.visible()))
		}
	case tea.WindowSizeMsg:
		m.Width = msg.Width
		m.Height = msg.Height - 6
		if m.Height < 5 {
			m.Height = 5
		}
	}
	return m, nil
}

func (m ToolListModel) updateFilter(msg tea.KeyMsg) ToolListModel {
	switch msg.Type {
	case tea.KeyEnter, tea.KeyEsc:
		m.typing = false
	case tea.KeyBackspace:
		if r := []rune(m.filter); len(r) > 0 {
			m.filter = string(r[:len(r)-1])
		}
	case tea.KeyRunes, tea.KeySpace:
		m.filter += string(msg.Runes)
	}
	m.Cursor, m.Offset = 0, 0
	return m
}

func (m *ToolListModel) move(delta int) {
	n := len(m.visible())
	if n == 0 {
		return
	}
	m.Cursor = max(0, min(n-1, m.Cursor+delta))
	if m.Cursor < m.Offset {
		m.Offset = m.Cursor
	}
	if m.Cursor >= m.Offset+m.Height {
		m.Offset = m.Cursor - m.Height + 1
	}
}

// visible returns the tools matching the filter.
func (m ToolListModel) visible() []ToolInfo {
	if m.filter == "" {
		return m.Tools
	}
	q := strings.ToLower(m.filter)
	var out []ToolInfo
	for _, t := range m.Tools {
		if strings.Contains(strings.ToLower(t.Endpoint+"/"+t.Name), q) {
			out = append(out, t)
		}
	}
	return out
}

// Selected returns the tool under the cursor.
func (m ToolListModel) Selected() (ToolInfo, bool) {
	tools := m.visible()
	if m.Cursor < 0 || m.Cursor >= len(tools) {
		return ToolInfo{}, false
	}
	return tools[m.Cursor], true
}

func (m ToolListModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render("MCP Tools"))
	b.WriteString("\n")
	help := "↑/↓ navigate  / filter  q quit"
	if m.typing || m.filter != "" {
		help = "filter: " + m.filter
		if m.typing {
			help += "▏"
		}
	}
	b.WriteString(listDimStyle.Render(help))
	b.WriteString("\n\n")

	tools := m.visible()
	end := min(m.Offset+m.Height, len(tools))

	var list strings.Builder
	lastEndpoint := ""
	for i := m.Offset; i < end; i++ {
		t := tools[i]
		if t.Endpoint != lastEndpoint {
			list.WriteString(styleHeader.Render(t.Endpoint))
			list.WriteString("\n")
			lastEndpoint = t.Endpoint
		}
		line := "  " + t.Name
		if i == m.Cursor {
			list.WriteString(listSelectedStyle.Render("▸ " + t.Name))
		} else {
			list.WriteString(listNormalStyle.Render(line))
		}
		list.WriteString("\n")
	}
	if len(tools) == 0 {
		list.WriteString(listDimStyle.Render("no matching tools"))
	}

	left := lipgloss.NewStyle().Width(32).Render(list.String())
	detail := ""
	if t, ok := m.Selected(); ok {
		detail = detailBoxStyle.Width(max(30, m.Width-38)).Render(toolDetail(t))
	}
	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, left, detail))
	b.WriteString("\n\n")
	b.WriteString(listDimStyle.Render(fmt.Sprintf("  [%d/%d]", min(m.Cursor+1, len(tools)), len(tools))))

	return b.String()
}

// toolDetail renders the description and parameters of one tool.
func toolDetail(t ToolInfo) string {
	var b strings.Builder
	b.WriteString(StyleTitle.Render(t.Endpoint + "/" + t.Name))
	b.WriteString("\n\n")
	b.WriteString(strings.TrimSpace(t.Description))
	b.WriteString("\n")
	if len(t.Params) == 0 {
		b.WriteString("\n")
		b.WriteString(StyleDim.Render("no parameters"))
		return b.String()
	}
	b.WriteString("\n")
	for _, p := range t.Params {
		name := StyleValue.Render(p.Name)
		if p.Required {
			name += StyleWarning.Render("*")
		}
		typ := ""
		if p.Type != "" {
			typ = " " + StyleDim.Render(p.Type)
		}
		b.WriteString(name + typ + "\n")
		if p.Description != "" {
			b.WriteString("  " + StyleDim.Render(firstLine(p.Description, 200)) + "\n")
		}
	}
	return b.String()
}
