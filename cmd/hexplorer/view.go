package main

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	overlay "github.com/rmhubbert/bubbletea-overlay"
)

// View renders the entire UI
func (m Model) View() string {
	// If the help overlay is showing, render it over the main view
	if m.showHelp {
		return m.renderHelpOverlay()
	}

	return lipgloss.JoinVertical(
		lipgloss.Left,
		m.renderHeader(),
		m.renderContent(),
		m.renderStatus(),
	)
}

// renderHeader renders the title line with the file name and size
func (m Model) renderHeader() string {
	title := headerStyle.Render("hexplorer")
	info := fmt.Sprintf("%s (%s, %s bytes, %d blocks)",
		m.path, m.kind, m.printer.Sprintf("%d", m.img.NumBytes()), m.img.NumBlocks())

	return lipgloss.JoinHorizontal(
		lipgloss.Top,
		title,
		lipgloss.NewStyle().Render("  "),
		pathStyle.Render(info),
	)
}

// renderContent renders the hex grid with the inspector beside it
func (m Model) renderContent() string {
	gridBox := paneStyle.Render(lipgloss.JoinVertical(
		lipgloss.Left,
		paneTitleStyle.Render("Data"),
		m.renderGrid(),
	))

	// Narrow windows drop the inspector rather than wrapping the grid
	if m.width < 80 {
		return gridBox
	}

	inspectorBox := paneStyle.Width(inspectorWidth).Render(lipgloss.JoinVertical(
		lipgloss.Left,
		paneTitleStyle.Render("Inspector"),
		m.renderInspector(),
	))

	return lipgloss.JoinHorizontal(lipgloss.Top, gridBox, inspectorBox)
}

// renderStatus renders the bottom bar: input prompt, transient message, or
// help hints plus cursor stats
func (m Model) renderStatus() string {
	switch m.inputMode {
	case SearchMode:
		prompt := searchPromptStyle.Render(fmt.Sprintf("Search (%s): ", queryKindName(m.searchKind))) +
			m.inputBuffer + "█" +
			helpStyle.Render("   tab: mode │ enter: run │ esc: cancel")
		return statusStyle.Width(m.width).Render(prompt)
	case JumpMode:
		prompt := searchPromptStyle.Render("Jump to address: 0x") + m.inputBuffer + "█"
		return statusStyle.Width(m.width).Render(prompt)
	case EditMode:
		prompt := searchPromptStyle.Render(fmt.Sprintf("Edit %s: ", formatAddr(m.cursor))) + m.editBuf + "█"
		return statusStyle.Width(m.width).Render(prompt)
	}

	// A transient message takes priority over the normal help line
	if m.statusMessage != "" {
		return statusStyle.Width(m.width).Render(
			searchPromptStyle.Render(m.statusMessage),
		)
	}

	var help strings.Builder
	help.WriteString(helpStyle.Render("/: Search"))
	help.WriteString(" │ ")
	help.WriteString(helpStyle.Render("g: Jump"))
	help.WriteString(" │ ")
	if len(m.matches) > 0 {
		help.WriteString(helpStyle.Render("n/N: Next/Prev"))
		help.WriteString(" │ ")
	}
	help.WriteString(helpStyle.Render("v: Select"))
	help.WriteString(" │ ")
	help.WriteString(helpStyle.Render("c: Copy"))
	help.WriteString(" │ ")
	help.WriteString(helpStyle.Render("ctrl+s: Save"))
	help.WriteString(" │ ")
	help.WriteString(helpStyle.Render("?: Help"))
	help.WriteString(" │ ")
	help.WriteString(helpStyle.Render("q: Quit"))

	var stats strings.Builder
	stats.WriteString(statusCountStyle.Render(formatAddr(m.cursor)))
	if v, ok := m.img.ReadByte(m.cursor); ok {
		stats.WriteString(fmt.Sprintf(" = 0x%02X", v))
	} else {
		stats.WriteString(" = --")
	}

	if lo, hi, ok := m.selection(); ok {
		stats.WriteString(" │ ")
		stats.WriteString(m.printer.Sprintf("%d selected", uint64(hi)-uint64(lo)+1))
	}

	if m.query != "" {
		stats.WriteString(" │ ")
		if len(m.matches) > 0 {
			stats.WriteString(searchPromptStyle.Render(fmt.Sprintf("%d/%d matches", m.matchIdx+1, len(m.matches))))
		} else {
			stats.WriteString(searchPromptStyle.Render("0 matches"))
		}
	}

	stats.WriteString(" │ ")
	stats.WriteString(m.endianName())
	stats.WriteString(" │ ")
	stats.WriteString(m.charset.String())

	if m.dirty {
		stats.WriteString(" ")
		stats.WriteString(dirtyStyle.Render("[modified]"))
	}

	statusLine := lipgloss.JoinHorizontal(
		lipgloss.Top,
		help.String(),
		lipgloss.NewStyle().Width(6).Render(""), // Spacer
		stats.String(),
	)

	return statusStyle.
		Width(m.width).
		Render(statusLine)
}

// renderHelpOverlay floats the shortcut reference over the main view
func (m Model) renderHelpOverlay() string {
	help := &helpModel{keys: m.keys}
	return overlay.New(
		help,
		NewMainViewModel(&m),
		overlay.Center,
		overlay.Center,
		0,
		0,
	).View()
}

// helpModel is a static tea.Model so the help box can ride the overlay
// package over the main view
type helpModel struct {
	keys KeyMap
}

func (h *helpModel) Init() tea.Cmd { return nil }

func (h *helpModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) { return h, nil }

func (h *helpModel) View() string {
	var b strings.Builder

	b.WriteString(modalTitleStyle.Render("Keyboard Shortcuts"))
	b.WriteString("\n\n")

	section := func(title string, bindings ...key.Binding) {
		b.WriteString(modalTitleStyle.Render(title))
		b.WriteByte('\n')
		for _, kb := range bindings {
			b.WriteString(helpKeyStyle.Width(12).Render(kb.Help().Key))
			b.WriteString("  ")
			b.WriteString(helpDescStyle.Render(kb.Help().Desc))
			b.WriteByte('\n')
		}
		b.WriteByte('\n')
	}

	section("Navigation",
		h.keys.Up, h.keys.Down, h.keys.Left, h.keys.Right,
		h.keys.PageUp, h.keys.PageDown, h.keys.Home, h.keys.End)
	section("Search",
		h.keys.Search, h.keys.NextMatch, h.keys.PrevMatch, h.keys.Jump)
	section("Editing",
		h.keys.Select, h.keys.Copy, h.keys.Restore, h.keys.Save)
	section("View",
		h.keys.Endian, h.keys.Charset, h.keys.Help, h.keys.Quit)

	b.WriteString(helpDescStyle.Render("Type 0-9 or shift+A-F on a byte to edit it."))
	b.WriteString("\n\n")
	b.WriteString(helpStyle.Render("Press Esc, ?, or q to close this help"))

	return modalStyle.Width(46).Render(b.String())
}
