package main

import (
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// handleSearchInput handles keys while the search prompt is open
func (m Model) handleSearchInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		// Cancel without touching the previous query
		m.inputMode = NormalMode
		m.inputBuffer = ""
		return m, nil

	case tea.KeyTab:
		// Cycle text → hex → regex
		m.searchKind = nextQueryKind(m.searchKind)
		return m, nil

	case tea.KeyEnter:
		query := m.inputBuffer
		m.inputMode = NormalMode
		m.inputBuffer = ""
		return m.runSearch(query, m.searchKind)

	case tea.KeyBackspace, tea.KeyDelete:
		if len(m.inputBuffer) > 0 {
			m.inputBuffer = m.inputBuffer[:len(m.inputBuffer)-1]
		}
		return m, nil

	case tea.KeySpace:
		m.inputBuffer += " "
		return m, nil

	case tea.KeyRunes:
		m.inputBuffer += string(msg.Runes)
		return m, nil
	}

	return m, nil
}

// handleJumpInput handles keys while the jump-to-address prompt is open
func (m Model) handleJumpInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		m.inputMode = NormalMode
		m.inputBuffer = ""
		return m, nil

	case tea.KeyEnter:
		input := m.inputBuffer
		m.inputMode = NormalMode
		m.inputBuffer = ""
		return m.handleJumpTo(input)

	case tea.KeyBackspace, tea.KeyDelete:
		if len(m.inputBuffer) > 0 {
			m.inputBuffer = m.inputBuffer[:len(m.inputBuffer)-1]
		}
		return m, nil

	case tea.KeyRunes:
		m.inputBuffer += string(msg.Runes)
		return m, nil
	}

	return m, nil
}

// handleJumpTo moves the cursor to a parsed hex address, clamped into the
// image span
func (m Model) handleJumpTo(input string) (tea.Model, tea.Cmd) {
	if input == "" {
		return m, nil
	}

	addr, err := parseHexAddr(input)
	if err != nil {
		m.statusMessage = fmt.Sprintf("Invalid address %q", input)
		return m, clearStatusAfter(2 * time.Second)
	}

	if m.img.NumBlocks() == 0 {
		m.statusMessage = "Image holds no data"
		return m, clearStatusAfter(2 * time.Second)
	}

	m.setCursor(addr)
	m.statusMessage = fmt.Sprintf("Jumped to %s", formatAddr(m.cursor))
	return m, clearStatusAfter(2 * time.Second)
}

// handleEditInput handles the second nibble of a byte edit
func (m Model) handleEditInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		m.inputMode = NormalMode
		m.editBuf = ""
		return m, nil

	case tea.KeyRunes:
		if len(msg.Runes) == 1 && isHexRune(msg.Runes[0]) {
			return m.commitEdit(msg.Runes[0])
		}
	}

	// Anything else keeps the pending nibble on screen
	return m, nil
}
