package main

import (
	"fmt"
	"strconv"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/joshuapare/hexkit/cmd/hexplorer/logger"
)

// isEditStartRune reports whether r starts a byte edit from normal mode.
// Lowercase a-f stay free for commands, so edits start with 0-9 or
// uppercase A-F.
func isEditStartRune(r rune) bool {
	return (r >= '0' && r <= '9') || (r >= 'A' && r <= 'F')
}

// isHexRune reports whether r is any hex digit
func isHexRune(r rune) bool {
	return (r >= '0' && r <= '9') || (r >= 'a' && r <= 'f') || (r >= 'A' && r <= 'F')
}

// beginEdit opens the two-nibble edit buffer on the cursor byte
func (m Model) beginEdit(r rune) (tea.Model, tea.Cmd) {
	if _, ok := m.img.ReadByte(m.cursor); !ok {
		m.statusMessage = fmt.Sprintf("No data at %s", formatAddr(m.cursor))
		return m, clearStatusAfter(2 * time.Second)
	}

	m.inputMode = EditMode
	m.editBuf = string(r)
	return m, nil
}

// commitEdit applies the second nibble and writes the byte
func (m Model) commitEdit(r rune) (tea.Model, tea.Cmd) {
	buf := m.editBuf + string(r)
	m.inputMode = NormalMode
	m.editBuf = ""

	v, err := strconv.ParseUint(buf, 16, 8)
	if err != nil {
		return m, nil
	}

	addr := m.cursor
	old, ok := m.img.ReadByte(addr)
	if !ok {
		return m, nil
	}

	if uerr := m.img.UpdateByte(addr, byte(v)); uerr != nil {
		m.statusMessage = fmt.Sprintf("Edit failed: %v", uerr)
		return m, clearStatusAfter(2 * time.Second)
	}

	// Remember the loaded value the first time an address is touched, and
	// forget it again when an edit lands back on it
	orig, seen := m.originals[addr]
	if !seen {
		orig = old
		m.originals[addr] = old
	}
	if orig == byte(v) {
		delete(m.originals, addr)
	}
	m.dirty = len(m.originals) > 0

	logger.Debug("byte edited", "addr", addr, "old", old, "new", byte(v))
	m.rerunSearch()
	m.moveCursor(1)

	m.statusMessage = fmt.Sprintf("Set %s = 0x%02X", formatAddr(addr), byte(v))
	return m, clearStatusAfter(2 * time.Second)
}

// handleRestore puts every modified byte back to its loaded value
func (m Model) handleRestore() (tea.Model, tea.Cmd) {
	if len(m.originals) == 0 {
		m.statusMessage = "No modified bytes"
		return m, clearStatusAfter(2 * time.Second)
	}

	n := 0
	for addr, v := range m.originals {
		if err := m.img.UpdateByte(addr, v); err == nil {
			n++
		}
	}
	m.originals = make(map[uint32]byte)
	m.dirty = false
	m.rerunSearch()

	m.statusMessage = fmt.Sprintf("✓ Restored %d byte(s)", n)
	return m, clearStatusAfter(2 * time.Second)
}

// edited reports whether addr currently differs from its loaded value
func (m *Model) edited(addr uint32) bool {
	_, ok := m.originals[addr]
	return ok
}
