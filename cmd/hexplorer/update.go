package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/joshuapare/hexkit/cmd/hexplorer/logger"
	"github.com/joshuapare/hexkit/ihex"
)

// Update handles all messages and updates the model
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		// If help is showing, handle help keys
		if m.showHelp {
			if key.Matches(msg, m.keys.Esc) || key.Matches(msg, m.keys.Help) || key.Matches(msg, m.keys.Quit) {
				m.showHelp = false
				return m, nil
			}
			// Ignore other keys when help is showing
			return m, nil
		}

		// Handle input modes (search, jump, edit)
		switch m.inputMode {
		case SearchMode:
			return m.handleSearchInput(msg)
		case JumpMode:
			return m.handleJumpInput(msg)
		case EditMode:
			return m.handleEditInput(msg)
		}

		return m.handleNormalKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.ensureCursorVisible()
		return m, nil

	case clearStatusMsg:
		m.statusMessage = ""
		return m, nil
	}

	return m, nil
}

// handleNormalKey dispatches a key press in normal (non-input) mode
func (m Model) handleNormalKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		logger.Info("quitting", "dirty", m.dirty)
		return m, tea.Quit

	// Esc peels back one layer of state: selection first, then search
	case key.Matches(msg, m.keys.Esc):
		switch {
		case m.selecting:
			m.selecting = false
			m.statusMessage = "Selection cleared"
		case m.query != "":
			m.query = ""
			m.matches = nil
			m.matchIdx = 0
			m.statusMessage = "Search cleared"
		default:
			m.statusMessage = ""
			return m, nil
		}
		return m, clearStatusAfter(2 * time.Second)

	case key.Matches(msg, m.keys.Search):
		m.inputMode = SearchMode
		m.inputBuffer = ""
		return m, nil

	case key.Matches(msg, m.keys.Jump):
		m.inputMode = JumpMode
		m.inputBuffer = ""
		return m, nil

	case key.Matches(msg, m.keys.NextMatch):
		return m.handleNextMatch()

	case key.Matches(msg, m.keys.PrevMatch):
		return m.handlePrevMatch()

	case key.Matches(msg, m.keys.Help):
		m.showHelp = true
		return m, nil

	case key.Matches(msg, m.keys.Select):
		if m.selecting {
			m.selecting = false
			return m, nil
		}
		m.selecting = true
		m.selStart = m.cursor
		return m, nil

	case key.Matches(msg, m.keys.Copy):
		return m.handleCopy()

	case key.Matches(msg, m.keys.Endian):
		m.bigEndian = !m.bigEndian
		return m, nil

	case key.Matches(msg, m.keys.Charset):
		if m.charset == charsetASCII {
			m.charset = charsetCP1252
		} else {
			m.charset = charsetASCII
		}
		return m, nil

	case key.Matches(msg, m.keys.Restore):
		return m.handleRestore()

	case key.Matches(msg, m.keys.Save):
		return m.handleSave()

	// Navigation
	case key.Matches(msg, m.keys.Up):
		m.moveCursor(-int64(m.cfg.BytesPerRow))
		return m, nil
	case key.Matches(msg, m.keys.Down):
		m.moveCursor(int64(m.cfg.BytesPerRow))
		return m, nil
	case key.Matches(msg, m.keys.Left):
		m.moveCursor(-1)
		return m, nil
	case key.Matches(msg, m.keys.Right):
		m.moveCursor(1)
		return m, nil
	case key.Matches(msg, m.keys.PageUp):
		m.moveCursor(-int64(m.cfg.BytesPerRow) * int64(m.gridRows()))
		return m, nil
	case key.Matches(msg, m.keys.PageDown):
		m.moveCursor(int64(m.cfg.BytesPerRow) * int64(m.gridRows()))
		return m, nil
	case key.Matches(msg, m.keys.Home):
		if lo, ok := m.img.MinAddr(); ok {
			m.cursor = lo
			m.ensureCursorVisible()
		}
		return m, nil
	case key.Matches(msg, m.keys.End):
		if hi, ok := m.img.MaxAddr(); ok {
			m.cursor = hi
			m.ensureCursorVisible()
		}
		return m, nil
	}

	// An uppercase hex digit (or 0-9) on a defined byte starts an edit;
	// lowercase a-f stay free for commands
	if msg.Type == tea.KeyRunes && len(msg.Runes) == 1 && isEditStartRune(msg.Runes[0]) {
		return m.beginEdit(msg.Runes[0])
	}

	return m, nil
}

// handleCopy puts the selection (or the cursor byte) on the clipboard as
// spaced uppercase hex
func (m Model) handleCopy() (tea.Model, tea.Cmd) {
	lo, hi, ok := m.selection()
	if !ok {
		lo, hi = m.cursor, m.cursor
	}

	n := int(hi-lo) + 1
	if n > maxCopyBytes {
		m.statusMessage = fmt.Sprintf("Selection too large to copy (%d bytes, max %d)", n, maxCopyBytes)
		return m, clearStatusAfter(2 * time.Second)
	}

	text := hexCellText(m.img.ReadRangeSafe(lo, n))
	if err := clipboard.WriteAll(text); err != nil {
		logger.Warn("clipboard write failed", "error", err)
		m.statusMessage = "Clipboard unavailable"
		return m, clearStatusAfter(2 * time.Second)
	}

	m.statusMessage = fmt.Sprintf("✓ Copied %d byte(s)", n)
	return m, clearStatusAfter(2 * time.Second)
}

// maxCopyBytes caps clipboard copies; a stray End-selection over a sparse
// image could otherwise try to format gigabytes
const maxCopyBytes = 64 * 1024

// hexCellText renders cells as spaced uppercase hex, gaps as "--"
func hexCellText(cells []ihex.Cell) string {
	parts := make([]string, len(cells))
	for i, c := range cells {
		if c.Defined {
			parts[i] = fmt.Sprintf("%02X", c.Value)
		} else {
			parts[i] = "--"
		}
	}
	return strings.Join(parts, " ")
}

// handleSave writes the image back to its file in the serialization it was
// loaded from
func (m Model) handleSave() (tea.Model, tea.Cmd) {
	var err error
	if m.kind == kindBin {
		err = m.img.WriteBinFile(m.path, m.cfg.GapFill)
	} else {
		err = m.img.WriteHexFile(m.path)
	}
	if err != nil {
		logger.Error("save failed", "path", m.path, "error", err)
		m.statusMessage = fmt.Sprintf("Save failed: %v", err)
		return m, clearStatusAfter(3 * time.Second)
	}

	logger.Info("saved", "path", m.path, "bytes", m.img.NumBytes())
	m.dirty = false
	m.originals = make(map[uint32]byte)
	m.statusMessage = fmt.Sprintf("✓ Saved %s", m.path)
	return m, clearStatusAfter(2 * time.Second)
}
