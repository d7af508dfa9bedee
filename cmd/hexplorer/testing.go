package main

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/joshuapare/hexkit/ihex"
)

// TestHelper provides utilities for driving the TUI in tests
type TestHelper struct {
	model Model
}

// NewTestHelper creates a test helper over an in-memory image
func NewTestHelper(img *ihex.Image) *TestHelper {
	return &TestHelper{
		model: NewModel(img, "test.hex", kindHex, DefaultConfig()),
	}
}

// SendKey simulates a special key press
func (h *TestHelper) SendKey(keyType tea.KeyType) *TestHelper {
	msg := tea.KeyMsg{Type: keyType}
	updated, _ := h.model.Update(msg)
	h.model = updated.(Model)
	return h
}

// SendKeyRune simulates a character key press
func (h *TestHelper) SendKeyRune(r rune) *TestHelper {
	msg := tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}}
	updated, _ := h.model.Update(msg)
	h.model = updated.(Model)
	return h
}

// SendText simulates typing a string one rune at a time
func (h *TestHelper) SendText(s string) *TestHelper {
	for _, r := range s {
		if r == ' ' {
			h.SendKey(tea.KeySpace)
			continue
		}
		h.SendKeyRune(r)
	}
	return h
}

// SendWindowSize simulates a window resize
func (h *TestHelper) SendWindowSize(width, height int) *TestHelper {
	msg := tea.WindowSizeMsg{Width: width, Height: height}
	updated, _ := h.model.Update(msg)
	h.model = updated.(Model)
	return h
}

// GetModel returns the current model
func (h *TestHelper) GetModel() Model {
	return h.model
}

// GetView returns the rendered view
func (h *TestHelper) GetView() string {
	return h.model.View()
}

// Cursor returns the current cursor address
func (h *TestHelper) Cursor() uint32 {
	return h.model.cursor
}

// testImage builds a small sparse image: "Hello, hex!" at 0x100 and four
// bytes at 0x200
func testImage() *ihex.Image {
	img := ihex.New()
	img.AddBinary(0x100, []byte("Hello, hex!"))
	img.AddBinary(0x200, []byte{0x01, 0x02, 0x03, 0x04})
	return img
}
