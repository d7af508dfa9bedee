package main

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/joshuapare/hexkit/ihex"
)

// TestInitialCursorAtMinAddr verifies the cursor opens on the first mapped byte
func TestInitialCursorAtMinAddr(t *testing.T) {
	helper := NewTestHelper(testImage())
	helper.SendWindowSize(120, 40)

	if got := helper.Cursor(); got != 0x100 {
		t.Errorf("Initial cursor should be at 0x100, got 0x%X", got)
	}

	model := helper.GetModel()
	if model.top != 0x100 {
		t.Errorf("Window top should start on the cursor row, got 0x%X", model.top)
	}
}

// TestRowAndByteMovement covers the four arrow directions
func TestRowAndByteMovement(t *testing.T) {
	helper := NewTestHelper(testImage())
	helper.SendWindowSize(120, 40)

	helper.SendKey(tea.KeyDown)
	if got := helper.Cursor(); got != 0x110 {
		t.Errorf("Down should move one row to 0x110 (into the gap is fine), got 0x%X", got)
	}

	helper.SendKey(tea.KeyUp)
	if got := helper.Cursor(); got != 0x100 {
		t.Errorf("Up should move back to 0x100, got 0x%X", got)
	}

	helper.SendKey(tea.KeyRight)
	if got := helper.Cursor(); got != 0x101 {
		t.Errorf("Right should move to 0x101, got 0x%X", got)
	}

	helper.SendKey(tea.KeyLeft)
	if got := helper.Cursor(); got != 0x100 {
		t.Errorf("Left should move back to 0x100, got 0x%X", got)
	}
}

// TestMovementClampsToImageSpan verifies the cursor never leaves [min, max]
func TestMovementClampsToImageSpan(t *testing.T) {
	helper := NewTestHelper(testImage())
	helper.SendWindowSize(120, 40)

	t.Log("Up and Left at the first byte stay put")
	helper.SendKey(tea.KeyUp)
	helper.SendKey(tea.KeyLeft)
	if got := helper.Cursor(); got != 0x100 {
		t.Errorf("Cursor should stay clamped at 0x100, got 0x%X", got)
	}

	t.Log("End jumps to the last byte, Down and Right stay put there")
	helper.SendKey(tea.KeyEnd)
	if got := helper.Cursor(); got != 0x203 {
		t.Fatalf("End should land on 0x203, got 0x%X", got)
	}
	helper.SendKey(tea.KeyDown)
	helper.SendKey(tea.KeyRight)
	if got := helper.Cursor(); got != 0x203 {
		t.Errorf("Cursor should stay clamped at 0x203, got 0x%X", got)
	}

	helper.SendKey(tea.KeyHome)
	if got := helper.Cursor(); got != 0x100 {
		t.Errorf("Home should return to 0x100, got 0x%X", got)
	}
}

// TestPageMovement verifies paging moves a full window and clamps
func TestPageMovement(t *testing.T) {
	helper := NewTestHelper(testImage())
	helper.SendWindowSize(120, 40) // 32 grid rows

	helper.SendKey(tea.KeyPgDown)
	if got := helper.Cursor(); got != 0x203 {
		t.Errorf("PgDown past the end should clamp to 0x203, got 0x%X", got)
	}

	helper.SendKey(tea.KeyPgUp)
	if got := helper.Cursor(); got != 0x100 {
		t.Errorf("PgUp past the start should clamp to 0x100, got 0x%X", got)
	}
}

// TestScrollFollowsCursor verifies the window top tracks the cursor row
func TestScrollFollowsCursor(t *testing.T) {
	helper := NewTestHelper(testImage())
	helper.SendWindowSize(120, 12) // 4 grid rows

	for i := 0; i < 5; i++ {
		helper.SendKey(tea.KeyDown)
	}

	model := helper.GetModel()
	if got := helper.Cursor(); got != 0x150 {
		t.Fatalf("Cursor should be at 0x150 after five rows down, got 0x%X", got)
	}
	if model.top != 0x120 {
		t.Errorf("Top should have scrolled to 0x120 to keep the cursor on the last row, got 0x%X", model.top)
	}

	t.Log("Moving back up above the window scrolls the top with it")
	for i := 0; i < 5; i++ {
		helper.SendKey(tea.KeyUp)
	}
	model = helper.GetModel()
	if model.top != 0x100 {
		t.Errorf("Top should follow the cursor back to 0x100, got 0x%X", model.top)
	}
}

// TestJumpToAddress covers the 'g' prompt: parse, clamp, recenter
func TestJumpToAddress(t *testing.T) {
	helper := NewTestHelper(testImage())
	helper.SendWindowSize(120, 40)

	helper.SendKeyRune('g')
	if helper.GetModel().inputMode != JumpMode {
		t.Fatal("'g' should open the jump prompt")
	}

	helper.SendText("1F0")
	helper.SendKey(tea.KeyEnter)

	model := helper.GetModel()
	if model.inputMode != NormalMode {
		t.Fatal("Enter should close the jump prompt")
	}
	if got := helper.Cursor(); got != 0x1F0 {
		t.Errorf("Cursor should land on 0x1F0, got 0x%X", got)
	}
	if !strings.Contains(model.statusMessage, "0x0000_01F0") {
		t.Errorf("Status should name the target address, got %q", model.statusMessage)
	}
}

// TestJumpClampsOutOfRangeAddresses verifies jumps outside the span clamp
func TestJumpClampsOutOfRangeAddresses(t *testing.T) {
	helper := NewTestHelper(testImage())
	helper.SendWindowSize(120, 40)

	helper.SendKeyRune('g')
	helper.SendText("0x50")
	helper.SendKey(tea.KeyEnter)
	if got := helper.Cursor(); got != 0x100 {
		t.Errorf("Jump below min should clamp to 0x100, got 0x%X", got)
	}

	helper.SendKeyRune('g')
	helper.SendText("FFFF")
	helper.SendKey(tea.KeyEnter)
	if got := helper.Cursor(); got != 0x203 {
		t.Errorf("Jump above max should clamp to 0x203, got 0x%X", got)
	}
}

// TestJumpRejectsGarbage verifies a bad address reports and stays put
func TestJumpRejectsGarbage(t *testing.T) {
	helper := NewTestHelper(testImage())
	helper.SendWindowSize(120, 40)

	helper.SendKeyRune('g')
	helper.SendText("wat")
	helper.SendKey(tea.KeyEnter)

	model := helper.GetModel()
	if got := helper.Cursor(); got != 0x100 {
		t.Errorf("Cursor should not move on a bad address, got 0x%X", got)
	}
	if !strings.Contains(model.statusMessage, "Invalid address") {
		t.Errorf("Status should flag the bad address, got %q", model.statusMessage)
	}
}

// TestJumpEscCancels verifies Esc closes the prompt without moving
func TestJumpEscCancels(t *testing.T) {
	helper := NewTestHelper(testImage())
	helper.SendWindowSize(120, 40)

	helper.SendKeyRune('g')
	helper.SendText("200")
	helper.SendKey(tea.KeyEsc)

	model := helper.GetModel()
	if model.inputMode != NormalMode {
		t.Error("Esc should leave the jump prompt")
	}
	if got := helper.Cursor(); got != 0x100 {
		t.Errorf("Cursor should not move on cancel, got 0x%X", got)
	}
	if model.inputBuffer != "" {
		t.Errorf("Input buffer should be cleared, got %q", model.inputBuffer)
	}
}

// TestEmptyImageMovementIsNoOp verifies movement on an empty image does nothing
func TestEmptyImageMovementIsNoOp(t *testing.T) {
	helper := NewTestHelper(ihex.New())
	helper.SendWindowSize(120, 40)

	helper.SendKey(tea.KeyDown)
	helper.SendKey(tea.KeyEnd)
	if got := helper.Cursor(); got != 0 {
		t.Errorf("Cursor should stay at 0 on an empty image, got 0x%X", got)
	}

	if view := helper.GetView(); !strings.Contains(view, "image holds no data") {
		t.Error("View should say the image holds no data")
	}
}
