package main

import (
	"fmt"
	"math"
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"

	"github.com/joshuapare/hexkit/ihex"
)

// renderGrid renders the visible window of the hex grid, one row per line
func (m Model) renderGrid() string {
	if m.img.NumBlocks() == 0 {
		return gapStyle.Render("(image holds no data)")
	}

	per := m.cfg.BytesPerRow
	hi, _ := m.img.MaxAddr()
	lastRow := uint64(rowStart(hi, per))

	var rows []string
	for r := 0; r < m.gridRows(); r++ {
		rowAddr := uint64(m.top) + uint64(r*per)
		if rowAddr > lastRow || rowAddr > math.MaxUint32 {
			break
		}
		rows = append(rows, m.renderGridRow(uint32(rowAddr)))
	}

	return strings.Join(rows, "\n")
}

// renderGridRow renders one row: address column, hex cells, char gutter
func (m Model) renderGridRow(rowAddr uint32) string {
	per := m.cfg.BytesPerRow
	cells := m.img.ReadRangeSafe(rowAddr, per)

	var hexCol strings.Builder
	var gutter strings.Builder
	for i := 0; i < per; i++ {
		if i > 0 {
			hexCol.WriteByte(' ')
			if i%8 == 0 {
				hexCol.WriteByte(' ')
			}
		}
		if i >= len(cells) {
			// Clipped at the top of the address space
			hexCol.WriteString("  ")
			gutter.WriteByte(' ')
			continue
		}

		addr := rowAddr + uint32(i)
		hexCol.WriteString(m.styleCell(addr, cells[i], false))
		gutter.WriteString(m.styleCell(addr, cells[i], true))
	}

	return addrStyle.Render(formatAddr(rowAddr)) + "  " + hexCol.String() + "  " + gutter.String()
}

// styleCell renders one byte as a hex cell or gutter char with the
// highlight appropriate for its state
func (m Model) styleCell(addr uint32, c ihex.Cell, gutter bool) string {
	var text string
	switch {
	case gutter && !c.Defined:
		text = "."
	case gutter:
		text = string(m.gutterRune(c.Value))
	case !c.Defined:
		text = "--"
	case m.inputMode == EditMode && addr == m.cursor:
		text = m.editBuf + "_"
	default:
		text = fmt.Sprintf("%02X", c.Value)
	}

	// Cursor wins over selection, selection over match highlight
	style := cellStyle
	switch {
	case addr == m.cursor:
		style = cursorStyle
	case m.inSelection(addr):
		style = selectionStyle
	case m.matchAt(addr):
		style = matchStyle
	case m.edited(addr):
		style = editedStyle
	case !c.Defined:
		style = gapStyle
	}

	return style.Render(text)
}

// inSelection reports whether addr is inside the active selection
func (m *Model) inSelection(addr uint32) bool {
	lo, hi, ok := m.selection()
	return ok && addr >= lo && addr <= hi
}

// gutterRune decodes one byte for the char gutter under the active charset
func (m Model) gutterRune(b byte) rune {
	if m.charset == charsetCP1252 {
		r := charmap.Windows1252.DecodeByte(b)
		if r == utf8.RuneError || !unicode.IsPrint(r) {
			return '.'
		}
		return r
	}

	if b >= 0x20 && b <= 0x7E {
		return rune(b)
	}
	return '.'
}
