package main

import (
	"encoding/binary"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// inspectorWidth is the fixed width of the inspector side panel
const inspectorWidth = 30

// renderInspector interprets the bytes under the cursor as the common
// integer and float widths
func (m Model) renderInspector() string {
	var b strings.Builder

	write := func(label, value string) {
		b.WriteString(inspectorLabelStyle.Render(label))
		b.WriteString(inspectorValueStyle.Render(value))
		b.WriteByte('\n')
	}

	write("offset", formatAddr(m.cursor))
	b.WriteByte('\n')

	if raw, ok := m.img.ReadRange(m.cursor, 1); ok {
		write("u8", m.printer.Sprintf("%d", raw[0]))
		write("i8", m.printer.Sprintf("%d", int8(raw[0])))
		write("bin", fmt.Sprintf("%04b %04b", raw[0]>>4, raw[0]&0x0F))
	} else {
		write("u8", "--")
		write("i8", "--")
		write("bin", "--")
	}

	if raw, ok := m.img.ReadRange(m.cursor, 2); ok {
		v := m.byteOrder().Uint16(raw)
		write("u16", m.printer.Sprintf("%d", v))
		write("i16", m.printer.Sprintf("%d", int16(v)))
	} else {
		write("u16", "--")
		write("i16", "--")
	}

	if raw, ok := m.img.ReadRange(m.cursor, 4); ok {
		v := m.byteOrder().Uint32(raw)
		write("u32", m.printer.Sprintf("%d", v))
		write("i32", m.printer.Sprintf("%d", int32(v)))
		write("f32", strconv.FormatFloat(float64(math.Float32frombits(v)), 'g', -1, 32))
	} else {
		write("u32", "--")
		write("i32", "--")
		write("f32", "--")
	}

	if raw, ok := m.img.ReadRange(m.cursor, 8); ok {
		v := m.byteOrder().Uint64(raw)
		write("u64", m.printer.Sprintf("%d", v))
		write("i64", m.printer.Sprintf("%d", int64(v)))
		write("f64", strconv.FormatFloat(math.Float64frombits(v), 'g', -1, 64))
	} else {
		write("u64", "--")
		write("i64", "--")
		write("f64", "--")
	}

	b.WriteByte('\n')
	write("endian", m.endianName())
	write("charset", m.charset.String())

	return strings.TrimRight(b.String(), "\n")
}

// byteOrder returns the decoder matching the endian toggle
func (m Model) byteOrder() binary.ByteOrder {
	if m.bigEndian {
		return binary.BigEndian
	}
	return binary.LittleEndian
}

func (m Model) endianName() string {
	if m.bigEndian {
		return "big"
	}
	return "little"
}
