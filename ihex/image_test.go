package ihex

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

// --- parse ---

func TestParse_MinimalFile(t *testing.T) {
	im := New()
	err := im.Parse([]byte(":10010000214601360121470136007EFE09D2190140\n:00000001FF"))
	require.NoError(t, err)

	require.Equal(t, 1, im.NumBlocks())
	require.Equal(t, 16, im.NumBytes())

	blocks := im.Blocks()
	require.Equal(t, uint32(0x0100), blocks[0].Addr)
	require.Equal(t, []byte{
		0x21, 0x46, 0x01, 0x36, 0x01, 0x21, 0x47, 0x01,
		0x36, 0x00, 0x7E, 0xFE, 0x09, 0xD2, 0x19, 0x01,
	}, blocks[0].Data)

	lo, ok := im.MinAddr()
	require.True(t, ok)
	require.Equal(t, uint32(0x0100), lo)
	hi, ok := im.MaxAddr()
	require.True(t, ok)
	require.Equal(t, uint32(0x010F), hi)
}

func TestParse_AdjacentRecordsCoalesce(t *testing.T) {
	im := New()
	err := im.Parse([]byte(":020000000102FB\n:020002000304F5\n:00000001FF"))
	require.NoError(t, err)
	require.Equal(t, 1, im.NumBlocks())
	require.Equal(t, []Block{{Addr: 0, Data: []byte{1, 2, 3, 4}}}, im.Blocks())
}

func TestParse_ExtLinearOffset(t *testing.T) {
	im := New()
	err := im.Parse([]byte(":020000040001F9\n:0100000042BD\n:00000001FF"))
	require.NoError(t, err)

	v, ok := im.ReadByte(0x10000)
	require.True(t, ok)
	require.Equal(t, byte(0x42), v)
}

func TestParse_ExtSegmentOffset(t *testing.T) {
	// Segment 0x1000 scales by 16 to a 0x10000 offset.
	im := New()
	err := im.Parse([]byte(":020000021000EC\n:0100000042BD\n:00000001FF"))
	require.NoError(t, err)

	v, ok := im.ReadByte(0x10000)
	require.True(t, ok)
	require.Equal(t, byte(0x42), v)
}

func TestParse_OffsetAppliesOnlyForward(t *testing.T) {
	im := New()
	err := im.Parse([]byte(":0200100041426B\n:020000040001F9\n:0100000042BD\n:00000001FF"))
	require.NoError(t, err)

	require.Equal(t, 2, im.NumBlocks())
	v, ok := im.ReadByte(0x0010)
	require.True(t, ok)
	require.Equal(t, byte(0x41), v)
	_, ok = im.ReadByte(0x10010)
	require.False(t, ok)
}

func TestParse_EmptyDataRecordIsNoOp(t *testing.T) {
	im := New()
	err := im.Parse([]byte(":00010000FF\n:00000001FF"))
	require.NoError(t, err)
	require.Equal(t, 0, im.NumBlocks())
	_, ok := im.MinAddr()
	require.False(t, ok)
}

func TestParse_CRLFLineEndings(t *testing.T) {
	im := New()
	err := im.Parse([]byte(":0100000042BD\r\n:00000001FF\r\n"))
	require.NoError(t, err)
	require.Equal(t, 1, im.NumBlocks())
}

func TestParse_BlankLinesCountTowardLineNumbers(t *testing.T) {
	im := New()
	err := im.Parse([]byte("\n:0100000042BD\n\n:00000001FE"))

	var pErr *ParseError
	require.ErrorAs(t, err, &pErr)
	require.Equal(t, 4, pErr.Line)
	require.EqualError(t, err, "ihex: line 4: checksum mismatch: expected 0xFF, found 0xFE")
}

func TestParse_ChecksumFailureRejectsLine(t *testing.T) {
	// Same data record with one corrupted payload digit.
	im := New()
	err := im.Parse([]byte(":10010000224601360121470136007EFE09D2190140\n:00000001FF"))

	var ckErr *ChecksumError
	require.ErrorAs(t, err, &ckErr)
	require.Equal(t, byte(0x3F), ckErr.Want)
	require.Equal(t, byte(0x40), ckErr.Got)
}

func TestParse_OverlappingRecordFails(t *testing.T) {
	im := New()
	err := im.Parse([]byte(":0100000042BD\n:0100000042BD"))

	var pErr *ParseError
	require.ErrorAs(t, err, &pErr)
	require.Equal(t, 2, pErr.Line)
	var ovErr *OverlapError
	require.ErrorAs(t, err, &ovErr)
	require.Equal(t, uint32(0), ovErr.Addr)
}

func TestParse_StartRecordStoredVerbatim(t *testing.T) {
	im := New()
	err := im.Parse([]byte(":0400000512345678E3\n:0100000042BD\n:00000001FF"))
	require.NoError(t, err)
	require.Equal(t, []byte(":0400000512345678E3"), im.StartRecord())

	// The returned slice is a copy.
	im.StartRecord()[1] = 'X'
	require.Equal(t, []byte(":0400000512345678E3"), im.StartRecord())
}

func TestParse_DuplicateStartRecordFails(t *testing.T) {
	im := New()
	err := im.Parse([]byte(":0400000512345678E3\n:0400000500000100F6"))

	var pErr *ParseError
	require.ErrorAs(t, err, &pErr)
	require.Equal(t, 2, pErr.Line)
	require.ErrorIs(t, err, ErrDuplicateStartAddr)
}

func TestParse_DataPastAddressCeiling(t *testing.T) {
	im := New()
	err := im.Parse([]byte(":02000004FFFFFC\n:10FFF80000000000000000000000000000000000F9"))

	var pErr *ParseError
	require.ErrorAs(t, err, &pErr)
	require.Equal(t, 2, pErr.Line)
	require.ErrorIs(t, err, ErrAddressCeiling)
}

// --- loaders ---

func TestOpenHex(t *testing.T) {
	path := filepath.Join(t.TempDir(), "fw.hex")
	body := []byte(":0100000042BD\n:00000001FF")
	require.NoError(t, os.WriteFile(path, body, 0o644))

	im, err := OpenHex(path)
	require.NoError(t, err)
	require.Equal(t, path, im.SourcePath)
	require.Equal(t, len(body), im.SourceSize)
	require.Equal(t, 1, im.NumBytes())
}

func TestOpenHex_MissingFile(t *testing.T) {
	_, err := OpenHex(filepath.Join(t.TempDir(), "nope.hex"))
	require.Error(t, err)
}

func TestOpenHex_Fixture(t *testing.T) {
	im, err := OpenHex(filepath.Join("testdata", "basic.hex"))
	require.NoError(t, err)

	require.Equal(t, 32, im.NumBytes())
	require.Equal(t, 1, im.NumBlocks())

	lo, ok := im.MinAddr()
	require.True(t, ok)
	require.Equal(t, uint32(0x0800_0000), lo)

	v, ok := im.ReadByte(0x0800_001F)
	require.True(t, ok)
	require.Equal(t, byte(0x1F), v)
}

func TestOpenBin(t *testing.T) {
	path := filepath.Join(t.TempDir(), "fw.bin")
	require.NoError(t, os.WriteFile(path, []byte{0xDE, 0xAD, 0xBE, 0xEF}, 0o644))

	im, err := OpenBin(path, 0x8000)
	require.NoError(t, err)
	require.Equal(t, []Block{{Addr: 0x8000, Data: []byte{0xDE, 0xAD, 0xBE, 0xEF}}}, im.Blocks())
	require.Equal(t, 4, im.SourceSize)
}

func TestLoadHex_ResetsPreviousContents(t *testing.T) {
	path := filepath.Join(t.TempDir(), "fw.hex")
	require.NoError(t, os.WriteFile(path, []byte(":0100000042BD\n:00000001FF"), 0o644))

	im := New()
	require.NoError(t, im.AddBinary(0x9000, []byte{1, 2, 3}))
	require.NoError(t, im.LoadHex(path))
	require.Equal(t, 1, im.NumBytes())
	_, ok := im.ReadByte(0x9000)
	require.False(t, ok)
}

func TestAddBinary(t *testing.T) {
	im := New()
	require.NoError(t, im.AddBinary(0x100, []byte{1, 2}))
	require.NoError(t, im.AddBinary(0x102, []byte{3, 4}))
	require.Equal(t, []Block{{Addr: 0x100, Data: []byte{1, 2, 3, 4}}}, im.Blocks())

	err := im.AddBinary(0x101, []byte{9})
	var ovErr *OverlapError
	require.ErrorAs(t, err, &ovErr)
}

func TestClear(t *testing.T) {
	im := New()
	require.NoError(t, im.Parse([]byte(":0400000512345678E3\n:020000040001F9\n:0100000042BD\n:00000001FF")))
	im.SourcePath = "x.hex"
	im.SourceSize = 40

	im.Clear()
	require.Equal(t, 0, im.NumBlocks())
	require.Nil(t, im.StartRecord())
	require.Empty(t, im.SourcePath)
	require.Zero(t, im.SourceSize)

	// The running extended offset resets too.
	require.NoError(t, im.Parse([]byte(":0100000042BD")))
	_, ok := im.ReadByte(0)
	require.True(t, ok)
}

// --- reads ---

func TestReadByte(t *testing.T) {
	im := New()
	require.NoError(t, im.AddBinary(0x100, []byte{0xAA, 0xBB}))

	v, ok := im.ReadByte(0x101)
	require.True(t, ok)
	require.Equal(t, byte(0xBB), v)

	_, ok = im.ReadByte(0x102)
	require.False(t, ok)
	_, ok = im.ReadByte(0xFF)
	require.False(t, ok)
}

func TestReadRange(t *testing.T) {
	im := New()
	require.NoError(t, im.AddBinary(0x100, []byte{1, 2, 3, 4}))
	require.NoError(t, im.AddBinary(0x200, []byte{5, 6}))

	got, ok := im.ReadRange(0x101, 2)
	require.True(t, ok)
	require.Equal(t, []byte{2, 3}, got)

	// Runs off the end of the block.
	_, ok = im.ReadRange(0x102, 3)
	require.False(t, ok)
	// Starts in a gap.
	_, ok = im.ReadRange(0x104, 1)
	require.False(t, ok)
	// Never stitches across blocks.
	_, ok = im.ReadRange(0x100, 0x102)
	require.False(t, ok)
	// Degenerate length.
	_, ok = im.ReadRange(0x100, 0)
	require.False(t, ok)
}

func TestReadRange_ReturnsCopy(t *testing.T) {
	im := New()
	require.NoError(t, im.AddBinary(0x100, []byte{1, 2, 3, 4}))

	got, ok := im.ReadRange(0x100, 4)
	require.True(t, ok)
	got[0] = 0xEE
	v, _ := im.ReadByte(0x100)
	require.Equal(t, byte(1), v)
}

func TestReadRangeSafe_SpansGaps(t *testing.T) {
	im := New()
	require.NoError(t, im.AddBinary(0x100, []byte{1, 2}))
	require.NoError(t, im.AddBinary(0x104, []byte{3, 4}))

	cells := im.ReadRangeSafe(0x0FF, 8)
	require.Equal(t, []Cell{
		{},
		{Value: 1, Defined: true},
		{Value: 2, Defined: true},
		{},
		{},
		{Value: 3, Defined: true},
		{Value: 4, Defined: true},
		{},
	}, cells)
}

func TestReadRangeSafe_ClipsAtCeiling(t *testing.T) {
	im := New()
	require.NoError(t, im.AddBinary(0xFFFFFFFE, []byte{0xAA, 0xBB}))

	cells := im.ReadRangeSafe(0xFFFFFFFD, 10)
	require.Equal(t, []Cell{
		{},
		{Value: 0xAA, Defined: true},
		{Value: 0xBB, Defined: true},
	}, cells)
}

func TestReadRangeSafe_EmptyImage(t *testing.T) {
	im := New()
	cells := im.ReadRangeSafe(0x100, 3)
	require.Equal(t, []Cell{{}, {}, {}}, cells)
	require.Nil(t, im.ReadRangeSafe(0x100, 0))
}

func TestBlocks_DeepCopy(t *testing.T) {
	im := New()
	require.NoError(t, im.AddBinary(0x100, []byte{1, 2}))

	im.Blocks()[0].Data[0] = 0xEE
	v, _ := im.ReadByte(0x100)
	require.Equal(t, byte(1), v)
}

// --- updates ---

func TestUpdateByte(t *testing.T) {
	im := New()
	require.NoError(t, im.AddBinary(0x100, []byte{1, 2}))

	require.NoError(t, im.UpdateByte(0x101, 0x42))
	v, _ := im.ReadByte(0x101)
	require.Equal(t, byte(0x42), v)

	err := im.UpdateByte(0x102, 0x42)
	var addrErr *AddrError
	require.ErrorAs(t, err, &addrErr)
	require.Equal(t, uint32(0x102), addrErr.Addr)
}

func TestUpdateBytes_AllOrNothing(t *testing.T) {
	im := New()
	require.NoError(t, im.AddBinary(0x100, []byte{1, 2, 3}))

	err := im.UpdateBytes([]ByteUpdate{
		{Addr: 0x100, Value: 0xAA},
		{Addr: 0x500, Value: 0xBB}, // unmapped
		{Addr: 0x102, Value: 0xCC},
	})
	var addrErr *AddrError
	require.ErrorAs(t, err, &addrErr)
	require.Equal(t, uint32(0x500), addrErr.Addr)

	// Nothing was written, not even the valid entries before the bad one.
	require.Equal(t, []Block{{Addr: 0x100, Data: []byte{1, 2, 3}}}, im.Blocks())

	require.NoError(t, im.UpdateBytes([]ByteUpdate{
		{Addr: 0x100, Value: 0xAA},
		{Addr: 0x102, Value: 0xCC},
	}))
	require.Equal(t, []Block{{Addr: 0x100, Data: []byte{0xAA, 2, 0xCC}}}, im.Blocks())
}

func TestUpdateRange(t *testing.T) {
	im := New()
	require.NoError(t, im.AddBinary(0x100, []byte{1, 2, 3, 4}))

	require.NoError(t, im.UpdateRange(0x101, []byte{0xAA, 0xBB}))
	require.Equal(t, []Block{{Addr: 0x100, Data: []byte{1, 0xAA, 0xBB, 4}}}, im.Blocks())
}

func TestUpdateRange_MustFitOneBlock(t *testing.T) {
	im := New()
	require.NoError(t, im.AddBinary(0x100, []byte{1, 2, 3, 4}))
	require.NoError(t, im.AddBinary(0x108, []byte{5, 6}))

	// Spills one byte past the block: fails naming the first address
	// outside, and writes nothing.
	err := im.UpdateRange(0x102, []byte{9, 9, 9})
	var addrErr *AddrError
	require.ErrorAs(t, err, &addrErr)
	require.Equal(t, uint32(0x104), addrErr.Addr)
	require.Equal(t, []byte{1, 2, 3, 4}, im.Blocks()[0].Data)

	// Starts in a gap.
	err = im.UpdateRange(0x105, []byte{9})
	require.ErrorAs(t, err, &addrErr)
	require.Equal(t, uint32(0x105), addrErr.Addr)

	// Empty update is a no-op anywhere.
	require.NoError(t, im.UpdateRange(0x500, nil))
}

// --- relocate ---

func TestRelocate_PreservesSpacing(t *testing.T) {
	im := New()
	require.NoError(t, im.AddBinary(0x100, []byte{1, 2}))
	require.NoError(t, im.AddBinary(0x200, []byte{3, 4}))

	require.NoError(t, im.Relocate(0x1000))
	require.Equal(t, []Block{
		{Addr: 0x1000, Data: []byte{1, 2}},
		{Addr: 0x1100, Data: []byte{3, 4}},
	}, im.Blocks())

	// Moving down works the same way.
	require.NoError(t, im.Relocate(0x10))
	require.Equal(t, []Block{
		{Addr: 0x10, Data: []byte{1, 2}},
		{Addr: 0x110, Data: []byte{3, 4}},
	}, im.Blocks())
}

func TestRelocate_EmptyImage(t *testing.T) {
	im := New()
	require.ErrorIs(t, im.Relocate(0x1000), ErrImageEmpty)
}

func TestRelocate_CeilingBoundary(t *testing.T) {
	// A 64 KiB image spanning [0x0000, 0xFFFF].
	im := New()
	require.NoError(t, im.AddBinary(0, make([]byte, 0x10000)))

	err := im.Relocate(0xFFFF0001)
	var ovErr *RelocateOverflowError
	require.ErrorAs(t, err, &ovErr)
	require.Equal(t, uint32(0xFFFF0000), ovErr.MaxStart)
	// The failed call must not move anything.
	lo, _ := im.MinAddr()
	require.Equal(t, uint32(0), lo)

	require.NoError(t, im.Relocate(0xFFFF0000))
	hi, _ := im.MaxAddr()
	require.Equal(t, uint32(0xFFFFFFFF), hi)
}

// --- configuration ---

func TestSetMaxPayloadSize(t *testing.T) {
	im := New()
	require.Equal(t, 16, im.MaxPayloadSize())

	require.ErrorIs(t, im.SetMaxPayloadSize(0), ErrPayloadSizeRange)
	require.ErrorIs(t, im.SetMaxPayloadSize(256), ErrPayloadSizeRange)
	require.ErrorIs(t, im.SetMaxPayloadSize(-1), ErrPayloadSizeRange)

	require.NoError(t, im.SetMaxPayloadSize(255))
	require.Equal(t, 255, im.MaxPayloadSize())
	require.NoError(t, im.SetMaxPayloadSize(1))
	require.Equal(t, 1, im.MaxPayloadSize())
}

func TestZeroValueImageIsUsable(t *testing.T) {
	var im Image
	require.NoError(t, im.AddBinary(0, []byte{1, 2, 3}))
	require.Equal(t, 16, im.MaxPayloadSize())
	require.Equal(t, 3, im.NumBytes())
}
