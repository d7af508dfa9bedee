package ihex

import (
	"bytes"
	"fmt"

	"github.com/joshuapare/hexkit/internal/buf"
	"github.com/joshuapare/hexkit/internal/format"
	"github.com/joshuapare/hexkit/internal/mmfile"
)

// Image is a sparse memory image. It is created empty, populated by a load
// operation or incremental inserts, optionally relocated, and consumed by a
// serializer or the search engine.
//
// An Image is not safe for concurrent mutation; callers embedding it in a
// multi-threaded host must serialize access per instance.
type Image struct {
	// SourcePath and SourceSize describe the encoded file the image was
	// loaded from. Metadata only; mutations do not touch them.
	SourcePath string
	SourceSize int

	blocks      []Block
	startRecord []byte
	maxPayload  int
	offset      uint64
}

// Cell is one address worth of gap-tolerant read output.
type Cell struct {
	Value   byte
	Defined bool
}

// ByteUpdate names one byte write in a batch update.
type ByteUpdate struct {
	Addr  uint32
	Value byte
}

// New returns an empty image with the default max payload size.
func New() *Image {
	return &Image{maxPayload: format.DefaultPayloadBytes}
}

// OpenHex loads an Intel HEX file into a fresh image.
func OpenHex(path string) (*Image, error) {
	im := New()
	if err := im.LoadHex(path); err != nil {
		return nil, err
	}
	return im, nil
}

// OpenBin loads a flat binary file into a fresh image, placing its bytes
// contiguously from base.
func OpenBin(path string, base uint32) (*Image, error) {
	im := New()
	if err := im.LoadBin(path, base); err != nil {
		return nil, err
	}
	return im, nil
}

// LoadHex resets the image and fills it from an Intel HEX file.
func (im *Image) LoadHex(path string) error {
	data, done, err := mmfile.Map(path)
	if err != nil {
		return fmt.Errorf("ihex: read %s: %w", path, err)
	}
	defer done()

	im.Clear()
	im.SourcePath = path
	im.SourceSize = len(data)
	return im.Parse(data)
}

// LoadBin resets the image and fills it from a flat binary file, placing its
// bytes contiguously from base.
func (im *Image) LoadBin(path string, base uint32) error {
	data, done, err := mmfile.Map(path)
	if err != nil {
		return fmt.Errorf("ihex: read %s: %w", path, err)
	}
	defer done()

	im.Clear()
	im.SourcePath = path
	im.SourceSize = len(data)
	return im.AddBinary(base, data)
}

// Clear resets the image to empty: blocks, start record, running offset, and
// source metadata.
func (im *Image) Clear() {
	im.SourcePath = ""
	im.SourceSize = 0
	im.blocks = nil
	im.startRecord = nil
	im.offset = 0
}

// Parse folds raw Intel HEX text into the image. Input is split on '\n' with
// one optional trailing '\r' per line tolerated; blank lines are skipped but
// still counted, so every error carries the true 1-based source line number
// wrapped as *ParseError.
//
// Parse does not reset the image; loading on top of existing data follows the
// same overlap rules as any insert.
func (im *Image) Parse(raw []byte) error {
	line := 0
	for len(raw) > 0 {
		line++
		var ln []byte
		if nl := bytes.IndexByte(raw, '\n'); nl >= 0 {
			ln, raw = raw[:nl], raw[nl+1:]
		} else {
			ln, raw = raw, nil
		}
		ln = bytes.TrimSuffix(ln, []byte{'\r'})
		if len(ln) == 0 {
			continue
		}
		if err := im.foldLine(ln, line); err != nil {
			return err
		}
	}
	return nil
}

// foldLine decodes one record line and applies it to the image state.
func (im *Image) foldLine(ln []byte, line int) error {
	rec, err := DecodeRecord(ln)
	if err != nil {
		return &ParseError{Line: line, Err: err}
	}

	switch rec.Type {
	case RecordData:
		if len(rec.Data) == 0 {
			return nil
		}
		start := im.offset + uint64(rec.Addr)
		if start+uint64(len(rec.Data)) > uint64(buf.AddrCeiling)+1 {
			return &ParseError{Line: line, Err: ErrAddressCeiling}
		}
		blocks, err := insertRun(im.blocks, uint32(start), rec.Data)
		if err != nil {
			return &ParseError{Line: line, Err: err}
		}
		im.blocks = blocks

	case RecordEndOfFile:
		// Parsing continues; trailing content is not specially validated.

	case RecordExtSegmentAddr:
		im.offset = uint64(buf.U16BE(rec.Data)) * format.ExtSegmentMultiplier

	case RecordExtLinearAddr:
		im.offset = uint64(buf.U16BE(rec.Data)) * format.ExtLinearMultiplier

	case RecordStartSegmentAddr, RecordStartLinearAddr:
		if im.startRecord != nil {
			return &ParseError{Line: line, Err: ErrDuplicateStartAddr}
		}
		// Stored verbatim and replayed on write; the payload semantics are
		// opaque to the engine beyond uniqueness.
		im.startRecord = append([]byte(nil), ln...)
	}
	return nil
}

// AddBinary inserts a contiguous run of raw bytes at base. The run merges
// with adjacent blocks and fails with *OverlapError if any covered address is
// already mapped.
func (im *Image) AddBinary(base uint32, data []byte) error {
	blocks, err := insertRun(im.blocks, base, data)
	if err != nil {
		return err
	}
	im.blocks = blocks
	return nil
}

// ReadByte returns the byte at addr, or ok = false when no block covers it.
func (im *Image) ReadByte(addr uint32) (byte, bool) {
	i := findBlock(im.blocks, addr)
	if i < 0 {
		return 0, false
	}
	b := im.blocks[i]
	return b.Data[addr-b.Addr], true
}

// ReadRange returns a copy of n bytes starting at addr. The entire span must
// lie inside one contiguous block; a span touching a gap or crossing a block
// boundary returns ok = false as a unit. It never stitches blocks together.
func (im *Image) ReadRange(addr uint32, n int) ([]byte, bool) {
	if n <= 0 {
		return nil, false
	}
	i := findBlock(im.blocks, addr)
	if i < 0 {
		return nil, false
	}
	b := im.blocks[i]
	off := int(addr - b.Addr)
	if off+n > len(b.Data) {
		return nil, false
	}
	out := make([]byte, n)
	copy(out, b.Data[off:off+n])
	return out, true
}

// ReadRangeSafe walks n addresses from addr across blocks and gaps, returning
// one Cell per address: the byte where data exists, Defined = false where it
// does not. This is the only read that crosses blocks. The walk clips at the
// 32-bit ceiling, so the result may be shorter than n at the top of the
// address space.
func (im *Image) ReadRangeSafe(addr uint32, n int) []Cell {
	if n <= 0 {
		return nil
	}
	end := uint64(addr) + uint64(n)
	if limit := uint64(buf.AddrCeiling) + 1; end > limit {
		end = limit
	}
	cells := make([]Cell, 0, end-uint64(addr))

	i := coverIndex(im.blocks, addr)
	cur := uint64(addr)
	for cur < end {
		if i >= len(im.blocks) {
			for ; cur < end; cur++ {
				cells = append(cells, Cell{})
			}
			break
		}
		b := im.blocks[i]
		bs, be := uint64(b.Addr), b.end()
		switch {
		case cur >= be:
			i++
		case cur >= bs:
			stop := min(be, end)
			for ; cur < stop; cur++ {
				cells = append(cells, Cell{Value: b.Data[cur-bs], Defined: true})
			}
		default:
			stop := min(bs, end)
			for ; cur < stop; cur++ {
				cells = append(cells, Cell{})
			}
		}
	}
	return cells
}

// UpdateByte writes value at addr in place. It fails with *AddrError when no
// block covers addr; updates never create or restructure blocks.
func (im *Image) UpdateByte(addr uint32, value byte) error {
	i := findBlock(im.blocks, addr)
	if i < 0 {
		return &AddrError{Addr: addr}
	}
	b := &im.blocks[i]
	b.Data[addr-b.Addr] = value
	return nil
}

// UpdateBytes applies a batch of byte writes atomically: all addresses are
// validated first, and if any one is unmapped, no write takes effect.
func (im *Image) UpdateBytes(updates []ByteUpdate) error {
	for _, u := range updates {
		if findBlock(im.blocks, u.Addr) < 0 {
			return &AddrError{Addr: u.Addr}
		}
	}
	for _, u := range updates {
		i := findBlock(im.blocks, u.Addr)
		b := &im.blocks[i]
		b.Data[u.Addr-b.Addr] = u.Value
	}
	return nil
}

// UpdateRange overwrites len(data) bytes starting at addr. The whole span
// must lie inside one existing block; otherwise nothing is written and
// *AddrError names the first address outside it.
func (im *Image) UpdateRange(addr uint32, data []byte) error {
	if len(data) == 0 {
		return nil
	}
	i := findBlock(im.blocks, addr)
	if i < 0 {
		return &AddrError{Addr: addr}
	}
	b := &im.blocks[i]
	off := int(addr - b.Addr)
	if off+len(data) > len(b.Data) {
		return &AddrError{Addr: b.Addr + uint32(len(b.Data))}
	}
	copy(b.Data[off:], data)
	return nil
}

// Relocate shifts every block so the lowest address becomes newStart. The
// shift is uniform, so relative spacing, contents, and merge structure are
// unchanged. An empty image fails with ErrImageEmpty; a shift that would push
// the highest address past the 32-bit ceiling fails with
// *RelocateOverflowError reporting the largest start address that would have
// fit. The start record, an opaque blob, is not rewritten.
func (im *Image) Relocate(newStart uint32) error {
	minAddr, ok := im.MinAddr()
	if !ok {
		return ErrImageEmpty
	}
	maxAddr, _ := im.MaxAddr()

	offset := int64(newStart) - int64(minAddr)
	if _, ok := buf.ShiftAddr(maxAddr, offset); !ok {
		return &RelocateOverflowError{MaxStart: buf.AddrCeiling - (maxAddr - minAddr)}
	}
	for i := range im.blocks {
		im.blocks[i].Addr = uint32(int64(im.blocks[i].Addr) + offset)
	}
	return nil
}

// SetMaxPayloadSize sets how many bytes one emitted data record carries.
// Accepts 1..255; zero is rejected to keep record splitting from regressing
// forever.
func (im *Image) SetMaxPayloadSize(n int) error {
	if n < 1 || n > format.MaxPayloadBytes {
		return ErrPayloadSizeRange
	}
	im.maxPayload = n
	return nil
}

// MaxPayloadSize reports the emitted data record payload limit.
func (im *Image) MaxPayloadSize() int {
	return im.payloadSize()
}

// payloadSize keeps the zero value of Image usable.
func (im *Image) payloadSize() int {
	if im.maxPayload == 0 {
		return format.DefaultPayloadBytes
	}
	return im.maxPayload
}

// MinAddr returns the lowest mapped address. ok is false for an empty image.
func (im *Image) MinAddr() (uint32, bool) {
	if len(im.blocks) == 0 {
		return 0, false
	}
	return im.blocks[0].Addr, true
}

// MaxAddr returns the highest mapped address. ok is false for an empty image.
func (im *Image) MaxAddr() (uint32, bool) {
	if len(im.blocks) == 0 {
		return 0, false
	}
	last := im.blocks[len(im.blocks)-1]
	return uint32(last.end() - 1), true
}

// NumBytes returns the total count of mapped bytes across all blocks.
func (im *Image) NumBytes() int {
	n := 0
	for _, b := range im.blocks {
		n += len(b.Data)
	}
	return n
}

// NumBlocks returns the number of contiguous runs in the image.
func (im *Image) NumBlocks() int {
	return len(im.blocks)
}

// Blocks returns a deep copy of the image's blocks in ascending address
// order. Mutating the result does not affect the image.
func (im *Image) Blocks() []Block {
	out := make([]Block, len(im.blocks))
	for i, b := range im.blocks {
		out[i] = Block{Addr: b.Addr, Data: append([]byte(nil), b.Data...)}
	}
	return out
}

// StartRecord returns a copy of the stored start address record line, or nil
// when the image has none.
func (im *Image) StartRecord() []byte {
	if im.startRecord == nil {
		return nil
	}
	return append([]byte(nil), im.startRecord...)
}
