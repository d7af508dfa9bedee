package ihex

import (
	"bufio"
	"bytes"
	"io"

	"github.com/joshuapare/hexkit/internal/format"
	"github.com/joshuapare/hexkit/internal/fsync"
)

// fillChunkSize bounds the scratch buffer used to fill gaps in binary
// output, so a sparse image with huge gaps does not allocate the gap size.
const fillChunkSize = 32 * 1024

// EncodeHex writes the image as Intel HEX text. The stored start address
// record, when present, leads; data records follow in ascending address
// order, each carrying at most MaxPayloadSize bytes and never crossing a
// 64 KiB boundary; an Extended Linear Address record precedes the first data
// record of every new 64 KiB segment above the first. The terminating
// end-of-file record is written without a trailing newline. An empty image
// encodes as the end-of-file record alone.
func (im *Image) EncodeHex(w io.Writer) error {
	bw := bufio.NewWriter(w)

	if im.startRecord != nil {
		bw.Write(im.startRecord)
		bw.WriteByte('\n')
	}

	segment := uint32(0)
	for _, b := range im.blocks {
		addr, data := b.Addr, b.Data
		for len(data) > 0 {
			if high := addr >> format.SegmentShift; high != segment {
				line, err := EncodeRecord(0, RecordExtLinearAddr, []byte{byte(high >> 8), byte(high)})
				if err != nil {
					return err
				}
				bw.WriteString(line)
				bw.WriteByte('\n')
				segment = high
			}
			span := int(format.SegmentSpan - uint64(addr)%format.SegmentSpan)
			n := min(im.payloadSize(), len(data), span)
			line, err := EncodeRecord(uint16(addr), RecordData, data[:n])
			if err != nil {
				return err
			}
			bw.WriteString(line)
			bw.WriteByte('\n')
			addr += uint32(n)
			data = data[n:]
		}
	}

	line, err := EncodeRecord(0, RecordEndOfFile, nil)
	if err != nil {
		return err
	}
	bw.WriteString(line)
	return bw.Flush()
}

// EncodeBin writes the image as a flat binary starting at the lowest mapped
// address, with gaps between blocks emitted as fill bytes. Addresses below
// the first block produce nothing, so the first output byte is the byte at
// MinAddr. An empty image writes zero bytes.
func (im *Image) EncodeBin(w io.Writer, fill byte) error {
	if len(im.blocks) == 0 {
		return nil
	}

	var fillChunk []byte
	cursor := uint64(im.blocks[0].Addr)
	for _, b := range im.blocks {
		for gap := uint64(b.Addr) - cursor; gap > 0; {
			if fillChunk == nil {
				fillChunk = bytes.Repeat([]byte{fill}, fillChunkSize)
			}
			n := min(gap, uint64(fillChunkSize))
			if _, err := w.Write(fillChunk[:n]); err != nil {
				return err
			}
			gap -= n
		}
		if _, err := w.Write(b.Data); err != nil {
			return err
		}
		cursor = b.end()
	}
	return nil
}

// WriteHexFile encodes the image as Intel HEX and writes it to path,
// creating parent directories and syncing the file to stable storage.
func (im *Image) WriteHexFile(path string) error {
	var out bytes.Buffer
	if err := im.EncodeHex(&out); err != nil {
		return err
	}
	return fsync.WriteFile(path, out.Bytes(), 0o644)
}

// WriteBinFile encodes the image as a flat binary with the given gap fill
// byte and writes it to path, creating parent directories and syncing the
// file to stable storage.
func (im *Image) WriteBinFile(path string, fill byte) error {
	var out bytes.Buffer
	if err := im.EncodeBin(&out, fill); err != nil {
		return err
	}
	return fsync.WriteFile(path, out.Bytes(), 0o644)
}
