package ihex

import (
	"sort"

	"github.com/joshuapare/hexkit/internal/buf"
)

// Block is one maximal contiguous run of known bytes, keyed by its start
// address. Blocks in an image are sorted by Addr, never overlap, and are
// never adjacent: a.Addr + len(a.Data) < b.Addr for every neighboring pair.
type Block struct {
	Addr uint32
	Data []byte
}

// end returns the first address past the block in 64-bit arithmetic, so a
// block ending exactly at the address ceiling does not wrap.
func (b Block) end() uint64 {
	return uint64(b.Addr) + uint64(len(b.Data))
}

// findBlock returns the index of the block containing addr, or -1.
func findBlock(blocks []Block, addr uint32) int {
	i := sort.Search(len(blocks), func(k int) bool { return blocks[k].Addr > addr })
	if i == 0 {
		return -1
	}
	if blocks[i-1].end() > uint64(addr) {
		return i - 1
	}
	return -1
}

// coverIndex returns the index of the first block ending past addr: the
// block containing addr when one does, otherwise the nearest block above it.
func coverIndex(blocks []Block, addr uint32) int {
	return sort.Search(len(blocks), func(k int) bool { return blocks[k].end() > uint64(addr) })
}

// insertRun folds a new byte run into sorted blocks, preserving the
// no-overlap, no-adjacency invariant. Four cases:
//
//   - neither neighbor adjacent: a new block is inserted
//   - run starts exactly where the previous block ends: the previous block
//     is extended in place
//   - run ends exactly where the next block starts: the next block is
//     re-keyed down to the run's address with the run prepended
//   - both: previous + run + next collapse into the previous block (bridge)
//
// A run covering any already-mapped address fails with *OverlapError naming
// the first colliding address; a run extending past the 32-bit address space
// fails with ErrAddressCeiling. On error blocks is returned unchanged.
func insertRun(blocks []Block, addr uint32, data []byte) ([]Block, error) {
	if len(data) == 0 {
		return blocks, nil
	}
	if !buf.SpanFits(addr, len(data)) {
		return blocks, ErrAddressCeiling
	}

	i := sort.Search(len(blocks), func(k int) bool { return blocks[k].Addr > addr })
	end := uint64(addr) + uint64(len(data))

	if i > 0 && blocks[i-1].end() > uint64(addr) {
		return blocks, &OverlapError{Addr: addr}
	}
	if i < len(blocks) && end > uint64(blocks[i].Addr) {
		return blocks, &OverlapError{Addr: blocks[i].Addr}
	}

	appendAdj := i > 0 && blocks[i-1].end() == uint64(addr)
	prependAdj := i < len(blocks) && end == uint64(blocks[i].Addr)

	switch {
	case appendAdj && prependAdj:
		prev := &blocks[i-1]
		prev.Data = append(prev.Data, data...)
		prev.Data = append(prev.Data, blocks[i].Data...)
		blocks = append(blocks[:i], blocks[i+1:]...)
	case appendAdj:
		prev := &blocks[i-1]
		prev.Data = append(prev.Data, data...)
	case prependAdj:
		next := &blocks[i]
		merged := make([]byte, 0, len(data)+len(next.Data))
		merged = append(merged, data...)
		merged = append(merged, next.Data...)
		next.Addr = addr
		next.Data = merged
	default:
		blocks = append(blocks, Block{})
		copy(blocks[i+1:], blocks[i:])
		blocks[i] = Block{Addr: addr, Data: append([]byte(nil), data...)}
	}
	return blocks, nil
}
