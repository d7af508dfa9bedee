// Package ihex reads, manipulates, and writes Intel HEX images.
//
// # Overview
//
// This package implements the record codec and the sparse memory engine for
// the Intel HEX file format: checksummed text records, contiguous-block
// storage with maximal merging, 64KB-segment-aware emission, overflow-safe
// relocation, gap-tolerant reads, and pattern search across a discontiguous
// address space. It also converts images to and from flat binary form.
//
// # Key Types
//
// The main types provided by this package are:
//
//   - Image: a sparse memory image built from Intel HEX text or raw binary
//   - Block: one maximal contiguous run of known bytes, keyed by start address
//   - Record: one decoded Intel HEX line (ephemeral, never stored)
//   - Query: a search request over the image (byte, text, or regexp pattern)
//   - Cell: one address worth of gap-tolerant read output
//
// # File Structure
//
// An Intel HEX file is a sequence of text lines:
//
//	:LLAAAATTDD...DDCC
//
// where LL is the payload length, AAAA the 16-bit load address, TT the record
// type, DD the payload, and CC a two's-complement checksum. Extended address
// records shift a running offset so the 16-bit record addresses can cover a
// 32-bit space.
//
// # Opening an Image
//
// The primary entry points are OpenHex and OpenBin:
//
//	im, err := ihex.OpenHex("firmware.hex")
//	if err != nil {
//		log.Fatal(err)
//	}
//	b, ok := im.ReadByte(0x0100)
//
// Images hold no file handles; loaders read, parse, and release.
//
// # Invariant
//
// Blocks never overlap and are never address-adjacent: a byte run that would
// touch an existing block is merged into it at insert time. Every mutation
// preserves this, and all reads rely on it.
package ihex
