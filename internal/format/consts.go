// Package format houses the low-level wire definitions for the Intel HEX
// record format. The goal is to keep field layout, checksum math, and the
// per-type shape rules in one place, independent from the public API, so the
// decoder and the encoder cannot drift apart.
package format

const (
	// StartMark is the single character that opens every record line.
	StartMark = ':'

	// ByteDigits is the number of hex digits encoding one byte.
	ByteDigits = 2

	// MinRecordDigits is the hex-digit count of an empty-payload record:
	// length (1 byte) + address (2) + type (1) + checksum (1), two digits each.
	MinRecordDigits = (1 + 2 + 1 + 1) * ByteDigits

	// MaxRecordDigits bounds a record carrying the largest possible payload
	// (255 bytes, two digits each) on top of the empty-record fields.
	MaxRecordDigits = MinRecordDigits + 255*ByteDigits

	// Field offsets into the decoded record bytes (after the digit region is
	// converted to raw bytes). Layout:
	//   0x00  payload length (1 byte)
	//   0x01  load address, big-endian (2 bytes)
	//   0x03  record type (1 byte)
	//   0x04  payload (length bytes)
	//   last  checksum (1 byte)
	LengthOffset  = 0
	AddrOffset    = 1
	AddrSize      = 2
	TypeOffset    = 3
	PayloadOffset = 4

	// MinRecordBytes is MinRecordDigits in decoded-byte terms.
	MinRecordBytes = MinRecordDigits / ByteDigits
)

const (
	// TypeData carries payload bytes at address + running offset.
	TypeData = 0x00
	// TypeEndOfFile terminates the file; empty payload, address zero.
	TypeEndOfFile = 0x01
	// TypeExtSegmentAddr sets the running offset to value*16 (8086 segments).
	TypeExtSegmentAddr = 0x02
	// TypeStartSegmentAddr records the CS:IP entry point; passed through opaquely.
	TypeStartSegmentAddr = 0x03
	// TypeExtLinearAddr sets the running offset to value*65536.
	TypeExtLinearAddr = 0x04
	// TypeStartLinearAddr records the 32-bit EIP entry point; passed through opaquely.
	TypeStartLinearAddr = 0x05

	// TypeCount is the number of defined record types; codes are contiguous.
	TypeCount = 6
)

const (
	// SegmentSpan is the address span a single extended linear segment covers.
	// Data records cannot cross a SegmentSpan boundary.
	SegmentSpan = 0x10000

	// SegmentShift converts an absolute address to its segment number.
	SegmentShift = 16

	// ExtSegmentMultiplier scales an Extended Segment Address payload into an
	// absolute offset.
	ExtSegmentMultiplier = 16

	// ExtLinearMultiplier scales an Extended Linear Address payload into an
	// absolute offset.
	ExtLinearMultiplier = 0x10000

	// MaxPayloadBytes is the largest payload one data record can declare.
	MaxPayloadBytes = 255

	// DefaultPayloadBytes is the payload size emitters use unless configured.
	DefaultPayloadBytes = 16
)
