package ihex

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrMissingStartMark indicates a record line did not begin with ':'.
	ErrMissingStartMark = errors.New("ihex: record missing ':' start mark")
	// ErrInvalidCharacters indicates a record contained non-hex characters.
	ErrInvalidCharacters = errors.New("ihex: record contains non-hex characters")
	// ErrRecordTooShort indicates a record below the empty-payload minimum.
	ErrRecordTooShort = errors.New("ihex: record too short")
	// ErrRecordTooLong indicates a record (or payload) above the 255-byte payload maximum.
	ErrRecordTooLong = errors.New("ihex: record too long")
	// ErrRecordOddLength indicates a record with an unpaired hex digit.
	ErrRecordOddLength = errors.New("ihex: record has an odd number of hex digits")
	// ErrPayloadLengthMismatch indicates the declared length disagrees with the record size.
	ErrPayloadLengthMismatch = errors.New("ihex: declared payload length does not match record length")
	// ErrInvalidRecordType indicates a type code outside the six defined types.
	ErrInvalidRecordType = errors.New("ihex: unknown record type")
	// ErrRecordNotEmittable indicates a decode-only type was passed to the encoder.
	ErrRecordNotEmittable = errors.New("ihex: record type not supported for generation")
	// ErrDuplicateStartAddr indicates a second start address record in one image.
	ErrDuplicateStartAddr = errors.New("ihex: duplicate start address record")
	// ErrImageEmpty indicates an operation that needs data ran on an empty image.
	ErrImageEmpty = errors.New("ihex: image holds no data")
	// ErrPayloadSizeRange indicates a max payload size outside 1..255.
	ErrPayloadSizeRange = errors.New("ihex: max payload size must be between 1 and 255")
	// ErrAddressCeiling indicates data would extend past the 32-bit address space.
	ErrAddressCeiling = errors.New("ihex: data extends past the 32-bit address space")
)

// ChecksumError reports a record whose checksum field disagrees with the
// checksum computed over its fields.
type ChecksumError struct {
	Want byte // computed from the record fields
	Got  byte // found in the record
}

func (e *ChecksumError) Error() string {
	return fmt.Sprintf("ihex: checksum mismatch: expected 0x%02X, found 0x%02X", e.Want, e.Got)
}

// ShapeError reports a payload length that is invalid for the record type.
type ShapeError struct {
	Type    RecordType
	WantLen int
	GotLen  int
}

func (e *ShapeError) Error() string {
	return fmt.Sprintf("ihex: %s record must carry %d payload bytes, got %d", e.Type, e.WantLen, e.GotLen)
}

// AddrForTypeError reports a non-zero address field on a type that requires
// address zero.
type AddrForTypeError struct {
	Type RecordType
	Addr uint16
}

func (e *AddrForTypeError) Error() string {
	return fmt.Sprintf("ihex: %s record requires address 0x0000, got 0x%04X", e.Type, e.Addr)
}

// OverlapError reports a data record that covers an already-mapped address.
type OverlapError struct {
	Addr uint32
}

func (e *OverlapError) Error() string {
	return fmt.Sprintf("ihex: data overlaps existing data at address 0x%08X", e.Addr)
}

// AddrError reports an update against an address with no data behind it.
type AddrError struct {
	Addr uint32
}

func (e *AddrError) Error() string {
	return fmt.Sprintf("ihex: no data at address 0x%08X", e.Addr)
}

// RelocateOverflowError reports a relocation that would push the image past
// the 32-bit address space. MaxStart is the largest start address that would
// have kept the image in bounds.
type RelocateOverflowError struct {
	MaxStart uint32
}

func (e *RelocateOverflowError) Error() string {
	return fmt.Sprintf("ihex: relocation exceeds the 32-bit address space (maximum start address 0x%08X)", e.MaxStart)
}

// ParseError wraps any record or fold failure with the 1-based source line it
// occurred on. Every error surfaced by Parse is a *ParseError.
type ParseError struct {
	Line int
	Err  error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("ihex: line %d: %s", e.Line, strings.TrimPrefix(e.Err.Error(), "ihex: "))
}

func (e *ParseError) Unwrap() error { return e.Err }
