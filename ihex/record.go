package ihex

import (
	"encoding/hex"
	"fmt"

	"github.com/joshuapare/hexkit/internal/buf"
	"github.com/joshuapare/hexkit/internal/format"
)

// RecordType identifies one of the six defined Intel HEX record types.
type RecordType byte

const (
	// RecordData carries payload bytes at the record address plus the
	// running extended offset.
	RecordData RecordType = format.TypeData
	// RecordEndOfFile terminates the file.
	RecordEndOfFile RecordType = format.TypeEndOfFile
	// RecordExtSegmentAddr sets the running offset to value*16.
	RecordExtSegmentAddr RecordType = format.TypeExtSegmentAddr
	// RecordStartSegmentAddr holds the CS:IP entry point, passed through opaquely.
	RecordStartSegmentAddr RecordType = format.TypeStartSegmentAddr
	// RecordExtLinearAddr sets the running offset to value*65536.
	RecordExtLinearAddr RecordType = format.TypeExtLinearAddr
	// RecordStartLinearAddr holds the 32-bit EIP entry point, passed through opaquely.
	RecordStartLinearAddr RecordType = format.TypeStartLinearAddr
)

func (t RecordType) String() string {
	switch t {
	case RecordData:
		return "Data"
	case RecordEndOfFile:
		return "EndOfFile"
	case RecordExtSegmentAddr:
		return "ExtendedSegmentAddress"
	case RecordStartSegmentAddr:
		return "StartSegmentAddress"
	case RecordExtLinearAddr:
		return "ExtendedLinearAddress"
	case RecordStartLinearAddr:
		return "StartLinearAddress"
	}
	return fmt.Sprintf("Unknown(0x%02X)", byte(t))
}

// Record is one decoded Intel HEX line. Records are ephemeral: DecodeRecord
// produces them, the parse fold consumes them, nothing stores them.
type Record struct {
	Length   byte
	Addr     uint16
	Type     RecordType
	Data     []byte
	Checksum byte
}

// DecodeRecord parses a single record line (without its line terminator).
//
// Validation order is part of the contract: start mark, character set, size
// bounds, declared-versus-actual length, type code, per-type shape, checksum.
// The first failure wins.
func DecodeRecord(line []byte) (Record, error) {
	if len(line) == 0 || line[0] != format.StartMark {
		return Record{}, ErrMissingStartMark
	}
	digits := line[1:]
	if !format.IsHexDigits(digits) {
		return Record{}, ErrInvalidCharacters
	}
	switch {
	case len(digits) < format.MinRecordDigits:
		return Record{}, ErrRecordTooShort
	case len(digits) > format.MaxRecordDigits:
		return Record{}, ErrRecordTooLong
	case len(digits)%format.ByteDigits != 0:
		return Record{}, ErrRecordOddLength
	}

	raw := make([]byte, len(digits)/format.ByteDigits)
	if _, err := hex.Decode(raw, digits); err != nil {
		// Unreachable after IsHexDigits; kept so a decode bug cannot
		// silently produce a zeroed record.
		return Record{}, ErrInvalidCharacters
	}

	length := raw[format.LengthOffset]
	if len(raw) != format.MinRecordBytes+int(length) {
		return Record{}, ErrPayloadLengthMismatch
	}

	code := raw[format.TypeOffset]
	shape, ok := format.ShapeOf(code)
	if !ok {
		return Record{}, ErrInvalidRecordType
	}
	rtype := RecordType(code)

	addr := buf.U16BE(raw[format.AddrOffset : format.AddrOffset+format.AddrSize])
	if shape.Payload != format.VariablePayload && int(length) != shape.Payload {
		return Record{}, &ShapeError{Type: rtype, WantLen: shape.Payload, GotLen: int(length)}
	}
	if shape.AddrZero && addr != 0 {
		return Record{}, &AddrForTypeError{Type: rtype, Addr: addr}
	}

	payload := raw[format.PayloadOffset : format.PayloadOffset+int(length)]
	want := format.Checksum(raw[:len(raw)-1])
	got := raw[len(raw)-1]
	if want != got {
		return Record{}, &ChecksumError{Want: want, Got: got}
	}

	return Record{
		Length:   length,
		Addr:     addr,
		Type:     rtype,
		Data:     payload,
		Checksum: got,
	}, nil
}

// EncodeRecord renders one record line in its exact textual form, fields
// fixed-width uppercase hex with the trailing checksum, no line terminator.
//
// The same shape table that validates decoding applies in reverse: Data
// payloads are capped at 255 bytes, EndOfFile always renders as
// ":00000001FF", the extended/start types require their fixed payload sizes
// and a zero address, and ExtendedSegmentAddress is rejected outright
// (accepted on input for legacy images, never generated).
func EncodeRecord(addr uint16, rtype RecordType, data []byte) (string, error) {
	shape, ok := format.ShapeOf(byte(rtype))
	if !ok {
		return "", ErrInvalidRecordType
	}
	if !shape.Emittable {
		return "", ErrRecordNotEmittable
	}
	if rtype == RecordEndOfFile {
		return ":00000001FF", nil
	}
	if shape.Payload == format.VariablePayload {
		if len(data) > format.MaxPayloadBytes {
			return "", ErrRecordTooLong
		}
	} else {
		if len(data) != shape.Payload {
			return "", &ShapeError{Type: rtype, WantLen: shape.Payload, GotLen: len(data)}
		}
	}
	if shape.AddrZero && addr != 0 {
		return "", &AddrForTypeError{Type: rtype, Addr: addr}
	}

	fields := make([]byte, 0, format.PayloadOffset+len(data))
	fields = append(fields, byte(len(data)), byte(addr>>8), byte(addr), byte(rtype))
	fields = append(fields, data...)
	sum := format.Checksum(fields)

	out := make([]byte, 0, 1+(len(fields)+1)*format.ByteDigits)
	out = append(out, format.StartMark)
	out = format.AppendHexUpper(out, fields...)
	out = format.AppendHexUpper(out, sum)
	return string(out), nil
}
