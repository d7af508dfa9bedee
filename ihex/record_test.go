package ihex

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

// --- decode ---

func TestDecodeRecord_Data(t *testing.T) {
	rec, err := DecodeRecord([]byte(":10010000214601360121470136007EFE09D2190140"))
	require.NoError(t, err)
	require.Equal(t, byte(0x10), rec.Length)
	require.Equal(t, uint16(0x0100), rec.Addr)
	require.Equal(t, RecordData, rec.Type)
	require.Equal(t, []byte{
		0x21, 0x46, 0x01, 0x36, 0x01, 0x21, 0x47, 0x01,
		0x36, 0x00, 0x7E, 0xFE, 0x09, 0xD2, 0x19, 0x01,
	}, rec.Data)
	require.Equal(t, byte(0x40), rec.Checksum)
}

func TestDecodeRecord_EndOfFile(t *testing.T) {
	rec, err := DecodeRecord([]byte(":00000001FF"))
	require.NoError(t, err)
	require.Equal(t, RecordEndOfFile, rec.Type)
	require.Empty(t, rec.Data)
	require.Equal(t, uint16(0), rec.Addr)
}

func TestDecodeRecord_ExtLinearAddr(t *testing.T) {
	rec, err := DecodeRecord([]byte(":020000041122C7"))
	require.NoError(t, err)
	require.Equal(t, RecordExtLinearAddr, rec.Type)
	require.Equal(t, []byte{0x11, 0x22}, rec.Data)
}

func TestDecodeRecord_LowercaseDigits(t *testing.T) {
	rec, err := DecodeRecord([]byte(":020000041122c7"))
	require.NoError(t, err)
	require.Equal(t, RecordExtLinearAddr, rec.Type)
}

func TestDecodeRecord_Malformed(t *testing.T) {
	tests := []struct {
		name string
		line string
		want error
	}{
		{"empty", "", ErrMissingStartMark},
		{"no start mark", "10010000214601FF", ErrMissingStartMark},
		{"non-hex digits", ":00000001GG", ErrInvalidCharacters},
		{"too short", ":0000FF", ErrRecordTooShort},
		{"too long", ":" + strings.Repeat("0", 522), ErrRecordTooLong},
		{"odd digit count", ":00000001FFF", ErrRecordOddLength},
		{"declared length high", ":0100000142", ErrPayloadLengthMismatch},
		{"declared length low", ":00000000AB55", ErrPayloadLengthMismatch},
		{"unknown type", ":00000006FA", ErrInvalidRecordType},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := DecodeRecord([]byte(tt.line))
			require.ErrorIs(t, err, tt.want)
		})
	}
}

func TestDecodeRecord_ShapeViolations(t *testing.T) {
	// Extended linear address with a 1-byte payload instead of 2.
	_, err := DecodeRecord([]byte(":01000004AA51"))
	var shapeErr *ShapeError
	require.ErrorAs(t, err, &shapeErr)
	require.Equal(t, RecordExtLinearAddr, shapeErr.Type)
	require.Equal(t, 2, shapeErr.WantLen)
	require.Equal(t, 1, shapeErr.GotLen)

	// End-of-file with a non-zero address field.
	_, err = DecodeRecord([]byte(":00010001FE"))
	var addrErr *AddrForTypeError
	require.ErrorAs(t, err, &addrErr)
	require.Equal(t, RecordEndOfFile, addrErr.Type)
	require.Equal(t, uint16(0x0001), addrErr.Addr)
}

func TestDecodeRecord_ChecksumMismatch(t *testing.T) {
	// One corrupted payload digit flips the computed checksum.
	_, err := DecodeRecord([]byte(":00000001FE"))
	var ckErr *ChecksumError
	require.ErrorAs(t, err, &ckErr)
	require.Equal(t, byte(0xFF), ckErr.Want)
	require.Equal(t, byte(0xFE), ckErr.Got)
	require.EqualError(t, err, "ihex: checksum mismatch: expected 0xFF, found 0xFE")
}

func TestDecodeRecord_FirstFailureWins(t *testing.T) {
	// Odd digit count and a bad checksum: the size check fires first.
	_, err := DecodeRecord([]byte(":000000010FF"))
	require.ErrorIs(t, err, ErrRecordOddLength)

	// Non-hex characters and too short: the character check fires first.
	_, err = DecodeRecord([]byte(":GG"))
	require.ErrorIs(t, err, ErrInvalidCharacters)
}

// --- encode ---

func TestEncodeRecord_Data(t *testing.T) {
	line, err := EncodeRecord(0x0100, RecordData, []byte{
		0x21, 0x46, 0x01, 0x36, 0x01, 0x21, 0x47, 0x01,
		0x36, 0x00, 0x7E, 0xFE, 0x09, 0xD2, 0x19, 0x01,
	})
	require.NoError(t, err)
	require.Equal(t, ":10010000214601360121470136007EFE09D2190140", line)
}

func TestEncodeRecord_EndOfFileCanonical(t *testing.T) {
	// Address and payload inputs are ignored for end-of-file.
	line, err := EncodeRecord(0x1234, RecordEndOfFile, nil)
	require.NoError(t, err)
	require.Equal(t, ":00000001FF", line)
}

func TestEncodeRecord_ExtLinearAddr(t *testing.T) {
	line, err := EncodeRecord(0, RecordExtLinearAddr, []byte{0x11, 0x22})
	require.NoError(t, err)
	require.Equal(t, ":020000041122C7", line)
}

func TestEncodeRecord_Rejections(t *testing.T) {
	_, err := EncodeRecord(0, RecordExtSegmentAddr, []byte{0x10, 0x00})
	require.ErrorIs(t, err, ErrRecordNotEmittable)

	_, err = EncodeRecord(0, RecordData, make([]byte, 256))
	require.ErrorIs(t, err, ErrRecordTooLong)

	_, err = EncodeRecord(0, RecordType(0x09), nil)
	require.ErrorIs(t, err, ErrInvalidRecordType)

	_, err = EncodeRecord(0, RecordStartLinearAddr, []byte{0x01})
	var shapeErr *ShapeError
	require.ErrorAs(t, err, &shapeErr)
	require.Equal(t, 4, shapeErr.WantLen)

	_, err = EncodeRecord(0x0001, RecordExtLinearAddr, []byte{0x11, 0x22})
	var addrErr *AddrForTypeError
	require.ErrorAs(t, err, &addrErr)
	require.Equal(t, uint16(0x0001), addrErr.Addr)
}

func TestEncodeRecord_DecodeRoundTrip(t *testing.T) {
	tests := []struct {
		name  string
		addr  uint16
		rtype RecordType
		data  []byte
	}{
		{"one byte", 0x0000, RecordData, []byte{0x42}},
		{"high address", 0xFFF0, RecordData, []byte{0xDE, 0xAD, 0xBE, 0xEF}},
		{"largest payload", 0x8000, RecordData, make([]byte, 255)},
		{"start linear", 0x0000, RecordStartLinearAddr, []byte{0x12, 0x34, 0x56, 0x78}},
		{"start segment", 0x0000, RecordStartSegmentAddr, []byte{0x00, 0x00, 0x38, 0x00}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			line, err := EncodeRecord(tt.addr, tt.rtype, tt.data)
			require.NoError(t, err)

			rec, err := DecodeRecord([]byte(line))
			require.NoError(t, err)
			require.Equal(t, tt.addr, rec.Addr)
			require.Equal(t, tt.rtype, rec.Type)
			require.Equal(t, tt.data, rec.Data)
		})
	}
}
