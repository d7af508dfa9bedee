package buf

import "encoding/binary"

// U16BE reads a big-endian uint16 from b. Returns 0 when b is too short.
// Record address fields and extended-offset payloads are big-endian on the
// wire.
func U16BE(b []byte) uint16 {
	if len(b) < 2 {
		return 0
	}
	return binary.BigEndian.Uint16(b)
}
