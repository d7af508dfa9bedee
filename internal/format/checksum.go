package format

// Checksum computes the Intel HEX record checksum over the given field bytes
// (length, address high, address low, type, payload). It is the two's
// complement of the modulo-256 sum, so summing the fields plus the checksum
// wraps to zero.
func Checksum(fields []byte) byte {
	var sum byte
	for _, b := range fields {
		sum += b
	}
	return -sum
}

// SumsToZero reports whether a full decoded record (fields plus trailing
// checksum byte) satisfies the checksum equation.
func SumsToZero(record []byte) bool {
	var sum byte
	for _, b := range record {
		sum += b
	}
	return sum == 0
}
