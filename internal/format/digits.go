package format

// IsHexDigits reports whether every byte of b is an ASCII hexadecimal digit.
// Both cases are accepted on input; emission is always uppercase.
func IsHexDigits(b []byte) bool {
	for _, c := range b {
		if !isHexDigit(c) {
			return false
		}
	}
	return true
}

func isHexDigit(c byte) bool {
	switch {
	case c >= '0' && c <= '9':
		return true
	case c >= 'a' && c <= 'f':
		return true
	case c >= 'A' && c <= 'F':
		return true
	}
	return false
}

const upperHex = "0123456789ABCDEF"

// AppendHexUpper appends the uppercase two-digit encoding of each byte of src
// to dst and returns the extended slice. Record emission goes through this so
// the textual form stays uppercase regardless of input case.
func AppendHexUpper(dst []byte, src ...byte) []byte {
	for _, b := range src {
		dst = append(dst, upperHex[b>>4], upperHex[b&0x0F])
	}
	return dst
}
