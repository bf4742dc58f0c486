package transfer

import (
	"encoding/base64"
)

// isBase64 reports whether c belongs to the standard base64 alphabet, not
// counting the padding character.
func isBase64(c byte) bool {
	switch {
	case c >= 'A' && c <= 'Z':
		return true
	case c >= 'a' && c <= 'z':
		return true
	case c >= '0' && c <= '9':
		return true
	case c == '+' || c == '/':
		return true
	}
	return false
}

// DecodeBase64 decodes content using the standard base64 alphabet. It is
// forgiving:
//
// 1. Every byte outside the alphabet is dropped. This covers the line breaks
// inserted every 76 characters on the wire, stray whitespace, and any garbage
// that crept in during transport.
//
// 2. Padding is ignored. The remaining characters are decoded as if no padding
// were required.
//
// 3. A single trailing character that cannot complete a byte is discarded.
//
// The result is deterministic and this never fails. Corrupt input yields
// partial or garbled output.
func DecodeBase64(content []byte) []byte {
	clean := make([]byte, 0, len(content))
	for _, c := range content {
		if isBase64(c) {
			clean = append(clean, c)
		}
	}

	if len(clean)%4 == 1 {
		clean = clean[:len(clean)-1]
	}

	out := make([]byte, base64.RawStdEncoding.DecodedLen(len(clean)))
	n, _ := base64.RawStdEncoding.Decode(out, clean)
	return out[:n]
}
