package transfer

import (
	"bytes"
	"io"
	"mime/quotedprintable"
)

// DecodeQuotedPrintable decodes quoted-printable body content. Soft line
// breaks are removed and escapes are resolved. The reader passes malformed
// escapes through literally. If it still gives up, the content is returned
// unchanged.
func DecodeQuotedPrintable(content []byte) []byte {
	r := quotedprintable.NewReader(bytes.NewReader(content))
	out, err := io.ReadAll(r)
	if err != nil {
		return content
	}
	return out
}

// unhex returns the value of a single hexadecimal digit.
func unhex(c byte) (byte, bool) {
	switch {
	case c >= '0' && c <= '9':
		return c - '0', true
	case c >= 'a' && c <= 'f':
		return c - 'a' + 10, true
	case c >= 'A' && c <= 'F':
		return c - 'A' + 10, true
	}
	return 0, false
}

// DecodeQ decodes the "Q" flavor of quoted-printable used inside RFC 2047
// encoded words: an underscore stands for a space and "=XX" for the byte XX. A
// malformed escape is kept literally.
func DecodeQ(payload []byte) []byte {
	out := make([]byte, 0, len(payload))
	for i := 0; i < len(payload); i++ {
		c := payload[i]
		switch {
		case c == '_':
			out = append(out, ' ')
		case c == '=' && i+2 < len(payload):
			hi, okHi := unhex(payload[i+1])
			lo, okLo := unhex(payload[i+2])
			if okHi && okLo {
				out = append(out, hi<<4|lo)
				i += 2
				continue
			}
			out = append(out, c)
		default:
			out = append(out, c)
		}
	}
	return out
}
