package transfer

import (
	"bytes"
	"strings"
)

const (
	None            = ""                 // bytes will be left as-is
	Bit7            = "7bit"             // bytes will be left as-is
	Bit8            = "8bit"             // bytes will be left as-is
	Binary          = "binary"           // bytes will be left as-is
	QuotedPrintable = "quoted-printable" // bytes are left as-is unless quoted-printable decoding is requested
	Base64          = "base64"           // bytes will be transformed from base64 into binary data
)

// Decoding is a function that undoes a transfer encoding. A Decoding never
// fails.
type Decoding func([]byte) []byte

// Decoder returns the Decoding to use for the given Content-transfer-encoding
// value. The encoding name is matched case-insensitively and surrounding space
// is ignored. Quoted-printable content is only decoded when decodeQP is true;
// otherwise it is passed through as-is like any unknown encoding.
func Decoder(encoding string, decodeQP bool) Decoding {
	switch strings.ToLower(strings.TrimSpace(encoding)) {
	case Base64:
		return DecodeBase64
	case QuotedPrintable:
		if decodeQP {
			return DecodeQuotedPrintable
		}
	}
	return AsIs
}

// IsBase64 returns true if encoding names the base64 transfer encoding.
func IsBase64(encoding string) bool {
	return strings.EqualFold(strings.TrimSpace(encoding), Base64)
}

// Decode undoes the named transfer encoding on content. Only base64 is
// decoded; every other value, including quoted-printable and the empty
// string, returns content unmodified.
func Decode(content []byte, encoding string) []byte {
	return Decoder(encoding, false)(content)
}

var (
	crlf = []byte("\r\n")
	lf   = []byte("\n")
)

// NormalizeLineEndings collapses every CRLF in content into a single LF. This is
// the convention used for content handed to callers.
func NormalizeLineEndings(content []byte) []byte {
	return bytes.ReplaceAll(content, crlf, lf)
}

// CanonicalLineEndings rewrites content so that every line ends with CRLF,
// whether it used LF or CRLF before. This is the convention used by the
// parser internally.
func CanonicalLineEndings(content []byte) []byte {
	return bytes.ReplaceAll(NormalizeLineEndings(content), lf, crlf)
}
