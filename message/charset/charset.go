// Package charset converts message part content from the charset named in its
// Content-Type into UTF-8. Charset labels are resolved with the WHATWG
// encoding index from golang.org/x/text, plus a handful of aliases seen in
// mail that the index does not know.
package charset

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/htmlindex"
	"golang.org/x/text/transform"
)

// ErrUnsupportedCharset is returned when a charset label cannot be resolved.
var ErrUnsupportedCharset = errors.New("unsupported charset")

// aliases maps labels found in real mail to labels the index understands.
var aliases = map[string]string{
	"5601":      "euc-kr",
	"ks_c_5601": "euc-kr",
	"ansi936":   "gbk",
	"ansi950":   "big5",
	"cp950":     "big5",
	"ms932":     "shift_jis",
	"cp932":     "shift_jis",
	"ms-ansi":   "windows-1252",
	"latin-1":   "iso-8859-1",
}

// Lookup returns the encoding for the given charset label. An empty label
// means US-ASCII, which is treated as UTF-8.
func Lookup(label string) (encoding.Encoding, error) {
	label = strings.ToLower(strings.Trim(strings.TrimSpace(label), `"`))
	if label == "" || label == "us-ascii" || label == "ascii" {
		label = "utf-8"
	}

	if alias, ok := aliases[label]; ok {
		label = alias
	}

	enc, err := htmlindex.Get(label)
	if err != nil {
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedCharset, label)
	}

	return enc, nil
}

// NewReader returns a reader that decodes r from the named charset to UTF-8.
func NewReader(label string, r io.Reader) (io.Reader, error) {
	enc, err := Lookup(label)
	if err != nil {
		return nil, err
	}
	return transform.NewReader(r, enc.NewDecoder()), nil
}

// ToUTF8 converts content from the named charset to a UTF-8 string. If the
// charset is not supported, the content is returned as a string unchanged
// together with an error wrapping ErrUnsupportedCharset.
func ToUTF8(label string, content []byte) (string, error) {
	enc, err := Lookup(label)
	if err != nil {
		return string(content), err
	}

	out, _, err := transform.Bytes(enc.NewDecoder(), content)
	if err != nil {
		return string(content), err
	}

	return string(out), nil
}
