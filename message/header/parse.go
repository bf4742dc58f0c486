package header

import (
	"bytes"
	"regexp"
	"strings"

	"github.com/zostay/go-mailparse/message/header/field"
)

// fieldLine matches a line that starts a new header field.
var fieldLine = regexp.MustCompile(`^([\w-]+):\s*(.*)$`)

// Parse will parse the given slice of bytes into a Header. The lines of m are
// separated by lb. If lb is Meh, lines are split on LF and any CR left at the
// end of a line is dropped, which works for both CRLF and LF input.
//
// Parsing never fails:
//
// * A line beginning with a space or tab continues the most recently started
// field. It is trimmed and joined to the field body with a single space.
//
// * A line of the form "Name: body" starts a new field. If a field with
// exactly the same name was already seen, that field is replaced in place
// rather than duplicated.
//
// * Anything else, including a continuation line with no field to continue,
// is dropped.
//
// The returned header has not been through RFC 2047 decoding. Call Decode()
// for that.
func Parse(m []byte, lb Break) *Header {
	sep := lb.Bytes()
	if lb == Meh {
		sep = LF.Bytes()
	}

	h := &Header{}
	var current *field.Field
	for _, raw := range bytes.Split(m, sep) {
		line := strings.TrimSuffix(string(raw), "\r")
		if line == "" {
			continue
		}

		if line[0] == ' ' || line[0] == '\t' {
			if current != nil {
				current.AppendBody(strings.TrimSpace(line))
			}
			continue
		}

		match := fieldLine.FindStringSubmatch(line)
		if match == nil {
			continue
		}

		current = h.put(match[1], match[2])
	}

	return h
}
