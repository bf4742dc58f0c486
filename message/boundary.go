package message

import (
	"bytes"
	"regexp"
	"strings"
)

var (
	// boundaryParam pulls the boundary parameter out of a Content-Type body.
	// The value runs to the next semicolon or the end of the line.
	boundaryParam = regexp.MustCompile(`(?i)(?:^|[;\s])boundary\s*=\s*([^;\r\n]+)`)

	// bodyDelimiter finds a line that looks like a boundary delimiter, using
	// the boundary alphabet of RFC 2046. The last character may not be a
	// space. A closing "--" is not part of the boundary.
	bodyDelimiter = regexp.MustCompile(`(?m)^--([0-9A-Za-z'()+_,\-./:=? ]{0,69}?[0-9A-Za-z'()+_,\-./:=?])(?:--)?\r?$`)

	// multipartType matches a Content-Type with a multipart media type.
	multipartType = regexp.MustCompile(`(?i)^\s*multipart/`)
)

// isMultipartType returns true if the Content-Type body names a multipart
// media type.
func isMultipartType(ct string) bool {
	return multipartType.MatchString(ct)
}

// isField compares field names the way header lookups do.
func isField(name, want string) bool {
	return strings.EqualFold(name, want)
}

// ResolveBoundary determines the boundary used to split body. It tries these
// in order:
//
// 1. The boundary parameter of the Content-Type, with surrounding spaces and
// quotes removed.
//
// 2. If the Content-Type is multipart but the parameter is missing or broken,
// the first line of body that looks like a boundary delimiter ("--" followed
// by a valid boundary), in which case recovered is true.
//
// It returns an empty boundary when neither works, which means body is not to
// be split.
func ResolveBoundary(contentType string, body []byte) (boundary string, recovered bool) {
	if m := boundaryParam.FindStringSubmatch(contentType); m != nil {
		b := strings.Trim(m[1], " \t\"'")
		if b != "" {
			return b, false
		}
	}

	if !isMultipartType(contentType) {
		return "", false
	}

	if m := bodyDelimiter.FindSubmatch(body); m != nil {
		return string(m[1]), true
	}

	return "", false
}

// delimiterRegexp builds the pattern for every delimiter of boundary: the
// boundary prefixed with "--", optionally closed with "--", along with any
// trailing blanks and the line break or end of input after it.
//
// The delimiter is not anchored to the start of a line, since some mailers
// glue it to the end of the previous line. It must end the line, though, so
// a nested boundary such as "outer-alt" never matches "outer".
func delimiterRegexp(boundary string) *regexp.Regexp {
	return regexp.MustCompile(`--` + regexp.QuoteMeta(boundary) + `(?:--)?[ \t]*(?:\r\n|$)`)
}

// splitSegments splits body at every delimiter of boundary. The preamble
// before the first delimiter and the epilogue after the last are kept like
// any other segment. Segments holding nothing but whitespace are dropped.
func splitSegments(body []byte, boundary string) [][]byte {
	delims := delimiterRegexp(boundary).FindAllIndex(body, -1)

	segments := make([][]byte, 0, len(delims)+1)
	keep := func(seg []byte) {
		if len(bytes.TrimSpace(seg)) > 0 {
			segments = append(segments, seg)
		}
	}

	prev := 0
	for _, loc := range delims {
		keep(body[prev:loc[0]])
		prev = loc[1]
	}
	keep(body[prev:])

	return segments
}
