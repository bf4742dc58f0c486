package message

import (
	"bytes"
	"io"
	"os"
	"regexp"

	"go.uber.org/zap"

	"github.com/zostay/go-mailparse/message/header"
	"github.com/zostay/go-mailparse/message/transfer"
)

// Constants related to Parse() options.
const (
	// DefaultMaxMultipartDepth is the default depth the parser will recurse
	// into a message.
	DefaultMaxMultipartDepth = 50
)

var (
	crlf      = []byte("\r\n")
	blankLine = []byte("\r\n\r\n")
)

// firstHeaderLine finds the first line that looks like the start of a header.
var firstHeaderLine = regexp.MustCompile(`(?m)^[\w-]+: \S`)

type parser struct {
	maxDepth     int
	decodeQP     bool
	lenientDates bool
	logger       *zap.Logger
}

func (pr *parser) clone() *parser {
	p := *pr
	return &p
}

var defaultParser = &parser{
	maxDepth: DefaultMaxMultipartDepth,
	logger:   zap.NewNop(),
}

// ParseOption refers to options that may be passed to the Parse function to
// modify how the parser works.
type ParseOption func(pr *parser)

// WithMaxDepth is a ParseOption that controls how deep the parser will go in
// recursively splitting a multipart message. Splitting the message body
// itself counts as the first level. A multipart part found at the maximum
// depth is not split, but exposed as a single leaf part. A negative value
// means there is no limit. The default is DefaultMaxMultipartDepth.
func WithMaxDepth(maxDepth int) ParseOption {
	return func(pr *parser) { pr.maxDepth = maxDepth }
}

// WithoutRecursion is a ParseOption that will only allow a single level of
// multipart parsing.
func WithoutRecursion() ParseOption {
	return func(pr *parser) { pr.maxDepth = 1 }
}

// WithUnlimitedRecursion is a ParseOption that will allow the parser to parse
// sub-parts of any depth. Only use this on input you trust.
func WithUnlimitedRecursion() ParseOption {
	return func(pr *parser) { pr.maxDepth = -1 }
}

// DecodeQuotedPrintable is a ParseOption that makes Part.Content decode
// quoted-printable content. By default, quoted-printable content is handed to
// the caller as-is and only base64 is decoded.
func DecodeQuotedPrintable() ParseOption {
	return func(pr *parser) { pr.decodeQP = true }
}

// WithLenientDates is a ParseOption that makes Message.Date accept any date
// format header.ParseTime understands instead of only header.DateFormat.
func WithLenientDates() ParseOption {
	return func(pr *parser) { pr.lenientDates = true }
}

// WithLogger is a ParseOption that sets the logger used to report the
// malformations the parser recovers from. Those are logged at debug level.
// Nothing is logged by default.
func WithLogger(logger *zap.Logger) ParseOption {
	return func(pr *parser) {
		if logger == nil {
			logger = zap.NewNop()
		}
		pr.logger = logger
	}
}

// canDescend returns true if a body found at the given depth may be split.
func (pr *parser) canDescend(depth int) bool {
	return pr.maxDepth < 0 || depth < pr.maxDepth
}

// Parse decomposes the raw message into a Message. Parse proceeds in these
// steps:
//
// 1. Anything before the first line that looks like a header field ("Name:
// value" at the start of a line) is thrown away. Relays and mailbox formats
// sometimes prepend junk.
//
// 2. Line endings are made CRLF throughout.
//
// 3. The header is split from the body at the first blank line. Without a
// blank line, the whole message is header and the body is empty.
//
// 4. The header is parsed and RFC 2047 encoded words are decoded.
//
// 5. The boundary is resolved from the Content-Type, or recovered from the
// body when the Content-Type says multipart but the boundary parameter is
// broken. See ResolveBoundary.
//
// 6. With a boundary, the body is split into parts and each multipart part is
// split again recursively, up to the depth set with WithMaxDepth().
//
// 7. Without a boundary, the whole body becomes a single anonymous part that
// carries the Content-Type of the message. The Content-Transfer-Encoding is
// moved from the message header to that part, since it describes the part.
//
// Parse never fails. Bad input results in fewer or emptier parts.
func Parse(raw []byte, opts ...ParseOption) *Message {
	pr := defaultParser.clone()
	for _, opt := range opts {
		opt(pr)
	}

	return pr.parse(raw)
}

// ParseString works like Parse, but takes a string.
func ParseString(raw string, opts ...ParseOption) *Message {
	return Parse([]byte(raw), opts...)
}

// ParseReader reads all of r and then works like Parse. Any error returned by
// r is returned as-is.
func ParseReader(r io.Reader, opts ...ParseOption) (*Message, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	return Parse(raw, opts...), nil
}

// ParseFile reads the named file and then works like Parse. Any error opening
// or reading the file is returned as-is, so os.ErrNotExist and friends can be
// checked with errors.Is.
func ParseFile(path string, opts ...ParseOption) (*Message, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Parse(raw, opts...), nil
}

// skipNoise drops everything before the first line that looks like a header.
// If there is no such line, raw is returned untouched.
func (pr *parser) skipNoise(raw []byte) []byte {
	loc := firstHeaderLine.FindIndex(raw)
	if loc == nil {
		return raw
	}

	if loc[0] > 0 {
		pr.logger.Debug("discarded bytes before the first header",
			zap.Int("bytes", loc[0]))
	}

	return raw[loc[0]:]
}

// splitHeadFromBody splits CRLF text at the first blank line. A blank line at
// the very start means an empty header. When there is no blank line at all, a
// message is all header and a part is all body, which is what subpart picks.
func splitHeadFromBody(text []byte, subpart bool) (head, body []byte) {
	if bytes.HasPrefix(text, crlf) {
		return nil, text[len(crlf):]
	}

	pos := bytes.Index(text, blankLine)
	if pos < 0 {
		if subpart {
			return nil, text
		}
		return text, nil
	}

	return text[:pos], text[pos+len(blankLine):]
}

// parseHeader parses and decodes a header block.
func parseHeader(block []byte) header.Header {
	h := header.Parse(block, header.CRLF)
	h.Decode()
	return *h
}

// parse implements Parse.
func (pr *parser) parse(raw []byte) *Message {
	text := transfer.CanonicalLineEndings(pr.skipNoise(raw))
	head, body := splitHeadFromBody(text, false)

	msg := &Message{
		Header:       parseHeader(head),
		size:         len(raw),
		lenientDates: pr.lenientDates,
	}

	ct := msg.GetDefault(header.ContentType, "")
	boundary, recovered := ResolveBoundary(ct, body)
	if recovered {
		pr.logger.Debug("recovered boundary from message body",
			zap.String("content_type", ct),
			zap.String("boundary", boundary))
	} else if boundary == "" && isMultipartType(ct) {
		pr.logger.Debug("multipart message without a boundary",
			zap.String("content_type", ct))
	}

	if boundary != "" && pr.canDescend(0) {
		msg.boundary = boundary
		msg.parts = pr.parseParts(body, boundary, 1)
		return msg
	}

	if boundary != "" {
		pr.logger.Debug("maximum depth reached, message body left unsplit",
			zap.Int("max_depth", pr.maxDepth))
	}

	msg.parts = []*Part{pr.anonymousPart(msg, body)}
	return msg
}

// anonymousPart wraps the body of a message with no boundary into a single
// part, copying the Content-Type and moving the Content-Transfer-Encoding from
// the message header.
func (pr *parser) anonymousPart(msg *Message, body []byte) *Part {
	p := &Part{
		content:  trimContent(body),
		decodeQP: pr.decodeQP,
	}

	for _, f := range msg.Fields() {
		if isField(f.Name(), header.ContentType) && !p.Has(header.ContentType) {
			p.SetRaw(f.Name(), f.Body())
		}
	}

	for _, f := range msg.Fields() {
		if isField(f.Name(), header.ContentTransferEncoding) && !p.Has(header.ContentTransferEncoding) {
			p.SetRaw(f.Name(), f.Body())
		}
	}
	msg.Delete(header.ContentTransferEncoding)

	return p
}

// parseParts splits body on boundary and parses each segment into a part
// found at the given depth.
func (pr *parser) parseParts(body []byte, boundary string, depth int) []*Part {
	segments := splitSegments(body, boundary)
	parts := make([]*Part, 0, len(segments))
	for _, seg := range segments {
		parts = append(parts, pr.parsePart(seg, depth))
	}
	return parts
}

// parsePart turns a single segment into a part. If the part is multipart and
// the depth limit allows, it is split into sub-parts.
func (pr *parser) parsePart(segment []byte, depth int) *Part {
	head, body := splitHeadFromBody(segment, true)

	p := &Part{
		Header:   parseHeader(head),
		content:  trimContent(body),
		decodeQP: pr.decodeQP,
	}

	ct := p.GetDefault(header.ContentType, "")
	if !isMultipartType(ct) {
		return p
	}

	if !pr.canDescend(depth) {
		pr.logger.Debug("maximum depth reached, multipart part left unsplit",
			zap.Int("depth", depth),
			zap.String("content_type", ct))
		return p
	}

	boundary, recovered := ResolveBoundary(ct, body)
	if boundary == "" {
		pr.logger.Debug("multipart part without a boundary",
			zap.Int("depth", depth),
			zap.String("content_type", ct))
		return p
	}

	if recovered {
		pr.logger.Debug("recovered boundary from part body",
			zap.Int("depth", depth),
			zap.String("content_type", ct),
			zap.String("boundary", boundary))
	}

	p.boundary = boundary
	p.multipart = true
	p.parts = pr.parseParts(body, boundary, depth+1)
	return p
}

// trimContent strips the whitespace surrounding the content of a part.
func trimContent(body []byte) []byte {
	return bytes.Trim(body, " \t\r\n")
}
