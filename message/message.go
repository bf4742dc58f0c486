package message

import (
	"strings"
	"time"

	"github.com/zostay/go-addr/pkg/addr"

	"github.com/zostay/go-mailparse/message/header"
)

// Message is a parsed email message: the envelope header and the tree of
// parts found in the body. Build one with Parse or one of its siblings.
//
// A message always has at least one part when its body could not be split.
// A message with a boundary may have no parts at all if the body held nothing
// but delimiters and whitespace.
type Message struct {
	header.Header

	boundary     string
	parts        []*Part
	size         int
	lenientDates bool
}

// ID returns the Message-ID with surrounding space and angle brackets
// removed, or an empty string.
func (m *Message) ID() string {
	id := strings.TrimSpace(m.GetDefault(header.MessageID, ""))
	return strings.Trim(id, "<>")
}

// Subject returns the decoded Subject or an empty string.
func (m *Message) Subject() string {
	return m.GetDefault(header.Subject, "")
}

// From returns the From field or an empty string.
func (m *Message) From() string {
	return m.GetDefault(header.From, "")
}

// To returns the To field or an empty string.
func (m *Message) To() string {
	return m.GetDefault(header.To, "")
}

// ReplyTo returns the Reply-To field or an empty string.
func (m *Message) ReplyTo() string {
	return m.GetDefault(header.ReplyTo, "")
}

// Cc returns the Cc field or an empty string.
func (m *Message) Cc() string {
	return m.GetDefault(header.Cc, "")
}

// Bcc returns the Bcc field or an empty string.
func (m *Message) Bcc() string {
	return m.GetDefault(header.Bcc, "")
}

// FromAddresses parses the From field into an address list. It returns nil if
// there is no From field.
func (m *Message) FromAddresses() addr.AddressList {
	al, _ := m.GetAddressList(header.From)
	return al
}

// ToAddresses parses the To field into an address list. It returns nil if
// there is no To field.
func (m *Message) ToAddresses() addr.AddressList {
	al, _ := m.GetAddressList(header.To)
	return al
}

// ContentType returns the Content-Type field of the envelope or an empty
// string.
func (m *Message) ContentType() string {
	return m.GetDefault(header.ContentType, "")
}

// Date returns the parsed Date field. Only header.DateFormat is accepted
// unless the message was parsed WithLenientDates(). It returns false if the
// field is missing or cannot be parsed.
func (m *Message) Date() (time.Time, bool) {
	var (
		t   time.Time
		err error
	)
	if m.lenientDates {
		t, err = m.GetTime(header.Date)
	} else {
		t, err = m.GetDate()
	}
	return t, err == nil
}

// Size returns the size in bytes of the raw message given to the parser.
func (m *Message) Size() int {
	return m.size
}

// Boundary returns the boundary the body was split with, which may have been
// recovered from the body. It is empty if the body was not split.
func (m *Message) Boundary() string {
	return m.boundary
}

// Children returns the top-level parts of the message, with multipart parts
// still holding their sub-parts.
func (m *Message) Children() []*Part {
	return m.parts
}

// Parts returns every leaf part of the message in document order, however
// deeply nested. Multipart containers are left out.
func (m *Message) Parts() []*Part {
	return leaves(m.parts)
}

// Walk runs w over every part of the message, containers included. See
// PartWalker.Walk.
func (m *Message) Walk(w PartWalker) error {
	return w.Walk(m.parts...)
}

// findPart returns the first leaf part matching pred or nil.
func (m *Message) findPart(pred func(*Part) bool) *Part {
	for _, p := range m.Parts() {
		if pred(p) {
			return p
		}
	}
	return nil
}

// HTMLPart returns the first text/html leaf part or nil.
func (m *Message) HTMLPart() *Part {
	return m.findPart((*Part).IsHTML)
}

// TextPart returns the first text/plain leaf part or nil.
func (m *Message) TextPart() *Part {
	return m.findPart((*Part).IsText)
}

// Attachments returns every leaf part whose Content-Disposition begins with
// "attachment", in document order.
func (m *Message) Attachments() []*Part {
	var as []*Part
	for _, p := range m.Parts() {
		if p.IsAttachment() {
			as = append(as, p)
		}
	}
	return as
}
