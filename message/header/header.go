package header

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/mail"
	"strings"
	"time"

	"github.com/araddon/dateparse"
	"github.com/zostay/go-addr/pkg/addr"
	"gopkg.in/yaml.v3"

	"github.com/zostay/go-mailparse/message/header/field"
)

// Errors returned by various header methods and functions.
var (
	// ErrNoSuchField is returned by Header methods when the operation
	// being performed failed because the header named does not exist.
	ErrNoSuchField = errors.New("no such header field")

	// ErrBadDate is returned by GetDate when the field body does not match
	// the date format.
	ErrBadDate = errors.New("date does not match the expected format")
)

// These are standard headers defined in RFC 5322 and RFC 2045.
const (
	Bcc                     = "Bcc"
	Cc                      = "Cc"
	ContentDisposition      = "Content-Disposition"
	ContentTransferEncoding = "Content-Transfer-Encoding"
	ContentType             = "Content-Type"
	Date                    = "Date"
	From                    = "From"
	MessageID               = "Message-ID"
	ReplyTo                 = "Reply-To"
	Subject                 = "Subject"
	To                      = "To"
)

// Date formats understood by GetDate. Both describe the same layout; Go needs
// a separate layout for a numeric zone and a zone abbreviation.
const (
	DateFormat         = "Mon, _2 Jan 2006 15:04:05 -0700"
	DateFormatZoneName = "Mon, _2 Jan 2006 15:04:05 MST"
)

// Even more custom date formats, built from those seen in the wild that the
// usual parsers have trouble with.
const (
	// UnixDateWithEarlyYear is a weird one, eh?
	UnixDateWithEarlyYear = "Mon Jan 02 15:04:05 2006 MST"
)

// Header is an ordered table of header fields. The zero value is an empty
// header ready to use.
//
// Field names keep the letter-casing they had on the wire. Lookups ignore
// case and return the first match in field order.
type Header struct {
	fields []*field.Field
}

// put sets the field whose name matches name exactly, or appends a new field
// if there is none. It returns the field that was set.
func (h *Header) put(name, body string) *field.Field {
	for _, f := range h.fields {
		if f.Name() == name {
			f.SetBody(body)
			return f
		}
	}

	f := field.New(name, body)
	h.fields = append(h.fields, f)
	return f
}

// index returns the position of the first field matching name, ignoring case,
// or -1.
func (h *Header) index(name string) int {
	for i, f := range h.fields {
		if strings.EqualFold(f.Name(), name) {
			return i
		}
	}
	return -1
}

// Len returns the number of fields in the header.
func (h *Header) Len() int {
	return len(h.fields)
}

// Fields returns a copy of every field in the header in wire order.
func (h *Header) Fields() []*field.Field {
	fs := make([]*field.Field, len(h.fields))
	for i, f := range h.fields {
		fs[i] = f.Clone()
	}
	return fs
}

// Names returns the name of every field in wire order and original case.
func (h *Header) Names() []string {
	ns := make([]string, len(h.fields))
	for i, f := range h.fields {
		ns[i] = f.Name()
	}
	return ns
}

// Clone returns a deep copy of the header object.
func (h *Header) Clone() *Header {
	return &Header{fields: h.Fields()}
}

// Has returns true if a field with the given name is present, ignoring case.
func (h *Header) Has(name string) bool {
	return h.index(name) >= 0
}

// Get retrieves the body of the first field with the given name, ignoring
// case.
//
// If the named field is not set in the header, it will return an empty string
// with ErrNoSuchField.
func (h *Header) Get(name string) (string, error) {
	ix := h.index(name)
	if ix < 0 {
		return "", ErrNoSuchField
	}
	return h.fields[ix].Body(), nil
}

// GetDefault works like Get, but returns def when the field is missing.
func (h *Header) GetDefault(name, def string) string {
	if b, err := h.Get(name); err == nil {
		return b
	}
	return def
}

// GetAll fetches the bodies of every field with the given name, ignoring case.
//
// It returns nil with ErrNoSuchField if no field with the given name is set on
// the header.
func (h *Header) GetAll(name string) ([]string, error) {
	var bodies []string
	for _, f := range h.fields {
		if strings.EqualFold(f.Name(), name) {
			bodies = append(bodies, f.Body())
		}
	}

	if len(bodies) == 0 {
		return nil, ErrNoSuchField
	}

	return bodies, nil
}

// Set replaces the body of the field whose name matches name exactly,
// including case. If there is no such field, a new one is appended. Encoded
// words in body are decoded first.
func (h *Header) Set(name, body string) {
	h.put(name, DecodeValue(body))
}

// SetRaw works like Set, but stores body as given without decoding it. Use it
// to carry an already decoded value from one header to another.
func (h *Header) SetRaw(name, body string) {
	h.put(name, body)
}

// Delete removes every field whose name matches name, ignoring case.
func (h *Header) Delete(name string) {
	kept := h.fields[:0]
	for _, f := range h.fields {
		if !strings.EqualFold(f.Name(), name) {
			kept = append(kept, f)
		}
	}

	for i := len(kept); i < len(h.fields); i++ {
		h.fields[i] = nil
	}
	h.fields = kept
}

// GetMediaType returns the MIME type set in the Content-Type field, lowercased
// and without parameters.
//
// It returns an empty string and ErrNoSuchField if the field is not set.
func (h *Header) GetMediaType() (string, error) {
	ct, err := h.Get(ContentType)
	if err != nil {
		return "", err
	}

	mt, _, _ := strings.Cut(ct, ";")
	return strings.ToLower(strings.TrimSpace(mt)), nil
}

// ParseDate parses body using the date format of the Date field:
//
//	Mon, 2 Jan 2006 15:04:05 -0700
//
// The zone may be a numeric offset or an abbreviation. Anything else is
// rejected with ErrBadDate.
func ParseDate(body string) (time.Time, error) {
	body = strings.TrimSpace(body)
	if t, err := time.Parse(DateFormat, body); err == nil {
		return t, nil
	}

	if t, err := time.Parse(DateFormatZoneName, body); err == nil {
		return t, nil
	}

	return time.Time{}, ErrBadDate
}

// ParseTime is a function that provides the lenient time parsing used by
// GetTime() on any field body. This will attempt to parse the date using the
// format specified by RFC 5322 first and fallback to parsing it in many other
// formats.
//
// It either returns a parsed time or the parse error.
func ParseTime(body string) (time.Time, error) {
	t, err := mail.ParseDate(body)
	if err == nil {
		return t, nil
	}

	t, err = dateparse.ParseAny(body)
	if err == nil {
		return t, nil
	}

	t, err = time.Parse(UnixDateWithEarlyYear, body)
	if err == nil {
		return t, nil
	}

	return t, fmt.Errorf("time string %q cannot be parsed", body)
}

// GetDate parses the Date field using ParseDate.
//
// It returns ErrNoSuchField if there is no Date field and ErrBadDate if the
// field does not match the format.
func (h *Header) GetDate() (time.Time, error) {
	body, err := h.Get(Date)
	if err != nil {
		return time.Time{}, err
	}
	return ParseDate(body)
}

// GetTime gets the given date header field as a time.Time. It will attempt to
// parse the date in many formats, not just the format specified by RFC 5322
// (though, it will try that first).
//
// It will return an error if it is unable to parse the time value from the
// field. It will return the zero value and ErrNoSuchField if the field does not
// exist.
func (h *Header) GetTime(name string) (time.Time, error) {
	body, err := h.Get(name)
	if err != nil {
		return time.Time{}, err
	}
	return ParseTime(body)
}

// ParseAddressList provides the same address parsing functionality build into
// the GetAddressList() and can be used to parse any field body. It will attempt
// a strict parse of the email address list. However, if that fails, an
// extremely lenient parsing will be attempted, which might result in results
// that can only be described as "weird" in the effort to provide some kind of
// result. It is so forgiving, it will return some kind of value for any input.
func ParseAddressList(body string) addr.AddressList {
	al, err := addr.ParseEmailAddressList(body)
	if err != nil {
		al = parseEmailAddressList(body)
	}

	return al
}

// GetAddressList will return an addr.AddressList for the named field. This
// method works hard to avoid parse errors and tries to accept anything. As such
// a badly formatted address field might return a weird address value.
//
// It will return nil and ErrNoSuchField if the field is not set on the header.
func (h *Header) GetAddressList(name string) (addr.AddressList, error) {
	body, err := h.Get(name)
	if err != nil {
		return nil, err
	}
	return ParseAddressList(body), nil
}

// String renders the header with CRLF line breaks, each field unfolded on a
// single line, followed by the blank line that ends a header.
func (h *Header) String() string {
	var buf strings.Builder
	for _, f := range h.fields {
		buf.WriteString(f.String())
		buf.WriteString(CRLF.String())
	}
	buf.WriteString(CRLF.String())
	return buf.String()
}

// MarshalJSON renders the header as a JSON object whose keys appear in field
// order with their original case.
func (h *Header) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, f := range h.fields {
		if i > 0 {
			buf.WriteByte(',')
		}

		k, err := json.Marshal(f.Name())
		if err != nil {
			return nil, err
		}

		v, err := json.Marshal(f.Body())
		if err != nil {
			return nil, err
		}

		buf.Write(k)
		buf.WriteByte(':')
		buf.Write(v)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// MarshalYAML renders the header as a YAML mapping whose keys appear in field
// order with their original case.
func (h *Header) MarshalYAML() (any, error) {
	node := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
	for _, f := range h.fields {
		node.Content = append(node.Content,
			&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: f.Name()},
			&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: f.Body()},
		)
	}
	return node, nil
}

// parseEmailAddressList is a fallback method for email address parsing. The
// parser in github.com/zostay/go-addr is a strict parser, which is useful for
// getting good accurate parsing of email addresses, especially for validating
// data entry. However, when working with the mess that is the Internet, you
// want to get something useful (strict out/liberal in), even if its technically
// wrong, well, this method can be used to clean up the mess.
//
// It works as follows:
//
// 1. Split the string up by commas.
// 2. Each string resulting from the split is trimmed of whitespace.
// 3. The comments are stripped from each string and held.
// 4. All the words at the start are treated as the display name.
// 5. The last word at the end is treated as the email address.
//
// We stuff whatever we get into an addr.Mailbox and call it good. Groups are
// never produced.
func parseEmailAddressList(v string) addr.AddressList {
	extractComments := func(s string) (string, string) {
		var clean, comment strings.Builder
		nestLevel := 0
		for _, c := range s {
			switch {
			case c == '(':
				nestLevel++
				if nestLevel == 1 {
					continue
				}
				comment.WriteRune(c)
			case c == ')':
				nestLevel--
				switch {
				case nestLevel == 0:
					continue
				case nestLevel < 0:
					nestLevel = 0
					clean.WriteRune(c)
				default:
					comment.WriteRune(c)
				}
			case nestLevel > 0:
				comment.WriteRune(c)
			default:
				clean.WriteRune(c)
			}
		}

		return clean.String(), comment.String()
	}

	mbs := strings.Split(v, ",")
	as := make(addr.AddressList, 0, len(mbs))
	for _, orig := range mbs {
		mb, com := extractComments(orig)

		mb = strings.TrimSpace(mb)
		com = strings.TrimSpace(com)

		parts := strings.Fields(mb)

		var dn, email string
		switch {
		case len(parts) == 0:
			email = ""
		case len(parts) > 1:
			dn = strings.Join(parts[:len(parts)-1], " ")
			email = parts[len(parts)-1]
		default:
			email = parts[0]
		}

		email = strings.Trim(email, "<>")
		if email == "" {
			continue
		}

		var addrSpec *addr.AddrSpec
		if i := strings.Index(email, "@"); i > -1 {
			addrSpec = addr.NewAddrSpecParsed(email[:i], email[i+1:], email)
		} else {
			addrSpec = addr.NewAddrSpecParsed(email, "", email)
		}

		mailbox, err := addr.NewMailboxParsed(dn, addrSpec, com, orig)
		if err != nil {
			mailbox, _ = addr.NewMailboxParsed(dn, addrSpec, "", orig)
		}

		as = append(as, mailbox)
	}

	return as
}
