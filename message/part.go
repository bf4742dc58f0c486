package message

import (
	"mime"
	"regexp"
	"strings"

	"github.com/zostay/go-mailparse/message/charset"
	"github.com/zostay/go-mailparse/message/header"
	"github.com/zostay/go-mailparse/message/transfer"
)

var (
	filenameParam = regexp.MustCompile(`(?i)filename\s*=\s*([^;]+)`)
	nameParam     = regexp.MustCompile(`(?i)(?:^|[;\s])name\s*=\s*([^;]+)`)
)

// Part is a single MIME part of a message. It has its own header, separate
// from the message header, and either content or, when it is a multipart
// container, child parts.
//
// Every method on Part is read-only.
type Part struct {
	header.Header

	content   []byte
	boundary  string
	parts     []*Part
	multipart bool
	decodeQP  bool
}

// IsMultipart returns true if this part was split into sub-parts. A part with
// a multipart Content-Type that could not be split (no boundary, or too
// deeply nested) is a leaf and returns false.
func (p *Part) IsMultipart() bool {
	return p.multipart
}

// Boundary returns the boundary used to split this part. It is empty for
// leaf parts.
func (p *Part) Boundary() string {
	return p.boundary
}

// Children returns the immediate sub-parts of a multipart part. It returns
// nil for leaf parts.
func (p *Part) Children() []*Part {
	return p.parts
}

// Parts returns every leaf part below this one in document order. It returns
// nil for a leaf part.
func (p *Part) Parts() []*Part {
	if !p.multipart {
		return nil
	}
	return leaves(p.parts)
}

// Raw returns the content of the part with surrounding whitespace removed, but
// otherwise as found in the message: transfer encoded and with CRLF line
// endings. The returned slice must not be modified.
func (p *Part) Raw() []byte {
	return p.content
}

// ContentType returns the Content-Type field of the part or an empty string.
func (p *Part) ContentType() string {
	return p.GetDefault(header.ContentType, "")
}

// MediaType returns the lowercased media type of the part without its
// parameters, or an empty string if the part has no Content-Type.
func (p *Part) MediaType() string {
	mt, _ := p.GetMediaType()
	return mt
}

// TransferEncoding returns the Content-Transfer-Encoding field of the part or
// an empty string.
func (p *Part) TransferEncoding() string {
	return p.GetDefault(header.ContentTransferEncoding, "")
}

// Disposition returns the Content-Disposition field of the part or an empty
// string.
func (p *Part) Disposition() string {
	return p.GetDefault(header.ContentDisposition, "")
}

// IsAttachment returns true if the Content-Disposition of the part begins with
// "attachment".
func (p *Part) IsAttachment() bool {
	d := strings.ToLower(strings.TrimSpace(p.Disposition()))
	return strings.HasPrefix(d, "attachment")
}

// IsHTML returns true if the media type of the part is text/html.
func (p *Part) IsHTML() bool {
	return p.MediaType() == "text/html"
}

// IsText returns true if the media type of the part is text/plain.
func (p *Part) IsText() bool {
	return p.MediaType() == "text/plain"
}

// isTextual returns true for text/* parts and parts without a media type,
// which default to text/plain.
func (p *Part) isTextual() bool {
	mt := p.MediaType()
	return mt == "" || strings.HasPrefix(mt, "text/")
}

// Content returns the decoded content of a leaf part. Base64 content is
// decoded. Quoted-printable content is only decoded if the message was parsed
// with DecodeQuotedPrintable(). Everything else is returned as found.
//
// Line endings are normalized to LF, except in base64 content that is not
// text, which is returned exactly as decoded.
//
// Content returns nil for multipart parts. The returned slice belongs to the
// caller.
func (p *Part) Content() []byte {
	if p.multipart {
		return nil
	}

	cte := p.TransferEncoding()
	content := transfer.Decoder(cte, p.decodeQP)(p.content)
	if transfer.IsBase64(cte) && !p.isTextual() {
		return content
	}

	return transfer.NormalizeLineEndings(content)
}

// Size returns the length in bytes of the decoded content.
func (p *Part) Size() int {
	return len(p.Content())
}

// Charset returns the charset parameter of the Content-Type, or an empty
// string if there is none.
func (p *Part) Charset() string {
	_, params, err := mime.ParseMediaType(p.ContentType())
	if err != nil {
		return ""
	}
	return params["charset"]
}

// Text returns the decoded content converted to UTF-8 from the charset named
// in the Content-Type. If the charset is unknown, the content is returned as
// it is along with charset.ErrUnsupportedCharset.
func (p *Part) Text() (string, error) {
	return charset.ToUTF8(p.Charset(), p.Content())
}

// Filename returns the name of an attached file. It is taken from the
// filename parameter of the Content-Disposition, else the name parameter of
// the Content-Type. RFC 2231 encoded parameters are understood too. It returns
// an empty string if neither is present.
func (p *Part) Filename() string {
	if fn := paramValue(p.Disposition(), filenameParam, "filename"); fn != "" {
		return fn
	}
	return paramValue(p.ContentType(), nameParam, "name")
}

// paramValue finds a parameter in a field body. The lenient pattern goes
// first, then the RFC 2045/2231 parser of the mime package for values the
// pattern cannot see (such as filename*=).
func paramValue(body string, re *regexp.Regexp, name string) string {
	if m := re.FindStringSubmatch(body); m != nil {
		if v := strings.Trim(m[1], " \t\"'"); v != "" {
			return v
		}
	}

	if _, params, err := mime.ParseMediaType(body); err == nil {
		return params[name]
	}

	return ""
}
