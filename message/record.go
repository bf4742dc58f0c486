package message

import (
	"encoding/base64"
	"time"
	"unicode/utf8"

	"github.com/zostay/go-mailparse/message/header"
)

// ContentBase64 is the value of PartRecord.ContentEncoding when the content
// was not valid UTF-8 and has been base64 encoded.
const ContentBase64 = "base64"

// Record is a flat projection of a Message meant for logging, storage, or
// printing as JSON or YAML.
type Record struct {
	ID      string         `json:"id" yaml:"id"`
	Subject string         `json:"subject" yaml:"subject"`
	From    string         `json:"from" yaml:"from"`
	To      string         `json:"to" yaml:"to"`
	ReplyTo string         `json:"reply_to" yaml:"reply_to"`
	Date    *time.Time     `json:"date" yaml:"date"`
	Headers *header.Header `json:"headers" yaml:"headers"`
	Parts   []PartRecord   `json:"parts" yaml:"parts"`
}

// PartRecord is the projection of a single leaf part used in Record.
//
// Content holds the decoded content. If that is not valid UTF-8, it holds the
// base64 encoding of the content instead and ContentEncoding is set to
// ContentBase64.
type PartRecord struct {
	Headers         *header.Header `json:"headers" yaml:"headers"`
	ContentType     string         `json:"content_type" yaml:"content_type"`
	Filename        string         `json:"filename,omitempty" yaml:"filename,omitempty"`
	Attachment      bool           `json:"attachment" yaml:"attachment"`
	Size            int            `json:"size" yaml:"size"`
	ContentEncoding string         `json:"content_encoding,omitempty" yaml:"content_encoding,omitempty"`
	Content         string         `json:"content" yaml:"content"`
}

// Record returns the Record projection of the message. Date is nil if the
// Date field is missing or cannot be parsed. Parts lists the leaf parts.
func (m *Message) Record() Record {
	r := Record{
		ID:      m.ID(),
		Subject: m.Subject(),
		From:    m.From(),
		To:      m.To(),
		ReplyTo: m.ReplyTo(),
		Headers: m.Clone(),
	}

	if d, ok := m.Date(); ok {
		r.Date = &d
	}

	parts := m.Parts()
	r.Parts = make([]PartRecord, len(parts))
	for i, p := range parts {
		r.Parts[i] = p.Record()
	}

	return r
}

// Record returns the PartRecord projection of the part.
func (p *Part) Record() PartRecord {
	content := p.Content()

	pr := PartRecord{
		Headers:     p.Clone(),
		ContentType: p.ContentType(),
		Filename:    p.Filename(),
		Attachment:  p.IsAttachment(),
		Size:        len(content),
	}

	if utf8.Valid(content) {
		pr.Content = string(content)
	} else {
		pr.ContentEncoding = ContentBase64
		pr.Content = base64.StdEncoding.EncodeToString(content)
	}

	return pr
}
