package message_test

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/zostay/go-mailparse/message"
	"github.com/zostay/go-mailparse/message/header"
)

const simpleMessage = `From: Sender <no-reply@example.com>
To: Receiver <receiver@example.com>
Subject: Test Subject
Message-ID: <6e30b164904cf01158c7cc58f144b9ca@example.com>
MIME-Version: 1.0
Date: Fri, 25 Aug 2023 15:36:13 +0200
Content-Type: text/html; charset=utf-8
Content-Transfer-Encoding: quoted-printable

Email content goes here.
`

const htmlBody = `<html>
<head>
<title>This is an HTML email</title>
</head>
<body>
<h1>This is the HTML version of the email</h1>
</body>
</html>`

const twoPartMessage = `From: sender@example.com
To: recipient@example.com
Cc: cc@example.com
Bcc: bcc@example.com
Subject: This is an email with common headers
Date: Thu, 24 Aug 2023 21:15:01 PST
MIME-Version: 1.0
Content-Type: multipart/mixed; boundary="----=_Part_1_1234567890"

------=_Part_1_1234567890
Content-Type: text/plain; charset="utf-8"

This is the text version of the email.

------=_Part_1_1234567890
Content-Type: text/html; charset="utf-8"

` + htmlBody + `

------=_Part_1_1234567890--
`

func TestParse_Simple(t *testing.T) {
	t.Parallel()

	m := message.ParseString(simpleMessage)

	assert.Equal(t, "Sender <no-reply@example.com>", m.From())
	assert.Equal(t, "Receiver <receiver@example.com>", m.To())
	assert.Equal(t, "Test Subject", m.Subject())
	assert.Equal(t, "6e30b164904cf01158c7cc58f144b9ca@example.com", m.ID())
	assert.Equal(t, "text/html; charset=utf-8", m.ContentType())
	assert.Equal(t, "", m.Boundary())
	assert.Equal(t, len(simpleMessage), m.Size())

	d, ok := m.Date()
	require.True(t, ok)
	assert.Equal(t, "2023-08-25 15:36:13", d.Format("2006-01-02 15:04:05"))
	_, offset := d.Zone()
	assert.Equal(t, 2*60*60, offset)

	html := m.HTMLPart()
	require.NotNil(t, html)
	assert.Equal(t, []byte("Email content goes here."), html.Content())
	assert.Equal(t, []string{"Content-Type", "Content-Transfer-Encoding"}, html.Names())
	assert.Equal(t, "text/html; charset=utf-8", html.ContentType())
	assert.Equal(t, "quoted-printable", html.TransferEncoding())
	assert.Nil(t, m.TextPart())

	// the transfer encoding belongs to the part now
	assert.False(t, m.Has(header.ContentTransferEncoding))
}

func TestParse_LowercaseHeaders(t *testing.T) {
	t.Parallel()

	m := message.ParseString(`from: Sender <no-reply@example.com>
to: Receiver <receiver@example.com>
subject: Test Subject
message-id: <6e30b164904cf01158c7cc58f144b9ca@example.com>
mime-version: 1.0
date: Fri, 25 Aug 2023 15:36:13 +0200
content-type: text/html; charset=utf-8
content-transfer-encoding: quoted-printable

Email content goes here.
`)

	assert.Equal(t, []string{
		"from", "to", "subject", "message-id", "mime-version", "date", "content-type",
	}, m.Names())
	assert.Equal(t, "Sender <no-reply@example.com>", m.From())
	assert.Equal(t, "6e30b164904cf01158c7cc58f144b9ca@example.com", m.ID())
	assert.Equal(t, "text/html; charset=utf-8", m.GetDefault("Content-Type", ""))

	parts := m.Parts()
	require.Len(t, parts, 1)
	assert.Equal(t, []string{"content-type", "content-transfer-encoding"}, parts[0].Names())
}

func TestParse_WithBoundaries(t *testing.T) {
	t.Parallel()

	m := message.ParseString(twoPartMessage)

	assert.Equal(t, []string{
		"From", "To", "Cc", "Bcc", "Subject", "Date", "MIME-Version", "Content-Type",
	}, m.Names())
	assert.Equal(t, "This is an email with common headers", m.Subject())
	assert.Equal(t, "cc@example.com", m.Cc())
	assert.Equal(t, "bcc@example.com", m.Bcc())
	assert.Equal(t, "----=_Part_1_1234567890", m.Boundary())

	d, ok := m.Date()
	require.True(t, ok)
	assert.Equal(t, "2023-08-24 21:15:01", d.Format("2006-01-02 15:04:05"))

	parts := m.Parts()
	require.Len(t, parts, 2)

	assert.Equal(t, `text/plain; charset="utf-8"`, parts[0].ContentType())
	assert.Equal(t, []byte("This is the text version of the email."), parts[0].Content())
	assert.Equal(t, "utf-8", parts[0].Charset())
	assert.True(t, parts[0].IsText())

	assert.Equal(t, `text/html; charset="utf-8"`, parts[1].ContentType())
	assert.Equal(t, []byte(htmlBody), parts[1].Content())
	assert.True(t, parts[1].IsHTML())

	assert.Same(t, parts[0], m.TextPart())
	assert.Same(t, parts[1], m.HTMLPart())
	assert.Empty(t, m.Attachments())
}

func TestParse_EncodedPart(t *testing.T) {
	t.Parallel()

	m := message.ParseString(`From: sender@example.com
Subject: This is an email with common headers
Content-Type: multipart/mixed; boundary="----=_Part_1_1234567890"

------=_Part_1_1234567890
Content-Type: text/html; charset="utf-8"

` + htmlBody + `

------=_Part_1_1234567890
Content-Type: text/plain; name=test.txt
Content-Transfer-Encoding: base64
Content-Disposition: attachment; name=test.txt;
 filename="test.txt"; name="test.txt"

VGhpcyBpcyBhIHRlc3Qgc3RyaW5n
------=_Part_1_1234567890--
`)

	parts := m.Parts()
	require.Len(t, parts, 2)
	assert.True(t, parts[0].IsHTML())

	att := parts[1]
	assert.Equal(t, []byte("This is a test string"), att.Content())
	assert.Equal(t, []byte("VGhpcyBpcyBhIHRlc3Qgc3RyaW5n"), att.Raw())
	assert.Equal(t, 21, att.Size())
	assert.True(t, att.IsAttachment())
	assert.Equal(t, "test.txt", att.Filename())
	assert.Equal(t, `attachment; name=test.txt; filename="test.txt"; name="test.txt"`, att.Disposition())

	as := m.Attachments()
	require.Len(t, as, 1)
	assert.Same(t, att, as[0])
}

func TestParse_SkipsLeadingNoise(t *testing.T) {
	t.Parallel()

	core, logs := observer.New(zap.DebugLevel)
	m := message.ParseString(`This is some initial content that is not part of the message.

From: sender@example.com
To: recipient@example.com
Subject: This is an email with common headers
Content-Type: multipart/mixed; boundary="----=_Part_1_1234567890"

------=_Part_1_1234567890
Content-Type: text/html; charset="utf-8"

`+htmlBody+`

------=_Part_1_1234567890--
`, message.WithLogger(zap.New(core)))

	assert.Equal(t, "sender@example.com", m.From())
	assert.Equal(t, "From", m.Names()[0])
	require.NotNil(t, m.HTMLPart())
	assert.Equal(t, []byte(htmlBody), m.HTMLPart().Content())

	assert.Equal(t, 1, logs.FilterMessage("discarded bytes before the first header").Len())
}

func TestParse_GluedBoundaries(t *testing.T) {
	t.Parallel()

	m := message.ParseString(`From: sender@example.com
Content-Type: multipart/mixed; boundary="b552as-tfy"

--b552as-tfy
Content-Type: text/html; charset="utf-8"

` + htmlBody + `--b552as-tfy
Content-Type: text/plain; name=test.txt
Content-Transfer-Encoding: base64
Content-Disposition: attachment; name=test.txt;
 filename="test.txt"; name="test.txt"

VGhpcyBpcyBhIHRlc3Qgc3RyaW5n--b552as-tfy--
`)

	parts := m.Parts()
	require.Len(t, parts, 2)
	assert.Equal(t, []byte(htmlBody), parts[0].Content())
	assert.Equal(t, []byte("This is a test string"), parts[1].Content())
}

func TestParse_BrokenBoundary(t *testing.T) {
	t.Parallel()

	raw := strings.ReplaceAll(`From: sender@example.com
To: recipient@example.com
Subject: This is an email with common headers
Date: Thu, 24 Aug 2023 21:15:01 PST
MIME-Version: 1.0
Content-Type: multipart/mixed; boundary`+"Â¨"+`cQXEYh

--a8cQXEYh
Content-Type: text/html; charset="utf-8"

`+htmlBody+`--a8cQXEYh
Content-Type: text/plain; name=test.txt
Content-Transfer-Encoding: base64
Content-Disposition: attachment; name=test.txt;
 filename="test.txt"; name="test.txt"


--a8cQXEYh--
`, "\n", "\r\n")

	core, logs := observer.New(zap.DebugLevel)
	m := message.ParseString(raw, message.WithLogger(zap.New(core)))

	assert.Equal(t, "a8cQXEYh", m.Boundary())

	parts := m.Parts()
	require.Len(t, parts, 2)
	assert.Equal(t, []byte(htmlBody), parts[0].Content())
	assert.True(t, parts[1].IsAttachment())
	assert.Empty(t, parts[1].Content())
	assert.Equal(t, 0, parts[1].Size())

	assert.Equal(t, 1, logs.FilterMessage("recovered boundary from message body").Len())
}

func TestParse_NoBoundarySinglePart(t *testing.T) {
	t.Parallel()

	m := message.ParseString(`From: a@example.com
Content-Type: text/plain; charset=us-ascii

Just text.
`)

	assert.Equal(t, "", m.Boundary())
	require.Len(t, m.Children(), 1)
	require.Len(t, m.Parts(), 1)

	p := m.Parts()[0]
	assert.Equal(t, m.ContentType(), p.ContentType())
	assert.False(t, p.IsMultipart())
	assert.Equal(t, []byte("Just text."), p.Content())
}

func TestParse_TwoSimpleParts(t *testing.T) {
	t.Parallel()

	m := message.ParseString(`From: a@example.com
Content-Type: multipart/mixed; boundary=XYZ

--XYZ
Content-Type: text/plain

plain body
--XYZ
Content-Type: text/html

<b>html body</b>
--XYZ--
`)

	parts := m.Parts()
	require.Len(t, parts, 2)
	assert.Equal(t, "text/plain", parts[0].ContentType())
	assert.Equal(t, []byte("plain body"), parts[0].Content())
	assert.Equal(t, "text/html", parts[1].ContentType())
	assert.Equal(t, []byte("<b>html body</b>"), parts[1].Content())
}

func TestParse_LeadingNoiseBeforeFrom(t *testing.T) {
	t.Parallel()

	m := message.ParseString("garbage\r\nmore garbage\r\n\r\nFrom: real@example.com\r\nSubject: hi\r\n\r\nbody\r\n")
	assert.Equal(t, "real@example.com", m.From())
	assert.Equal(t, "hi", m.Subject())
	assert.Equal(t, []byte("body"), m.Parts()[0].Content())
}

func TestParse_NoBlankLine(t *testing.T) {
	t.Parallel()

	m := message.ParseString("From: a@example.com\nSubject: all header")
	assert.Equal(t, "all header", m.Subject())
	require.Len(t, m.Parts(), 1)
	assert.Empty(t, m.Parts()[0].Content())
}

func TestParse_EmptyInput(t *testing.T) {
	t.Parallel()

	m := message.Parse(nil)
	assert.Equal(t, 0, m.Len())
	assert.Equal(t, "", m.Subject())
	assert.Equal(t, 0, m.Size())
	require.Len(t, m.Parts(), 1)
	assert.Empty(t, m.Parts()[0].Content())

	_, ok := m.Date()
	assert.False(t, ok)
}

func TestParse_EncodedHeaders(t *testing.T) {
	t.Parallel()

	m := message.ParseString("Subject: =?UTF-8?B?SGVsbG8gV29ybGQ=?=\r\n" +
		"From: =?utf-8?q?Ren=C3=A9_Dupont?= <rene@example.com>\r\n" +
		"X-Plain: nothing to decode\r\n\r\nhi\r\n")

	assert.Equal(t, "Hello World", m.Subject())
	assert.Equal(t, "René Dupont <rene@example.com>", m.From())
	assert.Equal(t, "nothing to decode", m.GetDefault("x-plain", ""))

	for _, f := range m.Fields() {
		assert.NotContains(t, f.Body(), header.EncodedWordMarker)
	}
}

func TestParse_PreambleAndEpilogue(t *testing.T) {
	t.Parallel()

	m := message.ParseString(`Content-Type: multipart/mixed; boundary=XYZ

This is a multi-part message in MIME format.
--XYZ
Content-Type: text/plain

inside
--XYZ--
trailing words
`)

	parts := m.Parts()
	require.Len(t, parts, 3)
	assert.Equal(t, []byte("This is a multi-part message in MIME format."), parts[0].Content())
	assert.Equal(t, 0, parts[0].Len())
	assert.Equal(t, []byte("inside"), parts[1].Content())
	assert.Equal(t, []byte("trailing words"), parts[2].Content())
}

func TestParse_PartWithoutHeaders(t *testing.T) {
	t.Parallel()

	m := message.ParseString("Content-Type: multipart/mixed; boundary=XYZ\r\n\r\n" +
		"--XYZ\r\n\r\nno headers here\r\n" +
		"--XYZ\r\nno blank line either\r\n" +
		"--XYZ--\r\n")

	parts := m.Parts()
	require.Len(t, parts, 2)
	assert.Equal(t, 0, parts[0].Len())
	assert.Equal(t, []byte("no headers here"), parts[0].Content())
	assert.Equal(t, 0, parts[1].Len())
	assert.Equal(t, []byte("no blank line either"), parts[1].Content())
}

func TestParse_MultipartWithoutBoundary(t *testing.T) {
	t.Parallel()

	m := message.ParseString("Content-Type: multipart/mixed\r\n\r\nno delimiters at all\r\n")

	assert.Equal(t, "", m.Boundary())
	parts := m.Parts()
	require.Len(t, parts, 1)
	assert.False(t, parts[0].IsMultipart())
	assert.Equal(t, []byte("no delimiters at all"), parts[0].Content())
}

func TestParse_BoundaryNeverInLeaves(t *testing.T) {
	t.Parallel()

	m := message.ParseString(twoPartMessage)
	for _, p := range m.Parts() {
		assert.NotContains(t, string(p.Content()), "--"+m.Boundary())
		assert.NotContains(t, string(p.Raw()), "--"+m.Boundary())
	}
}

func TestParse_NestedBoundarySharesPrefix(t *testing.T) {
	t.Parallel()

	m := message.ParseString(`From: a@example.com
Content-Type: multipart/mixed; boundary="outer"

--outer
Content-Type: multipart/alternative; boundary="outer-alt"

--outer-alt
Content-Type: text/plain

plain body
--outer-alt
Content-Type: text/html

<b>html body</b>
--outer-alt--
--outer
Content-Type: application/pdf
Content-Disposition: attachment; filename=report.pdf
Content-Transfer-Encoding: base64

JVBERi0xLjQK
--outer--
`)

	assert.Equal(t, "outer", m.Boundary())

	children := m.Children()
	require.Len(t, children, 2)

	alt := children[0]
	require.True(t, alt.IsMultipart())
	assert.Equal(t, "outer-alt", alt.Boundary())
	require.Len(t, alt.Children(), 2)
	assert.Equal(t, []byte("plain body"), alt.Children()[0].Content())
	assert.Equal(t, []byte("<b>html body</b>"), alt.Children()[1].Content())

	parts := m.Parts()
	require.Len(t, parts, 3)
	assert.Equal(t, "text/plain", parts[0].MediaType())
	assert.Equal(t, "text/html", parts[1].MediaType())
	assert.Equal(t, "application/pdf", parts[2].MediaType())
	assert.Equal(t, []byte("%PDF-1.4\n"), parts[2].Content())

	for _, p := range parts {
		assert.NotContains(t, string(p.Content()), "--outer")
	}
}

func TestParse_BoundaryTextInsideLine(t *testing.T) {
	t.Parallel()

	m := message.ParseString(`Content-Type: multipart/mixed; boundary=b1

--b1
Content-Type: text/plain

see the --b1x flag and --b12 option
--b1 is only a delimiter when it ends the line
--b1--
`)

	parts := m.Parts()
	require.Len(t, parts, 1)
	assert.Equal(t, []byte("see the --b1x flag and --b12 option\n"+
		"--b1 is only a delimiter when it ends the line"), parts[0].Content())
}

func TestParse_LineEndingsAgree(t *testing.T) {
	t.Parallel()

	lf := message.ParseString(twoPartMessage)
	crlf := message.ParseString(strings.ReplaceAll(twoPartMessage, "\n", "\r\n"))

	require.Len(t, crlf.Parts(), len(lf.Parts()))
	for i, p := range lf.Parts() {
		assert.Equal(t, p.Content(), crlf.Parts()[i].Content())
		assert.NotContains(t, string(crlf.Parts()[i].Content()), "\r")
	}
}

func TestParse_DecodeQuotedPrintable(t *testing.T) {
	t.Parallel()

	const raw = "Content-Type: text/plain\r\nContent-Transfer-Encoding: quoted-printable\r\n\r\n" +
		"caf=C3=A9 is=\r\n open\r\n"

	m := message.ParseString(raw)
	assert.Equal(t, []byte("caf=C3=A9 is=\n open"), m.Parts()[0].Content())

	m = message.ParseString(raw, message.DecodeQuotedPrintable())
	assert.Equal(t, []byte("café is open"), m.Parts()[0].Content())
}

func TestParse_Dates(t *testing.T) {
	t.Parallel()

	const raw = "Date: 2023-09-01T08:30:00Z\r\n\r\nbody\r\n"

	_, ok := message.ParseString(raw).Date()
	assert.False(t, ok)

	d, ok := message.ParseString(raw, message.WithLenientDates()).Date()
	require.True(t, ok)
	assert.True(t, time.Date(2023, 9, 1, 8, 30, 0, 0, time.UTC).Equal(d))
}

func TestParse_MessageIDTrimmed(t *testing.T) {
	t.Parallel()

	m := message.ParseString("Message-ID:   <abc@example.com>  \r\n\r\n")
	assert.Equal(t, "abc@example.com", m.ID())
}

func nestedMessage(levels int) string {
	var sb strings.Builder
	sb.WriteString("From: deep@example.com\r\nContent-Type: multipart/mixed; boundary=lvl000\r\n\r\n")
	for i := 1; i <= levels; i++ {
		fmt.Fprintf(&sb, "--lvl%03d\r\nContent-Type: multipart/mixed; boundary=lvl%03d\r\n\r\n", i-1, i)
	}
	fmt.Fprintf(&sb, "--lvl%03d\r\nContent-Type: text/plain\r\n\r\nbottom\r\n", levels)
	for i := levels; i >= 0; i-- {
		fmt.Fprintf(&sb, "--lvl%03d--\r\n", i)
	}
	return sb.String()
}

func TestParse_DepthGuard(t *testing.T) {
	t.Parallel()

	raw := nestedMessage(60)

	m := message.ParseString(raw)
	parts := m.Parts()
	require.Len(t, parts, 1)
	assert.False(t, parts[0].IsMultipart())
	assert.Equal(t, "multipart/mixed; boundary=lvl050", parts[0].ContentType())

	containers := 0
	err := message.PartWalker(func(_, _ int, _ *message.Part) error {
		containers++
		return nil
	}).WalkMultipart(m.Children()...)
	require.NoError(t, err)
	assert.Equal(t, message.DefaultMaxMultipartDepth-1, containers)

	m = message.ParseString(raw, message.WithUnlimitedRecursion())
	parts = m.Parts()
	require.Len(t, parts, 1)
	assert.Equal(t, "text/plain", parts[0].ContentType())
	assert.Equal(t, []byte("bottom"), parts[0].Content())

	m = message.ParseString(raw, message.WithMaxDepth(3))
	parts = m.Parts()
	require.Len(t, parts, 1)
	assert.Equal(t, "multipart/mixed; boundary=lvl003", parts[0].ContentType())

	m = message.ParseString(raw, message.WithoutRecursion())
	require.Len(t, m.Children(), 1)
	assert.False(t, m.Children()[0].IsMultipart())

	m = message.ParseString(raw, message.WithMaxDepth(0))
	assert.Equal(t, "", m.Boundary())
	require.Len(t, m.Parts(), 1)
	assert.Equal(t, "multipart/mixed; boundary=lvl000", m.Parts()[0].ContentType())
}

type failingReader struct{ err error }

func (r failingReader) Read([]byte) (int, error) { return 0, r.err }

func TestParseReader(t *testing.T) {
	t.Parallel()

	m, err := message.ParseReader(strings.NewReader(simpleMessage))
	require.NoError(t, err)
	assert.Equal(t, "Test Subject", m.Subject())

	boom := errors.New("boom")
	m, err = message.ParseReader(failingReader{boom})
	assert.ErrorIs(t, err, boom)
	assert.Nil(t, m)

	m, err = message.ParseReader(io.MultiReader(bytes.NewReader([]byte("Subject: a\r\n")), strings.NewReader("\r\nb")))
	require.NoError(t, err)
	assert.Equal(t, "a", m.Subject())
}

func TestParseFile(t *testing.T) {
	t.Parallel()

	m, err := message.ParseFile("../test/data/complex_email.eml")
	require.NoError(t, err)
	assert.Equal(t, "Appointment confirmation", m.Subject())

	m, err = message.ParseFile("../test/data/does-not-exist.eml")
	assert.ErrorIs(t, err, fs.ErrNotExist)
	assert.Nil(t, m)
}
