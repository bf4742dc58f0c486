package header_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/zostay/go-mailparse/message/header"
)

func TestDecodeValue(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		in   string
		out  string
	}{
		{"base64", "=?UTF-8?B?SGVsbG8gV29ybGQ=?=", "Hello World"},
		{"quoted-printable", "=?UTF-8?Q?Hello_World?=", "Hello World"},
		{"lowercase tag", "=?utf-8?q?caf=C3=A9?=", "caf\xc3\xa9"},
		{"lowercase b tag", "=?utf-8?b?Y2Fmw6k=?=", "caf\xc3\xa9"},
		{"charset ignored", "=?ISO-8859-1?Q?caf=E9?=", "caf\xe9"},
		{"surrounding text", "Re: =?UTF-8?B?SGk=?= again", "Re: Hi again"},
		{"multiple words", "=?UTF-8?Q?one?= and =?UTF-8?B?dHdv?=", "one and two"},
		{"plain", "Plain old subject", "Plain old subject"},
		{"unterminated", "=?UTF-8?B?SGk=", "=?UTF-8?B?SGk="},
		{"unknown tag", "=?UTF-8?X?SGk=?=", "=?UTF-8?X?SGk=?="},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.out, header.DecodeValue(tt.in))
		})
	}
}

func TestDecodeValue_Idempotent(t *testing.T) {
	t.Parallel()

	once := header.DecodeValue("=?UTF-8?B?VGVzdCBTdWJqZWN0?=")
	assert.Equal(t, "Test Subject", once)
	assert.Equal(t, once, header.DecodeValue(once))
}

func TestHeader_Decode(t *testing.T) {
	t.Parallel()

	h := header.Parse([]byte(
		"Subject: =?UTF-8?B?VGVzdCBTdWJqZWN0?=\r\n"+
			"From: =?UTF-8?Q?Jane_Doe?= <jane@example.com>\r\n"+
			"To: Re: =?UTF-8?Q?inline?=\r\n"+
			"X-Plain: nothing to see\r\n",
	), header.CRLF)

	h.Decode()

	assert.Equal(t, "Test Subject", h.GetDefault("Subject", ""))
	assert.Equal(t, "Jane Doe <jane@example.com>", h.GetDefault("From", ""))
	assert.Equal(t, "Re: inline", h.GetDefault("To", ""))
	assert.Equal(t, "nothing to see", h.GetDefault("X-Plain", ""))

	for _, f := range h.Fields() {
		assert.NotContains(t, f.Body(), "?=")
	}
}
