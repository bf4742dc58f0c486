package header

import (
	"regexp"
	"strings"

	"github.com/zostay/go-mailparse/message/transfer"
)

// EncodedWordMarker is the prefix of every RFC 2047 encoded word.
const EncodedWordMarker = "=?"

// encodedWord matches =?charset?B?payload?= and =?charset?Q?payload?=.
var encodedWord = regexp.MustCompile(`=\?([^?]+)\?([BbQq])\?([^?]+)\?=`)

// DecodeValue replaces every RFC 2047 encoded word found in v with its
// decoded bytes. B words are decoded as base64 and Q words as the
// quoted-printable variant defined for headers. Text around and between the
// encoded words is left untouched. The charset label is not used: the decoded
// bytes are placed in the string as they are.
//
// A string with no encoded word in it is returned unchanged, so decoding an
// already decoded value is harmless.
func DecodeValue(v string) string {
	if !strings.Contains(v, EncodedWordMarker) {
		return v
	}

	return encodedWord.ReplaceAllStringFunc(v, func(word string) string {
		m := encodedWord.FindStringSubmatch(word)
		payload := []byte(m[3])
		if strings.EqualFold(m[2], "B") {
			return string(transfer.DecodeBase64(payload))
		}
		return string(transfer.DecodeQ(payload))
	})
}

// Decode runs DecodeValue on every field body that contains an encoded word.
func (h *Header) Decode() {
	for _, f := range h.fields {
		if strings.Contains(f.Body(), EncodedWordMarker) {
			f.SetBody(DecodeValue(f.Body()))
		}
	}
}
