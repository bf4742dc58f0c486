// Package mailparse takes email messages apart. It is written for the mail
// found in real mailboxes rather than the mail described in the RFCs, so it
// never refuses a message: junk ahead of the header is skipped, damaged
// multipart boundaries are recovered from the body, and undecodable content
// yields whatever could be salvaged.
//
// The work is split up by part of the message:
//
// * The message package parses a message into a Message holding the envelope
// header and a tree of parts, and answers the usual questions: subject,
// sender, date, the HTML and plain text bodies, and the attachments.
//
// * The message/header package holds the header table shared by messages and
// parts, including RFC 2047 decoding of encoded words, date parsing, and
// address list parsing.
//
// * The message/transfer package undoes Content-Transfer-Encodings.
//
// * The message/charset package converts part content to UTF-8.
//
// The mailparse command in cmd/mailparse exposes the same on the command
// line, printing messages as JSON or YAML and extracting attachments.
package mailparse
