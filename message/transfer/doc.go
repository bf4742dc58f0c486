// Package transfer contains utilities related to decoding transfer encodings,
// which interpret the Content-transfer-encoding header of a message part. Only
// base64 results in changes to the content by default. The quoted-printable
// decoder is available, but the message parser only applies it to body
// content when asked to. Other settings such as binary, 7bit, or 8bit leave
// the bytes as-is.
//
// Every decoder here is lenient. Garbage in the input produces garbage (or
// shorter) output, never an error.
//
// The package also provides the line-ending helpers used by the parser, which
// works on CRLF internally and hands LF-terminated content to callers.
package transfer
