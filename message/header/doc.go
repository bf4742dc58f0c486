// Package header provides the header table shared by messages and message
// parts. A Header keeps its fields in the order they were seen on the wire and
// keeps each field name exactly as it was written. Lookups by name ignore case.
//
// The provided Parse() function tokenizes a raw header block in a forgiving
// way: folded continuation lines are unfolded, and lines that are not header
// fields at all are silently dropped. Decode() and DecodeValue() resolve RFC
// 2047 encoded words. The charset named in an encoded word is not applied;
// the decoded bytes are used as they are.
package header
