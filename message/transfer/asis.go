package transfer

// AsIs is the Decoding used for 7bit, 8bit, binary and unknown transfer
// encodings. It returns the content unchanged.
func AsIs(content []byte) []byte {
	return content
}
