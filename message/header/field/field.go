// Package field holds the representation of a single header field: the name
// exactly as it appeared on the wire and the unfolded, decoded body.
package field

// Field is a single header field.
type Field struct {
	name string
	body string
}

// New returns a new field with the given name and body. The name is kept
// exactly as given. No decoding is performed on the body.
func New(name, body string) *Field {
	return &Field{name, body}
}

// Name returns the field name with its original letter-casing.
func (f *Field) Name() string {
	return f.name
}

// Body returns the field body.
func (f *Field) Body() string {
	return f.body
}

// SetBody replaces the body of the field.
func (f *Field) SetBody(body string) {
	f.body = body
}

// AppendBody adds a continuation line to the body, joined with a single space.
func (f *Field) AppendBody(more string) {
	f.body += " " + more
}

// String returns the field formatted as "Name: body".
func (f *Field) String() string {
	return f.name + ": " + f.body
}

// Clone returns a copy of the field.
func (f *Field) Clone() *Field {
	return &Field{f.name, f.body}
}
