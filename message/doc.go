// Package message is the heart of this library. It decomposes a raw email
// message into its envelope header and a tree of parts, and answers the usual
// questions about it: who sent it, what is the subject, where is the HTML
// body, what is attached.
//
// Parsing is built to survive real mail. Nothing in Parse returns an error.
// Leading junk before the header is dropped, broken boundary parameters are
// recovered from the body, undecodable base64 yields whatever bytes could be
// salvaged, and anything that cannot be split further is simply treated as a
// single part:
//
//	msg := message.Parse(raw)
//	fmt.Println(msg.Subject())
//	if html := msg.HTMLPart(); html != nil {
//	  fmt.Println(string(html.Content()))
//	}
//	for _, a := range msg.Attachments() {
//	  fmt.Println(a.Filename(), a.Size())
//	}
//
// The multipart structure is kept as a tree (see Message.Children and
// Part.Children), but most callers only want the leaves. Message.Parts returns
// the leaf parts in document order, no matter how deeply they were nested.
//
// A Message and its parts are never modified after Parse returns, so they may
// be read from many goroutines at once.
package message
