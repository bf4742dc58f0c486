package message

// PartWalker is a function that can be processed for each part of a message.
// The depth is 0 for the top-level parts of a message and i is the position
// of the part among its siblings.
type PartWalker func(depth, i int, part *Part) error

// Walk performs a depth first search over the given parts and every part below
// them, in document order. A multipart part is visited before its children.
// It calls the PartWalker for each part. If the PartWalker returns an error,
// then processing stops immediately and the error is returned.
//
// The traversal keeps its own stack, so deeply nested input does not grow the
// call stack.
func (w PartWalker) Walk(parts ...*Part) error {
	type frame struct {
		depth int
		i     int
		part  *Part
	}

	openStack := make([]frame, 0, 10)

	pushStack := func(depth int, parts []*Part) {
		for i := len(parts) - 1; i >= 0; i-- {
			openStack = append(openStack, frame{depth, i, parts[i]})
		}
	}

	popStack := func() frame {
		end := len(openStack) - 1
		f := openStack[end]
		openStack = openStack[:end]
		return f
	}

	pushStack(0, parts)
	for len(openStack) > 0 {
		f := popStack()
		if err := w(f.depth, f.i, f.part); err != nil {
			return err
		}
		pushStack(f.depth+1, f.part.Children())
	}

	return nil
}

// WalkLeaves will call the PartWalker function for each leaf part using a
// depth first traversal, skipping multipart parts. It will terminate the walk
// immediately if the PartWalker returns an error and will return the error.
func (w PartWalker) WalkLeaves(parts ...*Part) error {
	var lw PartWalker = func(depth, i int, part *Part) error {
		if !part.IsMultipart() {
			return w(depth, i, part)
		}
		return nil
	}
	return lw.Walk(parts...)
}

// WalkMultipart will call the PartWalker function for each multipart part
// using a depth first traversal. It will terminate the walk immediately if the
// PartWalker returns an error and will return that error.
func (w PartWalker) WalkMultipart(parts ...*Part) error {
	var mw PartWalker = func(depth, i int, part *Part) error {
		if part.IsMultipart() {
			return w(depth, i, part)
		}
		return nil
	}
	return mw.Walk(parts...)
}

// leaves flattens the trees rooted at parts into their leaf parts.
func leaves(parts []*Part) []*Part {
	var out []*Part
	_ = PartWalker(func(_, _ int, part *Part) error {
		out = append(out, part)
		return nil
	}).WalkLeaves(parts...)
	return out
}
