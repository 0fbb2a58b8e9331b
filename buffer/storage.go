package buffer

// AllocationSuccessful reports whether all growth requests of b succeeded.
// After a failure b refuses to grow or accept new glyphs until it is reset.
func (b *Buffer) AllocationSuccessful() bool {
	return b.successful
}

// SetMaxLen limits the number of slots b may grow to. Enter and Leave
// overwrite the limit.
func (b *Buffer) SetMaxLen(n int) {
	b.maxLen = max(n, 0)
}

// PreAllocate makes sure b can hold at least n slots without further growth.
// It returns false if the buffer is (or becomes) failed.
func (b *Buffer) PreAllocate(n int) bool {
	return b.ensure(n)
}

// Capacity returns the number of slots allocated.
func (b *Buffer) Capacity() int {
	return len(b.info)
}

// SetLen sets the number of valid slots. New slots are zeroed. Setting the
// length to 0 clears content type and context.
func (b *Buffer) SetLen(n int) bool {
	precondition(n >= 0, "SetLen", "negative length")
	if !b.ensure(n) {
		return false
	}
	if n > b.length {
		clear(b.info[b.length:n])
		if b.havePositions {
			clear(b.pos[b.length:n])
		}
	}
	b.length = n
	if n == 0 {
		b.contentType = ContentTypeInvalid
		b.contextLen = [2]int{}
	}
	return true
}

// ensure makes room for size slots. It always fails on a failed buffer, so
// mutators built on it turn into no-ops.
func (b *Buffer) ensure(size int) bool {
	if !b.successful {
		return false
	}
	if size <= len(b.info) {
		return true
	}
	return b.enlarge(size)
}

// enlarge grows all arrays to at least size slots. info, pos and spare (once
// it exists) always have the same length.
func (b *Buffer) enlarge(size int) bool {
	if !b.successful {
		return false
	}
	if size < 0 || size > b.maxLen {
		b.fail(size)
		return false
	}
	newSize := len(b.info)
	for newSize < size {
		newSize += newSize/2 + 32
		if newSize < 0 { // overflow
			b.fail(size)
			return false
		}
	}
	newSize = min(newSize, max(b.maxLen, size))
	info := make([]GlyphInfo, newSize)
	copy(info, b.info)
	pos := make([]GlyphPosition, newSize)
	copy(pos, b.pos)
	b.info, b.pos = info, pos
	if b.spare != nil {
		spare := make([]GlyphInfo, newSize)
		copy(spare, b.spare)
		b.spare = spare
	}
	return true
}

func (b *Buffer) fail(size int) {
	tracer().Errorf("glyph buffer cannot grow to %d slots (limit %d)", size, b.maxLen)
	b.successful = false
}

// outInfo is the array output goes to: info itself while output is
// written in place, the scratch array once output has been separated.
func (b *Buffer) outInfo() []GlyphInfo {
	switch b.state {
	case OutputSeparate:
		return b.spare
	default:
		return b.info
	}
}

// separate switches output to the scratch array, taking along the outLen
// slots written so far.
func (b *Buffer) separate() {
	if len(b.spare) != len(b.info) {
		b.spare = make([]GlyphInfo, len(b.info))
	}
	copy(b.spare, b.info[:b.outLen])
	b.state = OutputSeparate
	tracer().Debugf("output separated at idx=%d, out-len=%d", b.idx, b.outLen)
}
