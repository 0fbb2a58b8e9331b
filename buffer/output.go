package buffer

// Idx returns the read cursor.
func (b *Buffer) Idx() int {
	return b.idx
}

// OutLen returns the number of output slots written in the current phase.
func (b *Buffer) OutLen() int {
	return b.outLen
}

// OutputState reports the phase of the output protocol.
func (b *Buffer) OutputState() OutputState {
	return b.state
}

// HaveOutput reports whether an output phase is active.
func (b *Buffer) HaveOutput() bool {
	return b.state != NoOutput
}

// HaveSeparateOutput reports whether output has moved to the scratch array.
func (b *Buffer) HaveSeparateOutput() bool {
	return b.state == OutputSeparate
}

// BacktrackLen is the number of slots before the cursor: output slots during
// an output phase, input slots otherwise.
func (b *Buffer) BacktrackLen() int {
	if b.state != NoOutput {
		return b.outLen
	}
	return b.idx
}

// LookaheadLen is the number of input slots from the cursor on.
func (b *Buffer) LookaheadLen() int {
	return b.length - b.idx
}

// Cur returns the input slot i positions after the cursor.
func (b *Buffer) Cur(i int) *GlyphInfo {
	return &b.info[b.idx+i]
}

// CurPos returns the position of the slot at the cursor.
func (b *Buffer) CurPos() *GlyphPosition {
	return &b.pos[b.idx]
}

// Prev returns the last output slot, or the first one if nothing has been
// written yet.
func (b *Buffer) Prev() *GlyphInfo {
	return &b.outInfo()[max(b.outLen-1, 0)]
}

// OutInfo returns the output written so far in the current phase. It is only
// valid until the next output primitive.
func (b *Buffer) OutInfo() []GlyphInfo {
	return b.outInfo()[:b.outLen]
}

// --- Phases -----------------------------------------------------------------

// ClearOutput starts an output phase: cursor and output length are reset and
// output is written in place. Positions are invalidated.
func (b *Buffer) ClearOutput() {
	b.state = OutputInPlace
	b.havePositions = false
	b.idx = 0
	b.outLen = 0
}

// RemoveOutput drops the output phase without swapping.
func (b *Buffer) RemoveOutput() {
	b.state = NoOutput
	b.havePositions = false
	b.outLen = 0
}

// ClearPositions ends any output phase and makes positions live, all zero.
func (b *Buffer) ClearPositions() {
	b.state = NoOutput
	b.havePositions = true
	b.outLen = 0
	clear(b.pos[:b.length])
}

// SwapBuffers ends an output phase. Unconsumed input is passed through to the
// output, which then becomes the buffer's content. If the buffer has failed,
// the output is discarded and the length is left unchanged.
func (b *Buffer) SwapBuffers() {
	precondition(b.state != NoOutput, "SwapBuffers", "no output phase active")
	precondition(b.idx <= b.length, "SwapBuffers", "cursor beyond end")
	if b.successful {
		b.NextGlyphs(b.length - b.idx)
	}
	if !b.successful {
		tracer().Debugf("swap on failed buffer, output discarded")
		b.state = NoOutput
		b.outLen, b.idx = 0, 0
		return
	}
	if b.state == OutputSeparate {
		b.info, b.spare = b.spare, b.info
	}
	b.length = b.outLen
	b.state = NoOutput
	b.outLen, b.idx = 0, 0
}

// makeRoomFor prepares output for consuming numIn input slots while producing
// numOut output slots. It separates output the first time output would
// overtake unconsumed input.
func (b *Buffer) makeRoomFor(numIn, numOut int) bool {
	if !b.ensure(b.outLen + numOut) {
		return false
	}
	if b.state == OutputInPlace && b.outLen+numOut > b.idx+numIn {
		b.separate()
	}
	return true
}

// --- Cursor and output primitives -------------------------------------------

// NextGlyph copies the slot at the cursor to the output and advances.
// Without an output phase it just advances.
func (b *Buffer) NextGlyph() {
	if b.state != NoOutput {
		if b.state == OutputSeparate || b.outLen != b.idx {
			if !b.makeRoomFor(1, 1) {
				return
			}
			b.outInfo()[b.outLen] = b.info[b.idx]
		}
		b.outLen++
	}
	b.idx++
}

// NextGlyphs is NextGlyph repeated n times.
func (b *Buffer) NextGlyphs(n int) {
	precondition(b.idx+n <= b.length, "NextGlyphs", "advancing beyond end")
	if b.state != NoOutput {
		if b.state == OutputSeparate || b.outLen != b.idx {
			if !b.makeRoomFor(n, n) {
				return
			}
			copy(b.outInfo()[b.outLen:b.outLen+n], b.info[b.idx:b.idx+n])
		}
		b.outLen += n
	}
	b.idx += n
}

// SkipGlyph advances the cursor without producing output.
func (b *Buffer) SkipGlyph() {
	b.idx++
}

// CopyGlyph duplicates the slot at the cursor into the output without
// consuming it.
func (b *Buffer) CopyGlyph() {
	precondition(b.state != NoOutput, "CopyGlyph", "no output phase active")
	if !b.makeRoomFor(0, 1) {
		return
	}
	b.outInfo()[b.outLen] = b.info[b.idx]
	b.outLen++
}

// ReplaceGlyphs consumes numIn slots and outputs numOut glyphs. The consumed
// slots are merged into one cluster first; all output slots inherit the
// properties of the first consumed slot.
func (b *Buffer) ReplaceGlyphs(numIn, numOut int, glyphs []uint32) {
	precondition(b.state != NoOutput, "ReplaceGlyphs", "no output phase active")
	precondition(numIn > 0 && b.idx+numIn <= b.length, "ReplaceGlyphs", "input range out of bounds")
	precondition(len(glyphs) >= numOut, "ReplaceGlyphs", "too few glyphs")
	if !b.makeRoomFor(numIn, numOut) {
		return
	}
	b.MergeClusters(b.idx, b.idx+numIn)
	orig := b.info[b.idx]
	out := b.outInfo()
	for i := range numOut {
		out[b.outLen+i] = orig
		out[b.outLen+i].Codepoint = glyphs[i]
	}
	b.idx += numIn
	b.outLen += numOut
}

// ReplaceGlyph replaces the glyph at the cursor with g and advances.
func (b *Buffer) ReplaceGlyph(g uint32) {
	precondition(b.state != NoOutput, "ReplaceGlyph", "no output phase active")
	if b.state == OutputSeparate || b.outLen != b.idx {
		if !b.makeRoomFor(1, 1) {
			return
		}
		b.outInfo()[b.outLen] = b.info[b.idx]
	}
	b.outInfo()[b.outLen].Codepoint = g
	b.idx++
	b.outLen++
}

// OutputGlyph inserts glyph g into the output without consuming input. The new
// slot copies the properties of the slot at the cursor, or of the last output
// slot at the end of input.
func (b *Buffer) OutputGlyph(g uint32) {
	precondition(b.state != NoOutput, "OutputGlyph", "no output phase active")
	if b.idx == b.length && b.outLen == 0 {
		return
	}
	if !b.makeRoomFor(0, 1) {
		return
	}
	out := b.outInfo()
	if b.idx < b.length {
		out[b.outLen] = b.info[b.idx]
	} else {
		out[b.outLen] = out[b.outLen-1]
	}
	out[b.outLen].Codepoint = g
	b.outLen++
}

// OutputInfo inserts a complete glyph info into the output.
func (b *Buffer) OutputInfo(info GlyphInfo) {
	precondition(b.state != NoOutput, "OutputInfo", "no output phase active")
	if !b.makeRoomFor(0, 1) {
		return
	}
	b.outInfo()[b.outLen] = info
	b.outLen++
}

// MoveTo moves the output position to i (in output coordinates). Moving
// forward passes input through; moving backward returns output slots to the
// input, unchanged, so they will be read again. It returns false if the
// buffer failed.
func (b *Buffer) MoveTo(i int) bool {
	if b.state == NoOutput {
		precondition(i <= b.length, "MoveTo", "target beyond end")
		b.idx = i
		return true
	}
	if !b.successful {
		return false
	}
	precondition(i <= b.outLen+(b.length-b.idx), "MoveTo", "target beyond end")
	if b.outLen < i {
		count := i - b.outLen
		if !b.makeRoomFor(count, count) {
			return false
		}
		copy(b.outInfo()[b.outLen:b.outLen+count], b.info[b.idx:b.idx+count])
		b.idx += count
		b.outLen += count
	} else if b.outLen > i {
		count := b.outLen - i
		if b.idx < count && !b.shiftForward(count-b.idx) {
			return false
		}
		b.idx -= count
		b.outLen -= count
		copy(b.info[b.idx:b.idx+count], b.outInfo()[b.outLen:b.outLen+count])
	}
	return true
}

// shiftForward opens a gap of count slots before the cursor.
func (b *Buffer) shiftForward(count int) bool {
	if !b.ensure(b.length + count) {
		return false
	}
	copy(b.info[b.idx+count:b.length+count], b.info[b.idx:b.length])
	if b.idx+count > b.length {
		clear(b.info[b.length : b.idx+count])
	}
	b.length += count
	b.idx += count
	return true
}
