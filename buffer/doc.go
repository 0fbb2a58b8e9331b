/*
Package buffer implements the glyph buffer used by text shaping.

A Buffer holds two parallel arrays: glyph infos and glyph positions. Before
shaping, infos carry Unicode codepoints; after shaping they carry glyph indices.
Every shaping stage (normalization, complex-script reordering, GSUB, GPOS,
kerning) reads and mutates a buffer through the small vocabulary of primitives
exported here, and nothing else:

▪︎ the cursor and output protocol ([Buffer.ClearOutput], [Buffer.NextGlyph],
[Buffer.ReplaceGlyphs], [Buffer.OutputGlyph], [Buffer.MoveTo], [Buffer.SwapBuffers]),

▪︎ the cluster engine ([Buffer.MergeClusters], [Buffer.UnsafeToBreak],
[Buffer.DeleteGlyph] and friends),

▪︎ buffer-level operations ([Buffer.Reverse], [Buffer.Sort],
[Buffer.NormalizeGlyphs], [Buffer.SetMasks], [Buffer.GuessSegmentProperties]).

# Output phases

During a substitution pass a stage reads glyphs at the cursor (Idx) and writes
results to an output region (OutLen). As long as output does not overtake input,
output overwrites already consumed input slots in place. The first time a write
would need more room, the already written slots are copied to a scratch array
and output continues there. [Buffer.SwapBuffers] ends the phase and makes the
output the new input.

# Errors

Growing the buffer beyond its allowed size puts it into a failed state, which
has to be checked with [Buffer.AllocationSuccessful]. Calling a primitive in a
state where it is not allowed is a programming error of the shaping stage and
panics with a *[PreconditionError].

# License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © Norbert Pillmayer <norbert@pillmayer.com>
*/
package buffer

import (
	"fmt"

	"github.com/npillmayer/schuko/tracing"
)

// tracer traces with key 'glyphbuf.buffer'.
func tracer() tracing.Trace {
	return tracing.Select("glyphbuf.buffer")
}

// PreconditionError is the panic value for calls that violate the buffer's
// state machine, e.g. sorting while positions are live. It signals a bug in
// the calling shaping stage, not bad input.
type PreconditionError struct {
	Op  string // primitive which detected the violation
	Msg string
}

func (e *PreconditionError) Error() string {
	return fmt.Sprintf("glyph buffer: %s: precondition violated: %s", e.Op, e.Msg)
}

// precondition panics with a *PreconditionError when condition is false.
func precondition(condition bool, op, msg string) {
	if !condition {
		panic(&PreconditionError{Op: op, Msg: msg})
	}
}
