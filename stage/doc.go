/*
Package stage provides shaping stages which operate on a glyph buffer.

Every stage is written against the public vocabulary of package buffer only:
the cursor and output protocol, the cluster engine and the buffer-level
operations. Stages do not know about font files; they ask small collaborator
interfaces ([GlyphMapper], [AdvanceSource], [TableSource]) for the few font
facts they need.

A [Pipeline] runs stages in order. It enters the buffer before the first stage
(which derives growth limits and an operations budget from the input length),
checks buffer health after every stage and leaves the buffer at the end. If the
operations budget runs out, the pipeline stops early and reports
[ErrNotFullyShaped]; the buffer is still structurally valid.

# License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © Norbert Pillmayer <norbert@pillmayer.com>
*/
package stage

import (
	"errors"

	"github.com/npillmayer/schuko/tracing"
)

// tracer traces with key 'glyphbuf.stage'.
func tracer() tracing.Trace {
	return tracing.Select("glyphbuf.stage")
}

// ErrNotFullyShaped is returned by a pipeline which ran out of its
// operations budget.
var ErrNotFullyShaped = errors.New("glyphbuf: operations budget exhausted, run not fully shaped")
