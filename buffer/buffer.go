package buffer

import (
	"errors"
)

// Errors reported by the buffer package.
var (
	ErrUnknownDirection = errors.New("glyphbuf: unknown direction")
	ErrUnknownScript    = errors.New("glyphbuf: malformed script tag")
	ErrAllocation       = errors.New("glyphbuf: buffer allocation failed")
)

// DefaultReplacement is the codepoint substituted for ill-formed input.
const DefaultReplacement = '\uFFFD'

// contextLength is the number of codepoints kept as pre- and post-context.
const contextLength = 5

// Limits of buffer growth and the shaping operations budget.
const (
	maxLenFactor  = 64
	maxLenMin     = 16384
	maxLenDefault = 0x3FFFFFFF
	maxOpsFactor  = 1024
	maxOpsMin     = 16384
	maxOpsDefault = 0x1FFFFFFF
)

// Buffer is the glyph buffer every shaping stage works on. It holds glyph
// infos and positions in two parallel arrays, a cursor (Idx) into the input,
// and an output region (OutLen) used while a stage replaces glyphs.
//
// A Buffer is not safe for concurrent use. Use Freeze to share results.
type Buffer struct {
	// Flags controls behaviour at text boundaries and for default ignorables.
	Flags Flags
	// ClusterLevel selects the cluster merging policy.
	ClusterLevel ClusterLevel
	// Replacement is substituted for ill-formed input when adding text.
	Replacement rune
	// Invisible is the glyph used to hide default ignorables; 0 means
	// "use the space glyph".
	Invisible uint32
	// NotFound is the glyph index used for codepoints without a glyph.
	NotFound uint32

	props       SegmentProperties
	contentType ContentType

	info   []GlyphInfo     // input, len(info) is the allocated size
	pos    []GlyphPosition // positions, same size as info
	spare  []GlyphInfo     // separate output, allocated on demand
	length int             // number of valid slots in info
	idx    int             // read cursor
	outLen int             // number of slots written to output
	state  OutputState

	successful    bool
	havePositions bool

	context    [2][contextLength]rune // pre- and post-context
	contextLen [2]int

	serial       uint8
	scratchFlags ScratchFlags
	maxLen       int
	maxOps       int
}

// New creates an empty buffer with default settings.
func New() *Buffer {
	b := &Buffer{}
	b.Reset()
	return b
}

// Reset returns b to the state of a newly created buffer, keeping allocated
// storage. Limits are restored and a failed allocation state is cleared.
func (b *Buffer) Reset() {
	b.Flags = FlagDefault
	b.ClusterLevel = ClusterLevelMonotoneGraphemes
	b.Replacement = DefaultReplacement
	b.Invisible = 0
	b.NotFound = 0
	b.ClearContents()
}

// ClearContents removes all glyphs, segment properties and context from b,
// keeping the settings made by the client (flags, cluster level,
// replacement glyphs).
func (b *Buffer) ClearContents() {
	b.props = SegmentProperties{}
	b.contentType = ContentTypeInvalid
	b.successful = true
	b.havePositions = false
	b.state = NoOutput
	b.length, b.idx, b.outLen = 0, 0, 0
	b.contextLen = [2]int{}
	b.serial = 0
	b.scratchFlags = ScratchFlagDefault
	b.maxLen = maxLenDefault
	b.maxOps = maxOpsDefault
}

// --- Segment properties -----------------------------------------------------

// SegmentProperties returns direction, script and language of b.
func (b *Buffer) SegmentProperties() SegmentProperties {
	return b.props
}

// SetSegmentProperties sets all segment properties at once. Segment
// properties must not change while an output phase is active.
func (b *Buffer) SetSegmentProperties(p SegmentProperties) {
	precondition(b.state == NoOutput, "SetSegmentProperties", "output phase active")
	b.props = p
}

func (b *Buffer) Direction() Direction { return b.props.Direction }
func (b *Buffer) Script() Script       { return b.props.Script }
func (b *Buffer) Language() Language   { return b.props.Language }

// SetDirection sets the text direction. Invalid directions are ignored.
func (b *Buffer) SetDirection(d Direction) {
	precondition(b.state == NoOutput, "SetDirection", "output phase active")
	if d != DirectionInvalid && !d.IsValid() {
		return
	}
	b.props.Direction = d
}

func (b *Buffer) SetScript(s Script) {
	precondition(b.state == NoOutput, "SetScript", "output phase active")
	b.props.Script = s
}

func (b *Buffer) SetLanguage(l Language) {
	precondition(b.state == NoOutput, "SetLanguage", "output phase active")
	b.props.Language = l
}

// --- Content ----------------------------------------------------------------

// ContentType tells whether b holds codepoints or glyph indices.
func (b *Buffer) ContentType() ContentType {
	return b.contentType
}

// SetContentType declares what b holds. Shapers switch to ContentTypeGlyphs
// after mapping codepoints to glyphs.
func (b *Buffer) SetContentType(c ContentType) {
	b.contentType = c
}

// Len returns the number of valid slots.
func (b *Buffer) Len() int {
	return b.length
}

// Info returns the valid glyph infos. The slice aliases buffer storage and is
// valid until the next mutation of b.
func (b *Buffer) Info() []GlyphInfo {
	return b.info[:b.length]
}

// Pos returns the glyph positions. It returns nil unless positions are live
// (see ClearPositions). The slice is valid until the next mutation of b.
func (b *Buffer) Pos() []GlyphPosition {
	if !b.havePositions {
		return nil
	}
	return b.pos[:b.length]
}

// HavePositions reports whether the position array carries valid data.
func (b *Buffer) HavePositions() bool {
	return b.havePositions
}

// ScratchFlags returns the summary flags collected so far.
func (b *Buffer) ScratchFlags() ScratchFlags {
	return b.scratchFlags
}

// SetScratchFlags adds flags to the buffer's summary flags.
func (b *Buffer) SetScratchFlags(f ScratchFlags) {
	b.scratchFlags |= f
}

// ClearScratchFlags removes flags from the buffer's summary flags.
func (b *Buffer) ClearScratchFlags(f ScratchFlags) {
	b.scratchFlags &^= f
}

// --- Serial numbers ---------------------------------------------------------

// NextSerial returns the next serial number, skipping 0.
func (b *Buffer) NextSerial() uint8 {
	b.serial++
	if b.serial == 0 {
		b.serial++
	}
	return b.serial
}

// AllocateLigID returns a ligature id (1..7). Ids are reused after 7
// allocations; 0 is never returned.
func (b *Buffer) AllocateLigID() uint8 {
	id := b.NextSerial() & 7
	if id == 0 {
		id = b.NextSerial() & 7
	}
	return id
}

// --- Operations budget ------------------------------------------------------

// Enter prepares b for shaping: the growth limit and the operations budget
// are derived from the current length. Leave restores the defaults.
func (b *Buffer) Enter() {
	b.serial = 0
	b.scratchFlags = ScratchFlagDefault
	b.maxLen, b.maxOps = maxLenDefault, maxOpsDefault
	if b.length < maxLenDefault/maxLenFactor {
		b.maxLen = max(b.length*maxLenFactor, maxLenMin)
	}
	if b.length < maxOpsDefault/maxOpsFactor {
		b.maxOps = max(b.length*maxOpsFactor, maxOpsMin)
	}
	tracer().Debugf("enter: len=%d, max-len=%d, max-ops=%d", b.length, b.maxLen, b.maxOps)
}

// Leave restores the limits changed by Enter.
func (b *Buffer) Leave() {
	b.maxLen = maxLenDefault
	b.maxOps = maxOpsDefault
	b.serial = 0
}

// MaxOps returns the remaining operations budget.
func (b *Buffer) MaxOps() int {
	return b.maxOps
}

// DecrementMaxOps consumes one operation and reports whether budget is left.
func (b *Buffer) DecrementMaxOps() bool {
	return b.ConsumeOps(1)
}

// ConsumeOps consumes n operations and reports whether budget is left.
// Stages stop early once it returns false; b stays structurally valid.
func (b *Buffer) ConsumeOps(n int) bool {
	b.maxOps -= n
	if b.maxOps <= 0 {
		tracer().Debugf("operations budget exhausted")
		return false
	}
	return true
}

// OpsExhausted reports whether the operations budget is used up.
func (b *Buffer) OpsExhausted() bool {
	return b.maxOps <= 0
}
