package buffer

import (
	"io"
	"iter"
	"slices"
	"strings"
)

// Frozen is an immutable shaping result. It has no mutators and may be read
// from several goroutines at once. Create one with Buffer.Freeze.
type Frozen struct {
	props        SegmentProperties
	clusterLevel ClusterLevel
	contentType  ContentType
	scratchFlags ScratchFlags
	info         []GlyphInfo
	pos          []GlyphPosition // nil if positions were not live
}

// Freeze moves the contents of b into a Frozen handle. b is left empty, with
// its settings unchanged, ready for the next run. Freezing is only allowed
// outside of an output phase and for a successfully allocated buffer.
func (b *Buffer) Freeze() (*Frozen, error) {
	precondition(b.state == NoOutput, "Freeze", "output phase active")
	if !b.successful {
		return nil, ErrAllocation
	}
	f := &Frozen{
		props:        b.props,
		clusterLevel: b.ClusterLevel,
		contentType:  b.contentType,
		scratchFlags: b.scratchFlags,
		info:         b.info[:b.length:b.length],
	}
	if b.havePositions {
		f.pos = b.pos[:b.length:b.length]
	}
	b.info, b.pos, b.spare = nil, nil, nil
	b.ClearContents()
	return f, nil
}

// Thaw returns a mutable deep copy of f.
func (f *Frozen) Thaw() *Buffer {
	b := New()
	b.props = f.props
	b.ClusterLevel = f.clusterLevel
	b.contentType = f.contentType
	b.scratchFlags = f.scratchFlags
	b.info = slices.Clone(f.info)
	b.pos = make([]GlyphPosition, len(f.info))
	copy(b.pos, f.pos)
	b.length = len(f.info)
	b.havePositions = f.pos != nil
	return b
}

func (f *Frozen) Len() int                             { return len(f.info) }
func (f *Frozen) SegmentProperties() SegmentProperties { return f.props }
func (f *Frozen) ContentType() ContentType             { return f.contentType }
func (f *Frozen) ScratchFlags() ScratchFlags           { return f.scratchFlags }
func (f *Frozen) HavePositions() bool                  { return f.pos != nil }

// Info returns the glyph info at index i.
func (f *Frozen) Info(i int) GlyphInfo {
	return f.info[i]
}

// Position returns the glyph position at index i; the zero position if
// positions were not live when f was frozen.
func (f *Frozen) Position(i int) GlyphPosition {
	if f.pos == nil {
		return GlyphPosition{}
	}
	return f.pos[i]
}

// Infos returns a copy of all glyph infos.
func (f *Frozen) Infos() []GlyphInfo {
	return slices.Clone(f.info)
}

// Positions returns a copy of all glyph positions, nil if there are none.
func (f *Frozen) Positions() []GlyphPosition {
	return slices.Clone(f.pos)
}

// Glyphs iterates over all slots, yielding infos together with positions.
func (f *Frozen) Glyphs() iter.Seq2[GlyphInfo, GlyphPosition] {
	return func(yield func(GlyphInfo, GlyphPosition) bool) {
		for i := range f.info {
			if !yield(f.info[i], f.Position(i)) {
				return
			}
		}
	}
}

// Serialize writes f in the format of Buffer.Serialize.
func (f *Frozen) Serialize(w io.Writer, flags SerializeFlags) error {
	return serialize(w, f.info, f.pos, f.contentType, flags)
}

func (f *Frozen) String() string {
	var sb strings.Builder
	_ = f.Serialize(&sb, SerializeDefault)
	return sb.String()
}
