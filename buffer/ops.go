package buffer

import (
	"math"

	"github.com/go-text/typesetting/language"
)

// Reverse reverses the order of all slots (and positions, if live).
func (b *Buffer) Reverse() {
	b.ReverseRange(0, b.length)
}

// ReverseRange reverses slots [start,end). Applying it twice is the identity.
func (b *Buffer) ReverseRange(start, end int) {
	if end-start < 2 {
		return
	}
	for i, j := start, end-1; i < j; i, j = i+1, j-1 {
		b.info[i], b.info[j] = b.info[j], b.info[i]
	}
	if b.havePositions {
		for i, j := start, end-1; i < j; i, j = i+1, j-1 {
			b.pos[i], b.pos[j] = b.pos[j], b.pos[i]
		}
	}
}

// ReverseGroups reverses the order of groups of slots while keeping the
// order within each group. Neighbours belong to the same group if sameGroup
// holds for them. With merge set, each group is merged into one cluster.
func (b *Buffer) ReverseGroups(sameGroup func(a, c *GlyphInfo) bool, merge bool) {
	if b.length == 0 {
		return
	}
	start := 0
	for i := 1; i < b.length; i++ {
		if !sameGroup(&b.info[i-1], &b.info[i]) {
			if merge {
				b.MergeClusters(start, i)
			}
			b.ReverseRange(start, i)
			start = i
		}
	}
	if merge {
		b.MergeClusters(start, b.length)
	}
	b.ReverseRange(start, b.length)
	b.Reverse()
}

// ReverseClusters reverses the order of clusters, keeping glyph order within
// each cluster.
func (b *Buffer) ReverseClusters() {
	b.ReverseGroups(func(a, c *GlyphInfo) bool { return a.Cluster == c.Cluster }, false)
}

// ReverseGraphemes reverses the order of graphemes as found by the grapheme
// continuation bits. Graphemes are merged into single clusters with
// ClusterLevelMonotoneCharacters.
func (b *Buffer) ReverseGraphemes() {
	b.ReverseGroups(func(_, c *GlyphInfo) bool { return c.IsContinuation() },
		b.ClusterLevel == ClusterLevelMonotoneCharacters)
}

// Sort stably sorts slots [start,end) by cmp, an insertion sort. Whenever a
// slot moves, all slots it moves across are merged into one cluster.
// Sorting is not allowed while positions are live.
func (b *Buffer) Sort(start, end int, cmp func(a, c *GlyphInfo) int) {
	precondition(!b.havePositions, "Sort", "positions are live")
	for i := start + 1; i < end; i++ {
		j := i
		for j > start && cmp(&b.info[j-1], &b.info[i]) > 0 {
			j--
		}
		if i == j {
			continue
		}
		b.MergeClusters(j, i+1)
		t := b.info[i]
		copy(b.info[j+1:i+1], b.info[j:i])
		b.info[j] = t
	}
}

// SetMasks sets the bits of mask to value for all slots whose cluster lies in
// [clusterStart,clusterEnd). Bits of value outside mask are ignored.
func (b *Buffer) SetMasks(value, mask Mask, clusterStart, clusterEnd uint32) {
	if mask == 0 {
		return
	}
	value &= mask
	notMask := ^mask
	if clusterStart == 0 && clusterEnd == math.MaxUint32 {
		for i := range b.info[:b.length] {
			b.info[i].Mask = b.info[i].Mask&notMask | value
		}
		return
	}
	for i := range b.info[:b.length] {
		if clusterStart <= b.info[i].Cluster && b.info[i].Cluster < clusterEnd {
			b.info[i].Mask = b.info[i].Mask&notMask | value
		}
	}
}

// ResetMasks sets all masks to m.
func (b *Buffer) ResetMasks(m Mask) {
	for i := range b.info[:b.length] {
		b.info[i].Mask = m
	}
}

// AddMasks ORs m into all masks.
func (b *Buffer) AddMasks(m Mask) {
	for i := range b.info[:b.length] {
		b.info[i].Mask |= m
	}
}

// GuessSegmentProperties fills in unset segment properties: the script from
// the first codepoint with a real script, the direction from the script, and
// the process default language. Content must be Unicode (or the buffer empty).
func (b *Buffer) GuessSegmentProperties() {
	precondition(b.contentType == ContentTypeUnicode ||
		(b.length == 0 && b.contentType == ContentTypeInvalid),
		"GuessSegmentProperties", "buffer does not hold Unicode text")
	if b.props.Script == ScriptInvalid {
		for _, info := range b.info[:b.length] {
			s := language.LookupScript(rune(info.Codepoint))
			if s != language.Common && s != language.Inherited && s != language.Unknown {
				b.props.Script = s
				break
			}
		}
	}
	if b.props.Direction == DirectionInvalid {
		b.props.Direction = HorizontalDirection(b.props.Script)
		if b.props.Direction == DirectionInvalid {
			b.props.Direction = DirectionLTR
		}
	}
	if b.props.Language == "" {
		b.props.Language = DefaultLanguage()
	}
	tracer().Debugf("guessed segment properties %s", b.props)
}

// Append copies slots [start,end) of src to the end of b, together with
// positions and, where the range touches src's ends, src's context.
func (b *Buffer) Append(src *Buffer, start, end int) {
	end = min(end, src.length)
	if start >= end {
		return
	}
	if b.length == 0 {
		b.contentType = src.contentType
	}
	if !b.havePositions && src.havePositions {
		b.ClearPositions()
	}
	precondition(b.contentType == src.contentType, "Append", "content types differ")
	origLen := b.length
	if !b.SetLen(b.length + end - start) {
		return
	}
	copy(b.info[origLen:], src.info[start:end])
	if b.havePositions {
		if src.havePositions {
			copy(b.pos[origLen:], src.pos[start:end])
		} else {
			clear(b.pos[origLen:b.length])
		}
	}
	if src.contextLen[0] > 0 && origLen == 0 && start == 0 {
		b.context[0] = src.context[0]
		b.contextLen[0] = src.contextLen[0]
	}
	if src.contextLen[1] > 0 && end == src.length {
		b.context[1] = src.context[1]
		b.contextLen[1] = src.contextLen[1]
	}
}
