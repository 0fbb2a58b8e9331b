package buffer

import "sort"

// NormalizeGlyphs brings the positions of every cluster into a canonical
// form, so that differently composed but equivalent shaping results compare
// equal: within a cluster, all advance goes to the anchor glyph (the first in
// logical order), the others are re-expressed as offsets relative to the
// anchor, and the non-anchor glyphs are stably sorted by descending glyph
// index. The sum of advances per cluster is unchanged and the operation is
// idempotent.
//
// Positions must be live and the buffer must hold glyphs.
func (b *Buffer) NormalizeGlyphs() {
	precondition(b.havePositions, "NormalizeGlyphs", "positions are not live")
	precondition(b.contentType == ContentTypeGlyphs ||
		(b.length == 0 && b.contentType == ContentTypeInvalid),
		"NormalizeGlyphs", "buffer does not hold glyphs")
	if b.length == 0 {
		return
	}
	backward := b.props.Direction.IsBackward()
	start := 0
	for end := 1; end < b.length; end++ {
		if b.info[start].Cluster != b.info[end].Cluster {
			b.normalizeCluster(start, end, backward)
			start = end
		}
	}
	b.normalizeCluster(start, b.length, backward)
}

func (b *Buffer) normalizeCluster(start, end int, backward bool) {
	if end-start < 2 {
		return
	}
	pos := b.pos
	var totalX, totalY int32
	for i := start; i < end; i++ {
		pos[i].XOffset += totalX
		pos[i].YOffset += totalY
		totalX += pos[i].XAdvance
		totalY += pos[i].YAdvance
		pos[i].XAdvance = 0
		pos[i].YAdvance = 0
	}
	if backward {
		// Transfer all cluster advance to the last glyph.
		pos[end-1].XAdvance = totalX
		pos[end-1].YAdvance = totalY
		sort.Stable(clusterGlyphs{b.info[start : end-1], pos[start : end-1]})
		return
	}
	// Transfer all cluster advance to the first glyph.
	pos[start].XAdvance += totalX
	pos[start].YAdvance += totalY
	for i := start + 1; i < end; i++ {
		pos[i].XOffset -= totalX
		pos[i].YOffset -= totalY
	}
	sort.Stable(clusterGlyphs{b.info[start+1 : end], pos[start+1 : end]})
}

// clusterGlyphs sorts glyphs of a cluster by descending glyph index, moving
// positions along.
type clusterGlyphs struct {
	info []GlyphInfo
	pos  []GlyphPosition
}

func (c clusterGlyphs) Len() int           { return len(c.info) }
func (c clusterGlyphs) Less(i, j int) bool { return c.info[i].Codepoint > c.info[j].Codepoint }
func (c clusterGlyphs) Swap(i, j int) {
	c.info[i], c.info[j] = c.info[j], c.info[i]
	c.pos[i], c.pos[j] = c.pos[j], c.pos[i]
}
