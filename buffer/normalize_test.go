package buffer

import (
	"testing"

	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"github.com/stretchr/testify/assert"
)

func TestNormalizeForwardCluster(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "glyphbuf.buffer")
	defer teardown()
	//
	b := positionedBuffer([]uint32{10, 20, 30, 40}, []uint32{0, 0, 0, 1}, []int32{100, 50, 0, 70})
	b.SetDirection(DirectionLTR)
	b.NormalizeGlyphs()
	assert.Equal(t, []uint32{10, 30, 20, 40}, codepoints(b))
	assert.Equal(t, []int32{150, 0, 0, 70}, xAdvances(b))
	assert.Equal(t, []int32{0, 0, -50, 0}, xOffsets(b))
}

func TestNormalizeBackwardCluster(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "glyphbuf.buffer")
	defer teardown()
	//
	b := positionedBuffer([]uint32{10, 20, 30}, []uint32{4, 4, 4}, []int32{100, 50, 0})
	b.SetDirection(DirectionRTL)
	b.NormalizeGlyphs()
	assert.Equal(t, []uint32{20, 10, 30}, codepoints(b))
	assert.Equal(t, []int32{0, 0, 150}, xAdvances(b))
	assert.Equal(t, []int32{100, 0, 150}, xOffsets(b))
}

func TestNormalizeKeepsClusterAdvanceAndIsIdempotent(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "glyphbuf.buffer")
	defer teardown()
	//
	for _, dir := range []Direction{DirectionLTR, DirectionRTL, DirectionTTB} {
		b := positionedBuffer(
			[]uint32{5, 9, 2, 7, 7, 1, 8},
			[]uint32{0, 0, 1, 2, 2, 2, 3},
			[]int32{30, 20, 60, 10, 0, 25, 40},
		)
		for i := range b.Pos() {
			b.Pos()[i].YAdvance = int32(i)
			b.Pos()[i].XOffset = int32(3 * i)
		}
		b.SetDirection(dir)
		before := clusterAdvances(b)
		b.NormalizeGlyphs()
		assert.Equal(t, before, clusterAdvances(b), "direction %s", dir)
		once := cloneBuffer(b)
		b.NormalizeGlyphs()
		assert.Equal(t, DiffEqual, Diff(b, once, NoDottedCircle, 0), "direction %s", dir)
	}
}

func TestNormalizeStableForEqualGlyphs(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "glyphbuf.buffer")
	defer teardown()
	//
	b := positionedBuffer([]uint32{1, 7, 7, 7}, []uint32{0, 0, 0, 0}, []int32{10, 1, 2, 3})
	b.NormalizeGlyphs()
	assert.Equal(t, []int32{-6, -5, -3}, xOffsets(b)[1:], "equal glyphs keep their order")
}

func TestNormalizePreconditions(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "glyphbuf.buffer")
	defer teardown()
	//
	b := makeGlyphBuffer([]uint32{1}, []uint32{0})
	expectPrecondition(t, "NormalizeGlyphs", b.NormalizeGlyphs)
	u := New()
	u.AddString("a")
	u.ClearPositions()
	expectPrecondition(t, "NormalizeGlyphs", u.NormalizeGlyphs)
	e := New()
	e.ClearPositions()
	e.NormalizeGlyphs() // empty buffer is fine
}

// --- Helpers ---------------------------------------------------------------

func positionedBuffer(glyphs, cl []uint32, advances []int32) *Buffer {
	b := makeGlyphBuffer(glyphs, cl)
	b.ClearPositions()
	for i, a := range advances {
		b.Pos()[i].XAdvance = a
	}
	return b
}

func xAdvances(b *Buffer) []int32 {
	adv := make([]int32, b.Len())
	for i, p := range b.Pos() {
		adv[i] = p.XAdvance
	}
	return adv
}

func xOffsets(b *Buffer) []int32 {
	off := make([]int32, b.Len())
	for i, p := range b.Pos() {
		off[i] = p.XOffset
	}
	return off
}

// clusterAdvances sums advances per cluster id.
func clusterAdvances(b *Buffer) map[uint32][2]int32 {
	sums := make(map[uint32][2]int32)
	for i, info := range b.Info() {
		s := sums[info.Cluster]
		s[0] += b.Pos()[i].XAdvance
		s[1] += b.Pos()[i].YAdvance
		sums[info.Cluster] = s
	}
	return sums
}

func cloneBuffer(b *Buffer) *Buffer {
	c := New()
	c.Append(b, 0, b.Len())
	return c
}
