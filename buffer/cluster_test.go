package buffer

import (
	"math/rand"
	"testing"

	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMergeClustersExtendsToWholeClusters(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "glyphbuf.buffer")
	defer teardown()
	//
	b := makeGlyphBuffer([]uint32{1, 2, 3, 4, 5}, []uint32{5, 6, 6, 7, 8})
	b.MergeClusters(2, 4)
	assert.Equal(t, []uint32{5, 6, 6, 6, 8}, clusters(b))
	b.MergeClusters(3, 4) // single slot: no-op
	assert.Equal(t, []uint32{5, 6, 6, 6, 8}, clusters(b))
}

func TestMergeClustersReachesIntoOutput(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "glyphbuf.buffer")
	defer teardown()
	//
	b := makeGlyphBuffer([]uint32{1, 2, 3, 4}, []uint32{0, 3, 3, 2})
	b.ClearOutput()
	b.NextGlyph()
	b.NextGlyph()
	b.MergeClusters(2, 4)
	b.SwapBuffers()
	assert.Equal(t, []uint32{0, 2, 2, 2}, clusters(b))
}

func TestMergeClustersCharacterLevelOnlyMarks(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "glyphbuf.buffer")
	defer teardown()
	//
	b := makeGlyphBuffer([]uint32{1, 2, 3}, []uint32{0, 1, 2})
	b.ClusterLevel = ClusterLevelCharacters
	b.MergeClusters(0, 3)
	assert.Equal(t, []uint32{0, 1, 2}, clusters(b))
	assert.Equal(t, []bool{false, true, true}, unsafeFlags(b.Info()))
}

func TestMergeOutClusters(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "glyphbuf.buffer")
	defer teardown()
	//
	b := makeGlyphBuffer([]uint32{1, 2, 3, 4}, []uint32{0, 1, 2, 3})
	b.ClearOutput()
	b.NextGlyphs(3)
	b.MergeOutClusters(1, 3)
	assert.Equal(t, []uint32{0, 1, 1}, infoClusters(b.OutInfo()))
	b.SwapBuffers()
	assert.Equal(t, []uint32{0, 1, 1, 3}, clusters(b))
	//
	b = makeGlyphBuffer([]uint32{1, 2, 3, 4}, []uint32{0, 1, 2, 2})
	b.ClearOutput()
	b.NextGlyphs(3)
	b.MergeOutClusters(1, 3) // continues into input at the cursor
	b.SwapBuffers()
	assert.Equal(t, []uint32{0, 1, 1, 1}, clusters(b))
}

func TestUnsafeToBreakMarksNonMinimumClusters(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "glyphbuf.buffer")
	defer teardown()
	//
	b := makeGlyphBuffer([]uint32{1, 2, 3, 4, 5}, []uint32{0, 1, 1, 2, 3})
	b.UnsafeToBreak(1, 4)
	assert.Equal(t, []bool{false, false, false, true, false}, unsafeFlags(b.Info()))
	assert.True(t, b.Info()[3].UnsafeToConcat())
	assert.NotZero(t, b.ScratchFlags()&ScratchFlagHasUnsafeToBreak)
	// only additive
	b.UnsafeToBreak(0, 2)
	assert.Equal(t, []bool{false, true, false, true, false}, unsafeFlags(b.Info()))
}

func TestUnsafeToBreakShortRangeIsNoop(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "glyphbuf.buffer")
	defer teardown()
	//
	b := makeGlyphBuffer([]uint32{1, 2}, []uint32{0, 1})
	b.UnsafeToBreak(1, 2)
	assert.Equal(t, []bool{false, false}, unsafeFlags(b.Info()))
	assert.Zero(t, b.ScratchFlags()&ScratchFlagHasUnsafeToBreak)
}

func TestUnsafeToBreakFromOutbuffer(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "glyphbuf.buffer")
	defer teardown()
	//
	b := makeGlyphBuffer([]uint32{1, 2, 3, 4}, []uint32{0, 1, 2, 3})
	b.ClearOutput()
	b.NextGlyphs(2)
	b.UnsafeToBreakFromOutbuffer(1, 3) // out[1] and input slot 2
	b.SwapBuffers()
	assert.Equal(t, []bool{false, false, true, false}, unsafeFlags(b.Info()))
	//
	b = makeGlyphBuffer([]uint32{1, 2, 3}, []uint32{0, 1, 2})
	b.UnsafeToBreakFromOutbuffer(0, 2) // no output phase: plain input range
	assert.Equal(t, []bool{false, true, false}, unsafeFlags(b.Info()))
}

func TestUnsafeToConcat(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "glyphbuf.buffer")
	defer teardown()
	//
	b := makeGlyphBuffer([]uint32{1, 2, 3}, []uint32{0, 1, 2})
	b.UnsafeToConcat(0, 3)
	assert.Equal(t, []uint32{0, 0, 0}, glyphFlags(b), "not produced unless requested")
	assert.Zero(t, b.ScratchFlags()&ScratchFlagHasGlyphFlags)
	b.Flags |= FlagProduceUnsafeToConcat
	b.UnsafeToConcat(0, 3)
	for i, info := range b.Info() {
		assert.Equal(t, i > 0, info.UnsafeToConcat())
		assert.False(t, info.UnsafeToBreak())
	}
	b.ClearOutput()
	b.NextGlyph()
	b.UnsafeToConcatFromOutbuffer(0, 2)
	b.SwapBuffers()
	for _, info := range b.Info()[:2] {
		assert.True(t, info.UnsafeToConcat())
	}
}

func TestUnsafeToConcatFromOutbufferNeedsFlag(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "glyphbuf.buffer")
	defer teardown()
	//
	b := makeGlyphBuffer([]uint32{1, 2, 3}, []uint32{0, 1, 2})
	b.ClearOutput()
	b.NextGlyph()
	b.UnsafeToConcatFromOutbuffer(0, 2)
	b.SwapBuffers()
	assert.Equal(t, []uint32{0, 0, 0}, glyphFlags(b))
	b.UnsafeToBreak(0, 2)
	assert.True(t, b.Info()[1].UnsafeToConcat(), "unsafe-to-break implies unsafe-to-concat")
}

func TestMergeClustersTwiceIsIdempotent(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "glyphbuf.buffer")
	defer teardown()
	//
	for _, level := range []ClusterLevel{ClusterLevelMonotoneGraphemes, ClusterLevelMonotoneCharacters,
		ClusterLevelCharacters} {
		b := makeGlyphBuffer([]uint32{1, 2, 3, 4, 5, 6}, []uint32{0, 2, 2, 5, 7, 9})
		b.ClusterLevel = level
		b.MergeClusters(1, 4)
		once := cloneBuffer(b)
		b.MergeClusters(1, 4)
		assert.Equal(t, DiffEqual, Diff(b, once, NoDottedCircle, 0), "level %s", level)
		assert.Equal(t, clusters(once), clusters(b), "level %s", level)
	}
}

func TestDeleteGlyphClusterSurvivesInNext(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "glyphbuf.buffer")
	defer teardown()
	//
	b := makeGlyphBuffer([]uint32{1, 2, 3}, []uint32{0, 1, 1})
	b.ClearOutput()
	b.NextGlyph()
	b.DeleteGlyph()
	b.NextGlyph()
	b.SwapBuffers()
	assert.Equal(t, []uint32{1, 3}, codepoints(b))
	assert.Equal(t, []uint32{0, 1}, clusters(b))
}

func TestDeleteGlyphMergesBackward(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "glyphbuf.buffer")
	defer teardown()
	//
	b := makeGlyphBuffer([]uint32{1, 2, 3}, []uint32{5, 3, 9})
	b.Info()[1].Mask = GlyphFlagUnsafeToBreak
	b.ClearOutput()
	b.NextGlyph()
	b.DeleteGlyph()
	b.NextGlyph()
	b.SwapBuffers()
	assert.Equal(t, []uint32{1, 3}, codepoints(b))
	assert.Equal(t, []uint32{3, 9}, clusters(b))
	assert.True(t, b.Info()[0].UnsafeToBreak(), "deleted glyph's flags carried over")
}

func TestDeleteGlyphKeepsLargerCluster(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "glyphbuf.buffer")
	defer teardown()
	//
	b := makeGlyphBuffer([]uint32{1, 2, 3}, []uint32{0, 1, 2})
	b.ClearOutput()
	b.NextGlyph()
	b.DeleteGlyph()
	b.NextGlyph()
	b.SwapBuffers()
	assert.Equal(t, []uint32{1, 3}, codepoints(b))
	assert.Equal(t, []uint32{0, 2}, clusters(b))
}

func TestDeleteGlyphMergesForward(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "glyphbuf.buffer")
	defer teardown()
	//
	b := makeGlyphBuffer([]uint32{1, 2, 3}, []uint32{0, 1, 2})
	b.ClearOutput()
	b.DeleteGlyph()
	b.NextGlyphs(2)
	b.SwapBuffers()
	assert.Equal(t, []uint32{2, 3}, codepoints(b))
	assert.Equal(t, []uint32{0, 2}, clusters(b))
}

func TestDeleteGlyphCharacterLevel(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "glyphbuf.buffer")
	defer teardown()
	//
	b := makeGlyphBuffer([]uint32{1, 2, 3}, []uint32{5, 3, 9})
	b.ClusterLevel = ClusterLevelCharacters
	b.Info()[1].Mask = GlyphFlagUnsafeToBreak
	b.ClearOutput()
	b.NextGlyph()
	b.DeleteGlyph()
	b.NextGlyph()
	b.SwapBuffers()
	assert.Equal(t, []uint32{5, 9}, clusters(b))
	assert.True(t, b.Info()[0].UnsafeToBreak())
}

func TestDeleteGlyphsInplace(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "glyphbuf.buffer")
	defer teardown()
	//
	b := makeGlyphBuffer([]uint32{1, 0, 2, 0, 3, 0}, []uint32{0, 1, 1, 2, 3, 4})
	b.ClearPositions()
	for i := range b.Pos() {
		b.Pos()[i].XAdvance = int32(b.Info()[i].Codepoint * 100)
	}
	b.DeleteGlyphsInplace(func(g *GlyphInfo) bool { return g.Codepoint == 0 })
	assert.Equal(t, []uint32{1, 2, 3}, codepoints(b))
	assert.Equal(t, []uint32{0, 1, 3}, clusters(b))
	assert.Equal(t, int32(300), b.Pos()[2].XAdvance)
	//
	b = makeGlyphBuffer([]uint32{0, 5, 6}, []uint32{0, 1, 2})
	b.DeleteGlyphsInplace(func(g *GlyphInfo) bool { return g.Codepoint == 0 })
	assert.Equal(t, []uint32{5, 6}, codepoints(b))
	assert.Equal(t, []uint32{0, 2}, clusters(b), "leading deletion merges forward")
}

func TestResetClustersAndNextCluster(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "glyphbuf.buffer")
	defer teardown()
	//
	b := makeGlyphBuffer([]uint32{1, 2, 3, 4}, []uint32{0, 0, 0, 1})
	assert.Equal(t, 3, b.NextCluster(0))
	assert.Equal(t, 4, b.NextCluster(3))
	assert.Equal(t, 4, b.NextCluster(9))
	b.ResetClusters()
	assert.Equal(t, []uint32{0, 1, 2, 3}, clusters(b))
	for i := range b.Info() {
		b.Info()[i].SetSyllable(uint8(i / 2))
	}
	assert.Equal(t, 2, b.NextSyllable(0))
}

// Random sequences of cluster-preserving primitives must keep cluster ids
// monotone in the monotone cluster levels.
func TestClustersStayMonotone(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "glyphbuf.buffer")
	defer teardown()
	//
	rnd := rand.New(rand.NewSource(4711))
	for _, level := range []ClusterLevel{ClusterLevelMonotoneGraphemes, ClusterLevelMonotoneCharacters} {
		for round := range 50 {
			n := 4 + rnd.Intn(12)
			glyphs := make([]uint32, n)
			cl := make([]uint32, n)
			for i := range glyphs {
				glyphs[i] = uint32(rnd.Intn(100))
				cl[i] = uint32(i * 2)
			}
			b := makeGlyphBuffer(glyphs, cl)
			b.ClusterLevel = level
			b.ClearOutput()
			for b.Idx() < b.Len() {
				rest := b.Len() - b.Idx()
				switch rnd.Intn(6) {
				case 0:
					numIn := 1 + rnd.Intn(min(rest, 3))
					numOut := rnd.Intn(4)
					b.ReplaceGlyphs(numIn, numOut, []uint32{7, 8, 9})
				case 1:
					b.DeleteGlyph()
				case 2:
					b.MergeClusters(b.Idx(), b.Idx()+1+rnd.Intn(rest))
					b.NextGlyph()
				case 3:
					b.OutputGlyph(42)
					b.NextGlyph()
				default:
					b.NextGlyph()
				}
			}
			b.SwapBuffers()
			require.True(t, b.AllocationSuccessful())
			cls := clusters(b)
			for i := 1; i < len(cls); i++ {
				require.LessOrEqual(t, cls[i-1], cls[i], "round %d, level %s: %v", round, level, cls)
			}
		}
	}
}

func glyphFlags(b *Buffer) []uint32 {
	flags := make([]uint32, b.Len())
	for i := range b.Info() {
		flags[i] = b.Info()[i].GlyphFlags()
	}
	return flags
}

func infoClusters(infos []GlyphInfo) []uint32 {
	cl := make([]uint32, len(infos))
	for i := range infos {
		cl[i] = infos[i].Cluster
	}
	return cl
}
