package glyphbuf

import (
	"errors"
	"testing"

	"github.com/npillmayer/glyphbuf/buffer"
	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/image/font/gofont/goregular"
)

func loadGoRegular(t *testing.T) *ScalableFont {
	f, err := ParseOpenTypeFont(goregular.TTF)
	require.NoError(t, err)
	return f
}

func TestFamilyName(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "glyphbuf")
	defer teardown()
	//
	f := loadGoRegular(t)
	family, subfamily := f.FamilyName()
	assert.NotEmpty(t, family)
	assert.NotEmpty(t, subfamily)
	assert.Contains(t, f.TableTags(), "cmap")
}

func TestShapeText(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "glyphbuf")
	defer teardown()
	//
	f := loadGoRegular(t)
	glyphs, err := ShapeText(f, "Hello")
	require.NoError(t, err)
	require.Len(t, glyphs, 5)
	for i, g := range glyphs {
		gid, ok := f.NominalGlyph(rune("Hello"[i]))
		require.True(t, ok)
		assert.Equal(t, gid, g.GID)
		assert.Equal(t, uint32(i), g.Cluster)
		assert.Equal(t, f.HorizontalAdvance(gid), g.Pos.XAdvance)
		assert.Greater(t, g.Pos.XAdvance, int32(0))
	}
	assert.Equal(t, glyphs[2].GID, glyphs[3].GID, "two l's")
	//
	glyphs, err = ShapeText(f, "")
	assert.NoError(t, err)
	assert.Nil(t, glyphs)
}

func TestShapeNominalGuessesRTL(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "glyphbuf")
	defer teardown()
	//
	f := loadGoRegular(t)
	frozen, err := ShapeNominal(f, "\u05D0\u05D1", buffer.SegmentProperties{})
	require.NoError(t, err)
	assert.Equal(t, buffer.DirectionRTL, frozen.SegmentProperties().Direction)
	require.Equal(t, 2, frozen.Len())
	assert.Equal(t, uint32(2), frozen.Info(0).Cluster, "visual order")
	assert.Equal(t, uint32(0), frozen.Info(1).Cluster)
	assert.Equal(t, uint32(0), frozen.Info(0).Codepoint, "not covered by the font")
}

func TestShapeNominalKeepsGivenProps(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "glyphbuf")
	defer teardown()
	//
	f := loadGoRegular(t)
	props := buffer.SegmentProperties{Direction: buffer.DirectionRTL}
	frozen, err := ShapeNominal(f, "ab", props)
	require.NoError(t, err)
	assert.Equal(t, buffer.DirectionRTL, frozen.SegmentProperties().Direction)
	assert.Equal(t, []uint32{1, 0}, []uint32{frozen.Info(0).Cluster, frozen.Info(1).Cluster})
}

func TestShapeNominalWithoutFont(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "glyphbuf")
	defer teardown()
	//
	_, err := ShapeNominal(nil, "abc", buffer.SegmentProperties{})
	assert.True(t, errors.Is(err, ErrNoFont))
}
