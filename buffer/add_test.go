package buffer

import (
	"testing"

	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"github.com/stretchr/testify/assert"
)

func TestAddUTF8ClustersAndContext(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "glyphbuf.buffer")
	defer teardown()
	//
	text := []byte("uvwxyzäbc")
	b := New()
	b.AddUTF8(text, 6, 2) // just the 'ä'
	assert.Equal(t, []uint32{'ä'}, codepoints(b))
	assert.Equal(t, []uint32{6}, clusters(b))
	assert.Equal(t, []rune("zyxwv"), b.Context(PreContext), "nearest first, at most 5")
	assert.Equal(t, []rune("bc"), b.Context(PostContext))
}

func TestAddUTF8WholeText(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "glyphbuf.buffer")
	defer teardown()
	//
	b := New()
	b.AddString("añb")
	assert.Equal(t, []uint32{'a', 'ñ', 'b'}, codepoints(b))
	assert.Equal(t, []uint32{0, 1, 3}, clusters(b))
	assert.Empty(t, b.Context(PreContext))
	assert.Empty(t, b.Context(PostContext))
}

func TestAddUTF8IllFormed(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "glyphbuf.buffer")
	defer teardown()
	//
	b := New()
	b.AddUTF8([]byte{'a', 0xFF, 'b', 0xE2, 0x82}, 0, -1)
	assert.Equal(t, []uint32{'a', 0xFFFD, 'b', 0xFFFD, 0xFFFD}, codepoints(b))
	assert.Equal(t, []uint32{0, 1, 2, 3, 4}, clusters(b))
	//
	b = New()
	b.Replacement = '?'
	b.AddUTF8([]byte{0xC0, 'x'}, 0, -1)
	assert.Equal(t, []uint32{'?', 'x'}, codepoints(b))
}

func TestPreContextOnlyForEmptyBuffer(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "glyphbuf.buffer")
	defer teardown()
	//
	b := New()
	b.AddString("q")
	b.AddUTF8([]byte("abc"), 1, 1)
	assert.Empty(t, b.Context(PreContext))
	assert.Equal(t, []rune("c"), b.Context(PostContext))
	b.Add('z', 9)
	assert.Empty(t, b.Context(PostContext), "Add clears the post-context")
}

func TestAddUTF16(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "glyphbuf.buffer")
	defer teardown()
	//
	text := []uint16{'a', 0xD83D, 0xDE00, 0xDC00, 'b', 0xD800}
	b := New()
	b.AddUTF16(text, 0, -1)
	assert.Equal(t, []uint32{'a', 0x1F600, 0xFFFD, 'b', 0xFFFD}, codepoints(b))
	assert.Equal(t, []uint32{0, 1, 3, 4, 5}, clusters(b))
	//
	b = New()
	b.AddUTF16(text, 3, 2)
	assert.Equal(t, []rune{0x1F600, 'a'}, b.Context(PreContext))
	assert.Equal(t, []rune{0xFFFD}, b.Context(PostContext))
}

func TestAddUTF32AndRunes(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "glyphbuf.buffer")
	defer teardown()
	//
	b := New()
	b.AddUTF32([]uint32{'a', 0xD800, 0x110000, 0x10FFFF}, 0, -1)
	assert.Equal(t, []uint32{'a', 0xFFFD, 0xFFFD, 0x10FFFF}, codepoints(b))
	//
	b = New()
	b.AddRunes([]rune("hello"), 1, 3)
	assert.Equal(t, []uint32{'e', 'l', 'l'}, codepoints(b))
	assert.Equal(t, []uint32{1, 2, 3}, clusters(b))
	assert.Equal(t, []rune("h"), b.Context(PreContext))
	assert.Equal(t, []rune("o"), b.Context(PostContext))
}

func TestSetContext(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "glyphbuf.buffer")
	defer teardown()
	//
	b := New()
	b.SetPreContext([]rune("abcdefg"))
	b.SetPostContext([]rune("1234567"))
	assert.Equal(t, []rune("gfedc"), b.Context(PreContext))
	assert.Equal(t, []rune("12345"), b.Context(PostContext))
}
