package buffer

import (
	"unicode/utf16"
	"unicode/utf8"
)

// Add appends a single codepoint with the given cluster id. The post-context
// is cleared. On a failed buffer Add does nothing.
func (b *Buffer) Add(codepoint rune, cluster uint32) {
	b.ensureUnicode("Add")
	b.add(codepoint, cluster)
	b.contextLen[1] = 0
}

func (b *Buffer) add(codepoint rune, cluster uint32) {
	if !b.ensure(b.length + 1) {
		return
	}
	b.info[b.length] = GlyphInfo{Codepoint: uint32(codepoint), Cluster: cluster}
	b.length++
}

// ensureUnicode checks that codepoints may be added and sets the content type.
func (b *Buffer) ensureUnicode(op string) {
	precondition(b.contentType == ContentTypeUnicode ||
		(b.length == 0 && b.contentType == ContentTypeInvalid),
		op, "buffer does not hold Unicode text")
	b.contentType = ContentTypeUnicode
}

// AddString appends all of s, see AddUTF8.
func (b *Buffer) AddString(s string) {
	b.AddUTF8([]byte(s), 0, -1)
}

// AddUTF8 appends the item text[itemOffset:itemOffset+itemLength] of UTF-8
// text; an itemLength < 0 means "up to the end". Cluster ids are byte
// offsets into text. Up to 5 codepoints before the item are recorded as
// pre-context (only if b is empty), up to 5 after it as post-context.
// Ill-formed sequences are replaced by b.Replacement.
func (b *Buffer) AddUTF8(text []byte, itemOffset, itemLength int) {
	addText(b, utf8Units(text), itemOffset, itemLength)
}

// AddUTF16 is AddUTF8 for UTF-16 text. Cluster ids are code unit offsets.
// Unpaired surrogates are replaced by b.Replacement.
func (b *Buffer) AddUTF16(text []uint16, itemOffset, itemLength int) {
	addText(b, utf16Units(text), itemOffset, itemLength)
}

// AddUTF32 is AddUTF8 for UTF-32 text. Surrogates and values beyond
// U+10FFFF are replaced by b.Replacement.
func (b *Buffer) AddUTF32(text []uint32, itemOffset, itemLength int) {
	addText(b, utf32Units(text), itemOffset, itemLength)
}

// AddRunes is AddUTF32 for a rune slice.
func (b *Buffer) AddRunes(text []rune, itemOffset, itemLength int) {
	addText(b, runeUnits(text), itemOffset, itemLength)
}

// codeUnits is text in one of the Unicode encoding forms.
type codeUnits interface {
	len() int
	// next decodes the codepoint starting at i, not reading beyond end,
	// and returns it together with the index after it.
	next(i, end int, replacement rune) (rune, int)
	// prev decodes the codepoint ending at i, not reading before start.
	prev(i, start int, replacement rune) (rune, int)
}

func addText(b *Buffer, text codeUnits, itemOffset, itemLength int) {
	b.ensureUnicode("AddText")
	if itemLength < 0 {
		itemLength = text.len() - itemOffset
	}
	precondition(itemOffset >= 0 && itemOffset+itemLength <= text.len(), "AddText", "item out of bounds")
	if !b.ensure(b.length + itemLength) {
		return
	}
	if b.length == 0 && itemOffset > 0 {
		b.contextLen[0] = 0
		for i := itemOffset; i > 0 && b.contextLen[0] < contextLength; {
			var r rune
			r, i = text.prev(i, 0, b.Replacement)
			b.context[0][b.contextLen[0]] = r
			b.contextLen[0]++
		}
	}
	end := itemOffset + itemLength
	for i := itemOffset; i < end; {
		cluster := i
		var r rune
		r, i = text.next(i, end, b.Replacement)
		b.add(r, uint32(cluster))
	}
	b.contextLen[1] = 0
	for i := end; i < text.len() && b.contextLen[1] < contextLength; {
		var r rune
		r, i = text.next(i, text.len(), b.Replacement)
		b.context[1][b.contextLen[1]] = r
		b.contextLen[1]++
	}
}

type utf8Units []byte

func (u utf8Units) len() int { return len(u) }

func (u utf8Units) next(i, end int, replacement rune) (rune, int) {
	r, size := utf8.DecodeRune(u[i:end])
	if r == utf8.RuneError && size <= 1 {
		return replacement, i + 1
	}
	return r, i + size
}

func (u utf8Units) prev(i, start int, replacement rune) (rune, int) {
	r, size := utf8.DecodeLastRune(u[start:i])
	if r == utf8.RuneError && size <= 1 {
		return replacement, i - 1
	}
	return r, i - size
}

type utf16Units []uint16

func (u utf16Units) len() int { return len(u) }

func (u utf16Units) next(i, end int, replacement rune) (rune, int) {
	c := rune(u[i])
	if !utf16.IsSurrogate(c) {
		return c, i + 1
	}
	if c < 0xDC00 && i+1 < end {
		if r := utf16.DecodeRune(c, rune(u[i+1])); r != utf8.RuneError {
			return r, i + 2
		}
	}
	return replacement, i + 1
}

func (u utf16Units) prev(i, start int, replacement rune) (rune, int) {
	c := rune(u[i-1])
	if !utf16.IsSurrogate(c) {
		return c, i - 1
	}
	if c >= 0xDC00 && i-2 >= start {
		if r := utf16.DecodeRune(rune(u[i-2]), c); r != utf8.RuneError {
			return r, i - 2
		}
	}
	return replacement, i - 1
}

type utf32Units []uint32

func (u utf32Units) len() int { return len(u) }

func (u utf32Units) next(i, _ int, replacement rune) (rune, int) {
	return validRune(rune(u[i]), replacement), i + 1
}

func (u utf32Units) prev(i, _ int, replacement rune) (rune, int) {
	return validRune(rune(u[i-1]), replacement), i - 1
}

type runeUnits []rune

func (u runeUnits) len() int { return len(u) }

func (u runeUnits) next(i, _ int, replacement rune) (rune, int) {
	return validRune(u[i], replacement), i + 1
}

func (u runeUnits) prev(i, _ int, replacement rune) (rune, int) {
	return validRune(u[i-1], replacement), i - 1
}

func validRune(r, replacement rune) rune {
	if !utf8.ValidRune(r) {
		return replacement
	}
	return r
}

// --- Context ----------------------------------------------------------------

// Context sides.
const (
	PreContext  = 0
	PostContext = 1
)

// Context returns the pre-context (side 0, nearest codepoint first) or the
// post-context (side 1) of b.
func (b *Buffer) Context(side int) []rune {
	return b.context[side][:b.contextLen[side]]
}

// SetPreContext sets the codepoints preceding the buffer's text, in text
// order. Only the last 5 are kept.
func (b *Buffer) SetPreContext(text []rune) {
	b.contextLen[0] = 0
	for i := len(text) - 1; i >= 0 && b.contextLen[0] < contextLength; i-- {
		b.context[0][b.contextLen[0]] = text[i]
		b.contextLen[0]++
	}
}

// SetPostContext sets the codepoints following the buffer's text. Only the
// first 5 are kept.
func (b *Buffer) SetPostContext(text []rune) {
	b.contextLen[1] = 0
	for i := 0; i < len(text) && b.contextLen[1] < contextLength; i++ {
		b.context[1][b.contextLen[1]] = text[i]
		b.contextLen[1]++
	}
}
