package buffer

import (
	"unicode"

	"github.com/go-text/typesetting/harfbuzz"
	"github.com/go-text/typesetting/language"
	"github.com/go-text/typesetting/segmenter"
	"golang.org/x/text/unicode/norm"
)

// GeneralCategory is a Unicode general category.
type GeneralCategory uint8

// General categories, in the order used by OpenType shapers.
const (
	Control GeneralCategory = iota
	Format
	Unassigned
	PrivateUse
	Surrogate
	LowercaseLetter
	ModifierLetter
	OtherLetter
	TitlecaseLetter
	UppercaseLetter
	SpacingMark
	EnclosingMark
	NonSpacingMark
	DecimalNumber
	LetterNumber
	OtherNumber
	ConnectPunctuation
	DashPunctuation
	ClosePunctuation
	FinalPunctuation
	InitialPunctuation
	OtherPunctuation
	OpenPunctuation
	CurrencySymbol
	ModifierSymbol
	MathSymbol
	OtherSymbol
	LineSeparator
	ParagraphSeparator
	SpaceSeparator
)

// IsMark reports whether gc is one of the three mark categories.
func (gc GeneralCategory) IsMark() bool {
	return gc == SpacingMark || gc == EnclosingMark || gc == NonSpacingMark
}

// UnicodeFuncs provides the Unicode character properties the buffer needs
// to classify codepoints.
type UnicodeFuncs interface {
	Script(r rune) Script
	GeneralCategory(r rune) GeneralCategory
	CombiningClass(r rune) uint8
	IsDefaultIgnorable(r rune) bool
}

// DefaultUnicode implements UnicodeFuncs with the Unicode tables of the Go
// standard library, go-text and x/text.
type DefaultUnicode struct{}

var _ UnicodeFuncs = DefaultUnicode{}

func (DefaultUnicode) Script(r rune) Script {
	return language.LookupScript(r)
}

var categoryTables = []struct {
	table *unicode.RangeTable
	gc    GeneralCategory
}{
	{unicode.Lu, UppercaseLetter}, {unicode.Ll, LowercaseLetter},
	{unicode.Lt, TitlecaseLetter}, {unicode.Lm, ModifierLetter},
	{unicode.Lo, OtherLetter}, {unicode.Mn, NonSpacingMark},
	{unicode.Mc, SpacingMark}, {unicode.Me, EnclosingMark},
	{unicode.Nd, DecimalNumber}, {unicode.Nl, LetterNumber},
	{unicode.No, OtherNumber}, {unicode.Pc, ConnectPunctuation},
	{unicode.Pd, DashPunctuation}, {unicode.Ps, OpenPunctuation},
	{unicode.Pe, ClosePunctuation}, {unicode.Pi, InitialPunctuation},
	{unicode.Pf, FinalPunctuation}, {unicode.Po, OtherPunctuation},
	{unicode.Sm, MathSymbol}, {unicode.Sc, CurrencySymbol},
	{unicode.Sk, ModifierSymbol}, {unicode.So, OtherSymbol},
	{unicode.Zs, SpaceSeparator}, {unicode.Zl, LineSeparator},
	{unicode.Zp, ParagraphSeparator}, {unicode.Cc, Control},
	{unicode.Cf, Format}, {unicode.Co, PrivateUse}, {unicode.Cs, Surrogate},
}

func (DefaultUnicode) GeneralCategory(r rune) GeneralCategory {
	for _, c := range categoryTables {
		if unicode.Is(c.table, r) {
			return c.gc
		}
	}
	return Unassigned
}

func (DefaultUnicode) CombiningClass(r rune) uint8 {
	return norm.NFD.PropertiesString(string(r)).CCC()
}

// IsDefaultIgnorable follows HarfBuzz, which keeps a few Default_Ignorable
// code points visible (Hangul fillers, U+1BCA0..U+1BCA3).
func (DefaultUnicode) IsDefaultIgnorable(r rune) bool {
	return harfbuzz.IsDefaultIgnorable(r)
}

// Special codepoints looked at while classifying.
const (
	cpZWNJ = 0x200C
	cpZWJ  = 0x200D
	cpCGJ  = 0x034F
)

// isHiddenIgnorable reports default ignorables which must stay hidden even
// if a font has a glyph for them: CGJ, Mongolian variation selectors and
// tag characters.
func isHiddenIgnorable(r rune) bool {
	return r == cpCGJ || (0x180B <= r && r <= 0x180D) || r == 0x180F ||
		(0xE0020 <= r && r <= 0xE007F)
}

// InitUnicodeProps classifies every codepoint of b using ufuncs and stores the
// result in the unicode props of the scratch words. Summary scratch flags
// (non-ASCII, default ignorables, CGJ) are raised as found. Marks are flagged
// as grapheme continuations.
func (b *Buffer) InitUnicodeProps(ufuncs UnicodeFuncs) {
	precondition(b.contentType == ContentTypeUnicode || b.length == 0,
		"InitUnicodeProps", "buffer does not hold Unicode text")
	for i := range b.info[:b.length] {
		info := &b.info[i]
		r := rune(info.Codepoint)
		gc := ufuncs.GeneralCategory(r)
		props := uint16(gc)
		if r >= 0x80 {
			b.scratchFlags |= ScratchFlagHasNonASCII
			if ufuncs.IsDefaultIgnorable(r) {
				b.scratchFlags |= ScratchFlagHasDefaultIgnorables
				props |= upropsIgnorable
				switch {
				case r == cpZWNJ:
					props |= upropsCfZWNJ
				case r == cpZWJ:
					props |= upropsCfZWJ
				case isHiddenIgnorable(r):
					props |= upropsHidden
				}
				if r == cpCGJ {
					b.scratchFlags |= ScratchFlagHasCGJ
				}
			}
			if gc.IsMark() {
				props |= upropsContinuation
				props |= uint16(ufuncs.CombiningClass(r)) << 8
			}
		}
		info.setUnicodeProps(props)
	}
}

// MarkGraphemeContinuations flags every codepoint which does not start a
// grapheme cluster (extended grapheme clusters of UAX #29) as a continuation.
func (b *Buffer) MarkGraphemeContinuations() {
	precondition(b.contentType == ContentTypeUnicode || b.length == 0,
		"MarkGraphemeContinuations", "buffer does not hold Unicode text")
	if b.length == 0 {
		return
	}
	runes := make([]rune, b.length)
	for i, info := range b.info[:b.length] {
		runes[i] = validRune(rune(info.Codepoint), b.Replacement)
	}
	var seg segmenter.Segmenter
	seg.Init(runes)
	iter := seg.GraphemeIterator()
	for iter.Next() {
		g := iter.Grapheme()
		for i := g.Offset + 1; i < g.Offset+len(g.Text); i++ {
			b.info[i].SetContinuation()
		}
	}
}
