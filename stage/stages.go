package stage

import (
	"github.com/npillmayer/glyphbuf/buffer"
	"github.com/npillmayer/glyphbuf/internal/fontload"
)

const dottedCircle = 0x25CC

// SetUnicodeProps classifies the codepoints of buf with the default Unicode
// functions and flags grapheme continuations.
func SetUnicodeProps(buf *buffer.Buffer) {
	buf.InitUnicodeProps(buffer.DefaultUnicode{})
	buf.MarkGraphemeContinuations()
}

// InsertDottedCircle prepends U+25CC to a text which starts with a combining
// mark, so that the mark has a base to attach to. This is done only at the
// beginning of a text, with no pre-context, and only if the font has a glyph
// for the dotted circle.
func InsertDottedCircle(buf *buffer.Buffer, font GlyphMapper) {
	if buf.Flags&buffer.FlagDoNotInsertDottedCircle != 0 {
		return
	}
	if buf.Flags&buffer.FlagBeginningOfText == 0 || buf.Len() == 0 ||
		len(buf.Context(buffer.PreContext)) != 0 || !buf.Info()[0].IsUnicodeMark() {
		return
	}
	if _, ok := font.NominalGlyph(dottedCircle); !ok {
		return
	}
	first := buf.Info()[0]
	circle := buffer.GlyphInfo{
		Codepoint: dottedCircle,
		Mask:      first.Mask,
		Cluster:   first.Cluster,
	}
	circle.SetGeneralCategory(buffer.OtherSymbol)
	tracer().Debugf("inserting dotted circle before U+%04X", first.Codepoint)
	buf.ClearOutput()
	buf.OutputInfo(circle)
	buf.SwapBuffers()
}

func isContinuation(_, c *buffer.GlyphInfo) bool {
	return c.IsContinuation()
}

// FormClusters joins the codepoints of every grapheme into one cluster. With
// cluster levels other than monotone graphemes the clusters are kept, but
// breaking inside a grapheme is marked as unsafe.
func FormClusters(buf *buffer.Buffer) {
	if buf.ScratchFlags()&buffer.ScratchFlagHasNonASCII == 0 {
		return
	}
	for start := 0; start < buf.Len(); {
		end := buf.GroupEnd(start, isContinuation)
		if buf.ClusterLevel == buffer.ClusterLevelMonotoneGraphemes {
			buf.MergeClusters(start, end)
		} else {
			buf.UnsafeToBreak(start, end)
		}
		start = end
	}
}

func isLetter(gc buffer.GeneralCategory) bool {
	switch gc {
	case buffer.LowercaseLetter, buffer.ModifierLetter, buffer.OtherLetter,
		buffer.TitlecaseLetter, buffer.UppercaseLetter:
		return true
	}
	return false
}

// EnsureNativeDirection switches buf to the native direction of its script,
// reversing graphemes if the requested direction differs. A run of numbers
// without letters in a right-to-left script is taken as natively
// left-to-right. Vertical text is natively top-to-bottom.
func EnsureNativeDirection(buf *buffer.Buffer) {
	dir := buf.Direction()
	hor := buffer.HorizontalDirection(buf.Script())
	if hor == buffer.DirectionRTL && dir == buffer.DirectionLTR {
		foundNumber, foundLetter := false, false
		for i := range buf.Info() {
			gc := buf.Info()[i].GeneralCategory()
			if gc == buffer.DecimalNumber {
				foundNumber = true
			} else if isLetter(gc) {
				foundLetter = true
				break
			}
		}
		if foundNumber && !foundLetter {
			hor = buffer.DirectionLTR
		}
	}
	if (dir.IsHorizontal() && dir != hor && hor != buffer.DirectionInvalid) ||
		(dir.IsVertical() && dir != buffer.DirectionTTB) {
		tracer().Debugf("reversing %s text to native direction", dir)
		buf.ReverseGraphemes()
		buf.SetDirection(dir.Reverse())
	}
}

// MapNominalGlyphs replaces every codepoint by its nominal glyph. Codepoints
// the font does not cover are mapped to buf.NotFound. Unicode properties stay
// available for later stages.
func MapNominalGlyphs(buf *buffer.Buffer, font GlyphMapper) {
	info := buf.Info()
	for i := range info {
		gid, ok := font.NominalGlyph(rune(info[i].Codepoint))
		if !ok {
			gid = buf.NotFound
		}
		info[i].Codepoint = gid
	}
	buf.SetContentType(buffer.ContentTypeGlyphs)
}

// SetGlyphClasses assigns glyph classes from the GlyphClassDef of the font's
// GDEF table. Fonts without glyph class definitions get classes synthesized
// from Unicode categories.
func SetGlyphClasses(buf *buffer.Buffer, tables TableSource) {
	cdef := glyphClassDef(tables)
	if cdef == nil {
		SynthesizeGlyphClasses(buf)
		return
	}
	info := buf.Info()
	for i := range info {
		var props buffer.GlyphProps
		switch cdef.Class(info[i].Codepoint) {
		case fontload.ClassBase:
			props = buffer.GlyphPropsBaseGlyph
		case fontload.ClassLigature:
			props = buffer.GlyphPropsLigature
		case fontload.ClassMark:
			props = buffer.GlyphPropsMark
		}
		info[i].SetGlyphProps(props)
	}
}

func glyphClassDef(tables TableSource) *fontload.ClassDef {
	if tables == nil {
		return nil
	}
	gdef, err := tables.TableData("GDEF")
	if err != nil {
		return nil
	}
	cdef, err := fontload.ParseGlyphClassDef(gdef)
	if err != nil {
		tracer().Errorf("ignoring GDEF glyph classes: %v", err)
		return nil
	}
	return cdef
}

// SynthesizeGlyphClasses assigns glyph classes from Unicode categories:
// non-spacing marks become marks, everything else is a base glyph. Default
// ignorables are never classed as marks.
func SynthesizeGlyphClasses(buf *buffer.Buffer) {
	info := buf.Info()
	for i := range info {
		class := buffer.GlyphPropsBaseGlyph
		if info[i].GeneralCategory() == buffer.NonSpacingMark && !info[i].IsDefaultIgnorable() {
			class = buffer.GlyphPropsMark
		}
		info[i].SetGlyphProps(class)
	}
}

// SetNominalAdvances starts positioning: positions are cleared and every
// glyph gets the font's advance along the buffer's direction.
func SetNominalAdvances(buf *buffer.Buffer, font AdvanceSource) {
	buf.ClearPositions()
	info, pos := buf.Info(), buf.Pos()
	if buf.Direction().IsHorizontal() {
		for i := range info {
			pos[i].XAdvance = font.HorizontalAdvance(info[i].Codepoint)
		}
		return
	}
	for i := range info {
		pos[i].YAdvance = font.VerticalAdvance(info[i].Codepoint)
	}
}

// ZeroMarkWidths sets the advance of all mark glyphs to zero. If
// adjustOffsets is set, marks are shifted back by their former advance,
// hanging over the preceding glyph.
func ZeroMarkWidths(buf *buffer.Buffer, adjustOffsets bool) {
	if !buf.HavePositions() {
		return
	}
	info, pos := buf.Info(), buf.Pos()
	for i := range info {
		if !info[i].IsMark() {
			continue
		}
		if adjustOffsets {
			pos[i].XOffset -= pos[i].XAdvance
			pos[i].YOffset -= pos[i].YAdvance
		}
		pos[i].XAdvance = 0
		pos[i].YAdvance = 0
	}
}

func ignorablesHandled(buf *buffer.Buffer) bool {
	return buf.ScratchFlags()&buffer.ScratchFlagHasDefaultIgnorables == 0 ||
		buf.Flags&buffer.FlagPreserveDefaultIgnorables != 0
}

// ZeroWidthDefaultIgnorables clears advances and offsets of default
// ignorables which are going to be hidden.
func ZeroWidthDefaultIgnorables(buf *buffer.Buffer) {
	if ignorablesHandled(buf) || buf.Flags&buffer.FlagRemoveDefaultIgnorables != 0 ||
		!buf.HavePositions() {
		return
	}
	info, pos := buf.Info(), buf.Pos()
	for i := range info {
		if info[i].IsDefaultIgnorable() {
			pos[i] = buffer.GlyphPosition{Var: pos[i].Var}
		}
	}
}

// ReverseIfBackward puts glyphs of backward text into visual order.
func ReverseIfBackward(buf *buffer.Buffer) {
	if buf.Direction().IsBackward() {
		buf.Reverse()
	}
}

// HideDefaultIgnorables replaces default ignorables by an invisible glyph
// (buf.Invisible, or else the font's space glyph). Without such a glyph, or
// if the buffer asks for removal, they are deleted instead.
func HideDefaultIgnorables(buf *buffer.Buffer, font GlyphMapper) {
	if ignorablesHandled(buf) {
		return
	}
	if buf.Flags&buffer.FlagRemoveDefaultIgnorables == 0 {
		invisible, ok := buf.Invisible, buf.Invisible != 0
		if !ok {
			invisible, ok = font.NominalGlyph(' ')
		}
		if ok {
			info := buf.Info()
			for i := range info {
				if info[i].IsDefaultIgnorable() {
					info[i].Codepoint = invisible
				}
			}
			return
		}
	}
	buf.DeleteGlyphsInplace(func(info *buffer.GlyphInfo) bool {
		return info.IsDefaultIgnorable()
	})
}

// PropagateFlags gives every glyph of a cluster the union of the glyph flags
// found in that cluster.
func PropagateFlags(buf *buffer.Buffer) {
	if buf.ScratchFlags()&buffer.ScratchFlagHasGlyphFlags == 0 {
		return
	}
	info := buf.Info()
	for start := 0; start < len(info); {
		end := buf.NextCluster(start)
		var mask buffer.Mask
		for i := start; i < end; i++ {
			mask |= info[i].GlyphFlags()
		}
		if mask != 0 {
			for i := start; i < end; i++ {
				info[i].Mask |= mask
			}
		}
		start = end
	}
}
