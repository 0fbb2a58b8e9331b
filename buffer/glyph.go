package buffer

import (
	"fmt"
	"unsafe"
)

// GlyphInfo is the per-slot record of a buffer. Before shaping, Codepoint holds
// a Unicode codepoint, afterwards a glyph index. Cluster ties the slot back to
// an offset in the original text.
//
// Var1 and Var2 are scratch words owned by the shaping stages. Their layout is
// exposed through typed accessors.
type GlyphInfo struct {
	Codepoint uint32
	Mask      Mask
	Cluster   uint32
	Var1      uint32 // glyph props (16 bit), lig props (8 bit), syllable (8 bit)
	Var2      uint32 // unicode props (16 bit), complex category (8 bit), complex aux (8 bit)
}

// GlyphPosition is the positioning record parallel to a GlyphInfo.
// Var is scratch space for attachment bookkeeping.
type GlyphPosition struct {
	XAdvance int32
	YAdvance int32
	XOffset  int32
	YOffset  int32
	Var      uint32 // attach chain (16 bit), attach type (8 bit)
}

// Both arrays are grown, swapped and copied in lockstep.
func init() {
	if unsafe.Sizeof(GlyphInfo{}) != unsafe.Sizeof(GlyphPosition{}) {
		panic(fmt.Sprintf("glyph buffer: record size mismatch, info=%d, pos=%d",
			unsafe.Sizeof(GlyphInfo{}), unsafe.Sizeof(GlyphPosition{})))
	}
}

// Mask is a 32-bit field of a glyph info. The low bits hold glyph flags, the
// others are feature masks allocated by the shaping plan.
type Mask = uint32

// Glyph flags, stored in the low bits of GlyphInfo.Mask.
const (
	// GlyphFlagUnsafeToBreak: breaking the text before this glyph and shaping
	// both sides separately would give a different result.
	GlyphFlagUnsafeToBreak Mask = 0x00000001
	// GlyphFlagUnsafeToConcat: concatenating two separately shaped pieces
	// at this glyph would give a different result than shaping them together.
	GlyphFlagUnsafeToConcat Mask = 0x00000002
	// GlyphFlagDefined is the union of all glyph flags.
	GlyphFlagDefined Mask = 0x00000003
)

// GlyphFlags returns the glyph flags of g.
func (g *GlyphInfo) GlyphFlags() Mask {
	return g.Mask & GlyphFlagDefined
}

// UnsafeToBreak reports whether a line break before g is unsafe.
func (g *GlyphInfo) UnsafeToBreak() bool {
	return g.Mask&GlyphFlagUnsafeToBreak != 0
}

// UnsafeToConcat reports whether concatenation at g is unsafe.
func (g *GlyphInfo) UnsafeToConcat() bool {
	return g.Mask&GlyphFlagUnsafeToConcat != 0
}

func (g *GlyphInfo) String() string {
	return fmt.Sprintf("[%#04x c=%d m=%#x]", g.Codepoint, g.Cluster, g.Mask)
}

// --- Unicode properties (Var2, low half) ------------------------------------

// Bits of the unicode props half-word. Bits 8..15 are shared: for marks they
// hold the modified combining class, otherwise the CF flags.
const (
	upropsGeneralCategory uint16 = 0x1F
	upropsIgnorable       uint16 = 0x20
	upropsHidden          uint16 = 0x40
	upropsContinuation    uint16 = 0x80
	upropsCfZWJ           uint16 = 0x100
	upropsCfZWNJ          uint16 = 0x200
)

func (g *GlyphInfo) unicodeProps() uint16 {
	return uint16(g.Var2)
}

func (g *GlyphInfo) setUnicodeProps(p uint16) {
	g.Var2 = g.Var2&^0xFFFF | uint32(p)
}

// GeneralCategory returns the Unicode general category stored in g.
func (g *GlyphInfo) GeneralCategory() GeneralCategory {
	return GeneralCategory(g.unicodeProps() & upropsGeneralCategory)
}

// SetGeneralCategory stores a general category in g.
func (g *GlyphInfo) SetGeneralCategory(gc GeneralCategory) {
	g.setUnicodeProps(g.unicodeProps()&^upropsGeneralCategory | uint16(gc)&upropsGeneralCategory)
}

// IsUnicodeMark reports whether g's general category is one of the mark categories.
func (g *GlyphInfo) IsUnicodeMark() bool {
	return g.GeneralCategory().IsMark()
}

// IsUnicodeSpace reports whether g is a space separator.
func (g *GlyphInfo) IsUnicodeSpace() bool {
	return g.GeneralCategory() == SpaceSeparator
}

// ModifiedCombiningClass returns the combining class of a mark, 0 for non-marks.
func (g *GlyphInfo) ModifiedCombiningClass() uint8 {
	if !g.IsUnicodeMark() {
		return 0
	}
	return uint8(g.unicodeProps() >> 8)
}

// SetModifiedCombiningClass stores a combining class. It is a no-op for non-marks.
func (g *GlyphInfo) SetModifiedCombiningClass(ccc uint8) {
	if !g.IsUnicodeMark() {
		return
	}
	g.setUnicodeProps(uint16(ccc)<<8 | g.unicodeProps()&0xFF)
}

// IsDefaultIgnorable reports whether g is a default ignorable codepoint which
// has not been touched by substitution yet.
func (g *GlyphInfo) IsDefaultIgnorable() bool {
	return g.unicodeProps()&upropsIgnorable != 0 && !g.IsSubstituted()
}

// IsHidden reports whether g is a default ignorable that has to stay hidden
// even if the font provides a glyph for it.
func (g *GlyphInfo) IsHidden() bool {
	return g.unicodeProps()&upropsHidden != 0
}

// IsContinuation reports whether g continues the grapheme of its predecessor.
func (g *GlyphInfo) IsContinuation() bool {
	return g.unicodeProps()&upropsContinuation != 0
}

// SetContinuation marks g as a grapheme continuation.
func (g *GlyphInfo) SetContinuation() {
	g.setUnicodeProps(g.unicodeProps() | upropsContinuation)
}

// ResetContinuation clears the grapheme continuation bit.
func (g *GlyphInfo) ResetContinuation() {
	g.setUnicodeProps(g.unicodeProps() &^ upropsContinuation)
}

// IsZWJ reports whether g is a ZERO WIDTH JOINER (as a format character).
func (g *GlyphInfo) IsZWJ() bool {
	return g.GeneralCategory() == Format && g.unicodeProps()&upropsCfZWJ != 0
}

// IsZWNJ reports whether g is a ZERO WIDTH NON-JOINER (as a format character).
func (g *GlyphInfo) IsZWNJ() bool {
	return g.GeneralCategory() == Format && g.unicodeProps()&upropsCfZWNJ != 0
}

// --- Glyph and ligature properties (Var1) -----------------------------------

// GlyphProps are the glyph class and substitution history bits in Var1.
type GlyphProps uint16

const (
	GlyphPropsBaseGlyph   GlyphProps = 0x02
	GlyphPropsLigature    GlyphProps = 0x04
	GlyphPropsMark        GlyphProps = 0x08
	GlyphPropsSubstituted GlyphProps = 0x10
	GlyphPropsLigated     GlyphProps = 0x20
	GlyphPropsMultiplied  GlyphProps = 0x40
	GlyphPropsPreserve    GlyphProps = GlyphPropsSubstituted | GlyphPropsLigated | GlyphPropsMultiplied
)

// GlyphProps returns the glyph props of g.
func (g *GlyphInfo) GlyphProps() GlyphProps {
	return GlyphProps(g.Var1)
}

// SetGlyphProps replaces the glyph props of g.
func (g *GlyphInfo) SetGlyphProps(p GlyphProps) {
	g.Var1 = g.Var1&^0xFFFF | uint32(p)
}

func (g *GlyphInfo) IsBaseGlyph() bool   { return g.GlyphProps()&GlyphPropsBaseGlyph != 0 }
func (g *GlyphInfo) IsLigature() bool    { return g.GlyphProps()&GlyphPropsLigature != 0 }
func (g *GlyphInfo) IsMark() bool        { return g.GlyphProps()&GlyphPropsMark != 0 }
func (g *GlyphInfo) IsSubstituted() bool { return g.GlyphProps()&GlyphPropsSubstituted != 0 }
func (g *GlyphInfo) IsLigated() bool     { return g.GlyphProps()&GlyphPropsLigated != 0 }
func (g *GlyphInfo) IsMultiplied() bool  { return g.GlyphProps()&GlyphPropsMultiplied != 0 }

// IsLigatedAndDidntMultiply reports whether g is the result of a ligature
// substitution only.
func (g *GlyphInfo) IsLigatedAndDidntMultiply() bool {
	return g.IsLigated() && !g.IsMultiplied()
}

// ClearLigatedAndMultiplied resets the substitution history bits.
func (g *GlyphInfo) ClearLigatedAndMultiplied() {
	g.SetGlyphProps(g.GlyphProps() &^ (GlyphPropsLigated | GlyphPropsMultiplied))
}

// Ligature properties occupy byte 2 of Var1:
//
//	lig_id (3 bits) | is_lig_base (1 bit) | lig_comp or num_comps (4 bits)
const isLigBase = 0x10

func (g *GlyphInfo) ligProps() uint8 {
	return uint8(g.Var1 >> 16)
}

func (g *GlyphInfo) setLigProps(p uint8) {
	g.Var1 = g.Var1&^0x00FF0000 | uint32(p)<<16
}

// SetLigPropsForLigature marks g as ligature number ligID made of numComps components.
func (g *GlyphInfo) SetLigPropsForLigature(ligID, numComps uint8) {
	g.setLigProps(ligID<<5 | isLigBase | numComps&0x0F)
}

// SetLigPropsForMark marks g as a mark attached to component ligComp of ligature ligID.
func (g *GlyphInfo) SetLigPropsForMark(ligID, ligComp uint8) {
	g.setLigProps(ligID<<5 | ligComp&0x0F)
}

// SetLigPropsForComponent is SetLigPropsForMark with ligID 0.
func (g *GlyphInfo) SetLigPropsForComponent(comp uint8) {
	g.SetLigPropsForMark(0, comp)
}

// LigID returns the ligature id, 0 if g is not part of a ligature.
func (g *GlyphInfo) LigID() uint8 {
	return g.ligProps() >> 5
}

// IsLigatedInternal reports whether g is a ligature glyph with a ligature id
// (as opposed to a mark attached to one).
func (g *GlyphInfo) IsLigatedInternal() bool {
	return g.ligProps()&isLigBase != 0
}

// LigComp returns the ligature component a mark is attached to, 0 for ligatures.
func (g *GlyphInfo) LigComp() uint8 {
	if g.IsLigatedInternal() {
		return 0
	}
	return g.ligProps() & 0x0F
}

// LigNumComps returns the number of components of a ligature glyph, 1 otherwise.
func (g *GlyphInfo) LigNumComps() uint8 {
	if g.GlyphProps()&GlyphPropsLigature != 0 && g.IsLigatedInternal() {
		return g.ligProps() & 0x0F
	}
	return 1
}

// Syllable returns the syllable byte of Var1.
func (g *GlyphInfo) Syllable() uint8 {
	return uint8(g.Var1 >> 24)
}

// SetSyllable stores the syllable byte.
func (g *GlyphInfo) SetSyllable(s uint8) {
	g.Var1 = g.Var1&^0xFF000000 | uint32(s)<<24
}

// --- Complex shaper scratch bytes (Var2, high half) -------------------------

// ComplexCategory returns the category byte reserved for script-specific shapers.
func (g *GlyphInfo) ComplexCategory() uint8 {
	return uint8(g.Var2 >> 16)
}

func (g *GlyphInfo) SetComplexCategory(c uint8) {
	g.Var2 = g.Var2&^0x00FF0000 | uint32(c)<<16
}

// ComplexAux returns the auxiliary byte reserved for script-specific shapers.
func (g *GlyphInfo) ComplexAux() uint8 {
	return uint8(g.Var2 >> 24)
}

func (g *GlyphInfo) SetComplexAux(c uint8) {
	g.Var2 = g.Var2&^0xFF000000 | uint32(c)<<24
}

// --- Attachment (GlyphPosition.Var) -----------------------------------------

// AttachType is the kind of attachment recorded for a positioned glyph.
type AttachType uint8

const (
	AttachTypeNone    AttachType = 0x00
	AttachTypeMark    AttachType = 0x01
	AttachTypeCursive AttachType = 0x02
)

// AttachChain returns the relative index of the glyph p is attached to.
func (p *GlyphPosition) AttachChain() int16 {
	return int16(uint16(p.Var))
}

// SetAttachChain stores the relative index of the attachment parent.
func (p *GlyphPosition) SetAttachChain(n int16) {
	p.Var = p.Var&^0xFFFF | uint32(uint16(n))
}

// AttachType returns the attachment kind of p.
func (p *GlyphPosition) AttachType() AttachType {
	return AttachType(p.Var >> 16)
}

// SetAttachType stores the attachment kind.
func (p *GlyphPosition) SetAttachType(t AttachType) {
	p.Var = p.Var&^0x00FF0000 | uint32(t)<<16
}
