// Package fontload loads scalable fonts and answers the few font questions
// nominal shaping needs: glyph mapping, advances and raw table access.
package fontload

import (
	"errors"
	"fmt"
	"os"
	"slices"
	"sync"

	"github.com/npillmayer/schuko/tracing"
	"golang.org/x/image/font"
	"golang.org/x/image/font/sfnt"
	"golang.org/x/image/math/fixed"
)

func tracer() tracing.Trace {
	return tracing.Select("glyphbuf.font")
}

// ErrNoSuchTable is returned for table tags missing from a font.
var ErrNoSuchTable = errors.New("font has no such table")

// ScalableFont is a parsed scalable font with original bytes and SFNT view.
// Its methods are safe for concurrent use.
type ScalableFont struct {
	Fontname string
	Binary   []byte
	SFNT     *sfnt.Font

	tables map[string]tableRecord
	mu     sync.Mutex
	buf    sfnt.Buffer // guarded by mu
}

// LoadOpenTypeFont loads an OpenType font (TTF or OTF) from a file.
func LoadOpenTypeFont(fontfile string) (*ScalableFont, error) {
	bytez, err := os.ReadFile(fontfile)
	if err != nil {
		return nil, err
	}
	f, err := ParseOpenTypeFont(bytez)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", fontfile, err)
	}
	return f, nil
}

// ParseOpenTypeFont loads an OpenType font (TTF or OTF) from memory.
// fbytes must not change while the font is in use.
func ParseOpenTypeFont(fbytes []byte) (f *ScalableFont, err error) {
	f = &ScalableFont{Binary: fbytes}
	if f.tables, err = readTableDirectory(fbytes); err != nil {
		return nil, err
	}
	f.SFNT, err = sfnt.Parse(f.Binary)
	if err != nil {
		return nil, err
	}
	if f.Fontname, err = f.SFNT.Name(&f.buf, sfnt.NameIDFull); err != nil {
		tracer().Infof("font has no full name: %v", err)
	}
	tracer().Debugf("loaded and parsed SFNT %q, %d tables", f.Fontname, len(f.tables))
	return f, nil
}

// Name returns a name table entry, or "" if the font has none.
func (f *ScalableFont) Name(id sfnt.NameID) string {
	f.mu.Lock()
	defer f.mu.Unlock()
	name, err := f.SFNT.Name(&f.buf, id)
	if err != nil {
		return ""
	}
	return name
}

// UnitsPerEm returns the design units of the font's em square.
func (f *ScalableFont) UnitsPerEm() int {
	return int(f.SFNT.UnitsPerEm())
}

// NumGlyphs returns the number of glyphs in the font.
func (f *ScalableFont) NumGlyphs() int {
	return f.SFNT.NumGlyphs()
}

// NominalGlyph maps r through the font's cmap. Glyph 0 (.notdef) counts as
// not found.
func (f *ScalableFont) NominalGlyph(r rune) (uint32, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	gid, err := f.SFNT.GlyphIndex(&f.buf, r)
	if err != nil || gid == 0 {
		return 0, false
	}
	return uint32(gid), true
}

// HorizontalAdvance returns the advance width of a glyph in font units.
// Unknown glyphs have zero advance.
func (f *ScalableFont) HorizontalAdvance(gid uint32) int32 {
	if gid >= uint32(f.SFNT.NumGlyphs()) {
		return 0
	}
	ppem := fixed.Int26_6(f.SFNT.UnitsPerEm()) << 6 // scale 1:1 to font units
	f.mu.Lock()
	defer f.mu.Unlock()
	adv, err := f.SFNT.GlyphAdvance(&f.buf, sfnt.GlyphIndex(gid), ppem, font.HintingNone)
	if err != nil {
		tracer().Debugf("no advance for glyph %d: %v", gid, err)
		return 0
	}
	return int32(adv.Round())
}

// VerticalAdvance returns the vertical advance of a glyph in font units.
// Vertical metrics are not read; every glyph advances by one em downwards.
func (f *ScalableFont) VerticalAdvance(gid uint32) int32 {
	return -int32(f.SFNT.UnitsPerEm())
}

// TableData returns the bytes of the table with the given tag. The returned
// slice aliases the font's binary.
func (f *ScalableFont) TableData(tag string) ([]byte, error) {
	rec, ok := f.tables[tag]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrNoSuchTable, tag)
	}
	return f.Binary[rec.offset : rec.offset+rec.length], nil
}

// Tags returns the tags of all tables, sorted.
func (f *ScalableFont) Tags() []string {
	tags := make([]string, 0, len(f.tables))
	for tag := range f.tables {
		tags = append(tags, tag)
	}
	slices.Sort(tags)
	return tags
}
