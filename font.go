/*
Package glyphbuf is a glyph buffer engine for OpenType text shaping.

The engine itself lives in package buffer: a growable sequence of glyph
records with a cursor-driven input/output protocol, cluster bookkeeping and
break-safety flags. Package stage contains shaping stages operating on such a
buffer. This package ties both to scalable fonts and offers a one-call API
for nominal shaping, i.e. shaping without applying layout features.

We will stick to the following nomenclature:

▪︎ A "codepoint" is what a client puts into a buffer. After shaping,
the same slot of a glyph record holds a glyph index.

▪︎ A "cluster" is a group of glyphs which stems from the same input
characters and must not be split.

▪︎ A "run" is a piece of text with uniform direction, script and language.

# Links

OpenType explained:
https://docs.microsoft.com/en-us/typography/opentype/

______________________________________________________________________

# License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © Norbert Pillmayer <norbert@pillmayer.com>
*/
package glyphbuf

import (
	"github.com/npillmayer/glyphbuf/internal/fontload"
	"github.com/npillmayer/glyphbuf/stage"
	"github.com/npillmayer/schuko/tracing"
	"golang.org/x/image/font/sfnt"
)

// tracer writes to trace with key 'glyphbuf'
func tracer() tracing.Trace {
	return tracing.Select("glyphbuf")
}

// ScalableFont is an outline font of type TTF or OTF, ready to be used for
// shaping. It is safe for concurrent use.
type ScalableFont struct {
	Fontname string
	Filepath string // file path, if loaded from a file
	sf       *fontload.ScalableFont
}

var _ stage.Font = (*ScalableFont)(nil)

// LoadOpenTypeFont loads an OpenType font (TTF or OTF) from a file.
func LoadOpenTypeFont(fontfile string) (*ScalableFont, error) {
	sf, err := fontload.LoadOpenTypeFont(fontfile)
	if err != nil {
		return nil, err
	}
	return &ScalableFont{Fontname: sf.Fontname, Filepath: fontfile, sf: sf}, nil
}

// ParseOpenTypeFont loads an OpenType font (TTF or OTF) from memory.
// fbytes must not change while the font is in use.
func ParseOpenTypeFont(fbytes []byte) (*ScalableFont, error) {
	sf, err := fontload.ParseOpenTypeFont(fbytes)
	if err != nil {
		return nil, err
	}
	tracer().Debugf("parsed font %q", sf.Fontname)
	return &ScalableFont{Fontname: sf.Fontname, sf: sf}, nil
}

// FamilyName extracts family and subfamily names from a font's `name` table.
//
// Returned values are empty if no matching records exist.
func (f *ScalableFont) FamilyName() (family, subfamily string) {
	return f.sf.Name(sfnt.NameIDFamily), f.sf.Name(sfnt.NameIDSubfamily)
}

// UnitsPerEm returns the size of the em square in font units.
func (f *ScalableFont) UnitsPerEm() int { return f.sf.UnitsPerEm() }

// TableTags lists the tags of the font's tables.
func (f *ScalableFont) TableTags() []string { return f.sf.Tags() }

// NominalGlyph maps a codepoint to a glyph through the font's cmap.
func (f *ScalableFont) NominalGlyph(r rune) (uint32, bool) { return f.sf.NominalGlyph(r) }

// HorizontalAdvance returns a glyph's advance width in font units.
func (f *ScalableFont) HorizontalAdvance(gid uint32) int32 { return f.sf.HorizontalAdvance(gid) }

// VerticalAdvance returns a glyph's vertical advance in font units.
func (f *ScalableFont) VerticalAdvance(gid uint32) int32 { return f.sf.VerticalAdvance(gid) }

// TableData returns the raw bytes of a font table.
func (f *ScalableFont) TableData(tag string) ([]byte, error) { return f.sf.TableData(tag) }
