package fontload

import (
	"encoding/binary"
	"fmt"
)

// Glyph classes of a GDEF GlyphClassDef.
const (
	ClassUnassigned = 0
	ClassBase       = 1 // single character, spacing glyph
	ClassLigature   = 2 // multiple character, spacing glyph
	ClassMark       = 3 // non-spacing combining glyph
	ClassComponent  = 4 // part of single character, spacing glyph
)

// ClassDef groups glyphs into classes, denoted as integer values.
// Glyphs not mentioned belong to class 0.
type ClassDef struct {
	format uint16 // format version 1 or 2
	start  uint32 // first glyph of a format 1 table
	count  int    // number of values or ranges
	recs   []byte
}

// ParseGlyphClassDef reads the GlyphClassDef of a GDEF table. A GDEF table
// without glyph classes yields nil.
func ParseGlyphClassDef(gdef []byte) (*ClassDef, error) {
	if len(gdef) < 6 {
		return nil, errFontFormat("GDEF header incomplete")
	}
	if major := binary.BigEndian.Uint16(gdef); major != 1 {
		return nil, errFontFormat(fmt.Sprintf("GDEF version %d not supported", major))
	}
	offset := int(binary.BigEndian.Uint16(gdef[4:]))
	if offset == 0 {
		return nil, nil
	}
	if offset >= len(gdef) {
		return nil, errFontFormat("GDEF GlyphClassDef offset out of bounds")
	}
	return parseClassDef(gdef[offset:])
}

// The ClassDef table can have either of two formats: one that assigns a range of
// consecutive glyph indices to different classes, or one that puts groups of consecutive
// glyph indices into the same class.
func parseClassDef(b []byte) (*ClassDef, error) {
	if len(b) < 4 {
		return nil, errFontFormat("ClassDef table too small")
	}
	cdef := &ClassDef{format: binary.BigEndian.Uint16(b)}
	switch cdef.format {
	case 1:
		if len(b) < 6 {
			return nil, errFontFormat("ClassDef format 1 header incomplete")
		}
		cdef.start = uint32(binary.BigEndian.Uint16(b[2:]))
		cdef.count = int(binary.BigEndian.Uint16(b[4:]))
		if len(b) < 6+2*cdef.count {
			return nil, errFontFormat("ClassDef format 1 array extends beyond bounds")
		}
		cdef.recs = b[6 : 6+2*cdef.count]
	case 2:
		cdef.count = int(binary.BigEndian.Uint16(b[2:]))
		if len(b) < 4+6*cdef.count {
			return nil, errFontFormat("ClassDef format 2 array extends beyond bounds")
		}
		cdef.recs = b[4 : 4+6*cdef.count]
	default:
		return nil, errFontFormat(fmt.Sprintf("unknown ClassDef format %d", cdef.format))
	}
	return cdef, nil
}

// Class returns the class defined for a glyph, or 0 (= default class).
func (cdef *ClassDef) Class(glyph uint32) int {
	if cdef == nil {
		return ClassUnassigned
	}
	if cdef.format == 1 {
		if glyph < cdef.start || glyph >= cdef.start+uint32(cdef.count) {
			return ClassUnassigned
		}
		return int(binary.BigEndian.Uint16(cdef.recs[2*(glyph-cdef.start):]))
	}
	// class range records are ordered by start glyph, end glyph is inclusive
	lo, hi := 0, cdef.count
	for lo < hi {
		m := (lo + hi) / 2
		rec := cdef.recs[6*m:]
		switch {
		case glyph < uint32(binary.BigEndian.Uint16(rec)):
			hi = m
		case glyph > uint32(binary.BigEndian.Uint16(rec[2:])):
			lo = m + 1
		default:
			return int(binary.BigEndian.Uint16(rec[4:]))
		}
	}
	return ClassUnassigned
}
