package buffer

import (
	"fmt"

	"github.com/go-text/typesetting/di"
	"github.com/go-text/typesetting/language"
	"golang.org/x/text/unicode/bidi"
)

// Direction is the text flow direction of a run.
type Direction uint8

// Directions. The numbering keeps horizontal directions below vertical ones and
// forward directions even, which the predicates below rely on.
const (
	DirectionInvalid Direction = 0
	DirectionLTR     Direction = 4
	DirectionRTL     Direction = 5
	DirectionTTB     Direction = 6
	DirectionBTT     Direction = 7
)

func (d Direction) IsValid() bool      { return d&^3 == 4 }
func (d Direction) IsHorizontal() bool { return d&^1 == 4 }
func (d Direction) IsVertical() bool   { return d&^1 == 6 }
func (d Direction) IsForward() bool    { return d&^2 == 4 }
func (d Direction) IsBackward() bool   { return d&^2 == 5 }

// Reverse returns the opposite direction on the same axis.
func (d Direction) Reverse() Direction {
	if !d.IsValid() {
		return d
	}
	return d ^ 1
}

func (d Direction) String() string {
	switch d {
	case DirectionLTR:
		return "ltr"
	case DirectionRTL:
		return "rtl"
	case DirectionTTB:
		return "ttb"
	case DirectionBTT:
		return "btt"
	}
	return "invalid"
}

// ParseDirection accepts the names produced by Direction.String, ignoring
// everything after the first letter, as 'l', "ltr" or "left-to-right".
func ParseDirection(s string) (Direction, error) {
	if s != "" {
		switch s[0] | 0x20 {
		case 'l':
			return DirectionLTR, nil
		case 'r':
			return DirectionRTL, nil
		case 't':
			return DirectionTTB, nil
		case 'b':
			return DirectionBTT, nil
		}
	}
	return DirectionInvalid, fmt.Errorf("%w: %q", ErrUnknownDirection, s)
}

// ToDI converts d to the direction type of go-text segmenters.
// DirectionInvalid maps to left-to-right.
func (d Direction) ToDI() di.Direction {
	switch d {
	case DirectionRTL:
		return di.DirectionRTL
	case DirectionTTB:
		return di.DirectionTTB
	case DirectionBTT:
		return di.DirectionBTT
	}
	return di.DirectionLTR
}

// DirectionFromDI converts a go-text direction.
func DirectionFromDI(d di.Direction) Direction {
	backward := d.Progression() == di.TowardTopLeft
	if d.IsVertical() {
		if backward {
			return DirectionBTT
		}
		return DirectionTTB
	}
	if backward {
		return DirectionRTL
	}
	return DirectionLTR
}

// DirectionFromBidi converts a bidi paragraph or run direction. Mixed and
// neutral map to DirectionInvalid, leaving the choice to GuessSegmentProperties.
func DirectionFromBidi(d bidi.Direction) Direction {
	switch d {
	case bidi.LeftToRight:
		return DirectionLTR
	case bidi.RightToLeft:
		return DirectionRTL
	}
	return DirectionInvalid
}

// Script is an ISO 15924 script, as defined by go-text.
type Script = language.Script

// ScriptInvalid is the zero script, meaning "not set".
const ScriptInvalid = Script(0)

// Language is a BCP 47 language, as defined by go-text.
type Language = language.Language

// ParseScript parses a 4-letter ISO 15924 code as "Latn" or "arab".
// Whether the script is known to Unicode is not checked.
func ParseScript(tag string) (Script, error) {
	if len(tag) != 4 {
		return ScriptInvalid, fmt.Errorf("%w: %q", ErrUnknownScript, tag)
	}
	for i := range 4 {
		if c := tag[i] | 0x20; c < 'a' || c > 'z' {
			return ScriptInvalid, fmt.Errorf("%w: %q", ErrUnknownScript, tag)
		}
	}
	script, err := language.ParseScript(tag)
	if err != nil {
		return ScriptInvalid, fmt.Errorf("%w: %v", ErrUnknownScript, err)
	}
	return script, nil
}

// HorizontalDirection returns the native horizontal direction of a script.
// It returns DirectionInvalid for ScriptInvalid and for the few historic
// scripts written in either direction.
func HorizontalDirection(script Script) Direction {
	switch script {
	case ScriptInvalid:
		return DirectionInvalid
	case language.Arabic, language.Hebrew, language.Syriac, language.Thaana,
		language.Cypriot, language.Kharoshthi, language.Phoenician, language.Nko,
		language.Lydian, language.Avestan, language.Imperial_Aramaic,
		language.Inscriptional_Pahlavi, language.Inscriptional_Parthian,
		language.Old_South_Arabian, language.Old_Turkic, language.Samaritan,
		language.Mandaic, language.Meroitic_Cursive, language.Meroitic_Hieroglyphs,
		language.Manichaean, language.Mende_Kikakui, language.Nabataean,
		language.Old_North_Arabian, language.Palmyrene, language.Psalter_Pahlavi,
		language.Hatran, language.Adlam, language.Hanifi_Rohingya,
		language.Old_Sogdian, language.Sogdian, language.Elymaic,
		language.Chorasmian, language.Yezidi, language.Old_Uyghur:
		return DirectionRTL
	case language.Old_Hungarian, language.Old_Italic, language.Runic, language.Tifinagh:
		return DirectionInvalid
	}
	return DirectionLTR
}

// SegmentProperties describe a run of text: direction, script and language.
// A run must not change them while it is being shaped.
type SegmentProperties struct {
	Direction Direction
	Script    Script
	Language  Language
}

func (p SegmentProperties) String() string {
	return fmt.Sprintf("%s/%s/%s", p.Direction, p.Script, p.Language)
}

// Flags control buffer behaviour at text boundaries and for default ignorables.
type Flags uint32

const (
	FlagDefault Flags = 0
	// FlagBeginningOfText: the buffer starts the paragraph; enables dotted
	// circle insertion for a leading mark.
	FlagBeginningOfText Flags = 1 << 1
	// FlagEndOfText: the buffer ends the paragraph.
	FlagEndOfText Flags = 1 << 2
	// FlagPreserveDefaultIgnorables keeps default ignorables visible.
	FlagPreserveDefaultIgnorables Flags = 1 << 3
	// FlagRemoveDefaultIgnorables removes default ignorables instead of
	// replacing them with an invisible glyph.
	FlagRemoveDefaultIgnorables Flags = 1 << 4
	// FlagDoNotInsertDottedCircle suppresses dotted circle insertion.
	FlagDoNotInsertDottedCircle Flags = 1 << 5
	// FlagProduceUnsafeToConcat enables UnsafeToConcat marking. Without it,
	// GlyphFlagUnsafeToConcat is only set together with unsafe-to-break.
	FlagProduceUnsafeToConcat Flags = 1 << 6
)

// ClusterLevel selects how cluster ids are merged.
type ClusterLevel uint8

const (
	// ClusterLevelMonotoneGraphemes merges clusters of a grapheme and keeps
	// cluster ids monotone. This is the default.
	ClusterLevelMonotoneGraphemes ClusterLevel = iota
	// ClusterLevelMonotoneCharacters merges on character level and keeps
	// cluster ids monotone.
	ClusterLevelMonotoneCharacters
	// ClusterLevelCharacters never merges: merge requests only mark the
	// affected slots unsafe to break.
	ClusterLevelCharacters
)

// IsMonotone reports whether cluster ids stay monotone in text direction.
func (l ClusterLevel) IsMonotone() bool {
	return l == ClusterLevelMonotoneGraphemes || l == ClusterLevelMonotoneCharacters
}

func (l ClusterLevel) String() string {
	switch l {
	case ClusterLevelMonotoneGraphemes:
		return "monotone-graphemes"
	case ClusterLevelMonotoneCharacters:
		return "monotone-characters"
	case ClusterLevelCharacters:
		return "characters"
	}
	return fmt.Sprintf("cluster-level(%d)", uint8(l))
}

// ContentType tells what GlyphInfo.Codepoint holds.
type ContentType uint8

const (
	ContentTypeInvalid ContentType = iota // empty buffer
	ContentTypeUnicode                    // codepoints, before shaping
	ContentTypeGlyphs                     // glyph indices, after shaping
)

func (c ContentType) String() string {
	switch c {
	case ContentTypeUnicode:
		return "unicode"
	case ContentTypeGlyphs:
		return "glyphs"
	}
	return "invalid"
}

// ScratchFlags are summary bits shaping stages use to skip work.
type ScratchFlags uint32

const (
	ScratchFlagDefault              ScratchFlags = 0x00000000
	ScratchFlagHasNonASCII          ScratchFlags = 0x00000001
	ScratchFlagHasDefaultIgnorables ScratchFlags = 0x00000002
	ScratchFlagHasSpaceFallback     ScratchFlags = 0x00000004
	ScratchFlagHasGPOSAttachment    ScratchFlags = 0x00000008
	ScratchFlagHasCGJ               ScratchFlags = 0x00000010
	ScratchFlagHasGlyphFlags        ScratchFlags = 0x00000020
	ScratchFlagHasUnsafeToBreak     ScratchFlags = 0x00000040

	// Reserved for script-specific shapers.
	ScratchFlagComplex0 ScratchFlags = 0x01000000
	ScratchFlagComplex1 ScratchFlags = 0x02000000
	ScratchFlagComplex2 ScratchFlags = 0x04000000
	ScratchFlagComplex3 ScratchFlags = 0x08000000
)

// OutputState is the phase of the cursor and output protocol.
type OutputState uint8

const (
	// NoOutput: stages read and modify info in place.
	NoOutput OutputState = iota
	// OutputInPlace: output overwrites consumed input slots.
	OutputInPlace
	// OutputSeparate: output goes to the buffer's scratch array.
	OutputSeparate
)

func (s OutputState) String() string {
	switch s {
	case OutputInPlace:
		return "output-in-place"
	case OutputSeparate:
		return "output-separate"
	}
	return "no-output"
}
