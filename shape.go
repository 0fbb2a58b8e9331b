package glyphbuf

import (
	"errors"

	"github.com/npillmayer/glyphbuf/buffer"
	"github.com/npillmayer/glyphbuf/stage"
)

// ErrNoFont is returned when shaping is requested without a font.
var ErrNoFont = errors.New("glyphbuf: no font")

// ShapeNominal shapes text as one run, mapping characters to their nominal
// glyphs and positioning them with the font's advances. Segment properties
// left unset in props are guessed from the text.
//
// The result is frozen and may be shared between goroutines. If the
// operations budget is exhausted, the partly shaped result is returned
// together with stage.ErrNotFullyShaped.
func ShapeNominal(font *ScalableFont, text string, props buffer.SegmentProperties) (*buffer.Frozen, error) {
	if font == nil {
		return nil, ErrNoFont
	}
	buf := buffer.New()
	buf.Flags = buffer.FlagBeginningOfText | buffer.FlagEndOfText
	buf.SetSegmentProperties(props)
	buf.AddString(text)
	buf.GuessSegmentProperties()
	tracer().Debugf("shaping %d codepoints, %s", buf.Len(), buf.SegmentProperties())
	err := stage.Nominal(font).Run(buf)
	if err != nil && !errors.Is(err, stage.ErrNotFullyShaped) {
		return nil, err
	}
	frozen, ferr := buf.Freeze()
	if ferr != nil {
		return nil, ferr
	}
	return frozen, err
}

type glyphCollector struct {
	glyphs []stage.GlyphRecord
}

// WriteGlyph appends one shaped glyph record to the collector.
func (c *glyphCollector) WriteGlyph(g stage.GlyphRecord) error {
	c.glyphs = append(c.glyphs, g)
	return nil
}

// ShapeText shapes UTF-8 text as one run, guessing direction, script and
// language, and returns glyph records in output order. If `text` is empty, it
// does nothing.
//
// This is a convenience API for short pieces of text. Clients who need more
// control, such as shaping multiple runs or running their own stages, use
// packages `buffer` and `stage` directly.
func ShapeText(font *ScalableFont, text string) ([]stage.GlyphRecord, error) {
	if text == "" {
		return nil, nil
	}
	frozen, err := ShapeNominal(font, text, buffer.SegmentProperties{})
	if frozen == nil {
		return nil, err
	}
	sink := &glyphCollector{
		glyphs: make([]stage.GlyphRecord, 0, frozen.Len()),
	}
	if werr := stage.WriteGlyphs(frozen, sink); werr != nil {
		return nil, werr
	}
	return sink.glyphs, err
}
