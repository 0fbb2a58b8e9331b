package stage

import (
	"fmt"

	"github.com/npillmayer/glyphbuf/buffer"
)

// GlyphMapper maps codepoints to nominal glyphs.
type GlyphMapper interface {
	// NominalGlyph returns the glyph for r and whether the font has one.
	NominalGlyph(r rune) (uint32, bool)
}

// AdvanceSource reports unscaled glyph advances.
type AdvanceSource interface {
	HorizontalAdvance(gid uint32) int32
	VerticalAdvance(gid uint32) int32
}

// TableSource gives access to raw font tables by tag, as "GDEF".
type TableSource interface {
	// TableData returns the bytes of a table. A font without the table
	// returns an error wrapping ErrNoSuchTable of its implementation.
	TableData(tag string) ([]byte, error)
}

// Font is everything the standard stages need from a font.
type Font interface {
	GlyphMapper
	AdvanceSource
	TableSource
}

// Stage is a named step of a pipeline.
type Stage struct {
	Name  string
	Apply func(buf *buffer.Buffer)
}

// Pipeline runs stages in order.
type Pipeline struct {
	stages []Stage
}

// NewPipeline creates a pipeline from stages.
func NewPipeline(stages ...Stage) *Pipeline {
	return &Pipeline{stages: stages}
}

// Add appends a stage and returns the pipeline.
func (p *Pipeline) Add(name string, apply func(buf *buffer.Buffer)) *Pipeline {
	p.stages = append(p.stages, Stage{Name: name, Apply: apply})
	return p
}

// Stages returns the names of the pipeline's stages, in order.
func (p *Pipeline) Stages() []string {
	names := make([]string, len(p.stages))
	for i, s := range p.stages {
		names[i] = s.Name
	}
	return names
}

// Run applies all stages to buf. The buffer's direction is restored to the
// requested one at the end, even if a stage switched to the script's native
// direction. Every stage is charged one operation per glyph.
func (p *Pipeline) Run(buf *buffer.Buffer) error {
	target := buf.Direction()
	buf.Enter()
	err := p.run(buf)
	if buf.OutputState() == buffer.NoOutput {
		buf.SetDirection(target)
	}
	buf.Leave()
	return err
}

func (p *Pipeline) run(buf *buffer.Buffer) error {
	for _, s := range p.stages {
		tracer().Debugf("stage %s, len=%d", s.Name, buf.Len())
		s.Apply(buf)
		if !buf.AllocationSuccessful() {
			return fmt.Errorf("stage %s: %w", s.Name, buffer.ErrAllocation)
		}
		if !buf.ConsumeOps(max(buf.Len(), 1)) {
			tracer().Infof("stage %s exhausted operations budget", s.Name)
			return fmt.Errorf("stage %s: %w", s.Name, ErrNotFullyShaped)
		}
	}
	return nil
}

// Nominal returns the standard pipeline for shaping without layout tables:
// Unicode classification, dotted circle insertion, cluster formation, nominal
// glyph mapping and positioning with font advances.
func Nominal(font Font) *Pipeline {
	return NewPipeline(
		Stage{"unicode-props", SetUnicodeProps},
		Stage{"insert-dotted-circle", func(b *buffer.Buffer) { InsertDottedCircle(b, font) }},
		Stage{"form-clusters", FormClusters},
		Stage{"ensure-native-direction", EnsureNativeDirection},
		Stage{"map-glyphs", func(b *buffer.Buffer) { MapNominalGlyphs(b, font) }},
		Stage{"glyph-classes", func(b *buffer.Buffer) { SetGlyphClasses(b, font) }},
		Stage{"position", func(b *buffer.Buffer) { SetNominalAdvances(b, font) }},
		Stage{"zero-mark-widths", func(b *buffer.Buffer) { ZeroMarkWidths(b, b.Direction().IsForward()) }},
		Stage{"zero-width-default-ignorables", ZeroWidthDefaultIgnorables},
		Stage{"reverse-backward", ReverseIfBackward},
		Stage{"hide-default-ignorables", func(b *buffer.Buffer) { HideDefaultIgnorables(b, font) }},
		Stage{"propagate-flags", PropagateFlags},
	)
}

// --- Output ----------------------------------------------------------------

// GlyphRecord is one shaped output glyph.
type GlyphRecord struct {
	GID         uint32               // shaped glyph index
	Pos         buffer.GlyphPosition // advances and offsets
	Cluster     uint32               // input cluster the glyph belongs to
	Mask        uint32               // final mask
	UnsafeFlags uint16               // break/concat safety flags
}

// GlyphSink receives shaped glyphs.
//
// WriteGlyph is called once per glyph; returning a non-nil error stops the
// transfer and returns that error to the caller.
type GlyphSink interface {
	WriteGlyph(g GlyphRecord) error
}

// WriteGlyphs transfers a shaping result to sink, in glyph order.
func WriteGlyphs(result *buffer.Frozen, sink GlyphSink) error {
	for info, pos := range result.Glyphs() {
		g := GlyphRecord{
			GID:         info.Codepoint,
			Pos:         pos,
			Cluster:     info.Cluster,
			Mask:        info.Mask,
			UnsafeFlags: uint16(info.GlyphFlags()),
		}
		if err := sink.WriteGlyph(g); err != nil {
			return err
		}
	}
	return nil
}
