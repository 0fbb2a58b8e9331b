package main

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/npillmayer/glyphbuf/buffer"
	"github.com/npillmayer/glyphbuf/stage"
	"github.com/pterm/pterm"
)

var errNoArg = errors.New("op needs an argument")

func intArg(s string, def int) (int, error) {
	if s == "" {
		return def, nil
	}
	n, err := strconv.ParseInt(s, 0, 64)
	if err != nil {
		return 0, fmt.Errorf("not a number: %q", s)
	}
	return int(n), nil
}

func rangeArgs(op *Op, length int) (start, end int, err error) {
	if start, err = intArg(op.arg, 0); err != nil {
		return
	}
	end, err = intArg(op.format, length)
	return
}

// add:text appends text, with '_' standing for a blank.
func addOp(intp *Intp, op *Op) (error, bool) {
	text, ok := op.hasArg()
	if !ok {
		return errNoArg, false
	}
	intp.buf.AddString(strings.ReplaceAll(text, "_", " "))
	return nil, false
}

// props:direction:script sets segment properties.
func propsOp(intp *Intp, op *Op) (error, bool) {
	props := intp.buf.SegmentProperties()
	if op.arg != "" {
		dir, err := buffer.ParseDirection(op.arg)
		if err != nil {
			return err, false
		}
		props.Direction = dir
	}
	if op.format != "" {
		script, err := buffer.ParseScript(op.format)
		if err != nil {
			return err, false
		}
		props.Script = script
	}
	intp.buf.SetSegmentProperties(props)
	return nil, false
}

func guessOp(intp *Intp, op *Op) (error, bool) {
	intp.buf.GuessSegmentProperties()
	pterm.Printf("guessed %s\n", intp.buf.SegmentProperties())
	return nil, false
}

func levelOp(intp *Intp, op *Op) (error, bool) {
	switch op.arg {
	case "graphemes", "0":
		intp.buf.ClusterLevel = buffer.ClusterLevelMonotoneGraphemes
	case "monotone", "1":
		intp.buf.ClusterLevel = buffer.ClusterLevelMonotoneCharacters
	case "characters", "2":
		intp.buf.ClusterLevel = buffer.ClusterLevelCharacters
	default:
		return fmt.Errorf("unknown cluster level %q", op.arg), false
	}
	return nil, false
}

func clearOp(intp *Intp, op *Op) (error, bool) {
	intp.buf.Reset()
	return nil, false
}

func outputOp(intp *Intp, op *Op) (error, bool) {
	intp.buf.ClearOutput()
	return nil, false
}

func nextOp(intp *Intp, op *Op) (error, bool) {
	n, err := intArg(op.arg, 1)
	if err != nil {
		return err, false
	}
	intp.buf.NextGlyphs(n)
	return nil, false
}

func skipOp(intp *Intp, op *Op) (error, bool) {
	intp.buf.SkipGlyph()
	return nil, false
}

func copyOp(intp *Intp, op *Op) (error, bool) {
	intp.buf.CopyGlyph()
	return nil, false
}

// replace:n:g1,g2,... consumes n input glyphs and outputs the given glyphs.
func replaceOp(intp *Intp, op *Op) (error, bool) {
	numIn, err := intArg(op.arg, 1)
	if err != nil {
		return err, false
	}
	var glyphs []uint32
	if op.format != "" {
		for _, g := range strings.Split(op.format, ",") {
			n, err := intArg(g, 0)
			if err != nil {
				return err, false
			}
			glyphs = append(glyphs, uint32(n))
		}
	}
	intp.buf.ReplaceGlyphs(numIn, len(glyphs), glyphs)
	return nil, false
}

// emit:g outputs a glyph without consuming input.
func emitOp(intp *Intp, op *Op) (error, bool) {
	g, err := intArg(op.arg, 0)
	if err != nil {
		return err, false
	}
	intp.buf.OutputGlyph(uint32(g))
	return nil, false
}

func deleteOp(intp *Intp, op *Op) (error, bool) {
	intp.buf.DeleteGlyph()
	return nil, false
}

// merge:start:end merges input clusters, merge:start:out merges the output
// from start up to the write position.
func mergeOp(intp *Intp, op *Op) (error, bool) {
	if op.format == "out" {
		start, err := intArg(op.arg, 0)
		if err != nil {
			return err, false
		}
		intp.buf.MergeOutClusters(start, intp.buf.OutLen())
		return nil, false
	}
	start, end, err := rangeArgs(op, intp.buf.Len())
	if err != nil {
		return err, false
	}
	intp.buf.MergeClusters(start, end)
	return nil, false
}

func unsafeOp(intp *Intp, op *Op) (error, bool) {
	start, end, err := rangeArgs(op, intp.buf.Len())
	if err != nil {
		return err, false
	}
	intp.buf.UnsafeToBreak(start, end)
	return nil, false
}

func swapOp(intp *Intp, op *Op) (error, bool) {
	intp.buf.SwapBuffers()
	if !intp.buf.AllocationSuccessful() {
		return buffer.ErrAllocation, false
	}
	return nil, false
}

func moveOp(intp *Intp, op *Op) (error, bool) {
	i, err := intArg(op.arg, 0)
	if err != nil {
		return err, false
	}
	if !intp.buf.MoveTo(i) {
		return fmt.Errorf("cannot move output to %d", i), false
	}
	return nil, false
}

// reverse, reverse:clusters or reverse:graphemes.
func reverseOp(intp *Intp, op *Op) (error, bool) {
	switch op.arg {
	case "":
		intp.buf.Reverse()
	case "clusters":
		intp.buf.ReverseClusters()
	case "graphemes":
		intp.buf.ReverseGraphemes()
	default:
		return fmt.Errorf("cannot reverse %q", op.arg), false
	}
	return nil, false
}

func normalizeOp(intp *Intp, op *Op) (error, bool) {
	intp.buf.NormalizeGlyphs()
	return nil, false
}

// masks:value:mask sets mask bits on all glyphs.
func masksOp(intp *Intp, op *Op) (error, bool) {
	value, err := intArg(op.arg, 0)
	if err != nil {
		return err, false
	}
	mask, err := intArg(op.format, int(^uint32(0)))
	if err != nil {
		return err, false
	}
	intp.buf.SetMasks(buffer.Mask(value), buffer.Mask(mask), 0, ^uint32(0))
	return nil, false
}

// shape runs the nominal pipeline with the loaded font.
func shapeOp(intp *Intp, op *Op) (error, bool) {
	if intp.font == nil {
		return errors.New("no font loaded"), false
	}
	b := intp.buf
	b.Flags |= buffer.FlagBeginningOfText | buffer.FlagEndOfText
	if b.ContentType() == buffer.ContentTypeUnicode {
		b.GuessSegmentProperties()
	}
	p := stage.Nominal(intp.font)
	tracer().Infof("running stages %v", p.Stages())
	err := p.Run(b)
	if errors.Is(err, stage.ErrNotFullyShaped) {
		pterm.Warning.Println(err)
		err = nil
	}
	return err, false
}

// freeze shows the frozen buffer, as a client would receive it. The session
// continues with a thawed copy.
func freezeOp(intp *Intp, op *Op) (error, bool) {
	b := intp.buf
	frozen, err := b.Freeze()
	if err != nil {
		return err, false
	}
	session := frozen.Thaw()
	session.Flags, session.Replacement = b.Flags, b.Replacement
	session.Invisible, session.NotFound = b.Invisible, b.NotFound
	intp.buf = session
	rows := [][]string{{"#", "Glyph", "Cluster", "Flags", "Advance", "Offset"}}
	i := 0
	err = stage.WriteGlyphs(frozen, sinkFunc(func(g stage.GlyphRecord) error {
		rows = append(rows, []string{
			strconv.Itoa(i),
			strconv.Itoa(int(g.GID)),
			strconv.Itoa(int(g.Cluster)),
			formatGlyphFlags(buffer.Mask(g.UnsafeFlags)),
			fmt.Sprintf("%d,%d", g.Pos.XAdvance, g.Pos.YAdvance),
			fmt.Sprintf("%d,%d", g.Pos.XOffset, g.Pos.YOffset),
		})
		i++
		return nil
	}))
	if err != nil {
		return err, false
	}
	pterm.DefaultTable.WithHasHeader().WithData(rows).Render()
	return nil, false
}

type sinkFunc func(stage.GlyphRecord) error

func (f sinkFunc) WriteGlyph(g stage.GlyphRecord) error { return f(g) }
