package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/npillmayer/glyphbuf/buffer"
	"github.com/pterm/pterm"
)

// print shows the buffer as a table, print:out the output written so far and
// print:ser the serialized form.
func printOp(intp *Intp, op *Op) (err error, stop bool) {
	b := intp.buf
	switch op.arg {
	case "ser":
		pterm.Println(b.String())
		return nil, false
	case "out":
		if !b.HaveOutput() {
			return fmt.Errorf("no output phase active"), false
		}
		printInfos(b.OutInfo(), nil, -1, b.ContentType())
		return nil, false
	case "":
	default:
		return fmt.Errorf("cannot print %q", op.arg), false
	}
	cursor := -1
	if b.HaveOutput() {
		cursor = b.Idx()
	}
	printInfos(b.Info(), b.Pos(), cursor, b.ContentType())
	return nil, false
}

func printInfos(infos []buffer.GlyphInfo, pos []buffer.GlyphPosition, cursor int, ct buffer.ContentType) {
	if len(infos) == 0 {
		pterm.Println("<empty>")
		return
	}
	header := []string{"#", "Codepoint", "Cluster", "Mask", "Flags"}
	if pos != nil {
		header = append(header, "Advance", "Offset")
	}
	data := [][]string{header}
	for i := range infos {
		info := &infos[i]
		idx := strconv.Itoa(i)
		if i == cursor {
			idx = "▸" + idx
		}
		row := []string{
			idx,
			formatCodepoint(info.Codepoint, ct),
			strconv.Itoa(int(info.Cluster)),
			fmt.Sprintf("%08x", info.Mask),
			formatGlyphFlags(info.GlyphFlags()),
		}
		if pos != nil {
			row = append(row,
				fmt.Sprintf("%d,%d", pos[i].XAdvance, pos[i].YAdvance),
				fmt.Sprintf("%d,%d", pos[i].XOffset, pos[i].YOffset))
		}
		data = append(data, row)
	}
	pterm.DefaultTable.WithHasHeader().WithData(data).Render()
}

func formatCodepoint(cp uint32, ct buffer.ContentType) string {
	if ct == buffer.ContentTypeGlyphs {
		return fmt.Sprintf("gid %d", cp)
	}
	return fmt.Sprintf("U+%04X %q", cp, rune(cp))
}

func formatGlyphFlags(flags buffer.Mask) string {
	if flags == 0 {
		return "-"
	}
	parts := make([]string, 0, 2)
	if flags&buffer.GlyphFlagUnsafeToBreak != 0 {
		parts = append(parts, "UnsafeToBreak")
	}
	if flags&buffer.GlyphFlagUnsafeToConcat != 0 {
		parts = append(parts, "UnsafeToConcat")
	}
	return strings.Join(parts, "|")
}
