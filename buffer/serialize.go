package buffer

import (
	"fmt"
	"io"
	"strings"
)

// SerializeFlags select what Serialize writes.
type SerializeFlags uint8

const (
	SerializeDefault     SerializeFlags = 0
	SerializeNoClusters  SerializeFlags = 1 << 0 // omit "=cluster"
	SerializeNoPositions SerializeFlags = 1 << 1 // omit offsets and advances
	SerializeNoAdvances  SerializeFlags = 1 << 2 // write absolute offsets instead of advances
	SerializeGlyphFlags  SerializeFlags = 1 << 3 // append "#flags" for flagged glyphs
)

// Serialize writes a text form of b's slots to w, separated by '|'.
//
// Glyph content is written as
//
//	gid=cluster@xoffset,yoffset+xadvance,yadvance#flags
//
// where zero offsets, a zero y advance and empty flags are left out.
// Positions are only written if they are live. Unicode content is written as
// U+XXXX=cluster.
func (b *Buffer) Serialize(w io.Writer, flags SerializeFlags) error {
	return serialize(w, b.info[:b.length], b.Pos(), b.contentType, flags)
}

// String returns the serialized form of b with default flags.
func (b *Buffer) String() string {
	var sb strings.Builder
	_ = b.Serialize(&sb, SerializeDefault)
	return sb.String()
}

func serialize(w io.Writer, info []GlyphInfo, pos []GlyphPosition, ct ContentType, flags SerializeFlags) error {
	var x, y int32
	for i := range info {
		var sb strings.Builder
		if i > 0 {
			sb.WriteByte('|')
		}
		if ct == ContentTypeUnicode {
			fmt.Fprintf(&sb, "U+%04X", info[i].Codepoint)
		} else {
			fmt.Fprintf(&sb, "%d", info[i].Codepoint)
		}
		if flags&SerializeNoClusters == 0 {
			fmt.Fprintf(&sb, "=%d", info[i].Cluster)
		}
		if pos != nil && flags&SerializeNoPositions == 0 {
			p := pos[i]
			if x+p.XOffset != 0 || y+p.YOffset != 0 {
				fmt.Fprintf(&sb, "@%d,%d", x+p.XOffset, y+p.YOffset)
			}
			if flags&SerializeNoAdvances == 0 {
				fmt.Fprintf(&sb, "+%d", p.XAdvance)
				if p.YAdvance != 0 {
					fmt.Fprintf(&sb, ",%d", p.YAdvance)
				}
			} else {
				x += p.XAdvance
				y += p.YAdvance
			}
		}
		if flags&SerializeGlyphFlags != 0 && info[i].Mask&GlyphFlagDefined != 0 {
			fmt.Fprintf(&sb, "#%X", info[i].Mask&GlyphFlagDefined)
		}
		if _, err := io.WriteString(w, sb.String()); err != nil {
			return fmt.Errorf("serializing glyph %d: %w", i, err)
		}
	}
	return nil
}
