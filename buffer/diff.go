package buffer

// DiffFlags describe how two buffers differ, see Diff.
type DiffFlags uint16

const (
	DiffEqual DiffFlags = 0

	// DiffContentTypeMismatch and DiffLengthMismatch make a slot-by-slot
	// comparison impossible.
	DiffContentTypeMismatch DiffFlags = 1 << iota
	DiffLengthMismatch

	// Informational: the reference contains .notdef or the dotted circle.
	DiffNotdefPresent
	DiffDottedCirclePresent

	DiffCodepointMismatch
	DiffClusterMismatch
	DiffGlyphFlagsMismatch
	DiffPositionMismatch
)

// NoDottedCircle disables dotted-circle and .notdef reporting in Diff.
const NoDottedCircle = ^uint32(0)

// Diff compares buf against ref. Positions are compared if both have live
// positions, tolerating a difference of positionFuzz units. If dottedCircle
// is not NoDottedCircle, the presence of that glyph (and of glyph 0) in ref
// is reported.
func Diff(buf, ref *Buffer, dottedCircle uint32, positionFuzz int32) DiffFlags {
	result := DiffEqual
	reportSpecials := dottedCircle != NoDottedCircle
	if buf.contentType != ref.contentType {
		result |= DiffContentTypeMismatch
	}
	refInfo := ref.Info()
	special := func(g *GlyphInfo) {
		if !reportSpecials || ref.contentType != ContentTypeGlyphs {
			return
		}
		if g.Codepoint == dottedCircle {
			result |= DiffDottedCirclePresent
		}
		if g.Codepoint == 0 {
			result |= DiffNotdefPresent
		}
	}
	if buf.length != ref.length {
		for i := range refInfo {
			special(&refInfo[i])
		}
		return result | DiffLengthMismatch
	}
	bufInfo := buf.Info()
	for i := range refInfo {
		if bufInfo[i].Codepoint != refInfo[i].Codepoint {
			result |= DiffCodepointMismatch
		}
		if bufInfo[i].Cluster != refInfo[i].Cluster {
			result |= DiffClusterMismatch
		}
		if (bufInfo[i].Mask^refInfo[i].Mask)&GlyphFlagDefined != 0 {
			result |= DiffGlyphFlagsMismatch
		}
		special(&refInfo[i])
	}
	if buf.contentType == ContentTypeGlyphs && buf.havePositions && ref.havePositions {
		isDifferent := func(a, b int32) bool {
			d := a - b
			if d < 0 {
				d = -d
			}
			return d > positionFuzz
		}
		bufPos, refPos := buf.Pos(), ref.Pos()
		for i := range refPos {
			if isDifferent(bufPos[i].XAdvance, refPos[i].XAdvance) ||
				isDifferent(bufPos[i].YAdvance, refPos[i].YAdvance) ||
				isDifferent(bufPos[i].XOffset, refPos[i].XOffset) ||
				isDifferent(bufPos[i].YOffset, refPos[i].YOffset) {
				result |= DiffPositionMismatch
				break
			}
		}
	}
	return result
}
