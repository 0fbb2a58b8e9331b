package buffer

import "math"

// setCluster moves a slot to cluster. If the cluster actually changes, the
// glyph flags of mask are added to the slot; existing flags are never cleared.
func setCluster(info *GlyphInfo, cluster uint32, mask Mask) {
	if info.Cluster != cluster {
		info.Mask |= mask & GlyphFlagDefined
	}
	info.Cluster = cluster
}

func findMinCluster(infos []GlyphInfo, start, end int, cluster uint32) uint32 {
	for i := start; i < end; i++ {
		cluster = min(cluster, infos[i].Cluster)
	}
	return cluster
}

// MergeClusters merges input slots [start,end) into a single cluster, the
// minimum of their cluster ids. The range is extended to whole clusters on
// both sides; if it reaches back to the cursor, trailing output slots of the
// same cluster are merged as well.
//
// With ClusterLevelCharacters cluster ids are left alone and the range is
// marked unsafe to break instead.
func (b *Buffer) MergeClusters(start, end int) {
	if end-start < 2 {
		return
	}
	if b.ClusterLevel == ClusterLevelCharacters {
		b.UnsafeToBreak(start, end)
		return
	}
	cluster := findMinCluster(b.info, start, end, b.info[start].Cluster)
	for end < b.length && b.info[end-1].Cluster == b.info[end].Cluster {
		end++
	}
	for b.idx < start && b.info[start-1].Cluster == b.info[start].Cluster {
		start--
	}
	if b.idx == start && b.state != NoOutput {
		out := b.outInfo()
		startCluster := b.info[start].Cluster
		for i := b.outLen; i > 0 && out[i-1].Cluster == startCluster; i-- {
			setCluster(&out[i-1], cluster, 0)
		}
	}
	for i := start; i < end; i++ {
		setCluster(&b.info[i], cluster, 0)
	}
}

// MergeOutClusters merges output slots [start,end) into a single cluster. If
// the range reaches the end of the output, input slots of the same cluster
// at the cursor are merged as well.
func (b *Buffer) MergeOutClusters(start, end int) {
	if b.ClusterLevel == ClusterLevelCharacters {
		return
	}
	if end-start < 2 {
		return
	}
	precondition(end <= b.outLen, "MergeOutClusters", "range beyond output")
	out := b.outInfo()
	cluster := findMinCluster(out, start, end, out[start].Cluster)
	for start > 0 && out[start-1].Cluster == out[start].Cluster {
		start--
	}
	for end < b.outLen && out[end-1].Cluster == out[end].Cluster {
		end++
	}
	if end == b.outLen {
		endCluster := out[end-1].Cluster
		for i := b.idx; i < b.length && b.info[i].Cluster == endCluster; i++ {
			setCluster(&b.info[i], cluster, 0)
		}
	}
	for i := start; i < end; i++ {
		setCluster(&out[i], cluster, 0)
	}
}

// UnsafeToBreak marks input slots [start,end) unsafe to break (and to
// concat) wherever their cluster differs from the minimum cluster of the
// range. Slots outside the range are not touched.
func (b *Buffer) UnsafeToBreak(start, end int) {
	b.setGlyphFlags(GlyphFlagUnsafeToBreak|GlyphFlagUnsafeToConcat, start, end, true, false)
}

// UnsafeToBreakFromOutbuffer is UnsafeToBreak for a range spanning output
// slots [start,OutLen) and input slots [Idx,end). Without an output phase it
// works on input slots [start,end).
func (b *Buffer) UnsafeToBreakFromOutbuffer(start, end int) {
	b.setGlyphFlags(GlyphFlagUnsafeToBreak|GlyphFlagUnsafeToConcat, start, end, true, true)
}

// UnsafeToConcat marks input slots [start,end) unsafe to concat. It does
// nothing unless FlagProduceUnsafeToConcat is set.
func (b *Buffer) UnsafeToConcat(start, end int) {
	if b.Flags&FlagProduceUnsafeToConcat == 0 {
		return
	}
	b.setGlyphFlags(GlyphFlagUnsafeToConcat, start, end, true, false)
}

// UnsafeToConcatFromOutbuffer marks all slots of output [start,OutLen) and
// input [Idx,end) unsafe to concat, if FlagProduceUnsafeToConcat is set.
func (b *Buffer) UnsafeToConcatFromOutbuffer(start, end int) {
	if b.Flags&FlagProduceUnsafeToConcat == 0 {
		return
	}
	b.setGlyphFlags(GlyphFlagUnsafeToConcat, start, end, false, true)
}

// setGlyphFlags adds mask to a range of slots. With interior set, only slots
// whose cluster differs from the range's minimum cluster are marked.
func (b *Buffer) setGlyphFlags(mask Mask, start, end int, interior, fromOutBuffer bool) {
	end = min(end, b.length)
	if interior && !fromOutBuffer && end-start < 2 {
		return
	}
	if !fromOutBuffer || b.state == NoOutput {
		if !interior {
			for i := start; i < end; i++ {
				b.markInfo(&b.info[i], mask)
			}
			return
		}
		cluster := findMinCluster(b.info, start, end, math.MaxUint32)
		b.markInfos(b.info, start, end, cluster, mask)
		return
	}
	precondition(start <= b.outLen, "setGlyphFlags", "start beyond output")
	precondition(b.idx <= end, "setGlyphFlags", "end before cursor")
	out := b.outInfo()
	if !interior {
		for i := start; i < b.outLen; i++ {
			b.markInfo(&out[i], mask)
		}
		for i := b.idx; i < end; i++ {
			b.markInfo(&b.info[i], mask)
		}
		return
	}
	cluster := findMinCluster(b.info, b.idx, end, math.MaxUint32)
	cluster = findMinCluster(out, start, b.outLen, cluster)
	b.markInfos(out, start, b.outLen, cluster, mask)
	b.markInfos(b.info, b.idx, end, cluster, mask)
}

func (b *Buffer) markInfos(infos []GlyphInfo, start, end int, cluster uint32, mask Mask) {
	for i := start; i < end; i++ {
		if infos[i].Cluster != cluster {
			b.markInfo(&infos[i], mask)
		}
	}
}

func (b *Buffer) markInfo(info *GlyphInfo, mask Mask) {
	info.Mask |= mask
	b.scratchFlags |= ScratchFlagHasGlyphFlags
	if mask&GlyphFlagUnsafeToBreak != 0 {
		b.scratchFlags |= ScratchFlagHasUnsafeToBreak
	}
}

// DeleteGlyph removes the slot at the cursor, keeping its cluster alive:
//
//   - if the next input slot shares the cluster, the slot is simply skipped;
//   - else, if there is output, the trailing output cluster is lowered to the
//     deleted cluster when that one is smaller;
//   - else the cluster is merged forward with the next input slot.
//
// With ClusterLevelCharacters no cluster id is rewritten; the glyph flags of
// the deleted slot are carried over to the trailing output cluster.
func (b *Buffer) DeleteGlyph() {
	precondition(b.idx < b.length, "DeleteGlyph", "cursor at end")
	cluster := b.info[b.idx].Cluster
	if b.idx+1 < b.length && cluster == b.info[b.idx+1].Cluster {
		b.SkipGlyph()
		return
	}
	if b.outLen != 0 {
		out := b.outInfo()
		if cluster < out[b.outLen-1].Cluster {
			b.mergeBackward(out, b.outLen, cluster, b.info[b.idx].Mask)
		}
		b.SkipGlyph()
		return
	}
	if b.idx+1 < b.length {
		b.MergeClusters(b.idx, b.idx+2)
	}
	b.SkipGlyph()
}

// mergeBackward moves the run of slots ending at infos[end-1] to cluster.
func (b *Buffer) mergeBackward(infos []GlyphInfo, end int, cluster uint32, mask Mask) {
	old := infos[end-1].Cluster
	for i := end; i > 0 && infos[i-1].Cluster == old; i-- {
		if b.ClusterLevel == ClusterLevelCharacters {
			infos[i-1].Mask |= mask & GlyphFlagDefined
			continue
		}
		setCluster(&infos[i-1], cluster, mask)
	}
}

// DeleteGlyphsInplace removes every slot for which filter returns true,
// outside of any output phase. Clusters of deleted slots survive with the
// same rules as for DeleteGlyph. Positions move along with their infos.
func (b *Buffer) DeleteGlyphsInplace(filter func(*GlyphInfo) bool) {
	precondition(b.state == NoOutput, "DeleteGlyphsInplace", "output phase active")
	j := 0
	for i := 0; i < b.length; i++ {
		if filter(&b.info[i]) {
			cluster := b.info[i].Cluster
			if i+1 < b.length && cluster == b.info[i+1].Cluster {
				continue // cluster survives
			}
			if j != 0 {
				if cluster < b.info[j-1].Cluster {
					b.mergeBackward(b.info, j, cluster, b.info[i].Mask)
				}
				continue
			}
			if i+1 < b.length {
				save := b.idx
				b.idx = 0
				b.MergeClusters(i, i+2)
				b.idx = save
			}
			continue
		}
		if j != i {
			b.info[j] = b.info[i]
			b.pos[j] = b.pos[i]
		}
		j++
	}
	b.length = j
}

// ResetClusters assigns each slot its index as cluster id.
func (b *Buffer) ResetClusters() {
	for i := range b.info[:b.length] {
		b.info[i].Cluster = uint32(i)
	}
}

// NextCluster returns the start of the cluster following the one at start.
func (b *Buffer) NextCluster(start int) int {
	return b.GroupEnd(start, func(a, c *GlyphInfo) bool { return a.Cluster == c.Cluster })
}

// NextSyllable returns the start of the syllable following the one at start.
func (b *Buffer) NextSyllable(start int) int {
	return b.GroupEnd(start, func(a, c *GlyphInfo) bool { return a.Syllable() == c.Syllable() })
}

// GroupEnd returns the end of the run of slots starting at start for which
// sameGroup holds between neighbours.
func (b *Buffer) GroupEnd(start int, sameGroup func(a, c *GlyphInfo) bool) int {
	if start >= b.length {
		return b.length
	}
	end := start + 1
	for end < b.length && sameGroup(&b.info[end-1], &b.info[end]) {
		end++
	}
	return end
}
