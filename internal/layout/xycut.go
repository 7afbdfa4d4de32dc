package layout

import "sort"

// axis is the cut direction for one level of XY-cut recursion.
type axis int

const (
	axisVertical   axis = iota // split along X, producing side-by-side columns
	axisHorizontal             // split along Y, producing stacked bands
)

// minLeafArea stops the recursion once a region is too small to
// usefully subdivide further, mirroring the donor's minColumnWidth/
// minGapWidth floor values generalized to an area bound.
const minLeafArea = 400.0 // 20pt x 20pt

// region is a rectangular subdivision of the page carrying the lines
// whose bounding boxes fall (mostly) within it.
type region struct {
	x0, y0, x1, y1 float64
	lines          []*Line
}

func (r *region) width() float64  { return r.x1 - r.x0 }
func (r *region) height() float64 { return r.y1 - r.y0 }
func (r *region) area() float64   { return r.width() * r.height() }

// XYCut recursively splits lines into Blocks by the widest whitespace
// gap in the projection profile orthogonal to the current cut
// direction, alternating axes each level (spec.md section 4.5 step 3).
// pageSize is the (width, height) used to scale the
// max(median_gap*3, 0.04*page_dimension) gap threshold (Open Question
// (c)); a zero component is derived from the observed line extents.
func XYCut(lines []*Line, pageSize [2]float64) []*Block {
	if len(lines) == 0 {
		return nil
	}

	root := boundingRegion(lines)
	if pageSize[0] > 0 {
		root.x1 = root.x0 + pageSize[0]
	}
	if pageSize[1] > 0 {
		root.y1 = root.y0 + pageSize[1]
	}

	var blocks []*Block
	var recurse func(r *region, cut axis)
	recurse = func(r *region, cut axis) {
		if len(r.lines) == 0 {
			return
		}
		if len(r.lines) == 1 || r.area() < minLeafArea {
			blocks = append(blocks, blockFromRegion(r))
			return
		}

		gapPos, ok := widestGap(r, cut)
		if !ok {
			blocks = append(blocks, blockFromRegion(r))
			return
		}

		left, right := splitRegion(r, cut, gapPos)
		next := axisHorizontal
		if cut == axisHorizontal {
			next = axisVertical
		}
		recurse(left, next)
		recurse(right, next)
	}
	recurse(root, axisVertical)

	sort.Slice(blocks, func(i, j int) bool {
		if blocks[i].Y1 != blocks[j].Y1 {
			return blocks[i].Y1 > blocks[j].Y1
		}
		return blocks[i].X0 < blocks[j].X0
	})
	return blocks
}

func boundingRegion(lines []*Line) *region {
	r := &region{x0: lines[0].X0, x1: lines[0].X1, y0: lines[0].Bottom, y1: lines[0].Top, lines: lines}
	for _, l := range lines {
		if l.X0 < r.x0 {
			r.x0 = l.X0
		}
		if l.X1 > r.x1 {
			r.x1 = l.X1
		}
		if l.Bottom < r.y0 {
			r.y0 = l.Bottom
		}
		if l.Top > r.y1 {
			r.y1 = l.Top
		}
	}
	return r
}

// widestGap finds the widest empty band in the projection profile
// orthogonal to cut (a vertical cut projects onto X, looking for a
// vertical empty band; a horizontal cut projects onto Y). It reports
// the gap's midpoint and whether any gap exceeded
// max(median_gap*3, 0.04*page_dimension).
func widestGap(r *region, cut axis) (float64, bool) {
	type span struct{ lo, hi float64 }
	spans := make([]span, 0, len(r.lines))
	var pageDim float64
	if cut == axisVertical {
		pageDim = r.width()
		for _, l := range r.lines {
			spans = append(spans, span{l.X0, l.X1})
		}
	} else {
		pageDim = r.height()
		for _, l := range r.lines {
			spans = append(spans, span{l.Bottom, l.Top})
		}
	}
	if len(spans) < 2 {
		return 0, false
	}
	sort.Slice(spans, func(i, j int) bool { return spans[i].lo < spans[j].lo })

	// Merge overlapping spans, then the remaining inter-span distances
	// are candidate gaps. This is the projection-profile-as-intervals
	// equivalent of the donor's bin-histogram valley search.
	merged := []span{spans[0]}
	for _, s := range spans[1:] {
		last := &merged[len(merged)-1]
		if s.lo <= last.hi {
			if s.hi > last.hi {
				last.hi = s.hi
			}
			continue
		}
		merged = append(merged, s)
	}
	if len(merged) < 2 {
		return 0, false
	}

	gaps := make([]float64, 0, len(merged)-1)
	for i := 1; i < len(merged); i++ {
		gaps = append(gaps, merged[i].lo-merged[i-1].hi)
	}

	bestIdx, bestWidth := -1, -1.0
	for i, w := range gaps {
		if w > bestWidth {
			bestWidth, bestIdx = w, i
		}
	}

	// The "typical" gap the widest one is judged against excludes
	// itself — otherwise a region with only one candidate gap (no
	// other word-to-word spacing to compare it to) could never clear
	// median*3, since the median of a single value is itself.
	var baseline []float64
	for i, w := range gaps {
		if i != bestIdx {
			baseline = append(baseline, w)
		}
	}
	threshold := median(baseline) * 3
	if d := 0.04 * pageDim; d > threshold {
		threshold = d
	}

	if bestWidth <= threshold {
		return 0, false
	}
	return (merged[bestIdx+1].lo + merged[bestIdx].hi) / 2, true
}

func splitRegion(r *region, cut axis, pos float64) (*region, *region) {
	var a, b region
	if cut == axisVertical {
		a = region{x0: r.x0, x1: pos, y0: r.y0, y1: r.y1}
		b = region{x0: pos, x1: r.x1, y0: r.y0, y1: r.y1}
		for _, l := range r.lines {
			mid := (l.X0 + l.X1) / 2
			if mid < pos {
				a.lines = append(a.lines, l)
			} else {
				b.lines = append(b.lines, l)
			}
		}
	} else {
		a = region{x0: r.x0, x1: r.x1, y0: pos, y1: r.y1}  // above the cut
		b = region{x0: r.x0, x1: r.x1, y0: r.y0, y1: pos} // below the cut
		for _, l := range r.lines {
			mid := (l.Bottom + l.Top) / 2
			if mid >= pos {
				a.lines = append(a.lines, l)
			} else {
				b.lines = append(b.lines, l)
			}
		}
	}
	return &a, &b
}

func blockFromRegion(r *region) *Block {
	x0, y0, x1, y1 := r.lines[0].X0, r.lines[0].Bottom, r.lines[0].X1, r.lines[0].Top
	for _, l := range r.lines {
		if l.X0 < x0 {
			x0 = l.X0
		}
		if l.X1 > x1 {
			x1 = l.X1
		}
		if l.Bottom < y0 {
			y0 = l.Bottom
		}
		if l.Top > y1 {
			y1 = l.Top
		}
	}
	sorted := make([]*Line, len(r.lines))
	copy(sorted, r.lines)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Y > sorted[j].Y })
	return &Block{Lines: sorted, X0: x0, Y0: y0, X1: x1, Y1: y1}
}

func median(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)
	mid := len(sorted) / 2
	if len(sorted)%2 == 0 {
		return (sorted[mid-1] + sorted[mid]) / 2
	}
	return sorted[mid]
}
