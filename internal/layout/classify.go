package layout

import (
	"regexp"
	"sort"
	"strings"
)

// minSeparatorLines is the number of a block's lines a candidate gap
// must recur on to count as a real column separator (spec.md section
// 4.5 step 6). The lines are counted, not required to be consecutive.
const minSeparatorLines = 3

// minSeparators is the "≥2 such separators" requirement for a region
// to qualify as a table.
const minSeparators = 2

// separatorTolerance clusters gap midpoints that land within this many
// points of one another into the same candidate separator.
const separatorTolerance = 3.0

// Classify assigns each block's Kind, applying the tables-win-over-
// headings precedence decided in spec.md's Open Question (b): a region
// is tested for table-ness first, and only a non-table region is then
// tested for heading-ness, list-ness, or blockquote-ness.
func Classify(blocks []*Block, bodySize float64, detectHeadings, detectTables bool) {
	leftMargin := pageLeftMargin(blocks)

	for idx, b := range blocks {
		if detectTables {
			if table := detectTable(b.Lines); table != nil {
				b.Kind = KindTable
				b.Table = table
				continue
			}
		}

		if detectHeadings && len(b.Lines) == 1 {
			gapAbove, gapBelow := blockGaps(blocks, idx)
			if level := HeadingLevel(b.Lines[0], bodySize, gapAbove, gapBelow); level > 0 {
				b.Kind = KindHeading
				b.HeadingLevel = level
				continue
			}
		}

		if ordered, isList := detectList(b.Lines); isList {
			b.Kind = KindList
			b.ListOrdered = ordered
			continue
		}

		if detectBlockquote(b.Lines, leftMargin) {
			b.Kind = KindBlockquote
			continue
		}

		b.Kind = KindParagraph
	}
}

// pageLeftMargin is the leftmost line edge across every block, the
// body-text margin blockquotes are measured as indented beyond.
func pageLeftMargin(blocks []*Block) float64 {
	margin := 0.0
	set := false
	for _, b := range blocks {
		for _, l := range b.Lines {
			if !set || l.X0 < margin {
				margin = l.X0
				set = true
			}
		}
	}
	return margin
}

// blockGaps returns the vertical whitespace gap to the block above and
// below idx in the already reading-ordered slice, used as the
// isolation test for heading detection.
func blockGaps(blocks []*Block, idx int) (above, below float64) {
	above, below = 1e9, 1e9
	if idx > 0 {
		above = blocks[idx-1].Y0 - blocks[idx].Y1
	}
	if idx < len(blocks)-1 {
		below = blocks[idx].Y0 - blocks[idx+1].Y1
	}
	return
}

type candidateSep struct {
	x     float64
	lines int
}

// detectTable infers column separators from vertical alignment of
// inter-word whitespace across the block's lines and builds a grid
// when enough separators persist, per spec.md section 4.5 step 6.
// Generalizes the donor's detectBoundariesWhitespace/findValleysAdaptive
// projection-profile approach from a dedicated table region to any
// XY-cut block.
func detectTable(lines []*Line) *Table {
	if len(lines) < minSeparatorLines {
		return nil
	}

	type gapHit struct {
		x        float64
		lineIdx  int
	}
	var hits []gapHit
	for li, l := range lines {
		for i := 1; i < len(l.Words); i++ {
			prev, cur := l.Words[i-1], l.Words[i]
			gap := cur.X - prev.Right()
			if gap <= 0 {
				continue
			}
			hits = append(hits, gapHit{x: (prev.Right() + cur.X) / 2, lineIdx: li})
		}
	}
	if len(hits) == 0 {
		return nil
	}
	sort.Slice(hits, func(i, j int) bool { return hits[i].x < hits[j].x })

	var seps []candidateSep
	i := 0
	for i < len(hits) {
		j := i + 1
		seenLines := map[int]bool{hits[i].lineIdx: true}
		sumX := hits[i].x
		count := 1
		for j < len(hits) && hits[j].x-hits[j-1].x <= separatorTolerance {
			seenLines[hits[j].lineIdx] = true
			sumX += hits[j].x
			count++
			j++
		}
		if len(seenLines) >= minSeparatorLines {
			seps = append(seps, candidateSep{x: sumX / float64(count), lines: len(seenLines)})
		}
		i = j
	}

	if len(seps) < minSeparators {
		return nil
	}

	boundaries := make([]float64, len(seps))
	for i, s := range seps {
		boundaries[i] = s.x
	}
	sort.Float64s(boundaries)

	rows := make([][]string, 0, len(lines))
	for _, l := range lines {
		row := make([]string, len(boundaries)+1)
		for _, w := range l.Words {
			col := 0
			for col < len(boundaries) && w.X >= boundaries[col] {
				col++
			}
			if row[col] != "" {
				row[col] += " "
			}
			row[col] += w.Text
		}
		allFilled := true
		for _, cell := range row {
			if strings.TrimSpace(cell) == "" {
				allFilled = false
				break
			}
		}
		if !allFilled {
			continue // rectangular grids only: drop lines with empty cells
		}
		rows = append(rows, row)
	}

	if len(rows) < 2 {
		return nil
	}
	return &Table{Rows: rows}
}

var (
	bulletPrefix  = regexp.MustCompile(`^[•·\-–*]\s+`)
	orderedPrefix = regexp.MustCompile(`^\d+[.)]\s+`)
)

// detectList reports whether every line in the block opens with a
// bullet glyph or a numbered-list prefix (spec.md section 4.5 step 7),
// and whether the list is ordered.
func detectList(lines []*Line) (ordered bool, isList bool) {
	if len(lines) == 0 {
		return false, false
	}
	allBullet, allOrdered := true, true
	for _, l := range lines {
		text := l.Text()
		if !bulletPrefix.MatchString(text) {
			allBullet = false
		}
		if !orderedPrefix.MatchString(text) {
			allOrdered = false
		}
	}
	switch {
	case allOrdered:
		return true, true
	case allBullet:
		return false, true
	default:
		return false, false
	}
}

// blockquoteIndent is the minimum left-indent, in points, beyond the
// block's own body margin a line must carry on every line to be
// treated as a blockquote.
const blockquoteIndent = 18.0

// detectBlockquote reports whether every line in the block is indented
// at least blockquoteIndent beyond the page's body margin (spec.md
// section 4.5 step 7's "consistent left-indent beyond body margin").
func detectBlockquote(lines []*Line, pageLeftMargin float64) bool {
	if len(lines) < 2 {
		return false
	}
	for _, l := range lines {
		if l.X0 < pageLeftMargin+blockquoteIndent {
			return false
		}
	}
	return true
}
