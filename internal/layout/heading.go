package layout

import "github.com/coregx/pdftext/internal/fonts"

// headingRatios are the per-level font-size-over-body-size thresholds
// from spec.md section 4.5 step 5, in H1..H6 order. Level 6 accepts a
// line at body size only when it is also bold.
var headingRatios = [6]float64{1.6, 1.4, 1.25, 1.15, 1.05, 1.0}

// BodyFontSize returns the modal font size on a page weighted by
// character count (spec.md's "body font size"), the baseline every
// heading ratio is measured against.
func BodyFontSize(lines []*Line) float64 {
	counts := map[float64]int{}
	for _, l := range lines {
		for _, w := range l.Words {
			counts[w.FontSize] += len([]rune(w.Text))
		}
	}
	best, bestCount := 0.0, -1
	for size, count := range counts {
		if count > bestCount || (count == bestCount && size > best) {
			best, bestCount = size, count
		}
	}
	return best
}

// HeadingLevel reports the 1..6 heading level for a single-line block,
// or 0 if it does not qualify. A line qualifies when its dominant font
// size clears the level's ratio over bodySize, and it is isolated:
// surrounded by vertical whitespace at least 0.7x its height (spec.md
// step 5b), which the caller supplies as the gap to the block
// immediately above and below it. The line's width is not tested;
// Classify only offers single-line blocks.
func HeadingLevel(line *Line, bodySize float64, gapAbove, gapBelow float64) int {
	if bodySize <= 0 || len(line.Words) == 0 {
		return 0
	}

	dominant, bold := dominantSize(line)
	if dominant <= 0 {
		return 0
	}
	ratio := dominant / bodySize

	height := line.Top - line.Bottom
	if height <= 0 {
		return 0
	}
	isolated := gapAbove >= 0.7*height && gapBelow >= 0.7*height

	for level := 1; level <= 6; level++ {
		threshold := headingRatios[level-1]
		qualifies := ratio >= threshold
		if level == 6 {
			qualifies = qualifies && bold
		}
		if qualifies && isolated {
			return level
		}
	}
	return 0
}

// dominantSize returns the most common font size on the line (weighted
// by character count) and whether every word at that size is at least
// SemiBold.
func dominantSize(line *Line) (float64, bool) {
	counts := map[float64]int{}
	for _, w := range line.Words {
		counts[w.FontSize] += len([]rune(w.Text))
	}
	best, bestCount := 0.0, -1
	for size, count := range counts {
		if count > bestCount {
			best, bestCount = size, count
		}
	}

	bold := true
	for _, w := range line.Words {
		if w.FontSize == best && !isAtLeastSemiBold(w.FontWeight) {
			bold = false
			break
		}
	}
	return best, bold
}

var weightRank = map[fonts.Weight]int{
	fonts.WeightThin:       0,
	fonts.WeightExtraLight: 1,
	fonts.WeightLight:      2,
	fonts.WeightNormal:     3,
	fonts.WeightMedium:     4,
	fonts.WeightSemiBold:   5,
	fonts.WeightBold:       6,
	fonts.WeightExtraBold:  7,
	fonts.WeightBlack:      8,
}

func isAtLeastSemiBold(w fonts.Weight) bool {
	return weightRank[w] >= weightRank[fonts.WeightSemiBold]
}
