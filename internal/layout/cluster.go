package layout

import (
	"sort"

	"github.com/coregx/pdftext/internal/extractor"
)

// ClusterLines groups raw TextElements whose y-midpoints fall within
// ±0.5x font size of one another into lines (spec.md section 4.5 step
// 2), directly generalizing the donor's row-clustering threshold (0.5x
// average font size) from table cells to the whole page. Elements
// within each line are then joined into Words by horizontal gap (step
// 1) before the Line is built. Lines are returned ordered by
// descending Y (PDF's bottom-left, y-up origin).
func ClusterLines(elements []*extractor.TextElement) []*Line {
	if len(elements) == 0 {
		return nil
	}

	type bucket struct {
		minMid, maxMid float64
		elements       []*extractor.TextElement
	}
	var buckets []*bucket

	for _, el := range elements {
		mid := el.Y + el.Height/2
		threshold := 0.5 * el.FontSize
		if threshold <= 0 {
			threshold = 0.5
		}

		var target *bucket
		for _, b := range buckets {
			dist := minAbs(mid-b.minMid, mid-b.maxMid)
			if dist < threshold {
				target = b
				break
			}
		}
		if target == nil {
			target = &bucket{minMid: mid, maxMid: mid}
			buckets = append(buckets, target)
		}
		target.elements = append(target.elements, el)
		if mid < target.minMid {
			target.minMid = mid
		}
		if mid > target.maxMid {
			target.maxMid = mid
		}
	}

	lines := make([]*Line, 0, len(buckets))
	for _, b := range buckets {
		words := clusterWordsOnLine(b.elements)
		if len(words) == 0 {
			continue
		}
		lines = append(lines, buildLine(words))
	}
	sort.Slice(lines, func(i, j int) bool { return lines[i].Y > lines[j].Y })
	return lines
}

// clusterWordsOnLine joins adjacent TextElements already known to share
// a line into Words when the horizontal gap between them is narrower
// than 0.3x the median character advance for that font at that size
// (spec.md section 4.5 step 1).
func clusterWordsOnLine(elements []*extractor.TextElement) []*Word {
	if len(elements) == 0 {
		return nil
	}

	sorted := make([]*extractor.TextElement, len(elements))
	copy(sorted, elements)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].X < sorted[j].X })

	words := make([]*Word, 0, len(sorted))
	cur := wordFromElement(sorted[0])
	for _, el := range sorted[1:] {
		threshold := 0.3 * charAdvance(cur)
		gap := el.X - (cur.X + cur.Width)
		sameRun := el.FontName == cur.FontName && el.FontSize == cur.FontSize
		if sameRun && gap < threshold {
			cur.Text += el.Text
			right := el.X + el.Width
			if right > cur.X+cur.Width {
				cur.Width = right - cur.X
			}
			if el.Height > cur.Height {
				cur.Height = el.Height
			}
			continue
		}
		words = append(words, cur)
		cur = wordFromElement(el)
	}
	words = append(words, cur)
	return words
}

func wordFromElement(el *extractor.TextElement) *Word {
	return &Word{
		Text:       el.Text,
		X:          el.X,
		Y:          el.Y,
		Width:      el.Width,
		Height:     el.Height,
		FontName:   el.FontName,
		FontSize:   el.FontSize,
		FontWeight: el.FontWeight,
		Italic:     el.Italic,
	}
}

func charAdvance(w *Word) float64 {
	n := len([]rune(w.Text))
	if n == 0 || w.Width <= 0 {
		return 0
	}
	return w.Width / float64(n)
}

// medianAdvances returns the median per-character advance implied by a
// line's words, used as the 0.3x threshold for word-gap vs. space-gap
// decisions in Line.Text.
func medianAdvances(words []*Word) float64 {
	advances := make([]float64, 0, len(words))
	for _, w := range words {
		n := len([]rune(w.Text))
		if n == 0 || w.Width <= 0 {
			continue
		}
		advances = append(advances, w.Width/float64(n))
	}
	if len(advances) == 0 {
		return 0
	}
	sort.Float64s(advances)
	return advances[len(advances)/2]
}

func buildLine(words []*Word) *Line {
	sort.Slice(words, func(i, j int) bool { return words[i].X < words[j].X })

	line := &Line{Words: words}
	sumMid, top, bottom := 0.0, words[0].Top(), words[0].Y
	x0, x1 := words[0].X, words[0].Right()
	for _, w := range words {
		mid := w.Y + w.Height/2
		sumMid += mid
		if w.X < x0 {
			x0 = w.X
		}
		if w.Right() > x1 {
			x1 = w.Right()
		}
		if w.Top() > top {
			top = w.Top()
		}
		if w.Y < bottom {
			bottom = w.Y
		}
	}
	line.Y = sumMid / float64(len(words))
	line.X0, line.X1 = x0, x1
	line.Top, line.Bottom = top, bottom
	return line
}

func minAbs(a, b float64) float64 {
	if a < 0 {
		a = -a
	}
	if b < 0 {
		b = -b
	}
	if a < b {
		return a
	}
	return b
}
