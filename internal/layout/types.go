// Package layout turns the flat list of TextElements a page's content
// stream produces into words, lines, reading-ordered blocks, and a
// Markdown rendering — clustering by geometry alone, with no dependency
// on document structure tags.
package layout

import "github.com/coregx/pdftext/internal/fonts"

// Word is one or more adjacent TextElements joined because the gap
// between them is narrower than intra-word spacing for their font.
type Word struct {
	Text       string
	X, Y       float64 // baseline origin, device space (bottom-left origin)
	Width      float64
	Height     float64
	FontName   string
	FontSize   float64
	FontWeight fonts.Weight
	Italic     bool
}

// Right returns the word's right edge.
func (w *Word) Right() float64 { return w.X + w.Width }

// Top returns the word's top edge.
func (w *Word) Top() float64 { return w.Y + w.Height }

// Line is a left-to-right ordered run of words sharing a y-midpoint.
type Line struct {
	Words []*Word
	Y     float64 // y-midpoint of the line
	X0    float64 // left edge (min over words)
	X1    float64 // right edge (max over words)
	Top   float64
	Bottom float64
}

// Text concatenates the line's words, inserting a single U+0020 between
// any two words whose horizontal gap exceeds 0.3x the median character
// advance for the line (spec.md's span-separator policy, Invariant 2).
func (l *Line) Text() string {
	if len(l.Words) == 0 {
		return ""
	}
	var out []rune
	advances := medianAdvances(l.Words)
	for i, w := range l.Words {
		if i > 0 {
			gap := w.X - l.Words[i-1].Right()
			if gap > 0.3*advances {
				out = append(out, ' ')
			}
		}
		out = append(out, []rune(w.Text)...)
	}
	return string(out)
}

// BlockKind classifies a Block's contribution to a Markdown rendering.
type BlockKind int

const (
	// KindParagraph is a normal run of body text.
	KindParagraph BlockKind = iota
	// KindHeading is a single short line tagged H1..H6.
	KindHeading
	// KindTable is a rectangular grid of cells.
	KindTable
	// KindList is a run of bullet or numbered lines.
	KindList
	// KindBlockquote is a run of lines indented beyond the body margin.
	KindBlockquote
)

// Block is a column-bounded region of reading-ordered lines, classified
// for Markdown rendering.
type Block struct {
	Lines []*Line
	X0, Y0, X1, Y1 float64 // bounding box, device space

	Kind        BlockKind
	HeadingLevel int       // 1..6, valid only when Kind == KindHeading
	Table        *Table    // valid only when Kind == KindTable
	ListOrdered  bool      // valid only when Kind == KindList
}

// Table is a rectangular grid of cell strings inferred from column
// separators that persist across the block's lines.
type Table struct {
	Rows [][]string
}

// Page is the fully analyzed result for one page: reading-ordered,
// classified blocks ready for text or Markdown rendering.
type Page struct {
	Blocks []*Block
	Width  float64
	Height float64
}
