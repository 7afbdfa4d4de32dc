package extractor

import "github.com/coregx/pdftext/internal/fonts"

// TextElement is one run of text shown by a single Tj/TJ/'/" invocation,
// in device space, with enough metadata for a layout pass to cluster
// runs into words, lines, and blocks.
type TextElement struct {
	Text       string
	X          float64
	Y          float64
	Width      float64
	Height     float64
	FontName   string
	FontSize   float64
	FontWeight fonts.Weight
	Italic     bool
	Color      [3]float64 // fill color, r,g,b in [0,1]; defaults to black
	MCID       *int       // marked-content id in scope when shown, if any
}

// NewTextElement creates a TextElement with the default black fill color.
func NewTextElement(text string, x, y, width, height float64, fontName string, fontSize float64) *TextElement {
	return &TextElement{
		Text:       text,
		X:          x,
		Y:          y,
		Width:      width,
		Height:     height,
		FontName:   fontName,
		FontSize:   fontSize,
		FontWeight: fonts.WeightNormal,
	}
}
