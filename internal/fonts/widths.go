package fonts

// defaultGlyphWidth is the last-resort advance, in 1/1000 text-space
// units, used only when a span's font carries no width data at all
// (neither /Widths nor /W parsed) — not the
// per-glyph default, which FontWidths itself resolves from
// /MissingWidth or /DW.
const defaultGlyphWidth = 500.0

// FontWidths resolves a character or CID code to its glyph width, in
// 1/1000 text-space units, from a simple font's /FirstChar+/Widths
// array (ISO 32000-1:2008 Section 9.6.3) or a composite font's /DW+/W
// array (Section 9.7.4.3) — spec.md's FontInfo.widths.
type FontWidths struct {
	// Composite is true for a Type0 font's /W+/DW widths, false for a
	// simple font's /Widths array.
	Composite bool

	// Simple-font fields.
	FirstChar    int
	Widths       []float64
	MissingWidth float64

	// Composite-font fields.
	DefaultWidth float64
	CIDWidths    map[uint16]float64
}

// NewSimpleFontWidths builds a simple font's width table from its
// /FirstChar and /Widths array; missingWidth is the /FontDescriptor
// /MissingWidth entry (0 if absent, the ISO 32000-1 default).
func NewSimpleFontWidths(firstChar int, widths []float64, missingWidth float64) *FontWidths {
	return &FontWidths{FirstChar: firstChar, Widths: widths, MissingWidth: missingWidth}
}

// NewCompositeFontWidths builds a Type0 font's width table from its
// descendant font's /DW (0 means the ISO 32000-1 default of 1000) and
// parsed /W entries.
func NewCompositeFontWidths(defaultWidth float64, cidWidths map[uint16]float64) *FontWidths {
	if defaultWidth == 0 {
		defaultWidth = 1000
	}
	return &FontWidths{Composite: true, DefaultWidth: defaultWidth, CIDWidths: cidWidths}
}

// GetWidth returns code's glyph width in 1/1000 text-space units,
// falling back to the font's declared missing-glyph width (simple
// fonts) or default width (composite fonts), or defaultGlyphWidth when
// w itself is nil.
func (w *FontWidths) GetWidth(code uint16) float64 {
	if w == nil {
		return defaultGlyphWidth
	}
	if w.Composite {
		if width, ok := w.CIDWidths[code]; ok {
			return width
		}
		return w.DefaultWidth
	}
	idx := int(code) - w.FirstChar
	if idx >= 0 && idx < len(w.Widths) {
		return w.Widths[idx]
	}
	return w.MissingWidth
}
