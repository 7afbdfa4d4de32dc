package extractor

// TextState tracks the text-object parameters a content stream's text
// operators read and mutate: the text and text-line matrices, and the
// character/word spacing, scaling, leading, font, and rise parameters
// from the text state (PDF 1.7 Section 9.3).
//
// Tc, Tw, Tz, TL, Tf, Tr and Ts belong to the graphics state and persist
// across BT/ET pairs; only Tm and Tlm reset at BT, per Section 9.4.1.
type TextState struct {
	Tm  [6]float64
	Tlm [6]float64

	CharSpace  float64
	WordSpace  float64
	HorizScale float64 // percent, 100 = no scaling
	Leading    float64
	FontName   string
	FontSize   float64
	Rise       float64

	// CurrentX, CurrentY cache Tm's translation component (text space,
	// before the current transformation matrix is applied).
	CurrentX float64
	CurrentY float64
}

// NewTextState creates a TextState with PDF's documented defaults:
// 100% horizontal scaling and identity matrices.
func NewTextState() *TextState {
	return &TextState{
		Tm:         identityMatrix(),
		Tlm:        identityMatrix(),
		HorizScale: 100,
	}
}

// Reset reinitializes the text and text-line matrices to identity, as
// the BT operator requires. Spacing/font parameters are untouched.
func (ts *TextState) Reset() {
	ts.Tm = identityMatrix()
	ts.Tlm = identityMatrix()
	ts.syncCurrent()
}

// SetTextMatrix implements the Tm operator: both Tm and Tlm are set
// directly to the given matrix.
func (ts *TextState) SetTextMatrix(a, b, c, d, e, f float64) {
	ts.Tm = [6]float64{a, b, c, d, e, f}
	ts.Tlm = ts.Tm
	ts.syncCurrent()
}

// Translate implements the Td operator: Tlm' = [1 0 0 1 tx ty] * Tlm,
// and Tm is reset to the new Tlm.
func (ts *TextState) Translate(tx, ty float64) {
	ts.Tlm = multiplyMatrix([6]float64{1, 0, 0, 1, tx, ty}, ts.Tlm)
	ts.Tm = ts.Tlm
	ts.syncCurrent()
}

// TranslateSetLeading implements the TD operator: sets leading to -ty,
// then behaves like Td.
func (ts *TextState) TranslateSetLeading(tx, ty float64) {
	ts.Leading = -ty
	ts.Translate(tx, ty)
}

// MoveToNextLine implements the T* operator: move to the start of the
// next line using the current leading.
func (ts *TextState) MoveToNextLine() {
	ts.Translate(0, -ts.Leading)
}

// AdvanceX advances Tm horizontally by tx text-space units, as happens
// after each character (or group of characters) is shown.
func (ts *TextState) AdvanceX(tx float64) {
	ts.Tm = multiplyMatrix([6]float64{1, 0, 0, 1, tx, 0}, ts.Tm)
	ts.syncCurrent()
}

func (ts *TextState) syncCurrent() {
	ts.CurrentX = ts.Tm[4]
	ts.CurrentY = ts.Tm[5]
}
