package extractor

import (
	"fmt"
	"log/slog"
	"strings"
	"unicode/utf16"

	"github.com/coregx/pdftext/internal/filter"
	"github.com/coregx/pdftext/internal/fonts"
	"github.com/coregx/pdftext/internal/parser"
	"github.com/coregx/pdftext/internal/resources"
	"github.com/coregx/pdftext/logging"
)

// TextExtractor extracts text with positional information from PDF pages.
//
// The extractor processes PDF content streams and interprets text operators
// to extract text along with its X,Y coordinates. This is critical for
// table extraction, as we need to know where each piece of text is located.
//
// Text Extraction Process:
//  1. Get page's content stream(s)
//  2. Decode stream (handle FlateDecode, etc.)
//  3. Parse content operators
//  4. Track text state (font, position, matrix)
//  5. Extract text with coordinates when text showing operators are encountered
//  6. Decode glyph bytes to Unicode using font CMap/encoding
//
// Reference: PDF 1.7 specification, Section 9.4 (Text Objects).
type TextExtractor struct {
	reader        *parser.Reader
	textState     *TextState
	elements      []*TextElement
	fontDecoders  map[string]*FontDecoder // fontName -> FontDecoder
	pageResources *parser.Dictionary      // Current page resources
	pageInfo      *resources.PageInfo     // Current page's inherited attributes

	ctm      [6]float64   // current transformation matrix
	ctmStack [][6]float64 // q/Q save stack

	mcStack      []markedContentEntry // BDC/BMC...EMC nesting
	xobjectDepth int                  // Form XObject recursion depth (Do)

	fillColor [3]float64 // current nonstroking color (g/rg/k/sc/scn), r,g,b in [0,1]

	spaceThreshold  float64 // TJ adjustment, in thousandths of an em, past which a word gap is assumed (spec.md Open Question (a))
	pendingSpace    bool    // a large TJ adjustment was seen since the last shown glyph
	maxXObjectDepth int     // Form XObject recursion cap, overridable via SetMaxXObjectDepth
}

// defaultSpaceThreshold is the donor's "value near 250" for the TJ-gap
// heuristic; AOShei's extractor uses the same figure as its fallback
// /Widths space-character width when a font has none.
const defaultSpaceThreshold = 250.0

// SetSpaceThreshold overrides the TJ adjustment magnitude, in thousandths
// of an em, past which processTextArray treats the gap as a word
// boundary and inserts a space rather than letting the two runs abut.
func (te *TextExtractor) SetSpaceThreshold(v float64) {
	te.spaceThreshold = v
}

// markedContentEntry is one entry of the marked-content stack a
// BDC/BMC...EMC pair pushes and pops. actualText is non-nil when the
// BDC's properties carried /ActualText (Section 14.9.4); consumed
// tracks whether that replacement text has already been emitted, since
// /ActualText substitutes for the whole marked-content span, not once
// per text-showing operator inside it.
type markedContentEntry struct {
	actualText *string
	consumed   bool
	mcid       *int
}

// defaultMaxXObjectDepth bounds Form XObject recursion (Do invoking a
// Form whose own content stream invokes another Form) against the
// reference cycles some malformed or adversarial documents contain.
const defaultMaxXObjectDepth = 32

// SetMaxXObjectDepth overrides the Form XObject recursion cap. Values
// <= 0 are ignored, leaving the existing cap in place.
func (te *TextExtractor) SetMaxXObjectDepth(depth int) {
	if depth > 0 {
		te.maxXObjectDepth = depth
	}
}

// NewTextExtractor creates a new TextExtractor for the given PDF reader.
func NewTextExtractor(reader *parser.Reader) *TextExtractor {
	return &TextExtractor{
		reader:         reader,
		textState:      NewTextState(),
		elements:       []*TextElement{},
		fontDecoders:   make(map[string]*FontDecoder),
		ctm:             identityMatrix(),
		spaceThreshold:  defaultSpaceThreshold,
		maxXObjectDepth: defaultMaxXObjectDepth,
	}
}

// ExtractFromPage extracts all text elements from the specified page.
//
// Page numbers are 0-based (first page is 0).
//
// Returns a slice of TextElements with position information, or error if extraction fails.
func (te *TextExtractor) ExtractFromPage(pageNum int) ([]*TextElement, error) {
	// Reset state
	te.elements = []*TextElement{}
	te.textState = NewTextState()
	te.fontDecoders = make(map[string]*FontDecoder)
	te.ctm = identityMatrix()
	te.ctmStack = nil
	te.mcStack = nil
	te.xobjectDepth = 0

	// Get page
	page, err := te.reader.GetPage(pageNum)
	if err != nil {
		return nil, fmt.Errorf("failed to get page %d: %w", pageNum, err)
	}

	// Resolve inherited attributes (Resources, MediaBox, CropBox, Rotate)
	// by walking the page tree rather than trusting the leaf node alone,
	// since producers routinely push /Resources up to a shared /Pages
	// ancestor. Fall back to the page's own dictionary if the tree walk
	// fails for any reason (e.g. a malformed /Kids chain).
	if info, perr := resources.GetPageInfo(te.reader, pageNum); perr == nil {
		te.pageInfo = info
		te.pageResources = info.Resources
	} else {
		te.pageInfo = nil
		te.pageResources = te.getPageResources(page)
	}

	// Get content stream(s)
	contentData, err := te.getPageContent(page)
	if err != nil {
		return nil, fmt.Errorf("failed to get page content: %w", err)
	}

	// If no content, return empty list
	if len(contentData) == 0 {
		return []*TextElement{}, nil
	}

	// Parse content stream operators
	contentParser := NewContentParser(contentData)
	operators, err := contentParser.ParseOperators()
	if err != nil {
		return nil, fmt.Errorf("failed to parse content stream: %w", err)
	}

	// Process operators to extract text
	for _, op := range operators {
		te.processOperator(op)
	}

	return te.elements, nil
}

// PageInfo returns the inherited page attributes (MediaBox, CropBox,
// Rotate, Resources) resolved by the most recent ExtractFromPage call,
// or nil if the page-tree walk failed and a bare fallback was used.
func (te *TextExtractor) PageInfo() *resources.PageInfo {
	return te.pageInfo
}

// getPageContent retrieves and decodes the content stream(s) for a page.
//
// A page can have a single content stream or an array of content streams.
// We concatenate all streams and return the decoded content.
//
//nolint:cyclop // PDF page content handling requires checking multiple cases
func (te *TextExtractor) getPageContent(page *parser.Dictionary) ([]byte, error) {
	contentsObj := page.Get("Contents")
	if contentsObj == nil {
		// No content stream - empty page
		return []byte{}, nil
	}

	// Resolve if it's an indirect reference
	if ref, ok := contentsObj.(*parser.IndirectReference); ok {
		resolved, err := te.reader.GetObject(ref.Number)
		if err != nil {
			return nil, fmt.Errorf("failed to resolve contents reference: %w", err)
		}
		contentsObj = resolved
	}

	var allContent []byte

	// Check if it's a single stream or an array of streams
	switch obj := contentsObj.(type) {
	case *parser.Stream:
		// Single stream
		content, err := te.decodeStream(obj)
		if err != nil {
			return nil, fmt.Errorf("failed to decode content stream: %w", err)
		}
		allContent = content

	case *parser.Array:
		// Array of streams - concatenate them
		for i := 0; i < obj.Len(); i++ {
			streamRef := obj.Get(i)
			if streamRef == nil {
				continue
			}

			// Resolve indirect reference
			if ref, ok := streamRef.(*parser.IndirectReference); ok {
				resolved, err := te.reader.GetObject(ref.Number)
				if err != nil {
					continue
				}
				streamRef = resolved
			}

			// Decode stream
			if stream, ok := streamRef.(*parser.Stream); ok {
				content, err := te.decodeStream(stream)
				if err != nil {
					continue
				}
				allContent = append(allContent, content...)
				// Add space between streams for safety
				allContent = append(allContent, ' ')
			}
		}

	default:
		return nil, fmt.Errorf("unexpected Contents type: %T", obj)
	}

	return allContent, nil
}

// decodeStream decodes a PDF stream through its /Filter chain.
//
// /Filter and /DecodeParms may each be a single value or a parallel
// array (one entry per filter, applied in order); a stream with N
// filters applies them left to right, as Section 7.4 requires for
// chained encodings such as [ASCII85Decode FlateDecode].
func (te *TextExtractor) decodeStream(stream *parser.Stream) ([]byte, error) {
	filters, parms := streamFilterChain(stream.Dictionary())
	data := stream.Content()

	for i, filterName := range filters {
		var parmsDict *parser.Dictionary
		if i < len(parms) {
			parmsDict = parms[i]
		}

		decoded, err := decodeFilter(filterName, data, parmsDict)
		if err != nil {
			// A single unsupported/malformed filter in the chain should
			// not abort extraction of the rest of the document; fall
			// back to the data as it stood before this step.
			logging.Logger().Debug("stream filter decode failed, passing data through",
				slog.String("filter", filterName), slog.String("error", err.Error()))
			continue
		}
		data = decoded
	}

	return data, nil
}

// streamFilterChain normalizes a stream dictionary's /Filter and
// /DecodeParms entries (each a scalar or an array) into parallel slices.
func streamFilterChain(dict *parser.Dictionary) ([]string, []*parser.Dictionary) {
	filterObj := dict.Get("Filter")
	if filterObj == nil {
		return nil, nil
	}

	var names []string
	switch v := filterObj.(type) {
	case *parser.Name:
		names = []string{v.Value()}
	case *parser.Array:
		for i := 0; i < v.Len(); i++ {
			if name, ok := v.Get(i).(*parser.Name); ok {
				names = append(names, name.Value())
			}
		}
	}

	var parms []*parser.Dictionary
	switch v := dict.Get("DecodeParms").(type) {
	case *parser.Dictionary:
		parms = []*parser.Dictionary{v}
	case *parser.Array:
		for i := 0; i < v.Len(); i++ {
			d, _ := v.Get(i).(*parser.Dictionary)
			parms = append(parms, d)
		}
	}

	return names, parms
}

// decodeFilter applies a single named filter, delegating to
// internal/filter's decoder set. Image-only filters (DCTDecode and
// others a text extractor never rasterizes) pass their data through
// unchanged rather than erroring.
func decodeFilter(name string, data []byte, parms *parser.Dictionary) ([]byte, error) {
	getParam := func(key string) (int64, bool) {
		if parms == nil {
			return 0, false
		}
		if v, ok := parms.Get(key).(*parser.Integer); ok {
			return v.Value(), true
		}
		return 0, false
	}

	switch name {
	case "FlateDecode", "Fl":
		return filter.NewFlateDecoder(filter.PredictorParamsFromDict(getParam)).Decode(data)
	case "LZWDecode", "LZW":
		earlyChange := 1
		if v, ok := getParam("EarlyChange"); ok {
			earlyChange = int(v)
		}
		return filter.NewLZWDecoder(earlyChange, filter.PredictorParamsFromDict(getParam)).Decode(data)
	case "ASCIIHexDecode", "AHx":
		return filter.NewASCIIHexDecoder().Decode(data)
	case "ASCII85Decode", "A85":
		return filter.NewASCII85Decoder().Decode(data)
	case "RunLengthDecode", "RL":
		return filter.NewRunLengthDecoder().Decode(data)
	case "", "DCTDecode", "DCT", "JPXDecode", "CCITTFaxDecode", "CCF", "JBIG2Decode":
		return data, nil
	default:
		return data, nil
	}
}


// processOperator processes a single content stream operator.
//
// This is the heart of text extraction - it interprets text operators
// and updates text state or extracts text elements.
//
// Reference: PDF 1.7 specification, Section 9.4 (Text Objects).
//
//nolint:cyclop,funlen,gocognit,gocyclo // Text operator processing inherently requires many cases
func (te *TextExtractor) processOperator(op *Operator) {
	switch op.Name {
	// Graphics state operators (Section 8.4.4, 8.4.2)
	case "q": // Save graphics state
		te.ctmStack = append(te.ctmStack, te.ctm)

	case "Q": // Restore graphics state
		if n := len(te.ctmStack); n > 0 {
			te.ctm = te.ctmStack[n-1]
			te.ctmStack = te.ctmStack[:n-1]
		}

	case "cm": // Modify current transformation matrix
		if len(op.Operands) >= 6 {
			a := getNumber(op.Operands[0])
			b := getNumber(op.Operands[1])
			c := getNumber(op.Operands[2])
			d := getNumber(op.Operands[3])
			e := getNumber(op.Operands[4])
			f := getNumber(op.Operands[5])
			if a != nil && b != nil && c != nil && d != nil && e != nil && f != nil {
				te.ctm = multiplyMatrix([6]float64{*a, *b, *c, *d, *e, *f}, te.ctm)
			}
		}

	// Text object delimiters (Section 9.4.1)
	case "BT": // Begin text
		te.textState.Reset()

	case "ET": // End text
		// Text object complete - nothing to do

	// Text state operators (Section 9.3)
	case "Tc": // Set character spacing
		if len(op.Operands) >= 1 {
			if num := getNumber(op.Operands[0]); num != nil {
				te.textState.CharSpace = *num
			}
		}

	case "Tw": // Set word spacing
		if len(op.Operands) >= 1 {
			if num := getNumber(op.Operands[0]); num != nil {
				te.textState.WordSpace = *num
			}
		}

	case "Tz": // Set horizontal scaling
		if len(op.Operands) >= 1 {
			if num := getNumber(op.Operands[0]); num != nil {
				te.textState.HorizScale = *num
			}
		}

	case "TL": // Set text leading
		if len(op.Operands) >= 1 {
			if num := getNumber(op.Operands[0]); num != nil {
				te.textState.Leading = *num
			}
		}

	case "Tf": // Set font and size
		if len(op.Operands) >= 2 {
			if name, ok := op.Operands[0].(*parser.Name); ok {
				te.textState.FontName = name.Value()
				// Load font decoder for this font (lazy loading)
				te.loadFontDecoder(name.Value())
			}
			if num := getNumber(op.Operands[1]); num != nil {
				te.textState.FontSize = *num
			}
		}

	case "Tr": // Set text rendering mode
		// Not needed for text extraction (affects appearance only)

	case "Ts": // Set text rise
		if len(op.Operands) >= 1 {
			if num := getNumber(op.Operands[0]); num != nil {
				te.textState.Rise = *num
			}
		}

	// Text positioning operators (Section 9.4.2)
	case "Td": // Move text position
		if len(op.Operands) >= 2 {
			tx := getNumber(op.Operands[0])
			ty := getNumber(op.Operands[1])
			if tx != nil && ty != nil {
				te.textState.Translate(*tx, *ty)
			}
		}

	case "TD": // Move text position and set leading
		if len(op.Operands) >= 2 {
			tx := getNumber(op.Operands[0])
			ty := getNumber(op.Operands[1])
			if tx != nil && ty != nil {
				te.textState.TranslateSetLeading(*tx, *ty)
			}
		}

	case "Tm": // Set text matrix
		if len(op.Operands) >= 6 {
			a := getNumber(op.Operands[0])
			b := getNumber(op.Operands[1])
			c := getNumber(op.Operands[2])
			d := getNumber(op.Operands[3])
			e := getNumber(op.Operands[4])
			f := getNumber(op.Operands[5])
			if a != nil && b != nil && c != nil && d != nil && e != nil && f != nil {
				te.textState.SetTextMatrix(*a, *b, *c, *d, *e, *f)
			}
		}

	case "T*": // Move to start of next line
		te.textState.MoveToNextLine()

	// Text showing operators (Section 9.4.3)
	case "Tj": // Show text string
		if len(op.Operands) >= 1 {
			if str, ok := op.Operands[0].(*parser.String); ok {
				// Use Bytes() to get raw glyph bytes without UTF-8 conversion
				te.addTextBytes(str.Bytes())
			}
		}

	case "TJ": // Show text with individual glyph positioning
		if len(op.Operands) >= 1 {
			if arr, ok := op.Operands[0].(*parser.Array); ok {
				te.processTextArray(arr)
			}
		}

	case "'": // Move to next line and show text
		te.textState.MoveToNextLine()
		if len(op.Operands) >= 1 {
			if str, ok := op.Operands[0].(*parser.String); ok {
				te.addTextBytes(str.Bytes())
			}
		}

	case "\"": // Set word/char spacing, move to next line, show text
		if len(op.Operands) >= 3 {
			if aw := getNumber(op.Operands[0]); aw != nil {
				te.textState.WordSpace = *aw
			}
			if ac := getNumber(op.Operands[1]); ac != nil {
				te.textState.CharSpace = *ac
			}
			te.textState.MoveToNextLine()
			if str, ok := op.Operands[2].(*parser.String); ok {
				te.addTextBytes(str.Bytes())
			}
		}

	// Nonstroking color operators (Section 8.6.8): only the fill color
	// feeds TextSpan.color, since glyphs are painted with the fill, not
	// stroke, color under the default text rendering mode.
	case "g": // DeviceGray
		if len(op.Operands) >= 1 {
			if v := getNumber(op.Operands[0]); v != nil {
				te.fillColor = [3]float64{*v, *v, *v}
			}
		}

	case "rg": // DeviceRGB
		if len(op.Operands) >= 3 {
			r, gr, b := getNumber(op.Operands[0]), getNumber(op.Operands[1]), getNumber(op.Operands[2])
			if r != nil && gr != nil && b != nil {
				te.fillColor = [3]float64{*r, *gr, *b}
			}
		}

	case "k": // DeviceCMYK
		if len(op.Operands) >= 4 {
			c, m, y, kk := getNumber(op.Operands[0]), getNumber(op.Operands[1]), getNumber(op.Operands[2]), getNumber(op.Operands[3])
			if c != nil && m != nil && y != nil && kk != nil {
				te.fillColor = cmykToRGB(*c, *m, *y, *kk)
			}
		}

	case "sc", "scn": // Set color in the current nonstroking color space
		if vals := numericOperands(op.Operands); len(vals) == 3 {
			te.fillColor = [3]float64{vals[0], vals[1], vals[2]}
		} else if len(vals) == 1 {
			te.fillColor = [3]float64{vals[0], vals[0], vals[0]}
		} else if len(vals) == 4 {
			te.fillColor = cmykToRGB(vals[0], vals[1], vals[2], vals[3])
		}
		// A Separation/Pattern name operand (no numeric components, or a
		// trailing /Name for scn) leaves fillColor at its prior value:
		// approximating arbitrary tint transforms and pattern fills as
		// the previous solid color is a closer match than resetting to
		// black.

	// Marked content operators (Section 14.6, 14.9.4 for /ActualText)
	case "BMC": // Begin marked content
		te.mcStack = append(te.mcStack, markedContentEntry{})

	case "BDC": // Begin marked content with properties
		te.mcStack = append(te.mcStack, te.resolveMarkedContentEntry(op))

	case "EMC": // End marked content
		if n := len(te.mcStack); n > 0 {
			te.mcStack = te.mcStack[:n-1]
		}

	// Compatibility operators (Section 7.8.2): bracket content a
	// conforming reader may not understand; safe to ignore.
	case "BX", "EX":

	// XObject invocation (Section 8.10)
	case "Do":
		if len(op.Operands) >= 1 {
			if name, ok := op.Operands[0].(*parser.Name); ok {
				te.invokeXObject(name.Value())
			}
		}
	}
}

// addTextBytes adds text from raw glyph bytes to the extracted elements.
//
// This creates a TextElement with the current position from the text matrix.
// The text is decoded from glyph bytes to Unicode using the current font's CMap/encoding.
func (te *TextExtractor) addTextBytes(glyphBytes []byte) {
	if len(glyphBytes) == 0 {
		return
	}

	// Decode glyph bytes to Unicode text
	decodedText := te.decodeTextBytes(glyphBytes)
	decoder, hasDecoder := te.fontDecoders[te.textState.FontName]

	// Text-space origin before this run is shown, transformed through the
	// current transformation matrix into device space (Trm, minus the
	// font-size/rise scaling PDF 1.7 Section 9.4.4 folds into the glyph
	// transform rather than the origin point).
	x, y := applyMatrixPoint(te.textState.CurrentX, te.textState.CurrentY, te.ctm)
	height := te.textState.FontSize * matrixScaleY(te.ctm)

	// Advance per PDF 1.7 Section 9.4.4's tx formula, from the font's own
	// /Widths (simple font) or /W+/DW (composite font) glyph-advance
	// table, computed over the raw glyph codes rather than the decoded
	// (and possibly ActualText-substituted or ligature-expanded) text.
	var tx float64
	if hasDecoder {
		tx = decoder.Advance(glyphBytes, te.textState.FontSize, te.textState.CharSpace, te.textState.WordSpace, te.textState.HorizScale)
	}

	// /ActualText substitutes for the whole enclosing marked-content span
	// (Section 14.9.4), not once per show operator inside it: the
	// replacement is emitted on the first text shown within the span,
	// and subsequent shows in the same span contribute only their
	// positional advance, not a second copy of the text.
	displayText := decodedText
	if entry := te.activeActualText(); entry != nil {
		if entry.consumed {
			displayText = ""
		} else {
			displayText = *entry.actualText
			entry.consumed = true
		}
	}

	// A TJ adjustment past spaceThreshold since the last glyph run is
	// the source's own word-gap signal (spec.md Open Question (a)): fold
	// it in as a literal leading space rather than leaving it implicit in
	// the advance, so text extracted without a layout pass still reads
	// as words instead of a run-on string.
	if te.pendingSpace && displayText != "" {
		displayText = " " + displayText
	}
	te.pendingSpace = false

	// Create text element with the (possibly ActualText-substituted) text
	if displayText != "" {
		elem := NewTextElement(displayText, x, y, tx, height, te.textState.FontName, te.textState.FontSize)
		if hasDecoder {
			elem.FontWeight = decoder.Weight
			elem.Italic = decoder.Italic
		}
		elem.Color = te.fillColor
		elem.MCID = te.activeMCID()
		te.elements = append(te.elements, elem)
	}

	// Advance text position
	te.textState.AdvanceX(tx)
}

// processTextArray processes a TJ array with positioning adjustments.
//
// The TJ operator takes an array that can contain:
//   - Strings: Text to show
//   - Numbers: Position adjustments (negative values move text forward)
//
// Example: [(Hello) -250 (World)] shows "Hello", moves forward 250 units, shows "World"
//
// Reference: PDF 1.7 specification, Section 9.4.3 (Text Showing Operators).
func (te *TextExtractor) processTextArray(arr *parser.Array) {
	for i := 0; i < arr.Len(); i++ {
		item := arr.Get(i)
		if item == nil {
			continue
		}

		switch obj := item.(type) {
		case *parser.String:
			// Text string - add it
			te.addTextBytes(obj.Bytes())

		case *parser.Integer, *parser.Real:
			// Position adjustment
			if num := getNumber(obj); num != nil {
				// Negative values move forward, positive values move backward
				// The unit is 1/1000 of a text space unit
				adjustment := -*num / 1000.0 * te.textState.FontSize * (te.textState.HorizScale / 100.0)
				if -*num > te.spaceThreshold {
					te.pendingSpace = true
				}
				te.textState.AdvanceX(adjustment)
			}
		}
	}
}

// getNumber extracts a numeric value from a PDF object.
//
// Returns nil if the object is not a number.
func getNumber(obj parser.PdfObject) *float64 {
	switch v := obj.(type) {
	case *parser.Integer:
		val := float64(v.Value())
		return &val
	case *parser.Real:
		val := v.Value()
		return &val
	default:
		return nil
	}
}

// activeActualText returns the innermost open marked-content entry that
// carries an /ActualText replacement, or nil if none is open.
func (te *TextExtractor) activeActualText() *markedContentEntry {
	for i := len(te.mcStack) - 1; i >= 0; i-- {
		if te.mcStack[i].actualText != nil {
			return &te.mcStack[i]
		}
	}
	return nil
}

// activeMCID returns the innermost open marked-content id, or nil if the
// text shown isn't inside a tagged marked-content sequence.
func (te *TextExtractor) activeMCID() *int {
	for i := len(te.mcStack) - 1; i >= 0; i-- {
		if te.mcStack[i].mcid != nil {
			return te.mcStack[i].mcid
		}
	}
	return nil
}

// numericOperands returns the leading run of operands that are numbers,
// stopping at the first non-numeric operand (a color space resource name,
// for scn's trailing Pattern name operand).
func numericOperands(operands []parser.PdfObject) []float64 {
	var vals []float64
	for _, o := range operands {
		n := getNumber(o)
		if n == nil {
			break
		}
		vals = append(vals, *n)
	}
	return vals
}

// cmykToRGB applies the naive subtractive conversion PDF viewers commonly
// use when no ICC profile is available (Section 8.6.5.3).
func cmykToRGB(c, m, y, k float64) [3]float64 {
	return [3]float64{
		(1 - c) * (1 - k),
		(1 - m) * (1 - k),
		(1 - y) * (1 - k),
	}
}

// resolveMarkedContentEntry builds the markedContentEntry a BDC operator
// pushes, extracting /ActualText from its properties operand, which is
// either an inline dictionary or a name referencing the page's
// /Properties resource dictionary.
func (te *TextExtractor) resolveMarkedContentEntry(op *Operator) markedContentEntry {
	if len(op.Operands) < 2 {
		return markedContentEntry{}
	}

	var props *parser.Dictionary
	switch v := op.Operands[1].(type) {
	case *parser.Dictionary:
		props = v
	case *parser.Name:
		if te.pageResources != nil {
			if propsDict := te.resolveDict(te.pageResources.Get("Properties")); propsDict != nil {
				props = te.resolveDict(propsDict.Get(v.Value()))
			}
		}
	}
	if props == nil {
		return markedContentEntry{}
	}

	var entry markedContentEntry

	if mcidObj := props.Get("MCID"); mcidObj != nil {
		if n := getNumber(mcidObj); n != nil {
			id := int(*n)
			entry.mcid = &id
		}
	}

	actualTextObj := props.Get("ActualText")
	if actualTextObj == nil {
		return entry
	}

	var raw []byte
	switch v := actualTextObj.(type) {
	case *parser.String:
		raw = v.Bytes()
	case *parser.HexString:
		raw = v.Bytes()
	default:
		return entry
	}

	text := pdfTextStringToUTF8(raw)
	entry.actualText = &text
	return entry
}

// pdfTextStringToUTF8 decodes a PDF text string (Section 7.9.2.2): a
// leading UTF-16BE byte-order mark (FE FF) selects UTF-16BE, otherwise
// the bytes are PDFDocEncoding, decoded byte by byte.
func pdfTextStringToUTF8(raw []byte) string {
	if len(raw) >= 2 && raw[0] == 0xFE && raw[1] == 0xFF {
		units := make([]uint16, 0, (len(raw)-2)/2)
		for i := 2; i+1 < len(raw); i += 2 {
			units = append(units, uint16(raw[i])<<8|uint16(raw[i+1]))
		}
		return string(utf16.Decode(units))
	}

	out := make([]rune, 0, len(raw))
	for _, b := range raw {
		if r, ok := fonts.PredefinedEncodingRune("PDFDocEncoding", b); ok {
			out = append(out, r)
		} else {
			out = append(out, rune(b))
		}
	}
	return string(out)
}

// invokeXObject interprets a Do operator naming an XObject resource. Only
// Form XObjects are recursed into (Image XObjects carry no text); the
// form's own content stream is parsed and processed with the current
// graphics state as its starting point, per PDF 1.7 Section 8.10.2: the
// form's /Matrix is concatenated onto the CTM before its content runs,
// and its own /Resources dictionary (if present) shadows the caller's
// for the duration of the form.
func (te *TextExtractor) invokeXObject(name string) {
	if te.xobjectDepth >= te.maxXObjectDepth {
		return
	}
	if te.pageResources == nil {
		return
	}

	xobjectsDict := te.resolveDict(te.pageResources.Get("XObject"))
	if xobjectsDict == nil {
		return
	}

	stream, ok := te.resolveObjAny(xobjectsDict.Get(name)).(*parser.Stream)
	if !ok {
		return
	}

	subtype := stream.Dictionary().GetName("Subtype")
	if subtype == nil || subtype.Value() != "Form" {
		return
	}

	formMatrix := identityMatrix()
	if arr := stream.Dictionary().GetArray("Matrix"); arr != nil && arr.Len() == 6 {
		var m [6]float64
		ok := true
		for i := 0; i < 6; i++ {
			n := getNumber(arr.Get(i))
			if n == nil {
				ok = false
				break
			}
			m[i] = *n
		}
		if ok {
			formMatrix = m
		}
	}

	content, err := te.decodeStream(stream)
	if err != nil || len(content) == 0 {
		return
	}

	operators, err := NewContentParser(content).ParseOperators()
	if err != nil {
		return
	}

	savedCTM := te.ctm
	savedCTMStack := te.ctmStack
	savedResources := te.pageResources
	te.ctm = multiplyMatrix(formMatrix, te.ctm)
	te.ctmStack = nil
	if formResources := te.resolveDict(stream.Dictionary().Get("Resources")); formResources != nil {
		te.pageResources = formResources
	}

	te.xobjectDepth++
	for _, childOp := range operators {
		te.processOperator(childOp)
	}
	te.xobjectDepth--

	te.ctm = savedCTM
	te.ctmStack = savedCTMStack
	te.pageResources = savedResources
}

// resolveObjAny resolves obj if it is an indirect reference, otherwise
// returns it unchanged.
func (te *TextExtractor) resolveObjAny(obj parser.PdfObject) parser.PdfObject {
	if ref, ok := obj.(*parser.IndirectReference); ok {
		resolved, err := te.reader.GetObject(ref.Number)
		if err != nil {
			return nil
		}
		return resolved
	}
	return obj
}

// getPageResources retrieves the Resources dictionary from a page.
//
// Resources can be inherited from parent nodes in the page tree,
// so we need to traverse up the tree if not found on the page itself.
//
// Reference: PDF 1.7 specification, Section 7.7.3.4 (Page Objects).
func (te *TextExtractor) getPageResources(page *parser.Dictionary) *parser.Dictionary {
	// Try to get Resources from page
	resourcesObj := page.Get("Resources")
	if resourcesObj != nil {
		// Resolve if it's an indirect reference
		if ref, ok := resourcesObj.(*parser.IndirectReference); ok {
			resolved, err := te.reader.GetObject(ref.Number)
			if err == nil {
				if dict, ok := resolved.(*parser.Dictionary); ok {
					return dict
				}
			}
		}
		// Direct dictionary
		if dict, ok := resourcesObj.(*parser.Dictionary); ok {
			return dict
		}
	}

	// Resources not found or not a dictionary - return empty dictionary
	return parser.NewDictionary()
}

// loadFontDecoder loads the font decoder for the given font name.
//
// This method:
//  1. Looks up the font in the page's Resources/Font dictionary
//  2. Extracts the ToUnicode CMap stream (if present)
//  3. Parses the CMap to build a glyph-to-Unicode mapping table
//  4. Creates a FontDecoder for this font
//  5. Caches the decoder for reuse
//
// If the font cannot be loaded or has no ToUnicode CMap, we create
// a default decoder that will use fallback encoding (Latin-1).
func (te *TextExtractor) loadFontDecoder(fontName string) {
	// Check if already loaded
	if _, exists := te.fontDecoders[fontName]; exists {
		return
	}

	// Get Font dictionary from Resources
	fontsObj := te.pageResources.Get("Font")
	if fontsObj == nil {
		// No fonts in resources - use default decoder
		te.fontDecoders[fontName] = NewFontDecoder(nil, "", false)
		return
	}

	// Resolve Font dictionary
	var fontsDict *parser.Dictionary
	if ref, ok := fontsObj.(*parser.IndirectReference); ok {
		resolved, err := te.reader.GetObject(ref.Number)
		if err == nil {
			fontsDict, _ = resolved.(*parser.Dictionary)
		}
	} else {
		fontsDict, _ = fontsObj.(*parser.Dictionary)
	}

	if fontsDict == nil {
		// Font dictionary not found - use default decoder
		te.fontDecoders[fontName] = NewFontDecoder(nil, "", false)
		return
	}

	// Get the specific font object
	fontObj := fontsDict.Get(fontName)
	if fontObj == nil {
		// Font not found - use default decoder
		te.fontDecoders[fontName] = NewFontDecoder(nil, "", false)
		return
	}

	// Resolve font object
	var fontDict *parser.Dictionary
	if ref, ok := fontObj.(*parser.IndirectReference); ok {
		resolved, err := te.reader.GetObject(ref.Number)
		if err == nil {
			fontDict, _ = resolved.(*parser.Dictionary)
		}
	} else {
		fontDict, _ = fontObj.(*parser.Dictionary)
	}

	if fontDict == nil {
		// Font dictionary not resolved - use default decoder
		te.fontDecoders[fontName] = NewFontDecoder(nil, "", false)
		return
	}

	descriptor := te.resolveFontDescriptor(fontDict)

	// Build a reverse (glyph ID -> Unicode) cmap from the font's embedded
	// TrueType/OpenType program, when one is present. This backstops
	// simple TrueType fonts that carry neither a ToUnicode CMap nor a
	// recognized base encoding, which golang.org/x/image/font/sfnt can
	// still resolve via its forward Unicode->glyph cmap subtable.
	embedded := te.loadEmbeddedCMapFromDescriptor(descriptor)

	// Infer weight/italic from the font's BaseFont name and descriptor
	// flags, for TextElement spans to report (spec's TextSpan font_weight
	// and is_italic fields; PDF carries no numeric weight class).
	baseFontName := ""
	if name := fontDict.GetName("BaseFont"); name != nil {
		baseFontName = name.Value()
	}
	fd := fonts.ParseFontDescriptor(descriptor)
	weight := fonts.WeightFromName(baseFontName, fd.IsBold())
	italic := fd.IsItalic() || strings.Contains(strings.ToLower(baseFontName), "italic") || strings.Contains(strings.ToLower(baseFontName), "oblique")

	// Extract encoding name AND Differences array
	encodingName := ""
	var differences map[uint16]string

	if encodingObj := fontDict.Get("Encoding"); encodingObj != nil {
		// Case 1: Encoding is a simple name (e.g., /WinAnsiEncoding)
		if name, ok := encodingObj.(*parser.Name); ok {
			encodingName = name.Value()
		} else {
			// Case 2: Encoding is a dictionary (custom encoding with Differences)
			// Resolve if its an indirect reference
			if ref, ok := encodingObj.(*parser.IndirectReference); ok {
				resolved, err := te.reader.GetObject(ref.Number)
				if err == nil {
					encodingObj = resolved
				}
			}

			// Now check if its a dictionary
			if encDict, ok := encodingObj.(*parser.Dictionary); ok {
				// Get BaseEncoding (if specified)
				if baseEnc := encDict.Get("BaseEncoding"); baseEnc != nil {
					if name, ok := baseEnc.(*parser.Name); ok {
						encodingName = name.Value()
					}
				}

				// Parse Differences array (custom glyph mappings)
				differences = te.parseDifferencesArray(encDict)
			}
		}
	}

	// Important: Identity-H/Identity-V encodings always use 2-byte
	// glyphs; this is also this extractor's signal that fontDict is a
	// Type0 composite font, so the CID->GID map and /W widths below
	// only apply when it's set.
	use2ByteGlyphs := strings.Contains(encodingName, "Identity")

	var cidToGID *fonts.CIDToGIDMap
	if use2ByteGlyphs {
		cidToGID = te.resolveCIDToGIDMap(fontDict)
	}
	widths := te.resolveFontWidths(fontDict, descriptor, use2ByteGlyphs)

	finishDecoder := func(decoder *FontDecoder) {
		decoder.SetEmbeddedCMap(embedded)
		decoder.SetCIDToGIDMap(cidToGID)
		decoder.SetWidths(widths)
		decoder.SetStyle(weight, italic)
		te.fontDecoders[fontName] = decoder
	}

	// Try to get ToUnicode CMap
	toUnicodeObj := fontDict.Get("ToUnicode")
	if toUnicodeObj == nil {
		// No ToUnicode CMap - check if we have Differences array
		var decoder *FontDecoder
		if differences != nil && len(differences) > 0 {
			// Create decoder with custom encoding (Differences array)
			decoder = NewFontDecoderWithCustomEncoding(differences, encodingName, use2ByteGlyphs)
		} else {
			// Fallback: create decoder with encoding name only
			decoder = NewFontDecoder(nil, encodingName, use2ByteGlyphs)
		}
		finishDecoder(decoder)
		return
	}

	// Resolve ToUnicode stream
	var toUnicodeStream *parser.Stream
	if ref, ok := toUnicodeObj.(*parser.IndirectReference); ok {
		resolved, err := te.reader.GetObject(ref.Number)
		if err == nil {
			toUnicodeStream, _ = resolved.(*parser.Stream)
		}
	} else {
		toUnicodeStream, _ = toUnicodeObj.(*parser.Stream)
	}

	if toUnicodeStream == nil {
		// ToUnicode is not a stream - create decoder with encoding only
		finishDecoder(NewFontDecoder(nil, encodingName, use2ByteGlyphs))
		return
	}

	// Decode the CMap stream (handle compression)
	cmapData, err := te.decodeStream(toUnicodeStream)
	if err != nil {
		// Failed to decode stream - create decoder with encoding only
		finishDecoder(NewFontDecoder(nil, encodingName, use2ByteGlyphs))
		return
	}

	// Parse CMap
	cmap, err := ParseCMapStream(cmapData)
	if err != nil {
		// Failed to parse CMap - create decoder with encoding only
		finishDecoder(NewFontDecoder(nil, encodingName, use2ByteGlyphs))
		return
	}

	// Create decoder with CMap
	decoder := NewFontDecoder(cmap, encodingName, use2ByteGlyphs)

	// Add Differences array if present (for fonts with custom encoding)
	if differences != nil && len(differences) > 0 {
		customEncoding := buildCustomEncoding(differences)
		decoder.customEncoding = customEncoding
	}

	finishDecoder(decoder)
}

// resolveFontDescriptor resolves fontDict's /FontDescriptor. For
// composite (Type0) fonts the descriptor lives on the single entry of
// /DescendantFonts instead of on fontDict itself.
func (te *TextExtractor) resolveFontDescriptor(fontDict *parser.Dictionary) *parser.Dictionary {
	descriptor := te.resolveDict(fontDict.Get("FontDescriptor"))
	if descriptor == nil {
		if descendants := te.resolveArray(fontDict.Get("DescendantFonts")); descendants != nil && descendants.Len() > 0 {
			if descFont := te.resolveDict(descendants.Get(0)); descFont != nil {
				descriptor = te.resolveDict(descFont.Get("FontDescriptor"))
			}
		}
	}
	return descriptor
}

// resolveDescendantFont returns the single entry of fontDict's
// /DescendantFonts array, the CIDFont dictionary carrying a Type0
// font's /CIDToGIDMap and /DW, /W widths (ISO 32000-1:2008 Section
// 9.7.4).
func (te *TextExtractor) resolveDescendantFont(fontDict *parser.Dictionary) *parser.Dictionary {
	descendants := te.resolveArray(fontDict.Get("DescendantFonts"))
	if descendants == nil || descendants.Len() == 0 {
		return nil
	}
	return te.resolveDict(descendants.Get(0))
}

// resolveCIDToGIDMap resolves a Type0 font's /CIDToGIDMap entry: the
// Identity mapping when it's absent or names /Identity, an explicit
// table when it's a stream.
func (te *TextExtractor) resolveCIDToGIDMap(fontDict *parser.Dictionary) *fonts.CIDToGIDMap {
	descFont := te.resolveDescendantFont(fontDict)
	if descFont == nil {
		return nil
	}

	stream, ok := te.resolveObjAny(descFont.Get("CIDToGIDMap")).(*parser.Stream)
	if !ok {
		return nil
	}

	data, err := te.decodeStream(stream)
	if err != nil {
		return nil
	}
	return fonts.NewCIDToGIDMapFromStream(data)
}

// resolveFontWidths resolves fontDict's glyph-advance table: a simple
// font's /FirstChar+/Widths array with its /FontDescriptor's
// /MissingWidth fallback, or a Type0 font's descendant /DW+/W array.
func (te *TextExtractor) resolveFontWidths(fontDict, descriptor *parser.Dictionary, composite bool) *fonts.FontWidths {
	if composite {
		descFont := te.resolveDescendantFont(fontDict)
		if descFont == nil {
			return nil
		}
		dw := 0.0
		if num := getNumber(te.resolveObjAny(descFont.Get("DW"))); num != nil {
			dw = *num
		}
		cidWidths := te.parseCompositeWidthsArray(te.resolveArray(descFont.Get("W")))
		return fonts.NewCompositeFontWidths(dw, cidWidths)
	}

	widthsArr := te.resolveArray(fontDict.Get("Widths"))
	if widthsArr == nil {
		return nil
	}

	widths := make([]float64, widthsArr.Len())
	for i := 0; i < widthsArr.Len(); i++ {
		if num := getNumber(te.resolveObjAny(widthsArr.Get(i))); num != nil {
			widths[i] = *num
		}
	}

	missingWidth := 0.0
	if descriptor != nil {
		if num := getNumber(te.resolveObjAny(descriptor.Get("MissingWidth"))); num != nil {
			missingWidth = *num
		}
	}

	return fonts.NewSimpleFontWidths(int(fontDict.GetInteger("FirstChar")), widths, missingWidth)
}

// parseCompositeWidthsArray parses a Type0 font's /W array (ISO
// 32000-1:2008 Section 9.7.4.3): a sequence of either
// `c [w1 w2 ... wn]` (consecutive CIDs from c, one width each) or
// `cFirst cLast w` (an inclusive CID range sharing one width).
func (te *TextExtractor) parseCompositeWidthsArray(w *parser.Array) map[uint16]float64 {
	widths := make(map[uint16]float64)
	if w == nil {
		return widths
	}

	i := 0
	for i < w.Len() {
		first := getNumber(te.resolveObjAny(w.Get(i)))
		i++
		if first == nil || i >= w.Len() {
			continue
		}

		if arr, ok := te.resolveObjAny(w.Get(i)).(*parser.Array); ok {
			cid := uint16(*first)
			for j := 0; j < arr.Len(); j++ {
				if width := getNumber(te.resolveObjAny(arr.Get(j))); width != nil {
					widths[cid] = *width
				}
				cid++
			}
			i++
			continue
		}

		last := getNumber(te.resolveObjAny(w.Get(i)))
		i++
		if last == nil || i >= w.Len() {
			continue
		}
		width := getNumber(te.resolveObjAny(w.Get(i)))
		i++
		if width == nil {
			continue
		}
		for cid := int(*first); cid <= int(*last); cid++ {
			widths[uint16(cid)] = *width
		}
	}

	return widths
}

// loadEmbeddedCMapFromDescriptor resolves a /FontDescriptor's
// /FontFile2 (or /FontFile3 for OpenType-flavored CFF/TrueType
// programs) and builds a reverse glyph-ID-to-Unicode cmap from it.
// Returns nil if no embedded program is present or it fails to parse,
// which FontDecoder treats as "no embedded cmap."
func (te *TextExtractor) loadEmbeddedCMapFromDescriptor(descriptor *parser.Dictionary) *fonts.EmbeddedCMap {
	if descriptor == nil {
		return nil
	}

	fontFileObj := descriptor.Get("FontFile2")
	if fontFileObj == nil {
		fontFileObj = descriptor.Get("FontFile3")
	}
	if fontFileObj == nil {
		return nil
	}

	var fontFileStream *parser.Stream
	if ref, ok := fontFileObj.(*parser.IndirectReference); ok {
		resolved, err := te.reader.GetObject(ref.Number)
		if err == nil {
			fontFileStream, _ = resolved.(*parser.Stream)
		}
	} else {
		fontFileStream, _ = fontFileObj.(*parser.Stream)
	}
	if fontFileStream == nil {
		return nil
	}

	fontData, err := te.decodeStream(fontFileStream)
	if err != nil {
		return nil
	}

	embedded, err := fonts.BuildReverseCmap(fontData)
	if err != nil {
		logging.Logger().Debug("embedded font cmap build failed", slog.String("error", err.Error()))
		return nil
	}
	return embedded
}

func (te *TextExtractor) resolveDict(obj parser.PdfObject) *parser.Dictionary {
	if ref, ok := obj.(*parser.IndirectReference); ok {
		resolved, err := te.reader.GetObject(ref.Number)
		if err != nil {
			return nil
		}
		obj = resolved
	}
	d, _ := obj.(*parser.Dictionary)
	return d
}

func (te *TextExtractor) resolveArray(obj parser.PdfObject) *parser.Array {
	if ref, ok := obj.(*parser.IndirectReference); ok {
		resolved, err := te.reader.GetObject(ref.Number)
		if err != nil {
			return nil
		}
		obj = resolved
	}
	a, _ := obj.(*parser.Array)
	return a
}

// decodeTextBytes decodes glyph bytes to Unicode text using the current font decoder.
//
// This method looks up the decoder for the current font and uses it to
// convert raw glyph bytes (from PDF text operators) to readable Unicode text.
//
// If no decoder is available for the current font, it treats the bytes as Latin-1.
func (te *TextExtractor) decodeTextBytes(glyphBytes []byte) string {
	// Get decoder for current font
	decoder, exists := te.fontDecoders[te.textState.FontName]
	if !exists {
		// No decoder - treat as Latin-1 (fallback)
		runes := make([]rune, len(glyphBytes))
		for i, b := range glyphBytes {
			runes[i] = rune(b)
		}
		return string(runes)
	}

	// Decode using font decoder (no conversion needed - already []byte)
	return decoder.DecodeString(glyphBytes)
}

// parseDifferencesArray parses the /Differences array from an Encoding dictionary.
//
// The Differences array specifies custom glyph name mappings that override
// the base encoding. The format is (PDF 1.7 Section 9.6.6.1):
//
//	[code1 /name1 /name2 ... codeN /nameN ...]
//
// Example:
//
//	[1 /zero /one /two /three /four /five /six /seven /eight /nine]
//	â†’ Glyph 1='zero', 2='one', ..., 10='nine'
//
// This is used when a font has custom glyph IDs that don't match standard encodings.
// For example, a font might map digits to non-standard glyph IDs (like 0x01-0x0A
// instead of 0x30-0x39).
//
// Returns: map[glyphID]glyphName
func (te *TextExtractor) parseDifferencesArray(encodingDict *parser.Dictionary) map[uint16]string {
	logger := logging.Logger().With(slog.String("func", "parseDifferencesArray"))

	differences := make(map[uint16]string)

	diffsObj := encodingDict.Get("Differences")
	if diffsObj == nil {
		logger.Debug("No Differences found in encoding dictionary")
		return differences
	}
	logger.Debug("Differences object found", slog.Any("type", diffsObj))

	// Resolve if indirect reference
	if ref, ok := diffsObj.(*parser.IndirectReference); ok {
		resolved, err := te.reader.GetObject(ref.Number)
		if err == nil {
			diffsObj = resolved
		} else {
			return differences
		}
	}

	diffsArr, ok := diffsObj.(*parser.Array)
	if !ok {
		return differences
	}

	// Parse array: alternating integers (starting codes) and names (glyph names)
	// Format: [code1 name1 name2 name3 code2 name4 name5 ...]
	var currentCode int
	for i := 0; i < diffsArr.Len(); i++ {
		elem := diffsArr.Get(i)
		if elem == nil {
			continue
		}

		// Check if element is an integer (new starting code)
		if intObj, ok := elem.(*parser.Integer); ok {
			currentCode = int(intObj.Value())
		} else if name, ok := elem.(*parser.Name); ok {
			// Element is a glyph name
			glyphName := name.Value()
			// Remove leading '/' if present (PDF names sometimes include it)
			if len(glyphName) > 0 && glyphName[0] == '/' {
				glyphName = glyphName[1:]
			}
			differences[uint16(currentCode)] = glyphName
			currentCode++
			if currentCode <= 11 { // Log first 10 mappings
				logger.Debug("Mapped glyph",
					slog.Int("code", currentCode-1),
					slog.String("name", glyphName),
				)
			}
		}
	}

	logger.Debug("Finished", slog.Int("total_mappings", len(differences)))
	return differences
}
