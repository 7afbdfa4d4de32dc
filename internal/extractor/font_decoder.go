package extractor

import (
	"github.com/coregx/pdftext/internal/fonts"
)

// FontDecoder converts the raw glyph-code bytes a content stream's text
// operators carry into Unicode text, for one font resource.
//
// It is a thin adapter over fonts.EncodingChain: it owns the code-width
// decision (1 byte for simple fonts, 2 bytes for Identity-H/V composite
// fonts) and delegates the actual code-to-Unicode resolution to the
// chain, so the priority order (ToUnicode, then Differences, then
// embedded cmap, then base encoding, then AGL-over-raw-code, then
// U+FFFD) lives in exactly one place.
type FontDecoder struct {
	chain          fonts.EncodingChain
	use2ByteGlyphs bool

	// customEncoding holds Differences-array glyph names already resolved
	// to Unicode strings, keyed by character code. Populated by
	// buildCustomEncoding and consulted after the chain's ToUnicode CMap
	// but ahead of the chain's own Differences map, so callers that built
	// the decoder before the Differences array was known can still attach
	// it afterward.
	customEncoding map[uint16]string

	// Weight and Italic carry the font's style, inferred from its
	// BaseFont name and /FontDescriptor flags, for TextElement spans to
	// report alongside the decoded text.
	Weight fonts.Weight
	Italic bool

	// widths resolves a code's glyph advance from the font's /Widths or
	// /W array, nil only when neither was parsed.
	widths *fonts.FontWidths
}

// SetStyle records the font's inferred weight and italic flag.
func (d *FontDecoder) SetStyle(weight fonts.Weight, italic bool) {
	d.Weight = weight
	d.Italic = italic
}

// NewFontDecoder creates a decoder backed by an optional ToUnicode CMap
// and the font's named base encoding.
func NewFontDecoder(cmap *CMapTable, encodingName string, use2ByteGlyphs bool) *FontDecoder {
	chain := fonts.EncodingChain{BaseEncoding: encodingName}
	if cmap != nil {
		chain.ToUnicode = cmap
	}
	return &FontDecoder{chain: chain, use2ByteGlyphs: use2ByteGlyphs, Weight: fonts.WeightNormal}
}

// NewFontDecoderWithCustomEncoding creates a decoder driven by a
// Differences array (resolved via the Adobe Glyph List) instead of a
// ToUnicode CMap.
func NewFontDecoderWithCustomEncoding(differences map[uint16]string, encodingName string, use2ByteGlyphs bool) *FontDecoder {
	chain := fonts.EncodingChain{
		BaseEncoding: encodingName,
		Differences:  differences,
	}
	return &FontDecoder{chain: chain, use2ByteGlyphs: use2ByteGlyphs, Weight: fonts.WeightNormal}
}

// SetEmbeddedCMap attaches an embedded font's inverted cmap, consulted
// when neither ToUnicode nor Differences resolves a code.
func (d *FontDecoder) SetEmbeddedCMap(embedded *fonts.EmbeddedCMap) {
	d.chain.Embedded = embedded
}

// SetCIDToGIDMap attaches a composite font's /CIDToGIDMap, consulted
// ahead of the embedded cmap lookup. Leaving this unset is the Identity
// mapping every composite font uses unless it names an explicit map.
func (d *FontDecoder) SetCIDToGIDMap(cidToGID *fonts.CIDToGIDMap) {
	d.chain.CIDToGID = cidToGID
}

// SetWidths attaches the font's /Widths (simple font) or /W+/DW
// (composite font) glyph-advance table.
func (d *FontDecoder) SetWidths(widths *fonts.FontWidths) {
	d.widths = widths
}

// DecodeString decodes raw glyph-code bytes into Unicode text.
func (d *FontDecoder) DecodeString(glyphBytes []byte) string {
	width := 1
	if d.use2ByteGlyphs {
		width = 2
	}

	var out []byte
	for i := 0; i+width <= len(glyphBytes); i += width {
		var code uint16
		if width == 2 {
			code = uint16(glyphBytes[i])<<8 | uint16(glyphBytes[i+1])
		} else {
			code = uint16(glyphBytes[i])
		}

		if d.chain.ToUnicode != nil {
			if s, ok := d.chain.ToUnicode.GetString(code); ok && s != "" {
				out = append(out, s...)
				continue
			}
		}
		if s, ok := d.customEncoding[code]; ok {
			out = append(out, s...)
			continue
		}

		out = append(out, d.chain.Resolve(code)...)
	}

	return string(out)
}

// Advance returns the total horizontal displacement glyphBytes produces
// per PDF 1.7 Section 9.4.4's tx formula: for each code,
// tx = ((w0/1000)*Tfs + Tc + (code==32 in a single-byte font ? Tw : 0)) * Th,
// using the font's real /Widths or /W array in place of a flat
// placeholder.
func (d *FontDecoder) Advance(glyphBytes []byte, fontSize, charSpace, wordSpace, horizScalePercent float64) float64 {
	width := 1
	if d.use2ByteGlyphs {
		width = 2
	}
	th := horizScalePercent / 100.0

	var tx float64
	for i := 0; i+width <= len(glyphBytes); i += width {
		var code uint16
		if width == 2 {
			code = uint16(glyphBytes[i])<<8 | uint16(glyphBytes[i+1])
		} else {
			code = uint16(glyphBytes[i])
		}

		glyphAdvance := (d.widths.GetWidth(code)/1000.0)*fontSize + charSpace
		if width == 1 && code == ' ' {
			glyphAdvance += wordSpace
		}
		tx += glyphAdvance * th
	}
	return tx
}

// buildCustomEncoding resolves a Differences array's glyph names to
// Unicode strings via the Adobe Glyph List, for attaching to a decoder
// that was constructed before the Differences array was parsed.
func buildCustomEncoding(differences map[uint16]string) map[uint16]string {
	resolved := make(map[uint16]string, len(differences))
	for code, name := range differences {
		if s, ok := fonts.AGLUnicode(name); ok {
			resolved[code] = s
			continue
		}
		resolved[code] = "�"
	}
	return resolved
}
