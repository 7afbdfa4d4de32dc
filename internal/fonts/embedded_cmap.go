package fonts

import (
	"fmt"

	"golang.org/x/image/font/sfnt"
)

// reverseCmapScanRanges bounds how far into the Unicode range
// BuildReverseCmap probes when inverting a font's forward cmap. Embedded
// subset fonts used for text extraction are overwhelmingly Latin-script,
// so scanning Basic Latin through Latin Extended-B, plus General
// Punctuation and common symbol blocks, catches the glyphs that matter
// without the cost of walking all of Unicode per font.
var reverseCmapScanRanges = [][2]rune{
	{0x0020, 0x024F}, // Basic Latin, Latin-1 Supplement, Latin Extended-A/B
	{0x0370, 0x03FF}, // Greek
	{0x0400, 0x04FF}, // Cyrillic
	{0x2000, 0x206F}, // General Punctuation
	{0x2070, 0x20CF}, // Superscripts, currency symbols
	{0xFB00, 0xFB06}, // Latin ligatures
}

// EmbeddedCMap is a GID-to-Unicode lookup built by inverting an embedded
// TrueType/OpenType font's forward (Unicode-to-GID) cmap subtable.
//
// golang.org/x/image/font/sfnt exposes only the forward direction
// (Font.GlyphIndex), matching how a font file is actually structured, so
// extracting text by glyph ID requires probing candidate code points and
// recording which glyph each one resolves to.
type EmbeddedCMap struct {
	gidToRune map[sfnt.GlyphIndex]rune
}

// BuildReverseCmap parses embedded TrueType/OpenType font data and
// inverts its cmap subtable into a GID-to-Unicode table.
func BuildReverseCmap(fontData []byte) (*EmbeddedCMap, error) {
	font, err := sfnt.Parse(fontData)
	if err != nil {
		return nil, fmt.Errorf("fonts: parse embedded font: %w", err)
	}

	var buf sfnt.Buffer
	table := make(map[sfnt.GlyphIndex]rune)

	for _, r := range reverseCmapScanRanges {
		for cp := r[0]; cp <= r[1]; cp++ {
			gid, err := font.GlyphIndex(&buf, cp)
			if err != nil || gid == 0 {
				continue
			}
			if _, exists := table[gid]; !exists {
				table[gid] = cp
			}
		}
	}

	return &EmbeddedCMap{gidToRune: table}, nil
}

// Lookup returns the Unicode code point a glyph ID resolves to, if the
// scan found one.
func (e *EmbeddedCMap) Lookup(gid uint16) (rune, bool) {
	if e == nil {
		return 0, false
	}
	r, ok := e.gidToRune[sfnt.GlyphIndex(gid)]
	return r, ok
}
