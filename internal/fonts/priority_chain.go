package fonts

// ToUnicodeSource is satisfied by any CMap-backed lookup of character
// code to destination string, so this package can consult a ToUnicode
// CMap without importing the package that parses CMap streams.
type ToUnicodeSource interface {
	GetString(code uint16) (string, bool)
}

// EncodingChain resolves character codes for a single simple or
// composite font to Unicode text, applying each source of evidence in
// the order a PDF consumer is expected to trust it: an explicit
// ToUnicode CMap first, then Differences-array glyph names, then an
// embedded font's own cmap (via CIDToGID for composite fonts), then the
// font's predefined base encoding, then the Adobe Glyph List applied
// directly to the raw code. None of these steps are gated on the code's
// byte width — a composite font's 2-byte CID gets the same chance at
// steps 3-5 a simple font's 1-byte code does. The chain never reports a
// code as unresolved — Resolve always returns a string.
type EncodingChain struct {
	// ToUnicode is the font's /ToUnicode CMap, if present.
	ToUnicode ToUnicodeSource

	// Differences maps character codes to glyph names from the font's
	// /Encoding /Differences array.
	Differences map[uint16]string

	// BaseEncoding names the font's predefined base encoding (e.g.
	// "WinAnsiEncoding"), or "" if none was specified.
	BaseEncoding string

	// Embedded is the inverted cmap of an embedded TrueType/OpenType
	// font, used when neither ToUnicode nor Differences resolves a code.
	Embedded *EmbeddedCMap

	// CIDToGID translates a composite font's character code (a CID
	// under its CMap) to Embedded's glyph-index space before lookup.
	// Nil is the Identity mapping, correct for both simple fonts (code
	// IS already the glyph index this package's Embedded step expects)
	// and the common case of composite fonts with no /CIDToGIDMap.
	CIDToGID *CIDToGIDMap
}

// Resolve returns the Unicode text a character code represents,
// consulting the chain's sources in priority order.
func (c *EncodingChain) Resolve(code uint16) string {
	if c.ToUnicode != nil {
		if s, ok := c.ToUnicode.GetString(code); ok && s != "" {
			return s
		}
	}

	if name, ok := c.Differences[code]; ok {
		if s, ok := AGLUnicode(name); ok {
			return s
		}
	}

	if c.Embedded != nil {
		gid := c.CIDToGID.GID(code)
		if r, ok := c.Embedded.Lookup(gid); ok {
			if expanded, isLig := LigatureFallback(r); isLig {
				return expanded
			}
			return string(r)
		}
	}

	if c.BaseEncoding != "" {
		if r, ok := PredefinedEncodingRune(c.BaseEncoding, byte(code)); ok {
			if expanded, isLig := LigatureFallback(r); isLig {
				return expanded
			}
			return string(r)
		}
	}

	r := rune(code)
	if expanded, isLig := LigatureFallback(r); isLig {
		return expanded
	}
	return string(r)
}
