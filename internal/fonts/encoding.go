package fonts

import (
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"
)

// standardEncodingHigh and pdfDocEncodingHigh hold the codes 0x80-0xFF for
// the two predefined single-byte encodings with no golang.org/x/text
// equivalent (ISO 32000-1:2008 Appendix D, Tables D.2 and D.4), plus
// PDFDocEncoding's accent codes 0x18-0x1F. Codes
// 0x20-0x7E match ASCII for both and are handled without a table lookup.
// Unassigned codes are omitted; PredefinedEncodingRune reports them as
// not-found so the caller can fall through the rest of the priority chain.
var standardEncodingHigh = map[byte]rune{
	0xA1: '¡', 0xA2: '¢', 0xA3: '£', 0xA4: '⁄', 0xA5: '¥', 0xA6: 'ƒ',
	0xA7: '§', 0xA8: '¤', 0xA9: '\'', 0xAA: '“', 0xAB: '«', 0xAC: '‹',
	0xAD: '›', 0xAE: 'ﬁ', 0xAF: 'ﬂ',
	0xB1: '–', 0xB2: '†', 0xB3: '‡', 0xB4: '·', 0xB6: '¶', 0xB7: '•',
	0xB8: '‚', 0xB9: '„', 0xBA: '”', 0xBB: '»', 0xBC: '…', 0xBD: '‰',
	0xBF: '¿',
	0xC1: '`', 0xC2: '´', 0xC3: 'ˆ', 0xC4: '˜', 0xC5: '¯', 0xC6: '˘',
	0xC7: '˙', 0xC8: '¨', 0xCA: '˚', 0xCB: '¸', 0xCD: '˝', 0xCE: '˛',
	0xCF: 'ˇ',
	0xD0: '—', 0xE1: 'Æ', 0xE3: 'ª', 0xE8: 'Ł', 0xE9: 'Ø', 0xEA: 'Œ',
	0xEB: 'º', 0xF1: 'æ', 0xF5: 'ı', 0xF8: 'ł', 0xF9: 'ø', 0xFA: 'œ',
	0xFB: 'ß',
}

var pdfDocEncodingHigh = map[byte]rune{
	0x18: '˘', 0x19: 'ˇ', 0x1A: 'ˆ', 0x1B: '˙', 0x1C: '˝', 0x1D: '˚',
	0x1E: '˛', 0x1F: '˜',
	0x80: '•', 0x81: '†', 0x82: '‡', 0x83: '…', 0x84: '—', 0x85: '–',
	0x86: 'ƒ', 0x87: '⁄', 0x88: '‹', 0x89: '›', 0x8A: '−', 0x8B: '‰',
	0x8C: '„', 0x8D: '“', 0x8E: '”', 0x8F: '‘', 0x90: '’', 0x91: '‚',
	0x92: '™', 0x93: 'ﬁ', 0x94: 'ﬂ', 0x95: 'Ł', 0x96: 'Œ', 0x97: 'Š',
	0x98: 'Ÿ', 0x99: 'Ž', 0x9A: 'ı', 0x9B: 'ł', 0x9C: 'œ', 0x9D: 'š',
	0x9E: 'ž', 0xA0: '€',
	0xA1: '¡', 0xA2: '¢', 0xA3: '£', 0xA4: '¤', 0xA5: '¥', 0xA6: '¦',
	0xA7: '§', 0xA8: '¨', 0xA9: '©', 0xAA: 'ª', 0xAB: '«', 0xAC: '¬',
	0xAE: '®', 0xAF: '¯', 0xB0: '°', 0xB1: '±', 0xB2: '²', 0xB3: '³',
	0xB4: '´', 0xB5: 'µ', 0xB6: '¶', 0xB7: '·', 0xB8: '¸', 0xB9: '¹',
	0xBA: 'º', 0xBB: '»', 0xBC: '¼', 0xBD: '½', 0xBE: '¾', 0xBF: '¿',
	0xC0: 'À', 0xC1: 'Á', 0xC2: 'Â', 0xC3: 'Ã', 0xC4: 'Ä', 0xC5: 'Å',
	0xC6: 'Æ', 0xC7: 'Ç', 0xC8: 'È', 0xC9: 'É', 0xCA: 'Ê', 0xCB: 'Ë',
	0xCC: 'Ì', 0xCD: 'Í', 0xCE: 'Î', 0xCF: 'Ï', 0xD0: 'Ð', 0xD1: 'Ñ',
	0xD2: 'Ò', 0xD3: 'Ó', 0xD4: 'Ô', 0xD5: 'Õ', 0xD6: 'Ö', 0xD7: '×',
	0xD8: 'Ø', 0xD9: 'Ù', 0xDA: 'Ú', 0xDB: 'Û', 0xDC: 'Ü', 0xDD: 'Ý',
	0xDE: 'Þ', 0xDF: 'ß',
	0xE0: 'à', 0xE1: 'á', 0xE2: 'â', 0xE3: 'ã', 0xE4: 'ä', 0xE5: 'å',
	0xE6: 'æ', 0xE7: 'ç', 0xE8: 'è', 0xE9: 'é', 0xEA: 'ê', 0xEB: 'ë',
	0xEC: 'ì', 0xED: 'í', 0xEE: 'î', 0xEF: 'ï', 0xF0: 'ð', 0xF1: 'ñ',
	0xF2: 'ò', 0xF3: 'ó', 0xF4: 'ô', 0xF5: 'õ', 0xF6: 'ö', 0xF7: '÷',
	0xF8: 'ø', 0xF9: 'ù', 0xFA: 'ú', 0xFB: 'û', 0xFC: 'ü', 0xFD: 'ý',
	0xFE: 'þ', 0xFF: 'ÿ',
}

// PredefinedEncodingRune resolves a single byte code through one of the
// five predefined simple-font encodings named in ISO 32000-1:2008
// Appendix D. WinAnsiEncoding and MacRomanEncoding are delegated to
// golang.org/x/text/encoding/charmap's Windows-1252 and Macintosh tables,
// which are byte-for-byte compatible with the PDF-defined versions for
// the printable range; StandardEncoding and PDFDocEncoding use the
// hand-authored high-byte tables above, and MacExpertEncoding (a rarely
// embedded expert-set encoding) is not modeled and always reports
// not-found so the chain falls through to AGL-over-raw-code.
func PredefinedEncodingRune(encodingName string, code byte) (rune, bool) {
	switch encodingName {
	case "WinAnsiEncoding":
		r := charmap.Windows1252.DecodeByte(code)
		return r, r != utf8.RuneError
	case "MacRomanEncoding":
		r := charmap.Macintosh.DecodeByte(code)
		return r, r != utf8.RuneError
	case "StandardEncoding":
		if code < 0x80 {
			return rune(code), true
		}
		r, ok := standardEncodingHigh[code]
		return r, ok
	case "PDFDocEncoding":
		if code < 0x80 && code >= 0x20 {
			return rune(code), true
		}
		r, ok := pdfDocEncodingHigh[code]
		return r, ok
	default:
		return 0, false
	}
}
