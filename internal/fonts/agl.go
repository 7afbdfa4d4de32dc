package fonts

import "strconv"

// aglTable is a working subset of the Adobe Glyph List (AGL): the
// mapping from PostScript glyph names to Unicode code points used to
// resolve /Differences entries and predefined simple-font encodings
// whose codes carry no other evidence. It covers ASCII, common Latin-1
// punctuation, and the ligatures spec.md §8 calls out by name; glyph
// names outside this table fall through to the uniXXXX/uXXXXX forms
// handled by AGLUnicode before giving up.
var aglTable = map[string]rune{
	"space": ' ', "exclam": '!', "quotedbl": '"', "numbersign": '#',
	"dollar": '$', "percent": '%', "ampersand": '&', "quotesingle": '\'',
	"parenleft": '(', "parenright": ')', "asterisk": '*', "plus": '+',
	"comma": ',', "hyphen": '-', "period": '.', "slash": '/',
	"zero": '0', "one": '1', "two": '2', "three": '3', "four": '4',
	"five": '5', "six": '6', "seven": '7', "eight": '8', "nine": '9',
	"colon": ':', "semicolon": ';', "less": '<', "equal": '=', "greater": '>',
	"question": '?', "at": '@',
	"A": 'A', "B": 'B', "C": 'C', "D": 'D', "E": 'E', "F": 'F', "G": 'G',
	"H": 'H', "I": 'I', "J": 'J', "K": 'K', "L": 'L', "M": 'M', "N": 'N',
	"O": 'O', "P": 'P', "Q": 'Q', "R": 'R', "S": 'S', "T": 'T', "U": 'U',
	"V": 'V', "W": 'W', "X": 'X', "Y": 'Y', "Z": 'Z',
	"bracketleft": '[', "backslash": '\\', "bracketright": ']',
	"asciicircum": '^', "underscore": '_', "grave": '`',
	"a": 'a', "b": 'b', "c": 'c', "d": 'd', "e": 'e', "f": 'f', "g": 'g',
	"h": 'h', "i": 'i', "j": 'j', "k": 'k', "l": 'l', "m": 'm', "n": 'n',
	"o": 'o', "p": 'p', "q": 'q', "r": 'r', "s": 's', "t": 't', "u": 'u',
	"v": 'v', "w": 'w', "x": 'x', "y": 'y', "z": 'z',
	"braceleft": '{', "bar": '|', "braceright": '}', "asciitilde": '~',
	"exclamdown": '¡', "cent": '¢', "sterling": '£', "currency": '¤',
	"yen": '¥', "brokenbar": '¦', "section": '§', "dieresis": '¨',
	"copyright": '©', "ordfeminine": 'ª', "guillemotleft": '«',
	"logicalnot": '¬', "registered": '®', "macron": '¯', "degree": '°',
	"plusminus": '±', "acute": '´', "mu": 'µ', "paragraph": '¶',
	"periodcentered": '·', "cedilla": '¸', "ordmasculine": 'º',
	"guillemotright": '»', "questiondown": '¿',
	"Agrave": 'À', "Aacute": 'Á', "Acircumflex": 'Â', "Atilde": 'Ã',
	"Adieresis": 'Ä', "Aring": 'Å', "AE": 'Æ', "Ccedilla": 'Ç',
	"Egrave": 'È', "Eacute": 'É', "Ecircumflex": 'Ê', "Edieresis": 'Ë',
	"Igrave": 'Ì', "Iacute": 'Í', "Icircumflex": 'Î', "Idieresis": 'Ï',
	"Eth": 'Ð', "Ntilde": 'Ñ', "Ograve": 'Ò', "Oacute": 'Ó',
	"Ocircumflex": 'Ô', "Otilde": 'Õ', "Odieresis": 'Ö', "multiply": '×',
	"Oslash": 'Ø', "Ugrave": 'Ù', "Uacute": 'Ú', "Ucircumflex": 'Û',
	"Udieresis": 'Ü', "Yacute": 'Ý', "Thorn": 'Þ', "germandbls": 'ß',
	"agrave": 'à', "aacute": 'á', "acircumflex": 'â', "atilde": 'ã',
	"adieresis": 'ä', "aring": 'å', "ae": 'æ', "ccedilla": 'ç',
	"egrave": 'è', "eacute": 'é', "ecircumflex": 'ê', "edieresis": 'ë',
	"igrave": 'ì', "iacute": 'í', "icircumflex": 'î', "idieresis": 'ï',
	"eth": 'ð', "ntilde": 'ñ', "ograve": 'ò', "oacute": 'ó',
	"ocircumflex": 'ô', "otilde": 'õ', "odieresis": 'ö', "divide": '÷',
	"oslash": 'ø', "ugrave": 'ù', "uacute": 'ú', "ucircumflex": 'û',
	"udieresis": 'ü', "yacute": 'ý', "thorn": 'þ', "ydieresis": 'ÿ',
	"endash": '–', "emdash": '—', "quoteleft": '‘', "quoteright": '’',
	"quotesinglbase": '‚', "quotedblleft": '“', "quotedblright": '”',
	"quotedblbase": '„', "dagger": '†', "daggerdbl": '‡', "bullet": '•',
	"ellipsis": '…', "perthousand": '‰', "guilsinglleft": '‹',
	"guilsinglright": '›', "fraction": '⁄', "florin": 'ƒ',
	"fi": 'ﬁ', "fl": 'ﬂ',
	"trademark": '™', "Euro": '€',
	"minus": '−', "dotlessi": 'ı',
}

// ligatureExpansions holds glyph names whose canonical Unicode is
// itself a multi-character sequence, per spec.md §8's ligature boundary case.
var ligatureExpansions = map[string]string{
	"fi":  "fi",
	"fl":  "fl",
	"ffi": "ffi",
	"ffl": "ffl",
	"ff":  "ff",
}

// AGLUnicode resolves a glyph name to its Unicode string, trying the
// table first, then the uniXXXX/uXXXXX numeric forms Adobe's spec
// defines for names outside the list proper.
func AGLUnicode(glyphName string) (string, bool) {
	if s, ok := ligatureExpansions[glyphName]; ok {
		return s, true
	}
	if r, ok := aglTable[glyphName]; ok {
		return string(r), true
	}
	if len(glyphName) >= 7 && glyphName[:3] == "uni" {
		if v, err := strconv.ParseInt(glyphName[3:7], 16, 32); err == nil {
			return string(rune(v)), true
		}
	}
	if len(glyphName) >= 5 && len(glyphName) <= 7 && glyphName[0] == 'u' {
		if v, err := strconv.ParseInt(glyphName[1:], 16, 32); err == nil {
			return string(rune(v)), true
		}
	}
	return "", false
}

// LigatureFallback expands the Unicode private-use/ligature code points
// a font may emit directly (U+FB00..U+FB04) into their component
// letters, per spec.md §8.
func LigatureFallback(r rune) (string, bool) {
	switch r {
	case 'ﬀ':
		return "ff", true
	case 'ﬁ':
		return "fi", true
	case 'ﬂ':
		return "fl", true
	case 'ﬃ':
		return "ffi", true
	case 'ﬄ':
		return "ffl", true
	default:
		return "", false
	}
}
