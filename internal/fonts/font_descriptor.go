package fonts

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/coregx/pdftext/internal/parser"
)

// FontDescriptor represents a PDF FontDescriptor dictionary.
//
// The FontDescriptor specifies metrics and other attributes of a font.
// It is required for embedded fonts in PDF documents.
//
// Reference: PDF Reference 1.7, Section 9.8.
type FontDescriptor struct {
	// FontName is the PostScript name of the font.
	FontName string

	// Flags is the font flags bitmap (PDF spec Table 123).
	Flags uint32

	// FontBBox is the bounding box [llx lly urx ury] in glyph space.
	FontBBox [4]int

	// ItalicAngle is the angle of italic text in degrees.
	ItalicAngle float64

	// Ascent is the maximum height above baseline.
	Ascent int

	// Descent is the maximum depth below baseline (negative).
	Descent int

	// CapHeight is the height of capital letters.
	CapHeight int

	// StemV is the dominant vertical stem width.
	StemV int

	// XHeight is the height of lowercase x (optional).
	XHeight int

	// Leading is the spacing between lines (optional).
	Leading int

	// FontFile2Ref is the object number of the embedded font stream.
	// Set to 0 if font is not embedded.
	FontFile2Ref int
}

// TTFFont carries the TrueType metrics GenerateFontDescriptor reads, in
// the font's own design units (UnitsPerEm per em).
type TTFFont struct {
	FilePath       string
	PostScriptName string
	UnitsPerEm     uint16
	FontBBox       [4]int16
	Ascender       int16
	Descender      int16
	LineGap        int16
	ItalicAngle    float64
	CapHeight      int16
	XHeight        int16
	StemV          int16
	Flags          uint32
}

// GenerateFontDescriptor creates a FontDescriptor from TTF font data.
//
// This extracts all required metrics from the parsed TTF font and
// converts them to PDF glyph space (scaled by 1000/UnitsPerEm).
func GenerateFontDescriptor(ttf *TTFFont) *FontDescriptor {
	if ttf == nil {
		return nil
	}

	// Calculate scale factor (PDF uses 1000 units per em).
	scale := 1000.0 / float64(ttf.UnitsPerEm)

	// Get PostScript name or derive from filename.
	fontName := ttf.PostScriptName
	if fontName == "" {
		// Derive from filename: /path/to/OpenSans-Regular.ttf -> OpenSans-Regular
		base := filepath.Base(ttf.FilePath)
		fontName = strings.TrimSuffix(base, filepath.Ext(base))
		// Remove spaces (PostScript names can't have spaces).
		fontName = strings.ReplaceAll(fontName, " ", "")
	}

	return &FontDescriptor{
		FontName:    fontName,
		Flags:       ttf.Flags,
		FontBBox:    scaleFontBBox(ttf.FontBBox, scale),
		ItalicAngle: ttf.ItalicAngle,
		Ascent:      scaleMetric(ttf.Ascender, scale),
		Descent:     scaleMetric(ttf.Descender, scale),
		CapHeight:   scaleMetric(ttf.CapHeight, scale),
		StemV:       int(ttf.StemV),
		XHeight:     scaleMetric(ttf.XHeight, scale),
		Leading:     scaleMetric(ttf.LineGap, scale),
	}
}

// scaleFontBBox scales the font bounding box to PDF units.
func scaleFontBBox(bbox [4]int16, scale float64) [4]int {
	return [4]int{
		int(float64(bbox[0]) * scale),
		int(float64(bbox[1]) * scale),
		int(float64(bbox[2]) * scale),
		int(float64(bbox[3]) * scale),
	}
}

// scaleMetric scales a single metric value to PDF units.
func scaleMetric(value int16, scale float64) int {
	return int(float64(value) * scale)
}

// ToPDFDict generates the PDF FontDescriptor dictionary as bytes.
//
// The output format:
//
//	<<
//	/Type /FontDescriptor
//	/FontName /FontName
//	/Flags 32
//	/FontBBox [0 -200 1000 800]
//	/ItalicAngle 0
//	/Ascent 800
//	/Descent -200
//	/CapHeight 700
//	/StemV 80
//	/FontFile2 X 0 R
//	>>
func (fd *FontDescriptor) ToPDFDict(fontFile2ObjNum int) string {
	var sb strings.Builder

	sb.WriteString("<<\n")
	sb.WriteString("/Type /FontDescriptor\n")
	sb.WriteString(fmt.Sprintf("/FontName /%s\n", fd.FontName))
	sb.WriteString(fmt.Sprintf("/Flags %d\n", fd.Flags))
	sb.WriteString(fmt.Sprintf("/FontBBox [%d %d %d %d]\n",
		fd.FontBBox[0], fd.FontBBox[1], fd.FontBBox[2], fd.FontBBox[3]))
	sb.WriteString(fmt.Sprintf("/ItalicAngle %.1f\n", fd.ItalicAngle))
	sb.WriteString(fmt.Sprintf("/Ascent %d\n", fd.Ascent))
	sb.WriteString(fmt.Sprintf("/Descent %d\n", fd.Descent))
	sb.WriteString(fmt.Sprintf("/CapHeight %d\n", fd.CapHeight))
	sb.WriteString(fmt.Sprintf("/StemV %d\n", fd.StemV))

	if fd.XHeight > 0 {
		sb.WriteString(fmt.Sprintf("/XHeight %d\n", fd.XHeight))
	}

	if fontFile2ObjNum > 0 {
		sb.WriteString(fmt.Sprintf("/FontFile2 %d 0 R\n", fontFile2ObjNum))
	}

	sb.WriteString(">>")

	return sb.String()
}

// SubsetFontName generates a subset font name with random prefix.
//
// PDF subset font names use a 6-letter uppercase prefix followed by '+'.
// Example: ABCDEF+OpenSans-Regular
//
// The prefix should be unique to allow multiple subsets of the same font.
func SubsetFontName(baseName string, usedChars []rune) string {
	// Generate prefix from hash of used characters.
	// This ensures same characters = same prefix (deterministic).
	hash := uint32(0)
	for _, r := range usedChars {
		hash = hash*31 + uint32(r)
	}

	// Convert to 6 uppercase letters (A-Z).
	prefix := make([]byte, 6)
	for i := 0; i < 6; i++ {
		prefix[i] = byte('A' + (hash % 26))
		hash /= 26
	}

	return string(prefix) + "+" + baseName
}

// Font flag bits, PDF 1.7 Section 9.8.2, Table 123.
const (
	flagFixedPitch = 1 << 0
	flagSerif      = 1 << 1
	flagItalic     = 1 << 6
	flagForceBold  = 1 << 18
)

// ParseFontDescriptor builds a FontDescriptor from an existing PDF
// /FontDescriptor dictionary, the mirror of GenerateFontDescriptor's
// write-direction path: it reads metrics back out of a document being
// extracted instead of computing them from a TTF program being
// embedded. FontFile2Ref records the object number of an indirect
// /FontFile2 reference (0 otherwise); callers that need the embedded
// program stream resolve it themselves (that requires a *parser.Reader
// this package does not depend on).
func ParseFontDescriptor(dict *parser.Dictionary) *FontDescriptor {
	if dict == nil {
		return nil
	}

	fd := &FontDescriptor{
		Flags: uint32(dict.GetInteger("Flags")),
	}
	if name := dict.GetName("FontName"); name != nil {
		fd.FontName = name.Value()
	}
	if bbox := dict.GetArray("FontBBox"); bbox != nil && bbox.Len() == 4 {
		for i := 0; i < 4; i++ {
			fd.FontBBox[i] = int(numberValue(bbox.Get(i)))
		}
	}
	fd.ItalicAngle = numberValue(dict.Get("ItalicAngle"))
	fd.Ascent = int(numberValue(dict.Get("Ascent")))
	fd.Descent = int(numberValue(dict.Get("Descent")))
	fd.CapHeight = int(numberValue(dict.Get("CapHeight")))
	fd.StemV = int(numberValue(dict.Get("StemV")))
	fd.XHeight = int(numberValue(dict.Get("XHeight")))
	fd.Leading = int(numberValue(dict.Get("Leading")))

	if ref, ok := dict.Get("FontFile2").(*parser.IndirectReference); ok {
		fd.FontFile2Ref = ref.Number
	}

	return fd
}

// IsItalic reports whether the descriptor's flags or italic angle
// indicate an italic (or oblique) font.
func (fd *FontDescriptor) IsItalic() bool {
	if fd == nil {
		return false
	}
	return fd.Flags&flagItalic != 0 || fd.ItalicAngle != 0
}

// IsBold reports whether the descriptor indicates a bold weight. PDF
// FontDescriptors have no numeric weight field (unlike OpenType's
// usWeightClass); ForceBold and a bold-sounding PostScript name are the
// only signals a descriptor itself carries.
func (fd *FontDescriptor) IsBold() bool {
	if fd == nil {
		return false
	}
	if fd.Flags&flagForceBold != 0 {
		return true
	}
	return strings.Contains(strings.ToLower(fd.FontName), "bold")
}

// IsFixedPitch reports whether the font is monospaced.
func (fd *FontDescriptor) IsFixedPitch() bool {
	return fd != nil && fd.Flags&flagFixedPitch != 0
}

// IsSerif reports whether the font is a serif design.
func (fd *FontDescriptor) IsSerif() bool {
	return fd != nil && fd.Flags&flagSerif != 0
}

// Weight names TextSpan's font_weight enum, ordered light to heavy.
type Weight string

const (
	WeightThin       Weight = "Thin"
	WeightExtraLight Weight = "ExtraLight"
	WeightLight      Weight = "Light"
	WeightNormal     Weight = "Normal"
	WeightMedium     Weight = "Medium"
	WeightSemiBold   Weight = "SemiBold"
	WeightBold       Weight = "Bold"
	WeightExtraBold  Weight = "ExtraBold"
	WeightBlack      Weight = "Black"
)

// weightKeywords matches substrings of a PostScript font name (after
// stripping subset tags and separators) to a Weight, checked in list
// order with compound keywords ahead of the plain words they contain,
// so e.g. "ExtraBold" wins over a looser "Bold" match.
var weightKeywords = []struct {
	keyword string
	weight  Weight
}{
	{"extralight", WeightExtraLight},
	{"ultralight", WeightExtraLight},
	{"semibold", WeightSemiBold},
	{"demibold", WeightSemiBold},
	{"extrabold", WeightExtraBold},
	{"ultrabold", WeightExtraBold},
	{"black", WeightBlack},
	{"heavy", WeightBlack},
	{"thin", WeightThin},
	{"medium", WeightMedium},
	{"light", WeightLight},
	{"bold", WeightBold},
}

// WeightFromName infers a TextSpan font_weight value from a font's
// PostScript/BaseFont name (e.g. "ABCDEF+OpenSans-SemiBold") and its
// descriptor's ForceBold flag. PDF FontDescriptors carry no numeric
// weight class, so the name's own weight keyword is the only reliable
// signal most embedded fonts provide; ForceBold backstops fonts with
// a plain name whose descriptor still marks them bold.
func WeightFromName(name string, forceBold bool) Weight {
	lower := strings.ToLower(name)
	for _, kw := range weightKeywords {
		if strings.Contains(lower, kw.keyword) {
			return kw.weight
		}
	}
	if forceBold {
		return WeightBold
	}
	return WeightNormal
}

func numberValue(obj parser.PdfObject) float64 {
	switch v := obj.(type) {
	case *parser.Integer:
		return float64(v.Value())
	case *parser.Real:
		return v.Value()
	default:
		return 0
	}
}
