package fonts

import (
	"strings"
	"testing"

	"github.com/coregx/pdftext/internal/parser"
)

func TestGenerateFontDescriptor(t *testing.T) {
	// Create a mock TTFFont with typical values.
	ttf := &TTFFont{
		FilePath:       "/fonts/OpenSans-Regular.ttf",
		PostScriptName: "OpenSans-Regular",
		UnitsPerEm:     2048,
		FontBBox:       [4]int16{-550, -271, 1204, 1048},
		Ascender:       1069,
		Descender:      -293,
		LineGap:        0,
		ItalicAngle:    0,
		CapHeight:      714,
		XHeight:        519,
		StemV:          80,
		Flags:          32, // Nonsymbolic
	}

	fd := GenerateFontDescriptor(ttf)

	if fd == nil {
		t.Fatal("GenerateFontDescriptor returned nil")
	}

	// Check font name.
	if fd.FontName != "OpenSans-Regular" {
		t.Errorf("FontName = %q, want %q", fd.FontName, "OpenSans-Regular")
	}

	// Check flags.
	if fd.Flags != 32 {
		t.Errorf("Flags = %d, want %d", fd.Flags, 32)
	}

	// Check scaled metrics (1000/2048 scale).
	// Ascent: 1069 * 1000/2048 ≈ 522
	if fd.Ascent < 500 || fd.Ascent > 550 {
		t.Errorf("Ascent = %d, want ~522", fd.Ascent)
	}

	// Descent: -293 * 1000/2048 ≈ -143
	if fd.Descent > -100 || fd.Descent < -180 {
		t.Errorf("Descent = %d, want ~-143", fd.Descent)
	}

	// CapHeight: 714 * 1000/2048 ≈ 349
	if fd.CapHeight < 300 || fd.CapHeight > 400 {
		t.Errorf("CapHeight = %d, want ~349", fd.CapHeight)
	}
}

func TestGenerateFontDescriptor_DeriveNameFromPath(t *testing.T) {
	ttf := &TTFFont{
		FilePath:   "/fonts/MyFont-Bold.ttf",
		UnitsPerEm: 1000,
		FontBBox:   [4]int16{0, -200, 1000, 800},
		Ascender:   800,
		Descender:  -200,
		Flags:      32,
	}

	fd := GenerateFontDescriptor(ttf)

	if fd.FontName != "MyFont-Bold" {
		t.Errorf("FontName = %q, want %q", fd.FontName, "MyFont-Bold")
	}
}

func TestFontDescriptor_ToPDFDict(t *testing.T) {
	fd := &FontDescriptor{
		FontName:    "TestFont",
		Flags:       32,
		FontBBox:    [4]int{0, -200, 1000, 800},
		ItalicAngle: 0,
		Ascent:      800,
		Descent:     -200,
		CapHeight:   700,
		StemV:       80,
		XHeight:     500,
	}

	dict := fd.ToPDFDict(5)

	// Check required entries.
	if !strings.Contains(dict, "/Type /FontDescriptor") {
		t.Error("Missing /Type /FontDescriptor")
	}
	if !strings.Contains(dict, "/FontName /TestFont") {
		t.Error("Missing /FontName")
	}
	if !strings.Contains(dict, "/Flags 32") {
		t.Error("Missing /Flags")
	}
	if !strings.Contains(dict, "/FontBBox [0 -200 1000 800]") {
		t.Error("Missing /FontBBox")
	}
	if !strings.Contains(dict, "/Ascent 800") {
		t.Error("Missing /Ascent")
	}
	if !strings.Contains(dict, "/Descent -200") {
		t.Error("Missing /Descent")
	}
	if !strings.Contains(dict, "/CapHeight 700") {
		t.Error("Missing /CapHeight")
	}
	if !strings.Contains(dict, "/StemV 80") {
		t.Error("Missing /StemV")
	}
	if !strings.Contains(dict, "/FontFile2 5 0 R") {
		t.Error("Missing /FontFile2 reference")
	}
}

func TestSubsetFontName(t *testing.T) {
	name := SubsetFontName("OpenSans-Regular", []rune{'H', 'e', 'l', 'l', 'o'})

	// Should have format XXXXXX+FontName.
	if !strings.Contains(name, "+OpenSans-Regular") {
		t.Errorf("SubsetFontName = %q, missing base name", name)
	}

	// Prefix should be 6 uppercase letters.
	parts := strings.Split(name, "+")
	if len(parts) != 2 {
		t.Fatalf("SubsetFontName = %q, invalid format", name)
	}

	prefix := parts[0]
	if len(prefix) != 6 {
		t.Errorf("Prefix length = %d, want 6", len(prefix))
	}

	for _, c := range prefix {
		if c < 'A' || c > 'Z' {
			t.Errorf("Prefix contains non-uppercase letter: %q", prefix)
			break
		}
	}
}

func TestSubsetFontName_Deterministic(t *testing.T) {
	// Same characters should produce same prefix.
	name1 := SubsetFontName("Font", []rune{'A', 'B', 'C'})
	name2 := SubsetFontName("Font", []rune{'A', 'B', 'C'})

	if name1 != name2 {
		t.Errorf("SubsetFontName not deterministic: %q != %q", name1, name2)
	}

	// Different characters should produce different prefix.
	name3 := SubsetFontName("Font", []rune{'X', 'Y', 'Z'})
	if name1 == name3 {
		t.Errorf("SubsetFontName should differ for different chars: %q == %q", name1, name3)
	}
}

func TestParseFontDescriptor_Nil(t *testing.T) {
	if fd := ParseFontDescriptor(nil); fd != nil {
		t.Errorf("ParseFontDescriptor(nil) = %v, want nil", fd)
	}
}

func TestParseFontDescriptor_Fields(t *testing.T) {
	dict := parser.NewDictionary()
	dict.Set("Flags", parser.NewInteger(64)) // italic bit
	dict.Set("FontName", parser.NewName("ABCDEF+OpenSans-Italic"))
	bbox := parser.NewArray()
	bbox.Append(parser.NewInteger(-550))
	bbox.Append(parser.NewInteger(-271))
	bbox.Append(parser.NewInteger(1204))
	bbox.Append(parser.NewInteger(1048))
	dict.Set("FontBBox", bbox)
	dict.Set("ItalicAngle", parser.NewReal(-12.5))
	dict.Set("Ascent", parser.NewInteger(1069))
	dict.Set("Descent", parser.NewInteger(-293))
	dict.Set("CapHeight", parser.NewInteger(714))
	dict.Set("StemV", parser.NewInteger(80))
	dict.Set("XHeight", parser.NewInteger(519))
	dict.Set("FontFile2", parser.NewIndirectReference(42, 0))

	fd := ParseFontDescriptor(dict)
	if fd == nil {
		t.Fatal("ParseFontDescriptor returned nil")
	}
	if fd.FontName != "ABCDEF+OpenSans-Italic" {
		t.Errorf("FontName = %q, want %q", fd.FontName, "ABCDEF+OpenSans-Italic")
	}
	if fd.FontBBox != [4]int{-550, -271, 1204, 1048} {
		t.Errorf("FontBBox = %v, want [-550 -271 1204 1048]", fd.FontBBox)
	}
	if fd.Ascent != 1069 {
		t.Errorf("Ascent = %d, want 1069", fd.Ascent)
	}
	if fd.Descent != -293 {
		t.Errorf("Descent = %d, want -293", fd.Descent)
	}
	if fd.CapHeight != 714 {
		t.Errorf("CapHeight = %d, want 714", fd.CapHeight)
	}
	if fd.FontFile2Ref != 42 {
		t.Errorf("FontFile2Ref = %d, want 42", fd.FontFile2Ref)
	}
	if !fd.IsItalic() {
		t.Error("IsItalic() = false, want true (italic flag bit set)")
	}
}

func TestFontDescriptor_IsBold(t *testing.T) {
	forceBold := &FontDescriptor{FontName: "Plain", Flags: flagForceBold}
	if !forceBold.IsBold() {
		t.Error("IsBold() = false, want true for ForceBold flag")
	}

	byName := &FontDescriptor{FontName: "OpenSans-Bold"}
	if !byName.IsBold() {
		t.Error("IsBold() = false, want true for a bold-named font")
	}

	plain := &FontDescriptor{FontName: "OpenSans-Regular"}
	if plain.IsBold() {
		t.Error("IsBold() = true, want false for a regular-named font")
	}
}

func TestFontDescriptor_IsItalic_ByAngle(t *testing.T) {
	fd := &FontDescriptor{ItalicAngle: -12}
	if !fd.IsItalic() {
		t.Error("IsItalic() = false, want true for nonzero ItalicAngle")
	}
}

func TestFontDescriptor_NilReceiverSafe(t *testing.T) {
	var fd *FontDescriptor
	if fd.IsBold() || fd.IsItalic() || fd.IsFixedPitch() || fd.IsSerif() {
		t.Error("nil *FontDescriptor predicate methods must all report false")
	}
}

func TestWeightFromName(t *testing.T) {
	tests := []struct {
		name      string
		forceBold bool
		want      Weight
	}{
		{"OpenSans-Thin", false, WeightThin},
		{"OpenSans-ExtraLight", false, WeightExtraLight},
		{"OpenSans-Light", false, WeightLight},
		{"OpenSans-Regular", false, WeightNormal},
		{"OpenSans-Medium", false, WeightMedium},
		{"OpenSans-SemiBold", false, WeightSemiBold},
		{"OpenSans-Bold", false, WeightBold},
		{"OpenSans-ExtraBold", false, WeightExtraBold},
		{"OpenSans-Black", false, WeightBlack},
		{"ABCDEF+Helvetica", true, WeightBold},
		{"ABCDEF+Helvetica", false, WeightNormal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := WeightFromName(tt.name, tt.forceBold)
			if got != tt.want {
				t.Errorf("WeightFromName(%q, %v) = %q, want %q", tt.name, tt.forceBold, got, tt.want)
			}
		})
	}
}

func TestWeightFromName_ExtraBoldBeforeBold(t *testing.T) {
	// "ExtraBold" must win over the looser "bold" substring it contains.
	got := WeightFromName("Roboto-ExtraBold", false)
	if got != WeightExtraBold {
		t.Errorf("WeightFromName(Roboto-ExtraBold) = %q, want %q", got, WeightExtraBold)
	}
}
