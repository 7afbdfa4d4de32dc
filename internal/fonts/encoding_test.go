package fonts

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPredefinedEncodingRune_WinAnsi(t *testing.T) {
	r, ok := PredefinedEncodingRune("WinAnsiEncoding", 'A')
	assert.True(t, ok)
	assert.Equal(t, 'A', r)

	// 0x93 is a left double quotation mark in Windows-1252.
	r, ok = PredefinedEncodingRune("WinAnsiEncoding", 0x93)
	assert.True(t, ok)
	assert.Equal(t, '“', r)
}

func TestPredefinedEncodingRune_MacRoman(t *testing.T) {
	r, ok := PredefinedEncodingRune("MacRomanEncoding", 'Z')
	assert.True(t, ok)
	assert.Equal(t, 'Z', r)

	// 0x80 is capital A with dieresis in MacRoman.
	r, ok = PredefinedEncodingRune("MacRomanEncoding", 0x80)
	assert.True(t, ok)
	assert.Equal(t, 'Ä', r)
}

func TestPredefinedEncodingRune_Standard(t *testing.T) {
	r, ok := PredefinedEncodingRune("StandardEncoding", 'a')
	assert.True(t, ok)
	assert.Equal(t, 'a', r)

	r, ok = PredefinedEncodingRune("StandardEncoding", 0xA1)
	assert.True(t, ok)
	assert.Equal(t, '¡', r)
}

func TestPredefinedEncodingRune_PDFDoc(t *testing.T) {
	r, ok := PredefinedEncodingRune("PDFDocEncoding", '0')
	assert.True(t, ok)
	assert.Equal(t, '0', r)
}

func TestPredefinedEncodingRune_Unknown(t *testing.T) {
	_, ok := PredefinedEncodingRune("MacExpertEncoding", 'A')
	assert.False(t, ok, "MacExpertEncoding is deliberately unmodeled")

	_, ok = PredefinedEncodingRune("", 'A')
	assert.False(t, ok)
}
