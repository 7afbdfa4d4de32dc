package layout

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/coregx/pdftext/internal/extractor"
	"github.com/coregx/pdftext/internal/fonts"
)

func TestBodyFontSize_PicksSizeWithMostCharacters(t *testing.T) {
	heading := wordLine("Title", 0, 700, 50, 16, 16)
	body1 := wordLine("Body text one here", 0, 600, 150, 10, 10)
	body2 := wordLine("More body text follows", 0, 580, 150, 10, 10)
	assert.Equal(t, 10.0, BodyFontSize([]*Line{heading, body1, body2}))
}

func TestHeadingLevel_H1ForLargeIsolatedLine(t *testing.T) {
	line := wordLine("Chapter One", 0, 700, 100, 16, 16)
	level := HeadingLevel(line, 10, 100, 100)
	assert.Equal(t, 1, level)
}

func TestHeadingLevel_ZeroWhenNotIsolated(t *testing.T) {
	line := wordLine("Chapter One", 0, 700, 100, 16, 16)
	level := HeadingLevel(line, 10, 1, 1) // crowded by neighbors
	assert.Equal(t, 0, level)
}

func TestHeadingLevel_ZeroAtBodySize(t *testing.T) {
	line := wordLine("Just body text", 0, 700, 100, 10, 10)
	level := HeadingLevel(line, 10, 100, 100)
	assert.Equal(t, 0, level)
}

func TestHeadingLevel_H6RequiresBoldAtBodySize(t *testing.T) {
	el := extractor.NewTextElement("Bold body-size line", 0, 700, 100, 10, "Helvetica-Bold", 10)
	el.FontWeight = fonts.WeightBold
	line := ClusterLines([]*extractor.TextElement{el})[0]

	level := HeadingLevel(line, 10, 100, 100)
	assert.Equal(t, 6, level)
}

func TestHeadingLevel_ZeroBodySize(t *testing.T) {
	line := wordLine("Anything", 0, 700, 100, 16, 16)
	assert.Equal(t, 0, HeadingLevel(line, 0, 100, 100))
}
