package layout

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/coregx/pdftext/internal/extractor"
)

func wordLine(text string, x, y, width, height, fontSize float64) *Line {
	el := extractor.NewTextElement(text, x, y, width, height, "Helvetica", fontSize)
	return ClusterLines([]*extractor.TextElement{el})[0]
}

func TestXYCut_TwoColumnPageSplitsIntoTwoBlocks(t *testing.T) {
	var lines []*Line
	// Left column: a run of lines near x=50..110.
	for i := 0; i < 5; i++ {
		lines = append(lines, wordLine("left", 50, float64(700-i*20), 60, 10, 10))
	}
	// Right column: a run of lines near x=350..410, 240pt gap from the left column.
	for i := 0; i < 5; i++ {
		lines = append(lines, wordLine("right", 350, float64(700-i*20), 60, 10, 10))
	}

	blocks := XYCut(lines, [2]float64{0, 0})
	require.Len(t, blocks, 2)
	for _, b := range blocks {
		assert.Len(t, b.Lines, 5)
	}
}

func TestXYCut_SingleColumnStaysOneBlock(t *testing.T) {
	var lines []*Line
	for i := 0; i < 5; i++ {
		lines = append(lines, wordLine("line", 50, float64(700-i*20), 60, 10, 10))
	}
	blocks := XYCut(lines, [2]float64{0, 0})
	require.Len(t, blocks, 1)
	assert.Len(t, blocks[0].Lines, 5)
}

func TestXYCut_Empty(t *testing.T) {
	assert.Nil(t, XYCut(nil, [2]float64{0, 0}))
}

func TestXYCut_SingleLineIsOneBlock(t *testing.T) {
	lines := []*Line{wordLine("only", 50, 700, 60, 10, 10)}
	blocks := XYCut(lines, [2]float64{0, 0})
	require.Len(t, blocks, 1)
}

func TestMedian(t *testing.T) {
	assert.Equal(t, 0.0, median(nil))
	assert.Equal(t, 2.0, median([]float64{1, 2, 3}))
	assert.Equal(t, 2.5, median([]float64{1, 2, 3, 4}))
}
