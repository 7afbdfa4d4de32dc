package concurrent

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/coregx/pdftext"
)

func testFilePath(filename string) string {
	return filepath.Join("..", "testdata", "pdfs", filename)
}

func TestExtractAllPages_OrdersResultsByPageIndex(t *testing.T) {
	doc, err := pdftext.Open(testFilePath("multipage.pdf"))
	require.NoError(t, err)
	defer doc.Close()

	count, err := doc.PageCount()
	require.NoError(t, err)

	results, err := ExtractAllPages(context.Background(), doc, 0)
	require.NoError(t, err)
	require.Len(t, results, count)
	for i, r := range results {
		assert.Equal(t, i, r.PageIndex)
		assert.NoError(t, r.Err)
	}
}

func TestExtractAllPages_SingleWorker(t *testing.T) {
	doc, err := pdftext.Open(testFilePath("multipage.pdf"))
	require.NoError(t, err)
	defer doc.Close()

	results, err := ExtractAllPages(context.Background(), doc, 1)
	require.NoError(t, err)
	assert.NotEmpty(t, results)
}

func TestExtractAllPages_CancelledContextStopsCleanly(t *testing.T) {
	doc, err := pdftext.Open(testFilePath("multipage.pdf"))
	require.NoError(t, err)
	defer doc.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	results, err := ExtractAllPages(ctx, doc, 2)
	require.NoError(t, err)
	for _, r := range results {
		assert.Error(t, r.Err)
	}
}
