// Package concurrent fans a Document's pages out across a worker pool,
// for callers that want page-level parallelism without hand-rolling the
// channel plumbing themselves.
package concurrent

import (
	"context"
	"runtime"
	"sync"

	"github.com/coregx/pdftext"
)

// PageResult is one page's extraction outcome. Exactly one of Spans or
// Err is set.
type PageResult struct {
	PageIndex int
	Spans     []pdftext.TextSpan
	Err       error
}

// ExtractAllPages extracts every page's TextSpans concurrently across
// workers goroutines (0 or negative means runtime.NumCPU), all sharing
// doc's single *parser.Reader — safe because Reader.GetObject and its
// file access are already mutex-guarded for concurrent callers. Results
// are returned in page order regardless of completion order; ctx
// cancellation stops dispatching new pages but lets in-flight ones
// finish.
func ExtractAllPages(ctx context.Context, doc *pdftext.Document, workers int) ([]PageResult, error) {
	count, err := doc.PageCount()
	if err != nil {
		return nil, err
	}
	if count == 0 {
		return nil, nil
	}

	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	if workers > count {
		workers = count
	}

	pageIndices := make(chan int, count)
	for i := 0; i < count; i++ {
		pageIndices <- i
	}
	close(pageIndices)

	results := make([]PageResult, count)

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for pageIndex := range pageIndices {
				select {
				case <-ctx.Done():
					results[pageIndex] = PageResult{PageIndex: pageIndex, Err: ctx.Err()}
					continue
				default:
				}

				spans, err := doc.ExtractSpans(pageIndex)
				results[pageIndex] = PageResult{PageIndex: pageIndex, Spans: spans, Err: err}
			}
		}()
	}
	wg.Wait()

	return results, nil
}
