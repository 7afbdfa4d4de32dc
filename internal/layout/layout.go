package layout

import "github.com/coregx/pdftext/internal/extractor"

// Analyze runs the full layout pass over one page's TextElements: line
// and word clustering, XY-cut column/block detection, reading-order
// sorting, and table/heading/list/blockquote classification (spec.md
// section 4.5 steps 1-6). Call ToMarkdown(page.Blocks) or iterate
// page.Blocks directly for extract_text's concatenation.
func Analyze(elements []*extractor.TextElement, opts MarkdownOptions) *Page {
	lines := ClusterLines(elements)
	blocks := XYCut(lines, opts.PageSizeHint)
	blocks = ReadingOrder(blocks)

	bodySize := BodyFontSize(lines)
	Classify(blocks, bodySize, opts.DetectHeadings, opts.DetectTables)

	page := &Page{Blocks: blocks}
	for _, l := range lines {
		if l.X1 > page.Width {
			page.Width = l.X1
		}
		if l.Top > page.Height {
			page.Height = l.Top
		}
	}
	if opts.PageSizeHint[0] > 0 {
		page.Width = opts.PageSizeHint[0]
	}
	if opts.PageSizeHint[1] > 0 {
		page.Height = opts.PageSizeHint[1]
	}
	return page
}

// ExtractText concatenates every line of every reading-ordered block
// with a newline between lines and a blank line between blocks,
// matching the document-level text extraction spec.md section 6's
// extract_text describes as "concatenated Unicode string."
func ExtractText(page *Page) string {
	var out []byte
	for bi, b := range page.Blocks {
		if bi > 0 {
			out = append(out, '\n', '\n')
		}
		for li, l := range b.Lines {
			if li > 0 {
				out = append(out, '\n')
			}
			out = append(out, l.Text()...)
		}
	}
	return string(out)
}
