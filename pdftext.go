// Package pdftext decodes a PDF file's textual content into positioned
// spans and a derived Markdown rendering, through the document
// container, content-stream interpreter, font mapper, and layout
// analyzer in internal/parser, internal/extractor, internal/fonts, and
// internal/layout respectively.
package pdftext

import (
	"context"
	"fmt"

	"github.com/coregx/pdftext/internal/extractor"
	"github.com/coregx/pdftext/internal/fonts"
	"github.com/coregx/pdftext/internal/layout"
	"github.com/coregx/pdftext/internal/parser"
	"github.com/coregx/pdftext/internal/pdferrors"
)

// Document is an opened PDF file. It must be closed after use to
// release the underlying file handle.
type Document struct {
	reader *parser.Reader
	ctx    context.Context
	path   string
	opts   openOptions
}

// openOptions holds Open's functional-option state.
type openOptions struct {
	maxXObjectDepth int
	spaceThreshold  float64
	xrefChainDepth  int
}

func defaultOpenOptions() openOptions {
	return openOptions{
		maxXObjectDepth: 32,
		spaceThreshold:  250,
		xrefChainDepth:  100,
	}
}

// OpenOption configures Open's behavior.
type OpenOption func(*openOptions)

// WithMaxXObjectDepth overrides the Form XObject recursion cap (Do
// invoking a Form whose content stream invokes another Form). Default 32.
func WithMaxXObjectDepth(depth int) OpenOption {
	return func(o *openOptions) { o.maxXObjectDepth = depth }
}

// WithSpaceThreshold overrides the TJ-array adjustment magnitude, in
// thousandths of an em, past which the content-stream interpreter treats
// a gap between shown runs as a word boundary and inserts a space
// (spec.md Open Question (a)). Default 250.
func WithSpaceThreshold(threshold float64) OpenOption {
	return func(o *openOptions) { o.spaceThreshold = threshold }
}

// WithXRefChainDepth overrides the cap on /Prev cross-reference chain
// length the repair-free parse path will follow. Default 100.
func WithXRefChainDepth(depth int) OpenOption {
	return func(o *openOptions) { o.xrefChainDepth = depth }
}

// Open parses path's cross-reference table and document catalog without
// decoding any page content; page bytes are read lazily per extraction
// call. Open returns a *pdferrors.Error on failure.
func Open(path string, opts ...OpenOption) (*Document, error) {
	o := defaultOpenOptions()
	for _, opt := range opts {
		opt(&o)
	}

	reader := parser.NewReader(path)
	reader.SetMaxXRefChainDepth(o.xrefChainDepth)
	if err := reader.Open(); err != nil {
		return nil, pdferrors.New(pdferrors.Io, fmt.Sprintf("open %q", path), err)
	}

	return &Document{
		reader: reader,
		ctx:    context.Background(),
		path:   path,
		opts:   o,
	}, nil
}

// WithContext returns a shallow copy of d whose extraction methods
// observe ctx for cancellation between pages.
func (d *Document) WithContext(ctx context.Context) *Document {
	cp := *d
	cp.ctx = ctx
	return &cp
}

// Close releases the document's underlying file handle. Safe to call
// more than once.
func (d *Document) Close() error {
	if d.reader == nil {
		return nil
	}
	return d.reader.Close()
}

// Path returns the path Open was given.
func (d *Document) Path() string { return d.path }

// Version returns the PDF version from the file header (e.g. "1.7").
func (d *Document) Version() string { return d.reader.Version() }

// PageCount returns the document's page count.
func (d *Document) PageCount() (int, error) {
	count, err := d.reader.GetPageCount()
	if err != nil {
		return 0, pdferrors.New(pdferrors.ObjectParseError, "get page count", err)
	}
	return count, nil
}

// newExtractorFor builds a TextExtractor carrying this Document's
// open-time options, and validates pageIndex against the page count.
func (d *Document) newExtractorFor(pageIndex int) (*extractor.TextExtractor, error) {
	count, err := d.PageCount()
	if err != nil {
		return nil, err
	}
	if pageIndex < 0 || pageIndex >= count {
		return nil, pdferrors.NewPage(pdferrors.PageOutOfRange, pageIndex, fmt.Sprintf("page index out of range [0,%d)", count), nil)
	}

	te := extractor.NewTextExtractor(d.reader)
	te.SetSpaceThreshold(d.opts.spaceThreshold)
	te.SetMaxXObjectDepth(d.opts.maxXObjectDepth)
	return te, nil
}

// ExtractSpans returns pageIndex's (0-based) text as an ordered list of
// TextSpans, in content-stream show order — the canonical extraction
// output spec.md section 3 describes; no clustering or reading-order
// pass is applied.
func (d *Document) ExtractSpans(pageIndex int) ([]TextSpan, error) {
	select {
	case <-d.ctx.Done():
		return nil, d.ctx.Err()
	default:
	}

	te, err := d.newExtractorFor(pageIndex)
	if err != nil {
		return nil, err
	}

	elements, err := te.ExtractFromPage(pageIndex)
	if err != nil {
		return nil, pdferrors.NewPage(pdferrors.PageRenderError, pageIndex, "extract text", err)
	}

	spans := make([]TextSpan, len(elements))
	for i, el := range elements {
		spans[i] = spanFromElement(el)
	}
	return spans, nil
}

// analyzePage extracts and runs the layout analyzer over one page.
func (d *Document) analyzePage(pageIndex int, mdOpts layout.MarkdownOptions) (*layout.Page, error) {
	select {
	case <-d.ctx.Done():
		return nil, d.ctx.Err()
	default:
	}

	te, err := d.newExtractorFor(pageIndex)
	if err != nil {
		return nil, err
	}

	elements, err := te.ExtractFromPage(pageIndex)
	if err != nil {
		return nil, pdferrors.NewPage(pdferrors.PageRenderError, pageIndex, "extract text", err)
	}

	if info := te.PageInfo(); info != nil {
		w := info.MediaBox[2] - info.MediaBox[0]
		h := info.MediaBox[3] - info.MediaBox[1]
		if mdOpts.PageSizeHint[0] == 0 && mdOpts.PageSizeHint[1] == 0 {
			mdOpts.PageSizeHint = [2]float64{w, h}
		}
	}

	return layout.Analyze(elements, mdOpts), nil
}

// ExtractText returns pageIndex's layout-analyzed text: reading-ordered
// blocks, each block's lines newline-joined, blocks separated by a blank
// line (spec.md section 6's extract_text).
func (d *Document) ExtractText(pageIndex int) (string, error) {
	page, err := d.analyzePage(pageIndex, layout.DefaultMarkdownOptions())
	if err != nil {
		return "", err
	}
	return layout.ExtractText(page), nil
}

// MarkdownOptions configures ToMarkdown's layout analysis: whether to
// detect headings and tables, and an explicit page-size hint for the
// XY-cut gap threshold's page-dimension term (spec.md Open Question (c)).
type MarkdownOptions = layout.MarkdownOptions

// DefaultMarkdownOptions returns the default ToMarkdown behavior: heading
// and table detection both on, no page-size hint (ExtractText and
// ToMarkdown then use the page's MediaBox).
func DefaultMarkdownOptions() MarkdownOptions { return layout.DefaultMarkdownOptions() }

// ToMarkdown returns pageIndex's layout-analyzed content rendered as
// Markdown: ATX headings, bold/italic runs, bullet/ordered lists,
// blockquotes, and pipe tables (spec.md section 6's Markdown dialect).
func (d *Document) ToMarkdown(pageIndex int, opts MarkdownOptions) (string, error) {
	page, err := d.analyzePage(pageIndex, opts)
	if err != nil {
		return "", err
	}
	return layout.ToMarkdown(page.Blocks), nil
}

// TextSpan is a contiguous run of characters produced by a single show
// operation (Tj, TJ, ', "), the canonical extraction unit spec.md
// section 3 defines. Field names and JSON tags follow the wire-stable
// shape spec.md section 6 specifies.
type TextSpan struct {
	Text       string       `json:"text"`
	BBox       BBox         `json:"bbox"`
	FontName   string       `json:"font_name"`
	FontSize   float64      `json:"font_size"`
	FontWeight fonts.Weight `json:"font_weight"`
	Italic     bool         `json:"is_italic"`
	Color      [3]float64   `json:"color"`
	MCID       *int         `json:"mcid,omitempty"`
}

// BBox is a span's glyph bounding box in page coordinates (origin
// bottom-left, points).
type BBox struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	W float64 `json:"w"`
	H float64 `json:"h"`
}

func spanFromElement(el *extractor.TextElement) TextSpan {
	return TextSpan{
		Text:       el.Text,
		BBox:       BBox{X: el.X, Y: el.Y, W: el.Width, H: el.Height},
		FontName:   el.FontName,
		FontSize:   el.FontSize,
		FontWeight: el.FontWeight,
		Italic:     el.Italic,
		Color:      el.Color,
		MCID:       el.MCID,
	}
}
