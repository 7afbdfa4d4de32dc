package layout

// MarkdownOptions controls heading/table detection and the page-size
// hint used to scale the XY-cut gap threshold, per spec.md section 6's
// to_markdown(page_index, options) signature.
type MarkdownOptions struct {
	// DetectHeadings enables H1..H6 tagging (step 5 of the layout pass).
	// Defaults to true via DefaultMarkdownOptions.
	DetectHeadings bool

	// DetectTables enables column-separator-based table detection
	// (step 6). Defaults to true via DefaultMarkdownOptions.
	DetectTables bool

	// PageSizeHint is the (width, height) in points used for the
	// 0.04*page_dimension term of the XY-cut gap threshold (Open
	// Question (c)). Zero means "derive it from the element bounding
	// box actually observed on the page."
	PageSizeHint [2]float64

	// SpaceThreshold is the TJ inter-glyph adjustment, in thousandths
	// of an em, beyond which a negative TJ displacement is treated as
	// an inter-word space rather than intra-word kerning (Open
	// Question (a), spec.md's own near-250 default). Analyze does not
	// read this field; the threshold in effect is the extractor's own,
	// set through pdftext's WithSpaceThreshold option.
	SpaceThreshold float64
}

// DefaultMarkdownOptions returns the spec-documented defaults: both
// heading and table detection enabled, no page-size hint (derived from
// observed content), and the 250-unit TJ-gap threshold.
func DefaultMarkdownOptions() MarkdownOptions {
	return MarkdownOptions{
		DetectHeadings: true,
		DetectTables:   true,
		SpaceThreshold: 250,
	}
}
