package filter

// DCTDecoder handles ISO 32000-1:2008 Section 7.4.8 (DCTDecode), the
// JPEG baseline filter used for photographic XObject images.
//
// A text extractor never rasterizes image content, so Decode is a
// passthrough returning the JPEG bytes unchanged; ColorTransform is
// retained only so a future image-export path can honor
// /DecodeParms's /ColorTransform without another round of plumbing.
type DCTDecoder struct {
	ColorTransform int
}

// NewDCTDecoder creates a DCTDecoder with the default color transform
// (1: YCbCr to RGB, per the JPEG/PDF convention).
func NewDCTDecoder() *DCTDecoder {
	return &DCTDecoder{ColorTransform: 1}
}

// NewDCTDecoderWithParams creates a DCTDecoder with an explicit
// /ColorTransform value from the stream's /DecodeParms.
func NewDCTDecoderWithParams(colorTransform int) *DCTDecoder {
	return &DCTDecoder{ColorTransform: colorTransform}
}

// Decode returns the JPEG-compressed bytes unchanged.
func (d *DCTDecoder) Decode(data []byte) ([]byte, error) {
	return data, nil
}
