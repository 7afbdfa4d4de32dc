package filter

import (
	"bytes"
	"compress/zlib"
	"fmt"
	"io"
)

// FlateDecoder implements ISO 32000-1:2008 Section 7.4.4 (FlateDecode),
// which is RFC 1950 zlib compression with an optional PNG/TIFF
// predictor pass applied to the decompressed bytes.
type FlateDecoder struct {
	predictor PredictorParams
}

// NewFlateDecoder creates a FlateDecoder using the given predictor
// parameters (pass PredictorParams{Predictor: 1} for "no predictor").
func NewFlateDecoder(predictor PredictorParams) *FlateDecoder {
	return &FlateDecoder{predictor: predictor}
}

// Decode decompresses data and reverses any configured predictor.
func (d *FlateDecoder) Decode(data []byte) ([]byte, error) {
	r, err := zlib.NewReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("filter: zlib: %w", err)
	}
	defer func() { _ = r.Close() }()

	var buf bytes.Buffer
	if _, err := io.Copy(&buf, r); err != nil {
		return nil, fmt.Errorf("filter: zlib decompress: %w", err)
	}

	return applyPredictor(buf.Bytes(), d.predictor)
}
