// Package filter implements the stream decoders named in ISO 32000-1:2008
// Section 7.4: FlateDecode, LZWDecode (with PNG/TIFF predictors),
// ASCIIHexDecode, ASCII85Decode, and RunLengthDecode, plus passthrough
// handling for the image filters (DCTDecode, JPXDecode, JBIG2Decode,
// CCITTFaxDecode) that a text extractor never needs to rasterize.
package filter

import (
	"bytes"
	"fmt"
)

// ParamGetter looks up an integer entry from a stream's /DecodeParms
// dictionary without requiring this package to depend on the object
// model in internal/parser (which would create an import cycle).
type ParamGetter func(key string) (int64, bool)

// PredictorParams holds the /DecodeParms fields that affect predictor
// post-processing: /Predictor, /Colors, /BitsPerComponent, /Columns.
//
// Reference: PDF 1.7 specification, Table 8 (Table 3.8 in some
// editions), Section 7.4.4.4.
type PredictorParams struct {
	Predictor        int
	Colors           int
	BitsPerComponent int
	Columns          int
}

// PredictorParamsFromDict reads predictor parameters from get, applying
// the PDF-mandated defaults (Predictor=1 i.e. none, Colors=1,
// BitsPerComponent=8, Columns=1) for any field the dictionary omits.
func PredictorParamsFromDict(get ParamGetter) PredictorParams {
	p := PredictorParams{Predictor: 1, Colors: 1, BitsPerComponent: 8, Columns: 1}
	if get == nil {
		return p
	}
	if v, ok := get("Predictor"); ok {
		p.Predictor = int(v)
	}
	if v, ok := get("Colors"); ok {
		p.Colors = int(v)
	}
	if v, ok := get("BitsPerComponent"); ok {
		p.BitsPerComponent = int(v)
	}
	if v, ok := get("Columns"); ok {
		p.Columns = int(v)
	}
	return p
}

const (
	pfNone  = 0
	pfSub   = 1
	pfUp    = 2
	pfAvg   = 3
	pfPaeth = 4
)

// applyPredictor reverses the predictor encoding applied before
// compression. Predictor 1 means "no predictor" and returns data
// unchanged; 2 is TIFF-style horizontal differencing; 10-15 are the
// PNG filter types, one selector byte prefixed to every row.
func applyPredictor(data []byte, p PredictorParams) ([]byte, error) {
	if p.Predictor <= 1 {
		return data, nil
	}
	bytesPerPixel := (p.Colors*p.BitsPerComponent + 7) / 8
	if bytesPerPixel < 1 {
		bytesPerPixel = 1
	}

	if p.Predictor == 2 {
		rowLength := (p.Columns*p.Colors*p.BitsPerComponent + 7) / 8
		if rowLength < 1 {
			return []byte{}, nil
		}
		if len(data)%rowLength != 0 {
			return nil, fmt.Errorf("filter: TIFF predictor: invalid row length (%d/%d)", len(data), rowLength)
		}
		rows := len(data) / rowLength
		out := make([]byte, len(data))
		copy(out, data)
		for i := 0; i < rows; i++ {
			row := out[rowLength*i : rowLength*(i+1)]
			for j := bytesPerPixel; j < rowLength; j++ {
				row[j] += row[j-bytesPerPixel]
			}
		}
		return out, nil
	}

	if p.Predictor >= 10 && p.Predictor <= 15 {
		rowDataLen := (p.Columns*p.Colors*p.BitsPerComponent + 7) / 8
		rowLength := rowDataLen + 1
		if rowLength <= 1 {
			return nil, fmt.Errorf("filter: PNG predictor: invalid columns/colors")
		}
		if len(data)%rowLength != 0 {
			return nil, fmt.Errorf("filter: PNG predictor: invalid row length (%d/%d)", len(data), rowLength)
		}
		rows := len(data) / rowLength

		var out bytes.Buffer
		prev := make([]byte, rowDataLen)
		for i := 0; i < rows; i++ {
			row := make([]byte, rowDataLen)
			copy(row, data[rowLength*i+1:rowLength*(i+1)])
			filterType := data[rowLength*i]

			switch filterType {
			case pfNone:
			case pfSub:
				for j := bytesPerPixel; j < rowDataLen; j++ {
					row[j] += row[j-bytesPerPixel]
				}
			case pfUp:
				for j := 0; j < rowDataLen; j++ {
					row[j] += prev[j]
				}
			case pfAvg:
				for j := 0; j < rowDataLen; j++ {
					var left byte
					if j >= bytesPerPixel {
						left = row[j-bytesPerPixel]
					}
					row[j] += byte((int(left) + int(prev[j])) / 2)
				}
			case pfPaeth:
				for j := 0; j < rowDataLen; j++ {
					var a, b, c byte
					b = prev[j]
					if j >= bytesPerPixel {
						a = row[j-bytesPerPixel]
						c = prev[j-bytesPerPixel]
					}
					row[j] += paeth(a, b, c)
				}
			default:
				return nil, fmt.Errorf("filter: invalid PNG filter type byte %d at row %d", filterType, i)
			}

			out.Write(row)
			prev = row
		}
		return out.Bytes(), nil
	}

	return nil, fmt.Errorf("filter: unsupported predictor %d", p.Predictor)
}

func paeth(a, b, c byte) byte {
	pa := abs(int(b) - int(c))
	pb := abs(int(a) - int(c))
	pc := abs(int(a) + int(b) - 2*int(c))
	if pa <= pb && pa <= pc {
		return a
	}
	if pb <= pc {
		return b
	}
	return c
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
