package filter

import (
	"bytes"
	"fmt"
)

const (
	lzwClearCode = 256
	lzwEODCode   = 257
	lzwFirstCode = 258
	lzwMaxBits   = 12
)

// LZWDecoder implements ISO 32000-1:2008 Section 7.4.4 (LZWDecode).
// PDF's LZW variant differs from the TIFF/GIF variant stdlib's
// compress/lzw implements in one crucial way: /EarlyChange (default 1)
// widens the code size one code early, the moment the table would
// next need it, rather than when it actually does. compress/lzw has
// no hook for that, so the bit-level codec is hand-rolled here.
type LZWDecoder struct {
	earlyChange int
	predictor   PredictorParams
}

// NewLZWDecoder creates an LZWDecoder. earlyChange should be 1 (the
// PDF default) unless the stream's /DecodeParms sets /EarlyChange 0.
func NewLZWDecoder(earlyChange int, predictor PredictorParams) *LZWDecoder {
	return &LZWDecoder{earlyChange: earlyChange, predictor: predictor}
}

type lzwBitReader struct {
	data   []byte
	bitPos int
}

func (r *lzwBitReader) readCode(width int) (int, bool) {
	if r.bitPos+width > len(r.data)*8 {
		return 0, false
	}
	code := 0
	for i := 0; i < width; i++ {
		byteIdx := r.bitPos / 8
		bitIdx := 7 - (r.bitPos % 8)
		bit := (r.data[byteIdx] >> bitIdx) & 1
		code = (code << 1) | int(bit)
		r.bitPos++
	}
	return code, true
}

// Decode decompresses LZW-encoded data and reverses any configured
// predictor.
func (d *LZWDecoder) Decode(data []byte) ([]byte, error) {
	decoded, err := d.decodeLZW(data)
	if err != nil {
		return nil, err
	}
	return applyPredictor(decoded, d.predictor)
}

//nolint:cyclop // LZW table management inherently branches on code class.
func (d *LZWDecoder) decodeLZW(data []byte) ([]byte, error) {
	reader := &lzwBitReader{data: data}
	var out bytes.Buffer

	table := make([][]byte, lzwFirstCode, 4096)
	for i := 0; i < 256; i++ {
		table[i] = []byte{byte(i)}
	}
	table = table[:lzwFirstCode]

	codeWidth := 9
	var prev []byte

	resetTable := func() {
		table = table[:lzwFirstCode]
		codeWidth = 9
		prev = nil
	}

	for {
		code, ok := reader.readCode(codeWidth)
		if !ok {
			break
		}
		if code == lzwClearCode {
			resetTable()
			continue
		}
		if code == lzwEODCode {
			break
		}

		var entry []byte
		switch {
		case code < len(table):
			entry = table[code]
		case code == len(table) && prev != nil:
			// The code-not-yet-in-table case: entry is prev + prev[0].
			entry = append(append([]byte{}, prev...), prev[0])
		default:
			return nil, fmt.Errorf("filter: LZW: invalid code %d (table size %d)", code, len(table))
		}

		out.Write(entry)

		if prev != nil {
			newEntry := append(append([]byte{}, prev...), entry[0])
			if len(table) < 4096 {
				table = append(table, newEntry)
			}
		}
		prev = entry

		nextSize := len(table) + d.earlyChange
		switch {
		case nextSize > 2047 && codeWidth < 12:
			codeWidth = 12
		case nextSize > 1023 && codeWidth < 11:
			codeWidth = 11
		case nextSize > 511 && codeWidth < 10:
			codeWidth = 10
		}
	}

	return out.Bytes(), nil
}
