// Copyright © 2026, SAS Institute Inc., Cary, NC, USA.  All Rights Reserved.
// SPDX-License-Identifier: BSD-3-Clause

package filter

import (
	"bytes"
	"compress/zlib"
	"errors"
	"io"
)

// flateDecode inflates data and, when the stream declares a PNG
// predictor, reverses the PNG Up filter row-by-row. Up is the predictor
// PDF producers emit in practice for xref streams; other PNG predictor
// variants are rejected.
func flateDecode(data []byte, p Params) ([]byte, error) {
	zr, err := zlib.NewReader(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	defer zr.Close()

	raw, err := io.ReadAll(zr)
	if err != nil {
		return nil, err
	}
	if p.Predictor <= 1 {
		return raw, nil
	}
	if p.Predictor != 12 {
		return nil, errors.New("unsupported predictor")
	}
	return unpredictPNGUp(raw, p.Columns, p.Colors, p.BitsPerComponent)
}

// unpredictPNGUp reverses the PNG "Up" filter (predictor 12): every row
// is prefixed with a filter-type byte (must be 2) and added to the
// previous row byte-by-byte modulo 256.
func unpredictPNGUp(raw []byte, columns, colors, bpc int) ([]byte, error) {
	rowBytes := (columns*colors*bpc + 7) / 8
	stride := rowBytes + 1
	if stride <= 1 || len(raw)%stride != 0 {
		return nil, errors.New("malformed PNG-predictor row stride")
	}
	rows := len(raw) / stride
	out := make([]byte, 0, rows*rowBytes)
	prev := make([]byte, rowBytes)
	for r := 0; r < rows; r++ {
		row := raw[r*stride : (r+1)*stride]
		if row[0] != 2 {
			return nil, errors.New("malformed PNG-Up encoding")
		}
		cur := make([]byte, rowBytes)
		for i := 0; i < rowBytes; i++ {
			cur[i] = row[1+i] + prev[i]
		}
		out = append(out, cur...)
		prev = cur
	}
	return out, nil
}
