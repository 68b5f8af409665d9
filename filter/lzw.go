// Copyright © 2026, SAS Institute Inc., Cary, NC, USA.  All Rights Reserved.
// SPDX-License-Identifier: BSD-3-Clause

package filter

import (
	"bytes"
	"errors"
	"io"

	"github.com/hhrutter/lzw"
)

// lzwDecode decodes PDF's LZWDecode filter, which uses an "early change"
// code-width bump that the standard library's compress/lzw cannot
// reproduce; github.com/hhrutter/lzw implements exactly this PDF/TIFF
// variant. EarlyChange defaults to 1 (true) per ISO 32000-1 Table 13
// when the /DecodeParms entry is absent.
func lzwDecode(data []byte, p Params) ([]byte, error) {
	early := true
	if p.EarlyChange == 0 {
		early = false
	}
	rc := lzw.NewReader(bytes.NewReader(data), early)
	defer rc.Close()
	out, err := io.ReadAll(rc)
	if err != nil {
		return nil, err
	}
	return unpredictIfNeeded(out, p)
}

// unpredictIfNeeded applies the same PNG-Up predictor reversal
// FlateDecode uses, since LZWDecode streams use the identical
// /DecodeParms predictor vocabulary.
func unpredictIfNeeded(raw []byte, p Params) ([]byte, error) {
	if p.Predictor <= 1 {
		return raw, nil
	}
	if p.Predictor != 12 {
		return nil, errors.New("unsupported LZWDecode predictor")
	}
	return unpredictPNGUp(raw, p.Columns, p.Colors, p.BitsPerComponent)
}
