// Copyright © 2026, SAS Institute Inc., Cary, NC, USA.  All Rights Reserved.
// SPDX-License-Identifier: BSD-3-Clause

// Package filter implements the stream decode codecs named in a Stream
// dictionary's /Filter entry. Each codec is a plain function from
// encoded bytes plus decode parameters to decoded bytes; failures are
// returned as errors for the caller to fold into a
// parser:error:stream:decode warning. Codecs never panic on malformed
// input.
package filter

import "fmt"

// Params is the union of /DecodeParms entries any supported filter reads.
// Predictor <= 0 means "absent" (no predictor post-processing).
type Params struct {
	Predictor        int
	Columns          int
	Colors           int
	BitsPerComponent int
	EarlyChange      int // LZWDecode only; defaults to 1 when unset (-1)
}

// DefaultParams returns the parameter defaults ISO 32000-1 specifies when
// a DecodeParms dictionary entry is absent.
func DefaultParams() Params {
	return Params{Columns: 1, Colors: 1, BitsPerComponent: 8, EarlyChange: -1}
}

// Apply decodes data through the named filter. Unknown filter names
// return an error so the caller can emit
// "decoder:not_implemented:stream_filter:<name>" and substitute empty
// output.
func Apply(name string, params Params, data []byte) ([]byte, error) {
	switch name {
	case "FlateDecode", "Fl":
		return flateDecode(data, params)
	case "ASCII85Decode", "A85":
		return ascii85Decode(data)
	case "ASCIIHexDecode", "AHx":
		return asciiHexDecode(data)
	case "LZWDecode", "LZW":
		return lzwDecode(data, params)
	case "RunLengthDecode", "RL":
		return runLengthDecode(data)
	default:
		return nil, fmt.Errorf("decoder:not_implemented:stream_filter: %s", name)
	}
}

// Chain decodes data through each (name, params) pair in order, the way
// a Stream's /Filter array applies filters left to right.
func Chain(names []string, params []Params, data []byte) ([]byte, error) {
	cur := data
	for i, name := range names {
		p := DefaultParams()
		if i < len(params) {
			p = params[i]
		}
		out, err := Apply(name, p, cur)
		if err != nil {
			return nil, fmt.Errorf("filter %d (%s): %w", i, name, err)
		}
		cur = out
	}
	return cur, nil
}
