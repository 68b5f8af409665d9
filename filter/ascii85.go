// Copyright © 2026, SAS Institute Inc., Cary, NC, USA.  All Rights Reserved.
// SPDX-License-Identifier: BSD-3-Clause

package filter

import (
	"bytes"
	"encoding/ascii85"
	"io"
)

// ascii85Decode strips PDF's permitted interior whitespace and the
// trailing "~>" delimiter before handing the data to encoding/ascii85,
// which accepts neither.
func ascii85Decode(data []byte) ([]byte, error) {
	clean := make([]byte, 0, len(data))
	for _, b := range data {
		switch b {
		case ' ', '\t', '\r', '\n', '\f', '\v':
			continue
		}
		clean = append(clean, b)
	}
	clean = bytes.TrimSuffix(clean, []byte("~>"))
	dec := ascii85.NewDecoder(bytes.NewReader(clean))
	return io.ReadAll(dec)
}
