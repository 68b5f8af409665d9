// Copyright © 2026, SAS Institute Inc., Cary, NC, USA.  All Rights Reserved.
// SPDX-License-Identifier: BSD-3-Clause

package filter

// runLengthDecode implements ISO 32000-1 §7.4.5: a length byte 0-127
// means "copy the next length+1 bytes literally"; 129-255 means "repeat
// the next byte (257-length) times"; 128 is the EOD marker.
func runLengthDecode(data []byte) ([]byte, error) {
	var out []byte
	i := 0
	for i < len(data) {
		n := data[i]
		i++
		switch {
		case n == 128:
			return out, nil
		case n < 128:
			count := int(n) + 1
			if i+count > len(data) {
				count = len(data) - i
			}
			out = append(out, data[i:i+count]...)
			i += count
		default:
			if i >= len(data) {
				return out, nil
			}
			count := 257 - int(n)
			for j := 0; j < count; j++ {
				out = append(out, data[i])
			}
			i++
		}
	}
	return out, nil
}
