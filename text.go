// Copyright © 2026, SAS Institute Inc., Cary, NC, USA.  All Rights Reserved.
// SPDX-License-Identifier: BSD-3-Clause

package pdfgraph

import (
	"strconv"
	"strings"
	"time"
	"unicode/utf16"

	"golang.org/x/text/unicode/norm"
)

// classifyStringBytes applies the encoding sniffs in order (date prefix,
// UTF-8 BOM, UTF-16BE BOM, raw hex bytes, PDFDocEncoding fallback) and
// fills the relevant fields of o, which the caller has already allocated
// with the right UID.
func classifyStringBytes(o *Object, raw []byte, wasHex bool) {
	if !wasHex && hasPrefix(raw, sniffDate) {
		if dt, ok := parseDate(string(raw)); ok {
			o.Kind = KindDate
			o.Date = dt
			o.DateValid = true
			return
		}
	}
	if hasPrefix(raw, sniffUTF8BOM) {
		o.Kind = KindText
		o.TextEncoding = EncodingUTF8
		o.Text = string(raw[len(sniffUTF8BOM):])
		return
	}
	if hasPrefix(raw, sniffUTF16BE) {
		o.Kind = KindText
		o.TextEncoding = EncodingUTF16BE
		o.Text = decodeUTF16BE(raw[len(sniffUTF16BE):])
		return
	}
	if wasHex {
		o.Kind = KindBytes
		o.Bytes = raw
		return
	}
	o.Kind = KindText
	o.TextEncoding = EncodingPDFDoc
	o.Text = pdfDocDecodeBytes(raw)
}

func hasPrefix(b []byte, prefix []byte) bool {
	if len(b) < len(prefix) {
		return false
	}
	for i := range prefix {
		if b[i] != prefix[i] {
			return false
		}
	}
	return true
}

// pdfDocDecodeBytes decodes raw under PDFDocEncoding, falling back to
// Latin-1 identity for bytes with no deviation entry.
func pdfDocDecodeBytes(raw []byte) string {
	runes := make([]rune, len(raw))
	for i, b := range raw {
		runes[i] = pdfDocDecodeByte(b)
	}
	return string(runes)
}

// decodeUTF16BE decodes raw (without its BOM) as big-endian UTF-16 and
// NFC-normalizes the result so decomposed sequences compare equal to
// their precomposed forms.
func decodeUTF16BE(raw []byte) string {
	n := len(raw) / 2
	units := make([]uint16, n)
	for i := 0; i < n; i++ {
		units[i] = uint16(raw[2*i])<<8 | uint16(raw[2*i+1])
	}
	return norm.NFC.String(string(utf16.Decode(units)))
}

// parseDate applies the PDF date grammar to a literal string already
// known to start with "D:". Missing trailing fields default per ISO
// 32000-1 §7.9.4: month=01, day=01, h=m=s=00.
func parseDate(s string) (time.Time, bool) {
	m := dateRegex.FindStringSubmatch(strings.TrimPrefix(s, "D:"))
	if m == nil {
		return time.Time{}, false
	}
	year := atoiDefault(m[1], 0)
	month := atoiDefault(m[2], 1)
	day := atoiDefault(m[3], 1)
	hour := atoiDefault(m[4], 0)
	min := atoiDefault(m[5], 0)
	sec := atoiDefault(m[6], 0)

	loc := time.UTC
	if m[7] == "+" || m[7] == "-" {
		tzh := atoiDefault(m[8], 0)
		tzm := atoiDefault(m[9], 0)
		offset := tzh*3600 + tzm*60
		if m[7] == "-" {
			offset = -offset
		}
		loc = time.FixedZone("", offset)
	}
	return time.Date(year, time.Month(month), day, hour, min, sec, 0, loc), true
}

func atoiDefault(s string, def int) int {
	if s == "" {
		return def
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return def
	}
	return v
}
