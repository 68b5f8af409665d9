// Copyright © 2026, SAS Institute Inc., Cary, NC, USA.  All Rights Reserved.
// SPDX-License-Identifier: BSD-3-Clause

// Package testutil holds small synthetic-PDF builders shared by the
// engine's test files.
package testutil

import (
	"bytes"
	"fmt"
)

// MinimalPDF returns a tiny, well-formed single-page PDF with a classical
// xref table, long enough to clear the header's minimum-size check.
func MinimalPDF() []byte {
	var buf bytes.Buffer
	buf.WriteString("%PDF-1.7\n%\xE2\xE3\xCF\xD3\n")

	offsets := make([]int, 5)
	write := func(num int, body string) {
		offsets[num] = buf.Len()
		fmt.Fprintf(&buf, "%d 0 obj\n%s\nendobj\n", num, body)
	}
	write(1, "<< /Type /Catalog /Pages 2 0 R >>")
	write(2, "<< /Type /Pages /Kids [3 0 R] /Count 1 >>")
	write(3, "<< /Type /Page /Parent 2 0 R /MediaBox [0 0 612 792] /Resources << /Font << >> >> /Contents 4 0 R >>")

	stream := "BT /F1 12 Tf (Hello) Tj ET"
	offsets[4] = buf.Len()
	fmt.Fprintf(&buf, "4 0 obj\n<< /Length %d >>\nstream\n%s\nendstream\nendobj\n", len(stream), stream)

	xrefOffset := buf.Len()
	buf.WriteString("xref\n0 5\n")
	buf.WriteString("0000000000 65535 f \n")
	for i := 1; i <= 4; i++ {
		fmt.Fprintf(&buf, "%010d 00000 n \n", offsets[i])
	}
	buf.WriteString("trailer\n<< /Size 5 /Root 1 0 R >>\n")
	fmt.Fprintf(&buf, "startxref\n%d\n%%%%EOF\n", xrefOffset)

	// Pad to clear the header's minimum-filesize gate on tiny fixtures.
	for buf.Len() < 300 {
		buf.WriteString("%\n")
	}
	return buf.Bytes()
}

// TruncatedPDF returns MinimalPDF with its tail (xref onward) cut off: the
// objects are intact, but there is no xref section, trailer or startxref.
func TruncatedPDF() []byte {
	full := MinimalPDF()
	cut := bytes.Index(full, []byte("xref\n"))
	if cut < 0 {
		return full
	}
	return full[:cut]
}
