// Copyright © 2026, SAS Institute Inc., Cary, NC, USA.  All Rights Reserved.
// SPDX-License-Identifier: BSD-3-Clause

package pdfgraph

import "regexp"

// byteSet is a 256-bit membership set; a bit-packed array is cheaper
// than a map for the per-byte class tests the tokenizer makes.
type byteSet [4]uint64

func newByteSet(bytes ...byte) byteSet {
	var s byteSet
	for _, b := range bytes {
		s.add(b)
	}
	return s
}

func newByteRange(lo, hi byte) byteSet {
	var s byteSet
	for b := int(lo); b <= int(hi); b++ {
		s.add(byte(b))
	}
	return s
}

func (s *byteSet) add(b byte) { s[b>>6] |= 1 << (b & 63) }

func (s byteSet) has(b byte) bool { return s[b>>6]&(1<<(b&63)) != 0 }

func (s byteSet) union(other byteSet) byteSet {
	var out byteSet
	for i := range out {
		out[i] = s[i] | other[i]
	}
	return out
}

func (s byteSet) minus(other byteSet) byteSet {
	var out byteSet
	for i := range out {
		out[i] = s[i] &^ other[i]
	}
	return out
}

// PDF character classes (ISO 32000-1 §7.2.2), built once at package init.
var (
	classSpace   = newByteSet(0, 9, 10, 12, 13, 32)
	classEOL     = newByteSet(10, 13)
	classGT      = newByteSet('>')
	classDigit   = newByteRange('0', '9')
	classNumber  = classDigit.union(newByteSet('+', '-', '.'))
	classKeyword = newByteRange('a', 'z').union(newByteRange('A', 'Z'))
	// NAME is printable ASCII minus the PDF delimiter set.
	className              = newByteRange('!', '~').minus(newByteSet('%', '(', ')', '/', '[', ']', '<', '>'))
	classStringParen       = newByteSet('(', ')', '\\')
	classEndstreamSentinel = classEOL.union(newByteSet('e'))
)

// Sniff prefixes used by the lexer's string classification.
var (
	sniffDate    = []byte{0x44, 0x3a} // "D:"
	sniffUTF8BOM = []byte{0xEF, 0xBB, 0xBF}
	sniffUTF16BE = []byte{0xFE, 0xFF}
)

// dateRegex matches the PDF date-string grammar (ISO 32000-1 §7.9.4):
// D:YYYYMMDDHHmmSSOHH'mm
var dateRegex = regexp.MustCompile(`^(\d{4})(\d{2})?(\d{2})?(\d{2})?(\d{2})?(\d{2})?([+\-Z])?(\d{2})?'?(\d{2})?'?$`)

// pdfDocEncodingDeviations holds the byte codes where PDFDocEncoding
// (ISO 32000-1 Annex D.3) departs from Latin-1. Any byte not listed here
// decodes to its Latin-1 identity rune.
var pdfDocEncodingDeviations = map[byte]rune{
	0x18: '˘', // breve
	0x19: 'ˇ', // caron
	0x1a: 'ˆ', // circumflex
	0x1b: '˙', // dotaccent
	0x1c: '˝', // hungarumlaut
	0x1d: '˛', // ogonek
	0x1e: '˚', // ring
	0x1f: '˜', // tilde
	0x7f: '�',
	0x80: '•', // bullet
	0x81: '†', // dagger
	0x82: '‡', // daggerdbl
	0x83: '…', // ellipsis
	0x84: '—', // emdash
	0x85: '–', // endash
	0x86: 'ƒ', // florin
	0x87: '⁄', // fraction
	0x88: '‹', // guilsinglleft
	0x89: '›', // guilsinglright
	0x8a: '−', // minus
	0x8b: '‰', // perthousand
	0x8c: '„', // quotedblbase
	0x8d: '“', // quotedblleft
	0x8e: '”', // quotedblright
	0x8f: '‘', // quoteleft
	0x90: '’', // quoteright
	0x91: '‚', // quotesinglbase
	0x92: '™', // trademark
	0x93: 'ﬁ', // fi ligature
	0x94: 'ﬂ', // fl ligature
	0x95: 'Ł', // Lslash
	0x96: 'Œ', // OE
	0x97: 'Š', // Scaron
	0x98: 'Ÿ', // Ydieresis
	0x99: 'Ž', // Zcaron
	0x9a: 'ı', // dotlessi
	0x9b: 'ł', // lslash
	0x9c: 'œ', // oe
	0x9d: 'š', // scaron
	0x9e: 'ž', // zcaron
	0x9f: '�',
	0xad: '�',
	0xa0: '€', // Euro
}

// pdfDocDecodeByte maps a single PDFDocEncoded byte to its Unicode rune.
func pdfDocDecodeByte(b byte) rune {
	if r, ok := pdfDocEncodingDeviations[b]; ok {
		return r
	}
	return rune(b)
}

// supportedVersions lists the PDF versions the header check recognizes
// without a warning.
var supportedVersions = map[string]bool{
	"1.0": true, "1.1": true, "1.2": true, "1.3": true,
	"1.4": true, "1.5": true, "1.6": true, "1.7": true,
	"2.0": true,
}
