// Copyright © 2026, SAS Institute Inc., Cary, NC, USA.  All Rights Reserved.
// SPDX-License-Identifier: BSD-3-Clause

package pdfgraph

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func tokenizeAll(t *testing.T, input string) []Token {
	t.Helper()
	tk := NewTokenizer(NewMemoryReader([]byte(input)))
	var out []Token
	for {
		tok, ok := tk.Next()
		if !ok {
			break
		}
		out = append(out, tok)
	}
	return out
}

func kinds(toks []Token) []TokenKind {
	out := make([]TokenKind, len(toks))
	for i, tk := range toks {
		out[i] = tk.Kind
	}
	return out
}

func TestTokenizer_Scalars(t *testing.T) {
	toks := tokenizeAll(t, "null true false 42 -17 3.14 /Name")
	var filtered []Token
	for _, tk := range toks {
		if tk.Kind != TokSpace {
			filtered = append(filtered, tk)
		}
	}
	require.Len(t, filtered, 7)
	assert.Equal(t, TokNull, filtered[0].Kind)
	assert.Equal(t, TokBoolean, filtered[1].Kind)
	assert.True(t, filtered[1].Bool)
	assert.Equal(t, TokBoolean, filtered[2].Kind)
	assert.False(t, filtered[2].Bool)
	assert.Equal(t, TokInteger, filtered[3].Kind)
	assert.EqualValues(t, 42, filtered[3].Int)
	assert.Equal(t, TokInteger, filtered[4].Kind)
	assert.EqualValues(t, -17, filtered[4].Int)
	assert.Equal(t, TokReal, filtered[5].Kind)
	assert.InDelta(t, 3.14, filtered[5].Real, 0.0001)
}

func TestTokenizer_NameHexEscape(t *testing.T) {
	toks := tokenizeAll(t, "/A#42C")
	require.Len(t, toks, 1)
	assert.Equal(t, TokName, toks[0].Kind)
	assert.Equal(t, "ABC", toks[0].Str)
}

func TestTokenizer_ArrayDictDelimiters(t *testing.T) {
	toks := tokenizeAll(t, "[ << >> ]")
	var ks []TokenKind
	for _, tk := range toks {
		if tk.Kind != TokSpace {
			ks = append(ks, tk.Kind)
		}
	}
	assert.Equal(t, []TokenKind{TokArrayStart, TokDictStart, TokDictEnd, TokArrayEnd}, ks)
}

func TestTokenizer_HexString(t *testing.T) {
	toks := tokenizeAll(t, "<48656C6C6F>")
	require.Len(t, toks, 1)
	assert.Equal(t, TokHexString, toks[0].Kind)
	assert.Equal(t, "Hello", string(toks[0].Bytes))
}

func TestTokenizer_HexString_OddDigitsPadded(t *testing.T) {
	toks := tokenizeAll(t, "<48656C6C6F1>")
	require.Len(t, toks, 1)
	assert.Equal(t, []byte{'H', 'e', 'l', 'l', 'o', 0x10}, toks[0].Bytes)
}

func TestTokenizer_LiteralString_Escapes(t *testing.T) {
	toks := tokenizeAll(t, `(line1\nline2\t\(paren\)\101)`)
	require.Len(t, toks, 1)
	assert.Equal(t, TokString, toks[0].Kind)
	assert.Equal(t, "line1\nline2\t(paren)A", string(toks[0].Bytes))
}

func TestTokenizer_LiteralString_NestedBalancedParens(t *testing.T) {
	toks := tokenizeAll(t, "(outer (inner) text)")
	require.Len(t, toks, 1)
	assert.Equal(t, "outer (inner) text", string(toks[0].Bytes))
}

func TestTokenizer_LiteralString_OctalUpTo3Digits(t *testing.T) {
	toks := tokenizeAll(t, `(\053\53)`)
	require.Len(t, toks, 1)
	assert.Equal(t, "++", string(toks[0].Bytes))
}

func TestTokenizer_LiteralString_UnexpectedEOF(t *testing.T) {
	toks := tokenizeAll(t, "(unterminated")
	require.Len(t, toks, 1)
	require.NotNil(t, toks[0].Warning)
	assert.Equal(t, "tokenizer:unexpected_eof:string", toks[0].Warning.Code)
}

func TestTokenizer_Comment(t *testing.T) {
	toks := tokenizeAll(t, "%a comment\nnull")
	require.Len(t, toks, 2)
	assert.Equal(t, TokComment, toks[0].Kind)
	assert.Equal(t, "a comment", toks[0].Str)
	assert.Equal(t, TokNull, toks[1].Kind)
}

func TestTokenizer_Comment_UnexpectedEOF(t *testing.T) {
	toks := tokenizeAll(t, "%no newline")
	require.Len(t, toks, 1)
	require.NotNil(t, toks[0].Warning)
	assert.Equal(t, "tokenizer:unexpected_eof:comment", toks[0].Warning.Code)
}

func TestTokenizer_IndirectObjectComposition(t *testing.T) {
	toks := tokenizeAll(t, "1 0 obj << /A 1 >> endobj")
	ks := kinds(filterSpace(toks))
	require.Equal(t, []TokenKind{TokIndirectStart, TokDictStart, TokName, TokInteger, TokDictEnd, TokIndirectEnd}, ks)
	start := filterSpace(toks)[0]
	assert.Equal(t, Identifier{Num: 1, Gen: 0}, start.Identifier)
}

func TestTokenizer_RefComposition(t *testing.T) {
	toks := tokenizeAll(t, "3 0 R")
	filtered := filterSpace(toks)
	require.Len(t, filtered, 1)
	assert.Equal(t, TokRef, filtered[0].Kind)
	assert.Equal(t, Identifier{Num: 3, Gen: 0}, filtered[0].Identifier)
}

func TestTokenizer_RefComposition_MissingIntegers(t *testing.T) {
	toks := tokenizeAll(t, "R")
	require.Len(t, toks, 1)
	assert.Equal(t, TokRef, toks[0].Kind)
	assert.False(t, toks[0].Identifier.Valid())
	require.NotNil(t, toks[0].Warning)
	assert.Equal(t, "tokenizer:invalid_token:composition", toks[0].Warning.Code)
}

func filterSpace(toks []Token) []Token {
	var out []Token
	for _, tk := range toks {
		if tk.Kind != TokSpace {
			out = append(out, tk)
		}
	}
	return out
}

func TestTokenizer_StreamBody(t *testing.T) {
	input := "stream\nhello world\nendstream"
	toks := tokenizeAll(t, input)
	require.Len(t, toks, 1)
	assert.Equal(t, TokStream, toks[0].Kind)
	body := input[toks[0].StreamSpan.Start:toks[0].StreamSpan.End]
	assert.Equal(t, "hello world", body)
}

func TestTokenizer_StreamBody_UnexpectedEOF(t *testing.T) {
	toks := tokenizeAll(t, "stream\nhello world")
	require.Len(t, toks, 1)
	require.NotNil(t, toks[0].Warning)
	assert.Equal(t, "tokenizer:unexpected_eof:stream", toks[0].Warning.Code)
}

func TestTokenizer_XrefSection(t *testing.T) {
	input := "xref\n0 2\n0000000000 65535 f \n0000000015 00000 n \n"
	toks := tokenizeAll(t, input)
	require.Len(t, toks, 1)
	require.Equal(t, TokXref, toks[0].Kind)
	require.Len(t, toks[0].XrefEntries, 2)
	assert.Equal(t, byte('f'), toks[0].XrefEntries[0].Type)
	assert.EqualValues(t, 65535, toks[0].XrefEntries[0].F2)
	assert.Equal(t, byte('n'), toks[0].XrefEntries[1].Type)
	assert.EqualValues(t, 15, toks[0].XrefEntries[1].F1)
}

func TestTokenizer_Startxref(t *testing.T) {
	toks := tokenizeAll(t, "startxref\n1234\n%%EOF\n")
	require.Len(t, toks, 1)
	assert.Equal(t, TokEOF, toks[0].Kind)
	assert.EqualValues(t, 1234, toks[0].EOFOffset)
}

func TestTokenizer_OperatorKeyword(t *testing.T) {
	toks := tokenizeAll(t, "BT Tj")
	filtered := filterSpace(toks)
	require.Len(t, filtered, 2)
	assert.Equal(t, TokOp, filtered[0].Kind)
	assert.Equal(t, "BT", filtered[0].Str)
	assert.Equal(t, TokOp, filtered[1].Kind)
	assert.Equal(t, "Tj", filtered[1].Str)
}

func TestTokenizer_JunkByte(t *testing.T) {
	toks := tokenizeAll(t, "\x01")
	require.Len(t, toks, 1)
	assert.Equal(t, TokJunk, toks[0].Kind)
}

func TestTokenizer_TokenSpansCoverInput(t *testing.T) {
	input := "1 0 obj << /A (x) >> endobj"
	toks := tokenizeAll(t, input)
	require.NotEmpty(t, toks)
	assert.EqualValues(t, 0, toks[0].Span.Start)
	var prevEnd int64
	for _, tk := range toks {
		assert.GreaterOrEqualf(t, tk.Span.Start, prevEnd, "token spans must not overlap or go backwards")
		prevEnd = tk.Span.End
	}
	assert.EqualValues(t, len(input), prevEnd)
}
