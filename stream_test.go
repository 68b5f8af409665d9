// Copyright © 2026, SAS Institute Inc., Cary, NC, USA.  All Rights Reserved.
// SPDX-License-Identifier: BSD-3-Clause

package pdfgraph

import (
	"bytes"
	"compress/zlib"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func deflate(t *testing.T, raw []byte) []byte {
	t.Helper()
	var buf bytes.Buffer
	w := zlib.NewWriter(&buf)
	_, err := w.Write(raw)
	require.NoError(t, err)
	require.NoError(t, w.Close())
	return buf.Bytes()
}

func newStreamFixture(t *testing.T, dictSetup func(*Store, *Object), body []byte) (*Store, *Object) {
	t.Helper()
	store := NewStore()
	dict := store.create(KindDictionary)
	if dictSetup != nil {
		dictSetup(store, dict)
	}
	full := append([]byte("prefix\n"), body...)
	stream := store.create(KindStream)
	stream.StreamDict = dict.UID
	stream.SourceStart = int64(len("prefix\n"))
	stream.SourceEnd = int64(len(full))
	stream.HasSource = true
	store.streams = append(store.streams, stream.UID)

	off := NewMemoryReader(full).AsOffsetReader()
	ClassifyStreamTypes(store)
	decodeOneStream(store, off, stream)
	return store, stream
}

func setName(store *Store, dict *Object, key, name string) {
	n := store.create(KindName)
	n.Str = name
	dict.DictVal.Set(key, n.UID)
}

func setInt(store *Store, dict *Object, key string, v int64) {
	n := store.create(KindInteger)
	n.Integer = v
	dict.DictVal.Set(key, n.UID)
}

func TestDecodeOneStream_FlateDecode(t *testing.T) {
	raw := []byte("hello, streams")
	body := deflate(t, raw)
	store, stream := newStreamFixture(t, func(s *Store, d *Object) {
		setName(s, d, "Filter", "FlateDecode")
		setInt(s, d, "Length", int64(len(body)))
	}, body)

	child := store.Get(stream.StreamDirect)
	require.NotNil(t, child)
	require.Equal(t, KindBytes, child.Kind)
	assert.Equal(t, raw, child.Bytes)
}

func TestDecodeOneStream_LengthMismatch_Small(t *testing.T) {
	raw := []byte("hello")
	store, stream := newStreamFixture(t, func(s *Store, d *Object) {
		setInt(s, d, "Length", int64(len(raw))+2) // off by two: adjusted silently
	}, raw)
	_ = stream
	assert.Empty(t, storeWarningsByCode(store, "parser:invalid_stream:length_mismatch"))
}

func TestDecodeOneStream_LengthMismatch_Large(t *testing.T) {
	raw := []byte("hello")
	store, stream := newStreamFixture(t, func(s *Store, d *Object) {
		setInt(s, d, "Length", int64(len(raw))+10)
	}, raw)
	_ = stream
	assert.NotEmpty(t, storeWarningsByCode(store, "parser:invalid_stream:length_mismatch"))
}

func storeWarningsByCode(store *Store, code string) []Warning {
	var out []Warning
	for _, w := range store.Warnings {
		if w.Code == code {
			out = append(out, w)
		}
	}
	return out
}

func TestDecodeOneStream_UnknownFilterWarnsEmpty(t *testing.T) {
	raw := []byte("data")
	store, stream := newStreamFixture(t, func(s *Store, d *Object) {
		setName(s, d, "Filter", "WeirdDecode")
		setInt(s, d, "Length", int64(len(raw)))
	}, raw)

	child := store.Get(stream.StreamDirect)
	require.NotNil(t, child)
	assert.Empty(t, child.Bytes)
	assert.NotEmpty(t, storeWarningsByCode(store, "parser:error:stream:decode"))
}

func TestSubParseContent_OperatorsAndOperands(t *testing.T) {
	store := NewStore()
	content := subParseContent(store, []byte("BT /F1 12 Tf (Hello) Tj ET"))
	require.Equal(t, KindContent, content.Kind)
	require.NotEmpty(t, content.Children)

	var ops []string
	for _, uid := range content.Children {
		o := store.Get(uid)
		if o.Kind == KindOp {
			ops = append(ops, o.Str)
		}
	}
	assert.Contains(t, ops, "BT")
	assert.Contains(t, ops, "Tj")
	assert.Contains(t, ops, "ET")
}

func TestSubParseContent_DemotesStructuralTokens(t *testing.T) {
	store := NewStore()
	// "obj" and "endobj" in a content stream become opaque Ops rather than
	// creating an Indirect object.
	content := subParseContent(store, []byte("1 0 obj endobj"))
	for _, uid := range content.Children {
		o := store.Get(uid)
		assert.NotEqual(t, KindIndirect, o.Kind)
	}
}
