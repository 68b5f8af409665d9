// Copyright © 2026, SAS Institute Inc., Cary, NC, USA.  All Rights Reserved.
// SPDX-License-Identifier: BSD-3-Clause

package engine

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	pdfgraph "github.com/sassoftware/pdfgraph"
	"github.com/sassoftware/pdfgraph/internal/testutil"
)

func TestLoadDocumentFromArray_WithoutStructuralize(t *testing.T) {
	doc, err := LoadDocumentFromArray(testutil.MinimalPDF(), Options{Parser: pdfgraph.DefaultOptions()})
	require.NoError(t, err)
	require.NotNil(t, doc.Store)
	assert.Nil(t, doc.Structure)
	assert.Equal(t, "1.7", doc.Store.PDFVersion)
}

func TestLoadDocumentFromArray_WithStructuralize(t *testing.T) {
	doc, err := LoadDocumentFromArray(testutil.MinimalPDF(), Options{
		Parser:        pdfgraph.DefaultOptions(),
		Structuralize: true,
	})
	require.NoError(t, err)
	require.NotNil(t, doc.Structure)
	require.Len(t, doc.Structure.Pages, 1)
	assert.Empty(t, doc.StructuralizerWarnings)
}

func TestLoadDocumentFromArray_PropagatesParserError(t *testing.T) {
	_, err := LoadDocumentFromArray([]byte("not a pdf"), Options{Parser: pdfgraph.DefaultOptions()})
	require.Error(t, err)
}

func TestLoadDocumentFromReader(t *testing.T) {
	data := testutil.MinimalPDF()
	m := pdfgraph.NewMemoryReader(data)
	doc, err := LoadDocumentFromReader(m, m.AsOffsetReader(), Options{Parser: pdfgraph.DefaultOptions()})
	require.NoError(t, err)
	assert.NotEmpty(t, doc.Store.Catalog)
}

func TestLoadDocumentFromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "sample.pdf")
	require.NoError(t, os.WriteFile(path, testutil.MinimalPDF(), 0o644))

	doc, err := LoadDocumentFromFile(path, Options{Parser: pdfgraph.DefaultOptions(), Structuralize: true})
	require.NoError(t, err)
	require.Len(t, doc.Structure.Pages, 1)
}

func TestLoadDocumentFromFile_MissingFile(t *testing.T) {
	_, err := LoadDocumentFromFile(filepath.Join(t.TempDir(), "nope.pdf"), Options{})
	require.Error(t, err)
}
