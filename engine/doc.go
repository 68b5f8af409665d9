// Copyright © 2026, SAS Institute Inc., Cary, NC, USA.  All Rights Reserved.
// SPDX-License-Identifier: BSD-3-Clause

// Package engine is the outer entry point callers import: it wires the
// core parser (github.com/sassoftware/pdfgraph) to the document
// structuralizer. The structuralizer imports the core; the core does not
// import the structuralizer.
package engine

import (
	"os"

	pdfgraph "github.com/sassoftware/pdfgraph"
	"github.com/sassoftware/pdfgraph/structuralizer"
)

// Document is the result of one load: the populated object store and
// parser warnings, plus the page structure when structuralizing was
// requested.
type Document struct {
	Store                  *pdfgraph.Store
	ParserWarnings         []pdfgraph.Warning
	Structure              *structuralizer.Document
	StructuralizerWarnings []pdfgraph.Warning
}

// Options bundles the parser's per-run Options with whether to also run
// the structuralizer boundary.
type Options struct {
	Parser        pdfgraph.Options
	Structuralize bool
}

// LoadDocumentFromArray parses bytes held entirely in memory.
func LoadDocumentFromArray(data []byte, opts Options) (*Document, error) {
	m := pdfgraph.NewMemoryReader(data)
	return load(m, m.AsOffsetReader(), opts)
}

// LoadDocumentFromReader parses a caller-supplied SequentialReader,
// paired with off for the stream-decode phase.
func LoadDocumentFromReader(seq pdfgraph.SequentialReader, off pdfgraph.OffsetReader, opts Options) (*Document, error) {
	return load(seq, off, opts)
}

// LoadDocumentFromFile opens path, pairs a chunk-buffered SequentialReader
// with a serial OffsetReader over the same handle, and ensures the file
// is closed on both success and error paths.
func LoadDocumentFromFile(path string, opts Options) (*Document, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return nil, err
	}

	seq := pdfgraph.NewFileReader(f, info.Size())
	off := pdfgraph.NewFileOffsetReader(f)
	return load(seq, off, opts)
}

func load(seq pdfgraph.SequentialReader, off pdfgraph.OffsetReader, opts Options) (*Document, error) {
	store, err := pdfgraph.Run(seq, off, opts.Parser)
	if err != nil {
		return nil, err
	}
	doc := &Document{Store: store, ParserWarnings: store.Warnings}
	if opts.Structuralize {
		structure, warnings := structuralizer.Build(store)
		doc.Structure = structure
		doc.StructuralizerWarnings = warnings
	}
	return doc, nil
}
