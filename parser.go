// Copyright © 2026, SAS Institute Inc., Cary, NC, USA.  All Rights Reserved.
// SPDX-License-Identifier: BSD-3-Clause

package pdfgraph

import (
	"errors"
	"fmt"
	"regexp"

	"github.com/sassoftware/pdfgraph/logger"
)

// minPDFSize is the minimum byte length a Reader can hold and still be a
// candidate PDF.
const minPDFSize = 255

var headerRegex = regexp.MustCompile(`^%PDF-(\d+\.\d+)[\r\n]+`)

// Run drives the parse pipeline over seq/off — header check, body parse,
// two reference-resolution passes bracketing stream classification and
// decode, catalog resolution, and missing-reference reporting — and
// returns the populated Store. A failed header check returns a fatal
// error with no store; an abort on a warning (AbortOnWarning or Strict)
// or on the MaxObjects cap returns the partial Store with the error.
func Run(seq SequentialReader, off OffsetReader, opts Options) (*Store, error) {
	if seq.Length() < minPDFSize {
		return nil, errors.New("parser:not_pdf:filesize")
	}

	header := ReadString(seq, 20, false)
	m := headerRegex.FindStringSubmatch(header)
	if m == nil {
		return nil, errors.New("parser:not_pdf:invalid_header")
	}

	store := NewStore()
	store.PDFVersion = m[1]
	logger.Debug("header accepted", "version", store.PDFVersion, true)
	if !supportedVersions[store.PDFVersion] {
		store.AddWarning(newWarning("unsupported_version", "PDF version not recognized").
			withData("version", store.PDFVersion))
	}
	if opts.abortOnWarning() && len(store.Warnings) > 0 {
		return store, store.Warnings[len(store.Warnings)-1]
	}

	// Phase 2: body parse. The header line itself has already been
	// peeked, not consumed; re-seek to 0 so the tokenizer sees it.
	if s, ok := seq.(interface{ Seek(int64) }); ok {
		s.Seek(0)
	}
	if err := runBodyParse(seq, store, opts); err != nil {
		return store, err
	}
	logger.Debug("body parse complete", "objects", len(store.objects), true)

	// Phase 3.
	before := len(store.Warnings)
	ResolveRefs(store)
	if opts.abortOnWarning() && len(store.Warnings) > before {
		return store, lastWarningErr(store)
	}

	// Phase 4.
	ClassifyStreamTypes(store)

	// Phase 5.
	if off != nil {
		DecodeStreams(store, off)
	}

	// Phase 6.
	ResolveRefs(store)

	// Phase 7.
	ResolveCatalog(store)
	logger.Debug("catalog resolved", "uid", store.Catalog, true)

	// Phase 8.
	WarnMissingRefs(store)

	// Diagnostic passes: these never change resolution outcomes, only
	// what gets reported.
	WalkPrevChain(store)
	if off != nil {
		RepairXrefOffsets(store, off, seq.Length())
	}

	if opts.abortOnWarning() && len(store.Warnings) > 0 {
		return store, lastWarningErr(store)
	}
	return store, nil
}

func runBodyParse(seq SequentialReader, store *Store, opts Options) error {
	root := store.RootObject()
	table := store.create(KindTable)
	store.addChild(root, table)

	lex := NewLexer(store, table.UID)
	tk := NewTokenizer(seq)
	for {
		tok, ok := tk.Next()
		if !ok {
			break
		}
		if opts.OnToken != nil {
			opts.OnToken(tok)
		}
		res := lex.Push(tok)
		if opts.OnObject != nil {
			opts.OnObject(res.Produced, res.Warnings)
		}
		if opts.MaxObjects > 0 && len(store.objects) > opts.MaxObjects {
			return fmt.Errorf("parser:error:resource_limit: exceeded max object count %d", opts.MaxObjects)
		}
		if opts.abortOnWarning() && len(res.Warnings) > 0 {
			logger.Warn("aborting after warning", "code", res.Warnings[0].Code)
			return res.Warnings[0]
		}
	}
	return nil
}

func lastWarningErr(store *Store) error {
	if len(store.Warnings) == 0 {
		return nil
	}
	return store.Warnings[len(store.Warnings)-1]
}
