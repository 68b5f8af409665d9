// Copyright © 2026, SAS Institute Inc., Cary, NC, USA.  All Rights Reserved.
// SPDX-License-Identifier: BSD-3-Clause

// Package structuralizer walks a parsed Store's Catalog.Pages tree and
// produces a flattened page list with inheritable attributes resolved.
// It depends only on the core object model
// (github.com/sassoftware/pdfgraph), never the other way, so the core
// stays free of any page-tree semantics.
//
// Inheritance is resolved on the way down with an accumulator, so
// MediaBox/CropBox/Resources/Rotate resolve once per branch instead of
// once per leaf via a walk back up through /Parent.
package structuralizer

import pdfgraph "github.com/sassoftware/pdfgraph"

// Page is one leaf of the flattened page tree, with inheritable
// attributes already resolved against its ancestors.
type Page struct {
	Number     int // 1-indexed
	DictUID    pdfgraph.UID
	Resources  pdfgraph.UID
	MediaBox   pdfgraph.UID
	CropBox    pdfgraph.UID
	Rotate     pdfgraph.UID
	Contents   pdfgraph.UID
}

// Document is the structuralizer's {structure, warnings} result, minus
// the warnings (returned alongside by Build).
type Document struct {
	Version string
	Pages   []Page
}

// Build runs the Catalog.Pages descent with inheritable attribute
// propagation, honoring a /Version override from the catalog.
func Build(store *pdfgraph.Store) (*Document, []pdfgraph.Warning) {
	var warnings []pdfgraph.Warning
	doc := &Document{Version: store.PDFVersion}

	catalog := store.CatalogObject()
	if catalog == nil {
		warnings = append(warnings, missingCatalogWarning())
		return doc, warnings
	}

	if v, ok := pdfgraph.NameOf(pdfgraph.DictLookup(store, catalog, "Version")); ok && v != "" {
		doc.Version = v
	}

	pagesRoot := pdfgraph.DictLookup(store, catalog, "Pages")
	if pagesRoot == nil {
		warnings = append(warnings, missingPagesWarning())
		return doc, warnings
	}

	acc := inherited{}
	seen := make(map[pdfgraph.UID]bool)
	walker := &walker{store: store, doc: doc}
	walker.descend(pagesRoot, acc, seen)
	return doc, append(warnings, walker.warnings...)
}

// inherited carries the UIDs resolved so far on the current descent path
// for the Page entries ISO 32000-1 Table 30 marks as inheritable from an
// ancestor Pages node: Resources, MediaBox, CropBox and Rotate.
type inherited struct {
	resources, mediaBox, cropBox, rotate pdfgraph.UID
}

func (a inherited) withNode(store *pdfgraph.Store, node *pdfgraph.Object) inherited {
	out := a
	if v := lookupUID(store, node, "Resources"); v != 0 {
		out.resources = v
	}
	if v := lookupUID(store, node, "MediaBox"); v != 0 {
		out.mediaBox = v
	}
	if v := lookupUID(store, node, "CropBox"); v != 0 {
		out.cropBox = v
	}
	if v := lookupUID(store, node, "Rotate"); v != 0 {
		out.rotate = v
	}
	return out
}

func lookupUID(store *pdfgraph.Store, node *pdfgraph.Object, key string) pdfgraph.UID {
	o := pdfgraph.DictLookup(store, node, key)
	if o == nil {
		return 0
	}
	return o.UID
}

type walker struct {
	store    *pdfgraph.Store
	doc      *Document
	warnings []pdfgraph.Warning
}

// descend implements the recursive Catalog.Pages walk. seen guards
// against a /Parent or /Kids cycle (malformed input); a node already
// visited on this path is skipped with a warning instead of recursing
// forever.
func (w *walker) descend(node *pdfgraph.Object, acc inherited, seen map[pdfgraph.UID]bool) {
	if node == nil || node.Kind != pdfgraph.KindDictionary {
		return
	}
	if seen[node.UID] {
		w.warnings = append(w.warnings, cycleWarning(node.UID))
		return
	}
	seen[node.UID] = true
	defer delete(seen, node.UID)

	acc = acc.withNode(w.store, node)

	typeName, _ := pdfgraph.NameOf(pdfgraph.DictLookup(w.store, node, "Type"))
	hasContents := pdfgraph.DictLookup(w.store, node, "Contents") != nil

	if typeName == "Page" || (typeName != "Pages" && hasContents) {
		w.appendPage(node, acc)
		return
	}

	kids := pdfgraph.DictLookup(w.store, node, "Kids")
	if kids == nil {
		return
	}
	for _, uid := range pdfgraph.ArrayItems(kids) {
		kid := pdfgraph.Resolve(w.store, uid)
		w.descend(kid, acc, seen)
	}
}

func (w *walker) appendPage(node *pdfgraph.Object, acc inherited) {
	w.doc.Pages = append(w.doc.Pages, Page{
		Number:    len(w.doc.Pages) + 1,
		DictUID:   node.UID,
		Resources: acc.resources,
		MediaBox:  acc.mediaBox,
		CropBox:   acc.cropBox,
		Rotate:    acc.rotate,
		Contents:  lookupUID(w.store, node, "Contents"),
	})
}

func missingCatalogWarning() pdfgraph.Warning {
	return newStructWarning("structuralizer:missing_catalog", "store has no resolved catalog")
}

func missingPagesWarning() pdfgraph.Warning {
	return newStructWarning("structuralizer:missing_pages", "catalog has no /Pages entry")
}

func cycleWarning(uid pdfgraph.UID) pdfgraph.Warning {
	w := newStructWarning("structuralizer:cycle", "page tree cycle detected")
	w.Data = map[string]interface{}{"uid": uid}
	return w
}

func newStructWarning(code, msg string) pdfgraph.Warning {
	return pdfgraph.Warning{Code: code, Message: msg}
}
