// Copyright © 2026, SAS Institute Inc., Cary, NC, USA.  All Rights Reserved.
// SPDX-License-Identifier: BSD-3-Clause

package pdfgraph

import "fmt"

// ResolveRefs runs phase 3/6 of the orchestrator: for every still-
// unresolved Ref, look up its identifier in store.indirects and set
// RefTarget. Safe to call more than once — already-resolved Refs are
// left untouched so a second pass after ObjStm expansion only picks up
// the newly reachable indirects.
func ResolveRefs(store *Store) {
	for _, uid := range store.refs {
		ref := store.Get(uid)
		if ref == nil || ref.RefTarget != 0 {
			continue
		}
		if target, ok := store.LookupIndirect(ref.Identifier); ok {
			ref.RefTarget = target
		}
	}
}

// WarnMissingRefs implements phase 8: any Ref left unresolved after both
// resolution passes gets a warning.
func WarnMissingRefs(store *Store) {
	for _, uid := range store.refs {
		ref := store.Get(uid)
		if ref == nil || ref.RefTarget != 0 {
			continue
		}
		store.AddWarning(newWarning("invalid:ref:identifier", fmt.Sprintf(
			"unresolved reference %d %d R", ref.Identifier.Num, ref.Identifier.Gen)).
			withData("identifier", ref.Identifier))
	}
}

// ClassifyStreamTypes implements phase 4: for each Stream, compute a
// streamType from its dictionary's Type/Subtype entries.
func ClassifyStreamTypes(store *Store) {
	for _, uid := range store.streams {
		s := store.Get(uid)
		if s == nil {
			continue
		}
		dict := store.Get(s.StreamDict)
		typeName, _ := NameOf(DictLookup(store, dict, "Type"))
		subtype, hasSub := NameOf(DictLookup(store, dict, "Subtype"))
		if !hasSub {
			subtype, hasSub = NameOf(DictLookup(store, dict, "S"))
		}
		if typeName == "" && hasSub && (subtype == "Form" || subtype == "Image") {
			typeName = "XObject"
		}
		switch {
		case typeName != "" && hasSub:
			s.StreamType = typeName + "/" + subtype
		case typeName != "":
			s.StreamType = typeName
		default:
			s.StreamType = ""
		}
	}
}

// ResolveCatalog implements phase 7: walk each revision Table, preferring
// its classical trailer's /Root entry, falling back to the Table's xref
// stream's own dictionary /Root entry. Tables are visited from the last
// Root child to the first, i.e. most recently parsed revision first, and
// the first one to yield a Dictionary wins.
func ResolveCatalog(store *Store) {
	root := store.RootObject()
	if root == nil {
		return
	}
	// Later revisions are appended last; prefer the most recent.
	for i := len(root.Children) - 1; i >= 0; i-- {
		table := store.Get(root.Children[i])
		if table == nil || table.Kind != KindTable {
			continue
		}
		if cat := catalogFromTable(store, table); cat != nil {
			store.Catalog = cat.UID
			return
		}
	}
}

func catalogFromTable(store *Store, table *Object) *Object {
	if table.TrailerChild != 0 {
		trailer := store.Get(table.TrailerChild)
		if cat := DictLookup(store, trailer, "Root"); cat != nil && cat.Kind == KindDictionary {
			return cat
		}
	}
	if table.XrefObjUID != 0 {
		xrefStreamIndirect := store.Get(table.XrefObjUID)
		if xrefStreamIndirect != nil {
			stream := store.Get(xrefStreamIndirect.Direct)
			if stream != nil && stream.Kind == KindStream {
				dict := store.Get(stream.StreamDict)
				if cat := DictLookup(store, dict, "Root"); cat != nil && cat.Kind == KindDictionary {
					return cat
				}
			}
		}
	}
	return nil
}

// DecodeXrefStreamData implements phase 4.5.2: parse a decoded XRef
// stream's payload into an XrefData using the W/Size/Index entries of
// its dictionary.
func DecodeXrefStreamData(store *Store, dict *Object, payload []byte) (*XrefData, []Warning) {
	var warnings []Warning
	wArr := DictLookup(store, dict, "W")
	if wArr == nil || wArr.Kind != KindArray || len(wArr.Children) < 3 {
		w := newWarning("parser:invalid_stream:xref_stream_w", "xref stream missing or malformed /W")
		return nil, append(warnings, w)
	}
	widths := make([]int, 3)
	for i := 0; i < 3; i++ {
		v, _ := IntOf(Resolve(store, wArr.Children[i]))
		widths[i] = int(v)
	}
	for _, w := range widths {
		if w < 0 || w > 4 {
			warnings = append(warnings, newWarning("parser:invalid_stream:xref_stream_w",
				"xref stream /W entry out of range").withData("value", w))
		}
	}

	var subsections []XrefSubsection
	if idxArr := DictLookup(store, dict, "Index"); idxArr != nil && idxArr.Kind == KindArray {
		for i := 0; i+1 < len(idxArr.Children); i += 2 {
			start, _ := IntOf(Resolve(store, idxArr.Children[i]))
			count, _ := IntOf(Resolve(store, idxArr.Children[i+1]))
			subsections = append(subsections, XrefSubsection{StartNum: start, Count: count})
		}
	} else {
		size, _ := IntOf(DictLookup(store, dict, "Size"))
		subsections = []XrefSubsection{{StartNum: 0, Count: size}}
	}

	recordLen := widths[0] + widths[1] + widths[2]
	if recordLen == 0 {
		warnings = append(warnings, newWarning("parser:invalid_stream:xref_stream_w", "xref stream record width is zero"))
		return &XrefData{Widths: widths, Subsections: subsections}, warnings
	}

	data := &XrefData{Widths: widths, Subsections: subsections}
	pos := 0
	for _, sub := range subsections {
		for i := int64(0); i < sub.Count; i++ {
			if pos+recordLen > len(payload) {
				warnings = append(warnings, newWarning("parser:invalid_stream:xref_stream_truncated",
					"xref stream payload shorter than declared entry count"))
				return data, warnings
			}
			f0 := beField(payload[pos:pos+widths[0]], 1)
			f1 := beField(payload[pos+widths[0]:pos+widths[0]+widths[1]], 0)
			f2 := beField(payload[pos+widths[0]+widths[1]:pos+recordLen], 0)
			pos += recordLen

			switch f0 {
			case 0:
				data.ObjTable = append(data.ObjTable, XrefEntry{Type: XrefFree, NextFree: uint32(f1), ReuseGen: uint16(f2)})
			case 1:
				data.ObjTable = append(data.ObjTable, XrefEntry{Type: XrefInUse, Offset: f1, Gen: uint16(f2)})
			case 2:
				data.ObjTable = append(data.ObjTable, XrefEntry{Type: XrefCompressed, StreamNum: uint32(f1), IndexInStream: int(f2)})
			default:
				data.ObjTable = append(data.ObjTable, XrefEntry{Type: XrefOther, Fields: []int64{f0, f1, f2}})
			}
		}
	}
	return data, warnings
}

// beField reads a big-endian integer of len(b) bytes, or returns def if
// the field's width is zero (a zero /W column means "use the default").
func beField(b []byte, def int64) int64 {
	if len(b) == 0 {
		return def
	}
	var v int64
	for _, c := range b {
		v = v<<8 | int64(c)
	}
	return v
}

// AttachXrefStream finds the enclosing revision Table for a Stream
// classified as XRef by walking Parent pointers up from the Stream, and
// records the decoded Xref on it.
func AttachXrefStream(store *Store, streamIndirect *Object, xrefObj *Object) {
	var table *Object
	for p := store.Get(streamIndirect.Parent); p != nil; p = store.Get(p.Parent) {
		if p.Kind == KindTable {
			table = p
			break
		}
	}
	if table == nil {
		store.AddWarning(newWarning("parser:invalid_stream:xref_unattached", "xref stream has no enclosing revision table"))
		return
	}
	table.XrefObjUID = streamIndirect.UID
	store.addChild(table, xrefObj)
}

// WalkPrevChain cross-checks each revision Table's /Prev entry (from its
// classical trailer or xref stream dictionary) against the StartXref
// offsets of the other Tables observed during body parse. This is a
// diagnostic pass: it never mutates resolution behavior, it only reports
// a /Prev value that does not correspond to any observed xref section.
func WalkPrevChain(store *Store) {
	root := store.RootObject()
	if root == nil {
		return
	}
	byOffset := make(map[int64]UID)
	for _, uid := range root.Children {
		t := store.Get(uid)
		if t != nil && t.Kind == KindTable && t.HasStartXref {
			byOffset[t.StartXref] = uid
		}
	}
	for _, uid := range root.Children {
		t := store.Get(uid)
		if t == nil || t.Kind != KindTable {
			continue
		}
		prev, ok := tablePrevOffset(store, t)
		if !ok {
			continue
		}
		if _, found := byOffset[prev]; !found {
			store.AddWarning(newWarning("parser:invalid_stream:xref_repair",
				"revision /Prev offset does not match any observed xref section").
				withData("offset", prev))
		}
	}
}

func tablePrevOffset(store *Store, table *Object) (int64, bool) {
	if table.TrailerChild != 0 {
		if v, ok := IntOf(DictLookup(store, store.Get(table.TrailerChild), "Prev")); ok {
			return v, true
		}
	}
	if table.XrefObjUID != 0 {
		ind := store.Get(table.XrefObjUID)
		if ind != nil {
			stream := store.Get(ind.Direct)
			if stream != nil {
				if v, ok := IntOf(DictLookup(store, store.Get(stream.StreamDict), "Prev")); ok {
					return v, true
				}
			}
		}
	}
	return 0, false
}

// RepairXrefOffsets is a best-effort diagnostic: for each in-use xref
// entry, check whether its declared offset actually looks like an object
// header in the source, and if not, scan a bounded window around it for
// "num gen obj". The mismatch is reported as a warning rather than the
// offset being silently rewritten.
func RepairXrefOffsets(store *Store, off OffsetReader, fileLen int64) {
	for _, uid := range store.order {
		xref := store.Get(uid)
		if xref == nil || xref.Kind != KindXref || xref.XrefData == nil {
			continue
		}
		subs := xref.XrefData.Subsections
		subIdx, subPos := 0, int64(0)
		for _, e := range xref.XrefData.ObjTable {
			objNum := subPos
			if subIdx < len(subs) {
				objNum = subs[subIdx].StartNum + subPos
			}
			subPos++
			if subIdx < len(subs) && subPos >= subs[subIdx].Count {
				subIdx++
				subPos = 0
			}
			if e.Type != XrefInUse {
				continue
			}
			if isLikelyObjectAt(off, e.Offset, fileLen) {
				continue
			}
			found := scanForObjectAt(off, uint32(objNum), e.Gen, e.Offset, 1024, fileLen)
			w := newWarning("parser:invalid_stream:xref_repair", "xref entry offset does not point at an object header").
				withData("declared_offset", e.Offset)
			if found >= 0 {
				w = w.withData("repaired_offset", found)
			}
			store.AddWarning(w)
		}
	}
}

// isLikelyObjectAt reports whether off looks like the start of "N G obj".
func isLikelyObjectAt(off OffsetReader, offset, fileLen int64) bool {
	if offset < 0 || offset >= fileLen {
		return false
	}
	end := offset + 32
	if end > fileLen {
		end = fileLen
	}
	b := off.ReadArray(offset, end)
	return looksLikeObjHeader(b)
}

// scanForObjectAt searches +-window bytes around approx for "id gen obj",
// returning the found offset or -1.
func scanForObjectAt(off OffsetReader, id uint32, gen uint16, approx, window, fileLen int64) int64 {
	start := approx - window
	if start < 0 {
		start = 0
	}
	end := approx + window
	if end > fileLen {
		end = fileLen
	}
	buf := off.ReadArray(start, end)
	needle := []byte(fmt.Sprintf("%d %d obj", id, gen))
	for i := 0; i+len(needle) <= len(buf); i++ {
		if matchAt(buf, i, needle) {
			return start + int64(i)
		}
	}
	return -1
}

func matchAt(buf []byte, i int, needle []byte) bool {
	for j := range needle {
		if buf[i+j] != needle[j] {
			return false
		}
	}
	return true
}

// looksLikeObjHeader is a light scan for "<digits> <digits> obj" at the
// start of b, tolerant of the exact whitespace run the tokenizer accepts.
func looksLikeObjHeader(b []byte) bool {
	i := 0
	d1 := 0
	for i < len(b) && b[i] >= '0' && b[i] <= '9' {
		i++
		d1++
	}
	if d1 == 0 {
		return false
	}
	sp := 0
	for i < len(b) && classSpace.has(b[i]) {
		i++
		sp++
	}
	if sp == 0 {
		return false
	}
	d2 := 0
	for i < len(b) && b[i] >= '0' && b[i] <= '9' {
		i++
		d2++
	}
	if d2 == 0 {
		return false
	}
	for i < len(b) && classSpace.has(b[i]) {
		i++
	}
	return i+3 <= len(b) && string(b[i:i+3]) == "obj"
}
