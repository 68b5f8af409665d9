// Copyright © 2026, SAS Institute Inc., Cary, NC, USA.  All Rights Reserved.
// SPDX-License-Identifier: BSD-3-Clause

package pdfgraph

import (
	"strconv"

	"github.com/sassoftware/pdfgraph/logger"
)

// ExpandObjStm expands an object stream (ISO 32000-1 §7.5.7): parse the
// payload header (N object/offset pairs packed before byte First) and
// sub-parse each compressed object's value into a freshly created
// Indirect with identifier {num, gen:0}. Returns the Array of produced
// Indirects, which the stream-decode phase attaches as the Stream's
// direct child, plus any warnings.
func ExpandObjStm(store *Store, dict *Object, payload []byte) (*Object, []Warning) {
	var warnings []Warning

	n, hasN := IntOf(DictLookup(store, dict, "N"))
	first, hasFirst := IntOf(DictLookup(store, dict, "First"))
	if !hasN || !hasFirst || first < 0 || first > int64(len(payload)) {
		w := newWarning("parser:invalid_stream:objstm_header", "ObjStm missing or malformed /N or /First")
		return nil, append(warnings, w)
	}

	header := payload[:first]
	nums, offs := parseObjStmHeader(header, int(n))
	if len(nums) == 0 {
		w := newWarning("parser:invalid_stream:objstm_header", "ObjStm header yielded no object pairs")
		return nil, append(warnings, w)
	}

	logger.Debug("expanding object stream", "objects", len(nums), true)
	result := store.create(KindArray)
	for i := range nums {
		start := first + offs[i]
		var end int64
		if i+1 < len(offs) {
			end = first + offs[i+1]
		} else {
			end = int64(len(payload))
		}
		if start < 0 || end > int64(len(payload)) || start > end {
			warnings = append(warnings, newWarning("parser:invalid_stream:objstm_range",
				"ObjStm entry byte range out of bounds").withData("object", nums[i]))
			continue
		}

		ind := store.create(KindIndirect)
		ident := Identifier{Num: uint32(nums[i]), Gen: 0}
		ind.Identifier = ident
		store.registerIndirect(ident, ind.UID)
		store.addChild(result, ind)

		sub := NewLexer(store, ind.UID)
		tk := NewTokenizer(NewMemoryReader(payload[start:end]))
		for {
			tok, ok := tk.Next()
			if !ok {
				break
			}
			res := sub.Push(tok)
			warnings = append(warnings, res.Warnings...)
		}
	}
	return result, warnings
}

// parseObjStmHeader splits header into whitespace-separated integers and
// interleaves them into (objectNumber, relativeOffset) pairs, stopping
// after count pairs or when the header is exhausted.
func parseObjStmHeader(header []byte, count int) ([]int64, []int64) {
	fields := splitWhitespaceInts(header)
	pairs := len(fields) / 2
	if count > 0 && count < pairs {
		pairs = count
	}
	nums := make([]int64, 0, pairs)
	offs := make([]int64, 0, pairs)
	for i := 0; i < pairs; i++ {
		nums = append(nums, fields[2*i])
		offs = append(offs, fields[2*i+1])
	}
	return nums, offs
}

func splitWhitespaceInts(b []byte) []int64 {
	var out []int64
	var cur []byte
	flush := func() {
		if len(cur) == 0 {
			return
		}
		if v, err := strconv.ParseInt(string(cur), 10, 64); err == nil {
			out = append(out, v)
		}
		cur = nil
	}
	for _, c := range b {
		if classSpace.has(c) {
			flush()
			continue
		}
		cur = append(cur, c)
	}
	flush()
	return out
}
