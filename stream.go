// Copyright © 2026, SAS Institute Inc., Cary, NC, USA.  All Rights Reserved.
// SPDX-License-Identifier: BSD-3-Clause

package pdfgraph

import (
	"fmt"

	"github.com/sassoftware/pdfgraph/filter"
	"github.com/sassoftware/pdfgraph/logger"
)

// DecodeStreams implements phase 5 of the orchestrator: for every
// classified Stream, read its source bytes, run the declared filter
// chain, and dispatch the decoded payload to the sub-parse its
// streamType calls for.
func DecodeStreams(store *Store, off OffsetReader) {
	for _, uid := range store.streams {
		s := store.Get(uid)
		if s == nil || !s.HasSource {
			continue
		}
		decodeOneStream(store, off, s)
	}
}

func decodeOneStream(store *Store, off OffsetReader, s *Object) {
	dict := store.Get(s.StreamDict)

	if DictLookup(store, dict, "F") != nil {
		store.AddWarning(newWarning("parser:invalid_stream:external_file",
			"stream references an external file (/F); unsupported").withData("stream", s.UID))
	}

	start, end := s.SourceStart, s.SourceEnd
	if declLen, ok := IntOf(DictLookup(store, dict, "Length")); ok {
		actual := end - start
		if declLen != actual {
			if abs64(declLen-actual) > 2 {
				store.AddWarning(newWarning("parser:invalid_stream:length_mismatch",
					"declared /Length does not match the observed stream body size").
					withData("declared", declLen).withData("actual", actual))
			}
			end = start + declLen
		}
	}

	raw := off.ReadArray(start, end)
	names, params := filterChain(store, dict)
	logger.Debug("decoding stream", "type", s.StreamType, "filters", len(names), "bytes", end-start, true)

	decoded, err := filter.Chain(names, params, raw)
	if err != nil {
		store.AddWarning(newWarning("parser:error:stream:decode", "stream filter chain failed").
			withData("stream", s.UID).withCause(err))
		decoded = nil
	}

	switch s.StreamType {
	case "Content", "XObject/Form":
		child := subParseContent(store, decoded)
		child.Parent = s.UID
		s.StreamDirect = child.UID
	case "XObject/Image":
		child := store.create(KindBytes)
		child.Bytes = decoded
		child.Parent = s.UID
		s.StreamDirect = child.UID
	case "ObjStm":
		child, warns := ExpandObjStm(store, dict, decoded)
		for _, w := range warns {
			store.AddWarning(w)
		}
		if child != nil {
			child.Parent = s.UID
			s.StreamDirect = child.UID
		}
	case "XRef":
		xrefObj := store.create(KindXref)
		data, warns := DecodeXrefStreamData(store, dict, decoded)
		for _, w := range warns {
			store.AddWarning(w)
		}
		xrefObj.XrefData = data
		s.StreamDirect = xrefObj.UID
		AttachXrefStream(store, indirectOf(store, s), xrefObj)
	default:
		child := store.create(KindBytes)
		child.Bytes = decoded
		child.Parent = s.UID
		s.StreamDirect = child.UID
	}
}

// indirectOf returns the Indirect that owns Stream s (s.Parent).
func indirectOf(store *Store, s *Object) *Object {
	return store.Get(s.Parent)
}

func abs64(v int64) int64 {
	if v < 0 {
		return -v
	}
	return v
}

// filterChain reads dict's /Filter (Name or Array) and /DecodeParms
// (Dictionary or Array, positionally aligned) into parallel slices.
func filterChain(store *Store, dict *Object) ([]string, []filter.Params) {
	filterObj := DictLookup(store, dict, "Filter")
	parmsObj := DictLookup(store, dict, "DecodeParms")
	if parmsObj == nil {
		parmsObj = DictLookup(store, dict, "DP")
	}

	var names []string
	var parmsList []*Object
	switch {
	case filterObj == nil:
		return nil, nil
	case filterObj.Kind == KindName:
		names = []string{filterObj.Str}
		parmsList = []*Object{parmsObj}
	case filterObj.Kind == KindArray:
		for _, cuid := range filterObj.Children {
			n, _ := NameOf(Resolve(store, cuid))
			names = append(names, n)
		}
		if parmsObj != nil && parmsObj.Kind == KindArray {
			for _, puid := range parmsObj.Children {
				parmsList = append(parmsList, Resolve(store, puid))
			}
		} else {
			for range names {
				parmsList = append(parmsList, parmsObj)
			}
		}
	}

	params := make([]filter.Params, len(names))
	for i := range names {
		params[i] = filter.DefaultParams()
		if i < len(parmsList) {
			fillParams(store, parmsList[i], &params[i])
		}
	}
	return names, params
}

func fillParams(store *Store, parm *Object, p *filter.Params) {
	if parm == nil || parm.Kind != KindDictionary {
		return
	}
	if v, ok := IntOf(DictLookup(store, parm, "Predictor")); ok {
		p.Predictor = int(v)
	}
	if v, ok := IntOf(DictLookup(store, parm, "Columns")); ok {
		p.Columns = int(v)
	}
	if v, ok := IntOf(DictLookup(store, parm, "Colors")); ok {
		p.Colors = int(v)
	}
	if v, ok := IntOf(DictLookup(store, parm, "BitsPerComponent")); ok {
		p.BitsPerComponent = int(v)
	}
	if v, ok := IntOf(DictLookup(store, parm, "EarlyChange")); ok {
		p.EarlyChange = int(v)
	}
}

// subParseContent sub-parses a decoded content-stream or Form-XObject
// body as an ordered list of operators and operands.
func subParseContent(store *Store, decoded []byte) *Object {
	content := store.create(KindContent)
	lex := NewLexer(store, content.UID)
	tk := NewTokenizer(NewMemoryReader(decoded))
	for {
		tok, ok := tk.Next()
		if !ok {
			break
		}
		switch tok.Kind {
		case TokIndirectStart, TokIndirectEnd, TokRef, TokStream, TokXref, TokTrailer, TokEOF:
			// Content streams carry only operators/operands/containers;
			// any of these tokens inside one means the content body
			// itself looks like object syntax, which should not happen
			// for well-formed input. Treat the token as an opaque Op so
			// it cannot corrupt the store with a spurious Table/Indirect.
			orig := tok.Kind
			tok.Kind = TokOp
			if tok.Str == "" {
				tok.Str = fmt.Sprintf("<%d>", orig)
			}
		}
		lex.Push(tok)
	}
	return content
}
