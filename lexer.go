// Copyright © 2026, SAS Institute Inc., Cary, NC, USA.  All Rights Reserved.
// SPDX-License-Identifier: BSD-3-Clause

package pdfgraph

import (
	"strings"

	"github.com/sassoftware/pdfgraph/logger"
)

// LexResult is what pushing one Token through the Lexer produces: the
// object materialized (if any) and the warnings raised along the way.
type LexResult struct {
	Produced *Object
	Warnings []Warning
}

// Lexer turns a Token sequence into the object tree, maintaining the
// parent stack, dictionary key/value state and pending xref/trailer
// state between tokens.
type Lexer struct {
	store *Store
	stack []UID

	// Dictionary key/value alternation, tracked per open dictionary so an
	// inner dictionary left with a dangling key cannot bleed into its
	// parent when it closes.
	pendingKeys map[UID]pendingKey

	pendingXref    *Token
	pendingTrailer bool

	warnings     []Warning
	lastProduced *Object
}

// pendingKey is the alternating key/value state of one open dictionary.
// drop marks a key slot claimed by a non-name object: the following value
// is consumed for parity but not stored.
type pendingKey struct {
	key  string
	have bool
	drop bool
}

// NewLexer returns a Lexer that inserts into root's children/descendants.
// root is the revision Table under the Store's Root for a top-level parse,
// or an Indirect/Content object for a stream sub-parse.
func NewLexer(store *Store, root UID) *Lexer {
	return &Lexer{store: store, stack: []UID{root}, pendingKeys: make(map[UID]pendingKey)}
}

func (l *Lexer) top() *Object {
	return l.store.Get(l.stack[len(l.stack)-1])
}

func (l *Lexer) push(uid UID) { l.stack = append(l.stack, uid) }

func (l *Lexer) pop() *Object {
	if len(l.stack) == 0 {
		return nil
	}
	o := l.top()
	l.stack = l.stack[:len(l.stack)-1]
	return o
}

func (l *Lexer) warn(w Warning) {
	l.warnings = append(l.warnings, w)
	l.store.AddWarning(w)
	logger.Warn(w.Message, "code", w.Code)
}

// Push feeds one token through the lexer and returns what it produced.
func (l *Lexer) Push(tok Token) LexResult {
	l.warnings = nil
	l.lastProduced = nil
	if tok.Warning != nil {
		l.warn(*tok.Warning)
	}

	switch tok.Kind {
	case TokSpace:
		// ignored

	case TokComment:
		l.insertScalar(KindComment, tok, func(o *Object) { o.Str = tok.Str })
	case TokJunk:
		l.insertScalar(KindJunk, tok, func(o *Object) { o.Str = tok.Str })
	case TokNull:
		l.insertScalar(KindNull, tok, func(*Object) {})
	case TokBoolean:
		l.insertScalar(KindBoolean, tok, func(o *Object) { o.Boolean = tok.Bool })
	case TokInteger:
		l.insertScalar(KindInteger, tok, func(o *Object) { o.Integer = tok.Int })
	case TokReal:
		l.insertScalar(KindReal, tok, func(o *Object) { o.Real = tok.Real })
	case TokName:
		l.insertScalar(KindName, tok, func(o *Object) { o.Str = tok.Str })
	case TokOp:
		l.insertScalar(KindOp, tok, func(o *Object) { o.Str = tok.Str })

	case TokString:
		l.insertString(tok, false)
	case TokHexString:
		l.insertString(tok, true)

	case TokArrayStart:
		l.openContainer(KindArray, tok)
	case TokDictStart:
		l.openContainer(KindDictionary, tok)
	case TokArrayEnd:
		l.closeContainer(KindArray, tok)
	case TokDictEnd:
		l.closeContainer(KindDictionary, tok)

	case TokIndirectStart:
		l.openIndirect(tok)
	case TokIndirectEnd:
		l.closeContainer(KindIndirect, tok)

	case TokRef:
		l.insertRef(tok)

	case TokStream:
		l.insertStream(tok)

	case TokXref:
		cp := tok
		l.pendingXref = &cp
	case TokTrailer:
		l.pendingTrailer = true

	case TokEOF:
		l.closeRevision(tok)
	}

	return LexResult{Produced: l.lastProduced, Warnings: l.warnings}
}

// ensureTableParent implements the Root insertion rule: bodies always
// live inside a Table, so pushing directly onto Root implicitly opens one
// first.
func (l *Lexer) ensureTableParent() *Object {
	top := l.top()
	if top.Kind != KindRoot {
		return top
	}
	table := l.store.create(KindTable)
	l.store.addChild(top, table)
	l.push(table.UID)
	return table
}

func (l *Lexer) insertInto(child *Object) {
	parent := l.ensureTableParent()
	switch parent.Kind {
	case KindArray, KindContent, KindTable, KindRoot:
		l.store.addChild(parent, child)
	case KindDictionary:
		l.insertDictEntry(parent, child)
	case KindIndirect:
		if parent.Direct != 0 {
			l.warn(newWarning("lexer:invalid_token:multiple_children", "indirect object already has a direct child").
				withData("identifier", parent.Identifier))
			return
		}
		parent.Direct = child.UID
		child.Parent = parent.UID
	default:
		l.warn(newWarning("lexer:invalid_token:bad_parent", "cannot insert into a "+parent.Kind.String()))
	}
}

// keyStringOf returns a dictionary key's name string. Only Name objects
// are valid PDF dictionary keys; any other kind warns rather than being
// coerced to a string.
func keyStringOf(o *Object) (string, bool) {
	if o.Kind == KindName {
		return o.Str, true
	}
	return "", false
}

func (l *Lexer) insertDictEntry(dictObj *Object, child *Object) {
	pk := l.pendingKeys[dictObj.UID]
	if !pk.have {
		key, ok := keyStringOf(child)
		if !ok {
			l.warn(newWarning("lexer:invalid_token:"+strings.ToLower(child.Kind.String())+":invalid_key",
				"non-name used as dictionary key"))
			// Keep key/value parity: the bad key still occupies a key slot,
			// but the value that pairs with it is dropped.
			l.pendingKeys[dictObj.UID] = pendingKey{have: true, drop: true}
			return
		}
		l.pendingKeys[dictObj.UID] = pendingKey{key: key, have: true}
		return
	}
	if !pk.drop {
		dictObj.DictVal.Set(pk.key, child.UID)
		child.Parent = dictObj.UID
	}
	delete(l.pendingKeys, dictObj.UID)
}

func (l *Lexer) insertScalar(kind Kind, tok Token, fill func(*Object)) {
	o := l.store.create(kind)
	o.Span = tok.Span
	fill(o)
	l.insertInto(o)
	l.lastProduced = o
}

func (l *Lexer) insertString(tok Token, wasHex bool) {
	o := l.store.create(KindText)
	o.Span = tok.Span
	classifyStringBytes(o, tok.Bytes, wasHex)
	l.insertInto(o)
	l.lastProduced = o
}

func (l *Lexer) openContainer(kind Kind, tok Token) {
	o := l.store.create(kind)
	o.Span = tok.Span
	l.insertInto(o)
	l.push(o.UID)
	l.lastProduced = o
}

func (l *Lexer) closeContainer(kind Kind, tok Token) {
	// Mismatched container end: pop until a matching parent is found or
	// the stack bottoms out.
	for i := len(l.stack) - 1; i >= 0; i-- {
		if l.store.Get(l.stack[i]).Kind == kind {
			if i != len(l.stack)-1 {
				l.warn(newWarning("lexer:missing_end", "container closed without matching end token").
					withData("expected", kind.String()))
			}
			closed := l.store.Get(l.stack[i])
			closed.Span.End = tok.Span.End
			l.stack = l.stack[:i]
			delete(l.pendingKeys, closed.UID)
			l.lastProduced = closed
			return
		}
	}
	l.warn(newWarning("lexer:missing_start", "unmatched close token with no open container").
		withData("kind", kind.String()))
}

func (l *Lexer) openIndirect(tok Token) {
	o := l.store.create(KindIndirect)
	o.Span = tok.Span
	o.Identifier = tok.Identifier
	if tok.Identifier.Valid() {
		l.store.registerIndirect(tok.Identifier, o.UID)
	}
	l.insertInto(o)
	l.push(o.UID)
	l.lastProduced = o
}

func (l *Lexer) insertRef(tok Token) {
	o := l.store.create(KindRef)
	o.Span = tok.Span
	o.Identifier = tok.Identifier
	if !tok.Identifier.Valid() {
		l.warn(newWarning("lexer:invalid_token:ref", "R not preceded by two integers"))
	}
	l.store.refs = append(l.store.refs, o.UID)
	l.insertInto(o)
	l.lastProduced = o
}

func (l *Lexer) insertStream(tok Token) {
	parent := l.top()
	if parent.Kind != KindIndirect {
		l.warn(newWarning("lexer:invalid_token:stream_parent", "stream token outside an indirect object"))
		return
	}
	dictUID := parent.Direct
	dict := l.store.Get(dictUID)
	if dict == nil || dict.Kind != KindDictionary {
		l.warn(newWarning("lexer:invalid_token:stream_without_dict", "stream token without a preceding dictionary"))
		return
	}
	s := l.store.create(KindStream)
	s.Span = tok.Span
	s.StreamDict = dictUID
	s.SourceStart = tok.StreamSpan.Start
	s.SourceEnd = tok.StreamSpan.End
	s.HasSource = true
	dict.Parent = s.UID
	parent.Direct = s.UID
	s.Parent = parent.UID
	l.store.streams = append(l.store.streams, s.UID)
	l.lastProduced = s
}

// closeRevision handles the startxref/%%EOF token: pop until a Table is
// found, attach the accumulated pending xref/trailer/startxref to it,
// then open a fresh Table at Root so a following incremental update
// accumulates into its own revision.
func (l *Lexer) closeRevision(tok Token) {
	var table *Object
	for i := len(l.stack) - 1; i >= 0; i-- {
		if l.store.Get(l.stack[i]).Kind == KindTable {
			table = l.store.Get(l.stack[i])
			l.stack = l.stack[:i]
			break
		}
	}
	if table == nil {
		l.warn(newWarning("lexer:missing_start", "startxref with no enclosing revision table"))
	} else {
		if l.pendingXref != nil {
			xrefObj := l.buildClassicalXref(*l.pendingXref)
			l.store.addChild(table, xrefObj)
			table.XrefChild = xrefObj.UID
		}
		if l.pendingTrailer {
			// The trailer dictionary was already lexed as the most
			// recently produced Dictionary child of this table; find it.
			if d := lastDictChild(l.store, table); d != nil {
				table.TrailerChild = d.UID
			}
		}
		table.StartXref = tok.EOFOffset
		table.HasStartXref = true
	}
	l.pendingXref = nil
	l.pendingTrailer = false

	root := l.store.RootObject()
	fresh := l.store.create(KindTable)
	l.store.addChild(root, fresh)
	l.stack = append(l.stack[:0], root.UID, fresh.UID)
	l.lastProduced = table
}

func lastDictChild(s *Store, parent *Object) *Object {
	for i := len(parent.Children) - 1; i >= 0; i-- {
		child := s.Get(parent.Children[i])
		if child.Kind == KindDictionary {
			return child
		}
	}
	return nil
}

// buildClassicalXref materializes a Xref object from the raw entries
// carried by a TokXref token. The third field of each fixed-width line
// is the type character: 'f' marks a free entry, anything else in-use.
func (l *Lexer) buildClassicalXref(tok Token) *Object {
	o := l.store.create(KindXref)
	data := &XrefData{
		Subsections: []XrefSubsection{{StartNum: tok.XrefStartNum, Count: int64(len(tok.XrefEntries))}},
	}
	for _, e := range tok.XrefEntries {
		if e.Type == 'f' {
			data.ObjTable = append(data.ObjTable, XrefEntry{
				Type:     XrefFree,
				NextFree: uint32(e.F1),
				ReuseGen: uint16(e.F2),
			})
		} else {
			data.ObjTable = append(data.ObjTable, XrefEntry{
				Type:   XrefInUse,
				Offset: e.F1,
				Gen:    uint16(e.F2),
			})
		}
	}
	o.XrefData = data
	return o
}
