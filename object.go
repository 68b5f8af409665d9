// Copyright © 2026, SAS Institute Inc., Cary, NC, USA.  All Rights Reserved.
// SPDX-License-Identifier: BSD-3-Clause

package pdfgraph

import "time"

// Kind is the tag of the PDF value algebra. Objects are modeled as a
// single struct carrying a Kind tag plus the fields relevant to that
// kind, rather than as an interface hierarchy: a capability (has
// children, has a dict, is a reference) is a set of populated fields,
// not a base type.
type Kind int

const (
	KindNull Kind = iota
	KindBoolean
	KindInteger
	KindReal
	KindName
	KindText
	KindBytes
	KindDate
	KindComment
	KindJunk
	KindOp
	KindArray
	KindDictionary
	KindContent
	KindRoot
	KindTable
	KindIndirect
	KindRef
	KindStream
	KindXref
)

func (k Kind) String() string {
	switch k {
	case KindNull:
		return "Null"
	case KindBoolean:
		return "Boolean"
	case KindInteger:
		return "Integer"
	case KindReal:
		return "Real"
	case KindName:
		return "Name"
	case KindText:
		return "Text"
	case KindBytes:
		return "Bytes"
	case KindDate:
		return "Date"
	case KindComment:
		return "Comment"
	case KindJunk:
		return "Junk"
	case KindOp:
		return "Op"
	case KindArray:
		return "Array"
	case KindDictionary:
		return "Dictionary"
	case KindContent:
		return "Content"
	case KindRoot:
		return "Root"
	case KindTable:
		return "Table"
	case KindIndirect:
		return "Indirect"
	case KindRef:
		return "Ref"
	case KindStream:
		return "Stream"
	case KindXref:
		return "Xref"
	default:
		return "Unknown"
	}
}

// UID uniquely identifies an object within a Store. It is strictly
// monotonic in creation (token) order and never reused.
type UID uint64

// TextEncoding tags how a Text object's bytes were classified.
type TextEncoding int

const (
	EncodingPDFDoc TextEncoding = iota
	EncodingUTF8
	EncodingUTF16BE
)

// Identifier is the (num, gen) pair shared by Indirect objects and Refs.
type Identifier struct {
	Num uint32
	Gen uint16
}

// XrefEntryType distinguishes the three xref record kinds of ISO 32000-1
// §7.5.8.3, plus a catch-all for unrecognized type fields.
type XrefEntryType int

const (
	XrefFree XrefEntryType = iota
	XrefInUse
	XrefCompressed
	XrefOther
)

// XrefEntry is one record of a classical table or decoded xref stream.
type XrefEntry struct {
	Type XrefEntryType

	// XrefFree
	NextFree uint32
	ReuseGen uint16

	// XrefInUse
	Offset int64
	Gen    uint16

	// XrefCompressed
	StreamNum     uint32
	IndexInStream int

	// XrefOther
	Fields []int64
}

// XrefSubsection is one "{startNum} {count}" run.
type XrefSubsection struct {
	StartNum int64
	Count    int64
}

// XrefData is the decoded content of an Xref object, whether it came from
// a classical table or a decoded xref stream.
type XrefData struct {
	Widths      []int
	Subsections []XrefSubsection
	ObjTable    []XrefEntry
}

// DictEntry is one key/value pair of a Dictionary, kept in insertion
// order so a dictionary's key order survives the parse.
type DictEntry struct {
	Key   string
	Value UID
}

// Dict is an ordered name→object map, the backing store of KindDictionary
// objects.
type Dict struct {
	entries []DictEntry
	index   map[string]int
}

func newDict() *Dict {
	return &Dict{index: make(map[string]int)}
}

// Set inserts or overwrites key, preserving first-seen order on update.
func (d *Dict) Set(key string, value UID) {
	if i, ok := d.index[key]; ok {
		d.entries[i].Value = value
		return
	}
	d.index[key] = len(d.entries)
	d.entries = append(d.entries, DictEntry{Key: key, Value: value})
}

// Get returns the UID stored under key, and whether it was present.
func (d *Dict) Get(key string) (UID, bool) {
	i, ok := d.index[key]
	if !ok {
		return 0, false
	}
	return d.entries[i].Value, true
}

// Keys returns the dictionary's keys in insertion order.
func (d *Dict) Keys() []string {
	keys := make([]string, len(d.entries))
	for i, e := range d.entries {
		keys[i] = e.Key
	}
	return keys
}

// Len reports the number of entries in d.
func (d *Dict) Len() int { return len(d.entries) }

// Object is one node of the parsed graph. Ownership flows through
// Children/DictVal/Direct only; Parent and RefTarget are non-owning
// back-pointers/lookups and never participate in the owning tree, which
// is what makes the Ref to Indirect to Dictionary back to Ref cycle safe
// without reference counting.
type Object struct {
	UID    UID
	Kind   Kind
	Parent UID // 0 means "no parent" (Root, or not yet attached)

	Span Span // source byte span, when known

	// Scalars.
	Boolean      bool
	Integer      int64
	Real         float64
	Str          string // Name / Op / Comment / Junk payload
	Text         string
	TextEncoding TextEncoding
	Bytes        []byte
	Date         time.Time
	DateValid    bool

	// Containers: Array, Content, Root, Table share the ordered-children
	// shape; Dictionary additionally carries Dict.
	Children []UID
	DictVal  *Dict

	// Reference machinery.
	Identifier Identifier
	Direct     UID // Indirect's resolved child, 0 = unset
	RefTarget  UID // Ref's resolved Indirect UID, 0 = unresolved

	// Stream.
	StreamDict   UID
	SourceStart  int64
	SourceEnd    int64
	HasSource    bool
	StreamType   string
	StreamDirect UID

	// Table (one per revision/incremental update).
	XrefChild    UID // classical xref table object, 0 if none
	XrefObjUID   UID // the Indirect carrying an xref *stream*, 0 if none
	TrailerChild UID // trailer Dictionary, 0 if none
	StartXref    int64
	HasStartXref bool

	// Xref payload (populated when Kind == KindXref).
	XrefData *XrefData
}

// Span is a byte range in the source file.
type Span struct {
	Start int64
	End   int64
}

// IsContainer reports whether the object is a parent for other objects:
// an ordered Children list, or, for an Indirect, its single Direct child.
func (o *Object) IsContainer() bool {
	switch o.Kind {
	case KindArray, KindContent, KindRoot, KindTable, KindIndirect:
		return true
	}
	return false
}

// Store is the single arena that owns every Object created while parsing
// one document. It is single-owner and not safe for concurrent use
// during a run.
type Store struct {
	objects   map[UID]*Object
	order     []UID
	nextUID   UID
	indirects map[Identifier]UID // identifier → current Indirect UID
	refs      []UID              // Ref UIDs, for resolution passes
	streams   []UID              // Stream UIDs, for classify/decode passes

	Root       UID // the Root object's UID
	Catalog    UID // chosen catalog Dictionary UID, 0 if none
	PDFVersion string

	Warnings []Warning
}

// NewStore returns an empty, initialized Store with a Root object already
// created; the body parse hangs its revision Tables off this Root.
func NewStore() *Store {
	s := &Store{
		objects:   make(map[UID]*Object),
		indirects: make(map[Identifier]UID),
	}
	s.Root = s.create(KindRoot).UID
	return s
}

// create allocates a new Object with the next UID and registers it.
// Ownership of the Object is the Store's; callers attach it to a parent
// via Children/DictVal/Direct themselves.
func (s *Store) create(kind Kind) *Object {
	s.nextUID++
	o := &Object{UID: s.nextUID, Kind: kind}
	s.objects[o.UID] = o
	s.order = append(s.order, o.UID)
	if kind == KindDictionary {
		o.DictVal = newDict()
	}
	return o
}

// Get returns the object for uid, or nil if uid is zero/unknown.
func (s *Store) Get(uid UID) *Object {
	if uid == 0 {
		return nil
	}
	return s.objects[uid]
}

// RootObject returns the Root container object.
func (s *Store) RootObject() *Object { return s.Get(s.Root) }

// CatalogObject returns the resolved catalog Dictionary, or nil.
func (s *Store) CatalogObject() *Object { return s.Get(s.Catalog) }

// registerIndirect records ident → uid in the identifier index. Later
// redefinitions overwrite only this map, never the Indirect objects
// themselves, so earlier revisions stay reachable from their parents.
func (s *Store) registerIndirect(ident Identifier, uid UID) {
	s.indirects[ident] = uid
}

// LookupIndirect resolves an identifier to its current Indirect UID.
func (s *Store) LookupIndirect(ident Identifier) (UID, bool) {
	uid, ok := s.indirects[ident]
	return uid, ok
}

// addChild appends child to parent's Children and sets child's Parent
// back-pointer (non-owning on the child's side is irrelevant here since
// Children *does* own; the back-pointer itself is what's non-owning).
func (s *Store) addChild(parent, child *Object) {
	parent.Children = append(parent.Children, child.UID)
	child.Parent = parent.UID
}

// AddWarning appends w to the Store's warning list.
func (s *Store) AddWarning(w Warning) {
	s.Warnings = append(s.Warnings, w)
}

// Warning is a recoverable malformation observed while parsing. Fatal
// conditions are returned as plain errors instead and abort the run
// without a Store.
type Warning struct {
	Message string
	Code    string
	Data    map[string]interface{}
	Cause   error
}

func (w Warning) Error() string {
	if w.Cause != nil {
		return w.Code + ": " + w.Message + ": " + w.Cause.Error()
	}
	return w.Code + ": " + w.Message
}

func newWarning(code, message string) Warning {
	return Warning{Code: code, Message: message}
}

func (w Warning) withData(key string, value interface{}) Warning {
	if w.Data == nil {
		w.Data = make(map[string]interface{})
	}
	w.Data[key] = value
	return w
}

func (w Warning) withCause(err error) Warning {
	w.Cause = err
	return w
}
