// Copyright © 2026, SAS Institute Inc., Cary, NC, USA.  All Rights Reserved.
// SPDX-License-Identifier: BSD-3-Clause

package pdfgraph

// Resolve follows a Ref to its Indirect's direct child, any number of
// times, stopping at the first non-Ref object. Returns nil if the chain
// bottoms out unresolved or cyclic; a chain through distinct refs can be
// at most len(store.refs) hops, so anything longer is a cycle.
func Resolve(store *Store, uid UID) *Object {
	o := store.Get(uid)
	hops := 0
	maxHops := len(store.refs) + 1
	for o != nil && o.Kind == KindRef && hops < maxHops {
		ind := store.Get(o.RefTarget)
		if ind == nil {
			return nil
		}
		o = store.Get(ind.Direct)
		hops++
	}
	if o != nil && o.Kind == KindRef {
		return nil
	}
	return o
}

// DictLookup resolves key in the dictionary dictObj, following a Ref if
// the stored value is one. Returns nil if dictObj is not a Dictionary or
// the key is absent.
func DictLookup(store *Store, dictObj *Object, key string) *Object {
	if dictObj == nil || dictObj.Kind != KindDictionary {
		return nil
	}
	uid, ok := dictObj.DictVal.Get(key)
	if !ok {
		return nil
	}
	return Resolve(store, uid)
}

// NameOf returns o's Name string and true, or "" and false if o is nil or
// not a Name.
func NameOf(o *Object) (string, bool) {
	if o == nil || o.Kind != KindName {
		return "", false
	}
	return o.Str, true
}

// IntOf returns o's integer value, coercing Real by truncation the way
// PDF numeric objects are routinely used interchangeably.
func IntOf(o *Object) (int64, bool) {
	if o == nil {
		return 0, false
	}
	switch o.Kind {
	case KindInteger:
		return o.Integer, true
	case KindReal:
		return int64(o.Real), true
	}
	return 0, false
}

// ArrayItems returns a Array/Content/Table object's children, or nil.
func ArrayItems(o *Object) []UID {
	if o == nil {
		return nil
	}
	switch o.Kind {
	case KindArray, KindContent, KindTable, KindRoot:
		return o.Children
	}
	return nil
}
