// Copyright 2023 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package aggregate groups sweep results and turns each group into a
// series of (x, y) points ready to plot.
//
// A Projection selects a tuple of fields from a Result and interns it
// as a Key, so that results with the same field values map to the same
// Key and Keys can be used as map keys. GroupBy partitions results by
// Key; NewSeries reduces a group to points by evaluating a Derivation
// on every result.
package aggregate

import (
	"fmt"
	"hash/maphash"
	"sort"
	"strings"

	"golang.org/x/benchsweep/matrix"
	"golang.org/x/benchsweep/resultfmt"
)

// A Projection extracts a fixed tuple of fields from results.
type Projection struct {
	fields []string
	keys   map[uint64][]*keyNode
	row    []matrix.Value
}

var keySeed = maphash.MakeSeed()

// NewProjection returns a Projection of the named fields. The fields
// may be configuration parameters or measurements.
func NewProjection(fields ...string) *Projection {
	return &Projection{
		fields: append([]string(nil), fields...),
		keys:   make(map[uint64][]*keyNode),
	}
}

// Fields returns the projected field names.
func (p *Projection) Fields() []string {
	return p.fields
}

// Project returns the Key of r. It is an error for r to lack any of
// the projected fields.
func (p *Projection) Project(r *resultfmt.Result) (Key, error) {
	p.row = p.row[:0]
	for _, f := range p.fields {
		v, ok := r.Get(f)
		if !ok {
			return Key{}, fmt.Errorf("job %s: no field %s", r.Job, f)
		}
		p.row = append(p.row, v)
	}
	return p.intern(), nil
}

func (p *Projection) intern() Key {
	var h maphash.Hash
	h.SetSeed(keySeed)
	for _, v := range p.row {
		h.WriteString(v.Kind().String())
		h.WriteByte(0)
		h.WriteString(v.String())
		h.WriteByte(0)
	}
	hash := h.Sum64()
	for _, n := range p.keys[hash] {
		if n.equalRow(p.row) {
			return Key{n}
		}
	}
	n := &keyNode{p, append([]matrix.Value(nil), p.row...)}
	p.keys[hash] = append(p.keys[hash], n)
	return Key{n}
}

// A Key is an immutable tuple of field values whose structure is given
// by a Projection. Two Keys are == if they come from the same
// Projection and have identical values.
type Key struct {
	k *keyNode
}

type keyNode struct {
	proj *Projection
	vals []matrix.Value
}

func (n *keyNode) equalRow(row []matrix.Value) bool {
	if len(n.vals) != len(row) {
		return false
	}
	for i, v := range n.vals {
		if v.Kind() != row[i].Kind() || v.String() != row[i].String() {
			return false
		}
	}
	return true
}

// IsZero reports whether k is a zeroed Key with no projection.
func (k Key) IsZero() bool {
	return k.k == nil
}

// Projection returns the Projection describing k.
func (k Key) Projection() *Projection {
	if k.IsZero() {
		return nil
	}
	return k.k.proj
}

// Get returns the value of field in k. It reports false if field is
// not part of k's Projection.
func (k Key) Get(field string) (matrix.Value, bool) {
	if k.IsZero() {
		return matrix.Value{}, false
	}
	for i, f := range k.k.proj.fields {
		if f == field {
			return k.k.vals[i], true
		}
	}
	return matrix.Value{}, false
}

// Values returns the values of k in field order.
func (k Key) Values() []matrix.Value {
	if k.IsZero() {
		return nil
	}
	return append([]matrix.Value(nil), k.k.vals...)
}

// String returns k as a space-separated sequence of field:value pairs
// in field order.
func (k Key) String() string {
	return k.string(true)
}

// StringValues returns k as a space-separated sequence of values in
// field order.
func (k Key) StringValues() string {
	return k.string(false)
}

func (k Key) string(keys bool) string {
	if k.IsZero() {
		return "<zero>"
	}
	var buf strings.Builder
	for i, v := range k.k.vals {
		if i > 0 {
			buf.WriteByte(' ')
		}
		if keys {
			buf.WriteString(k.k.proj.fields[i])
			buf.WriteByte(':')
		}
		buf.WriteString(v.String())
	}
	return buf.String()
}

// Less reports whether k sorts before o. Fields compare in order;
// numeric values compare numerically, everything else lexically. It
// panics if k and o have different Projections.
func (k Key) Less(o Key) bool {
	if k.k.proj != o.k.proj {
		panic("cannot compare Keys from different Projections")
	}
	return less(k.k.vals, o.k.vals)
}

func less(a, b []matrix.Value) bool {
	for i := range a {
		if c := matrix.Compare(a[i], b[i]); c != 0 {
			return c < 0
		}
		// Equal under Compare but possibly different text, e.g. 4
		// and 4.0. Fall back to the text so the order is total.
		if sa, sb := a[i].String(), b[i].String(); sa != sb {
			return sa < sb
		}
	}
	return false
}

// SortKeys sorts keys using Key.Less. All Keys must have the same
// Projection.
func SortKeys(keys []Key) {
	if len(keys) == 0 {
		return
	}
	p := keys[0].Projection()
	for _, k := range keys[1:] {
		if k.Projection() != p {
			panic("Keys must all have the same Projection")
		}
	}
	sort.SliceStable(keys, func(i, j int) bool {
		return less(keys[i].k.vals, keys[j].k.vals)
	})
}
