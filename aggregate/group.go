// Copyright 2023 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package aggregate

import "golang.org/x/benchsweep/resultfmt"

// A Group is a set of results that share a Key.
type Group struct {
	Key     Key
	Results []*resultfmt.Result
}

// GroupBy partitions results by their projection on proj. Groups are
// returned in order of first appearance, and results keep their input
// order within a group. A Projection with no fields puts every result
// in one group.
func GroupBy(results []*resultfmt.Result, proj *Projection) ([]*Group, error) {
	var groups []*Group
	index := make(map[Key]*Group)
	for _, r := range results {
		k, err := proj.Project(r)
		if err != nil {
			return nil, err
		}
		g, ok := index[k]
		if !ok {
			g = &Group{Key: k}
			index[k] = g
			groups = append(groups, g)
		}
		g.Results = append(g.Results, r)
	}
	return groups, nil
}

// SortGroups sorts groups by Key.
func SortGroups(groups []*Group) {
	keys := make([]Key, len(groups))
	byKey := make(map[Key]*Group, len(groups))
	for i, g := range groups {
		keys[i] = g.Key
		byKey[g.Key] = g
	}
	SortKeys(keys)
	for i, k := range keys {
		groups[i] = byKey[k]
	}
}
