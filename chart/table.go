// Copyright 2023 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package chart

import (
	"fmt"
	"strings"

	"golang.org/x/benchsweep/resultfmt"
)

// A Table maps a tuple of categorical field values to a panel index.
// It is exhaustive: a tuple that is not in the table is an error
// rather than a default panel.
type Table struct {
	Fields []string
	panels map[string]int
}

// An UnknownCategoryError reports a result whose categorical values
// have no entry in a Table.
type UnknownCategoryError struct {
	Job    string
	Fields []string
	Values []string
}

func (e *UnknownCategoryError) Error() string {
	var pairs []string
	for i, f := range e.Fields {
		pairs = append(pairs, f+"="+e.Values[i])
	}
	return fmt.Sprintf("job %s: no panel for %s", e.Job, strings.Join(pairs, ","))
}

// NewTable returns an empty Table keyed by fields.
func NewTable(fields ...string) *Table {
	return &Table{Fields: fields, panels: make(map[string]int)}
}

// GridTable returns a Table that puts rowField value rows[i] and
// colField value cols[j] in panel i*len(cols)+j.
func GridTable(rowField string, rows []string, colField string, cols []string) *Table {
	t := NewTable(rowField, colField)
	for i, r := range rows {
		for j, c := range cols {
			t.Add(i*len(cols)+j, r, c)
		}
	}
	return t
}

// Add maps the tuple values to panel. It panics if the number of values
// does not match the number of fields.
func (t *Table) Add(panel int, values ...string) *Table {
	if len(values) != len(t.Fields) {
		panic(fmt.Sprintf("table over %d fields given %d values", len(t.Fields), len(values)))
	}
	t.panels[strings.Join(values, "\x00")] = panel
	return t
}

// Len returns the number of entries in t.
func (t *Table) Len() int {
	return len(t.panels)
}

// Lookup returns the panel of r. It can be used as a Figure's Panel
// function.
func (t *Table) Lookup(r *resultfmt.Result) (int, error) {
	values := make([]string, len(t.Fields))
	for i, f := range t.Fields {
		v, ok := r.Get(f)
		if !ok {
			return 0, fmt.Errorf("job %s: no field %s", r.Job, f)
		}
		values[i] = v.String()
	}
	p, ok := t.panels[strings.Join(values, "\x00")]
	if !ok {
		return 0, &UnknownCategoryError{r.Job, t.Fields, values}
	}
	return p, nil
}
