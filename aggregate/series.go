// Copyright 2023 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package aggregate

import (
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"

	"github.com/aclements/go-moremath/stats"
	"golang.org/x/benchsweep/resultfmt"
)

// A Point is one (x, y) pair of a Series. Result is the result the
// point was derived from.
type Point struct {
	X, Y   float64
	Result *resultfmt.Result
}

// A Series is the points of one Group, sorted by ascending X.
type Series struct {
	Key    Key
	XField string
	Points []Point
}

// NewSeries derives a Series from g. The x value of each result is the
// numeric field xField and its y value is derive(result). If several
// results share an x value, the last one wins.
func NewSeries(g *Group, xField string, derive Derivation) (*Series, error) {
	byX := make(map[float64]int)
	s := &Series{Key: g.Key, XField: xField}
	for _, r := range g.Results {
		x, err := r.Float(xField)
		if err != nil {
			return nil, err
		}
		y, err := derive(r)
		if err != nil {
			return nil, err
		}
		p := Point{x, y, r}
		if i, ok := byX[x]; ok {
			s.Points[i] = p
			continue
		}
		byX[x] = len(s.Points)
		s.Points = append(s.Points, p)
	}
	sort.Slice(s.Points, func(i, j int) bool {
		return s.Points[i].X < s.Points[j].X
	})
	return s, nil
}

// Build groups results by groupFields and derives one Series per
// group, in group order.
func Build(results []*resultfmt.Result, groupFields []string, xField string, derive Derivation) ([]*Series, error) {
	groups, err := GroupBy(results, NewProjection(groupFields...))
	if err != nil {
		return nil, err
	}
	var series []*Series
	for _, g := range groups {
		s, err := NewSeries(g, xField, derive)
		if err != nil {
			return nil, fmt.Errorf("group %s: %w", g.Key, err)
		}
		series = append(series, s)
	}
	return series, nil
}

// XYs returns the points of s as parallel slices.
func (s *Series) XYs() (xs, ys []float64) {
	for _, p := range s.Points {
		xs = append(xs, p.X)
		ys = append(ys, p.Y)
	}
	return xs, ys
}

// Len returns the number of points of s.
func (s *Series) Len() int { return len(s.Points) }

// XY returns the i'th point of s.
func (s *Series) XY(i int) (x, y float64) {
	return s.Points[i].X, s.Points[i].Y
}

// A Summary describes the y values of a Series.
type Summary struct {
	N        int
	Mean     float64
	Variance float64 // population variance
	Min, Max float64
}

// Summary returns statistics of the y values of s.
func (s *Series) Summary() Summary {
	_, ys := s.XYs()
	sample := stats.Sample{Xs: ys}
	sum := Summary{N: len(ys), Mean: sample.Mean()}
	// Sample.Variance divides by n-1.
	if n := float64(len(ys)); n > 0 {
		sum.Variance = sample.Variance() * (n - 1) / n
	} else {
		sum.Variance = math.NaN()
	}
	sum.Min, sum.Max = sample.Bounds()
	return sum
}

// String formats s as its key, its points and the variance of its y
// values on one line.
func (s *Series) String() string {
	var buf strings.Builder
	buf.WriteString(s.Key.String())
	buf.WriteString(" {")
	for i, p := range s.Points {
		if i > 0 {
			buf.WriteString(", ")
		}
		buf.WriteString(strconv.FormatFloat(p.X, 'g', -1, 64))
		buf.WriteString(": ")
		buf.WriteString(strconv.FormatFloat(p.Y, 'g', -1, 64))
	}
	fmt.Fprintf(&buf, "} var=%.6g", s.Summary().Variance)
	return buf.String()
}
