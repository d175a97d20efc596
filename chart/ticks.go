// Copyright 2023 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package chart

import (
	"math"
	"strconv"

	"gonum.org/v1/plot"
)

// LogTicks is a plot.Ticker for logarithmic axes that places major
// ticks at the integer powers of Base.
type LogTicks struct {
	Base float64
}

var _ plot.Ticker = LogTicks{}

// Ticks returns a tick for every power of t.Base in [min, max], plus
// the nearest power on either side so that a narrow range still has
// labeled ticks.
func (t LogTicks) Ticks(min, max float64) []plot.Tick {
	if !(t.Base > 1) || !(min > 0) || !(max >= min) {
		return nil
	}
	lo := math.Floor(logb(min, t.Base) + 1e-9)
	hi := math.Ceil(logb(max, t.Base) - 1e-9)
	var ticks []plot.Tick
	for e := lo; e <= hi; e++ {
		v := math.Pow(t.Base, e)
		ticks = append(ticks, plot.Tick{Value: v, Label: formatTick(v)})
	}
	return ticks
}

func logb(x, base float64) float64 {
	return math.Log(x) / math.Log(base)
}

func formatTick(v float64) string {
	if v >= 1 && v < 1e7 && v == math.Trunc(v) {
		return strconv.FormatFloat(v, 'f', 0, 64)
	}
	return strconv.FormatFloat(v, 'g', 4, 64)
}
