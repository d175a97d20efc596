// Copyright 2023 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package chart lays out series of sweep results as a grid of line
// plots and saves the composed figure as an image.
package chart

import (
	"fmt"
	"image/color"
	"os"
	"path/filepath"
	"strings"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
	"gonum.org/v1/plot/vg/vgimg"
	"gonum.org/v1/plot/vg/vgpdf"
	"gonum.org/v1/plot/vg/vgsvg"

	"golang.org/x/benchsweep/aggregate"
	"golang.org/x/benchsweep/resultfmt"
)

// Default panel size, used when a Figure has no explicit size.
const (
	DefaultPanelWidth  = 4 * vg.Inch
	DefaultPanelHeight = 3 * vg.Inch
)

const dpi = 150

// A Figure describes how to lay out a set of series as a grid of
// panels.
//
// Title, Label and Panel are evaluated on the representative result of
// each series, which is the result of its first point. All series that
// share a panel should agree on its title.
type Figure struct {
	Name       string
	Rows, Cols int

	// Width and Height are the size of the whole figure. Zero means
	// the default panel size times the number of columns or rows.
	Width, Height vg.Length

	// XLabel and YLabel label the axes of the leftmost column.
	XLabel, YLabel string

	// XLogBase and YLogBase, if greater than 1, make the axis
	// logarithmic with ticks at integer powers of the base.
	XLogBase, YLogBase float64

	// Title returns the title of a panel. If nil, panels are untitled.
	Title func(r *resultfmt.Result) string

	// Label returns the legend label of a series. If nil, the figure
	// has no legend and series are told apart by their key values.
	Label func(r *resultfmt.Result) string

	// Panel returns the 0-based row-major index of the panel of a
	// series. If nil, every series goes to panel 0.
	Panel func(r *resultfmt.Result) (int, error)
}

type legendEntry struct {
	label  string
	thumbs []plot.Thumbnailer
}

// Plots lays out series on a Rows × Cols grid. The returned slice is
// row-major; panels that receive no series are nil, except the
// bottom-right panel, which always exists if the figure has a legend.
func (f *Figure) Plots(series []*aggregate.Series) ([][]*plot.Plot, error) {
	if f.Rows <= 0 || f.Cols <= 0 {
		return nil, fmt.Errorf("figure %s: bad grid %d×%d", f.Name, f.Rows, f.Cols)
	}
	plots := make([][]*plot.Plot, f.Rows)
	for i := range plots {
		plots[i] = make([]*plot.Plot, f.Cols)
	}

	var legend []*legendEntry
	byLabel := make(map[string]int)

	for _, s := range series {
		if len(s.Points) == 0 {
			return nil, fmt.Errorf("figure %s: series %s has no points", f.Name, s.Key)
		}
		rep := s.Points[0].Result

		idx := 0
		if f.Panel != nil {
			var err error
			idx, err = f.Panel(rep)
			if err != nil {
				return nil, fmt.Errorf("figure %s: %w", f.Name, err)
			}
		}
		if idx < 0 || idx >= f.Rows*f.Cols {
			return nil, fmt.Errorf("figure %s: series %s: panel %d out of range for a %d×%d grid", f.Name, s.Key, idx, f.Rows, f.Cols)
		}
		row, col := idx/f.Cols, idx%f.Cols
		p := plots[row][col]
		if p == nil {
			p = plot.New()
			plots[row][col] = p
		}
		if f.Title != nil {
			p.Title.Text = f.Title(rep)
		}

		label := s.Key.StringValues()
		if f.Label != nil {
			label = f.Label(rep)
		}
		li, ok := byLabel[label]
		if !ok {
			li = len(legend)
			byLabel[label] = li
			legend = append(legend, &legendEntry{label: label})
		}

		xys := make(plotter.XYs, len(s.Points))
		for i, pt := range s.Points {
			if f.XLogBase > 1 && !(pt.X > 0) {
				return nil, fmt.Errorf("figure %s: series %s: x=%v on a log axis", f.Name, s.Key, pt.X)
			}
			if f.YLogBase > 1 && !(pt.Y > 0) {
				return nil, fmt.Errorf("figure %s: series %s: y=%v at x=%v on a log axis", f.Name, s.Key, pt.Y, pt.X)
			}
			xys[i].X, xys[i].Y = pt.X, pt.Y
		}
		line, points, err := plotter.NewLinePoints(xys)
		if err != nil {
			return nil, fmt.Errorf("figure %s: series %s: %w", f.Name, s.Key, err)
		}
		line.Color = plotutil.Color(li)
		points.Color = plotutil.Color(li)
		points.Shape = plotutil.Shape(li)
		p.Add(line, points)
		if legend[li].thumbs == nil {
			legend[li].thumbs = []plot.Thumbnailer{line, points}
		}
	}

	if f.Label != nil {
		lr, lc := f.Rows-1, f.Cols-1
		if plots[lr][lc] == nil {
			plots[lr][lc] = plot.New()
		}
		lp := plots[lr][lc]
		lp.Legend.Top = true
		for _, e := range legend {
			lp.Legend.Add(e.label, e.thumbs...)
		}
	}

	for _, row := range plots {
		for c, p := range row {
			if p == nil {
				continue
			}
			f.setAxes(p, c == 0)
			p.Add(plotter.NewGrid())
		}
	}
	return plots, nil
}

func (f *Figure) setAxes(p *plot.Plot, leftmost bool) {
	if leftmost {
		p.X.Label.Text = f.XLabel
		p.Y.Label.Text = f.YLabel
	}
	setLogAxis(&p.X, f.XLogBase)
	setLogAxis(&p.Y, f.YLogBase)
}

// setLogAxis makes a log axis with the given base if base > 1. An axis
// without data, such as that of the legend-only panel, stays linear.
func setLogAxis(a *plot.Axis, base float64) {
	if !(base > 1) || !(a.Min > 0) || !(a.Max >= a.Min) {
		return
	}
	if a.Min == a.Max {
		a.Min /= base
		a.Max *= base
	}
	a.Scale = plot.LogScale{}
	a.Tick.Marker = LogTicks{Base: base}
}

// Size returns the size of the saved figure.
func (f *Figure) Size() (w, h vg.Length) {
	w, h = f.Width, f.Height
	if w == 0 {
		w = vg.Length(f.Cols) * DefaultPanelWidth
	}
	if h == 0 {
		h = vg.Length(f.Rows) * DefaultPanelHeight
	}
	return w, h
}

// Save renders series and writes the figure to path. The image format
// is chosen by the extension of path: .png, .svg or .pdf.
func (f *Figure) Save(series []*aggregate.Series, path string) (err error) {
	plots, err := f.Plots(series)
	if err != nil {
		return err
	}
	w, h := f.Size()

	var c vg.CanvasWriterTo
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".png":
		c = vgimg.PngCanvas{Canvas: vgimg.NewWith(vgimg.UseWH(w, h), vgimg.UseDPI(dpi), vgimg.UseBackgroundColor(color.White))}
	case ".svg":
		c = vgsvg.New(w, h)
	case ".pdf":
		c = vgpdf.New(w, h)
	default:
		return fmt.Errorf("figure %s: unsupported image format %q", f.Name, ext)
	}

	dc := draw.New(c)
	tiles := draw.Tiles{
		Rows:      f.Rows,
		Cols:      f.Cols,
		PadTop:    vg.Points(4),
		PadBottom: vg.Points(4),
		PadLeft:   vg.Points(4),
		PadRight:  vg.Points(4),
		PadX:      vg.Points(8),
		PadY:      vg.Points(8),
	}
	canvases := plot.Align(plots, tiles, dc)
	for j, row := range plots {
		for i, p := range row {
			if p != nil {
				p.Draw(canvases[j][i])
			}
		}
	}

	out, err := os.Create(path)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := out.Close(); err == nil {
			err = cerr
		}
	}()
	_, err = c.WriteTo(out)
	return err
}
