// Copyright 2025 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package chart

import (
	"image/color"
	"math"
	"sort"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/text"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"

	"github.com/tidytuesday/charts/chart/richtext"
)

// A layer draws one mark per row of the plot's table.
type layer interface {
	Plotter

	// columns returns the columns mapped to each aesthetic.
	columns() aesthetics

	// consts returns constant x and y positions the layer draws
	// at, which continuous axes must cover.
	consts() (x, y []float64)

	// plotter returns the gonum plotter that draws the layer.
	plotter(r *renderer) (plot.Plotter, error)

	// sketch returns the layer's marks in sketch form.
	sketch(r *renderer) []sketchMark
}

type aesthetics struct {
	x, y, fill, color []string

	// other columns the layer reads, such as label text.
	other []string
}

func nonEmpty(cols ...string) []string {
	var out []string
	for _, c := range cols {
		if c != "" {
			out = append(out, c)
		}
	}
	return out
}

type plotFunc func(c draw.Canvas, p *plot.Plot)

func (f plotFunc) Plot(c draw.Canvas, p *plot.Plot) {
	f(c, p)
}

// coord maps data positions to canvas points, swapping axes if the
// plot is flipped.
type coord struct {
	trX, trY func(float64) vg.Length
	flip     bool
}

func (co coord) pt(x, y float64) vg.Point {
	if co.flip {
		x, y = y, x
	}
	return vg.Point{X: co.trX(x), Y: co.trY(y)}
}

func rectPts(co coord, x0, x1, y0, y1 float64) []vg.Point {
	return []vg.Point{co.pt(x0, y0), co.pt(x1, y0), co.pt(x1, y1), co.pt(x0, y1)}
}

func anyNaN(vs ...float64) bool {
	for _, v := range vs {
		if math.IsNaN(v) {
			return true
		}
	}
	return false
}

func withAlpha(c color.Color, alpha float64) color.Color {
	if alpha <= 0 || alpha >= 1 {
		return c
	}
	n := color.NRGBAModel.Convert(c).(color.NRGBA)
	n.A = uint8(math.Round(float64(n.A) * alpha))
	return n
}

var defaultMark = color.NRGBA{0x59, 0x59, 0x59, 0xff}

func colorAt(cs []color.Color, i int) color.Color {
	if cs == nil || cs[i] == nil {
		return defaultMark
	}
	return cs[i]
}

// Rect draws one rectangle per row, spanning XMin to XMax and YMin to
// YMax.
type Rect struct {
	XMin, XMax, YMin, YMax string

	// Fill, if set, is the column mapped to fill color.
	Fill string

	// Alpha is the fill opacity. Zero means opaque.
	Alpha float64

	// Outline strokes each rectangle in its fill color.
	Outline bool

	// Tooltip, if set, is a column of hover text. It appears only
	// in sketches.
	Tooltip string
}

func (l Rect) Apply(p *Plot) { p.layers = append(p.layers, l) }

func (l Rect) columns() aesthetics {
	return aesthetics{
		x:     []string{l.XMin, l.XMax},
		y:     []string{l.YMin, l.YMax},
		fill:  nonEmpty(l.Fill),
		other: nonEmpty(l.Tooltip),
	}
}

func (l Rect) consts() (x, y []float64) { return nil, nil }

func (l Rect) plotter(r *renderer) (plot.Plotter, error) {
	x0, x1 := r.xpos(l.XMin), r.xpos(l.XMax)
	y0, y1 := r.ypos(l.YMin), r.ypos(l.YMax)
	fills := r.fills(l.Fill)
	return plotFunc(func(c draw.Canvas, p *plot.Plot) {
		co := r.coord(&c, p)
		for i := range x0 {
			if anyNaN(x0[i], x1[i], y0[i], y1[i]) {
				continue
			}
			clr := colorAt(fills, i)
			pts := rectPts(co, x0[i], x1[i], y0[i], y1[i])
			c.FillPolygon(withAlpha(clr, l.Alpha), c.ClipPolygonXY(pts))
			if l.Outline {
				sty := draw.LineStyle{Color: clr, Width: vg.Points(0.75)}
				c.StrokeLines(sty, c.ClipLinesXY(append(pts, pts[0]))...)
			}
		}
	}), nil
}

// Line draws one polyline through the rows of each group, in order of
// X.
type Line struct {
	X, Y string

	// Color, if set, is the column mapped to line color. Rows
	// with different colors are in different groups.
	Color string

	// Group, if set, further splits rows into lines.
	Group string

	// Width is the line width in points. Zero means 1.5.
	Width float64
}

func (l Line) Apply(p *Plot) { p.layers = append(p.layers, l) }

func (l Line) columns() aesthetics {
	return aesthetics{
		x:     []string{l.X},
		y:     []string{l.Y},
		color: nonEmpty(l.Color),
		other: nonEmpty(l.Group),
	}
}

func (l Line) consts() (x, y []float64) { return nil, nil }

// groups returns the row indexes of each line, in order of first
// appearance, each sorted by x.
func (l Line) groups(r *renderer, xs []float64) [][]int {
	var keys []string
	if l.Group != "" {
		keys = levelStrings(r.t.Column(l.Group))
	}
	var ckeys []string
	if l.Color != "" {
		ckeys = levelStrings(r.t.Column(l.Color))
	}
	index := make(map[[2]string]int)
	var out [][]int
	for i := range xs {
		var k [2]string
		if keys != nil {
			k[0] = keys[i]
		}
		if ckeys != nil {
			k[1] = ckeys[i]
		}
		g, ok := index[k]
		if !ok {
			g = len(out)
			index[k] = g
			out = append(out, nil)
		}
		out[g] = append(out[g], i)
	}
	for _, rows := range out {
		sort.SliceStable(rows, func(i, j int) bool { return xs[rows[i]] < xs[rows[j]] })
	}
	return out
}

func (l Line) plotter(r *renderer) (plot.Plotter, error) {
	xs, ys := r.xpos(l.X), r.ypos(l.Y)
	colors := r.colors(l.Color)
	groups := l.groups(r, xs)
	width := l.Width
	if width == 0 {
		width = 1.5
	}
	return plotFunc(func(c draw.Canvas, p *plot.Plot) {
		co := r.coord(&c, p)
		for _, rows := range groups {
			var pts []vg.Point
			for _, i := range rows {
				if anyNaN(xs[i], ys[i]) {
					continue
				}
				pts = append(pts, co.pt(xs[i], ys[i]))
			}
			if len(pts) < 2 {
				continue
			}
			sty := draw.LineStyle{Color: colorAt(colors, rows[0]), Width: vg.Points(width)}
			c.StrokeLines(sty, c.ClipLinesXY(pts)...)
		}
	}), nil
}

// Label draws the text of each row in a box centered at (X, Y). The
// text and the box outline use the row's color.
type Label struct {
	X, Y, Text string

	// Color, if set, is the column mapped to text color.
	Color string

	// Fill is the box color. The default is white.
	Fill string

	// Size is the text size in points. Zero means the theme size.
	Size float64

	// Padding is the space between text and box as a fraction of
	// the text size. Zero means 0.25.
	Padding float64
}

func (l Label) Apply(p *Plot) { p.layers = append(p.layers, l) }

func (l Label) columns() aesthetics {
	return aesthetics{
		x:     []string{l.X},
		y:     []string{l.Y},
		color: nonEmpty(l.Color),
		other: []string{l.Text},
	}
}

func (l Label) consts() (x, y []float64) { return nil, nil }

func (l Label) plotter(r *renderer) (plot.Plotter, error) {
	xs, ys := r.xpos(l.X), r.ypos(l.Y)
	labels := levelStrings(r.t.Column(l.Text))
	colors := r.colors(l.Color)
	fill := color.Color(color.White)
	if l.Fill != "" {
		var err error
		if fill, err = richtext.ParseColor(l.Fill); err != nil {
			return nil, err
		}
	}
	pad := l.Padding
	if pad == 0 {
		pad = 0.25
	}
	base := r.st.textStyle(l.Size)
	return plotFunc(func(c draw.Canvas, p *plot.Plot) {
		co := r.coord(&c, p)
		for i := range xs {
			if anyNaN(xs[i], ys[i]) {
				continue
			}
			clr := colorAt(colors, i)
			if colors == nil {
				clr = r.st.text
			}
			s := base
			s.Color = clr
			b := richtext.Layout([]richtext.Line{{{Text: labels[i]}}}, s, 0)
			w, h := b.Size()
			pt := co.pt(xs[i], ys[i])
			d := vg.Length(pad) * s.Font.Size
			box := []vg.Point{
				{X: pt.X - w/2 - d, Y: pt.Y - h/2 - d},
				{X: pt.X + w/2 + d, Y: pt.Y - h/2 - d},
				{X: pt.X + w/2 + d, Y: pt.Y + h/2 + d},
				{X: pt.X - w/2 - d, Y: pt.Y + h/2 + d},
			}
			c.FillPolygon(fill, box)
			c.StrokeLines(draw.LineStyle{Color: clr, Width: vg.Points(0.5)}, append(box, box[0]))
			b.Draw(c, pt, text.XCenter, text.YCenter)
		}
	}), nil
}

// Col draws a bar from zero to Y at each X.
type Col struct {
	X, Y string

	// Fill, if set, is the column mapped to fill color.
	Fill string

	// Width is the bar width in x units. Zero means 0.9.
	Width float64

	// Dodge places the bars of each fill level at an X side by
	// side, dividing Width between them.
	Dodge bool
}

func (l Col) Apply(p *Plot) { p.layers = append(p.layers, l) }

func (l Col) columns() aesthetics {
	return aesthetics{
		x:    []string{l.X},
		y:    []string{l.Y},
		fill: nonEmpty(l.Fill),
	}
}

func (l Col) consts() (x, y []float64) { return nil, []float64{0} }

// bars returns the x extent of each bar.
func (l Col) bars(r *renderer) (x0, x1 []float64) {
	xs := r.xpos(l.X)
	w := l.Width
	if w == 0 {
		w = 0.9
	}
	var levels []string
	n := 1
	if l.Dodge && l.Fill != "" && r.fill != nil {
		levels = levelStrings(r.t.Column(l.Fill))
		n = len(r.fill.levels)
	}
	bw := w / float64(n)
	x0, x1 = make([]float64, len(xs)), make([]float64, len(xs))
	for i, x := range xs {
		k := 0
		if levels != nil {
			k = r.fill.level(levels[i])
		}
		x0[i] = x - w/2 + bw*float64(k)
		x1[i] = x0[i] + bw
	}
	return x0, x1
}

func (l Col) plotter(r *renderer) (plot.Plotter, error) {
	x0, x1 := l.bars(r)
	ys := r.ypos(l.Y)
	fills := r.fills(l.Fill)
	return plotFunc(func(c draw.Canvas, p *plot.Plot) {
		co := r.coord(&c, p)
		for i := range ys {
			if anyNaN(x0[i], ys[i]) {
				continue
			}
			pts := rectPts(co, x0[i], x1[i], 0, ys[i])
			c.FillPolygon(colorAt(fills, i), c.ClipPolygonXY(pts))
		}
	}), nil
}

// Annotate draws rich text at a data position.
type Annotate struct {
	X, Y float64
	Text string

	// Size is the text size in points. Zero means the theme size.
	Size float64

	// Font is a typeface name. Empty means the theme font.
	Font string

	Bold  bool
	Color string

	// XAlign and YAlign place the text relative to (X, Y). The
	// zero values put (X, Y) at the bottom left.
	XAlign text.XAlignment
	YAlign text.YAlignment

	// LineSpacing is the baseline distance as a multiple of Size.
	// Zero means 1.2.
	LineSpacing float64
}

func (l Annotate) Apply(p *Plot) { p.layers = append(p.layers, l) }

func (l Annotate) columns() aesthetics { return aesthetics{} }

func (l Annotate) consts() (x, y []float64) {
	return []float64{l.X}, []float64{l.Y}
}

func (l Annotate) plotter(r *renderer) (plot.Plotter, error) {
	b, err := r.st.block(l.Text, TextOptions{
		Size:        l.Size,
		Font:        l.Font,
		Bold:        l.Bold,
		Color:       l.Color,
		LineSpacing: l.LineSpacing,
	}, 0)
	if err != nil {
		return nil, err
	}
	return plotFunc(func(c draw.Canvas, p *plot.Plot) {
		co := r.coord(&c, p)
		b.Draw(c, co.pt(l.X, l.Y), l.XAlign, l.YAlign)
	}), nil
}
