// Copyright 2025 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package chart

import (
	"image/color"
	"io"
	"strings"

	"github.com/aclements/go-gg/gg"
	"github.com/aclements/go-gg/table"

	"github.com/tidytuesday/charts/chart/richtext"
)

// A sketchMark is a go-gg layer and the table it draws.
type sketchMark struct {
	data  *table.Table
	group string
	layer gg.Plotter
}

// WriteSketch writes a quick SVG draft of p to w using go-gg. The
// draft has the same marks, colors and axis directions as the rendered
// plot, but ignores the theme and draws dates as fractional years.
func (p *Plot) WriteSketch(w io.Writer, width, height int) error {
	st, err := p.theme.resolve()
	if err != nil {
		return err
	}
	r, err := p.train(st)
	if err != nil {
		return err
	}

	sp := gg.NewPlot(r.t)
	// Reversed axes are drawn negated with negated labels.
	xaes, yaes := "x", "y"
	if p.flip {
		xaes, yaes = yaes, xaes
	}
	for _, ax := range []struct {
		a   *axis
		aes string
	}{{r.x, xaes}, {r.y, yaes}} {
		if !ax.a.reverse {
			continue
		}
		ls := gg.NewLinearScaler()
		ls.SetFormatter(func(v float64) string { return formatFloat(-v) })
		sp.SetScale(ax.aes, ls)
	}
	for _, l := range p.layers {
		for _, m := range l.sketch(r) {
			if m.data.Len() == 0 {
				continue
			}
			sp.Save()
			sp.SetData(m.data)
			if m.group != "" {
				sp.GroupBy(m.group)
			}
			sp.Add(m.layer)
			sp.Restore()
		}
	}
	if p.title != "" {
		sp.Add(gg.Title(plainText(p.title)))
	}
	xlab, ylab := p.xlab, p.ylab
	if p.flip {
		xlab, ylab = ylab, xlab
	}
	if xlab != "" {
		sp.Add(gg.AxisLabel("x", xlab))
	}
	if ylab != "" {
		sp.Add(gg.AxisLabel("y", ylab))
	}
	return sp.WriteSVG(w, width, height)
}

// plainText strips markup from s. Unparseable markup is returned as
// is.
func plainText(s string) string {
	lines, err := richtext.Parse(s)
	if err != nil {
		return s
	}
	var parts []string
	for _, l := range lines {
		if t := l.Text(); t != "" {
			parts = append(parts, t)
		}
	}
	return strings.Join(parts, " ")
}

const secondsPerYear = 365.2425 * 24 * 60 * 60

// sketchPt maps data positions to sketch coordinates.
func (r *renderer) sketchPt(x, y float64) (float64, float64) {
	if r.x.time {
		x = 1970 + x/secondsPerYear
	}
	if r.y.time {
		y = 1970 + y/secondsPerYear
	}
	if r.x.reverse {
		x = -x
	}
	if r.y.reverse {
		y = -y
	}
	if r.flip {
		x, y = y, x
	}
	return x, y
}

// sketchRects draws rectangles as filled paths.
func (r *renderer) sketchRects(x0, x1, y0, y1 []float64, fills []color.Color) sketchMark {
	var (
		ids    []int
		xs, ys []float64
		fs     []color.Color
	)
	for i := range x0 {
		if anyNaN(x0[i], x1[i], y0[i], y1[i]) {
			continue
		}
		for _, c := range [][2]float64{{x0[i], y0[i]}, {x1[i], y0[i]}, {x1[i], y1[i]}, {x0[i], y1[i]}} {
			x, y := r.sketchPt(c[0], c[1])
			ids = append(ids, i)
			xs, ys = append(xs, x), append(ys, y)
			fs = append(fs, colorAt(fills, i))
		}
	}
	t := new(table.Builder).Add("rect", ids).Add("x", xs).Add("y", ys).Add("fill", fs).Done()
	return sketchMark{t, "rect", gg.LayerPaths{X: "x", Y: "y", Fill: "fill"}}
}

func (l Rect) sketch(r *renderer) []sketchMark {
	x0, x1 := r.xpos(l.XMin), r.xpos(l.XMax)
	y0, y1 := r.ypos(l.YMin), r.ypos(l.YMax)
	marks := []sketchMark{r.sketchRects(x0, x1, y0, y1, r.fills(l.Fill))}
	if l.Tooltip == "" {
		return marks
	}
	tips := levelStrings(r.t.Column(l.Tooltip))
	var xs, ys []float64
	var labels []string
	for i := range x0 {
		if anyNaN(x0[i], x1[i], y0[i], y1[i]) {
			continue
		}
		x, y := r.sketchPt((x0[i]+x1[i])/2, y1[i])
		xs, ys = append(xs, x), append(ys, y)
		labels = append(labels, plainText(tips[i]))
	}
	t := new(table.Builder).Add("x", xs).Add("y", ys).Add("tooltip", labels).Done()
	return append(marks, sketchMark{t, "", gg.LayerTooltips{X: "x", Y: "y", Label: "tooltip"}})
}

func (l Line) sketch(r *renderer) []sketchMark {
	xs, ys := r.xpos(l.X), r.ypos(l.Y)
	colors := r.colors(l.Color)
	var (
		ids    []int
		px, py []float64
		stroke []color.Color
	)
	for g, rows := range l.groups(r, xs) {
		for _, i := range rows {
			if anyNaN(xs[i], ys[i]) {
				continue
			}
			x, y := r.sketchPt(xs[i], ys[i])
			ids = append(ids, g)
			px, py = append(px, x), append(py, y)
			stroke = append(stroke, colorAt(colors, i))
		}
	}
	t := new(table.Builder).Add("line", ids).Add("x", px).Add("y", py).Add("stroke", stroke).Done()
	return []sketchMark{{t, "line", gg.LayerPaths{X: "x", Y: "y", Color: "stroke"}}}
}

func (l Label) sketch(r *renderer) []sketchMark {
	xs, ys := r.xpos(l.X), r.ypos(l.Y)
	text := levelStrings(r.t.Column(l.Text))
	var px, py []float64
	var labels []string
	for i := range xs {
		if anyNaN(xs[i], ys[i]) {
			continue
		}
		x, y := r.sketchPt(xs[i], ys[i])
		px, py = append(px, x), append(py, y)
		labels = append(labels, text[i])
	}
	t := new(table.Builder).Add("x", px).Add("y", py).Add("label", labels).Done()
	return []sketchMark{{t, "", gg.LayerTags{X: "x", Y: "y", Label: "label"}}}
}

func (l Col) sketch(r *renderer) []sketchMark {
	x0, x1 := l.bars(r)
	ys := r.ypos(l.Y)
	zero := make([]float64, len(ys))
	return []sketchMark{r.sketchRects(x0, x1, zero, ys, r.fills(l.Fill))}
}

func (l Annotate) sketch(r *renderer) []sketchMark {
	x, y := r.sketchPt(l.X, l.Y)
	t := new(table.Builder).
		Add("x", []float64{x}).
		Add("y", []float64{y}).
		Add("label", []string{plainText(l.Text)}).
		Done()
	return []sketchMark{{t, "", gg.LayerTags{X: "x", Y: "y", Label: "label"}}}
}
