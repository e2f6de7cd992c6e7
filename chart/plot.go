// Copyright 2025 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package chart draws grammar-of-graphics charts of go-gg tables to
// PNG images.
//
// A Plot binds a table to layers, scales, labels and a theme:
//
//	p := chart.New(data)
//	p.Add(chart.Rect{XMin: "xmin", XMax: "xmax", YMin: "start", YMax: "end", Fill: "up"})
//	p.Add(chart.ScaleFill(chart.Manual{Values: []string{"#CC3F0C", "#09814A"}}))
//	fig, err := p.Render(chart.Size{Width: 6 * vg.Inch, Height: 4 * vg.Inch, DPI: 300})
//
// Render lays the plot out on a raster figure with gonum/plot. The
// figure can then be annotated with Figure.Text and written with
// Figure.Save.
package chart

import (
	"github.com/aclements/go-gg/table"
)

// Plot is a chart under construction.
type Plot struct {
	data   table.Grouping
	layers []layer

	x, y        PositionScale
	fill, color *Manual

	title      string
	xlab, ylab string
	flip       bool
	theme      Theme
}

// New returns a new plot of data with the default theme.
func New(data table.Grouping) *Plot {
	return &Plot{data: data, theme: DefaultTheme()}
}

// Data returns the plot's table.
func (p *Plot) Data() table.Grouping {
	return p.data
}

// A Plotter modifies a Plot. Layers, scales, labels and themes are
// all Plotters.
type Plotter interface {
	Apply(*Plot)
}

type plotterFunc func(*Plot)

func (f plotterFunc) Apply(p *Plot) {
	f(p)
}

// Add applies each plotter to p in order and returns p.
func (p *Plot) Add(plotters ...Plotter) *Plot {
	for _, pl := range plotters {
		pl.Apply(p)
	}
	return p
}

// Title sets the plot title. It may use rich text markup.
func Title(s string) Plotter {
	return plotterFunc(func(p *Plot) { p.title = s })
}

// Labels sets the x and y axis labels. Empty labels are omitted.
func Labels(x, y string) Plotter {
	return plotterFunc(func(p *Plot) { p.xlab, p.ylab = x, y })
}

// Flip draws the x aesthetic vertically and the y aesthetic
// horizontally.
func Flip() Plotter {
	return plotterFunc(func(p *Plot) { p.flip = true })
}

// WithTheme replaces the plot's theme.
func WithTheme(t Theme) Plotter {
	return plotterFunc(func(p *Plot) { p.theme = t })
}

// ScaleX sets the scale of the x aesthetic.
func ScaleX(s PositionScale) Plotter {
	return plotterFunc(func(p *Plot) { p.x = s })
}

// ScaleY sets the scale of the y aesthetic.
func ScaleY(s PositionScale) Plotter {
	return plotterFunc(func(p *Plot) { p.y = s })
}

// ScaleFill sets the colors of the fill aesthetic.
func ScaleFill(m Manual) Plotter {
	return plotterFunc(func(p *Plot) { p.fill = &m })
}

// ScaleColor sets the colors of the color aesthetic.
func ScaleColor(m Manual) Plotter {
	return plotterFunc(func(p *Plot) { p.color = &m })
}
