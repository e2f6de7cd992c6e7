// Copyright 2025 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package chart

import (
	"image"
	"image/color"

	"github.com/aclements/go-gg/table"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/font"
	"gonum.org/v1/plot/text"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
	"gonum.org/v1/plot/vg/vgimg"

	"github.com/tidytuesday/charts/chart/richtext"
	"github.com/tidytuesday/charts/internal/fonts"
	"github.com/tidytuesday/charts/internal/frame"
)

// Size is the physical size and resolution of a figure.
type Size struct {
	Width, Height vg.Length

	// DPI is the number of pixels per inch. Zero means 96.
	DPI int
}

// Pixels returns the figure's width and height in pixels.
func (s Size) Pixels() (w, h int) {
	dpi := s.dpi()
	return int(s.Width.Dots(float64(dpi)) + 0.5), int(s.Height.Dots(float64(dpi)) + 0.5)
}

func (s Size) dpi() int {
	if s.DPI <= 0 {
		return 96
	}
	return s.DPI
}

// A Figure is a rendered plot on a raster canvas.
type Figure struct {
	Size Size

	canvas *vgimg.Canvas
	style  *style
}

func newFigure(sz Size, st *style) *Figure {
	sz.DPI = sz.dpi()
	c := vgimg.NewWith(
		vgimg.UseWH(sz.Width, sz.Height),
		vgimg.UseDPI(sz.DPI),
		vgimg.UseBackgroundColor(st.background),
	)
	return &Figure{Size: sz, canvas: c, style: st}
}

// Image returns the figure's pixels.
func (f *Figure) Image() image.Image {
	return f.canvas.Image()
}

// TextOptions control how Figure.Text draws.
type TextOptions struct {
	// Size is the text size in points. Zero means the theme size.
	Size float64

	// Font is a typeface name. Empty means the theme font.
	Font string

	Bold  bool
	Color string

	// XAlign and YAlign place the text relative to its position.
	// The zero values put the position at the bottom left.
	XAlign text.XAlignment
	YAlign text.YAlignment

	// LineSpacing is the baseline distance as a multiple of Size.
	// Zero means 1.2.
	LineSpacing float64

	// Wrap is the maximum line width as a fraction of the figure
	// width. Zero means lines are not wrapped.
	Wrap float64
}

// Text draws rich text markup at (x, y), given as fractions of the
// figure's width and height from the bottom left.
func (f *Figure) Text(x, y float64, markup string, o TextOptions) error {
	b, err := f.style.block(markup, o, vg.Length(o.Wrap)*f.Size.Width)
	if err != nil {
		return err
	}
	pt := vg.Point{X: vg.Length(x) * f.Size.Width, Y: vg.Length(y) * f.Size.Height}
	b.Draw(f.canvas, pt, o.XAlign, o.YAlign)
	return nil
}

func (s *style) block(markup string, o TextOptions, wrap vg.Length) (*richtext.Block, error) {
	ts := s.textStyle(o.Size)
	if o.Font != "" {
		f := fonts.Resolve(font.Font{Typeface: font.Typeface(o.Font)})
		f.Size = ts.Font.Size
		ts.Font = f
	}
	if o.Color != "" {
		c, err := richtext.ParseColor(o.Color)
		if err != nil {
			return nil, err
		}
		ts.Color = c
	}
	ts.LineSpacing = o.LineSpacing
	return layout(markup, ts, o.Bold, wrap)
}

func layout(markup string, ts richtext.Style, bold bool, wrap vg.Length) (*richtext.Block, error) {
	lines, err := richtext.Parse(markup)
	if err != nil {
		return nil, err
	}
	if bold {
		for _, l := range lines {
			for i := range l {
				l[i].Bold = true
			}
		}
	}
	return richtext.Layout(lines, ts, wrap), nil
}

// renderer holds the trained scales of a plot being drawn.
type renderer struct {
	t           *table.Table
	st          *style
	flip        bool
	x, y        *axis
	fill, color *colorScale
}

func (r *renderer) xpos(col string) []float64 {
	return r.x.positions(r.t.Column(col))
}

func (r *renderer) ypos(col string) []float64 {
	return r.y.positions(r.t.Column(col))
}

func (r *renderer) fills(col string) []color.Color {
	if col == "" || r.fill == nil {
		return nil
	}
	return r.fill.of(r.t.Column(col))
}

func (r *renderer) colors(col string) []color.Color {
	if col == "" || r.color == nil {
		return nil
	}
	return r.color.of(r.t.Column(col))
}

func (r *renderer) coord(c *draw.Canvas, p *plot.Plot) coord {
	x, y := p.Transforms(c)
	return coord{trX: x, trY: y, flip: r.flip}
}

// train checks the columns every layer uses and builds the plot's
// scales.
func (p *Plot) train(st *style) (*renderer, error) {
	r := &renderer{t: table.Flatten(p.data), st: st, flip: p.flip}

	var x, y, fill, clr []string
	var xc, yc []float64
	for _, l := range p.layers {
		a := l.columns()
		for _, cols := range [][]string{a.x, a.y, a.fill, a.color, a.other} {
			if err := frame.Require("render", p.data, cols...); err != nil {
				return nil, err
			}
		}
		x, y = append(x, a.x...), append(y, a.y...)
		fill, clr = append(fill, a.fill...), append(clr, a.color...)
		cx, cy := l.consts()
		xc, yc = append(xc, cx...), append(yc, cy...)
	}

	// Axis text settings belong to the screen axes.
	showX, showY := st.textX, st.textY
	if p.flip {
		showX, showY = showY, showX
	}
	var err error
	if r.x, err = trainAxis("x", r.t, x, xc, p.x, showX); err != nil {
		return nil, err
	}
	if r.y, err = trainAxis("y", r.t, y, yc, p.y, showY); err != nil {
		return nil, err
	}
	if len(fill) > 0 {
		if r.fill, err = trainColor("fill", r.t, fill, p.fill); err != nil {
			return nil, err
		}
	}
	if len(clr) > 0 {
		if r.color, err = trainColor("color", r.t, clr, p.color); err != nil {
			return nil, err
		}
	}
	return r, nil
}

// Render draws p on a new figure of size sz.
func (p *Plot) Render(sz Size) (*Figure, error) {
	st, err := p.theme.resolve()
	if err != nil {
		return nil, err
	}
	r, err := p.train(st)
	if err != nil {
		return nil, err
	}

	pl := plot.New()
	pl.BackgroundColor = color.Transparent
	h, v := r.x, r.y
	hlab, vlab := p.xlab, p.ylab
	if p.flip {
		h, v = v, h
		hlab, vlab = vlab, hlab
	}
	h.configure(&pl.X, hlab, st)
	v.configure(&pl.Y, vlab, st)

	pl.Add(panel{st})
	pl.Add(grid{st: st, h: h, v: v})
	for _, l := range p.layers {
		lp, err := l.plotter(r)
		if err != nil {
			return nil, err
		}
		pl.Add(lp)
	}

	fig := newFigure(sz, st)
	dc := draw.New(fig.canvas)
	m := st.margin
	W, H := sz.Width, sz.Height
	area := draw.Crop(dc, vg.Length(m.Left)*W, -vg.Length(m.Right)*W, vg.Length(m.Bottom)*H, -vg.Length(m.Top)*H)
	if p.title != "" {
		ts := richtext.Style{Font: st.titleFont, Color: st.text}
		ts.Font.Size = st.titleSize
		b, err := layout(p.title, ts, false, 0)
		if err != nil {
			return nil, err
		}
		b.Draw(area, vg.Point{X: area.Min.X, Y: area.Max.Y}, text.XLeft, text.YTop)
		_, th := b.Size()
		area.Max.Y -= th + st.titleSize*0.5
	}
	pl.Draw(area)
	return fig, nil
}

// configure sets up a gonum axis to show a.
func (a *axis) configure(pa *plot.Axis, label string, st *style) {
	pa.Min, pa.Max = a.min, a.max
	if a.reverse {
		pa.Scale = plot.InvertedScale{Normalizer: plot.LinearScale{}}
	}
	pa.Padding = 0
	pa.Tick.Marker = plot.ConstantTicks(a.ticks)

	pa.Label.Text = label
	pa.Label.TextStyle.Color = st.text
	pa.Label.TextStyle.Font = st.font
	pa.Label.TextStyle.Font.Size = st.size
	pa.Tick.Label.Color = st.text
	pa.Tick.Label.Font = st.font
	pa.Tick.Label.Font.Size = st.size * 0.8

	line := draw.LineStyle{Color: st.text, Width: vg.Points(0.5)}
	none := draw.LineStyle{Color: color.Transparent}
	pa.LineStyle = none
	if st.axisLine {
		pa.LineStyle = line
	}
	pa.Tick.LineStyle = none
	pa.Tick.Length = 0
	if st.ticks {
		pa.Tick.LineStyle = line
		pa.Tick.Length = vg.Points(2.75)
	}
}

// panel fills the data area with the panel color.
type panel struct {
	st *style
}

func (pn panel) Plot(c draw.Canvas, _ *plot.Plot) {
	c.FillPolygon(pn.st.panel, []vg.Point{
		c.Min,
		{X: c.Max.X, Y: c.Min.Y},
		c.Max,
		{X: c.Min.X, Y: c.Max.Y},
	})
}

// grid draws major grid lines at the breaks of the horizontal axis h
// and vertical axis v.
type grid struct {
	st   *style
	h, v *axis
}

func (g grid) Plot(c draw.Canvas, p *plot.Plot) {
	sty := draw.LineStyle{Color: g.st.grid, Width: g.st.gridWidth}
	trX, trY := p.Transforms(&c)
	if g.st.gridX {
		for _, t := range g.h.ticks {
			x := trX(t.Value)
			c.StrokeLines(sty, c.ClipLinesX([]vg.Point{{X: x, Y: c.Min.Y}, {X: x, Y: c.Max.Y}})...)
		}
	}
	if g.st.gridY {
		for _, t := range g.v.ticks {
			y := trY(t.Value)
			c.StrokeLines(sty, c.ClipLinesY([]vg.Point{{X: c.Min.X, Y: y}, {X: c.Max.X, Y: y}})...)
		}
	}
}
