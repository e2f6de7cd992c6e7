// Copyright 2025 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package richtext

import (
	"image/color"
	"strings"
	"unicode"

	xfont "golang.org/x/image/font"
	"gonum.org/v1/plot/font"
	"gonum.org/v1/plot/text"
	"gonum.org/v1/plot/vg"
)

// Style is the base style of a block of rich text. Spans may make it
// bold, italic or recolor it, but the typeface and size are shared by
// the whole block.
type Style struct {
	// Font is the regular face of the block. Its typeface must be
	// in Cache.
	Font font.Font

	Color color.Color

	// LineSpacing is the distance between baselines as a multiple
	// of the font size. Zero means 1.2.
	LineSpacing float64

	// Cache holds the block's faces. If nil, font.DefaultCache is
	// used.
	Cache *font.Cache
}

func (s Style) cache() *font.Cache {
	if s.Cache == nil {
		return font.DefaultCache
	}
	return s.Cache
}

func (s Style) face(sp Span) font.Face {
	f := s.Font
	if sp.Bold {
		f.Weight = xfont.WeightBold
	}
	if sp.Italic {
		f.Style = xfont.StyleItalic
	}
	return s.cache().Lookup(f, s.Font.Size)
}

func (s Style) lineHeight() vg.Length {
	ls := s.LineSpacing
	if ls == 0 {
		ls = 1.2
	}
	return s.Font.Size * vg.Length(ls)
}

// A Block is rich text laid out for drawing.
type Block struct {
	Style Style
	Lines []Line
}

// Layout lays out lines in style s. If wrap is positive, lines wider
// than wrap are broken between words. A single word wider than wrap
// is left on a line of its own.
func Layout(lines []Line, s Style, wrap vg.Length) *Block {
	b := &Block{Style: s}
	for _, l := range lines {
		if wrap <= 0 {
			b.Lines = append(b.Lines, l)
			continue
		}
		b.Lines = append(b.Lines, b.wrap(l, wrap)...)
	}
	return b
}

// wrap breaks l greedily into lines no wider than width.
func (b *Block) wrap(l Line, width vg.Length) []Line {
	var (
		out  []Line
		cur  Line
		curW vg.Length
	)
	for _, w := range words(l) {
		ww := b.width(w)
		if len(cur) > 0 && curW+ww > width {
			out = append(out, trimRight(cur))
			cur, curW = nil, 0
			w = trimLeft(w)
			ww = b.width(w)
		}
		cur = appendLine(cur, w...)
		curW += ww
	}
	return append(out, trimRight(cur))
}

// words splits l into words, each of which keeps its trailing space
// and may span several styles.
func words(l Line) []Line {
	var (
		out []Line
		cur Line
	)
	for _, sp := range l {
		text := sp.Text
		for text != "" {
			i := strings.IndexFunc(text, unicode.IsSpace)
			if i < 0 {
				cur = appendLine(cur, withText(sp, text))
				break
			}
			j := i + strings.IndexFunc(text[i:], func(r rune) bool { return !unicode.IsSpace(r) })
			if j < i {
				j = len(text)
			}
			cur = appendLine(cur, withText(sp, text[:j]))
			out = append(out, cur)
			cur = nil
			text = text[j:]
		}
	}
	if len(cur) > 0 {
		out = append(out, cur)
	}
	return out
}

func withText(sp Span, text string) Span {
	sp.Text = text
	return sp
}

// appendLine appends spans to l, merging spans of equal style.
func appendLine(l Line, spans ...Span) Line {
	for _, sp := range spans {
		if sp.Text == "" {
			continue
		}
		if n := len(l); n > 0 {
			last := l[n-1]
			if last.Bold == sp.Bold && last.Italic == sp.Italic && last.Color == sp.Color {
				l[n-1].Text += sp.Text
				continue
			}
		}
		l = append(l, sp)
	}
	return l
}

func trimLeft(l Line) Line {
	for len(l) > 0 {
		l[0].Text = strings.TrimLeftFunc(l[0].Text, unicode.IsSpace)
		if l[0].Text != "" {
			break
		}
		l = l[1:]
	}
	return l
}

func trimRight(l Line) Line {
	for len(l) > 0 {
		n := len(l) - 1
		l[n].Text = strings.TrimRightFunc(l[n].Text, unicode.IsSpace)
		if l[n].Text != "" {
			break
		}
		l = l[:n]
	}
	return l
}

func (b *Block) width(l Line) (w vg.Length) {
	for _, sp := range l {
		face := b.Style.face(sp)
		w += face.Width(sp.Text)
	}
	return w
}

// Size returns the width of the widest line and the height from the
// ascent of the first line to the descent of the last.
func (b *Block) Size() (w, h vg.Length) {
	if len(b.Lines) == 0 {
		return 0, 0
	}
	for _, l := range b.Lines {
		if lw := b.width(l); lw > w {
			w = lw
		}
	}
	base := b.Style.cache().Lookup(b.Style.Font, b.Style.Font.Size)
	ext := base.Extents()
	h = ext.Ascent + ext.Descent + vg.Length(len(b.Lines)-1)*b.Style.lineHeight()
	return w, h
}

// Draw draws b on c. pt is the anchor point; xalign and yalign place
// the block relative to it the same way they place plain text.
// Each line is aligned on its own, so centered blocks have centered
// lines.
func (b *Block) Draw(c vg.Canvas, pt vg.Point, xalign text.XAlignment, yalign text.YAlignment) {
	if len(b.Lines) == 0 {
		return
	}
	_, h := b.Size()
	base := b.Style.cache().Lookup(b.Style.Font, b.Style.Font.Size)
	ext := base.Extents()
	top := pt.Y + vg.Length(yalign)*h + h
	for i, l := range b.Lines {
		y := top - ext.Ascent - vg.Length(i)*b.Style.lineHeight()
		x := pt.X + vg.Length(xalign)*b.width(l)
		for _, sp := range l {
			face := b.Style.face(sp)
			clr := sp.Color
			if clr == nil {
				clr = b.Style.Color
			}
			if clr == nil {
				clr = color.Black
			}
			c.SetColor(clr)
			c.FillString(face, vg.Point{X: x, Y: y}, sp.Text)
			x += face.Width(sp.Text)
		}
	}
}
