// Copyright 2025 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package richtext parses and lays out a small HTML subset for chart
// titles and annotations.
//
// The supported markup is
//
//	<b>, <strong>   bold
//	<i>, <em>       italic
//	<br>            line break
//	<span style="color: #rrggbb; font-weight: bold; font-style: italic">
//
// Literal newlines also break lines. Character references such as
// &amp; are decoded. Other tags are accepted and ignored, so their
// contents are rendered in the enclosing style.
package richtext

import (
	"fmt"
	"image/color"
	"io"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
	"golang.org/x/net/html"
)

// A Span is a run of text in a single style.
type Span struct {
	Text   string
	Bold   bool
	Italic bool

	// Color overrides the block color if non-nil.
	Color color.Color
}

// A Line is a sequence of spans drawn left to right.
type Line []Span

// Text returns the plain text of l.
func (l Line) Text() string {
	var b strings.Builder
	for _, s := range l {
		b.WriteString(s.Text)
	}
	return b.String()
}

type style struct {
	tag          string
	bold, italic bool
	color        color.Color
}

// void lists the elements that never have an end tag.
var void = map[string]bool{
	"area": true, "base": true, "br": true, "col": true, "embed": true,
	"hr": true, "img": true, "input": true, "link": true, "meta": true,
	"source": true, "track": true, "wbr": true,
}

// Parse splits markup into lines of styled spans. Adjacent text in
// the same style is merged into one span.
func Parse(markup string) ([]Line, error) {
	var (
		lines = []Line{nil}
		stack = []style{{}}
	)
	emit := func(text string) {
		cur := stack[len(stack)-1]
		for i, part := range strings.Split(text, "\n") {
			if i > 0 {
				lines = append(lines, nil)
			}
			if part == "" {
				continue
			}
			l := &lines[len(lines)-1]
			if n := len(*l); n > 0 {
				last := &(*l)[n-1]
				if last.Bold == cur.bold && last.Italic == cur.italic && last.Color == cur.color {
					last.Text += part
					continue
				}
			}
			*l = append(*l, Span{part, cur.bold, cur.italic, cur.color})
		}
	}

	z := html.NewTokenizer(strings.NewReader(markup))
	for {
		switch z.Next() {
		case html.ErrorToken:
			if err := z.Err(); err != io.EOF {
				return nil, err
			}
			return lines, nil

		case html.TextToken:
			emit(string(z.Text()))

		case html.StartTagToken, html.SelfClosingTagToken:
			tok := z.Token()
			if tok.Data == "br" {
				lines = append(lines, nil)
				continue
			}
			st, err := applyTag(stack[len(stack)-1], tok)
			if err != nil {
				return nil, err
			}
			if tok.Type == html.StartTagToken && !void[tok.Data] {
				st.tag = tok.Data
				stack = append(stack, st)
			}

		case html.EndTagToken:
			// Stray end tags are ignored.
			if n := len(stack); n > 1 && stack[n-1].tag == z.Token().Data {
				stack = stack[:n-1]
			}
		}
	}
}

func applyTag(st style, tok html.Token) (style, error) {
	switch tok.Data {
	case "b", "strong":
		st.bold = true
	case "i", "em":
		st.italic = true
	case "span":
		for _, a := range tok.Attr {
			if a.Key != "style" {
				continue
			}
			var err error
			if st, err = applyCSS(st, a.Val); err != nil {
				return st, err
			}
		}
	}
	return st, nil
}

// applyCSS applies the declarations of an inline style attribute.
// Unknown properties are ignored.
func applyCSS(st style, css string) (style, error) {
	for _, decl := range strings.Split(css, ";") {
		prop, val, ok := strings.Cut(decl, ":")
		if !ok {
			continue
		}
		prop = strings.ToLower(strings.TrimSpace(prop))
		val = strings.ToLower(strings.TrimSpace(val))
		switch prop {
		case "color":
			c, err := ParseColor(val)
			if err != nil {
				return st, err
			}
			st.color = c
		case "font-weight":
			switch val {
			case "bold", "bolder", "600", "700", "800", "900":
				st.bold = true
			default:
				st.bold = false
			}
		case "font-style":
			st.italic = val == "italic" || val == "oblique"
		}
	}
	return st, nil
}

var named = map[string]color.Color{
	"black":       color.Black,
	"white":       color.White,
	"transparent": color.Transparent,
	"none":        color.Transparent,
	"red":         color.NRGBA{0xff, 0x00, 0x00, 0xff},
	"blue":        color.NRGBA{0x00, 0x00, 0xff, 0xff},
	"grey":        color.NRGBA{0xbe, 0xbe, 0xbe, 0xff},
	"gray":        color.NRGBA{0xbe, 0xbe, 0xbe, 0xff},
}

// ParseColor parses a "#rgb" or "#rrggbb" hex color or one of a few
// color names ("black", "white", "none" and so on).
func ParseColor(s string) (color.Color, error) {
	s = strings.TrimSpace(s)
	if c, ok := named[strings.ToLower(s)]; ok {
		return c, nil
	}
	c, err := colorful.Hex(strings.ToLower(s))
	if err != nil {
		return nil, fmt.Errorf("bad color %q", s)
	}
	r, g, b := c.RGB255()
	return color.NRGBA{r, g, b, 0xff}, nil
}
