// Copyright 2025 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package richtext

import (
	"image/color"
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"
	"gonum.org/v1/plot/font"
	"gonum.org/v1/plot/font/liberation"
	"gonum.org/v1/plot/text"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/vgimg"
)

var red = color.NRGBA{0xe5, 0x00, 0x00, 0xff}

func TestParse(t *testing.T) {
	for _, test := range []struct {
		markup string
		want   []Line
	}{
		{"plain", []Line{{{Text: "plain"}}}},
		{"", []Line{nil}},
		{"one\ntwo", []Line{{{Text: "one"}}, {{Text: "two"}}}},
		{"one<br>two<br/>three", []Line{{{Text: "one"}}, {{Text: "two"}}, {{Text: "three"}}}},
		{"<b>Data:</b> Federal", []Line{{{Text: "Data:", Bold: true}, {Text: " Federal"}}}},
		{"<strong><em>x</em></strong>y", []Line{{{Text: "x", Bold: true, Italic: true}, {Text: "y"}}}},
		{
			"President <span style='color:#e50000;'>Ronald Reagan</span> nominated",
			[]Line{{{Text: "President "}, {Text: "Ronald Reagan", Color: red}, {Text: " nominated"}}},
		},
		{
			`<span style="font-weight: bold; font-style: italic">a</span>`,
			[]Line{{{Text: "a", Bold: true, Italic: true}}},
		},
		{"a &amp; b", []Line{{{Text: "a & b"}}}},
		{"<u>a</u>b", []Line{{{Text: "ab"}}}},
		{"a</b>b", []Line{{{Text: "ab"}}}},
		{"a<img>b</b>c", []Line{{{Text: "abc"}}}},
		{"<b>a<img src=x>b</b>c", []Line{{{Text: "ab", Bold: true}, {Text: "c"}}}},
		{
			"<b>x<i>y</b>z</i>w",
			[]Line{{{Text: "x", Bold: true}, {Text: "yz", Bold: true, Italic: true}, {Text: "w", Bold: true}}},
		},
	} {
		got, err := Parse(test.markup)
		if err != nil {
			t.Errorf("Parse(%q): %v", test.markup, err)
			continue
		}
		if !cmp.Equal(test.want, got) {
			t.Errorf("Parse(%q): %s", test.markup, cmp.Diff(test.want, got))
		}
	}
}

func TestParseBadColor(t *testing.T) {
	if _, err := Parse(`<span style="color: #zz">x</span>`); err == nil {
		t.Errorf("want error for bad color")
	}
}

func TestParseColor(t *testing.T) {
	for _, test := range []struct {
		in   string
		want color.Color
	}{
		{"#CC3F0C", color.NRGBA{0xcc, 0x3f, 0x0c, 0xff}},
		{"#09814a", color.NRGBA{0x09, 0x81, 0x4a, 0xff}},
		{"#fff", color.NRGBA{0xff, 0xff, 0xff, 0xff}},
		{" white ", color.White},
		{"none", color.Transparent},
	} {
		got, err := ParseColor(test.in)
		if err != nil {
			t.Errorf("ParseColor(%q): %v", test.in, err)
			continue
		}
		if got != test.want {
			t.Errorf("ParseColor(%q) = %v; want %v", test.in, got, test.want)
		}
	}
	for _, bad := range []string{"", "#12", "CC3F0C", "chartreuse"} {
		if _, err := ParseColor(bad); err == nil {
			t.Errorf("ParseColor(%q) should fail", bad)
		}
	}
}

func testStyle() Style {
	return Style{
		Font:  font.Font{Typeface: "Liberation", Variant: "Sans", Size: vg.Points(12)},
		Color: color.Black,
		Cache: font.NewCache(liberation.Collection()),
	}
}

func texts(ls []Line) []string {
	var out []string
	for _, l := range ls {
		out = append(out, l.Text())
	}
	return out
}

func TestLayoutWrap(t *testing.T) {
	lines, err := Parse("Judges are nominated by <b>the President</b> and confirmed by the Senate.")
	if err != nil {
		t.Fatal(err)
	}
	s := testStyle()

	b := Layout(lines, s, 0)
	if len(b.Lines) != 1 {
		t.Fatalf("unwrapped layout should have 1 line; got %d", len(b.Lines))
	}
	full, _ := b.Size()

	b = Layout(lines, s, full/2)
	if len(b.Lines) < 2 {
		t.Fatalf("wrapped layout should have several lines; got %q", texts(b.Lines))
	}
	for _, l := range b.Lines {
		// Allow for kerning across word boundaries.
		if w := b.width(l); w > full/2+1 {
			t.Errorf("line %q is %v wide; want <= %v", l.Text(), w, full/2)
		}
	}
	// Wrapping only moves words between lines.
	var words []string
	for _, l := range b.Lines {
		words = append(words, splitWords(l.Text())...)
	}
	if want := splitWords(lines[0].Text()); !cmp.Equal(want, words) {
		t.Errorf("wrapped words: %s", cmp.Diff(want, words))
	}

	// A word wider than the limit gets its own line.
	b = Layout([]Line{{{Text: "a supercalifragilistic b"}}}, s, vg.Points(20))
	if want := []string{"a", "supercalifragilistic", "b"}; !cmp.Equal(want, texts(b.Lines)) {
		t.Errorf("narrow wrap: %s", cmp.Diff(want, texts(b.Lines)))
	}
}

func splitWords(s string) []string {
	var out []string
	start := -1
	for i, r := range s + " " {
		if r == ' ' {
			if start >= 0 {
				out = append(out, s[start:i])
			}
			start = -1
		} else if start < 0 {
			start = i
		}
	}
	return out
}

func TestSize(t *testing.T) {
	s := testStyle()
	one := Layout([]Line{{{Text: "x"}}}, s, 0)
	two := Layout([]Line{{{Text: "x"}}, {{Text: "x"}}}, s, 0)
	_, h1 := one.Size()
	_, h2 := two.Size()
	if got, want := h2-h1, s.Font.Size*1.2; math.Abs(float64(got-want)) > 1e-9 {
		t.Errorf("second line adds %v; want %v", got, want)
	}

	plain := Layout([]Line{{{Text: "Reagan"}}}, s, 0)
	bold := Layout([]Line{{{Text: "Reagan", Bold: true}}}, s, 0)
	pw, _ := plain.Size()
	bw, _ := bold.Size()
	if bw <= pw {
		t.Errorf("bold width %v should exceed regular width %v", bw, pw)
	}
}

func TestDraw(t *testing.T) {
	s := testStyle()
	b := Layout([]Line{{{Text: "Who ate all the "}, {Text: "cheese", Color: red}}}, s, 0)
	c := vgimg.NewWith(vgimg.UseWH(3*vg.Inch, vg.Inch), vgimg.UseDPI(72))
	b.Draw(c, vg.Point{X: 4, Y: vg.Inch / 2}, text.XLeft, text.YCenter)

	img := c.Image()
	var sawRed, sawBlack bool
	bounds := img.Bounds()
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			r, g, b, _ := img.At(x, y).RGBA()
			switch {
			case r > 0xc000 && g < 0x4000 && b < 0x4000:
				sawRed = true
			case r < 0x4000 && g < 0x4000 && b < 0x4000:
				sawBlack = true
			}
		}
	}
	if !sawRed || !sawBlack {
		t.Errorf("want red and black text pixels; red=%v black=%v", sawRed, sawBlack)
	}
}
