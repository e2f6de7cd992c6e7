// Copyright 2025 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package chart

import (
	"fmt"
	"image/color"
	"io"
	"os"

	xfont "golang.org/x/image/font"
	"gonum.org/v1/plot/font"
	"gonum.org/v1/plot/vg"
	"gopkg.in/yaml.v3"

	"github.com/tidytuesday/charts/chart/richtext"
	"github.com/tidytuesday/charts/internal/fonts"
)

// Margin gives the space around a plot as fractions of the figure's
// width (Left, Right) and height (Top, Bottom).
type Margin struct {
	Top    float64 `yaml:"top"`
	Right  float64 `yaml:"right"`
	Bottom float64 `yaml:"bottom"`
	Left   float64 `yaml:"left"`
}

// A Theme controls the non-data appearance of a plot. Colors are hex
// strings or simple color names. Sizes are in points.
type Theme struct {
	Background string `yaml:"background"`
	Panel      string `yaml:"panel"`
	Text       string `yaml:"text"`

	// Font and TitleFont are typeface names. A typeface that is
	// not registered falls back to Liberation Sans.
	Font      string  `yaml:"font"`
	TitleFont string  `yaml:"title_font"`
	Size      float64 `yaml:"size"`
	TitleSize float64 `yaml:"title_size"`
	TitleBold bool    `yaml:"title_bold"`

	AxisLine  bool `yaml:"axis_line"`
	Ticks     bool `yaml:"ticks"`
	AxisTextX bool `yaml:"axis_text_x"`
	AxisTextY bool `yaml:"axis_text_y"`

	// GridX and GridY draw major grid lines at the breaks of the
	// horizontal and vertical screen axes.
	GridX     bool    `yaml:"grid_x"`
	GridY     bool    `yaml:"grid_y"`
	GridColor string  `yaml:"grid_color"`
	GridWidth float64 `yaml:"grid_width"`

	Margin Margin `yaml:"margin"`
}

// DefaultTheme is a black-and-white theme with a boxed panel and
// light grid lines.
func DefaultTheme() Theme {
	return Theme{
		Background: "white",
		Panel:      "white",
		Text:       "black",
		Size:       11,
		TitleSize:  13.2,
		AxisLine:   true,
		Ticks:      true,
		AxisTextX:  true,
		AxisTextY:  true,
		GridX:      true,
		GridY:      true,
		GridColor:  "#ebebeb",
		GridWidth:  0.5,
		Margin:     Margin{Top: 0.03, Right: 0.03, Bottom: 0.03, Left: 0.03},
	}
}

// VoidTheme draws only the data.
func VoidTheme() Theme {
	return Theme{
		Background: "white",
		Panel:      "none",
		Text:       "black",
		Size:       11,
		TitleSize:  13.2,
		GridColor:  "none",
		Margin:     Margin{Top: 0.03, Right: 0.03, Bottom: 0.03, Left: 0.03},
	}
}

// LoadTheme reads a YAML theme from r. Fields that r does not set
// keep their values from base. Unknown fields are an error.
func LoadTheme(r io.Reader, base Theme) (Theme, error) {
	t := base
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&t); err != nil && err != io.EOF {
		return base, fmt.Errorf("theme: %w", err)
	}
	if _, err := t.resolve(); err != nil {
		return base, err
	}
	return t, nil
}

// LoadThemeFile is like LoadTheme, but reads the file at path.
func LoadThemeFile(path string, base Theme) (Theme, error) {
	f, err := os.Open(path)
	if err != nil {
		return base, err
	}
	defer f.Close()
	t, err := LoadTheme(f, base)
	if err != nil {
		return base, fmt.Errorf("%s: %w", path, err)
	}
	return t, nil
}

// style is a Theme with colors parsed and fonts resolved.
type style struct {
	background, panel, text, grid color.Color

	font, titleFont font.Font
	size, titleSize vg.Length
	gridWidth       vg.Length

	axisLine, ticks bool
	textX, textY    bool
	gridX, gridY    bool
	margin          Margin
}

func (t Theme) resolve() (*style, error) {
	s := &style{
		size:      vg.Points(t.Size),
		titleSize: vg.Points(t.TitleSize),
		gridWidth: vg.Points(t.GridWidth),
		axisLine:  t.AxisLine,
		ticks:     t.Ticks,
		textX:     t.AxisTextX,
		textY:     t.AxisTextY,
		gridX:     t.GridX,
		gridY:     t.GridY,
		margin:    t.Margin,
	}
	for _, c := range []struct {
		name string
		val  string
		dst  *color.Color
		def  color.Color
	}{
		{"background", t.Background, &s.background, color.White},
		{"panel", t.Panel, &s.panel, color.Transparent},
		{"text", t.Text, &s.text, color.Black},
		{"grid_color", t.GridColor, &s.grid, color.Transparent},
	} {
		if c.val == "" {
			*c.dst = c.def
			continue
		}
		clr, err := richtext.ParseColor(c.val)
		if err != nil {
			return nil, fmt.Errorf("theme %s: %w", c.name, err)
		}
		*c.dst = clr
	}
	if s.size <= 0 {
		s.size = vg.Points(11)
	}
	if s.titleSize <= 0 {
		s.titleSize = s.size * 1.2
	}
	s.font = fonts.Resolve(font.Font{Typeface: font.Typeface(t.Font)})
	title := t.TitleFont
	if title == "" {
		title = t.Font
	}
	s.titleFont = fonts.Resolve(font.Font{Typeface: font.Typeface(title)})
	if t.TitleBold {
		s.titleFont.Weight = xfont.WeightBold
	}
	return s, nil
}

// textStyle returns the base rich text style at size points, or the
// theme size if size is 0.
func (s *style) textStyle(size float64) richtext.Style {
	f := s.font
	f.Size = s.size
	if size > 0 {
		f.Size = vg.Points(size)
	}
	return richtext.Style{Font: f, Color: s.text}
}
