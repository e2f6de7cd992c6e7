// Copyright 2025 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Command judges charts the number of federal judges each president
// nominated as a bar spanning their time in office.
//
// The layout is specified in pixels of an 800x650 canvas drawn at 100
// pixels per inch.
package main

import (
	"context"
	"flag"
	"fmt"

	"github.com/aclements/go-gg/table"
	"go.uber.org/zap"
	"gonum.org/v1/plot/text"
	"gonum.org/v1/plot/vg"

	"github.com/tidytuesday/charts/chart"
	"github.com/tidytuesday/charts/internal/cli"
	"github.com/tidytuesday/charts/internal/frame"
)

const (
	width, height = 800, 650
	pxPerInch     = 100

	marginTop    = 180
	marginRight  = 20
	marginBottom = 70
	marginLeft   = 45

	textWidth = 750
)

const dateFormat = "02 Jan, 2006"

var (
	parties     = []string{"Democratic", "Republican"}
	partyColors = []string{"#0000ff", "#e50000"}
)

const title = `President <span style='color:#e50000;'>Ronald Reagan</span> nominated the most judges.`

const subtitle = "Data includes judges who were presidentially appointed during good behavior who have served since 1789 on the U.S. District Courts, the U.S. Courts of Appeals, the Supreme Court of the United States, the former U.S. Circuit Courts, and the federal judiciary's courts of special jurisdiction; though only data from Truman onwards is shown here."

const caption = "<b>Data:</b> Federal Judicial Center | <b>Graphic</b>: Nicola Rennie (nrennie)"

var flagData = flag.String("data", "2025/2025-06-10/data.csv", "read nominations per president CSV from `src`")

func main() {
	cli.Main(tool(flagData))
}

func tool(src *string) *cli.Tool {
	return &cli.Tool{
		Name:  "judges",
		Out:   "2025/2025-06-10/20250610.png",
		Size:  chart.Size{Width: width * vg.Inch / pxPerInch, Height: height * vg.Inch / pxPerInch, DPI: 300},
		Theme: theme(),
		Build: func(ctx context.Context, log *zap.Logger) (*chart.Plot, error) {
			t, err := cli.Load(ctx, log, *src)
			if err != nil {
				return nil, err
			}
			g, err := prepare(t)
			if err != nil {
				return nil, err
			}
			return plot(g), nil
		},
		Decorate: decorate,
	}
}

// pt converts canvas pixels to points.
func pt(px float64) float64 {
	return px * 72 / pxPerInch
}

func theme() chart.Theme {
	th := chart.DefaultTheme()
	th.Panel = "none"
	th.Size = pt(10)
	th.GridX = false
	th.GridY = false
	th.Margin = chart.Margin{
		Top:    marginTop / float64(height),
		Right:  marginRight / float64(width),
		Bottom: marginBottom / float64(height),
		Left:   marginLeft / float64(width),
	}
	return th
}

// prepare parses the term dates and adds the bar base and the hover
// text for each president.
func prepare(g table.Grouping) (table.Grouping, error) {
	g, err := frame.ParseDates(g, "start")
	if err != nil {
		return nil, err
	}
	if g, err = frame.ParseDates(g, "end"); err != nil {
		return nil, err
	}
	if g, err = frame.Float(g, "n"); err != nil {
		return nil, err
	}
	return frame.Derive(g, func(name []string, start, end frame.Times, n []float64, base []float64, tooltip []string) {
		for i := range name {
			tooltip[i] = fmt.Sprintf("<b>%s</b><br>%s - %s<br>Nominations: %g",
				name[i], start[i].Format(dateFormat), end[i].Format(dateFormat), n[i])
		}
	}, "name", "start", "end", "n")("base", "tooltip")
}

func plot(g table.Grouping) *chart.Plot {
	return chart.New(g).Add(
		chart.Rect{
			XMin: "start", XMax: "end", YMin: "base", YMax: "n",
			Fill: "party", Alpha: 0.6, Outline: true, Tooltip: "tooltip",
		},
		chart.ScaleX(&chart.Continuous{Expand: &chart.Expansion{}}),
		chart.ScaleY(&chart.Continuous{Include: []float64{0}, Nice: true, Expand: &chart.Expansion{}}),
		chart.ScaleFill(chart.Manual{Values: partyColors, Limits: parties}),
		chart.Labels("", ""),
	)
}

func decorate(fig *chart.Figure) error {
	// Text blocks hang from their top edge, given in pixels from the
	// top of the canvas.
	x := marginLeft / float64(width)
	y := func(px float64) float64 { return 1 - px/height }
	wrap := textWidth / float64(width)

	texts := []struct {
		top    float64
		markup string
		opts   chart.TextOptions
	}{
		{10, title, chart.TextOptions{Size: pt(24), Bold: true, LineSpacing: 1.4}},
		{40, subtitle, chart.TextOptions{Size: pt(20), LineSpacing: 1.3}},
		{height - 40, caption, chart.TextOptions{Size: pt(18), LineSpacing: 1.4}},
	}
	for _, t := range texts {
		t.opts.YAlign = text.YTop
		t.opts.Wrap = wrap
		if err := fig.Text(x, y(t.top), t.markup, t.opts); err != nil {
			return err
		}
	}
	return nil
}
