// Copyright 2025 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Command cheese plots the yearly change in US cheddar consumption as
// a waterfall chart.
//
// Each year is a bar from the previous year's consumption to this
// year's, green for a rise and red for a fall. The first year rises
// from zero.
package main

import (
	"context"
	"flag"

	"github.com/aclements/go-gg/table"
	"go.uber.org/zap"
	"gonum.org/v1/plot/text"
	"gonum.org/v1/plot/vg"

	"github.com/tidytuesday/charts/chart"
	"github.com/tidytuesday/charts/internal/cli"
	"github.com/tidytuesday/charts/internal/frame"
)

const dataURL = "https://raw.githubusercontent.com/rfordatascience/tidytuesday/master/data/2019/2019-01-29/clean_cheese.csv"

const annot = `Data from the United States
Department of Agriculture shows
that pounds of cheese consumed
per person has been steadily rising
since the 1970s.

Graphic: Nicola Rennie`

var flagData = flag.String("data", dataURL, "read cheese consumption CSV from `src`")

func main() {
	cli.Main(tool(flagData))
}

func tool(src *string) *cli.Tool {
	theme := chart.DefaultTheme()
	theme.TitleBold = true
	return &cli.Tool{
		Name:  "cheese",
		Out:   "2024/viz/05_diverging.png",
		Size:  chart.Size{Width: 6 * vg.Inch, Height: 4 * vg.Inch, DPI: 300},
		Theme: theme,
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
	}
}

// prepare computes one waterfall step per year: the bar spans
// [xmin, xmax] horizontally and [start, Cheddar] vertically, and fill
// records whether consumption rose.
func prepare(g table.Grouping) (table.Grouping, error) {
	g, err := frame.Select(g, "Year", "Cheddar")
	if err != nil {
		return nil, err
	}
	if g, err = frame.Float(g, "Year", "Cheddar"); err != nil {
		return nil, err
	}
	if g, err = frame.Diff(g, "Cheddar", "diff"); err != nil {
		return nil, err
	}
	return frame.Derive(g, func(year, cheddar, diff, xmin, xmax, start []float64, fill []bool) {
		for i := range year {
			xmin[i], xmax[i] = year[i]-0.45, year[i]+0.45
			start[i] = cheddar[i] - diff[i]
			fill[i] = diff[i] > 0
		}
	}, "Year", "Cheddar", "diff")("xmin", "xmax", "start", "fill")
}

func plot(g table.Grouping) *chart.Plot {
	return chart.New(g).Add(
		chart.Rect{XMin: "xmin", XMax: "xmax", YMin: "start", YMax: "Cheddar", Fill: "fill"},
		chart.Annotate{X: 2002, Y: 4, Text: annot, Size: 8, XAlign: text.XCenter, YAlign: text.YCenter},
		chart.Title("Who ate all the cheese?"),
		chart.Labels("", "Pounds of cheese per person"),
		chart.ScaleFill(chart.Manual{Values: []string{"#CC3F0C", "#09814A"}}),
	)
}
