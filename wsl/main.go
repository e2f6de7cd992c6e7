// Copyright 2025 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Command wsl draws a bump chart of the final league positions of FA
// Women's Super League teams over four seasons, highlighting Chelsea.
package main

import (
	"context"
	"flag"
	"sort"

	"github.com/aclements/go-gg/table"
	"go.uber.org/zap"
	"gonum.org/v1/plot/text"
	"gonum.org/v1/plot/vg"

	"github.com/tidytuesday/charts/chart"
	"github.com/tidytuesday/charts/internal/cli"
	"github.com/tidytuesday/charts/internal/frame"
)

const dataURL = "https://raw.githubusercontent.com/rfordatascience/tidytuesday/master/data/2024/2024-07-16/ewf_standings.csv"

const (
	division  = "FA Women's Super League (WSL)"
	highlight = "Chelsea Women"

	bodyFont  = "Gadugi"
	bgColor   = "#A9A9A9"
	textColor = "#333333"
	teamColor = "#656565"
	chelsea   = "#001489"
)

var seasons = []string{"2018-2019", "2019-2020", "2020-2021", "2021-2022"}

const title = "FA Women's Super League"

const subtitle = `The Women's Super League is the highest league of women's football in England. The 2018-2019 season was the first
after a rebranding of the four highest levels in English women's football, where eleven teams competed. <span style="color:#001489">Chelsea Women</span>
have won every FA Women's Super League since 2019-2020.
<b>Data</b>: English Women's Football (EWF) Database | <b>Graphic</b>: Nicola Rennie (@nrennie)`

var flagData = flag.String("data", dataURL, "read league standings CSV from `src`")

func main() {
	cli.Main(tool(flagData))
}

func tool(src *string) *cli.Tool {
	return &cli.Tool{
		Name:  "wsl",
		Out:   "2024/2024-07-16/20240716.png",
		Size:  chart.Size{Width: 8.5 * vg.Inch, Height: 6 * vg.Inch, DPI: 300},
		Tight: true,
		Theme: theme(),
		Build: func(ctx context.Context, log *zap.Logger) (*chart.Plot, error) {
			cli.Font(ctx, log, bodyFont)
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

func theme() chart.Theme {
	th := chart.VoidTheme()
	th.Background = bgColor
	th.Panel = bgColor
	th.Text = textColor
	th.Font = bodyFont
	th.Size = 9
	th.AxisTextX = true
	th.AxisTextY = true
	return th
}

// prepare keeps the top division's standings for the plotted seasons.
func prepare(g table.Grouping) (table.Grouping, error) {
	g, err := frame.FilterIn(g, "division", division)
	if err != nil {
		return nil, err
	}
	if g, err = frame.FilterIn(g, "season", seasons...); err != nil {
		return nil, err
	}
	return frame.Select(g, "team_name", "season", "position")
}

// palette returns the line colors for the sorted team names in g:
// grey for every team but the highlighted one.
func palette(g table.Grouping) []string {
	seen := make(map[string]bool)
	var teams []string
	for _, gid := range g.Tables() {
		for _, team := range g.Table(gid).MustColumn("team_name").([]string) {
			if !seen[team] {
				seen[team] = true
				teams = append(teams, team)
			}
		}
	}
	sort.Strings(teams)
	colors := make([]string, len(teams))
	for i, team := range teams {
		colors[i] = teamColor
		if team == highlight {
			colors[i] = chelsea
		}
	}
	return colors
}

func plot(g table.Grouping) *chart.Plot {
	breaks := make([]float64, 12)
	for i := range breaks {
		breaks[i] = float64(12 - i)
	}
	return chart.New(g).Add(
		chart.Line{X: "season", Y: "position", Color: "team_name", Group: "team_name"},
		chart.Label{X: "season", Y: "position", Text: "team_name", Color: "team_name", Size: 6.5, Padding: 0.3},
		chart.ScaleY(&chart.Continuous{Limits: []float64{-2.5, 12}, Breaks: breaks, Reverse: true}),
		chart.ScaleX(&chart.Discrete{Expand: &chart.Expansion{Add: 0.5}}),
		chart.ScaleColor(chart.Manual{Values: palette(g)}),
		chart.Labels("", ""),
		chart.Annotate{
			X: 0.5, Y: -2.5, Text: title,
			Size: 14, Font: bodyFont, Bold: true, Color: textColor,
			XAlign: text.XLeft, YAlign: text.YTop,
		},
		chart.Annotate{
			X: 0.5, Y: -1.8, Text: subtitle,
			Size: 8.5, Font: bodyFont, Color: textColor,
			XAlign: text.XLeft, YAlign: text.YTop, LineSpacing: 1.5,
		},
	)
}
