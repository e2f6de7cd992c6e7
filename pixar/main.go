// Copyright 2025 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Command pixar compares critic scores for Pixar's G-rated films in a
// horizontal grouped bar chart, one group of bars per film in release
// order.
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
	"github.com/tidytuesday/charts/internal/fonts"
	"github.com/tidytuesday/charts/internal/frame"
)

const (
	filmsURL     = "https://raw.githubusercontent.com/rfordatascience/tidytuesday/main/data/2025/2025-03-11/pixar_films.csv"
	responsesURL = "https://raw.githubusercontent.com/rfordatascience/tidytuesday/main/data/2025/2025-03-11/public_response.csv"

	titleFontURL = "https://github.com/google/fonts/blob/main/apache/slackey/Slackey-Regular.ttf?raw=true"
	bodyFontURL  = "https://github.com/google/fonts/blob/main/ofl/notosans/NotoSans%5Bwdth%2Cwght%5D.ttf?raw=true"
)

const (
	titleFont = "Slackey"
	bodyFont  = "Noto Sans"

	bgColor   = "#D6F9FF"
	textColor = "#002329"
)

// Bar colors for the critic sites in sorted order: critics_choice,
// metacritic, rotten_tomatoes.
var colors = []string{"#D1495B", "#EDAE49", "#00798C"}

const title = "Are Pixar films getting better or worse?"

const subtitle = `Pixar released a total of 13 G-rated movies between 1995 and 2019. Ratings from
all three critic sites (<span style="color:#00798C; font-weight:bold">Rotten Tomatoes</span>, <span style="color:#EDAE49; font-weight:bold">Metacritic</span>, and <span style="color:#D1495B; font-weight:bold">Critics Choice</span>) were below
average for <b>Cars 2</b>, before slowly increasing for subsequent films, returning to average
ratings with the release of <b>Toy Story 4</b>. There are no Critics Choice ratings for <b>Toy Story</b>
or <b>A Bug's Life</b>. Both <b>Toy Story</b> and <b>Toy Story 2</b> have the maximum score on Rotten
Tomatoes.`

const caption = "<b>Data</b>: {pixarfilms}\n<b>Graphic</b>: Nicola Rennie (@nrennie)"

var (
	flagFilms     = flag.String("films", filmsURL, "read film list CSV from `src`")
	flagResponses = flag.String("responses", responsesURL, "read critic response CSV from `src`")
)

func main() {
	cli.Main(tool(flagFilms, flagResponses))
}

func tool(films, responses *string) *cli.Tool {
	return &cli.Tool{
		Name:  "pixar",
		Out:   "2025/2025-03-11/20250311.png",
		Size:  chart.Size{Width: 8 * vg.Inch, Height: 8 * vg.Inch, DPI: 300},
		Tight: true,
		Theme: theme(),
		Build: func(ctx context.Context, log *zap.Logger) (*chart.Plot, error) {
			ft, err := cli.Load(ctx, log, *films)
			if err != nil {
				return nil, err
			}
			rt, err := cli.Load(ctx, log, *responses)
			if err != nil {
				return nil, err
			}
			g, err := prepare(ft, rt)
			if err != nil {
				return nil, err
			}
			cli.Font(ctx, log, titleFont, fonts.Face{Src: titleFontURL})
			cli.Font(ctx, log, bodyFont, fonts.Face{Src: bodyFontURL})
			return plot(g), nil
		},
		Decorate: decorate,
	}
}

func theme() chart.Theme {
	th := chart.DefaultTheme()
	th.Background = bgColor
	th.Panel = bgColor
	th.Text = textColor
	th.Font = bodyFont
	th.Size = 6
	th.GridX = true
	th.GridY = false
	th.GridColor = textColor
	th.GridWidth = 0.3
	th.Margin = chart.Margin{Top: 0.25, Right: 0.03, Bottom: 0.03, Left: 0.03}
	return th
}

// prepare joins the G-rated films with their critic scores and melts
// the scores into one row per film and critic site, in release order.
// The label column names each film and its release year.
func prepare(films, responses table.Grouping) (table.Grouping, error) {
	g, err := frame.FilterEq(films, "film_rating", "G")
	if err != nil {
		return nil, err
	}
	if g, err = frame.Drop(g, "run_time", "number", "film_rating"); err != nil {
		return nil, err
	}
	if g, err = frame.Merge(g, "film", responses, "film"); err != nil {
		return nil, err
	}
	if g, err = frame.Drop(g, "cinema_score"); err != nil {
		return nil, err
	}
	if g, err = frame.Melt(g, "critic", "score", "film", "release_date"); err != nil {
		return nil, err
	}
	if g, err = frame.ParseDates(g, "release_date"); err != nil {
		return nil, err
	}
	if g, err = frame.Sort(g, "release_date"); err != nil {
		return nil, err
	}
	if g, err = frame.Year(g, "release_date", "year"); err != nil {
		return nil, err
	}
	return frame.Derive(g, func(film []string, year []int, label []string) {
		for i := range film {
			label[i] = fmt.Sprintf("%s\n(Released %d)", film[i], year[i])
		}
	}, "film", "year")("label")
}

func plot(g table.Grouping) *chart.Plot {
	return chart.New(g).Add(
		chart.Col{X: "label", Y: "score", Fill: "critic", Width: 0.6, Dodge: true},
		chart.ScaleFill(chart.Manual{Values: colors}),
		// First release at the top once flipped. The bars reach 0.3
		// either side of each film, and the axis stops there.
		chart.ScaleX(&chart.Discrete{InOrder: true, Reverse: true, Expand: &chart.Expansion{Add: 0.3}}),
		chart.ScaleY(&chart.Continuous{Expand: &chart.Expansion{}}),
		chart.Labels("", "Score (Maximum 100)"),
		chart.Flip(),
	)
}

func decorate(fig *chart.Figure) error {
	texts := []struct {
		x, y   float64
		markup string
		opts   chart.TextOptions
	}{
		{0.03, 0.97, title, chart.TextOptions{
			Size: 12, Font: titleFont, Bold: true, Color: textColor, YAlign: text.YTop,
		}},
		{0.03, 0.92, subtitle, chart.TextOptions{
			Size: 8, Font: bodyFont, Color: textColor, YAlign: text.YTop, LineSpacing: 1.5,
		}},
		{0.03, 0.005, caption, chart.TextOptions{
			Size: 6, Font: bodyFont, Color: textColor, YAlign: text.YBottom, LineSpacing: 1.7,
		}},
	}
	for _, t := range texts {
		if err := fig.Text(t.x, t.y, t.markup, t.opts); err != nil {
			return err
		}
	}
	return nil
}
