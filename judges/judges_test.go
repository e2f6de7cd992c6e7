// Copyright 2025 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/aclements/go-gg/table"
	"github.com/google/go-cmp/cmp"
	"go.uber.org/zap"
	"gonum.org/v1/plot/vg"

	"github.com/tidytuesday/charts/chart"
	"github.com/tidytuesday/charts/internal/cli"
	"github.com/tidytuesday/charts/internal/dataset"
	"github.com/tidytuesday/charts/internal/frame"
)

const judgesCSV = `name,start,end,party,n
Jimmy Carter,1977-01-20,1981-01-20,Democratic,262
Ronald Reagan,1981-01-20,1989-01-20,Republican,383
George H. W. Bush,1989-01-20,1993-01-20,Republican,193
`

func TestPrepare(t *testing.T) {
	tab, err := dataset.Read(strings.NewReader(judgesCSV))
	if err != nil {
		t.Fatal(err)
	}
	g, err := prepare(tab)
	if err != nil {
		t.Fatal(err)
	}
	flat := table.Flatten(g)
	start := flat.MustColumn("start").(frame.Times)
	if want := time.Date(1981, 1, 20, 0, 0, 0, 0, time.UTC); !start[1].Equal(want) {
		t.Errorf("start[1] = %v; want %v", start[1], want)
	}
	if d := cmp.Diff([]float64{0, 0, 0}, flat.MustColumn("base").([]float64)); d != "" {
		t.Errorf("base (-want +got):\n%s", d)
	}
	want := "<b>Ronald Reagan</b><br>20 Jan, 1981 - 20 Jan, 1989<br>Nominations: 383"
	if got := flat.MustColumn("tooltip").([]string)[1]; got != want {
		t.Errorf("tooltip = %q; want %q", got, want)
	}
}

func TestPrepareBadDate(t *testing.T) {
	tab, err := dataset.Read(strings.NewReader("name,start,end,party,n\nX,soon,1981-01-20,Democratic,1\n"))
	if err != nil {
		t.Fatal(err)
	}
	if _, err := prepare(tab); !errors.Is(err, frame.ErrSchemaMismatch) {
		t.Errorf("want ErrSchemaMismatch; got %v", err)
	}
}

func TestTheme(t *testing.T) {
	th := theme()
	// 10px at 100px per inch is 7.2pt.
	if th.Size != 7.2 {
		t.Errorf("size = %v; want 7.2", th.Size)
	}
	if th.Margin.Top != 180.0/650 || th.Margin.Left != 45.0/800 {
		t.Errorf("margins = %+v", th.Margin)
	}
}

func TestSinglePartyColors(t *testing.T) {
	tab, err := dataset.Read(strings.NewReader(`name,start,end,party,n
Ronald Reagan,1981-01-20,1989-01-20,Republican,383
`))
	if err != nil {
		t.Fatal(err)
	}
	g, err := prepare(tab)
	if err != nil {
		t.Fatal(err)
	}
	fig, err := plot(g).Add(chart.WithTheme(theme())).Render(chart.Size{Width: 8 * vg.Inch, Height: 6.5 * vg.Inch, DPI: 30})
	if err != nil {
		t.Fatal(err)
	}
	reds, blues := partyPixels(fig.Image())
	if reds == 0 || blues != 0 {
		t.Errorf("Republican-only data: got %d red and %d blue pixels; want only red", reds, blues)
	}
}

func TestRender(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "data.csv")
	if err := os.WriteFile(src, []byte(judgesCSV), 0644); err != nil {
		t.Fatal(err)
	}
	out := filepath.Join(dir, "20250610.png")
	opts := &cli.Options{Out: out, DPI: 50}
	if err := cli.Run(context.Background(), tool(&src), opts, zap.NewNop(), nil); err != nil {
		t.Fatal(err)
	}
	data, err := os.ReadFile(out)
	if err != nil {
		t.Fatal(err)
	}
	img, err := png.Decode(bytes.NewReader(data))
	if err != nil {
		t.Fatal(err)
	}
	if b := img.Bounds(); b.Dx() != 400 || b.Dy() != 325 {
		t.Errorf("image is %dx%d; want 8x6.5in at 50dpi", b.Dx(), b.Dy())
	}

	reds, blues := partyPixels(img)
	if reds == 0 || blues == 0 {
		t.Errorf("want Republican and Democratic bars; got %d red and %d blue pixels", reds, blues)
	}
	if reds < blues {
		t.Errorf("two Republican terms should outweigh one Democratic term; got %d red and %d blue pixels", reds, blues)
	}
}

// partyPixels counts the pixels in the Republican and Democratic bar
// colors, drawn at 60% opacity over white.
func partyPixels(img image.Image) (reds, blues int) {
	blend := func(c uint8) uint8 { return uint8(0.6*float64(c) + 0.4*255 + 0.5) }
	red := color.NRGBA{blend(0xe5), blend(0x00), blend(0x00), 0xff}
	blue := color.NRGBA{blend(0x00), blend(0x00), blend(0xff), 0xff}
	near := func(got, want color.NRGBA) bool {
		d := func(a, b uint8) bool { return a-b < 4 || b-a < 4 }
		return d(got.R, want.R) && d(got.G, want.G) && d(got.B, want.B)
	}
	b := img.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			c := color.NRGBAModel.Convert(img.At(x, y)).(color.NRGBA)
			switch {
			case near(c, red):
				reds++
			case near(c, blue):
				blues++
			}
		}
	}
	return reds, blues
}
