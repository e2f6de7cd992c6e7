// Copyright 2025 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package chart

import (
	"fmt"
	"image/color"
	"math"
	"reflect"
	"sort"
	"strconv"
	"time"

	"github.com/aclements/go-gg/generic/slice"
	"github.com/aclements/go-gg/palette"
	"github.com/aclements/go-gg/table"
	"github.com/aclements/go-moremath/scale"
	"gonum.org/v1/plot"

	"github.com/tidytuesday/charts/chart/richtext"
	"github.com/tidytuesday/charts/internal/frame"
)

// Expansion pads an axis beyond its limits by Mult times the range
// plus Add data units on each side.
type Expansion struct {
	Mult, Add float64
}

var (
	defaultDiscreteExpand   = Expansion{Add: 0.6}
	defaultContinuousExpand = Expansion{Mult: 0.05}
)

// A PositionScale controls how data values map onto an axis. It is
// either a Discrete or a Continuous scale.
type PositionScale interface {
	isPosition()
}

// Discrete places the distinct values of a column at 1, 2, ..., n.
type Discrete struct {
	// Limits fixes the levels and their order. Values not in
	// Limits draw no mark.
	Limits []string

	// InOrder orders levels by first appearance rather than
	// sorting them.
	InOrder bool

	// Reverse reverses the level order.
	Reverse bool

	// Expand defaults to 0.6 units on each side.
	Expand *Expansion
}

// Continuous maps numbers (or dates) linearly onto an axis.
type Continuous struct {
	// Limits, if set, is the [min, max] data range of the axis.
	// Otherwise the range covers all data.
	Limits []float64

	// Breaks, if set, are the tick positions. Labels, if set,
	// labels them.
	Breaks []float64
	Labels []string

	// Format is a fmt verb for tick labels, or a time layout for
	// date axes.
	Format string

	// Reverse runs the axis from max to min.
	Reverse bool

	// Nice rounds the range out to tick positions before
	// expanding it.
	Nice bool

	// Include extends the data range to cover these values.
	Include []float64

	// Expand defaults to 5% of the range on each side.
	Expand *Expansion
}

func (*Discrete) isPosition()   {}
func (*Continuous) isPosition() {}

// Manual maps the sorted levels of a fill or color column to Values
// in order. Booleans sort false before true; numbers sort
// numerically.
type Manual struct {
	Values []string

	// Limits, if set, fixes the levels and their order, so a level
	// keeps its color whatever levels the data has. Values not in
	// Limits draw in the default mark color.
	Limits []string
}

// axis is a trained position scale.
type axis struct {
	aes      string
	discrete bool
	time     bool

	levels []string
	pos    map[string]float64

	min, max float64
	reverse  bool
	ticks    []plot.Tick
}

var (
	timeType    = reflect.TypeOf(time.Time{})
	float64Type = reflect.TypeOf(float64(0))
)

func isNumeric(k reflect.Kind) bool {
	switch k {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		return true
	}
	return false
}

// trainAxis builds the axis for aesthetic aes from the columns cols
// of t and the extra continuous values consts.
func trainAxis(aes string, t *table.Table, cols []string, consts []float64, s PositionScale, showText bool) (*axis, error) {
	a := &axis{aes: aes}
	ds, _ := s.(*Discrete)
	cs, _ := s.(*Continuous)

	var kinds []reflect.Type
	for _, col := range cols {
		et := reflect.TypeOf(t.Column(col)).Elem()
		kinds = append(kinds, et)
		switch {
		case et == timeType:
			a.time = true
		case !isNumeric(et.Kind()):
			a.discrete = true
		}
	}
	if ds != nil {
		a.discrete = true
	}
	if a.discrete {
		if cs != nil {
			col := aes
		if len(cols) > 0 {
			col = cols[0]
		}
		return nil, &frame.SchemaError{Op: "render", Column: col, Detail: fmt.Sprintf("continuous %s scale on %s column", aes, kinds[0])}
		}
		a.trainDiscrete(t, cols, ds, showText)
		return a, nil
	}
	if a.time {
		for i, et := range kinds {
			if et != timeType {
				return nil, &frame.SchemaError{Op: "render", Column: cols[i], Detail: fmt.Sprintf("%s axis mixes dates and %s", aes, et)}
			}
		}
	}
	if cs == nil {
		cs = &Continuous{}
	}
	a.trainContinuous(t, cols, consts, cs, showText)
	return a, nil
}

func (a *axis) trainDiscrete(t *table.Table, cols []string, s *Discrete, showText bool) {
	if s == nil {
		s = &Discrete{}
	}
	if s.Limits != nil {
		a.levels = append([]string(nil), s.Limits...)
	} else {
		seen := make(map[string]bool)
		for _, col := range cols {
			for _, v := range levelStrings(t.Column(col)) {
				if !seen[v] {
					seen[v] = true
					a.levels = append(a.levels, v)
				}
			}
		}
		if !s.InOrder && len(cols) > 0 {
			sortLevels(a.levels, t.Column(cols[0]))
		}
	}
	if s.Reverse {
		for i, j := 0, len(a.levels)-1; i < j; i, j = i+1, j-1 {
			a.levels[i], a.levels[j] = a.levels[j], a.levels[i]
		}
	}
	a.pos = make(map[string]float64, len(a.levels))
	for i, l := range a.levels {
		a.pos[l] = float64(i + 1)
		tick := plot.Tick{Value: float64(i + 1)}
		if showText {
			tick.Label = l
		}
		a.ticks = append(a.ticks, tick)
	}

	exp := defaultDiscreteExpand
	if s.Expand != nil {
		exp = *s.Expand
	}
	a.min, a.max = 1, float64(len(a.levels))
	a.expand(exp)
}

func (a *axis) trainContinuous(t *table.Table, cols []string, consts []float64, s *Continuous, showText bool) {
	a.reverse = s.Reverse
	if len(s.Limits) == 2 {
		a.min, a.max = math.Min(s.Limits[0], s.Limits[1]), math.Max(s.Limits[0], s.Limits[1])
	} else {
		a.min, a.max = math.Inf(1), math.Inf(-1)
		for _, col := range cols {
			for _, v := range a.floats(t.Column(col)) {
				a.include(v)
			}
		}
		for _, v := range consts {
			a.include(v)
		}
		for _, v := range s.Include {
			a.include(v)
		}
		if math.IsInf(a.min, 0) {
			a.min, a.max = 0, 1
		}
	}
	if s.Nice {
		l := scale.Linear{Min: a.min, Max: a.max}
		l.Nice(scale.TickOptions{Max: 11})
		a.min, a.max = l.Min, l.Max
	}

	a.ticks = a.makeTicks(s, showText)

	exp := defaultContinuousExpand
	if s.Expand != nil {
		exp = *s.Expand
	}
	a.expand(exp)
}

func (a *axis) include(v float64) {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return
	}
	a.min, a.max = math.Min(a.min, v), math.Max(a.max, v)
}

func (a *axis) expand(e Expansion) {
	d := (a.max-a.min)*e.Mult + e.Add
	if a.max == a.min && d == 0 {
		d = 0.5
	}
	a.min -= d
	a.max += d
}

func (a *axis) makeTicks(s *Continuous, showText bool) []plot.Tick {
	var values []float64
	switch {
	case s.Breaks != nil:
		values = s.Breaks
	case a.time:
		values = yearTicks(a.min, a.max)
	default:
		values, _ = scale.Linear{Min: a.min, Max: a.max}.Ticks(scale.TickOptions{Max: 11})
	}
	ticks := make([]plot.Tick, len(values))
	for i, v := range values {
		ticks[i].Value = v
		if !showText {
			continue
		}
		switch {
		case i < len(s.Labels):
			ticks[i].Label = s.Labels[i]
		case a.time:
			layout := s.Format
			if layout == "" {
				layout = "2006"
			}
			ticks[i].Label = time.Unix(int64(v), 0).UTC().Format(layout)
		case s.Format != "":
			ticks[i].Label = fmt.Sprintf(s.Format, v)
		default:
			ticks[i].Label = formatFloat(v)
		}
	}
	return ticks
}

// yearTicks returns ticks on January 1 of round years between the
// Unix times min and max.
func yearTicks(min, max float64) []float64 {
	lo := time.Unix(int64(min), 0).UTC()
	hi := time.Unix(int64(max), 0).UTC()
	years, _ := scale.Linear{Min: float64(lo.Year()), Max: float64(hi.Year())}.Ticks(scale.TickOptions{Max: 11})
	var out []float64
	for _, y := range years {
		if y != math.Trunc(y) {
			continue
		}
		u := float64(time.Date(int(y), time.January, 1, 0, 0, 0, 0, time.UTC).Unix())
		if u >= min && u <= max {
			out = append(out, u)
		}
	}
	return out
}

func formatFloat(v float64) string {
	v = math.Round(v*1e9) / 1e9
	if v == 0 {
		v = 0 // no "-0"
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// floats converts a numeric or date column to float64 positions.
// Dates become Unix seconds.
func (a *axis) floats(seq table.Slice) []float64 {
	if ts, ok := timeSlice(seq); ok {
		out := make([]float64, len(ts))
		for i, t := range ts {
			if t.IsZero() {
				out[i] = math.NaN()
			} else {
				out[i] = float64(t.Unix())
			}
		}
		return out
	}
	var out []float64
	slice.Convert(&out, seq)
	return out
}

func timeSlice(seq table.Slice) ([]time.Time, bool) {
	switch s := seq.(type) {
	case frame.Times:
		return s, true
	case []time.Time:
		return s, true
	}
	return nil, false
}

// positions maps column seq onto the axis. Values outside a discrete
// axis's levels are NaN.
func (a *axis) positions(seq table.Slice) []float64 {
	if !a.discrete {
		return a.floats(seq)
	}
	strs := levelStrings(seq)
	out := make([]float64, len(strs))
	for i, s := range strs {
		if p, ok := a.pos[s]; ok {
			out[i] = p
		} else {
			out[i] = math.NaN()
		}
	}
	return out
}

// levelStrings returns the level name of every element of seq.
func levelStrings(seq table.Slice) []string {
	switch s := seq.(type) {
	case []string:
		return s
	case []bool:
		out := make([]string, len(s))
		for i, b := range s {
			out[i] = strconv.FormatBool(b)
		}
		return out
	}
	rv := reflect.ValueOf(seq)
	out := make([]string, rv.Len())
	for i := range out {
		v := rv.Index(i)
		if isNumeric(v.Kind()) {
			out[i] = formatFloat(v.Convert(float64Type).Float())
		} else {
			out[i] = fmt.Sprint(v.Interface())
		}
	}
	return out
}

// sortLevels sorts levels in the natural order of seq's element type.
func sortLevels(levels []string, seq table.Slice) {
	if isNumeric(reflect.TypeOf(seq).Elem().Kind()) {
		sort.Slice(levels, func(i, j int) bool {
			a, _ := strconv.ParseFloat(levels[i], 64)
			b, _ := strconv.ParseFloat(levels[j], 64)
			return a < b
		})
		return
	}
	sort.Strings(levels)
}

// viridis is the default palette of unscaled fill and color
// columns. Levels are spread evenly over it.
var viridis = palette.RGBGradient{Colors: []color.RGBA{
	{0x44, 0x01, 0x54, 0xff},
	{0x3b, 0x52, 0x8b, 0xff},
	{0x21, 0x90, 0x8d, 0xff},
	{0x5d, 0xc9, 0x63, 0xff},
	{0xfd, 0xe7, 0x25, 0xff},
}}

// colorScale is a trained fill or color scale.
type colorScale struct {
	levels []string
	colors map[string]color.Color
}

// trainColor builds the color scale for aesthetic aes from the
// columns cols of t.
func trainColor(aes string, t *table.Table, cols []string, m *Manual) (*colorScale, error) {
	cs := &colorScale{colors: make(map[string]color.Color)}
	if m != nil && m.Limits != nil {
		cs.levels = append([]string(nil), m.Limits...)
	} else {
		seen := make(map[string]bool)
		for _, col := range cols {
			for _, v := range levelStrings(t.Column(col)) {
				if !seen[v] {
					seen[v] = true
					cs.levels = append(cs.levels, v)
				}
			}
		}
		if len(cols) > 0 {
			sortLevels(cs.levels, t.Column(cols[0]))
		}
	}

	if m == nil {
		n := len(cs.levels)
		for i, l := range cs.levels {
			x := 0.0
			if n > 1 {
				x = float64(i) / float64(n-1)
			}
			cs.colors[l] = viridis.Map(x)
		}
		return cs, nil
	}
	if len(m.Values) < len(cs.levels) {
		col := aes
		if len(cols) > 0 {
			col = cols[0]
		}
		return nil, &frame.SchemaError{Op: "render", Column: col, Detail: fmt.Sprintf("%s scale has %d values for %d levels", aes, len(m.Values), len(cs.levels))}
	}
	for i, l := range cs.levels {
		c, err := richtext.ParseColor(m.Values[i])
		if err != nil {
			return nil, fmt.Errorf("%s scale: %w", aes, err)
		}
		cs.colors[l] = c
	}
	return cs, nil
}

// of returns the color of every element of seq.
func (cs *colorScale) of(seq table.Slice) []color.Color {
	strs := levelStrings(seq)
	out := make([]color.Color, len(strs))
	for i, s := range strs {
		out[i] = cs.colors[s]
	}
	return out
}

// level returns the index of level s, or 0 if s is not a level.
func (cs *colorScale) level(s string) int {
	for i, l := range cs.levels {
		if l == s {
			return i
		}
	}
	return 0
}
