// Copyright 2025 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package frame

import (
	"fmt"
	"reflect"
	"strings"
	"time"

	"github.com/aclements/go-gg/generic/slice"
	"github.com/aclements/go-gg/table"
	"github.com/araddon/dateparse"
)

// Float converts the numeric columns cols to []float64.
func Float(g table.Grouping, cols ...string) (table.Grouping, error) {
	if err := requireKind("float", g, "numbers", isNumeric, cols...); err != nil {
		return nil, err
	}
	return toFloat(g, cols), nil
}

func toFloat(g table.Grouping, cols []string) table.Grouping {
	return table.MapTables(g, func(_ table.GroupID, t *table.Table) *table.Table {
		b := table.NewBuilder(t)
		for _, col := range cols {
			var ncol []float64
			slice.Convert(&ncol, t.MustColumn(col))
			b.Add(col, ncol)
		}
		return b.Done()
	})
}

// Diff adds column out holding the lagged difference of the numeric
// column col within each group. The first row has no predecessor, so
// its difference is its own value, as if it followed a zero:
//
//	out[0] = col[0]
//	out[i] = col[i] - col[i-1]
func Diff(g table.Grouping, col, out string) (table.Grouping, error) {
	if err := requireKind("diff", g, "numbers", isNumeric, col); err != nil {
		return nil, err
	}
	return table.MapTables(g, func(_ table.GroupID, t *table.Table) *table.Table {
		var vs []float64
		slice.Convert(&vs, t.MustColumn(col))
		diff := make([]float64, len(vs))
		for i, v := range vs {
			if i == 0 {
				diff[i] = v
			} else {
				diff[i] = v - vs[i-1]
			}
		}
		return table.NewBuilder(t).Add(out, diff).Done()
	}), nil
}

// Times is a column of dates. It implements sort.Interface so Sort
// can order rows by it.
type Times []time.Time

func (s Times) Len() int {
	return len(s)
}

func (s Times) Less(i, j int) bool {
	return s[i].Before(s[j])
}

func (s Times) Swap(i, j int) {
	s[i], s[j] = s[j], s[i]
}

var timeType = reflect.TypeOf(time.Time{})

func isTime(t reflect.Type) bool {
	return t == timeType
}

// ParseDates replaces the string column col with a Times column.
// Dates may be in any layout dateparse recognizes and are interpreted
// in UTC. A cell that does not parse is a *SchemaError.
func ParseDates(g table.Grouping, col string) (table.Grouping, error) {
	if err := requireKind("dates", g, "strings", isString, col); err != nil {
		return nil, err
	}
	var perr error
	ng := table.MapTables(g, func(_ table.GroupID, t *table.Table) *table.Table {
		strs := t.MustColumn(col).([]string)
		dates := make(Times, len(strs))
		for i, s := range strs {
			d, err := dateparse.ParseIn(strings.TrimSpace(s), time.UTC)
			if err != nil && perr == nil {
				perr = &SchemaError{"dates", col, fmt.Sprintf("row %d: %v", i, err)}
			}
			dates[i] = d
		}
		return table.NewBuilder(t).Add(col, dates).Done()
	})
	if perr != nil {
		return nil, perr
	}
	return ng, nil
}

// Year adds column out holding the calendar year of each date in the
// date column col.
func Year(g table.Grouping, col, out string) (table.Grouping, error) {
	if err := requireKind("year", g, "dates", isTime, col); err != nil {
		return nil, err
	}
	return table.MapTables(g, func(_ table.GroupID, t *table.Table) *table.Table {
		dates := reflect.ValueOf(t.MustColumn(col))
		years := make([]int, dates.Len())
		for i := range years {
			years[i] = dates.Index(i).Interface().(time.Time).Year()
		}
		return table.NewBuilder(t).Add(out, years).Done()
	}), nil
}

// Melt reshapes g from wide to long form. The id columns are kept;
// every other column becomes a row with the column's name in key and
// its value in value. The melted columns must be numeric and are
// converted to float64 so they can share the value column.
func Melt(g table.Grouping, key, value string, ids ...string) (table.Grouping, error) {
	if err := Require("melt", g, ids...); err != nil {
		return nil, err
	}
	for _, col := range []string{key, value} {
		if Has(g, col) {
			return nil, &SchemaError{"melt", col, "already exists"}
		}
	}
	idSet := make(map[string]bool)
	for _, id := range ids {
		idSet[id] = true
	}
	var cols []string
	for _, col := range g.Columns() {
		if !idSet[col] {
			cols = append(cols, col)
		}
	}
	if len(cols) == 0 {
		return nil, &SchemaError{"melt", value, "no columns to melt"}
	}
	if err := requireKind("melt", g, "numbers", isNumeric, cols...); err != nil {
		return nil, err
	}
	return table.Unpivot(toFloat(g, cols), key, value, cols...), nil
}

// Cast reshapes g from long to wide form, undoing Melt. Each distinct
// value of the string column key becomes a column holding the
// matching entries of value.
func Cast(g table.Grouping, key, value string) (ng table.Grouping, err error) {
	if err := requireKind("cast", g, "strings", isString, key); err != nil {
		return nil, err
	}
	if err := Require("cast", g, value); err != nil {
		return nil, err
	}
	defer func() {
		if r := recover(); r != nil {
			ng, err = nil, &SchemaError{"cast", key, fmt.Sprint(r)}
		}
	}()
	return table.Pivot(g, key, value), nil
}

// Merge inner-joins l and r on l's lcol equal to r's rcol. Rows of
// either table without a match are dropped; a row that matches
// several rows of the other table appears once per match. Apart from
// the key, the two tables must not share column names.
func Merge(l table.Grouping, lcol string, r table.Grouping, rcol string) (table.Grouping, error) {
	if err := Require("merge", l, lcol); err != nil {
		return nil, err
	}
	if err := Require("merge", r, rcol); err != nil {
		return nil, err
	}
	if lt, rt := table.ColType(l, lcol), table.ColType(r, rcol); lt != rt {
		return nil, &SchemaError{"merge", rcol, fmt.Sprintf("key type %s does not match %s", rt, lt)}
	}
	for _, col := range r.Columns() {
		if col == rcol && lcol == rcol {
			continue
		}
		if Has(l, col) {
			return nil, &SchemaError{"merge", col, "present in both tables"}
		}
	}
	return table.Join(l, lcol, r, rcol), nil
}
