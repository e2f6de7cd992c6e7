// Copyright 2025 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package frame implements the relational reshaping steps the chart
// tools apply to their data sets.
//
// Every operation works on a table.Grouping and returns a new one;
// inputs are never modified. Unlike the underlying table package,
// which panics on unknown columns, each operation checks the columns
// it names up front and reports a *SchemaError instead.
package frame

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/aclements/go-gg/table"
)

// ErrSchemaMismatch is matched (via errors.Is) by every *SchemaError.
var ErrSchemaMismatch = errors.New("schema mismatch")

// SchemaError records a column that an operation expected but did not
// find, or found with the wrong type.
type SchemaError struct {
	Op     string // operation that failed, such as "select"
	Column string // offending column
	Detail string // what was wrong; "missing" if absent
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf("%s: column %q: %s", e.Op, e.Column, e.Detail)
}

// Is makes errors.Is(err, ErrSchemaMismatch) true for any
// *SchemaError.
func (e *SchemaError) Is(target error) bool {
	return target == ErrSchemaMismatch
}

// Has reports whether g has a column named col.
func Has(g table.Grouping, col string) bool {
	for _, c := range g.Columns() {
		if c == col {
			return true
		}
	}
	return false
}

// Require returns a *SchemaError for the first of cols that g lacks.
func Require(op string, g table.Grouping, cols ...string) error {
	for _, col := range cols {
		if !Has(g, col) {
			return &SchemaError{op, col, "missing"}
		}
	}
	return nil
}

// requireKind is like Require, but also checks that each column's
// element kind satisfies ok.
func requireKind(op string, g table.Grouping, want string, ok func(reflect.Type) bool, cols ...string) error {
	if err := Require(op, g, cols...); err != nil {
		return err
	}
	for _, col := range cols {
		et := table.ColType(g, col).Elem()
		if !ok(et) {
			return &SchemaError{op, col, fmt.Sprintf("want %s, have %s", want, et)}
		}
	}
	return nil
}

func isString(t reflect.Type) bool {
	return t == reflect.TypeOf("")
}

func isNumeric(t reflect.Type) bool {
	switch t.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		return true
	}
	return false
}

// Select returns a table with only cols, in the given order.
func Select(g table.Grouping, cols ...string) (table.Grouping, error) {
	if err := Require("select", g, cols...); err != nil {
		return nil, err
	}
	return table.MapTables(g, func(_ table.GroupID, t *table.Table) *table.Table {
		b := new(table.Builder)
		for _, col := range cols {
			b.Add(col, t.Column(col))
		}
		return b.Done()
	}), nil
}

// Drop returns g without cols.
func Drop(g table.Grouping, cols ...string) (table.Grouping, error) {
	if err := Require("drop", g, cols...); err != nil {
		return nil, err
	}
	for _, col := range cols {
		g = table.Remove(g, col)
	}
	return g, nil
}

// Rename renames column from to to.
func Rename(g table.Grouping, from, to string) (table.Grouping, error) {
	if err := Require("rename", g, from); err != nil {
		return nil, err
	}
	if from != to && Has(g, to) {
		return nil, &SchemaError{"rename", to, "already exists"}
	}
	return table.Rename(g, from, to), nil
}

// FilterEq keeps the rows of g whose col equals val. val must have
// the same type as col's elements.
func FilterEq(g table.Grouping, col string, val interface{}) (table.Grouping, error) {
	if err := Require("filter", g, col); err != nil {
		return nil, err
	}
	et, vt := table.ColType(g, col).Elem(), reflect.TypeOf(val)
	if et != vt {
		return nil, &SchemaError{"filter", col, fmt.Sprintf("cannot compare %s with %s", et, vt)}
	}
	return table.FilterEq(g, col, val), nil
}

// FilterIn keeps the rows of g whose string column col is one of
// values.
func FilterIn(g table.Grouping, col string, values ...string) (table.Grouping, error) {
	if err := requireKind("filter", g, "strings", isString, col); err != nil {
		return nil, err
	}
	set := make(map[string]bool, len(values))
	for _, v := range values {
		set[v] = true
	}
	return table.Filter(g, func(v string) bool {
		return set[v]
	}, col), nil
}

// Derive applies fn to the input columns in of each table in g and
// binds its results to new columns. It is table.MapCols with column
// checks: fn must take one slice argument per input column followed
// by one pre-allocated slice per output column, like
//
//	func(year []int, xmin, xmax []float64)
//
// A type mismatch between fn and the columns is reported as a
// *SchemaError.
func Derive(g table.Grouping, fn interface{}, in ...string) func(out ...string) (table.Grouping, error) {
	return func(out ...string) (ng table.Grouping, err error) {
		if err := Require("derive", g, in...); err != nil {
			return nil, err
		}
		defer func() {
			if r := recover(); r != nil {
				ng, err = nil, &SchemaError{"derive", strings.Join(in, ","), fmt.Sprint(r)}
			}
		}()
		return table.MapCols(g, fn, in...)(out...), nil
	}
}

// Sort sorts the rows of each group of g by cols. Each column's type
// must be naturally ordered or implement sort.Interface (like Times).
func Sort(g table.Grouping, cols ...string) (ng table.Grouping, err error) {
	if err := Require("sort", g, cols...); err != nil {
		return nil, err
	}
	defer func() {
		if r := recover(); r != nil {
			ng, err = nil, &SchemaError{"sort", strings.Join(cols, ","), fmt.Sprint(r)}
		}
	}()
	return table.SortBy(g, cols...), nil
}
