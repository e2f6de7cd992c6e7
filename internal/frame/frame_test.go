// Copyright 2025 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package frame

import (
	"errors"
	"math"
	"testing"
	"time"

	"github.com/aclements/go-gg/table"
	"github.com/google/go-cmp/cmp"
)

var cheese = new(table.Builder).
	Add("Year", []int{1970, 1971, 1972, 1973}).
	Add("Cheddar", []float64{5.79, 6.05, 6.6, 6.4}).
	Add("Blue", []float64{0.11, 0.12, 0.13, 0.14}).
	Done()

func col(t *testing.T, g table.Grouping, name string) interface{} {
	t.Helper()
	if !Has(g, name) {
		t.Fatalf("missing column %q in %v", name, g.Columns())
	}
	return table.Flatten(g).Column(name)
}

func wantSchemaError(t *testing.T, op string, err error) {
	t.Helper()
	if !errors.Is(err, ErrSchemaMismatch) {
		t.Fatalf("%s: want schema mismatch; got %v", op, err)
	}
	var se *SchemaError
	if !errors.As(err, &se) || se.Op != op {
		t.Fatalf("want *SchemaError from %s; got %#v", op, err)
	}
}

func TestSelect(t *testing.T) {
	g, err := Select(cheese, "Cheddar", "Year")
	if err != nil {
		t.Fatal(err)
	}
	if want := []string{"Cheddar", "Year"}; !cmp.Equal(want, g.Columns()) {
		t.Errorf("columns: %s", cmp.Diff(want, g.Columns()))
	}

	_, err = Select(cheese, "Year", "Mozzarella")
	wantSchemaError(t, "select", err)
}

func TestDrop(t *testing.T) {
	g, err := Drop(cheese, "Blue")
	if err != nil {
		t.Fatal(err)
	}
	if want := []string{"Year", "Cheddar"}; !cmp.Equal(want, g.Columns()) {
		t.Errorf("columns: %s", cmp.Diff(want, g.Columns()))
	}
	_, err = Drop(cheese, "Brie")
	wantSchemaError(t, "drop", err)
}

func TestRename(t *testing.T) {
	g, err := Rename(cheese, "Cheddar", "value")
	if err != nil {
		t.Fatal(err)
	}
	if !Has(g, "value") || Has(g, "Cheddar") {
		t.Errorf("rename: got columns %v", g.Columns())
	}
	_, err = Rename(cheese, "Cheddar", "Blue")
	wantSchemaError(t, "rename", err)
}

func TestDiff(t *testing.T) {
	g, err := Diff(cheese, "Cheddar", "diff")
	if err != nil {
		t.Fatal(err)
	}
	vals := col(t, g, "Cheddar").([]float64)
	diff := col(t, g, "diff").([]float64)
	if len(diff) != len(vals) {
		t.Fatalf("want %d rows; got %d", len(vals), len(diff))
	}
	if diff[0] != vals[0] {
		t.Errorf("diff[0] = %v; want %v", diff[0], vals[0])
	}
	for i := 1; i < len(vals); i++ {
		if want := vals[i] - vals[i-1]; diff[i] != want {
			t.Errorf("diff[%d] = %v; want %v", i, diff[i], want)
		}
	}

	// Integer columns are differenced as floats.
	g, err = Diff(cheese, "Year", "dyear")
	if err != nil {
		t.Fatal(err)
	}
	if want := []float64{1970, 1, 1, 1}; !cmp.Equal(want, col(t, g, "dyear")) {
		t.Errorf("dyear: %s", cmp.Diff(want, col(t, g, "dyear")))
	}

	_, err = Diff(cheese, "Gouda", "diff")
	wantSchemaError(t, "diff", err)
}

var standings = new(table.Builder).
	Add("team_name", []string{"Arsenal", "Chelsea", "Arsenal", "Chelsea", "Reading"}).
	Add("season", []string{"2017-2018", "2018-2019", "2019-2020", "2019-2020", "2022-2023"}).
	Add("division", []string{"WSL", "WSL", "WSL", "WSL", "Championship"}).
	Add("position", []int{2, 3, 3, 1, 9}).
	Done()

func TestFilter(t *testing.T) {
	g, err := FilterIn(standings, "season", "2018-2019", "2019-2020")
	if err != nil {
		t.Fatal(err)
	}
	if want := []int{3, 3, 1}; !cmp.Equal(want, col(t, g, "position")) {
		t.Errorf("position: %s", cmp.Diff(want, col(t, g, "position")))
	}

	g, err = FilterEq(standings, "division", "Championship")
	if err != nil {
		t.Fatal(err)
	}
	if want := []string{"Reading"}; !cmp.Equal(want, col(t, g, "team_name")) {
		t.Errorf("team_name: %s", cmp.Diff(want, col(t, g, "team_name")))
	}

	_, err = FilterIn(standings, "position", "1")
	wantSchemaError(t, "filter", err)
	_, err = FilterEq(standings, "position", "1")
	wantSchemaError(t, "filter", err)
	_, err = FilterIn(standings, "tier", "1")
	wantSchemaError(t, "filter", err)
}

func TestDerive(t *testing.T) {
	g, err := Derive(cheese, func(year []int, xmin, xmax []float64) {
		for i, y := range year {
			xmin[i], xmax[i] = float64(y)-0.45, float64(y)+0.45
		}
	}, "Year")("xmin", "xmax")
	if err != nil {
		t.Fatal(err)
	}
	if want := []float64{1969.55, 1970.55, 1971.55, 1972.55}; !cmp.Equal(want, col(t, g, "xmin"), cmp.Comparer(approx)) {
		t.Errorf("xmin: %s", cmp.Diff(want, col(t, g, "xmin")))
	}

	// Wrong argument type for the Year column.
	_, err = Derive(cheese, func(year []string, out []string) {}, "Year")("out")
	wantSchemaError(t, "derive", err)
}

func approx(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestSort(t *testing.T) {
	g, err := Sort(standings, "position")
	if err != nil {
		t.Fatal(err)
	}
	if want := []int{1, 2, 3, 3, 9}; !cmp.Equal(want, col(t, g, "position")) {
		t.Errorf("position: %s", cmp.Diff(want, col(t, g, "position")))
	}
	_, err = Sort(standings, "points")
	wantSchemaError(t, "sort", err)
}

func TestDates(t *testing.T) {
	films := new(table.Builder).
		Add("film", []string{"Cars", "Toy Story", "Up"}).
		Add("release_date", []string{"2006-06-09", "1995-11-22", "2009-05-29"}).
		Done()
	g, err := ParseDates(films, "release_date")
	if err != nil {
		t.Fatal(err)
	}
	dates, ok := col(t, g, "release_date").(Times)
	if !ok {
		t.Fatalf("release_date should be Times; got %T", col(t, g, "release_date"))
	}
	if want := time.Date(1995, 11, 22, 0, 0, 0, 0, time.UTC); !dates[1].Equal(want) {
		t.Errorf("release_date[1] = %v; want %v", dates[1], want)
	}

	g, err = Sort(g, "release_date")
	if err != nil {
		t.Fatal(err)
	}
	if want := []string{"Toy Story", "Cars", "Up"}; !cmp.Equal(want, col(t, g, "film")) {
		t.Errorf("film: %s", cmp.Diff(want, col(t, g, "film")))
	}

	g, err = Year(g, "release_date", "year")
	if err != nil {
		t.Fatal(err)
	}
	if want := []int{1995, 2006, 2009}; !cmp.Equal(want, col(t, g, "year")) {
		t.Errorf("year: %s", cmp.Diff(want, col(t, g, "year")))
	}

	bad := new(table.Builder).Add("release_date", []string{"not a date"}).Done()
	_, err = ParseDates(bad, "release_date")
	wantSchemaError(t, "dates", err)
	_, err = Year(films, "release_date", "year")
	wantSchemaError(t, "year", err)
}

var scores = new(table.Builder).
	Add("film", []string{"Toy Story", "A Bug's Life", "Cars 2"}).
	Add("rotten_tomatoes", []int{100, 92, 40}).
	Add("metacritic", []int{95, 77, 57}).
	Add("critics_choice", []float64{math.NaN(), math.NaN(), 67}).
	Done()

func TestMeltCast(t *testing.T) {
	long, err := Melt(scores, "critic", "score", "film")
	if err != nil {
		t.Fatal(err)
	}
	if want := []string{"film", "critic", "score"}; !cmp.Equal(want, long.Columns()) {
		t.Errorf("columns: %s", cmp.Diff(want, long.Columns()))
	}
	if n := table.Flatten(long).Len(); n != 9 {
		t.Errorf("want 9 long rows; got %d", n)
	}

	wide, err := Cast(long, "critic", "score")
	if err != nil {
		t.Fatal(err)
	}
	// Casting back reconstructs every original value.
	films := col(t, wide, "film").([]string)
	for _, c := range []string{"rotten_tomatoes", "metacritic", "critics_choice"} {
		var orig []float64
		switch v := scores.Column(c).(type) {
		case []int:
			for _, x := range v {
				orig = append(orig, float64(x))
			}
		case []float64:
			orig = v
		}
		got := col(t, wide, c).([]float64)
		for i, film := range films {
			j := indexOf(scores.Column("film").([]string), film)
			if !(got[i] == orig[j] || math.IsNaN(got[i]) && math.IsNaN(orig[j])) {
				t.Errorf("%s[%s] = %v; want %v", c, film, got[i], orig[j])
			}
		}
	}

	_, err = Melt(scores, "critic", "score", "studio")
	wantSchemaError(t, "melt", err)
	_, err = Melt(scores, "film", "score", "film")
	wantSchemaError(t, "melt", err)
	_, err = Melt(standings, "k", "v", "team_name")
	wantSchemaError(t, "melt", err)
	_, err = Cast(long, "score", "critic")
	wantSchemaError(t, "cast", err)
}

func indexOf(xs []string, x string) int {
	for i, y := range xs {
		if x == y {
			return i
		}
	}
	return -1
}

func TestMerge(t *testing.T) {
	films := new(table.Builder).
		Add("film", []string{"Toy Story", "Cars 2", "Ratatouille", "Cars 2"}).
		Add("number", []int{1, 12, 8, 99}).
		Done()
	responses := new(table.Builder).
		Add("film", []string{"Cars 2", "Toy Story", "Lightyear"}).
		Add("metacritic", []int{57, 95, 60}).
		Done()

	g, err := Merge(films, "film", responses, "film")
	if err != nil {
		t.Fatal(err)
	}
	flat := table.Flatten(g)
	// Ratatouille and Lightyear have no match; Cars 2 matches twice.
	if flat.Len() != 3 {
		t.Fatalf("want 3 joined rows; got %d:\n%v", flat.Len(), flat)
	}
	want := map[int]int{1: 95, 12: 57, 99: 57}
	names := flat.MustColumn("film").([]string)
	nums := flat.MustColumn("number").([]int)
	mc := flat.MustColumn("metacritic").([]int)
	for i := range nums {
		if mc[i] != want[nums[i]] {
			t.Errorf("row %d (%s, %d): metacritic = %d; want %d", i, names[i], nums[i], mc[i], want[nums[i]])
		}
		delete(want, nums[i])
	}
	if len(want) != 0 {
		t.Errorf("rows missing from join: %v", want)
	}

	_, err = Merge(films, "film", responses, "title")
	wantSchemaError(t, "merge", err)
	_, err = Merge(films, "number", responses, "film")
	wantSchemaError(t, "merge", err)
	_, err = Merge(films, "film", films, "film")
	wantSchemaError(t, "merge", err)
}
