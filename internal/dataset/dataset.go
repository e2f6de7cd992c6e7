// Copyright 2025 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package dataset loads CSV data sets into go-gg tables.
//
// A source is either an http:// or https:// URL, which is fetched with
// a single GET, or a path on the local file system. Column types are
// inferred from the data: a column whose cells all parse as integers
// becomes []int, one whose cells all parse as numbers becomes
// []float64, and anything else stays []string. Missing numeric cells
// ("NA", "NaN" or empty) become NaN, which forces the column to
// []float64.
package dataset

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"strconv"
	"strings"

	"github.com/aclements/go-gg/table"
)

// ErrUnavailable is wrapped by every error that prevents a data set
// from being loaded: network failures, missing files and malformed
// CSV.
var ErrUnavailable = errors.New("data unavailable")

// Client is the HTTP client used to fetch remote sources.
var Client = http.DefaultClient

// IsRemote reports whether src names an HTTP(S) resource rather than
// a local file.
func IsRemote(src string) bool {
	return strings.HasPrefix(src, "http://") || strings.HasPrefix(src, "https://")
}

// Load reads the CSV data set at src.
func Load(ctx context.Context, src string) (*table.Table, error) {
	rc, err := Open(ctx, src)
	if err != nil {
		return nil, err
	}
	defer rc.Close()

	t, err := Read(rc)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", src, err)
	}
	return t, nil
}

// Open returns the raw contents of src. The caller must close the
// returned reader.
func Open(ctx context.Context, src string) (io.ReadCloser, error) {
	if !IsRemote(src) {
		f, err := os.Open(src)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
		}
		return f, nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, src, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	resp, err := Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	if resp.StatusCode/100 != 2 {
		resp.Body.Close()
		return nil, fmt.Errorf("%w: GET %s: %s", ErrUnavailable, src, resp.Status)
	}
	return resp.Body, nil
}

// Read parses CSV data from r. The first record names the columns.
func Read(r io.Reader) (*table.Table, error) {
	cr := csv.NewReader(r)
	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("%w: empty CSV", ErrUnavailable)
	}

	header := records[0]
	if len(header) > 0 {
		header[0] = strings.TrimPrefix(header[0], "\ufeff")
	}
	seen := make(map[string]bool)
	for _, col := range header {
		if seen[col] {
			return nil, fmt.Errorf("%w: duplicate column %q", ErrUnavailable, col)
		}
		seen[col] = true
	}

	rows := records[1:]
	for col := range header {
		fillMissing(rows, col)
	}
	return table.TableFromStrings(header, rows, true), nil
}

// IsMissing reports whether a CSV cell denotes a missing value.
func IsMissing(cell string) bool {
	switch strings.TrimSpace(cell) {
	case "", "NA", "N/A", "NaN", "nan", "null":
		return true
	}
	return false
}

// fillMissing rewrites the missing cells of column col as "NaN" if
// every other cell in the column is numeric, so that the column
// coerces to []float64. Other columns are left alone.
func fillMissing(rows [][]string, col int) {
	missing := false
	for _, row := range rows {
		cell := row[col]
		if IsMissing(cell) {
			missing = true
			continue
		}
		if _, err := strconv.ParseFloat(cell, 64); err != nil {
			return
		}
	}
	if !missing {
		return
	}
	for _, row := range rows {
		if IsMissing(row[col]) {
			row[col] = "NaN"
		}
	}
}
