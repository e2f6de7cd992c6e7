// Copyright 2025 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package fonts

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/go-fonts/liberation/liberationsansbold"
	"github.com/go-fonts/liberation/liberationsansregular"
	"github.com/google/go-cmp/cmp"
	xfont "golang.org/x/image/font"
	"gonum.org/v1/plot/font"

	"github.com/tidytuesday/charts/internal/dataset"
)

func writeFile(t *testing.T, path string, data []byte) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		t.Fatal(err)
	}
}

func TestResolve(t *testing.T) {
	for _, test := range []struct {
		in, want font.Font
	}{
		{font.Font{}, Fallback},
		{font.Font{Typeface: "NoSuchFace", Size: 14}, font.Font{Typeface: "Liberation", Variant: "Sans", Size: 14}},
		{
			font.Font{Typeface: "NoSuchFace", Weight: xfont.WeightBold},
			font.Font{Typeface: "Liberation", Variant: "Sans", Weight: xfont.WeightBold},
		},
		{font.Font{Typeface: "Liberation", Variant: "Mono"}, font.Font{Typeface: "Liberation", Variant: "Mono"}},
	} {
		if got := Resolve(test.in); got != test.want {
			t.Errorf("Resolve(%+v) = %+v; want %+v", test.in, got, test.want)
		}
	}
}

func TestFind(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"truetype/gadugi/gadugib.ttf", "Gadugi.TTF", "GadugiBold.otf", "Arial.ttf", "gadugi.txt"} {
		writeFile(t, filepath.Join(dir, name), nil)
	}
	got := Find("Gadugi", dir, filepath.Join(dir, "missing"))
	want := []string{
		filepath.Join(dir, "Gadugi.TTF"),
		filepath.Join(dir, "truetype/gadugi/gadugib.ttf"),
		filepath.Join(dir, "GadugiBold.otf"),
	}
	if !cmp.Equal(want, got) {
		t.Errorf("Find: %s", cmp.Diff(want, got))
	}
}

func TestRegisterSystem(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "Sysface.ttf"), liberationsansregular.TTF)
	writeFile(t, filepath.Join(dir, "SysfaceBold.ttf"), liberationsansbold.TTF)

	ok, err := RegisterSystem(context.Background(), "Sysface", dir)
	if err != nil || !ok {
		t.Fatalf("RegisterSystem: %v, %v", ok, err)
	}
	if !Has("Sysface") {
		t.Fatalf("Sysface not registered")
	}
	bold := font.Font{Typeface: "Sysface", Weight: xfont.WeightBold}
	if !font.DefaultCache.Has(bold) {
		t.Errorf("bold Sysface not registered")
	}
	if got := Resolve(bold); got != bold {
		t.Errorf("Resolve(%+v) = %+v", bold, got)
	}

	ok, err = RegisterSystem(context.Background(), "Nonesuch", dir)
	if err != nil || ok {
		t.Errorf("RegisterSystem(Nonesuch) = %v, %v; want false, nil", ok, err)
	}
}

func TestRegister(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/Webface-Regular.ttf":
			w.Write(liberationsansregular.TTF)
		case "/garbage.ttf":
			w.Write([]byte("not a font"))
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()
	ctx := context.Background()

	if err := Register(ctx, "Webface", Face{Src: srv.URL + "/Webface-Regular.ttf"}); err != nil {
		t.Fatal(err)
	}
	if !Has("Webface") {
		t.Errorf("Webface not registered")
	}

	err := Register(ctx, "Missingface", Face{Src: srv.URL + "/Missingface.ttf"})
	if !errors.Is(err, dataset.ErrUnavailable) {
		t.Errorf("404: want ErrUnavailable; got %v", err)
	}
	if err := Register(ctx, "Garbageface", Face{Src: srv.URL + "/garbage.ttf"}); err == nil {
		t.Errorf("want parse error for garbage font")
	}
	if Has("Missingface") || Has("Garbageface") {
		t.Errorf("failed faces should not be registered")
	}
}
