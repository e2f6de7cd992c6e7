// Copyright 2025 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package fonts makes TrueType and OpenType faces available to the
// chart renderer.
//
// Faces are registered in gonum's font.DefaultCache under a typeface
// name. Resolve maps a requested font to one the cache can actually
// draw, falling back to Liberation Sans.
package fonts

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	xfont "golang.org/x/image/font"
	"golang.org/x/image/font/opentype"
	"gonum.org/v1/plot/font"
	"gonum.org/v1/plot/font/liberation"

	"github.com/tidytuesday/charts/internal/dataset"
)

// Fallback is the typeface and variant used when a requested face is
// unavailable.
var Fallback = font.Font{Typeface: "Liberation", Variant: "Sans"}

func init() {
	if !font.DefaultCache.Has(Fallback) {
		font.DefaultCache.Add(liberation.Collection())
	}
}

// Face describes one face of a typeface to register.
type Face struct {
	Weight xfont.Weight
	Style  xfont.Style

	// Src is a file path or an http(s) URL.
	Src string
}

// Register loads each face and adds them to font.DefaultCache as
// typeface name. Either all faces are registered or none are.
func Register(ctx context.Context, name string, faces ...Face) error {
	var coll font.Collection
	for _, f := range faces {
		otf, err := load(ctx, f.Src)
		if err != nil {
			return fmt.Errorf("font %s: %w", name, err)
		}
		coll = append(coll, font.Face{
			Font: font.Font{Typeface: font.Typeface(name), Weight: f.Weight, Style: f.Style},
			Face: otf,
		})
	}
	font.DefaultCache.Add(coll)
	return nil
}

func load(ctx context.Context, src string) (*opentype.Font, error) {
	rc, err := dataset.Open(ctx, src)
	if err != nil {
		return nil, err
	}
	defer rc.Close()
	data, err := io.ReadAll(rc)
	if err != nil {
		return nil, err
	}
	otf, err := opentype.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %v", src, err)
	}
	return otf, nil
}

// Has reports whether typeface name has a regular face in the cache.
func Has(name string) bool {
	return font.DefaultCache.Has(font.Font{Typeface: font.Typeface(name)})
}

// Resolve returns f if its typeface is in the cache and otherwise
// the same weight, style and size of the fallback typeface. An empty
// typeface always resolves to the fallback.
func Resolve(f font.Font) font.Font {
	if f.Typeface != "" && font.DefaultCache.Has(font.Font{Typeface: f.Typeface, Variant: f.Variant}) {
		return f
	}
	f.Typeface, f.Variant = Fallback.Typeface, Fallback.Variant
	return f
}

// Dirs returns the directories searched for installed fonts on this
// system.
func Dirs() []string {
	home, _ := os.UserHomeDir()
	var dirs []string
	switch runtime.GOOS {
	case "windows":
		dirs = append(dirs, filepath.Join(os.Getenv("WINDIR"), "Fonts"))
		if local := os.Getenv("LOCALAPPDATA"); local != "" {
			dirs = append(dirs, filepath.Join(local, "Microsoft", "Windows", "Fonts"))
		}
	case "darwin":
		dirs = append(dirs, "/System/Library/Fonts", "/Library/Fonts")
		if home != "" {
			dirs = append(dirs, filepath.Join(home, "Library", "Fonts"))
		}
	default:
		dirs = append(dirs, "/usr/share/fonts", "/usr/local/share/fonts")
		if home != "" {
			dirs = append(dirs, filepath.Join(home, ".fonts"), filepath.Join(home, ".local", "share", "fonts"))
		}
	}
	return dirs
}

// Find searches dirs recursively for font files whose base name
// starts with name, ignoring case. It returns the matching paths
// sorted so the regular face ("Gadugi.ttf") precedes its variants
// ("GadugiBold.ttf"). Missing directories are skipped.
func Find(name string, dirs ...string) []string {
	pattern := "**/" + name + "*.{ttf,otf}"
	var paths []string
	for _, dir := range dirs {
		matches, err := doublestar.Glob(os.DirFS(dir), pattern, doublestar.WithCaseInsensitive(), doublestar.WithFilesOnly())
		if err != nil {
			continue
		}
		for _, m := range matches {
			paths = append(paths, filepath.Join(dir, filepath.FromSlash(m)))
		}
	}
	sort.SliceStable(paths, func(i, j int) bool {
		bi, bj := baseName(paths[i]), baseName(paths[j])
		if len(bi) != len(bj) {
			return len(bi) < len(bj)
		}
		return bi < bj
	})
	return paths
}

func baseName(path string) string {
	base := filepath.Base(path)
	return strings.ToLower(strings.TrimSuffix(base, filepath.Ext(base)))
}

// RegisterSystem registers the installed typeface name, if it can be
// found in dirs (or Dirs if none are given). A file whose name ends
// in "b" or "bold" is registered as the bold face. It reports whether
// a regular face was registered.
func RegisterSystem(ctx context.Context, name string, dirs ...string) (bool, error) {
	if len(dirs) == 0 {
		dirs = Dirs()
	}
	paths := Find(name, dirs...)
	if len(paths) == 0 {
		return false, nil
	}
	faces := []Face{{Src: paths[0]}}
	lname := strings.ToLower(name)
	for _, p := range paths[1:] {
		switch strings.TrimPrefix(baseName(p), lname) {
		case "b", "bd", "bold", "-bold", "_bold":
			faces = append(faces, Face{Weight: xfont.WeightBold, Src: p})
		}
	}
	if err := Register(ctx, name, faces...); err != nil {
		return false, err
	}
	return true, nil
}
