// Copyright 2025 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package chart

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"hash/crc32"
	"image"
	"image/color"
	"image/png"
	"io"
	"math"
	"os"
	"path/filepath"

	"golang.org/x/image/draw"
	"gonum.org/v1/plot/vg"
)

// ErrIO is matched (via errors.Is) by errors writing a figure.
var ErrIO = errors.New("write failed")

// ExportOptions control how a figure is written.
type ExportOptions struct {
	// Tight crops the image to the pixels that differ from the
	// figure background, plus Pad.
	Tight bool

	// Pad is the space kept around the content when Tight is set.
	// Zero means 0.1in.
	Pad vg.Length
}

// Save writes f as a PNG file at path, creating its directory if
// needed.
func (f *Figure) Save(path string, opts ExportOptions) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0777); err != nil {
			return fmt.Errorf("%w: %v", ErrIO, err)
		}
	}
	out, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrIO, err)
	}
	if err := f.WritePNG(out, opts); err != nil {
		out.Close()
		return err
	}
	if err := out.Close(); err != nil {
		return fmt.Errorf("%w: %v", ErrIO, err)
	}
	return nil
}

// WritePNG writes f to w as a PNG that records the figure's DPI.
func (f *Figure) WritePNG(w io.Writer, opts ExportOptions) error {
	img := f.Image()
	if opts.Tight {
		pad := opts.Pad
		if pad == 0 {
			pad = vg.Inch / 10
		}
		img = crop(img, f.style.background, int(pad.Dots(float64(f.Size.DPI))+0.5))
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return fmt.Errorf("%w: %v", ErrIO, err)
	}
	data := withDPI(buf.Bytes(), f.Size.DPI)
	if _, err := w.Write(data); err != nil {
		return fmt.Errorf("%w: %v", ErrIO, err)
	}
	return nil
}

// crop returns the part of img that differs from bg, grown by pad
// pixels on each side. If all of img is bg, it returns img.
func crop(img image.Image, bg color.Color, pad int) image.Image {
	b := img.Bounds()
	br, bgg, bb, ba := bg.RGBA()
	box := image.Rectangle{Min: b.Max, Max: b.Min}
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			r, g, bl, a := img.At(x, y).RGBA()
			if r == br && g == bgg && bl == bb && a == ba {
				continue
			}
			if x < box.Min.X {
				box.Min.X = x
			}
			if y < box.Min.Y {
				box.Min.Y = y
			}
			if x >= box.Max.X {
				box.Max.X = x + 1
			}
			if y >= box.Max.Y {
				box.Max.Y = y + 1
			}
		}
	}
	if box.Empty() {
		return img
	}
	box = box.Inset(-pad).Intersect(b)
	dst := image.NewRGBA(image.Rect(0, 0, box.Dx(), box.Dy()))
	draw.Copy(dst, image.Point{}, img, box, draw.Src, nil)
	return dst
}

// withDPI inserts a pHYs chunk recording dpi after the IHDR chunk of
// the PNG data.
func withDPI(data []byte, dpi int) []byte {
	const ihdrEnd = 8 + 4 + 4 + 13 + 4 // signature, length, type, data, CRC
	if len(data) < ihdrEnd {
		return data
	}
	ppm := uint32(math.Round(float64(dpi) / 0.0254))
	chunk := make([]byte, 4+4+9+4)
	binary.BigEndian.PutUint32(chunk[0:], 9)
	copy(chunk[4:], "pHYs")
	binary.BigEndian.PutUint32(chunk[8:], ppm)
	binary.BigEndian.PutUint32(chunk[12:], ppm)
	chunk[16] = 1 // meters
	binary.BigEndian.PutUint32(chunk[17:], crc32.ChecksumIEEE(chunk[4:17]))

	out := make([]byte, 0, len(data)+len(chunk))
	out = append(out, data[:ihdrEnd]...)
	out = append(out, chunk...)
	return append(out, data[ihdrEnd:]...)
}

// DPI returns the resolution recorded in the pHYs chunk of PNG data,
// or 0 if there is none.
func DPI(data []byte) float64 {
	if len(data) < 8 {
		return 0
	}
	for p := data[8:]; len(p) >= 12; {
		n := int(binary.BigEndian.Uint32(p))
		if len(p) < 12+n {
			break
		}
		switch string(p[4:8]) {
		case "pHYs":
			if n != 9 || p[16] != 1 {
				return 0
			}
			return float64(binary.BigEndian.Uint32(p[8:])) * 0.0254
		case "IDAT", "IEND":
			return 0
		}
		p = p[12+n:]
	}
	return 0
}
