// Copyright 2025 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package cli runs the load, reshape, render and export pipeline
// shared by the chart commands.
package cli

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"runtime"
	"runtime/pprof"
	"time"

	"github.com/aclements/go-gg/table"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/tidytuesday/charts/chart"
	"github.com/tidytuesday/charts/internal/dataset"
	"github.com/tidytuesday/charts/internal/fonts"
)

// A Tool is one chart command.
type Tool struct {
	Name string

	// Out is the default output path.
	Out string

	// Size is the figure size and default DPI.
	Size chart.Size

	// Tight crops the output to its content.
	Tight bool

	// Theme is the base theme. The -theme flag overrides it.
	Theme chart.Theme

	// Build loads and reshapes the data and returns the plot.
	Build func(ctx context.Context, log *zap.Logger) (*chart.Plot, error)

	// Decorate, if non-nil, draws figure-level text on the
	// rendered figure.
	Decorate func(fig *chart.Figure) error
}

// Options are the flags common to every tool.
type Options struct {
	Out     string
	DPI     int
	Theme   string
	Table   bool
	SVG     string
	Verbose bool

	CPUProfile, MemProfile string
}

// RegisterFlags defines the common flags on fs with defaults from t.
func RegisterFlags(fs *flag.FlagSet, t *Tool) *Options {
	o := new(Options)
	fs.StringVar(&o.Out, "o", t.Out, "write PNG to `file`")
	fs.IntVar(&o.DPI, "dpi", t.Size.DPI, "output resolution in dots per inch")
	fs.StringVar(&o.Theme, "theme", "", "override the theme with YAML `file`")
	fs.BoolVar(&o.Table, "table", false, "print the plot data as a table instead of plotting")
	fs.StringVar(&o.SVG, "svg", "", "also write an SVG sketch to `file`")
	fs.BoolVar(&o.Verbose, "v", false, "log debug detail")
	fs.StringVar(&o.CPUProfile, "cpuprofile", "", "write CPU profile to `file`")
	fs.StringVar(&o.MemProfile, "memprofile", "", "write heap profile to `file`")
	return o
}

// NewLogger returns a console logger named name. It logs at info
// level, or debug level if verbose is set.
func NewLogger(name string, verbose bool) (*zap.Logger, error) {
	cfg := zap.NewProductionConfig()
	cfg.Encoding = "console"
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	cfg.DisableStacktrace = true
	cfg.Sampling = nil
	if verbose {
		cfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	}
	l, err := cfg.Build()
	if err != nil {
		return nil, err
	}
	return l.Named(name), nil
}

// Main parses the command line, runs t and exits. Tools may define
// their own flags on flag.CommandLine before calling Main.
func Main(t *Tool) {
	log.SetPrefix(t.Name + ": ")
	log.SetFlags(0)

	opts := RegisterFlags(flag.CommandLine, t)
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s [flags]\n", os.Args[0])
		flag.PrintDefaults()
	}
	flag.Parse()
	if flag.NArg() > 0 {
		flag.Usage()
		os.Exit(2)
	}

	logger, err := NewLogger(t.Name, opts.Verbose)
	if err != nil {
		log.Fatal(err)
	}
	defer logger.Sync()

	if opts.CPUProfile != "" {
		f, err := os.Create(opts.CPUProfile)
		if err != nil {
			log.Fatal(err)
		}
		pprof.StartCPUProfile(f)
		defer pprof.StopCPUProfile()
	}
	if opts.MemProfile != "" {
		defer func() {
			runtime.GC()
			f, err := os.Create(opts.MemProfile)
			if err != nil {
				log.Fatal(err)
			}
			pprof.WriteHeapProfile(f)
			f.Close()
		}()
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	err = Run(ctx, t, opts, logger, os.Stdout)
	stop()
	if err != nil {
		logger.Error("failed", zap.Error(err))
		logger.Sync()
		os.Exit(1)
	}
}

// Run builds, renders and saves t's chart. With opts.Table it instead
// prints the plot data to stdout.
func Run(ctx context.Context, t *Tool, opts *Options, logger *zap.Logger, stdout io.Writer) error {
	theme := t.Theme
	if opts.Theme != "" {
		var err error
		if theme, err = chart.LoadThemeFile(opts.Theme, theme); err != nil {
			return err
		}
		logger.Debug("loaded theme", zap.String("path", opts.Theme))
	}

	p, err := t.Build(ctx, logger)
	if err != nil {
		return err
	}
	p.Add(chart.WithTheme(theme))

	if opts.Table {
		table.Fprint(stdout, p.Data())
		return nil
	}

	if opts.SVG != "" {
		if err := writeSketch(p, opts.SVG); err != nil {
			return err
		}
		logger.Info("wrote sketch", zap.String("path", opts.SVG))
	}

	size := t.Size
	if opts.DPI > 0 {
		size.DPI = opts.DPI
	}
	start := time.Now()
	fig, err := p.Render(size)
	if err != nil {
		return fmt.Errorf("render: %w", err)
	}
	if t.Decorate != nil {
		if err := t.Decorate(fig); err != nil {
			return fmt.Errorf("render: %w", err)
		}
	}
	w, h := fig.Size.Pixels()
	logger.Debug("rendered",
		zap.Int("width", w),
		zap.Int("height", h),
		zap.Int("dpi", fig.Size.DPI),
		zap.Duration("elapsed", time.Since(start)))

	out := opts.Out
	if out == "" {
		out = t.Out
	}
	if err := fig.Save(out, chart.ExportOptions{Tight: t.Tight}); err != nil {
		return err
	}
	logger.Info("wrote chart",
		zap.String("path", out),
		zap.String("size", fmt.Sprintf("%dx%d", w, h)),
		zap.Int("dpi", fig.Size.DPI),
		zap.Bool("tight", t.Tight))
	return nil
}

func writeSketch(p *chart.Plot, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("%w: %v", chart.ErrIO, err)
	}
	if err := p.WriteSketch(f, 960, 640); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("%w: %v", chart.ErrIO, err)
	}
	return nil
}

// Load loads the CSV data set at src and logs its shape.
func Load(ctx context.Context, logger *zap.Logger, src string) (*table.Table, error) {
	start := time.Now()
	t, err := dataset.Load(ctx, src)
	if err != nil {
		return nil, err
	}
	logger.Info("loaded",
		zap.String("source", src),
		zap.Int("rows", t.Len()),
		zap.Strings("columns", t.Columns()),
		zap.Duration("elapsed", time.Since(start)))
	return t, nil
}

// Font makes typeface name available, first from the installed fonts
// and then from faces. If neither works, it logs a warning and charts
// drawn in name fall back to Liberation Sans.
func Font(ctx context.Context, logger *zap.Logger, name string, faces ...fonts.Face) {
	if fonts.Has(name) {
		return
	}
	ok, err := fonts.RegisterSystem(ctx, name)
	if ok {
		logger.Debug("using installed font", zap.String("font", name))
		return
	}
	if err != nil {
		logger.Debug("installed font unusable", zap.String("font", name), zap.Error(err))
	}
	if len(faces) > 0 {
		err = fonts.Register(ctx, name, faces...)
		if err == nil {
			logger.Debug("fetched font", zap.String("font", name))
			return
		}
	}
	logger.Warn("font unavailable, using fallback",
		zap.String("font", name),
		zap.String("fallback", string(fonts.Fallback.Typeface)),
		zap.Error(err))
}
