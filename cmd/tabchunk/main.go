// Command tabchunk converts CSV and Excel files into chunked text files.
//
// Usage:
//
//	tabchunk [flags] file...
//
// Each input is written to <out>/<name>.txt, where <name> is the input's base
// name without its extension. A document that fails to extract produces no
// output file. The exit status is 1 if any document failed.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"sync"
	"sync/atomic"
	"syscall"

	"golang.org/x/sync/errgroup"

	"github.com/tsawler/tabchunk"
	"github.com/tsawler/tabchunk/config"
	"github.com/tsawler/tabchunk/format"
	"github.com/tsawler/tabchunk/fsutil"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	os.Exit(run(ctx, os.Args[1:], os.Stdout, os.Stderr))
}

// run executes the command and returns the process exit status.
func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("tabchunk", flag.ContinueOnError)
	fs.SetOutput(stderr)
	configPath := fs.String("config", "", "Path to config file (optional)")
	key := fs.String("key", "", "Unique key column (overrides config)")
	maxLen := fs.Int("max", 0, "Maximum characters per chunk (overrides config)")
	outDir := fs.String("out", "", "Output directory (overrides config)")
	workers := fs.Int("workers", 0, "Documents processed in parallel (overrides config)")
	meta := fs.Bool("meta", false, "Print document metadata as JSON lines")
	fs.Usage = func() {
		fmt.Fprintf(stderr, "Usage: tabchunk [flags] file...\n\nSupported extensions: %s\n\nFlags:\n",
			strings.Join(tabchunk.Extensions(), ", "))
		fs.PrintDefaults()
	}

	if err := fs.Parse(args); err != nil {
		return 2
	}
	if fs.NArg() == 0 {
		fs.Usage()
		return 2
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(stderr, "failed to load config: %v\n", err)
		return 2
	}
	if *key != "" {
		cfg.UniqueKey = *key
	}
	if *maxLen != 0 {
		cfg.MaxLen = *maxLen
	}
	if *outDir != "" {
		cfg.OutputDir = *outDir
	}
	if *workers != 0 {
		cfg.Workers = *workers
	}
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(stderr, "invalid configuration: %v\n", err)
		return 2
	}

	level, _ := config.ParseLevel(cfg.LogLevel)
	logger := slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level}))

	b := &batch{
		cfg:    cfg,
		logger: logger,
		meta:   *meta,
		stdout: stdout,
	}
	failed := b.process(ctx, fs.Args())

	if failed > 0 {
		logger.Error("batch finished with failures", "failed", failed, "total", fs.NArg())
		return 1
	}
	logger.Info("batch finished", "total", fs.NArg())
	return 0
}

// batch processes documents with bounded parallelism. Each document is
// extracted by a single goroutine.
type batch struct {
	cfg    *config.Config
	logger *slog.Logger
	meta   bool

	mu     sync.Mutex // guards stdout
	stdout io.Writer
}

// process handles every path and returns the number of failed documents.
func (b *batch) process(ctx context.Context, paths []string) int {
	var failed atomic.Int64

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(b.cfg.Workers)

	for _, path := range paths {
		path := path
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				b.logger.Warn("skipped", "path", path, "error", err)
				failed.Add(1)
				return nil
			}
			if err := b.processOne(path); err != nil {
				b.logger.Error("extraction failed", "path", path, "kind", errorKind(err), "error", err)
				failed.Add(1)
			}
			return nil
		})
	}
	_ = g.Wait()

	return int(failed.Load())
}

func (b *batch) processOne(path string) error {
	doc, err := tabchunk.Resolve(path, b.cfg.Options(b.logger))
	if err != nil {
		return err
	}

	if b.meta {
		m, err := doc.ExtractMetadata()
		if err != nil {
			return err
		}
		if err := b.printMetadata(path, m); err != nil {
			return err
		}
	}

	text, err := doc.ExtractText()
	if err != nil {
		return err
	}

	out := OutputPath(b.cfg.OutputDir, path)
	if err := fsutil.Save(out, text, b.cfg.OutputEncoding); err != nil {
		return err
	}
	b.logger.Info("extracted", "path", path, "output", out, "bytes", len(text))
	return nil
}

func (b *batch) printMetadata(path string, m map[string]any) error {
	line, err := json.Marshal(struct {
		Path     string         `json:"path"`
		Metadata map[string]any `json:"metadata"`
	}{path, m})
	if err != nil {
		return fmt.Errorf("encoding metadata: %w", err)
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	_, err = fmt.Fprintln(b.stdout, string(line))
	return err
}

// OutputPath returns <dir>/<name>.txt for input path.
func OutputPath(dir, path string) string {
	base := filepath.Base(path)
	name := strings.TrimSuffix(base, filepath.Ext(base))
	return filepath.Join(dir, name+".txt")
}

// errorKind names the error category for logging.
func errorKind(err error) string {
	switch {
	case errors.Is(err, format.ErrUnsupportedFormat):
		return "unsupported_format"
	case errors.Is(err, format.ErrFileCorruption):
		return "file_corruption"
	case errors.Is(err, format.ErrPasswordProtected):
		return "password_protected"
	case errors.Is(err, os.ErrNotExist):
		return "not_found"
	case errors.Is(err, os.ErrPermission):
		return "permission"
	default:
		return "other"
	}
}
