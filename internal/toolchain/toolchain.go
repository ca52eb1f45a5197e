// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package toolchain finds and runs the external programs some conversions
// delegate to: ffmpeg for media, LibreOffice for office documents, poppler
// for rasterising PDF pages, tesseract for OCR, and Ghostscript for PDF/A.
package toolchain

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os/exec"
	"strings"
	"sync"
)

// Tool names accepted by Lookup.
const (
	FFmpeg      = "ffmpeg"
	Office      = "soffice"
	Pdftoppm    = "pdftoppm"
	Tesseract   = "tesseract"
	Ghostscript = "gs"
)

// ErrUnavailable is returned when no binary for a tool is installed.
var ErrUnavailable = errors.New("external tool unavailable")

// candidates lists the binaries tried for each tool, in order.
var candidates = map[string][]string{
	FFmpeg:      {"ffmpeg"},
	Office:      {"soffice", "libreoffice"},
	Pdftoppm:    {"pdftoppm"},
	Tesseract:   {"tesseract"},
	Ghostscript: {"gs", "gswin64c"},
}

// Names returns every tool name in a stable order.
func Names() []string {
	return []string{FFmpeg, Office, Pdftoppm, Tesseract, Ghostscript}
}

// Runner runs one external program.
type Runner interface {
	// Name returns the binary that will be executed.
	Name() string

	// Run executes the binary with args. stdin may be nil. When stdout is
	// nil the program's output is discarded. On failure the error carries
	// the tail of the program's stderr.
	Run(ctx context.Context, args []string, stdin io.Reader, stdout io.Writer) error
}

// executor abstracts command execution for testing.
type executor interface {
	LookPath(file string) (string, error)
	Run(ctx context.Context, name string, args []string, stdin io.Reader, stdout, stderr io.Writer) error
}

// osExecutor is the production executor backed by os/exec.
type osExecutor struct{}

func (o *osExecutor) LookPath(file string) (string, error) {
	return exec.LookPath(file)
}

func (o *osExecutor) Run(ctx context.Context, name string, args []string, stdin io.Reader, stdout, stderr io.Writer) error {
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Stdin = stdin
	cmd.Stdout = stdout
	cmd.Stderr = stderr
	return cmd.Run()
}

type binary struct {
	bin  string
	exec executor
}

func (b *binary) Name() string { return b.bin }

const stderrTail = 512

func (b *binary) Run(ctx context.Context, args []string, stdin io.Reader, stdout io.Writer) error {
	if stdout == nil {
		stdout = io.Discard
	}
	var stderr bytes.Buffer
	if err := b.exec.Run(ctx, b.bin, args, stdin, stdout, &stderr); err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		msg := strings.TrimSpace(stderr.String())
		if len(msg) > stderrTail {
			msg = msg[len(msg)-stderrTail:]
		}
		if msg != "" {
			return fmt.Errorf("running %s: %w: %s", b.bin, err, msg)
		}
		return fmt.Errorf("running %s: %w", b.bin, err)
	}
	return nil
}

// Finder resolves tool names to installed binaries and caches the result.
type Finder struct {
	exec executor

	mu    sync.Mutex
	found map[string]string
}

// NewFinder returns a Finder that searches PATH.
func NewFinder() *Finder {
	return newFinder(&osExecutor{})
}

func newFinder(e executor) *Finder {
	return &Finder{exec: e, found: make(map[string]string)}
}

// Lookup returns a Runner for the named tool. It tries each known binary
// for the tool and fails with ErrUnavailable when none is on PATH.
func (f *Finder) Lookup(name string) (Runner, error) {
	bins, ok := candidates[name]
	if !ok {
		return nil, fmt.Errorf("unknown external tool %q", name)
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	if bin, ok := f.found[name]; ok {
		return &binary{bin: bin, exec: f.exec}, nil
	}
	for _, bin := range bins {
		if _, err := f.exec.LookPath(bin); err == nil {
			f.found[name] = bin
			return &binary{bin: bin, exec: f.exec}, nil
		}
	}
	return nil, fmt.Errorf("%w: %s (tried %s)", ErrUnavailable, name, strings.Join(bins, ", "))
}

// Status reports which tools are installed.
func (f *Finder) Status() map[string]bool {
	out := make(map[string]bool, len(candidates))
	for _, name := range Names() {
		_, err := f.Lookup(name)
		out[name] = err == nil
	}
	return out
}
