// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package convert implements the document, image, and media operations
// behind every backend endpoint. Operations work on in-memory uploads and
// return the finished file; the few that need an external program get it
// from a Toolchain.
package convert

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/pdiddy/nexus-tools/internal/toolchain"
)

// ErrInvalidInput marks failures caused by the request rather than by the
// server: a bad page range, an unsupported rotation, an unreadable image.
var ErrInvalidInput = errors.New("invalid input")

func invalidf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidInput, fmt.Sprintf(format, args...))
}

// Content types used by the operations.
const (
	TypePDF  = "application/pdf"
	TypeText = "text/plain; charset=utf-8"
	TypeCSV  = "text/csv; charset=utf-8"
	TypeZip  = "application/zip"
	TypeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	TypeDOCX = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
	TypePPTX = "application/vnd.openxmlformats-officedocument.presentationml.presentation"
)

// Input is one uploaded file.
type Input struct {
	Name string
	Data []byte
}

// Request carries the uploaded files, in form order, and the string form
// values of one call.
type Request struct {
	Files  []Input
	Values map[string]string
}

// File returns the first uploaded file.
func (r *Request) File() (Input, error) {
	if len(r.Files) == 0 {
		return Input{}, invalidf("no file uploaded")
	}
	return r.Files[0], nil
}

// String returns the trimmed form value for key, or def when it is empty.
func (r *Request) String(key, def string) string {
	if v := strings.TrimSpace(r.Values[key]); v != "" {
		return v
	}
	return def
}

// Int parses the form value for key, returning def when it is empty.
func (r *Request) Int(key string, def int) (int, error) {
	v := r.String(key, "")
	if v == "" {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, invalidf("%s must be a whole number, got %q", key, v)
	}
	return n, nil
}

// Output is a finished conversion.
type Output struct {
	Filename    string
	ContentType string
	Data        []byte
}

func pdfOutput(name string, data []byte) *Output {
	return &Output{Filename: name, ContentType: TypePDF, Data: data}
}

// Operation performs one endpoint's work.
type Operation func(ctx context.Context, req *Request) (*Output, error)

// Toolchain resolves external programs.
type Toolchain interface {
	Lookup(name string) (toolchain.Runner, error)
}

const (
	defaultFetchTimeout = 10 * time.Second
	defaultMaxFetch     = 10 << 20
	defaultWorkers      = 4
)

// Service holds the dependencies shared by operations.
type Service struct {
	tools        Toolchain
	http         *http.Client
	fetchTimeout time.Duration
	maxFetch     int64
	workers      int
}

// Option configures a Service.
type Option func(*Service)

// WithHTTPClient sets the client used to fetch web pages.
func WithHTTPClient(hc *http.Client) Option {
	return func(s *Service) { s.http = hc }
}

// WithWorkers bounds how many pages are rasterised or recognised at once.
func WithWorkers(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.workers = n
		}
	}
}

// NewService creates a Service. tools may be nil, in which case every
// operation that needs an external program fails with
// toolchain.ErrUnavailable.
func NewService(tools Toolchain, opts ...Option) *Service {
	s := &Service{
		tools:        tools,
		http:         &http.Client{},
		fetchTimeout: defaultFetchTimeout,
		maxFetch:     defaultMaxFetch,
		workers:      defaultWorkers,
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

// Operations maps each endpoint path to its implementation.
func (s *Service) Operations() map[string]Operation {
	return map[string]Operation{
		// PDF core
		"/api/merge-pdfs":   mergePDFs,
		"/api/split-pdf":    splitPDF,
		"/api/compress-pdf": compressPDF,
		"/api/rotate-pdf":   rotatePDF,
		"/api/organize-pdf": organizePDF,

		// From PDF
		"/api/pdf-to-word":  s.pdfToWord,
		"/api/pdf-to-ppt":   s.pdfToPPT,
		"/api/pdf-to-excel": pdfToExcel,
		"/api/pdf-to-jpg":   s.pdfToJPG,
		"/api/pdf-to-pdfa":  s.pdfToPDFA,

		// To PDF
		"/api/word-to-pdf":  docxToPDF,
		"/api/ppt-to-pdf":   pptToPDF,
		"/api/excel-to-pdf": excelToPDF,
		"/api/img-to-pdf":   imagesToPDF,
		"/api/html-to-pdf":  s.htmlToPDF,

		// Security
		"/api/lock-pdf":      lockPDF,
		"/api/unlock-pdf":    unlockPDF,
		"/api/watermark-pdf": watermarkPDF,
		"/api/redact-pdf":    s.redactPDF,

		// Advanced
		"/api/add-page-numbers":  addPageNumbers,
		"/api/ocr-pdf":           s.ocrPDF,
		"/api/compare-pdf":       comparePDFs,
		"/api/crop-pdf":          cropPDF,
		"/api/repair-pdf":        repairPDF,
		"/api/extract-text":      extractText,
		"/api/edit-pdf-metadata": editMetadata,

		// Images
		"/api/convert-format": s.convertFormat,
		"/api/resize-image":   resizeImage,
		"/api/clean-metadata": cleanMetadata,

		// Media
		"/api/extract-audio": s.extractAudio,
		"/api/video-to-gif":  s.videoToGIF,

		// Office and documents
		"/api/csv-to-excel": csvToExcel,
		"/api/excel-to-csv": excelToCSV,
		"/api/create-zip":   createZip,
		"/api/docx-to-pdf":  docxToPDF,
		"/api/md-to-pdf":    markdownToPDF,

		// Utilities
		"/api/epub-to-text": epubToText,
		"/api/code-to-pdf":  codeToPDF,
		"/api/file-hash":    fileHash,
	}
}

func (s *Service) lookup(name string) (toolchain.Runner, error) {
	if s.tools == nil {
		return nil, fmt.Errorf("%w: %s", toolchain.ErrUnavailable, name)
	}
	return s.tools.Lookup(name)
}

// workdir creates a private scratch directory and returns it with its
// cleanup function.
func workdir() (string, func(), error) {
	dir := filepath.Join(os.TempDir(), "nexustools-"+uuid.NewString())
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return "", nil, fmt.Errorf("creating work directory: %w", err)
	}
	return dir, func() { os.RemoveAll(dir) }, nil
}

// baseName strips any directory part a client put into an upload name.
func baseName(name, fallback string) string {
	name = filepath.Base(strings.ReplaceAll(name, "\\", "/"))
	if name == "." || name == "/" || name == "" {
		return fallback
	}
	return name
}
