// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package convert

import (
	"archive/zip"
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/pdiddy/nexus-tools/internal/toolchain"
)

// runFile writes the upload into a scratch directory as inName, runs the
// named tool with args built from the input and output paths, and returns
// the bytes of outName.
func (s *Service) runFile(ctx context.Context, tool string, in Input, inName, outName string, args func(inPath, outPath, dir string) []string) ([]byte, error) {
	r, err := s.lookup(tool)
	if err != nil {
		return nil, err
	}
	dir, cleanup, err := workdir()
	if err != nil {
		return nil, err
	}
	defer cleanup()

	inPath := filepath.Join(dir, inName)
	outPath := filepath.Join(dir, outName)
	if err := os.WriteFile(inPath, in.Data, 0o600); err != nil {
		return nil, fmt.Errorf("staging %s: %w", in.Name, err)
	}
	if err := r.Run(ctx, args(inPath, outPath, dir), nil, nil); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(outPath)
	if err != nil {
		return nil, fmt.Errorf("%s produced no output: %w", r.Name(), err)
	}
	return data, nil
}

func inputExt(in Input, def string) string {
	if ext := strings.ToLower(filepath.Ext(in.Name)); ext != "" {
		return ext
	}
	return def
}

func (s *Service) extractAudio(ctx context.Context, req *Request) (*Output, error) {
	in, err := req.File()
	if err != nil {
		return nil, err
	}
	data, err := s.runFile(ctx, toolchain.FFmpeg, in, "input"+inputExt(in, ".mp4"), "audio.mp3",
		func(inPath, outPath, _ string) []string {
			return []string{"-hide_banner", "-loglevel", "error", "-y", "-i", inPath, "-vn", "-acodec", "libmp3lame", "-q:a", "2", outPath}
		})
	if err != nil {
		return nil, fmt.Errorf("extracting audio: %w", err)
	}
	return &Output{Filename: "audio.mp3", ContentType: "audio/mpeg", Data: data}, nil
}

const gifFPS = 10

func (s *Service) videoToGIF(ctx context.Context, req *Request) (*Output, error) {
	in, err := req.File()
	if err != nil {
		return nil, err
	}
	start, err := req.Int("start_time", 0)
	if err != nil {
		return nil, err
	}
	end, err := req.Int("end_time", 5)
	if err != nil {
		return nil, err
	}
	if start < 0 || end <= start {
		return nil, invalidf("end_time must be greater than start_time")
	}

	data, err := s.runFile(ctx, toolchain.FFmpeg, in, "input"+inputExt(in, ".mp4"), "clip.gif",
		func(inPath, outPath, _ string) []string {
			return []string{
				"-hide_banner", "-loglevel", "error", "-y",
				"-ss", strconv.Itoa(start), "-t", strconv.Itoa(end - start), "-i", inPath,
				"-vf", fmt.Sprintf("fps=%d,scale=480:-1:flags=lanczos", gifFPS),
				"-loop", "0", outPath,
			}
		})
	if err != nil {
		return nil, fmt.Errorf("creating GIF: %w", err)
	}
	return &Output{Filename: "clip.gif", ContentType: "image/gif", Data: data}, nil
}

// rasterise renders every page of a PDF to an image file with pdftoppm,
// several pages at a time. format is "jpeg" or "png". It returns the image
// paths in page order; they live in dir.
func (s *Service) rasterise(ctx context.Context, data []byte, dir, format string, dpi int) ([]string, error) {
	pp, err := s.lookup(toolchain.Pdftoppm)
	if err != nil {
		return nil, err
	}
	total, err := pageCount(data)
	if err != nil {
		return nil, err
	}
	src := filepath.Join(dir, "source.pdf")
	if err := os.WriteFile(src, data, 0o600); err != nil {
		return nil, fmt.Errorf("staging PDF: %w", err)
	}

	ext := ".png"
	if format == "jpeg" {
		ext = ".jpg"
	}
	paths := make([]string, total)
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.workers)
	for i := 1; i <= total; i++ {
		prefix := filepath.Join(dir, fmt.Sprintf("page_%d", i))
		paths[i-1] = prefix + ext
		g.Go(func() error {
			args := []string{"-" + format, "-r", strconv.Itoa(dpi), "-f", strconv.Itoa(i), "-l", strconv.Itoa(i), "-singlefile"}
			if format == "jpeg" {
				args = append(args, "-jpegopt", "quality=95")
			}
			args = append(args, src, prefix)
			if err := pp.Run(gctx, args, nil, nil); err != nil {
				return fmt.Errorf("rendering page %d: %w", i, err)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return paths, nil
}

func (s *Service) pdfToJPG(ctx context.Context, req *Request) (*Output, error) {
	in, err := req.File()
	if err != nil {
		return nil, err
	}
	dir, cleanup, err := workdir()
	if err != nil {
		return nil, err
	}
	defer cleanup()

	paths, err := s.rasterise(ctx, in.Data, dir, "jpeg", 150)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for i, p := range paths {
		img, err := os.ReadFile(p)
		if err != nil {
			return nil, fmt.Errorf("reading page %d: %w", i+1, err)
		}
		w, err := zw.Create(fmt.Sprintf("page_%d.jpg", i+1))
		if err != nil {
			return nil, err
		}
		if _, err := w.Write(img); err != nil {
			return nil, err
		}
	}
	if err := zw.Close(); err != nil {
		return nil, fmt.Errorf("writing archive: %w", err)
	}
	return &Output{Filename: "pdf_images.zip", ContentType: TypeZip, Data: buf.Bytes()}, nil
}

func (s *Service) ocrPDF(ctx context.Context, req *Request) (*Output, error) {
	in, err := req.File()
	if err != nil {
		return nil, err
	}
	tess, err := s.lookup(toolchain.Tesseract)
	if err != nil {
		return nil, err
	}
	dir, cleanup, err := workdir()
	if err != nil {
		return nil, err
	}
	defer cleanup()

	images, err := s.rasterise(ctx, in.Data, dir, "png", 300)
	if err != nil {
		return nil, err
	}

	texts := make([]string, len(images))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.workers)
	for i, img := range images {
		g.Go(func() error {
			var out bytes.Buffer
			if err := tess.Run(gctx, []string{img, "stdout"}, nil, &out); err != nil {
				return fmt.Errorf("recognising page %d: %w", i+1, err)
			}
			texts[i] = out.String()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	doc := newDocument()
	for i, text := range texts {
		if i > 0 {
			doc.newPage()
		}
		var lines []string
		for _, l := range strings.Split(text, "\n") {
			if strings.TrimSpace(l) != "" {
				lines = append(lines, l)
			}
		}
		doc.lines(lines)
	}
	data, err := doc.bytes()
	if err != nil {
		return nil, err
	}
	return pdfOutput("ocr_result.pdf", data), nil
}

// officeImport converts a PDF with LibreOffice using the given import
// filter and target extension.
func (s *Service) officeImport(ctx context.Context, in Input, filter, ext string) ([]byte, error) {
	return s.runFile(ctx, toolchain.Office, in, "document.pdf", "document."+ext,
		func(inPath, _, dir string) []string {
			return []string{"--headless", "--infilter=" + filter, "--convert-to", ext, "--outdir", dir, inPath}
		})
}

func (s *Service) pdfToWord(ctx context.Context, req *Request) (*Output, error) {
	in, err := req.File()
	if err != nil {
		return nil, err
	}
	data, err := s.officeImport(ctx, in, "writer_pdf_import", "docx")
	if err != nil {
		return nil, fmt.Errorf("converting to Word: %w", err)
	}
	return &Output{Filename: "document.docx", ContentType: TypeDOCX, Data: data}, nil
}

func (s *Service) pdfToPPT(ctx context.Context, req *Request) (*Output, error) {
	in, err := req.File()
	if err != nil {
		return nil, err
	}
	data, err := s.officeImport(ctx, in, "impress_pdf_import", "pptx")
	if err != nil {
		return nil, fmt.Errorf("converting to PowerPoint: %w", err)
	}
	return &Output{Filename: "presentation.pptx", ContentType: TypePPTX, Data: data}, nil
}

func (s *Service) pdfToPDFA(ctx context.Context, req *Request) (*Output, error) {
	in, err := req.File()
	if err != nil {
		return nil, err
	}
	data, err := s.runFile(ctx, toolchain.Ghostscript, in, "input.pdf", "archive.pdf",
		func(inPath, outPath, _ string) []string {
			return []string{
				"-dPDFA=2", "-dBATCH", "-dNOPAUSE", "-dQUIET", "-dNOOUTERSAVE",
				"-sColorConversionStrategy=RGB", "-dPDFACompatibilityPolicy=1",
				"-sDEVICE=pdfwrite", "-sOutputFile=" + outPath, inPath,
			}
		})
	if err != nil {
		return nil, fmt.Errorf("converting to PDF/A: %w", err)
	}
	return pdfOutput("archive_pdfa.pdf", data), nil
}
