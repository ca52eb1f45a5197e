// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package convert

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/types"
)

func init() {
	api.DisableConfigDir()
}

func pdfConf() *model.Configuration {
	conf := model.NewDefaultConfiguration()
	conf.ValidationMode = model.ValidationRelaxed
	return conf
}

// pageCount returns the number of pages in a PDF held in memory.
func pageCount(data []byte) (int, error) {
	n, err := api.PageCount(bytes.NewReader(data), pdfConf())
	if err != nil {
		return 0, fmt.Errorf("reading PDF: %w", err)
	}
	return n, nil
}

// stampText draws text on the selected pages (all when nil) as a pdfcpu
// stamp described by desc.
func stampText(data []byte, pages []string, text, desc string) ([]byte, error) {
	wm, err := api.TextWatermark(text, desc, true, false, types.POINTS)
	if err != nil {
		return nil, invalidf("bad stamp: %v", err)
	}
	return transform(data, func(rs io.ReadSeeker, w io.Writer) error {
		return api.AddWatermarks(rs, w, pages, wm, pdfConf())
	})
}

// transform runs one pdfcpu operation from data into a new buffer.
func transform(data []byte, op func(rs io.ReadSeeker, w io.Writer) error) ([]byte, error) {
	var out bytes.Buffer
	if err := op(bytes.NewReader(data), &out); err != nil {
		return nil, err
	}
	return out.Bytes(), nil
}

func mergePDFs(_ context.Context, req *Request) (*Output, error) {
	if len(req.Files) < 2 {
		return nil, invalidf("need 2+ files")
	}
	rsc := make([]io.ReadSeeker, len(req.Files))
	for i, f := range req.Files {
		rsc[i] = bytes.NewReader(f.Data)
	}
	var out bytes.Buffer
	if err := api.MergeRaw(rsc, &out, false, pdfConf()); err != nil {
		return nil, fmt.Errorf("merging PDFs: %w", err)
	}
	return pdfOutput("merged.pdf", out.Bytes()), nil
}

func splitPDF(_ context.Context, req *Request) (*Output, error) {
	in, err := req.File()
	if err != nil {
		return nil, err
	}
	start, err := req.Int("start_page", 1)
	if err != nil {
		return nil, err
	}
	end, err := req.Int("end_page", 1)
	if err != nil {
		return nil, err
	}
	total, err := pageCount(in.Data)
	if err != nil {
		return nil, err
	}
	if start < 1 || end > total || start > end {
		return nil, invalidf("Invalid range. Document has %d pages.", total)
	}

	data, err := transform(in.Data, func(rs io.ReadSeeker, w io.Writer) error {
		return api.Trim(rs, w, []string{fmt.Sprintf("%d-%d", start, end)}, pdfConf())
	})
	if err != nil {
		return nil, fmt.Errorf("extracting pages %d-%d: %w", start, end, err)
	}
	return pdfOutput("extracted_pages.pdf", data), nil
}

func rotatePDF(_ context.Context, req *Request) (*Output, error) {
	in, err := req.File()
	if err != nil {
		return nil, err
	}
	rotation, err := req.Int("rotation", 90)
	if err != nil {
		return nil, err
	}
	switch rotation {
	case 90, 180, 270:
	default:
		return nil, invalidf("Rotation must be 90, 180, or 270")
	}

	data, err := transform(in.Data, func(rs io.ReadSeeker, w io.Writer) error {
		return api.Rotate(rs, w, rotation, nil, pdfConf())
	})
	if err != nil {
		return nil, fmt.Errorf("rotating PDF: %w", err)
	}
	return pdfOutput("rotated.pdf", data), nil
}

func compressPDF(_ context.Context, req *Request) (*Output, error) {
	in, err := req.File()
	if err != nil {
		return nil, err
	}
	conf := pdfConf()
	switch q := req.String("quality", "medium"); q {
	case "high":
	case "medium":
		conf.OptimizeDuplicateContentStreams = true
	case "low":
		conf.OptimizeDuplicateContentStreams = true
		conf.OptimizeResourceDicts = true
	default:
		return nil, invalidf("quality must be low, medium, or high, got %q", q)
	}

	data, err := transform(in.Data, func(rs io.ReadSeeker, w io.Writer) error {
		return api.Optimize(rs, w, conf)
	})
	if err != nil {
		return nil, fmt.Errorf("optimizing PDF: %w", err)
	}
	return pdfOutput("compressed.pdf", data), nil
}

// parsePageOrder expands a page list such as "1,3,2,4-7" into page
// numbers. Pages outside 1..total are dropped; duplicates are kept.
func parsePageOrder(list string, total int) ([]int, error) {
	var pages []int
	for _, part := range strings.Split(list, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		lo, hi := part, part
		if i := strings.Index(part, "-"); i > 0 {
			lo, hi = strings.TrimSpace(part[:i]), strings.TrimSpace(part[i+1:])
		}
		start, err := strconv.Atoi(lo)
		if err != nil {
			return nil, invalidf("bad page %q in page order", part)
		}
		end, err := strconv.Atoi(hi)
		if err != nil {
			return nil, invalidf("bad page %q in page order", part)
		}
		start, end = max(start, 1), min(end, total)
		for p := start; p <= end; p++ {
			pages = append(pages, p)
		}
	}
	return pages, nil
}

func organizePDF(_ context.Context, req *Request) (*Output, error) {
	in, err := req.File()
	if err != nil {
		return nil, err
	}
	order := req.String("page_order", "")
	if order == "" {
		return nil, invalidf("page_order is required")
	}
	total, err := pageCount(in.Data)
	if err != nil {
		return nil, err
	}
	pages, err := parsePageOrder(order, total)
	if err != nil {
		return nil, err
	}
	if len(pages) == 0 {
		return nil, invalidf("page order selects no pages; document has %d pages", total)
	}

	selected := make([]string, len(pages))
	for i, p := range pages {
		selected[i] = strconv.Itoa(p)
	}
	data, err := transform(in.Data, func(rs io.ReadSeeker, w io.Writer) error {
		return api.Collect(rs, w, selected, pdfConf())
	})
	if err != nil {
		return nil, fmt.Errorf("reordering pages: %w", err)
	}
	return pdfOutput("organized.pdf", data), nil
}

func lockPDF(_ context.Context, req *Request) (*Output, error) {
	in, err := req.File()
	if err != nil {
		return nil, err
	}
	pw := req.Values["password"]
	if pw == "" {
		return nil, invalidf("password is required")
	}
	conf := model.NewAESConfiguration(pw, pw, 256)
	conf.ValidationMode = model.ValidationRelaxed

	data, err := transform(in.Data, func(rs io.ReadSeeker, w io.Writer) error {
		return api.Encrypt(rs, w, conf)
	})
	if err != nil {
		return nil, fmt.Errorf("encrypting PDF: %w", err)
	}
	return pdfOutput("protected.pdf", data), nil
}

func unlockPDF(_ context.Context, req *Request) (*Output, error) {
	in, err := req.File()
	if err != nil {
		return nil, err
	}
	pw := req.Values["password"]
	conf := model.NewAESConfiguration(pw, pw, 256)
	conf.ValidationMode = model.ValidationRelaxed

	data, err := transform(in.Data, func(rs io.ReadSeeker, w io.Writer) error {
		return api.Decrypt(rs, w, conf)
	})
	if err != nil {
		return nil, invalidf("unlock failed, wrong password or not encrypted: %v", err)
	}
	return pdfOutput("unlocked.pdf", data), nil
}

func watermarkPDF(_ context.Context, req *Request) (*Output, error) {
	in, err := req.File()
	if err != nil {
		return nil, err
	}
	text := strings.ToUpper(req.String("text", "CONFIDENTIAL"))
	desc := "fontname:Helvetica-Bold, points:60, scalefactor:1 abs, rotation:45, fillcolor:#808080, opacity:0.3"

	data, err := stampText(in.Data, nil, text, desc)
	if err != nil {
		return nil, fmt.Errorf("watermarking PDF: %w", err)
	}
	return pdfOutput("watermarked.pdf", data), nil
}

// pagePositions maps the position option to a pdfcpu anchor and offset.
var pagePositions = map[string]struct{ anchor, offset string }{
	"top-left":      {"tl", "50 -30"},
	"top-center":    {"tc", "0 -30"},
	"top-right":     {"tr", "-50 -30"},
	"bottom-left":   {"bl", "50 30"},
	"bottom-center": {"bc", "0 30"},
	"bottom-right":  {"br", "-50 30"},
}

func addPageNumbers(_ context.Context, req *Request) (*Output, error) {
	in, err := req.File()
	if err != nil {
		return nil, err
	}
	position := req.String("position", "bottom-center")
	pos, ok := pagePositions[position]
	if !ok {
		return nil, invalidf("unknown position %q", position)
	}
	desc := fmt.Sprintf("fontname:Helvetica, points:10, scalefactor:1 abs, rotation:0, fillcolor:#000000, position:%s, offset:%s",
		pos.anchor, pos.offset)

	// pdfcpu expands %p to the current page number.
	data, err := stampText(in.Data, nil, "%p", desc)
	if err != nil {
		return nil, fmt.Errorf("numbering pages: %w", err)
	}
	return pdfOutput("numbered.pdf", data), nil
}

func cropPDF(_ context.Context, req *Request) (*Output, error) {
	in, err := req.File()
	if err != nil {
		return nil, err
	}
	margin, err := req.Int("margin", 50)
	if err != nil {
		return nil, err
	}
	if margin < 0 {
		return nil, invalidf("margin must not be negative")
	}
	box, err := model.ParseBox(strconv.Itoa(margin), types.POINTS)
	if err != nil {
		return nil, invalidf("bad margin: %v", err)
	}

	data, err := transform(in.Data, func(rs io.ReadSeeker, w io.Writer) error {
		return api.Crop(rs, w, nil, box, pdfConf())
	})
	if err != nil {
		return nil, fmt.Errorf("cropping PDF: %w", err)
	}
	return pdfOutput("cropped.pdf", data), nil
}

func repairPDF(_ context.Context, req *Request) (*Output, error) {
	in, err := req.File()
	if err != nil {
		return nil, err
	}
	data, err := transform(in.Data, func(rs io.ReadSeeker, w io.Writer) error {
		return api.Optimize(rs, w, pdfConf())
	})
	if err != nil {
		return nil, fmt.Errorf("file may be too damaged: %w", err)
	}
	return pdfOutput("repaired.pdf", data), nil
}

func editMetadata(_ context.Context, req *Request) (*Output, error) {
	in, err := req.File()
	if err != nil {
		return nil, err
	}
	props := make(map[string]string)
	if t := req.String("title", ""); t != "" {
		props["Title"] = t
	}
	if a := req.String("author", ""); a != "" {
		props["Author"] = a
	}
	if len(props) == 0 {
		return pdfOutput("meta.pdf", in.Data), nil
	}

	data, err := transform(in.Data, func(rs io.ReadSeeker, w io.Writer) error {
		return api.AddProperties(rs, w, props, pdfConf())
	})
	if err != nil {
		return nil, fmt.Errorf("setting metadata: %w", err)
	}
	return pdfOutput("meta.pdf", data), nil
}
