// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package convert

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"os"

	"github.com/go-pdf/fpdf"
	"golang.org/x/image/draw"
)

// redactDPI is the resolution redacted pages are flattened at.
const redactDPI = 150

// blackOut paints an opaque box over every run on img, a page rendered at
// dpi. Run coordinates are PDF points with the origin at the bottom left.
func blackOut(img image.Image, runs []textRun, dpi int) *image.RGBA {
	out := flatten(img)
	k := float64(dpi) / 72
	h := float64(out.Bounds().Dy())
	for _, r := range runs {
		box := image.Rect(
			int((r.X-1)*k),
			int(h-(r.Y+r.Size)*k),
			int((r.X+r.W+1)*k+0.5),
			int(h-(r.Y-r.Size/4)*k+0.5),
		).Intersect(out.Bounds())
		draw.Draw(out, box, image.NewUniform(color.Black), image.Point{}, draw.Src)
	}
	return out
}

// redactPDF removes every occurrence of the requested text. Each page that
// carries a match is rasterised, the matches are painted over, and the
// page is replaced by the image, so the text is gone from the file rather
// than hidden under a box. Pages without matches are flattened too. A PDF
// with no match is returned unchanged.
func (s *Service) redactPDF(ctx context.Context, req *Request) (*Output, error) {
	in, err := req.File()
	if err != nil {
		return nil, err
	}
	needle := req.String("text_to_redact", "")
	if needle == "" {
		return nil, invalidf("text_to_redact is required")
	}
	runs, err := findText(in.Data, needle)
	if err != nil {
		return nil, err
	}
	if len(runs) == 0 {
		return pdfOutput("redacted.pdf", in.Data), nil
	}

	dir, cleanup, err := workdir()
	if err != nil {
		return nil, err
	}
	defer cleanup()

	pages, err := s.rasterise(ctx, in.Data, dir, "png", redactDPI)
	if err != nil {
		return nil, err
	}
	byPage := make(map[int][]textRun)
	for _, r := range runs {
		byPage[r.Page] = append(byPage[r.Page], r)
	}

	p := fpdf.New("P", "pt", "A4", "")
	p.SetCreator("nexustools", true)
	p.SetAutoPageBreak(false, 0)
	opts := fpdf.ImageOptions{ImageType: "PNG"}
	for i, path := range pages {
		raw, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading page %d: %w", i+1, err)
		}
		img, err := png.Decode(bytes.NewReader(raw))
		if err != nil {
			return nil, fmt.Errorf("decoding page %d: %w", i+1, err)
		}
		var buf bytes.Buffer
		if err := png.Encode(&buf, blackOut(img, byPage[i+1], redactDPI)); err != nil {
			return nil, fmt.Errorf("encoding page %d: %w", i+1, err)
		}

		name := fmt.Sprintf("page%d", i+1)
		p.RegisterImageOptionsReader(name, opts, &buf)
		k := 72 / float64(redactDPI)
		w, h := float64(img.Bounds().Dx())*k, float64(img.Bounds().Dy())*k
		p.AddPageFormat("P", fpdf.SizeType{Wd: w, Ht: h})
		p.ImageOptions(name, 0, 0, w, h, false, opts, 0, "")
	}

	var out bytes.Buffer
	if err := p.Output(&out); err != nil {
		return nil, fmt.Errorf("rendering PDF: %w", err)
	}
	return pdfOutput("redacted.pdf", out.Bytes()), nil
}
