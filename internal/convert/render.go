// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package convert

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/png"
	"strings"

	"github.com/go-pdf/fpdf"
)

const (
	bodySize = 11.0
	lineMM   = 5.5
)

// document is a flowing A4 text document built with fpdf. Text goes through
// the cp1252 translator of the core fonts; runes outside it print as "?".
type document struct {
	pdf *fpdf.Fpdf
	tr  func(string) string
}

func newDocument() *document {
	p := fpdf.New("P", "mm", "A4", "")
	p.SetMargins(15, 15, 15)
	p.SetAutoPageBreak(true, 15)
	p.SetCreator("nexustools", true)
	p.AddPage()
	p.SetFont("Helvetica", "", bodySize)
	return &document{pdf: p, tr: p.UnicodeTranslatorFromDescriptor("")}
}

// heading writes a bold heading; level 1 is the largest.
func (d *document) heading(text string, level int) {
	size := max(bodySize+1, 22-float64(level-1)*3)
	d.pdf.SetFont("Helvetica", "B", size)
	d.pdf.MultiCell(0, size*0.5, d.tr(text), "", "L", false)
	d.pdf.Ln(2)
	d.pdf.SetFont("Helvetica", "", bodySize)
}

// paragraph writes wrapped body text followed by a small gap.
func (d *document) paragraph(text string) {
	d.styled(text, "", 0)
	d.pdf.Ln(2)
}

// styled writes wrapped text in the given font style, indented by indent mm.
func (d *document) styled(text, style string, indent float64) {
	d.pdf.SetFont("Helvetica", style, bodySize)
	left, _, _, _ := d.pdf.GetMargins()
	d.pdf.SetX(left + indent)
	d.pdf.MultiCell(0, lineMM, d.tr(text), "", "L", false)
	d.pdf.SetFont("Helvetica", "", bodySize)
}

// lines writes one line per entry, keeping blank entries as gaps.
func (d *document) lines(lines []string) {
	for _, l := range lines {
		if strings.TrimSpace(l) == "" {
			d.pdf.Ln(lineMM)
			continue
		}
		d.pdf.MultiCell(0, lineMM, d.tr(l), "", "L", false)
	}
}

// code writes preformatted text in a monospace font on a light background.
func (d *document) code(text string) {
	d.pdf.SetFont("Courier", "", bodySize-1)
	d.pdf.SetFillColor(245, 245, 245)
	for _, l := range strings.Split(strings.TrimRight(text, "\n"), "\n") {
		d.pdf.MultiCell(0, lineMM-0.5, d.tr(strings.ReplaceAll(l, "\t", "    ")), "", "L", true)
	}
	d.pdf.Ln(2)
	d.pdf.SetFont("Helvetica", "", bodySize)
}

// rule draws a horizontal line across the text width.
func (d *document) rule() {
	left, _, right, _ := d.pdf.GetMargins()
	w, _ := d.pdf.GetPageSize()
	y := d.pdf.GetY() + 2
	d.pdf.Line(left, y, w-right, y)
	d.pdf.Ln(5)
}

// table writes rows as a bordered grid; the first row is the header.
func (d *document) table(rows [][]string) {
	if len(rows) == 0 {
		return
	}
	cols := 0
	for _, r := range rows {
		cols = max(cols, len(r))
	}
	left, _, right, _ := d.pdf.GetMargins()
	pageW, _ := d.pdf.GetPageSize()
	colW := (pageW - left - right) / float64(cols)

	d.pdf.SetFont("Helvetica", "", 9)
	d.pdf.SetFillColor(242, 242, 242)
	for i, r := range rows {
		fill := i == 0
		if fill {
			d.pdf.SetFont("Helvetica", "B", 9)
		}
		for c := range cols {
			var v string
			if c < len(r) {
				v = fitText(d.pdf, d.tr(r[c]), colW-2)
			}
			d.pdf.CellFormat(colW, 7, v, "1", 0, "L", fill, 0, "")
		}
		d.pdf.Ln(-1)
		if fill {
			d.pdf.SetFont("Helvetica", "", 9)
		}
	}
	d.pdf.SetFont("Helvetica", "", bodySize)
}

// newPage starts a new page.
func (d *document) newPage() {
	d.pdf.AddPage()
}

func (d *document) bytes() ([]byte, error) {
	var buf bytes.Buffer
	if err := d.pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("rendering PDF: %w", err)
	}
	return buf.Bytes(), nil
}

// fitText shortens s with an ellipsis until it fits in width.
func fitText(p *fpdf.Fpdf, s string, width float64) string {
	if p.GetStringWidth(s) <= width {
		return s
	}
	r := []rune(s)
	for len(r) > 0 && p.GetStringWidth(string(r)+"...") > width {
		r = r[:len(r)-1]
	}
	return string(r) + "..."
}

// fpdfImageTypes are the formats fpdf embeds without re-encoding.
var fpdfImageTypes = map[string]string{"jpeg": "JPG", "png": "PNG", "gif": "GIF"}

func imagesToPDF(_ context.Context, req *Request) (*Output, error) {
	if len(req.Files) == 0 {
		return nil, invalidf("No files uploaded")
	}

	p := fpdf.New("P", "pt", "A4", "")
	p.SetCreator("nexustools", true)
	p.SetAutoPageBreak(false, 0)
	for i, f := range req.Files {
		cfg, format, err := image.DecodeConfig(bytes.NewReader(f.Data))
		if err != nil {
			return nil, invalidf("%s is not a supported image: %v", f.Name, err)
		}
		data, kind := f.Data, fpdfImageTypes[format]
		if kind == "" {
			img, _, err := image.Decode(bytes.NewReader(f.Data))
			if err != nil {
				return nil, invalidf("decoding %s: %v", f.Name, err)
			}
			var buf bytes.Buffer
			if err := png.Encode(&buf, img); err != nil {
				return nil, fmt.Errorf("re-encoding %s: %w", f.Name, err)
			}
			data, kind = buf.Bytes(), "PNG"
		}

		name := fmt.Sprintf("img%d", i)
		opts := fpdf.ImageOptions{ImageType: kind}
		p.RegisterImageOptionsReader(name, opts, bytes.NewReader(data))

		// One page per image at 96 dpi.
		w, h := float64(cfg.Width)*0.75, float64(cfg.Height)*0.75
		p.AddPageFormat("P", fpdf.SizeType{Wd: w, Ht: h})
		p.ImageOptions(name, 0, 0, w, h, false, opts, 0, "")
	}

	var buf bytes.Buffer
	if err := p.Output(&buf); err != nil {
		return nil, fmt.Errorf("rendering PDF: %w", err)
	}
	return pdfOutput("converted.pdf", buf.Bytes()), nil
}
