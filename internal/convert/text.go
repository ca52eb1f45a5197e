// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package convert

import (
	"bytes"
	"context"
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/go-pdf/fpdf"
	"github.com/ledongthuc/pdf"
	"github.com/xuri/excelize/v2"
)

func openPDF(data []byte) (*pdf.Reader, error) {
	r, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, invalidf("not a readable PDF: %v", err)
	}
	return r, nil
}

// pageTexts returns the plain text of every page, indexed from zero.
func pageTexts(data []byte) ([]string, error) {
	r, err := openPDF(data)
	if err != nil {
		return nil, err
	}
	fonts := make(map[string]*pdf.Font)
	texts := make([]string, r.NumPage())
	for i := 1; i <= r.NumPage(); i++ {
		p := r.Page(i)
		if p.V.IsNull() {
			continue
		}
		for _, name := range p.Fonts() {
			if _, ok := fonts[name]; !ok {
				f := p.Font(name)
				fonts[name] = &f
			}
		}
		text, err := p.GetPlainText(fonts)
		if err != nil {
			return nil, fmt.Errorf("reading page %d: %w", i, err)
		}
		texts[i-1] = text
	}
	return texts, nil
}

// line is a row of glyphs sharing a baseline.
type line []pdf.Text

func (l line) String() string {
	var b strings.Builder
	for _, t := range l {
		b.WriteString(t.S)
	}
	return b.String()
}

// pageLines groups the glyphs of one page into lines, top to bottom.
func pageLines(p pdf.Page) []line {
	texts := p.Content().Text
	sort.SliceStable(texts, func(i, j int) bool {
		if math.Abs(texts[i].Y-texts[j].Y) > 1 {
			return texts[i].Y > texts[j].Y
		}
		return texts[i].X < texts[j].X
	})

	var (
		lines []line
		cur   line
	)
	for _, t := range texts {
		if len(cur) > 0 && math.Abs(cur[0].Y-t.Y) > 1 {
			lines = append(lines, cur)
			cur = nil
		}
		cur = append(cur, t)
	}
	if len(cur) > 0 {
		lines = append(lines, cur)
	}
	return lines
}

// textRun locates one occurrence of a search string on a page.
type textRun struct {
	Page int
	Text string
	X, Y float64
	W    float64
	Size float64
}

// textWidth measures text in points with Helvetica metrics. The glyph
// widths reported by the PDF reader are often zero, so the run width is
// taken from the font instead.
func textWidth(metrics *fpdf.Fpdf, text string, size float64) float64 {
	metrics.SetFont("Helvetica", "", size)
	return metrics.GetStringWidth(text)
}

// findText returns every case-insensitive occurrence of needle, with the
// position of its first glyph in PDF user space.
func findText(data []byte, needle string) ([]textRun, error) {
	r, err := openPDF(data)
	if err != nil {
		return nil, err
	}
	lowNeedle := strings.ToLower(needle)
	metrics := fpdf.New("P", "pt", "A4", "")

	var runs []textRun
	for i := 1; i <= r.NumPage(); i++ {
		p := r.Page(i)
		if p.V.IsNull() {
			continue
		}
		for _, ln := range pageLines(p) {
			// owner maps each byte of the joined line to its glyph.
			var (
				joined strings.Builder
				owner  []int
			)
			for gi, t := range ln {
				joined.WriteString(t.S)
				for range len(t.S) {
					owner = append(owner, gi)
				}
			}
			s := joined.String()
			low := strings.ToLower(s)
			if len(low) != len(s) {
				low = s
			}

			for from := 0; from < len(low); {
				idx := strings.Index(low[from:], lowNeedle)
				if idx < 0 {
					break
				}
				start := from + idx
				end := start + len(lowNeedle)
				first := ln[owner[start]]
				runs = append(runs, textRun{
					Page: i,
					Text: s[start:end],
					X:    first.X,
					Y:    first.Y,
					W:    textWidth(metrics, s[start:end], first.FontSize),
					Size: first.FontSize,
				})
				from = end
			}
		}
	}
	return runs, nil
}

func extractText(_ context.Context, req *Request) (*Output, error) {
	in, err := req.File()
	if err != nil {
		return nil, err
	}
	texts, err := pageTexts(in.Data)
	if err != nil {
		return nil, err
	}
	return &Output{Filename: "text.txt", ContentType: TypeText, Data: []byte(strings.Join(texts, "\n"))}, nil
}

// compareReport lists, page by page, whether two PDFs carry the same text.
func compareReport(a, b Input) ([]string, error) {
	textsA, err := pageTexts(a.Data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", a.Name, err)
	}
	textsB, err := pageTexts(b.Data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", b.Name, err)
	}

	lines := []string{
		fmt.Sprintf("File 1: %s - %d pages", a.Name, len(textsA)),
		fmt.Sprintf("File 2: %s - %d pages", b.Name, len(textsB)),
		"",
	}
	for i := range min(len(textsA), len(textsB)) {
		verdict := "Same"
		if textsA[i] != textsB[i] {
			verdict = "DIFFERENT"
		}
		lines = append(lines, fmt.Sprintf("Page %d: %s", i+1, verdict))
	}
	if len(textsA) != len(textsB) {
		lines = append(lines, fmt.Sprintf("Page count differs: %d vs %d", len(textsA), len(textsB)))
	}
	return lines, nil
}

func comparePDFs(_ context.Context, req *Request) (*Output, error) {
	if len(req.Files) != 2 {
		return nil, invalidf("need exactly two files to compare")
	}
	lines, err := compareReport(req.Files[0], req.Files[1])
	if err != nil {
		return nil, err
	}
	doc := newDocument()
	doc.heading("PDF Comparison Report", 1)
	doc.lines(lines)
	data, err := doc.bytes()
	if err != nil {
		return nil, err
	}
	return pdfOutput("comparison.pdf", data), nil
}

// splitColumns breaks a line into cells wherever the gap between glyphs is
// wider than a space.
func splitColumns(ln line) []string {
	var (
		cells []string
		cell  strings.Builder
	)
	for i, t := range ln {
		if i > 0 {
			prev := ln[i-1]
			gap := t.X - (prev.X + prev.W)
			if gap > math.Max(prev.FontSize, 4)*1.5 {
				cells = append(cells, strings.TrimSpace(cell.String()))
				cell.Reset()
			}
		}
		cell.WriteString(t.S)
	}
	cells = append(cells, strings.TrimSpace(cell.String()))
	return cells
}

func pdfToExcel(_ context.Context, req *Request) (*Output, error) {
	in, err := req.File()
	if err != nil {
		return nil, err
	}
	r, err := openPDF(in.Data)
	if err != nil {
		return nil, err
	}

	f := excelize.NewFile()
	defer f.Close()

	sheets := 0
	for i := 1; i <= r.NumPage(); i++ {
		p := r.Page(i)
		if p.V.IsNull() {
			continue
		}
		lines := pageLines(p)
		if len(lines) == 0 {
			continue
		}
		sheets++
		name := fmt.Sprintf("Table_%d", sheets)
		if sheets == 1 {
			if err := f.SetSheetName("Sheet1", name); err != nil {
				return nil, fmt.Errorf("naming sheet: %w", err)
			}
		} else if _, err := f.NewSheet(name); err != nil {
			return nil, fmt.Errorf("adding sheet %s: %w", name, err)
		}
		for row, ln := range lines {
			if err := writeRow(f, name, row+1, splitColumns(ln)); err != nil {
				return nil, err
			}
		}
	}
	if sheets == 0 {
		return nil, invalidf("No tables found in PDF")
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("writing workbook: %w", err)
	}
	return &Output{Filename: "data.xlsx", ContentType: TypeXLSX, Data: buf.Bytes()}, nil
}
