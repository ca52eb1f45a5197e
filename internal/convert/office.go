// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package convert

import (
	"archive/zip"
	"bytes"
	"context"
	"encoding/csv"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"
)

// openZip opens an OOXML or EPUB container held in memory.
func openZip(in Input) (*zip.Reader, error) {
	zr, err := zip.NewReader(bytes.NewReader(in.Data), int64(len(in.Data)))
	if err != nil {
		return nil, invalidf("%s is not a zip container: %v", in.Name, err)
	}
	return zr, nil
}

func readZipFile(zr *zip.Reader, name string) ([]byte, error) {
	f, err := zr.Open(name)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return io.ReadAll(f)
}

// xmlParagraphs collects the text of every paragraph element (local name
// "p") in an OOXML part. Text comes from "t" elements; "tab" and "br" become
// whitespace.
func xmlParagraphs(data []byte) ([]string, error) {
	dec := xml.NewDecoder(bytes.NewReader(data))
	var (
		paras  []string
		cur    strings.Builder
		inPara bool
		inText bool
	)
	for {
		tok, err := dec.Token()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}
		switch t := tok.(type) {
		case xml.StartElement:
			switch t.Name.Local {
			case "p":
				inPara = true
				cur.Reset()
			case "t":
				inText = true
			case "tab":
				cur.WriteByte('\t')
			case "br":
				cur.WriteByte('\n')
			}
		case xml.EndElement:
			switch t.Name.Local {
			case "p":
				if inPara {
					paras = append(paras, cur.String())
				}
				inPara = false
			case "t":
				inText = false
			}
		case xml.CharData:
			if inText {
				cur.Write(t)
			}
		}
	}
	return paras, nil
}

// docxParagraphs returns the body paragraphs of a DOCX document.
func docxParagraphs(in Input) ([]string, error) {
	zr, err := openZip(in)
	if err != nil {
		return nil, err
	}
	data, err := readZipFile(zr, "word/document.xml")
	if err != nil {
		return nil, invalidf("%s is not a Word document: %v", in.Name, err)
	}
	paras, err := xmlParagraphs(data)
	if err != nil {
		return nil, invalidf("parsing %s: %v", in.Name, err)
	}
	return paras, nil
}

func docxToPDF(_ context.Context, req *Request) (*Output, error) {
	in, err := req.File()
	if err != nil {
		return nil, err
	}
	paras, err := docxParagraphs(in)
	if err != nil {
		return nil, err
	}
	doc := newDocument()
	for _, p := range paras {
		if strings.TrimSpace(p) == "" {
			doc.pdf.Ln(lineMM)
			continue
		}
		doc.paragraph(p)
	}
	data, err := doc.bytes()
	if err != nil {
		return nil, err
	}
	return pdfOutput("doc.pdf", data), nil
}

var slideName = regexp.MustCompile(`^ppt/slides/slide(\d+)\.xml$`)

// pptxSlides returns the text paragraphs of every slide, in slide order.
func pptxSlides(in Input) ([][]string, error) {
	zr, err := openZip(in)
	if err != nil {
		return nil, err
	}
	type slide struct {
		n    int
		name string
	}
	var slides []slide
	for _, f := range zr.File {
		if m := slideName.FindStringSubmatch(f.Name); m != nil {
			n, _ := strconv.Atoi(m[1])
			slides = append(slides, slide{n: n, name: f.Name})
		}
	}
	if len(slides) == 0 {
		return nil, invalidf("%s has no slides", in.Name)
	}
	sort.Slice(slides, func(i, j int) bool { return slides[i].n < slides[j].n })

	out := make([][]string, len(slides))
	for i, s := range slides {
		data, err := readZipFile(zr, s.name)
		if err != nil {
			return nil, fmt.Errorf("reading %s: %w", s.name, err)
		}
		paras, err := xmlParagraphs(data)
		if err != nil {
			return nil, invalidf("parsing %s: %v", s.name, err)
		}
		out[i] = paras
	}
	return out, nil
}

func pptToPDF(_ context.Context, req *Request) (*Output, error) {
	in, err := req.File()
	if err != nil {
		return nil, err
	}
	slides, err := pptxSlides(in)
	if err != nil {
		return nil, err
	}
	doc := newDocument()
	for i, paras := range slides {
		if i > 0 {
			doc.newPage()
		}
		doc.heading(fmt.Sprintf("Slide %d", i+1), 2)
		for _, p := range paras {
			if strings.TrimSpace(p) != "" {
				doc.paragraph(p)
			}
		}
	}
	data, err := doc.bytes()
	if err != nil {
		return nil, err
	}
	return pdfOutput("slides.pdf", data), nil
}

// firstSheetRows reads every row of the first worksheet of an XLSX file.
func firstSheetRows(in Input) ([][]string, error) {
	f, err := excelize.OpenReader(bytes.NewReader(in.Data))
	if err != nil {
		return nil, invalidf("%s is not an Excel workbook: %v", in.Name, err)
	}
	defer f.Close()
	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, invalidf("%s has no sheets", in.Name)
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("reading sheet %s: %w", sheets[0], err)
	}
	return rows, nil
}

func excelToPDF(_ context.Context, req *Request) (*Output, error) {
	in, err := req.File()
	if err != nil {
		return nil, err
	}
	rows, err := firstSheetRows(in)
	if err != nil {
		return nil, err
	}
	doc := newDocument()
	doc.table(rows)
	data, err := doc.bytes()
	if err != nil {
		return nil, err
	}
	return pdfOutput("spreadsheet.pdf", data), nil
}

func excelToCSV(_ context.Context, req *Request) (*Output, error) {
	in, err := req.File()
	if err != nil {
		return nil, err
	}
	rows, err := firstSheetRows(in)
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.WriteAll(rows); err != nil {
		return nil, fmt.Errorf("writing CSV: %w", err)
	}
	return &Output{Filename: "data.csv", ContentType: TypeCSV, Data: buf.Bytes()}, nil
}

// writeRow writes cells into row of sheet. Numeric cells are stored as
// numbers.
func writeRow(f *excelize.File, sheet string, row int, cells []string) error {
	values := make([]any, len(cells))
	for i, c := range cells {
		if n, err := strconv.ParseFloat(c, 64); err == nil && strings.TrimSpace(c) == c && c != "" {
			values[i] = n
		} else {
			values[i] = c
		}
	}
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return err
	}
	if err := f.SetSheetRow(sheet, cell, &values); err != nil {
		return fmt.Errorf("writing row %d: %w", row, err)
	}
	return nil
}

func csvToExcel(_ context.Context, req *Request) (*Output, error) {
	in, err := req.File()
	if err != nil {
		return nil, err
	}
	r := csv.NewReader(bytes.NewReader(bytes.TrimPrefix(in.Data, []byte("\xef\xbb\xbf"))))
	r.FieldsPerRecord = -1
	records, err := r.ReadAll()
	if err != nil {
		return nil, invalidf("%s is not valid CSV: %v", in.Name, err)
	}

	f := excelize.NewFile()
	defer f.Close()
	for i, rec := range records {
		if err := writeRow(f, "Sheet1", i+1, rec); err != nil {
			return nil, err
		}
	}
	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("writing workbook: %w", err)
	}
	return &Output{Filename: "data.xlsx", ContentType: TypeXLSX, Data: buf.Bytes()}, nil
}
