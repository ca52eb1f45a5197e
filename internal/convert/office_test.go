// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package convert

import (
	"archive/zip"
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

// zipOf builds an in-memory zip archive from name/content pairs.
func zipOf(t *testing.T, files map[string]string) []byte {
	t.Helper()
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for name, content := range files {
		w, err := zw.Create(name)
		require.NoError(t, err)
		_, err = w.Write([]byte(content))
		require.NoError(t, err)
	}
	require.NoError(t, zw.Close())
	return buf.Bytes()
}

const docxBody = `<?xml version="1.0" encoding="UTF-8"?>
<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main">
<w:body>
<w:p><w:r><w:t>Hello</w:t></w:r><w:r><w:tab/><w:t xml:space="preserve"> world</w:t></w:r></w:p>
<w:p></w:p>
<w:p><w:r><w:t>Second</w:t><w:br/><w:t>line</w:t></w:r></w:p>
</w:body>
</w:document>`

func slideXML(text string) string {
	return `<p:sld xmlns:p="http://schemas.openxmlformats.org/presentationml/2006/main" xmlns:a="http://schemas.openxmlformats.org/drawingml/2006/main">` +
		`<p:cSld><p:spTree><p:sp><p:txBody><a:p><a:r><a:t>` + text + `</a:t></a:r></a:p></p:txBody></p:sp></p:spTree></p:cSld></p:sld>`
}

func TestDocxParagraphs(t *testing.T) {
	in := Input{Name: "doc.docx", Data: zipOf(t, map[string]string{"word/document.xml": docxBody})}

	paras, err := docxParagraphs(in)
	require.NoError(t, err)
	assert.Equal(t, []string{"Hello\t world", "", "Second\nline"}, paras)

	out, err := docxToPDF(context.Background(), &Request{Files: []Input{in}})
	require.NoError(t, err)
	assert.Equal(t, "doc.pdf", out.Filename)
	assert.True(t, isPDF(out.Data))
}

func TestDocxRejectsNonDocuments(t *testing.T) {
	tests := []struct {
		name string
		data []byte
	}{
		{"not a zip", []byte("plain text")},
		{"zip without document part", zipOf(t, map[string]string{"hello.txt": "hi"})},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := docxToPDF(context.Background(), &Request{Files: []Input{{Name: "x.docx", Data: tt.data}}})
			assert.ErrorIs(t, err, ErrInvalidInput)
		})
	}
}

func TestPptxSlidesInNumericOrder(t *testing.T) {
	in := Input{Name: "deck.pptx", Data: zipOf(t, map[string]string{
		"ppt/slides/slide10.xml":            slideXML("ten"),
		"ppt/slides/slide2.xml":             slideXML("two"),
		"ppt/slides/slide1.xml":             slideXML("one"),
		"ppt/slides/_rels/slide1.xml.rels":  "<Relationships/>",
		"ppt/slideLayouts/slideLayout1.xml": slideXML("layout"),
	})}

	slides, err := pptxSlides(in)
	require.NoError(t, err)
	assert.Equal(t, [][]string{{"one"}, {"two"}, {"ten"}}, slides)

	out, err := pptToPDF(context.Background(), &Request{Files: []Input{in}})
	require.NoError(t, err)
	assert.Equal(t, "slides.pdf", out.Filename)
	requirePages(t, out, 3)

	_, err = pptxSlides(Input{Name: "empty.pptx", Data: zipOf(t, map[string]string{"x": "y"})})
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestCSVExcelRoundTrip(t *testing.T) {
	csvIn := Input{Name: "data.csv", Data: []byte("\xef\xbb\xbfname,qty,price\nwidget,4,2.50\ngadget,,x\n")}

	xlsx, err := csvToExcel(context.Background(), &Request{Files: []Input{csvIn}})
	require.NoError(t, err)
	assert.Equal(t, "data.xlsx", xlsx.Filename)
	assert.Equal(t, TypeXLSX, xlsx.ContentType)

	f, err := excelize.OpenReader(bytes.NewReader(xlsx.Data))
	require.NoError(t, err)
	rows, err := f.GetRows("Sheet1")
	require.NoError(t, err)
	assert.Len(t, rows, 3)
	require.NoError(t, f.Close())

	back, err := excelToCSV(context.Background(), &Request{Files: []Input{{Name: "data.xlsx", Data: xlsx.Data}}})
	require.NoError(t, err)
	assert.Equal(t, "data.csv", back.Filename)
	assert.Equal(t, "name,qty,price\nwidget,4,2.5\ngadget,,x\n", string(back.Data))
}

func TestExcelToPDF(t *testing.T) {
	f := excelize.NewFile()
	require.NoError(t, writeRow(f, "Sheet1", 1, []string{"a", "b"}))
	require.NoError(t, writeRow(f, "Sheet1", 2, []string{"1", "2"}))
	buf, err := f.WriteToBuffer()
	require.NoError(t, err)

	out, err := excelToPDF(context.Background(), &Request{Files: []Input{{Name: "s.xlsx", Data: buf.Bytes()}}})
	require.NoError(t, err)
	assert.Equal(t, "spreadsheet.pdf", out.Filename)
	assert.True(t, isPDF(out.Data))

	_, err = excelToPDF(context.Background(), &Request{Files: []Input{{Name: "s.xlsx", Data: []byte("nope")}}})
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestCSVToExcelRejectsBadCSV(t *testing.T) {
	_, err := csvToExcel(context.Background(), &Request{Files: []Input{{Name: "bad.csv", Data: []byte("a,\"b\nc")}}})
	assert.ErrorIs(t, err, ErrInvalidInput)
}
