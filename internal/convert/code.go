// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package convert

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/alecthomas/chroma/v2/styles"
)

const codeStyle = "colorful"

// lexerFor picks a lexer by file name and falls back to Python.
func lexerFor(filename string) chroma.Lexer {
	l := lexers.Match(filename)
	if l == nil {
		l = lexers.Get("python")
	}
	if l == nil {
		l = lexers.Fallback
	}
	return chroma.Coalesce(l)
}

// highlightLines tokenises code and splits the tokens into source lines.
func highlightLines(filename, code string) ([][]chroma.Token, error) {
	it, err := lexerFor(filename).Tokenise(nil, code)
	if err != nil {
		return nil, fmt.Errorf("tokenising %s: %w", filename, err)
	}
	return chroma.SplitTokensIntoLines(it.Tokens()), nil
}

func codeToPDF(_ context.Context, req *Request) (*Output, error) {
	in, err := req.File()
	if err != nil {
		return nil, err
	}
	if !utf8.Valid(in.Data) {
		return nil, invalidf("%s is not UTF-8 text", in.Name)
	}
	lines, err := highlightLines(in.Name, string(in.Data))
	if err != nil {
		return nil, err
	}

	style := styles.Get(codeStyle)
	doc := newDocument()
	p := doc.pdf
	p.SetFont("Helvetica", "B", 12)
	p.CellFormat(0, 8, doc.tr(baseName(in.Name, "code")), "", 1, "L", false, 0, "")
	p.Ln(2)

	const lineH = 4.2
	width := len(fmt.Sprint(len(lines)))
	for i, toks := range lines {
		p.SetFont("Courier", "", 8.5)
		p.SetTextColor(150, 150, 150)
		p.Write(lineH, fmt.Sprintf("%*d  ", width, i+1))

		for _, tok := range toks {
			v := strings.ReplaceAll(strings.TrimRight(tok.Value, "\r\n"), "\t", "    ")
			if v == "" {
				continue
			}
			entry := style.Get(tok.Type)
			r, g, b := 0, 0, 0
			if entry.Colour.IsSet() {
				r, g, b = int(entry.Colour.Red()), int(entry.Colour.Green()), int(entry.Colour.Blue())
			}
			fontStyle := ""
			if entry.Bold == chroma.Yes {
				fontStyle += "B"
			}
			if entry.Italic == chroma.Yes {
				fontStyle += "I"
			}
			p.SetFont("Courier", fontStyle, 8.5)
			p.SetTextColor(r, g, b)
			p.Write(lineH, doc.tr(v))
		}
		p.Ln(lineH)
	}
	p.SetTextColor(0, 0, 0)

	data, err := doc.bytes()
	if err != nil {
		return nil, err
	}
	return pdfOutput("code.pdf", data), nil
}
