// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package convert

import (
	"context"
	"strconv"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	extast "github.com/yuin/goldmark/extension/ast"
	"github.com/yuin/goldmark/text"
)

var markdown = goldmark.New(goldmark.WithExtensions(extension.GFM))

// renderMarkdown walks the block structure of src and lays it out in doc.
func renderMarkdown(doc *document, src []byte) {
	root := markdown.Parser().Parse(text.NewReader(src))
	for n := root.FirstChild(); n != nil; n = n.NextSibling() {
		renderBlock(doc, n, src, 0)
	}
}

func renderBlock(doc *document, n ast.Node, src []byte, indent float64) {
	switch n := n.(type) {
	case *ast.Heading:
		doc.heading(inlineText(n, src), n.Level)
	case *ast.Paragraph, *ast.TextBlock:
		doc.styled(inlineText(n, src), "", indent)
		doc.pdf.Ln(2)
	case *ast.FencedCodeBlock, *ast.CodeBlock:
		doc.code(blockLines(n, src))
	case *ast.Blockquote:
		for c := n.FirstChild(); c != nil; c = c.NextSibling() {
			doc.styled(inlineText(c, src), "I", indent+6)
		}
		doc.pdf.Ln(2)
	case *ast.List:
		i := n.Start
		for item := n.FirstChild(); item != nil; item = item.NextSibling() {
			marker := "• "
			if n.IsOrdered() {
				marker = strconv.Itoa(i) + ". "
				i++
			}
			renderListItem(doc, item, src, indent, marker)
		}
		doc.pdf.Ln(1)
	case *ast.ThematicBreak:
		doc.rule()
	case *extast.Table:
		var rows [][]string
		for row := n.FirstChild(); row != nil; row = row.NextSibling() {
			var cells []string
			for cell := row.FirstChild(); cell != nil; cell = cell.NextSibling() {
				cells = append(cells, inlineText(cell, src))
			}
			rows = append(rows, cells)
		}
		doc.table(rows)
		doc.pdf.Ln(2)
	case *ast.HTMLBlock:
		doc.code(blockLines(n, src))
	default:
		if t := strings.TrimSpace(inlineText(n, src)); t != "" {
			doc.styled(t, "", indent)
		}
	}
}

func renderListItem(doc *document, item ast.Node, src []byte, indent float64, marker string) {
	first := true
	for c := item.FirstChild(); c != nil; c = c.NextSibling() {
		if _, nested := c.(*ast.List); nested {
			renderBlock(doc, c, src, indent+6)
			continue
		}
		t := inlineText(c, src)
		if first {
			t = marker + t
			first = false
		}
		doc.styled(t, "", indent+4)
	}
}

// inlineText flattens the inline content of n into plain text.
func inlineText(n ast.Node, src []byte) string {
	var b strings.Builder
	_ = ast.Walk(n, func(c ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		switch c := c.(type) {
		case *ast.Text:
			b.Write(c.Segment.Value(src))
			if c.SoftLineBreak() || c.HardLineBreak() {
				b.WriteByte(' ')
			}
		case *ast.String:
			b.Write(c.Value)
		case *ast.AutoLink:
			b.Write(c.URL(src))
			return ast.WalkSkipChildren, nil
		case *extast.TaskCheckBox:
			if c.IsChecked {
				b.WriteString("[x] ")
			} else {
				b.WriteString("[ ] ")
			}
		}
		return ast.WalkContinue, nil
	})
	return strings.TrimSpace(b.String())
}

// blockLines returns the raw lines of a code or HTML block.
func blockLines(n ast.Node, src []byte) string {
	var b strings.Builder
	lines := n.Lines()
	for i := 0; i < lines.Len(); i++ {
		seg := lines.At(i)
		b.Write(seg.Value(src))
	}
	return b.String()
}

func markdownToPDF(_ context.Context, req *Request) (*Output, error) {
	in, err := req.File()
	if err != nil {
		return nil, err
	}
	doc := newDocument()
	renderMarkdown(doc, in.Data)
	data, err := doc.bytes()
	if err != nil {
		return nil, err
	}
	return pdfOutput("markdown.pdf", data), nil
}
