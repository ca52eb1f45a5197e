// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package convert

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

const sampleMarkdown = "# Title\n\nSome *emphasis* and `code`.\n\n" +
	"- one\n- two\n  1. nested\n\n" +
	"> quoted\n\n" +
	"```go\nfunc main() {}\n```\n\n" +
	"| a | b |\n|---|---|\n| 1 | 2 |\n\n" +
	"- [x] done\n- [ ] todo\n\n---\n"

func TestInlineText(t *testing.T) {
	src := []byte(sampleMarkdown)
	root := markdown.Parser().Parse(text.NewReader(src))

	var headings, paragraphs []string
	_ = ast.Walk(root, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		switch n.(type) {
		case *ast.Heading:
			headings = append(headings, inlineText(n, src))
		case *ast.Paragraph:
			paragraphs = append(paragraphs, inlineText(n, src))
		}
		return ast.WalkContinue, nil
	})
	assert.Equal(t, []string{"Title"}, headings)
	assert.Contains(t, paragraphs, "Some emphasis and code.")
	assert.Contains(t, paragraphs, "quoted")
}

func TestMarkdownToPDF(t *testing.T) {
	out, err := markdownToPDF(context.Background(), &Request{Files: []Input{{Name: "readme.md", Data: []byte(sampleMarkdown)}}})
	require.NoError(t, err)
	assert.Equal(t, "markdown.pdf", out.Filename)
	assert.Equal(t, TypePDF, out.ContentType)

	texts, err := pageTexts(out.Data)
	require.NoError(t, err)
	require.NotEmpty(t, texts)
	assert.Contains(t, texts[0], "Title")
}

func TestLexerFor(t *testing.T) {
	tests := []struct{ file, want string }{
		{"main.go", "Go"},
		{"script.py", "Python"},
		{"index.js", "JavaScript"},
		{"notes.unknownext", "Python"},
		{"", "Python"},
	}
	for _, tt := range tests {
		t.Run(tt.file, func(t *testing.T) {
			assert.Equal(t, tt.want, lexerFor(tt.file).Config().Name)
		})
	}
}

func TestHighlightLines(t *testing.T) {
	lines, err := highlightLines("a.py", "x = 1\ny = 2\nprint(x + y)\n")
	require.NoError(t, err)
	assert.Len(t, lines, 3)
}

func TestCodeToPDF(t *testing.T) {
	src := "package main\n\nimport \"fmt\"\n\nfunc main() {\n\tfmt.Println(\"hi\")\n}\n"
	out, err := codeToPDF(context.Background(), &Request{Files: []Input{{Name: "main.go", Data: []byte(src)}}})
	require.NoError(t, err)
	assert.Equal(t, "code.pdf", out.Filename)
	assert.True(t, isPDF(out.Data))

	_, err = codeToPDF(context.Background(), &Request{Files: []Input{{Name: "bin.py", Data: []byte{0xff, 0xfe, 0x00}}}})
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestDocumentTable(t *testing.T) {
	doc := newDocument()
	doc.table(nil)
	doc.table([][]string{{"h1", "h2", "h3"}, {"only one"}, {"a very long cell value that will not fit in a narrow column at all", "b"}})
	doc.rule()
	doc.lines([]string{"x", "", "y"})
	data, err := doc.bytes()
	require.NoError(t, err)
	assert.True(t, isPDF(data))
}
