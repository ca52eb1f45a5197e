// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package convert

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/pdiddy/nexus-tools/internal/httputil"
)

// block is one readable element of an HTML document.
type block struct {
	Tag  atom.Atom
	Text string
}

var blockTags = map[atom.Atom]bool{
	atom.H1: true, atom.H2: true, atom.H3: true, atom.H4: true, atom.H5: true, atom.H6: true,
	atom.P: true, atom.Li: true, atom.Pre: true, atom.Blockquote: true, atom.Td: true, atom.Th: true,
}

var skipTags = map[atom.Atom]bool{
	atom.Script: true, atom.Style: true, atom.Noscript: true, atom.Head: true, atom.Template: true,
}

// htmlBlocks returns headings, paragraphs, and list items in document order.
// Text inside script and style elements is ignored.
func htmlBlocks(r io.Reader) ([]block, error) {
	doc, err := html.Parse(r)
	if err != nil {
		return nil, err
	}
	var out []block
	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			if skipTags[n.DataAtom] {
				return
			}
			if blockTags[n.DataAtom] {
				if t := collapse(nodeText(n)); t != "" {
					out = append(out, block{Tag: n.DataAtom, Text: t})
				}
				return
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)
	return out, nil
}

func nodeText(n *html.Node) string {
	var sb strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		switch {
		case n.Type == html.TextNode:
			sb.WriteString(n.Data)
		case n.Type == html.ElementNode && skipTags[n.DataAtom]:
			return
		case n.Type == html.ElementNode && n.DataAtom == atom.Br:
			sb.WriteByte(' ')
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return sb.String()
}

func collapse(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

func headingLevel(a atom.Atom) int {
	switch a {
	case atom.H1:
		return 1
	case atom.H2:
		return 2
	case atom.H3:
		return 3
	case atom.H4, atom.H5, atom.H6:
		return 4
	}
	return 0
}

// fetchPage downloads an http(s) URL, bounded by the service's fetch
// timeout and size cap.
func (s *Service) fetchPage(ctx context.Context, raw string) ([]byte, error) {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return nil, invalidf("url must be an absolute http or https URL")
	}
	ctx, cancel := context.WithTimeout(ctx, s.fetchTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", "Mozilla/5.0 (compatible; nexustools)")
	resp, err := httputil.DoWithRetry(ctx, s.http, req, 2)
	if err != nil {
		return nil, fmt.Errorf("fetching %s: %w", u, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, invalidf("fetching %s: HTTP %d", u, resp.StatusCode)
	}
	data, err := io.ReadAll(io.LimitReader(resp.Body, s.maxFetch+1))
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", u, err)
	}
	if int64(len(data)) > s.maxFetch {
		return nil, invalidf("page at %s is larger than %d bytes", u, s.maxFetch)
	}
	return data, nil
}

func (s *Service) htmlToPDF(ctx context.Context, req *Request) (*Output, error) {
	raw := req.String("url", "")
	if raw == "" {
		return nil, invalidf("url is required")
	}
	page, err := s.fetchPage(ctx, raw)
	if err != nil {
		return nil, err
	}
	blocks, err := htmlBlocks(strings.NewReader(string(page)))
	if err != nil {
		return nil, invalidf("parsing page: %v", err)
	}

	doc := newDocument()
	doc.pdf.SetFont("Helvetica", "I", 8)
	doc.pdf.CellFormat(0, 5, doc.tr(raw), "", 1, "L", false, 0, "")
	doc.pdf.SetFont("Helvetica", "", bodySize)
	doc.pdf.Ln(2)
	for _, b := range blocks {
		switch {
		case headingLevel(b.Tag) > 0:
			doc.heading(b.Text, headingLevel(b.Tag))
		case b.Tag == atom.Li:
			doc.styled("- "+b.Text, "", 5)
		case b.Tag == atom.Pre:
			doc.code(b.Text)
		default:
			doc.paragraph(b.Text)
		}
	}
	data, err := doc.bytes()
	if err != nil {
		return nil, err
	}
	return pdfOutput("webpage.pdf", data), nil
}
