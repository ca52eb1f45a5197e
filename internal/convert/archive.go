// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package convert

import (
	"archive/zip"
	"bytes"
	"context"
	"crypto/md5"
	"crypto/sha256"
	"encoding/hex"
	"encoding/xml"
	"fmt"
	"path"
	"sort"
	"strings"

	"golang.org/x/crypto/blake2b"
)

func createZip(_ context.Context, req *Request) (*Output, error) {
	if len(req.Files) == 0 {
		return nil, invalidf("No files uploaded")
	}
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	used := make(map[string]int)
	for i, f := range req.Files {
		name := uniqueName(baseName(f.Name, fmt.Sprintf("file_%d", i+1)), used)
		w, err := zw.CreateHeader(&zip.FileHeader{Name: name, Method: zip.Deflate})
		if err != nil {
			return nil, fmt.Errorf("adding %s: %w", name, err)
		}
		if _, err := w.Write(f.Data); err != nil {
			return nil, fmt.Errorf("writing %s: %w", name, err)
		}
	}
	if err := zw.Close(); err != nil {
		return nil, fmt.Errorf("writing archive: %w", err)
	}
	return &Output{Filename: "archive.zip", ContentType: TypeZip, Data: buf.Bytes()}, nil
}

// uniqueName returns name, or "stem (n).ext" when name was already used.
func uniqueName(name string, used map[string]int) string {
	used[name]++
	n := used[name]
	if n == 1 {
		return name
	}
	ext := path.Ext(name)
	candidate := fmt.Sprintf("%s (%d)%s", strings.TrimSuffix(name, ext), n, ext)
	return uniqueName(candidate, used)
}

type epubContainer struct {
	Rootfiles []struct {
		FullPath string `xml:"full-path,attr"`
	} `xml:"rootfiles>rootfile"`
}

type epubPackage struct {
	Manifest []struct {
		ID        string `xml:"id,attr"`
		Href      string `xml:"href,attr"`
		MediaType string `xml:"media-type,attr"`
	} `xml:"manifest>item"`
	Spine []struct {
		IDRef string `xml:"idref,attr"`
	} `xml:"spine>itemref"`
}

// epubDocuments returns the paths of the book's XHTML documents in reading
// order. Books without a usable package file fall back to every HTML file
// in name order.
func epubDocuments(zr *zip.Reader) []string {
	var docs []string
	if data, err := readZipFile(zr, "META-INF/container.xml"); err == nil {
		var c epubContainer
		if xml.Unmarshal(data, &c) == nil && len(c.Rootfiles) > 0 {
			opfPath := c.Rootfiles[0].FullPath
			if opf, err := readZipFile(zr, opfPath); err == nil {
				var pkg epubPackage
				if xml.Unmarshal(opf, &pkg) == nil {
					base := path.Dir(opfPath)
					hrefs := make(map[string]string)
					for _, it := range pkg.Manifest {
						if strings.Contains(it.MediaType, "html") {
							hrefs[it.ID] = path.Join(base, it.Href)
						}
					}
					for _, ref := range pkg.Spine {
						if h, ok := hrefs[ref.IDRef]; ok {
							docs = append(docs, h)
						}
					}
				}
			}
		}
	}
	if len(docs) > 0 {
		return docs
	}
	for _, f := range zr.File {
		ext := strings.ToLower(path.Ext(f.Name))
		if ext == ".xhtml" || ext == ".html" || ext == ".htm" {
			docs = append(docs, f.Name)
		}
	}
	sort.Strings(docs)
	return docs
}

func epubToText(_ context.Context, req *Request) (*Output, error) {
	in, err := req.File()
	if err != nil {
		return nil, err
	}
	zr, err := openZip(in)
	if err != nil {
		return nil, err
	}
	docs := epubDocuments(zr)
	if len(docs) == 0 {
		return nil, invalidf("%s contains no readable documents", in.Name)
	}

	var parts []string
	for _, d := range docs {
		data, err := readZipFile(zr, d)
		if err != nil {
			continue
		}
		blocks, err := htmlBlocks(bytes.NewReader(data))
		if err != nil {
			return nil, fmt.Errorf("parsing %s: %w", d, err)
		}
		var texts []string
		for _, b := range blocks {
			texts = append(texts, b.Text)
		}
		parts = append(parts, strings.Join(texts, "\n"))
	}
	return &Output{Filename: "book.txt", ContentType: TypeText, Data: []byte(strings.Join(parts, "\n"))}, nil
}

// hashReport formats the integrity report for one file.
func hashReport(name string, data []byte) string {
	sumMD5 := md5.Sum(data)
	sumSHA := sha256.Sum256(data)
	sumB2 := blake2b.Sum256(data)
	return fmt.Sprintf("--- FILE INTEGRITY REPORT ---\nFilename: %s\nSize: %d bytes\n\nMD5:\n%s\n\nSHA-256:\n%s\n\nBLAKE2b-256:\n%s",
		name, len(data),
		hex.EncodeToString(sumMD5[:]),
		hex.EncodeToString(sumSHA[:]),
		hex.EncodeToString(sumB2[:]),
	)
}

func fileHash(_ context.Context, req *Request) (*Output, error) {
	in, err := req.File()
	if err != nil {
		return nil, err
	}
	return &Output{Filename: "hash_report.txt", ContentType: TypeText, Data: []byte(hashReport(in.Name, in.Data))}, nil
}
