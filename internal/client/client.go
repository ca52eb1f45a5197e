// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package client sends tool submissions to the conversion backend. Each
// submission is exactly one HTTP round trip: a multipart form (or a JSON
// body for URL tools) goes out, an opaque file comes back.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/pdiddy/nexus-tools/internal/catalog"
	"github.com/pdiddy/nexus-tools/pkg/types"
)

const defaultUserAgent = "nexustools/1.0"

// Submission is the data collected by a tool form.
type Submission = catalog.Inputs

// ToolError is the single failure a submission can end in. Message is the
// tool's fixed error text; Cause holds the network error or HTTP status
// behind it.
type ToolError struct {
	Tool    catalog.ID
	Message string
	Status  int
	Cause   error
}

func (e *ToolError) Error() string {
	if e.Cause == nil {
		return e.Message
	}
	return fmt.Sprintf("%s: %v", e.Message, e.Cause)
}

func (e *ToolError) Unwrap() error { return e.Cause }

// ErrStatus is the cause of a ToolError for non-2xx responses.
var ErrStatus = errors.New("unexpected response status")

// Result is a successful response body and the name it is saved under.
type Result struct {
	Tool        catalog.ID
	Filename    string
	ContentType string
	Body        []byte
}

// Client builds and sends tool requests against one backend.
type Client struct {
	http      *http.Client
	baseURL   string
	token     string
	userAgent string
	outputDir string
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

// WithBaseURL overrides the configured base URL.
func WithBaseURL(u string) Option {
	return func(c *Client) { c.baseURL = u }
}

// New creates a Client from cfg.
func New(cfg types.ClientConfig, opts ...Option) *Client {
	ua := cfg.UserAgent
	if ua == "" {
		ua = defaultUserAgent
	}
	out := cfg.OutputDir
	if out == "" {
		out = "."
	}
	c := &Client{
		http:      &http.Client{Timeout: cfg.Timeout},
		baseURL:   cfg.ResolvedBaseURL(),
		token:     cfg.APIToken,
		userAgent: ua,
		outputDir: out,
	}
	for _, o := range opts {
		o(c)
	}
	c.baseURL = strings.TrimRight(c.baseURL, "/")
	return c
}

// BaseURL returns the backend the client talks to.
func (c *Client) BaseURL() string { return c.baseURL }

// OutputDir returns the default directory for saved results.
func (c *Client) OutputDir() string { return c.outputDir }

// Build creates the HTTP request for a submission. It fails with an error
// wrapping catalog.ErrNotReady when the tool would not accept sub.
func (c *Client) Build(ctx context.Context, tool catalog.Tool, sub Submission) (*http.Request, error) {
	if err := tool.Ready(sub); err != nil {
		return nil, err
	}

	var (
		body        bytes.Buffer
		contentType string
	)
	values := tool.Values(sub.Values)

	if tool.Shape == catalog.ShapeJSONURL {
		if err := json.NewEncoder(&body).Encode(map[string]string{"url": strings.TrimSpace(values["url"])}); err != nil {
			return nil, fmt.Errorf("encoding request body: %w", err)
		}
		contentType = "application/json"
	} else {
		mw := multipart.NewWriter(&body)
		if err := writeFiles(mw, tool, sub.Files); err != nil {
			return nil, err
		}
		for _, f := range tool.Fields {
			if err := mw.WriteField(f.Name, values[f.Name]); err != nil {
				return nil, fmt.Errorf("writing field %s: %w", f.Name, err)
			}
		}
		if err := mw.Close(); err != nil {
			return nil, fmt.Errorf("closing multipart body: %w", err)
		}
		contentType = mw.FormDataContentType()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+tool.Endpoint, &body)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("User-Agent", c.userAgent)
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
	return req, nil
}

func writeFiles(mw *multipart.Writer, tool catalog.Tool, paths []string) error {
	var files []string
	for _, p := range paths {
		if strings.TrimSpace(p) != "" {
			files = append(files, p)
		}
	}
	for i, p := range files {
		part := "file"
		switch tool.Shape {
		case catalog.ShapeFiles:
			part = "files"
		case catalog.ShapeFilePair:
			part = fmt.Sprintf("file%d", i+1)
		}
		if err := copyFile(mw, part, p); err != nil {
			return err
		}
	}
	return nil
}

func copyFile(mw *multipart.Writer, part, path string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()

	w, err := mw.CreateFormFile(part, filepath.Base(path))
	if err != nil {
		return fmt.Errorf("creating form part %s: %w", part, err)
	}
	if _, err := io.Copy(w, f); err != nil {
		return fmt.Errorf("reading %s: %w", path, err)
	}
	return nil
}

// Submit sends one request for the tool and reads the whole response. It
// never retries. Every failure after the request is built, whether a
// network error, a non-2xx status, or a truncated body, is returned as a
// *ToolError carrying the tool's error message.
func (c *Client) Submit(ctx context.Context, tool catalog.Tool, sub Submission) (*Result, error) {
	req, err := c.Build(ctx, tool, sub)
	if err != nil {
		return nil, err
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, &ToolError{Tool: tool.ID, Message: tool.ErrorMessage, Cause: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		cause := fmt.Errorf("%w: %d", ErrStatus, resp.StatusCode)
		if _, err := io.Copy(io.Discard, resp.Body); err != nil {
			cause = errors.Join(cause, fmt.Errorf("draining response: %w", err))
		}
		return nil, &ToolError{
			Tool:    tool.ID,
			Message: tool.ErrorMessage,
			Status:  resp.StatusCode,
			Cause:   cause,
		}
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &ToolError{Tool: tool.ID, Message: tool.ErrorMessage, Status: resp.StatusCode, Cause: err}
	}

	return &Result{
		Tool:        tool.ID,
		Filename:    tool.OutputName(sub.Values),
		ContentType: resp.Header.Get("Content-Type"),
		Body:        data,
	}, nil
}

// Save writes the result to dir/<Filename> through a temporary file that is
// renamed into place, and returns the final path.
func Save(res *Result, dir string) (string, error) {
	if dir == "" {
		dir = "."
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("creating output directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, "."+res.Filename+".*")
	if err != nil {
		return "", fmt.Errorf("creating temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(res.Body); err != nil {
		tmp.Close()
		return "", fmt.Errorf("writing %s: %w", res.Filename, err)
	}
	if err := tmp.Close(); err != nil {
		return "", fmt.Errorf("closing %s: %w", res.Filename, err)
	}

	path := filepath.Join(dir, res.Filename)
	if err := os.Rename(tmp.Name(), path); err != nil {
		return "", fmt.Errorf("saving %s: %w", path, err)
	}
	return path, nil
}
