// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime"
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/pdiddy/nexus-tools/internal/catalog"
	"github.com/pdiddy/nexus-tools/internal/convert"
	"github.com/pdiddy/nexus-tools/internal/toolchain"
)

// fileParts are the multipart keys that carry uploads, in the order their
// files are handed to operations.
var fileParts = []string{"file", "files", "file1", "file2"}

// errorBody is the JSON error shape: {"detail": "..."}.
type errorBody struct {
	Detail string `json:"detail"`
}

// writeJSON sends v as JSON with status. A value that cannot be encoded is
// logged and answered with a 500.
func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	body, err := json.Marshal(v)
	if err != nil {
		s.log.Error("encoding response", zap.Error(err))
		status, body = http.StatusInternalServerError, []byte(`{"detail":"internal server error"}`)
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if _, err := w.Write(append(body, '\n')); err != nil {
		s.log.Debug("writing response", zap.Error(err))
	}
}

// statusFor maps an operation error to its HTTP status.
func statusFor(err error) int {
	var tooBig *http.MaxBytesError
	switch {
	case errors.As(err, &tooBig):
		return http.StatusRequestEntityTooLarge
	case errors.Is(err, convert.ErrInvalidInput):
		return http.StatusBadRequest
	case errors.Is(err, toolchain.ErrUnavailable):
		return http.StatusNotImplemented
	}
	return http.StatusInternalServerError
}

func (s *Server) operation(endpoint string, op convert.Operation) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		r.Body = http.MaxBytesReader(w, r.Body, s.maxBody)
		req, err := parseRequest(r)
		if err == nil {
			var out *convert.Output
			out, err = op(r.Context(), req)
			if err == nil {
				s.writeOutput(w, out)
				return
			}
		}

		status := statusFor(err)
		log := s.log.With(zap.String("endpoint", endpoint), zap.Int("status", status), zap.Error(err))
		if status >= http.StatusInternalServerError && status != http.StatusNotImplemented {
			log.Error("operation failed")
		} else {
			log.Info("operation rejected")
		}
		s.writeJSON(w, status, errorBody{Detail: err.Error()})
	})
}

func (s *Server) writeOutput(w http.ResponseWriter, out *convert.Output) {
	h := w.Header()
	h.Set("Content-Type", out.ContentType)
	h.Set("Content-Length", strconv.Itoa(len(out.Data)))
	h.Set("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": out.Filename}))
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(out.Data); err != nil {
		s.log.Debug("writing output", zap.String("filename", out.Filename), zap.Error(err))
	}
}

// parseRequest reads a multipart form or a JSON object of strings into a
// convert.Request.
func parseRequest(r *http.Request) (*convert.Request, error) {
	req := &convert.Request{Values: make(map[string]string)}
	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))

	switch {
	case mediaType == "application/json":
		var body map[string]any
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			var tooBig *http.MaxBytesError
			if errors.As(err, &tooBig) {
				return nil, err
			}
			return nil, fmt.Errorf("%w: malformed JSON body: %v", convert.ErrInvalidInput, err)
		}
		for k, v := range body {
			switch v := v.(type) {
			case string:
				req.Values[k] = v
			case float64, bool:
				req.Values[k] = fmt.Sprint(v)
			}
		}
	case strings.HasPrefix(mediaType, "multipart/"):
		if err := r.ParseMultipartForm(multipartMemory); err != nil {
			var tooBig *http.MaxBytesError
			if errors.As(err, &tooBig) {
				return nil, err
			}
			return nil, fmt.Errorf("%w: malformed multipart body: %v", convert.ErrInvalidInput, err)
		}
		defer r.MultipartForm.RemoveAll()
		for k, vs := range r.MultipartForm.Value {
			if len(vs) > 0 {
				req.Values[k] = vs[0]
			}
		}
		for _, key := range fileParts {
			for _, fh := range r.MultipartForm.File[key] {
				in, err := readPart(fh)
				if err != nil {
					return nil, err
				}
				req.Files = append(req.Files, in)
			}
		}
	case mediaType == "application/x-www-form-urlencoded":
		if err := r.ParseForm(); err != nil {
			return nil, fmt.Errorf("%w: malformed form body: %v", convert.ErrInvalidInput, err)
		}
		for k := range r.PostForm {
			req.Values[k] = r.PostForm.Get(k)
		}
	default:
		return nil, fmt.Errorf("%w: unsupported content type %q", convert.ErrInvalidInput, mediaType)
	}
	return req, nil
}

func readPart(fh *multipart.FileHeader) (convert.Input, error) {
	f, err := fh.Open()
	if err != nil {
		return convert.Input{}, fmt.Errorf("opening upload %s: %w", fh.Filename, err)
	}
	defer f.Close()
	data, err := io.ReadAll(f)
	if err != nil {
		return convert.Input{}, fmt.Errorf("reading upload %s: %w", fh.Filename, err)
	}
	return convert.Input{Name: fh.Filename, Data: data}, nil
}

type healthResponse struct {
	Status    string          `json:"status"`
	Endpoints int             `json:"endpoints"`
	Toolchain map[string]bool `json:"toolchain,omitempty"`
}

func (s *Server) health(w http.ResponseWriter, _ *http.Request) {
	resp := healthResponse{Status: "ok", Endpoints: len(s.ops)}
	if s.tools != nil {
		resp.Toolchain = s.tools.Status()
	}
	s.writeJSON(w, http.StatusOK, resp)
}

// toolInfo is the public description of one tool in /api/tools.
type toolInfo struct {
	ID       string   `json:"id"`
	Group    string   `json:"group"`
	Label    string   `json:"label"`
	Endpoint string   `json:"endpoint"`
	Shape    string   `json:"shape"`
	Fields   []string `json:"fields,omitempty"`
	Filename string   `json:"filename"`
}

func (s *Server) listTools(w http.ResponseWriter, _ *http.Request) {
	var out []toolInfo
	for _, t := range catalog.All() {
		if _, ok := s.ops[t.Endpoint]; !ok {
			continue
		}
		info := toolInfo{
			ID:       string(t.ID),
			Group:    catalog.GroupOf(t.ID),
			Label:    t.Label,
			Endpoint: t.Endpoint,
			Shape:    t.Shape.String(),
			Filename: t.Filename,
		}
		for _, f := range t.Fields {
			info.Fields = append(info.Fields, f.Name)
		}
		out = append(out, info)
	}
	s.writeJSON(w, http.StatusOK, out)
}
