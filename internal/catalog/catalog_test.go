// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package catalog

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCatalogIsConsistent(t *testing.T) {
	all := All()
	require.Len(t, all, 39)

	seenIDs := make(map[ID]bool)
	seenEndpoints := make(map[string]bool)
	for _, tool := range all {
		assert.False(t, seenIDs[tool.ID], "duplicate id %s", tool.ID)
		assert.False(t, seenEndpoints[tool.Endpoint], "duplicate endpoint %s", tool.Endpoint)
		seenIDs[tool.ID] = true
		seenEndpoints[tool.Endpoint] = true

		assert.True(t, strings.HasPrefix(tool.Endpoint, "/api/"), tool.ID)
		assert.NotEmpty(t, tool.Filename, tool.ID)
		assert.NotEmpty(t, tool.SuccessMessage, tool.ID)
		assert.NotEmpty(t, tool.ErrorMessage, tool.ID)
		assert.NotEmpty(t, GroupOf(tool.ID), "tool %s is not in any sidebar group", tool.ID)

		for _, f := range tool.Fields {
			if f.Kind == KindEnum {
				assert.Contains(t, f.Options, f.Default, "%s.%s default", tool.ID, f.Name)
			}
		}
	}
}

func TestGroupsMatchToolOrder(t *testing.T) {
	var fromGroups []ID
	for _, g := range Groups() {
		fromGroups = append(fromGroups, g.Tools...)
	}
	var fromTools []ID
	for _, tool := range All() {
		fromTools = append(fromTools, tool.ID)
	}
	assert.Equal(t, fromTools, fromGroups)
}

func TestLookup(t *testing.T) {
	tool, ok := Lookup(PDFMerger)
	require.True(t, ok)
	assert.Equal(t, "/api/merge-pdfs", tool.Endpoint)

	_, ok = Lookup("nope")
	assert.False(t, ok)

	_, err := Get("nope")
	assert.ErrorIs(t, err, ErrUnknownTool)

	byEndpoint, ok := ByEndpoint("/api/add-page-numbers")
	require.True(t, ok)
	assert.Equal(t, PageNumbers, byEndpoint.ID)
}

func TestReady(t *testing.T) {
	tests := []struct {
		name    string
		id      ID
		in      Inputs
		wantErr string
	}{
		{name: "single file present", id: PDFRotator, in: Inputs{Files: []string{"a.pdf"}}},
		{name: "single file missing", id: PDFRotator, in: Inputs{}, wantErr: "select one file"},
		{name: "blank path ignored", id: PDFRotator, in: Inputs{Files: []string{"  "}}, wantErr: "select one file"},
		{name: "merge needs two", id: PDFMerger, in: Inputs{Files: []string{"a.pdf"}}, wantErr: "at least 2"},
		{name: "merge with two", id: PDFMerger, in: Inputs{Files: []string{"a.pdf", "b.pdf"}}},
		{name: "images need one", id: ImgToPDF, in: Inputs{}, wantErr: "at least 1"},
		{name: "compare needs both", id: ComparePDF, in: Inputs{Files: []string{"a.pdf"}}, wantErr: "both files"},
		{
			name:    "organize requires page order",
			id:      OrganizePDF,
			in:      Inputs{Files: []string{"a.pdf"}},
			wantErr: "Page Order is required",
		},
		{
			name: "organize with page order",
			id:   OrganizePDF,
			in:   Inputs{Files: []string{"a.pdf"}, Values: map[string]string{"page_order": "1,3,2"}},
		},
		{
			name:    "lock requires password",
			id:      LockPDF,
			in:      Inputs{Files: []string{"a.pdf"}, Values: map[string]string{"password": ""}},
			wantErr: "Password is required",
		},
		{name: "watermark default text is enough", id: Watermark, in: Inputs{Files: []string{"a.pdf"}}},
		{
			name:    "enum rejects unknown value",
			id:      PDFRotator,
			in:      Inputs{Files: []string{"a.pdf"}, Values: map[string]string{"rotation": "45"}},
			wantErr: "Rotation must be one of 90, 180, 270",
		},
		{
			name:    "int field rejects text",
			id:      Resizer,
			in:      Inputs{Files: []string{"a.png"}, Values: map[string]string{"width": "wide"}},
			wantErr: "Width must be a whole number",
		},
		{name: "url tool needs url", id: HTMLToPDF, in: Inputs{}, wantErr: "URL is required"},
		{
			name:    "url tool rejects bad scheme",
			id:      HTMLToPDF,
			in:      Inputs{Values: map[string]string{"url": "ftp://x"}},
			wantErr: "must start with http",
		},
		{name: "url tool ok", id: HTMLToPDF, in: Inputs{Values: map[string]string{"url": "https://example.com"}}},
		{name: "optional metadata fields", id: PDFMeta, in: Inputs{Files: []string{"a.pdf"}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tool, ok := Lookup(tt.id)
			require.True(t, ok)
			err := tool.Ready(tt.in)
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrNotReady))
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestValuesDropsUnknownKeys(t *testing.T) {
	tool, _ := Lookup(Resizer)
	got := tool.Values(map[string]string{"width": "100", "bogus": "x"})
	assert.Equal(t, map[string]string{"width": "100", "height": "600"}, got)
}

func TestOutputName(t *testing.T) {
	transcoder, _ := Lookup(Transcoder)
	assert.Equal(t, "converted.png", transcoder.OutputName(nil))
	assert.Equal(t, "converted.webp", transcoder.OutputName(map[string]string{"target_format": "WEBP"}))

	merger, _ := Lookup(PDFMerger)
	assert.Equal(t, "merged.pdf", merger.OutputName(map[string]string{"x": "y"}))
}
