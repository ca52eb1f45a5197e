// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package history

import (
	"context"
	"encoding/json"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/nexus-tools/pkg/types"
)

func testStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(types.HistoryConfig{Dir: t.TempDir(), MaxResults: 10})
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

var base = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

func seed(t *testing.T, s *Store) {
	t.Helper()
	runs := []types.RunRecord{
		{Tool: "pdf-merger", Endpoint: "/api/merge-pdfs", Status: types.RunOK, Inputs: []string{"a.pdf", "b.pdf"}, OutputPath: "out/merged.pdf", Bytes: 1234, Duration: 1500 * time.Millisecond, StartedAt: base},
		{Tool: "pdf-rotator", Endpoint: "/api/rotate-pdf", Status: types.RunFailed, Inputs: []string{"c.pdf"}, Error: "unexpected response status: 500", StartedAt: base.Add(time.Minute)},
		{Tool: "pdf-merger", Endpoint: "/api/merge-pdfs", Status: types.RunBusy, StartedAt: base.Add(2 * time.Minute)},
	}
	for _, r := range runs {
		_, err := s.Record(context.Background(), r)
		require.NoError(t, err)
	}
}

func TestRecordAndRecent(t *testing.T) {
	s := testStore(t)
	seed(t, s)

	runs, err := s.Recent(context.Background(), QueryOptions{})
	require.NoError(t, err)
	require.Len(t, runs, 3)
	assert.Equal(t, types.RunBusy, runs[0].Status, "newest first")

	last := runs[2]
	assert.Equal(t, "pdf-merger", last.Tool)
	assert.Equal(t, []string{"a.pdf", "b.pdf"}, last.Inputs)
	assert.Equal(t, "out/merged.pdf", last.OutputPath)
	assert.EqualValues(t, 1234, last.Bytes)
	assert.Equal(t, 1500*time.Millisecond, last.Duration)
	assert.True(t, base.Equal(last.StartedAt))
	assert.Nil(t, runs[0].Inputs)
}

func TestRecentFilters(t *testing.T) {
	s := testStore(t)
	seed(t, s)

	tests := []struct {
		name string
		opts QueryOptions
		want int
	}{
		{name: "by tool", opts: QueryOptions{Tool: "pdf-merger"}, want: 2},
		{name: "by status", opts: QueryOptions{Status: types.RunFailed}, want: 1},
		{name: "tool and status", opts: QueryOptions{Tool: "pdf-merger", Status: types.RunOK}, want: 1},
		{name: "since", opts: QueryOptions{Since: base.Add(30 * time.Second)}, want: 2},
		{name: "limit", opts: QueryOptions{MaxResults: 1}, want: 1},
		{name: "no match", opts: QueryOptions{Tool: "resizer"}, want: 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			runs, err := s.Recent(context.Background(), tt.opts)
			require.NoError(t, err)
			assert.Len(t, runs, tt.want)
		})
	}
}

func TestStatsAndPrune(t *testing.T) {
	s := testStore(t)
	seed(t, s)

	stats, err := s.Stats(context.Background())
	require.NoError(t, err)
	assert.Equal(t, map[types.RunStatus]int{types.RunOK: 1, types.RunFailed: 1, types.RunBusy: 1}, stats)

	n, err := s.Prune(context.Background(), base.Add(90*time.Second))
	require.NoError(t, err)
	assert.EqualValues(t, 2, n)

	runs, err := s.Recent(context.Background(), QueryOptions{})
	require.NoError(t, err)
	assert.Len(t, runs, 1)
}

func TestExports(t *testing.T) {
	s := testStore(t)
	seed(t, s)

	jsonPath, err := s.ExportJSON(context.Background(), QueryOptions{Tool: "pdf-merger"})
	require.NoError(t, err)
	data, err := os.ReadFile(jsonPath)
	require.NoError(t, err)
	var fromJSON []types.RunRecord
	require.NoError(t, json.Unmarshal(data, &fromJSON))
	assert.Len(t, fromJSON, 2)

	yamlPath, err := s.ExportYAML(context.Background(), QueryOptions{})
	require.NoError(t, err)
	data, err = os.ReadFile(yamlPath)
	require.NoError(t, err)
	var fromYAML []map[string]any
	require.NoError(t, yaml.Unmarshal(data, &fromYAML))
	require.Len(t, fromYAML, 3)
	assert.Equal(t, "pdf-merger", fromYAML[0]["tool"])
}

func TestExportEmpty(t *testing.T) {
	s := testStore(t)
	path, err := s.ExportJSON(context.Background(), QueryOptions{})
	require.NoError(t, err)
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "[]", string(data))
}

func TestOpenRequiresDir(t *testing.T) {
	_, err := Open(types.HistoryConfig{})
	assert.Error(t, err)
}
