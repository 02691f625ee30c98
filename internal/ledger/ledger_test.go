// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package ledger

import (
	"bytes"
	"context"
	"encoding/json"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/textract/pkg/types"
)

// --- test helpers ---

func testStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(types.LedgerConfig{Path: filepath.Join(t.TempDir(), "nested", "ledger.db")})
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })

	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	tick := 0
	s.now = func() time.Time {
		tick++
		return base.Add(time.Duration(tick) * time.Second)
	}
	return s
}

func record(path string, status types.FileStatus, digest string) types.FileRecord {
	return types.FileRecord{
		Path:   path,
		Kind:   types.KindImage,
		Status: status,
		Digest: digest,
		Pages:  1,
		Chars:  42,
	}
}

// --- tests ---

func TestOpenCreatesSchemaIdempotently(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ledger.db")
	s, err := Open(types.LedgerConfig{Path: path})
	require.NoError(t, err)
	require.NoError(t, s.Close())

	s, err = Open(types.LedgerConfig{Path: path})
	require.NoError(t, err)
	require.NoError(t, s.Close())
}

func TestRunLifecycle(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()

	run, err := s.BeginRun(ctx, "/scans")
	require.NoError(t, err)
	assert.NotEmpty(t, run.ID)
	assert.Equal(t, "/scans", run.Root)

	require.NoError(t, s.Record(ctx, run.ID, record("/scans/a.png", types.StatusProcessed, "aaa")))
	require.NoError(t, s.Record(ctx, run.ID, record("/scans/b.png", types.StatusFailed, "bbb")))

	run.Processed, run.Failed = 1, 1
	require.NoError(t, s.FinishRun(ctx, run))

	runs, err := s.Runs(ctx, 0)
	require.NoError(t, err)
	require.Len(t, runs, 1)
	assert.Equal(t, run.ID, runs[0].ID)
	assert.Equal(t, 1, runs[0].Processed)
	assert.Equal(t, 1, runs[0].Failed)
	assert.False(t, runs[0].FinishedAt.IsZero())
	assert.True(t, runs[0].FinishedAt.After(runs[0].StartedAt))
}

func TestFinishUnknownRun(t *testing.T) {
	s := testStore(t)
	err := s.FinishRun(context.Background(), Run{ID: "nope"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no such run")
}

func TestLastDigest(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()
	run, err := s.BeginRun(ctx, ".")
	require.NoError(t, err)

	_, ok, err := s.LastDigest(ctx, "a.png")
	require.NoError(t, err)
	assert.False(t, ok, "never seen")

	require.NoError(t, s.Record(ctx, run.ID, record("a.png", types.StatusProcessed, "v1")))
	require.NoError(t, s.Record(ctx, run.ID, record("a.png", types.StatusProcessed, "v2")))
	require.NoError(t, s.Record(ctx, run.ID, record("a.png", types.StatusFailed, "v3")))

	digest, ok, err := s.LastDigest(ctx, "a.png")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "v2", digest, "failures do not count as processed")

	require.NoError(t, s.Record(ctx, run.ID, record("b.png", types.StatusFailed, "x")))
	_, ok, err = s.LastDigest(ctx, "b.png")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestRecent(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()

	run1, err := s.BeginRun(ctx, "one")
	require.NoError(t, err)
	run2, err := s.BeginRun(ctx, "two")
	require.NoError(t, err)

	require.NoError(t, s.Record(ctx, run1.ID, record("a.png", types.StatusProcessed, "1")))
	require.NoError(t, s.Record(ctx, run1.ID, record("b.png", types.StatusSkipped, "")))
	failed := record("c.pdf", types.StatusFailed, "")
	failed.Kind = types.KindPDF
	failed.Error = "Failed to open PDF document."
	require.NoError(t, s.Record(ctx, run2.ID, failed))

	tests := []struct {
		name      string
		opts      QueryOptions
		wantPaths []string
	}{
		{"all, newest first", QueryOptions{}, []string{"c.pdf", "b.png", "a.png"}},
		{"by status", QueryOptions{Status: types.StatusFailed}, []string{"c.pdf"}},
		{"by run", QueryOptions{RunID: run1.ID}, []string{"b.png", "a.png"}},
		{"by path", QueryOptions{Path: "a.png"}, []string{"a.png"}},
		{"limit", QueryOptions{Limit: 1}, []string{"c.pdf"}},
		{"no match", QueryOptions{Status: types.StatusProcessed, RunID: run2.ID}, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			entries, err := s.Recent(ctx, tt.opts)
			require.NoError(t, err)
			var paths []string
			for _, e := range entries {
				paths = append(paths, e.Path)
			}
			assert.Equal(t, tt.wantPaths, paths)
		})
	}

	entries, err := s.Recent(ctx, QueryOptions{Status: types.StatusFailed})
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, run2.ID, entries[0].RunID)
	assert.Equal(t, types.KindPDF, entries[0].Kind)
	assert.Equal(t, "Failed to open PDF document.", entries[0].Error)
	assert.False(t, entries[0].RecordedAt.IsZero())
}

func TestExport(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()
	run, err := s.BeginRun(ctx, "docs")
	require.NoError(t, err)
	rec := record("docs/report.pdf", types.StatusProcessed, "abc")
	rec.Kind = types.KindPDF
	rec.OutputPath = "docs/report.md"
	require.NoError(t, s.Record(ctx, run.ID, rec))

	t.Run("yaml", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, s.ExportYAML(ctx, &buf, QueryOptions{}))

		var doc Export
		require.NoError(t, yaml.Unmarshal(buf.Bytes(), &doc))
		require.Len(t, doc.Runs, 1)
		require.Len(t, doc.Files, 1)
		assert.Equal(t, "docs/report.md", doc.Files[0].OutputPath)
		assert.Equal(t, run.ID, doc.Files[0].RunID)
		assert.Contains(t, buf.String(), "output_path: docs/report.md")
	})

	t.Run("json", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, s.ExportJSON(ctx, &buf, QueryOptions{}))

		var doc map[string][]map[string]any
		require.NoError(t, json.Unmarshal(buf.Bytes(), &doc))
		require.Len(t, doc["files"], 1)
		assert.Equal(t, "docs/report.pdf", doc["files"][0]["path"])
		assert.Equal(t, "pdf", doc["files"][0]["kind"])
		assert.Equal(t, run.ID, doc["files"][0]["run_id"])
	})

	t.Run("filtered to unknown run", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, s.ExportJSON(ctx, &buf, QueryOptions{RunID: "missing"}))
		var doc Export
		require.NoError(t, json.Unmarshal(buf.Bytes(), &doc))
		assert.Empty(t, doc.Runs)
		assert.Empty(t, doc.Files)
	})
}
