package cache

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joelkehle/litreview/internal/paper"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "cache.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestSetGetRoundTrip(t *testing.T) {
	s := openTestStore(t)

	year := 2024
	p := paper.Paper{
		ID:            "s2-1",
		Title:         "Cached paper",
		Abstract:      "An abstract.",
		Year:          &year,
		CitationCount: 42,
		Authors:       []paper.Author{{Name: "A. Researcher"}},
		ExternalIDs:   paper.ExternalIDs{DOI: "10.1/x"},
	}
	require.NoError(t, s.Set(p, "semantic_scholar"))

	got, ok, err := s.Get("s2-1")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, p, got)
}

func TestGetMissing(t *testing.T) {
	s := openTestStore(t)

	_, ok, err := s.Get("nope")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestSetReplacesExisting(t *testing.T) {
	s := openTestStore(t)

	require.NoError(t, s.Set(paper.Paper{ID: "p1", Title: "old"}, "semantic_scholar"))
	require.NoError(t, s.Set(paper.Paper{ID: "p1", Title: "new"}, "semantic_scholar"))

	got, ok, err := s.Get("p1")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "new", got.Title)

	n, err := s.Count()
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestIsExpired(t *testing.T) {
	s := openTestStore(t)

	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	s.now = func() time.Time { return base }
	require.NoError(t, s.Set(paper.Paper{ID: "p1"}, "pubmed"))

	// Missing row counts as expired.
	exp, err := s.IsExpired("missing", 7)
	require.NoError(t, err)
	assert.True(t, exp)

	exp, err = s.IsExpired("p1", 7)
	require.NoError(t, err)
	assert.False(t, exp)

	s.now = func() time.Time { return base.Add(8 * 24 * time.Hour) }
	exp, err = s.IsExpired("p1", 7)
	require.NoError(t, err)
	assert.True(t, exp)
}

func TestPurgeRemovesOldRows(t *testing.T) {
	s := openTestStore(t)

	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	s.now = func() time.Time { return base }
	require.NoError(t, s.Set(paper.Paper{ID: "old"}, "pubmed"))

	s.now = func() time.Time { return base.Add(30 * 24 * time.Hour) }
	require.NoError(t, s.Set(paper.Paper{ID: "fresh"}, "pubmed"))

	removed, err := s.Purge(7)
	require.NoError(t, err)
	assert.Equal(t, int64(1), removed)

	_, ok, err := s.Get("old")
	require.NoError(t, err)
	assert.False(t, ok)
	_, ok, err = s.Get("fresh")
	require.NoError(t, err)
	assert.True(t, ok)
}
