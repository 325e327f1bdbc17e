package report

import (
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/aurixon/api/internal/logger"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func newScratch(t *testing.T) *Scratch {
	t.Helper()
	s, err := NewScratch(filepath.Join(t.TempDir(), "exports"), logger.New("test"))
	require.NoError(t, err)
	return s
}

func writeArtifact(t *testing.T, s *Scratch, periodID uuid.UUID) string {
	t.Helper()
	path, err := s.Write(periodID, FormatCSV, func(w io.Writer) error {
		_, err := io.WriteString(w, "a,b\n")
		return err
	})
	require.NoError(t, err)
	return path
}

func TestScratch_UniqueNames(t *testing.T) {
	s := newScratch(t)
	periodID := uuid.New()

	const n = 20
	paths := make([]string, n)
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			p, err := s.Write(periodID, FormatPDF, func(w io.Writer) error {
				_, err := io.WriteString(w, "%PDF-")
				return err
			})
			assert.NoError(t, err)
			paths[i] = p
		}(i)
	}
	wg.Wait()

	seen := make(map[string]bool)
	for _, p := range paths {
		name := filepath.Base(p)
		assert.True(t, strings.HasPrefix(name, ArtifactPrefix+periodID.String()+"_"), name)
		assert.True(t, strings.HasSuffix(name, ".pdf"), name)
		assert.False(t, seen[p], "duplicate artifact name %s", p)
		seen[p] = true
	}
}

func TestScratch_WriteFailureRemovesFile(t *testing.T) {
	s := newScratch(t)
	boom := errors.New("render failed")

	path, err := s.Write(uuid.New(), FormatXLSX, func(w io.Writer) error {
		_, _ = io.WriteString(w, "partial")
		return boom
	})
	assert.ErrorIs(t, err, boom)
	assert.Empty(t, path)

	entries, err := os.ReadDir(s.Dir())
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestScratch_RemoveAfter(t *testing.T) {
	defer goleak.VerifyNone(t)

	s := newScratch(t)
	path := writeArtifact(t, s, uuid.New())

	s.RemoveAfter(path, 20*time.Millisecond)
	assert.Equal(t, 1, s.Pending())
	assert.FileExists(t, path)

	assert.Eventually(t, func() bool {
		_, err := os.Stat(path)
		return os.IsNotExist(err) && s.Pending() == 0
	}, 2*time.Second, 10*time.Millisecond)
}

func TestScratch_CloseRemovesPending(t *testing.T) {
	defer goleak.VerifyNone(t)

	s := newScratch(t)
	path := writeArtifact(t, s, uuid.New())
	s.RemoveAfter(path, time.Hour)

	require.NoError(t, s.Close())
	assert.NoFileExists(t, path)
	assert.Zero(t, s.Pending())

	_, err := s.Write(uuid.New(), FormatCSV, func(io.Writer) error { return nil })
	assert.Error(t, err, "closed scratch accepts no new artifacts")
}

func TestScratch_RemoveIsIdempotent(t *testing.T) {
	s := newScratch(t)
	path := writeArtifact(t, s, uuid.New())
	s.RemoveAfter(path, time.Hour)

	require.NoError(t, s.Remove(path))
	require.NoError(t, s.Remove(path))
	assert.Zero(t, s.Pending())
}

func TestScratch_Sweep(t *testing.T) {
	s := newScratch(t)

	stale := writeArtifact(t, s, uuid.New())
	fresh := writeArtifact(t, s, uuid.New())
	other := filepath.Join(s.Dir(), "keep.txt")
	require.NoError(t, os.WriteFile(other, []byte("x"), 0o600))

	old := time.Now().Add(-48 * time.Hour)
	require.NoError(t, os.Chtimes(stale, old, old))
	require.NoError(t, os.Chtimes(other, old, old))

	removed, err := s.Sweep(24 * time.Hour)
	require.NoError(t, err)
	assert.Equal(t, 1, removed)
	assert.NoFileExists(t, stale)
	assert.FileExists(t, fresh)
	assert.FileExists(t, other)
}
