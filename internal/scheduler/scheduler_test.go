package scheduler

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/ISRAEL-DUFF/fabulae-pictae/internal/model"
	"github.com/ISRAEL-DUFF/fabulae-pictae/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeStore struct {
	rows map[string]string
}

func (f *fakeStore) FindByWord(_ context.Context, word string) (*model.SavedExpansion, error) {
	exp, ok := f.rows[word]
	if !ok {
		return nil, store.ErrNotFound
	}
	return &model.SavedExpansion{Word: word, Expansion: exp}, nil
}

func (f *fakeStore) Save(_ context.Context, word, expansion string) ([]model.SavedExpansion, error) {
	f.rows[word] = expansion
	return []model.SavedExpansion{{Word: word, Expansion: expansion}}, nil
}

type fakeExpander struct {
	calls []string
	fail  string
}

func (f *fakeExpander) ExpandWord(_ context.Context, word, _ string) (*model.WordExpansion, error) {
	f.calls = append(f.calls, word)
	if word == f.fail {
		return nil, errors.New("model overloaded")
	}
	return &model.WordExpansion{Word: word, Expansion: "## " + word}, nil
}

func writeWords(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "words.txt")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadWordList(t *testing.T) {
	words, err := LoadWordList(writeWords(t, "# core vocabulary\nAmo\n\n  rex  \n#skip\nsum\n"))
	require.NoError(t, err)
	assert.Equal(t, []string{"amo", "rex", "sum"}, words)

	_, err = LoadWordList(filepath.Join(t.TempDir(), "missing.txt"))
	assert.Error(t, err)
}

func TestProcessNextWord(t *testing.T) {
	st := &fakeStore{rows: map[string]string{"rex": "already saved"}}
	exp := &fakeExpander{fail: "sum"}

	s, err := NewPrefetchScheduler(st, exp, Config{WordListPath: writeWords(t, "amo\nrex\nsum\n")})
	require.NoError(t, err)

	ctx := context.Background()
	for i := 0; i < 4; i++ {
		s.processNextWord(ctx)
	}

	// amo fetched, rex skipped, sum failed, then the cycle restarts on amo
	// which is now saved.
	assert.Equal(t, []string{"amo", "sum"}, exp.calls)
	assert.Equal(t, "## amo", st.rows["amo"])
	assert.Equal(t, "already saved", st.rows["rex"])

	status := s.Status()
	assert.Equal(t, 1, status.Fetched)
	assert.Equal(t, 2, status.Skipped)
	assert.Equal(t, 1, status.Failed)
	assert.Equal(t, 1, status.CurrentIndex)
	assert.Equal(t, 3, status.TotalWords)
}

func TestNewPrefetchScheduler_EmptyList(t *testing.T) {
	_, err := NewPrefetchScheduler(&fakeStore{}, &fakeExpander{}, Config{WordListPath: writeWords(t, "# nothing\n")})
	assert.Error(t, err)
}
