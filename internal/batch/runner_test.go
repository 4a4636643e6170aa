package batch

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/ISRAEL-DUFF/fabulae-pictae/internal/model"
	"github.com/ISRAEL-DUFF/fabulae-pictae/internal/validator"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeExpander struct {
	err error
}

func (f *fakeExpander) ExpandWords(_ context.Context, input string) ([]model.WordExpansion, error) {
	if f.err != nil {
		return nil, f.err
	}
	var out []model.WordExpansion
	for _, w := range validator.ParseWordList(input) {
		out = append(out, model.WordExpansion{Word: w, Expansion: "## " + w})
	}
	return out, nil
}

type fakeSaver struct {
	mu     sync.Mutex
	words  []string
	failOn string
}

func (f *fakeSaver) Save(_ context.Context, word, expansion string) ([]model.SavedExpansion, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if word == f.failOn {
		return nil, errors.New("connection reset")
	}
	f.words = append(f.words, word)
	return []model.SavedExpansion{{ID: int64(len(f.words)), Word: word, Expansion: expansion, Language: model.LanguageLatin}}, nil
}

func (f *fakeSaver) saved() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.words...)
}

func TestRun_SavesInOrderWithProgress(t *testing.T) {
	saver := &fakeSaver{}
	r := NewRunner(&fakeExpander{}, saver)

	var progress [][2]int
	rows, err := r.Run(context.Background(), validator.ParseWordList("amicitia, rex"), func(saved, total int) {
		progress = append(progress, [2]int{saved, total})
	})
	require.NoError(t, err)

	require.Len(t, rows, 2)
	assert.Equal(t, "amicitia", rows[0].Word)
	assert.Equal(t, "rex", rows[1].Word)
	assert.Equal(t, []string{"amicitia", "rex"}, saver.saved())
	assert.Equal(t, [][2]int{{1, 2}, {2, 2}}, progress)
}

func TestRun_ExpansionFailureSavesNothing(t *testing.T) {
	saver := &fakeSaver{}
	r := NewRunner(&fakeExpander{err: errors.New("quota exceeded")}, saver)

	_, err := r.Run(context.Background(), []string{"amicitia", "rex"}, nil)
	assert.ErrorContains(t, err, "quota")
	assert.Empty(t, saver.saved())
}

func TestRun_SaveFailureStopsLoop(t *testing.T) {
	saver := &fakeSaver{failOn: "rex"}
	r := NewRunner(&fakeExpander{}, saver)

	rows, err := r.Run(context.Background(), []string{"amicitia", "rex", "amo"}, nil)
	assert.ErrorContains(t, err, "connection reset")
	assert.Len(t, rows, 1)
	assert.Equal(t, []string{"amicitia"}, saver.saved())
}

func TestStart_CompletesJob(t *testing.T) {
	r := NewRunner(&fakeExpander{}, &fakeSaver{})

	job := r.Start([]string{"amicitia", "rex"})
	assert.Equal(t, StatusRunning, job.Status)

	require.Eventually(t, func() bool {
		got, ok := r.Get(job.JobID)
		return ok && got.Status == StatusCompleted
	}, time.Second, 10*time.Millisecond)

	got, _ := r.Get(job.JobID)
	assert.Equal(t, 2, got.Saved)
	assert.Equal(t, float64(100), got.Progress)
	assert.NotNil(t, got.FinishedAt)

	_, ok := r.Get("missing")
	assert.False(t, ok)
}

func TestStart_FailedJob(t *testing.T) {
	r := NewRunner(&fakeExpander{}, &fakeSaver{failOn: "amicitia"})

	job := r.Start([]string{"amicitia"})

	require.Eventually(t, func() bool {
		got, _ := r.Get(job.JobID)
		return got.Status == StatusFailed
	}, time.Second, 10*time.Millisecond)

	got, _ := r.Get(job.JobID)
	require.Len(t, got.Errors, 1)
	assert.Contains(t, got.Errors[0].Error, "connection reset")
	assert.Zero(t, got.Progress)
}
