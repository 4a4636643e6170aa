package session

import (
	"testing"
	"time"

	"github.com/ISRAEL-DUFF/fabulae-pictae/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistry_CreateAndGet(t *testing.T) {
	r := NewRegistry(0)
	s := r.Create()

	got, err := r.Get(s.ID)
	require.NoError(t, err)
	assert.Same(t, s, got)
	assert.Equal(t, DefaultLifetime, s.ExpiresAt.Sub(s.CreatedAt))

	_, err = r.Get("missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestRegistry_Expiry(t *testing.T) {
	r := NewRegistry(time.Hour)
	now := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	r.now = func() time.Time { return now }

	old := r.Create()
	now = now.Add(2 * time.Hour)

	_, err := r.Get(old.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	r.Create()
	assert.Equal(t, 1, r.Len())
}

func TestSession_StoryEpoch(t *testing.T) {
	s := NewRegistry(0).Create()
	first := &model.LatinStory{Story: []model.StorySentence{{Sentence: "Prima."}}}
	second := &model.LatinStory{Story: []model.StorySentence{{Sentence: "Secunda."}}}

	e1 := s.BeginStory()
	e2 := s.BeginStory()

	assert.True(t, s.CommitStory(e2, second))
	assert.False(t, s.CommitStory(e1, first), "stale generation must be dropped")
	assert.Same(t, second, s.Story())
	assert.True(t, s.Info().HasStory)
}
