package store

import (
	"context"
	"encoding/json"
	"os"
	"testing"

	"github.com/ISRAEL-DUFF/fabulae-pictae/internal/cache"
	"github.com/ISRAEL-DUFF/fabulae-pictae/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleStory(first string) model.LatinStory {
	return model.LatinStory{Story: []model.StorySentence{
		{Sentence: first, ImageURL: "data:image/png;base64,AAA"},
		{Sentence: "Finis.", ImageURL: "data:image/png;base64,BBB"},
	}}
}

func exerciseFavorites(t *testing.T, s FavoriteStore) {
	ctx := context.Background()

	a, err := s.Put(ctx, sampleStory("Puella cantat."))
	require.NoError(t, err)
	b, err := s.Put(ctx, sampleStory("Puella cantat."))
	require.NoError(t, err)

	assert.NotEqual(t, a.ID, b.ID, "stories with the same opening line keep separate ids")
	assert.Equal(t, "Puella cantat.", a.Title)

	got, err := s.Get(ctx, a.ID)
	require.NoError(t, err)
	var story model.LatinStory
	require.NoError(t, json.Unmarshal(got.Story, &story))
	assert.Equal(t, sampleStory("Puella cantat."), story)

	all, err := s.List(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 2)

	require.NoError(t, s.Delete(ctx, a.ID))
	_, err = s.Get(ctx, a.ID)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.ErrorIs(t, s.Delete(ctx, a.ID), ErrNotFound)

	_, err = s.Put(ctx, model.LatinStory{})
	assert.Error(t, err)
}

func TestGormFavorites(t *testing.T) {
	exerciseFavorites(t, NewGormFavorites(newTestDB(t)))
}

func TestRedisFavorites(t *testing.T) {
	url := os.Getenv("TEST_REDIS_URL")
	if url == "" {
		t.Skip("TEST_REDIS_URL not set")
	}
	c, err := cache.NewRedisCache(url)
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = c.Delete(context.Background(), favoritesHashKey)
		_ = c.Close()
	})
	require.NoError(t, c.Delete(context.Background(), favoritesHashKey))

	exerciseFavorites(t, NewRedisFavorites(c))
}

func TestNewFavorite_TitleIsTruncated(t *testing.T) {
	long := "Olim in parva villa prope magnam silvam habitabat agricola cum uxore et filiis."
	fav, err := newFavorite(sampleStory(long))
	require.NoError(t, err)
	assert.Len(t, []rune(fav.Title), titleLength)
}
