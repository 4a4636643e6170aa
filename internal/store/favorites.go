package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/ISRAEL-DUFF/fabulae-pictae/internal/cache"
	"github.com/ISRAEL-DUFF/fabulae-pictae/internal/model"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// FavoriteStore keeps stories a reader marked as favorite. Each favorite gets
// a fresh UUID on Put.
type FavoriteStore interface {
	Put(ctx context.Context, story model.LatinStory) (*model.FavoriteStory, error)
	Get(ctx context.Context, id string) (*model.FavoriteStory, error)
	List(ctx context.Context) ([]model.FavoriteStory, error)
	Delete(ctx context.Context, id string) error
}

const titleLength = 60

func newFavorite(story model.LatinStory) (*model.FavoriteStory, error) {
	if len(story.Story) == 0 {
		return nil, errors.New("favorite story has no sentences")
	}
	raw, err := json.Marshal(story)
	if err != nil {
		return nil, fmt.Errorf("marshal story: %w", err)
	}

	title := story.Story[0].Sentence
	if r := []rune(title); len(r) > titleLength {
		title = string(r[:titleLength])
	}

	return &model.FavoriteStory{
		ID:        uuid.New().String(),
		Title:     strings.TrimSpace(title),
		Story:     datatypes.JSON(raw),
		CreatedAt: time.Now().UTC(),
	}, nil
}

// GormFavorites stores favorites in the favorite_stories table.
type GormFavorites struct {
	db *gorm.DB
}

func NewGormFavorites(db *gorm.DB) *GormFavorites {
	return &GormFavorites{db: db}
}

func (s *GormFavorites) Put(ctx context.Context, story model.LatinStory) (*model.FavoriteStory, error) {
	fav, err := newFavorite(story)
	if err != nil {
		return nil, err
	}
	if err := s.db.WithContext(ctx).Create(fav).Error; err != nil {
		return nil, fmt.Errorf("save favorite: %w", err)
	}
	return fav, nil
}

func (s *GormFavorites) Get(ctx context.Context, id string) (*model.FavoriteStory, error) {
	var fav model.FavoriteStory
	err := s.db.WithContext(ctx).Where("id = ?", id).First(&fav).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get favorite %s: %w", id, err)
	}
	return &fav, nil
}

func (s *GormFavorites) List(ctx context.Context) ([]model.FavoriteStory, error) {
	var favs []model.FavoriteStory
	if err := s.db.WithContext(ctx).Order("created_at DESC").Find(&favs).Error; err != nil {
		return nil, fmt.Errorf("list favorites: %w", err)
	}
	return favs, nil
}

func (s *GormFavorites) Delete(ctx context.Context, id string) error {
	result := s.db.WithContext(ctx).Where("id = ?", id).Delete(&model.FavoriteStory{})
	if result.Error != nil {
		return fmt.Errorf("delete favorite %s: %w", id, result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

const favoritesHashKey = "favorites:stories"

// RedisFavorites stores every favorite as one field of a Redis hash.
type RedisFavorites struct {
	cache *cache.RedisCache
}

func NewRedisFavorites(c *cache.RedisCache) *RedisFavorites {
	return &RedisFavorites{cache: c}
}

func (s *RedisFavorites) Put(ctx context.Context, story model.LatinStory) (*model.FavoriteStory, error) {
	fav, err := newFavorite(story)
	if err != nil {
		return nil, err
	}
	raw, err := json.Marshal(fav)
	if err != nil {
		return nil, fmt.Errorf("marshal favorite: %w", err)
	}
	if err := s.cache.HSet(ctx, favoritesHashKey, fav.ID, raw); err != nil {
		return nil, fmt.Errorf("save favorite: %w", err)
	}
	return fav, nil
}

func (s *RedisFavorites) Get(ctx context.Context, id string) (*model.FavoriteStory, error) {
	raw, err := s.cache.HGet(ctx, favoritesHashKey, id)
	if errors.Is(err, redis.Nil) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get favorite %s: %w", id, err)
	}
	var fav model.FavoriteStory
	if err := json.Unmarshal(raw, &fav); err != nil {
		return nil, fmt.Errorf("decode favorite %s: %w", id, err)
	}
	return &fav, nil
}

func (s *RedisFavorites) List(ctx context.Context) ([]model.FavoriteStory, error) {
	all, err := s.cache.HGetAll(ctx, favoritesHashKey)
	if err != nil {
		return nil, fmt.Errorf("list favorites: %w", err)
	}
	favs := make([]model.FavoriteStory, 0, len(all))
	for id, raw := range all {
		var fav model.FavoriteStory
		if err := json.Unmarshal([]byte(raw), &fav); err != nil {
			return nil, fmt.Errorf("decode favorite %s: %w", id, err)
		}
		favs = append(favs, fav)
	}
	sort.Slice(favs, func(i, j int) bool {
		return favs[i].CreatedAt.After(favs[j].CreatedAt)
	})
	return favs, nil
}

func (s *RedisFavorites) Delete(ctx context.Context, id string) error {
	removed, err := s.cache.HDel(ctx, favoritesHashKey, id)
	if err != nil {
		return fmt.Errorf("delete favorite %s: %w", id, err)
	}
	if removed == 0 {
		return ErrNotFound
	}
	return nil
}
