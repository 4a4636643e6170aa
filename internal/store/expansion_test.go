package store

import (
	"context"
	"testing"

	"github.com/ISRAEL-DUFF/fabulae-pictae/internal/database"
	"github.com/ISRAEL-DUFF/fabulae-pictae/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, database.Migrate(db))
	return db
}

func TestExpansions_SaveThenList(t *testing.T) {
	ctx := context.Background()
	s := NewExpansions(newTestDB(t))

	_, err := s.Save(ctx, "amicitia", "## amicitia")
	require.NoError(t, err)
	saved, err := s.Save(ctx, "rex", "## rex")
	require.NoError(t, err)
	require.Len(t, saved, 1)
	assert.NotZero(t, saved[0].ID)
	assert.Equal(t, model.LanguageLatin, saved[0].Language)

	rows, err := s.List(ctx, 1)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "rex", rows[0].Word)
	assert.Equal(t, "amicitia", rows[1].Word)

	total, err := s.Count(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 2, total)
}

func TestExpansions_ListPagination(t *testing.T) {
	ctx := context.Background()
	s := NewExpansions(newTestDB(t))

	for i := 0; i < ExpansionsPerPage+3; i++ {
		_, err := s.Save(ctx, "verbum", "x")
		require.NoError(t, err)
	}

	first, err := s.List(ctx, 1)
	require.NoError(t, err)
	assert.Len(t, first, ExpansionsPerPage)

	second, err := s.List(ctx, 2)
	require.NoError(t, err)
	assert.Len(t, second, 3)
	assert.Greater(t, first[len(first)-1].ID, second[0].ID)

	all, err := s.List(ctx, 0)
	require.NoError(t, err)
	assert.Len(t, all, ExpansionsPerPage+3)
}

func TestExpansions_OnlyLatinRows(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	s := NewExpansions(db)

	require.NoError(t, db.Create(&model.SavedExpansion{Word: "logos", Expansion: "greek", Language: "greek"}).Error)
	_, err := s.Save(ctx, "verbum", "latin")
	require.NoError(t, err)

	rows, err := s.List(ctx, 0)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "verbum", rows[0].Word)
}

func TestExpansions_Update(t *testing.T) {
	ctx := context.Background()
	s := NewExpansions(newTestDB(t))

	saved, err := s.Save(ctx, "rex", "old")
	require.NoError(t, err)

	require.NoError(t, s.Update(ctx, saved[0].ID, "new"))
	require.NoError(t, s.Update(ctx, saved[0].ID, "newest"))

	row, err := s.FindByWord(ctx, "rex")
	require.NoError(t, err)
	assert.Equal(t, "newest", row.Expansion)

	assert.ErrorIs(t, s.Update(ctx, 9999, "x"), ErrNotFound)
}

func TestExpansions_Search(t *testing.T) {
	ctx := context.Background()
	s := NewExpansions(newTestDB(t))

	_, _ = s.Save(ctx, "amo", "First conjugation VERB meaning to love")
	_, _ = s.Save(ctx, "rex", "Third declension noun")
	_, _ = s.Save(ctx, "pars", "100% literal_text")

	rows, err := s.Search(ctx, "verb")
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "amo", rows[0].Word)

	rows, err = s.Search(ctx, "%")
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "pars", rows[0].Word)
}

func TestExpansions_SearchEmptyTermSkipsDatabase(t *testing.T) {
	s := NewExpansions(nil)

	rows, err := s.Search(context.Background(), "   ")
	require.NoError(t, err)
	assert.Empty(t, rows)
}

func TestExpansions_LettersAndByLetter(t *testing.T) {
	ctx := context.Background()
	s := NewExpansions(newTestDB(t))

	for _, w := range []string{"rex", "amo", "amicitia"} {
		_, err := s.Save(ctx, w, "x")
		require.NoError(t, err)
	}

	letters, err := s.Letters(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"A", "R"}, letters)

	rows, err := s.ByLetter(ctx, "A")
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "amicitia", rows[0].Word)
	assert.Equal(t, "amo", rows[1].Word)
}

func TestExpansions_FindByWord(t *testing.T) {
	ctx := context.Background()
	s := NewExpansions(newTestDB(t))

	_, err := s.FindByWord(ctx, "rex")
	assert.ErrorIs(t, err, ErrNotFound)

	_, _ = s.Save(ctx, "rex", "first")
	_, _ = s.Save(ctx, "rex", "second")

	row, err := s.FindByWord(ctx, " Rex ")
	require.NoError(t, err)
	assert.Equal(t, "second", row.Expansion)
}
