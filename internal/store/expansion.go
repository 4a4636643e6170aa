package store

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/ISRAEL-DUFF/fabulae-pictae/internal/model"
	"gorm.io/gorm"
)

// ExpansionsPerPage is the page size of List.
const ExpansionsPerPage = 10

var ErrNotFound = errors.New("record not found")

// Expansions is a thin pass-through to the expanded_words table. Every query
// is scoped to rows tagged "latin".
type Expansions struct {
	db *gorm.DB
}

func NewExpansions(db *gorm.DB) *Expansions {
	return &Expansions{db: db}
}

func (s *Expansions) latin(ctx context.Context) *gorm.DB {
	return s.db.WithContext(ctx).Model(&model.SavedExpansion{}).Where("language = ?", model.LanguageLatin)
}

// Save inserts a new row. Duplicate words are allowed.
func (s *Expansions) Save(ctx context.Context, word, expansion string) ([]model.SavedExpansion, error) {
	row := model.SavedExpansion{
		Word:      word,
		Expansion: expansion,
		Language:  model.LanguageLatin,
	}
	if err := s.db.WithContext(ctx).Create(&row).Error; err != nil {
		return nil, fmt.Errorf("save expansion for %q: %w", word, err)
	}
	return []model.SavedExpansion{row}, nil
}

// List returns rows newest first. A page below 1 returns every row.
func (s *Expansions) List(ctx context.Context, page int) ([]model.SavedExpansion, error) {
	q := s.latin(ctx).Order("created_at DESC").Order("id DESC")
	if page >= 1 {
		q = q.Offset((page - 1) * ExpansionsPerPage).Limit(ExpansionsPerPage)
	}

	var rows []model.SavedExpansion
	if err := q.Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("list expansions: %w", err)
	}
	return rows, nil
}

func (s *Expansions) Count(ctx context.Context) (int64, error) {
	var total int64
	if err := s.latin(ctx).Count(&total).Error; err != nil {
		return 0, fmt.Errorf("count expansions: %w", err)
	}
	return total, nil
}

// Update overwrites the expansion text of one row. Last write wins.
func (s *Expansions) Update(ctx context.Context, id int64, expansion string) error {
	result := s.db.WithContext(ctx).Model(&model.SavedExpansion{}).
		Where("id = ?", id).
		Update("expansion", expansion)
	if result.Error != nil {
		return fmt.Errorf("update expansion %d: %w", id, result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("update expansion %d: %w", id, ErrNotFound)
	}
	return nil
}

// Search does a case-insensitive substring match on the expansion text. An
// empty term returns nothing without touching the database.
func (s *Expansions) Search(ctx context.Context, term string) ([]model.SavedExpansion, error) {
	term = strings.TrimSpace(term)
	if term == "" {
		return []model.SavedExpansion{}, nil
	}

	pattern := "%" + escapeLike(strings.ToLower(term)) + "%"
	var rows []model.SavedExpansion
	err := s.latin(ctx).
		Where(`LOWER(expansion) LIKE ? ESCAPE '\'`, pattern).
		Order("created_at DESC").Order("id DESC").
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("search expansions for %q: %w", term, err)
	}
	return rows, nil
}

// Letters returns the distinct upper-cased first letters of saved words.
func (s *Expansions) Letters(ctx context.Context) ([]string, error) {
	var letters []string
	err := s.latin(ctx).
		Where("word <> ''").
		Distinct("UPPER(SUBSTR(word, 1, 1)) AS letter").
		Order("letter ASC").
		Pluck("letter", &letters).Error
	if err != nil {
		return nil, fmt.Errorf("list letters: %w", err)
	}
	return letters, nil
}

// ByLetter returns rows whose word starts with letter, ignoring case.
func (s *Expansions) ByLetter(ctx context.Context, letter string) ([]model.SavedExpansion, error) {
	letter = strings.ToLower(strings.TrimSpace(letter))
	if letter == "" {
		return []model.SavedExpansion{}, nil
	}

	var rows []model.SavedExpansion
	err := s.latin(ctx).
		Where(`LOWER(word) LIKE ? ESCAPE '\'`, escapeLike(letter)+"%").
		Order("word ASC").Order("id ASC").
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("list expansions for letter %q: %w", letter, err)
	}
	return rows, nil
}

// FindByWord returns the newest row saved for word.
func (s *Expansions) FindByWord(ctx context.Context, word string) (*model.SavedExpansion, error) {
	var row model.SavedExpansion
	err := s.latin(ctx).
		Where("LOWER(word) = ?", strings.ToLower(strings.TrimSpace(word))).
		Order("created_at DESC").Order("id DESC").
		First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find expansion for %q: %w", word, err)
	}
	return &row, nil
}

func escapeLike(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return r.Replace(s)
}
