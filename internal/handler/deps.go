package handler

import (
	"context"

	"github.com/ISRAEL-DUFF/fabulae-pictae/internal/model"
)

// Flows is the prompt flow layer as the handlers use it.
type Flows interface {
	GenerateStory(ctx context.Context, req model.StoryRequest) (*model.LatinStory, error)
	GetWordGloss(ctx context.Context, word, sentence string) (*model.WordGloss, error)
	ExpandWord(ctx context.Context, word, sentence string) (*model.WordExpansion, error)
	ExpandWords(ctx context.Context, input string) ([]model.WordExpansion, error)
	GenerateIllustration(ctx context.Context, sentence string) (string, error)
}

// ExpansionStore is the expanded_words table.
type ExpansionStore interface {
	Save(ctx context.Context, word, expansion string) ([]model.SavedExpansion, error)
	List(ctx context.Context, page int) ([]model.SavedExpansion, error)
	Count(ctx context.Context) (int64, error)
	Update(ctx context.Context, id int64, expansion string) error
	Search(ctx context.Context, term string) ([]model.SavedExpansion, error)
	Letters(ctx context.Context) ([]string, error)
	ByLetter(ctx context.Context, letter string) ([]model.SavedExpansion, error)
	FindByWord(ctx context.Context, word string) (*model.SavedExpansion, error)
}
