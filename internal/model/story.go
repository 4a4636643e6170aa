package model

import (
	"time"

	"gorm.io/datatypes"
)

// Learner levels accepted by story generation.
const (
	LevelBeginner     = "Beginner"
	LevelIntermediate = "Intermediate"
	LevelAdvanced     = "Advanced"
)

const (
	MinStoryLength     = 6
	MaxStoryLength     = 12
	DefaultStoryLength = 8
)

type StoryRequest struct {
	Level        string `json:"level"`
	Topic        string `json:"topic"`
	GrammarScope string `json:"grammarScope,omitempty"`
	StoryLength  int    `json:"storyLength"`
}

type StorySentence struct {
	Sentence string `json:"sentence" yaml:"sentence"`
	ImageURL string `json:"imageUrl" yaml:"imageUrl"`
}

// LatinStory is also the export document: {"story": [...]}.
type LatinStory struct {
	Story []StorySentence `json:"story" yaml:"story"`
}

// FavoriteStory is a story the reader kept. ID is generated per favorite, so
// two stories sharing an opening line never collide.
type FavoriteStory struct {
	ID        string         `gorm:"type:varchar(36);primaryKey" json:"id"`
	Title     string         `gorm:"size:255" json:"title"`
	Story     datatypes.JSON `gorm:"not null" json:"story"`
	CreatedAt time.Time      `json:"createdAt"`
}

func (FavoriteStory) TableName() string {
	return "favorite_stories"
}
