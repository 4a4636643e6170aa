package model

import "time"

// LanguageLatin tags every row this service writes to expanded_words. The
// table is shared with other language variants of the product.
const LanguageLatin = "latin"

// SavedExpansion is a persisted word expansion. Word is not unique.
type SavedExpansion struct {
	ID        int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	CreatedAt time.Time `gorm:"index" json:"created_at"`
	Word      string    `gorm:"not null;index" json:"word"`
	Expansion string    `gorm:"type:text;not null" json:"expansion"`
	Language  string    `gorm:"not null;size:20;index" json:"language"`
}

func (SavedExpansion) TableName() string {
	return "expanded_words"
}

// WordGloss is a short English gloss plus morphological and syntactic notes
// for one word in its sentence.
type WordGloss struct {
	Gloss      string `json:"gloss"`
	Morphology string `json:"morphology"`
	Syntax     string `json:"syntax"`
}

// WordExpansion is a long-form Markdown breakdown of one word.
type WordExpansion struct {
	Word      string `json:"word"`
	Expansion string `json:"expansion"`
}
