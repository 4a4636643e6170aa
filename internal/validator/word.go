package validator

import (
	"errors"
	"fmt"
	"strings"
	"unicode"

	"github.com/ISRAEL-DUFF/fabulae-pictae/internal/model"
)

// ErrInvalid is wrapped by every validation failure.
var ErrInvalid = errors.New("invalid request")

func invalid(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalid, fmt.Sprintf(format, args...))
}

var punctuation = strings.NewReplacer(".", "", ",", "", ";", "", "!", "", "?", "")

// CleanWord strips sentence punctuation and surrounding space from a token
// clicked in a story sentence.
func CleanWord(word string) string {
	return strings.TrimSpace(punctuation.Replace(word))
}

// ParseWordList splits a comma-separated word list, trimming each entry and
// dropping blanks. Order is preserved.
func ParseWordList(input string) []string {
	parts := strings.Split(input, ",")
	words := make([]string, 0, len(parts))
	for _, p := range parts {
		if w := strings.TrimSpace(p); w != "" {
			words = append(words, w)
		}
	}
	return words
}

// Tokenize returns the cleaned words of a sentence in order, duplicates
// included.
func Tokenize(sentence string) []string {
	fields := strings.FieldsFunc(sentence, unicode.IsSpace)
	words := make([]string, 0, len(fields))
	for _, f := range fields {
		if w := CleanWord(f); w != "" {
			words = append(words, w)
		}
	}
	return words
}

// ValidateWord rejects empty words and comma lists where one word is expected.
func ValidateWord(word string) (string, error) {
	if len(ParseWordList(word)) > 1 {
		return "", invalid("expected a single word, got a list")
	}
	w := CleanWord(word)
	if w == "" {
		return "", invalid("word is required")
	}
	return w, nil
}

// ValidateStoryRequest normalizes the level, applies the default length and
// checks bounds. It mutates req.
func ValidateStoryRequest(req *model.StoryRequest) error {
	switch strings.ToLower(strings.TrimSpace(req.Level)) {
	case "beginner":
		req.Level = model.LevelBeginner
	case "intermediate":
		req.Level = model.LevelIntermediate
	case "advanced":
		req.Level = model.LevelAdvanced
	default:
		return invalid("level must be one of Beginner, Intermediate, Advanced")
	}

	req.Topic = strings.TrimSpace(req.Topic)
	if req.Topic == "" {
		return invalid("topic is required")
	}
	req.GrammarScope = strings.TrimSpace(req.GrammarScope)

	if req.StoryLength == 0 {
		req.StoryLength = model.DefaultStoryLength
	}
	if req.StoryLength < model.MinStoryLength || req.StoryLength > model.MaxStoryLength {
		return invalid("storyLength must be between %d and %d", model.MinStoryLength, model.MaxStoryLength)
	}

	return nil
}
