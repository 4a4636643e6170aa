package story

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"regexp"
	"strings"

	"github.com/ISRAEL-DUFF/fabulae-pictae/internal/model"
	"gopkg.in/yaml.v3"
)

var ErrInvalidStory = errors.New("invalid story file")

// Export formats.
const (
	FormatJSON     = "json"
	FormatMarkdown = "md"
	FormatYAML     = "yaml"
)

// Export renders the story document as indented JSON.
func Export(s *model.LatinStory) ([]byte, error) {
	return json.MarshalIndent(s, "", "  ")
}

// Import reads a story document. It fails unless "story" is a non-empty
// array; nothing is recovered from a malformed file.
func Import(r io.Reader) (*model.LatinStory, error) {
	var doc struct {
		Story json.RawMessage `json:"story"`
	}
	if err := json.NewDecoder(r).Decode(&doc); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidStory, err)
	}

	raw := bytes.TrimSpace(doc.Story)
	if len(raw) == 0 || raw[0] != '[' {
		return nil, fmt.Errorf("%w: \"story\" must be an array", ErrInvalidStory)
	}

	var sentences []model.StorySentence
	if err := json.Unmarshal(raw, &sentences); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidStory, err)
	}
	if len(sentences) == 0 {
		return nil, fmt.Errorf("%w: story is empty", ErrInvalidStory)
	}

	return &model.LatinStory{Story: sentences}, nil
}

var unsafeName = regexp.MustCompile(`(?i)[^a-z0-9]`)

// FileName derives a download name, fabula_<title>, from the first 20
// characters of the opening sentence.
func FileName(s *model.LatinStory, ext string) string {
	base := "fabula"
	if s != nil && len(s.Story) > 0 {
		first := []rune(s.Story[0].Sentence)
		if len(first) > 20 {
			first = first[:20]
		}
		if name := unsafeName.ReplaceAllString(string(first), "_"); name != "" {
			base += "_" + strings.ToLower(name)
		}
	}
	return base + "." + ext
}

// Markdown renders the story with one numbered section per sentence.
func Markdown(s *model.LatinStory) []byte {
	var buf bytes.Buffer
	title := "Fabula"
	if len(s.Story) > 0 {
		title = s.Story[0].Sentence
	}
	fmt.Fprintf(&buf, "# %s\n\n", title)

	for i, line := range s.Story {
		fmt.Fprintf(&buf, "## %d\n\n%s\n\n", i+1, line.Sentence)
		if line.ImageURL != "" {
			fmt.Fprintf(&buf, "![Sentence %d](%s)\n\n", i+1, line.ImageURL)
		}
	}
	return buf.Bytes()
}

func YAML(s *model.LatinStory) ([]byte, error) {
	return yaml.Marshal(s)
}

// Render encodes s in the named format and returns the body with its
// content type.
func Render(s *model.LatinStory, format string) ([]byte, string, error) {
	switch format {
	case "", FormatJSON:
		b, err := Export(s)
		return b, "application/json", err
	case FormatMarkdown, "markdown":
		return Markdown(s), "text/markdown", nil
	case FormatYAML, "yml":
		b, err := YAML(s)
		return b, "application/yaml", err
	default:
		return nil, "", fmt.Errorf("unsupported format %q (use json, md, or yaml)", format)
	}
}

// Extension maps a format name to its file extension.
func Extension(format string) string {
	switch format {
	case FormatMarkdown, "markdown":
		return "md"
	case FormatYAML, "yml":
		return "yaml"
	default:
		return "json"
	}
}
