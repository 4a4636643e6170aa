package story

import (
	"bytes"
	"strings"
	"testing"

	"github.com/ISRAEL-DUFF/fabulae-pictae/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func sample() *model.LatinStory {
	return &model.LatinStory{Story: []model.StorySentence{
		{Sentence: "Marcus in horto ambulat.", ImageURL: "data:image/png;base64,AAA"},
		{Sentence: "Canis latrat.", ImageURL: "data:image/png;base64,BBB"},
	}}
}

func TestExportImportRoundTrip(t *testing.T) {
	b, err := Export(sample())
	require.NoError(t, err)
	assert.Contains(t, string(b), "\n  \"story\": [")
	assert.Contains(t, string(b), `"imageUrl": "data:image/png;base64,AAA"`)

	got, err := Import(bytes.NewReader(b))
	require.NoError(t, err)
	assert.Equal(t, sample(), got)
}

func TestImport_Invalid(t *testing.T) {
	tests := map[string]string{
		"not json":     "hello",
		"missing key":  `{"title":"x"}`,
		"not an array": `{"story":{"sentence":"x"}}`,
		"empty array":  `{"story":[]}`,
		"null":         `{"story":null}`,
	}
	for name, body := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := Import(strings.NewReader(body))
			assert.ErrorIs(t, err, ErrInvalidStory)
		})
	}
}

func TestFileName(t *testing.T) {
	assert.Equal(t, "fabula_marcus_in_horto_ambu.json", FileName(sample(), "json"))
	assert.Equal(t, "fabula_canis_latrat_.md", FileName(&model.LatinStory{Story: []model.StorySentence{{Sentence: "Canis latrat."}}}, "md"))
	assert.Equal(t, "fabula.yaml", FileName(&model.LatinStory{}, "yaml"))
}

func TestMarkdown(t *testing.T) {
	md := string(Markdown(sample()))
	assert.True(t, strings.HasPrefix(md, "# Marcus in horto ambulat.\n"))
	assert.Contains(t, md, "## 2\n\nCanis latrat.")
	assert.Contains(t, md, "![Sentence 1](data:image/png;base64,AAA)")
}

func TestYAML(t *testing.T) {
	b, err := YAML(sample())
	require.NoError(t, err)

	var got model.LatinStory
	require.NoError(t, yaml.Unmarshal(b, &got))
	assert.Equal(t, *sample(), got)
}

func TestRender(t *testing.T) {
	_, ct, err := Render(sample(), "md")
	require.NoError(t, err)
	assert.Equal(t, "text/markdown", ct)

	_, _, err = Render(sample(), "pdf")
	assert.Error(t, err)
	assert.Equal(t, "yaml", Extension("yml"))
}
