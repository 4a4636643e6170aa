package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ISRAEL-DUFF/fabulae-pictae/internal/model"
	"github.com/ISRAEL-DUFF/fabulae-pictae/internal/story"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const doc = `{"story":[{"sentence":"Canis latrat.","imageUrl":"data:image/png;base64,AAA"}]}`

func TestImportCmd_FromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "story.json")
	require.NoError(t, os.WriteFile(path, []byte(doc), 0o644))

	root := NewRootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetArgs([]string{"import", path, "--format", "yaml"})

	require.NoError(t, root.Execute())
	assert.Contains(t, out.String(), "sentence: Canis latrat.")
}

func TestImportCmd_Stdin(t *testing.T) {
	root := NewRootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetIn(strings.NewReader(doc))
	root.SetArgs([]string{"import", "-"})

	require.NoError(t, root.Execute())
	assert.Contains(t, out.String(), "# Canis latrat.")
}

func TestImportCmd_Invalid(t *testing.T) {
	root := NewRootCmd()
	root.SetOut(&bytes.Buffer{})
	root.SetErr(&bytes.Buffer{})
	root.SetIn(strings.NewReader(`{"story":{}}`))
	root.SetArgs([]string{"import", "-"})

	assert.ErrorIs(t, root.Execute(), story.ErrInvalidStory)
}

func TestExpandCmd_NoWords(t *testing.T) {
	root := NewRootCmd()
	root.SetOut(&bytes.Buffer{})
	root.SetErr(&bytes.Buffer{})
	root.SetArgs([]string{"expand", ","})

	assert.Error(t, root.Execute())
}

func TestWriteStory(t *testing.T) {
	dir := t.TempDir()
	st := &model.LatinStory{Story: []model.StorySentence{{Sentence: "Canis latrat.", ImageURL: "data:x"}}}

	path, err := writeStory(st, "json", dir)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "fabula_canis_latrat_.json"), path)

	b, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(b), `"sentence": "Canis latrat."`)
}
