package flow

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/ISRAEL-DUFF/fabulae-pictae/internal/llm"
	"github.com/ISRAEL-DUFF/fabulae-pictae/internal/model"
	"github.com/ISRAEL-DUFF/fabulae-pictae/internal/validator"
	"golang.org/x/sync/errgroup"
)

// Flow names, used as metric labels.
const (
	FlowStory        = "generate_latin_story"
	FlowStoryImage   = "story_image"
	FlowGloss        = "get_word_gloss"
	FlowExpand       = "expand_word"
	FlowIllustration = "generate_illustration"
)

var (
	ErrEmptyOutput = errors.New("the model returned an empty result")
	ErrNoWords     = errors.New("no valid words were provided for expansion")
	// ErrInvalidOutput is returned when the model output parses but does not
	// match what the flow asked for.
	ErrInvalidOutput = errors.New("the model returned an invalid result")
)

var (
	storySchema = llm.Object(map[string]*llm.Schema{
		"story": llm.Array(llm.Object(map[string]*llm.Schema{
			"sentence": llm.String("A sentence from the story in Latin."),
			"prompt":   llm.String("A kid friendly cartoon style illustration prompt for the sentence."),
		})),
	})

	glossSchema = llm.Object(map[string]*llm.Schema{
		"gloss":      llm.String("A concise English gloss."),
		"morphology": llm.String("A detailed morphological breakdown."),
		"syntax":     llm.String("The syntactical role of the word in the sentence."),
	})

	expansionSchema = llm.Object(map[string]*llm.Schema{
		"expansion": llm.String("The detailed Markdown analysis of the word."),
	})
)

// Flows pairs each prompt template with its output schema and runs it
// against the configured models.
type Flows struct {
	text   llm.TextGenerator
	images llm.ImageGenerator
}

func New(text llm.TextGenerator, images llm.ImageGenerator) *Flows {
	return &Flows{text: text, images: images}
}

type storyLine struct {
	Sentence string `json:"sentence"`
	Prompt   string `json:"prompt"`
}

type storyOutput struct {
	Story []storyLine `json:"story"`
}

// GenerateStory writes a story and illustrates every sentence. Images are
// requested concurrently; if any of them fails no story is returned.
func (f *Flows) GenerateStory(ctx context.Context, req model.StoryRequest) (*model.LatinStory, error) {
	if err := validator.ValidateStoryRequest(&req); err != nil {
		return nil, err
	}

	scope := req.GrammarScope
	if scope == "" {
		scope = "any grammar appropriate for the level"
	}

	var out storyOutput
	prompt := fmt.Sprintf(llm.StoryPrompt, req.StoryLength, req.Level, req.Topic, scope)
	if err := f.generate(ctx, FlowStory, prompt, storySchema, &out); err != nil {
		return nil, err
	}
	if len(out.Story) == 0 {
		return nil, fmt.Errorf("%s: %w", FlowStory, ErrEmptyOutput)
	}
	if len(out.Story) != req.StoryLength {
		return nil, fmt.Errorf("%s: %w: expected %d sentences, got %d",
			FlowStory, ErrInvalidOutput, req.StoryLength, len(out.Story))
	}
	for i, line := range out.Story {
		if strings.TrimSpace(line.Sentence) == "" {
			return nil, fmt.Errorf("%s: %w: sentence %d is empty", FlowStory, ErrInvalidOutput, i+1)
		}
		if strings.TrimSpace(line.Prompt) == "" {
			out.Story[i].Prompt = fmt.Sprintf(llm.IllustrationPrompt, line.Sentence)
		}
	}

	sentences := make([]model.StorySentence, len(out.Story))
	g, gctx := errgroup.WithContext(ctx)
	for i, line := range out.Story {
		g.Go(func() error {
			url, err := f.images.GenerateImage(gctx, FlowStoryImage, line.Prompt)
			if err != nil {
				return fmt.Errorf("illustrating sentence %d: %w", i+1, err)
			}
			if url == "" {
				return fmt.Errorf("illustrating sentence %d: %w", i+1, ErrEmptyOutput)
			}
			sentences[i] = model.StorySentence{Sentence: line.Sentence, ImageURL: url}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return &model.LatinStory{Story: sentences}, nil
}

// GetWordGloss analyses one word. sentence may be empty, in which case the
// word is glossed on its own.
func (f *Flows) GetWordGloss(ctx context.Context, word, sentence string) (*model.WordGloss, error) {
	word, err := validator.ValidateWord(word)
	if err != nil {
		return nil, err
	}

	prompt := fmt.Sprintf(llm.GlossPromptNoContext, word)
	if s := strings.TrimSpace(sentence); s != "" {
		prompt = fmt.Sprintf(llm.GlossPrompt, word, s)
	}

	var out model.WordGloss
	if err := f.generate(ctx, FlowGloss, prompt, glossSchema, &out); err != nil {
		return nil, err
	}
	if strings.TrimSpace(out.Gloss) == "" ||
		strings.TrimSpace(out.Morphology) == "" ||
		strings.TrimSpace(out.Syntax) == "" {
		return nil, fmt.Errorf("%s %q: %w", FlowGloss, word, ErrEmptyOutput)
	}
	return &out, nil
}

// ExpandWord produces the Markdown breakdown of a single word. A non-empty
// sentence narrows ambiguous forms.
func (f *Flows) ExpandWord(ctx context.Context, word, sentence string) (*model.WordExpansion, error) {
	word = strings.TrimSpace(word)
	if word == "" {
		return nil, ErrNoWords
	}

	prompt := fmt.Sprintf(llm.ExpansionPrompt, word)
	if s := strings.TrimSpace(sentence); s != "" {
		prompt += fmt.Sprintf(llm.ExpansionContextSuffix, s)
	}

	var out struct {
		Expansion string `json:"expansion"`
	}
	if err := f.generate(ctx, FlowExpand, prompt, expansionSchema, &out); err != nil {
		return nil, err
	}
	if strings.TrimSpace(out.Expansion) == "" {
		return nil, fmt.Errorf("%s %q: %w", FlowExpand, word, ErrEmptyOutput)
	}
	return &model.WordExpansion{Word: word, Expansion: out.Expansion}, nil
}

// ExpandWords expands a comma-separated list. Words are expanded
// concurrently; the first failure cancels the rest and is returned. Results
// keep the input order.
func (f *Flows) ExpandWords(ctx context.Context, input string) ([]model.WordExpansion, error) {
	words := validator.ParseWordList(input)
	if len(words) == 0 {
		return nil, ErrNoWords
	}

	results := make([]model.WordExpansion, len(words))
	g, gctx := errgroup.WithContext(ctx)
	for i, w := range words {
		g.Go(func() error {
			exp, err := f.ExpandWord(gctx, w, "")
			if err != nil {
				return err
			}
			results[i] = *exp
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

// GenerateIllustration draws one sentence and returns the image as a data URI.
func (f *Flows) GenerateIllustration(ctx context.Context, sentence string) (string, error) {
	sentence = strings.TrimSpace(sentence)
	if sentence == "" {
		return "", fmt.Errorf("%w: sentence is required", validator.ErrInvalid)
	}
	url, err := f.images.GenerateImage(ctx, FlowIllustration, fmt.Sprintf(llm.IllustrationPrompt, sentence))
	if err != nil {
		return "", err
	}
	if url == "" {
		return "", fmt.Errorf("%s: %w", FlowIllustration, ErrEmptyOutput)
	}
	return url, nil
}

func (f *Flows) generate(ctx context.Context, flow, prompt string, schema *llm.Schema, out any) error {
	raw, err := f.text.Generate(ctx, llm.Request{Flow: flow, Prompt: prompt, Schema: schema})
	if err != nil {
		return fmt.Errorf("%s: %w", flow, err)
	}
	if strings.TrimSpace(raw) == "" {
		return fmt.Errorf("%s: %w", flow, ErrEmptyOutput)
	}

	body, err := llm.ExtractJSON(raw)
	if err != nil {
		return fmt.Errorf("%s: %w: %v", flow, ErrInvalidOutput, err)
	}
	if err := json.Unmarshal([]byte(body), out); err != nil {
		return fmt.Errorf("%s: %w: %v", flow, ErrInvalidOutput, err)
	}
	return nil
}
