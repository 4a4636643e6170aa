package llm

import (
	"context"
	"fmt"
	"log"

	"github.com/ISRAEL-DUFF/fabulae-pictae/internal/config"
)

// NewFromConfig builds the instrumented text and image generators for the
// configured provider. Images always come from Gemini. The returned close
// func releases the provider's connections and must be called when done.
func NewFromConfig(ctx context.Context, cfg *config.Config) (TextGenerator, ImageGenerator, func() error, error) {
	var text TextGenerator
	closeFn := func() error { return nil }
	switch cfg.LLMProvider {
	case "gemini":
		client, err := NewGeminiClient(ctx, cfg.GeminiAPIKey, cfg.GeminiModel)
		if err != nil {
			return nil, nil, nil, err
		}
		text = client
		closeFn = client.Close
		log.Printf("Using Gemini API with model: %s", cfg.GeminiModel)
	case "ollama":
		text = NewOllamaClient(cfg.OllamaURL, cfg.OllamaModel)
		log.Printf("Using Ollama at %s with model: %s", cfg.OllamaURL, cfg.OllamaModel)
	default:
		return nil, nil, nil, fmt.Errorf("unknown LLM provider: %s (supported: gemini, ollama)", cfg.LLMProvider)
	}

	images := NewGeminiImageClient(cfg.GeminiAPIURL, cfg.GeminiAPIKey, cfg.GeminiImageModel)

	return InstrumentText(text), InstrumentImage(images), closeFn, nil
}
