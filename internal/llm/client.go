package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"regexp"
	"sort"
	"strings"
	"time"
)

// Request is one prompt sent to a text model. When Schema is set the model
// is asked for JSON conforming to it.
type Request struct {
	Flow   string
	Prompt string
	Schema *Schema
}

// TextGenerator returns the raw text a model produced for a prompt.
type TextGenerator interface {
	Generate(ctx context.Context, req Request) (string, error)
}

// ImageGenerator returns a data URI (data:<mime>;base64,...) for a prompt.
type ImageGenerator interface {
	GenerateImage(ctx context.Context, flow, prompt string) (string, error)
}

// Schema is the subset of JSON Schema the flows declare for model output.
type Schema struct {
	Type        string             `json:"type"`
	Description string             `json:"description,omitempty"`
	Properties  map[string]*Schema `json:"properties,omitempty"`
	Items       *Schema            `json:"items,omitempty"`
	Required    []string           `json:"required,omitempty"`
}

func Object(props map[string]*Schema) *Schema {
	required := make([]string, 0, len(props))
	for name := range props {
		required = append(required, name)
	}
	sort.Strings(required)
	return &Schema{Type: "object", Properties: props, Required: required}
}

func String(description string) *Schema {
	return &Schema{Type: "string", Description: description}
}

func Array(items *Schema) *Schema {
	return &Schema{Type: "array", Items: items}
}

// OllamaClient talks to a local Ollama server.
type OllamaClient struct {
	baseURL    string
	model      string
	httpClient *http.Client
}

type GenerateRequest struct {
	Model  string  `json:"model"`
	Prompt string  `json:"prompt"`
	Stream bool    `json:"stream"`
	Format *Schema `json:"format,omitempty"`
}

type GenerateResponse struct {
	Model     string `json:"model"`
	Response  string `json:"response"`
	Done      bool   `json:"done"`
	CreatedAt string `json:"created_at"`
}

func NewOllamaClient(baseURL, model string) *OllamaClient {
	return &OllamaClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		model:   model,
		httpClient: &http.Client{
			Timeout: 120 * time.Second,
		},
	}
}

func (c *OllamaClient) Generate(ctx context.Context, r Request) (string, error) {
	reqBody := GenerateRequest{
		Model:  c.model,
		Prompt: r.Prompt,
		Stream: false,
		Format: r.Schema,
	}

	jsonBody, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/generate", bytes.NewBuffer(jsonBody))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return "", fmt.Errorf("ollama returned status %d: %s", resp.StatusCode, string(body))
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read response: %w", err)
	}

	var genResp GenerateResponse
	if err := json.Unmarshal(body, &genResp); err != nil {
		return "", fmt.Errorf("failed to unmarshal response: %w", err)
	}

	return genResp.Response, nil
}

var (
	jsonFenceOpen  = regexp.MustCompile("(?s)```json\\s*")
	jsonFenceClose = regexp.MustCompile("(?s)```\\s*$")
)

// ExtractJSON extracts JSON from LLM response that may contain extra text
func ExtractJSON(response string) (string, error) {
	response = strings.TrimSpace(response)

	// Remove markdown code blocks if present
	response = jsonFenceOpen.ReplaceAllString(response, "")
	response = jsonFenceClose.ReplaceAllString(response, "")
	response = strings.TrimSpace(response)

	// Find the first { and last }
	start := strings.Index(response, "{")
	end := strings.LastIndex(response, "}")

	if start == -1 || end == -1 || end < start {
		return "", fmt.Errorf("no valid JSON object found in response")
	}

	jsonStr := response[start : end+1]

	// Validate it's valid JSON
	var js json.RawMessage
	if err := json.Unmarshal([]byte(jsonStr), &js); err != nil {
		return "", fmt.Errorf("extracted text is not valid JSON: %w", err)
	}

	return jsonStr, nil
}
