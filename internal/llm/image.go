package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// GeminiImageClient calls generateContent on an image-capable Gemini model
// with the IMAGE response modality and returns the first inline image.
type GeminiImageClient struct {
	baseURL    string
	apiKey     string
	model      string
	httpClient *http.Client
}

func NewGeminiImageClient(baseURL, apiKey, model string) *GeminiImageClient {
	return &GeminiImageClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		model:   model,
		httpClient: &http.Client{
			Timeout: 120 * time.Second,
		},
	}
}

type imagePart struct {
	Text       string           `json:"text,omitempty"`
	InlineData *imageInlineData `json:"inlineData,omitempty"`
}

type imageInlineData struct {
	MimeType string `json:"mimeType"`
	Data     string `json:"data"`
}

type imageContent struct {
	Parts []imagePart `json:"parts"`
}

type imageRequest struct {
	Contents         []imageContent `json:"contents"`
	GenerationConfig struct {
		ResponseModalities []string `json:"responseModalities"`
	} `json:"generationConfig"`
}

type imageResponse struct {
	Candidates []struct {
		Content imageContent `json:"content"`
	} `json:"candidates"`
}

func (c *GeminiImageClient) GenerateImage(ctx context.Context, flow, prompt string) (string, error) {
	body := imageRequest{
		Contents: []imageContent{{Parts: []imagePart{{Text: prompt}}}},
	}
	body.GenerationConfig.ResponseModalities = []string{"TEXT", "IMAGE"}

	jsonBody, err := json.Marshal(body)
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	endpoint := fmt.Sprintf("%s/models/%s:generateContent?key=%s", c.baseURL, c.model, url.QueryEscape(c.apiKey))
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewBuffer(jsonBody))
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
		respBody, _ := io.ReadAll(resp.Body)
		return "", fmt.Errorf("gemini image returned status %d: %s", resp.StatusCode, string(respBody))
	}

	var imgResp imageResponse
	if err := json.NewDecoder(resp.Body).Decode(&imgResp); err != nil {
		return "", fmt.Errorf("failed to decode response: %w", err)
	}

	for _, cand := range imgResp.Candidates {
		for _, part := range cand.Content.Parts {
			if part.InlineData != nil && part.InlineData.Data != "" {
				return "data:" + part.InlineData.MimeType + ";base64," + part.InlineData.Data, nil
			}
		}
	}

	return "", fmt.Errorf("no media returned for %s", flow)
}
