package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"

	"tryrack-backend/dtos"
)

const (
	geminiBaseURL  = "https://generativelanguage.googleapis.com/v1beta/models"
	geminiImageGen = "gemini-2.5-flash-image"
	geminiText     = "gemini-2.5-flash"
	geminiTimeout  = 60 * time.Second
)

const backgroundPrompt = "Remove the background from this clothing item and replace it with a clean white background. Keep the item exactly as it is, only change the background to pure white."

const suggestionPrompt = `Identify this clothing item. Respond with only a JSON object of the form {"title": "...", "category": "...", "colors": ["..."], "tags": ["..."]}. Title is a short human-readable name, category is a lowercase free-form garment type, colors are dominant color names, tags are style keywords.`

// GeminiClient talks to the Gemini generative language REST API.
type GeminiClient struct {
	apiKey string
	http   *http.Client
}

// NewGeminiClient reads GEMINI_API_KEY from the environment. Returns an
// error when the key is missing so callers can decide whether to run
// without AI features.
func NewGeminiClient() (*GeminiClient, error) {
	apiKey := os.Getenv("GEMINI_API_KEY")
	if apiKey == "" {
		return nil, fmt.Errorf("GEMINI_API_KEY not set")
	}
	return &GeminiClient{
		apiKey: apiKey,
		http:   &http.Client{Timeout: geminiTimeout},
	}, nil
}

type geminiPart struct {
	Text       string            `json:"text,omitempty"`
	InlineData *geminiInlineData `json:"inlineData,omitempty"`
}

type geminiInlineData struct {
	MimeType string `json:"mimeType"`
	Data     string `json:"data"`
}

type geminiContent struct {
	Parts []geminiPart `json:"parts"`
}

type geminiRequest struct {
	Contents         []geminiContent   `json:"contents"`
	GenerationConfig *geminiGenConfig  `json:"generationConfig,omitempty"`
}

type geminiGenConfig struct {
	ResponseModalities []string `json:"responseModalities,omitempty"`
	ResponseMimeType   string   `json:"responseMimeType,omitempty"`
}

type geminiResponse struct {
	Candidates []struct {
		Content geminiContent `json:"content"`
	} `json:"candidates"`
}

func (g *GeminiClient) generate(ctx context.Context, model string, req geminiRequest) (*geminiResponse, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("marshalling gemini request: %w", err)
	}

	url := fmt.Sprintf("%s/%s:generateContent", geminiBaseURL, model)
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	httpReq.Header.Set("x-goog-api-key", g.apiKey)
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := g.http.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("calling gemini: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("gemini returned status %d", resp.StatusCode)
	}

	var out geminiResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("decoding gemini response: %w", err)
	}
	return &out, nil
}

func (g *GeminiClient) RemoveBackground(ctx context.Context, imageB64 string) (string, error) {
	resp, err := g.generate(ctx, geminiImageGen, geminiRequest{
		Contents: []geminiContent{{Parts: []geminiPart{
			{Text: backgroundPrompt},
			{InlineData: &geminiInlineData{MimeType: "image/jpeg", Data: imageB64}},
		}}},
		GenerationConfig: &geminiGenConfig{ResponseModalities: []string{"Image"}},
	})
	if err != nil {
		return "", err
	}

	for _, cand := range resp.Candidates {
		for _, part := range cand.Content.Parts {
			if part.InlineData != nil && part.InlineData.Data != "" {
				return part.InlineData.Data, nil
			}
		}
	}
	return "", fmt.Errorf("gemini returned no image")
}

func (g *GeminiClient) SuggestAttributes(ctx context.Context, imageB64 string) (*dtos.AISuggestions, error) {
	resp, err := g.generate(ctx, geminiText, geminiRequest{
		Contents: []geminiContent{{Parts: []geminiPart{
			{Text: suggestionPrompt},
			{InlineData: &geminiInlineData{MimeType: "image/jpeg", Data: imageB64}},
		}}},
		GenerationConfig: &geminiGenConfig{ResponseMimeType: "application/json"},
	})
	if err != nil {
		return nil, err
	}

	for _, cand := range resp.Candidates {
		for _, part := range cand.Content.Parts {
			if part.Text == "" {
				continue
			}
			text := strings.TrimSpace(part.Text)
			// The model occasionally wraps JSON in a markdown fence.
			text = strings.TrimPrefix(text, "```json")
			text = strings.TrimPrefix(text, "```")
			text = strings.TrimSuffix(text, "```")

			var suggestions dtos.AISuggestions
			if err := json.Unmarshal([]byte(strings.TrimSpace(text)), &suggestions); err != nil {
				return nil, fmt.Errorf("parsing suggestions JSON: %w", err)
			}
			return &suggestions, nil
		}
	}
	return nil, fmt.Errorf("gemini returned no suggestions")
}

func (g *GeminiClient) GenerateTryOn(ctx context.Context, userB64, itemB64, category string, colors []string, cleanBackground bool) (string, error) {
	prompt := fmt.Sprintf(
		"Render the person in the first image wearing the %s clothing item from the second image. Keep the person's pose, face and body unchanged. Item colors: %s.",
		category, strings.Join(colors, ", "))
	if cleanBackground {
		prompt += " Place the person on a clean neutral studio background."
	}

	resp, err := g.generate(ctx, geminiImageGen, geminiRequest{
		Contents: []geminiContent{{Parts: []geminiPart{
			{Text: prompt},
			{InlineData: &geminiInlineData{MimeType: "image/jpeg", Data: userB64}},
			{InlineData: &geminiInlineData{MimeType: "image/jpeg", Data: itemB64}},
		}}},
		GenerationConfig: &geminiGenConfig{ResponseModalities: []string{"Image"}},
	})
	if err != nil {
		return "", err
	}

	for _, cand := range resp.Candidates {
		for _, part := range cand.Content.Parts {
			if part.InlineData != nil && part.InlineData.Data != "" {
				return part.InlineData.Data, nil
			}
		}
	}
	return "", fmt.Errorf("gemini returned no try-on image")
}
