package ai

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"google.golang.org/genai"
)

const defaultGeminiModel = "gemini-2.5-flash"

// GeminiProvider targets the Gemini API through the Google GenAI SDK.
type GeminiProvider struct {
	client    *genai.Client
	modelName string
}

var _ Provider = (*GeminiProvider)(nil)

// NewGeminiProvider creates a provider for the Gemini API backend. The API key
// is passed explicitly; there is no process-wide credential state.
func NewGeminiProvider(ctx context.Context, apiKey, model string) (*GeminiProvider, error) {
	apiKey = strings.TrimSpace(apiKey)
	if apiKey == "" {
		return nil, errors.New("gemini api key is required")
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("create genai client: %w", err)
	}

	if model = strings.TrimSpace(model); model == "" {
		model = defaultGeminiModel
	}

	return &GeminiProvider{client: client, modelName: model}, nil
}

// Complete sends the prompt to Gemini and joins the candidates' text parts
// into a single response string.
func (p *GeminiProvider) Complete(ctx context.Context, r Request) (string, error) {
	cfg := &genai.GenerateContentConfig{
		Temperature:     genai.Ptr(float32(r.Temperature)),
		MaxOutputTokens: int32(r.MaxTokens),
	}
	if r.System != "" {
		cfg.SystemInstruction = &genai.Content{
			Parts: []*genai.Part{{Text: r.System}},
		}
	}

	resp, err := p.client.Models.GenerateContent(ctx, p.modelName, genai.Text(r.Prompt), cfg)
	if err != nil {
		return "", fmt.Errorf("generate content: %w", err)
	}

	var builder strings.Builder
	for _, candidate := range resp.Candidates {
		if candidate == nil || candidate.Content == nil {
			continue
		}
		for _, part := range candidate.Content.Parts {
			if part == nil {
				continue
			}
			text := strings.TrimSpace(part.Text)
			if text == "" {
				continue
			}
			if builder.Len() > 0 {
				builder.WriteString("\n")
			}
			builder.WriteString(text)
		}
	}

	output := strings.TrimSpace(builder.String())
	if output == "" {
		return "", errors.New("gemini api returned empty response")
	}

	return output, nil
}
