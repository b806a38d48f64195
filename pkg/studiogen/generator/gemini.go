package generator

import (
	"context"
	"errors"
	"fmt"

	"google.golang.org/genai"

	"github.com/caravanpress/studio/pkg/studiogen"
)

// Gemini implements studiogen.ContentGenerator using Google's genai SDK.
type Gemini struct {
	client *genai.Client
	model  string
}

// NewGemini creates a Gemini-backed generator.
func NewGemini(ctx context.Context, apiKey, model string) (*Gemini, error) {
	if apiKey == "" {
		return nil, errors.New("gemini api key is required")
	}
	if model == "" {
		model = "gemini-2.0-flash"
	}
	client, err := genai.NewClient(ctx, &genai.ClientConfig{APIKey: apiKey})
	if err != nil {
		return nil, fmt.Errorf("failed to create genai client: %w", err)
	}
	return &Gemini{client: client, model: model}, nil
}

var _ studiogen.ContentGenerator = (*Gemini)(nil)

func (g *Gemini) GenerateLanguage(ctx context.Context, req studiogen.LanguageRequest) (*studiogen.LanguageContent, error) {
	prompt := BuildPrompt(req)

	resp, err := g.client.Models.GenerateContent(ctx, g.model,
		genai.Text(prompt.User),
		&genai.GenerateContentConfig{
			SystemInstruction: genai.NewContentFromText(prompt.System, genai.RoleUser),
			ResponseMIMEType:  "application/json",
		},
	)
	if err != nil {
		return nil, fmt.Errorf("gemini generate failed: %w", err)
	}
	return ParseModelOutput(resp.Text())
}
