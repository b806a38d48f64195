package generator

import (
	"context"
	"errors"

	openai "github.com/openai/openai-go"
	"github.com/openai/openai-go/option"

	"github.com/caravanpress/studio/pkg/studiogen"
)

// OpenAI implements studiogen.ContentGenerator using the official openai-go
// SDK (chat completions).
type OpenAI struct {
	model string
	opts  []option.RequestOption
}

// NewOpenAI creates an OpenAI-backed generator.
func NewOpenAI(apiKey, model, baseURL string) (*OpenAI, error) {
	if apiKey == "" {
		return nil, errors.New("openai api key is required")
	}
	if model == "" {
		model = "gpt-4o-mini"
	}
	opts := []option.RequestOption{option.WithAPIKey(apiKey)}
	if baseURL != "" {
		opts = append(opts, option.WithBaseURL(baseURL))
	}
	return &OpenAI{model: model, opts: opts}, nil
}

var _ studiogen.ContentGenerator = (*OpenAI)(nil)

func (o *OpenAI) GenerateLanguage(ctx context.Context, req studiogen.LanguageRequest) (*studiogen.LanguageContent, error) {
	prompt := BuildPrompt(req)
	client := openai.NewClient(o.opts...)

	resp, err := client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model: openai.ChatModel(o.model),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(prompt.System),
			openai.UserMessage(prompt.User),
		},
	})
	if err != nil {
		return nil, err
	}
	if len(resp.Choices) == 0 {
		return nil, errors.New("openai: empty choices")
	}
	return ParseModelOutput(resp.Choices[0].Message.Content)
}
