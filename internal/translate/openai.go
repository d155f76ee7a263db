package translate

import (
	"context"
	"fmt"
	"strings"
	"time"

	openai "github.com/sashabaranov/go-openai"

	"dubboard/internal/config"
	"dubboard/internal/language"
)

// OpenAITranslator translates through a chat completion model. It is the
// paid alternative to GoogleTranslator for users who need consistent quality
// on long transcripts.
type OpenAITranslator struct {
	client  *openai.Client
	model   string
	timeout time.Duration
}

// NewOpenAITranslator builds a translator from the [translator] config
// section. The API key must already be validated by config loading.
func NewOpenAITranslator(cfg config.Translator) *OpenAITranslator {
	clientConfig := openai.DefaultConfig(cfg.OpenAIAPIKey)
	if cfg.OpenAIBaseURL != "" {
		clientConfig.BaseURL = cfg.OpenAIBaseURL
	}
	return &OpenAITranslator{
		client:  openai.NewClientWithConfig(clientConfig),
		model:   cfg.OpenAIModel,
		timeout: time.Duration(cfg.RequestTimeout) * time.Second,
	}
}

// Translate implements Translator.
func (o *OpenAITranslator) Translate(ctx context.Context, text, source, target string) (string, error) {
	if o.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, o.timeout)
		defer cancel()
	}
	resp, err := o.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: o.model,
		Messages: []openai.ChatCompletionMessage{
			{
				Role:    openai.ChatMessageRoleSystem,
				Content: systemPrompt(target),
			},
			{
				Role:    openai.ChatMessageRoleUser,
				Content: text,
			},
		},
		Temperature: 0.2,
	})
	if err != nil {
		return "", fmt.Errorf("chat completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("chat completion returned no choices")
	}
	result := strings.TrimSpace(resp.Choices[0].Message.Content)
	if result == "" {
		return "", fmt.Errorf("chat completion returned empty text")
	}
	return result, nil
}

func systemPrompt(target string) string {
	name := language.Name(target)
	if name == "" {
		name = target
	}
	return fmt.Sprintf("Translate the user's text into %s. Reply with only the translation, no explanations or quotes.", name)
}
