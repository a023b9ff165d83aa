package llm

import (
	"context"
	"fmt"

	"github.com/sashabaranov/go-openai"

	"github.com/careercompass/careercompass/internal/application/service"
	"github.com/careercompass/careercompass/internal/config"
	"github.com/careercompass/careercompass/pkg/logger"
)

type openAILLMAdapter struct {
	client *openai.Client
	model  string
	log    logger.Logger
}

// NewOpenAILLMAdapter builds the chat adapter. The base URL is configurable
// so the same adapter talks to OpenAI-compatible local runtimes.
func NewOpenAILLMAdapter(cfg config.Config, log logger.Logger) (service.LLMService, error) {
	if cfg.LLM.Host == "" {
		return nil, fmt.Errorf("LLM host is not configured")
	}
	if cfg.LLM.Model == "" {
		return nil, fmt.Errorf("LLM model is not configured")
	}

	apiKey := cfg.LLM.APIKey
	if apiKey == "" {
		apiKey = "dummy-key"
	}

	clientConfig := openai.DefaultConfig(apiKey)
	clientConfig.BaseURL = cfg.LLM.Host

	client := openai.NewClientWithConfig(clientConfig)

	log.Info("LLM Chat Adapter initialized")
	return &openAILLMAdapter{client: client, model: cfg.LLM.Model, log: log}, nil
}

func (a *openAILLMAdapter) GenerateChatResponse(ctx context.Context, prompt string) (string, error) {
	req := openai.ChatCompletionRequest{
		Model: a.model,
		Messages: []openai.ChatCompletionMessage{
			{
				Role:    openai.ChatMessageRoleUser,
				Content: prompt,
			},
		},
		Stream: false,
	}

	resp, err := a.client.CreateChatCompletion(ctx, req)
	if err != nil {
		return "", fmt.Errorf("chat completion request failed: %w", err)
	}

	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("LLM returned no chat choices")
	}

	return resp.Choices[0].Message.Content, nil
}
