package service

import (
	"context"
)

// LLMService is a thin chat-completion contract; prompt assembly and
// response parsing belong to the usecases.
type LLMService interface {
	GenerateChatResponse(ctx context.Context, prompt string) (string, error)
}
