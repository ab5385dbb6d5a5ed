package core

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/SaiPran04/Spero-AI-Mental-Health-Assistant/internal/config"
)

const systemPrompt = "You are a supportive AI assistant focused on mental health and well-being."

// ModelClient turns one user message into one model reply. Calls carry no
// conversation history.
type ModelClient interface {
	Chat(ctx context.Context, message string) (string, error)
	Close() error
}

// NewModelClient builds the backend selected by cfg.ModelBackend.
func NewModelClient(ctx context.Context, cfg *config.Config, logger *zap.Logger) (ModelClient, error) {
	switch cfg.ModelBackend {
	case config.BackendGemini:
		return NewGeminiClient(ctx, cfg.GeminiAPIKey, cfg.GeminiModel, logger)
	case config.BackendOllama:
		return NewOllamaClient(cfg.OllamaHost, cfg.OllamaModel, logger)
	default:
		return nil, fmt.Errorf("unknown model backend %q", cfg.ModelBackend)
	}
}

// UnavailableClient stands in when the configured backend could not be
// initialised, so the rest of the application keeps serving.
type UnavailableClient struct {
	Reason error
}

func (c UnavailableClient) Chat(context.Context, string) (string, error) {
	return "", fmt.Errorf("%w: %v", ErrModelUnavailable, c.Reason)
}

func (c UnavailableClient) Close() error { return nil }
