package core

import (
	"context"
	"fmt"
	"strings"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/ollama"
	"github.com/tmc/langchaingo/schema"
	"go.uber.org/zap"
)

// OllamaClient talks to a locally hosted model server. It makes one attempt
// per call.
type OllamaClient struct {
	llm    llms.Model
	logger *zap.Logger
}

func NewOllamaClient(host, modelName string, logger *zap.Logger) (*OllamaClient, error) {
	llm, err := ollama.New(ollama.WithServerURL(host), ollama.WithModel(modelName))
	if err != nil {
		return nil, fmt.Errorf("failed to create ollama client: %w", err)
	}

	logger = logger.With(zap.String("backend", "ollama"), zap.String("model", modelName))
	logger.Info("ollama client initialized", zap.String("host", host))
	return &OllamaClient{llm: llm, logger: logger}, nil
}

func (c *OllamaClient) Chat(ctx context.Context, message string) (string, error) {
	content := []llms.MessageContent{
		llms.TextParts(schema.ChatMessageTypeSystem, systemPrompt),
		llms.TextParts(schema.ChatMessageTypeHuman, message),
	}

	resp, err := c.llm.GenerateContent(ctx, content)
	if err != nil {
		c.logger.Warn("ollama request failed", zap.Error(err))
		return "", fmt.Errorf("%w: %v", ErrModelUnavailable, err)
	}

	if resp == nil || len(resp.Choices) == 0 || strings.TrimSpace(resp.Choices[0].Content) == "" {
		c.logger.Warn("unexpected ollama response structure")
		return UnexpectedFormatReply, nil
	}
	return resp.Choices[0].Content, nil
}

func (c *OllamaClient) Close() error { return nil }
