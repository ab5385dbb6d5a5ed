package core

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/generative-ai-go/genai"
	"github.com/sethvargo/go-retry"
	"go.uber.org/zap"
	"google.golang.org/api/option"
)

const (
	geminiMaxAttempts = 3
	geminiRetryDelay  = 2 * time.Second
)

type GeminiClient struct {
	client    *genai.Client
	model     *genai.GenerativeModel
	modelName string
	logger    *zap.Logger

	maxAttempts uint64
	retryDelay  time.Duration

	// send is a seam for testing the retry policy without the network.
	send func(ctx context.Context, prompt string) (string, error)
}

func NewGeminiClient(ctx context.Context, apiKey, modelName string, logger *zap.Logger) (*GeminiClient, error) {
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create GenAI client: %w", err)
	}

	c := &GeminiClient{
		client:      client,
		model:       client.GenerativeModel(modelName),
		modelName:   modelName,
		logger:      logger.With(zap.String("backend", "gemini"), zap.String("model", modelName)),
		maxAttempts: geminiMaxAttempts,
		retryDelay:  geminiRetryDelay,
	}
	c.send = c.sendMessage
	c.logger.Info("GenAI client initialized")
	return c, nil
}

func (c *GeminiClient) Close() error {
	if c.client == nil {
		return nil
	}
	if err := c.client.Close(); err != nil {
		return fmt.Errorf("failed to close GenAI client: %w", err)
	}
	return nil
}

// Chat sends message in a fresh chat session, retrying transient failures
// with a constant delay.
func (c *GeminiClient) Chat(ctx context.Context, message string) (string, error) {
	// Gemma models reject system instructions, so the prompt carries it inline.
	prompt := fmt.Sprintf("%s\n\nUser: %s", systemPrompt, message)

	var reply string
	attempt := 0
	backoff := retry.WithMaxRetries(c.maxAttempts-1, retry.NewConstant(c.retryDelay))

	err := retry.Do(ctx, backoff, func(ctx context.Context) error {
		attempt++
		text, err := c.send(ctx, prompt)
		if err != nil {
			c.logger.Warn("gemini request failed",
				zap.Int("attempt", attempt),
				zap.Uint64("max_attempts", c.maxAttempts),
				zap.Error(err))
			return retry.RetryableError(err)
		}
		reply = text
		return nil
	})
	if err != nil {
		return "", fmt.Errorf("%w: gemini failed after %d attempts: %v", ErrModelUnavailable, attempt, err)
	}
	return reply, nil
}

var errEmptyResponse = errors.New("gemini response was empty or had no text parts")

func (c *GeminiClient) sendMessage(ctx context.Context, prompt string) (string, error) {
	session := c.model.StartChat()

	resp, err := session.SendMessage(ctx, genai.Text(prompt))
	if err != nil {
		return "", fmt.Errorf("gemini chat SendMessage failed: %w", err)
	}

	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return "", errEmptyResponse
	}

	var responseText strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if txt, ok := part.(genai.Text); ok {
			responseText.WriteString(string(txt))
		}
	}
	if responseText.Len() == 0 {
		return "", errEmptyResponse
	}
	return responseText.String(), nil
}
