package core

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/SaiPran04/Spero-AI-Mental-Health-Assistant/internal/store"
)

type ConversationStore interface {
	AppendMessage(ctx context.Context, userID int64, userText, aiText, conversationID string) (*store.ChatLog, error)
	AppendConversation(ctx context.Context, userID int64, conversationID string, pairs []store.MessagePair) (string, error)
	ListConversations(ctx context.Context, userID int64) ([]store.ConversationSummary, error)
	GetConversation(ctx context.Context, userID int64, conversationID string) ([]store.MessagePair, error)
}

type ChatService struct {
	conversations ConversationStore
	model         ModelClient
	logger        *zap.Logger
}

func NewChatService(conversations ConversationStore, model ModelClient, logger *zap.Logger) *ChatService {
	return &ChatService{
		conversations: conversations,
		model:         model,
		logger:        logger,
	}
}

type ChatReply struct {
	Response       string `json:"response"`
	ConversationID string `json:"conversation_id"`
}

// Chat asks the model for a reply and records the exchange. When the model is
// unavailable nothing is stored and the returned error wraps
// ErrModelUnavailable.
func (s *ChatService) Chat(ctx context.Context, userID int64, message, conversationID string) (*ChatReply, error) {
	if strings.TrimSpace(message) == "" {
		return nil, ErrEmptyMessage
	}

	s.logger.Debug("requesting model reply",
		zap.Int64("user_id", userID),
		zap.String("message_preview", truncate(message, 50)))

	reply, err := s.model.Chat(ctx, message)
	if err != nil {
		s.logger.Error("model reply failed", zap.Int64("user_id", userID), zap.Error(err))
		if !errors.Is(err, ErrModelUnavailable) {
			err = fmt.Errorf("%w: %v", ErrModelUnavailable, err)
		}
		return nil, err
	}

	log, err := s.conversations.AppendMessage(ctx, userID, message, reply, conversationID)
	if err != nil {
		return nil, fmt.Errorf("failed to store chat log: %w", err)
	}

	return &ChatReply{Response: reply, ConversationID: log.ConversationID}, nil
}

// SaveChat stores a whole client-side transcript as one conversation.
func (s *ChatService) SaveChat(ctx context.Context, userID int64, conversationID string, pairs []store.MessagePair) (string, error) {
	if len(pairs) == 0 {
		return "", ErrNoMessagesToSave
	}

	key, err := s.conversations.AppendConversation(ctx, userID, conversationID, pairs)
	if err != nil {
		return "", fmt.Errorf("failed to save chat: %w", err)
	}

	s.logger.Info("chat saved",
		zap.Int64("user_id", userID),
		zap.Int("messages", len(pairs)),
		zap.String("conversation_id", key))
	return key, nil
}

func (s *ChatService) History(ctx context.Context, userID int64) ([]store.ConversationSummary, error) {
	conversations, err := s.conversations.ListConversations(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list conversations: %w", err)
	}
	return conversations, nil
}

func (s *ChatService) Conversation(ctx context.Context, userID int64, conversationID string) ([]store.MessagePair, error) {
	messages, err := s.conversations.GetConversation(ctx, userID, conversationID)
	if err != nil {
		return nil, fmt.Errorf("failed to load conversation: %w", err)
	}
	return messages, nil
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n]) + "..."
}
