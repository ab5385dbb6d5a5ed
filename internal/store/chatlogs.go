package store

import (
	"context"
	"fmt"

	"github.com/SaiPran04/Spero-AI-Mental-Health-Assistant/internal/utils"
)

const insertChatLog = `
    INSERT INTO chat_logs (timestamp, user_message, ai_response, user_id, conversation_id)
    VALUES (?, ?, ?, ?, ?)`

// AppendMessage stores one exchange. An empty conversationID starts a new
// conversation keyed by the current timestamp.
func (s *SQLiteStore) AppendMessage(ctx context.Context, userID int64, userText, aiText, conversationID string) (*ChatLog, error) {
	timestamp := utils.NewConversationKey(s.now())
	if conversationID == "" {
		conversationID = timestamp
	}

	res, err := s.db.ExecContext(ctx, insertChatLog, timestamp, userText, aiText, userID, conversationID)
	if err != nil {
		return nil, fmt.Errorf("failed to insert chat log: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("failed to read chat log id: %w", err)
	}

	return &ChatLog{
		ID:             id,
		Timestamp:      timestamp,
		UserMessage:    userText,
		AIResponse:     aiText,
		UserID:         userID,
		ConversationID: conversationID,
	}, nil
}

// AppendConversation stores pairs in order under a single conversation key,
// all or nothing. It returns the key used.
func (s *SQLiteStore) AppendConversation(ctx context.Context, userID int64, conversationID string, pairs []MessagePair) (string, error) {
	timestamp := utils.NewConversationKey(s.now())
	if conversationID == "" {
		conversationID = timestamp
	}

	err := s.withTx(ctx, func(ctx context.Context, tx DBTX) error {
		for i, p := range pairs {
			if _, err := tx.ExecContext(ctx, insertChatLog, timestamp, p.User, p.AI, userID, conversationID); err != nil {
				return fmt.Errorf("failed to insert message %d: %w", i, err)
			}
		}
		return nil
	})
	if err != nil {
		return "", err
	}
	return conversationID, nil
}

const listConversations = `
    SELECT c.conversation_id, c.first_timestamp, c.first_id, c.message_count, f.user_message
    FROM (
        SELECT conversation_id,
               MIN(timestamp) AS first_timestamp,
               MIN(id) AS first_id,
               COUNT(*) AS message_count
        FROM chat_logs
        WHERE user_id = ? AND user_message != ?
        GROUP BY conversation_id
    ) c
    JOIN chat_logs f ON f.id = c.first_id
    ORDER BY c.first_timestamp DESC, c.first_id DESC`

// ListConversations returns the user's conversations, most recent first.
func (s *SQLiteStore) ListConversations(ctx context.Context, userID int64) ([]ConversationSummary, error) {
	rows, err := s.db.QueryContext(ctx, listConversations, userID, SentinelMessage)
	if err != nil {
		return nil, fmt.Errorf("failed to query conversations: %w", err)
	}
	defer rows.Close()

	conversations := []ConversationSummary{}
	for rows.Next() {
		var c ConversationSummary
		var firstMessage string
		if err := rows.Scan(&c.ID, &c.FirstTimestamp, &c.FirstMessageID, &c.MessageCount, &firstMessage); err != nil {
			return nil, fmt.Errorf("failed to scan conversation row: %w", err)
		}
		c.Date = utils.FormatDisplayTime(c.FirstTimestamp)
		c.Preview = utils.Preview(firstMessage)
		conversations = append(conversations, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate conversations: %w", err)
	}
	return conversations, nil
}

// GetConversation returns the transcript of one conversation, oldest first.
// An unknown key yields an empty transcript.
func (s *SQLiteStore) GetConversation(ctx context.Context, userID int64, conversationID string) ([]MessagePair, error) {
	query := `
        SELECT user_message, ai_response
        FROM chat_logs
        WHERE user_id = ? AND conversation_id = ? AND user_message != ?
        ORDER BY id ASC`

	rows, err := s.db.QueryContext(ctx, query, userID, conversationID, SentinelMessage)
	if err != nil {
		return nil, fmt.Errorf("failed to query conversation: %w", err)
	}
	defer rows.Close()

	messages := []MessagePair{}
	for rows.Next() {
		var m MessagePair
		if err := rows.Scan(&m.User, &m.AI); err != nil {
			return nil, fmt.Errorf("failed to scan message row: %w", err)
		}
		messages = append(messages, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate messages: %w", err)
	}
	return messages, nil
}
