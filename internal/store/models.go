package store

// SentinelMessage seeds an otherwise empty conversation. Rows carrying it are
// never shown in history listings or transcripts.
const SentinelMessage = "Conversation Start"

type User struct {
	ID           int64  `json:"id"`
	Name         string `json:"name"`
	Email        string `json:"email"`
	PasswordHash string `json:"-"` // Do not expose this in JSON responses
}

// ChatLog is one stored exchange: the user's text and the model's reply.
type ChatLog struct {
	ID             int64  `json:"id"`
	Timestamp      string `json:"timestamp"` // utils.KeyLayout
	UserMessage    string `json:"user_message"`
	AIResponse     string `json:"ai_response"`
	UserID         int64  `json:"user_id"`
	ConversationID string `json:"conversation_id"`
}

// MessagePair is the transcript form of a ChatLog.
type MessagePair struct {
	User string `json:"user"`
	AI   string `json:"ai"`
}

// ConversationSummary describes one conversation in the history list.
type ConversationSummary struct {
	ID           string `json:"id"`
	Date         string `json:"date"`
	Preview      string `json:"preview"`
	MessageCount int    `json:"message_count"`

	// Raw values the display fields are derived from.
	FirstTimestamp string `json:"-"`
	FirstMessageID int64  `json:"-"`
}
