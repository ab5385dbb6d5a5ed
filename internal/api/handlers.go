package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/url"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/SaiPran04/Spero-AI-Mental-Health-Assistant/internal/auth"
	"github.com/SaiPran04/Spero-AI-Mental-Health-Assistant/internal/core"
	"github.com/SaiPran04/Spero-AI-Mental-Health-Assistant/internal/store"
)

type UserService interface {
	Signup(ctx context.Context, name, email, password string) (*store.User, error)
	Login(ctx context.Context, email, password string) (*store.User, error)
}

type ChatService interface {
	Chat(ctx context.Context, userID int64, message, conversationID string) (*core.ChatReply, error)
	SaveChat(ctx context.Context, userID int64, conversationID string, pairs []store.MessagePair) (string, error)
	History(ctx context.Context, userID int64) ([]store.ConversationSummary, error)
	Conversation(ctx context.Context, userID int64, conversationID string) ([]store.MessagePair, error)
}

// Pinger reports whether the backing database is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

type APIHandler struct {
	db           Pinger
	users        UserService
	chats        ChatService
	sessions     *auth.SessionManager
	revoker      auth.Revoker
	logger       *zap.Logger
	cookieSecure bool
}

func NewAPIHandler(db Pinger, users UserService, chats ChatService, sessions *auth.SessionManager, revoker auth.Revoker, logger *zap.Logger, cookieSecure bool) *APIHandler {
	return &APIHandler{
		db:           db,
		users:        users,
		chats:        chats,
		sessions:     sessions,
		revoker:      revoker,
		logger:       logger,
		cookieSecure: cookieSecure,
	}
}

// mustSession returns the session attached by RequireSession/RequirePage.
func mustSession(r *http.Request) *auth.Session {
	s, _ := SessionFromContext(r.Context())
	return s
}

type ChatRequest struct {
	Message        string `json:"message"`
	ConversationID string `json:"conversation_id,omitempty"`
}

func (h *APIHandler) ChatHandler(w http.ResponseWriter, r *http.Request) {
	session := mustSession(r)

	var req ChatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	reply, err := h.chats.Chat(r.Context(), session.UserID, req.Message, req.ConversationID)
	switch {
	case err == nil:
		writeJSON(w, http.StatusOK, reply)
	case errors.Is(err, core.ErrEmptyMessage):
		writeError(w, http.StatusBadRequest, "Message cannot be empty")
	case errors.Is(err, core.ErrModelUnavailable):
		// Already logged by the chat service.
		writeJSON(w, http.StatusOK, map[string]string{"response": core.ModelUnavailableReply})
	default:
		h.logger.Error("chat failed", zap.Int64("user_id", session.UserID), zap.Error(err))
		writeError(w, http.StatusInternalServerError, internalErrorMessage)
	}
}

type SaveChatRequest struct {
	Messages       []store.MessagePair `json:"messages"`
	ConversationID string              `json:"conversation_id,omitempty"`
}

func (h *APIHandler) SaveChatHandler(w http.ResponseWriter, r *http.Request) {
	session := mustSession(r)

	var req SaveChatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	key, err := h.chats.SaveChat(r.Context(), session.UserID, req.ConversationID, req.Messages)
	if err != nil {
		if errors.Is(err, core.ErrNoMessagesToSave) {
			writeJSON(w, http.StatusBadRequest, map[string]string{"status": "error", "message": "No messages to save"})
			return
		}
		h.logger.Error("save chat failed", zap.Int64("user_id", session.UserID), zap.Error(err))
		writeError(w, http.StatusInternalServerError, internalErrorMessage)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{
		"status":          "success",
		"message":         "Chat saved successfully",
		"conversation_id": key,
	})
}

func (h *APIHandler) ChatHistoryHandler(w http.ResponseWriter, r *http.Request) {
	session := mustSession(r)

	conversations, err := h.chats.History(r.Context(), session.UserID)
	if err != nil {
		h.logger.Error("listing conversations failed", zap.Int64("user_id", session.UserID), zap.Error(err))
		writeError(w, http.StatusInternalServerError, internalErrorMessage)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"conversations": conversations})
}

func (h *APIHandler) ConversationHandler(w http.ResponseWriter, r *http.Request) {
	session := mustSession(r)
	conversationID := chi.URLParam(r, "conversationID")
	// chi matches on RawPath when the request carried one, leaving the
	// segment escaped.
	if r.URL.RawPath != "" {
		if unescaped, err := url.PathUnescape(conversationID); err == nil {
			conversationID = unescaped
		}
	}

	messages, err := h.chats.Conversation(r.Context(), session.UserID, conversationID)
	if err != nil {
		h.logger.Error("loading conversation failed",
			zap.Int64("user_id", session.UserID),
			zap.String("conversation_id", conversationID),
			zap.Error(err))
		writeError(w, http.StatusInternalServerError, internalErrorMessage)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"messages": messages})
}

func (h *APIHandler) HealthHandler(w http.ResponseWriter, r *http.Request) {
	if err := h.db.Ping(r.Context()); err != nil {
		h.logger.Error("database ping failed", zap.Error(err))
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unavailable"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// ResetHandler acknowledges the client clearing its chat window. The server
// keeps no per-chat state, so there is nothing to discard.
func (h *APIHandler) ResetHandler(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "success"})
}
