package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/SaiPran04/Spero-AI-Mental-Health-Assistant/internal/logging"
)

func NewRouter(h *APIHandler, logger *zap.Logger) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(logging.RequestLogger(logger))
	r.Use(middleware.Recoverer)    // Recover from panics
	r.Use(middleware.StripSlashes) // Ensure consistent path handling

	// Public pages
	r.Get("/", h.LoginPage)
	r.Get("/login", h.LoginPage)
	r.Post("/login", h.LoginHandler)
	r.Get("/signup", h.SignupPage)
	r.Post("/signup", h.SignupHandler)
	r.Get("/user", h.SignupPage)
	r.Post("/redirect_to_user", redirectTo("/user"))
	r.Post("/redirect_to_option", redirectTo("/option"))
	r.Post("/redirect_to_index", redirectTo("/index"))
	r.Get("/health", h.HealthHandler)

	// Pages that need a session
	r.Group(func(r chi.Router) {
		r.Use(h.RequirePage)

		r.Get("/logout", h.LogoutHandler)
		r.Get("/option", h.OptionPage)
		r.Get("/index", h.ChatPage)
	})

	// JSON endpoints that need a session
	r.Group(func(r chi.Router) {
		r.Use(h.RequireSession)

		r.Post("/chat", h.ChatHandler)
		r.Post("/save_chat", h.SaveChatHandler)
		r.Get("/get_chat_history", h.ChatHistoryHandler)
		r.Get("/get_conversation/{conversationID}", h.ConversationHandler)
		r.Post("/reset", h.ResetHandler)
	})

	return r
}
