package api

import (
	"embed"
	"errors"
	"html/template"
	"net/http"

	"go.uber.org/zap"

	"github.com/SaiPran04/Spero-AI-Mental-Health-Assistant/internal/core"
)

//go:embed templates/*.html
var templateFS embed.FS

var pages = template.Must(template.ParseFS(templateFS, "templates/*.html"))

type pageData struct {
	Error string
	Name  string
}

func (h *APIHandler) render(w http.ResponseWriter, status int, page string, data pageData) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if err := pages.ExecuteTemplate(w, page, data); err != nil {
		h.logger.Error("rendering page failed", zap.String("page", page), zap.Error(err))
	}
}

func (h *APIHandler) LoginPage(w http.ResponseWriter, r *http.Request) {
	h.render(w, http.StatusOK, "login.html", pageData{})
}

func (h *APIHandler) SignupPage(w http.ResponseWriter, r *http.Request) {
	h.render(w, http.StatusOK, "signup.html", pageData{})
}

func (h *APIHandler) LoginHandler(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.render(w, http.StatusBadRequest, "login.html", pageData{Error: "Invalid form submission"})
		return
	}

	user, err := h.users.Login(r.Context(), r.PostFormValue("email"), r.PostFormValue("password"))
	if err != nil {
		if errors.Is(err, core.ErrInvalidCredentials) {
			h.render(w, http.StatusUnauthorized, "login.html", pageData{Error: "Invalid email or password"})
			return
		}
		h.logger.Error("login failed", zap.Error(err))
		h.render(w, http.StatusInternalServerError, "login.html", pageData{Error: "Something went wrong. Please try again."})
		return
	}

	if err := h.startSession(w, user.ID, user.Name); err != nil {
		h.logger.Error("starting session failed", zap.Int64("user_id", user.ID), zap.Error(err))
		h.render(w, http.StatusInternalServerError, "login.html", pageData{Error: "Something went wrong. Please try again."})
		return
	}
	http.Redirect(w, r, "/option", http.StatusFound)
}

func (h *APIHandler) SignupHandler(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.render(w, http.StatusBadRequest, "signup.html", pageData{Error: "Invalid form submission"})
		return
	}

	user, err := h.users.Signup(r.Context(), r.PostFormValue("name"), r.PostFormValue("email"), r.PostFormValue("password"))
	switch {
	case err == nil:
	case errors.Is(err, core.ErrDuplicateEmail):
		h.render(w, http.StatusConflict, "signup.html", pageData{Error: "Email already exists"})
		return
	case errors.Is(err, core.ErrMissingFields):
		h.render(w, http.StatusBadRequest, "signup.html", pageData{Error: "Name, email and password are required"})
		return
	case errors.Is(err, core.ErrPasswordLong):
		h.render(w, http.StatusBadRequest, "signup.html", pageData{Error: "Password is too long"})
		return
	default:
		h.logger.Error("signup failed", zap.Error(err))
		h.render(w, http.StatusInternalServerError, "signup.html", pageData{Error: "Something went wrong. Please try again."})
		return
	}

	if err := h.startSession(w, user.ID, user.Name); err != nil {
		h.logger.Error("starting session failed", zap.Int64("user_id", user.ID), zap.Error(err))
		http.Redirect(w, r, "/", http.StatusFound)
		return
	}
	http.Redirect(w, r, "/option", http.StatusFound)
}

func (h *APIHandler) LogoutHandler(w http.ResponseWriter, r *http.Request) {
	session := mustSession(r)
	if err := h.revoker.Revoke(r.Context(), session.TokenID, session.ExpiresAt); err != nil {
		h.logger.Error("revoking session failed", zap.Int64("user_id", session.UserID), zap.Error(err))
	}
	h.clearSession(w)
	http.Redirect(w, r, "/", http.StatusFound)
}

func (h *APIHandler) OptionPage(w http.ResponseWriter, r *http.Request) {
	h.render(w, http.StatusOK, "option.html", pageData{Name: mustSession(r).Name})
}

func (h *APIHandler) ChatPage(w http.ResponseWriter, r *http.Request) {
	h.render(w, http.StatusOK, "index.html", pageData{Name: mustSession(r).Name})
}

func redirectTo(path string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, path, http.StatusFound)
	}
}
