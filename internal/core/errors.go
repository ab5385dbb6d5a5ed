package core

import "errors"

var (
	ErrNotAuthenticated   = errors.New("not logged in")
	ErrModelUnavailable   = errors.New("model unavailable")
	ErrDuplicateEmail     = errors.New("email already exists")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrNoMessagesToSave   = errors.New("no messages to save")

	// input validation
	ErrMissingFields = errors.New("name, email and password are required")
	ErrEmptyMessage  = errors.New("message cannot be empty")
	ErrPasswordLong  = errors.New("password is too long")
)

// Replies shown to the user in place of a model answer.
const (
	ModelUnavailableReply = "Sorry, there was an error processing your request. Please try again."
	UnexpectedFormatReply = "I'm sorry, I received an unexpected response format. Please try again."
)
