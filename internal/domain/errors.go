package domain

import "errors"

var (
	// ErrEmptyMessage indicates the chat request carried no message
	ErrEmptyMessage = errors.New("message is empty")
	// ErrInvalidJSON indicates the request body could not be decoded
	ErrInvalidJSON = errors.New("invalid JSON format")
	// ErrNoChoices indicates the completion service returned no candidates
	ErrNoChoices = errors.New("completion returned no choices")
)
