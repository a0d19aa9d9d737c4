package model

import (
	"errors"
	"fmt"
)

// Error codes
const (
	ErrCodeStoryNotFound = "STO001"
	ErrCodeNotStoryOwner = "STO002"
	ErrCodeValidation    = "STO003"
)

// Sentinel errors
var (
	ErrStoryNotFound = errors.New("story not found")
	ErrNotStoryOwner = errors.New("only the owner may modify this story")
)

// StoryError carries an error code alongside the message so the
// handler layer can map outcomes without string matching.
type StoryError struct {
	Code    string
	Message string
	Err     error
}

func (e *StoryError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *StoryError) Unwrap() error {
	return e.Err
}

// Error constructors
func NewStoryNotFoundError() *StoryError {
	return &StoryError{
		Code:    ErrCodeStoryNotFound,
		Message: "Story not found",
		Err:     ErrStoryNotFound,
	}
}

func NewNotStoryOwnerError() *StoryError {
	return &StoryError{
		Code:    ErrCodeNotStoryOwner,
		Message: "You can only modify your own stories",
		Err:     ErrNotStoryOwner,
	}
}
