package entities

import "fmt"

// SuggestionResult is the answer to one suggestion request
type SuggestionResult struct {
	Strategy    Strategy `json:"strategy"`
	NumberCount int      `json:"number_count"`
	GameCount   int      `json:"game_count"`
	Sets        [][]int  `json:"sets"` // Each set sorted ascending
}

// ValidationError reports malformed input to a domain operation
type ValidationError struct {
	Message string
}

// NewValidationError creates a ValidationError with a formatted message
func NewValidationError(format string, args ...any) *ValidationError {
	return &ValidationError{Message: fmt.Sprintf(format, args...)}
}

func (e *ValidationError) Error() string {
	return e.Message
}
