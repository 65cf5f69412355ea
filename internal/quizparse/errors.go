package quizparse

import (
	"fmt"
	"strings"
)

// ParseError indicates the response text is not valid JSON.
type ParseError struct {
	Err error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("AI response is not valid JSON: %v", e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// SchemaError indicates valid JSON without a "questions" array.
type SchemaError struct {
	Err error
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf("invalid response format: questions must be an array: %v", e.Err)
}

func (e *SchemaError) Unwrap() error { return e.Err }

// Rejection explains why a single question element was refused.
type Rejection struct {
	Index  int    `json:"index"`
	Reason string `json:"reason"`
}

// ValidationError indicates no usable questions survived validation.
type ValidationError struct {
	Policy   Policy
	Total    int
	Rejected []Rejection
}

func (e *ValidationError) Error() string {
	if e.Total == 0 {
		return "AI response contains no questions"
	}
	if e.Policy == RejectAll && len(e.Rejected) > 0 {
		r := e.Rejected[0]
		return fmt.Sprintf("quiz rejected: question %d is invalid: %s", r.Index+1, r.Reason)
	}
	var reasons []string
	for _, r := range e.Rejected {
		reasons = append(reasons, fmt.Sprintf("#%d: %s", r.Index+1, r.Reason))
	}
	return fmt.Sprintf("no valid questions (%d of %d rejected): %s",
		len(e.Rejected), e.Total, strings.Join(reasons, "; "))
}
