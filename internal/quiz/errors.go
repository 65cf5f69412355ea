package quiz

import (
	"errors"
	"fmt"
)

var (
	// ErrGenerationFailed wraps any gateway or parser failure during Start.
	ErrGenerationFailed = errors.New("quiz generation failed")
	// ErrGenerationInProgress is returned when Start is called while a
	// generation for the same session is still outstanding.
	ErrGenerationInProgress = errors.New("quiz generation already in progress")
	// ErrInvalidRequest rejects an empty topic or a non-positive count.
	ErrInvalidRequest = errors.New("invalid quiz request")
	// ErrInvalidSelection rejects an out-of-range question or option index.
	ErrInvalidSelection = errors.New("invalid answer selection")
	// ErrAlreadySubmitted is returned for selections made after submission.
	// It matches ErrInvalidSelection under errors.Is.
	ErrAlreadySubmitted = fmt.Errorf("%w: quiz already submitted", ErrInvalidSelection)
	// ErrIncomplete rejects a manual submit while questions are unanswered.
	ErrIncomplete = errors.New("all questions must be answered before submitting")
	// ErrNotInProgress is returned when no quiz is running.
	ErrNotInProgress = errors.New("no quiz in progress")
	// ErrClosed is returned by a session that has been torn down.
	ErrClosed = errors.New("quiz session closed")
)
