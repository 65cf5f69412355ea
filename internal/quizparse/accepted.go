package quizparse

import (
	"encoding/json"
	"strings"

	"github.com/pavelanni/studybuddy/internal/model"
)

// Accepted is a quiz that already passed validation once, as returned by
// the teacher quiz endpoint or written by the generate command.
type Accepted struct {
	Title string
	Set   model.QuestionSet
}

type acceptedDoc struct {
	Title     string          `json:"title"`
	Requested int             `json:"requested"`
	Questions json.RawMessage `json:"questions"`
}

// ParseAccepted re-validates a saved quiz document before it is printed.
// The questions go through the same contract as fresh completions under
// RejectAll, so a hand-edited document cannot smuggle in a bad question.
func ParseAccepted(data []byte) (Accepted, error) {
	var doc acceptedDoc
	if err := json.Unmarshal(data, &doc); err != nil {
		return Accepted{}, &ParseError{Err: err}
	}

	envelope, err := json.Marshal(map[string]json.RawMessage{"questions": doc.Questions})
	if err != nil {
		return Accepted{}, &ParseError{Err: err}
	}
	set, err := Parse(string(envelope), RejectAll)
	if err != nil {
		return Accepted{}, err
	}

	set.Requested = doc.Requested
	if set.Requested <= 0 {
		set.Requested = set.Len()
	}
	return Accepted{Title: strings.TrimSpace(doc.Title), Set: set}, nil
}
