// Package quizparse turns free-form completion text into a validated
// question set. It has no side effects beyond debug logging and can be
// exercised with nothing but a raw string.
package quizparse

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/pavelanni/studybuddy/internal/model"
)

// Policy decides what happens to a batch containing malformed questions.
type Policy int

const (
	// Drop discards malformed questions and keeps the rest.
	Drop Policy = iota
	// RejectAll refuses the whole batch if any question is malformed.
	RejectAll
)

func (p Policy) String() string {
	switch p {
	case Drop:
		return "drop"
	case RejectAll:
		return "reject_all"
	default:
		return "unknown"
	}
}

const fence = "```"

// StripFences removes a leading and trailing Markdown code fence (with an
// optional language tag) and surrounding whitespace.
func StripFences(s string) string {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, fence) {
		s = strings.TrimPrefix(s, fence)
		i := 0
		for i < len(s) && isASCIILetter(s[i]) {
			i++
		}
		if rest := s[i:]; i > 0 && (rest == "" || startsJSONOrSpace(rest)) {
			s = rest
		}
	}
	s = strings.TrimSpace(s)
	s = strings.TrimSuffix(s, fence)
	return strings.TrimSpace(s)
}

func isASCIILetter(b byte) bool {
	return (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z')
}

func startsJSONOrSpace(s string) bool {
	switch s[0] {
	case '{', '[', ' ', '\t', '\r', '\n':
		return true
	}
	return false
}

// Parse validates raw completion text against the quiz content contract.
// The returned set's Requested field is left for the caller to fill.
func Parse(raw string, policy Policy) (model.QuestionSet, error) {
	var doc any
	if err := json.Unmarshal([]byte(StripFences(raw)), &doc); err != nil {
		return model.QuestionSet{}, &ParseError{Err: err}
	}

	if err := envelope.Validate(doc); err != nil {
		return model.QuestionSet{}, &SchemaError{Err: err}
	}
	elems := doc.(map[string]any)["questions"].([]any)

	var (
		questions []model.Question
		rejected  []Rejection
	)
	for i, elem := range elems {
		q, err := toQuestion(elem)
		if err != nil {
			rejected = append(rejected, Rejection{Index: i, Reason: oneLine(err.Error())})
			if policy == RejectAll {
				return model.QuestionSet{}, &ValidationError{Policy: policy, Total: len(elems), Rejected: rejected}
			}
			continue
		}
		questions = append(questions, q)
	}

	if len(questions) == 0 {
		return model.QuestionSet{}, &ValidationError{Policy: policy, Total: len(elems), Rejected: rejected}
	}
	if len(rejected) > 0 {
		slog.Warn("dropped invalid questions", "dropped", len(rejected), "kept", len(questions))
	}

	return model.QuestionSet{Questions: questions}, nil
}

func toQuestion(elem any) (model.Question, error) {
	if err := question.Validate(elem); err != nil {
		slog.Debug("question failed schema", "error", err)
		return model.Question{}, errors.New(describe(elem))
	}
	obj := elem.(map[string]any)

	opts, ok := obj["options"].([]any)
	if !ok {
		opts = obj["choices"].([]any)
	}

	idx, err := coerceIndex(obj["correctAnswer"])
	if err != nil {
		return model.Question{}, err
	}

	q := model.Question{
		Text:         strings.TrimSpace(obj["question"].(string)),
		CorrectIndex: idx,
	}
	for i := range model.OptionsPerQuestion {
		q.Options[i] = opts[i].(string)
	}
	return q, nil
}

// describe names the first contract violation in elem in plain words.
// The schema stays the gate; this only picks the message.
func describe(elem any) string {
	obj, ok := elem.(map[string]any)
	if !ok {
		return "question is not an object"
	}
	if text, ok := obj["question"].(string); !ok || strings.TrimSpace(text) == "" {
		return "question text is missing"
	}

	opts, hasOpts := obj["options"]
	if !hasOpts {
		opts, hasOpts = obj["choices"]
	}
	if !hasOpts {
		return "options are missing"
	}
	list, ok := opts.([]any)
	if !ok || len(list) != model.OptionsPerQuestion {
		return fmt.Sprintf("must have exactly %d options", model.OptionsPerQuestion)
	}
	for _, o := range list {
		if _, ok := o.(string); !ok {
			return "options must be text"
		}
	}

	v, ok := obj["correctAnswer"]
	if !ok {
		return "correctAnswer is missing"
	}
	if _, err := coerceIndex(v); err != nil {
		return err.Error()
	}
	return "question does not match the expected format"
}

// coerceIndex converts the correct-answer indicator to an int in [0,3].
func coerceIndex(v any) (int, error) {
	var idx int
	switch t := v.(type) {
	case float64:
		idx = int(t)
		if float64(idx) != t {
			return 0, fmt.Errorf("correctAnswer %v is not an integer", t)
		}
	case string:
		n, err := strconv.Atoi(strings.TrimSpace(t))
		if err != nil {
			return 0, fmt.Errorf("correctAnswer %q is not a numeral", t)
		}
		idx = n
	default:
		return 0, fmt.Errorf("correctAnswer has unsupported type %T", v)
	}
	if idx < 0 || idx >= model.OptionsPerQuestion {
		return 0, fmt.Errorf("correctAnswer %d out of range 0-%d", idx, model.OptionsPerQuestion-1)
	}
	return idx, nil
}

func oneLine(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
