package model

import "time"

// ContentType tags a generation request so the gateway can pick a system prompt.
type ContentType string

const (
	ContentQuiz     ContentType = "quiz"
	ContentStudy    ContentType = "study"
	ContentEssay    ContentType = "essay"
	ContentSyllabus ContentType = "syllabus"
)

// OptionsPerQuestion is the fixed number of choices every question carries.
const OptionsPerQuestion = 4

// Question is a validated multiple-choice question.
type Question struct {
	Text         string                     `json:"question"`
	Options      [OptionsPerQuestion]string `json:"options"`
	CorrectIndex int                        `json:"correctAnswer"`
}

// Letter returns the lowercase choice letter (a..d) for an option index.
func Letter(index int) string {
	return string(rune('a' + index))
}

// QuestionSet is an ordered set of validated questions.
type QuestionSet struct {
	Questions []Question `json:"questions"`
	// Requested is the count originally asked of the generator.
	Requested int `json:"requested"`
}

// Len returns the number of questions actually present.
func (qs QuestionSet) Len() int {
	return len(qs.Questions)
}

// QuizResult is the immutable record of one submitted quiz.
type QuizResult struct {
	Topic            string    `json:"topic"`
	Grade            int       `json:"grade"`
	CorrectCount     int       `json:"correctCount"`
	TotalQuestions   int       `json:"totalQuestions"`
	TimeSpentSeconds int       `json:"timeSpent"`
	Timestamp        time.Time `json:"timestamp"`
}

// GenerationRecord describes a single call to the completion service.
type GenerationRecord struct {
	ID            int64       `json:"id"`
	ContentType   ContentType `json:"content_type"`
	Model         string      `json:"model"`
	LatencyMs     int64       `json:"latency_ms"`
	Success       bool        `json:"success"`
	ErrorMessage  string      `json:"error_message,omitempty"`
	PromptChars   int         `json:"prompt_chars"`
	ResponseChars int         `json:"response_chars"`
	CreatedAt     time.Time   `json:"created_at"`
}

// PollOption is one votable option of a poll.
type PollOption struct {
	ID    string `json:"id"`
	Text  string `json:"text"`
	Votes int    `json:"votes"`
}

// Poll is a best-effort classroom poll.
type Poll struct {
	ID         string       `json:"id"`
	Question   string       `json:"question"`
	Options    []PollOption `json:"options"`
	Active     bool         `json:"isActive"`
	CreatedAt  time.Time    `json:"createdAt"`
	TotalVotes int          `json:"totalVotes"`
}

// ServerConfig holds runtime parameters set via CLI flags.
type ServerConfig struct {
	QuizSeconds         int           // countdown budget for each quiz
	DefaultQuestions    int           // used when a start request omits the count
	LLMTimeout          time.Duration // per generation call
	TeacherPasswordHash string        // bcrypt hash; empty disables teacher auth
	CORSOrigins         []string
}
