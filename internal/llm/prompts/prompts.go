package prompts

import (
	"bytes"
	"embed"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"sync"
	"text/template"
	"unicode/utf8"

	"github.com/pavelanni/studybuddy/internal/model"
)

const (
	// DefaultQuestionCount is used by callers when a request omits the count.
	DefaultQuestionCount = 5
	// DefaultTitle is used when a teacher quiz has no explicit title.
	DefaultTitle = "Quiz"

	maxFieldRunes = 200
)

var fenceRegex = regexp.MustCompile("`{3,}")

//go:embed templates/*.tmpl
var templateFS embed.FS

var (
	loadOnce        sync.Once
	loadErr         error
	studentTemplate *template.Template
	teacherTemplate *template.Template
)

var systemPrompts = map[model.ContentType]string{
	model.ContentQuiz:     "You are a quiz generator. Return only valid JSON in the specified format.",
	model.ContentStudy:    "You are a helpful study buddy AI. Provide clear, concise, and educational responses. Break down complex topics into understandable parts. Include examples where helpful.",
	model.ContentEssay:    "You are an experienced writing teacher. Give specific, constructive feedback on structure, argument, and style.",
	model.ContentSyllabus: "You are a curriculum designer. Produce well-organized syllabi with weekly topics, objectives, and assessments.",
}

const defaultSystemPrompt = "You are an educational assistant."

// StudentQuiz holds template data for a self-study quiz prompt.
type StudentQuiz struct {
	Topic string
	Count int
}

// TeacherQuiz holds template data for a classroom quiz prompt.
type TeacherQuiz struct {
	Subject string
	Section string
	Title   string
	Count   int
}

func load() error {
	loadOnce.Do(func() {
		studentTemplate, loadErr = parse("templates/student_quiz.tmpl")
		if loadErr != nil {
			return
		}
		teacherTemplate, loadErr = parse("templates/teacher_quiz.tmpl")
	})
	return loadErr
}

func parse(name string) (*template.Template, error) {
	content, err := templateFS.ReadFile(name)
	if err != nil {
		return nil, errors.New("failed to read prompt file " + name + ": " + err.Error())
	}
	tmpl, err := template.New(name).Parse(string(content))
	if err != nil {
		return nil, errors.New("failed to parse prompt template " + name + ": " + err.Error())
	}
	return tmpl, nil
}

// BuildStudentQuiz renders the generation instruction for a topic quiz.
// Callers must reject an empty topic or non-positive count beforehand.
func BuildStudentQuiz(req StudentQuiz) (string, error) {
	if err := load(); err != nil {
		return "", fmt.Errorf("templates load failed: %w", err)
	}
	req.Topic = sanitizeField(req.Topic)
	return execute(studentTemplate, req)
}

// BuildTeacherQuiz renders the generation instruction for a subject/section quiz.
func BuildTeacherQuiz(req TeacherQuiz) (string, error) {
	if err := load(); err != nil {
		return "", fmt.Errorf("templates load failed: %w", err)
	}
	req.Subject = sanitizeField(req.Subject)
	req.Section = sanitizeField(req.Section)
	req.Title = sanitizeField(req.Title)
	if req.Title == "" {
		req.Title = DefaultTitle
	}
	return execute(teacherTemplate, req)
}

// SystemPrompt returns the system instruction for a content type.
func SystemPrompt(ct model.ContentType) string {
	if p, ok := systemPrompts[ct]; ok {
		return p
	}
	return defaultSystemPrompt
}

func execute(tmpl *template.Template, data any) (string, error) {
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// sanitizeField keeps user text on one line and out of any fenced block.
func sanitizeField(s string) string {
	s = fenceRegex.ReplaceAllString(s, "")
	s = strings.Join(strings.Fields(s), " ")

	if utf8.RuneCountInString(s) > maxFieldRunes {
		runes := []rune(s)
		s = string(runes[:maxFieldRunes])
	}
	return s
}
