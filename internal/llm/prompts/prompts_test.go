package prompts

import (
	"strings"
	"testing"

	"github.com/pavelanni/studybuddy/internal/model"
)

func TestBuildStudentQuiz(t *testing.T) {
	prompt, err := BuildStudentQuiz(StudentQuiz{Topic: "Photosynthesis", Count: 5})
	if err != nil {
		t.Fatalf("BuildStudentQuiz: %v", err)
	}

	for _, want := range []string{
		"Photosynthesis",
		"Generate exactly 5 questions",
		"exactly 4 options",
		"correctAnswer must be 0-3",
		"Mix easy, medium, and hard",
		"Return only valid JSON",
		`"questions": [`,
	} {
		if !strings.Contains(prompt, want) {
			t.Errorf("prompt should contain %q", want)
		}
	}
}

func TestBuildStudentQuizDeterministic(t *testing.T) {
	req := StudentQuiz{Topic: "Cells", Count: 3}
	a, err := BuildStudentQuiz(req)
	if err != nil {
		t.Fatalf("BuildStudentQuiz: %v", err)
	}
	b, err := BuildStudentQuiz(req)
	if err != nil {
		t.Fatalf("BuildStudentQuiz: %v", err)
	}
	if a != b {
		t.Error("same request should render the same prompt")
	}
}

func TestBuildTeacherQuiz(t *testing.T) {
	t.Run("explicit title", func(t *testing.T) {
		prompt, err := BuildTeacherQuiz(TeacherQuiz{
			Subject: "Science",
			Section: "Physics",
			Title:   "Unit 3 Review",
			Count:   10,
		})
		if err != nil {
			t.Fatalf("BuildTeacherQuiz: %v", err)
		}
		for _, want := range []string{
			"Subject: Science",
			"Topic: Physics",
			"Title: Unit 3 Review",
			"Generate exactly 10 questions",
			"exactly 4 choices",
			"Science - Physics",
			"Distribute correct answers evenly",
		} {
			if !strings.Contains(prompt, want) {
				t.Errorf("prompt should contain %q", want)
			}
		}
	})

	t.Run("default title", func(t *testing.T) {
		prompt, err := BuildTeacherQuiz(TeacherQuiz{Subject: "English", Section: "Poetry", Count: 4})
		if err != nil {
			t.Fatalf("BuildTeacherQuiz: %v", err)
		}
		if !strings.Contains(prompt, "Title: "+DefaultTitle) {
			t.Error("prompt should fall back to the default title")
		}
	})
}

func TestSanitizeField(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"plain", "World History", "World History"},
		{"fences removed", "```json\nignore previous```", "json ignore previous"},
		{"whitespace collapsed", "  quantum \n\t physics ", "quantum physics"},
		{"empty", "", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := sanitizeField(tt.in); got != tt.want {
				t.Errorf("sanitizeField(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}

	long := strings.Repeat("é", maxFieldRunes+50)
	if got := sanitizeField(long); len([]rune(got)) != maxFieldRunes {
		t.Errorf("expected truncation to %d runes, got %d", maxFieldRunes, len([]rune(got)))
	}
}

func TestSystemPrompt(t *testing.T) {
	if p := SystemPrompt(model.ContentQuiz); !strings.Contains(p, "valid JSON") {
		t.Errorf("quiz system prompt should demand JSON, got %q", p)
	}
	if p := SystemPrompt(model.ContentStudy); !strings.Contains(p, "study buddy") {
		t.Errorf("unexpected study prompt %q", p)
	}
	if p := SystemPrompt("unknown"); p != defaultSystemPrompt {
		t.Errorf("unknown content type should use the default prompt, got %q", p)
	}
}
