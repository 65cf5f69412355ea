package i18n

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
)

func initLang(t *testing.T, lang string) context.Context {
	t.Helper()
	if err := Init(lang); err != nil {
		t.Fatalf("Init(%q): %v", lang, err)
	}
	loc := NewLocalizer(lang)
	return WithLocalizer(context.Background(), loc)
}

func TestTranslateEnglish(t *testing.T) {
	ctx := initLang(t, "en")

	if got := T(ctx, "ReportAnswerKey"); got != "Answer Key" {
		t.Errorf("T(ReportAnswerKey) = %q, want 'Answer Key'", got)
	}
	if got := T(ctx, "ErrAlreadySubmitted"); got != "This quiz has already been submitted." {
		t.Errorf("T(ErrAlreadySubmitted) = %q", got)
	}
}

func TestTranslateRussian(t *testing.T) {
	ctx := initLang(t, "ru")

	if got := T(ctx, "ReportAnswerKey"); got != "Ключ ответов" {
		t.Errorf("T(ReportAnswerKey) = %q, want 'Ключ ответов'", got)
	}
	if got := T(ctx, "ReportName"); got != "Имя" {
		t.Errorf("T(ReportName) = %q, want 'Имя'", got)
	}
}

func TestPluralTranslation(t *testing.T) {
	ctx := initLang(t, "en")

	if got := Tp(ctx, "QuestionsUnanswered", 1); got != "1 question is still unanswered." {
		t.Errorf("Tp(QuestionsUnanswered, 1) = %q", got)
	}
	if got := Tp(ctx, "QuestionsUnanswered", 3); got != "3 questions are still unanswered." {
		t.Errorf("Tp(QuestionsUnanswered, 3) = %q", got)
	}
}

func TestRussianPlurals(t *testing.T) {
	ctx := initLang(t, "ru")

	tests := []struct {
		count int
		want  string
	}{
		{1, "Создан 1 вопрос."},
		{3, "Создано 3 вопроса."},
		{5, "Создано 5 вопросов."},
		{21, "Создан 21 вопрос."},
	}
	for _, tt := range tests {
		if got := Tp(ctx, "QuestionsGenerated", tt.count); got != tt.want {
			t.Errorf("Tp(QuestionsGenerated, %d) = %q, want %q", tt.count, got, tt.want)
		}
	}
}

func TestTemplateDataTranslation(t *testing.T) {
	ctx := initLang(t, "en")

	got := Td(ctx, "ErrGenerationFailed", map[string]any{"Reason": "timeout"})
	if got != "Failed to generate quiz: timeout" {
		t.Errorf("Td(ErrGenerationFailed) = %q", got)
	}
}

func TestMissingKey(t *testing.T) {
	ctx := initLang(t, "en")

	if got := T(ctx, "NonExistentKey"); got != "NonExistentKey" {
		t.Errorf("T(NonExistentKey) = %q, want 'NonExistentKey'", got)
	}
}

func TestNegotiate(t *testing.T) {
	initLang(t, "en")

	tests := []struct {
		name  string
		prefs []string
		want  string
	}{
		{"nothing", nil, "en"},
		{"bare tag", []string{"ru"}, "ru"},
		{"regional variant", []string{"ru-RU"}, "ru"},
		{"accept-language header", []string{"", "fr-CH, ru;q=0.9, en;q=0.8"}, "ru"},
		{"unsupported", []string{"ja"}, "en"},
		{"garbage", []string{"!!"}, "en"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Negotiate(tt.prefs...); got != tt.want {
				t.Errorf("Negotiate(%q) = %q, want %q", tt.prefs, got, tt.want)
			}
		})
	}

	if got := Supported(); len(got) != 2 || got[0] != "en" {
		t.Errorf("Supported() = %v", got)
	}
}

func TestMiddleware(t *testing.T) {
	initLang(t, "en")

	var got string
	h := Middleware("en")(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = T(r.Context(), "ReportDate")
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Accept-Language", "ru")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if got != "Дата" {
		t.Errorf("Accept-Language ru: got %q", got)
	}
	if rec.Header().Get("Content-Language") != "ru" {
		t.Errorf("Content-Language = %q", rec.Header().Get("Content-Language"))
	}

	req = httptest.NewRequest(http.MethodGet, "/?lang=en", nil)
	req.Header.Set("Accept-Language", "ru")
	h.ServeHTTP(httptest.NewRecorder(), req)
	if got != "Date" {
		t.Errorf("lang=en query: got %q", got)
	}
}

func TestLanguageFromContext(t *testing.T) {
	initLang(t, "en")

	if got := Language(context.Background()); got != "en" {
		t.Errorf("Language without middleware = %q, want en", got)
	}

	var got string
	h := Middleware("en")(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = Language(r.Context())
	}))
	req := httptest.NewRequest(http.MethodGet, "/?lang=ru-RU", nil)
	h.ServeHTTP(httptest.NewRecorder(), req)
	if got != "ru" {
		t.Errorf("Language after negotiation = %q, want ru", got)
	}
}
