package handler

import (
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"regexp"
	"strings"

	appI18n "github.com/pavelanni/studybuddy/internal/i18n"
	"github.com/pavelanni/studybuddy/internal/quizgen"
	"github.com/pavelanni/studybuddy/internal/quizparse"
	"github.com/pavelanni/studybuddy/internal/report"
)

var unsafeFilename = regexp.MustCompile(`[^A-Za-z0-9._-]+`)

func (h *Handler) handleTeacherQuiz(w http.ResponseWriter, r *http.Request) {
	var req quizgen.TeacherRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	ctx, cancel := h.withLLMTimeout(r.Context())
	defer cancel()

	quiz, err := h.quizzes.TeacherQuiz(ctx, req)
	if err != nil {
		slog.Warn("teacher quiz generation failed", "subject", req.Subject, "section", req.Section, "error", err)
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, quiz)
}

// handleTeacherQuizPDF prints a quiz the teacher already accepted. The body
// is the document returned by handleTeacherQuiz; it is re-validated here
// and never sent back to the completion service.
func (h *Handler) handleTeacherQuizPDF(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		writeMessage(w, http.StatusBadRequest, appI18n.T(r.Context(), "ErrBadRequestBody"))
		return
	}
	acc, err := quizparse.ParseAccepted(body)
	if err != nil {
		slog.Warn("rejected quiz for printing", "error", err)
		writeMessage(w, http.StatusBadRequest, appI18n.Td(r.Context(), "ErrInvalidQuestionSet", map[string]any{"Reason": err.Error()}))
		return
	}

	data, err := report.Export(acc.Set, acc.Title, report.LocalizedLabels(r.Context()))
	if err != nil {
		writeError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, pdfFilename(acc.Title)))
	if _, err := w.Write(data); err != nil {
		slog.Error("write pdf", "error", err)
	}
}

func pdfFilename(title string) string {
	name := strings.Trim(unsafeFilename.ReplaceAllString(strings.ToLower(title), "-"), "-.")
	if name == "" {
		name = "quiz"
	}
	return name + ".pdf"
}
