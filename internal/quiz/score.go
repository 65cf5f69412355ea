package quiz

import (
	"time"

	"github.com/pavelanni/studybuddy/internal/model"
)

// Score grades a set of selections against the presented questions.
// Unanswered questions count as incorrect. The grade is rounded half up.
func Score(questions []model.Question, selections map[int]int, budget, remaining int, topic string, now time.Time) model.QuizResult {
	correct := 0
	for i, q := range questions {
		if sel, ok := selections[i]; ok && sel == q.CorrectIndex {
			correct++
		}
	}

	return model.QuizResult{
		Topic:            topic,
		Grade:            Grade(correct, len(questions)),
		CorrectCount:     correct,
		TotalQuestions:   len(questions),
		TimeSpentSeconds: budget - remaining,
		Timestamp:        now,
	}
}

// Grade returns round-half-up(100 * correct / total), or 0 for an empty quiz.
func Grade(correct, total int) int {
	if total <= 0 {
		return 0
	}
	return (200*correct + total) / (2 * total)
}
