package store

import (
	"context"
	"time"

	"github.com/pavelanni/studybuddy/internal/llm"
	"github.com/pavelanni/studybuddy/internal/model"
)

var _ llm.Recorder = (*Store)(nil)

// RecordGeneration appends one gateway call to the generation log.
func (s *Store) RecordGeneration(ctx context.Context, rec model.GenerationRecord) error {
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = time.Now()
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO generations (content_type, model, latency_ms, success, error_message, prompt_chars, response_chars, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.ContentType, rec.Model, rec.LatencyMs, rec.Success, rec.ErrorMessage,
		rec.PromptChars, rec.ResponseChars, rec.CreatedAt.UTC(),
	)
	return err
}

// ListGenerations returns the most recent records, newest first.
// A non-positive limit returns every record.
func (s *Store) ListGenerations(ctx context.Context, limit int) ([]model.GenerationRecord, error) {
	if limit <= 0 {
		limit = -1
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, content_type, model, latency_ms, success, error_message, prompt_chars, response_chars, created_at
		 FROM generations ORDER BY id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.GenerationRecord
	for rows.Next() {
		var r model.GenerationRecord
		if err := rows.Scan(&r.ID, &r.ContentType, &r.Model, &r.LatencyMs, &r.Success,
			&r.ErrorMessage, &r.PromptChars, &r.ResponseChars, &r.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}
