package store

import (
	"context"
	"fmt"
	"time"

	"github.com/pavelanni/studybuddy/internal/model"
)

// ExportGenerations builds a summary of the generation log plus its most
// recent records.
func (s *Store) ExportGenerations(ctx context.Context, limit int) (model.GenerationLogExport, error) {
	out := model.GenerationLogExport{ExportedAt: time.Now().UTC()}

	var avg *float64
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*), COALESCE(SUM(success), 0), AVG(latency_ms) FROM generations`,
	).Scan(&out.Total, &out.Succeeded, &avg)
	if err != nil {
		return out, fmt.Errorf("summarize generations: %w", err)
	}
	out.Failed = out.Total - out.Succeeded
	if avg != nil {
		out.AvgLatencyMs = int64(*avg + 0.5)
	}

	out.Records, err = s.ListGenerations(ctx, limit)
	if err != nil {
		return out, fmt.Errorf("list generations: %w", err)
	}
	return out, nil
}
