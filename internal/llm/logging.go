package llm

import (
	"context"
	"log/slog"
	"time"

	"github.com/pavelanni/studybuddy/internal/model"
)

// Recorder persists one record per gateway call.
type Recorder interface {
	RecordGeneration(ctx context.Context, rec model.GenerationRecord) error
}

// LoggingGateway is a decorator that records every request.
type LoggingGateway struct {
	inner    Gateway
	recorder Recorder
	now      func() time.Time
}

// WithLogging wraps a Gateway with generation logging.
func WithLogging(g Gateway, r Recorder) Gateway {
	return &LoggingGateway{inner: g, recorder: r, now: time.Now}
}

func (l *LoggingGateway) Generate(ctx context.Context, prompt string, ct model.ContentType) (string, error) {
	start := l.now()
	text, err := l.inner.Generate(ctx, prompt, ct)

	rec := model.GenerationRecord{
		ContentType:   ct,
		Model:         l.inner.ModelID(),
		LatencyMs:     l.now().Sub(start).Milliseconds(),
		Success:       err == nil,
		PromptChars:   len(prompt),
		ResponseChars: len(text),
		CreatedAt:     start,
	}
	if err != nil {
		rec.ErrorMessage = err.Error()
		slog.Warn("generation failed", "content_type", ct, "model", rec.Model, "error", err)
	}

	// A failed write must not fail the request.
	if logErr := l.recorder.RecordGeneration(ctx, rec); logErr != nil {
		slog.Error("failed to record generation", "error", logErr)
	}

	return text, err
}

func (l *LoggingGateway) ModelID() string {
	return l.inner.ModelID()
}
