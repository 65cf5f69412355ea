package model

import "time"

// HistoryExport is the JSON structure returned for a session's quiz history.
type HistoryExport struct {
	SessionID  string       `json:"session_id"`
	ExportedAt time.Time    `json:"exported_at"`
	Count      int          `json:"count"`
	Results    []QuizResult `json:"results"`
}

// TeacherQuizExport is the JSON structure returned for a generated teacher quiz.
type TeacherQuizExport struct {
	Title     string     `json:"title"`
	Subject   string     `json:"subject"`
	Section   string     `json:"section"`
	Requested int        `json:"requested"`
	Questions []Question `json:"questions"`
}

// GenerationLogExport is the JSON structure returned for the generation log.
type GenerationLogExport struct {
	ExportedAt   time.Time          `json:"exported_at"`
	Total        int                `json:"total"`
	Succeeded    int                `json:"succeeded"`
	Failed       int                `json:"failed"`
	AvgLatencyMs int64              `json:"avg_latency_ms"`
	Records      []GenerationRecord `json:"records"`
}
