package domain

import "encoding/json"

// SessionSummary is the extraction collaborator's output for one session.
// List entries are opaque; only their counts drive scheduling.
type SessionSummary struct {
	SessionID              string            `json:"session_id"`
	GeneratedAt            string            `json:"generated_at,omitempty"`
	DurationMinutes        float64           `json:"duration_minutes"`
	Stats                  SummaryStats      `json:"stats"`
	ArchitecturalDecisions []json.RawMessage `json:"architectural_decisions"`
	DebuggingSteps         []json.RawMessage `json:"debugging_steps"`
	FailureModes           []json.RawMessage `json:"failure_modes"`
	Explanations           []json.RawMessage `json:"explanations"`
	QuizScheduled          *SuggestedQuiz    `json:"quiz_scheduled,omitempty"`
}

type SummaryStats struct {
	TotalActivities int `json:"total_activities"`
	FileWrites      int `json:"file_writes,omitempty"`
	FileEdits       int `json:"file_edits,omitempty"`
	Commands        int `json:"commands,omitempty"`
}

type SuggestedQuiz struct {
	Type         string `json:"type"`
	ScheduledFor string `json:"scheduled_for,omitempty"`
}

const substantialSessionMinutes = 30

// ShouldScheduleQuiz is the eligibility gate callers apply before creating a
// schedule record.
func ShouldScheduleQuiz(summary SessionSummary, settings Settings) bool {
	if summary.DurationMinutes < float64(settings.MinSessionMinutes) {
		return false
	}
	if summary.Stats.TotalActivities < settings.MinActivities {
		return false
	}
	return true
}

// HasSubstantialContent reports whether the session produced enough material
// for a same-day consolidation quiz.
func (s SessionSummary) HasSubstantialContent() bool {
	return len(s.ArchitecturalDecisions) >= 2 ||
		len(s.DebuggingSteps) >= 3 ||
		len(s.FailureModes) >= 2
}

// Cadence picks the schedule type for a finished session: the summary's own
// suggestion when present, otherwise same-day for long substantial sessions
// and next-day for everything else.
func (s SessionSummary) Cadence() (ScheduleType, error) {
	if s.QuizScheduled != nil && s.QuizScheduled.Type != "" {
		return ParseScheduleType(s.QuizScheduled.Type)
	}
	if s.DurationMinutes >= substantialSessionMinutes && s.HasSubstantialContent() {
		return SameDay, nil
	}
	return NextDay, nil
}
