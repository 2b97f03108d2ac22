package domain

import (
	"encoding/json"
	"fmt"
	"slices"
	"sort"
	"time"

	apperrors "quizhook/internal/platform/errors"
)

// ProjectState is the durable per-project ledger. It is a plain value: the
// store loads it at the start of an invocation and saves it after each
// mutation.
type ProjectState struct {
	Project          string
	Sessions         []string
	PendingQuizzes   []QuizSchedule
	CompletedQuizzes []CompletedQuiz
	TopicScores      map[string]TopicScore
	// MergedResults holds the identities of results already folded into
	// TopicScores.
	MergedResults []string
	// Extra carries top-level document keys this tool does not own.
	Extra map[string]json.RawMessage
}

// CompletedQuiz is a permanent history entry. Result is kept as the raw JSON
// object it was written with so records from other writers survive a rewrite.
type CompletedQuiz struct {
	SessionID   string
	CompletedAt time.Time
	Result      json.RawMessage
}

// Outcome decodes Result as a CompletionResult. It reports false when the
// record carries no result or one of a different shape.
func (c CompletedQuiz) Outcome() (CompletionResult, bool) {
	out := CompletionResult{}
	if len(c.Result) == 0 || string(c.Result) == "null" {
		return out, false
	}
	if err := json.Unmarshal(c.Result, &out); err != nil {
		return CompletionResult{}, false
	}
	return out, true
}

// CompletionResult is the short outcome attached to a completion record.
type CompletionResult struct {
	Score    float64 `json:"score"`
	Total    int     `json:"total"`
	Correct  int     `json:"correct"`
	ResultID string  `json:"result_id,omitempty"`
}

func NewProjectState(project string) ProjectState {
	return ProjectState{
		Project:          project,
		Sessions:         []string{},
		PendingQuizzes:   []QuizSchedule{},
		CompletedQuizzes: []CompletedQuiz{},
		TopicScores:      map[string]TopicScore{},
		MergedResults:    []string{},
	}
}

// Normalize replaces nil collections so a decoded state behaves like a fresh
// one.
func (s *ProjectState) Normalize() {
	if s.Sessions == nil {
		s.Sessions = []string{}
	}
	if s.PendingQuizzes == nil {
		s.PendingQuizzes = []QuizSchedule{}
	}
	if s.CompletedQuizzes == nil {
		s.CompletedQuizzes = []CompletedQuiz{}
	}
	if s.TopicScores == nil {
		s.TopicScores = map[string]TopicScore{}
	}
	if s.MergedResults == nil {
		s.MergedResults = []string{}
	}
}

// DueQuizzes returns pending quizzes scheduled at or before now, in insertion
// order.
func (s ProjectState) DueQuizzes(now time.Time) []QuizSchedule {
	due := []QuizSchedule{}
	for _, q := range s.PendingQuizzes {
		if q.IsDue(now) {
			due = append(due, q)
		}
	}
	return due
}

// NextScheduled returns the pending quiz with the earliest delivery time.
func (s ProjectState) NextScheduled() (QuizSchedule, bool) {
	if len(s.PendingQuizzes) == 0 {
		return QuizSchedule{}, false
	}
	ordered := slices.Clone(s.PendingQuizzes)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].ScheduledFor.Before(ordered[j].ScheduledFor)
	})
	return ordered[0], true
}

func (s ProjectState) IsPending(sessionID string) bool {
	return slices.ContainsFunc(s.PendingQuizzes, func(q QuizSchedule) bool { return q.SessionID == sessionID })
}

// AddPendingQuiz appends a schedule record. When requireUnique is set a second
// pending record for the same session is rejected.
func (s *ProjectState) AddPendingQuiz(schedule QuizSchedule, requireUnique bool) error {
	if err := schedule.ScheduleType.Validate(); err != nil {
		return err
	}
	if schedule.SessionID == "" {
		return fmt.Errorf("%w: session id is required", apperrors.ErrInvalidInput)
	}
	if requireUnique && s.IsPending(schedule.SessionID) {
		return fmt.Errorf("%w: %s", apperrors.ErrDuplicatePending, schedule.SessionID)
	}
	s.PendingQuizzes = append(s.PendingQuizzes, schedule)
	if !slices.Contains(s.Sessions, schedule.SessionID) {
		s.Sessions = append(s.Sessions, schedule.SessionID)
	}
	return nil
}

// MarkQuizCompleted moves a session from pending to completed. Every pending
// record for the session is removed; a completion record is appended even if
// none was pending. It returns the number of pending records removed.
func (s *ProjectState) MarkQuizCompleted(sessionID string, result CompletionResult, now time.Time) int {
	kept := make([]QuizSchedule, 0, len(s.PendingQuizzes))
	for _, q := range s.PendingQuizzes {
		if q.SessionID != sessionID {
			kept = append(kept, q)
		}
	}
	removed := len(s.PendingQuizzes) - len(kept)
	s.PendingQuizzes = kept
	// A struct of scalars always encodes.
	raw, _ := json.Marshal(result)
	s.CompletedQuizzes = append(s.CompletedQuizzes, CompletedQuiz{
		SessionID:   sessionID,
		CompletedAt: now,
		Result:      raw,
	})
	return removed
}

func (s ProjectState) CompletionCount(sessionID string) int {
	n := 0
	for _, c := range s.CompletedQuizzes {
		if c.SessionID == sessionID {
			n++
		}
	}
	return n
}
