package out

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"maps"
	"os"

	"quizhook/internal/modules/schedule/domain"
	scheduleout "quizhook/internal/modules/schedule/port/out"
	"quizhook/internal/platform/atomicfile"
	"quizhook/internal/platform/clock"
	"quizhook/internal/platform/timefmt"
)

type stateFile struct {
	Project          string                       `json:"project"`
	Sessions         []string                     `json:"sessions"`
	PendingQuizzes   []scheduleFile               `json:"pending_quizzes"`
	CompletedQuizzes []completedFile              `json:"completed_quizzes"`
	TopicScores      map[string]domain.TopicScore `json:"topic_scores"`
	MergedResults    []string                     `json:"merged_results,omitempty"`
}

type scheduleFile struct {
	SessionID    string `json:"session_id"`
	Type         string `json:"type"`
	ScheduledFor string `json:"scheduled_for"`
	SummaryPath  string `json:"summary_path"`
	CreatedAt    string `json:"created_at,omitempty"`
}

type completedFile struct {
	SessionID   string          `json:"session_id"`
	CompletedAt string          `json:"completed_at"`
	Result      json.RawMessage `json:"result,omitempty"`
}

var stateKeys = []string{"project", "sessions", "pending_quizzes", "completed_quizzes", "topic_scores", "merged_results"}

// FileStateStore keeps one JSON document per project and replaces it
// atomically on every save.
type FileStateStore struct {
	path    string
	project string
	clock   clock.Clock
}

func NewFileStateStore(path, project string, clk clock.Clock) scheduleout.StateStore {
	return &FileStateStore{path: path, project: project, clock: clk}
}

func (s *FileStateStore) Load(ctx context.Context) (domain.ProjectState, error) {
	if err := ctx.Err(); err != nil {
		return domain.ProjectState{}, err
	}
	raw, err := os.ReadFile(s.path)
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			slog.Warn("quiz state unreadable, starting fresh", "path", s.path, "error", err)
		}
		return domain.NewProjectState(s.project), nil
	}
	if len(raw) == 0 {
		return domain.NewProjectState(s.project), nil
	}
	file := stateFile{}
	if err := json.Unmarshal(raw, &file); err != nil {
		slog.Warn("quiz state corrupt, starting fresh", "path", s.path, "error", err)
		return domain.NewProjectState(s.project), nil
	}
	state, err := s.fromFile(file)
	if err != nil {
		return domain.ProjectState{}, err
	}
	extra := map[string]json.RawMessage{}
	if err := json.Unmarshal(raw, &extra); err == nil {
		for _, k := range stateKeys {
			delete(extra, k)
		}
		if len(extra) > 0 {
			state.Extra = extra
		}
	}
	return state, nil
}

func (s *FileStateStore) Save(ctx context.Context, state domain.ProjectState) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	file, err := toFile(state)
	if err != nil {
		return err
	}
	payload, err := encodeState(file, state.Extra)
	if err != nil {
		return fmt.Errorf("encode quiz state: %w", err)
	}
	if err := atomicfile.WriteFile(s.path, append(payload, '\n'), 0o644); err != nil {
		return fmt.Errorf("write quiz state: %w", err)
	}
	return nil
}

func (s *FileStateStore) fromFile(file stateFile) (domain.ProjectState, error) {
	state := domain.ProjectState{
		Project:       file.Project,
		Sessions:      file.Sessions,
		TopicScores:   file.TopicScores,
		MergedResults: file.MergedResults,
	}
	if state.Project == "" {
		state.Project = s.project
	}
	for _, p := range file.PendingQuizzes {
		kind, err := domain.ParseScheduleType(p.Type)
		if err != nil {
			return domain.ProjectState{}, fmt.Errorf("decode pending quiz %s: %w", p.SessionID, err)
		}
		scheduledFor, err := timefmt.Parse(p.ScheduledFor)
		if err != nil {
			return domain.ProjectState{}, fmt.Errorf("decode pending quiz %s scheduled_for: %w", p.SessionID, err)
		}
		createdAt := s.clock.Now()
		if p.CreatedAt != "" {
			if createdAt, err = timefmt.Parse(p.CreatedAt); err != nil {
				return domain.ProjectState{}, fmt.Errorf("decode pending quiz %s created_at: %w", p.SessionID, err)
			}
		}
		state.PendingQuizzes = append(state.PendingQuizzes, domain.QuizSchedule{
			SessionID:    p.SessionID,
			ScheduleType: kind,
			ScheduledFor: scheduledFor,
			SummaryPath:  p.SummaryPath,
			CreatedAt:    createdAt,
		})
	}
	for _, c := range file.CompletedQuizzes {
		completedAt, err := timefmt.Parse(c.CompletedAt)
		if err != nil {
			return domain.ProjectState{}, fmt.Errorf("decode completed quiz %s: %w", c.SessionID, err)
		}
		state.CompletedQuizzes = append(state.CompletedQuizzes, domain.CompletedQuiz{
			SessionID:   c.SessionID,
			CompletedAt: completedAt,
			Result:      c.Result,
		})
	}
	state.Normalize()
	return state, nil
}

func toFile(state domain.ProjectState) (stateFile, error) {
	state.Normalize()
	file := stateFile{
		Project:          state.Project,
		Sessions:         state.Sessions,
		PendingQuizzes:   make([]scheduleFile, 0, len(state.PendingQuizzes)),
		CompletedQuizzes: make([]completedFile, 0, len(state.CompletedQuizzes)),
		TopicScores:      state.TopicScores,
		MergedResults:    state.MergedResults,
	}
	for _, q := range state.PendingQuizzes {
		kind, err := q.ScheduleType.MarshalText()
		if err != nil {
			return stateFile{}, fmt.Errorf("encode pending quiz %s: %w", q.SessionID, err)
		}
		file.PendingQuizzes = append(file.PendingQuizzes, scheduleFile{
			SessionID:    q.SessionID,
			Type:         string(kind),
			ScheduledFor: timefmt.Format(q.ScheduledFor),
			SummaryPath:  q.SummaryPath,
			CreatedAt:    timefmt.Format(q.CreatedAt),
		})
	}
	for _, c := range state.CompletedQuizzes {
		if len(c.Result) > 0 && !json.Valid(c.Result) {
			return stateFile{}, fmt.Errorf("encode completion result %s: invalid json", c.SessionID)
		}
		file.CompletedQuizzes = append(file.CompletedQuizzes, completedFile{
			SessionID:   c.SessionID,
			CompletedAt: timefmt.Format(c.CompletedAt),
			Result:      c.Result,
		})
	}
	return file, nil
}

// encodeState writes the owned fields and carries foreign top-level keys
// alongside them. Owned keys win on collision.
func encodeState(file stateFile, extra map[string]json.RawMessage) ([]byte, error) {
	if len(extra) == 0 {
		return json.MarshalIndent(file, "", "  ")
	}
	owned, err := json.Marshal(file)
	if err != nil {
		return nil, err
	}
	doc := map[string]json.RawMessage{}
	if err := json.Unmarshal(owned, &doc); err != nil {
		return nil, err
	}
	merged := maps.Clone(extra)
	maps.Copy(merged, doc)
	return json.MarshalIndent(merged, "", "  ")
}
