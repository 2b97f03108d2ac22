package out

import (
	"context"

	"quizhook/internal/modules/schedule/domain"
)

// StateStore persists the project ledger. Load never fails on a missing or
// corrupt document; it returns a fresh state instead.
type StateStore interface {
	Load(ctx context.Context) (domain.ProjectState, error)
	Save(ctx context.Context, state domain.ProjectState) error
}

type SummaryReader interface {
	Load(ctx context.Context, path string) (domain.SessionSummary, error)
}

type ResultStore interface {
	Load(ctx context.Context, path string) (domain.QuizResult, error)
	List(ctx context.Context) ([]domain.QuizResult, error)
	Save(ctx context.Context, result domain.QuizResult) (string, error)
}

// ScoreProjector mirrors topic scores into a queryable index.
type ScoreProjector interface {
	ReplaceScores(ctx context.Context, project string, scores map[string]domain.TopicScore) error
	Weakest(ctx context.Context, project string, limit int) ([]domain.RankedTopic, error)
}
