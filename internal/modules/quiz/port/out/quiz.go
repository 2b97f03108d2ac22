package out

import (
	"context"

	"quizhook/internal/modules/quiz/domain"
)

type QuizSource interface {
	Load(ctx context.Context, path string) (domain.Quiz, error)
	// Locate finds the quiz file generated for a session.
	Locate(ctx context.Context, sessionID string) (string, error)
	// Latest returns the most recent quiz file of any session.
	Latest(ctx context.Context) (string, error)
}

// Ledger is the scheduling side the runner reports back to.
type Ledger interface {
	Due(ctx context.Context) ([]domain.DueQuiz, error)
	Record(ctx context.Context, result domain.Result) (domain.Receipt, error)
}
