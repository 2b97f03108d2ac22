package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"quizhook/internal/modules/quiz/domain"
	"quizhook/internal/modules/quiz/dto"
	quizin "quizhook/internal/modules/quiz/port/in"
	quizout "quizhook/internal/modules/quiz/port/out"
	"quizhook/internal/modules/quiz/service"
	apperrors "quizhook/internal/platform/errors"
)

type Interactor struct {
	svc     *service.QuizService
	quizzes quizout.QuizSource
	ledger  quizout.Ledger
}

func NewInteractor(svc *service.QuizService, quizzes quizout.QuizSource, ledger quizout.Ledger) quizin.Usecase {
	return &Interactor{svc: svc, quizzes: quizzes, ledger: ledger}
}

// Prepare picks the quiz to run: the given file, the first due quiz, or the
// newest generated quiz when nothing is due.
func (i *Interactor) Prepare(ctx context.Context, input dto.PrepareInput) (dto.PrepareOutput, error) {
	out := dto.PrepareOutput{
		QuizPath:  strings.TrimSpace(input.QuizPath),
		SessionID: strings.TrimSpace(input.SessionID),
	}
	if out.QuizPath == "" {
		due, err := i.ledger.Due(ctx)
		if err != nil {
			return dto.PrepareOutput{}, err
		}
		if len(due) == 0 {
			return i.prepareLatest(ctx, out.SessionID)
		}
		out.SessionID = due[0].SessionID
		out.Type = due[0].Type
		out.QuizPath, err = i.quizzes.Locate(ctx, out.SessionID)
		if err != nil {
			if errors.Is(err, apperrors.ErrNotFound) {
				return dto.PrepareOutput{}, fmt.Errorf("%w: no quiz file generated for session %s", apperrors.ErrNoQuizAvailable, out.SessionID)
			}
			return dto.PrepareOutput{}, err
		}
	} else if out.SessionID == "" {
		out.SessionID = domain.SessionFromQuizPath(out.QuizPath)
	}

	return i.load(ctx, out)
}

func (i *Interactor) prepareLatest(ctx context.Context, sessionID string) (dto.PrepareOutput, error) {
	path, err := i.quizzes.Latest(ctx)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return dto.PrepareOutput{}, fmt.Errorf("%w: no quiz is due and none was generated", apperrors.ErrNoQuizAvailable)
		}
		return dto.PrepareOutput{}, err
	}
	if sessionID == "" {
		sessionID = domain.SessionFromQuizPath(path)
	}
	slog.Info("no quiz due, running latest quiz", "path", path, "session_id", sessionID)
	return i.load(ctx, dto.PrepareOutput{SessionID: sessionID, QuizPath: path})
}

func (i *Interactor) load(ctx context.Context, out dto.PrepareOutput) (dto.PrepareOutput, error) {
	quiz, err := i.quizzes.Load(ctx, out.QuizPath)
	if err != nil {
		return dto.PrepareOutput{}, err
	}
	if len(quiz.Questions) == 0 {
		return dto.PrepareOutput{}, fmt.Errorf("%w: %s has no questions", apperrors.ErrNoQuizAvailable, out.QuizPath)
	}
	out.Questions = quiz.Questions
	return out, nil
}

func (i *Interactor) Finish(ctx context.Context, input dto.FinishInput) (dto.FinishOutput, error) {
	if strings.TrimSpace(input.SessionID) == "" {
		return dto.FinishOutput{}, fmt.Errorf("%w: session id required", apperrors.ErrInvalidInput)
	}
	if len(input.Answers) == 0 {
		return dto.FinishOutput{}, fmt.Errorf("%w: no answers to record", apperrors.ErrInvalidInput)
	}
	result := i.svc.Build(input.SessionID, input.Answers)
	receipt, err := i.ledger.Record(ctx, result)
	if err != nil {
		return dto.FinishOutput{}, err
	}
	slog.Info("quiz finished", "session_id", input.SessionID, "score_percent", result.Summary.ScorePercent, "result", receipt.ResultPath)
	return dto.FinishOutput{
		ResultPath:     receipt.ResultPath,
		Summary:        result.Summary,
		RemovedPending: receipt.RemovedPending,
		Merged:         receipt.Merged,
	}, nil
}
