package out

import (
	"context"

	"quizhook/internal/modules/quiz/domain"
	quizout "quizhook/internal/modules/quiz/port/out"
	scheduledomain "quizhook/internal/modules/schedule/domain"
	scheduledto "quizhook/internal/modules/schedule/dto"
	schedulein "quizhook/internal/modules/schedule/port/in"
	"quizhook/internal/platform/timefmt"
)

// ScheduleLedgerAdapter hands finished quizzes to the schedule module, which
// stores the result document, completes the quiz and merges topic scores.
type ScheduleLedgerAdapter struct {
	schedule schedulein.Usecase
}

func NewScheduleLedgerAdapter(schedule schedulein.Usecase) quizout.Ledger {
	return &ScheduleLedgerAdapter{schedule: schedule}
}

func (a *ScheduleLedgerAdapter) Due(ctx context.Context) ([]domain.DueQuiz, error) {
	check, err := a.schedule.Check(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]domain.DueQuiz, 0, len(check.Due))
	for _, q := range check.Due {
		out = append(out, domain.DueQuiz{SessionID: q.SessionID, Type: q.Type, ScheduledFor: q.ScheduledFor})
	}
	return out, nil
}

func (a *ScheduleLedgerAdapter) Record(ctx context.Context, result domain.Result) (domain.Receipt, error) {
	recorded, err := a.schedule.Record(ctx, scheduledto.RecordInput{
		SessionID: result.SessionID,
		Result:    toScheduleResult(result),
	})
	if err != nil {
		return domain.Receipt{}, err
	}
	return domain.Receipt{
		ResultPath:     recorded.ResultPath,
		RemovedPending: recorded.Complete.RemovedPending,
		Merged:         recorded.Complete.Merged,
	}, nil
}

func toScheduleResult(result domain.Result) scheduledomain.QuizResult {
	out := scheduledomain.QuizResult{
		ResultID:    result.ResultID,
		SessionID:   result.SessionID,
		CompletedAt: timefmt.Format(result.CompletedAt),
		Summary: scheduledomain.ResultSummary{
			Total:        result.Summary.Total,
			Correct:      result.Summary.Correct,
			Partial:      result.Summary.Partial,
			Wrong:        result.Summary.Wrong,
			Skipped:      result.Summary.Skipped,
			ScorePercent: result.Summary.ScorePercent,
		},
		ByType:      make(map[string]scheduledomain.TopicScore, len(result.ByType)),
		SkipReasons: result.SkipReasons,
		Questions:   make([]scheduledomain.QuestionOutcome, 0, len(result.Questions)),
	}
	for kind, score := range result.ByType {
		out.ByType[kind] = scheduledomain.TopicScore{Correct: score.Correct, Total: score.Total}
	}
	for _, q := range result.Questions {
		out.Questions = append(out.Questions, scheduledomain.QuestionOutcome{
			Type:        q.Type,
			Tags:        q.Tags,
			Correct:     q.Correct,
			Partial:     q.Partial,
			Skipped:     q.Skipped,
			TimeSeconds: q.TimeSeconds,
			SkipReason:  q.SkipReason,
			SkipNote:    q.SkipNote,
			Reflection:  q.Reflection,
		})
	}
	return out
}
