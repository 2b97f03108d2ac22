package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"quizhook/internal/modules/schedule/domain"
	"quizhook/internal/modules/schedule/dto"
	schedulein "quizhook/internal/modules/schedule/port/in"
	scheduleout "quizhook/internal/modules/schedule/port/out"
	"quizhook/internal/modules/schedule/service"
	apperrors "quizhook/internal/platform/errors"
	"quizhook/internal/platform/timefmt"
	"quizhook/internal/platform/tx"
)

// Policy selects the hardening applied on top of the plain ledger
// transitions.
type Policy struct {
	RejectDuplicatePending bool
	IdempotentMerge        bool
}

type Interactor struct {
	svc       *service.SchedulerService
	store     scheduleout.StateStore
	tx        tx.Manager
	summaries scheduleout.SummaryReader
	results   scheduleout.ResultStore
	projector scheduleout.ScoreProjector
	policy    Policy
}

func NewInteractor(
	svc *service.SchedulerService,
	store scheduleout.StateStore,
	txm tx.Manager,
	summaries scheduleout.SummaryReader,
	results scheduleout.ResultStore,
	projector scheduleout.ScoreProjector,
	policy Policy,
) schedulein.Usecase {
	if txm == nil {
		txm = tx.NoopManager{}
	}
	return &Interactor{
		svc:       svc,
		store:     store,
		tx:        txm,
		summaries: summaries,
		results:   results,
		projector: projector,
		policy:    policy,
	}
}

func (i *Interactor) Check(ctx context.Context) (dto.CheckOutput, error) {
	state, err := i.store.Load(ctx)
	if err != nil {
		return dto.CheckOutput{}, err
	}
	return dto.CheckOutput{Project: state.Project, Due: toOutputs(i.svc.Due(state))}, nil
}

func (i *Interactor) Add(ctx context.Context, input dto.AddInput) (dto.QuizOutput, error) {
	var missing []string
	if strings.TrimSpace(input.SessionID) == "" {
		missing = append(missing, "--session-id")
	}
	if strings.TrimSpace(input.Type) == "" {
		missing = append(missing, "--type")
	}
	if strings.TrimSpace(input.SummaryPath) == "" {
		missing = append(missing, "--summary")
	}
	if len(missing) > 0 {
		return dto.QuizOutput{}, fmt.Errorf("%w: %s required", apperrors.ErrInvalidInput, strings.Join(missing, ", "))
	}
	kind, err := domain.ParseScheduleType(input.Type)
	if err != nil {
		return dto.QuizOutput{}, err
	}
	schedule, err := i.svc.Plan(ctx, input.SessionID, kind, input.SummaryPath)
	if err != nil {
		return dto.QuizOutput{}, err
	}
	if err := i.addPending(ctx, schedule); err != nil {
		return dto.QuizOutput{}, err
	}
	return toOutput(schedule), nil
}

func (i *Interactor) SessionEnd(ctx context.Context, input dto.SessionEndInput) (dto.SessionEndOutput, error) {
	if strings.TrimSpace(input.SummaryPath) == "" {
		return dto.SessionEndOutput{}, fmt.Errorf("%w: --summary required", apperrors.ErrInvalidInput)
	}
	if i.summaries == nil {
		return dto.SessionEndOutput{}, fmt.Errorf("summary reader is not configured")
	}
	summary, err := i.summaries.Load(ctx, input.SummaryPath)
	if err != nil {
		return dto.SessionEndOutput{}, err
	}
	if strings.TrimSpace(summary.SessionID) == "" {
		return dto.SessionEndOutput{}, fmt.Errorf("%w: summary has no session id", apperrors.ErrInvalidInput)
	}
	if !i.svc.Eligible(summary) {
		settings := i.svc.Settings()
		return dto.SessionEndOutput{
			Reason: fmt.Sprintf("session below thresholds (%.0f min, %d activities; need %d min, %d activities)",
				summary.DurationMinutes, summary.Stats.TotalActivities, settings.MinSessionMinutes, settings.MinActivities),
		}, nil
	}
	kind, err := summary.Cadence()
	if err != nil {
		return dto.SessionEndOutput{}, err
	}
	schedule, err := i.svc.Plan(ctx, summary.SessionID, kind, input.SummaryPath)
	if err != nil {
		return dto.SessionEndOutput{}, err
	}
	if err := i.addPending(ctx, schedule); err != nil {
		if errors.Is(err, apperrors.ErrDuplicatePending) {
			return dto.SessionEndOutput{Reason: "quiz already pending for session " + summary.SessionID}, nil
		}
		return dto.SessionEndOutput{}, err
	}
	return dto.SessionEndOutput{Scheduled: true, Quiz: toOutput(schedule)}, nil
}

func (i *Interactor) addPending(ctx context.Context, schedule domain.QuizSchedule) error {
	return i.tx.Within(ctx, func(ctx context.Context) error {
		state, err := i.store.Load(ctx)
		if err != nil {
			return err
		}
		if err := state.AddPendingQuiz(schedule, i.policy.RejectDuplicatePending); err != nil {
			return err
		}
		if err := i.store.Save(ctx, state); err != nil {
			return err
		}
		slog.Info("quiz scheduled", "session_id", schedule.SessionID, "type", schedule.ScheduleType.String(), "scheduled_for", timefmt.Format(schedule.ScheduledFor))
		return nil
	})
}

func (i *Interactor) List(ctx context.Context) ([]dto.QuizOutput, error) {
	state, err := i.store.Load(ctx)
	if err != nil {
		return nil, err
	}
	return toOutputs(state.PendingQuizzes), nil
}

func (i *Interactor) Status(ctx context.Context) (dto.StatusOutput, error) {
	state, err := i.store.Load(ctx)
	if err != nil {
		return dto.StatusOutput{}, err
	}
	out := dto.StatusOutput{
		Project:   state.Project,
		Due:       toOutputs(i.svc.Due(state)),
		Pending:   len(state.PendingQuizzes),
		Completed: len(state.CompletedQuizzes),
	}
	if next, ok := state.NextScheduled(); ok {
		q := toOutput(next)
		out.Next = &q
	}
	return out, nil
}

func (i *Interactor) Complete(ctx context.Context, input dto.CompleteInput) (dto.CompleteOutput, error) {
	if strings.TrimSpace(input.SessionID) == "" {
		return dto.CompleteOutput{}, fmt.Errorf("%w: --session-id required", apperrors.ErrInvalidInput)
	}
	var result *domain.QuizResult
	if strings.TrimSpace(input.ResultPath) != "" {
		loaded, err := i.loadResult(ctx, input.ResultPath)
		if err != nil {
			return dto.CompleteOutput{}, err
		}
		result = &loaded
	}
	return i.complete(ctx, input.SessionID, result)
}

func (i *Interactor) Record(ctx context.Context, input dto.RecordInput) (dto.RecordOutput, error) {
	if strings.TrimSpace(input.SessionID) == "" {
		return dto.RecordOutput{}, fmt.Errorf("%w: session id required", apperrors.ErrInvalidInput)
	}
	if i.results == nil {
		return dto.RecordOutput{}, fmt.Errorf("result store is not configured")
	}
	result := input.Result
	if result.SessionID == "" {
		result.SessionID = input.SessionID
	}
	if result.CompletedAt == "" {
		result.CompletedAt = timefmt.Format(i.svc.Now())
	}
	path, err := i.results.Save(ctx, result)
	if err != nil {
		return dto.RecordOutput{}, err
	}
	complete, err := i.complete(ctx, input.SessionID, &result)
	if err != nil {
		return dto.RecordOutput{}, err
	}
	return dto.RecordOutput{ResultPath: path, Complete: complete}, nil
}

func (i *Interactor) complete(ctx context.Context, sessionID string, result *domain.QuizResult) (dto.CompleteOutput, error) {
	out := dto.CompleteOutput{SessionID: sessionID}
	var saved domain.ProjectState
	err := i.tx.Within(ctx, func(ctx context.Context) error {
		state, err := i.store.Load(ctx)
		if err != nil {
			return err
		}
		completion := domain.CompletionResult{}
		if result != nil {
			completion = result.Completion()
		}
		out.RemovedPending = state.MarkQuizCompleted(sessionID, completion, i.svc.Now())
		if out.RemovedPending == 0 {
			slog.Warn("completing a session that had no pending quiz", "session_id", sessionID)
		}
		if result != nil {
			out.ResultID = result.Identity()
			out.Merged = domain.MergeResultIntoState(&state, *result, i.policy.IdempotentMerge)
		}
		if err := i.store.Save(ctx, state); err != nil {
			return err
		}
		saved = state
		return nil
	})
	if err != nil {
		return dto.CompleteOutput{}, err
	}
	if out.Merged {
		i.project(ctx, saved)
	}
	return out, nil
}

func (i *Interactor) Merge(ctx context.Context, input dto.MergeInput) (dto.MergeOutput, error) {
	if strings.TrimSpace(input.ResultPath) == "" {
		return dto.MergeOutput{}, fmt.Errorf("%w: --result required", apperrors.ErrInvalidInput)
	}
	result, err := i.loadResult(ctx, input.ResultPath)
	if err != nil {
		return dto.MergeOutput{}, err
	}
	out := dto.MergeOutput{ResultID: result.Identity()}
	var saved domain.ProjectState
	err = i.tx.Within(ctx, func(ctx context.Context) error {
		state, err := i.store.Load(ctx)
		if err != nil {
			return err
		}
		out.Merged = domain.MergeResultIntoState(&state, result, i.policy.IdempotentMerge)
		if !out.Merged {
			return nil
		}
		if err := i.store.Save(ctx, state); err != nil {
			return err
		}
		saved = state
		return nil
	})
	if err != nil {
		return dto.MergeOutput{}, err
	}
	if out.Merged {
		out.Topics = len(saved.TopicScores)
		i.project(ctx, saved)
	} else {
		slog.Info("result already merged", "result_id", out.ResultID)
	}
	return out, nil
}

func (i *Interactor) TopicScores(ctx context.Context) ([]dto.TopicOutput, error) {
	state, err := i.store.Load(ctx)
	if err != nil {
		return nil, err
	}
	return toTopicOutputs(domain.RankTopics(state.TopicScores)), nil
}

// WeakestTopics reads the lowest scoring topics from the score index, falling
// back to the ledger when the index is missing, empty or unreadable.
func (i *Interactor) WeakestTopics(ctx context.Context, limit int) ([]dto.TopicOutput, error) {
	if limit <= 0 {
		return nil, fmt.Errorf("%w: limit must be positive", apperrors.ErrInvalidInput)
	}
	state, err := i.store.Load(ctx)
	if err != nil {
		return nil, err
	}
	if i.projector != nil {
		rows, err := i.projector.Weakest(ctx, state.Project, limit)
		if err != nil {
			slog.Warn("read score projection, using quiz state", "error", err)
		} else if len(rows) > 0 {
			return toTopicOutputs(rows), nil
		}
	}
	ranked := domain.RankTopics(state.TopicScores)
	if len(ranked) > limit {
		ranked = ranked[:limit]
	}
	return toTopicOutputs(ranked), nil
}

func toTopicOutputs(ranked []domain.RankedTopic) []dto.TopicOutput {
	out := make([]dto.TopicOutput, 0, len(ranked))
	for _, r := range ranked {
		out = append(out, dto.TopicOutput{Topic: r.Topic, Correct: r.Score.Correct, Total: r.Score.Total, Percent: r.Score.Percent()})
	}
	return out
}

func (i *Interactor) Results(ctx context.Context) ([]domain.QuizResult, error) {
	if i.results == nil {
		return []domain.QuizResult{}, nil
	}
	return i.results.List(ctx)
}

func (i *Interactor) Reindex(ctx context.Context) (dto.ReindexOutput, error) {
	if i.projector == nil {
		return dto.ReindexOutput{}, fmt.Errorf("score projector is not configured")
	}
	state, err := i.store.Load(ctx)
	if err != nil {
		return dto.ReindexOutput{}, err
	}
	if err := i.projector.ReplaceScores(ctx, state.Project, state.TopicScores); err != nil {
		return dto.ReindexOutput{}, err
	}
	return dto.ReindexOutput{Topics: len(state.TopicScores)}, nil
}

func (i *Interactor) loadResult(ctx context.Context, path string) (domain.QuizResult, error) {
	if i.results == nil {
		return domain.QuizResult{}, fmt.Errorf("result store is not configured")
	}
	return i.results.Load(ctx, path)
}

// project refreshes the score index; the JSON ledger stays authoritative, so
// failures are only logged.
func (i *Interactor) project(ctx context.Context, state domain.ProjectState) {
	if i.projector == nil {
		return
	}
	if err := i.projector.ReplaceScores(ctx, state.Project, state.TopicScores); err != nil {
		slog.Warn("refresh score projection", "error", err)
	}
}

func toOutput(q domain.QuizSchedule) dto.QuizOutput {
	return dto.QuizOutput{
		SessionID:    q.SessionID,
		Type:         q.ScheduleType.String(),
		ScheduledFor: q.ScheduledFor,
		SummaryPath:  q.SummaryPath,
		CreatedAt:    q.CreatedAt,
	}
}

func toOutputs(qs []domain.QuizSchedule) []dto.QuizOutput {
	out := make([]dto.QuizOutput, 0, len(qs))
	for _, q := range qs {
		out = append(out, toOutput(q))
	}
	return out
}
