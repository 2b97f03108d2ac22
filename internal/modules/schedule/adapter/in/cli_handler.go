package in

import (
	"context"

	"quizhook/internal/modules/schedule/dto"
	schedulein "quizhook/internal/modules/schedule/port/in"
)

type CLIHandler struct {
	usecase schedulein.Usecase
}

func NewCLIHandler(usecase schedulein.Usecase) CLIHandler {
	return CLIHandler{usecase: usecase}
}

func (h CLIHandler) Check(ctx context.Context) (dto.CheckOutput, error) {
	return h.usecase.Check(ctx)
}

func (h CLIHandler) Add(ctx context.Context, sessionID, scheduleType, summaryPath string) (dto.QuizOutput, error) {
	return h.usecase.Add(ctx, dto.AddInput{SessionID: sessionID, Type: scheduleType, SummaryPath: summaryPath})
}

func (h CLIHandler) SessionEnd(ctx context.Context, summaryPath string) (dto.SessionEndOutput, error) {
	return h.usecase.SessionEnd(ctx, dto.SessionEndInput{SummaryPath: summaryPath})
}

func (h CLIHandler) List(ctx context.Context) ([]dto.QuizOutput, error) {
	return h.usecase.List(ctx)
}

func (h CLIHandler) Status(ctx context.Context) (dto.StatusOutput, error) {
	return h.usecase.Status(ctx)
}

func (h CLIHandler) Complete(ctx context.Context, sessionID, resultPath string) (dto.CompleteOutput, error) {
	return h.usecase.Complete(ctx, dto.CompleteInput{SessionID: sessionID, ResultPath: resultPath})
}

func (h CLIHandler) Merge(ctx context.Context, resultPath string) (dto.MergeOutput, error) {
	return h.usecase.Merge(ctx, dto.MergeInput{ResultPath: resultPath})
}

func (h CLIHandler) Scores(ctx context.Context) ([]dto.TopicOutput, error) {
	return h.usecase.TopicScores(ctx)
}

func (h CLIHandler) Weakest(ctx context.Context, limit int) ([]dto.TopicOutput, error) {
	return h.usecase.WeakestTopics(ctx, limit)
}

func (h CLIHandler) Reindex(ctx context.Context) (dto.ReindexOutput, error) {
	return h.usecase.Reindex(ctx)
}
