package in

import (
	"context"

	"quizhook/internal/modules/schedule/domain"
	"quizhook/internal/modules/schedule/dto"
)

type Usecase interface {
	Check(ctx context.Context) (dto.CheckOutput, error)
	Add(ctx context.Context, input dto.AddInput) (dto.QuizOutput, error)
	SessionEnd(ctx context.Context, input dto.SessionEndInput) (dto.SessionEndOutput, error)
	List(ctx context.Context) ([]dto.QuizOutput, error)
	Status(ctx context.Context) (dto.StatusOutput, error)
	Complete(ctx context.Context, input dto.CompleteInput) (dto.CompleteOutput, error)
	Merge(ctx context.Context, input dto.MergeInput) (dto.MergeOutput, error)
	Record(ctx context.Context, input dto.RecordInput) (dto.RecordOutput, error)
	TopicScores(ctx context.Context) ([]dto.TopicOutput, error)
	WeakestTopics(ctx context.Context, limit int) ([]dto.TopicOutput, error)
	Results(ctx context.Context) ([]domain.QuizResult, error)
	Reindex(ctx context.Context) (dto.ReindexOutput, error)
}
