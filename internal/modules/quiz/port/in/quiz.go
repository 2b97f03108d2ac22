package in

import (
	"context"

	"quizhook/internal/modules/quiz/dto"
)

type Usecase interface {
	Prepare(ctx context.Context, input dto.PrepareInput) (dto.PrepareOutput, error)
	Finish(ctx context.Context, input dto.FinishInput) (dto.FinishOutput, error)
}
