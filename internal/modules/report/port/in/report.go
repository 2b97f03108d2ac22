package in

import (
	"context"

	"quizhook/internal/modules/report/dto"
)

type Usecase interface {
	Report(ctx context.Context, input dto.ReportInput) (dto.ReportOutput, error)
	Stats(ctx context.Context) (dto.StatsOutput, error)
}
