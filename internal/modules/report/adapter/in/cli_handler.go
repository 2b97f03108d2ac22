package in

import (
	"context"

	"quizhook/internal/modules/report/dto"
	reportin "quizhook/internal/modules/report/port/in"
)

type CLIHandler struct {
	usecase reportin.Usecase
}

func NewCLIHandler(usecase reportin.Usecase) CLIHandler {
	return CLIHandler{usecase: usecase}
}

func (h CLIHandler) Report(ctx context.Context, save bool) (dto.ReportOutput, error) {
	return h.usecase.Report(ctx, dto.ReportInput{Save: save})
}

func (h CLIHandler) Stats(ctx context.Context) (dto.StatsOutput, error) {
	return h.usecase.Stats(ctx)
}
