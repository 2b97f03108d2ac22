package usecase

import (
	"context"
	"log/slog"

	"quizhook/internal/modules/report/dto"
	reportin "quizhook/internal/modules/report/port/in"
	reportout "quizhook/internal/modules/report/port/out"
	"quizhook/internal/modules/report/service"
)

type Interactor struct {
	svc    *service.ReportService
	source reportout.ResultSource
	store  reportout.ReportStore
}

func NewInteractor(svc *service.ReportService, source reportout.ResultSource, store reportout.ReportStore) reportin.Usecase {
	return &Interactor{svc: svc, source: source, store: store}
}

func (i *Interactor) Report(ctx context.Context, input dto.ReportInput) (dto.ReportOutput, error) {
	history, err := i.source.History(ctx)
	if err != nil {
		return dto.ReportOutput{}, err
	}
	out := dto.ReportOutput{Results: len(history.Results)}
	if out.Results == 0 {
		return out, nil
	}
	out.Report = i.svc.BlindSpots(history)
	out.Markdown = out.Report.Markdown()
	if input.Save && i.store != nil {
		out.JSONPath, out.MarkdownPath, err = i.store.Save(ctx, out.Report)
		if err != nil {
			return dto.ReportOutput{}, err
		}
		slog.Info("blind spot report saved", "path", out.JSONPath)
	}
	return out, nil
}

func (i *Interactor) Stats(ctx context.Context) (dto.StatsOutput, error) {
	history, err := i.source.History(ctx)
	if err != nil {
		return dto.StatsOutput{}, err
	}
	stats := i.svc.Stats(history)
	return dto.StatsOutput{
		TotalQuizzes:   stats.TotalQuizzes,
		TotalQuestions: stats.TotalQuestions,
		TotalCorrect:   stats.TotalCorrect,
		TotalSkipped:   stats.TotalSkipped,
		OverallScore:   stats.OverallScore,
	}, nil
}
