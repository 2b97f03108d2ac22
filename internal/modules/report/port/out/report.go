package out

import (
	"context"

	"quizhook/internal/modules/report/domain"
)

type ResultSource interface {
	History(ctx context.Context) (domain.History, error)
}

type ReportStore interface {
	Save(ctx context.Context, report domain.BlindSpotReport) (jsonPath, markdownPath string, err error)
}
