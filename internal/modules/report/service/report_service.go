package service

import (
	"quizhook/internal/modules/report/domain"
	"quizhook/internal/platform/clock"
)

type ReportService struct {
	clock clock.Clock
}

func NewReportService(clock clock.Clock) *ReportService {
	return &ReportService{clock: clock}
}

func (s *ReportService) BlindSpots(history domain.History) domain.BlindSpotReport {
	return domain.Generate(history.Topics, domain.SkipPatterns(history.Results), s.clock.Now())
}

func (s *ReportService) Stats(history domain.History) domain.Stats {
	return domain.Aggregate(history.Results)
}
