package service

import (
	"context"
	"time"

	"quizhook/internal/modules/schedule/domain"
	"quizhook/internal/platform/clock"
)

type SchedulerService struct {
	clock    clock.Clock
	settings domain.Settings
}

func NewSchedulerService(clock clock.Clock, settings domain.Settings) *SchedulerService {
	return &SchedulerService{clock: clock, settings: settings}
}

func (s *SchedulerService) Now() time.Time {
	return s.clock.Now()
}

func (s *SchedulerService) Settings() domain.Settings {
	return s.settings
}

func (s *SchedulerService) Plan(_ context.Context, sessionID string, kind domain.ScheduleType, summaryPath string) (domain.QuizSchedule, error) {
	return domain.NewSchedule(s.clock.Now(), sessionID, kind, summaryPath, s.settings)
}

func (s *SchedulerService) Eligible(summary domain.SessionSummary) bool {
	return domain.ShouldScheduleQuiz(summary, s.settings)
}

func (s *SchedulerService) Due(state domain.ProjectState) []domain.QuizSchedule {
	return state.DueQuizzes(s.clock.Now())
}
