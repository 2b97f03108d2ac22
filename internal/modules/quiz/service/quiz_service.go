package service

import (
	"quizhook/internal/modules/quiz/domain"
	"quizhook/internal/platform/clock"
	"quizhook/internal/platform/id"
)

type QuizService struct {
	clock clock.Clock
	ids   id.Generator
}

func NewQuizService(clock clock.Clock, ids id.Generator) *QuizService {
	return &QuizService{clock: clock, ids: ids}
}

func (s *QuizService) Build(sessionID string, answers []domain.Answer) domain.Result {
	return domain.BuildResult(s.ids.New(), sessionID, s.clock.Now(), answers)
}
