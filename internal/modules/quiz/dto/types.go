package dto

import "quizhook/internal/modules/quiz/domain"

type PrepareInput struct {
	QuizPath  string
	SessionID string
}

type PrepareOutput struct {
	SessionID string
	Type      string
	QuizPath  string
	Questions []domain.Question
}

type FinishInput struct {
	SessionID string
	Answers   []domain.Answer
}

type FinishOutput struct {
	ResultPath     string
	Summary        domain.Summary
	RemovedPending int
	Merged         bool
}
