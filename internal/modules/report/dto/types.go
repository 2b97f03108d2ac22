package dto

import "quizhook/internal/modules/report/domain"

type ReportInput struct {
	Save bool
}

type ReportOutput struct {
	Results      int
	Report       domain.BlindSpotReport
	Markdown     string
	JSONPath     string
	MarkdownPath string
}

type StatsOutput struct {
	TotalQuizzes   int
	TotalQuestions int
	TotalCorrect   int
	TotalSkipped   int
	OverallScore   int
}
