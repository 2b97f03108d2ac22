package dto

import (
	"time"

	"quizhook/internal/modules/schedule/domain"
)

type QuizOutput struct {
	SessionID    string
	Type         string
	ScheduledFor time.Time
	SummaryPath  string
	CreatedAt    time.Time
}

type CheckOutput struct {
	Project string
	Due     []QuizOutput
}

type AddInput struct {
	SessionID   string
	Type        string
	SummaryPath string
}

type SessionEndInput struct {
	SummaryPath string
}

type SessionEndOutput struct {
	Scheduled bool
	Reason    string
	Quiz      QuizOutput
}

type StatusOutput struct {
	Project   string
	Due       []QuizOutput
	Pending   int
	Completed int
	Next      *QuizOutput
}

type CompleteInput struct {
	SessionID  string
	ResultPath string
}

type CompleteOutput struct {
	SessionID      string
	RemovedPending int
	Merged         bool
	ResultID       string
}

type MergeInput struct {
	ResultPath string
}

type MergeOutput struct {
	Merged   bool
	ResultID string
	Topics   int
}

// RecordInput carries a result produced in-process by the quiz runner.
type RecordInput struct {
	SessionID string
	Result    domain.QuizResult
}

type RecordOutput struct {
	ResultPath string
	Complete   CompleteOutput
}

type TopicOutput struct {
	Topic   string
	Correct int
	Total   int
	Percent int
}

type ReindexOutput struct {
	Topics int
}
