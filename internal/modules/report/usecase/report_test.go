package usecase_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	reportout "quizhook/internal/modules/report/adapter/out"
	"quizhook/internal/modules/report/domain"
	"quizhook/internal/modules/report/dto"
	"quizhook/internal/modules/report/service"
	"quizhook/internal/modules/report/usecase"
	"quizhook/internal/platform/clock"
)

type staticSource struct {
	history domain.History
	err     error
}

func (s staticSource) History(context.Context) (domain.History, error) {
	return s.history, s.err
}

var now = clock.Fixed(time.Date(2026, 10, 16, 8, 0, 0, 0, time.Local))

func TestReportWithoutResultsIsEmpty(t *testing.T) {
	t.Parallel()
	dir := filepath.Join(t.TempDir(), "reports")
	uc := usecase.NewInteractor(service.NewReportService(now), staticSource{}, reportout.NewFileReportStore(dir))
	out, err := uc.Report(context.Background(), dto.ReportInput{Save: true})
	if err != nil {
		t.Fatalf("report: %v", err)
	}
	if out.Results != 0 || out.Markdown != "" || out.JSONPath != "" {
		t.Fatalf("expected empty output, got %+v", out)
	}
	if _, err := os.Stat(dir); !os.IsNotExist(err) {
		t.Fatalf("nothing should be written without results")
	}
}

func TestReportSavesWhenAsked(t *testing.T) {
	t.Parallel()
	dir := filepath.Join(t.TempDir(), "reports")
	source := staticSource{history: domain.History{
		Results: []domain.ResultTotals{
			{Total: 4, Correct: 1, Skipped: 3, SkipReasons: map[string]int{domain.SkipTimePressure: 3}},
		},
		Topics: map[string]domain.TopicScore{"docker": {Correct: 1, Total: 4}},
	}}
	uc := usecase.NewInteractor(service.NewReportService(now), source, reportout.NewFileReportStore(dir))

	preview, err := uc.Report(context.Background(), dto.ReportInput{})
	if err != nil {
		t.Fatalf("preview: %v", err)
	}
	if preview.JSONPath != "" || len(preview.Report.Suggestions) != 2 {
		t.Fatalf("unexpected preview: %+v", preview)
	}

	saved, err := uc.Report(context.Background(), dto.ReportInput{Save: true})
	if err != nil {
		t.Fatalf("save: %v", err)
	}
	for _, path := range []string{saved.JSONPath, saved.MarkdownPath} {
		if _, err := os.Stat(path); err != nil {
			t.Fatalf("missing %s: %v", path, err)
		}
	}
}

func TestStats(t *testing.T) {
	t.Parallel()
	source := staticSource{history: domain.History{Results: []domain.ResultTotals{
		{Total: 2, Correct: 1},
		{Total: 2, Correct: 2, Skipped: 1},
	}}}
	uc := usecase.NewInteractor(service.NewReportService(now), source, nil)
	stats, err := uc.Stats(context.Background())
	if err != nil {
		t.Fatalf("stats: %v", err)
	}
	if stats.TotalQuizzes != 2 || stats.TotalQuestions != 4 || stats.TotalCorrect != 3 || stats.TotalSkipped != 1 || stats.OverallScore != 75 {
		t.Fatalf("unexpected stats: %+v", stats)
	}

	failing := usecase.NewInteractor(service.NewReportService(now), staticSource{err: errors.New("boom")}, nil)
	if _, err := failing.Stats(context.Background()); err == nil {
		t.Fatalf("expected source error")
	}
}
