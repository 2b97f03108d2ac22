package out

import (
	"context"
	"testing"

	scheduledomain "quizhook/internal/modules/schedule/domain"
	schedulein "quizhook/internal/modules/schedule/port/in"
)

type resultsOnly struct {
	schedulein.Usecase
	results []scheduledomain.QuizResult
}

func (r resultsOnly) Results(context.Context) ([]scheduledomain.QuizResult, error) {
	return r.results, nil
}

func TestScheduleResultAdapterBuildsHistory(t *testing.T) {
	t.Parallel()
	adapter := NewScheduleResultAdapter(resultsOnly{results: []scheduledomain.QuizResult{
		{
			Summary:     scheduledomain.ResultSummary{Total: 2, Correct: 1, Skipped: 1},
			SkipReasons: map[string]int{"unclear": 1},
			Questions: []scheduledomain.QuestionOutcome{
				{Type: "debugging", Correct: true, Tags: []string{"docker"}},
				{Type: "debugging", Skipped: true},
			},
		},
	}})
	history, err := adapter.History(context.Background())
	if err != nil {
		t.Fatalf("history: %v", err)
	}
	if len(history.Results) != 1 || history.Results[0].Skipped != 1 || history.Results[0].SkipReasons["unclear"] != 1 {
		t.Fatalf("unexpected results: %+v", history.Results)
	}
	if history.Topics["debugging"].Total != 2 || history.Topics["debugging"].Correct != 1 || history.Topics["docker"].Total != 1 {
		t.Fatalf("unexpected topics: %+v", history.Topics)
	}
}
