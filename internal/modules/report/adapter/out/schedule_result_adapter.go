package out

import (
	"context"

	"quizhook/internal/modules/report/domain"
	reportout "quizhook/internal/modules/report/port/out"
	scheduledomain "quizhook/internal/modules/schedule/domain"
	schedulein "quizhook/internal/modules/schedule/port/in"
)

// ScheduleResultAdapter reads stored result documents through the schedule
// module and recomputes topic scores from them.
type ScheduleResultAdapter struct {
	schedule schedulein.Usecase
}

func NewScheduleResultAdapter(schedule schedulein.Usecase) reportout.ResultSource {
	return &ScheduleResultAdapter{schedule: schedule}
}

func (a *ScheduleResultAdapter) History(ctx context.Context) (domain.History, error) {
	results, err := a.schedule.Results(ctx)
	if err != nil {
		return domain.History{}, err
	}
	history := domain.History{
		Results: make([]domain.ResultTotals, 0, len(results)),
		Topics:  map[string]domain.TopicScore{},
	}
	for _, r := range results {
		history.Results = append(history.Results, domain.ResultTotals{
			Total:       r.Summary.Total,
			Correct:     r.Summary.Correct,
			Skipped:     r.Summary.Skipped,
			SkipReasons: r.SkipReasons,
		})
	}
	for topic, score := range scheduledomain.CalculateTopicScores(results) {
		history.Topics[topic] = domain.TopicScore{Correct: score.Correct, Total: score.Total}
	}
	return history, nil
}
