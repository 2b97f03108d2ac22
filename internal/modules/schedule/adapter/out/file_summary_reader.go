package out

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"quizhook/internal/modules/schedule/domain"
	scheduleout "quizhook/internal/modules/schedule/port/out"
	apperrors "quizhook/internal/platform/errors"
)

type FileSummaryReader struct{}

func NewFileSummaryReader() scheduleout.SummaryReader {
	return FileSummaryReader{}
}

func (FileSummaryReader) Load(_ context.Context, path string) (domain.SessionSummary, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return domain.SessionSummary{}, fmt.Errorf("%w: summary %s", apperrors.ErrNotFound, path)
		}
		return domain.SessionSummary{}, fmt.Errorf("read summary: %w", err)
	}
	summary := domain.SessionSummary{}
	if err := json.Unmarshal(raw, &summary); err != nil {
		return domain.SessionSummary{}, fmt.Errorf("%w: decode summary %s: %v", apperrors.ErrInvalidInput, path, err)
	}
	return summary, nil
}
