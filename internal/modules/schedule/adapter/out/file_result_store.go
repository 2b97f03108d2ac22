package out

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"

	"quizhook/internal/modules/schedule/domain"
	scheduleout "quizhook/internal/modules/schedule/port/out"
	"quizhook/internal/platform/atomicfile"
	"quizhook/internal/platform/clock"
	apperrors "quizhook/internal/platform/errors"
	"quizhook/internal/platform/timefmt"
)

// FileResultStore keeps one JSON document per completed quiz.
type FileResultStore struct {
	dir   string
	clock clock.Clock
}

func NewFileResultStore(dir string, clk clock.Clock) scheduleout.ResultStore {
	return &FileResultStore{dir: dir, clock: clk}
}

func (s *FileResultStore) Load(_ context.Context, path string) (domain.QuizResult, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return domain.QuizResult{}, fmt.Errorf("%w: result %s", apperrors.ErrNotFound, path)
		}
		return domain.QuizResult{}, fmt.Errorf("read result: %w", err)
	}
	result := domain.QuizResult{}
	if err := json.Unmarshal(raw, &result); err != nil {
		return domain.QuizResult{}, fmt.Errorf("%w: decode result %s: %v", apperrors.ErrInvalidInput, path, err)
	}
	return result, nil
}

// List returns every readable result document ordered by file name;
// unreadable files are skipped.
func (s *FileResultStore) List(ctx context.Context) ([]domain.QuizResult, error) {
	paths, err := filepath.Glob(filepath.Join(s.dir, "*.json"))
	if err != nil {
		return nil, fmt.Errorf("list results: %w", err)
	}
	sort.Strings(paths)
	out := []domain.QuizResult{}
	for _, path := range paths {
		result, err := s.Load(ctx, path)
		if err != nil {
			slog.Warn("skipping quiz result", "path", path, "error", err)
			continue
		}
		out = append(out, result)
	}
	return out, nil
}

func (s *FileResultStore) Save(_ context.Context, result domain.QuizResult) (string, error) {
	at := s.clock.Now()
	if parsed, err := timefmt.Parse(result.CompletedAt); err == nil {
		at = parsed
	}
	name := fmt.Sprintf("%s-%s-result.json", at.Format("2006-01-02-150405"), shortID(result.SessionID))
	path := filepath.Join(s.dir, name)
	payload, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return "", fmt.Errorf("encode result: %w", err)
	}
	if err := atomicfile.WriteFile(path, append(payload, '\n'), 0o644); err != nil {
		return "", fmt.Errorf("write result: %w", err)
	}
	return path, nil
}

func shortID(sessionID string) string {
	if sessionID == "" {
		return "unknown"
	}
	if len(sessionID) > 8 {
		return sessionID[:8]
	}
	return sessionID
}
