package out

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"quizhook/internal/modules/quiz/domain"
	quizout "quizhook/internal/modules/quiz/port/out"
	apperrors "quizhook/internal/platform/errors"
)

const quizSuffix = "-quiz.json"

// FileQuizSource reads generated quizzes from the project's quizzes
// directory.
type FileQuizSource struct {
	dir string
}

func NewFileQuizSource(dir string) quizout.QuizSource {
	return &FileQuizSource{dir: dir}
}

func (s *FileQuizSource) Load(ctx context.Context, path string) (domain.Quiz, error) {
	if err := ctx.Err(); err != nil {
		return domain.Quiz{}, err
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return domain.Quiz{}, fmt.Errorf("%w: quiz file %s", apperrors.ErrNotFound, path)
		}
		return domain.Quiz{}, fmt.Errorf("read quiz %s: %w", path, err)
	}
	quiz := domain.Quiz{}
	if err := json.Unmarshal(raw, &quiz); err != nil {
		return domain.Quiz{}, fmt.Errorf("%w: decode quiz %s: %v", apperrors.ErrInvalidInput, path, err)
	}
	return quiz, nil
}

// Latest returns the quiz file whose name sorts last; dated names make that
// the newest.
func (s *FileQuizSource) Latest(ctx context.Context) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	matches, err := filepath.Glob(filepath.Join(s.dir, "*"+quizSuffix))
	if err != nil {
		return "", fmt.Errorf("list quizzes: %w", err)
	}
	if len(matches) == 0 {
		return "", fmt.Errorf("%w: no quiz files in %s", apperrors.ErrNotFound, s.dir)
	}
	sort.Strings(matches)
	return matches[len(matches)-1], nil
}

// Locate prefers <session>-quiz.json and falls back to the newest
// <date>-<session prefix>-quiz.json.
func (s *FileQuizSource) Locate(ctx context.Context, sessionID string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	exact := filepath.Join(s.dir, sessionID+quizSuffix)
	if _, err := os.Stat(exact); err == nil {
		return exact, nil
	}
	matches, err := filepath.Glob(filepath.Join(s.dir, "*"+quizSuffix))
	if err != nil {
		return "", fmt.Errorf("list quizzes: %w", err)
	}
	short := sessionID
	if len(short) > 8 {
		short = short[:8]
	}
	var candidates []string
	for _, m := range matches {
		if strings.HasSuffix(filepath.Base(m), "-"+short+quizSuffix) {
			candidates = append(candidates, m)
		}
	}
	if len(candidates) == 0 {
		return "", fmt.Errorf("%w: quiz for session %s", apperrors.ErrNotFound, sessionID)
	}
	sort.Strings(candidates)
	return candidates[len(candidates)-1], nil
}
