package out

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	apperrors "quizhook/internal/platform/errors"
)

func TestLocatePrefersExactThenNewestDated(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	source := NewFileQuizSource(dir)
	ctx := context.Background()

	for _, name := range []string{"2026-10-14-abcdefgh-quiz.json", "2026-10-15-abcdefgh-quiz.json", "2026-10-15-zzzzzzzz-quiz.json"} {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(`{"questions":[]}`), 0o644); err != nil {
			t.Fatalf("write: %v", err)
		}
	}
	got, err := source.Locate(ctx, "abcdefgh-1234")
	if err != nil {
		t.Fatalf("locate: %v", err)
	}
	if filepath.Base(got) != "2026-10-15-abcdefgh-quiz.json" {
		t.Fatalf("expected newest dated quiz, got %s", got)
	}

	exact := filepath.Join(dir, "abcdefgh-1234-quiz.json")
	if err := os.WriteFile(exact, []byte(`{"questions":[]}`), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if got, err = source.Locate(ctx, "abcdefgh-1234"); err != nil || got != exact {
		t.Fatalf("expected exact match, got %s %v", got, err)
	}

	if _, err := source.Locate(ctx, "nomatch"); !errors.Is(err, apperrors.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestLatestPicksLastDatedQuiz(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	source := NewFileQuizSource(dir)
	ctx := context.Background()

	if _, err := source.Latest(ctx); !errors.Is(err, apperrors.ErrNotFound) {
		t.Fatalf("expected not found in empty dir, got %v", err)
	}
	for _, name := range []string{"2026-10-15-bbbbbbbb-quiz.json", "2026-10-16-aaaaaaaa-quiz.json", "notes.json"} {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(`{"questions":[]}`), 0o644); err != nil {
			t.Fatalf("write: %v", err)
		}
	}
	got, err := source.Latest(ctx)
	if err != nil || filepath.Base(got) != "2026-10-16-aaaaaaaa-quiz.json" {
		t.Fatalf("expected newest quiz, got %s %v", got, err)
	}
}

func TestLoadQuizErrors(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	source := NewFileQuizSource(dir)
	if _, err := source.Load(context.Background(), filepath.Join(dir, "missing.json")); !errors.Is(err, apperrors.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
	bad := filepath.Join(dir, "bad.json")
	if err := os.WriteFile(bad, []byte("{"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if _, err := source.Load(context.Background(), bad); !errors.Is(err, apperrors.ErrInvalidInput) {
		t.Fatalf("expected invalid input, got %v", err)
	}
}
