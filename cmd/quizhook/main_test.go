package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	root := newRootCmd()
	out := &bytes.Buffer{}
	root.SetOut(out)
	root.SetErr(&bytes.Buffer{})
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func TestScheduleLifecycleThroughCLI(t *testing.T) {
	t.Parallel()
	project := t.TempDir()

	out, err := execute(t, "schedule", "check", "--project", project)
	if err != nil || strings.TrimSpace(out) != "No quizzes due" {
		t.Fatalf("fresh check: %q %v", out, err)
	}

	if _, err := execute(t, "schedule", "add", "--project", project, "--session-id", "abcdef123456"); err == nil {
		t.Fatalf("add without --type and --summary must fail")
	}
	if _, err := execute(t, "schedule", "add", "--project", project, "--session-id", "s", "--type", "monthly", "--summary", "x"); err == nil {
		t.Fatalf("add with unknown type must fail")
	}

	out, err = execute(t, "schedule", "add", "--project", project, "--session-id", "abcdef123456", "--type", "on_demand", "--summary", "x.json")
	if err != nil || !strings.HasPrefix(out, "Scheduled on_demand quiz for ") {
		t.Fatalf("add: %q %v", out, err)
	}
	if _, err := os.Stat(filepath.Join(project, ".claude", "quiz-state.json")); err != nil {
		t.Fatalf("state file missing: %v", err)
	}

	out, err = execute(t, "schedule", "list", "--project", project)
	if err != nil || !strings.Contains(out, "Pending quizzes (1):") || !strings.Contains(out, "  - abcdef12: on_demand at ") {
		t.Fatalf("list: %q %v", out, err)
	}

	out, err = execute(t, "schedule", "check", "--project", project)
	if err != nil || !strings.Contains(out, "Due quizzes: 1") || !strings.Contains(out, "  - Session abcdef12 (on_demand)") {
		t.Fatalf("check: %q %v", out, err)
	}

	out, err = execute(t, "schedule", "notify", "--project", project)
	if err != nil || !strings.Contains(out, "You have 1 quiz waiting!") {
		t.Fatalf("notify: %q %v", out, err)
	}

	out, err = execute(t, "status", "--project", project)
	if err != nil || !strings.Contains(out, "Due now: 1") || !strings.Contains(out, "Pending: 1") || !strings.Contains(out, "Completed: 0") {
		t.Fatalf("status: %q %v", out, err)
	}

	if _, err := execute(t, "complete", "--project", project, "--session-id", "abcdef123456"); err != nil {
		t.Fatalf("complete: %v", err)
	}
	out, err = execute(t, "status", "--project", project)
	if err != nil || !strings.Contains(out, "Pending: 0") || !strings.Contains(out, "Completed: 1") {
		t.Fatalf("status after complete: %q %v", out, err)
	}
	out, err = execute(t, "schedule", "notify", "--project", project)
	if err != nil || out != "" {
		t.Fatalf("notify must be silent with nothing due: %q %v", out, err)
	}
}

func TestCheckAlwaysExitsZeroOnBadState(t *testing.T) {
	t.Parallel()
	project := t.TempDir()
	stateDir := filepath.Join(project, ".claude")
	if err := os.MkdirAll(stateDir, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	doc := `{"pending_quizzes":[{"session_id":"x","type":"monthly","scheduled_for":"2026-01-01T00:00:00","summary_path":""}]}`
	if err := os.WriteFile(filepath.Join(stateDir, "quiz-state.json"), []byte(doc), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	out, err := execute(t, "schedule", "check", "--project", project)
	if err != nil || strings.TrimSpace(out) != "No quizzes due" {
		t.Fatalf("check must swallow errors: %q %v", out, err)
	}
	if _, err := execute(t, "schedule", "list", "--project", project); err == nil {
		t.Fatalf("list must surface the invalid schedule type")
	}
}

func TestMergeReportAndStats(t *testing.T) {
	t.Parallel()
	project := t.TempDir()
	resultsDir := filepath.Join(project, ".claude", "quiz-results")
	if err := os.MkdirAll(resultsDir, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	result := `{
  "session_id": "abc",
  "completed_at": "2026-10-15T18:00:00",
  "summary": {"total": 2, "correct": 1, "partial": 0, "wrong": 0, "skipped": 1, "score_percent": 50},
  "skip_reasons": {"time_pressure": 1},
  "questions": [
    {"type": "debugging", "tags": ["docker"], "correct": true},
    {"type": "system_design", "tags": [], "correct": false, "skipped": true, "skip_reason": "time_pressure"}
  ]
}`
	resultPath := filepath.Join(resultsDir, "2026-10-15-abc-result.json")
	if err := os.WriteFile(resultPath, []byte(result), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	out, err := execute(t, "merge", "--project", project, "--result", resultPath)
	if err != nil || !strings.Contains(out, "Merged result into topic scores (3 topics)") {
		t.Fatalf("merge: %q %v", out, err)
	}
	out, err = execute(t, "merge", "--project", project, "--result", resultPath)
	if err != nil || !strings.Contains(out, "already merged") {
		t.Fatalf("second merge: %q %v", out, err)
	}
	if _, err := execute(t, "merge", "--project", project); err == nil {
		t.Fatalf("merge without --result must fail")
	}

	out, err = execute(t, "scores", "--project", project)
	if err != nil || !strings.HasPrefix(out, "system_design\t0/1\t0%") {
		t.Fatalf("scores: %q %v", out, err)
	}

	out, err = execute(t, "scores", "--project", project, "--weakest", "1")
	if err != nil || strings.TrimSpace(out) != "system_design\t0/1\t0%" {
		t.Fatalf("weakest scores: %q %v", out, err)
	}

	out, err = execute(t, "stats", "--project", project)
	if err != nil || !strings.Contains(out, "Total quizzes: 1") || !strings.Contains(out, "Overall score: 50%") {
		t.Fatalf("stats: %q %v", out, err)
	}

	out, err = execute(t, "report", "--project", project, "--save")
	if err != nil || !strings.Contains(out, "System Design (0%)") || !strings.Contains(out, "Report saved to ") {
		t.Fatalf("report: %q %v", out, err)
	}

	out, err = execute(t, "reindex", "--project", project)
	if err != nil || strings.TrimSpace(out) != "reindexed 3 topics" {
		t.Fatalf("reindex: %q %v", out, err)
	}
}

func TestRunWithoutDueQuizFails(t *testing.T) {
	t.Parallel()
	if _, err := execute(t, "run", "--project", t.TempDir()); err == nil {
		t.Fatalf("run with nothing due must fail")
	}
}
