package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"quizhook/internal/bootstrap"
	scheduledto "quizhook/internal/modules/schedule/dto"
	"quizhook/internal/platform/config"
	apperrors "quizhook/internal/platform/errors"
	"quizhook/internal/platform/logging"
	"quizhook/internal/platform/timefmt"
	"quizhook/internal/ui/theme"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		_, _ = fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

type rootOptions struct {
	project    string
	configFile string
	logLevel   string
	logFormat  string
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	root := &cobra.Command{
		Use:           "quizhook",
		Short:         "Spaced-repetition quizzes for coding sessions",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, _ []string) {
			logging.Setup(cmd.ErrOrStderr(), opts.logLevel, opts.logFormat)
		},
	}
	root.PersistentFlags().StringVar(&opts.project, "project", ".", "project directory")
	root.PersistentFlags().StringVar(&opts.configFile, "config", "", "config file (default <project>/.claude/quiz-config.yaml)")
	root.PersistentFlags().StringVar(&opts.logLevel, "log-level", "warn", "log level: debug|info|warn|error")
	root.PersistentFlags().StringVar(&opts.logFormat, "log-format", "text", "log format: text|json")

	root.AddCommand(newScheduleCmd(opts))
	root.AddCommand(newStatusCmd(opts))
	root.AddCommand(newCompleteCmd(opts))
	root.AddCommand(newMergeCmd(opts))
	root.AddCommand(newReportCmd(opts))
	root.AddCommand(newStatsCmd(opts))
	root.AddCommand(newScoresCmd(opts))
	root.AddCommand(newReindexCmd(opts))
	root.AddCommand(newRunCmd(opts))
	return root
}

func loadApp(opts *rootOptions) (*bootstrap.App, error) {
	cfg, err := config.New(opts.project, opts.configFile)
	if err != nil {
		return nil, err
	}
	return bootstrap.New(cfg)
}

func withApp(opts *rootOptions, fn func(*bootstrap.App) error) error {
	app, err := loadApp(opts)
	if err != nil {
		return err
	}
	defer func() { _ = app.Close() }()
	return fn(app)
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

func newScheduleCmd(opts *rootOptions) *cobra.Command {
	schedule := &cobra.Command{Use: "schedule", Short: "Quiz schedule operations"}

	schedule.AddCommand(&cobra.Command{
		Use:   "check",
		Short: "List due quizzes (always exits 0)",
		RunE: func(cmd *cobra.Command, _ []string) error {
			var due []scheduledto.QuizOutput
			err := withApp(opts, func(app *bootstrap.App) error {
				out, err := app.ScheduleCLI.Check(context.Background())
				due = out.Due
				return err
			})
			if err != nil {
				slog.Warn("schedule check failed", "error", err)
			}
			if len(due) == 0 {
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), "No quizzes due")
				return nil
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Due quizzes: %d\n", len(due))
			for _, q := range due {
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "  - Session %s (%s)\n", shortID(q.SessionID), q.Type)
			}
			return nil
		},
	})

	var sessionID, scheduleType, summaryPath string
	add := &cobra.Command{
		Use:   "add --session-id <id> --type <type> --summary <path>",
		Short: "Schedule a quiz for a session",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if strings.TrimSpace(sessionID) == "" || strings.TrimSpace(scheduleType) == "" || strings.TrimSpace(summaryPath) == "" {
				return fmt.Errorf("--session-id, --type, and --summary are required")
			}
			return withApp(opts, func(app *bootstrap.App) error {
				out, err := app.ScheduleCLI.Add(context.Background(), sessionID, scheduleType, summaryPath)
				if err != nil {
					return err
				}
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Scheduled %s quiz for %s\n", out.Type, timefmt.Format(out.ScheduledFor))
				return nil
			})
		},
	}
	add.Flags().StringVar(&sessionID, "session-id", "", "session id")
	add.Flags().StringVar(&scheduleType, "type", "", "schedule type: same_day|next_day|weekly|on_demand")
	add.Flags().StringVar(&summaryPath, "summary", "", "session summary path")

	list := &cobra.Command{
		Use:   "list",
		Short: "List pending quizzes",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(opts, func(app *bootstrap.App) error {
				pending, err := app.ScheduleCLI.List(context.Background())
				if err != nil {
					return err
				}
				if len(pending) == 0 {
					_, _ = fmt.Fprintln(cmd.OutOrStdout(), "No pending quizzes")
					return nil
				}
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Pending quizzes (%d):\n", len(pending))
				for _, q := range pending {
					_, _ = fmt.Fprintf(cmd.OutOrStdout(), "  - %s: %s at %s\n", shortID(q.SessionID), q.Type, timefmt.Format(q.ScheduledFor))
				}
				return nil
			})
		},
	}

	notify := &cobra.Command{
		Use:   "notify",
		Short: "Print a reminder when quizzes are due",
		RunE: func(cmd *cobra.Command, _ []string) error {
			err := withApp(opts, func(app *bootstrap.App) error {
				out, err := app.ScheduleCLI.Check(context.Background())
				if err != nil {
					return err
				}
				printReminder(cmd.OutOrStdout(), len(out.Due))
				return nil
			})
			if err != nil {
				slog.Warn("quiz reminder failed", "error", err)
			}
			return nil
		},
	}

	var endSummary string
	sessionEnd := &cobra.Command{
		Use:   "session-end --summary <path>",
		Short: "Schedule a quiz for a finished session if it qualifies",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if strings.TrimSpace(endSummary) == "" {
				return fmt.Errorf("--summary is required")
			}
			return withApp(opts, func(app *bootstrap.App) error {
				out, err := app.ScheduleCLI.SessionEnd(context.Background(), endSummary)
				if err != nil {
					return err
				}
				if !out.Scheduled {
					_, _ = fmt.Fprintf(cmd.OutOrStdout(), "No quiz scheduled: %s\n", out.Reason)
					return nil
				}
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Scheduled %s quiz for %s\n", out.Quiz.Type, timefmt.Format(out.Quiz.ScheduledFor))
				return nil
			})
		},
	}
	sessionEnd.Flags().StringVar(&endSummary, "summary", "", "session summary path")

	schedule.AddCommand(add, list, notify, sessionEnd)
	return schedule
}

func printReminder(w io.Writer, due int) {
	if due == 0 {
		return
	}
	noun := "quiz"
	if due > 1 {
		noun = "quizzes"
	}
	_, _ = fmt.Fprintln(w, theme.Banner(
		fmt.Sprintf("You have %d %s waiting!", due, noun),
		"Run quizhook run to start, or continue working",
	))
}

func newStatusCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show due, pending and completed counts",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(opts, func(app *bootstrap.App) error {
				out, err := app.ScheduleCLI.Status(context.Background())
				if err != nil {
					return err
				}
				w := cmd.OutOrStdout()
				_, _ = fmt.Fprintf(w, "Quiz Status for %s\n", out.Project)
				_, _ = fmt.Fprintln(w, strings.Repeat("=", 50))
				_, _ = fmt.Fprintf(w, "  Due now: %d\n", len(out.Due))
				_, _ = fmt.Fprintf(w, "  Pending: %d\n", out.Pending)
				_, _ = fmt.Fprintf(w, "  Completed: %d\n", out.Completed)
				if len(out.Due) > 0 {
					_, _ = fmt.Fprintln(w, "\nQuizzes due:")
					for _, q := range out.Due {
						_, _ = fmt.Fprintf(w, "    - Session %s (%s)\n", shortID(q.SessionID), q.Type)
					}
				} else if out.Next != nil {
					_, _ = fmt.Fprintln(w, "\nNext scheduled:")
					_, _ = fmt.Fprintf(w, "    - %s (%s)\n", out.Next.ScheduledFor.Format("2006-01-02T15:04"), out.Next.Type)
				}
				return nil
			})
		},
	}
}

func newCompleteCmd(opts *rootOptions) *cobra.Command {
	var sessionID, resultPath string
	cmd := &cobra.Command{
		Use:   "complete --session-id <id> [--result <path>]",
		Short: "Mark a session's quiz as completed",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if strings.TrimSpace(sessionID) == "" {
				return fmt.Errorf("--session-id is required")
			}
			return withApp(opts, func(app *bootstrap.App) error {
				out, err := app.ScheduleCLI.Complete(context.Background(), sessionID, resultPath)
				if err != nil {
					return err
				}
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Completed quiz for session %s (removed %d pending)\n", shortID(out.SessionID), out.RemovedPending)
				if out.ResultID != "" {
					_, _ = fmt.Fprintf(cmd.OutOrStdout(), "result=%s merged=%t\n", out.ResultID, out.Merged)
				}
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&sessionID, "session-id", "", "session id")
	cmd.Flags().StringVar(&resultPath, "result", "", "quiz result document to attach and merge")
	return cmd
}

func newMergeCmd(opts *rootOptions) *cobra.Command {
	var resultPath string
	cmd := &cobra.Command{
		Use:   "merge --result <path>",
		Short: "Fold a quiz result into the topic scores",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if strings.TrimSpace(resultPath) == "" {
				return fmt.Errorf("--result is required for merge")
			}
			return withApp(opts, func(app *bootstrap.App) error {
				out, err := app.ScheduleCLI.Merge(context.Background(), resultPath)
				if err != nil {
					return err
				}
				if !out.Merged {
					_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Result %s already merged\n", out.ResultID)
					return nil
				}
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Merged result into topic scores (%d topics)\n", out.Topics)
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&resultPath, "result", "", "quiz result document")
	return cmd
}

func newReportCmd(opts *rootOptions) *cobra.Command {
	var save bool
	cmd := &cobra.Command{
		Use:   "report",
		Short: "Show the blind spot report",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(opts, func(app *bootstrap.App) error {
				out, err := app.ReportCLI.Report(context.Background(), save)
				if err != nil {
					return err
				}
				if out.Results == 0 {
					_, _ = fmt.Fprintln(cmd.OutOrStdout(), "No quiz results found.")
					return nil
				}
				_, _ = fmt.Fprint(cmd.OutOrStdout(), out.Markdown)
				if out.JSONPath != "" {
					_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Report saved to %s\n", out.JSONPath)
				}
				return nil
			})
		},
	}
	cmd.Flags().BoolVar(&save, "save", false, "write weekly JSON and markdown reports")
	return cmd
}

func newStatsCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Aggregate totals over quiz results",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(opts, func(app *bootstrap.App) error {
				out, err := app.ReportCLI.Stats(context.Background())
				if err != nil {
					return err
				}
				w := cmd.OutOrStdout()
				_, _ = fmt.Fprintf(w, "Total quizzes: %d\n", out.TotalQuizzes)
				_, _ = fmt.Fprintf(w, "Total questions: %d\n", out.TotalQuestions)
				_, _ = fmt.Fprintf(w, "Correct: %d\n", out.TotalCorrect)
				_, _ = fmt.Fprintf(w, "Skipped: %d\n", out.TotalSkipped)
				_, _ = fmt.Fprintf(w, "Overall score: %d%%\n", out.OverallScore)
				return nil
			})
		},
	}
}

func newScoresCmd(opts *rootOptions) *cobra.Command {
	var weakest int
	cmd := &cobra.Command{
		Use:   "scores",
		Short: "Print topic scores, weakest first",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(opts, func(app *bootstrap.App) error {
				var (
					scores []scheduledto.TopicOutput
					err    error
				)
				if weakest > 0 {
					scores, err = app.ScheduleCLI.Weakest(context.Background(), weakest)
				} else {
					scores, err = app.ScheduleCLI.Scores(context.Background())
				}
				if err != nil {
					return err
				}
				if len(scores) == 0 {
					_, _ = fmt.Fprintln(cmd.OutOrStdout(), "no topic scores")
					return nil
				}
				for _, s := range scores {
					_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s\t%d/%d\t%d%%\n", s.Topic, s.Correct, s.Total, s.Percent)
				}
				return nil
			})
		},
	}
	cmd.Flags().IntVar(&weakest, "weakest", 0, "only the N weakest topics, read from the score index")
	return cmd
}

func newReindexCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "reindex",
		Short: "Rebuild the SQLite score index from quiz state",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(opts, func(app *bootstrap.App) error {
				out, err := app.ScheduleCLI.Reindex(context.Background())
				if err != nil {
					return err
				}
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "reindexed %d topics\n", out.Topics)
				return nil
			})
		},
	}
}

func newRunCmd(opts *rootOptions) *cobra.Command {
	var quizPath, sessionID string
	cmd := &cobra.Command{
		Use:   "run [--quiz <path>]",
		Short: "Take the first due quiz interactively",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(opts, func(app *bootstrap.App) error {
				out, err := bootstrap.RunQuiz(context.Background(), app, quizPath, sessionID)
				if errors.Is(err, apperrors.ErrQuizAborted) {
					_, _ = fmt.Fprintln(cmd.OutOrStdout(), "Quiz aborted; nothing recorded.")
					return nil
				}
				if err != nil {
					return err
				}
				s := out.Summary
				lines := []string{fmt.Sprintf("Score: %d%% (%d/%d correct)", s.ScorePercent, s.Correct, s.Total)}
				if s.Partial > 0 {
					lines = append(lines, fmt.Sprintf("Partial: %d", s.Partial))
				}
				if s.Skipped > 0 {
					lines = append(lines, fmt.Sprintf("Skipped: %d", s.Skipped))
				}
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), theme.Banner("Quiz Complete!", lines...))
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Results saved to %s\n", out.ResultPath)
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&quizPath, "quiz", "", "quiz file (default: quiz of the first due session)")
	cmd.Flags().StringVar(&sessionID, "session-id", "", "session id for --quiz (default: from file name)")
	return cmd
}
