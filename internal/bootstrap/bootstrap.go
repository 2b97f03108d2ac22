package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	quizinadapter "quizhook/internal/modules/quiz/adapter/in"
	quizoutadapter "quizhook/internal/modules/quiz/adapter/out"
	quizdto "quizhook/internal/modules/quiz/dto"
	quizservice "quizhook/internal/modules/quiz/service"
	quizusecase "quizhook/internal/modules/quiz/usecase"
	reportinadapter "quizhook/internal/modules/report/adapter/in"
	reportoutadapter "quizhook/internal/modules/report/adapter/out"
	reportservice "quizhook/internal/modules/report/service"
	reportusecase "quizhook/internal/modules/report/usecase"
	scheduleinadapter "quizhook/internal/modules/schedule/adapter/in"
	scheduleoutadapter "quizhook/internal/modules/schedule/adapter/out"
	scheduledomain "quizhook/internal/modules/schedule/domain"
	scheduleservice "quizhook/internal/modules/schedule/service"
	scheduleusecase "quizhook/internal/modules/schedule/usecase"
	"quizhook/internal/platform/clock"
	"quizhook/internal/platform/config"
	apperrors "quizhook/internal/platform/errors"
	"quizhook/internal/platform/id"
	"quizhook/internal/platform/tx"
	"quizhook/internal/ui/runner"
)

type App struct {
	ProjectName string
	ScheduleCLI scheduleinadapter.CLIHandler
	ReportCLI   reportinadapter.CLIHandler
	QuizCLI     quizinadapter.CLIHandler

	projector *scheduleoutadapter.SQLiteScoreProjector
}

func New(cfg config.Config) (*App, error) {
	return NewWithClock(cfg, clock.SystemClock{})
}

func NewWithClock(cfg config.Config, clk clock.Clock) (*App, error) {
	settings := scheduledomain.Settings{
		SameDayDelayHours: cfg.Scheduler.SameDayDelayHours,
		NextDayHour:       cfg.Scheduler.NextDayHour,
		WeeklyDay:         cfg.Scheduler.WeeklyDay,
		MinSessionMinutes: cfg.Scheduler.MinSessionMinutes,
		MinActivities:     cfg.Scheduler.MinActivities,
	}
	if err := settings.Validate(); err != nil {
		return nil, fmt.Errorf("scheduler settings: %w", err)
	}

	var txm tx.Manager = tx.NoopManager{}
	if cfg.Policy.LockState {
		txm = tx.NewFileLockManager(cfg.LockPath)
	}

	projector := scheduleoutadapter.NewSQLiteScoreProjector(cfg.DBPath, clk)
	scheduleUC := scheduleusecase.NewInteractor(
		scheduleservice.NewSchedulerService(clk, settings),
		scheduleoutadapter.NewFileStateStore(cfg.StatePath, cfg.ProjectName, clk),
		txm,
		scheduleoutadapter.NewFileSummaryReader(),
		scheduleoutadapter.NewFileResultStore(cfg.ResultsDir, clk),
		projector,
		scheduleusecase.Policy{
			RejectDuplicatePending: cfg.Policy.RejectDuplicatePending,
			IdempotentMerge:        cfg.Policy.IdempotentMerge,
		},
	)

	reportUC := reportusecase.NewInteractor(
		reportservice.NewReportService(clk),
		reportoutadapter.NewScheduleResultAdapter(scheduleUC),
		reportoutadapter.NewFileReportStore(cfg.ReportsDir),
	)

	quizUC := quizusecase.NewInteractor(
		quizservice.NewQuizService(clk, id.UUID{}),
		quizoutadapter.NewFileQuizSource(cfg.QuizzesDir),
		quizoutadapter.NewScheduleLedgerAdapter(scheduleUC),
	)

	return &App{
		ProjectName: cfg.ProjectName,
		ScheduleCLI: scheduleinadapter.NewCLIHandler(scheduleUC),
		ReportCLI:   reportinadapter.NewCLIHandler(reportUC),
		QuizCLI:     quizinadapter.NewCLIHandler(quizUC),
		projector:   projector,
	}, nil
}

// Close releases the score index if a command opened it.
func (a *App) Close() error {
	if a.projector == nil {
		return nil
	}
	return a.projector.Close()
}

// RunQuiz runs the interactive quiz for quizPath, or the first due quiz, and
// records the outcome.
func RunQuiz(ctx context.Context, app *App, quizPath, sessionID string) (quizdto.FinishOutput, error) {
	prepared, err := app.QuizCLI.Prepare(ctx, quizPath, sessionID)
	if err != nil {
		return quizdto.FinishOutput{}, err
	}
	title := fmt.Sprintf("Learning Quiz - %s (%s)", app.ProjectName, time.Now().Format("Jan 02"))
	program := tea.NewProgram(runner.New(title, prepared.Questions, time.Now), tea.WithContext(ctx))
	final, err := program.Run()
	if err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		return quizdto.FinishOutput{}, fmt.Errorf("run quiz: %w", err)
	}
	model, ok := final.(runner.Model)
	if !ok || model.Aborted() || len(model.Answers()) == 0 {
		return quizdto.FinishOutput{}, apperrors.ErrQuizAborted
	}
	return app.QuizCLI.Finish(ctx, quizdto.FinishInput{SessionID: prepared.SessionID, Answers: model.Answers()})
}
