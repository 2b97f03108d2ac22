package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"

	apperrors "quizhook/internal/platform/errors"
)

const (
	stateDirName   = ".claude"
	configFileName = "quiz-config.yaml"
	envPrefix      = "QUIZHOOK"
)

// Scheduler mirrors the spaced-repetition cadence settings.
type Scheduler struct {
	SameDayDelayHours int `mapstructure:"same_day_delay_hours"`
	NextDayHour       int `mapstructure:"next_day_hour"`
	WeeklyDay         int `mapstructure:"weekly_day"`
	MinSessionMinutes int `mapstructure:"min_session_minutes"`
	MinActivities     int `mapstructure:"min_activities"`
}

// Policy toggles the hardening points around the state ledger.
type Policy struct {
	RejectDuplicatePending bool `mapstructure:"reject_duplicate_pending"`
	IdempotentMerge        bool `mapstructure:"idempotent_merge"`
	LockState              bool `mapstructure:"lock_state"`
}

type Config struct {
	ProjectPath  string
	ProjectName  string
	StateDir     string
	StatePath    string
	LockPath     string
	SummariesDir string
	QuizzesDir   string
	ResultsDir   string
	ReportsDir   string
	DBPath       string
	ConfigFile   string

	Scheduler Scheduler `mapstructure:"scheduler"`
	Policy    Policy    `mapstructure:"policy"`
}

// New builds the project paths and loads settings from the project's
// quiz-config.yaml (or configFile when set) and QUIZHOOK_* variables.
func New(projectPath, configFile string) (Config, error) {
	if strings.TrimSpace(projectPath) == "" {
		return Config{}, fmt.Errorf("%w: project path is required", apperrors.ErrInvalidInput)
	}
	abs, err := filepath.Abs(projectPath)
	if err != nil {
		return Config{}, fmt.Errorf("resolve project path: %w", err)
	}
	stateDir := filepath.Join(abs, stateDirName)
	cfg := Config{
		ProjectPath:  abs,
		ProjectName:  filepath.Base(abs),
		StateDir:     stateDir,
		StatePath:    filepath.Join(stateDir, "quiz-state.json"),
		LockPath:     filepath.Join(stateDir, "quiz-state.json.lock"),
		SummariesDir: filepath.Join(stateDir, "summaries"),
		QuizzesDir:   filepath.Join(stateDir, "quizzes"),
		ResultsDir:   filepath.Join(stateDir, "quiz-results"),
		ReportsDir:   filepath.Join(stateDir, "reports"),
		DBPath:       filepath.Join(stateDir, "quiz-scores.db"),
	}

	v := newViper()
	path := configFile
	if path == "" {
		path = filepath.Join(stateDir, configFileName)
		if _, err := os.Stat(path); err != nil {
			path = ""
		}
	}
	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("read config %s: %w", path, err)
		}
		cfg.ConfigFile = path
	}
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("decode config: %w", err)
	}
	if err := cfg.Scheduler.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func newViper() *viper.Viper {
	v := viper.New()
	v.SetConfigType("yaml")
	v.SetDefault("scheduler.same_day_delay_hours", 4)
	v.SetDefault("scheduler.next_day_hour", 9)
	v.SetDefault("scheduler.weekly_day", 4)
	v.SetDefault("scheduler.min_session_minutes", 15)
	v.SetDefault("scheduler.min_activities", 5)
	v.SetDefault("policy.reject_duplicate_pending", true)
	v.SetDefault("policy.idempotent_merge", true)
	v.SetDefault("policy.lock_state", false)

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()
	return v
}

func (s Scheduler) Validate() error {
	var errs []error
	if s.SameDayDelayHours < 0 {
		errs = append(errs, fmt.Errorf("same_day_delay_hours must be non-negative, got %d", s.SameDayDelayHours))
	}
	if s.NextDayHour < 0 || s.NextDayHour > 23 {
		errs = append(errs, fmt.Errorf("next_day_hour must be within 0..23, got %d", s.NextDayHour))
	}
	if s.WeeklyDay < 0 || s.WeeklyDay > 6 {
		errs = append(errs, fmt.Errorf("weekly_day must be within 0..6, got %d", s.WeeklyDay))
	}
	if s.MinSessionMinutes < 0 {
		errs = append(errs, fmt.Errorf("min_session_minutes must be non-negative, got %d", s.MinSessionMinutes))
	}
	if s.MinActivities < 0 {
		errs = append(errs, fmt.Errorf("min_activities must be non-negative, got %d", s.MinActivities))
	}
	if len(errs) > 0 {
		return fmt.Errorf("%w: %w", apperrors.ErrInvalidInput, errors.Join(errs...))
	}
	return nil
}
