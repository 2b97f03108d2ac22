package domain

import (
	"fmt"
	"strings"
	"time"

	apperrors "quizhook/internal/platform/errors"
)

// ScheduleType selects the spaced-repetition policy for one quiz.
type ScheduleType int

const (
	SameDay ScheduleType = iota + 1
	NextDay
	Weekly
	OnDemand
)

var scheduleTypeNames = map[ScheduleType]string{
	SameDay:  "same_day",
	NextDay:  "next_day",
	Weekly:   "weekly",
	OnDemand: "on_demand",
}

func ParseScheduleType(raw string) (ScheduleType, error) {
	key := strings.ToLower(strings.TrimSpace(raw))
	for kind, name := range scheduleTypeNames {
		if name == key {
			return kind, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", apperrors.ErrInvalidScheduleType, raw)
}

func (t ScheduleType) String() string {
	if name, ok := scheduleTypeNames[t]; ok {
		return name
	}
	return fmt.Sprintf("schedule_type(%d)", int(t))
}

func (t ScheduleType) Validate() error {
	if _, ok := scheduleTypeNames[t]; !ok {
		return fmt.Errorf("%w: %d", apperrors.ErrInvalidScheduleType, int(t))
	}
	return nil
}

func (t ScheduleType) MarshalText() ([]byte, error) {
	if err := t.Validate(); err != nil {
		return nil, err
	}
	return []byte(scheduleTypeNames[t]), nil
}

func (t *ScheduleType) UnmarshalText(text []byte) error {
	parsed, err := ParseScheduleType(string(text))
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}

// QuizSchedule is one scheduled quiz. ScheduledFor is fixed at creation;
// rescheduling means creating a new record.
type QuizSchedule struct {
	SessionID    string
	ScheduleType ScheduleType
	ScheduledFor time.Time
	SummaryPath  string
	CreatedAt    time.Time
}

// IsDue reports whether the quiz may be delivered at now. The bound is
// inclusive.
func (q QuizSchedule) IsDue(now time.Time) bool {
	return !q.ScheduledFor.After(now)
}

// Settings holds the cadence and eligibility thresholds. WeeklyDay counts
// from 0=Monday to 6=Sunday.
type Settings struct {
	SameDayDelayHours int
	NextDayHour       int
	WeeklyDay         int
	MinSessionMinutes int
	MinActivities     int
}

const weeklyHour = 9

func DefaultSettings() Settings {
	return Settings{
		SameDayDelayHours: 4,
		NextDayHour:       9,
		WeeklyDay:         4,
		MinSessionMinutes: 15,
		MinActivities:     5,
	}
}

func (s Settings) Validate() error {
	if s.SameDayDelayHours < 0 {
		return fmt.Errorf("%w: same day delay must be non-negative", apperrors.ErrInvalidInput)
	}
	if s.NextDayHour < 0 || s.NextDayHour > 23 {
		return fmt.Errorf("%w: next day hour %d outside 0..23", apperrors.ErrInvalidInput, s.NextDayHour)
	}
	if s.WeeklyDay < 0 || s.WeeklyDay > 6 {
		return fmt.Errorf("%w: weekly day %d outside 0..6", apperrors.ErrInvalidInput, s.WeeklyDay)
	}
	if s.MinSessionMinutes < 0 || s.MinActivities < 0 {
		return fmt.Errorf("%w: eligibility thresholds must be non-negative", apperrors.ErrInvalidInput)
	}
	return nil
}

// NewSchedule computes the delivery time for a quiz created at now.
func NewSchedule(now time.Time, sessionID string, kind ScheduleType, summaryPath string, settings Settings) (QuizSchedule, error) {
	if strings.TrimSpace(sessionID) == "" {
		return QuizSchedule{}, fmt.Errorf("%w: session id is required", apperrors.ErrInvalidInput)
	}
	if err := kind.Validate(); err != nil {
		return QuizSchedule{}, err
	}
	if err := settings.Validate(); err != nil {
		return QuizSchedule{}, err
	}
	return QuizSchedule{
		SessionID:    sessionID,
		ScheduleType: kind,
		ScheduledFor: ScheduledFor(now, kind, settings),
		SummaryPath:  summaryPath,
		CreatedAt:    now,
	}, nil
}

// ScheduledFor applies the cadence for kind. Unknown kinds are due at now.
func ScheduledFor(now time.Time, kind ScheduleType, settings Settings) time.Time {
	switch kind {
	case SameDay:
		return now.Add(time.Duration(settings.SameDayDelayHours) * time.Hour)
	case NextDay:
		return atHour(now.AddDate(0, 0, 1), settings.NextDayHour)
	case Weekly:
		daysAhead := settings.WeeklyDay - MondayIndex(now.Weekday())
		if daysAhead <= 0 {
			daysAhead += 7
		}
		return atHour(now.AddDate(0, 0, daysAhead), weeklyHour)
	default:
		return now
	}
}

// MondayIndex converts a weekday to 0=Monday..6=Sunday.
func MondayIndex(day time.Weekday) int {
	return (int(day) + 6) % 7
}

func atHour(day time.Time, hour int) time.Time {
	return time.Date(day.Year(), day.Month(), day.Day(), hour, 0, 0, 0, day.Location())
}
