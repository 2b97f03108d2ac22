package domain

import (
	"fmt"
	"math"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	apperrors "quizhook/internal/platform/errors"
)

const unknownType = "unknown"

type Question struct {
	Type           string   `json:"type"`
	Question       string   `json:"question"`
	ExpectedAnswer string   `json:"expected_answer"`
	Tags           []string `json:"tags"`
	Context        string   `json:"context"`
	Difficulty     string   `json:"difficulty,omitempty"`
}

// Kind is the question type used for scoring.
func (q Question) Kind() string {
	if q.Type == "" {
		return unknownType
	}
	return q.Type
}

// Hint reveals the first third of the expected answer.
func (q Question) Hint() string {
	runes := []rune(q.ExpectedAnswer)
	return string(runes[:len(runes)/3]) + "..."
}

// Quiz is the question generator's output file.
type Quiz struct {
	GeneratedAt   string     `json:"generated_at"`
	QuestionCount int        `json:"question_count"`
	Questions     []Question `json:"questions"`
}

type Grade int

const (
	GradeCorrect Grade = iota + 1
	GradePartial
	GradeWrong
)

// ParseGrade maps the self-grading keys c, p and w.
func ParseGrade(key string) (Grade, error) {
	switch strings.ToLower(strings.TrimSpace(key)) {
	case "c":
		return GradeCorrect, nil
	case "p":
		return GradePartial, nil
	case "w":
		return GradeWrong, nil
	default:
		return 0, fmt.Errorf("%w: grade must be c, p or w", apperrors.ErrInvalidInput)
	}
}

type SkipReason string

const (
	SkipTimePressure SkipReason = "time_pressure"
	SkipAlreadyKnow  SkipReason = "already_know"
	SkipUnclear      SkipReason = "unclear"
	SkipOther        SkipReason = "other"
)

// ParseSkipKey maps the skip prompt keys t, k, u and o.
func ParseSkipKey(key string) (SkipReason, error) {
	switch strings.ToLower(strings.TrimSpace(key)) {
	case "t":
		return SkipTimePressure, nil
	case "k":
		return SkipAlreadyKnow, nil
	case "u":
		return SkipUnclear, nil
	case "o":
		return SkipOther, nil
	default:
		return "", fmt.Errorf("%w: skip reason must be t, k, u or o", apperrors.ErrInvalidInput)
	}
}

// Answer is the outcome of one question.
type Answer struct {
	Question   Question
	Grade      Grade
	Skipped    bool
	SkipReason SkipReason
	SkipNote   string
	Reflection string
	Elapsed    time.Duration
}

func Answered(q Question, grade Grade, reflection string, elapsed time.Duration) Answer {
	return Answer{Question: q, Grade: grade, Reflection: strings.TrimSpace(reflection), Elapsed: elapsed}
}

func Skipped(q Question, reason SkipReason, note string, elapsed time.Duration) Answer {
	return Answer{Question: q, Skipped: true, SkipReason: reason, SkipNote: strings.TrimSpace(note), Elapsed: elapsed}
}

func (a Answer) Correct() bool { return !a.Skipped && a.Grade == GradeCorrect }
func (a Answer) Partial() bool { return !a.Skipped && a.Grade == GradePartial }

type Outcome struct {
	Type        string
	Tags        []string
	Correct     bool
	Partial     bool
	Skipped     bool
	TimeSeconds int
	SkipReason  string
	SkipNote    string
	Reflection  string
}

type Summary struct {
	Total        int
	Correct      int
	Partial      int
	Wrong        int
	Skipped      int
	ScorePercent int
}

type TypeScore struct {
	Correct int
	Total   int
}

// Result is a finished quiz ready to be stored.
type Result struct {
	ResultID    string
	SessionID   string
	CompletedAt time.Time
	Summary     Summary
	ByType      map[string]TypeScore
	SkipReasons map[string]int
	Questions   []Outcome
}

// BuildResult tallies answers into a result document. Wrong is whatever is
// neither correct, partial nor skipped.
func BuildResult(resultID, sessionID string, completedAt time.Time, answers []Answer) Result {
	result := Result{
		ResultID:    resultID,
		SessionID:   sessionID,
		CompletedAt: completedAt,
		ByType:      map[string]TypeScore{},
		SkipReasons: map[string]int{},
		Questions:   make([]Outcome, 0, len(answers)),
	}
	for _, a := range answers {
		kind := a.Question.Kind()
		tags := a.Question.Tags
		if tags == nil {
			tags = []string{}
		}
		outcome := Outcome{
			Type:        kind,
			Tags:        tags,
			Correct:     a.Correct(),
			Partial:     a.Partial(),
			Skipped:     a.Skipped,
			TimeSeconds: int(a.Elapsed / time.Second),
			Reflection:  a.Reflection,
		}
		score := result.ByType[kind]
		score.Total++
		switch {
		case a.Skipped:
			result.Summary.Skipped++
			outcome.SkipReason = string(a.SkipReason)
			outcome.SkipNote = a.SkipNote
			if a.SkipReason != "" {
				result.SkipReasons[string(a.SkipReason)]++
			}
		case outcome.Correct:
			result.Summary.Correct++
			score.Correct++
		case outcome.Partial:
			result.Summary.Partial++
		}
		result.ByType[kind] = score
		result.Questions = append(result.Questions, outcome)
	}
	result.Summary.Total = len(answers)
	result.Summary.Wrong = result.Summary.Total - result.Summary.Correct - result.Summary.Partial - result.Summary.Skipped
	if result.Summary.Total > 0 {
		result.Summary.ScorePercent = int(math.RoundToEven(float64(result.Summary.Correct) / float64(result.Summary.Total) * 100))
	}
	return result
}

// DueQuiz is a pending quiz whose time has come.
type DueQuiz struct {
	SessionID    string
	Type         string
	ScheduledFor time.Time
}

// Receipt reports what the ledger did with a finished quiz.
type Receipt struct {
	ResultPath     string
	RemovedPending int
	Merged         bool
}

var datePrefix = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}-`)

// SessionFromQuizPath recovers the session id from quiz file names of the
// form <session>-quiz.json or <date>-<session>-quiz.json.
func SessionFromQuizPath(path string) string {
	name := filepath.Base(path)
	name = strings.TrimSuffix(name, ".json")
	name = strings.TrimSuffix(name, "-quiz")
	name = datePrefix.ReplaceAllString(name, "")
	if name == "" {
		return unknownType
	}
	return name
}
