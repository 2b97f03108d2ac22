package domain

import (
	"math"
	"slices"
	"sort"
)

const unknownTopic = "unknown"

// TopicScore counts answers for one question type or tag.
type TopicScore struct {
	Correct int `json:"correct"`
	Total   int `json:"total"`
}

// Percent is the rounded share of correct answers, 0 for an empty bucket.
func (s TopicScore) Percent() int {
	if s.Total == 0 {
		return 0
	}
	return int(math.RoundToEven(float64(s.Correct) / float64(s.Total) * 100))
}

// QuestionOutcome is the per-question part of a result document.
type QuestionOutcome struct {
	Type        string   `json:"type"`
	Tags        []string `json:"tags"`
	Correct     bool     `json:"correct"`
	Partial     bool     `json:"partial"`
	Skipped     bool     `json:"skipped"`
	TimeSeconds int      `json:"time_seconds"`
	SkipReason  string   `json:"skip_reason,omitempty"`
	SkipNote    string   `json:"skip_note,omitempty"`
	Reflection  string   `json:"reflection,omitempty"`
}

type ResultSummary struct {
	Total        int `json:"total"`
	Correct      int `json:"correct"`
	Partial      int `json:"partial"`
	Wrong        int `json:"wrong"`
	Skipped      int `json:"skipped"`
	ScorePercent int `json:"score_percent"`
}

// QuizResult is one completed quiz as written by the runner.
type QuizResult struct {
	ResultID    string                `json:"result_id,omitempty"`
	SessionID   string                `json:"session_id"`
	CompletedAt string                `json:"completed_at,omitempty"`
	Summary     ResultSummary         `json:"summary"`
	ByType      map[string]TopicScore `json:"by_type,omitempty"`
	SkipReasons map[string]int        `json:"skip_reasons"`
	Questions   []QuestionOutcome     `json:"questions"`
}

// Identity names a result for merge bookkeeping. Results without an id or a
// session/completion pair have no identity.
func (r QuizResult) Identity() string {
	if r.ResultID != "" {
		return r.ResultID
	}
	if r.SessionID != "" && r.CompletedAt != "" {
		return r.SessionID + "@" + r.CompletedAt
	}
	return ""
}

// Completion condenses a result into the record attached on completion.
func (r QuizResult) Completion() CompletionResult {
	total := len(r.Questions)
	correct := 0
	for _, q := range r.Questions {
		if q.Correct {
			correct++
		}
	}
	score := 0.0
	if total > 0 {
		score = float64(correct) / float64(total) * 100
	}
	return CompletionResult{Score: score, Total: total, Correct: correct, ResultID: r.Identity()}
}

// MergeResultIntoState folds result into the cumulative topic scores. With
// idempotent set, a result whose identity was merged before is skipped. It
// reports whether the scores changed.
func MergeResultIntoState(state *ProjectState, result QuizResult, idempotent bool) bool {
	state.Normalize()
	identity := result.Identity()
	if idempotent && identity != "" && slices.Contains(state.MergedResults, identity) {
		return false
	}
	for _, q := range result.Questions {
		accumulate(state.TopicScores, q)
	}
	if identity != "" && !slices.Contains(state.MergedResults, identity) {
		state.MergedResults = append(state.MergedResults, identity)
	}
	return true
}

// CalculateTopicScores recomputes the buckets from scratch.
func CalculateTopicScores(results []QuizResult) map[string]TopicScore {
	scores := map[string]TopicScore{}
	for _, r := range results {
		for _, q := range r.Questions {
			accumulate(scores, q)
		}
	}
	return scores
}

// A question counts towards its type bucket and each of its tag buckets.
func accumulate(scores map[string]TopicScore, q QuestionOutcome) {
	kind := q.Type
	if kind == "" {
		kind = unknownTopic
	}
	bump(scores, kind, q.Correct)
	for _, tag := range q.Tags {
		bump(scores, tag, q.Correct)
	}
}

func bump(scores map[string]TopicScore, key string, correct bool) {
	s := scores[key]
	s.Total++
	if correct {
		s.Correct++
	}
	scores[key] = s
}

type RankedTopic struct {
	Topic string
	Score TopicScore
}

// RankTopics orders buckets from weakest to strongest, ties by name.
func RankTopics(scores map[string]TopicScore) []RankedTopic {
	out := make([]RankedTopic, 0, len(scores))
	for topic, score := range scores {
		out = append(out, RankedTopic{Topic: topic, Score: score})
	}
	sort.Slice(out, func(i, j int) bool {
		pi, pj := out[i].Score.Percent(), out[j].Score.Percent()
		if pi != pj {
			return pi < pj
		}
		return out[i].Topic < out[j].Topic
	})
	return out
}
