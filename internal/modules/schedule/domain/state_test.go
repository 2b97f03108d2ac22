package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "quizhook/internal/platform/errors"
)

var base = time.Date(2026, 5, 6, 10, 0, 0, 0, time.Local)

func pending(id string, at time.Time) QuizSchedule {
	return QuizSchedule{SessionID: id, ScheduleType: SameDay, ScheduledFor: at, CreatedAt: base}
}

func TestFreshStateHasNothingDue(t *testing.T) {
	t.Parallel()
	state := NewProjectState("demo")
	assert.Empty(t, state.Sessions)
	assert.Empty(t, state.PendingQuizzes)
	assert.Empty(t, state.CompletedQuizzes)
	assert.NotNil(t, state.DueQuizzes(base))
	assert.Empty(t, state.DueQuizzes(base))
	_, ok := state.NextScheduled()
	assert.False(t, ok)
}

func TestDueQuizzesIsInclusiveAndKeepsInsertionOrder(t *testing.T) {
	t.Parallel()
	state := NewProjectState("demo")
	state.PendingQuizzes = []QuizSchedule{
		pending("late", base.Add(-time.Minute)),
		pending("future", base.Add(time.Second)),
		pending("exact", base),
		pending("early", base.Add(-48*time.Hour)),
	}
	due := state.DueQuizzes(base)
	ids := make([]string, 0, len(due))
	for _, q := range due {
		ids = append(ids, q.SessionID)
	}
	assert.Equal(t, []string{"late", "exact", "early"}, ids)

	next, ok := state.NextScheduled()
	require.True(t, ok)
	assert.Equal(t, "early", next.SessionID)
}

func TestAddPendingQuizUniqueness(t *testing.T) {
	t.Parallel()
	state := NewProjectState("demo")
	require.NoError(t, state.AddPendingQuiz(pending("s1", base), true))
	err := state.AddPendingQuiz(pending("s1", base.Add(time.Hour)), true)
	require.ErrorIs(t, err, apperrors.ErrDuplicatePending)
	assert.Len(t, state.PendingQuizzes, 1)

	require.NoError(t, state.AddPendingQuiz(pending("s1", base.Add(time.Hour)), false))
	assert.Len(t, state.PendingQuizzes, 2)
	assert.Equal(t, []string{"s1"}, state.Sessions)

	err = state.AddPendingQuiz(QuizSchedule{SessionID: "s2"}, false)
	require.ErrorIs(t, err, apperrors.ErrInvalidScheduleType)
}

func TestMarkQuizCompletedRemovesEveryPendingDuplicate(t *testing.T) {
	t.Parallel()
	state := NewProjectState("demo")
	require.NoError(t, state.AddPendingQuiz(pending("s1", base), false))
	require.NoError(t, state.AddPendingQuiz(pending("s2", base), false))
	require.NoError(t, state.AddPendingQuiz(pending("s1", base), false))

	removed := state.MarkQuizCompleted("s1", CompletionResult{Score: 50, Total: 2, Correct: 1}, base.Add(time.Hour))
	assert.Equal(t, 2, removed)
	assert.False(t, state.IsPending("s1"))
	for _, q := range state.DueQuizzes(base.Add(24 * time.Hour)) {
		assert.NotEqual(t, "s1", q.SessionID)
	}
	require.Len(t, state.CompletedQuizzes, 1)
	assert.Equal(t, base.Add(time.Hour), state.CompletedQuizzes[0].CompletedAt)
	outcome, ok := state.CompletedQuizzes[0].Outcome()
	require.True(t, ok)
	assert.Equal(t, CompletionResult{Score: 50, Total: 2, Correct: 1}, outcome)
}

func TestMarkQuizCompletedTwiceAppendsAnotherRecord(t *testing.T) {
	t.Parallel()
	state := NewProjectState("demo")
	assert.Equal(t, 0, state.MarkQuizCompleted("ghost", CompletionResult{}, base))
	assert.Equal(t, 0, state.MarkQuizCompleted("ghost", CompletionResult{}, base))
	assert.Equal(t, 2, state.CompletionCount("ghost"))
}

func TestCompletedQuizOutcomeRejectsForeignShape(t *testing.T) {
	t.Parallel()
	_, ok := CompletedQuiz{Result: []byte(`{"score":"n/a","total":"3"}`)}.Outcome()
	assert.False(t, ok)
	_, ok = CompletedQuiz{}.Outcome()
	assert.False(t, ok)
	_, ok = CompletedQuiz{Result: []byte("null")}.Outcome()
	assert.False(t, ok)
	outcome, ok := CompletedQuiz{Result: []byte(`{"score":50,"total":2,"note":"x"}`)}.Outcome()
	require.True(t, ok)
	assert.Equal(t, 2, outcome.Total)
}

func TestOnDemandScenario(t *testing.T) {
	t.Parallel()
	state := NewProjectState("demo")
	for _, id := range []string{"a", "b", "c"} {
		q, err := NewSchedule(base, id, OnDemand, "", DefaultSettings())
		require.NoError(t, err)
		require.NoError(t, state.AddPendingQuiz(q, true))
	}
	assert.Len(t, state.DueQuizzes(base), 3)

	state.MarkQuizCompleted("b", CompletionResult{}, base)
	assert.Len(t, state.DueQuizzes(base), 2)
	assert.Len(t, state.CompletedQuizzes, 1)
}

func TestNormalizeFillsNilCollections(t *testing.T) {
	t.Parallel()
	state := ProjectState{Project: "x"}
	state.Normalize()
	assert.NotNil(t, state.Sessions)
	assert.NotNil(t, state.PendingQuizzes)
	assert.NotNil(t, state.CompletedQuizzes)
	assert.NotNil(t, state.TopicScores)
	assert.NotNil(t, state.MergedResults)
}
