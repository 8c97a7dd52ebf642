package review

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/guardrail-ai/guardrail/internal/eventlog"
	"github.com/guardrail-ai/guardrail/internal/gate"
	"github.com/guardrail-ai/guardrail/internal/risk"
	"github.com/guardrail-ai/guardrail/internal/types"
)

func flaggedEvent(text string) eventlog.Event {
	return eventlog.Event{
		ID:        types.NewID(),
		Stage:     eventlog.StagePrompt,
		Text:      text,
		Score:     45,
		Level:     risk.LevelMedium,
		Verdict:   gate.VerdictFlagged,
		Timestamp: time.Now().UTC(),
	}
}

func TestEnqueueCreatesPendingItem(t *testing.T) {
	q := New()
	item := q.Enqueue(flaggedEvent("suspicious payload"))

	assert.False(t, item.ID.IsZero())
	assert.Equal(t, StatusPending, item.Status)
	assert.Nil(t, item.ResolvedAt)
	assert.Equal(t, "suspicious payload", item.Event.Text)

	got, ok := q.Get(item.ID)
	require.True(t, ok)
	assert.Equal(t, item.ID, got.ID)
}

func TestPendingOldestFirst(t *testing.T) {
	q := New()
	first := q.Enqueue(flaggedEvent("first"))
	second := q.Enqueue(flaggedEvent("second"))
	third := q.Enqueue(flaggedEvent("third"))

	_, err := q.Resolve(second.ID, OutcomeApproved)
	require.NoError(t, err)

	pending := q.Pending()
	require.Len(t, pending, 2)
	assert.Equal(t, first.ID, pending[0].ID)
	assert.Equal(t, third.ID, pending[1].ID)
}

func TestResolveLifecycle(t *testing.T) {
	q := New()
	item := q.Enqueue(flaggedEvent("payload"))

	resolved, err := q.Resolve(item.ID, OutcomeApproved)
	require.NoError(t, err)
	assert.Equal(t, StatusApproved, resolved.Status)
	require.NotNil(t, resolved.ResolvedAt)
	assert.False(t, resolved.ResolvedAt.Before(resolved.CreatedAt))

	// resolved items stay visible as history
	all := q.All()
	require.Len(t, all, 1)
	assert.Equal(t, StatusApproved, all[0].Status)
	assert.Empty(t, q.Pending())
}

func TestResolveRejected(t *testing.T) {
	q := New()
	item := q.Enqueue(flaggedEvent("payload"))

	resolved, err := q.Resolve(item.ID, OutcomeRejected)
	require.NoError(t, err)
	assert.Equal(t, StatusRejected, resolved.Status)
}

func TestResolveUnknownID(t *testing.T) {
	q := New()

	_, err := q.Resolve(types.NewID(), OutcomeApproved)
	require.Error(t, err)
	assert.Equal(t, types.REVIEW_ITEM_NOT_FOUND, types.CodeOf(err))
}

func TestResolveIsOneShot(t *testing.T) {
	q := New()
	item := q.Enqueue(flaggedEvent("payload"))

	_, err := q.Resolve(item.ID, OutcomeApproved)
	require.NoError(t, err)

	// a second resolution fails even with the same outcome
	_, err = q.Resolve(item.ID, OutcomeApproved)
	require.Error(t, err)
	assert.Equal(t, types.REVIEW_ALREADY_RESOLVED, types.CodeOf(err))

	_, err = q.Resolve(item.ID, OutcomeRejected)
	require.Error(t, err)
	assert.Equal(t, types.REVIEW_ALREADY_RESOLVED, types.CodeOf(err))

	got, ok := q.Get(item.ID)
	require.True(t, ok)
	assert.Equal(t, StatusApproved, got.Status)
}

func TestResolveInvalidOutcome(t *testing.T) {
	q := New()
	item := q.Enqueue(flaggedEvent("payload"))

	_, err := q.Resolve(item.ID, Outcome("escalated"))
	require.Error(t, err)
	assert.Equal(t, types.REVIEW_INVALID_OUTCOME, types.CodeOf(err))

	got, _ := q.Get(item.ID)
	assert.Equal(t, StatusPending, got.Status, "invalid outcome must not consume the item")
}

func TestConcurrentResolveSingleWinner(t *testing.T) {
	q := New()
	item := q.Enqueue(flaggedEvent("contested"))

	const workers = 16
	var wg sync.WaitGroup
	errs := make(chan error, workers)
	for i := 0; i < workers; i++ {
		outcome := OutcomeApproved
		if i%2 == 1 {
			outcome = OutcomeRejected
		}
		wg.Add(1)
		go func(o Outcome) {
			defer wg.Done()
			_, err := q.Resolve(item.ID, o)
			errs <- err
		}(outcome)
	}
	wg.Wait()
	close(errs)

	succeeded := 0
	for err := range errs {
		if err == nil {
			succeeded++
		} else {
			assert.Equal(t, types.REVIEW_ALREADY_RESOLVED, types.CodeOf(err))
		}
	}
	assert.Equal(t, 1, succeeded, "exactly one resolution must win")
}

func TestCounts(t *testing.T) {
	q := New()
	a := q.Enqueue(flaggedEvent("a"))
	b := q.Enqueue(flaggedEvent("b"))
	q.Enqueue(flaggedEvent("c"))

	_, err := q.Resolve(a.ID, OutcomeApproved)
	require.NoError(t, err)
	_, err = q.Resolve(b.ID, OutcomeRejected)
	require.NoError(t, err)

	pending, approved, rejected := q.Counts()
	assert.Equal(t, 1, pending)
	assert.Equal(t, 1, approved)
	assert.Equal(t, 1, rejected)
}
