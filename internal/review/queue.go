// Package review holds flagged evaluations pending a human approve/reject
// decision. Items never expire or escalate; a pending item stays visible
// until someone resolves it, and a resolved item stays in the queue as a
// historical record.
package review

import (
	"sync"
	"time"

	"github.com/guardrail-ai/guardrail/internal/eventlog"
	"github.com/guardrail-ai/guardrail/internal/types"
)

// Status is the lifecycle state of a review item. PENDING is the only
// non-terminal state.
type Status string

const (
	StatusPending  Status = "pending"
	StatusApproved Status = "approved"
	StatusRejected Status = "rejected"
)

// Outcome is a human disposition for a pending item.
type Outcome string

const (
	OutcomeApproved Outcome = "approved"
	OutcomeRejected Outcome = "rejected"
)

// Item is one flagged evaluation awaiting disposition. It references its
// originating event and transitions PENDING to APPROVED or REJECTED exactly
// once.
type Item struct {
	ID         types.ID       `json:"id"`
	Event      eventlog.Event `json:"event"`
	Status     Status         `json:"status"`
	CreatedAt  time.Time      `json:"created_at"`
	ResolvedAt *time.Time     `json:"resolved_at,omitempty"`
}

// Queue is a mutex-guarded review queue. Enqueue and Resolve serialize, so
// two resolutions of the same item can never race to different terminal
// outcomes.
type Queue struct {
	mu    sync.Mutex
	items []*Item
	byID  map[types.ID]*Item
}

// New creates an empty review queue.
func New() *Queue {
	return &Queue{byID: make(map[types.ID]*Item)}
}

// Enqueue creates a PENDING item for a flagged event and returns a copy.
func (q *Queue) Enqueue(e eventlog.Event) Item {
	q.mu.Lock()
	defer q.mu.Unlock()

	item := &Item{
		ID:        types.NewID(),
		Event:     e,
		Status:    StatusPending,
		CreatedAt: time.Now().UTC(),
	}
	q.items = append(q.items, item)
	q.byID[item.ID] = item
	return *item
}

// Pending returns the items still awaiting disposition, oldest first.
func (q *Queue) Pending() []Item {
	q.mu.Lock()
	defer q.mu.Unlock()

	var out []Item
	for _, item := range q.items {
		if item.Status == StatusPending {
			out = append(out, *item)
		}
	}
	return out
}

// All returns every item, resolved or not, in enqueue order.
func (q *Queue) All() []Item {
	q.mu.Lock()
	defer q.mu.Unlock()

	out := make([]Item, len(q.items))
	for i, item := range q.items {
		out[i] = *item
	}
	return out
}

// Get returns the item with the given id, if any.
func (q *Queue) Get(id types.ID) (Item, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()

	item, ok := q.byID[id]
	if !ok {
		return Item{}, false
	}
	return *item, true
}

// Resolve transitions a pending item to the given outcome. It fails with
// REVIEW_ITEM_NOT_FOUND for unknown ids and REVIEW_ALREADY_RESOLVED when
// the item has left PENDING; the transition is one-shot and non-reentrant.
func (q *Queue) Resolve(id types.ID, outcome Outcome) (Item, error) {
	var status Status
	switch outcome {
	case OutcomeApproved:
		status = StatusApproved
	case OutcomeRejected:
		status = StatusRejected
	default:
		return Item{}, types.NewErrorf(types.REVIEW_INVALID_OUTCOME, "unknown outcome %q", outcome)
	}

	q.mu.Lock()
	defer q.mu.Unlock()

	item, ok := q.byID[id]
	if !ok {
		return Item{}, types.NewErrorf(types.REVIEW_ITEM_NOT_FOUND, "review item %s not found", id)
	}
	if item.Status != StatusPending {
		return Item{}, types.NewErrorf(types.REVIEW_ALREADY_RESOLVED,
			"review item %s already resolved to %s", id, item.Status)
	}

	now := time.Now().UTC()
	item.Status = status
	item.ResolvedAt = &now
	return *item, nil
}

// Counts reports the queue composition by status.
func (q *Queue) Counts() (pending, approved, rejected int) {
	q.mu.Lock()
	defer q.mu.Unlock()

	for _, item := range q.items {
		switch item.Status {
		case StatusPending:
			pending++
		case StatusApproved:
			approved++
		case StatusRejected:
			rejected++
		}
	}
	return pending, approved, rejected
}
