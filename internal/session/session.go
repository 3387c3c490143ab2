package session

import (
	"context"
	"sync"
	"time"
)

const (
	Idle State = iota
	AwaitingExpense
	AwaitingIncome
)

// State is the per-user interaction mode: either idle or waiting for the
// text of one transaction kind. At most one awaiting mode exists per user;
// a second entry command simply replaces the awaited kind.
type State int

func (s State) String() string {
	switch s {
	case AwaitingExpense:
		return "awaiting_expense"
	case AwaitingIncome:
		return "awaiting_income"
	default:
		return "idle"
	}
}

// Store keeps sessions in process memory keyed by user id. Sessions are
// evicted after an idle TTL and are lost on restart; both are accepted
// limitations, since losing a session only means the user re-taps an
// entry button.
type Store struct {
	mu      sync.Mutex
	ttl     time.Duration
	entries map[int64]entry
	now     func() time.Time
}

type entry struct {
	state   State
	touched time.Time
}

func NewStore(ttl time.Duration) *Store {
	return &Store{
		ttl:     ttl,
		entries: make(map[int64]entry),
		now:     time.Now,
	}
}

// Get returns the user's current state, treating an expired session as
// Idle.
func (s *Store) Get(userID int64) State {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.entries[userID]
	if !ok {
		return Idle
	}
	if s.ttl > 0 && s.now().Sub(e.touched) > s.ttl {
		delete(s.entries, userID)
		return Idle
	}
	return e.state
}

// Set records the user's state. Setting Idle releases the entry.
func (s *Store) Set(userID int64, state State) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if state == Idle {
		delete(s.entries, userID)
		return
	}
	s.entries[userID] = entry{state: state, touched: s.now()}
}

// Reset returns the user to Idle.
func (s *Store) Reset(userID int64) {
	s.Set(userID, Idle)
}

// PurgeExpired drops sessions idle for longer than the TTL and reports how
// many were evicted.
func (s *Store) PurgeExpired() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.ttl <= 0 {
		return 0
	}
	cutoff := s.now().Add(-s.ttl)
	evicted := 0
	for userID, e := range s.entries {
		if e.touched.Before(cutoff) {
			delete(s.entries, userID)
			evicted++
		}
	}
	return evicted
}

// Run sweeps expired sessions until the context is cancelled.
func (s *Store) Run(ctx context.Context, interval time.Duration) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			s.PurgeExpired()
		}
	}
}
