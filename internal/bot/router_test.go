package bot

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"finbot/internal/core"
	"finbot/internal/ledger/memory"
	applog "finbot/internal/log"
	"finbot/internal/services"
	"finbot/internal/session"
)

func newTestRouter(t *testing.T) (*Router, *session.Store) {
	t.Helper()
	sessions := session.NewStore(time.Minute)
	svc := services.NewLedgerService(memory.New(), nil)
	logger := applog.New(applog.Config{Component: "test"})
	return NewRouter(sessions, svc, 20, logger), sessions
}

func TestStartShowsMainMenu(t *testing.T) {
	r, _ := newTestRouter(t)
	reply := r.HandleMessage(context.Background(), 1, "/start")
	if reply.Text != msgWelcome || reply.Keyboard != KeyboardMain {
		t.Fatalf("start reply = %+v", reply)
	}
}

func TestExpenseConversation(t *testing.T) {
	r, sessions := newTestRouter(t)
	ctx := context.Background()

	reply := r.HandleMessage(ctx, 1, LabelAddExpense)
	if reply.Text != msgExpensePrompt || reply.Keyboard != KeyboardCancel {
		t.Fatalf("entry reply = %+v", reply)
	}
	if sessions.Get(1) != session.AwaitingExpense {
		t.Fatalf("state = %v, want AwaitingExpense", sessions.Get(1))
	}

	reply = r.HandleMessage(ctx, 1, "500 coffee")
	if !strings.Contains(reply.Text, "500") || !strings.Contains(reply.Text, "coffee") {
		t.Fatalf("confirmation missing data: %q", reply.Text)
	}
	if reply.Keyboard != KeyboardMain {
		t.Fatalf("confirmation keyboard = %v, want KeyboardMain", reply.Keyboard)
	}
	if sessions.Get(1) != session.Idle {
		t.Fatalf("state after save = %v, want Idle", sessions.Get(1))
	}
}

func TestParseFailureKeepsSessionAwaiting(t *testing.T) {
	r, sessions := newTestRouter(t)
	ctx := context.Background()

	r.HandleMessage(ctx, 1, LabelAddExpense)
	reply := r.HandleMessage(ctx, 1, "not a number")
	if reply.Text != msgExpenseFormat {
		t.Fatalf("reply = %q, want format error", reply.Text)
	}
	if sessions.Get(1) != session.AwaitingExpense {
		t.Fatalf("state = %v, want AwaitingExpense after a retryable failure", sessions.Get(1))
	}

	// The retry succeeds.
	reply = r.HandleMessage(ctx, 1, "500 coffee")
	if sessions.Get(1) != session.Idle {
		t.Fatalf("state = %v, want Idle after retry", sessions.Get(1))
	}
	if !strings.Contains(reply.Text, "coffee") {
		t.Fatalf("retry confirmation = %q", reply.Text)
	}
}

func TestCancelInterruptsEntry(t *testing.T) {
	r, sessions := newTestRouter(t)
	ctx := context.Background()

	r.HandleMessage(ctx, 1, LabelAddIncome)
	reply := r.HandleMessage(ctx, 1, LabelCancel)
	if reply.Text != msgCancelled || reply.Keyboard != KeyboardMain {
		t.Fatalf("cancel reply = %+v", reply)
	}
	if sessions.Get(1) != session.Idle {
		t.Fatalf("state = %v, want Idle after cancel", sessions.Get(1))
	}
}

func TestControlCommandsDoNotDisturbSession(t *testing.T) {
	r, sessions := newTestRouter(t)
	ctx := context.Background()

	r.HandleMessage(ctx, 1, LabelAddExpense)
	reply := r.HandleMessage(ctx, 1, LabelBalance)
	if !strings.Contains(reply.Text, "Balance") {
		t.Fatalf("balance reply = %q", reply.Text)
	}
	if sessions.Get(1) != session.AwaitingExpense {
		t.Fatalf("state = %v, balance must not alter the session", sessions.Get(1))
	}
}

func TestOverlappingEntryCommandsResetAwaitedKind(t *testing.T) {
	r, sessions := newTestRouter(t)
	ctx := context.Background()

	r.HandleMessage(ctx, 1, LabelAddExpense)
	r.HandleMessage(ctx, 1, LabelAddIncome)
	if sessions.Get(1) != session.AwaitingIncome {
		t.Fatalf("state = %v, want AwaitingIncome", sessions.Get(1))
	}
}

func TestUnrecognizedInputWhileIdle(t *testing.T) {
	r, sessions := newTestRouter(t)
	reply := r.HandleMessage(context.Background(), 1, "abc")
	if reply.Text != msgUnrecognized {
		t.Fatalf("reply = %q, want unrecognized hint", reply.Text)
	}
	if sessions.Get(1) != session.Idle {
		t.Fatalf("state = %v, want Idle", sessions.Get(1))
	}
}

func TestTodayTotalsScenario(t *testing.T) {
	r, _ := newTestRouter(t)
	ctx := context.Background()

	r.HandleMessage(ctx, 1, LabelAddExpense)
	r.HandleMessage(ctx, 1, "500 coffee")
	r.HandleMessage(ctx, 1, LabelAddExpense)
	r.HandleMessage(ctx, 1, "300 coffee")

	reply := r.HandleMessage(ctx, 1, LabelToday)
	if !strings.Contains(reply.Text, "Coffee: 800") {
		t.Fatalf("today totals = %q, want coffee summed to 800", reply.Text)
	}
}

func TestEmptyPeriodReply(t *testing.T) {
	r, _ := newTestRouter(t)
	reply := r.HandleMessage(context.Background(), 1, LabelWeek)
	if !strings.Contains(reply.Text, msgNothingInPeriod) {
		t.Fatalf("empty period reply = %q", reply.Text)
	}
}

func TestHistoryAndDelete(t *testing.T) {
	r, _ := newTestRouter(t)
	ctx := context.Background()

	r.HandleMessage(ctx, 1, LabelAddExpense)
	r.HandleMessage(ctx, 1, "500 coffee")
	r.HandleMessage(ctx, 1, LabelAddIncome)
	r.HandleMessage(ctx, 1, "10000 salary")

	reply := r.HandleMessage(ctx, 1, "/history")
	if !strings.Contains(reply.Text, "E1") || !strings.Contains(reply.Text, "I1") {
		t.Fatalf("history = %q, want both reference codes", reply.Text)
	}

	reply = r.HandleMessage(ctx, 1, "/delete E1")
	if !strings.Contains(reply.Text, "E1") || !strings.Contains(reply.Text, "500") {
		t.Fatalf("delete reply = %q", reply.Text)
	}
	reply = r.HandleMessage(ctx, 1, "/delete E1")
	if !strings.Contains(reply.Text, "Nothing found") {
		t.Fatalf("second delete reply = %q", reply.Text)
	}
	reply = r.HandleMessage(ctx, 1, "/delete nonsense")
	if reply.Text != msgDeleteUsage {
		t.Fatalf("malformed code reply = %q", reply.Text)
	}
	reply = r.HandleMessage(ctx, 1, "/delete")
	if reply.Text != msgDeleteUsage {
		t.Fatalf("missing argument reply = %q", reply.Text)
	}
}

func TestHistoryLimitArgument(t *testing.T) {
	r, _ := newTestRouter(t)
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		r.HandleMessage(ctx, 1, LabelAddExpense)
		r.HandleMessage(ctx, 1, "100 snacks")
	}

	reply := r.HandleMessage(ctx, 1, "/history 2")
	if got := len(strings.Split(reply.Text, "\n")); got != 2 {
		t.Fatalf("history lines = %d, want 2", got)
	}
	if reply := r.HandleMessage(ctx, 1, "/history nope"); reply.Text != msgHistoryUsage {
		t.Fatalf("bad limit reply = %q", reply.Text)
	}
}

func TestDeleteIsOwnerScoped(t *testing.T) {
	r, _ := newTestRouter(t)
	ctx := context.Background()

	r.HandleMessage(ctx, 1, LabelAddExpense)
	r.HandleMessage(ctx, 1, "500 coffee")

	reply := r.HandleMessage(ctx, 2, "/delete E1")
	if !strings.Contains(reply.Text, "Nothing found") {
		t.Fatalf("foreign delete reply = %q", reply.Text)
	}
	// Still present for the owner.
	reply = r.HandleMessage(ctx, 1, "/history")
	if !strings.Contains(reply.Text, "E1") {
		t.Fatalf("record vanished after foreign delete: %q", reply.Text)
	}
}

func TestStoreFailureKeepsSessionRetryable(t *testing.T) {
	sessions := session.NewStore(time.Minute)
	svc := services.NewLedgerService(&failingStore{}, nil)
	logger := applog.New(applog.Config{Component: "test"})
	r := NewRouter(sessions, svc, 20, logger)
	ctx := context.Background()

	r.HandleMessage(ctx, 1, LabelAddExpense)
	reply := r.HandleMessage(ctx, 1, "500 coffee")
	if reply.Text != msgStoreError {
		t.Fatalf("reply = %q, want transient store error", reply.Text)
	}
	if sessions.Get(1) != session.AwaitingExpense {
		t.Fatalf("state = %v, want AwaitingExpense kept for retry", sessions.Get(1))
	}
}

// failingStore reports a persistence failure on every operation.
type failingStore struct{}

var errStoreDown = errors.New("disk on fire")

func (f *failingStore) AppendExpense(context.Context, int64, int64, string, time.Time) (int64, error) {
	return 0, errStoreDown
}

func (f *failingStore) AppendIncome(context.Context, int64, int64, string, time.Time) (int64, error) {
	return 0, errStoreDown
}

func (f *failingStore) SumByCategorySince(context.Context, int64, core.Kind, time.Time) ([]core.CategoryTotal, error) {
	return nil, errStoreDown
}

func (f *failingStore) SumAll(context.Context, int64, core.Kind) (int64, error) {
	return 0, errStoreDown
}

func (f *failingStore) Recent(context.Context, int64, int) ([]core.Transaction, error) {
	return nil, errStoreDown
}

func (f *failingStore) Delete(context.Context, int64, core.RefCode) (core.Transaction, error) {
	return core.Transaction{}, errStoreDown
}
