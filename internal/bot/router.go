package bot

import (
	"context"
	"errors"
	"strconv"
	"strings"

	"finbot/internal/core"
	applog "finbot/internal/log"
	"finbot/internal/services"
	"finbot/internal/session"
)

// maxHistoryLimit caps an explicit /history argument.
const maxHistoryLimit = 100

// Reply is what the engine hands back to the transport: text plus the
// keyboard to render. KeyboardNone leaves the current keyboard in place.
type Reply struct {
	Text     string
	Keyboard Keyboard
}

// Router dispatches inbound text: control inputs first, in table order,
// then the session-awaited grammar, then the unrecognized-input fallback.
// Control inputs always win over data entry, so a menu press while the
// engine awaits a transaction line interrupts the entry instead of being
// parsed as data.
type Router struct {
	sessions     *session.Store
	svc          *services.LedgerService
	historyLimit int
	log          *applog.Logger
	routes       []route
}

type route struct {
	match  func(text string) bool
	handle func(ctx context.Context, userID int64, text string) Reply
}

func NewRouter(sessions *session.Store, svc *services.LedgerService, historyLimit int, logger *applog.Logger) *Router {
	if historyLimit <= 0 {
		historyLimit = services.DefaultHistoryLimit
	}
	r := &Router{
		sessions:     sessions,
		svc:          svc,
		historyLimit: historyLimit,
		log:          logger,
	}
	r.routes = []route{
		{exact(CommandStart), r.handleStart},
		{exact(CommandCancel, LabelCancel), r.handleCancel},
		{exact(LabelCategories), r.handleCategories},
		{exact(LabelToday), r.periodHandler(core.Today, "📅 Today:")},
		{exact(LabelWeek), r.periodHandler(core.Week, "🗓 This week:")},
		{exact(LabelMonth), r.periodHandler(core.Month, "📆 This month:")},
		{exact(LabelBalance), r.handleBalance},
		{exact(LabelAnalyze), r.handleAnalyze},
		{exact(LabelBack), r.handleBack},
		{withArgs(CommandHistory), r.handleHistory},
		{withArgs(CommandDelete), r.handleDelete},
		{exact(LabelAddExpense), r.handleAddExpense},
		{exact(LabelAddIncome), r.handleAddIncome},
	}
	return r
}

// HandleMessage processes one inbound message for one user and returns
// the reply. Units of work for the same user arrive one at a time; the
// session store serializes the rest.
func (r *Router) HandleMessage(ctx context.Context, userID int64, text string) Reply {
	trimmed := strings.TrimSpace(core.NormalizeSpaces(text))

	for _, rt := range r.routes {
		if rt.match(trimmed) {
			return rt.handle(ctx, userID, trimmed)
		}
	}

	switch r.sessions.Get(userID) {
	case session.AwaitingExpense:
		return r.saveExpense(ctx, userID, trimmed)
	case session.AwaitingIncome:
		return r.saveIncome(ctx, userID, trimmed)
	}
	return Reply{Text: msgUnrecognized, Keyboard: KeyboardMain}
}

// exact matches the whole input against one of the given labels,
// case-insensitively.
func exact(labels ...string) func(string) bool {
	return func(text string) bool {
		for _, label := range labels {
			if strings.EqualFold(text, label) {
				return true
			}
		}
		return false
	}
}

// withArgs matches a command by its first token, leaving arguments to the
// handler.
func withArgs(command string) func(string) bool {
	return func(text string) bool {
		fields := strings.Fields(text)
		return len(fields) > 0 && strings.EqualFold(fields[0], command)
	}
}

func (r *Router) handleStart(_ context.Context, _ int64, _ string) Reply {
	return Reply{Text: msgWelcome, Keyboard: KeyboardMain}
}

func (r *Router) handleCancel(_ context.Context, userID int64, _ string) Reply {
	r.sessions.Reset(userID)
	return Reply{Text: msgCancelled, Keyboard: KeyboardMain}
}

func (r *Router) handleAddExpense(_ context.Context, userID int64, _ string) Reply {
	r.sessions.Set(userID, session.AwaitingExpense)
	return Reply{Text: msgExpensePrompt, Keyboard: KeyboardCancel}
}

func (r *Router) handleAddIncome(_ context.Context, userID int64, _ string) Reply {
	r.sessions.Set(userID, session.AwaitingIncome)
	return Reply{Text: msgIncomePrompt, Keyboard: KeyboardCancel}
}

func (r *Router) handleCategories(_ context.Context, _ int64, _ string) Reply {
	return Reply{Text: msgChoosePeriod, Keyboard: KeyboardPeriods}
}

func (r *Router) handleBack(_ context.Context, _ int64, _ string) Reply {
	return Reply{Text: msgChooseAction, Keyboard: KeyboardMain}
}

func (r *Router) handleAnalyze(_ context.Context, _ int64, _ string) Reply {
	return Reply{Text: msgAnalyzeStub, Keyboard: KeyboardMain}
}

func (r *Router) handleBalance(ctx context.Context, userID int64, _ string) Reply {
	summary, err := r.svc.Balance(ctx, userID)
	if err != nil {
		r.log.Error("Failed to compute balance", "user_id", userID, "error", err)
		return Reply{Text: msgStoreError}
	}
	return Reply{Text: formatBalance(summary)}
}

func (r *Router) periodHandler(period core.Period, header string) func(context.Context, int64, string) Reply {
	return func(ctx context.Context, userID int64, _ string) Reply {
		totals, err := r.svc.CategoryTotals(ctx, userID, period)
		if err != nil {
			r.log.Error("Failed to compute category totals",
				"user_id", userID, "period", string(period), "error", err)
			return Reply{Text: msgStoreError}
		}
		return Reply{Text: formatTotals(header, totals)}
	}
}

func (r *Router) handleHistory(ctx context.Context, userID int64, text string) Reply {
	args := strings.Fields(text)[1:]
	limit := r.historyLimit
	switch len(args) {
	case 0:
	case 1:
		n, err := strconv.Atoi(args[0])
		if err != nil || n <= 0 {
			return Reply{Text: msgHistoryUsage}
		}
		limit = min(n, maxHistoryLimit)
	default:
		return Reply{Text: msgHistoryUsage}
	}

	entries, err := r.svc.History(ctx, userID, limit)
	if err != nil {
		r.log.Error("Failed to load history", "user_id", userID, "error", err)
		return Reply{Text: msgStoreError}
	}
	return Reply{Text: formatHistory(entries)}
}

func (r *Router) handleDelete(ctx context.Context, userID int64, text string) Reply {
	args := strings.Fields(text)[1:]
	if len(args) != 1 {
		return Reply{Text: msgDeleteUsage}
	}

	removed, err := r.svc.DeleteByCode(ctx, userID, args[0])
	switch {
	case errors.Is(err, core.ErrBadRefCode):
		return Reply{Text: msgDeleteUsage}
	case errors.Is(err, core.ErrNotFound):
		return Reply{Text: formatNotFound(args[0])}
	case err != nil:
		r.log.Error("Failed to delete transaction",
			"user_id", userID, "ref_code", args[0], "error", err)
		return Reply{Text: msgStoreError}
	}
	return Reply{Text: formatDeleted(removed)}
}

// saveExpense handles text while the session awaits an expense line. Any
// failure keeps the session awaiting so the user can resubmit.
func (r *Router) saveExpense(ctx context.Context, userID int64, text string) Reply {
	amount, category, err := core.ParseExpense(text, IsControlInput)
	if err != nil {
		return Reply{Text: msgExpenseFormat}
	}

	tx, err := r.svc.RecordExpense(ctx, userID, amount, category)
	if err != nil {
		r.log.Error("Failed to save expense", "user_id", userID, "error", err)
		return Reply{Text: msgStoreError}
	}

	r.sessions.Reset(userID)
	return Reply{Text: formatSaved(tx), Keyboard: KeyboardMain}
}

func (r *Router) saveIncome(ctx context.Context, userID int64, text string) Reply {
	amount, category, err := core.ParseIncome(text, IsControlInput)
	if err != nil {
		return Reply{Text: msgIncomeFormat}
	}

	tx, err := r.svc.RecordIncome(ctx, userID, amount, category)
	if err != nil {
		r.log.Error("Failed to save income", "user_id", userID, "error", err)
		return Reply{Text: msgStoreError}
	}

	r.sessions.Reset(userID)
	return Reply{Text: formatSaved(tx), Keyboard: KeyboardMain}
}
