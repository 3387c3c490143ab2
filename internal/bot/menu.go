package bot

import "strings"

// Button labels recognized as control inputs. Matching is case-insensitive;
// the labels themselves are immutable data rendered by the transport.
const (
	LabelAddIncome  = "📩 Add income"
	LabelAddExpense = "📤 Add expense"
	LabelBalance    = "💰 Balance"
	LabelToday      = "📅 Today"
	LabelAnalyze    = "🧠 Analyze"
	LabelCategories = "📊 Categories"
	LabelCancel     = "❌ Cancel"
	LabelWeek       = "🗓 Week"
	LabelMonth      = "📆 Month"
	LabelBack       = "⬅️ Back"
)

// Slash commands accepted alongside the buttons.
const (
	CommandStart   = "/start"
	CommandCancel  = "/cancel"
	CommandHistory = "/history"
	CommandDelete  = "/delete"
)

// Keyboard tells the transport which reply keyboard to render with a
// reply. The router never builds transport-specific markup.
type Keyboard int

const (
	KeyboardNone Keyboard = iota
	KeyboardMain
	KeyboardCancel
	KeyboardPeriods
)

// Keyboard layouts as plain row data.
var (
	MainKeyboardRows = [][]string{
		{LabelAddIncome, LabelAddExpense},
		{LabelBalance, LabelToday},
		{LabelAnalyze, LabelCategories},
		{LabelCancel},
	}

	CancelKeyboardRows = [][]string{
		{LabelCancel},
	}

	PeriodsKeyboardRows = [][]string{
		{LabelToday, LabelWeek},
		{LabelMonth, LabelBack},
		{LabelCancel},
	}
)

var controlInputs = []string{
	LabelAddIncome, LabelAddExpense, LabelBalance, LabelToday,
	LabelAnalyze, LabelCategories, LabelCancel, LabelWeek, LabelMonth,
	LabelBack, CommandStart, CommandCancel, CommandHistory, CommandDelete,
}

// IsControlInput reports whether text is a recognized control input, so
// that a menu press is never swallowed as transaction data.
func IsControlInput(text string) bool {
	text = strings.TrimSpace(text)
	for _, label := range controlInputs {
		if strings.EqualFold(text, label) {
			return true
		}
	}
	return false
}
