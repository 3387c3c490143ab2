package bot

import (
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"

	"finbot/internal/core"
)

// User-facing texts. Wording is presentation detail; the data inside
// (amounts, categories, codes, totals) is contract.
const (
	msgWelcome         = "Welcome! Choose an action:"
	msgChooseAction    = "Choose an action:"
	msgExpensePrompt   = "Enter the expense, for example: 500 coffee"
	msgIncomePrompt    = "Enter the income amount and category, for example: 10000 salary"
	msgExpenseFormat   = "⚠️ Wrong format. Example: 500 coffee"
	msgIncomeFormat    = "❌ Wrong format. Example: 10000 salary"
	msgCancelled       = "🚫 Action cancelled."
	msgStoreError      = "💥 Database error. Please try again."
	msgChoosePeriod    = "Choose a period:"
	msgNothingInPeriod = "No spending in this period."
	msgNoHistory       = "No transactions recorded yet."
	msgAnalyzeStub     = "🧠 Analysis is still in the works."
	msgUnrecognized    = "❓ Command not recognized. Choose one of the buttons below."
	msgHistoryUsage    = "Usage: /history [count]"
	msgDeleteUsage     = "Usage: /delete <code>, for example: /delete E123"
)

func formatBalance(s core.BalanceSummary) string {
	return fmt.Sprintf("💰 Income: %d ₽\n💸 Expenses: %d ₽\n🧾 Balance: %d ₽",
		s.Income, s.Expense, s.Net)
}

func formatTotals(header string, totals []core.CategoryTotal) string {
	if len(totals) == 0 {
		return header + "\n" + msgNothingInPeriod
	}
	lines := make([]string, 0, len(totals)+1)
	lines = append(lines, header)
	for _, ct := range totals {
		lines = append(lines, fmt.Sprintf("%s: %d ₽", capitalize(ct.Category), ct.Total))
	}
	return strings.Join(lines, "\n")
}

func formatHistory(entries []core.Transaction) string {
	if len(entries) == 0 {
		return msgNoHistory
	}
	lines := make([]string, 0, len(entries))
	for _, tx := range entries {
		// Income carries only a day; expenses keep their time of day.
		when := tx.At.Format("2006-01-02 15:04")
		if tx.Kind == core.Income {
			when = tx.At.Format("2006-01-02")
		}
		lines = append(lines, fmt.Sprintf("%s  %s  %s  %d ₽",
			tx.Code(), when, tx.Category, tx.Amount))
	}
	return strings.Join(lines, "\n")
}

func formatSaved(tx core.Transaction) string {
	if tx.Kind == core.Income {
		return fmt.Sprintf("✅ Income %d ₽ from «%s» saved (%s).", tx.Amount, tx.Category, tx.Code())
	}
	return fmt.Sprintf("✅ Expense %d ₽ on «%s» saved (%s).", tx.Amount, tx.Category, tx.Code())
}

func formatDeleted(tx core.Transaction) string {
	return fmt.Sprintf("🗑 Deleted %s: %d ₽ «%s».", tx.Code(), tx.Amount, tx.Category)
}

func formatNotFound(code string) string {
	return fmt.Sprintf("Nothing found for code %s.", strings.ToUpper(strings.TrimSpace(code)))
}

func capitalize(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return s
	}
	return string(unicode.ToUpper(r)) + s[size:]
}
