package core

import (
	"regexp"
	"strconv"
	"strings"
	"unicode"
)

// Accepts "500 food", "500.00 food", "500,50 food". The fractional part is
// matched but discarded: amounts are kept in whole units.
var expensePattern = regexp.MustCompile(`^\s*(\d+)(?:[.,]\d{1,2})?\s+(.+?)\s*$`)

// Non-breaking, narrow and thin spaces show up when amounts are pasted from
// other apps; they must count as separators.
var spaceNormalizer = strings.NewReplacer("\u00a0", " ", "\u202f", " ", "\u2009", " ")

// NormalizeSpaces replaces exotic space characters with plain spaces.
func NormalizeSpaces(s string) string {
	return spaceNormalizer.Replace(s)
}

// ParseExpense parses "<digits>[.,<1-2 digits>] <category>" into an amount
// and a lowercased category. isControl guards against a recognized menu
// label being swallowed as transaction input; it may be nil.
func ParseExpense(text string, isControl func(string) bool) (int64, string, error) {
	text = NormalizeSpaces(text)
	if isControl != nil && isControl(strings.TrimSpace(text)) {
		return 0, "", ErrBadFormat
	}
	m := expensePattern.FindStringSubmatch(text)
	if m == nil {
		return 0, "", ErrBadFormat
	}
	amount, err := strconv.ParseInt(m[1], 10, 64)
	if err != nil || amount <= 0 {
		return 0, "", ErrBadFormat
	}
	return amount, strings.ToLower(m[2]), nil
}

// ParseIncome parses "<digits> <category>" where the category is the whole
// remainder after the first whitespace run and may itself contain spaces.
func ParseIncome(text string, isControl func(string) bool) (int64, string, error) {
	text = strings.TrimSpace(NormalizeSpaces(text))
	if isControl != nil && isControl(text) {
		return 0, "", ErrBadFormat
	}
	sep := strings.IndexFunc(text, unicode.IsSpace)
	if sep < 0 {
		return 0, "", ErrBadFormat
	}
	amountToken := text[:sep]
	category := strings.TrimSpace(text[sep:])
	if category == "" || !allDigits(amountToken) {
		return 0, "", ErrBadFormat
	}
	amount, err := strconv.ParseInt(amountToken, 10, 64)
	if err != nil || amount <= 0 {
		return 0, "", ErrBadFormat
	}
	return amount, strings.ToLower(category), nil
}

func allDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
