package core

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

const (
	Expense Kind = "expense"
	Income  Kind = "income"
)

type (
	// Kind discriminates the two record kinds in the ledger.
	Kind string

	// Transaction is one recorded expense or income. Expense rows carry a
	// precise timestamp; income rows only a day, which compares as midnight
	// when merged into history.
	Transaction struct {
		ID       int64
		UserID   int64
		Amount   int64 // whole currency units, always > 0
		Category string
		At       time.Time
		Kind     Kind
	}

	// RefCode is the stable external handle for one transaction: the kind
	// letter followed by the numeric id, e.g. E123 or I7.
	RefCode struct {
		Kind Kind
		ID   int64
	}
)

var (
	ErrBadFormat     = errors.New("input does not match the expected format")
	ErrBadRefCode    = errors.New("malformed reference code")
	ErrNotFound      = errors.New("transaction not found")
	ErrInvalidAmount = errors.New("invalid amount")
	ErrEmptyCategory = errors.New("empty category")
	ErrInvalidKind   = errors.New("invalid transaction kind")
)

func (k Kind) Validate() error {
	switch k {
	case Expense, Income:
		return nil
	}
	return ErrInvalidKind
}

// Letter returns the kind discriminator used in reference codes.
func (k Kind) Letter() string {
	if k == Income {
		return "I"
	}
	return "E"
}

func (t Transaction) Validate() error {
	if err := t.Kind.Validate(); err != nil {
		return err
	}
	if t.Amount <= 0 {
		return ErrInvalidAmount
	}
	if strings.TrimSpace(t.Category) == "" {
		return ErrEmptyCategory
	}
	return nil
}

// Code returns the transaction's reference code.
func (t Transaction) Code() RefCode {
	return RefCode{Kind: t.Kind, ID: t.ID}
}

func (c RefCode) String() string {
	return c.Kind.Letter() + strconv.FormatInt(c.ID, 10)
}

// ParseRefCode reverses RefCode.String. The kind letter is accepted in
// either case; the id must be a positive decimal number.
func ParseRefCode(s string) (RefCode, error) {
	s = strings.TrimSpace(s)
	if len(s) < 2 {
		return RefCode{}, ErrBadRefCode
	}
	var kind Kind
	switch s[0] {
	case 'E', 'e':
		kind = Expense
	case 'I', 'i':
		kind = Income
	default:
		return RefCode{}, ErrBadRefCode
	}
	id, err := strconv.ParseInt(s[1:], 10, 64)
	if err != nil || id <= 0 {
		return RefCode{}, ErrBadRefCode
	}
	return RefCode{Kind: kind, ID: id}, nil
}

const (
	Today Period = "today"
	Week  Period = "week"
	Month Period = "month"
)

// Period bounds a category aggregation query. Periods are sliding windows
// counted back from now, not calendar boundaries.
type Period string

func (p Period) Validate() error {
	switch p {
	case Today, Week, Month:
		return nil
	}
	return fmt.Errorf("invalid period %q", string(p))
}

func (p Period) Duration() time.Duration {
	switch p {
	case Week:
		return 7 * 24 * time.Hour
	case Month:
		return 30 * 24 * time.Hour
	default:
		return 24 * time.Hour
	}
}
