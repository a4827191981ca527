package ledger

import (
	"errors"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/tally-dev/tally/internal/model"
)

// Errors reported by ledger mutations and queries.
var (
	ErrInvalidAmount      = errors.New("amount must be positive")
	ErrInvalidDescription = errors.New("description must not be empty")
	ErrInvalidRange       = errors.New("start date is after end date")
)

// DefaultExpenseCategory is stamped on expenses recorded without a category.
const DefaultExpenseCategory = "Other"

// IncomeCategory is stamped on every income entry; income entries are not
// categorized by the user.
const IncomeCategory = "Income"

// Ledger is the append-only in-memory collection of transactions plus the
// running balance. A ledger is owned by a single session and accessed
// sequentially; it holds no state beyond the process lifetime.
type Ledger struct {
	transactions []model.Transaction
	balance      decimal.Decimal
	now          func() time.Time
}

// New creates an empty ledger with a zero balance.
func New() *Ledger {
	return NewWithClock(time.Now)
}

// NewWithClock creates an empty ledger that stamps entry dates from the given
// clock instead of time.Now.
func NewWithClock(now func() time.Time) *Ledger {
	return &Ledger{balance: decimal.Zero, now: now}
}

// RecordExpense appends an expense entry dated today and decrements the
// balance by amount. The stored amount is negated so expenses carry a
// negative sign. An empty category defaults to DefaultExpenseCategory.
func (l *Ledger) RecordExpense(amount decimal.Decimal, description, category string) (model.Transaction, error) {
	if err := validate(amount, description); err != nil {
		return model.Transaction{}, err
	}
	if strings.TrimSpace(category) == "" {
		category = DefaultExpenseCategory
	}
	return l.append(model.KindExpense, amount.Neg(), description, category), nil
}

// RecordIncome appends an income entry dated today and increments the balance
// by amount.
func (l *Ledger) RecordIncome(amount decimal.Decimal, description string) (model.Transaction, error) {
	if err := validate(amount, description); err != nil {
		return model.Transaction{}, err
	}
	return l.append(model.KindIncome, amount, description, IncomeCategory), nil
}

func validate(amount decimal.Decimal, description string) error {
	if amount.Sign() <= 0 {
		return ErrInvalidAmount
	}
	if description == "" {
		return ErrInvalidDescription
	}
	return nil
}

// append updates the balance and stamps the post-append value on the new
// transaction. Validation happens before this point, so the balance and the
// transaction list never disagree.
func (l *Ledger) append(kind model.Kind, signed decimal.Decimal, description, category string) model.Transaction {
	l.balance = l.balance.Add(signed)
	tx := model.Transaction{
		Date:           Day(l.now()),
		Kind:           kind,
		Description:    description,
		Amount:         signed,
		Category:       category,
		RunningBalance: l.balance,
	}
	l.transactions = append(l.transactions, tx)
	return tx
}

// Balance returns the current running total.
func (l *Ledger) Balance() decimal.Decimal {
	return l.balance
}

// Transactions returns all entries in insertion order.
func (l *Ledger) Transactions() []model.Transaction {
	out := make([]model.Transaction, len(l.transactions))
	copy(out, l.transactions)
	return out
}

// InRange returns the entries whose date falls within [start, end], both ends
// inclusive, preserving insertion order. An empty selection is a nil slice,
// not an error.
func (l *Ledger) InRange(start, end time.Time) ([]model.Transaction, error) {
	start, end = Day(start), Day(end)
	if start.After(end) {
		return nil, ErrInvalidRange
	}
	var out []model.Transaction
	for _, tx := range l.transactions {
		if tx.Date.Before(start) || tx.Date.After(end) {
			continue
		}
		out = append(out, tx)
	}
	return out, nil
}

// Day truncates a time to its calendar date at midnight UTC.
func Day(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
