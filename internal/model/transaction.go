package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Kind classifies a transaction as money in or money out.
type Kind string

const (
	KindExpense Kind = "expense"
	KindIncome  Kind = "income"
)

// Transaction is one recorded income or expense event. It is immutable once
// appended to a ledger.
type Transaction struct {
	Date           time.Time // day granularity, midnight UTC
	Kind           Kind
	Description    string
	Amount         decimal.Decimal // negative = expense, positive = income
	Category       string          // always "Income" for income entries
	RunningBalance decimal.Decimal // ledger balance right after this entry
}
