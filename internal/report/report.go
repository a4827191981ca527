package report

import (
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/tally-dev/tally/internal/ledger"
	"github.com/tally-dev/tally/internal/model"
)

// Errors reported when an aggregate is requested over an empty qualifying set.
var (
	ErrNoExpenseData = errors.New("no expense transactions recorded")
	ErrNoDataForYear = errors.New("no transactions recorded for year")
)

const dateFormat = "2006-01-02"

// PeriodBalance is the net movement over an inclusive date range. Count
// reports how many entries matched, so callers can tell an empty period from
// one that genuinely nets to zero.
type PeriodBalance struct {
	Total decimal.Decimal
	Count int
}

// BalanceInRange sums signed amounts over [start, end].
func BalanceInRange(l *ledger.Ledger, start, end time.Time) (PeriodBalance, error) {
	txs, err := l.InRange(start, end)
	if err != nil {
		return PeriodBalance{}, err
	}
	total := decimal.Zero
	for _, tx := range txs {
		total = total.Add(tx.Amount)
	}
	return PeriodBalance{Total: total, Count: len(txs)}, nil
}

// MonthlySummary totals one calendar month. TotalExpense is an absolute
// value; Net = TotalIncome - TotalExpense.
type MonthlySummary struct {
	TotalIncome  decimal.Decimal
	TotalExpense decimal.Decimal
	Net          decimal.Decimal
}

// Summary computes income, expense, and net totals for the given month.
func Summary(l *ledger.Ledger, month time.Month, year int) MonthlySummary {
	income := decimal.Zero
	expense := decimal.Zero
	for _, tx := range l.Transactions() {
		if tx.Date.Year() != year || tx.Date.Month() != month {
			continue
		}
		if tx.Kind == model.KindIncome {
			income = income.Add(tx.Amount)
		} else {
			expense = expense.Add(tx.Amount)
		}
	}
	expense = expense.Abs()
	return MonthlySummary{
		TotalIncome:  income,
		TotalExpense: expense,
		Net:          income.Sub(expense),
	}
}

// ForecastBalance projects the balance days ahead by extrapolating the mean
// signed expense amount. The mean is per recorded expense entry, not per
// calendar day; that is the ledger's contract and callers must not assume a
// daily rate.
func ForecastBalance(l *ledger.Ledger, days int) (decimal.Decimal, error) {
	if days < 0 {
		return decimal.Zero, fmt.Errorf("forecast days must be non-negative, got %d", days)
	}
	sum := decimal.Zero
	count := 0
	for _, tx := range l.Transactions() {
		if tx.Kind != model.KindExpense {
			continue
		}
		sum = sum.Add(tx.Amount)
		count++
	}
	if count == 0 {
		return decimal.Zero, ErrNoExpenseData
	}
	mean := sum.Div(decimal.NewFromInt(int64(count)))
	return l.Balance().Add(mean.Mul(decimal.NewFromInt(int64(days)))), nil
}

// Alert is the result of comparing total spending against a limit.
type Alert struct {
	OverLimit    bool
	TotalExpense decimal.Decimal
}

// ExpenseAlert totals absolute expense amounts across the whole ledger and
// compares them against threshold. OverLimit means strictly greater.
func ExpenseAlert(l *ledger.Ledger, threshold decimal.Decimal) Alert {
	total := decimal.Zero
	for _, tx := range l.Transactions() {
		if tx.Kind == model.KindExpense {
			total = total.Add(tx.Amount.Abs())
		}
	}
	return Alert{OverLimit: total.GreaterThan(threshold), TotalExpense: total}
}

// Goal reports progress toward a savings target.
type Goal struct {
	Reached   bool
	Remaining decimal.Decimal
}

// GoalGap compares the current balance against target. Remaining is zero once
// the target is reached, never negative.
func GoalGap(l *ledger.Ledger, target decimal.Decimal) Goal {
	balance := l.Balance()
	if balance.GreaterThanOrEqual(target) {
		return Goal{Reached: true, Remaining: decimal.Zero}
	}
	return Goal{Remaining: target.Sub(balance)}
}

// TopExpenseCategory returns the most frequent expense category, counted by
// number of entries rather than amount. Ties go to the category seen first in
// insertion order.
func TopExpenseCategory(l *ledger.Ledger) (string, error) {
	return expenseMode(l, func(tx model.Transaction) string { return tx.Category })
}

// TopExpenseDay returns the date (YYYY-MM-DD) with the most expense entries,
// with the same tie-break as TopExpenseCategory.
func TopExpenseDay(l *ledger.Ledger) (string, error) {
	return expenseMode(l, func(tx model.Transaction) string { return tx.Date.Format(dateFormat) })
}

// expenseMode finds the most frequent key over expense entries. The first-
// encountered key wins on equal counts, so results are deterministic.
func expenseMode(l *ledger.Ledger, key func(model.Transaction) string) (string, error) {
	counts := make(map[string]int)
	var order []string
	for _, tx := range l.Transactions() {
		if tx.Kind != model.KindExpense {
			continue
		}
		k := key(tx)
		if _, seen := counts[k]; !seen {
			order = append(order, k)
		}
		counts[k]++
	}
	if len(order) == 0 {
		return "", ErrNoExpenseData
	}
	best := order[0]
	for _, k := range order[1:] {
		if counts[k] > counts[best] {
			best = k
		}
	}
	return best, nil
}

// MonthNet is the signed total for one calendar month.
type MonthNet struct {
	Month time.Month
	Net   decimal.Decimal
}

// MonthlyBreakdown sums signed amounts per calendar month of the given year.
// Only months with at least one entry appear, in ascending month order.
func MonthlyBreakdown(l *ledger.Ledger, year int) ([]MonthNet, error) {
	totals := make(map[time.Month]decimal.Decimal)
	for _, tx := range l.Transactions() {
		if tx.Date.Year() != year {
			continue
		}
		m := tx.Date.Month()
		totals[m] = totals[m].Add(tx.Amount)
	}
	if len(totals) == 0 {
		return nil, ErrNoDataForYear
	}
	var out []MonthNet
	for m := time.January; m <= time.December; m++ {
		if net, ok := totals[m]; ok {
			out = append(out, MonthNet{Month: m, Net: net})
		}
	}
	return out, nil
}
