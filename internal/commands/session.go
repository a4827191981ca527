package commands

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/tally-dev/tally/internal/config"
	"github.com/tally-dev/tally/internal/export"
	"github.com/tally-dev/tally/internal/ledger"
	"github.com/tally-dev/tally/internal/report"
)

const dateFormat = "2006-01-02"

func newSessionCommand() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "session",
		Short: "Start an interactive ledger session",
		Long:  "Starts an in-memory ledger session. Entries live until the session ends; use the export option to keep a copy.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.Default()
			if configPath != "" {
				loaded, err := config.Load(configPath)
				if err != nil {
					return err
				}
				cfg = loaded
			}

			s := &session{
				ledger: ledger.New(),
				cfg:    cfg,
				in:     bufio.NewScanner(cmd.InOrStdin()),
				out:    cmd.OutOrStdout(),
			}
			s.run()
			return nil
		},
	}

	cmd.Flags().StringVar(&configPath, "config", "", "path to tally.yaml")

	return cmd
}

// session holds the state of one interactive run. The ledger is constructed
// here and passed to every report call; nothing is package-global.
type session struct {
	ledger *ledger.Ledger
	cfg    *config.Config
	in     *bufio.Scanner
	out    io.Writer
}

func (s *session) run() {
	for {
		s.printMenu()
		choice, err := s.prompt("Choose an option")
		if err != nil {
			return
		}
		if s.dispatch(choice) {
			return
		}
	}
}

func (s *session) printMenu() {
	fmt.Fprintln(s.out)
	fmt.Fprintln(s.out, "tally — main menu")
	fmt.Fprintln(s.out, " 1. Record expense        2. Record income")
	fmt.Fprintln(s.out, " 3. Show balance          4. List transactions")
	fmt.Fprintln(s.out, " 5. Filter by date        6. Balance for period")
	fmt.Fprintln(s.out, " 7. Monthly summary       8. Forecast balance")
	fmt.Fprintln(s.out, " 9. Spending alert       10. Goal progress")
	fmt.Fprintln(s.out, "11. Top expense category 12. Top spending day")
	fmt.Fprintln(s.out, "13. Yearly breakdown     14. Export to CSV")
	fmt.Fprintln(s.out, " q. Quit")
}

// dispatch runs one menu action. It returns true when the session should end.
func (s *session) dispatch(choice string) bool {
	var err error
	switch choice {
	case "1":
		err = s.recordExpense()
	case "2":
		err = s.recordIncome()
	case "3":
		s.showBalance()
	case "4":
		s.listTransactions()
	case "5":
		err = s.filterByDate()
	case "6":
		err = s.periodBalance()
	case "7":
		err = s.monthlySummary()
	case "8":
		err = s.forecast()
	case "9":
		err = s.spendingAlert()
	case "10":
		err = s.goalProgress()
	case "11":
		err = s.topCategory()
	case "12":
		err = s.topDay()
	case "13":
		err = s.yearlyBreakdown()
	case "14":
		err = s.exportCSV()
	case "q", "quit", "exit":
		fmt.Fprintln(s.out, "Goodbye.")
		return true
	default:
		fmt.Fprintln(s.out, "Unknown option, try again.")
	}
	if err != nil {
		if errors.Is(err, io.EOF) {
			return true
		}
		fmt.Fprintf(s.out, "Error: %v\n", err)
	}
	return false
}

func (s *session) recordExpense() error {
	amount, err := s.promptAmount("Amount")
	if err != nil {
		return err
	}
	desc, err := s.prompt("Description")
	if err != nil {
		return err
	}
	category, err := s.prompt("Category (blank for Other)")
	if err != nil {
		return err
	}
	tx, err := s.ledger.RecordExpense(amount, desc, category)
	if err != nil {
		return err
	}
	fmt.Fprintf(s.out, "Recorded expense of %s (%s, %s).\n", s.money(amount), tx.Description, tx.Category)
	return nil
}

func (s *session) recordIncome() error {
	amount, err := s.promptAmount("Amount")
	if err != nil {
		return err
	}
	desc, err := s.prompt("Description")
	if err != nil {
		return err
	}
	tx, err := s.ledger.RecordIncome(amount, desc)
	if err != nil {
		return err
	}
	fmt.Fprintf(s.out, "Recorded income of %s (%s).\n", s.money(amount), tx.Description)
	return nil
}

func (s *session) showBalance() {
	fmt.Fprintf(s.out, "Current balance: %s\n", s.money(s.ledger.Balance()))
}

func (s *session) listTransactions() {
	txs := s.ledger.Transactions()
	if len(txs) == 0 {
		fmt.Fprintln(s.out, "No transactions recorded.")
		return
	}
	for _, tx := range txs {
		fmt.Fprintf(s.out, "%s  %-7s  %-10s  %s  (balance %s)  %s\n",
			tx.Date.Format(dateFormat), tx.Kind, s.money(tx.Amount),
			tx.Description, s.money(tx.RunningBalance), tx.Category)
	}
}

func (s *session) filterByDate() error {
	start, end, err := s.promptRange()
	if err != nil {
		return err
	}
	txs, err := s.ledger.InRange(start, end)
	if err != nil {
		return err
	}
	if len(txs) == 0 {
		fmt.Fprintln(s.out, "No transactions in that period.")
		return nil
	}
	for _, tx := range txs {
		fmt.Fprintf(s.out, "%s  %-7s  %-10s  %s\n",
			tx.Date.Format(dateFormat), tx.Kind, s.money(tx.Amount), tx.Description)
	}
	return nil
}

func (s *session) periodBalance() error {
	start, end, err := s.promptRange()
	if err != nil {
		return err
	}
	pb, err := report.BalanceInRange(s.ledger, start, end)
	if err != nil {
		return err
	}
	if pb.Count == 0 {
		fmt.Fprintln(s.out, "No transactions in that period.")
		return nil
	}
	fmt.Fprintf(s.out, "Balance from %s to %s: %s (%d transactions)\n",
		start.Format(dateFormat), end.Format(dateFormat), s.money(pb.Total), pb.Count)
	return nil
}

func (s *session) monthlySummary() error {
	monthStr, err := s.prompt("Month (1-12)")
	if err != nil {
		return err
	}
	month, err := parseMonth(monthStr)
	if err != nil {
		return err
	}
	year, err := s.promptYear()
	if err != nil {
		return err
	}
	sum := report.Summary(s.ledger, month, year)
	fmt.Fprintf(s.out, "Summary for %d/%d:\n", month, year)
	fmt.Fprintf(s.out, "  Total income:   %s\n", s.money(sum.TotalIncome))
	fmt.Fprintf(s.out, "  Total expenses: %s\n", s.money(sum.TotalExpense))
	fmt.Fprintf(s.out, "  Net:            %s\n", s.money(sum.Net))
	return nil
}

func (s *session) forecast() error {
	daysStr, err := s.prompt(fmt.Sprintf("Days ahead (blank for %d)", s.cfg.Forecast.Days))
	if err != nil {
		return err
	}
	days := s.cfg.Forecast.Days
	if daysStr != "" {
		days, err = strconv.Atoi(daysStr)
		if err != nil {
			return fmt.Errorf("parsing days %q: %w", daysStr, err)
		}
	}
	projected, err := report.ForecastBalance(s.ledger, days)
	if err != nil {
		return err
	}
	fmt.Fprintf(s.out, "Projected balance in %d days: %s\n", days, s.money(projected))
	return nil
}

func (s *session) spendingAlert() error {
	limit, err := s.cfg.SpendingLimit()
	if err != nil {
		return err
	}
	alert := report.ExpenseAlert(s.ledger, limit)
	if alert.OverLimit {
		fmt.Fprintf(s.out, "Warning: spending of %s is over your %s limit.\n",
			s.money(alert.TotalExpense), s.money(limit))
	} else {
		fmt.Fprintf(s.out, "Spending of %s is within your %s limit.\n",
			s.money(alert.TotalExpense), s.money(limit))
	}
	return nil
}

func (s *session) goalProgress() error {
	target, err := s.cfg.GoalTarget()
	if err != nil {
		return err
	}
	goal := report.GoalGap(s.ledger, target)
	if goal.Reached {
		fmt.Fprintf(s.out, "You have reached your %s goal.\n", s.money(target))
	} else {
		fmt.Fprintf(s.out, "%s to go until your %s goal.\n", s.money(goal.Remaining), s.money(target))
	}
	return nil
}

func (s *session) topCategory() error {
	category, err := report.TopExpenseCategory(s.ledger)
	if err != nil {
		return err
	}
	fmt.Fprintf(s.out, "Most of your expenses are in %q. Consider cutting back there.\n", category)
	return nil
}

func (s *session) topDay() error {
	day, err := report.TopExpenseDay(s.ledger)
	if err != nil {
		return err
	}
	fmt.Fprintf(s.out, "You spend most often on %s.\n", day)
	return nil
}

func (s *session) yearlyBreakdown() error {
	year, err := s.promptYear()
	if err != nil {
		return err
	}
	months, err := report.MonthlyBreakdown(s.ledger, year)
	if err != nil {
		return err
	}
	fmt.Fprintf(s.out, "Net by month for %d:\n", year)
	for _, m := range months {
		fmt.Fprintf(s.out, "  %-9s %s\n", m.Month, s.money(m.Net))
	}
	return nil
}

func (s *session) exportCSV() error {
	path, err := s.prompt("File name (blank for transactions.csv)")
	if err != nil {
		return err
	}
	if path == "" {
		path = "transactions.csv"
	}
	txs := s.ledger.Transactions()
	if err := export.Save(path, txs); err != nil {
		return err
	}
	fmt.Fprintf(s.out, "Exported %d transactions to %s.\n", len(txs), path)
	return nil
}

// prompt prints a label and reads one trimmed line. io.EOF ends the session.
func (s *session) prompt(label string) (string, error) {
	fmt.Fprintf(s.out, "%s: ", label)
	if !s.in.Scan() {
		if err := s.in.Err(); err != nil {
			return "", err
		}
		return "", io.EOF
	}
	return strings.TrimSpace(s.in.Text()), nil
}

func (s *session) promptAmount(label string) (decimal.Decimal, error) {
	raw, err := s.prompt(label)
	if err != nil {
		return decimal.Zero, err
	}
	return parseAmount(raw)
}

func (s *session) promptYear() (int, error) {
	raw, err := s.prompt("Year (YYYY)")
	if err != nil {
		return 0, err
	}
	year, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("parsing year %q: %w", raw, err)
	}
	return year, nil
}

func (s *session) promptRange() (time.Time, time.Time, error) {
	startRaw, err := s.prompt("Start date (YYYY-MM-DD)")
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	start, err := parseDate(startRaw)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	endRaw, err := s.prompt("End date (YYYY-MM-DD)")
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	end, err := parseDate(endRaw)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	return start, end, nil
}

// money renders an amount with the configured currency symbol and fixed
// two-decimal places.
func (s *session) money(d decimal.Decimal) string {
	return formatMoney(s.cfg.Currency.Symbol, d)
}

func formatMoney(symbol string, d decimal.Decimal) string {
	return symbol + d.StringFixed(2)
}

func parseAmount(raw string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Zero, fmt.Errorf("parsing amount %q: %w", raw, err)
	}
	return d, nil
}

func parseDate(raw string) (time.Time, error) {
	t, err := time.Parse(dateFormat, raw)
	if err != nil {
		return time.Time{}, fmt.Errorf("parsing date %q: %w", raw, err)
	}
	return t, nil
}

func parseMonth(raw string) (time.Month, error) {
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("parsing month %q: %w", raw, err)
	}
	if n < 1 || n > 12 {
		return 0, fmt.Errorf("month must be 1-12, got %d", n)
	}
	return time.Month(n), nil
}
