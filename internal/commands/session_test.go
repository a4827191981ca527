package commands

import (
	"bufio"
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tally-dev/tally/internal/config"
	"github.com/tally-dev/tally/internal/ledger"
)

// runSession feeds scripted input to an interactive session and returns
// everything it printed.
func runSession(t *testing.T, lines ...string) string {
	t.Helper()
	var out bytes.Buffer
	s := &session{
		ledger: ledger.New(),
		cfg:    config.Default(),
		in:     bufio.NewScanner(strings.NewReader(strings.Join(lines, "\n") + "\n")),
		out:    &out,
	}
	s.run()
	return out.String()
}

func TestSession_RecordAndBalance(t *testing.T) {
	out := runSession(t,
		"1", "50.00", "Lunch", "", // expense, default category
		"2", "1000.00", "Salary", // income
		"3", // show balance
		"q",
	)

	assert.Contains(t, out, "Recorded expense of $50.00 (Lunch, Other).")
	assert.Contains(t, out, "Recorded income of $1000.00 (Salary).")
	assert.Contains(t, out, "Current balance: $950.00")
	assert.Contains(t, out, "Goodbye.")
}

func TestSession_ValidationErrorReprompts(t *testing.T) {
	out := runSession(t,
		"1", "-5.00", "Oops", "",
		"3",
		"q",
	)

	assert.Contains(t, out, "Error: amount must be positive")
	assert.Contains(t, out, "Current balance: $0.00", "failed insert must not change the balance")
}

func TestSession_ListEmpty(t *testing.T) {
	out := runSession(t, "4", "q")
	assert.Contains(t, out, "No transactions recorded.")
}

func TestSession_ReportsWithoutExpenses(t *testing.T) {
	out := runSession(t,
		"2", "100.00", "Salary",
		"11",
		"q",
	)
	assert.Contains(t, out, "Error: no expense transactions recorded")
}

func TestSession_GoalAndAlert(t *testing.T) {
	out := runSession(t,
		"2", "600.00", "Salary",
		"10", // goal progress against default 1000.00 target
		"9",  // spending alert with no expenses
		"q",
	)
	assert.Contains(t, out, "$400.00 to go until your $1000.00 goal.")
	assert.Contains(t, out, "Spending of $0.00 is within your $500.00 limit.")
}

func TestSession_ExportCSV(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.csv")
	out := runSession(t,
		"1", "20.00", "Coffee", "",
		"14", path,
		"q",
	)
	assert.Contains(t, out, "Exported 1 transactions to "+path)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(data), "date,kind,description,amount,running_balance,category"))
	assert.Contains(t, string(data), "Coffee")
}

func TestSession_UnknownOption(t *testing.T) {
	out := runSession(t, "99", "q")
	assert.Contains(t, out, "Unknown option, try again.")
}

func TestSession_EndsOnEOF(t *testing.T) {
	var out bytes.Buffer
	s := &session{
		ledger: ledger.New(),
		cfg:    config.Default(),
		in:     bufio.NewScanner(strings.NewReader("")),
		out:    &out,
	}
	s.run() // must return, not loop forever
	assert.Contains(t, out.String(), "main menu")
}

func TestSessionCommand_EndToEnd(t *testing.T) {
	cmd := NewRootCommand()
	cmd.SetArgs([]string{"session"})
	cmd.SetIn(strings.NewReader("3\nq\n"))

	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)

	err := cmd.Execute()
	require.NoError(t, err)
	assert.Contains(t, out.String(), "Current balance: $0.00")
}

func TestParseAmount(t *testing.T) {
	d, err := parseAmount("12.34")
	require.NoError(t, err)
	assert.Equal(t, "12.34", d.StringFixed(2))

	_, err = parseAmount("twelve")
	require.Error(t, err)
}

func TestParseDate(t *testing.T) {
	d, err := parseDate("2025-06-15")
	require.NoError(t, err)
	assert.Equal(t, 2025, d.Year())

	_, err = parseDate("15/06/2025")
	require.Error(t, err)
}

func TestParseMonth(t *testing.T) {
	m, err := parseMonth("3")
	require.NoError(t, err)
	assert.Equal(t, "March", m.String())

	_, err = parseMonth("0")
	require.Error(t, err)
	_, err = parseMonth("13")
	require.Error(t, err)
	_, err = parseMonth("x")
	require.Error(t, err)
}

func TestFormatMoney(t *testing.T) {
	d, err := parseAmount("5")
	require.NoError(t, err)
	assert.Equal(t, "$5.00", formatMoney("$", d))
	assert.Equal(t, "€5.00", formatMoney("€", d))
}
