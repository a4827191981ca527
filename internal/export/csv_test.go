package export

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tally-dev/tally/internal/model"
)

func date(y, m, d int) time.Time {
	return time.Date(y, time.Month(m), d, 0, 0, 0, 0, time.UTC)
}

func dec(s string) decimal.Decimal {
	d, _ := decimal.NewFromString(s)
	return d
}

func TestRoundTrip(t *testing.T) {
	txs := []model.Transaction{
		{
			Date:           date(2025, 1, 3),
			Kind:           model.KindExpense,
			Description:    "Lunch",
			Amount:         dec("-50.00"),
			RunningBalance: dec("-50.00"),
			Category:       "Food",
		},
		{
			Date:           date(2025, 1, 4),
			Kind:           model.KindIncome,
			Description:    "Salary",
			Amount:         dec("1000.00"),
			RunningBalance: dec("950.00"),
			Category:       "Income",
		},
	}

	var buf bytes.Buffer
	err := WriteTransactions(&buf, txs)
	require.NoError(t, err)

	// Verify header is present.
	assert.True(t, strings.HasPrefix(buf.String(), "date,kind,description,amount,running_balance,category"))

	got, err := ReadTransactions(&buf)
	require.NoError(t, err)
	require.Len(t, got, 2)

	for i := range txs {
		assert.True(t, txs[i].Date.Equal(got[i].Date))
		assert.Equal(t, txs[i].Kind, got[i].Kind)
		assert.Equal(t, txs[i].Description, got[i].Description)
		assert.True(t, txs[i].Amount.Equal(got[i].Amount), "amount mismatch row %d", i)
		assert.True(t, txs[i].RunningBalance.Equal(got[i].RunningBalance), "balance mismatch row %d", i)
		assert.Equal(t, txs[i].Category, got[i].Category)
	}
}

func TestFixedTwoDecimalFormatting(t *testing.T) {
	tx := model.Transaction{
		Date:           date(2025, 1, 10),
		Kind:           model.KindExpense,
		Description:    "Snack",
		Amount:         dec("-4.5"),
		RunningBalance: dec("995.5"),
		Category:       "Food",
	}

	row := MarshalTransaction(tx)
	assert.Equal(t, "-4.50", row[colAmount], "amounts are written with two decimal places")
	assert.Equal(t, "995.50", row[colBalance])
	assert.Equal(t, "2025-01-10", row[colDate])
}

func TestZeroRunningBalance(t *testing.T) {
	// A zero running balance is a real value and must survive the trip.
	tx := model.Transaction{
		Date:           date(2025, 1, 10),
		Kind:           model.KindIncome,
		Description:    "Refund",
		Amount:         dec("25.00"),
		RunningBalance: decimal.Zero,
		Category:       "Income",
	}

	row := MarshalTransaction(tx)
	assert.Equal(t, "0.00", row[colBalance])

	got, err := UnmarshalTransaction(row)
	require.NoError(t, err)
	assert.True(t, got.RunningBalance.IsZero())
}

func TestSpecialCharactersInDescription(t *testing.T) {
	tx := model.Transaction{
		Date:           date(2025, 1, 15),
		Kind:           model.KindExpense,
		Description:    `Dinner, "La Tavola" & tip`,
		Amount:         dec("-85.00"),
		RunningBalance: dec("-85.00"),
		Category:       "Food",
	}

	var buf bytes.Buffer
	err := WriteTransactions(&buf, []model.Transaction{tx})
	require.NoError(t, err)

	got, err := ReadTransactions(&buf)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, tx.Description, got[0].Description)
}

func TestUnmarshalTransaction_UnknownKind(t *testing.T) {
	row := []string{"2025-01-10", "transfer", "x", "1.00", "1.00", "Other"}
	_, err := UnmarshalTransaction(row)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown kind")
}

func TestReadTransactions_Empty(t *testing.T) {
	txs, err := ReadTransactions(strings.NewReader(""))
	require.NoError(t, err)
	assert.Nil(t, txs)
}

func TestReadTransactions_HeaderOnly(t *testing.T) {
	txs, err := ReadTransactions(strings.NewReader(Header + "\n"))
	require.NoError(t, err)
	assert.Empty(t, txs)
}

func TestSave(t *testing.T) {
	path := filepath.Join(t.TempDir(), "transactions.csv")
	txs := []model.Transaction{
		{
			Date:           date(2025, 1, 3),
			Kind:           model.KindExpense,
			Description:    "Coffee",
			Amount:         dec("-3.20"),
			RunningBalance: dec("-3.20"),
			Category:       "Other",
		},
	}

	err := Save(path, txs)
	require.NoError(t, err)

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()

	got, err := ReadTransactions(f)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "Coffee", got[0].Description)
}
