package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/tally-dev/tally/internal/model"
)

// Header is the CSV header for an exported transaction table.
const Header = "date,kind,description,amount,running_balance,category"

const (
	numFields  = 6
	dateFormat = "2006-01-02"
	colDate    = 0
	colKind    = 1
	colDesc    = 2
	colAmount  = 3
	colBalance = 4
	colCat     = 5
)

// WriteTransactions writes transactions as CSV (including header), one row
// per transaction, insertion order preserved.
func WriteTransactions(w io.Writer, txs []model.Transaction) error {
	cw := csv.NewWriter(w)
	defer cw.Flush()

	if err := cw.Write(strings.Split(Header, ",")); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}

	for i, tx := range txs {
		if err := cw.Write(MarshalTransaction(tx)); err != nil {
			return fmt.Errorf("writing row %d: %w", i+2, err)
		}
	}
	return cw.Error()
}

// ReadTransactions reads an exported transaction table back from CSV.
func ReadTransactions(r io.Reader) ([]model.Transaction, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = numFields

	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading transactions CSV: %w", err)
	}

	if len(records) == 0 {
		return nil, nil
	}

	// Skip header row.
	var txs []model.Transaction
	for i, rec := range records[1:] {
		tx, err := UnmarshalTransaction(rec)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+2, err)
		}
		txs = append(txs, tx)
	}
	return txs, nil
}

// Save writes transactions to a CSV file at path, replacing any existing file.
func Save(path string, txs []model.Transaction) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating export file: %w", err)
	}
	defer f.Close()

	if err := WriteTransactions(f, txs); err != nil {
		return fmt.Errorf("writing export file: %w", err)
	}
	return nil
}

// MarshalTransaction converts a Transaction to a CSV row ([]string).
func MarshalTransaction(tx model.Transaction) []string {
	row := make([]string, numFields)
	row[colDate] = tx.Date.Format(dateFormat)
	row[colKind] = string(tx.Kind)
	row[colDesc] = tx.Description
	row[colAmount] = tx.Amount.StringFixed(2)
	row[colBalance] = tx.RunningBalance.StringFixed(2)
	row[colCat] = tx.Category
	return row
}

// UnmarshalTransaction converts a CSV row to a Transaction.
func UnmarshalTransaction(record []string) (model.Transaction, error) {
	if len(record) != numFields {
		return model.Transaction{}, fmt.Errorf("expected %d fields, got %d", numFields, len(record))
	}

	date, err := time.Parse(dateFormat, record[colDate])
	if err != nil {
		return model.Transaction{}, fmt.Errorf("parsing date %q: %w", record[colDate], err)
	}

	kind := model.Kind(record[colKind])
	if kind != model.KindExpense && kind != model.KindIncome {
		return model.Transaction{}, fmt.Errorf("unknown kind %q", record[colKind])
	}

	amount, err := decimal.NewFromString(record[colAmount])
	if err != nil {
		return model.Transaction{}, fmt.Errorf("parsing amount %q: %w", record[colAmount], err)
	}

	balance, err := decimal.NewFromString(record[colBalance])
	if err != nil {
		return model.Transaction{}, fmt.Errorf("parsing running_balance %q: %w", record[colBalance], err)
	}

	return model.Transaction{
		Date:           date,
		Kind:           kind,
		Description:    record[colDesc],
		Amount:         amount,
		RunningBalance: balance,
		Category:       record[colCat],
	}, nil
}
