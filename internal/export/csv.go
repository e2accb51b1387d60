// Package export serializes expense lists for download.
package export

import (
	"fmt"
	"io"

	"fintrack/internal/core"
)

// CSVHeader is the first line of every export.
const CSVHeader = "Vendor,Amount,Date,Category,Credit Card"

// WriteExpensesCSV writes the header and one row per expense in the order
// given. Amounts carry exactly two decimal places, dates are ISO-8601, and
// a detached expense shows N/A for the card. Fields are written as-is,
// without RFC 4180 quoting.
func WriteExpensesCSV(w io.Writer, expenses []core.Expense) error {
	if _, err := fmt.Fprintln(w, CSVHeader); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}
	for _, e := range expenses {
		masked := "N/A"
		if e.Card != nil {
			masked = e.Card.MaskedNumber
		}
		_, err := fmt.Fprintf(w, "%s,%s,%s,%s,%s\n",
			e.Vendor, e.Amount, e.Date.ISO(), e.Category, masked)
		if err != nil {
			return fmt.Errorf("write csv row: %w", err)
		}
	}
	return nil
}
