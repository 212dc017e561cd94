package history

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"strconv"
	"time"
)

// ExportCSV renders the user's full history as a CSV document with a
// trailing summary block.
func (s *Service) ExportCSV(ctx context.Context, userID string, now time.Time) ([]byte, error) {
	entries, err := s.AllForExport(ctx, userID)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	records := [][]string{
		{"Date", "Transaction Type", "Amount", "Status", "Reference Number", "Description"},
	}
	for _, entry := range entries {
		records = append(records, []string{
			entry.FormattedDate,
			entry.TypeDisplay,
			entry.FormattedAmount,
			entry.StatusDisplay,
			entry.Reference,
			entry.Description,
		})
	}
	records = append(records,
		[]string{"Summary"},
		[]string{"Total Transactions", strconv.Itoa(len(entries))},
		[]string{"Export Date", now.Format(dateDisplayFormat)},
	)

	if err := w.WriteAll(records); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// ExportStatement renders the user's full history as a plain text statement.
func (s *Service) ExportStatement(ctx context.Context, userID string, now time.Time) ([]byte, error) {
	entries, err := s.AllForExport(ctx, userID)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	fmt.Fprintln(&buf, "PAYMENT HISTORY STATEMENT")
	fmt.Fprintf(&buf, "Generated: %s\n", now.Format(dateDisplayFormat))
	fmt.Fprintln(&buf, "=====================================")
	fmt.Fprintln(&buf)

	for _, entry := range entries {
		fmt.Fprintf(&buf, "Date: %s\n", entry.FormattedDate)
		fmt.Fprintf(&buf, "Type: %s\n", entry.TypeDisplay)
		fmt.Fprintf(&buf, "Amount: %s\n", entry.FormattedAmount)
		fmt.Fprintf(&buf, "Status: %s\n", entry.StatusDisplay)
		fmt.Fprintf(&buf, "Reference: %s\n", entry.Reference)
		fmt.Fprintf(&buf, "Description: %s\n", entry.Description)
		fmt.Fprintln(&buf, "-------------------------------------")
	}

	fmt.Fprintf(&buf, "Total Transactions: %d\n", len(entries))
	return buf.Bytes(), nil
}
