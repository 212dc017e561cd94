// Package history aggregates the per-type transaction records into one
// combined payment history with filtering, paging, and file export.
package history

import (
	"fmt"
	"time"

	"github.com/relief-hub/relief_hub/internal/cashsend"
	"github.com/relief-hub/relief_hub/internal/electricity"
	"github.com/relief-hub/relief_hub/internal/money"
	"github.com/relief-hub/relief_hub/internal/withdraw"
)

// Transaction types in the combined history.
const (
	TypeWithdrawal  = "WITHDRAWAL"
	TypeCashSend    = "CASH_SEND"
	TypeElectricity = "ELECTRICITY"
)

const dateDisplayFormat = "02 Jan 2006 15:04"

// Entry is one combined history row. Every transaction type reduces to the
// same shape; flow-specific details land in the description.
type Entry struct {
	ID              string       `json:"transactionId"`
	Type            string       `json:"transactionType"`
	TypeDisplay     string       `json:"typeDisplayName"`
	Amount          money.Amount `json:"amount"`
	Fee             money.Amount `json:"fee"`
	FormattedAmount string       `json:"formattedAmount"`
	Reference       string       `json:"referenceNumber"`
	Status          string       `json:"status"`
	StatusDisplay   string       `json:"statusDisplayName"`
	Description     string       `json:"description"`
	CreatedAt       time.Time    `json:"createdAt"`
	FormattedDate   string       `json:"formattedDate"`
}

func newEntry(id, kind, kindDisplay string, amount, fee money.Amount, reference, status, description string, createdAt time.Time) Entry {
	return Entry{
		ID:              id,
		Type:            kind,
		TypeDisplay:     kindDisplay,
		Amount:          amount,
		Fee:             fee,
		FormattedAmount: "-" + (amount + fee).Rand(),
		Reference:       reference,
		Status:          status,
		StatusDisplay:   statusDisplay(status),
		Description:     description,
		CreatedAt:       createdAt,
		FormattedDate:   createdAt.Format(dateDisplayFormat),
	}
}

func fromWithdrawal(item withdraw.HistoryItem) Entry {
	return newEntry(item.ID, TypeWithdrawal, "Withdrawal", item.Amount, 0,
		item.ReferenceNumber, item.Status,
		fmt.Sprintf("Withdrawal to %s (%s)", item.BankName, item.MaskedAccountNumber),
		item.CreatedAt)
}

func fromCashSend(item cashsend.HistoryItem) Entry {
	return newEntry(item.ID, TypeCashSend, "Cash Send", item.Amount, item.Fee,
		item.ReferenceNumber, item.Status,
		fmt.Sprintf("Cash send to %s (%s)", item.RecipientName, item.RecipientPhone),
		item.CreatedAt)
}

func fromElectricity(item electricity.HistoryItem) Entry {
	return newEntry(item.ID, TypeElectricity, "Electricity", item.Amount, 0,
		item.ReferenceNumber, item.Status,
		fmt.Sprintf("Electricity for meter %s (%s)", item.MeterNumber, item.Units.KWh()),
		item.CreatedAt)
}

func statusDisplay(status string) string {
	switch status {
	case "completed":
		return "Completed"
	case "pending":
		return "Pending"
	case "failed":
		return "Failed"
	case "cancelled":
		return "Cancelled"
	default:
		return status
	}
}

// Filter narrows and pages a combined history query. Zero values mean no
// constraint; Size defaults to 20.
type Filter struct {
	Type          string     `json:"transactionType"`
	Status        string     `json:"status"`
	From          *time.Time `json:"fromDate"`
	To            *time.Time `json:"toDate"`
	Page          int        `json:"page"`
	Size          int        `json:"size"`
	SortDirection string     `json:"sortDirection"`
}

// Page is one page of combined history plus lifetime totals.
type Page struct {
	Success           bool         `json:"success"`
	Message           string       `json:"message"`
	Transactions      []Entry      `json:"transactions"`
	TotalTransactions int          `json:"totalTransactions"`
	TotalPages        int          `json:"totalPages"`
	CurrentPage       int          `json:"currentPage"`
	TotalWithdrawn    money.Amount `json:"totalWithdrawn"`
	TotalReceived     money.Amount `json:"totalReceived"`
}
