package cashsend

import (
	"time"

	"github.com/relief-hub/relief_hub/internal/money"
)

// Request is the payload for sending cash to a phone number.
type Request struct {
	Amount         money.Amount `json:"amount"`
	RecipientPhone string       `json:"recipientPhone"`
	RecipientName  string       `json:"recipientName"`
}

// Response reports the issued voucher together with the authoritative
// remaining balance computed by the ledger.
type Response struct {
	Success          bool         `json:"success"`
	Message          string       `json:"message"`
	TransactionID    string       `json:"transactionId"`
	ReferenceNumber  string       `json:"referenceNumber"`
	Amount           money.Amount `json:"amount"`
	Fee              money.Amount `json:"fee"`
	TotalCost        money.Amount `json:"totalCost"`
	RemainingBalance money.Amount `json:"remainingBalance"`
	VoucherCode      string       `json:"voucherCode"`
	CollectionPin    string       `json:"collectionPin"`
	RecipientPhone   string       `json:"recipientPhone"`
	RecipientName    string       `json:"recipientName"`
	ExpiresAt        time.Time    `json:"expiresAt"`
	Timestamp        time.Time    `json:"timestamp"`
}

// CostResponse is the fee breakdown for a prospective send.
type CostResponse struct {
	Success   bool         `json:"success"`
	Amount    money.Amount `json:"amount"`
	Fee       money.Amount `json:"fee"`
	TotalCost money.Amount `json:"totalCost"`
}

// HistoryItem is one row of a user's cash send history.
type HistoryItem struct {
	ID              string       `json:"id"`
	Amount          money.Amount `json:"amount"`
	Fee             money.Amount `json:"fee"`
	RecipientPhone  string       `json:"recipientPhone"`
	RecipientName   string       `json:"recipientName"`
	VoucherCode     string       `json:"voucherCode"`
	ReferenceNumber string       `json:"referenceNumber"`
	Status          string       `json:"status"`
	ExpiresAt       time.Time    `json:"expiresAt"`
	CreatedAt       time.Time    `json:"createdAt"`
}
