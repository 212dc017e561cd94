package withdraw

import (
	"time"

	"github.com/relief-hub/relief_hub/internal/money"
)

// Request is the payload for a cash withdrawal to a bank account.
type Request struct {
	Amount            money.Amount `json:"amount"`
	BankName          string       `json:"bankName"`
	AccountNumber     string       `json:"accountNumber"`
	AccountHolderName string       `json:"accountHolderName"`
}

// Response reports the completed withdrawal together with the authoritative
// remaining balance computed by the ledger.
type Response struct {
	Success             bool         `json:"success"`
	Message             string       `json:"message"`
	TransactionID       string       `json:"transactionId"`
	ReferenceNumber     string       `json:"referenceNumber"`
	Amount              money.Amount `json:"amount"`
	RemainingBalance    money.Amount `json:"remainingBalance"`
	MaskedAccountNumber string       `json:"maskedAccountNumber"`
	BankName            string       `json:"bankName"`
	Timestamp           time.Time    `json:"timestamp"`
}

// HistoryItem is one row of a user's withdrawal history.
type HistoryItem struct {
	ID                  string       `json:"id"`
	Amount              money.Amount `json:"amount"`
	BankName            string       `json:"bankName"`
	MaskedAccountNumber string       `json:"maskedAccountNumber"`
	ReferenceNumber     string       `json:"referenceNumber"`
	Status              string       `json:"status"`
	CreatedAt           time.Time    `json:"createdAt"`
}
