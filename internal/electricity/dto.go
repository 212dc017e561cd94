package electricity

import (
	"time"

	"github.com/relief-hub/relief_hub/internal/money"
)

// Request is the payload for a prepaid electricity purchase.
type Request struct {
	Amount       money.Amount `json:"amount"`
	MeterNumber  string       `json:"meterNumber"`
	Municipality string       `json:"municipality"`
}

// Response reports the issued token together with the authoritative remaining
// balance computed by the ledger.
type Response struct {
	Success          bool         `json:"success"`
	Message          string       `json:"message"`
	TransactionID    string       `json:"transactionId"`
	ReferenceNumber  string       `json:"referenceNumber"`
	Amount           money.Amount `json:"amount"`
	Units            Units        `json:"units"`
	RemainingBalance money.Amount `json:"remainingBalance"`
	Token            string       `json:"token"`
	MeterNumber      string       `json:"meterNumber"`
	Municipality     string       `json:"municipality"`
	ExpiresAt        time.Time    `json:"expiresAt"`
	Timestamp        time.Time    `json:"timestamp"`
}

// UnitsResponse is the kWh estimate for a prospective amount.
type UnitsResponse struct {
	Success bool         `json:"success"`
	Amount  money.Amount `json:"amount"`
	Rate    money.Amount `json:"rate"`
	Units   Units        `json:"units"`
}

// HistoryItem is one row of a user's electricity purchase history.
type HistoryItem struct {
	ID              string       `json:"id"`
	Amount          money.Amount `json:"amount"`
	Units           Units        `json:"units"`
	MeterNumber     string       `json:"meterNumber"`
	Municipality    string       `json:"municipality"`
	Token           string       `json:"token"`
	ReferenceNumber string       `json:"referenceNumber"`
	Status          string       `json:"status"`
	ExpiresAt       time.Time    `json:"expiresAt"`
	CreatedAt       time.Time    `json:"createdAt"`
}
