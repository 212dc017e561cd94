package sassa

import (
	"time"

	"github.com/relief-hub/relief_hub/internal/money"
)

// Account statuses.
const (
	StatusActive   = "ACTIVE"
	StatusUnlinked = "UNLINKED"
)

// Grant types with their default monthly amounts in cents.
var GrantTypes = map[string]money.Amount{
	"SRD":             35_000,
	"CHILD_SUPPORT":   48_000,
	"DISABILITY":      198_600,
	"OLD_AGE":         198_600,
	"CARE_DEPENDENCY": 198_600,
	"FOSTER_CARE":     105_000,
	"WAR_VETERANS":    198_600,
}

// Account represents a linked SASSA grant account. Its ledger balance is the
// beneficiary's spendable balance.
type Account struct {
	ID            string
	UserID        string
	SassaNumber   string
	GrantType     string
	MonthlyAmount money.Amount
	TotalReceived money.Amount
	Status        string
	LinkedAt      time.Time
	// NextPaymentDate is the upcoming grant payment date, advanced by every
	// disbursement.
	NextPaymentDate time.Time
}

// AccountCode returns the ledger account code backing this grant account.
func (a Account) AccountCode() string {
	return "sassa:" + a.ID
}

// BalanceDetails is the authoritative balance snapshot served to clients.
type BalanceDetails struct {
	Available       money.Amount `json:"balance"`
	Pending         money.Amount `json:"pendingBalance"`
	TotalReceived   money.Amount `json:"totalReceived"`
	TotalWithdrawn  money.Amount `json:"totalWithdrawn"`
	NextPaymentDate time.Time    `json:"nextPaymentDate"`
	AsOf            time.Time    `json:"asOf"`
}
