package client

import (
	"context"
	"time"

	"github.com/relief-hub/relief_hub/internal/money"
	"github.com/relief-hub/relief_hub/internal/withdraw"
)

// WithdrawIntent is a draft bank withdrawal.
type WithdrawIntent struct {
	Amount            money.Amount
	BankName          string
	AccountNumber     string
	AccountHolderName string
}

func (i WithdrawIntent) input() withdraw.Input {
	return withdraw.Input{
		Amount:            i.Amount,
		BankName:          i.BankName,
		AccountNumber:     i.AccountNumber,
		AccountHolderName: i.AccountHolderName,
	}
}

// Validate applies the withdrawal rules against the cached balance.
func (i WithdrawIntent) Validate(balance money.Amount) error {
	return withdraw.Validate(i.input(), balance)
}

// TotalCost is the debited amount; withdrawals carry no fee.
func (i WithdrawIntent) TotalCost() money.Amount {
	return i.Amount
}

type withdrawResponse struct {
	TransactionID       string        `json:"transactionId"`
	ReferenceNumber     string        `json:"referenceNumber"`
	Amount              money.Amount  `json:"amount"`
	RemainingBalance    *money.Amount `json:"remainingBalance"`
	MaskedAccountNumber string        `json:"maskedAccountNumber"`
	BankName            string        `json:"bankName"`
	Timestamp           time.Time     `json:"timestamp"`
}

// Submit posts the withdrawal and builds the receipt.
func (i WithdrawIntent) Submit(ctx context.Context, c *Client) (Receipt, error) {
	body := withdraw.Request{
		Amount:            i.Amount,
		BankName:          i.BankName,
		AccountNumber:     i.AccountNumber,
		AccountHolderName: i.AccountHolderName,
	}
	var resp withdrawResponse
	if err := c.post(ctx, "/withdraw", body, &resp); err != nil {
		return Receipt{}, err
	}
	return Receipt{
		Reference:        resp.ReferenceNumber,
		Amount:           resp.Amount,
		RemainingBalance: resp.RemainingBalance,
		Detail: map[string]string{
			"Bank":    resp.BankName,
			"Account": resp.MaskedAccountNumber,
		},
		Timestamp: resp.Timestamp,
	}, nil
}

// WithdrawHistory lists the user's recent withdrawals.
func (c *Client) WithdrawHistory(ctx context.Context, limit int) ([]withdraw.HistoryItem, error) {
	var payload struct {
		Transactions []withdraw.HistoryItem `json:"transactions"`
	}
	if err := c.get(ctx, "/withdraw/history"+limitQuery(limit), &payload); err != nil {
		return nil, err
	}
	return payload.Transactions, nil
}
