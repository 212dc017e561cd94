package client

import (
	"context"
	"fmt"
	"time"

	"github.com/relief-hub/relief_hub/internal/cashsend"
	"github.com/relief-hub/relief_hub/internal/money"
)

// CashSendIntent is a draft cash send.
type CashSendIntent struct {
	Amount         money.Amount
	RecipientPhone string
	RecipientName  string
}

func (i CashSendIntent) input() cashsend.Input {
	return cashsend.Input{
		Amount:         i.Amount,
		RecipientPhone: i.RecipientPhone,
		RecipientName:  i.RecipientName,
	}
}

// Validate applies the cash send rules, fee included, against the cached
// balance.
func (i CashSendIntent) Validate(balance money.Amount) error {
	return cashsend.Validate(i.input(), balance)
}

// TotalCost is the amount plus the flat fee.
func (i CashSendIntent) TotalCost() money.Amount {
	return cashsend.TotalCost(i.Amount)
}

type cashSendResponse struct {
	TransactionID    string        `json:"transactionId"`
	ReferenceNumber  string        `json:"referenceNumber"`
	Amount           money.Amount  `json:"amount"`
	Fee              money.Amount  `json:"fee"`
	RemainingBalance *money.Amount `json:"remainingBalance"`
	VoucherCode      string        `json:"voucherCode"`
	CollectionPin    string        `json:"collectionPin"`
	RecipientPhone   string        `json:"recipientPhone"`
	ExpiresAt        time.Time     `json:"expiresAt"`
	Timestamp        time.Time     `json:"timestamp"`
}

// Submit posts the cash send and builds the voucher receipt.
func (i CashSendIntent) Submit(ctx context.Context, c *Client) (Receipt, error) {
	body := cashsend.Request{
		Amount:         i.Amount,
		RecipientPhone: i.RecipientPhone,
		RecipientName:  i.RecipientName,
	}
	var resp cashSendResponse
	if err := c.post(ctx, "/cash-send/send", body, &resp); err != nil {
		return Receipt{}, err
	}
	return Receipt{
		Reference:        resp.ReferenceNumber,
		Amount:           resp.Amount,
		Fee:              resp.Fee,
		RemainingBalance: resp.RemainingBalance,
		Detail: map[string]string{
			"Voucher":   resp.VoucherCode,
			"PIN":       resp.CollectionPin,
			"Recipient": resp.RecipientPhone,
		},
		ExpiresAt: resp.ExpiresAt,
		Timestamp: resp.Timestamp,
	}, nil
}

// CashSendHistory lists the user's recent cash sends.
func (c *Client) CashSendHistory(ctx context.Context, limit int) ([]cashsend.HistoryItem, error) {
	var payload struct {
		Transactions []cashsend.HistoryItem `json:"transactions"`
	}
	if err := c.get(ctx, "/cash-send/history"+limitQuery(limit), &payload); err != nil {
		return nil, err
	}
	return payload.Transactions, nil
}

// CashSendCost asks the server for the fee breakdown of a prospective send.
func (c *Client) CashSendCost(ctx context.Context, amount money.Amount) (cashsend.CostResponse, error) {
	var resp cashsend.CostResponse
	path := fmt.Sprintf("/cash-send/calculate-cost?amount=%s", amount)
	if err := c.get(ctx, path, &resp); err != nil {
		return cashsend.CostResponse{}, err
	}
	return resp, nil
}
