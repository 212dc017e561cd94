package client

import (
	"context"
	"fmt"
	"time"

	"github.com/relief-hub/relief_hub/internal/electricity"
	"github.com/relief-hub/relief_hub/internal/money"
)

// ElectricityIntent is a draft prepaid electricity purchase.
type ElectricityIntent struct {
	Amount       money.Amount
	MeterNumber  string
	Municipality string
}

func (i ElectricityIntent) input() electricity.Input {
	return electricity.Input{
		Amount:       i.Amount,
		MeterNumber:  i.MeterNumber,
		Municipality: i.Municipality,
	}
}

// Validate applies the purchase rules against the cached balance. The meter
// number is sanitized to digits before length checks.
func (i ElectricityIntent) Validate(balance money.Amount) error {
	return electricity.Validate(i.input(), balance)
}

// TotalCost is the debited amount; purchases carry no fee.
func (i ElectricityIntent) TotalCost() money.Amount {
	return i.Amount
}

// Units is the kWh estimate at the prepaid tariff, for display before
// submission.
func (i ElectricityIntent) Units() electricity.Units {
	return electricity.UnitsFor(i.Amount)
}

type electricityResponse struct {
	TransactionID    string            `json:"transactionId"`
	ReferenceNumber  string            `json:"referenceNumber"`
	Amount           money.Amount      `json:"amount"`
	Units            electricity.Units `json:"units"`
	RemainingBalance *money.Amount     `json:"remainingBalance"`
	Token            string            `json:"token"`
	MeterNumber      string            `json:"meterNumber"`
	ExpiresAt        time.Time         `json:"expiresAt"`
	Timestamp        time.Time         `json:"timestamp"`
}

// Submit posts the purchase and builds the token receipt.
func (i ElectricityIntent) Submit(ctx context.Context, c *Client) (Receipt, error) {
	body := electricity.Request{
		Amount:       i.Amount,
		MeterNumber:  i.MeterNumber,
		Municipality: i.Municipality,
	}
	var resp electricityResponse
	if err := c.post(ctx, "/electricity/purchase", body, &resp); err != nil {
		return Receipt{}, err
	}
	return Receipt{
		Reference:        resp.ReferenceNumber,
		Amount:           resp.Amount,
		RemainingBalance: resp.RemainingBalance,
		Detail: map[string]string{
			"Token": resp.Token,
			"Meter": resp.MeterNumber,
			"Units": resp.Units.KWh(),
		},
		ExpiresAt: resp.ExpiresAt,
		Timestamp: resp.Timestamp,
	}, nil
}

// ElectricityHistory lists the user's recent purchases.
func (c *Client) ElectricityHistory(ctx context.Context, limit int) ([]electricity.HistoryItem, error) {
	var payload struct {
		Transactions []electricity.HistoryItem `json:"transactions"`
	}
	if err := c.get(ctx, "/electricity/history"+limitQuery(limit), &payload); err != nil {
		return nil, err
	}
	return payload.Transactions, nil
}

// ElectricityUnits asks the server for the kWh a prospective amount buys.
func (c *Client) ElectricityUnits(ctx context.Context, amount money.Amount) (electricity.UnitsResponse, error) {
	var resp electricity.UnitsResponse
	path := fmt.Sprintf("/electricity/calculate-units?amount=%s", amount)
	if err := c.get(ctx, path, &resp); err != nil {
		return electricity.UnitsResponse{}, err
	}
	return resp, nil
}

// limitQuery renders an optional history limit as a query string.
func limitQuery(limit int) string {
	if limit <= 0 {
		return ""
	}
	return fmt.Sprintf("?limit=%d", limit)
}
