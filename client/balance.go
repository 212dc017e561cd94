package client

import (
	"context"

	"github.com/relief-hub/relief_hub/internal/money"
)

// BalanceSnapshot is the authoritative balance view served by the API.
type BalanceSnapshot struct {
	Available      money.Amount `json:"balance"`
	Pending        money.Amount `json:"pendingBalance"`
	TotalReceived  money.Amount `json:"totalReceived"`
	TotalWithdrawn money.Amount `json:"totalWithdrawn"`
}

// FetchBalance retrieves the current user's spendable balance. On any
// failure it returns a zero snapshot alongside the error, so callers that
// render anyway show a balance that disables submission.
func (c *Client) FetchBalance(ctx context.Context) (BalanceSnapshot, error) {
	var snapshot BalanceSnapshot
	if err := c.get(ctx, "/user/balance", &snapshot); err != nil {
		return BalanceSnapshot{}, err
	}
	return snapshot, nil
}

// FetchAccountBalance retrieves the balance of a specific grant account.
func (c *Client) FetchAccountBalance(ctx context.Context, accountID string) (money.Amount, error) {
	var payload struct {
		Data money.Amount `json:"data"`
	}
	if err := c.get(ctx, "/sassa-accounts/"+accountID+"/balance", &payload); err != nil {
		return 0, err
	}
	return payload.Data, nil
}
