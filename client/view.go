package client

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/relief-hub/relief_hub/internal/money"
)

// State is the lifecycle position of a transaction view.
type State int

const (
	StateIdle State = iota
	StateValidating
	StateSubmitting
	StateSuccess
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateValidating:
		return "validating"
	case StateSubmitting:
		return "submitting"
	case StateSuccess:
		return "success"
	case StateFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// ErrSubmissionInFlight is returned when Submit is called while a previous
// submission has not resolved.
var ErrSubmissionInFlight = errors.New("a submission is already in flight")

// ErrNoIntent is returned when Submit is called with no draft set.
var ErrNoIntent = errors.New("no transaction intent set")

// Intent is a draft transaction the view can validate locally and submit.
// Validate must be pure: the same intent and balance always produce the same
// outcome.
type Intent interface {
	// Validate applies the flow's field and balance rules.
	Validate(balance money.Amount) error
	// TotalCost is the amount the ledger will debit, fees included. The
	// reconciler uses it only for the display fallback.
	TotalCost() money.Amount
	// Submit performs the single network round trip.
	Submit(ctx context.Context, c *Client) (Receipt, error)
}

// Receipt is the view model built from a successful transaction result. It
// is displayed once and never stored.
type Receipt struct {
	Reference string
	Amount    money.Amount
	Fee       money.Amount
	// RemainingBalance is nil when the server omitted it.
	RemainingBalance *money.Amount
	// Detail carries flow-specific receipt lines, e.g. voucher code and PIN
	// or electricity token, keyed by display label.
	Detail    map[string]string
	ExpiresAt time.Time
	Timestamp time.Time
}

// View runs one transaction flow through the pipeline: refresh balance,
// validate, submit once, reconcile. Each view owns its own balance copy and
// intent; nothing is shared across views.
type View struct {
	client *Client

	mu           sync.Mutex
	state        State
	intent       Intent
	submitKey    string
	balance      money.Amount
	balanceStale bool
	balanceErr   string
	lastErr      string
	receipt      *Receipt
}

// NewView builds an idle view backed by the client.
func NewView(c *Client) *View {
	return &View{client: c}
}

// Refresh fetches the authoritative balance. On failure the balance drops to
// zero, which makes every subsequent Validate reject, and the error is kept
// for inline display. Auth errors have already expired the session and are
// returned as-is.
func (v *View) Refresh(ctx context.Context) error {
	snapshot, err := v.client.FetchBalance(ctx)

	v.mu.Lock()
	defer v.mu.Unlock()
	if err != nil {
		v.balance = 0
		v.balanceStale = false
		v.balanceErr = err.Error()
		return err
	}
	v.balance = snapshot.Available
	v.balanceStale = false
	v.balanceErr = ""
	return nil
}

// SetIntent replaces the current draft and mints its idempotency key, so
// every submission attempt of this draft replays rather than double-debits.
// Ignored while a submission is in flight.
func (v *View) SetIntent(intent Intent) {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.state == StateSubmitting {
		return
	}
	v.intent = intent
	v.submitKey = uuid.NewString()
}

// Submit validates the draft and, if it passes, performs the single network
// round trip. Validation failures never reach the network and move the view
// to Failed with the intent preserved. A second call while one is in flight
// returns ErrSubmissionInFlight without side effects.
func (v *View) Submit(ctx context.Context) error {
	v.mu.Lock()
	if v.state == StateSubmitting {
		v.mu.Unlock()
		return ErrSubmissionInFlight
	}
	intent := v.intent
	if intent == nil {
		v.mu.Unlock()
		return ErrNoIntent
	}

	v.state = StateValidating
	prior := v.balance
	if err := intent.Validate(prior); err != nil {
		v.state = StateFailed
		v.lastErr = err.Error()
		v.mu.Unlock()
		return err
	}

	v.state = StateSubmitting
	submitKey := v.submitKey
	v.mu.Unlock()

	receipt, err := intent.Submit(WithIdempotencyKey(ctx, submitKey), v.client)

	v.mu.Lock()
	defer v.mu.Unlock()
	if err != nil {
		v.state = StateFailed
		v.lastErr = err.Error()
		return err
	}

	// Reconcile: the server balance is canonical. The local estimate is a
	// display placeholder only, superseded by the next Refresh.
	if receipt.RemainingBalance != nil {
		v.balance = *receipt.RemainingBalance
		v.balanceStale = false
	} else {
		v.balance = prior - intent.TotalCost()
		v.balanceStale = true
	}

	v.state = StateSuccess
	v.lastErr = ""
	v.receipt = &receipt
	v.intent = nil
	v.submitKey = ""
	return nil
}

// Acknowledge returns the view to Idle. After Success the receipt is
// dropped; after Failed the intent stays for correction.
func (v *View) Acknowledge() {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.state == StateSubmitting {
		return
	}
	v.state = StateIdle
	v.receipt = nil
	v.lastErr = ""
}

// State reports the current lifecycle position.
func (v *View) State() State {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.state
}

// Balance returns the cached balance and whether it is a stale local
// estimate rather than a server-confirmed value.
func (v *View) Balance() (money.Amount, bool) {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.balance, v.balanceStale
}

// BalanceError returns the inline error from the last failed Refresh.
func (v *View) BalanceError() string {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.balanceErr
}

// Err returns the message from the last failed submission.
func (v *View) Err() string {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.lastErr
}

// Receipt returns the receipt when the view is in Success, else nil.
func (v *View) Receipt() *Receipt {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.receipt
}

// CanSubmit reports whether the view would accept a Submit call right now
// for the given draft. UIs use it to disable the trigger control.
func (v *View) CanSubmit() bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.state != StateSubmitting && v.intent != nil && v.balance > 0
}
