package client

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/relief-hub/relief_hub/internal/money"
	"github.com/relief-hub/relief_hub/internal/validation"
)

func newTestClient(t *testing.T, handler http.Handler) (*Client, *atomic.Bool) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	redirected := &atomic.Bool{}
	session := NewSession(func() { redirected.Store(true) })
	session.Establish("test-token", SessionUser{ID: "u1"})
	return New(srv.URL, session, srv.Client()), redirected
}

func balanceHandler(balance string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"success":true,"balance":` + balance + `}`))
	}
}

func validWithdraw(amount money.Amount) WithdrawIntent {
	return WithdrawIntent{
		Amount:            amount,
		BankName:          "Capitec Bank",
		AccountNumber:     "1234567890",
		AccountHolderName: "Thandi Mokoena",
	}
}

func TestSubmitAdoptsServerRemainingBalance(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/relief-hub/user/balance", balanceHandler("100.00"))
	mux.HandleFunc("POST /api/relief-hub/withdraw", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{
			"success":          true,
			"referenceNumber":  "WD1700000000000ABCDEF",
			"amount":           50.00,
			"remainingBalance": 50.00,
		})
	})

	c, _ := newTestClient(t, mux)
	view := NewView(c)
	ctx := context.Background()

	if err := view.Refresh(ctx); err != nil {
		t.Fatalf("refresh: %v", err)
	}
	view.SetIntent(validWithdraw(50_00))
	if err := view.Submit(ctx); err != nil {
		t.Fatalf("submit: %v", err)
	}

	if view.State() != StateSuccess {
		t.Fatalf("state = %s, want success", view.State())
	}
	balance, stale := view.Balance()
	if balance != 50_00 || stale {
		t.Fatalf("balance = %s stale=%v, want server value 50.00 fresh", balance, stale)
	}
	if balance.Rand() != "R 50.00" {
		t.Fatalf("display = %q", balance.Rand())
	}
	receipt := view.Receipt()
	if receipt == nil || receipt.Reference != "WD1700000000000ABCDEF" {
		t.Fatalf("receipt = %+v", receipt)
	}

	view.Acknowledge()
	if view.State() != StateIdle || view.Receipt() != nil {
		t.Fatal("acknowledge after success should clear the receipt")
	}
	if view.CanSubmit() {
		t.Fatal("intent should be cleared after success")
	}
}

func TestSubmitFallsBackToEstimateWhenBalanceOmitted(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/relief-hub/user/balance", balanceHandler("100.00"))
	mux.HandleFunc("POST /api/relief-hub/withdraw", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"success":true,"referenceNumber":"WD1","amount":50.00}`))
	})

	c, _ := newTestClient(t, mux)
	view := NewView(c)
	ctx := context.Background()

	if err := view.Refresh(ctx); err != nil {
		t.Fatalf("refresh: %v", err)
	}
	view.SetIntent(validWithdraw(50_00))
	if err := view.Submit(ctx); err != nil {
		t.Fatalf("submit: %v", err)
	}

	balance, stale := view.Balance()
	if balance != 50_00 {
		t.Fatalf("estimated balance = %s, want 50.00", balance)
	}
	if !stale {
		t.Fatal("estimate must be flagged stale until the next fetch")
	}
}

func TestValidationErrorNeverReachesNetwork(t *testing.T) {
	var submits atomic.Int64
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/relief-hub/user/balance", balanceHandler("5.00"))
	mux.HandleFunc("POST /api/relief-hub/cash-send/send", func(w http.ResponseWriter, r *http.Request) {
		submits.Add(1)
		w.WriteHeader(http.StatusOK)
	})

	c, _ := newTestClient(t, mux)
	view := NewView(c)
	ctx := context.Background()

	if err := view.Refresh(ctx); err != nil {
		t.Fatalf("refresh: %v", err)
	}

	// Total cost 13.50 exceeds the 5.00 balance.
	view.SetIntent(CashSendIntent{Amount: 10_00, RecipientPhone: "0731234567", RecipientName: "Sipho"})
	err := view.Submit(ctx)
	var vErr validation.Error
	if !errors.As(err, &vErr) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if submits.Load() != 0 {
		t.Fatal("invalid intent must not be submitted")
	}
	if view.State() != StateFailed {
		t.Fatalf("state = %s, want failed", view.State())
	}
	if !view.CanSubmit() {
		t.Fatal("intent must be preserved for correction after a failure")
	}
}

func TestAuthErrorExpiresSessionAndRedirects(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/relief-hub/user/balance", balanceHandler("100.00"))
	mux.HandleFunc("POST /api/relief-hub/withdraw", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	})

	c, redirected := newTestClient(t, mux)
	view := NewView(c)
	ctx := context.Background()

	if err := view.Refresh(ctx); err != nil {
		t.Fatalf("refresh: %v", err)
	}
	view.SetIntent(validWithdraw(50_00))
	err := view.Submit(ctx)

	var authErr *AuthError
	if !errors.As(err, &authErr) {
		t.Fatalf("expected auth error, got %v", err)
	}
	if c.Session().Authenticated() {
		t.Fatal("session must be cleared on 401")
	}
	if !redirected.Load() {
		t.Fatal("redirect hook must run on 401")
	}
}

func TestBalanceFetchFailureDisablesSubmit(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/relief-hub/user/balance", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte(`{"success":false,"error":"No balance information found"}`))
	})

	c, _ := newTestClient(t, mux)
	view := NewView(c)

	if err := view.Refresh(context.Background()); err == nil {
		t.Fatal("expected refresh error")
	}
	balance, _ := view.Balance()
	if balance != 0 {
		t.Fatalf("balance = %s, want safe default 0", balance)
	}
	if view.BalanceError() == "" {
		t.Fatal("inline balance error expected")
	}
	view.SetIntent(validWithdraw(50_00))
	if view.CanSubmit() {
		t.Fatal("zero balance must disable submission")
	}
}

func TestSubmitRejectsConcurrentSubmission(t *testing.T) {
	release := make(chan struct{})
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/relief-hub/user/balance", balanceHandler("100.00"))
	mux.HandleFunc("POST /api/relief-hub/withdraw", func(w http.ResponseWriter, r *http.Request) {
		<-release
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"success":true,"referenceNumber":"WD1","amount":50.00,"remainingBalance":50.00}`))
	})

	c, _ := newTestClient(t, mux)
	view := NewView(c)
	ctx := context.Background()

	if err := view.Refresh(ctx); err != nil {
		t.Fatalf("refresh: %v", err)
	}
	view.SetIntent(validWithdraw(50_00))

	done := make(chan error, 1)
	go func() { done <- view.Submit(ctx) }()

	deadline := time.Now().Add(2 * time.Second)
	for view.State() != StateSubmitting {
		if time.Now().After(deadline) {
			t.Fatal("first submission never reached in-flight state")
		}
		time.Sleep(time.Millisecond)
	}

	if err := view.Submit(ctx); !errors.Is(err, ErrSubmissionInFlight) {
		t.Fatalf("second submit returned %v, want ErrSubmissionInFlight", err)
	}

	close(release)
	if err := <-done; err != nil {
		t.Fatalf("first submit: %v", err)
	}
	if view.State() != StateSuccess {
		t.Fatalf("state = %s, want success", view.State())
	}
}

func TestRetryReusesIdempotencyKey(t *testing.T) {
	var keys []string
	var fail atomic.Bool
	fail.Store(true)

	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/relief-hub/user/balance", balanceHandler("100.00"))
	mux.HandleFunc("POST /api/relief-hub/withdraw", func(w http.ResponseWriter, r *http.Request) {
		keys = append(keys, r.Header.Get("Idempotency-Key"))
		if fail.Load() {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{
			"success":         true,
			"referenceNumber": "WD1700000000000ABCDEF",
			"amount":          50.00,
		})
	})

	c, _ := newTestClient(t, mux)
	view := NewView(c)
	ctx := context.Background()

	if err := view.Refresh(ctx); err != nil {
		t.Fatalf("refresh: %v", err)
	}
	view.SetIntent(validWithdraw(50_00))

	if err := view.Submit(ctx); err == nil {
		t.Fatal("expected the first submission to fail")
	}
	if view.State() != StateFailed {
		t.Fatalf("state = %s", view.State())
	}

	// Retrying the same draft must replay, not double-debit.
	fail.Store(false)
	view.Acknowledge()
	if err := view.Submit(ctx); err != nil {
		t.Fatalf("retry: %v", err)
	}

	if len(keys) != 2 {
		t.Fatalf("expected 2 requests, got %d", len(keys))
	}
	if keys[0] == "" || keys[0] != keys[1] {
		t.Fatalf("retry must carry the same idempotency key: %q vs %q", keys[0], keys[1])
	}

	// A fresh draft gets a fresh key.
	view.SetIntent(validWithdraw(20_00))
	if err := view.Submit(ctx); err != nil {
		t.Fatalf("second draft: %v", err)
	}
	if len(keys) != 3 || keys[2] == keys[1] {
		t.Fatalf("new draft must rotate the key: %v", keys)
	}
}

func TestBusinessErrorSurfacesServerMessage(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/relief-hub/user/balance", balanceHandler("100.00"))
	mux.HandleFunc("POST /api/relief-hub/withdraw", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"success":false,"error":"Insufficient balance"}`))
	})

	c, _ := newTestClient(t, mux)
	view := NewView(c)
	ctx := context.Background()

	if err := view.Refresh(ctx); err != nil {
		t.Fatalf("refresh: %v", err)
	}
	view.SetIntent(validWithdraw(50_00))
	err := view.Submit(ctx)

	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected API error, got %v", err)
	}
	if apiErr.Message != "Insufficient balance" {
		t.Fatalf("message = %q, want server text verbatim", apiErr.Message)
	}
	if view.Err() != "Insufficient balance" {
		t.Fatalf("view error = %q", view.Err())
	}
}
