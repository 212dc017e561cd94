package history

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/relief-hub/relief_hub/internal/cashsend"
	"github.com/relief-hub/relief_hub/internal/electricity"
	"github.com/relief-hub/relief_hub/internal/ledger"
	"github.com/relief-hub/relief_hub/internal/sassa"
	"github.com/relief-hub/relief_hub/internal/withdraw"
)

func newTestService(t *testing.T) (*Service, string) {
	t.Helper()
	ctx := context.Background()
	led := ledger.NewInMemory()
	accounts, err := sassa.NewService(ctx, sassa.NewMemoryRepository(), led, nil)
	if err != nil {
		t.Fatalf("sassa service: %v", err)
	}

	wdRepo := withdraw.NewMemoryRepository()
	csRepo := cashsend.NewMemoryRepository()
	elRepo := electricity.NewMemoryRepository()

	wdSvc, err := withdraw.NewService(ctx, led, accounts, wdRepo, nil)
	if err != nil {
		t.Fatalf("withdraw service: %v", err)
	}
	csSvc, err := cashsend.NewService(ctx, led, accounts, csRepo, nil)
	if err != nil {
		t.Fatalf("cashsend service: %v", err)
	}
	elSvc, err := electricity.NewService(ctx, led, accounts, elRepo, nil)
	if err != nil {
		t.Fatalf("electricity service: %v", err)
	}

	userID := uuid.NewString()
	if _, err := accounts.Link(ctx, sassa.LinkInput{UserID: userID, SassaNumber: "6301015678901", GrantType: "DISABILITY"}); err != nil {
		t.Fatalf("link: %v", err)
	}

	base := time.Date(2026, time.June, 1, 10, 0, 0, 0, time.UTC)
	wdRepo.Record(ctx, userID, withdraw.HistoryItem{
		ID: "w1", Amount: 250_00, BankName: "Capitec Bank", MaskedAccountNumber: "****4567",
		ReferenceNumber: "WD1", Status: ledger.StatusCompleted, CreatedAt: base,
	})
	csRepo.Record(ctx, userID, cashsend.HistoryItem{
		ID: "c1", Amount: 100_00, Fee: 3_50, RecipientName: "Sipho", RecipientPhone: "+27821234567",
		VoucherCode: "1111-2222-3333-4444", ReferenceNumber: "CS-1", Status: ledger.StatusCompleted,
		CreatedAt: base.Add(24 * time.Hour),
	})
	elRepo.Record(ctx, userID, electricity.HistoryItem{
		ID: "e1", Amount: 50_00, Units: 20_00, MeterNumber: "12345678901", Municipality: "Eskom Direct",
		Token: "1111-2222-3333-4444-5555", ReferenceNumber: "ELEC-1", Status: ledger.StatusCompleted,
		CreatedAt: base.Add(48 * time.Hour),
	})

	return NewService(wdSvc, csSvc, elSvc, accounts), userID
}

func TestHistoryMergesAllTypesNewestFirst(t *testing.T) {
	svc, userID := newTestService(t)

	page, err := svc.History(context.Background(), userID, Filter{})
	if err != nil {
		t.Fatalf("history: %v", err)
	}
	if page.TotalTransactions != 3 || len(page.Transactions) != 3 {
		t.Fatalf("expected 3 rows, got %+v", page)
	}
	wantOrder := []string{TypeElectricity, TypeCashSend, TypeWithdrawal}
	for i, want := range wantOrder {
		if page.Transactions[i].Type != want {
			t.Errorf("row %d type = %s, want %s", i, page.Transactions[i].Type, want)
		}
	}
	if page.TotalReceived != 198_600 {
		t.Fatalf("total received = %d", page.TotalReceived)
	}
}

func TestHistoryFiltersByTypeAndStatus(t *testing.T) {
	svc, userID := newTestService(t)

	page, err := svc.History(context.Background(), userID, Filter{Type: "cash_send", Status: "COMPLETED"})
	if err != nil {
		t.Fatalf("history: %v", err)
	}
	if len(page.Transactions) != 1 {
		t.Fatalf("expected 1 row, got %d", len(page.Transactions))
	}
	entry := page.Transactions[0]
	if entry.Type != TypeCashSend {
		t.Fatalf("type = %s", entry.Type)
	}
	// The displayed amount includes the fee.
	if entry.FormattedAmount != "-R 103.50" {
		t.Fatalf("formatted amount = %s", entry.FormattedAmount)
	}
	if !strings.Contains(entry.Description, "Sipho") {
		t.Fatalf("description = %s", entry.Description)
	}
}

func TestHistoryFiltersByDateRange(t *testing.T) {
	svc, userID := newTestService(t)
	from := time.Date(2026, time.June, 2, 0, 0, 0, 0, time.UTC)

	page, err := svc.History(context.Background(), userID, Filter{From: &from})
	if err != nil {
		t.Fatalf("history: %v", err)
	}
	if len(page.Transactions) != 2 {
		t.Fatalf("expected 2 rows after %s, got %d", from.Format("2006-01-02"), len(page.Transactions))
	}
}

func TestHistoryPaging(t *testing.T) {
	svc, userID := newTestService(t)
	ctx := context.Background()

	first, err := svc.History(ctx, userID, Filter{Size: 2})
	if err != nil {
		t.Fatalf("history: %v", err)
	}
	if len(first.Transactions) != 2 || first.TotalPages != 2 || first.CurrentPage != 0 {
		t.Fatalf("unexpected first page: %+v", first)
	}

	second, err := svc.History(ctx, userID, Filter{Size: 2, Page: 1})
	if err != nil {
		t.Fatalf("history: %v", err)
	}
	if len(second.Transactions) != 1 || second.CurrentPage != 1 {
		t.Fatalf("unexpected second page: %+v", second)
	}
	if second.Transactions[0].Type != TypeWithdrawal {
		t.Fatalf("oldest row should be the withdrawal, got %s", second.Transactions[0].Type)
	}
}

func TestHistorySortAscending(t *testing.T) {
	svc, userID := newTestService(t)

	page, err := svc.History(context.Background(), userID, Filter{SortDirection: "ASC"})
	if err != nil {
		t.Fatalf("history: %v", err)
	}
	if page.Transactions[0].Type != TypeWithdrawal {
		t.Fatalf("first ascending row = %s", page.Transactions[0].Type)
	}
}

func TestExportCSV(t *testing.T) {
	svc, userID := newTestService(t)
	now := time.Date(2026, time.June, 10, 12, 0, 0, 0, time.UTC)

	data, err := svc.ExportCSV(context.Background(), userID, now)
	if err != nil {
		t.Fatalf("export: %v", err)
	}
	out := string(data)
	if !strings.HasPrefix(out, "Date,Transaction Type,Amount,Status,Reference Number,Description") {
		t.Fatalf("missing header: %q", out)
	}
	for _, want := range []string{"WD1", "CS-1", "ELEC-1", "Total Transactions,3", "10 Jun 2026 12:00"} {
		if !strings.Contains(out, want) {
			t.Errorf("csv missing %q", want)
		}
	}
}

func TestExportStatement(t *testing.T) {
	svc, userID := newTestService(t)

	data, err := svc.ExportStatement(context.Background(), userID, time.Now().UTC())
	if err != nil {
		t.Fatalf("export: %v", err)
	}
	out := string(data)
	if !strings.HasPrefix(out, "PAYMENT HISTORY STATEMENT") {
		t.Fatalf("missing title: %q", out)
	}
	for _, want := range []string{"Reference: WD1", "Reference: CS-1", "Reference: ELEC-1", "Total Transactions: 3"} {
		if !strings.Contains(out, want) {
			t.Errorf("statement missing %q", want)
		}
	}
}
