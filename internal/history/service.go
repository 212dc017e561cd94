package history

import (
	"context"
	"sort"
	"strings"

	"github.com/relief-hub/relief_hub/internal/cashsend"
	"github.com/relief-hub/relief_hub/internal/electricity"
	"github.com/relief-hub/relief_hub/internal/sassa"
	"github.com/relief-hub/relief_hub/internal/withdraw"
)

const (
	defaultPageSize = 20

	// exportLimit bounds how many rows per type a file export pulls.
	exportLimit = 1000
)

// Service merges the three transaction histories for one user.
type Service struct {
	withdrawals *withdraw.Service
	cashSends   *cashsend.Service
	electricity *electricity.Service
	accounts    *sassa.Service
}

// NewService wires the combined history over the per-type services.
func NewService(withdrawals *withdraw.Service, cashSends *cashsend.Service, electricitySvc *electricity.Service, accounts *sassa.Service) *Service {
	return &Service{
		withdrawals: withdrawals,
		cashSends:   cashSends,
		electricity: electricitySvc,
		accounts:    accounts,
	}
}

// History returns one filtered, sorted page of the user's combined history.
func (s *Service) History(ctx context.Context, userID string, filter Filter) (Page, error) {
	entries, err := s.allEntries(ctx, userID)
	if err != nil {
		return Page{}, err
	}

	entries = applyFilter(entries, filter)
	sortEntries(entries, filter.SortDirection)

	size := filter.Size
	if size <= 0 {
		size = defaultPageSize
	}
	page := filter.Page
	if page < 0 {
		page = 0
	}

	total := len(entries)
	totalPages := (total + size - 1) / size

	start := page * size
	if start > total {
		start = total
	}
	end := start + size
	if end > total {
		end = total
	}

	result := Page{
		Success:           true,
		Message:           "Payment history retrieved successfully",
		Transactions:      entries[start:end],
		TotalTransactions: total,
		TotalPages:        totalPages,
		CurrentPage:       page,
	}
	if result.Transactions == nil {
		result.Transactions = []Entry{}
	}

	// Lifetime totals come from the authoritative balance snapshot. A user
	// without a linked account still gets their rows with zero totals.
	if details, err := s.accounts.Details(ctx, userID); err == nil {
		result.TotalWithdrawn = details.TotalWithdrawn
		result.TotalReceived = details.TotalReceived
	}
	return result, nil
}

// AllForExport returns every row for the user, newest first.
func (s *Service) AllForExport(ctx context.Context, userID string) ([]Entry, error) {
	entries, err := s.allEntries(ctx, userID)
	if err != nil {
		return nil, err
	}
	sortEntries(entries, "")
	return entries, nil
}

func (s *Service) allEntries(ctx context.Context, userID string) ([]Entry, error) {
	var entries []Entry

	withdrawals, err := s.withdrawals.History(ctx, userID, exportLimit)
	if err != nil {
		return nil, err
	}
	for _, item := range withdrawals {
		entries = append(entries, fromWithdrawal(item))
	}

	sends, err := s.cashSends.History(ctx, userID, exportLimit)
	if err != nil {
		return nil, err
	}
	for _, item := range sends {
		entries = append(entries, fromCashSend(item))
	}

	purchases, err := s.electricity.History(ctx, userID, exportLimit)
	if err != nil {
		return nil, err
	}
	for _, item := range purchases {
		entries = append(entries, fromElectricity(item))
	}

	return entries, nil
}

func applyFilter(entries []Entry, filter Filter) []Entry {
	kind := strings.ToUpper(strings.TrimSpace(filter.Type))
	status := strings.ToLower(strings.TrimSpace(filter.Status))

	filtered := entries[:0]
	for _, entry := range entries {
		if kind != "" && entry.Type != kind {
			continue
		}
		if status != "" && entry.Status != status {
			continue
		}
		if filter.From != nil && entry.CreatedAt.Before(*filter.From) {
			continue
		}
		if filter.To != nil && entry.CreatedAt.After(*filter.To) {
			continue
		}
		filtered = append(filtered, entry)
	}
	return filtered
}

func sortEntries(entries []Entry, direction string) {
	asc := strings.EqualFold(direction, "ASC")
	sort.SliceStable(entries, func(i, j int) bool {
		if asc {
			return entries[i].CreatedAt.Before(entries[j].CreatedAt)
		}
		return entries[i].CreatedAt.After(entries[j].CreatedAt)
	})
}
