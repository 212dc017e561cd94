package sassa

import (
	"testing"
	"time"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestNextPaymentDate(t *testing.T) {
	cases := []struct {
		grantType string
		from      time.Time
		want      time.Time
	}{
		{"SRD", date(2026, time.June, 3), date(2026, time.June, 5)},
		{"SRD", date(2026, time.June, 5), date(2026, time.June, 5)},
		{"SRD", date(2026, time.June, 6), date(2026, time.July, 5)},
		{"CHILD_SUPPORT", date(2026, time.June, 3), date(2026, time.June, 3)},
		{"CHILD_SUPPORT", date(2026, time.June, 4), date(2026, time.July, 3)},
		{"FOSTER_CARE", date(2026, time.June, 9), date(2026, time.June, 10)},
		{"DISABILITY", date(2026, time.December, 15), date(2027, time.January, 1)},
		{"OLD_AGE", date(2026, time.June, 1), date(2026, time.June, 1)},
		// Unknown grant types default to the first of the month.
		{"UNKNOWN", date(2026, time.June, 20), date(2026, time.July, 1)},
	}
	for _, tc := range cases {
		if got := NextPaymentDate(tc.grantType, tc.from); !got.Equal(tc.want) {
			t.Errorf("NextPaymentDate(%s, %s) = %s, want %s",
				tc.grantType, tc.from.Format("2006-01-02"), got.Format("2006-01-02"), tc.want.Format("2006-01-02"))
		}
	}
}

func TestNextPaymentDateIgnoresTimeOfDay(t *testing.T) {
	// Late on the payment day the payment is still today's, not next month's.
	from := time.Date(2026, time.June, 5, 23, 30, 0, 0, time.UTC)
	if got := NextPaymentDate("SRD", from); !got.Equal(date(2026, time.June, 5)) {
		t.Fatalf("got %s", got.Format("2006-01-02"))
	}
}

func TestPaymentSchedule(t *testing.T) {
	dates := PaymentSchedule("SRD", date(2026, time.June, 10), 3)
	want := []time.Time{
		date(2026, time.July, 5),
		date(2026, time.August, 5),
		date(2026, time.September, 5),
	}
	if len(dates) != len(want) {
		t.Fatalf("expected %d dates, got %d", len(want), len(dates))
	}
	for i := range want {
		if !dates[i].Equal(want[i]) {
			t.Errorf("schedule[%d] = %s, want %s", i, dates[i].Format("2006-01-02"), want[i].Format("2006-01-02"))
		}
	}
}

func TestBuildSchedule(t *testing.T) {
	account := Account{GrantType: "SRD", MonthlyAmount: 35_000}

	cases := []struct {
		name      string
		nextPay   time.Time
		now       time.Time
		days      int
		due       bool
		overdue   bool
		countdown string
		status    string
	}{
		{"due today", date(2026, time.June, 5), date(2026, time.June, 5), 0, true, false, "Due today", "Payment due"},
		{"due tomorrow", date(2026, time.June, 5), date(2026, time.June, 4), 1, false, false, "Due tomorrow", "Payment due soon"},
		{"overdue", date(2026, time.June, 5), date(2026, time.June, 7), -2, true, true, "2 days overdue", "Payment overdue"},
		{"scheduled", date(2026, time.July, 5), date(2026, time.June, 10), 25, false, false, "25 days", "Payment scheduled"},
	}
	for _, tc := range cases {
		account.NextPaymentDate = tc.nextPay
		s := BuildSchedule(account, tc.now, 3)
		if s.DaysUntilPayment != tc.days || s.PaymentDue != tc.due || s.PaymentOverdue != tc.overdue {
			t.Errorf("%s: days=%d due=%v overdue=%v", tc.name, s.DaysUntilPayment, s.PaymentDue, s.PaymentOverdue)
		}
		if s.Countdown != tc.countdown {
			t.Errorf("%s: countdown = %q, want %q", tc.name, s.Countdown, tc.countdown)
		}
		if s.StatusMessage != tc.status {
			t.Errorf("%s: status = %q, want %q", tc.name, s.StatusMessage, tc.status)
		}
		if len(s.Upcoming) != 3 {
			t.Errorf("%s: expected 3 upcoming dates, got %d", tc.name, len(s.Upcoming))
		}
	}
}

func TestBuildScheduleFallsBackWhenDateUnset(t *testing.T) {
	account := Account{GrantType: "FOSTER_CARE", MonthlyAmount: 105_000}
	s := BuildSchedule(account, date(2026, time.June, 4), 3)
	if !s.NextPaymentDate.Equal(date(2026, time.June, 10)) {
		t.Fatalf("next = %s", s.NextPaymentDate.Format("2006-01-02"))
	}
	if s.PaymentDay != 10 {
		t.Fatalf("payment day = %d", s.PaymentDay)
	}
}
