package sassa

import (
	"fmt"
	"time"

	"github.com/relief-hub/relief_hub/internal/money"
)

// Grant payment days follow the monthly SASSA pay cycle: older persons'
// grants pay first, child support shortly after, SRD mid-cycle.
var paymentDays = map[string]int{
	"SRD":             5,
	"CHILD_SUPPORT":   3,
	"DISABILITY":      1,
	"OLD_AGE":         1,
	"CARE_DEPENDENCY": 1,
	"FOSTER_CARE":     10,
	"WAR_VETERANS":    1,
}

// PaymentDay returns the day of month the grant type pays on.
func PaymentDay(grantType string) int {
	if day, ok := paymentDays[grantType]; ok {
		return day
	}
	return 1
}

// NextPaymentDate computes the first payment date for the grant type on or
// after the reference date. Dates are whole days in UTC.
func NextPaymentDate(grantType string, from time.Time) time.Time {
	next := time.Date(from.Year(), from.Month(), PaymentDay(grantType), 0, 0, 0, 0, time.UTC)
	if next.Before(startOfDay(from)) {
		next = next.AddDate(0, 1, 0)
	}
	return next
}

// PaymentSchedule lists the payment dates for the grant type over the next
// months, starting from the reference date.
func PaymentSchedule(grantType string, from time.Time, months int) []time.Time {
	dates := make([]time.Time, 0, months)
	for i := 0; i < months; i++ {
		dates = append(dates, NextPaymentDate(grantType, from.AddDate(0, i, 0)))
	}
	return dates
}

func startOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// Schedule summarizes payment timing for one grant account.
type Schedule struct {
	GrantType        string       `json:"grantType"`
	MonthlyAmount    money.Amount `json:"monthlyAmount"`
	PaymentDay       int          `json:"paymentDay"`
	NextPaymentDate  time.Time    `json:"nextPaymentDate"`
	DaysUntilPayment int          `json:"daysUntilPayment"`
	PaymentDue       bool         `json:"paymentDue"`
	PaymentOverdue   bool         `json:"paymentOverdue"`
	Countdown        string       `json:"countdown"`
	StatusMessage    string       `json:"statusMessage"`
	Upcoming         []time.Time  `json:"upcomingPayments"`
}

// BuildSchedule derives the payment schedule for an account as of now. A
// zero NextPaymentDate on the account falls back to the computed date for
// its grant type.
func BuildSchedule(account Account, now time.Time, months int) Schedule {
	next := account.NextPaymentDate
	if next.IsZero() {
		next = NextPaymentDate(account.GrantType, now)
	}

	today := startOfDay(now)
	days := int(next.Sub(today).Hours() / 24)
	due := !next.After(today)
	overdue := next.Before(today)

	return Schedule{
		GrantType:        account.GrantType,
		MonthlyAmount:    account.MonthlyAmount,
		PaymentDay:       PaymentDay(account.GrantType),
		NextPaymentDate:  next,
		DaysUntilPayment: days,
		PaymentDue:       due,
		PaymentOverdue:   overdue,
		Countdown:        countdown(days, overdue),
		StatusMessage:    statusMessage(days, due, overdue),
		Upcoming:         PaymentSchedule(account.GrantType, now, months),
	}
}

func countdown(days int, overdue bool) string {
	switch {
	case overdue:
		return fmt.Sprintf("%d days overdue", -days)
	case days == 0:
		return "Due today"
	case days == 1:
		return "Due tomorrow"
	default:
		return fmt.Sprintf("%d days", days)
	}
}

func statusMessage(days int, due, overdue bool) string {
	switch {
	case overdue:
		return "Payment overdue"
	case due:
		return "Payment due"
	case days <= 3:
		return "Payment due soon"
	default:
		return "Payment scheduled"
	}
}
