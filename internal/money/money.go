package money

import (
	"fmt"
	"strconv"
	"strings"
)

// Amount is a ZAR monetary value in integer cents. All balance arithmetic in
// the service happens on this type so two-decimal amounts never lose
// precision on the wire or in the ledger.
type Amount int64

// FromRands converts whole rand and cent components into an Amount.
func FromRands(rands int64, cents int64) Amount {
	return Amount(rands*100 + cents)
}

// Parse accepts a decimal rand string such as "50", "50.5" or "50.00" and
// returns the amount in cents. More than two decimal places is an error.
func Parse(s string) (Amount, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, fmt.Errorf("amount is empty")
	}
	neg := false
	if strings.HasPrefix(s, "-") {
		neg = true
		s = s[1:]
	}
	whole, frac, _ := strings.Cut(s, ".")
	if whole == "" {
		whole = "0"
	}
	rands, err := strconv.ParseInt(whole, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid amount %q", s)
	}
	var cents int64
	if frac != "" {
		if len(frac) > 2 {
			return 0, fmt.Errorf("amount %q has more than two decimal places", s)
		}
		for len(frac) < 2 {
			frac += "0"
		}
		cents, err = strconv.ParseInt(frac, 10, 64)
		if err != nil {
			return 0, fmt.Errorf("invalid amount %q", s)
		}
	}
	a := Amount(rands*100 + cents)
	if neg {
		a = -a
	}
	return a, nil
}

// String renders the amount as a plain decimal, e.g. "50.00".
func (a Amount) String() string {
	v := int64(a)
	sign := ""
	if v < 0 {
		sign = "-"
		v = -v
	}
	return fmt.Sprintf("%s%d.%02d", sign, v/100, v%100)
}

// Rand renders the amount for display, e.g. "R 50.00".
func (a Amount) Rand() string {
	return "R " + a.String()
}

// MarshalJSON emits a two-decimal JSON number so consumers see 50.00 rather
// than 5000.
func (a Amount) MarshalJSON() ([]byte, error) {
	return []byte(a.String()), nil
}

// UnmarshalJSON accepts either a JSON number or a quoted decimal string.
func (a *Amount) UnmarshalJSON(data []byte) error {
	s := strings.Trim(string(data), `"`)
	if s == "null" {
		*a = 0
		return nil
	}
	parsed, err := Parse(s)
	if err != nil {
		return err
	}
	*a = parsed
	return nil
}
