package electricity

import (
	"fmt"
	"strings"

	"github.com/relief-hub/relief_hub/internal/money"
)

// Rate is the prepaid tariff in cents per kWh.
const Rate money.Amount = 2_50

// Units is an electricity quantity in integer hundredths of a kWh, so unit
// arithmetic stays exact the same way money does.
type Units int64

// UnitsFor converts a purchase amount to kWh at the prepaid tariff, rounding
// half up to two decimals.
func UnitsFor(amount money.Amount) Units {
	if amount <= 0 {
		return 0
	}
	// hundredths of kWh = cents * 100 / 250, rounded half up
	return Units((int64(amount)*2 + 2) / 5)
}

// String renders the quantity as a plain decimal, e.g. "20.00".
func (u Units) String() string {
	v := int64(u)
	sign := ""
	if v < 0 {
		sign = "-"
		v = -v
	}
	return fmt.Sprintf("%s%d.%02d", sign, v/100, v%100)
}

// KWh renders the quantity for display, e.g. "20.00 kWh".
func (u Units) KWh() string {
	return u.String() + " kWh"
}

// MarshalJSON emits a two-decimal JSON number.
func (u Units) MarshalJSON() ([]byte, error) {
	return []byte(u.String()), nil
}

// UnmarshalJSON accepts either a JSON number or a quoted decimal string.
func (u *Units) UnmarshalJSON(data []byte) error {
	s := strings.Trim(string(data), `"`)
	if s == "null" {
		*u = 0
		return nil
	}
	parsed, err := money.Parse(s)
	if err != nil {
		return err
	}
	*u = Units(parsed)
	return nil
}
