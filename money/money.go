// Package money formats the balances and changes the API reports as plain
// floats, using the currency's own minor-unit precision and symbol.
package money

import (
	"fmt"
	"strings"

	gomoney "github.com/Rhymond/go-money"
	"github.com/shopspring/decimal"
)

// DefaultCurrency is used when the user has no currency preference.
const DefaultCurrency = "USD"

// Amount is a decimal value in one currency.
type Amount struct {
	value    decimal.Decimal
	currency string
}

// New returns an Amount. The currency code is upper-cased; an empty code
// means DefaultCurrency.
func New(value decimal.Decimal, currency string) Amount {
	currency = strings.ToUpper(strings.TrimSpace(currency))
	if currency == "" {
		currency = DefaultCurrency
	}
	return Amount{value: value, currency: currency}
}

// FromFloat returns an Amount from an API float.
func FromFloat(value float64, currency string) Amount {
	return New(decimal.NewFromFloat(value), currency)
}

// Currency returns the ISO 4217 code.
func (a Amount) Currency() string { return a.currency }

// Decimal returns the exact value.
func (a Amount) Decimal() decimal.Decimal { return a.value }

// Float returns the value in major units.
func (a Amount) Float() float64 {
	f, _ := a.value.Float64()
	return f
}

func (a Amount) IsZero() bool     { return a.value.IsZero() }
func (a Amount) IsNegative() bool { return a.value.IsNegative() }
func (a Amount) IsPositive() bool { return a.value.IsPositive() }

// Add sums two amounts of the same currency.
func (a Amount) Add(b Amount) (Amount, error) {
	if a.currency != b.currency {
		return Amount{}, fmt.Errorf("money: cannot add %s to %s", b.currency, a.currency)
	}
	return Amount{value: a.value.Add(b.value), currency: a.currency}, nil
}

// Sum adds amounts sharing currency. Amounts in other currencies are an error.
func Sum(currency string, amounts ...Amount) (Amount, error) {
	total := New(decimal.Zero, currency)
	for _, a := range amounts {
		var err error
		if total, err = total.Add(a); err != nil {
			return Amount{}, err
		}
	}
	return total, nil
}

// String formats with the currency symbol and grouping, e.g. "$1,234.50".
// Unknown currencies fall back to "1234.50 XYZ".
func (a Amount) String() string {
	cur := gomoney.GetCurrency(a.currency)
	if cur == nil {
		return a.value.StringFixed(2) + " " + a.currency
	}
	minor := a.value.Shift(int32(cur.Fraction)).Round(0).IntPart()
	return gomoney.New(minor, a.currency).Display()
}

// SignedString is String with a leading "+" for positive amounts.
func (a Amount) SignedString() string {
	if a.IsPositive() {
		return "+" + a.String()
	}
	return a.String()
}

// Percent is a percentage such as 12.5 for 12.5%.
type Percent float64

func (p Percent) String() string {
	return fmt.Sprintf("%.2f%%", float64(p))
}

// SignedString always carries a sign, e.g. "+1.20%".
func (p Percent) SignedString() string {
	return fmt.Sprintf("%+.2f%%", float64(p))
}

// Change is the relative change from previous to current, zero when there is
// no previous value.
func Change(previous, current float64) Percent {
	if previous == 0 {
		return 0
	}
	return Percent((current - previous) / previous * 100)
}
