package domain

import (
	"strings"

	"github.com/shopspring/decimal"
)

// DefaultCurrency is used when a price arrives without a currency.
const DefaultCurrency = "usd"

var (
	minServicePrice = decimal.NewFromInt(5)
	maxServicePrice = decimal.NewFromInt(10000)
)

// Money is an amount with two decimal places in a lower-case ISO 4217 currency.
type Money struct {
	Amount   decimal.Decimal
	Currency string
}

// NewMoney parses a decimal string such as "49.99".
func NewMoney(field, amount, currency string) (Money, error) {
	d, err := decimal.NewFromString(strings.TrimSpace(amount))
	if err != nil {
		return Money{}, Invalid(field, "must be a decimal amount")
	}
	if !d.Round(2).Equal(d) {
		return Money{}, Invalid(field, "must have at most two decimal places")
	}
	currency = strings.ToLower(strings.TrimSpace(currency))
	if currency == "" {
		currency = DefaultCurrency
	}
	if len(currency) != 3 {
		return Money{}, Invalid("currency", "must be a 3-letter ISO code")
	}
	return Money{Amount: d, Currency: currency}, nil
}

// NewServicePrice parses a price and applies the catalogue bounds.
func NewServicePrice(amount, currency string) (Money, error) {
	m, err := NewMoney("price", amount, currency)
	if err != nil {
		return Money{}, err
	}
	if m.Amount.LessThan(minServicePrice) || m.Amount.GreaterThan(maxServicePrice) {
		return Money{}, Invalid("price", "must be between %s and %s", minServicePrice.StringFixed(2), maxServicePrice.StringFixed(2))
	}
	return m, nil
}

// MinorUnits converts the amount to cents for payment providers.
func (m Money) MinorUnits() int64 {
	return m.Amount.Shift(2).Round(0).IntPart()
}

// String renders the amount with two decimals.
func (m Money) String() string {
	return m.Amount.StringFixed(2)
}

// IsZero reports whether no amount was set.
func (m Money) IsZero() bool {
	return m.Amount.IsZero() && m.Currency == ""
}
