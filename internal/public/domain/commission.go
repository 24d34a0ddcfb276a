package domain

import (
	"errors"

	"github.com/shopspring/decimal"
)

// CommissionPolicy decides the platform fee taken from a premium service sale.
// The rate depends on the seller's plan; the fee has a floor and never exceeds the amount.
type CommissionPolicy struct {
	FreeRate    decimal.Decimal
	PremiumRate decimal.Decimal
	Minimum     decimal.Decimal
}

// Commission is the outcome of applying a policy to a sale.
type Commission struct {
	Rate   decimal.Decimal
	Fee    decimal.Decimal
	Payout decimal.Decimal
}

// DefaultCommissionPolicy mirrors the configuration defaults.
func DefaultCommissionPolicy() CommissionPolicy {
	return CommissionPolicy{
		FreeRate:    decimal.RequireFromString("0.20"),
		PremiumRate: decimal.RequireFromString("0.12"),
		Minimum:     decimal.RequireFromString("1.00"),
	}
}

// Validate checks rates are within [0, 1] and the minimum is not negative.
func (p CommissionPolicy) Validate() error {
	one := decimal.NewFromInt(1)
	for _, rate := range []decimal.Decimal{p.FreeRate, p.PremiumRate} {
		if rate.IsNegative() || rate.GreaterThan(one) {
			return errors.New("commission rate must be between 0 and 1")
		}
	}
	if p.Minimum.IsNegative() {
		return errors.New("commission minimum must not be negative")
	}
	return nil
}

// RateFor returns the rate for a seller plan. Unknown plans pay the free rate.
func (p CommissionPolicy) RateFor(plan Plan) decimal.Decimal {
	if plan == PlanPremium {
		return p.PremiumRate
	}
	return p.FreeRate
}

// Calculate applies the policy to amount for a seller on plan.
func (p CommissionPolicy) Calculate(amount decimal.Decimal, plan Plan) Commission {
	rate := p.RateFor(plan)
	fee := amount.Mul(rate).Round(2)
	if fee.LessThan(p.Minimum) {
		fee = p.Minimum
	}
	if fee.GreaterThan(amount) {
		fee = amount
	}
	return Commission{
		Rate:   rate,
		Fee:    fee,
		Payout: amount.Sub(fee),
	}
}
