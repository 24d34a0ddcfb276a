package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// UserCounts breaks the member base down by role and moderation state.
type UserCounts struct {
	Total     int64
	ByRole    map[string]int64
	Suspended int64
	Verified  int64
}

// PaymentTotals sums settled payments.
type PaymentTotals struct {
	Count      int64
	Gross      decimal.Decimal
	Commission decimal.Decimal
	Payout     decimal.Decimal
}

// Dashboard is the operator overview.
type Dashboard struct {
	Users       UserCounts
	Bookings    map[string]int64
	Payments    PaymentTotals
	Refunded    PaymentTotals
	GeneratedAt time.Time
}
