package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// PaymentStatus is the settlement state of a purchase.
type PaymentStatus string

const (
	PaymentPending   PaymentStatus = "pending"
	PaymentSucceeded PaymentStatus = "succeeded"
	PaymentFailed    PaymentStatus = "failed"
	PaymentRefunded  PaymentStatus = "refunded"
)

// ParsePaymentStatus validates a status filter.
func ParsePaymentStatus(value string) (PaymentStatus, bool) {
	switch s := PaymentStatus(value); s {
	case PaymentPending, PaymentSucceeded, PaymentFailed, PaymentRefunded:
		return s, true
	}
	return "", false
}

// CanMoveTo reports whether a provider event may move the payment from s to next.
func (s PaymentStatus) CanMoveTo(next PaymentStatus) bool {
	switch s {
	case PaymentPending:
		return next == PaymentSucceeded || next == PaymentFailed
	case PaymentSucceeded:
		return next == PaymentRefunded
	}
	return false
}

// Payment records the purchase of a premium service and its commission split.
type Payment struct {
	ID             string
	ServiceID      string
	ServiceTitle   string
	BuyerID        string
	SellerID       string
	Amount         Money
	CommissionRate decimal.Decimal
	Commission     decimal.Decimal
	Payout         decimal.Decimal
	Status         PaymentStatus
	Provider       string
	ProviderRef    string
	ClientSecret   string
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// IsParty reports whether userID is the buyer or the seller.
func (p Payment) IsParty(userID string) bool {
	return userID != "" && (userID == p.BuyerID || userID == p.SellerID)
}

// PaymentEventType is a provider-neutral webhook event.
type PaymentEventType string

const (
	PaymentEventSucceeded PaymentEventType = "payment_intent.succeeded"
	PaymentEventFailed    PaymentEventType = "payment_intent.payment_failed"
	PaymentEventRefunded  PaymentEventType = "charge.refunded"
)

// TargetStatus maps an event to the payment status it implies.
func (t PaymentEventType) TargetStatus() (PaymentStatus, bool) {
	switch t {
	case PaymentEventSucceeded:
		return PaymentSucceeded, true
	case PaymentEventFailed:
		return PaymentFailed, true
	case PaymentEventRefunded:
		return PaymentRefunded, true
	}
	return "", false
}

// PaymentEvent is a verified webhook delivery.
type PaymentEvent struct {
	ID          string
	Type        PaymentEventType
	ProviderRef string
}
