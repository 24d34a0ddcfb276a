package admin

import (
	"time"

	admindomain "github.com/sngm3741/stagelink/api/internal/admin/domain"
)

type statusRequest struct {
	Status string `json:"status" validate:"required,oneof=active suspended"`
}

type verifiedRequest struct {
	Verified *bool `json:"verified" validate:"required"`
}

type userCountsResponse struct {
	Total     int64            `json:"total"`
	ByRole    map[string]int64 `json:"byRole"`
	Suspended int64            `json:"suspended"`
	Verified  int64            `json:"verified"`
}

type paymentTotalsResponse struct {
	Count      int64  `json:"count"`
	Gross      string `json:"gross"`
	Commission string `json:"commission"`
	Payout     string `json:"payout"`
}

func buildTotals(t admindomain.PaymentTotals) paymentTotalsResponse {
	return paymentTotalsResponse{
		Count:      t.Count,
		Gross:      t.Gross.StringFixed(2),
		Commission: t.Commission.StringFixed(2),
		Payout:     t.Payout.StringFixed(2),
	}
}

type dashboardResponse struct {
	Users       userCountsResponse    `json:"users"`
	Bookings    map[string]int64      `json:"bookings"`
	Payments    paymentTotalsResponse `json:"payments"`
	Refunded    paymentTotalsResponse `json:"refunded"`
	GeneratedAt time.Time             `json:"generatedAt"`
}

func buildDashboardResponse(d admindomain.Dashboard) dashboardResponse {
	byRole := d.Users.ByRole
	if byRole == nil {
		byRole = map[string]int64{}
	}
	bookings := d.Bookings
	if bookings == nil {
		bookings = map[string]int64{}
	}
	return dashboardResponse{
		Users: userCountsResponse{
			Total:     d.Users.Total,
			ByRole:    byRole,
			Suspended: d.Users.Suspended,
			Verified:  d.Users.Verified,
		},
		Bookings:    bookings,
		Payments:    buildTotals(d.Payments),
		Refunded:    buildTotals(d.Refunded),
		GeneratedAt: d.GeneratedAt,
	}
}

type failedNotificationResponse struct {
	ID          string    `json:"id"`
	UserID      string    `json:"userId"`
	Destination string    `json:"destination,omitempty"`
	Kind        string    `json:"kind,omitempty"`
	Text        string    `json:"text"`
	Ref         string    `json:"ref,omitempty"`
	Error       string    `json:"error"`
	Attempts    int       `json:"attempts"`
	Status      string    `json:"status"`
	CreatedAt   time.Time `json:"createdAt"`
}

func buildFailedNotificationResponse(n admindomain.FailedNotification) failedNotificationResponse {
	return failedNotificationResponse{
		ID:          n.ID,
		UserID:      n.UserID,
		Destination: n.Destination,
		Kind:        n.Kind,
		Text:        n.Text,
		Ref:         n.Ref,
		Error:       n.Error,
		Attempts:    n.Attempts,
		Status:      n.Status,
		CreatedAt:   n.CreatedAt,
	}
}
