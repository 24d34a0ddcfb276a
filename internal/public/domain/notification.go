package domain

// NotificationKind tags what triggered a notification.
type NotificationKind string

const (
	NotifyNewMessage     NotificationKind = "message.new"
	NotifyBookingRequest NotificationKind = "booking.requested"
	NotifyBookingUpdate  NotificationKind = "booking.updated"
	NotifyPaymentSuccess NotificationKind = "payment.succeeded"
)

// Notification is an outbound message to a member through the messenger gateway.
type Notification struct {
	UserID  string
	Kind    NotificationKind
	Subject string
	Text    string
	Ref     string
}
