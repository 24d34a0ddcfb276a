package domain

import "time"

// FailedNotification is a notification the messenger gateway never accepted.
type FailedNotification struct {
	ID          string
	UserID      string
	Destination string
	Kind        string
	Text        string
	Ref         string
	Error       string
	Attempts    int
	Status      string
	CreatedAt   time.Time
}
