package common

import "time"

const (
	// MaxRequestBody limits JSON request bodies.
	MaxRequestBody = 1 << 20
	// MaxWebhookBody limits payment provider callbacks.
	MaxWebhookBody = 64 << 10
	// RequestTimeout bounds the work a single handler does against the store.
	RequestTimeout = 5 * time.Second

	DefaultPageLimit = 20
	MaxPageLimit     = 50
)
