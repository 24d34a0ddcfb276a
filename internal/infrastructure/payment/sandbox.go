// Package payment adapts payment providers to application.PaymentGateway.
package payment

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/sngm3741/stagelink/api/internal/public/application"
	"github.com/sngm3741/stagelink/api/internal/public/domain"
)

// SignatureTolerance bounds the age of a signed webhook delivery.
const SignatureTolerance = 5 * time.Minute

var _ application.PaymentGateway = (*SandboxGateway)(nil)

// SandboxGateway fakes a provider for development. Intents are accepted
// immediately; settlement arrives through signed webhooks.
type SandboxGateway struct {
	secret []byte
	now    func() time.Time
}

func NewSandboxGateway(secret string) *SandboxGateway {
	return &SandboxGateway{secret: []byte(secret), now: time.Now}
}

func (g *SandboxGateway) Name() string { return "sandbox" }

func (g *SandboxGateway) CreateIntent(_ context.Context, req application.IntentRequest) (*application.Intent, error) {
	if req.Amount.MinorUnits() <= 0 {
		return nil, fmt.Errorf("sandbox: amount must be positive")
	}
	ref := "pi_sandbox_" + strings.ReplaceAll(uuid.NewString(), "-", "")
	return &application.Intent{
		ProviderRef:  ref,
		ClientSecret: ref + "_secret_" + strings.ReplaceAll(uuid.NewString(), "-", "")[:16],
	}, nil
}

// SandboxEvent is the webhook body the sandbox accepts.
type SandboxEvent struct {
	ID          string `json:"id"`
	Type        string `json:"type"`
	ProviderRef string `json:"providerRef"`
}

// Sign produces the signature header for payload: "t=<unix>,v1=<mac>".
func (g *SandboxGateway) Sign(payload []byte, at time.Time) string {
	ts := strconv.FormatInt(at.Unix(), 10)
	return "t=" + ts + ",v1=" + g.mac(ts, payload)
}

func (g *SandboxGateway) mac(ts string, payload []byte) string {
	mac := hmac.New(sha256.New, g.secret)
	mac.Write([]byte(ts))
	mac.Write([]byte("."))
	mac.Write(payload)
	return base64.RawURLEncoding.EncodeToString(mac.Sum(nil))
}

// ParseEvent verifies the signature and timestamp before decoding payload.
func (g *SandboxGateway) ParseEvent(payload []byte, signature string) (*domain.PaymentEvent, error) {
	var ts, sig string
	for _, part := range strings.Split(signature, ",") {
		key, value, ok := strings.Cut(strings.TrimSpace(part), "=")
		if !ok {
			continue
		}
		switch key {
		case "t":
			ts = value
		case "v1":
			sig = value
		}
	}
	if ts == "" || sig == "" {
		return nil, domain.Invalid("signature", "is missing or malformed")
	}
	if !hmac.Equal([]byte(g.mac(ts, payload)), []byte(sig)) {
		return nil, domain.Invalid("signature", "verification failed")
	}
	unix, err := strconv.ParseInt(ts, 10, 64)
	if err != nil {
		return nil, domain.Invalid("signature", "has an invalid timestamp")
	}
	if age := g.now().Sub(time.Unix(unix, 0)); age > SignatureTolerance || age < -SignatureTolerance {
		return nil, domain.Invalid("signature", "timestamp outside tolerance")
	}

	var event SandboxEvent
	if err := json.Unmarshal(payload, &event); err != nil {
		return nil, domain.Invalid("payload", "is not a valid event")
	}
	if event.ID == "" || event.Type == "" {
		return nil, domain.Invalid("payload", "id and type are required")
	}
	return &domain.PaymentEvent{
		ID:          event.ID,
		Type:        domain.PaymentEventType(event.Type),
		ProviderRef: event.ProviderRef,
	}, nil
}
