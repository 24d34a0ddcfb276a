// Package messenger delivers member notifications through the messenger gateway.
package messenger

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	admindomain "github.com/sngm3741/stagelink/api/internal/admin/domain"
	"github.com/sngm3741/stagelink/api/internal/public/application"
	"github.com/sngm3741/stagelink/api/internal/public/domain"
)

var _ application.Notifier = (*Notifier)(nil)

// DefaultRetryDelay is the pause between delivery attempts when Config leaves it unset.
const DefaultRetryDelay = 200 * time.Millisecond

// FailureStore keeps notifications that could not be delivered.
type FailureStore interface {
	Save(ctx context.Context, n admindomain.FailedNotification) error
}

// Config configures a Notifier.
type Config struct {
	Endpoint    string
	Destination string
	HTTPClient  *http.Client
	Failures    FailureStore
	Logger      *zap.Logger
	Workers     int
	QueueSize   int
	Attempts    int
	RetryDelay  time.Duration
}

// Notifier queues notifications and posts them to the gateway from a small
// worker pool, so callers never wait on delivery.
type Notifier struct {
	endpoint    string
	destination string
	client      *http.Client
	failures    FailureStore
	logger      *zap.Logger
	attempts    int
	delay       time.Duration

	queue  chan domain.Notification
	mu     sync.RWMutex
	closed bool
	wg     sync.WaitGroup
	ctx    context.Context
	cancel context.CancelFunc
}

func NewNotifier(cfg Config) *Notifier {
	if cfg.HTTPClient == nil {
		cfg.HTTPClient = &http.Client{Timeout: 3 * time.Second}
	}
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}
	if cfg.Workers <= 0 {
		cfg.Workers = 2
	}
	if cfg.QueueSize <= 0 {
		cfg.QueueSize = 256
	}
	if cfg.Attempts <= 0 {
		cfg.Attempts = 3
	}
	if cfg.RetryDelay <= 0 {
		cfg.RetryDelay = DefaultRetryDelay
	}
	ctx, cancel := context.WithCancel(context.Background())
	n := &Notifier{
		endpoint:    strings.TrimRight(strings.TrimSpace(cfg.Endpoint), "/") + "/messages",
		destination: strings.TrimSpace(cfg.Destination),
		client:      cfg.HTTPClient,
		failures:    cfg.Failures,
		logger:      cfg.Logger,
		attempts:    cfg.Attempts,
		delay:       cfg.RetryDelay,
		queue:       make(chan domain.Notification, cfg.QueueSize),
		ctx:         ctx,
		cancel:      cancel,
	}
	for i := 0; i < cfg.Workers; i++ {
		n.wg.Add(1)
		go n.work()
	}
	return n
}

// Notify enqueues n. A full queue or a closed notifier records a failure instead.
func (n *Notifier) Notify(ctx context.Context, note domain.Notification) {
	n.mu.RLock()
	defer n.mu.RUnlock()
	if n.closed {
		n.persist(context.WithoutCancel(ctx), note, errors.New("notifier closed"), 0)
		return
	}
	select {
	case n.queue <- note:
	default:
		n.logger.Warn("notification queue full", zap.String("user_id", note.UserID), zap.String("kind", string(note.Kind)))
		n.persist(context.WithoutCancel(ctx), note, errors.New("notification queue full"), 0)
	}
}

// Close stops accepting notifications and drains the queue. If ctx expires
// first, pending retries are abandoned.
func (n *Notifier) Close(ctx context.Context) error {
	n.mu.Lock()
	if n.closed {
		n.mu.Unlock()
		return nil
	}
	n.closed = true
	close(n.queue)
	n.mu.Unlock()

	done := make(chan struct{})
	go func() {
		n.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
		n.cancel()
		return nil
	case <-ctx.Done():
		n.cancel()
		<-done
		return ctx.Err()
	}
}

func (n *Notifier) work() {
	defer n.wg.Done()
	for note := range n.queue {
		n.deliver(note)
	}
}

func (n *Notifier) deliver(note domain.Notification) {
	text := note.Text
	if note.Subject != "" {
		text = note.Subject + "\n" + note.Text
	}

	var lastErr error
	for attempt := 1; attempt <= n.attempts; attempt++ {
		lastErr = n.send(n.ctx, note.UserID, text)
		if lastErr == nil {
			return
		}
		if attempt == n.attempts {
			continue
		}
		select {
		case <-time.After(n.delay):
		case <-n.ctx.Done():
			attempt = n.attempts
		}
	}

	n.logger.Warn("notification delivery failed",
		zap.String("user_id", note.UserID),
		zap.String("kind", string(note.Kind)),
		zap.Error(lastErr))
	n.persist(context.Background(), note, lastErr, n.attempts)
}

func (n *Notifier) persist(ctx context.Context, note domain.Notification, cause error, attempts int) {
	if n.failures == nil {
		return
	}
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	err := n.failures.Save(ctx, admindomain.FailedNotification{
		UserID:      note.UserID,
		Destination: n.destination,
		Kind:        string(note.Kind),
		Text:        note.Text,
		Ref:         note.Ref,
		Error:       cause.Error(),
		Attempts:    attempts,
		Status:      "pending",
		CreatedAt:   time.Now().UTC(),
	})
	if err != nil {
		n.logger.Error("persist failed notification", zap.String("user_id", note.UserID), zap.Error(err))
	}
}

func (n *Notifier) send(ctx context.Context, userID, text string) error {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return errors.New("userID is required")
	}
	payload := map[string]any{
		"userId": userID,
		"text":   text,
	}
	if n.destination != "" {
		payload["destination"] = n.destination
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("encode messenger payload: %w", err)
	}

	timeout := n.client.Timeout
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.endpoint, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build messenger request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	res, err := n.client.Do(req)
	if err != nil {
		return fmt.Errorf("messenger request: %w", err)
	}
	defer res.Body.Close()

	if res.StatusCode >= 400 {
		message, _ := io.ReadAll(io.LimitReader(res.Body, 1<<16))
		return fmt.Errorf("messenger gateway: status=%d body=%s", res.StatusCode, strings.TrimSpace(string(message)))
	}
	_, _ = io.Copy(io.Discard, res.Body)
	return nil
}
