package notify

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"secret-recovery/internal/retry"
)

const pushoverAPI = "https://api.pushover.net/1/messages.json"

// Priority levels for Pushover
const (
	PriorityLowest    = -2
	PriorityLow       = -1
	PriorityNormal    = 0
	PriorityHigh      = 1
	PriorityEmergency = 2
)

// Notifier sends push notifications
type Notifier struct {
	appToken string
	userKey  string
	enabled  bool
	endpoint string
	client   *http.Client
	retry    retry.Config
	breaker  *retry.CircuitBreaker
}

// New creates a new Pushover notifier
// If appToken or userKey is empty, notifications are disabled
func New(appToken, userKey string) *Notifier {
	return &Notifier{
		appToken: appToken,
		userKey:  userKey,
		enabled:  appToken != "" && userKey != "",
		endpoint: pushoverAPI,
		client: &http.Client{
			Timeout: 10 * time.Second,
		},
		retry:   retry.DefaultConfig(),
		breaker: retry.NewCircuitBreaker(5, 5*time.Minute),
	}
}

// IsEnabled returns whether notifications are enabled
func (n *Notifier) IsEnabled() bool {
	return n.enabled
}

// Send sends a notification with normal priority
func (n *Notifier) Send(ctx context.Context, title, message string) error {
	return n.SendWithPriority(ctx, title, message, PriorityNormal)
}

// SendWithPriority sends a notification with specified priority
func (n *Notifier) SendWithPriority(ctx context.Context, title, message string, priority int) error {
	if !n.enabled {
		return nil
	}
	if !n.breaker.Allow() {
		return retry.ErrCircuitOpen
	}

	data := url.Values{}
	data.Set("token", n.appToken)
	data.Set("user", n.userKey)
	data.Set("title", title)
	data.Set("message", message)
	data.Set("priority", fmt.Sprintf("%d", priority))

	// Emergency priority requires retry and expire parameters
	if priority == PriorityEmergency {
		data.Set("retry", "60")
		data.Set("expire", "3600")
	}

	err := retry.Do(ctx, n.retry, func() error {
		return n.post(ctx, data)
	})
	if err != nil {
		n.breaker.RecordFailure()
		return err
	}
	n.breaker.RecordSuccess()
	return nil
}

func (n *Notifier) post(ctx context.Context, data url.Values) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.endpoint, strings.NewReader(data.Encode()))
	if err != nil {
		return retry.Permanent(err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := n.client.Do(req)
	if err != nil {
		return fmt.Errorf("pushover request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("pushover returned status %d", resp.StatusCode)
	}

	return nil
}

// NotifyReconstructed reports a successful reconstruction. Only the
// fingerprint of the secret is sent.
func (n *Notifier) NotifyReconstructed(ctx context.Context, source, fingerprint string, k int) error {
	title := "Secret reconstructed"
	message := fmt.Sprintf("Source: %s\nThreshold: %d\nFingerprint: %s",
		source, k, shortenHash(fingerprint))
	return n.Send(ctx, title, message)
}

// NotifyFailed reports a reconstruction that failed with the given kind
func (n *Notifier) NotifyFailed(ctx context.Context, source, kind string, err error) error {
	if kind == "" {
		kind = "error"
	}
	title := "Reconstruction failed"
	message := fmt.Sprintf("Source: %s\nKind: %s\nError: %v", source, kind, err)
	return n.SendWithPriority(ctx, title, message, PriorityHigh)
}

// shortenHash returns a shortened hash
func shortenHash(hash string) string {
	if len(hash) > 18 {
		return hash[:18] + "..."
	}
	return hash
}
