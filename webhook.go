package beaglesecurity

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/beaglesecurity/client-go/internal/api"
	"github.com/beaglesecurity/client-go/internal/signature"
)

// WebhookSignatureHeader is the HTTP header carrying the base64 encoded
// Ed25519 signature of a webhook delivery body.
const WebhookSignatureHeader = "X-Beagle-Signature"

// WebhookEventType represents the type of event that triggers a webhook.
type WebhookEventType string

const (
	// WebhookEventTestStarted is sent when a test starts running.
	WebhookEventTestStarted WebhookEventType = "test_started"
	// WebhookEventTestCompleted is sent when a test finishes.
	WebhookEventTestCompleted WebhookEventType = "test_completed"
	// WebhookEventTestStopped is sent when a running test is stopped.
	WebhookEventTestStopped WebhookEventType = "test_stopped"
	// WebhookEventTestFailed is sent when a test cannot finish.
	WebhookEventTestFailed WebhookEventType = "test_failed"
	// WebhookEventVulnerabilityFound is sent when a running test records
	// a new vulnerability.
	WebhookEventVulnerabilityFound WebhookEventType = "vulnerability_found"
)

// Webhook represents a webhook configuration. Projects and applications
// each hold at most one; setting a webhook replaces the previous one.
type Webhook struct {
	// ID is the unique identifier for the webhook.
	ID string
	// URL is the endpoint that receives webhook deliveries.
	URL string
	// Events is the list of event types that trigger this webhook.
	// Empty means all events.
	Events []WebhookEventType
	// Active indicates whether deliveries are currently sent.
	Active bool
	// SigningKey is the base64 encoded Ed25519 public key the platform
	// signs deliveries to this webhook with.
	SigningKey string
}

// webhookFromAPI converts an API webhook to the public type.
func webhookFromAPI(w *api.Webhook) *Webhook {
	if w == nil {
		return nil
	}
	out := &Webhook{
		ID:         w.ID,
		URL:        w.URL,
		Active:     w.Active,
		SigningKey: w.SigningKey,
	}
	if len(w.Events) > 0 {
		out.Events = make([]WebhookEventType, len(w.Events))
		for i, e := range w.Events {
			out.Events[i] = WebhookEventType(e)
		}
	}
	return out
}

// WebhookEvent is a verified, decoded webhook delivery.
type WebhookEvent struct {
	// Type is the event that triggered the delivery.
	Type WebhookEventType `json:"type"`
	// ApplicationToken identifies the application the event belongs to.
	ApplicationToken string `json:"application_token"`
	// ResultToken identifies the test session, when the event has one.
	ResultToken string `json:"result_token,omitempty"`
	// OccurredAt is when the event happened.
	OccurredAt time.Time `json:"occurred_at"`
	// Data carries event specific fields, undecoded.
	Data json.RawMessage `json:"data,omitempty"`
}

// ParseWebhookEvent verifies and decodes a webhook delivery. payload is
// the raw request body, signatureHeader the X-Beagle-Signature value and
// publicKey the base64 encoded Ed25519 key the platform signs deliveries
// with (Webhook.SigningKey). The signature is checked before the payload
// is decoded. A failed check returns an error matching ErrSignatureInvalid
// and the payload must be discarded.
//
// Example:
//
//	http.HandleFunc("/hooks/beagle", func(w http.ResponseWriter, r *http.Request) {
//	    payload, err := io.ReadAll(r.Body)
//	    if err != nil {
//	        http.Error(w, "read body", http.StatusBadRequest)
//	        return
//	    }
//	    event, err := beaglesecurity.ParseWebhookEvent(payload, r.Header.Get(beaglesecurity.WebhookSignatureHeader), signingKey)
//	    if err != nil {
//	        http.Error(w, "invalid delivery", http.StatusUnauthorized)
//	        return
//	    }
//	    log.Printf("%s for %s", event.Type, event.ApplicationToken)
//	})
func ParseWebhookEvent(payload []byte, signatureHeader, publicKey string) (*WebhookEvent, error) {
	if err := signature.VerifyEncoded(publicKey, signatureHeader, payload); err != nil {
		return nil, &SignatureVerificationError{Message: "webhook delivery rejected", Err: err}
	}

	var event WebhookEvent
	if err := json.Unmarshal(payload, &event); err != nil {
		return nil, fmt.Errorf("decode webhook payload: %w", err)
	}
	return &event, nil
}

// Webhook returns the webhook configured for the project, or a NotFoundError
// when none is set.
func (p *Project) Webhook(ctx context.Context) (*Webhook, error) {
	apiClient, err := p.api()
	if err != nil {
		return nil, err
	}

	webhook, err := apiClient.GetProjectWebhook(ctx, p.Key)
	if err != nil {
		return nil, wrapError(err)
	}
	return webhookFromAPI(webhook), nil
}

// SetWebhook creates or replaces the project's webhook. Deliveries fire
// for tests of every application under the project.
func (p *Project) SetWebhook(ctx context.Context, url string, opts ...WebhookOption) (*Webhook, error) {
	apiClient, err := p.api()
	if err != nil {
		return nil, err
	}

	webhook, err := apiClient.SetProjectWebhook(ctx, p.Key, buildSetWebhookRequest(url, opts))
	if err != nil {
		return nil, wrapError(err)
	}
	return webhookFromAPI(webhook), nil
}

// DeleteWebhook removes the project's webhook.
func (p *Project) DeleteWebhook(ctx context.Context) error {
	apiClient, err := p.api()
	if err != nil {
		return err
	}
	return wrapError(apiClient.DeleteProjectWebhook(ctx, p.Key))
}

// Webhook returns the webhook configured for the application, or a
// NotFoundError when none is set.
func (a *Application) Webhook(ctx context.Context) (*Webhook, error) {
	apiClient, err := a.api()
	if err != nil {
		return nil, err
	}

	webhook, err := apiClient.GetApplicationWebhook(ctx, a.Token)
	if err != nil {
		return nil, wrapError(err)
	}
	return webhookFromAPI(webhook), nil
}

// SetWebhook creates or replaces the application's webhook.
func (a *Application) SetWebhook(ctx context.Context, url string, opts ...WebhookOption) (*Webhook, error) {
	apiClient, err := a.api()
	if err != nil {
		return nil, err
	}

	webhook, err := apiClient.SetApplicationWebhook(ctx, a.Token, buildSetWebhookRequest(url, opts))
	if err != nil {
		return nil, wrapError(err)
	}
	return webhookFromAPI(webhook), nil
}

// DeleteWebhook removes the application's webhook.
func (a *Application) DeleteWebhook(ctx context.Context) error {
	apiClient, err := a.api()
	if err != nil {
		return err
	}
	return wrapError(apiClient.DeleteApplicationWebhook(ctx, a.Token))
}
