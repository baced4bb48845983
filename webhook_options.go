package beaglesecurity

import "github.com/beaglesecurity/client-go/internal/api"

// webhookConfig holds configuration for setting a webhook.
type webhookConfig struct {
	events []WebhookEventType
	active bool
}

// WebhookOption configures a webhook being set.
type WebhookOption func(*webhookConfig)

// WithWebhookEvents restricts the webhook to the given event types. The
// default delivers all events.
func WithWebhookEvents(events ...WebhookEventType) WebhookOption {
	return func(c *webhookConfig) {
		c.events = events
	}
}

// WithWebhookActive sets whether the webhook starts out active. Webhooks
// are active unless this is set to false.
func WithWebhookActive(active bool) WebhookOption {
	return func(c *webhookConfig) {
		c.active = active
	}
}

// buildSetWebhookRequest builds an API request from webhook options.
func buildSetWebhookRequest(url string, opts []WebhookOption) api.SetWebhookRequest {
	cfg := &webhookConfig{active: true}
	for _, opt := range opts {
		opt(cfg)
	}

	req := api.SetWebhookRequest{
		URL:    url,
		Active: cfg.active,
	}
	if len(cfg.events) > 0 {
		req.Events = make([]string, len(cfg.events))
		for i, e := range cfg.events {
			req.Events[i] = string(e)
		}
	}
	return req
}
