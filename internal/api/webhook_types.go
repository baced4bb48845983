package api

// Webhook represents a webhook configuration. Projects and applications
// each hold at most one; setting a webhook replaces the previous one.
type Webhook struct {
	ID         string   `json:"id,omitempty"`
	URL        string   `json:"url"`
	Events     []string `json:"events,omitempty"`
	Active     bool     `json:"active"`
	SigningKey string   `json:"signing_key,omitempty"`
}

// SetWebhookRequest is the request body for creating or replacing a
// webhook.
type SetWebhookRequest struct {
	URL    string   `json:"url"`
	Events []string `json:"events,omitempty"`
	Active bool     `json:"active"`
}
