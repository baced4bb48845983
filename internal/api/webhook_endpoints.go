package api

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
)

// Project webhook endpoints

// GetProjectWebhook returns the webhook configured for a project.
func (c *Client) GetProjectWebhook(ctx context.Context, projectKey string) (*Webhook, error) {
	var result Webhook
	path := fmt.Sprintf("/rest/v3/project/%s/webhook", url.PathEscape(projectKey))
	if err := c.Do(ctx, http.MethodGet, path, nil, nil, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// SetProjectWebhook creates or replaces the webhook for a project.
func (c *Client) SetProjectWebhook(ctx context.Context, projectKey string, req SetWebhookRequest) (*Webhook, error) {
	var result Webhook
	path := fmt.Sprintf("/rest/v3/project/%s/webhook", url.PathEscape(projectKey))
	if err := c.Do(ctx, http.MethodPost, path, nil, req, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// DeleteProjectWebhook removes the webhook from a project.
func (c *Client) DeleteProjectWebhook(ctx context.Context, projectKey string) error {
	path := fmt.Sprintf("/rest/v3/project/%s/webhook", url.PathEscape(projectKey))
	return c.Do(ctx, http.MethodDelete, path, nil, nil, nil)
}

// Application webhook endpoints

// GetApplicationWebhook returns the webhook configured for an application.
func (c *Client) GetApplicationWebhook(ctx context.Context, applicationToken string) (*Webhook, error) {
	query := url.Values{"application_token": {applicationToken}}
	var result Webhook
	if err := c.Do(ctx, http.MethodGet, "/rest/v3/application/webhook", query, nil, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// SetApplicationWebhook creates or replaces the webhook for an application.
func (c *Client) SetApplicationWebhook(ctx context.Context, applicationToken string, req SetWebhookRequest) (*Webhook, error) {
	query := url.Values{"application_token": {applicationToken}}
	var result Webhook
	if err := c.Do(ctx, http.MethodPost, "/rest/v3/application/webhook", query, req, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// DeleteApplicationWebhook removes the webhook from an application.
func (c *Client) DeleteApplicationWebhook(ctx context.Context, applicationToken string) error {
	query := url.Values{"application_token": {applicationToken}}
	return c.Do(ctx, http.MethodDelete, "/rest/v3/application/webhook", query, nil, nil)
}
