//go:build integration

package integration

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	beaglesecurity "github.com/beaglesecurity/client-go"
)

func TestIntegration_ProjectWebhookLifecycle(t *testing.T) {
	client := newClient(t)
	ctx := context.Background()

	name := fmt.Sprintf("sdk-webhook-%d", time.Now().UnixNano())
	project, err := client.CreateProject(ctx, &beaglesecurity.ProjectParams{Name: name})
	if err != nil {
		t.Fatalf("CreateProject() error = %v", err)
	}
	t.Cleanup(func() {
		if err := project.Delete(ctx); err != nil {
			t.Logf("cleanup: delete project: %v", err)
		}
	})

	webhook, err := project.SetWebhook(ctx, "https://example.com/hooks/beagle",
		beaglesecurity.WithWebhookEvents(
			beaglesecurity.WebhookEventTestCompleted,
			beaglesecurity.WebhookEventTestFailed,
		),
	)
	if err != nil {
		t.Fatalf("SetWebhook() error = %v", err)
	}
	if webhook.URL != "https://example.com/hooks/beagle" {
		t.Errorf("URL = %q, want https://example.com/hooks/beagle", webhook.URL)
	}
	if webhook.SigningKey == "" {
		t.Error("SigningKey is empty")
	}

	fetched, err := project.Webhook(ctx)
	if err != nil {
		t.Fatalf("Webhook() error = %v", err)
	}
	if fetched.ID != webhook.ID {
		t.Errorf("ID = %q, want %q", fetched.ID, webhook.ID)
	}

	if err := project.DeleteWebhook(ctx); err != nil {
		t.Fatalf("DeleteWebhook() error = %v", err)
	}

	// Gone after deletion
	_, err = project.Webhook(ctx)
	if !errors.Is(err, beaglesecurity.ErrNotFound) {
		t.Errorf("Webhook() after delete error = %v, want ErrNotFound", err)
	}
}
