// internal/infra/secrets/provider.go
package secrets

import (
	"context"
	"fmt"
	"strings"

	secretmanager "cloud.google.com/go/secretmanager/apiv1"
	smpb "cloud.google.com/go/secretmanager/apiv1/secretmanagerpb"
)

// Provider reads secret payloads from Google Secret Manager.
// A nil Provider (Secret Manager unavailable) resolves nothing; callers
// fall back to plain environment values.
type Provider struct {
	client    *secretmanager.Client
	projectID string
}

func NewProvider(client *secretmanager.Client, projectID string) *Provider {
	if client == nil || strings.TrimSpace(projectID) == "" {
		return nil
	}
	return &Provider{client: client, projectID: projectID}
}

// Resolve fetches the latest version of secretID.
func (p *Provider) Resolve(ctx context.Context, secretID string) (string, error) {
	if p == nil {
		return "", fmt.Errorf("secrets: provider not configured")
	}
	sid := strings.TrimSpace(secretID)
	if sid == "" {
		return "", fmt.Errorf("secrets: empty secret id")
	}

	name := fmt.Sprintf("projects/%s/secrets/%s/versions/latest", p.projectID, sid)
	res, err := p.client.AccessSecretVersion(ctx, &smpb.AccessSecretVersionRequest{Name: name})
	if err != nil {
		return "", fmt.Errorf("secrets: access %s: %w", sid, err)
	}
	return strings.TrimSpace(string(res.Payload.GetData())), nil
}

// ResolveOrFallback prefers the Secret Manager value and falls back to the
// given plain value (typically an env var) when the secret id is empty or
// the lookup fails.
func (p *Provider) ResolveOrFallback(ctx context.Context, secretID, fallback string) string {
	if p == nil || strings.TrimSpace(secretID) == "" {
		return fallback
	}
	v, err := p.Resolve(ctx, secretID)
	if err != nil || v == "" {
		return fallback
	}
	return v
}
