package beaglesecurity

import (
	"context"
	"fmt"

	"github.com/beaglesecurity/client-go/internal/api"
)

// ApplicationParams holds the settable fields of an application.
type ApplicationParams struct {
	Name string
	URL  string
	// ProjectKey places the application under a project. Only used on
	// creation.
	ProjectKey string
	// Type is the platform's application type label. Only used on creation.
	Type string
}

// Application represents an application registered for security testing.
type Application struct {
	// Token is the application identifier used in API calls.
	Token      string
	Name       string
	URL        string
	ProjectKey string
	Type       string
	Status     string

	client *Client
}

// ApplicationList is one page of an application listing.
type ApplicationList struct {
	Applications []*Application
	// Page is the zero-based page this listing covers.
	Page int
	// Count is the page size that was requested.
	Count int
}

func applicationFromAPI(a *api.Application, c *Client) *Application {
	return &Application{
		Token:      a.Token,
		Name:       a.Name,
		URL:        a.URL,
		ProjectKey: a.ProjectKey,
		Type:       a.Type,
		Status:     a.Status,
		client:     c,
	}
}

func (a *Application) api() (*api.Client, error) {
	if a.client == nil {
		return nil, fmt.Errorf("application handle is not attached to a client; use Client.Application")
	}
	return a.client.api()
}

// CreateApplication registers a new application for testing.
func (c *Client) CreateApplication(ctx context.Context, params *ApplicationParams) (*Application, error) {
	apiClient, err := c.api()
	if err != nil {
		return nil, err
	}
	if params == nil || params.Name == "" || params.URL == "" {
		return nil, fmt.Errorf("application name and url are required")
	}

	created, err := apiClient.CreateApplication(ctx, api.CreateApplicationRequest{
		Name:       params.Name,
		URL:        params.URL,
		ProjectKey: params.ProjectKey,
		Type:       params.Type,
	})
	if err != nil {
		return nil, wrapError(err)
	}
	return applicationFromAPI(created, c), nil
}

// GetApplication fetches an application by token.
func (c *Client) GetApplication(ctx context.Context, token string) (*Application, error) {
	apiClient, err := c.api()
	if err != nil {
		return nil, err
	}

	app, err := apiClient.GetApplication(ctx, token)
	if err != nil {
		return nil, wrapError(err)
	}
	return applicationFromAPI(app, c), nil
}

// ListApplications lists applications. Filter with WithProjectKey,
// WithSearch and WithImportance; page with WithPage and WithPageSize.
func (c *Client) ListApplications(ctx context.Context, opts ...ListOption) (*ApplicationList, error) {
	apiClient, err := c.api()
	if err != nil {
		return nil, err
	}

	cfg := &listConfig{count: 20}
	for _, opt := range opts {
		opt(cfg)
	}

	apps, err := apiClient.ListApplications(ctx, api.ListApplicationsParams{
		Page:       cfg.page,
		Count:      cfg.count,
		ProjectKey: cfg.projectKey,
		Search:     cfg.search,
		Importance: cfg.importance,
	})
	if err != nil {
		return nil, wrapError(err)
	}

	list := &ApplicationList{
		Applications: make([]*Application, 0, len(apps)),
		Page:         cfg.page,
		Count:        cfg.count,
	}
	for i := range apps {
		list.Applications = append(list.Applications, applicationFromAPI(&apps[i], c))
	}
	return list, nil
}

// Refresh reloads the application's fields from the API.
func (a *Application) Refresh(ctx context.Context) error {
	apiClient, err := a.api()
	if err != nil {
		return err
	}

	current, err := apiClient.GetApplication(ctx, a.Token)
	if err != nil {
		return wrapError(err)
	}

	a.Name = current.Name
	a.URL = current.URL
	a.ProjectKey = current.ProjectKey
	a.Type = current.Type
	a.Status = current.Status
	return nil
}

// Update changes the application's name or URL and refreshes the handle's
// fields from the API response.
func (a *Application) Update(ctx context.Context, params *ApplicationParams) error {
	apiClient, err := a.api()
	if err != nil {
		return err
	}
	if params == nil {
		return fmt.Errorf("application params are required")
	}

	updated, err := apiClient.UpdateApplication(ctx, api.UpdateApplicationRequest{
		Token: a.Token,
		Name:  params.Name,
		URL:   params.URL,
	})
	if err != nil {
		return wrapError(err)
	}

	a.Name = updated.Name
	a.URL = updated.URL
	return nil
}

// Delete removes the application and its test history.
func (a *Application) Delete(ctx context.Context) error {
	apiClient, err := a.api()
	if err != nil {
		return err
	}
	return wrapError(apiClient.DeleteApplication(ctx, a.Token))
}

// Signature returns the domain verification signature the application's
// domain must publish before tests may run against it.
func (a *Application) Signature(ctx context.Context) (*DomainSignature, error) {
	apiClient, err := a.api()
	if err != nil {
		return nil, err
	}
	sig, err := apiClient.GetDomainSignature(ctx, a.Token)
	if err != nil {
		return nil, wrapError(err)
	}
	return sig, nil
}

// VerifyDomain asks the platform to confirm the signature is published on
// the application's domain. Returns true once ownership is verified.
func (a *Application) VerifyDomain(ctx context.Context, signature string) (bool, error) {
	apiClient, err := a.api()
	if err != nil {
		return false, err
	}
	verified, err := apiClient.VerifyDomainSignature(ctx, a.Token, signature)
	if err != nil {
		return false, wrapError(err)
	}
	return verified, nil
}

// ResultSummary aggregates the application's open vulnerability counts.
func (a *Application) ResultSummary(ctx context.Context) (*VulnerabilitySummary, error) {
	apiClient, err := a.api()
	if err != nil {
		return nil, err
	}
	summary, err := apiClient.GetApplicationSummary(ctx, a.Token)
	if err != nil {
		return nil, wrapError(err)
	}
	return summary, nil
}

// OpenCountByCriticality returns open vulnerability counts grouped by
// severity.
func (a *Application) OpenCountByCriticality(ctx context.Context) (*CriticalityCounts, error) {
	apiClient, err := a.api()
	if err != nil {
		return nil, err
	}
	counts, err := apiClient.GetApplicationCriticality(ctx, a.Token)
	if err != nil {
		return nil, wrapError(err)
	}
	return counts, nil
}

// OpenCountByCatalog returns open vulnerability counts grouped by finding
// lifecycle.
func (a *Application) OpenCountByCatalog(ctx context.Context) (*CatalogCounts, error) {
	apiClient, err := a.api()
	if err != nil {
		return nil, err
	}
	counts, err := apiClient.GetApplicationCatalog(ctx, a.Token)
	if err != nil {
		return nil, wrapError(err)
	}
	return counts, nil
}

// Score returns the application's current score under the given scoring
// model.
func (a *Application) Score(ctx context.Context, scoreType ScoreType) (float64, error) {
	apiClient, err := a.api()
	if err != nil {
		return 0, err
	}
	score, err := apiClient.GetApplicationScore(ctx, a.Token, string(scoreType))
	if err != nil {
		return 0, wrapError(err)
	}
	return score, nil
}

// ScoreTrend returns the application's score history, newest last.
func (a *Application) ScoreTrend(ctx context.Context, scoreType ScoreType) ([]ScoreTrendPoint, error) {
	apiClient, err := a.api()
	if err != nil {
		return nil, err
	}
	trend, err := apiClient.GetApplicationScoreTrend(ctx, a.Token, string(scoreType))
	if err != nil {
		return nil, wrapError(err)
	}
	return trend, nil
}

// VulnerabilityCountTrend returns the application's open vulnerability
// count history.
func (a *Application) VulnerabilityCountTrend(ctx context.Context) ([]CountTrendPoint, error) {
	apiClient, err := a.api()
	if err != nil {
		return nil, err
	}
	trend, err := apiClient.GetApplicationVulnerabilityTrend(ctx, a.Token)
	if err != nil {
		return nil, wrapError(err)
	}
	return trend, nil
}

// Insight returns remediation recommendations and the application's
// security score.
func (a *Application) Insight(ctx context.Context) (*Insight, error) {
	apiClient, err := a.api()
	if err != nil {
		return nil, err
	}
	insight, err := apiClient.GetApplicationInsight(ctx, a.Token)
	if err != nil {
		return nil, wrapError(err)
	}
	return insight, nil
}
