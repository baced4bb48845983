package beaglesecurity

import (
	"context"
	"fmt"

	"github.com/beaglesecurity/client-go/internal/api"
)

// ProjectParams holds the settable fields of a project.
type ProjectParams struct {
	Name        string
	Description string
}

// Project represents a Beagle Security project, a grouping of applications
// that are tested and reported on together.
type Project struct {
	// Key is the project identifier used in API calls.
	Key         string
	Name        string
	Description string

	client *Client
}

func projectFromAPI(p *api.Project, c *Client) *Project {
	return &Project{
		Key:         p.ID,
		Name:        p.Name,
		Description: p.Description,
		client:      c,
	}
}

func (p *Project) api() (*api.Client, error) {
	if p.client == nil {
		return nil, fmt.Errorf("project handle is not attached to a client; use Client.Project")
	}
	return p.client.api()
}

// CreateProject creates a new project.
func (c *Client) CreateProject(ctx context.Context, params *ProjectParams) (*Project, error) {
	apiClient, err := c.api()
	if err != nil {
		return nil, err
	}
	if params == nil || params.Name == "" {
		return nil, fmt.Errorf("project name is required")
	}

	created, err := apiClient.CreateProject(ctx, api.CreateProjectRequest{
		Name:        params.Name,
		Description: params.Description,
	})
	if err != nil {
		return nil, wrapError(err)
	}
	return projectFromAPI(created, c), nil
}

// GetProject fetches a project by key.
func (c *Client) GetProject(ctx context.Context, key string) (*Project, error) {
	apiClient, err := c.api()
	if err != nil {
		return nil, err
	}

	project, err := apiClient.GetProject(ctx, key)
	if err != nil {
		return nil, wrapError(err)
	}
	return projectFromAPI(project, c), nil
}

// ListProjects lists the account's projects. Use WithSearch to filter by
// name.
func (c *Client) ListProjects(ctx context.Context, opts ...ListOption) ([]*Project, error) {
	apiClient, err := c.api()
	if err != nil {
		return nil, err
	}

	cfg := &listConfig{}
	for _, opt := range opts {
		opt(cfg)
	}

	projects, err := apiClient.ListProjects(ctx, cfg.search)
	if err != nil {
		return nil, wrapError(err)
	}

	result := make([]*Project, 0, len(projects))
	for i := range projects {
		result = append(result, projectFromAPI(&projects[i], c))
	}
	return result, nil
}

// Update changes the project's name or description and refreshes the
// handle's fields from the API response.
func (p *Project) Update(ctx context.Context, params *ProjectParams) error {
	apiClient, err := p.api()
	if err != nil {
		return err
	}
	if params == nil {
		return fmt.Errorf("project params are required")
	}

	updated, err := apiClient.UpdateProject(ctx, api.UpdateProjectRequest{
		ID:          p.Key,
		Name:        params.Name,
		Description: params.Description,
	})
	if err != nil {
		return wrapError(err)
	}

	p.Name = updated.Name
	p.Description = updated.Description
	return nil
}

// Delete removes the project and everything under it.
func (p *Project) Delete(ctx context.Context) error {
	apiClient, err := p.api()
	if err != nil {
		return err
	}
	return wrapError(apiClient.DeleteProject(ctx, p.Key))
}

// Applications lists the applications belonging to this project.
func (p *Project) Applications(ctx context.Context, opts ...ListOption) (*ApplicationList, error) {
	if p.client == nil {
		return nil, fmt.Errorf("project handle is not attached to a client; use Client.Project")
	}
	opts = append(opts, WithProjectKey(p.Key))
	return p.client.ListApplications(ctx, opts...)
}

// ResultSummary aggregates open vulnerability counts across the project.
func (p *Project) ResultSummary(ctx context.Context) (*VulnerabilitySummary, error) {
	apiClient, err := p.api()
	if err != nil {
		return nil, err
	}
	summary, err := apiClient.GetProjectSummary(ctx, p.Key)
	if err != nil {
		return nil, wrapError(err)
	}
	return summary, nil
}

// OpenCountByCriticality returns open vulnerability counts grouped by
// severity.
func (p *Project) OpenCountByCriticality(ctx context.Context) (*CriticalityCounts, error) {
	apiClient, err := p.api()
	if err != nil {
		return nil, err
	}
	counts, err := apiClient.GetProjectCriticality(ctx, p.Key)
	if err != nil {
		return nil, wrapError(err)
	}
	return counts, nil
}

// OpenCountByCatalog returns open vulnerability counts grouped by finding
// lifecycle.
func (p *Project) OpenCountByCatalog(ctx context.Context) (*CatalogCounts, error) {
	apiClient, err := p.api()
	if err != nil {
		return nil, err
	}
	counts, err := apiClient.GetProjectCatalog(ctx, p.Key)
	if err != nil {
		return nil, wrapError(err)
	}
	return counts, nil
}

// Score returns the project's current score under the given scoring model.
func (p *Project) Score(ctx context.Context, scoreType ScoreType) (float64, error) {
	apiClient, err := p.api()
	if err != nil {
		return 0, err
	}
	score, err := apiClient.GetProjectScore(ctx, p.Key, string(scoreType))
	if err != nil {
		return 0, wrapError(err)
	}
	return score, nil
}

// ScoreTrend returns the project's score history, newest last. A zero
// limit returns the platform default window.
func (p *Project) ScoreTrend(ctx context.Context, scoreType ScoreType, limit int) ([]ScoreTrendPoint, error) {
	apiClient, err := p.api()
	if err != nil {
		return nil, err
	}
	trend, err := apiClient.GetProjectScoreTrend(ctx, p.Key, string(scoreType), limit)
	if err != nil {
		return nil, wrapError(err)
	}
	return trend, nil
}

// VulnerabilityCountTrend returns the project's open vulnerability count
// history.
func (p *Project) VulnerabilityCountTrend(ctx context.Context, limit int) ([]CountTrendPoint, error) {
	apiClient, err := p.api()
	if err != nil {
		return nil, err
	}
	trend, err := apiClient.GetProjectVulnerabilityTrend(ctx, p.Key, limit)
	if err != nil {
		return nil, wrapError(err)
	}
	return trend, nil
}

// Insight returns remediation recommendations and the project's security
// score.
func (p *Project) Insight(ctx context.Context) (*Insight, error) {
	apiClient, err := p.api()
	if err != nil {
		return nil, err
	}
	insight, err := apiClient.GetProjectInsight(ctx, p.Key)
	if err != nil {
		return nil, wrapError(err)
	}
	return insight, nil
}
