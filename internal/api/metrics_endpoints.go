package api

import (
	"context"
	"net/http"
	"net/url"
	"strconv"
)

// Result metric endpoints exist at two scopes. Project metrics live
// under /rest/v3/project (singular) when keyed to one project and
// /rest/v3/projects (plural) when aggregated over the account, except
// criticality which is plural in both forms. Application metrics are
// always keyed by application token, except insight which uses the
// plural applications path.

// GetProjectSummary retrieves the result summary for one project.
func (c *Client) GetProjectSummary(ctx context.Context, projectKey string) (*VulnerabilitySummary, error) {
	query := url.Values{"project_key": {projectKey}}
	var result VulnerabilitySummary
	if err := c.Do(ctx, http.MethodGet, "/rest/v3/project/result/summary", query, nil, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// ListProjectSummaries retrieves result summaries for all projects.
func (c *Client) ListProjectSummaries(ctx context.Context) ([]ProjectSummary, error) {
	var result projectSummaryListResponse
	if err := c.Do(ctx, http.MethodGet, "/rest/v3/projects/result/summary", nil, nil, &result); err != nil {
		return nil, err
	}
	return result.Data, nil
}

// GetProjectCriticality retrieves open vulnerability counts by severity
// for one project.
func (c *Client) GetProjectCriticality(ctx context.Context, projectKey string) (*CriticalityCounts, error) {
	query := url.Values{"project_key": {projectKey}}
	var result criticalityResponse
	if err := c.Do(ctx, http.MethodGet, "/rest/v3/projects/result/opencount/criticality", query, nil, &result); err != nil {
		return nil, err
	}
	return &result.Data, nil
}

// ListProjectCriticalities retrieves open vulnerability counts by
// severity for all projects.
func (c *Client) ListProjectCriticalities(ctx context.Context) ([]ProjectCriticality, error) {
	var result projectCriticalityListResponse
	if err := c.Do(ctx, http.MethodGet, "/rest/v3/projects/result/opencount/criticality", nil, nil, &result); err != nil {
		return nil, err
	}
	return result.Data, nil
}

// GetProjectCatalog retrieves open vulnerability counts by fix state for
// one project.
func (c *Client) GetProjectCatalog(ctx context.Context, projectKey string) (*CatalogCounts, error) {
	query := url.Values{"project_key": {projectKey}}
	var result catalogResponse
	if err := c.Do(ctx, http.MethodGet, "/rest/v3/project/result/opencount/catalog", query, nil, &result); err != nil {
		return nil, err
	}
	return &result.Data, nil
}

// ListProjectCatalogs retrieves open vulnerability counts by fix state
// for all projects.
func (c *Client) ListProjectCatalogs(ctx context.Context) ([]ProjectCatalog, error) {
	var result projectCatalogListResponse
	if err := c.Do(ctx, http.MethodGet, "/rest/v3/projects/result/opencount/catalog", nil, nil, &result); err != nil {
		return nil, err
	}
	return result.Data, nil
}

// GetProjectScore retrieves the score of one project.
func (c *Client) GetProjectScore(ctx context.Context, projectKey, scoreType string) (float64, error) {
	query := url.Values{
		"project_key": {projectKey},
		"score_type":  {scoreType},
	}
	var result ScoreResponse
	if err := c.Do(ctx, http.MethodGet, "/rest/v3/project/result/score", query, nil, &result); err != nil {
		return 0, err
	}
	return result.Score, nil
}

// ListProjectScores retrieves scores for all projects.
func (c *Client) ListProjectScores(ctx context.Context, scoreType string) ([]ProjectScore, error) {
	query := url.Values{"score_type": {scoreType}}
	var result projectScoreListResponse
	if err := c.Do(ctx, http.MethodGet, "/rest/v3/projects/result/score", query, nil, &result); err != nil {
		return nil, err
	}
	return result.Data, nil
}

// GetProjectScoreTrend retrieves the score trend of one project. A zero
// limit returns the server default number of points.
func (c *Client) GetProjectScoreTrend(ctx context.Context, projectKey, scoreType string, limit int) ([]ScoreTrendPoint, error) {
	query := url.Values{
		"project_key": {projectKey},
		"score_type":  {scoreType},
	}
	if limit > 0 {
		query.Set("limit", strconv.Itoa(limit))
	}
	var result scoreTrendResponse
	if err := c.Do(ctx, http.MethodGet, "/rest/v3/project/result/trend/score", query, nil, &result); err != nil {
		return nil, err
	}
	return result.Data, nil
}

// GetAccountScoreTrend retrieves the score trend across all projects.
func (c *Client) GetAccountScoreTrend(ctx context.Context, scoreType string, limit int) ([]ScoreTrendPoint, error) {
	query := url.Values{"score_type": {scoreType}}
	if limit > 0 {
		query.Set("limit", strconv.Itoa(limit))
	}
	var result scoreTrendResponse
	if err := c.Do(ctx, http.MethodGet, "/rest/v3/projects/result/trend/score", query, nil, &result); err != nil {
		return nil, err
	}
	return result.Data, nil
}

// GetProjectVulnerabilityTrend retrieves the open vulnerability count
// trend of one project.
func (c *Client) GetProjectVulnerabilityTrend(ctx context.Context, projectKey string, limit int) ([]CountTrendPoint, error) {
	query := url.Values{"project_key": {projectKey}}
	if limit > 0 {
		query.Set("limit", strconv.Itoa(limit))
	}
	var result countTrendResponse
	if err := c.Do(ctx, http.MethodGet, "/rest/v3/project/result/trend/vulnerabilitycount", query, nil, &result); err != nil {
		return nil, err
	}
	return result.Data, nil
}

// GetAccountVulnerabilityTrend retrieves the open vulnerability count
// trend across all projects.
func (c *Client) GetAccountVulnerabilityTrend(ctx context.Context, limit int) ([]CountTrendPoint, error) {
	query := url.Values{}
	if limit > 0 {
		query.Set("limit", strconv.Itoa(limit))
	}
	var result countTrendResponse
	if err := c.Do(ctx, http.MethodGet, "/rest/v3/projects/result/trend/vulnerabilitycount", query, nil, &result); err != nil {
		return nil, err
	}
	return result.Data, nil
}

// GetProjectInsight retrieves security insights for one project.
func (c *Client) GetProjectInsight(ctx context.Context, projectKey string) (*Insight, error) {
	query := url.Values{"project_key": {projectKey}}
	var result Insight
	if err := c.Do(ctx, http.MethodGet, "/rest/v3/project/result/insight", query, nil, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// ListProjectInsights retrieves security insights for all projects.
func (c *Client) ListProjectInsights(ctx context.Context) ([]ProjectInsight, error) {
	var result projectInsightListResponse
	if err := c.Do(ctx, http.MethodGet, "/rest/v3/projects/result/insight", nil, nil, &result); err != nil {
		return nil, err
	}
	return result.Data, nil
}

// GetApplicationSummary retrieves the result summary for an application.
func (c *Client) GetApplicationSummary(ctx context.Context, applicationToken string) (*VulnerabilitySummary, error) {
	query := url.Values{"application_token": {applicationToken}}
	var result VulnerabilitySummary
	if err := c.Do(ctx, http.MethodGet, "/rest/v3/application/result/summary", query, nil, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// GetApplicationCriticality retrieves open vulnerability counts by
// severity for an application.
func (c *Client) GetApplicationCriticality(ctx context.Context, applicationToken string) (*CriticalityCounts, error) {
	query := url.Values{"application_token": {applicationToken}}
	var result criticalityResponse
	if err := c.Do(ctx, http.MethodGet, "/rest/v3/application/result/opencount/criticality", query, nil, &result); err != nil {
		return nil, err
	}
	return &result.Data, nil
}

// GetApplicationCatalog retrieves open vulnerability counts by fix state
// for an application.
func (c *Client) GetApplicationCatalog(ctx context.Context, applicationToken string) (*CatalogCounts, error) {
	query := url.Values{"application_token": {applicationToken}}
	var result catalogResponse
	if err := c.Do(ctx, http.MethodGet, "/rest/v3/application/result/opencount/catalog", query, nil, &result); err != nil {
		return nil, err
	}
	return &result.Data, nil
}

// GetApplicationScore retrieves the score of an application.
func (c *Client) GetApplicationScore(ctx context.Context, applicationToken, scoreType string) (float64, error) {
	query := url.Values{
		"application_token": {applicationToken},
		"score_type":        {scoreType},
	}
	var result ScoreResponse
	if err := c.Do(ctx, http.MethodGet, "/rest/v3/application/result/score", query, nil, &result); err != nil {
		return 0, err
	}
	return result.Score, nil
}

// GetApplicationScoreTrend retrieves the score trend of an application.
func (c *Client) GetApplicationScoreTrend(ctx context.Context, applicationToken, scoreType string) ([]ScoreTrendPoint, error) {
	query := url.Values{
		"application_token": {applicationToken},
		"score_type":        {scoreType},
	}
	var result scoreTrendResponse
	if err := c.Do(ctx, http.MethodGet, "/rest/v3/application/result/trend/score", query, nil, &result); err != nil {
		return nil, err
	}
	return result.Data, nil
}

// GetApplicationVulnerabilityTrend retrieves the open vulnerability
// count trend of an application.
func (c *Client) GetApplicationVulnerabilityTrend(ctx context.Context, applicationToken string) ([]CountTrendPoint, error) {
	query := url.Values{"application_token": {applicationToken}}
	var result countTrendResponse
	if err := c.Do(ctx, http.MethodGet, "/rest/v3/application/result/trend/vulnerabilitycount", query, nil, &result); err != nil {
		return nil, err
	}
	return result.Data, nil
}

// GetApplicationInsight retrieves security insights for an application.
func (c *Client) GetApplicationInsight(ctx context.Context, applicationToken string) (*Insight, error) {
	query := url.Values{"application_token": {applicationToken}}
	var result Insight
	if err := c.Do(ctx, http.MethodGet, "/rest/v3/applications/result/insight", query, nil, &result); err != nil {
		return nil, err
	}
	return &result, nil
}
