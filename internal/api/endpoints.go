package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"strconv"
)

// ListProjects returns all projects in the account, optionally filtered
// by a search term.
func (c *Client) ListProjects(ctx context.Context, search string) ([]Project, error) {
	query := url.Values{}
	if search != "" {
		query.Set("search", search)
	}
	var result projectListResponse
	if err := c.Do(ctx, http.MethodGet, "/rest/v3/projects", query, nil, &result); err != nil {
		return nil, err
	}
	return result.Data, nil
}

// GetProject retrieves a project by its key.
func (c *Client) GetProject(ctx context.Context, projectKey string) (*Project, error) {
	var result Project
	path := "/rest/v3/project/" + url.PathEscape(projectKey)
	if err := c.Do(ctx, http.MethodGet, path, nil, nil, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// CreateProject creates a new project.
func (c *Client) CreateProject(ctx context.Context, req CreateProjectRequest) (*Project, error) {
	var result Project
	if err := c.Do(ctx, http.MethodPost, "/rest/v3/project", nil, req, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// UpdateProject updates an existing project.
func (c *Client) UpdateProject(ctx context.Context, req UpdateProjectRequest) (*Project, error) {
	var result Project
	if err := c.Do(ctx, http.MethodPut, "/rest/v3/project", nil, req, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// DeleteProject deletes a project by its key.
func (c *Client) DeleteProject(ctx context.Context, projectKey string) error {
	query := url.Values{"project_key": {projectKey}}
	return c.Do(ctx, http.MethodDelete, "/rest/v3/project", query, nil, nil)
}

// ListApplicationsParams filters and pages an application listing.
type ListApplicationsParams struct {
	Page       int
	Count      int
	ProjectKey string
	Search     string
	Importance string
}

// ListApplications returns applications in the account, or under one
// project when a project key is given.
func (c *Client) ListApplications(ctx context.Context, p ListApplicationsParams) ([]Application, error) {
	count := p.Count
	if count <= 0 {
		count = 20
	}
	query := url.Values{}
	query.Set("page", strconv.Itoa(p.Page))
	query.Set("count", strconv.Itoa(count))
	if p.ProjectKey != "" {
		query.Set("project_key", p.ProjectKey)
	}
	if p.Search != "" {
		query.Set("search", p.Search)
	}
	if p.Importance != "" {
		query.Set("importance", p.Importance)
	}
	var result applicationListResponse
	if err := c.Do(ctx, http.MethodGet, "/rest/v3/applications", query, nil, &result); err != nil {
		return nil, err
	}
	return result.Data, nil
}

// GetApplication retrieves an application by its token.
func (c *Client) GetApplication(ctx context.Context, applicationToken string) (*Application, error) {
	query := url.Values{"application_token": {applicationToken}}
	var result Application
	if err := c.Do(ctx, http.MethodGet, "/rest/v3/application", query, nil, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// CreateApplication creates a new application.
func (c *Client) CreateApplication(ctx context.Context, req CreateApplicationRequest) (*Application, error) {
	var result Application
	if err := c.Do(ctx, http.MethodPost, "/rest/v3/application", nil, req, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// UpdateApplication updates an existing application.
func (c *Client) UpdateApplication(ctx context.Context, req UpdateApplicationRequest) (*Application, error) {
	var result Application
	if err := c.Do(ctx, http.MethodPut, "/rest/v3/application", nil, req, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// DeleteApplication deletes an application by its token.
func (c *Client) DeleteApplication(ctx context.Context, applicationToken string) error {
	query := url.Values{"application_token": {applicationToken}}
	return c.Do(ctx, http.MethodDelete, "/rest/v3/application", query, nil, nil)
}

// GetDomainSignature retrieves the domain verification signature for an
// application.
func (c *Client) GetDomainSignature(ctx context.Context, applicationToken string) (*DomainSignature, error) {
	query := url.Values{"application_token": {applicationToken}}
	var result DomainSignature
	if err := c.Do(ctx, http.MethodGet, "/rest/v3/application/signature", query, nil, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// VerifyDomainSignature asks the platform to verify the published domain
// signature for an application.
func (c *Client) VerifyDomainSignature(ctx context.Context, applicationToken, signature string) (bool, error) {
	query := url.Values{"application_token": {applicationToken}}
	req := VerifySignatureRequest{Signature: signature}
	var result VerifySignatureResponse
	if err := c.Do(ctx, http.MethodPost, "/rest/v3/application/signature", query, req, &result); err != nil {
		return false, err
	}
	return result.Verified, nil
}

// StartTest starts a security test for an application. A nil config
// starts the platform's standard test.
func (c *Client) StartTest(ctx context.Context, applicationToken string, cfg *StartTestRequest) (*StartTestResponse, error) {
	query := url.Values{"application_token": {applicationToken}}
	var body any
	if cfg != nil {
		body = cfg
	}
	var result StartTestResponse
	if err := c.Do(ctx, http.MethodPost, "/rest/v3/test/start", query, body, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// GetTestStatus retrieves the status of a test run.
func (c *Client) GetTestStatus(ctx context.Context, applicationToken, resultToken string) (*TestStatus, error) {
	query := url.Values{
		"application_token": {applicationToken},
		"result_token":      {resultToken},
	}
	var result TestStatus
	if err := c.Do(ctx, http.MethodGet, "/rest/v3/test/status", query, nil, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// StopTest stops a running test.
func (c *Client) StopTest(ctx context.Context, applicationToken, resultToken string) (*ActionResponse, error) {
	return c.testAction(ctx, "/rest/v3/test/stop", applicationToken, resultToken)
}

// PauseTest pauses a running test.
func (c *Client) PauseTest(ctx context.Context, applicationToken, resultToken string) (*ActionResponse, error) {
	return c.testAction(ctx, "/rest/v3/test/pause", applicationToken, resultToken)
}

// ResumeTest resumes a paused test.
func (c *Client) ResumeTest(ctx context.Context, applicationToken, resultToken string) (*ActionResponse, error) {
	return c.testAction(ctx, "/rest/v3/test/resume", applicationToken, resultToken)
}

func (c *Client) testAction(ctx context.Context, path, applicationToken, resultToken string) (*ActionResponse, error) {
	query := url.Values{
		"application_token": {applicationToken},
		"result_token":      {resultToken},
	}
	var result ActionResponse
	if err := c.Do(ctx, http.MethodPost, path, query, nil, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// ListTestSessions returns past test sessions for an application.
func (c *Client) ListTestSessions(ctx context.Context, applicationToken string, page, count int) ([]TestSession, error) {
	if count <= 0 {
		count = 20
	}
	query := url.Values{
		"application_token": {applicationToken},
		"page":              {strconv.Itoa(page)},
		"count":             {strconv.Itoa(count)},
	}
	var result sessionListResponse
	if err := c.Do(ctx, http.MethodGet, "/rest/v3/test/sessions", query, nil, &result); err != nil {
		return nil, err
	}
	return result.Data, nil
}

// ListRunningSessions returns all running test sessions in the account.
func (c *Client) ListRunningSessions(ctx context.Context) ([]TestSession, error) {
	var result sessionListResponse
	if err := c.Do(ctx, http.MethodGet, "/rest/v3/test/runningsessions", nil, nil, &result); err != nil {
		return nil, err
	}
	return result.Data, nil
}

// GetTestResult retrieves the JSON test result. An empty result token
// fetches the latest finished test. The raw document is kept alongside
// the decoded fields.
func (c *Client) GetTestResult(ctx context.Context, applicationToken, resultToken string) (*TestResult, error) {
	query := url.Values{"application_token": {applicationToken}}
	if resultToken != "" {
		query.Set("result_token", resultToken)
	}
	const path = "/rest/v3/result/json"
	var raw json.RawMessage
	if err := c.Do(ctx, http.MethodGet, path, query, nil, &raw); err != nil {
		return nil, err
	}
	var result TestResult
	if err := json.Unmarshal(raw, &result); err != nil {
		return nil, &DecodeError{Method: http.MethodGet, Path: path, Err: err}
	}
	result.Raw = raw
	return &result, nil
}

// GetReport downloads the PDF report. An empty result token fetches the
// report of the latest finished test.
func (c *Client) GetReport(ctx context.Context, applicationToken, resultToken string) (*Response, error) {
	query := url.Values{"application_token": {applicationToken}}
	path := "/rest/v3/result/pdf"
	if resultToken != "" {
		query.Set("result_token", resultToken)
		path = "/rest/v3/report/pdf"
	}
	return c.DoBinary(ctx, http.MethodGet, path, query)
}
