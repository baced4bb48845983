package api

import "encoding/json"

// Project represents a project resource.
type Project struct {
	ID          string `json:"id,omitempty"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
}

// CreateProjectRequest represents the POST /rest/v3/project request.
type CreateProjectRequest struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
}

// UpdateProjectRequest represents the PUT /rest/v3/project request.
type UpdateProjectRequest struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
}

// Application represents an application resource.
type Application struct {
	Token      string `json:"application_token,omitempty"`
	Name       string `json:"name"`
	URL        string `json:"url,omitempty"`
	ProjectKey string `json:"project_key,omitempty"`
	Type       string `json:"type,omitempty"`
	Status     string `json:"status,omitempty"`
}

// CreateApplicationRequest represents the POST /rest/v3/application request.
type CreateApplicationRequest struct {
	Name       string `json:"name"`
	URL        string `json:"url"`
	ProjectKey string `json:"project_key,omitempty"`
	Type       string `json:"type,omitempty"`
}

// UpdateApplicationRequest represents the PUT /rest/v3/application request.
type UpdateApplicationRequest struct {
	Token string `json:"application_token"`
	Name  string `json:"name,omitempty"`
	URL   string `json:"url,omitempty"`
}

// ActionResponse represents the confirmation payload mutating endpoints
// return.
type ActionResponse struct {
	Message string `json:"message,omitempty"`
	Status  string `json:"status,omitempty"`
}

// DomainSignature represents the GET /rest/v3/application/signature response.
type DomainSignature struct {
	Signature string `json:"signature"`
	Domain    string `json:"domain"`
}

// VerifySignatureRequest represents the POST /rest/v3/application/signature request.
type VerifySignatureRequest struct {
	Signature string `json:"signature"`
}

// VerifySignatureResponse represents the POST /rest/v3/application/signature response.
type VerifySignatureResponse struct {
	Verified bool `json:"verified"`
}

// StartTestRequest represents the POST /rest/v3/test/start request body.
type StartTestRequest struct {
	ScanType    string `json:"scan_type,omitempty"`
	Description string `json:"description,omitempty"`
	MaxDuration int    `json:"max_duration,omitempty"`
}

// StartTestResponse represents the POST /rest/v3/test/start response.
type StartTestResponse struct {
	ResultToken string `json:"result_token"`
	Status      string `json:"status"`
}

// TestStatus represents the GET /rest/v3/test/status response.
type TestStatus struct {
	Status   string `json:"status"`
	Progress int    `json:"progress"`
}

// TestSession represents one entry of a test session listing.
type TestSession struct {
	ID          string `json:"id,omitempty"`
	ResultToken string `json:"result_token,omitempty"`
	Status      string `json:"status,omitempty"`
	Application string `json:"application,omitempty"`
}

// Vulnerability represents one finding in a JSON test result.
type Vulnerability struct {
	ID          string  `json:"id"`
	Title       string  `json:"title"`
	Severity    string  `json:"severity,omitempty"`
	Description string  `json:"description,omitempty"`
	CWE         string  `json:"cwe,omitempty"`
	CVSSScore   float64 `json:"cvss_score,omitempty"`
	Endpoint    string  `json:"endpoint,omitempty"`
	Remediation string  `json:"remediation,omitempty"`
}

// TestResult represents the GET /rest/v3/result/json response. Raw holds
// the undecoded response document.
type TestResult struct {
	Status          string          `json:"status,omitempty"`
	Vulnerabilities []Vulnerability `json:"vulnerabilities"`
	Raw             json.RawMessage `json:"-"`
}

// VulnerabilitySummary represents result/summary responses. Account
// level responses fill the application counter, application level
// responses fill the per severity counters.
type VulnerabilitySummary struct {
	TotalApplications    int `json:"total_applications,omitempty"`
	TotalVulnerabilities int `json:"total_vulnerabilities"`
	CriticalCount        int `json:"critical_count,omitempty"`
	HighCount            int `json:"high_count,omitempty"`
	MediumCount          int `json:"medium_count,omitempty"`
	LowCount             int `json:"low_count,omitempty"`
}

// ProjectSummary represents one entry of the per project summary listing.
type ProjectSummary struct {
	ProjectID            string `json:"project_id"`
	TotalApplications    int    `json:"total_applications,omitempty"`
	TotalVulnerabilities int    `json:"total_vulnerabilities"`
}

// CriticalityCounts holds open vulnerability counts grouped by severity.
type CriticalityCounts struct {
	Critical int `json:"critical"`
	High     int `json:"high"`
	Medium   int `json:"medium"`
	Low      int `json:"low"`
	Info     int `json:"info,omitempty"`
}

// ProjectCriticality represents per project severity counts.
type ProjectCriticality struct {
	ProjectID string `json:"project_id"`
	CriticalityCounts
}

// CatalogCounts holds open vulnerability counts grouped by fix state.
type CatalogCounts struct {
	New      int `json:"new"`
	Reopened int `json:"reopened"`
	NotFixed int `json:"not_fixed"`
	Fixed    int `json:"fixed"`
}

// ProjectCatalog represents per project fix state counts.
type ProjectCatalog struct {
	ProjectID string `json:"project_id"`
	CatalogCounts
}

// ScoreResponse represents result/score responses.
type ScoreResponse struct {
	Score float64 `json:"score"`
}

// ProjectScore represents one entry of the per project score listing.
type ProjectScore struct {
	ProjectID string  `json:"project_id"`
	Score     float64 `json:"score"`
}

// ScoreTrendPoint represents one entry of a score trend series.
type ScoreTrendPoint struct {
	Date  string  `json:"date"`
	Score float64 `json:"score"`
}

// CountTrendPoint represents one entry of a vulnerability count trend series.
type CountTrendPoint struct {
	Date  string `json:"date"`
	Count int    `json:"count"`
}

// Insight represents result/insight responses.
type Insight struct {
	Recommendations []string `json:"recommendations,omitempty"`
	SecurityScore   int      `json:"security_score,omitempty"`
}

// ProjectInsight represents one entry of the per project insight listing.
type ProjectInsight struct {
	ProjectID       string   `json:"project_id"`
	SecurityScore   int      `json:"security_score,omitempty"`
	Recommendations []string `json:"recommendations,omitempty"`
}

// Response envelopes for endpoints that wrap their payload in a data
// field.

type projectListResponse struct {
	Data []Project `json:"data"`
}

type applicationListResponse struct {
	Data []Application `json:"data"`
}

type sessionListResponse struct {
	Data []TestSession `json:"data"`
}

type criticalityResponse struct {
	Data CriticalityCounts `json:"data"`
}

type catalogResponse struct {
	Data CatalogCounts `json:"data"`
}

type projectSummaryListResponse struct {
	Data []ProjectSummary `json:"data"`
}

type projectCriticalityListResponse struct {
	Data []ProjectCriticality `json:"data"`
}

type projectCatalogListResponse struct {
	Data []ProjectCatalog `json:"data"`
}

type projectScoreListResponse struct {
	Data []ProjectScore `json:"data"`
}

type scoreTrendResponse struct {
	Data []ScoreTrendPoint `json:"data"`
}

type countTrendResponse struct {
	Data []CountTrendPoint `json:"data"`
}

type projectInsightListResponse struct {
	Data []ProjectInsight `json:"data"`
}
