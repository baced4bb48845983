package beaglesecurity

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/beaglesecurity/client-go/findings"
	"github.com/beaglesecurity/client-go/internal/api"
)

// TestResult holds the findings of a finished test. Raw keeps the
// complete result document as returned by the API, including fields this
// package does not model.
type TestResult struct {
	// Status is the state of the session the result belongs to.
	Status TestState
	// Findings lists the vulnerabilities, severities normalized.
	Findings []findings.Finding
	// Raw is the undecoded result document.
	Raw json.RawMessage
}

// Counts tallies the result's findings per severity level.
func (r *TestResult) Counts() findings.Counts {
	return findings.CountBySeverity(r.Findings)
}

// Report is a downloaded PDF report.
type Report struct {
	Content     []byte
	ContentType string
}

func resultFromAPI(r *api.TestResult) *TestResult {
	out := &TestResult{
		Status: TestState(r.Status),
		Raw:    r.Raw,
	}
	if len(r.Vulnerabilities) == 0 {
		return out
	}
	out.Findings = make([]findings.Finding, 0, len(r.Vulnerabilities))
	for _, v := range r.Vulnerabilities {
		severity, ok := findings.ParseSeverity(v.Severity)
		if !ok {
			// Keep unrecognized severities as sent so nothing is lost.
			severity = findings.Severity(v.Severity)
		}
		out.Findings = append(out.Findings, findings.Finding{
			ID:          v.ID,
			Title:       v.Title,
			Severity:    severity,
			Description: v.Description,
			CWE:         v.CWE,
			CVSSScore:   v.CVSSScore,
			Endpoint:    v.Endpoint,
			Remediation: v.Remediation,
		})
	}
	return out
}

// Result fetches the JSON result of this test session.
func (t *Test) Result(ctx context.Context) (*TestResult, error) {
	apiClient, err := t.api()
	if err != nil {
		return nil, err
	}

	result, err := apiClient.GetTestResult(ctx, t.ApplicationToken, t.ResultToken)
	if err != nil {
		return nil, wrapError(err)
	}
	return resultFromAPI(result), nil
}

// LatestResult fetches the JSON result of the application's most recent
// finished test.
func (a *Application) LatestResult(ctx context.Context) (*TestResult, error) {
	apiClient, err := a.api()
	if err != nil {
		return nil, err
	}

	result, err := apiClient.GetTestResult(ctx, a.Token, "")
	if err != nil {
		return nil, wrapError(err)
	}
	return resultFromAPI(result), nil
}

// Report downloads the PDF report of this test session.
func (t *Test) Report(ctx context.Context) (*Report, error) {
	apiClient, err := t.api()
	if err != nil {
		return nil, err
	}
	return fetchReport(ctx, apiClient, t.ApplicationToken, t.ResultToken)
}

// Report downloads the PDF report of the application's most recent
// finished test.
func (a *Application) Report(ctx context.Context) (*Report, error) {
	apiClient, err := a.api()
	if err != nil {
		return nil, err
	}
	return fetchReport(ctx, apiClient, a.Token, "")
}

// DownloadReport downloads the PDF report of this test session and writes
// it to path with secure permissions (0600). An empty path derives a file
// name from the application and result tokens. Returns the written path.
func (t *Test) DownloadReport(ctx context.Context, path string) (string, error) {
	report, err := t.Report(ctx)
	if err != nil {
		return "", err
	}
	return writeReport(report, path, t.ApplicationToken, t.ResultToken)
}

// DownloadReport downloads the PDF report of the application's most
// recent finished test and writes it to path with secure permissions
// (0600). An empty path derives a file name from the application token.
// Returns the written path.
func (a *Application) DownloadReport(ctx context.Context, path string) (string, error) {
	report, err := a.Report(ctx)
	if err != nil {
		return "", err
	}
	return writeReport(report, path, a.Token, "")
}

func fetchReport(ctx context.Context, apiClient *api.Client, applicationToken, resultToken string) (*Report, error) {
	resp, err := apiClient.GetReport(ctx, applicationToken, resultToken)
	if err != nil {
		return nil, wrapError(err)
	}
	return &Report{
		Content:     resp.Body,
		ContentType: resp.Header.Get("Content-Type"),
	}, nil
}

func writeReport(report *Report, path, applicationToken, resultToken string) (string, error) {
	if path == "" {
		path = reportFileName(applicationToken, resultToken)
	}
	if err := os.WriteFile(path, report.Content, 0600); err != nil {
		return "", fmt.Errorf("write file: %w", err)
	}
	return path, nil
}

// reportFileName derives a default report file name from token prefixes,
// for example beagle_report_0a1b2c3d_latest.pdf.
func reportFileName(applicationToken, resultToken string) string {
	result := "latest"
	if resultToken != "" {
		result = shortToken(resultToken)
	}
	return fmt.Sprintf("beagle_report_%s_%s.pdf", shortToken(applicationToken), result)
}

func shortToken(s string) string {
	if len(s) > 8 {
		return s[:8]
	}
	return s
}
