package beaglesecurity

import (
	"github.com/beaglesecurity/client-go/internal/api"
)

// ScoreType selects which scoring model the score endpoints report.
type ScoreType string

const (
	// ScoreTypeCVSS reports CVSS base scores.
	ScoreTypeCVSS ScoreType = "cvss"
	// ScoreTypeBeagle reports the platform's own security score.
	ScoreTypeBeagle ScoreType = "beagle"
)

// VulnerabilitySummary is a type alias for api.VulnerabilitySummary.
// It aggregates open vulnerability counts for an application, a project,
// or the whole account.
type VulnerabilitySummary = api.VulnerabilitySummary

// CriticalityCounts is a type alias for api.CriticalityCounts.
// It holds open vulnerability counts grouped by severity.
type CriticalityCounts = api.CriticalityCounts

// CatalogCounts is a type alias for api.CatalogCounts.
// It holds open vulnerability counts grouped by finding lifecycle
// (new, reopened, not fixed, fixed).
type CatalogCounts = api.CatalogCounts

// ProjectSummary is a type alias for api.ProjectSummary.
type ProjectSummary = api.ProjectSummary

// ProjectCriticality is a type alias for api.ProjectCriticality.
type ProjectCriticality = api.ProjectCriticality

// ProjectCatalog is a type alias for api.ProjectCatalog.
type ProjectCatalog = api.ProjectCatalog

// ProjectScore is a type alias for api.ProjectScore.
type ProjectScore = api.ProjectScore

// ScoreTrendPoint is a type alias for api.ScoreTrendPoint.
// One dated sample in a score trend series.
type ScoreTrendPoint = api.ScoreTrendPoint

// CountTrendPoint is a type alias for api.CountTrendPoint.
// One dated sample in a vulnerability count trend series.
type CountTrendPoint = api.CountTrendPoint

// Insight is a type alias for api.Insight.
// Recommendations plus the current security score.
type Insight = api.Insight

// ProjectInsight is a type alias for api.ProjectInsight.
type ProjectInsight = api.ProjectInsight

// DomainSignature is a type alias for api.DomainSignature.
// The verification signature an application's domain must publish before
// tests may run against it.
type DomainSignature = api.DomainSignature

// TestSession is a type alias for api.TestSession.
// One entry in an application's test history.
type TestSession = api.TestSession
