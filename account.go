package beaglesecurity

import (
	"context"
	"fmt"

	"github.com/beaglesecurity/client-go/internal/api"
)

// Account exposes metrics aggregated across every project in the account.
// Obtain one from Client.Account.
type Account struct {
	client *Client
}

func (a *Account) api() (*api.Client, error) {
	if a.client == nil {
		return nil, fmt.Errorf("account handle is not attached to a client; use Client.Account")
	}
	return a.client.api()
}

// ProjectsResultSummary returns the vulnerability summary of every project.
func (a *Account) ProjectsResultSummary(ctx context.Context) ([]ProjectSummary, error) {
	apiClient, err := a.api()
	if err != nil {
		return nil, err
	}

	summaries, err := apiClient.ListProjectSummaries(ctx)
	if err != nil {
		return nil, wrapError(err)
	}
	return summaries, nil
}

// ProjectsOpenCountByCriticality returns open vulnerability counts grouped
// by severity for every project.
func (a *Account) ProjectsOpenCountByCriticality(ctx context.Context) ([]ProjectCriticality, error) {
	apiClient, err := a.api()
	if err != nil {
		return nil, err
	}

	counts, err := apiClient.ListProjectCriticalities(ctx)
	if err != nil {
		return nil, wrapError(err)
	}
	return counts, nil
}

// ProjectsOpenCountByCatalog returns open vulnerability counts grouped by
// fix state for every project.
func (a *Account) ProjectsOpenCountByCatalog(ctx context.Context) ([]ProjectCatalog, error) {
	apiClient, err := a.api()
	if err != nil {
		return nil, err
	}

	counts, err := apiClient.ListProjectCatalogs(ctx)
	if err != nil {
		return nil, wrapError(err)
	}
	return counts, nil
}

// ProjectsScore returns the current score of every project.
func (a *Account) ProjectsScore(ctx context.Context, scoreType ScoreType) ([]ProjectScore, error) {
	apiClient, err := a.api()
	if err != nil {
		return nil, err
	}

	scores, err := apiClient.ListProjectScores(ctx, string(scoreType))
	if err != nil {
		return nil, wrapError(err)
	}
	return scores, nil
}

// ProjectsScoreTrend returns the account-wide score trend. A zero limit
// returns the server default number of points.
func (a *Account) ProjectsScoreTrend(ctx context.Context, scoreType ScoreType, limit int) ([]ScoreTrendPoint, error) {
	apiClient, err := a.api()
	if err != nil {
		return nil, err
	}

	trend, err := apiClient.GetAccountScoreTrend(ctx, string(scoreType), limit)
	if err != nil {
		return nil, wrapError(err)
	}
	return trend, nil
}

// ProjectsVulnerabilityCountTrend returns the account-wide open
// vulnerability count trend. A zero limit returns the server default
// number of points.
func (a *Account) ProjectsVulnerabilityCountTrend(ctx context.Context, limit int) ([]CountTrendPoint, error) {
	apiClient, err := a.api()
	if err != nil {
		return nil, err
	}

	trend, err := apiClient.GetAccountVulnerabilityTrend(ctx, limit)
	if err != nil {
		return nil, wrapError(err)
	}
	return trend, nil
}

// ProjectsInsight returns security insights for every project.
func (a *Account) ProjectsInsight(ctx context.Context) ([]ProjectInsight, error) {
	apiClient, err := a.api()
	if err != nil {
		return nil, err
	}

	insights, err := apiClient.ListProjectInsights(ctx)
	if err != nil {
		return nil, wrapError(err)
	}
	return insights, nil
}

// RunningSessions returns every test currently running in the account.
func (a *Account) RunningSessions(ctx context.Context) ([]*TestSession, error) {
	apiClient, err := a.api()
	if err != nil {
		return nil, err
	}

	sessions, err := apiClient.ListRunningSessions(ctx)
	if err != nil {
		return nil, wrapError(err)
	}

	result := make([]*TestSession, 0, len(sessions))
	for i := range sessions {
		result = append(result, &sessions[i])
	}
	return result, nil
}
