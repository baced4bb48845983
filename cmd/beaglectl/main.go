// Command beaglectl drives Beagle Security tests from scripts and CI
// pipelines. It reads the API token from BEAGLE_API_TOKEN and prints
// JSON to stdout.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	beaglesecurity "github.com/beaglesecurity/client-go"
)

const usage = `usage: beaglectl <command> [args]

commands:
  projects                          list projects
  apps [project-key]                list applications
  start <app-token>                 start a test
  status <app-token> <result-token> show test status
  stop <app-token> <result-token>   stop a running test
  result <app-token> [result-token] show finding counts
  report <app-token> [result-token] download the PDF report`

func main() {
	if err := run(context.Background(), os.Args[1:], os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "beaglectl: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string, stdout io.Writer) error {
	if len(args) < 1 {
		return fmt.Errorf("%s", usage)
	}

	var opts []beaglesecurity.Option
	if baseURL := os.Getenv("BEAGLE_API_URL"); baseURL != "" {
		opts = append(opts, beaglesecurity.WithBaseURL(baseURL))
	}

	client, err := beaglesecurity.NewFromEnv(opts...)
	if err != nil {
		return fmt.Errorf("create client: %w", err)
	}
	defer client.Close()

	switch args[0] {
	case "projects":
		return listProjects(ctx, client, stdout)
	case "apps":
		projectKey := ""
		if len(args) > 1 {
			projectKey = args[1]
		}
		return listApps(ctx, client, stdout, projectKey)
	case "start":
		if len(args) < 2 {
			return fmt.Errorf("usage: beaglectl start <app-token>")
		}
		return startTest(ctx, client, stdout, args[1])
	case "status":
		if len(args) < 3 {
			return fmt.Errorf("usage: beaglectl status <app-token> <result-token>")
		}
		return showStatus(ctx, client, stdout, args[1], args[2])
	case "stop":
		if len(args) < 3 {
			return fmt.Errorf("usage: beaglectl stop <app-token> <result-token>")
		}
		return stopTest(ctx, client, stdout, args[1], args[2])
	case "result":
		if len(args) < 2 {
			return fmt.Errorf("usage: beaglectl result <app-token> [result-token]")
		}
		return showResult(ctx, client, stdout, args[1], optional(args, 2))
	case "report":
		if len(args) < 2 {
			return fmt.Errorf("usage: beaglectl report <app-token> [result-token]")
		}
		return downloadReport(ctx, client, stdout, args[1], optional(args, 2))
	default:
		return fmt.Errorf("unknown command %q\n%s", args[0], usage)
	}
}

func optional(args []string, i int) string {
	if i < len(args) {
		return args[i]
	}
	return ""
}

func printJSON(stdout io.Writer, v any) error {
	enc := json.NewEncoder(stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

type projectOutput struct {
	Key         string `json:"key"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
}

func listProjects(ctx context.Context, client *beaglesecurity.Client, stdout io.Writer) error {
	projects, err := client.ListProjects(ctx)
	if err != nil {
		return fmt.Errorf("list projects: %w", err)
	}

	output := make([]projectOutput, 0, len(projects))
	for _, p := range projects {
		output = append(output, projectOutput{Key: p.Key, Name: p.Name, Description: p.Description})
	}
	return printJSON(stdout, output)
}

type appOutput struct {
	Token      string `json:"token"`
	Name       string `json:"name"`
	URL        string `json:"url"`
	ProjectKey string `json:"project_key,omitempty"`
	Status     string `json:"status,omitempty"`
}

func listApps(ctx context.Context, client *beaglesecurity.Client, stdout io.Writer, projectKey string) error {
	var listOpts []beaglesecurity.ListOption
	if projectKey != "" {
		listOpts = append(listOpts, beaglesecurity.WithProjectKey(projectKey))
	}

	list, err := client.ListApplications(ctx, listOpts...)
	if err != nil {
		return fmt.Errorf("list applications: %w", err)
	}

	output := make([]appOutput, 0, len(list.Applications))
	for _, a := range list.Applications {
		output = append(output, appOutput{
			Token:      a.Token,
			Name:       a.Name,
			URL:        a.URL,
			ProjectKey: a.ProjectKey,
			Status:     a.Status,
		})
	}
	return printJSON(stdout, output)
}

func startTest(ctx context.Context, client *beaglesecurity.Client, stdout io.Writer, appToken string) error {
	test, err := client.Application(appToken).StartTest(ctx, nil)
	if err != nil {
		return fmt.Errorf("start test: %w", err)
	}
	return printJSON(stdout, map[string]string{
		"application_token": test.ApplicationToken,
		"result_token":      test.ResultToken,
	})
}

func showStatus(ctx context.Context, client *beaglesecurity.Client, stdout io.Writer, appToken, resultToken string) error {
	status, err := client.Test(appToken, resultToken).Status(ctx)
	if err != nil {
		return fmt.Errorf("get status: %w", err)
	}
	return printJSON(stdout, map[string]any{
		"status":   status.Status,
		"progress": status.Progress,
		"finished": status.Finished(),
	})
}

func stopTest(ctx context.Context, client *beaglesecurity.Client, stdout io.Writer, appToken, resultToken string) error {
	if err := client.Test(appToken, resultToken).Stop(ctx); err != nil {
		return fmt.Errorf("stop test: %w", err)
	}
	return printJSON(stdout, map[string]bool{"stopped": true})
}

func showResult(ctx context.Context, client *beaglesecurity.Client, stdout io.Writer, appToken, resultToken string) error {
	var result *beaglesecurity.TestResult
	var err error
	if resultToken != "" {
		result, err = client.Test(appToken, resultToken).Result(ctx)
	} else {
		result, err = client.Application(appToken).LatestResult(ctx)
	}
	if err != nil {
		return fmt.Errorf("get result: %w", err)
	}

	counts := result.Counts()
	return printJSON(stdout, map[string]any{
		"status":   result.Status,
		"total":    counts.Total(),
		"critical": counts.Critical,
		"high":     counts.High,
		"medium":   counts.Medium,
		"low":      counts.Low,
		"info":     counts.Info,
	})
}

func downloadReport(ctx context.Context, client *beaglesecurity.Client, stdout io.Writer, appToken, resultToken string) error {
	var path string
	var err error
	if resultToken != "" {
		path, err = client.Test(appToken, resultToken).DownloadReport(ctx, "")
	} else {
		path, err = client.Application(appToken).DownloadReport(ctx, "")
	}
	if err != nil {
		return fmt.Errorf("download report: %w", err)
	}
	return printJSON(stdout, map[string]string{"path": path})
}
