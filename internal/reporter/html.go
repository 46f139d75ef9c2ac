package reporter

import (
	"bytes"
	"fmt"
	"html/template"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/kevinfinalboss/replicator/internal/logger"
	"github.com/kevinfinalboss/replicator/pkg/types"
)

type HTMLReporter struct {
	logger     *logger.Logger
	reportsDir string
}

// NewHTMLReporter writes reports into reportsDir, defaulting to
// ~/.replicator/reports.
func NewHTMLReporter(reportsDir string, logger *logger.Logger) *HTMLReporter {
	if reportsDir == "" {
		home, _ := os.UserHomeDir()
		reportsDir = filepath.Join(home, ".replicator", "reports")
	}

	return &HTMLReporter{
		logger:     logger,
		reportsDir: reportsDir,
	}
}

func (r *HTMLReporter) GenerateReport(result *types.RunResult, registryHost string) (string, error) {
	if err := os.MkdirAll(r.reportsDir, 0755); err != nil {
		return "", fmt.Errorf("failed to create reports directory: %w", err)
	}

	timestamp := time.Now()
	prefix := "replicator-report"
	if result.DryRun {
		prefix = "replicator-dryrun"
	}
	reportPath := filepath.Join(r.reportsDir, fmt.Sprintf("%s-%s.html", prefix, timestamp.Format("2006-01-02_15-04-05")))

	htmlContent, err := r.generateHTML(r.buildReportData(result, registryHost, timestamp))
	if err != nil {
		return "", fmt.Errorf("failed to render report: %w", err)
	}

	if err := os.WriteFile(reportPath, []byte(htmlContent), 0644); err != nil {
		return "", fmt.Errorf("failed to write report: %w", err)
	}

	r.logger.Info("html_report_generated").
		Str("file", reportPath).
		Str("mode", getExecutionMode(result.DryRun)).
		Int("total_images", result.Total).
		Send()

	return reportPath, nil
}

func (r *HTMLReporter) buildReportData(result *types.RunResult, registryHost string, timestamp time.Time) types.ReportData {
	return types.ReportData{
		Title:          getReportTitle(result.DryRun),
		Timestamp:      timestamp.Format("2006-01-02 15:04:05"),
		ExecutionMode:  getExecutionMode(result.DryRun),
		RegistryHost:   registryHost,
		Result:         result,
		Statistics:     calculateStatistics(result),
		ImagesByStatus: buildImageStatusList(result),
		HasFailures:    result.HasFailures(),
	}
}

func calculateStatistics(result *types.RunResult) types.ReportStatistics {
	total := float64(result.Total)
	if total == 0 {
		total = 1
	}

	failed := result.FailureCount()

	return types.ReportStatistics{
		TotalImages:         result.Total,
		Transferred:         result.Transferred,
		Skipped:             result.Skipped,
		Failed:              failed,
		RepositoriesCreated: result.RepositoriesCreated,
		SuccessRate:         float64(result.Transferred) / total * 100,
		FailureRate:         float64(failed) / total * 100,
		SkippedRate:         float64(result.Skipped) / total * 100,
		ProcessingTime:      result.Duration.Round(time.Millisecond).String(),
	}
}

func buildImageStatusList(result *types.RunResult) []types.ImageStatus {
	images := make([]types.ImageStatus, 0, len(result.Results))

	for _, entry := range result.Results {
		status := types.ImageStatus{
			Index:       entry.Index,
			SourceImage: entry.SourceImage,
			TargetImage: entry.TargetImage,
			Repository:  entry.Repository,
		}

		switch entry.Action {
		case types.ActionTransferred:
			status.Status, status.StatusClass = "Transferred", "success"
		case types.ActionSkipped:
			status.Status, status.StatusClass = "Already present", "info"
		case types.ActionFailed:
			status.Status, status.StatusClass = "Transfer failed", "danger"
			if entry.Outcome != nil {
				status.Detail = strings.TrimSpace(entry.Outcome.Stderr)
			}
		case types.ActionAborted:
			status.Status, status.StatusClass = "Aborted", "danger"
			if entry.Error != nil {
				status.Detail = entry.Error.Error()
			}
		case types.ActionPlanned:
			status.Status, status.StatusClass = plannedStatus(entry), "warning"
		}

		if entry.RepositoryCreated {
			status.Detail = strings.TrimSpace("repository created " + status.Detail)
		}

		images = append(images, status)
	}

	return images
}

func plannedStatus(entry *types.EntryResult) string {
	switch {
	case !entry.RepositoryExisted:
		return "Would create repository and transfer"
	case entry.ImageExisted:
		return "Would skip"
	default:
		return "Would transfer"
	}
}

var reportTemplate = template.Must(template.New("report").Funcs(template.FuncMap{
	"percent": func(v float64) string { return fmt.Sprintf("%.1f%%", v) },
}).Parse(`<!DOCTYPE html>
<html lang="en">
<head>
    <meta charset="UTF-8">
    <title>{{.Title}} - {{.Timestamp}}</title>
    <style>
        body { font-family: -apple-system, BlinkMacSystemFont, 'Segoe UI', sans-serif; margin: 2rem; color: #222; }
        table { border-collapse: collapse; width: 100%; margin-top: 1rem; }
        th, td { border: 1px solid #ddd; padding: .5rem; text-align: left; font-size: .9rem; }
        th { background: #f4f4f4; }
        .stats { display: flex; gap: 1rem; }
        .stat { background: #f8f9fa; border-radius: 6px; padding: 1rem; min-width: 120px; }
        .success { color: #1e7e34; }
        .info { color: #0069d9; }
        .warning { color: #b8860b; }
        .danger { color: #c82333; }
    </style>
</head>
<body>
    <h1>{{.Title}}</h1>
    <p>{{.Timestamp}} · {{.ExecutionMode}} · target <code>{{.RegistryHost}}</code> · {{.Statistics.ProcessingTime}}</p>
    <div class="stats">
        <div class="stat"><strong>{{.Statistics.TotalImages}}</strong><br>images</div>
        <div class="stat success"><strong>{{.Statistics.Transferred}}</strong><br>transferred ({{percent .Statistics.SuccessRate}})</div>
        <div class="stat info"><strong>{{.Statistics.Skipped}}</strong><br>already present ({{percent .Statistics.SkippedRate}})</div>
        <div class="stat danger"><strong>{{.Statistics.Failed}}</strong><br>failed ({{percent .Statistics.FailureRate}})</div>
        <div class="stat"><strong>{{.Statistics.RepositoriesCreated}}</strong><br>repositories created</div>
    </div>
    {{if .HasFailures}}<h2 class="danger">Failures</h2>
    <ul>{{range .Result.Failed}}<li><code>{{.}}</code></li>{{end}}{{range .Result.Aborted}}<li><code>{{.}}</code> (aborted)</li>{{end}}</ul>{{end}}
    <table>
        <tr><th>#</th><th>Source</th><th>Target</th><th>Status</th><th>Detail</th></tr>
        {{range .ImagesByStatus}}<tr>
            <td>{{.Index}}</td>
            <td><code>{{.SourceImage}}</code></td>
            <td><code>{{.TargetImage}}</code></td>
            <td class="{{.StatusClass}}">{{.Status}}</td>
            <td>{{.Detail}}</td>
        </tr>{{end}}
    </table>
</body>
</html>
`))

func (r *HTMLReporter) generateHTML(data types.ReportData) (string, error) {
	var buf bytes.Buffer
	if err := reportTemplate.Execute(&buf, data); err != nil {
		return "", err
	}
	return buf.String(), nil
}

func getReportTitle(isDryRun bool) string {
	if isDryRun {
		return "Replication Plan"
	}
	return "Replication Report"
}

func getExecutionMode(isDryRun bool) string {
	if isDryRun {
		return "dry run"
	}
	return "live"
}
