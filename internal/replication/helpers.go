package replication

import (
	"context"

	"github.com/kevinfinalboss/replicator/pkg/types"
)

func (e *Engine) logRunSummary(result *types.RunResult) {
	e.logger.Info("run_summary").
		Int("total", result.Total).
		Int("transferred", result.Transferred).
		Int("skipped", result.Skipped).
		Int("repositories_created", result.RepositoriesCreated).
		Int("failures", result.FailureCount()).
		Bool("dry_run", result.DryRun).
		Dur("duration", result.Duration).
		Send()

	if !result.HasFailures() {
		e.logger.Info("run_completed_clean").Send()
		return
	}

	e.logger.Warn("run_completed_with_failures").
		Int("failures", result.FailureCount()).
		Send()

	for _, image := range result.Failed {
		e.logger.Error("run_failure_detail").
			Str("image", image).
			Str("reason", string(types.ActionFailed)).
			Send()
	}
	for _, image := range result.Aborted {
		e.logger.Error("run_failure_detail").
			Str("image", image).
			Str("reason", string(types.ActionAborted)).
			Send()
	}
}

func (e *Engine) sendRunStart(ctx context.Context, total int, dryRun bool) {
	if e.notifier == nil {
		return
	}
	if err := e.notifier.SendRunStart(ctx, total, e.registryHost, dryRun); err != nil {
		e.logger.Warn("discord_webhook_failed").Err(err).Send()
	}
}

func (e *Engine) sendRunComplete(ctx context.Context, result *types.RunResult) {
	if e.notifier == nil {
		return
	}
	if err := e.notifier.SendRunComplete(ctx, result, e.registryHost); err != nil {
		e.logger.Warn("discord_webhook_failed").Err(err).Send()
	}
}

func (e *Engine) sendError(ctx context.Context, cause error, image string) {
	if e.notifier == nil {
		return
	}
	if err := e.notifier.SendError(ctx, cause.Error(), image); err != nil {
		e.logger.Warn("discord_webhook_failed").Err(err).Send()
	}
}

func (e *Engine) generateReport(result *types.RunResult) {
	if e.reporter == nil {
		return
	}

	reportPath, err := e.reporter.GenerateReport(result, e.registryHost)
	if err != nil {
		e.logger.Warn("html_report_failed").Err(err).Send()
		return
	}

	e.logger.Info("html_report_ready").
		Str("path", reportPath).
		Send()
}

func maskWebhookURL(url string) string {
	if len(url) < 20 {
		return "***"
	}
	return url[:20] + "***"
}
