package replication

import (
	"context"
	"fmt"
	"time"

	"github.com/kevinfinalboss/replicator/internal/logger"
	"github.com/kevinfinalboss/replicator/internal/reporter"
	"github.com/kevinfinalboss/replicator/internal/webhook"
	"github.com/kevinfinalboss/replicator/pkg/types"
)

// Notifier announces run progress to an external channel.
type Notifier interface {
	SendRunStart(ctx context.Context, totalImages int, registryHost string, dryRun bool) error
	SendRunComplete(ctx context.Context, result *types.RunResult, registryHost string) error
	SendError(ctx context.Context, errorMsg, stage string) error
}

// ReportWriter persists a finished run and returns where it was written.
type ReportWriter interface {
	GenerateReport(result *types.RunResult, registryHost string) (string, error)
}

// Engine drives the planner over a manifest, one entry at a time, and owns
// the RunResult of the run.
type Engine struct {
	planner         *Planner
	logger          *logger.Logger
	registryHost    string
	continueOnError bool
	notifier        Notifier
	reporter        ReportWriter
}

type stepFunc func(ctx context.Context, entry types.ManifestEntry) (*types.EntryResult, error)

func NewEngine(planner *Planner, logger *logger.Logger, cfg *types.Config) *Engine {
	engine := &Engine{
		planner:         planner,
		logger:          logger,
		registryHost:    planner.registry.RegistryHost(),
		continueOnError: cfg.Settings.ContinueOnError,
	}

	if cfg.Webhooks.Discord.Enabled && cfg.Webhooks.Discord.URL != "" {
		engine.notifier = webhook.NewDiscordWebhook(cfg.Webhooks.Discord, logger)
		logger.Info("discord_webhook_enabled").
			Str("url", maskWebhookURL(cfg.Webhooks.Discord.URL)).
			Send()
	}

	if cfg.Report.Enabled {
		engine.reporter = reporter.NewHTMLReporter(cfg.Report.Dir, logger)
	}

	return engine
}

func (e *Engine) WithNotifier(notifier Notifier) *Engine {
	e.notifier = notifier
	return e
}

func (e *Engine) WithReporter(reportWriter ReportWriter) *Engine {
	e.reporter = reportWriter
	return e
}

// Run replicates every entry in manifest order. Transfer failures are
// recorded and the run continues; a fatal control-plane error ends the run
// unless continue-on-error is set.
func (e *Engine) Run(ctx context.Context, entries []types.ManifestEntry) (*types.RunResult, error) {
	return e.process(ctx, entries, e.planner.Replicate, false)
}

// DryRun reports what Run would do without changing the registry.
func (e *Engine) DryRun(ctx context.Context, entries []types.ManifestEntry) (*types.RunResult, error) {
	return e.process(ctx, entries, e.planner.Inspect, true)
}

func (e *Engine) process(ctx context.Context, entries []types.ManifestEntry, step stepFunc, dryRun bool) (*types.RunResult, error) {
	result := &types.RunResult{
		Total:     len(entries),
		DryRun:    dryRun,
		StartedAt: time.Now(),
		Results:   make([]*types.EntryResult, 0, len(entries)),
	}

	e.logger.Info("run_started").
		Int("images", len(entries)).
		Str("registry", e.registryHost).
		Bool("dry_run", dryRun).
		Bool("continue_on_error", e.continueOnError).
		Send()

	e.sendRunStart(ctx, len(entries), dryRun)

	for i, entry := range entries {
		if err := ctx.Err(); err != nil {
			result.Duration = time.Since(result.StartedAt)
			e.logger.Warn("run_interrupted").
				Int("processed", i).
				Int("total", len(entries)).
				Send()
			return result, err
		}

		e.logger.Info("entry_started").
			Int("index", i+1).
			Int("total", len(entries)).
			Str("source", entry.SourceReference()).
			Send()

		entryResult, err := step(ctx, entry)
		entryResult.Index = i + 1
		result.Results = append(result.Results, entryResult)

		if err != nil {
			result.Aborted = append(result.Aborted, entryResult.SourceImage)
			e.logger.Error("entry_aborted").
				Int("index", i+1).
				Str("source", entryResult.SourceImage).
				Str("repository", entryResult.Repository).
				Err(err).
				Send()

			if !e.continueOnError {
				result.Duration = time.Since(result.StartedAt)
				e.logRunSummary(result)
				e.sendError(ctx, err, entryResult.SourceImage)
				e.generateReport(result)
				return result, fmt.Errorf("replication of %s aborted: %w", entryResult.SourceImage, err)
			}
			continue
		}

		if dryRun {
			e.recordPlanned(result, entryResult)
		} else {
			e.record(result, entryResult)
		}
	}

	result.Duration = time.Since(result.StartedAt)
	e.logRunSummary(result)
	e.sendRunComplete(ctx, result)
	e.generateReport(result)

	return result, nil
}

func (e *Engine) record(result *types.RunResult, entryResult *types.EntryResult) {
	if entryResult.RepositoryCreated {
		result.RepositoriesCreated++
	}

	switch entryResult.Action {
	case types.ActionTransferred:
		result.Transferred++
	case types.ActionSkipped:
		result.Skipped++
	case types.ActionFailed:
		result.Failed = append(result.Failed, entryResult.SourceImage)
		e.logger.Warn("entry_transfer_failed").
			Int("index", entryResult.Index).
			Str("source", entryResult.SourceImage).
			Str("target", entryResult.TargetImage).
			Send()
	}
}

func (e *Engine) recordPlanned(result *types.RunResult, entryResult *types.EntryResult) {
	if !entryResult.RepositoryExisted {
		result.RepositoriesCreated++
	}

	if entryResult.ImageExisted {
		result.Skipped++
		e.logger.Info("dry_run_would_skip").
			Str("source", entryResult.SourceImage).
			Str("target", entryResult.TargetImage).
			Send()
		return
	}

	result.Transferred++
	e.logger.Info("dry_run_would_replicate").
		Str("source", entryResult.SourceImage).
		Str("target", entryResult.TargetImage).
		Bool("create_repository", !entryResult.RepositoryExisted).
		Send()
}
