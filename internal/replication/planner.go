package replication

import (
	"context"
	"errors"

	"github.com/kevinfinalboss/replicator/internal/logger"
	"github.com/kevinfinalboss/replicator/internal/registry"
	"github.com/kevinfinalboss/replicator/internal/transfer"
	"github.com/kevinfinalboss/replicator/pkg/types"
	"github.com/kevinfinalboss/replicator/pkg/utils"
)

// Planner resolves a single manifest entry against the target registry:
// provisions the repository when missing and transfers the image when absent.
type Planner struct {
	registry registry.Client
	transfer transfer.Transferer
	policy   registry.PolicySource
	logger   *logger.Logger
}

// NewPlanner builds a planner. A nil policy source leaves new repositories
// without an access policy.
func NewPlanner(reg registry.Client, transferer transfer.Transferer, policy registry.PolicySource, logger *logger.Logger) *Planner {
	return &Planner{
		registry: reg,
		transfer: transferer,
		policy:   policy,
		logger:   logger,
	}
}

func (p *Planner) resolve(entry types.ManifestEntry) *types.EntryResult {
	return &types.EntryResult{
		Entry:       entry,
		Repository:  entry.Repository(),
		SourceImage: entry.SourceReference(),
		TargetImage: entry.TargetReference(p.registry.RegistryHost()),
	}
}

// Replicate runs the full decision sequence for entry. The returned error is
// always a fatal control-plane error; transfer failures are reported through
// the result.
func (p *Planner) Replicate(ctx context.Context, entry types.ManifestEntry) (*types.EntryResult, error) {
	result := p.resolve(entry)

	p.logger.Debug("checking_repository").
		Str("repository", result.Repository).
		Send()

	exists, err := p.registry.RepositoryExists(ctx, result.Repository)
	if err != nil {
		return p.abort(result, err)
	}
	result.RepositoryExisted = exists

	if !exists {
		p.logger.Info("repository_missing").
			Str("repository", result.Repository).
			Send()

		if err := p.registry.CreateRepository(ctx, result.Repository); err != nil {
			return p.abort(result, err)
		}
		result.RepositoryCreated = true

		applied, err := p.applyPolicy(ctx, result.Repository)
		if err != nil {
			return p.abort(result, err)
		}
		result.PolicyApplied = applied
	}

	imageExists, err := p.imageExists(ctx, entry, result.Repository)
	if err != nil {
		return p.abort(result, err)
	}
	result.ImageExisted = imageExists

	if imageExists {
		p.logger.Info("image_present_skipping").
			Str("target", result.TargetImage).
			Send()
		result.Action = types.ActionSkipped
		return result, nil
	}

	sourceRegistry := utils.ExtractRegistry(entry.Source)
	p.logger.Info("image_missing_replicating").
		Str("source", result.SourceImage).
		Str("source_registry", sourceRegistry).
		Bool("public_source", utils.IsPublicRegistry(sourceRegistry)).
		Str("target", result.TargetImage).
		Send()

	outcome := p.transfer.Transfer(ctx, result.SourceImage, result.TargetImage)
	result.Outcome = outcome
	if outcome.Success {
		result.Transferred = true
		result.Action = types.ActionTransferred
	} else {
		result.Action = types.ActionFailed
	}

	return result, nil
}

// Inspect performs only the existence checks and reports what Replicate
// would do. Nothing is created or transferred.
func (p *Planner) Inspect(ctx context.Context, entry types.ManifestEntry) (*types.EntryResult, error) {
	result := p.resolve(entry)
	result.Action = types.ActionPlanned

	exists, err := p.registry.RepositoryExists(ctx, result.Repository)
	if err != nil {
		return p.abort(result, err)
	}
	result.RepositoryExisted = exists

	if exists {
		imageExists, err := p.imageExists(ctx, entry, result.Repository)
		if err != nil {
			return p.abort(result, err)
		}
		result.ImageExisted = imageExists
	}

	return result, nil
}

func (p *Planner) imageExists(ctx context.Context, entry types.ManifestEntry, repository string) (bool, error) {
	if entry.IsMutableTag() {
		p.logger.Info("latest_tag_forced").
			Str("repository", repository).
			Send()
		return false, nil
	}

	p.logger.Debug("checking_image").
		Str("repository", repository).
		Str("tag", entry.Tag).
		Send()

	return p.registry.ImageExists(ctx, repository, entry.Tag, entry.Digest)
}

// applyPolicy only tolerates a policy document the registry rejects as
// malformed: the repository is kept without it. Any other failure to read or
// apply the policy is fatal for the entry.
func (p *Planner) applyPolicy(ctx context.Context, repository string) (bool, error) {
	if p.policy == nil {
		p.logger.Debug("policy_not_configured").
			Str("repository", repository).
			Send()
		return false, nil
	}

	document, err := p.policy.Load()
	if err != nil {
		p.logger.Error("policy_load_failed").
			Str("repository", repository).
			Err(err).
			Send()
		return false, err
	}

	if err := p.registry.ApplyResourcePolicy(ctx, repository, document); err != nil {
		if errors.Is(err, registry.ErrMalformedPolicy) {
			p.logger.Warn("policy_apply_failed").
				Str("repository", repository).
				Err(err).
				Send()
			return false, nil
		}
		return false, err
	}

	return true, nil
}

func (p *Planner) abort(result *types.EntryResult, err error) (*types.EntryResult, error) {
	result.Action = types.ActionAborted
	result.Error = err
	return result, err
}
