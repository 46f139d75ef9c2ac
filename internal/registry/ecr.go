package registry

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/ecr"
	ecrTypes "github.com/aws/aws-sdk-go-v2/service/ecr/types"
	"github.com/aws/aws-sdk-go-v2/service/sts"
	"github.com/kevinfinalboss/replicator/internal/logger"
	"github.com/kevinfinalboss/replicator/pkg/types"
)

const sourceTagKey = "Source"

// Client is the narrow view of the target control plane the replication
// planner needs.
type Client interface {
	RepositoryExists(ctx context.Context, name string) (bool, error)
	ImageExists(ctx context.Context, repository, tag, digest string) (bool, error)
	CreateRepository(ctx context.Context, name string) error
	ApplyResourcePolicy(ctx context.Context, name, policy string) error
	RegistryHost() string
}

// ECRAPI is the subset of the ECR client used by ECRRegistry.
type ECRAPI interface {
	DescribeRepositories(ctx context.Context, params *ecr.DescribeRepositoriesInput, optFns ...func(*ecr.Options)) (*ecr.DescribeRepositoriesOutput, error)
	DescribeImages(ctx context.Context, params *ecr.DescribeImagesInput, optFns ...func(*ecr.Options)) (*ecr.DescribeImagesOutput, error)
	CreateRepository(ctx context.Context, params *ecr.CreateRepositoryInput, optFns ...func(*ecr.Options)) (*ecr.CreateRepositoryOutput, error)
	SetRepositoryPolicy(ctx context.Context, params *ecr.SetRepositoryPolicyInput, optFns ...func(*ecr.Options)) (*ecr.SetRepositoryPolicyOutput, error)
}

// ECRRegistry implements Client against a single ECR registry.
type ECRRegistry struct {
	Region       string
	AccountID    string
	Profiles     []string
	AccessKey    string
	SecretKey    string
	registryHost string
	awsConfig    aws.Config
	ecrClient    ECRAPI
	retry        *RetryPolicy
	logger       *logger.Logger
}

func NewECRRegistry(ctx context.Context, cfg *types.TargetConfig, retry *RetryPolicy, logger *logger.Logger) (*ECRRegistry, error) {
	registry := &ECRRegistry{
		Region:       cfg.Region,
		AccountID:    cfg.AccountID,
		Profiles:     cfg.Profiles,
		AccessKey:    cfg.AccessKey,
		SecretKey:    cfg.SecretKey,
		registryHost: cfg.RegistryHost,
		retry:        retry,
		logger:       logger,
	}

	if err := registry.initAWSConfig(ctx); err != nil {
		return nil, fmt.Errorf("failed to initialize AWS configuration: %w", err)
	}

	if registry.registryHost == "" {
		registry.registryHost = fmt.Sprintf("%s.dkr.ecr.%s.amazonaws.com", registry.AccountID, registry.Region)
	}

	logger.Info("ecr_target_resolved").
		Str("account_id", registry.AccountID).
		Str("region", registry.Region).
		Str("host", registry.registryHost).
		Send()

	return registry, nil
}

// NewECRRegistryWithClient builds a registry over an already configured API
// client and a known registry host.
func NewECRRegistryWithClient(api ECRAPI, registryHost string, retry *RetryPolicy, logger *logger.Logger) *ECRRegistry {
	if retry == nil {
		retry = DefaultRetryPolicy()
	}
	return &ECRRegistry{
		registryHost: registryHost,
		ecrClient:    api,
		retry:        retry,
		logger:       logger,
	}
}

func (r *ECRRegistry) initAWSConfig(ctx context.Context) error {
	var cfg aws.Config
	var err error

	loadOpts := r.loadOptions()

	if r.AccessKey != "" && r.SecretKey != "" {
		r.logger.Debug("ecr_using_credentials").
			Str("access_key", maskKey(r.AccessKey)).
			Send()
		cfg, err = config.LoadDefaultConfig(ctx, append(loadOpts,
			config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
				r.AccessKey,
				r.SecretKey,
				"",
			)),
		)...)
	} else if len(r.Profiles) > 0 {
		r.logger.Debug("ecr_using_profiles").
			Strs("profiles", r.Profiles).
			Send()

		for i, profile := range r.Profiles {
			r.logger.Debug("ecr_trying_profile").
				Str("profile", profile).
				Int("attempt", i+1).
				Send()

			cfg, err = config.LoadDefaultConfig(ctx, append(loadOpts,
				config.WithSharedConfigProfile(profile),
			)...)

			if err == nil {
				r.logger.Info("ecr_profile_success").
					Str("profile", profile).
					Send()
				break
			}

			r.logger.Warn("ecr_profile_failed").
				Str("profile", profile).
				Err(err).
				Send()
		}

		if err != nil {
			return fmt.Errorf("all AWS profiles failed: %w", err)
		}
	} else {
		r.logger.Debug("ecr_using_default_credentials").Send()
		cfg, err = config.LoadDefaultConfig(ctx, loadOpts...)
	}

	if err != nil {
		return fmt.Errorf("failed to load AWS configuration: %w", err)
	}

	if cfg.Region == "" {
		return fmt.Errorf("no AWS region configured")
	}

	r.Region = cfg.Region
	r.awsConfig = cfg
	r.ecrClient = ecr.NewFromConfig(cfg)

	if r.AccountID == "" && r.registryHost == "" {
		if err := r.discoverAccountID(ctx); err != nil {
			return fmt.Errorf("failed to discover account id: %w", err)
		}
	}

	return nil
}

// loadOptions disables the SDK retryer so RetryPolicy alone bounds how long
// a control-plane call may take.
func (r *ECRRegistry) loadOptions() []func(*config.LoadOptions) error {
	opts := []func(*config.LoadOptions) error{
		config.WithRetryMaxAttempts(1),
	}
	if r.Region != "" {
		opts = append(opts, config.WithRegion(r.Region))
	}
	return opts
}

func (r *ECRRegistry) discoverAccountID(ctx context.Context) error {
	stsClient := sts.NewFromConfig(r.awsConfig)

	result, err := stsClient.GetCallerIdentity(ctx, &sts.GetCallerIdentityInput{})
	if err != nil {
		return err
	}

	r.AccountID = aws.ToString(result.Account)
	r.logger.Debug("account_id_discovered").
		Str("account_id", r.AccountID).
		Send()

	return nil
}

func (r *ECRRegistry) RegistryHost() string {
	return r.registryHost
}

func (r *ECRRegistry) RepositoryExists(ctx context.Context, name string) (bool, error) {
	r.logger.Debug("ecr_checking_repository").
		Str("repository", name).
		Send()

	exists := false
	err := r.retry.Do(ctx, func() error {
		_, err := r.ecrClient.DescribeRepositories(ctx, &ecr.DescribeRepositoriesInput{
			RepositoryNames: []string{name},
		})
		if err != nil {
			if isRepositoryNotFound(err) {
				exists = false
				return nil
			}
			r.logRetry("describe_repositories", name, err)
			return err
		}
		exists = true
		return nil
	})
	if err != nil {
		return false, r.fatal("describe-repositories", name, err)
	}

	return exists, nil
}

func (r *ECRRegistry) ImageExists(ctx context.Context, repository, tag, digest string) (bool, error) {
	if tag == types.LatestTag {
		r.logger.Debug("ecr_latest_tag_forced").
			Str("repository", repository).
			Send()
		return false, nil
	}

	r.logger.Debug("ecr_checking_image").
		Str("repository", repository).
		Str("tag", tag).
		Str("digest", digest).
		Send()

	imageID := ecrTypes.ImageIdentifier{ImageTag: aws.String(tag)}
	if digest != "" {
		imageID.ImageDigest = aws.String(digest)
	}

	exists := false
	err := r.retry.Do(ctx, func() error {
		result, err := r.ecrClient.DescribeImages(ctx, &ecr.DescribeImagesInput{
			RepositoryName: aws.String(repository),
			ImageIds:       []ecrTypes.ImageIdentifier{imageID},
			Filter: &ecrTypes.DescribeImagesFilter{
				TagStatus: ecrTypes.TagStatusTagged,
			},
		})
		if err != nil {
			if isImageNotFound(err) || isRepositoryNotFound(err) {
				exists = false
				return nil
			}
			r.logRetry("describe_images", repository, err)
			return err
		}
		exists = len(result.ImageDetails) > 0
		return nil
	})
	if err != nil {
		return false, r.fatal("describe-images", repository, err)
	}

	return exists, nil
}

func (r *ECRRegistry) CreateRepository(ctx context.Context, name string) error {
	r.logger.Debug("ecr_creating_repository").
		Str("repository", name).
		Send()

	err := r.retry.Do(ctx, func() error {
		_, err := r.ecrClient.CreateRepository(ctx, &ecr.CreateRepositoryInput{
			RepositoryName: aws.String(name),
			Tags: []ecrTypes.Tag{
				{Key: aws.String(sourceTagKey), Value: aws.String(name)},
			},
			ImageScanningConfiguration: &ecrTypes.ImageScanningConfiguration{
				ScanOnPush: true,
			},
		})
		if err != nil && !isRepositoryAlreadyExists(err) {
			r.logRetry("create_repository", name, err)
		}
		return err
	})
	if err != nil {
		// an earlier attempt may have landed before its response was lost
		if isRepositoryAlreadyExists(err) {
			r.logger.Debug("ecr_repository_exists").
				Str("repository", name).
				Send()
			return nil
		}
		return r.fatal("create-repository", name, err)
	}

	r.logger.Info("ecr_repository_created").
		Str("repository", name).
		Send()

	return nil
}

func (r *ECRRegistry) ApplyResourcePolicy(ctx context.Context, name, policy string) error {
	r.logger.Info("ecr_applying_policy").
		Str("repository", name).
		Send()

	_, err := r.ecrClient.SetRepositoryPolicy(ctx, &ecr.SetRepositoryPolicyInput{
		RepositoryName: aws.String(name),
		PolicyText:     aws.String(policy),
	})
	if err != nil {
		if isInvalidParameter(err) {
			r.logger.Error("ecr_policy_malformed").
				Str("repository", name).
				Err(err).
				Send()
			return fmt.Errorf("%w for %s: %v", ErrMalformedPolicy, name, err)
		}
		return r.fatal("set-repository-policy", name, err)
	}

	r.logger.Info("ecr_policy_applied").
		Str("repository", name).
		Send()

	return nil
}

func (r *ECRRegistry) logRetry(op, repository string, err error) {
	if !r.retry.retryable(err) {
		return
	}
	r.logger.Warn("ecr_call_retrying").
		Str("operation", op).
		Str("repository", repository).
		Err(err).
		Send()
}

func (r *ECRRegistry) fatal(op, repository string, err error) error {
	cpErr := newControlPlaneError(op, repository, err)
	r.logger.Error("ecr_control_plane_error").
		Str("operation", op).
		Str("repository", repository).
		Str("code", cpErr.Code).
		Dur("retry_budget", r.retry.MaxElapsedTime).
		Err(err).
		Send()
	return cpErr
}

func maskKey(key string) string {
	if len(key) <= 8 {
		return "***"
	}
	return key[:8] + "..."
}

var _ Client = (*ECRRegistry)(nil)
