package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/kevinfinalboss/replicator/internal/kubernetes"
	"github.com/kevinfinalboss/replicator/internal/manifest"
	"github.com/kevinfinalboss/replicator/internal/registry"
	"github.com/kevinfinalboss/replicator/internal/replication"
	"github.com/kevinfinalboss/replicator/internal/transfer"
	"github.com/kevinfinalboss/replicator/pkg/types"
	"github.com/spf13/cobra"
)

var (
	manifestFile    string
	policyFile      string
	configMapRef    string
	continueOnError bool
)

var replicateCmd = &cobra.Command{
	Use:   "replicate",
	Short: "Replicates the images listed in the manifest into ECR",
	Long: `Reads the image manifest and, for every entry, ensures the destination ECR
repository exists with its access policy and copies the image when the target
registry does not already hold it. Tags named "latest" are always copied.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		applyManifestFlags(cmd)
		if cmd.Flags().Changed("continue-on-error") {
			cfg.Settings.ContinueOnError = continueOnError
		}

		return runReplicate(cmd.Context())
	},
}

func init() {
	addManifestFlags(replicateCmd)
	replicateCmd.Flags().BoolVar(&continueOnError, "continue-on-error", false, "keep going after a fatal registry error")
}

func addManifestFlags(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&manifestFile, "manifest", "m", "", "image manifest file (default images.yaml)")
	cmd.Flags().StringVar(&policyFile, "policy", "", "repository policy document (default policy.json)")
	cmd.Flags().StringVar(&configMapRef, "configmap", "", "read the manifest from a ConfigMap (namespace/name)")
}

func applyManifestFlags(cmd *cobra.Command) {
	if cmd.Flags().Changed("manifest") {
		cfg.Manifest.File = manifestFile
		cfg.Manifest.ConfigMap = types.ConfigMapSource{}
	}
	if cmd.Flags().Changed("configmap") {
		namespace, name, ok := strings.Cut(configMapRef, "/")
		if !ok {
			namespace, name = "default", configMapRef
		}
		cfg.Manifest.ConfigMap.Namespace = namespace
		cfg.Manifest.ConfigMap.Name = name
	}
	if cmd.Flags().Changed("policy") {
		cfg.Policy.File = policyFile
	}
}

func runReplicate(ctx context.Context) error {
	entries, err := loadManifest(ctx)
	if err != nil {
		return err
	}

	engine, err := buildEngine(ctx)
	if err != nil {
		return err
	}

	var result *types.RunResult
	if cfg.Settings.DryRun {
		result, err = engine.DryRun(ctx, entries)
	} else {
		result, err = engine.Run(ctx, entries)
	}
	if err != nil {
		return err
	}

	if result.HasFailures() {
		return fmt.Errorf("%d of %d images were not replicated", result.FailureCount(), result.Total)
	}

	log.Info("operation_completed").
		Str("operation", "replicate").
		Int("transferred", result.Transferred).
		Int("skipped", result.Skipped).
		Send()

	return nil
}

func loadManifest(ctx context.Context) ([]types.ManifestEntry, error) {
	var (
		entries []types.ManifestEntry
		source  string
		err     error
	)

	if cfg.Manifest.ConfigMap.Name != "" {
		client, clientErr := kubernetes.NewClient(&cfg.Kubernetes, log)
		if clientErr != nil {
			return nil, clientErr
		}

		source = cfg.Manifest.ConfigMap.Namespace + "/" + cfg.Manifest.ConfigMap.Name
		entries, err = manifest.LoadConfigMap(ctx, client, cfg.Manifest.ConfigMap)
	} else {
		source = cfg.Manifest.File
		entries, err = manifest.LoadFile(cfg.Manifest.File)
	}
	if err != nil {
		return nil, err
	}

	log.Info("manifest_loaded").
		Str("source", source).
		Int("images", len(entries)).
		Send()

	return entries, nil
}

func buildEngine(ctx context.Context) (*replication.Engine, error) {
	ecrRegistry, err := registry.NewECRRegistry(ctx, &cfg.Target, registry.NewRetryPolicy(cfg.Retry), log)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize ECR client: %w", err)
	}

	var policy registry.PolicySource
	if cfg.Policy.File != "" {
		policy = registry.NewFilePolicySource(cfg.Policy.File)
	}

	planner := replication.NewPlanner(ecrRegistry, transfer.NewInvoker(cfg.Transfer, log), policy, log)
	return replication.NewEngine(planner, log, cfg), nil
}
