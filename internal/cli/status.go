package cli

import (
	"github.com/spf13/cobra"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Shows which manifest images are missing from ECR",
	Long:  "Checks every manifest entry against the target registry without creating repositories or copying images",
	RunE: func(cmd *cobra.Command, args []string) error {
		applyManifestFlags(cmd)

		entries, err := loadManifest(cmd.Context())
		if err != nil {
			return err
		}

		engine, err := buildEngine(cmd.Context())
		if err != nil {
			return err
		}

		result, err := engine.DryRun(cmd.Context(), entries)
		if err != nil {
			return err
		}

		log.Info("operation_completed").
			Str("operation", "status").
			Int("missing", result.Transferred).
			Int("present", result.Skipped).
			Send()
		return nil
	},
}

func init() {
	addManifestFlags(statusCmd)
}
