package cli

import (
	"os"

	"github.com/kevinfinalboss/replicator/internal/config"
	"github.com/spf13/cobra"
)

const exampleRegion = "us-east-1"

const exampleManifest = `- source: library/nginx
  tag: "1.25"
- source: library/redis
  destination: cache/redis
  tag: "7.2"
- source: ghcr.io/example/api
  destination: team/api
  tag: v2.3.1
  # digest: sha256:<64 hex characters>
`

const examplePolicy = `{
  "Version": "2012-10-17",
  "Statement": [
    {
      "Sid": "AllowOrganizationPull",
      "Effect": "Allow",
      "Principal": "*",
      "Action": [
        "ecr:BatchGetImage",
        "ecr:GetDownloadUrlForLayer"
      ]
    }
  ]
}
`

const exampleTransferScript = `#!/bin/sh
set -eu

SOURCE="$1"
TARGET="$2"
REGISTRY="${TARGET%%/*}"
REGION=$(echo "$REGISTRY" | cut -d. -f4)

aws ecr get-login-password --region "$REGION" | docker login --username AWS --password-stdin "$REGISTRY"
docker pull "$SOURCE"
docker tag "$SOURCE" "$TARGET"
docker push "$TARGET"
docker rmi "$SOURCE" "$TARGET" >/dev/null 2>&1 || true
`

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Creates an example configuration, manifest and policy",
	Long:  "Writes ~/.replicator/config.yaml plus images.yaml, policy.json and pull-push.sh in the current directory, leaving existing files untouched",
	RunE: func(cmd *cobra.Command, args []string) error {
		return initWorkspace()
	},
}

func initWorkspace() error {
	configFile, err := config.ResolvePath(cfgFile)
	if err != nil {
		log.Error("operation_failed").Err(err).Send()
		return err
	}

	if err := writeConfig(configFile); err != nil {
		log.Error("operation_failed").Str("file", configFile).Err(err).Send()
		return err
	}

	files := []struct {
		path    string
		content string
		mode    os.FileMode
	}{
		{path: "images.yaml", content: exampleManifest, mode: 0644},
		{path: "policy.json", content: examplePolicy, mode: 0644},
		{path: "pull-push.sh", content: exampleTransferScript, mode: 0755},
	}

	for _, file := range files {
		if err := writeExample(file.path, file.content, file.mode); err != nil {
			log.Error("operation_failed").Str("file", file.path).Err(err).Send()
			return err
		}
	}

	log.Info("operation_completed").Str("operation", "init").Send()
	return nil
}

func writeConfig(path string) error {
	if config.Exists(path) {
		log.Warn("config_already_exists").Str("file", path).Send()
		return nil
	}

	defaults := config.GetDefaultConfig()
	defaults.Target.Region = exampleRegion

	if err := config.Save(defaults, path); err != nil {
		return err
	}

	log.Info("config_created").Str("file", path).Send()
	return nil
}

func writeExample(path, content string, mode os.FileMode) error {
	if config.Exists(path) {
		log.Warn("config_already_exists").Str("file", path).Send()
		return nil
	}

	if err := config.EnsureDir(path); err != nil {
		return err
	}

	if err := os.WriteFile(path, []byte(content), mode); err != nil {
		return err
	}

	log.Info("config_created").Str("file", path).Send()
	return nil
}
