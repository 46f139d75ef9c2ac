package config

import (
	"os"
	"path/filepath"

	"github.com/kevinfinalboss/replicator/internal/registry"
	"github.com/kevinfinalboss/replicator/internal/transfer"
	"github.com/kevinfinalboss/replicator/pkg/types"
	"gopkg.in/yaml.v3"
)

type Config = types.Config

const (
	defaultManifestFile = "images.yaml"
	defaultPolicyFile   = "policy.json"
	defaultLanguage     = "en-US"
	defaultLogLevel     = "info"
)

func DefaultPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".replicator", "config.yaml"), nil
}

// ResolvePath returns configFile, or the default path when it is empty.
func ResolvePath(configFile string) (string, error) {
	if configFile != "" {
		return configFile, nil
	}
	return DefaultPath()
}

// Exists reports whether a configuration file is present at path.
func Exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// Load reads configFile, or the default path when empty. A missing file
// yields the default configuration.
func Load(configFile string) (*types.Config, error) {
	configFile, err := ResolvePath(configFile)
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(configFile)
	if err != nil {
		if os.IsNotExist(err) {
			return GetDefaultConfig(), nil
		}
		return nil, err
	}

	var config types.Config
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, err
	}

	applyDefaults(&config)
	return &config, nil
}

func GetDefaultConfig() *types.Config {
	config := &types.Config{}
	applyDefaults(config)
	return config
}

func applyDefaults(config *types.Config) {
	if config.Manifest.File == "" && config.Manifest.ConfigMap.Name == "" {
		config.Manifest.File = defaultManifestFile
	}
	if config.Policy.File == "" {
		config.Policy.File = defaultPolicyFile
	}
	if config.Transfer.Command == "" {
		config.Transfer.Command = transfer.DefaultCommand
	}

	if config.Retry.InitialInterval == 0 {
		config.Retry.InitialInterval = registry.DefaultInitialInterval
	}
	if config.Retry.MaxInterval == 0 {
		config.Retry.MaxInterval = registry.DefaultMaxInterval
	}
	if config.Retry.MaxElapsedTime == 0 {
		config.Retry.MaxElapsedTime = registry.DefaultMaxElapsedTime
	}
	if config.Retry.Multiplier == 0 {
		config.Retry.Multiplier = registry.DefaultMultiplier
	}

	if config.Settings.Language == "" {
		config.Settings.Language = defaultLanguage
	}
	if config.Settings.LogLevel == "" {
		config.Settings.LogLevel = defaultLogLevel
	}

	if config.Webhooks.Discord.Name == "" {
		config.Webhooks.Discord.Name = "Replicator"
	}
}

func Save(config *types.Config, configFile string) error {
	configFile, err := ResolvePath(configFile)
	if err != nil {
		return err
	}

	if err := EnsureDir(configFile); err != nil {
		return err
	}

	data, err := yaml.Marshal(config)
	if err != nil {
		return err
	}

	return os.WriteFile(configFile, data, 0644)
}

// EnsureDir creates the parent directory of path.
func EnsureDir(path string) error {
	return os.MkdirAll(filepath.Dir(path), 0755)
}
