package types

import "time"

type TargetConfig struct {
	Region       string   `yaml:"region,omitempty"`
	AccountID    string   `yaml:"account_id,omitempty"`
	RegistryHost string   `yaml:"registry_host,omitempty"`
	Profiles     []string `yaml:"profiles,omitempty"`
	AccessKey    string   `yaml:"access_key,omitempty"`
	SecretKey    string   `yaml:"secret_key,omitempty"`
}

type ConfigMapSource struct {
	Namespace string `yaml:"namespace"`
	Name      string `yaml:"name"`
	Key       string `yaml:"key"`
}

type ManifestConfig struct {
	File      string          `yaml:"file"`
	ConfigMap ConfigMapSource `yaml:"configmap,omitempty"`
}

type KubernetesConfig struct {
	Context    string `yaml:"context"`
	Kubeconfig string `yaml:"kubeconfig,omitempty"`
}

type PolicyConfig struct {
	File string `yaml:"file"`
}

type TransferConfig struct {
	Command string   `yaml:"command"`
	Args    []string `yaml:"args,omitempty"`
}

type RetryConfig struct {
	InitialInterval time.Duration `yaml:"initial_interval"`
	MaxInterval     time.Duration `yaml:"max_interval"`
	MaxElapsedTime  time.Duration `yaml:"max_elapsed_time"`
	Multiplier      float64       `yaml:"multiplier"`
}

type SettingsConfig struct {
	Language        string `yaml:"language"`
	LogLevel        string `yaml:"log_level"`
	DryRun          bool   `yaml:"dry_run"`
	ContinueOnError bool   `yaml:"continue_on_error"`
}

type DiscordWebhookConfig struct {
	Enabled bool   `yaml:"enabled"`
	URL     string `yaml:"url"`
	Name    string `yaml:"name,omitempty"`
	Avatar  string `yaml:"avatar,omitempty"`
}

type WebhookConfig struct {
	Discord DiscordWebhookConfig `yaml:"discord"`
}

type ReportConfig struct {
	Enabled bool   `yaml:"enabled"`
	Dir     string `yaml:"dir,omitempty"`
}

type Config struct {
	Target     TargetConfig     `yaml:"target"`
	Manifest   ManifestConfig   `yaml:"manifest"`
	Kubernetes KubernetesConfig `yaml:"kubernetes"`
	Policy     PolicyConfig     `yaml:"policy"`
	Transfer   TransferConfig   `yaml:"transfer"`
	Retry      RetryConfig      `yaml:"retry"`
	Settings   SettingsConfig   `yaml:"settings"`
	Webhooks   WebhookConfig    `yaml:"webhooks"`
	Report     ReportConfig     `yaml:"report"`
}
