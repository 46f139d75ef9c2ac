package webhook

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/kevinfinalboss/replicator/internal/logger"
	"github.com/kevinfinalboss/replicator/pkg/types"
)

const (
	defaultName = "Replicator"
	footerText  = "ECR Replicator"

	colorGreen  = 0x00ff00
	colorBlue   = 0x0099ff
	colorOrange = 0xff6600
	colorRed    = 0xff0000
	colorAmber  = 0xffaa00
)

type DiscordWebhook struct {
	url    string
	name   string
	avatar string
	logger *logger.Logger
	client *http.Client
}

type DiscordMessage struct {
	Username  string         `json:"username,omitempty"`
	AvatarURL string         `json:"avatar_url,omitempty"`
	Content   string         `json:"content,omitempty"`
	Embeds    []DiscordEmbed `json:"embeds,omitempty"`
}

type DiscordEmbed struct {
	Title       string              `json:"title,omitempty"`
	Description string              `json:"description,omitempty"`
	Color       int                 `json:"color,omitempty"`
	Fields      []DiscordEmbedField `json:"fields,omitempty"`
	Footer      *DiscordEmbedFooter `json:"footer,omitempty"`
	Timestamp   string              `json:"timestamp,omitempty"`
}

type DiscordEmbedField struct {
	Name   string `json:"name"`
	Value  string `json:"value"`
	Inline bool   `json:"inline,omitempty"`
}

type DiscordEmbedFooter struct {
	Text    string `json:"text"`
	IconURL string `json:"icon_url,omitempty"`
}

func NewDiscordWebhook(config types.DiscordWebhookConfig, logger *logger.Logger) *DiscordWebhook {
	name := config.Name
	if name == "" {
		name = defaultName
	}

	return &DiscordWebhook{
		url:    config.URL,
		name:   name,
		avatar: config.Avatar,
		logger: logger,
		client: &http.Client{Timeout: 10 * time.Second},
	}
}

func (d *DiscordWebhook) SendRunStart(ctx context.Context, totalImages int, registryHost string, dryRun bool) error {
	title := "🚀 Replication started"
	color := colorGreen
	if dryRun {
		title = "🧪 Dry run started"
		color = colorAmber
	}

	embed := d.embed(title, "Replicating images from the manifest", color, []DiscordEmbedField{
		{
			Name:   "📦 Images",
			Value:  fmt.Sprintf("%d manifest entries", totalImages),
			Inline: true,
		},
		{
			Name:   "🎯 Target",
			Value:  "```\n" + registryHost + "\n```",
			Inline: false,
		},
		{
			Name:   "⚙️ Mode",
			Value:  getModeText(dryRun),
			Inline: true,
		},
	})

	return d.send(ctx, embed)
}

func (d *DiscordWebhook) SendRunComplete(ctx context.Context, result *types.RunResult, registryHost string) error {
	title := "✅ Replication completed"
	color := colorGreen
	if result.DryRun {
		title = "✅ Dry run completed"
		color = colorBlue
	}
	if result.HasFailures() {
		title = "⚠️ Replication completed with failures"
		color = colorOrange
	}

	description := fmt.Sprintf("%d transferred, %d already present", result.Transferred, result.Skipped)
	if result.HasFailures() {
		description += fmt.Sprintf(", %d failed", result.FailureCount())
	}

	fields := []DiscordEmbedField{
		{
			Name: "📊 Results",
			Value: fmt.Sprintf("**Total:** %d\n**✅ Transferred:** %d\n**⏭️ Skipped:** %d\n**🆕 Repositories:** %d\n**❌ Failed:** %d",
				result.Total, result.Transferred, result.Skipped, result.RepositoriesCreated, result.FailureCount()),
			Inline: true,
		},
		{
			Name:   "🎯 Target",
			Value:  registryHost,
			Inline: true,
		},
	}

	if examples := listExamples(append(append([]string{}, result.Failed...), result.Aborted...), 5); examples != "" {
		fields = append(fields, DiscordEmbedField{
			Name:   "❌ Failures",
			Value:  "```\n" + examples + "\n```",
			Inline: false,
		})
	}

	return d.send(ctx, d.embed(title, description, color, fields))
}

func (d *DiscordWebhook) SendError(ctx context.Context, errorMsg, stage string) error {
	embed := d.embed("❌ Replication aborted", fmt.Sprintf("Failed while processing: %s", stage), colorRed, []DiscordEmbedField{
		{
			Name:   "💥 Error",
			Value:  "```\n" + truncateString(errorMsg, 1000) + "\n```",
			Inline: false,
		},
	})

	return d.send(ctx, embed)
}

func (d *DiscordWebhook) embed(title, description string, color int, fields []DiscordEmbedField) DiscordEmbed {
	return DiscordEmbed{
		Title:       title,
		Description: description,
		Color:       color,
		Fields:      fields,
		Footer: &DiscordEmbedFooter{
			Text: footerText,
		},
		Timestamp: time.Now().Format(time.RFC3339),
	}
}

func (d *DiscordWebhook) send(ctx context.Context, embed DiscordEmbed) error {
	message := DiscordMessage{
		Username:  d.name,
		AvatarURL: d.avatar,
		Embeds:    []DiscordEmbed{embed},
	}

	jsonData, err := json.Marshal(message)
	if err != nil {
		return fmt.Errorf("failed to encode discord message: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, d.url, bytes.NewBuffer(jsonData))
	if err != nil {
		return fmt.Errorf("failed to build discord request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")

	resp, err := d.client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send discord webhook: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("discord returned status %d", resp.StatusCode)
	}

	d.logger.Debug("discord_webhook_sent").
		Int("status_code", resp.StatusCode).
		Send()

	return nil
}

func listExamples(images []string, limit int) string {
	if len(images) == 0 {
		return ""
	}

	shown := images
	if len(shown) > limit {
		shown = shown[:limit]
	}

	lines := make([]string, 0, len(shown)+1)
	for _, image := range shown {
		lines = append(lines, truncateString(image, 60))
	}
	if len(images) > limit {
		lines = append(lines, fmt.Sprintf("... and %d more", len(images)-limit))
	}

	return strings.Join(lines, "\n")
}

func getModeText(dryRun bool) string {
	if dryRun {
		return "🧪 Dry run"
	}
	return "🚀 Live"
}

func truncateString(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen-3] + "..."
}
