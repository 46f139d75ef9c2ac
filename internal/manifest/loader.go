package manifest

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/google/go-containerregistry/pkg/name"
	"github.com/kevinfinalboss/replicator/pkg/types"
	"github.com/opencontainers/go-digest"
	"gopkg.in/yaml.v3"
)

const DefaultConfigMapKey = "images.yaml"

// ConfigMapReader is satisfied by the kubernetes client.
type ConfigMapReader interface {
	ConfigMapData(ctx context.Context, namespace, name string) (map[string]string, error)
}

func LoadFile(path string) ([]types.ManifestEntry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read manifest %s: %w", path, err)
	}

	entries, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("manifest %s: %w", path, err)
	}

	return entries, nil
}

func LoadConfigMap(ctx context.Context, reader ConfigMapReader, source types.ConfigMapSource) ([]types.ManifestEntry, error) {
	key := source.Key
	if key == "" {
		key = DefaultConfigMapKey
	}

	data, err := reader.ConfigMapData(ctx, source.Namespace, source.Name)
	if err != nil {
		return nil, err
	}

	document, ok := data[key]
	if !ok {
		return nil, fmt.Errorf("configmap %s/%s has no key %q", source.Namespace, source.Name, key)
	}

	entries, err := Parse([]byte(document))
	if err != nil {
		return nil, fmt.Errorf("configmap %s/%s: %w", source.Namespace, source.Name, err)
	}

	return entries, nil
}

// Parse decodes a YAML list of manifest entries and validates every record.
// Unknown fields are rejected.
func Parse(data []byte) ([]types.ManifestEntry, error) {
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)

	var entries []types.ManifestEntry
	if err := decoder.Decode(&entries); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to decode manifest: %w", err)
	}

	for i, entry := range entries {
		if err := Validate(entry); err != nil {
			return nil, fmt.Errorf("entry %d: %w", i+1, err)
		}
	}

	return entries, nil
}

func Validate(entry types.ManifestEntry) error {
	if entry.Source == "" {
		return errors.New("source is required")
	}
	if entry.Tag == "" {
		return fmt.Errorf("tag is required for %s", entry.Source)
	}

	if _, err := name.NewTag(entry.Source+":"+entry.Tag); err != nil {
		return fmt.Errorf("invalid source %s:%s: %w", entry.Source, entry.Tag, err)
	}

	if entry.Destination != "" {
		if _, err := name.NewRepository(entry.Destination); err != nil {
			return fmt.Errorf("invalid destination %s: %w", entry.Destination, err)
		}
	}

	if entry.Digest != "" {
		if _, err := digest.Parse(entry.Digest); err != nil {
			return fmt.Errorf("invalid digest %s for %s: %w", entry.Digest, entry.Source, err)
		}
	}

	return nil
}
