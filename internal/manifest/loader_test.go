package manifest

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/kevinfinalboss/replicator/pkg/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const validManifest = `
- source: library/nginx
  tag: "1.25"
- source: quay.io/prometheus/node-exporter
  destination: prometheus/node-exporter
  tag: v1.8.1
  digest: sha256:6a56a3a6bdbba4f5fbbd0e2f1ab6e2f4ed5c3f9d3cf4d0e1b9a8f7e6d5c4b3a2
- source: library/redis
  tag: latest
`

func TestParse(t *testing.T) {
	entries, err := Parse([]byte(validManifest))
	require.NoError(t, err)
	require.Len(t, entries, 3)

	assert.Equal(t, types.ManifestEntry{Source: "library/nginx", Tag: "1.25"}, entries[0])
	assert.Equal(t, "prometheus/node-exporter", entries[1].Destination)
	assert.Equal(t, "sha256:6a56a3a6bdbba4f5fbbd0e2f1ab6e2f4ed5c3f9d3cf4d0e1b9a8f7e6d5c4b3a2", entries[1].Digest)
	assert.Equal(t, "latest", entries[2].Tag)
}

func TestParse_Empty(t *testing.T) {
	entries, err := Parse([]byte(""))
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestParse_Invalid(t *testing.T) {
	tests := []struct {
		name     string
		manifest string
		contains string
	}{
		{
			name:     "missing tag",
			manifest: "- source: library/nginx\n",
			contains: "tag is required",
		},
		{
			name:     "missing source",
			manifest: "- tag: \"1.25\"\n",
			contains: "source is required",
		},
		{
			name:     "unknown field",
			manifest: "- source: library/nginx\n  tag: \"1.25\"\n  platform: linux/amd64\n",
			contains: "failed to decode manifest",
		},
		{
			name:     "malformed digest",
			manifest: "- source: library/nginx\n  tag: \"1.25\"\n  digest: sha256:abc\n",
			contains: "invalid digest",
		},
		{
			name:     "invalid destination",
			manifest: "- source: library/nginx\n  destination: Team/API\n  tag: \"1.25\"\n",
			contains: "invalid destination",
		},
		{
			name:     "not a list",
			manifest: "source: library/nginx\ntag: \"1.25\"\n",
			contains: "failed to decode manifest",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.manifest))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.contains)
		})
	}
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "images.yaml")
	require.NoError(t, os.WriteFile(path, []byte(validManifest), 0644))

	entries, err := LoadFile(path)
	require.NoError(t, err)
	assert.Len(t, entries, 3)

	_, err = LoadFile(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

type fakeConfigMapReader struct {
	data map[string]string
	err  error
}

func (f *fakeConfigMapReader) ConfigMapData(ctx context.Context, namespace, name string) (map[string]string, error) {
	return f.data, f.err
}

func TestLoadConfigMap(t *testing.T) {
	source := types.ConfigMapSource{Namespace: "platform", Name: "replicator-images"}

	entries, err := LoadConfigMap(context.Background(), &fakeConfigMapReader{
		data: map[string]string{DefaultConfigMapKey: validManifest},
	}, source)
	require.NoError(t, err)
	assert.Len(t, entries, 3)

	_, err = LoadConfigMap(context.Background(), &fakeConfigMapReader{
		data: map[string]string{"other.yaml": validManifest},
	}, source)
	assert.ErrorContains(t, err, "has no key")

	_, err = LoadConfigMap(context.Background(), &fakeConfigMapReader{err: errors.New("forbidden")}, source)
	assert.ErrorContains(t, err, "forbidden")
}
