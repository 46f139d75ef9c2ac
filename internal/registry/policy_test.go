package registry

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizePolicy(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "already compact",
			input:    `{"Version":"2012-10-17"}`,
			expected: `{"Version":"2012-10-17"}`,
		},
		{
			name:     "newlines removed",
			input:    "{\n\"Version\":\"2012-10-17\"\n}\n",
			expected: `{"Version":"2012-10-17"}`,
		},
		{
			name:     "windows line endings",
			input:    "{\r\n\"Sid\":\"pull\"\r\n}",
			expected: `{"Sid":"pull"}`,
		},
		{
			name:     "indentation collapsed",
			input:    "{\n    \"Version\": \"2012-10-17\",\n    \"Statement\": []\n}",
			expected: `{ "Version": "2012-10-17", "Statement": []}`,
		},
		{
			name:     "empty",
			input:    "  \n ",
			expected: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, NormalizePolicy(tt.input))
		})
	}
}

func TestFilePolicySource_Load(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "policy.json")
	require.NoError(t, os.WriteFile(path, []byte("{\n  \"Version\": \"2012-10-17\"\n}\n"), 0644))

	source := NewFilePolicySource(path)
	policy, err := source.Load()
	require.NoError(t, err)
	assert.Equal(t, `{ "Version": "2012-10-17"}`, policy)

	require.NoError(t, os.WriteFile(path, []byte(`{"Version":"2008-10-17"}`), 0644))
	policy, err = source.Load()
	require.NoError(t, err)
	assert.Equal(t, `{"Version":"2008-10-17"}`, policy)
}

func TestFilePolicySource_LoadErrors(t *testing.T) {
	_, err := NewFilePolicySource(filepath.Join(t.TempDir(), "missing.json")).Load()
	assert.Error(t, err)

	path := filepath.Join(t.TempDir(), "empty.json")
	require.NoError(t, os.WriteFile(path, []byte("\n\n"), 0644))
	_, err = NewFilePolicySource(path).Load()
	assert.Error(t, err)
}
