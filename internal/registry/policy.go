package registry

import (
	"fmt"
	"os"
	"strings"
)

// PolicySource yields the repository access policy applied to new repositories.
type PolicySource interface {
	Load() (string, error)
}

// FilePolicySource reads the policy from disk on every Load so edits made
// during a run are picked up by the next repository created.
type FilePolicySource struct {
	Path string
}

func NewFilePolicySource(path string) *FilePolicySource {
	return &FilePolicySource{Path: path}
}

func (s *FilePolicySource) Load() (string, error) {
	data, err := os.ReadFile(s.Path)
	if err != nil {
		return "", fmt.Errorf("failed to read repository policy %s: %w", s.Path, err)
	}

	policy := NormalizePolicy(string(data))
	if policy == "" {
		return "", fmt.Errorf("repository policy %s is empty", s.Path)
	}

	return policy, nil
}

// NormalizePolicy strips line breaks, collapses runs of spaces into one and
// trims the result.
func NormalizePolicy(document string) string {
	document = strings.NewReplacer("\r", "", "\n", "").Replace(document)

	var b strings.Builder
	b.Grow(len(document))

	previousSpace := false
	for _, r := range document {
		if r == ' ' {
			if previousSpace {
				continue
			}
			previousSpace = true
		} else {
			previousSpace = false
		}
		b.WriteRune(r)
	}

	return strings.TrimSpace(b.String())
}
