package types

import (
	"fmt"

	"github.com/kevinfinalboss/replicator/pkg/utils"
)

// LatestTag is never trusted to match the source, images carrying it are always transferred.
const LatestTag = "latest"

type ManifestEntry struct {
	Source      string `yaml:"source" json:"source"`
	Destination string `yaml:"destination,omitempty" json:"destination,omitempty"`
	Tag         string `yaml:"tag" json:"tag"`
	Digest      string `yaml:"digest,omitempty" json:"digest,omitempty"`
}

// Repository returns the destination repository, falling back to the source path.
func (e ManifestEntry) Repository() string {
	if e.Destination != "" {
		return e.Destination
	}
	return e.Source
}

// SourceReference renders source:tag, with an @digest suffix when a digest is pinned.
func (e ManifestEntry) SourceReference() string {
	if e.Digest != "" {
		return fmt.Sprintf("%s:%s@%s", e.Source, e.Tag, e.Digest)
	}
	return fmt.Sprintf("%s:%s", e.Source, e.Tag)
}

func (e ManifestEntry) TargetReference(registryHost string) string {
	return utils.BuildImageReference(registryHost, e.Repository(), e.Tag)
}

func (e ManifestEntry) IsMutableTag() bool {
	return e.Tag == LatestTag
}
