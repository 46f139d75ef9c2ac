package utils

import (
	"fmt"

	"github.com/google/go-containerregistry/pkg/name"
)

var publicRegistries = []string{
	"docker.io",
	"registry.hub.docker.com",
	"quay.io",
	"gcr.io",
	"registry.k8s.io",
	"k8s.gcr.io",
	"ghcr.io",
	"public.ecr.aws",
	"mcr.microsoft.com",
	"index.docker.io",
	"registry-1.docker.io",
}

func IsPublicRegistry(registry string) bool {
	for _, pubReg := range publicRegistries {
		if registry == pubReg {
			return true
		}
	}

	return false
}

// ExtractRegistry returns the registry host of a repository path, resolving
// unqualified paths to Docker Hub. Invalid paths yield an empty string.
func ExtractRegistry(repository string) string {
	repo, err := name.NewRepository(repository)
	if err != nil {
		return ""
	}
	return repo.RegistryStr()
}

func BuildImageReference(registry, repository, tag string) string {
	if registry == "" {
		return fmt.Sprintf("%s:%s", repository, tag)
	}
	return fmt.Sprintf("%s/%s:%s", registry, repository, tag)
}
