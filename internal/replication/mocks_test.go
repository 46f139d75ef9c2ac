package replication

import (
	"context"
	"errors"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/service/ecr"
	ecrTypes "github.com/aws/aws-sdk-go-v2/service/ecr/types"
	"github.com/aws/smithy-go"
	"github.com/kevinfinalboss/replicator/internal/registry"
	"github.com/kevinfinalboss/replicator/pkg/types"
	"github.com/stretchr/testify/mock"
)

const testHost = "123456789012.dkr.ecr.us-east-1.amazonaws.com"

type MockRegistryClient struct {
	mock.Mock
}

func (m *MockRegistryClient) RepositoryExists(ctx context.Context, name string) (bool, error) {
	args := m.Called(ctx, name)
	return args.Bool(0), args.Error(1)
}

func (m *MockRegistryClient) ImageExists(ctx context.Context, repository, tag, digest string) (bool, error) {
	args := m.Called(ctx, repository, tag, digest)
	return args.Bool(0), args.Error(1)
}

func (m *MockRegistryClient) CreateRepository(ctx context.Context, name string) error {
	args := m.Called(ctx, name)
	return args.Error(0)
}

func (m *MockRegistryClient) ApplyResourcePolicy(ctx context.Context, name, policy string) error {
	args := m.Called(ctx, name, policy)
	return args.Error(0)
}

func (m *MockRegistryClient) RegistryHost() string {
	return testHost
}

type MockTransferer struct {
	mock.Mock
}

func (m *MockTransferer) Transfer(ctx context.Context, sourceImage, targetImage string) *types.TransferOutcome {
	args := m.Called(ctx, sourceImage, targetImage)
	return args.Get(0).(*types.TransferOutcome)
}

type MockNotifier struct {
	mock.Mock
}

func (m *MockNotifier) SendRunStart(ctx context.Context, totalImages int, registryHost string, dryRun bool) error {
	args := m.Called(ctx, totalImages, registryHost, dryRun)
	return args.Error(0)
}

func (m *MockNotifier) SendRunComplete(ctx context.Context, result *types.RunResult, registryHost string) error {
	args := m.Called(ctx, result, registryHost)
	return args.Error(0)
}

func (m *MockNotifier) SendError(ctx context.Context, errorMsg, stage string) error {
	args := m.Called(ctx, errorMsg, stage)
	return args.Error(0)
}

type MockReportWriter struct {
	mock.Mock
}

func (m *MockReportWriter) GenerateReport(result *types.RunResult, registryHost string) (string, error) {
	args := m.Called(result, registryHost)
	return args.String(0), args.Error(1)
}

type staticPolicy struct {
	document string
	err      error
}

func (s *staticPolicy) Load() (string, error) {
	return s.document, s.err
}

// fakeRegistry keeps repository and image state across calls so repeated
// runs observe the effects of earlier ones.
type fakeRegistry struct {
	repositories map[string]bool
	images       map[string]bool
	createCalls  map[string]int
	policyCalls  map[string]int
	imageQueries int
	fatal        map[string]error
}

func newFakeRegistry() *fakeRegistry {
	return &fakeRegistry{
		repositories: make(map[string]bool),
		images:       make(map[string]bool),
		createCalls:  make(map[string]int),
		policyCalls:  make(map[string]int),
		fatal:        make(map[string]error),
	}
}

func (f *fakeRegistry) RepositoryExists(ctx context.Context, name string) (bool, error) {
	if err, ok := f.fatal[name]; ok {
		return false, err
	}
	return f.repositories[name], nil
}

func (f *fakeRegistry) ImageExists(ctx context.Context, repository, tag, digest string) (bool, error) {
	f.imageQueries++
	if tag == types.LatestTag {
		return false, nil
	}
	return f.images[repository+":"+tag], nil
}

func (f *fakeRegistry) CreateRepository(ctx context.Context, name string) error {
	f.createCalls[name]++
	f.repositories[name] = true
	return nil
}

func (f *fakeRegistry) ApplyResourcePolicy(ctx context.Context, name, policy string) error {
	f.policyCalls[name]++
	return nil
}

func (f *fakeRegistry) RegistryHost() string {
	return testHost
}

type fakeTransferer struct {
	registry *fakeRegistry
	failing  map[string]bool
	calls    []string
}

func newFakeTransferer(reg *fakeRegistry, failing ...string) *fakeTransferer {
	f := &fakeTransferer{registry: reg, failing: make(map[string]bool)}
	for _, source := range failing {
		f.failing[source] = true
	}
	return f
}

func (f *fakeTransferer) Transfer(ctx context.Context, sourceImage, targetImage string) *types.TransferOutcome {
	f.calls = append(f.calls, sourceImage)
	if f.failing[sourceImage] {
		return &types.TransferOutcome{ExitCode: 1, Stderr: "manifest unknown"}
	}

	var repository, tag string
	trimmed := targetImage[len(testHost)+1:]
	for i := len(trimmed) - 1; i >= 0; i-- {
		if trimmed[i] == ':' {
			repository, tag = trimmed[:i], trimmed[i+1:]
			break
		}
	}
	f.registry.images[repository+":"+tag] = true

	return &types.TransferOutcome{Success: true, Stdout: fmt.Sprintf("pushed %s", targetImage)}
}

func controlPlaneFailure(repository string) error {
	return &registry.ControlPlaneError{
		Op:         "describe-repositories",
		Repository: repository,
		Code:       "ServerException",
		Err:        errors.New("service unavailable"),
	}
}

// deniedPolicyAPI is an ECR API where every repository is missing and
// SetRepositoryPolicy is not authorized.
type deniedPolicyAPI struct {
	created []string
}

func (d *deniedPolicyAPI) DescribeRepositories(ctx context.Context, params *ecr.DescribeRepositoriesInput, optFns ...func(*ecr.Options)) (*ecr.DescribeRepositoriesOutput, error) {
	return nil, &ecrTypes.RepositoryNotFoundException{}
}

func (d *deniedPolicyAPI) DescribeImages(ctx context.Context, params *ecr.DescribeImagesInput, optFns ...func(*ecr.Options)) (*ecr.DescribeImagesOutput, error) {
	return nil, &ecrTypes.ImageNotFoundException{}
}

func (d *deniedPolicyAPI) CreateRepository(ctx context.Context, params *ecr.CreateRepositoryInput, optFns ...func(*ecr.Options)) (*ecr.CreateRepositoryOutput, error) {
	d.created = append(d.created, *params.RepositoryName)
	return &ecr.CreateRepositoryOutput{}, nil
}

func (d *deniedPolicyAPI) SetRepositoryPolicy(ctx context.Context, params *ecr.SetRepositoryPolicyInput, optFns ...func(*ecr.Options)) (*ecr.SetRepositoryPolicyOutput, error) {
	return nil, &smithy.GenericAPIError{Code: "AccessDeniedException", Message: "not authorized"}
}
