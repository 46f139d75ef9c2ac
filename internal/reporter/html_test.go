package reporter

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/kevinfinalboss/replicator/internal/logger"
	"github.com/kevinfinalboss/replicator/pkg/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleResult() *types.RunResult {
	return &types.RunResult{
		Total:               3,
		Transferred:         1,
		Skipped:             1,
		RepositoriesCreated: 1,
		Failed:              []string{"library/redis:7.2"},
		Duration:            1500 * time.Millisecond,
		Results: []*types.EntryResult{
			{Index: 1, SourceImage: "library/nginx:1.25", TargetImage: "host/library/nginx:1.25", Action: types.ActionSkipped},
			{Index: 2, SourceImage: "library/redis:7.2", TargetImage: "host/library/redis:7.2", Action: types.ActionFailed,
				Outcome: &types.TransferOutcome{ExitCode: 1, Stderr: "manifest unknown\n"}},
			{Index: 3, SourceImage: "app/api:v2", TargetImage: "host/team/api:v2", Action: types.ActionTransferred, RepositoryCreated: true},
		},
	}
}

func TestHTMLReporter_GenerateReport(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "reports")
	reporter := NewHTMLReporter(dir, logger.NewTest())

	path, err := reporter.GenerateReport(sampleResult(), "123456789012.dkr.ecr.us-east-1.amazonaws.com")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(filepath.Base(path), "replicator-report-"))

	content, err := os.ReadFile(path)
	require.NoError(t, err)

	html := string(content)
	assert.Contains(t, html, "Replication Report")
	assert.Contains(t, html, "library/redis:7.2")
	assert.Contains(t, html, "manifest unknown")
	assert.Contains(t, html, "repository created")
	assert.Contains(t, html, "33.3%")
}

func TestBuildImageStatusList(t *testing.T) {
	statuses := buildImageStatusList(sampleResult())
	require.Len(t, statuses, 3)

	assert.Equal(t, "info", statuses[0].StatusClass)
	assert.Equal(t, "danger", statuses[1].StatusClass)
	assert.Equal(t, "manifest unknown", statuses[1].Detail)
	assert.Equal(t, "success", statuses[2].StatusClass)
}

func TestPlannedStatus(t *testing.T) {
	assert.Equal(t, "Would create repository and transfer", plannedStatus(&types.EntryResult{}))
	assert.Equal(t, "Would skip", plannedStatus(&types.EntryResult{RepositoryExisted: true, ImageExisted: true}))
	assert.Equal(t, "Would transfer", plannedStatus(&types.EntryResult{RepositoryExisted: true}))
}
