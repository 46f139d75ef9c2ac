package types

import "time"

type TransferOutcome struct {
	Success  bool
	ExitCode int
	Stdout   string
	Stderr   string
	Duration time.Duration
	Err      error
}

type EntryAction string

const (
	ActionTransferred EntryAction = "transferred"
	ActionSkipped     EntryAction = "skipped"
	ActionFailed      EntryAction = "failed"
	ActionAborted     EntryAction = "aborted"
	ActionPlanned     EntryAction = "planned"
)

type EntryResult struct {
	Entry             ManifestEntry
	Index             int
	SourceImage       string
	TargetImage       string
	Repository        string
	RepositoryExisted bool
	RepositoryCreated bool
	PolicyApplied     bool
	ImageExisted      bool
	Transferred       bool
	Action            EntryAction
	Outcome           *TransferOutcome
	Error             error
}

// RunResult accumulates the outcome of one batch run. Failed keeps the exact
// source references of failed transfers in manifest order.
type RunResult struct {
	Total               int
	Transferred         int
	Skipped             int
	RepositoriesCreated int
	Failed              []string
	Aborted             []string
	Results             []*EntryResult
	DryRun              bool
	StartedAt           time.Time
	Duration            time.Duration
}

func (r *RunResult) HasFailures() bool {
	return len(r.Failed) > 0 || len(r.Aborted) > 0
}

func (r *RunResult) FailureCount() int {
	return len(r.Failed) + len(r.Aborted)
}
