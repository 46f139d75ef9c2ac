package types

type ReportData struct {
	Title          string
	Timestamp      string
	ExecutionMode  string
	RegistryHost   string
	Result         *RunResult
	Statistics     ReportStatistics
	ImagesByStatus []ImageStatus
	HasFailures    bool
}

type ReportStatistics struct {
	TotalImages         int
	Transferred         int
	Skipped             int
	Failed              int
	RepositoriesCreated int
	SuccessRate         float64
	FailureRate         float64
	SkippedRate         float64
	ProcessingTime      string
}

type ImageStatus struct {
	Index       int
	SourceImage string
	TargetImage string
	Repository  string
	Status      string
	StatusClass string
	Detail      string
}
