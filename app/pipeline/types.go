package pipeline

type Status string

const (
	StatusProcessed Status = "processed"
	StatusFailed    Status = "failed"
	StatusSkipped   Status = "skipped"
)

// FailureKind classifies why an item failed. Generation and validation
// failures quarantine the source; the rest leave it in place for retry.
type FailureKind string

const (
	FailureNone        FailureKind = ""
	FailureNotFound    FailureKind = "not_found"
	FailureMissingData FailureKind = "missing_data"
	FailureGeneration  FailureKind = "generation"
	FailureValidation  FailureKind = "validation"
	FailureStorage     FailureKind = "storage"
)

// Result is the outcome of processing a single corpus item.
type Result struct {
	ID       string
	Status   Status
	Filename string
	Kind     FailureKind
	Err      error
}

// Summary tallies one batch run.
type Summary struct {
	Processed int
	Failed    int
	Skipped   int
}

func (s Summary) Total() int {
	return s.Processed + s.Failed + s.Skipped
}
