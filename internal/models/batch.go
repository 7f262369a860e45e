package models

type BatchMode string

const (
	BatchModeAny BatchMode = "any"
	BatchModeAll BatchMode = "all"
)

// JobRequest names a catalogue job and its parameters.
type JobRequest struct {
	Job    string
	Params map[string]string
}

// BatchOutcome is the outcome of one task of a batch.
type BatchOutcome struct {
	TaskID string
	State  string
	Result string
	Error  string
}

// BatchResult holds the outcomes of a batch. In "any" mode Winner is the
// index of the first task to finish and only that outcome is set.
type BatchResult struct {
	Mode     BatchMode
	Winner   int
	Outcomes []BatchOutcome
}
