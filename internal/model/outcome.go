package model

// Outcome represents the terminal outcome of a download task
type Outcome string

const (
	// OutcomePending means the task has not reached a terminal state yet
	OutcomePending Outcome = "Pending"

	// OutcomeSuccess means the resource was fully streamed to disk
	OutcomeSuccess Outcome = "Success"

	// OutcomeSkippedNotVideo means the response was not a video and nothing was written
	OutcomeSkippedNotVideo Outcome = "SkippedNotVideo"

	// OutcomeFailed means a transport, HTTP, or disk error ended the task
	OutcomeFailed Outcome = "Failed"
)

// String returns the string representation of Outcome
func (o Outcome) String() string {
	return string(o)
}

// IsTerminal returns true if the outcome is a final state
func (o Outcome) IsTerminal() bool {
	return o == OutcomeSuccess || o == OutcomeSkippedNotVideo || o == OutcomeFailed
}
