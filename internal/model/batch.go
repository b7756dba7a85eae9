package model

import (
	"fmt"
)

// BatchSummary accumulates per-task results into aggregate counts. Total is
// fixed at construction to the length of the input task list; the recorded
// counts can never exceed it.
type BatchSummary struct {
	Total     int
	Succeeded int
	Skipped   int
	Failed    int
}

// NewBatchSummary creates a summary for a batch of total tasks
func NewBatchSummary(total int) *BatchSummary {
	return &BatchSummary{Total: total}
}

// Record tallies one terminal result. Non-terminal outcomes are ignored.
func (b *BatchSummary) Record(result DownloadResult) {
	switch result.Outcome {
	case OutcomeSuccess:
		b.Succeeded++
	case OutcomeSkippedNotVideo:
		b.Skipped++
	case OutcomeFailed:
		b.Failed++
	}
}

// Attempted returns how many tasks have reached a terminal outcome
func (b *BatchSummary) Attempted() int {
	return b.Succeeded + b.Skipped + b.Failed
}

// Done returns true once every task in the batch has a terminal outcome
func (b *BatchSummary) Done() bool {
	return b.Attempted() >= b.Total
}

// String renders the summary in the "(succeeded/total)" console format
func (b *BatchSummary) String() string {
	return fmt.Sprintf("(%d/%d)", b.Succeeded, b.Total)
}
