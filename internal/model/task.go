package model

import (
	"github.com/google/uuid"
)

// DownloadTask represents a single download task: one source URL streamed
// into one target directory. Tasks are immutable once created and consumed
// by exactly one worker.
type DownloadTask struct {
	ID        string
	URL       string
	TargetDir string
}

// DownloadResult is the terminal result of a task. Exactly one result is
// produced per task; Err is set only when Outcome is OutcomeFailed.
type DownloadResult struct {
	Task         DownloadTask
	Outcome      Outcome
	Filename     string // resolved on-disk name, empty when nothing was written
	BytesWritten int64
	Err          error
}

// NewTask creates a download task with a unique ID
func NewTask(url, targetDir string) DownloadTask {
	return DownloadTask{
		ID:        "task-" + uuid.NewString(),
		URL:       url,
		TargetDir: targetDir,
	}
}
