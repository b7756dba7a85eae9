package download

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/MGT-HRZ/URL-VIDS-EXTRACT/internal/model"
	"github.com/MGT-HRZ/URL-VIDS-EXTRACT/internal/platform"
)

// DefaultClientTimeout bounds a whole single-file transfer
const DefaultClientTimeout = 30 * time.Minute

// ErrNoWorkers is returned when the coordinator is configured with a
// non-positive worker count
var ErrNoWorkers = errors.New("download: max parallel downloads must be positive")

// Service handles download operations: it streams single resources to disk
// and coordinates batches of them under a bounded worker pool.
type Service struct {
	client      *http.Client
	downloadDir string
	maxParallel int
	chunkSize   int
	userAgent   string
	reporter    Reporter
	onResult    func(model.DownloadResult) // callback for per-task outcome events
}

// NewService creates a new download service writing into downloadDir with at
// most maxParallel concurrent transfers
func NewService(downloadDir string, maxParallel int) *Service {
	return &Service{
		client:      &http.Client{Timeout: DefaultClientTimeout},
		downloadDir: downloadDir,
		maxParallel: maxParallel,
		chunkSize:   1024,
		reporter:    NewNopReporter(),
	}
}

// SetResultCallback sets the callback invoked once per task with its terminal
// result. The callback may be invoked from concurrent workers.
func (s *Service) SetResultCallback(callback func(model.DownloadResult)) {
	s.onResult = callback
}

// SetMaxParallelDownloads sets the maximum number of parallel downloads
func (s *Service) SetMaxParallelDownloads(max int) {
	s.maxParallel = max
}

// SetChunkSize sets the streaming copy buffer size in bytes
func (s *Service) SetChunkSize(bytes int) {
	if bytes > 0 {
		s.chunkSize = bytes
	}
}

// SetUserAgent sets the User-Agent header sent with every download request
func (s *Service) SetUserAgent(agent string) {
	s.userAgent = agent
}

// SetReporter sets the progress reporter for streamed bytes
func (s *Service) SetReporter(reporter Reporter) {
	if reporter != nil {
		s.reporter = reporter
	}
}

// SetHTTPClient replaces the HTTP client used for downloads
func (s *Service) SetHTTPClient(client *http.Client) {
	if client != nil {
		s.client = client
	}
}

// DownloadAll downloads every URL into the service's download directory,
// overlapping at most maxParallel transfers, and returns the aggregated
// summary once every task has reached a terminal outcome. A failing task
// never cancels its siblings; per-task errors are contained in their results
// and surfaced through the result callback and the log.
func (s *Service) DownloadAll(ctx context.Context, urls []string) (*model.BatchSummary, error) {
	if s.maxParallel <= 0 {
		return nil, ErrNoWorkers
	}
	if err := platform.CreateDirectoryIfNotExists(s.downloadDir); err != nil {
		return nil, fmt.Errorf("failed to ensure download dir: %w", err)
	}

	tasks := make([]model.DownloadTask, 0, len(urls))
	for _, url := range urls {
		tasks = append(tasks, model.NewTask(url, s.downloadDir))
	}

	summary := model.NewBatchSummary(len(tasks))
	var mu sync.Mutex

	g := new(errgroup.Group)
	g.SetLimit(s.maxParallel)

	for _, task := range tasks {
		task := task
		g.Go(func() error {
			result := s.downloadOne(ctx, task)

			mu.Lock()
			summary.Record(result)
			mu.Unlock()

			s.logResult(result)
			if s.onResult != nil {
				s.onResult(result)
			}
			// Failures stay inside the result so sibling tasks keep running.
			return nil
		})
	}

	// Workers never return errors; Wait only blocks until the pool drains.
	_ = g.Wait()
	return summary, nil
}

// downloadOne streams a single resource to disk and returns its terminal
// result. The Content-Type gate runs after headers arrive and before any
// bytes are written; a failure mid-stream leaves the partial file on disk.
func (s *Service) downloadOne(ctx context.Context, task model.DownloadTask) model.DownloadResult {
	result := model.DownloadResult{Task: task, Outcome: model.OutcomeFailed}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, task.URL, nil)
	if err != nil {
		result.Err = fmt.Errorf("failed to create request: %w", err)
		return result
	}
	if s.userAgent != "" {
		req.Header.Set("User-Agent", s.userAgent)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		result.Err = fmt.Errorf("fetch failed: %w", err)
		return result
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		result.Err = fmt.Errorf("fetch failed: unexpected status %s", resp.Status)
		return result
	}

	if !strings.Contains(resp.Header.Get("Content-Type"), "video") {
		result.Outcome = model.OutcomeSkippedNotVideo
		return result
	}

	file, name, err := platform.Reserve(task.TargetDir, platform.NameFromURL(task.URL))
	if err != nil {
		result.Err = fmt.Errorf("failed to reserve filename: %w", err)
		return result
	}
	defer file.Close()
	result.Filename = name

	sink := s.reporter.Start(name, resp.ContentLength)
	defer sink.Close()

	buf := make([]byte, s.chunkSize)
	written, err := io.CopyBuffer(io.MultiWriter(file, sink), resp.Body, buf)
	result.BytesWritten = written
	if err != nil {
		result.Err = fmt.Errorf("write failed after %d bytes: %w", written, err)
		return result
	}

	result.Outcome = model.OutcomeSuccess
	return result
}

// logResult emits one outcome line per task
func (s *Service) logResult(result model.DownloadResult) {
	switch result.Outcome {
	case model.OutcomeSuccess:
		log.Printf("saved %s (%d bytes) from %s", result.Filename, result.BytesWritten, result.Task.URL)
	case model.OutcomeSkippedNotVideo:
		log.Printf("skipping %s (not a video)", result.Task.URL)
	case model.OutcomeFailed:
		log.Printf("download failed for %s: %v", result.Task.URL, result.Err)
	}
}
