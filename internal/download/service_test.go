package download

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/MGT-HRZ/URL-VIDS-EXTRACT/internal/model"
)

var _ Downloader = (*Service)(nil)

func newTestService(t *testing.T, maxParallel int) (*Service, string) {
	t.Helper()
	dir := t.TempDir()
	service := NewService(dir, maxParallel)
	service.SetUserAgent("test-browser/1.0")
	return service, dir
}

func videoHandler(body string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "video/mp4")
		w.Header().Set("Content-Length", strconv.Itoa(len(body)))
		w.Write([]byte(body))
	}
}

func TestNewService(t *testing.T) {
	service := NewService("/tmp", 2)

	if service.downloadDir != "/tmp" {
		t.Errorf("Expected downloadDir to be '/tmp', got '%s'", service.downloadDir)
	}

	if service.maxParallel != 2 {
		t.Errorf("Expected maxParallel to be 2, got %d", service.maxParallel)
	}

	if service.chunkSize != 1024 {
		t.Errorf("Expected default chunk size 1024, got %d", service.chunkSize)
	}
}

func TestDownloadAll_Success(t *testing.T) {
	server := httptest.NewServer(videoHandler("fake video bytes"))
	defer server.Close()

	service, dir := newTestService(t, 2)

	summary, err := service.DownloadAll(context.Background(), []string{server.URL + "/clip.mp4"})
	if err != nil {
		t.Fatalf("DownloadAll failed: %v", err)
	}

	if summary.Succeeded != 1 {
		t.Fatalf("Expected 1 success, got %+v", summary)
	}

	data, err := os.ReadFile(filepath.Join(dir, "clip.mp4"))
	if err != nil {
		t.Fatalf("Expected clip.mp4 on disk: %v", err)
	}
	if string(data) != "fake video bytes" {
		t.Errorf("Downloaded content mismatch: %q", data)
	}
}

func TestDownloadAll_QueryParamFilename(t *testing.T) {
	server := httptest.NewServer(videoHandler("payload"))
	defer server.Close()

	service, dir := newTestService(t, 1)

	url := server.URL + "/get?f=named.mp4&id=9"
	summary, err := service.DownloadAll(context.Background(), []string{url})
	if err != nil {
		t.Fatalf("DownloadAll failed: %v", err)
	}
	if summary.Succeeded != 1 {
		t.Fatalf("Expected 1 success, got %+v", summary)
	}

	if _, err := os.Stat(filepath.Join(dir, "named.mp4")); err != nil {
		t.Errorf("Expected named.mp4 from f query parameter: %v", err)
	}
}

func TestDownloadAll_NonVideoSkipped(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		w.Write([]byte("<html>not a video</html>"))
	}))
	defer server.Close()

	service, dir := newTestService(t, 1)

	var result model.DownloadResult
	service.SetResultCallback(func(r model.DownloadResult) { result = r })

	summary, err := service.DownloadAll(context.Background(), []string{server.URL + "/page.mp4"})
	if err != nil {
		t.Fatalf("DownloadAll failed: %v", err)
	}

	if summary.Skipped != 1 || summary.Succeeded != 0 {
		t.Fatalf("Expected 1 skipped, got %+v", summary)
	}
	if result.Outcome != model.OutcomeSkippedNotVideo {
		t.Errorf("Expected SkippedNotVideo outcome, got %s", result.Outcome)
	}
	if result.BytesWritten != 0 {
		t.Errorf("Expected zero bytes written, got %d", result.BytesWritten)
	}

	// Nothing may be written to disk for a skipped task
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("Failed to read download dir: %v", err)
	}
	if len(entries) != 0 {
		t.Errorf("Expected empty download dir after skip, found %d entries", len(entries))
	}
}

func TestDownloadAll_BoundedConcurrency(t *testing.T) {
	var current, peak int64
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		now := atomic.AddInt64(&current, 1)
		for {
			old := atomic.LoadInt64(&peak)
			if now <= old || atomic.CompareAndSwapInt64(&peak, old, now) {
				break
			}
		}
		time.Sleep(30 * time.Millisecond)
		atomic.AddInt64(&current, -1)

		w.Header().Set("Content-Type", "video/mp4")
		w.Write([]byte("x"))
	}))
	defer server.Close()

	service, _ := newTestService(t, 5)

	urls := make([]string, 20)
	for i := range urls {
		urls[i] = fmt.Sprintf("%s/clip%d.mp4", server.URL, i)
	}

	summary, err := service.DownloadAll(context.Background(), urls)
	if err != nil {
		t.Fatalf("DownloadAll failed: %v", err)
	}

	if summary.Succeeded != 20 {
		t.Fatalf("Expected 20 successes, got %+v", summary)
	}
	if peak > 5 {
		t.Errorf("Observed %d concurrent requests, limit is 5", peak)
	}
}

func TestDownloadAll_FailureIsolation(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if strings.Contains(r.URL.Path, "broken") {
			http.Error(w, "boom", http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "video/mp4")
		w.Write([]byte("ok"))
	}))
	defer server.Close()

	service, _ := newTestService(t, 3)

	urls := make([]string, 0, 10)
	for i := 0; i < 10; i++ {
		if i == 2 {
			urls = append(urls, fmt.Sprintf("%s/broken%d.mp4", server.URL, i))
			continue
		}
		urls = append(urls, fmt.Sprintf("%s/clip%d.mp4", server.URL, i))
	}

	summary, err := service.DownloadAll(context.Background(), urls)
	if err != nil {
		t.Fatalf("DownloadAll failed: %v", err)
	}

	if summary.Succeeded != 9 {
		t.Errorf("Expected 9 successes despite one failure, got %d", summary.Succeeded)
	}
	if summary.Failed != 1 {
		t.Errorf("Expected 1 failure, got %d", summary.Failed)
	}
	if summary.Attempted() != len(urls) {
		t.Errorf("Expected all %d tasks attempted, got %d", len(urls), summary.Attempted())
	}
}

func TestDownloadAll_SummaryCoversEveryTask(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case strings.Contains(r.URL.Path, "html"):
			w.Header().Set("Content-Type", "text/html")
			w.Write([]byte("nope"))
		case strings.Contains(r.URL.Path, "missing"):
			http.NotFound(w, r)
		default:
			w.Header().Set("Content-Type", "video/mp4")
			w.Write([]byte("ok"))
		}
	}))
	defer server.Close()

	service, _ := newTestService(t, 4)

	urls := []string{
		server.URL + "/a.mp4",
		server.URL + "/html.mp4",
		server.URL + "/missing.mp4",
		server.URL + "/b.mp4",
	}

	summary, err := service.DownloadAll(context.Background(), urls)
	if err != nil {
		t.Fatalf("DownloadAll failed: %v", err)
	}

	if summary.Total != 4 || summary.Attempted() != 4 {
		t.Fatalf("Expected 4 attempted of 4 total, got %+v", summary)
	}
	if summary.Succeeded != 2 || summary.Skipped != 1 || summary.Failed != 1 {
		t.Errorf("Unexpected outcome distribution: %+v", summary)
	}
}

func TestDownloadAll_DuplicateHintsGetDistinctNames(t *testing.T) {
	server := httptest.NewServer(videoHandler("same name"))
	defer server.Close()

	service, dir := newTestService(t, 4)

	urls := make([]string, 5)
	for i := range urls {
		// Different query IDs, identical filename hint
		urls[i] = fmt.Sprintf("%s/get?f=video.mp4&id=%d", server.URL, i)
	}

	summary, err := service.DownloadAll(context.Background(), urls)
	if err != nil {
		t.Fatalf("DownloadAll failed: %v", err)
	}
	if summary.Succeeded != 5 {
		t.Fatalf("Expected 5 successes, got %+v", summary)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("Failed to read download dir: %v", err)
	}
	if len(entries) != 5 {
		t.Errorf("Expected 5 distinct files, got %d", len(entries))
	}
}

func TestDownloadAll_NoWorkers(t *testing.T) {
	service := NewService(t.TempDir(), 0)

	_, err := service.DownloadAll(context.Background(), []string{"http://example.com/a.mp4"})
	if err == nil {
		t.Fatal("Expected configuration error for zero workers, got nil")
	}
}

func TestDownloadAll_EmptyInput(t *testing.T) {
	service, _ := newTestService(t, 2)

	summary, err := service.DownloadAll(context.Background(), nil)
	if err != nil {
		t.Fatalf("DownloadAll failed: %v", err)
	}
	if summary.Total != 0 || !summary.Done() {
		t.Errorf("Expected empty done summary, got %+v", summary)
	}
}

func TestDownloadOne_ReportsProgress(t *testing.T) {
	body := strings.Repeat("v", 4096)
	server := httptest.NewServer(videoHandler(body))
	defer server.Close()

	service, _ := newTestService(t, 1)
	service.SetChunkSize(512)

	reporter := &recordingReporter{}
	service.SetReporter(reporter)

	result := service.downloadOne(context.Background(), model.NewTask(server.URL+"/big.mp4", service.downloadDir))

	if result.Outcome != model.OutcomeSuccess {
		t.Fatalf("Expected success, got %s (%v)", result.Outcome, result.Err)
	}
	if result.BytesWritten != int64(len(body)) {
		t.Errorf("Expected %d bytes written, got %d", len(body), result.BytesWritten)
	}

	reporter.mu.Lock()
	defer reporter.mu.Unlock()
	if reporter.name != "big.mp4" {
		t.Errorf("Expected progress keyed by filename, got %q", reporter.name)
	}
	if reporter.total != int64(len(body)) {
		t.Errorf("Expected declared total %d, got %d", len(body), reporter.total)
	}
	if reporter.received != int64(len(body)) {
		t.Errorf("Expected %d progress bytes, got %d", len(body), reporter.received)
	}
}

func TestDownloadOne_TransportError(t *testing.T) {
	service, _ := newTestService(t, 1)

	// Closed server to force a connection error
	server := httptest.NewServer(videoHandler("x"))
	url := server.URL + "/clip.mp4"
	server.Close()

	result := service.downloadOne(context.Background(), model.NewTask(url, service.downloadDir))
	if result.Outcome != model.OutcomeFailed {
		t.Errorf("Expected Failed outcome, got %s", result.Outcome)
	}
	if result.Err == nil {
		t.Error("Expected error on transport failure")
	}
}

// recordingReporter captures the progress stream for assertions
type recordingReporter struct {
	mu       sync.Mutex
	name     string
	total    int64
	received int64
}

func (r *recordingReporter) Start(name string, total int64) io.WriteCloser {
	r.mu.Lock()
	r.name = name
	r.total = total
	r.mu.Unlock()
	return recordingSink{r}
}

type recordingSink struct {
	reporter *recordingReporter
}

func (s recordingSink) Write(p []byte) (int, error) {
	s.reporter.mu.Lock()
	s.reporter.received += int64(len(p))
	s.reporter.mu.Unlock()
	return len(p), nil
}

func (s recordingSink) Close() error { return nil }
