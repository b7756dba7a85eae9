package download

import (
	"context"
	"io"

	"github.com/MGT-HRZ/URL-VIDS-EXTRACT/internal/model"
)

// Downloader defines the interface for the batch download engine.
type Downloader interface {
	DownloadAll(ctx context.Context, urls []string) (*model.BatchSummary, error)
	SetResultCallback(func(model.DownloadResult))
	SetMaxParallelDownloads(max int)
	SetChunkSize(bytes int)
	SetUserAgent(agent string)
	SetReporter(reporter Reporter)
}

// Reporter creates per-file progress sinks. Start is called once a download's
// response headers have arrived; total is the declared Content-Length, or a
// non-positive value when the size is unknown. Every body chunk is written to
// the returned sink, which is closed when the transfer ends.
type Reporter interface {
	Start(name string, total int64) io.WriteCloser
}
