package download

import (
	"fmt"
	"io"

	"github.com/schollz/progressbar/v3"
)

// barReporter renders a byte-scaled terminal progress bar per file
type barReporter struct{}

// NewBarReporter creates the default terminal progress reporter
func NewBarReporter() Reporter {
	return barReporter{}
}

// Start implements Reporter. A non-positive total yields an indeterminate
// spinner instead of a percentage bar.
func (barReporter) Start(name string, total int64) io.WriteCloser {
	if total <= 0 {
		total = -1
	}
	return progressbar.NewOptions64(
		total,
		progressbar.OptionSetDescription(name),
		progressbar.OptionShowBytes(true),
		progressbar.OptionShowCount(),
		progressbar.OptionSetTheme(progressbar.Theme{
			Saucer:        "=",
			SaucerHead:    ">",
			SaucerPadding: " ",
			BarStart:      "[",
			BarEnd:        "]",
		}),
		progressbar.OptionOnCompletion(func() {
			// keep finished bars on their own line
			fmt.Println()
		}),
	)
}

// nopReporter discards all progress updates; used in tests and quiet mode
type nopReporter struct{}

// NewNopReporter creates a reporter that discards all progress updates
func NewNopReporter() Reporter {
	return nopReporter{}
}

func (nopReporter) Start(string, int64) io.WriteCloser {
	return nopSink{}
}

type nopSink struct{}

func (nopSink) Write(p []byte) (int, error) { return len(p), nil }
func (nopSink) Close() error                { return nil }
