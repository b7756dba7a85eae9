package download

// Package download implements the core download pipeline: a single-item
// streaming downloader with content-type validation and per-file progress,
// and a batch coordinator that fans tasks out over a bounded worker pool and
// aggregates their outcomes.
