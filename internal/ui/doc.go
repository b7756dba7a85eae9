package ui

// Package ui implements the terminal presentation layer: the per-video
// selection prompt and the final batch summary line.
