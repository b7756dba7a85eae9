package extract

// Package extract fetches the source web page, discovers linked video
// resources in its anchors, and renders the extracted links as a local
// gallery page for preview.
