package config

// Package config persists user settings in a JSON file next to the binary
// and applies environment overrides on top. Accessors clamp values to sane
// ranges and fall back to defaults when the file is missing or malformed.
