package model

// Package model defines domain data structures used across the app: download
// tasks, per-task outcomes, and batch accounting. Structures carry no I/O;
// they only hold the state shared between the engine and the CLI.
