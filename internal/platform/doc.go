package platform

// Package platform contains filesystem glue: directory helpers and the
// collision-free filename resolution used by concurrent download workers.
