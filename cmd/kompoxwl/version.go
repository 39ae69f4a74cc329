package main

import "fmt"

// Set via -ldflags "-X main.version=... -X main.commit=... -X main.date=...".
var (
	version = "latest"
	commit  = "unknown"
	date    = "unknown"
)

// longVersion includes the build metadata.
func longVersion() string {
	return fmt.Sprintf("%s (commit %s, built %s)", version, commit, date)
}
