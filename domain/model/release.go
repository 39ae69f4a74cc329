package model

import "time"

// Release records one rendered manifest of a workload.
type Release struct {
	ID        string
	Workload  string
	Namespace string
	Hash      string // short hash of Manifest
	Manifest  string
	CreatedAt time.Time
}
