package processing

import "time"

// Metadata describes where an indexed chunk came from.
type Metadata struct {
	Path       string
	Source     string // "local" or "reddit"
	Namespace  string
	ImportedAt time.Time
	Title      string
}
