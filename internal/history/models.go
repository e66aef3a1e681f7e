package history

import "time"

const SchemaVersion = 1

// Run records one extraction pass over a project tree.
type Run struct {
	ID            string
	ProjectKey    string
	Timestamp     time.Time
	Duration      time.Duration
	FileCount     int
	ModuleCount   int
	ClassCount    int
	PropertyCount int
	MethodCount   int
	WarningCount  int
}

// FileStat records per-file entity counts within a run.
type FileStat struct {
	RunID         string
	Path          string
	Language      string
	ClassCount    int
	PropertyCount int
	MethodCount   int
	WarningCount  int
}
