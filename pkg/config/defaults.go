package config

// Analysis defaults.
const (
	DefaultTimezone      = "Local"
	DefaultSampleFiles   = 10
	DefaultWorkers       = 4
	DefaultTopKeywords   = 10
	DefaultTopExtensions = 5
)

// Batch defaults.
const (
	DefaultParallelism = 4
	DefaultScanDepth   = 3
)

// Log formats.
const (
	FormatText = "text"
	FormatJSON = "json"
)

// DefaultSkipDirs returns the directories repository discovery never enters.
func DefaultSkipDirs() []string {
	return []string{"node_modules", ".next", "dist", "build", ".cache", ".vscode", ".idea", ".git"}
}
