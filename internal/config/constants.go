package config

import "time"

// Application constants
const (
	AppName = "Attendancify"

	// DefaultMatchThreshold is the fixed acceptance cutoff for fuzzy name matches
	DefaultMatchThreshold = 85

	// Upload limits (the original web tool accepted up to 100MB per request)
	DefaultMaxUploadBytes = 100 << 20

	// Rate Limiting
	DefaultRateLimit = 20 // requests per second
	DefaultBurstSize = 40

	DefaultOperationTimeout = 10 * time.Minute

	// Request workspaces left behind by aborted requests are swept after this age
	WorkspaceRetention     = time.Hour
	WorkspaceSweepInterval = 10 * time.Minute

	// File Paths (relative to the base directory)
	DefaultDataDir = "data"
	DefaultLogsDir = "logs"

	UploadsDirName = "uploads"
	OutputsDirName = "outputs"
)
