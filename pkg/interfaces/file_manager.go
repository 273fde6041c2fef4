package interfaces

// FileManager defines the interface for file and directory management
type FileManager interface {
	// EnsureBaseDir ensures the base directory exists
	EnsureBaseDir() error

	// GetBasePath returns the base path for file operations
	GetBasePath() string

	// GetPath returns a path under the base directory
	GetPath(relativePath string) string

	// Cleanup performs cleanup operations
	Cleanup() error
}

// SessionFileManager manages the per-page intermediates of one session.
// Every path it hands out is removed by Cleanup.
type SessionFileManager interface {
	FileManager

	// PagePath returns the intermediate path for a page, e.g. {base}_{index}.tiff
	PagePath(index int, suffix, ext string) string

	// Track registers an additional file for removal
	Track(path string)

	// TrackedFiles lists every registered intermediate
	TrackedFiles() []string
}
