package utils

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/google/uuid"

	"github.com/nodewee/scan-archiver/pkg/constants"
	"github.com/nodewee/scan-archiver/pkg/interfaces"
	"github.com/nodewee/scan-archiver/pkg/logger"
)

// SessionWorkspace owns the intermediates of one archiving session.
// Directory structure: {workdir}/scan-archiver-{uuid}/{basename}_{index}.{ext}
type SessionWorkspace struct {
	id       string
	baseName string
	baseDir  string
	files    []string
	mu       sync.Mutex
	logger   *logger.Logger
}

// Ensure SessionWorkspace implements the SessionFileManager interface
var _ interfaces.SessionFileManager = (*SessionWorkspace)(nil)

// NewSessionWorkspace creates a private directory for a session under workDir.
// An empty workDir means the OS temp directory.
func NewSessionWorkspace(workDir, baseName string, log *logger.Logger) (*SessionWorkspace, error) {
	if workDir == "" {
		workDir = os.TempDir()
	}
	id := uuid.NewString()
	ws := &SessionWorkspace{
		id:       id,
		baseName: SanitizeFileName(baseName),
		baseDir:  NormalizePath(filepath.Join(workDir, constants.WorkspaceDirPrefix+id)),
		logger:   log,
	}
	if err := ws.EnsureBaseDir(); err != nil {
		return nil, NewIOError("failed to create session workspace", err).WithContext("path", ws.baseDir)
	}
	log.Debug("Created session workspace: %s", ws.baseDir)
	return ws, nil
}

// ID returns the session-unique identifier
func (ws *SessionWorkspace) ID() string {
	return ws.id
}

// EnsureBaseDir ensures the base directory exists
func (ws *SessionWorkspace) EnsureBaseDir() error {
	return EnsureDir(ws.baseDir)
}

// GetBasePath returns the base path for file operations
func (ws *SessionWorkspace) GetBasePath() string {
	return ws.baseDir
}

// GetPath returns a path under the base directory
func (ws *SessionWorkspace) GetPath(relativePath string) string {
	return NormalizePath(filepath.Join(ws.baseDir, relativePath))
}

// PagePath returns the tracked intermediate path {basename}_{index}{suffix}{ext}
func (ws *SessionWorkspace) PagePath(index int, suffix, ext string) string {
	name := fmt.Sprintf(constants.PageFilePattern, ws.baseName, index) + suffix + ext
	path := ws.GetPath(name)
	ws.Track(path)
	return path
}

// Track registers a file for removal on Cleanup
func (ws *SessionWorkspace) Track(path string) {
	ws.mu.Lock()
	defer ws.mu.Unlock()
	for _, f := range ws.files {
		if f == path {
			return
		}
	}
	ws.files = append(ws.files, path)
}

// TrackedFiles returns a copy of every intermediate registered so far
func (ws *SessionWorkspace) TrackedFiles() []string {
	ws.mu.Lock()
	defer ws.mu.Unlock()
	out := make([]string, len(ws.files))
	copy(out, ws.files)
	return out
}

// Cleanup removes every tracked intermediate and then the workspace directory
func (ws *SessionWorkspace) Cleanup() error {
	ws.mu.Lock()
	defer ws.mu.Unlock()

	var errors []error

	for _, file := range ws.files {
		if err := os.Remove(file); err != nil && !os.IsNotExist(err) {
			errors = append(errors, fmt.Errorf("failed to remove intermediate %s: %w", file, err))
			ws.logger.Warn("Failed to remove intermediate file: %s, error: %v", file, err)
		} else {
			ws.logger.Debug("Removed intermediate file: %s", file)
		}
	}

	if err := os.RemoveAll(ws.baseDir); err != nil && !os.IsNotExist(err) {
		errors = append(errors, fmt.Errorf("failed to remove workspace %s: %w", ws.baseDir, err))
		ws.logger.Warn("Failed to remove session workspace: %s, error: %v", ws.baseDir, err)
	}

	ws.files = ws.files[:0]

	if len(errors) > 0 {
		return fmt.Errorf("cleanup failed with %d errors: %v", len(errors), errors)
	}
	return nil
}
