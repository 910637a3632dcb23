package tmpfile

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
)

const timestampLayout = "20060102T150405"

// NotADirectoryError means the scratch path exists but is not a directory.
// No safe scratch space exists in that case, so callers treat it as fatal.
type NotADirectoryError struct {
	Path string
}

func (e *NotADirectoryError) Error() string {
	return fmt.Sprintf("temp base %s exists and is not a directory", e.Path)
}

// Manager writes scratch artifacts under <workspace>/tmp. Concurrent
// writers share the directory; generated filenames are unique at generation
// time, so no locking is taken across writes.
type Manager struct {
	logger *slog.Logger
	now    func() time.Time
}

func NewManager(logger *slog.Logger) *Manager {
	if logger == nil {
		logger = slog.Default()
	}
	return &Manager{logger: logger, now: time.Now}
}

// EnsureBaseDir creates (or reuses) the scratch directory for a workspace.
func (m *Manager) EnsureBaseDir(workspacePath string) (string, error) {
	base := filepath.Join(workspacePath, "tmp")
	info, err := os.Stat(base)
	switch {
	case err == nil:
		if !info.IsDir() {
			return "", &NotADirectoryError{Path: base}
		}
		return base, nil
	case os.IsNotExist(err):
		if err := os.MkdirAll(base, 0o755); err != nil {
			return "", fmt.Errorf("create temp base: %w", err)
		}
		return base, nil
	default:
		return "", fmt.Errorf("stat temp base: %w", err)
	}
}

type WriteOptions struct {
	Ext           string
	RetentionDays int
}

// Write stores content under a timestamp-qualified unique name of the form
// <hint>_<compact-timestamp>.<ext> and returns the full path. A name
// collision between concurrent writers in the same second is resolved with
// a short random suffix rather than a lock. Each write also triggers a
// best-effort cleanup of stale artifacts.
func (m *Manager) Write(baseDir, nameHint string, content []byte, opts WriteOptions) (string, error) {
	ext := strings.TrimPrefix(opts.Ext, ".")
	if ext == "" {
		ext = "json"
	}
	stamp := m.now().UTC().Format(timestampLayout)
	name := fmt.Sprintf("%s_%s.%s", sanitizeHint(nameHint), stamp, ext)
	path := filepath.Join(baseDir, name)

	file, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o600)
	if os.IsExist(err) {
		name = fmt.Sprintf("%s_%s_%s.%s", sanitizeHint(nameHint), stamp, uuid.NewString()[:8], ext)
		path = filepath.Join(baseDir, name)
		file, err = os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o600)
	}
	if err != nil {
		return "", fmt.Errorf("create temp file: %w", err)
	}
	if _, err := file.Write(content); err != nil {
		file.Close()
		return "", fmt.Errorf("write temp file: %w", err)
	}
	if err := file.Close(); err != nil {
		return "", fmt.Errorf("close temp file: %w", err)
	}

	if opts.RetentionDays > 0 {
		m.CleanupObsolete(baseDir, opts.RetentionDays)
	}
	return path, nil
}

// CleanupObsolete removes entries older than the retention window. Cleanup
// is opportunistic: failures are logged and swallowed so they never block
// the write they accompany.
func (m *Manager) CleanupObsolete(baseDir string, retentionDays int) {
	if retentionDays <= 0 {
		return
	}
	cutoff := m.now().Add(-time.Duration(retentionDays) * 24 * time.Hour)
	entries, err := os.ReadDir(baseDir)
	if err != nil {
		m.logger.Debug("temp cleanup skipped", "dir", baseDir, "error", err)
		return
	}
	for _, entry := range entries {
		info, err := entry.Info()
		if err != nil {
			continue
		}
		if info.ModTime().After(cutoff) {
			continue
		}
		path := filepath.Join(baseDir, entry.Name())
		if err := os.RemoveAll(path); err != nil {
			m.logger.Debug("temp cleanup failed", "path", path, "error", err)
		}
	}
}

func sanitizeHint(hint string) string {
	if hint == "" {
		return "artifact"
	}
	replacer := strings.NewReplacer("/", "-", "\\", "-", " ", "-", "..", "-")
	return replacer.Replace(hint)
}
