package tmpfile

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestEnsureBaseDirCreatesAndReuses(t *testing.T) {
	workspace := t.TempDir()
	m := NewManager(nil)
	base, err := m.EnsureBaseDir(workspace)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if base != filepath.Join(workspace, "tmp") {
		t.Fatalf("unexpected base: %s", base)
	}
	again, err := m.EnsureBaseDir(workspace)
	if err != nil || again != base {
		t.Fatalf("expected reuse, got %s %v", again, err)
	}
}

func TestEnsureBaseDirRejectsFile(t *testing.T) {
	workspace := t.TempDir()
	if err := os.WriteFile(filepath.Join(workspace, "tmp"), []byte("x"), 0o600); err != nil {
		t.Fatalf("setup: %v", err)
	}
	m := NewManager(nil)
	_, err := m.EnsureBaseDir(workspace)
	var notDir *NotADirectoryError
	if !errors.As(err, &notDir) {
		t.Fatalf("expected NotADirectoryError, got %v", err)
	}
}

func TestWriteTimestampQualifiedName(t *testing.T) {
	m := NewManager(nil)
	m.now = func() time.Time { return time.Date(2026, 8, 23, 10, 15, 30, 0, time.UTC) }
	base := t.TempDir()
	path, err := m.Write(base, "query-results", []byte(`{"ok":true}`), WriteOptions{Ext: "json"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if filepath.Base(path) != "query-results_20260823T101530.json" {
		t.Fatalf("unexpected name: %s", filepath.Base(path))
	}
	content, err := os.ReadFile(path)
	if err != nil || string(content) != `{"ok":true}` {
		t.Fatalf("unexpected content: %s %v", content, err)
	}
}

func TestWriteCollisionGetsUniqueSuffix(t *testing.T) {
	m := NewManager(nil)
	fixed := time.Date(2026, 8, 23, 10, 15, 30, 0, time.UTC)
	m.now = func() time.Time { return fixed }
	base := t.TempDir()
	first, err := m.Write(base, "export", []byte("a"), WriteOptions{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	second, err := m.Write(base, "export", []byte("b"), WriteOptions{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if first == second {
		t.Fatalf("expected distinct paths for colliding writes")
	}
	if !strings.HasPrefix(filepath.Base(second), "export_20260823T101530_") {
		t.Fatalf("unexpected collision name: %s", filepath.Base(second))
	}
}

func TestCleanupObsoleteRemovesOnlyStaleEntries(t *testing.T) {
	m := NewManager(nil)
	base := t.TempDir()
	stale := filepath.Join(base, "old.json")
	fresh := filepath.Join(base, "new.json")
	if err := os.WriteFile(stale, []byte("old"), 0o600); err != nil {
		t.Fatalf("setup: %v", err)
	}
	if err := os.WriteFile(fresh, []byte("new"), 0o600); err != nil {
		t.Fatalf("setup: %v", err)
	}
	past := time.Now().Add(-10 * 24 * time.Hour)
	if err := os.Chtimes(stale, past, past); err != nil {
		t.Fatalf("setup: %v", err)
	}

	m.CleanupObsolete(base, 7)

	if _, err := os.Stat(stale); !os.IsNotExist(err) {
		t.Fatalf("expected stale entry removed")
	}
	if _, err := os.Stat(fresh); err != nil {
		t.Fatalf("expected fresh entry kept: %v", err)
	}
}

func TestCleanupObsoleteSwallowsErrors(t *testing.T) {
	m := NewManager(nil)
	m.CleanupObsolete("/nonexistent/base", 7)
}

func TestWriteSanitizesHint(t *testing.T) {
	m := NewManager(nil)
	base := t.TempDir()
	path, err := m.Write(base, "../weird name", []byte("x"), WriteOptions{Ext: ".txt"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	name := filepath.Base(path)
	if strings.ContainsAny(name, "/\\ ") || strings.Contains(name, "..") {
		t.Fatalf("hint not sanitized: %s", name)
	}
	if !strings.HasSuffix(name, ".txt") {
		t.Fatalf("extension not applied: %s", name)
	}
}
