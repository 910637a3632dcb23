package workspace

import (
	"fmt"
	"path/filepath"
	"strings"
)

// ClientStrategy supplies workspace roots declared by a connected client
// family. One implementation exists per family; the strategy is selected
// once at startup from the declared client identity.
type ClientStrategy interface {
	Name() string
	Roots() []string
}

// editorStrategy covers VS Code-descended editors, which hand their open
// workspace folders to launched servers through WORKSPACE_FOLDER_PATHS.
type editorStrategy struct {
	getenv func(string) string
}

func (s editorStrategy) Name() string { return "editor" }

func (s editorStrategy) Roots() []string {
	raw := s.getenv("WORKSPACE_FOLDER_PATHS")
	if raw == "" {
		return nil
	}
	var roots []string
	for _, part := range strings.Split(raw, ",") {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			roots = append(roots, trimmed)
		}
	}
	return roots
}

// noneStrategy is the fallback for clients that declare no roots channel.
type noneStrategy struct{}

func (noneStrategy) Name() string    { return "none" }
func (noneStrategy) Roots() []string { return nil }

// ForClient picks the strategy for a declared client name.
func ForClient(name string, getenv func(string) string) ClientStrategy {
	lower := strings.ToLower(name)
	for _, family := range []string{"vscode", "visual studio code", "cursor", "windsurf", "code"} {
		if strings.Contains(lower, family) {
			return editorStrategy{getenv: getenv}
		}
	}
	return noneStrategy{}
}

// Resolve merges workspace roots from all matching sources in priority
// order: explicit override, client-declared roots, then the process working
// directory. Paths are normalized lexically; existence is not checked, so a
// path that is missing on disk is retained and reported by tools at use
// time. The result is never empty.
func Resolve(override string, client ClientStrategy, cwd func() (string, error)) ([]string, error) {
	var candidates []string
	if override != "" {
		for _, part := range strings.Split(override, ",") {
			if trimmed := strings.TrimSpace(part); trimmed != "" {
				candidates = append(candidates, trimmed)
			}
		}
	}
	if client != nil {
		candidates = append(candidates, client.Roots()...)
	}
	if len(candidates) == 0 {
		dir, err := cwd()
		if err != nil {
			return nil, fmt.Errorf("resolve working directory: %w", err)
		}
		candidates = append(candidates, dir)
	}

	seen := map[string]struct{}{}
	var resolved []string
	for _, candidate := range candidates {
		abs, err := filepath.Abs(normalize(candidate))
		if err != nil {
			return nil, fmt.Errorf("normalize workspace path %q: %w", candidate, err)
		}
		if _, dup := seen[abs]; dup {
			continue
		}
		seen[abs] = struct{}{}
		resolved = append(resolved, abs)
	}
	return resolved, nil
}

// normalize strips a file URI scheme, which editor clients use for roots.
func normalize(path string) string {
	if strings.HasPrefix(path, "file://") {
		return strings.TrimPrefix(path, "file://")
	}
	return path
}
