package workspace

import (
	"os"
	"reflect"
	"testing"
)

func fakeEnv(values map[string]string) func(string) string {
	return func(key string) string { return values[key] }
}

func TestResolveOverrideAndClientRoots(t *testing.T) {
	client := ForClient("vscode", fakeEnv(map[string]string{"WORKSPACE_FOLDER_PATHS": "/c"}))
	paths, err := Resolve("/a,/b", client, os.Getwd)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !reflect.DeepEqual(paths, []string{"/a", "/b", "/c"}) {
		t.Fatalf("unexpected paths: %#v", paths)
	}
}

func TestResolveFallsBackToCwd(t *testing.T) {
	paths, err := Resolve("", noneStrategy{}, func() (string, error) { return "/work", nil })
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !reflect.DeepEqual(paths, []string{"/work"}) {
		t.Fatalf("unexpected paths: %#v", paths)
	}
}

func TestResolveDeduplicatesPreservingOrder(t *testing.T) {
	paths, err := Resolve("/a,/b,/a", noneStrategy{}, os.Getwd)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !reflect.DeepEqual(paths, []string{"/a", "/b"}) {
		t.Fatalf("unexpected paths: %#v", paths)
	}
}

func TestResolveRetainsMissingPaths(t *testing.T) {
	paths, err := Resolve("/definitely/not/on/disk", noneStrategy{}, os.Getwd)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if paths[0] != "/definitely/not/on/disk" {
		t.Fatalf("lexical resolution altered path: %#v", paths)
	}
}

func TestResolveNormalizesRelativeAndURIs(t *testing.T) {
	client := ForClient("cursor", fakeEnv(map[string]string{"WORKSPACE_FOLDER_PATHS": "file:///c"}))
	paths, err := Resolve("", client, os.Getwd)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !reflect.DeepEqual(paths, []string{"/c"}) {
		t.Fatalf("unexpected paths: %#v", paths)
	}
}

func TestForClientFamilies(t *testing.T) {
	env := fakeEnv(map[string]string{"WORKSPACE_FOLDER_PATHS": "/c"})
	if got := ForClient("Visual Studio Code", env).Name(); got != "editor" {
		t.Fatalf("unexpected strategy: %s", got)
	}
	if got := ForClient("some-agent", env).Name(); got != "none" {
		t.Fatalf("unexpected strategy: %s", got)
	}
	if roots := ForClient("some-agent", env).Roots(); roots != nil {
		t.Fatalf("none strategy must contribute no roots: %#v", roots)
	}
}
