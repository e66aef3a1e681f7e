// # internal/watcher/watcher_test.go
package watcher

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestWatcher(t *testing.T) {
	tmpDir, _ := os.MkdirTemp("", "watchertest")
	defer os.RemoveAll(tmpDir)

	changedFiles := make(chan []string, 1)
	w, err := New(100*time.Millisecond, []string{"node_modules"}, []string{"*.d.ts"}, func(paths []string) {
		changedFiles <- paths
	})
	if err != nil {
		t.Fatal(err)
	}
	defer w.Close()

	err = w.Watch([]string{tmpDir})
	if err != nil {
		t.Fatal(err)
	}

	// Create a source file
	testFile := filepath.Join(tmpDir, "app.ts")
	os.WriteFile(testFile, []byte("class App {}"), 0644)

	select {
	case paths := <-changedFiles:
		found := false
		for _, p := range paths {
			if p == testFile {
				found = true
				break
			}
		}
		if !found {
			t.Errorf("Expected to find %s in changed files %v", testFile, paths)
		}
	case <-time.After(2 * time.Second):
		t.Error("Timed out waiting for file change event")
	}

	// Declaration files and non-TypeScript files stay silent.
	os.WriteFile(filepath.Join(tmpDir, "types.d.ts"), []byte("declare class T {}"), 0644)
	os.WriteFile(filepath.Join(tmpDir, "notes.md"), []byte("notes"), 0644)

	select {
	case paths := <-changedFiles:
		for _, p := range paths {
			base := filepath.Base(p)
			if base == "types.d.ts" || base == "notes.md" {
				t.Errorf("Irrelevant file triggered event: %s", base)
			}
		}
	case <-time.After(500 * time.Millisecond):
		// Expected
	}

	// New directory should be recursively watched after create.
	subdir := filepath.Join(tmpDir, "newdir")
	if err := os.MkdirAll(subdir, 0755); err != nil {
		t.Fatal(err)
	}
	subFile := filepath.Join(subdir, "nested.ts")
	if err := os.WriteFile(subFile, []byte("class Nested {}"), 0644); err != nil {
		t.Fatal(err)
	}

	foundNested := false
	timeout := time.After(2 * time.Second)
	for !foundNested {
		select {
		case paths := <-changedFiles:
			for _, p := range paths {
				if p == subFile {
					foundNested = true
					break
				}
			}
		case <-timeout:
			t.Fatal("timed out waiting for nested file event in newly created directory")
		}
	}
}

func TestWatcherExcludedDir(t *testing.T) {
	tmpDir, _ := os.MkdirTemp("", "watchertest")
	defer os.RemoveAll(tmpDir)

	skipped := filepath.Join(tmpDir, "node_modules")
	if err := os.MkdirAll(skipped, 0755); err != nil {
		t.Fatal(err)
	}

	changedFiles := make(chan []string, 1)
	w, err := New(100*time.Millisecond, []string{"node_modules"}, nil, func(paths []string) {
		changedFiles <- paths
	})
	if err != nil {
		t.Fatal(err)
	}
	defer w.Close()

	if err := w.Watch([]string{tmpDir}); err != nil {
		t.Fatal(err)
	}

	os.WriteFile(filepath.Join(skipped, "dep.ts"), []byte("class Dep {}"), 0644)

	select {
	case paths := <-changedFiles:
		t.Errorf("Excluded directory triggered event: %v", paths)
	case <-time.After(500 * time.Millisecond):
		// Expected
	}
}
