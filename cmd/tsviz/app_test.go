// # cmd/tsviz/app_test.go
package main

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/deziev/tsviz/internal/config"
)

func TestApp(t *testing.T) {
	tmpDir, _ := os.MkdirTemp("", "apptest")
	defer os.RemoveAll(tmpDir)

	src := `
import { Base } from "./base";

export class Widget extends Base {
    private title: string;
    static defaults: Config;
    render(): void {}
}
`
	os.WriteFile(filepath.Join(tmpDir, "widget.ts"), []byte(src), 0644)
	os.WriteFile(filepath.Join(tmpDir, "notes.md"), []byte("ignore me"), 0644)

	cfg := &config.Config{
		Paths: []string{tmpDir},
		Output: config.Output{
			PlantUML: filepath.Join(tmpDir, "classes.puml"),
			TSV:      filepath.Join(tmpDir, "classes.tsv"),
		},
		History: config.History{
			Path: filepath.Join(tmpDir, "history.db"),
		},
	}

	app, err := NewApp(cfg)
	if err != nil {
		t.Fatal(err)
	}
	defer app.Close()

	if err := app.InitialScan(context.Background()); err != nil {
		t.Fatal(err)
	}

	if len(app.sortedModules()) != 1 {
		t.Errorf("Expected 1 file model, got %d", len(app.sortedModules()))
	}

	counts := app.countEntities()
	if counts.Classes != 1 {
		t.Errorf("Expected 1 class, got %d", counts.Classes)
	}
	if counts.Properties != 2 || counts.Methods != 1 {
		t.Errorf("Unexpected member counts: %+v", counts)
	}
	if counts.Imports != 1 {
		t.Errorf("Expected 1 imported module, got %d", counts.Imports)
	}

	data, err := os.ReadFile(cfg.Output.PlantUML)
	if err != nil {
		t.Fatal("PlantUML file was not generated")
	}
	if !strings.Contains(string(data), "widget.Widget") {
		t.Errorf("PlantUML output missing class: %s", data)
	}
	if _, err := os.Stat(cfg.Output.TSV); os.IsNotExist(err) {
		t.Error("TSV file was not generated")
	}

	// Re-processing a changed file should not crash or duplicate models.
	app.HandleChanges([]string{filepath.Join(tmpDir, "widget.ts")})
	if len(app.sortedModules()) != 1 {
		t.Errorf("Expected 1 file model after change, got %d", len(app.sortedModules()))
	}

	// Removal drops the model.
	os.Remove(filepath.Join(tmpDir, "widget.ts"))
	app.HandleChanges([]string{filepath.Join(tmpDir, "widget.ts")})
	if len(app.sortedModules()) != 0 {
		t.Errorf("Expected 0 file models after removal, got %d", len(app.sortedModules()))
	}
}

func TestApp_ScanDirectoriesHonorsExcludes(t *testing.T) {
	tmpDir, _ := os.MkdirTemp("", "appscan")
	defer os.RemoveAll(tmpDir)

	os.MkdirAll(filepath.Join(tmpDir, "node_modules"), 0755)
	os.WriteFile(filepath.Join(tmpDir, "app.ts"), []byte("class App {}"), 0644)
	os.WriteFile(filepath.Join(tmpDir, "types.d.ts"), []byte("declare class T {}"), 0644)
	os.WriteFile(filepath.Join(tmpDir, "node_modules", "dep.ts"), []byte("class Dep {}"), 0644)

	cfg := config.Default()
	cfg.Paths = []string{tmpDir}
	cfg.Output = config.Output{}
	cfg.Exclude.Files = []string{"*.d.ts"}

	app, err := NewApp(cfg)
	if err != nil {
		t.Fatal(err)
	}
	defer app.Close()

	files, err := app.ScanDirectories(cfg.Paths, cfg.Exclude.Dirs, cfg.Exclude.Files)
	if err != nil {
		t.Fatal(err)
	}
	if len(files) != 1 || filepath.Base(files[0]) != "app.ts" {
		t.Errorf("Unexpected scan result: %v", files)
	}
}

func TestApp_HistoryRecordsRuns(t *testing.T) {
	tmpDir, _ := os.MkdirTemp("", "apphistory")
	defer os.RemoveAll(tmpDir)

	os.WriteFile(filepath.Join(tmpDir, "app.ts"), []byte("class App { run(): void {} }"), 0644)

	cfg := config.Default()
	cfg.Paths = []string{tmpDir}
	cfg.Output = config.Output{}
	cfg.History.Path = filepath.Join(tmpDir, "history.db")

	app, err := NewApp(cfg)
	if err != nil {
		t.Fatal(err)
	}
	defer app.Close()

	if err := app.InitialScan(context.Background()); err != nil {
		t.Fatal(err)
	}

	runs, err := app.store.LoadRuns("default", time.Time{})
	if err != nil {
		t.Fatal(err)
	}
	if len(runs) != 1 {
		t.Fatalf("Expected 1 recorded run, got %d", len(runs))
	}
	if runs[0].ClassCount != 1 || runs[0].MethodCount != 1 {
		t.Errorf("Unexpected run counts: %+v", runs[0])
	}

	stats, err := app.store.LoadFileStats(runs[0].ID)
	if err != nil {
		t.Fatal(err)
	}
	if len(stats) != 1 || stats[0].Language != "typescript" {
		t.Errorf("Unexpected file stats: %+v", stats)
	}
}
