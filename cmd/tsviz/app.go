// # cmd/tsviz/app.go
package main

import (
	"context"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/gobwas/glob"

	"github.com/deziev/tsviz/internal/config"
	"github.com/deziev/tsviz/internal/extract"
	"github.com/deziev/tsviz/internal/history"
	"github.com/deziev/tsviz/internal/model"
	"github.com/deziev/tsviz/internal/output"
	"github.com/deziev/tsviz/internal/parser"
	"github.com/deziev/tsviz/internal/resolver"
	"github.com/deziev/tsviz/internal/shared/observability"
	"github.com/deziev/tsviz/internal/shared/util"
	"github.com/deziev/tsviz/internal/watcher"
)

type App struct {
	Config *config.Config
	Parser *parser.Parser

	store   *history.Store
	limiter *util.Limiter

	mu      sync.Mutex
	files   map[string]*fileResult
	lastRun time.Time
}

// fileResult is the extraction outcome for one source file.
type fileResult struct {
	Module      *model.Module
	Language    string
	Diagnostics []extract.Diagnostic
}

type entityCounts struct {
	Modules    int
	Classes    int
	Properties int
	Methods    int
	Imports    int
}

func NewApp(cfg *config.Config) (*App, error) {
	a := &App{
		Config: cfg,
		Parser: parser.NewParser(parser.NewGrammarLoader()),
		// Watch mode tolerates short bursts but holds rebuilds to one per second.
		limiter: util.NewLimiter(1, 3),
		files:   make(map[string]*fileResult),
	}

	if cfg.History.Path != "" {
		store, err := history.Open(cfg.History.Path)
		if err != nil {
			return nil, err
		}
		a.store = store
	}

	return a, nil
}

func (a *App) Close() error {
	if a.store != nil {
		return a.store.Close()
	}
	return nil
}

func (a *App) InitialScan(ctx context.Context) error {
	ctx, span := observability.Tracer.Start(ctx, "App.InitialScan")
	defer span.End()

	start := time.Now()
	paths, err := a.ScanDirectories(a.Config.Paths, a.Config.Exclude.Dirs, a.Config.Exclude.Files)
	if err != nil {
		return err
	}

	for _, filePath := range paths {
		if err := a.ProcessFile(ctx, filePath); err != nil {
			slog.Warn("failed to process file", "path", filePath, "error", err)
			observability.FilesProcessedTotal.WithLabelValues("error").Inc()
		}
	}

	if err := a.GenerateOutputs(); err != nil {
		slog.Error("failed to generate outputs", "error", err)
	}
	a.finishRun(start, len(paths))
	a.PrintSummary(len(paths), time.Since(start))
	return nil
}

func (a *App) ScanDirectories(paths []string, excludeDirs, excludeFiles []string) ([]string, error) {
	var files []string

	dirGlobs := make([]glob.Glob, 0, len(excludeDirs))
	for _, p := range excludeDirs {
		g, err := glob.Compile(p)
		if err != nil {
			return nil, fmt.Errorf("invalid exclude dir pattern %q: %w", p, err)
		}
		dirGlobs = append(dirGlobs, g)
	}

	fileGlobs := make([]glob.Glob, 0, len(excludeFiles))
	for _, p := range excludeFiles {
		g, err := glob.Compile(p)
		if err != nil {
			return nil, fmt.Errorf("invalid exclude file pattern %q: %w", p, err)
		}
		fileGlobs = append(fileGlobs, g)
	}

	for _, root := range paths {
		err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}

			base := filepath.Base(path)

			if d.IsDir() {
				for _, g := range dirGlobs {
					if g.Match(base) {
						return filepath.SkipDir
					}
				}
				return nil
			}

			if parser.DetectLanguage(path) == "" {
				return nil
			}

			for _, g := range fileGlobs {
				if g.Match(base) {
					return nil
				}
			}

			files = append(files, path)
			return nil
		})
		if err != nil {
			return nil, err
		}
	}

	sort.Strings(files)
	return files, nil
}

func (a *App) ProcessFile(ctx context.Context, path string) error {
	_, span := observability.Tracer.Start(ctx, "App.ProcessFile")
	defer span.End()

	content, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	parseStart := time.Now()
	src, err := a.Parser.ParseFile(path, content)
	if err != nil {
		return err
	}
	defer src.Close()
	observability.ParsingDuration.WithLabelValues(src.Language).Observe(time.Since(parseStart).Seconds())

	file := model.NewFileModule(moduleNameForPath(path), path)
	res := resolver.New(src.Root(), src.Source)
	diags := extract.New(src.Source, res).Extract(src.Root(), file)

	for _, d := range diags {
		slog.Warn("extraction warning", "path", path, "line", d.Line, "column", d.Column, "message", d.Message)
	}
	observability.ExtractionWarningsTotal.Add(float64(len(diags)))
	observability.FilesProcessedTotal.WithLabelValues("ok").Inc()

	a.mu.Lock()
	a.files[path] = &fileResult{
		Module:      file,
		Language:    src.Language,
		Diagnostics: diags,
	}
	a.mu.Unlock()
	return nil
}

// moduleNameForPath names the top-level module after the file,
// without directory or extension.
func moduleNameForPath(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

func (a *App) HandleChanges(paths []string) {
	observability.WatcherEventsTotal.Inc()
	if !a.limiter.Allow(1) {
		if err := a.limiter.Wait(context.Background(), 1); err != nil {
			return
		}
	}

	slog.Info("detected changes", "count", len(paths))
	ctx, span := observability.Tracer.Start(context.Background(), "App.HandleChanges")
	defer span.End()

	start := time.Now()
	for _, path := range paths {
		if _, err := os.Stat(path); os.IsNotExist(err) {
			a.mu.Lock()
			delete(a.files, path)
			a.mu.Unlock()
			continue
		}

		if err := a.ProcessFile(ctx, path); err != nil {
			slog.Warn("failed to re-process file", "path", path, "error", err)
			observability.FilesProcessedTotal.WithLabelValues("error").Inc()
		}
	}

	if err := a.GenerateOutputs(); err != nil {
		slog.Error("failed to generate outputs", "error", err)
	}
	a.finishRun(start, len(paths))
	a.PrintSummary(len(paths), time.Since(start))
}

// sortedModules returns per-file models ordered by path so output is
// stable across runs.
func (a *App) sortedModules() []*model.Module {
	a.mu.Lock()
	defer a.mu.Unlock()

	paths := make([]string, 0, len(a.files))
	for p := range a.files {
		paths = append(paths, p)
	}
	sort.Strings(paths)

	modules := make([]*model.Module, 0, len(paths))
	for _, p := range paths {
		modules = append(modules, a.files[p].Module)
	}
	return modules
}

func (a *App) GenerateOutputs() error {
	modules := a.sortedModules()

	targets := []struct {
		path     string
		generate func([]*model.Module) (string, error)
	}{
		{a.Config.Output.PlantUML, func(m []*model.Module) (string, error) {
			return output.NewPlantUMLGenerator(m).Generate()
		}},
		{a.Config.Output.Mermaid, func(m []*model.Module) (string, error) {
			return output.NewMermaidGenerator(m).Generate()
		}},
		{a.Config.Output.DOT, func(m []*model.Module) (string, error) {
			return output.NewDOTGenerator(m).Generate()
		}},
		{a.Config.Output.TSV, func(m []*model.Module) (string, error) {
			return output.NewTSVGenerator(m).Generate()
		}},
	}

	for _, t := range targets {
		if t.path == "" {
			continue
		}
		content, err := t.generate(modules)
		if err != nil {
			return err
		}
		if err := os.WriteFile(t.path, []byte(content), 0644); err != nil {
			return err
		}
	}

	return nil
}

func (a *App) countEntities() entityCounts {
	var counts entityCounts
	for _, mod := range a.sortedModules() {
		model.Walk(mod, func(e model.Element) {
			switch e.(type) {
			case *model.Module:
				counts.Modules++
			case *model.ImportedModule:
				counts.Imports++
			case *model.Class:
				counts.Classes++
			case *model.Property:
				counts.Properties++
			case *model.Method:
				counts.Methods++
			}
		})
	}
	return counts
}

// finishRun records metrics and, when the store is open, a history row.
func (a *App) finishRun(start time.Time, fileCount int) {
	duration := time.Since(start)
	counts := a.countEntities()

	observability.RunsTotal.Inc()
	observability.RunDuration.Observe(duration.Seconds())
	observability.ModelEntities.WithLabelValues("module").Set(float64(counts.Modules))
	observability.ModelEntities.WithLabelValues("class").Set(float64(counts.Classes))
	observability.ModelEntities.WithLabelValues("property").Set(float64(counts.Properties))
	observability.ModelEntities.WithLabelValues("method").Set(float64(counts.Methods))

	a.mu.Lock()
	a.lastRun = time.Now().UTC()
	warnings := 0
	stats := make([]history.FileStat, 0, len(a.files))
	for path, res := range a.files {
		warnings += len(res.Diagnostics)
		stat := history.FileStat{
			Path:         path,
			Language:     res.Language,
			WarningCount: len(res.Diagnostics),
		}
		model.Walk(res.Module, func(e model.Element) {
			switch e.(type) {
			case *model.Class:
				stat.ClassCount++
			case *model.Property:
				stat.PropertyCount++
			case *model.Method:
				stat.MethodCount++
			}
		})
		stats = append(stats, stat)
	}
	a.mu.Unlock()

	if a.store == nil {
		return
	}
	sort.Slice(stats, func(i, j int) bool { return stats[i].Path < stats[j].Path })
	run := history.Run{
		Duration:      duration,
		FileCount:     fileCount,
		ModuleCount:   counts.Modules,
		ClassCount:    counts.Classes,
		PropertyCount: counts.Properties,
		MethodCount:   counts.Methods,
		WarningCount:  warnings,
	}
	if _, err := a.store.SaveRun(run, stats); err != nil {
		slog.Error("failed to save run history", "error", err)
	}
}

func (a *App) PrintSummary(fileCount int, duration time.Duration) {
	counts := a.countEntities()
	warnings := 0
	a.mu.Lock()
	for _, res := range a.files {
		warnings += len(res.Diagnostics)
	}
	a.mu.Unlock()

	fmt.Println(strings.Repeat("-", 40))
	fmt.Printf("Update: %d files in %v\n", fileCount, duration.Round(time.Millisecond))
	fmt.Printf("Model: %d modules, %d imports, %d classes, %d properties, %d methods\n",
		counts.Modules, counts.Imports, counts.Classes, counts.Properties, counts.Methods)
	if warnings > 0 {
		fmt.Printf("⚠️  %d extraction warnings (see log)\n", warnings)
	} else {
		fmt.Println("✅ No extraction warnings.")
	}
	fmt.Println(strings.Repeat("-", 40))
}

// Health reports readiness for the observability server.
func (a *App) Health(ctx context.Context) observability.HealthStatus {
	a.mu.Lock()
	defer a.mu.Unlock()
	return observability.HealthStatus{
		Status:  "up",
		LastRun: a.lastRun,
	}
}

func (a *App) StartWatcher() error {
	w, err := watcher.New(
		a.Config.Watch.Debounce,
		a.Config.Exclude.Dirs,
		a.Config.Exclude.Files,
		a.HandleChanges,
	)
	if err != nil {
		return err
	}
	// Not closed here, it runs for the process lifetime.
	return w.Watch(a.Config.Paths)
}
