package app

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"runtime"
	"sort"
	"strings"

	"bibfile/internal/domain"
	"bibfile/internal/logging"
	"bibfile/internal/naming"
	"bibfile/internal/paths"
)

// ProgressFunc is called during scanning to report progress
type ProgressFunc func(current, total int)

// Planner works out how every document below a set of directories should be
// named according to its metadata and a layout pattern.
type Planner struct {
	FS         FileSystem
	Importer   Importer
	Workers    int
	Logger     logging.Logger
	OnProgress ProgressFunc
	Pattern    string
	Database   *domain.Database
}

// Plan renames in place when targetDir is empty and copies into targetDir
// otherwise.
func (p *Planner) Plan(ctx context.Context, sourceDirs []string, targetDir string) (domain.RelinkPlan, error) {
	if p.FS == nil || p.Importer == nil {
		return domain.RelinkPlan{}, errors.New("planner requires FS and Importer")
	}

	stop := p.Logger.Measure("Planning relink")
	defer stop()

	mode := domain.ModeRename
	if targetDir != "" {
		mode = domain.ModeCopy
	}

	candidates, err := p.collect(sourceDirs, targetDir)
	if err != nil {
		return domain.RelinkPlan{}, err
	}

	named, warnings, skipped, err := p.scan(ctx, candidates)
	if err != nil {
		return domain.RelinkPlan{}, err
	}
	p.Logger.Verbosef("Named %d of %d documents (%d without metadata)", len(named), len(candidates), skipped)

	sort.Slice(named, func(i, j int) bool {
		return named[i].SourcePath < named[j].SourcePath
	})
	sort.Strings(warnings)

	plan := domain.RelinkPlan{
		Mode:              mode,
		SkippedNoMetadata: skipped,
		Warnings:          warnings,
	}

	claimed := map[string]string{}
	if mode == domain.ModeRename {
		for _, item := range named {
			current := filepath.Clean(item.SourcePath)
			if filepath.Base(current) == item.FileName+filepath.Ext(current) {
				claimed[current] = item.SourcePath
			}
		}
	}
	for _, item := range named {
		dir := targetDir
		if dir == "" {
			dir = filepath.Dir(item.SourcePath)
		}
		ext := filepath.Ext(item.SourcePath)
		item.TargetPath = claim(claimed, dir, item.FileName, ext, item.SourcePath)
		item.FileName = filepath.Base(item.TargetPath)

		if item.TargetPath == filepath.Clean(item.SourcePath) {
			plan.Unchanged++
			continue
		}

		plan.Items = append(plan.Items, item)
		plan.TotalBytes += item.Size
	}

	// In rename mode a target that another item moves away is free by the
	// time it is written.
	vacated := map[string]bool{}
	if mode == domain.ModeRename {
		for _, item := range plan.Items {
			vacated[filepath.Clean(item.SourcePath)] = true
		}
	}
	for _, item := range plan.Items {
		if vacated[item.TargetPath] {
			continue
		}
		exists, err := p.FS.Exists(item.TargetPath)
		if err != nil {
			return domain.RelinkPlan{}, err
		}
		if exists {
			plan.OverrideItems = append(plan.OverrideItems, item)
		}
	}

	p.Logger.Verbosef("Planned %d items, %d unchanged, %d overrides", len(plan.Items), plan.Unchanged, len(plan.OverrideItems))
	return plan, nil
}

// claim picks dir/name+ext, or "name (n)"+ext when another source already
// took that path in this plan.
func claim(claimed map[string]string, dir, name, ext, source string) string {
	for n := 0; ; n++ {
		candidate := name
		if n > 0 {
			candidate = fmt.Sprintf("%s (%d)", name, n)
		}
		target := filepath.Join(dir, candidate+ext)
		owner, taken := claimed[target]
		if !taken || owner == source {
			claimed[target] = source
			return target
		}
	}
}

// collect walks the source dirs for document files. Files below targetDir
// are ignored so a copy target inside a source dir is not picked up again.
func (p *Planner) collect(sourceDirs []string, targetDir string) ([]string, error) {
	stop := p.Logger.Measure("Scanning source directories")
	defer stop()

	seen := map[string]bool{}
	var candidates []string
	for _, dir := range sourceDirs {
		err := p.FS.WalkDir(dir, func(path string, d fs.DirEntry, walkErr error) error {
			if walkErr != nil {
				return walkErr
			}
			if d.IsDir() {
				if targetDir != "" && path != dir && paths.HasPrefix(path, targetDir) {
					return fs.SkipDir
				}
				return nil
			}
			if !domain.IsDocumentExtension(filepath.Ext(d.Name())) || seen[path] {
				return nil
			}
			seen[path] = true
			candidates = append(candidates, path)
			return nil
		})
		if err != nil {
			return nil, err
		}
	}
	p.Logger.Verbosef("Found %d candidate documents in %s", len(candidates), strings.Join(sourceDirs, ", "))
	return candidates, nil
}

func (p *Planner) scan(ctx context.Context, candidates []string) ([]domain.RelinkItem, []string, int, error) {
	workerCount := p.Workers
	if workerCount <= 0 {
		workerCount = runtime.NumCPU()
	}
	if workerCount < 1 {
		workerCount = 1
	}
	p.Logger.Verbosef("Using %d metadata workers", workerCount)

	jobs := make(chan string)
	results := make(chan nameResult, len(candidates))

	for i := 0; i < workerCount; i++ {
		go func() {
			for path := range jobs {
				results <- p.name(ctx, path)
			}
		}()
	}

	go func() {
		defer close(jobs)
		for _, path := range candidates {
			select {
			case <-ctx.Done():
				return
			case jobs <- path:
			}
		}
	}()

	var items []domain.RelinkItem
	var warnings []string
	skipped := 0
	total := len(candidates)
	for i := range candidates {
		var res nameResult
		select {
		case <-ctx.Done():
			return nil, nil, 0, ctx.Err()
		case res = <-results:
		}
		if res.err != nil {
			return nil, nil, 0, res.err
		}
		if res.warning != "" {
			warnings = append(warnings, res.warning)
		}
		if res.skip {
			skipped++
		} else {
			items = append(items, res.item)
		}

		if p.OnProgress != nil {
			p.OnProgress(i+1, total)
		}
	}

	return items, warnings, skipped, nil
}

type nameResult struct {
	item    domain.RelinkItem
	warning string
	skip    bool
	err     error
}

func (p *Planner) name(ctx context.Context, path string) nameResult {
	info, err := p.FS.Stat(path)
	if err != nil {
		return nameResult{err: err}
	}

	parsed := p.Importer.Import(ctx, path)
	if parsed.Failed() {
		if errors.Is(parsed.Err, context.Canceled) || errors.Is(parsed.Err, context.DeadlineExceeded) {
			return nameResult{err: parsed.Err}
		}
		return nameResult{skip: true, warning: fmt.Sprintf("Metadata unreadable for %s: %v", filepath.Base(path), parsed.Err)}
	}
	if parsed.IsEmpty() {
		return nameResult{skip: true, warning: fmt.Sprintf("No metadata found in %s", filepath.Base(path))}
	}

	warning := ""
	if len(parsed.Entries) > 1 {
		warning = fmt.Sprintf("%d entries in %s, naming after the first", len(parsed.Entries), filepath.Base(path))
	}

	entry := parsed.Entries[0]
	return nameResult{
		item: domain.RelinkItem{
			SourcePath: path,
			FileName:   naming.FileNameFromPattern(p.Database, entry, p.pattern(), p.Logger),
			Entry:      entry,
			Size:       info.Size(),
		},
		warning: warning,
	}
}

func (p *Planner) pattern() string {
	if p.Pattern == "" {
		return naming.DefaultPattern
	}
	return p.Pattern
}
