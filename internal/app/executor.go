package app

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"

	"bibfile/internal/domain"
	"bibfile/internal/paths"
)

// ExecuteProgressFunc is called after every handled item, skipped ones
// included.
type ExecuteProgressFunc func(current, total int, file string)

type Executor struct {
	Files      *FileOps
	OnProgress ExecuteProgressFunc
}

// Execute copies or renames every planned item. Items whose target already
// exists are skipped unless includeOverrides is set.
//
// Renames run so that a file is moved away before another item takes its
// name. Renames that form a cycle are broken by parking one file under a
// temporary name first.
func (e *Executor) Execute(ctx context.Context, plan domain.RelinkPlan, includeOverrides bool) error {
	if e.Files == nil || e.Files.FS == nil {
		return errors.New("executor requires Files")
	}

	items := append([]domain.RelinkItem(nil), plan.Items...)
	skipped := skippedItems(plan, includeOverrides)

	order := make([]int, len(items))
	for i := range order {
		order[i] = i
	}
	if plan.Mode == domain.ModeRename {
		var parked []int
		order, parked = renameOrder(items, skipped)
		for _, i := range parked {
			if err := ctx.Err(); err != nil {
				return err
			}
			temp, err := e.parkingName(items[i].SourcePath)
			if err != nil {
				return err
			}
			if err := e.Files.Rename(items[i].SourcePath, filepath.Base(temp), false); err != nil {
				return err
			}
			e.Files.Logger.Verbosef("Parked %s as %s to break a rename cycle", items[i].SourcePath, temp)
			items[i].SourcePath = temp
		}
	}

	total := len(items)
	for n, i := range order {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}
		item := items[i]

		if !skipped[i] {
			var err error
			if plan.Mode == domain.ModeCopy {
				err = e.Files.Copy(item.SourcePath, item.TargetPath, includeOverrides)
			} else {
				// Rename targets are always siblings of their source.
				err = e.Files.Rename(item.SourcePath, filepath.Base(item.TargetPath), includeOverrides)
			}
			if err != nil {
				return err
			}
		}

		if e.OnProgress != nil {
			e.OnProgress(n+1, total, item.FileName)
		}
	}
	return nil
}

// skippedItems marks the override items when overrides are declined. In
// rename mode a skipped item keeps its source in place, so an item that
// would have moved onto that source is skipped as well.
func skippedItems(plan domain.RelinkPlan, includeOverrides bool) map[int]bool {
	skipped := map[int]bool{}
	if includeOverrides {
		return skipped
	}

	overrideTargets := map[string]bool{}
	for _, item := range plan.OverrideItems {
		overrideTargets[filepath.Clean(item.TargetPath)] = true
	}
	blocked := map[string]bool{}
	for i, item := range plan.Items {
		if overrideTargets[filepath.Clean(item.TargetPath)] {
			skipped[i] = true
			blocked[filepath.Clean(item.SourcePath)] = true
		}
	}
	if plan.Mode != domain.ModeRename {
		return skipped
	}

	for changed := true; changed; {
		changed = false
		for i, item := range plan.Items {
			if skipped[i] || !blocked[filepath.Clean(item.TargetPath)] {
				continue
			}
			skipped[i] = true
			blocked[filepath.Clean(item.SourcePath)] = true
			changed = true
		}
	}
	return skipped
}

// renameOrder returns the item indexes so that every item runs after the
// item that vacates its target. parked lists one item per cycle whose source
// has to be moved aside before the ordered renames start.
func renameOrder(items []domain.RelinkItem, skipped map[int]bool) (order, parked []int) {
	bySource := map[string]int{}
	for i, item := range items {
		if !skipped[i] {
			bySource[filepath.Clean(item.SourcePath)] = i
		}
	}

	const (
		unvisited = iota
		visiting
		done
	)
	state := make([]int, len(items))
	var visit func(i int)
	visit = func(i int) {
		state[i] = visiting
		if j, ok := bySource[filepath.Clean(items[i].TargetPath)]; ok && j != i {
			switch state[j] {
			case unvisited:
				visit(j)
			case visiting:
				parked = append(parked, j)
			}
		}
		state[i] = done
		order = append(order, i)
	}
	for i := range items {
		if state[i] == unvisited {
			visit(i)
		}
	}
	return order, parked
}

// parkingName finds a free sibling of path carrying a ".relink" extension.
func (e *Executor) parkingName(path string) (string, error) {
	for n := 0; ; n++ {
		ext := ".relink"
		if n > 0 {
			ext = fmt.Sprintf(".relink%d", n)
		}
		candidate := paths.AddExtension(path, ext)
		exists, err := e.Files.FS.Exists(candidate)
		if err != nil {
			return "", err
		}
		if !exists {
			return candidate, nil
		}
	}
}
