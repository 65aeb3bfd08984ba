// Package organize plans and applies the sorting of a directory's direct
// children into destination folders.
package organize

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/gobwas/glob"

	"organize/internal/audit"
	"organize/internal/config"
	"organize/internal/errors"
	"organize/internal/rules"
	"organize/pkg/types"
)

// Engine holds everything one run needs: the rule table, the collision
// policy, compiled exclude patterns and the audit logger.
type Engine struct {
	table     *rules.Table
	collision string
	excludes  []glob.Glob
	audit     *audit.Logger
	dryRun    bool
}

// New builds an Engine from validated settings.
func New(table *rules.Table, settings *config.Settings, auditLog *audit.Logger) (*Engine, error) {
	excludes := make([]glob.Glob, 0, len(settings.Excludes))
	for _, pattern := range settings.Excludes {
		g, err := glob.Compile(pattern)
		if err != nil {
			return nil, errors.NewConfigError("invalid exclude pattern", pattern, errors.ConfigSchema, err)
		}
		excludes = append(excludes, g)
	}
	return &Engine{
		table:     table,
		collision: settings.Collision,
		excludes:  excludes,
		audit:     auditLog,
		dryRun:    settings.DryRun,
	}, nil
}

// IsDryRun returns whether the engine is in dry run mode
func (e *Engine) IsDryRun() bool {
	return e.dryRun
}

// Plan enumerates the direct children of dir in directory-listing order and
// produces the full action list without touching anything. Subdirectories
// emit no action. Planning fails outright when dir is missing or not a
// directory; that is the fatal case and happens before any mutation.
func (e *Engine) Plan(dir string) ([]types.Action, error) {
	info, err := os.Stat(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.NewFileError("target directory does not exist", dir, errors.TargetNotFound, err)
		}
		return nil, errors.NewFileError("cannot access target directory", dir, errors.AccessDenied, err)
	}
	if !info.IsDir() {
		return nil, errors.NewFileError("target is not a directory", dir, errors.NotADirectory, nil)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, errors.NewFileError("cannot read target directory", dir, errors.AccessDenied, err)
	}

	var actions []types.Action
	planned := make(map[string]bool) // folders already scheduled for creation

	for _, entry := range entries {
		if entry.IsDir() {
			// Existing subdirectories are left untouched, whatever their name.
			continue
		}
		name := entry.Name()
		src := filepath.Join(dir, name)

		if e.excluded(name) {
			actions = append(actions, types.Action{Kind: types.Skip, Source: src, Reason: types.ReasonExcluded})
			continue
		}

		folder, ok := e.table.Classify(name)
		if !ok {
			reason := types.ReasonNoRule
			if rules.ExtensionOf(name) == "" {
				reason = types.ReasonNoExtension
			}
			actions = append(actions, types.Action{Kind: types.Skip, Source: src, Reason: reason})
			continue
		}

		destDir := filepath.Join(dir, folder)
		if !planned[folder] {
			planned[folder] = true
			actions = append(actions, types.Action{Kind: types.CreateFolder, Destination: destDir})
		}
		actions = append(actions, types.Action{
			Kind:        types.MoveFile,
			Source:      src,
			Destination: filepath.Join(destDir, name),
		})
	}

	return actions, nil
}

// Apply executes a plan and records every outcome in the audit log. In dry
// run mode no filesystem mutation happens but the records are identical.
// A per-action failure is tallied and the loop continues; one file never
// aborts the run.
func (e *Engine) Apply(plan []types.Action) types.Summary {
	var sum types.Summary
	for _, act := range plan {
		res := e.apply(act)
		e.audit.Record(res)
		sum.Results = append(sum.Results, res)
		// Tallies count successful outcomes in both modes so a dry run
		// reports the same numbers the real run would.
		switch {
		case res.Error != nil:
			sum.Failed++
		case act.Kind == types.CreateFolder:
			sum.Created++
		case act.Kind == types.MoveFile:
			sum.Moved++
		case act.Kind == types.Skip:
			sum.Skipped++
		}
	}
	return sum
}

// Organize is the full run: plan then apply.
func (e *Engine) Organize(dir string) (types.Summary, error) {
	plan, err := e.Plan(dir)
	if err != nil {
		return types.Summary{}, err
	}
	return e.Apply(plan), nil
}

// OrganizeFile classifies and moves a single file, used by watch mode.
// The result is recorded in the audit log.
func (e *Engine) OrganizeFile(path string) types.Result {
	name := filepath.Base(path)

	var res types.Result
	switch {
	case e.excluded(name):
		res = types.Result{Action: types.Action{Kind: types.Skip, Source: path, Reason: types.ReasonExcluded}}
	default:
		folder, ok := e.table.Classify(name)
		if !ok {
			reason := types.ReasonNoRule
			if rules.ExtensionOf(name) == "" {
				reason = types.ReasonNoExtension
			}
			res = types.Result{Action: types.Action{Kind: types.Skip, Source: path, Reason: reason}}
			break
		}
		destDir := filepath.Join(filepath.Dir(path), folder)
		if created := e.apply(types.Action{Kind: types.CreateFolder, Destination: destDir}); created.Error != nil {
			e.audit.Record(created)
			return created
		}
		res = e.apply(types.Action{
			Kind:        types.MoveFile,
			Source:      path,
			Destination: filepath.Join(destDir, name),
		})
	}
	e.audit.Record(res)
	return res
}

func (e *Engine) apply(act types.Action) types.Result {
	res := types.Result{Action: act}
	switch act.Kind {
	case types.CreateFolder:
		res.Error = e.createFolder(act.Destination)
		res.Done = res.Error == nil && !e.dryRun
	case types.MoveFile:
		dest, err := e.moveFile(act.Source, act.Destination)
		res.Destination = dest
		res.Error = err
		res.Done = err == nil && !e.dryRun
	case types.Skip:
		// Nothing to do; the record itself is the point.
	}
	return res
}

// createFolder is idempotent: an existing directory is fine, a file
// squatting on the folder name is an error.
func (e *Engine) createFolder(dir string) error {
	info, err := os.Stat(dir)
	switch {
	case err == nil && info.IsDir():
		return nil
	case err == nil:
		return errors.NewFileError("a file occupies the destination folder name", dir, errors.FolderCreateFailed, nil)
	case !os.IsNotExist(err):
		return errors.NewFileError("cannot access destination folder", dir, errors.FolderCreateFailed, err)
	}
	if e.dryRun {
		return nil
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return errors.NewFileError("failed to create destination folder", dir, errors.FolderCreateFailed, err)
	}
	return nil
}

// moveFile resolves collisions per policy and performs the move. The
// collision check runs in dry run mode too, so both modes report the
// same outcome for the same directory state.
func (e *Engine) moveFile(src, dest string) (string, error) {
	finalDest, err := e.resolveCollision(dest)
	if err != nil {
		return "", err
	}
	if e.dryRun {
		return finalDest, nil
	}
	if err := os.Rename(src, finalDest); err != nil {
		return "", errors.NewFileError("failed to move file", src, errors.MoveFailed, err)
	}
	return finalDest, nil
}

// resolveCollision returns the destination to use. With the skip policy an
// occupied destination is an error the caller logs and moves past; with
// rename a counter suffix is appended until a free name is found.
func (e *Engine) resolveCollision(dest string) (string, error) {
	_, err := os.Stat(dest)
	if os.IsNotExist(err) {
		return dest, nil
	}
	if err != nil {
		return "", errors.NewFileError("error checking destination", dest, errors.MoveFailed, err)
	}

	if e.collision == config.CollisionRename {
		return uniqueDestName(dest)
	}
	return "", errors.NewFileError(types.ReasonCollision, dest, errors.Collision, nil)
}

// uniqueDestName finds a free name by adding a counter to the basename.
func uniqueDestName(originalPath string) (string, error) {
	ext := filepath.Ext(originalPath)
	base := strings.TrimSuffix(originalPath, ext)

	for counter := 1; counter <= 1000; counter++ {
		newName := fmt.Sprintf("%s_(%d)%s", base, counter, ext)
		if _, err := os.Stat(newName); os.IsNotExist(err) {
			return newName, nil
		}
	}
	return "", errors.NewFileError("failed to find unique name after 1000 attempts", originalPath, errors.Collision, nil)
}

func (e *Engine) excluded(name string) bool {
	for _, g := range e.excludes {
		if g.Match(name) {
			return true
		}
	}
	return false
}
