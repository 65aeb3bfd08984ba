package main

import (
	"fmt"
	"hash/fnv"
	"io"
	"os"
	"path/filepath"

	"github.com/gofrs/flock"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"organize/internal/audit"
	"organize/internal/config"
	"organize/internal/errors"
	"organize/internal/organize"
	"organize/internal/rules"
	"organize/pkg/types"
)

// newRunCmd creates the run command
func newRunCmd() *cobra.Command {
	settings := config.Default()

	cmd := &cobra.Command{
		Use:   "run <directory>",
		Short: "Organize a directory once",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runOrganize(cmd, args[0], settings)
		},
	}
	addRunFlags(cmd, settings)
	return cmd
}

// runOrganize is the one-shot run shared by the root command and `run`.
// Fatal errors (bad settings, unloadable rules, missing target) return
// and produce a non-zero exit; per-file failures are logged, counted and
// do not change the exit code.
func runOrganize(cmd *cobra.Command, target string, settings *config.Settings) error {
	if err := settings.Validate(); err != nil {
		return err
	}

	auditLog, err := audit.New(settings.LogFile, settings.Quiet, settings.DryRun)
	if err != nil {
		return err
	}
	defer auditLog.Close()

	ruleTable, err := rules.Load(settings.RulesPath, auditLog.Base())
	if err != nil {
		return err
	}

	engine, err := organize.New(ruleTable, settings, auditLog)
	if err != nil {
		return err
	}

	// One run per target directory at a time; a second simultaneous
	// invocation fails fast instead of interleaving moves.
	lock := flock.New(lockPath(target))
	locked, err := lock.TryLock()
	if err != nil {
		return errors.Wrapf(err, "cannot acquire run lock for %s", target)
	}
	if !locked {
		return errors.Newf("another organize run is already active on %s", target)
	}
	defer lock.Unlock()

	auditLog.Begin(target)
	sum, err := engine.Organize(target)
	if err != nil {
		return err
	}
	auditLog.End(sum)

	if !settings.Quiet {
		printSummary(cmd.OutOrStdout(), sum, settings.DryRun)
	}
	return nil
}

// lockPath returns a per-target lock file under the system temp directory,
// keyed on the absolute target path so the lock never shows up in a
// dry run snapshot of the target itself.
func lockPath(target string) string {
	abs, err := filepath.Abs(target)
	if err != nil {
		abs = target
	}
	h := fnv.New64a()
	h.Write([]byte(abs))
	return filepath.Join(os.TempDir(), fmt.Sprintf("organize-%x.lock", h.Sum64()))
}

func printSummary(w io.Writer, sum types.Summary, dryRun bool) {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.AppendHeader(table.Row{"Action", "Source", "Destination / Reason", "Status"})

	for _, res := range sum.Results {
		var detail string
		switch res.Action.Kind {
		case types.CreateFolder:
			detail = res.Action.Destination
		case types.MoveFile:
			detail = res.Destination
			if detail == "" {
				detail = res.Action.Destination
			}
		case types.Skip:
			detail = res.Action.Reason
		}

		status := "done"
		switch {
		case res.Error != nil:
			status = fmt.Sprintf("failed: %v", res.Error)
		case res.Action.Kind == types.Skip:
			status = "skipped"
		case dryRun:
			status = "planned"
		}

		t.AppendRow(table.Row{res.Action.Kind, res.Action.Source, detail, status})
	}

	t.AppendFooter(table.Row{
		"", "",
		fmt.Sprintf("created %d / moved %d", sum.Created, sum.Moved),
		fmt.Sprintf("skipped %d / failed %d", sum.Skipped, sum.Failed),
	})
	t.Render()

	if dryRun {
		fmt.Fprintln(w, "Dry run complete. No files were moved.")
	}
}
