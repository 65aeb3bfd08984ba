package main

import (
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"organize/internal/audit"
	"organize/internal/config"
	"organize/internal/organize"
	"organize/internal/rules"
	"organize/internal/watch"
)

// newWatchCmd creates the watch command: keep a directory organized as
// files arrive, until interrupted.
func newWatchCmd() *cobra.Command {
	settings := config.Default()

	cmd := &cobra.Command{
		Use:   "watch <directory>",
		Short: "Watch a directory and organize new files as they appear",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
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

			watcher, err := watch.New(args[0], engine, auditLog.Base())
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			return watcher.Run(ctx)
		},
	}
	addRunFlags(cmd, settings)
	return cmd
}
